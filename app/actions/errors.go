package actions

// Kind discriminates action failures for the caller. Unauthenticated callers
// never reach the action layer: the auth middleware redirects them, so there
// is no kind for it.
type Kind string

const (
	KindValidationFailed Kind = "validation_failed"
	KindUploadFailed     Kind = "upload_failed"
	KindNotFound         Kind = "not_found"
	KindForbidden        Kind = "forbidden"
	KindInternal         Kind = "internal"
)

// ActionError is the tagged result returned across the action boundary. It is
// consumed by controllers to pick a status code and user-facing message;
// nothing ever panics across this boundary.
type ActionError struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *ActionError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *ActionError) Unwrap() error {
	return e.Err
}

func validationFailed(message string) *ActionError {
	return &ActionError{Kind: KindValidationFailed, Message: message}
}

func uploadFailed(message string) *ActionError {
	return &ActionError{Kind: KindUploadFailed, Message: message}
}

func notFound(message string) *ActionError {
	return &ActionError{Kind: KindNotFound, Message: message}
}

func forbidden(message string) *ActionError {
	return &ActionError{Kind: KindForbidden, Message: message}
}

func internalError(message string, err error) *ActionError {
	return &ActionError{Kind: KindInternal, Message: message, Err: err}
}
