package actions

import (
	"net/http"
	"time"

	"github.com/inkpress/inkpress/app/repository"
	"github.com/inkpress/inkpress/internal/pkg/storage"
)

// Identity is the caller identity resolved from the session by the gateway.
// Actions trust it entirely; nothing identity-related is read from input.
type Identity struct {
	UserID uint
	Email  string
}

// Upload carries submitted image bytes and their declared content type.
type Upload struct {
	Content     []byte
	ContentType string
}

// ListingCache caches the post listing snapshot; writers invalidate it.
type ListingCache interface {
	GetPostList() (string, bool)
	SetPostList(payload []byte) error
	InvalidatePostList() error
}

// Publisher pushes refreshed query snapshots to live subscribers.
type Publisher interface {
	Publish(topic string, data interface{}) error
}

// Actions is the server-side entry point layer: it validates input, sequences
// blob uploads against record writes, and keeps the cache and live
// subscriptions coherent. All collaborators are injected once at startup and
// shared read-only afterwards.
type Actions struct {
	posts     repository.PostRepository
	comments  repository.CommentRepository
	reactions repository.ReactionRepository
	blobs     storage.BlobStore
	listing   ListingCache
	publisher Publisher
	client    *http.Client
}

// New wires the action layer. publisher and listing may be nil in tests; the
// corresponding side effects are skipped.
func New(
	posts repository.PostRepository,
	comments repository.CommentRepository,
	reactions repository.ReactionRepository,
	blobs storage.BlobStore,
	listing ListingCache,
	publisher Publisher,
) *Actions {
	return &Actions{
		posts:     posts,
		comments:  comments,
		reactions: reactions,
		blobs:     blobs,
		listing:   listing,
		publisher: publisher,
		client:    &http.Client{Timeout: 30 * time.Second},
	}
}
