package actions

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"

	"github.com/inkpress/inkpress/app/models"
	"github.com/inkpress/inkpress/internal/pkg/realtime"
	"github.com/inkpress/inkpress/internal/pkg/viewmodel"
)

// CreateCommentInput is the submitted shape for a new comment.
type CreateCommentInput struct {
	PostUUID string
	Body     string
}

// CreateComment writes an immutable comment under an existing post. The
// author identity comes from the session, never from input.
func (a *Actions) CreateComment(ctx context.Context, identity Identity, input CreateCommentInput) *ActionError {
	post, err := a.posts.GetByUUID(input.PostUUID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound("post not found")
		}
		return internalError("failed to load post", err)
	}

	comment := models.Comment{
		PostID:      post.ID,
		Body:        input.Body,
		AuthorID:    identity.UserID,
		AuthorEmail: identity.Email,
	}
	if err := comment.Validate(); err != nil {
		return validationFailed(err.Error())
	}

	if err := a.comments.Create(&comment); err != nil {
		return internalError("failed to create comment", err)
	}

	a.publishComments(post.ID, post.UUID)

	return nil
}

// publishComments pushes the refreshed comment list of a post to its live
// subscribers. Best-effort: the comment itself is already committed.
func (a *Actions) publishComments(postID uint, postUUID string) {
	if a.publisher == nil {
		return
	}
	comments, err := a.comments.ListByPostID(postID)
	if err != nil {
		log.Warnf("failed to refresh comments of %s for subscribers: %v", postUUID, err)
		return
	}
	views := viewmodel.NewCommentViews(postUUID, comments)
	if err := a.publisher.Publish(realtime.TopicComments(postUUID), views); err != nil {
		log.Warnf("failed to publish comment snapshot for %s: %v", postUUID, err)
	}
}
