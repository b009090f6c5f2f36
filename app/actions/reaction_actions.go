package actions

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/inkpress/inkpress/app/models"
)

// SetReactionInput is the submitted shape for reacting to a post.
type SetReactionInput struct {
	PostUUID string
	Kind     string
}

// SetReaction creates or overwrites the caller's reaction on a post. At most
// one reaction per (post, author) pair exists at any time.
func (a *Actions) SetReaction(ctx context.Context, identity Identity, input SetReactionInput) *ActionError {
	if !models.IsValidReactionKind(input.Kind) {
		return validationFailed("unknown reaction kind")
	}

	post, err := a.posts.GetByUUID(input.PostUUID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound("post not found")
		}
		return internalError("failed to load post", err)
	}

	if err := a.reactions.Set(post.ID, identity.UserID, input.Kind); err != nil {
		return internalError("failed to set reaction", err)
	}

	return nil
}

// GetReactionCounts returns the per-kind reaction totals of a post.
func (a *Actions) GetReactionCounts(ctx context.Context, postUUID string) (map[string]int64, *ActionError) {
	post, err := a.posts.GetByUUID(postUUID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("post not found")
		}
		return nil, internalError("failed to load post", err)
	}

	counts, err := a.reactions.CountsByPostID(post.ID)
	if err != nil {
		return nil, internalError("failed to count reactions", err)
	}
	return counts, nil
}
