package actions

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"

	"github.com/inkpress/inkpress/internal/pkg/viewmodel"
)

// ListPosts returns all posts newest first, cover URLs resolved. Reads go
// through the cached listing snapshot; a miss rebuilds and re-caches it.
func (a *Actions) ListPosts(ctx context.Context) ([]viewmodel.PostView, *ActionError) {
	if a.listing != nil {
		if cached, ok := a.listing.GetPostList(); ok {
			var views []viewmodel.PostView
			if err := json.Unmarshal([]byte(cached), &views); err == nil {
				return views, nil
			}
			// Unreadable cache entry: fall through to a rebuild.
		}
	}

	views, err := a.refreshPostList(ctx)
	if err != nil {
		return nil, internalError("failed to list posts", err)
	}
	return views, nil
}

// refreshPostList rebuilds the listing snapshot from the database and
// re-caches it.
func (a *Actions) refreshPostList(ctx context.Context) ([]viewmodel.PostView, error) {
	posts, err := a.posts.List()
	if err != nil {
		return nil, err
	}
	views := viewmodel.NewPostViews(ctx, a.blobs, posts)

	if a.listing != nil {
		if payload, err := json.Marshal(views); err == nil {
			if err := a.listing.SetPostList(payload); err != nil {
				log.Warnf("failed to cache post listing: %v", err)
			}
		}
	}

	return views, nil
}

// GetPost returns a single post by its public id. An absent post is a valid
// outcome surfaced as the not_found kind, never as a fault.
func (a *Actions) GetPost(ctx context.Context, uuid string) (*viewmodel.PostView, *ActionError) {
	post, err := a.posts.GetByUUID(uuid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("post not found")
		}
		return nil, internalError("failed to load post", err)
	}

	view := viewmodel.NewPostView(ctx, a.blobs, post)
	return &view, nil
}

// ListComments returns the comments of a post, newest first.
func (a *Actions) ListComments(ctx context.Context, postUUID string) ([]viewmodel.CommentView, *ActionError) {
	post, err := a.posts.GetByUUID(postUUID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("post not found")
		}
		return nil, internalError("failed to load post", err)
	}

	comments, err := a.comments.ListByPostID(post.ID)
	if err != nil {
		return nil, internalError("failed to list comments", err)
	}

	return viewmodel.NewCommentViews(post.UUID, comments), nil
}
