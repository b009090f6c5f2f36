package actions

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"

	"github.com/inkpress/inkpress/app/models"
	"github.com/inkpress/inkpress/internal/pkg/realtime"
	"github.com/inkpress/inkpress/internal/pkg/storage"
)

// CreatePostInput is the submitted shape for a new post. The cover image is
// mandatory: a post is never persisted without a blob reference.
type CreatePostInput struct {
	Title   string
	Content string
	Image   *Upload
}

// UpdatePostInput is the submitted shape for editing a post. Either a new
// image or the key of the currently attached blob must be supplied.
type UpdatePostInput struct {
	UUID    string
	Title   string
	Content string
	Image   *Upload
	BlobKey string
}

// CreatePost uploads the cover image and then persists the post. The order is
// strict: a failed upload means no record is written at all.
func (a *Actions) CreatePost(ctx context.Context, identity Identity, input CreatePostInput) (string, *ActionError) {
	post := models.Post{
		Title:   input.Title,
		Content: input.Content,
	}
	if err := post.Validate(); err != nil {
		return "", validationFailed(err.Error())
	}
	if input.Image == nil || len(input.Image.Content) == 0 {
		return "", validationFailed("a cover image is required")
	}

	blobKey, actionErr := a.uploadBlob(ctx, input.Image)
	if actionErr != nil {
		return "", actionErr
	}

	post.BlobKey = blobKey
	post.AuthorID = identity.UserID
	post.AuthorEmail = identity.Email
	if err := a.posts.Create(&post); err != nil {
		return "", internalError("failed to create post", err)
	}

	a.afterPostWrite(ctx)

	return post.UUID, nil
}

// UpdatePost edits a post owned by the caller. A newly submitted image is
// uploaded before anything else; only after that upload succeeds is the
// superseded blob deleted, so a failed upload never loses the old cover.
func (a *Actions) UpdatePost(ctx context.Context, identity Identity, input UpdatePostInput) (string, *ActionError) {
	post, err := a.posts.GetByUUID(input.UUID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", notFound("post not found")
		}
		return "", internalError("failed to load post", err)
	}
	if post.AuthorID != identity.UserID {
		return "", forbidden("only the author can edit a post")
	}

	draft := *post
	draft.Title = input.Title
	draft.Content = input.Content
	if err := draft.Validate(); err != nil {
		return "", validationFailed(err.Error())
	}

	finalKey := input.BlobKey
	if input.Image != nil && len(input.Image.Content) > 0 {
		newKey, actionErr := a.uploadBlob(ctx, input.Image)
		if actionErr != nil {
			return "", actionErr
		}
		if post.BlobKey != "" && post.BlobKey != newKey {
			a.deleteBlobBestEffort(ctx, post.BlobKey)
		}
		finalKey = newKey
	}
	if finalKey == "" {
		return "", validationFailed("no cover image reference resolvable")
	}

	post.Title = input.Title
	post.Content = input.Content
	post.BlobKey = finalKey
	post.AuthorID = identity.UserID
	post.AuthorEmail = identity.Email
	if err := a.posts.Update(post); err != nil {
		return "", internalError("failed to update post", err)
	}

	a.afterPostWrite(ctx)

	return post.UUID, nil
}

// uploadBlob performs the two-step write: request a one-time upload URL, then
// PUT the bytes to it. Any non-2xx response is surfaced as an upload failure.
func (a *Actions) uploadBlob(ctx context.Context, upload *Upload) (string, *ActionError) {
	key := storage.NewCoverKey(upload.ContentType)

	uploadURL, err := a.blobs.GenerateUploadURL(ctx, key, upload.ContentType)
	if err != nil {
		return "", uploadFailed(fmt.Sprintf("failed to create upload url: %v", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, uploadURL, bytes.NewReader(upload.Content))
	if err != nil {
		return "", uploadFailed(fmt.Sprintf("failed to build upload request: %v", err))
	}
	req.Header.Set("Content-Type", upload.ContentType)

	resp, err := a.client.Do(req)
	if err != nil {
		return "", uploadFailed(fmt.Sprintf("upload failed: %v", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", uploadFailed(fmt.Sprintf("upload failed with status %d", resp.StatusCode))
	}

	return key, nil
}

// deleteBlobBestEffort cleans up a superseded cover. Its failure is logged,
// never propagated: the new post state is already safe at this point.
func (a *Actions) deleteBlobBestEffort(ctx context.Context, key string) {
	if !storage.IsCoverKey(key) {
		return
	}
	if err := a.blobs.Delete(ctx, key); err != nil {
		log.Warnf("failed to delete superseded blob %s: %v", key, err)
	}
}

// afterPostWrite invalidates the cached listing and pushes a fresh snapshot
// to live subscribers. Both are best-effort; the write itself already
// committed.
func (a *Actions) afterPostWrite(ctx context.Context) {
	if a.listing != nil {
		if err := a.listing.InvalidatePostList(); err != nil {
			log.Warnf("failed to invalidate post listing cache: %v", err)
		}
	}
	if a.publisher != nil {
		views, err := a.refreshPostList(ctx)
		if err != nil {
			log.Warnf("failed to refresh post listing for subscribers: %v", err)
			return
		}
		if err := a.publisher.Publish(realtime.TopicPosts, views); err != nil {
			log.Warnf("failed to publish post listing snapshot: %v", err)
		}
	}
}
