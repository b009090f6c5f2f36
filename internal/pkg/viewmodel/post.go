package viewmodel

import (
	"context"
	"time"

	"github.com/inkpress/inkpress/app/models"
)

// FallbackImageURL is served whenever a post has no blob attached or its URL
// cannot be resolved.
const FallbackImageURL = "https://picsum.photos/500.webp?blur"

// URLResolver resolves a blob key to a fetchable URL.
type URLResolver interface {
	ResolveURL(ctx context.Context, key string) (string, error)
}

// PostView is the read-side shape of a post with its cover image resolved.
type PostView struct {
	UUID        string    `json:"id"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	AuthorID    uint      `json:"author_id"`
	AuthorEmail string    `json:"author_email"`
	ImageURL    string    `json:"image_url"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CommentView is the read-side shape of a comment.
type CommentView struct {
	ID          uint      `json:"id"`
	PostUUID    string    `json:"post_id"`
	Body        string    `json:"body"`
	AuthorID    uint      `json:"author_id"`
	AuthorEmail string    `json:"author_email"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewPostView builds a view with the cover URL resolved at read time. URL
// resolution failure degrades to the fallback URL, never to an error.
func NewPostView(ctx context.Context, resolver URLResolver, post *models.Post) PostView {
	imageURL := FallbackImageURL
	if post.BlobKey != "" && resolver != nil {
		if resolved, err := resolver.ResolveURL(ctx, post.BlobKey); err == nil && resolved != "" {
			imageURL = resolved
		}
	}

	return PostView{
		UUID:        post.UUID,
		Title:       post.Title,
		Content:     post.Content,
		AuthorID:    post.AuthorID,
		AuthorEmail: post.AuthorEmail,
		ImageURL:    imageURL,
		CreatedAt:   post.CreatedAt,
		UpdatedAt:   post.UpdatedAt,
	}
}

// NewPostViews maps a post listing into views, preserving order.
func NewPostViews(ctx context.Context, resolver URLResolver, posts []models.Post) []PostView {
	views := make([]PostView, 0, len(posts))
	for i := range posts {
		views = append(views, NewPostView(ctx, resolver, &posts[i]))
	}
	return views
}

// NewCommentView builds the read-side shape of a comment.
func NewCommentView(postUUID string, comment *models.Comment) CommentView {
	return CommentView{
		ID:          comment.ID,
		PostUUID:    postUUID,
		Body:        comment.Body,
		AuthorID:    comment.AuthorID,
		AuthorEmail: comment.AuthorEmail,
		CreatedAt:   comment.CreatedAt,
	}
}

// NewCommentViews maps a comment listing into views, preserving order.
func NewCommentViews(postUUID string, comments []models.Comment) []CommentView {
	views := make([]CommentView, 0, len(comments))
	for i := range comments {
		views = append(views, NewCommentView(postUUID, &comments[i]))
	}
	return views
}
