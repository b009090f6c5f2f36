package repository

import (
	"gorm.io/gorm"

	"github.com/inkpress/inkpress/app/models"
)

// commentRepository implements the CommentRepository interface
type commentRepository struct {
	db *gorm.DB
}

// NewCommentRepository creates a new comment repository instance
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

// Create creates a new comment in the database
func (r *commentRepository) Create(comment *models.Comment) error {
	return r.db.Create(comment).Error
}

// ListByPostID retrieves the comments of a post, newest first
func (r *commentRepository) ListByPostID(postID uint) ([]models.Comment, error) {
	var comments []models.Comment
	err := r.db.Preload("Author").Where("post_id = ?", postID).
		Order("created_at DESC").Find(&comments).Error
	return comments, err
}

// CountByPostID returns the number of comments on a post
func (r *commentRepository) CountByPostID(postID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Comment{}).Where("post_id = ?", postID).Count(&count).Error
	return count, err
}
