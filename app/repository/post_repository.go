package repository

import (
	"gorm.io/gorm"

	"github.com/inkpress/inkpress/app/models"
)

// postRepository implements the PostRepository interface
type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository instance
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

// Create creates a new post in the database
func (r *postRepository) Create(post *models.Post) error {
	return r.db.Create(post).Error
}

// GetByUUID retrieves a post by its public identifier
func (r *postRepository) GetByUUID(uuid string) (*models.Post, error) {
	var post models.Post
	err := r.db.Preload("Author").Where("uuid = ?", uuid).First(&post).Error
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// Update updates an existing post in the database
func (r *postRepository) Update(post *models.Post) error {
	return r.db.Save(post).Error
}

// List retrieves all posts, newest first
func (r *postRepository) List() ([]models.Post, error) {
	var posts []models.Post
	err := r.db.Preload("Author").Order("created_at DESC").Find(&posts).Error
	return posts, err
}

// Search matches the term against title and content, newest first
func (r *postRepository) Search(term string, limit int) ([]models.Post, error) {
	var posts []models.Post
	pattern := "%" + term + "%"
	err := r.db.Where("title LIKE ? OR content LIKE ?", pattern, pattern).
		Order("created_at DESC").Limit(limit).Find(&posts).Error
	return posts, err
}

// Count returns the total number of posts
func (r *postRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.Post{}).Count(&count).Error
	return count, err
}
