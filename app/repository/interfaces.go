package repository

import (
	"gorm.io/gorm"

	"github.com/inkpress/inkpress/app/models"
)

// UserRepository defines the interface for user-related database operations
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id uint) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	Update(user *models.User) error
}

// PostRepository defines the interface for post-related database operations
type PostRepository interface {
	Create(post *models.Post) error
	GetByUUID(uuid string) (*models.Post, error)
	Update(post *models.Post) error
	List() ([]models.Post, error)
	Search(term string, limit int) ([]models.Post, error)
	Count() (int64, error)
}

// CommentRepository defines the interface for comment-related database operations
type CommentRepository interface {
	Create(comment *models.Comment) error
	ListByPostID(postID uint) ([]models.Comment, error)
	CountByPostID(postID uint) (int64, error)
}

// ReactionRepository defines the interface for reaction-related database operations
type ReactionRepository interface {
	Set(postID, authorID uint, kind string) error
	GetByPostAndAuthor(postID, authorID uint) (*models.Reaction, error)
	CountsByPostID(postID uint) (map[string]int64, error)
}

// Repositories struct holds all repository instances
type Repositories struct {
	User     UserRepository
	Post     PostRepository
	Comment  CommentRepository
	Reaction ReactionRepository
}

// NewRepositories creates a new instance of all repositories
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		User:     NewUserRepository(db),
		Post:     NewPostRepository(db),
		Comment:  NewCommentRepository(db),
		Reaction: NewReactionRepository(db),
	}
}
