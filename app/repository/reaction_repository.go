package repository

import (
	"gorm.io/gorm"

	"github.com/inkpress/inkpress/app/models"
)

// reactionRepository implements the ReactionRepository interface
type reactionRepository struct {
	db *gorm.DB
}

// NewReactionRepository creates a new reaction repository instance
func NewReactionRepository(db *gorm.DB) ReactionRepository {
	return &reactionRepository{db: db}
}

// Set creates or overwrites the author's reaction on a post
func (r *reactionRepository) Set(postID, authorID uint, kind string) error {
	return models.SetReaction(r.db, postID, authorID, kind)
}

// GetByPostAndAuthor retrieves a single reaction, if any
func (r *reactionRepository) GetByPostAndAuthor(postID, authorID uint) (*models.Reaction, error) {
	var reaction models.Reaction
	err := r.db.Where("post_id = ? AND author_id = ?", postID, authorID).First(&reaction).Error
	if err != nil {
		return nil, err
	}
	return &reaction, nil
}

// CountsByPostID returns reaction counts grouped by kind
func (r *reactionRepository) CountsByPostID(postID uint) (map[string]int64, error) {
	type row struct {
		Kind  string
		Count int64
	}
	var rows []row
	err := r.db.Model(&models.Reaction{}).
		Select("kind, COUNT(*) as count").
		Where("post_id = ?", postID).
		Group("kind").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, rw := range rows {
		counts[rw.Kind] = rw.Count
	}
	return counts, nil
}
