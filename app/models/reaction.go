package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	REACTION_LIKE       = "like"
	REACTION_LOVE       = "love"
	REACTION_INSIGHTFUL = "insightful"
	REACTION_LAUGH      = "laugh"
	REACTION_FIRE       = "fire"
)

// Reaction holds at most one entry per (post, author) pair; SetReaction
// overwrites the kind in place.
type Reaction struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	PostID    uint           `gorm:"index:idx_post_author,unique" json:"post_id"`
	Post      Post           `gorm:"foreignKey:PostID" json:"post,omitempty" validate:"-"`
	AuthorID  uint           `gorm:"index:idx_post_author,unique" json:"author_id"`
	Author    User           `gorm:"foreignKey:AuthorID" json:"author,omitempty" validate:"-"`
	Kind      string         `gorm:"type:varchar(20)" json:"kind"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// IsValidReactionKind reports whether kind names one of the five reactions.
func IsValidReactionKind(kind string) bool {
	switch kind {
	case REACTION_LIKE, REACTION_LOVE, REACTION_INSIGHTFUL, REACTION_LAUGH, REACTION_FIRE:
		return true
	}
	return false
}

// SetReaction creates or overwrites the caller's reaction on a post.
func SetReaction(db *gorm.DB, postID, authorID uint, kind string) error {
	var reaction Reaction
	result := db.Where("post_id = ? AND author_id = ?", postID, authorID).First(&reaction)

	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			newReaction := Reaction{
				PostID:   postID,
				AuthorID: authorID,
				Kind:     kind,
			}
			return db.Create(&newReaction).Error
		}
		return result.Error
	}

	return db.Model(&reaction).Update("kind", kind).Error
}
