package models

import (
	"time"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

// Comment is immutable once written: no update path exists and UpdatedAt is
// intentionally absent.
type Comment struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	PostID      uint           `gorm:"index" json:"post_id"`
	Post        Post           `gorm:"foreignKey:PostID" json:"post,omitempty" validate:"-"`
	Body        string         `gorm:"type:text" json:"body" validate:"required,min=3"`
	AuthorID    uint           `gorm:"index" json:"author_id"`
	Author      User           `gorm:"foreignKey:AuthorID" json:"author,omitempty" validate:"-"`
	AuthorEmail string         `gorm:"type:varchar(200)" json:"author_email"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"created_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (c *Comment) Validate() error {
	v := validator.New()

	return v.Struct(c)
}
