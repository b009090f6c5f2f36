package models

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Post struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	UUID        string         `gorm:"type:char(36) CHARACTER SET utf8 COLLATE utf8_bin;uniqueIndex;not null" json:"uuid"`
	Title       string         `gorm:"type:varchar(100);not null" json:"title" validate:"required,min=5,max=100"`
	Content     string         `gorm:"type:text;not null" json:"content" validate:"required,min=20"`
	AuthorID    uint           `gorm:"index" json:"author_id"`
	Author      User           `gorm:"foreignKey:AuthorID" json:"author,omitempty" validate:"-"`
	AuthorEmail string         `gorm:"type:varchar(200)" json:"author_email"`
	BlobKey     string         `gorm:"type:varchar(255);not null" json:"blob_key"`
	Comments    []Comment      `gorm:"foreignKey:PostID" json:"comments,omitempty" validate:"-"`
	Reactions   []Reaction     `gorm:"foreignKey:PostID" json:"reactions,omitempty" validate:"-"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (p *Post) Validate() error {
	v := validator.New()

	return v.Struct(p)
}

// BeforeCreate assigns the public identifier.
func (p *Post) BeforeCreate(tx *gorm.DB) error {
	if p.UUID == "" {
		p.UUID = uuid.New().String()
	}

	return nil
}

// FindPostByUUID finds a post by its public identifier
func FindPostByUUID(db *gorm.DB, uuid string) (*Post, error) {
	var post Post
	result := db.Where("uuid = ?", uuid).First(&post)
	return &post, result.Error
}
