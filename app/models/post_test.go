package models

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPostValidate(t *testing.T) {
	t.Parallel()

	valid := Post{
		Title:   "Hello World!!",
		Content: strings.Repeat("x", 25),
		BlobKey: "covers/abc.png",
	}
	assert.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(*Post)
	}{
		{"title too short", func(p *Post) { p.Title = "abcd" }},
		{"title too long", func(p *Post) { p.Title = strings.Repeat("t", 101) }},
		{"content too short", func(p *Post) { p.Content = strings.Repeat("x", 19) }},
		{"missing title", func(p *Post) { p.Title = "" }},
		{"missing content", func(p *Post) { p.Content = "" }},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			p := valid
			tc.mutate(&p)
			assert.Error(t, p.Validate())
		})
	}
}

// Validation must stop at the model itself: the validator recurses into
// nested structs unless they are excluded, and fresh records always carry
// zero relations (Author is only preloaded on reads).
func TestValidateIgnoresZeroRelations(t *testing.T) {
	t.Parallel()

	post := Post{
		Title:   "Hello World!!",
		Content: strings.Repeat("x", 25),
	}
	assert.Zero(t, post.Author)
	assert.NoError(t, post.Validate())

	comment := Comment{Body: "abc"}
	assert.Zero(t, comment.Post)
	assert.Zero(t, comment.Author)
	assert.NoError(t, comment.Validate())
}

func TestCommentValidate(t *testing.T) {
	t.Parallel()

	ok := Comment{PostID: 1, Body: "abc"}
	assert.NoError(t, ok.Validate())

	tooShort := Comment{PostID: 1, Body: "ab"}
	assert.Error(t, tooShort.Validate())
}

func TestIsValidReactionKind(t *testing.T) {
	t.Parallel()

	for _, kind := range []string{REACTION_LIKE, REACTION_LOVE, REACTION_INSIGHTFUL, REACTION_LAUGH, REACTION_FIRE} {
		assert.True(t, IsValidReactionKind(kind), kind)
	}
	assert.False(t, IsValidReactionKind("meh"))
	assert.False(t, IsValidReactionKind(""))
}
