package actions

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchPostsSkipsShortTerms(t *testing.T) {
	t.Parallel()

	f := newFixture(t, http.StatusOK)
	// even with an erroring repository a short term must not touch it
	f.posts.err = errBoom

	// "日" and "é" are several bytes but a single character each
	for _, term := range []string{"", "a", " ", " a ", "日", "é"} {
		result, actionErr := f.actions.SearchPosts(context.Background(), term, 5)
		require.Nil(t, actionErr, "term %q", term)
		assert.False(t, result.Searched, "term %q", term)
		assert.Empty(t, result.Posts)
	}
}

func TestSearchPostsCountsCharactersNotBytes(t *testing.T) {
	t.Parallel()

	f := newFixture(t, http.StatusOK)

	input := validCreateInput()
	input.Title = "日本 travel notes"
	_, actionErr := f.actions.CreatePost(context.Background(), alice, input)
	require.Nil(t, actionErr)

	// two CJK characters clear the minimum even though each is multibyte
	result, actionErr := f.actions.SearchPosts(context.Background(), "日本", 5)
	require.Nil(t, actionErr)
	assert.True(t, result.Searched)
	require.Len(t, result.Posts, 1)
	assert.Equal(t, "日本 travel notes", result.Posts[0].Title)
}

func TestSearchPostsMatchesTitleAndContent(t *testing.T) {
	t.Parallel()

	f := newFixture(t, http.StatusOK)

	input := validCreateInput()
	input.Title = "Gopher habits explained"
	_, actionErr := f.actions.CreatePost(context.Background(), alice, input)
	require.Nil(t, actionErr)

	input = validCreateInput()
	input.Title = "Something unrelated"
	input.Content = "did you know gophers dig " + strings.Repeat("x", 20)
	_, actionErr = f.actions.CreatePost(context.Background(), alice, input)
	require.Nil(t, actionErr)

	byTitle, actionErr := f.actions.SearchPosts(context.Background(), "Gopher", 5)
	require.Nil(t, actionErr)
	assert.True(t, byTitle.Searched)
	require.Len(t, byTitle.Posts, 1)
	assert.Equal(t, "Gopher habits explained", byTitle.Posts[0].Title)

	byContent, actionErr := f.actions.SearchPosts(context.Background(), "gophers dig", 5)
	require.Nil(t, actionErr)
	require.Len(t, byContent.Posts, 1)
	assert.Equal(t, "Something unrelated", byContent.Posts[0].Title)
}

func TestSearchPostsHonoursLimit(t *testing.T) {
	t.Parallel()

	f := newFixture(t, http.StatusOK)

	for i := 0; i < 4; i++ {
		input := validCreateInput()
		input.Title = "Common term post!!"
		_, actionErr := f.actions.CreatePost(context.Background(), alice, input)
		require.Nil(t, actionErr)
	}

	result, actionErr := f.actions.SearchPosts(context.Background(), "Common", 2)
	require.Nil(t, actionErr)
	assert.True(t, result.Searched)
	assert.Len(t, result.Posts, 2)
}

func TestSearchPostsEmptyResultIsSearched(t *testing.T) {
	t.Parallel()

	f := newFixture(t, http.StatusOK)

	result, actionErr := f.actions.SearchPosts(context.Background(), "nothing here", 5)
	require.Nil(t, actionErr)
	assert.True(t, result.Searched)
	assert.Empty(t, result.Posts)
}
