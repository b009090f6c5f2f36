package actions

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/inkpress/inkpress/internal/pkg/viewmodel"
)

const (
	// A search below this length runs no query at all: indexing every
	// keystroke against a near-empty term is wasted work.
	minSearchTermLength = 2

	defaultSearchLimit = 5
	maxSearchLimit     = 25
)

// SearchResult distinguishes "not yet searched" from an empty result set.
type SearchResult struct {
	Searched bool                 `json:"searched"`
	Posts    []viewmodel.PostView `json:"posts"`
}

// SearchPosts matches the term against post titles and contents, newest
// first, capped at limit. Terms shorter than two characters skip the query
// entirely and report Searched=false.
func (a *Actions) SearchPosts(ctx context.Context, term string, limit int) (SearchResult, *ActionError) {
	term = strings.TrimSpace(term)
	// counted in characters, not bytes: a single CJK rune is still one keystroke
	if utf8.RuneCountInString(term) < minSearchTermLength {
		return SearchResult{Searched: false}, nil
	}

	if limit <= 0 {
		limit = defaultSearchLimit
	}
	if limit > maxSearchLimit {
		limit = maxSearchLimit
	}

	posts, err := a.posts.Search(term, limit)
	if err != nil {
		return SearchResult{}, internalError("failed to search posts", err)
	}

	return SearchResult{
		Searched: true,
		Posts:    viewmodel.NewPostViews(ctx, a.blobs, posts),
	}, nil
}
