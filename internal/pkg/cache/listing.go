package cache

import (
	"time"

	"github.com/redis/go-redis/v9"
)

// Cached query snapshots. Writers call InvalidatePostList after every post
// mutation so subsequent reads observe fresh data.
const (
	PostListKey = "posts:list"

	postListTTL = 5 * time.Minute
)

// GetPostList returns the cached post listing snapshot, or "" when absent.
func GetPostList() (string, bool) {
	val, err := Get(PostListKey)
	if err == redis.Nil || err != nil {
		return "", false
	}
	return val, true
}

// SetPostList stores a serialized post listing snapshot.
func SetPostList(payload []byte) error {
	return Set(PostListKey, payload, postListTTL)
}

// InvalidatePostList drops the cached listing.
func InvalidatePostList() error {
	return Delete(PostListKey)
}

// Listing adapts the package-level listing helpers to an injectable handle.
type Listing struct{}

func (Listing) GetPostList() (string, bool)      { return GetPostList() }
func (Listing) SetPostList(payload []byte) error { return SetPostList(payload) }
func (Listing) InvalidatePostList() error        { return InvalidatePostList() }
