package actions

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/inkpress/inkpress/app/models"
)

// In-memory fakes implementing the repository and storage boundaries.

type fakePostRepo struct {
	posts  []models.Post
	nextID uint
	now    time.Time
	err    error
}

func newFakePostRepo() *fakePostRepo {
	return &fakePostRepo{nextID: 1, now: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (r *fakePostRepo) Create(post *models.Post) error {
	if r.err != nil {
		return r.err
	}
	post.ID = r.nextID
	r.nextID++
	if post.UUID == "" {
		post.UUID = uuid.New().String()
	}
	r.now = r.now.Add(time.Minute)
	post.CreatedAt = r.now
	post.UpdatedAt = r.now
	r.posts = append(r.posts, *post)
	return nil
}

func (r *fakePostRepo) GetByUUID(id string) (*models.Post, error) {
	for i := range r.posts {
		if r.posts[i].UUID == id {
			p := r.posts[i]
			return &p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakePostRepo) Update(post *models.Post) error {
	if r.err != nil {
		return r.err
	}
	for i := range r.posts {
		if r.posts[i].ID == post.ID {
			r.now = r.now.Add(time.Minute)
			post.UpdatedAt = r.now
			r.posts[i] = *post
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *fakePostRepo) List() ([]models.Post, error) {
	if r.err != nil {
		return nil, r.err
	}
	posts := make([]models.Post, len(r.posts))
	copy(posts, r.posts)
	sort.Slice(posts, func(i, j int) bool { return posts[i].CreatedAt.After(posts[j].CreatedAt) })
	return posts, nil
}

func (r *fakePostRepo) Search(term string, limit int) ([]models.Post, error) {
	if r.err != nil {
		return nil, r.err
	}
	all, _ := r.List()
	var matches []models.Post
	for _, p := range all {
		if strings.Contains(p.Title, term) || strings.Contains(p.Content, term) {
			matches = append(matches, p)
			if len(matches) == limit {
				break
			}
		}
	}
	return matches, nil
}

func (r *fakePostRepo) Count() (int64, error) {
	return int64(len(r.posts)), nil
}

type fakeCommentRepo struct {
	comments []models.Comment
	nextID   uint
	now      time.Time
}

func newFakeCommentRepo() *fakeCommentRepo {
	return &fakeCommentRepo{nextID: 1, now: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (r *fakeCommentRepo) Create(comment *models.Comment) error {
	comment.ID = r.nextID
	r.nextID++
	r.now = r.now.Add(time.Minute)
	comment.CreatedAt = r.now
	r.comments = append(r.comments, *comment)
	return nil
}

func (r *fakeCommentRepo) ListByPostID(postID uint) ([]models.Comment, error) {
	var out []models.Comment
	for i := len(r.comments) - 1; i >= 0; i-- {
		if r.comments[i].PostID == postID {
			out = append(out, r.comments[i])
		}
	}
	return out, nil
}

func (r *fakeCommentRepo) CountByPostID(postID uint) (int64, error) {
	var count int64
	for _, c := range r.comments {
		if c.PostID == postID {
			count++
		}
	}
	return count, nil
}

type fakeReactionRepo struct {
	reactions map[string]string // "postID:authorID" -> kind
}

func newFakeReactionRepo() *fakeReactionRepo {
	return &fakeReactionRepo{reactions: make(map[string]string)}
}

func reactionKey(postID, authorID uint) string {
	return fmt.Sprintf("%d:%d", postID, authorID)
}

func (r *fakeReactionRepo) Set(postID, authorID uint, kind string) error {
	r.reactions[reactionKey(postID, authorID)] = kind
	return nil
}

func (r *fakeReactionRepo) GetByPostAndAuthor(postID, authorID uint) (*models.Reaction, error) {
	kind, ok := r.reactions[reactionKey(postID, authorID)]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &models.Reaction{PostID: postID, AuthorID: authorID, Kind: kind}, nil
}

func (r *fakeReactionRepo) CountsByPostID(postID uint) (map[string]int64, error) {
	counts := make(map[string]int64)
	prefix := fmt.Sprintf("%d:", postID)
	for key, kind := range r.reactions {
		if strings.HasPrefix(key, prefix) {
			counts[kind]++
		}
	}
	return counts, nil
}

// fakeBlobStore hands out upload URLs pointing at a test server and records
// generated keys and deletions.
type fakeBlobStore struct {
	uploadURL     string
	generatedKeys []string
	deletedKeys   []string
	presignErr    error
	resolveErr    error
}

func (b *fakeBlobStore) GenerateUploadURL(_ context.Context, key, _ string) (string, error) {
	if b.presignErr != nil {
		return "", b.presignErr
	}
	b.generatedKeys = append(b.generatedKeys, key)
	return b.uploadURL, nil
}

func (b *fakeBlobStore) ResolveURL(_ context.Context, key string) (string, error) {
	if b.resolveErr != nil {
		return "", b.resolveErr
	}
	return "https://cdn.test/" + key, nil
}

func (b *fakeBlobStore) Delete(_ context.Context, key string) error {
	b.deletedKeys = append(b.deletedKeys, key)
	return nil
}

func (b *fakeBlobStore) Exists(_ context.Context, key string) (bool, error) {
	for _, deleted := range b.deletedKeys {
		if deleted == key {
			return false, nil
		}
	}
	return true, nil
}

type fakeListing struct {
	payload       string
	has           bool
	invalidations int
}

func (l *fakeListing) GetPostList() (string, bool) {
	return l.payload, l.has
}

func (l *fakeListing) SetPostList(payload []byte) error {
	l.payload = string(payload)
	l.has = true
	return nil
}

func (l *fakeListing) InvalidatePostList() error {
	l.payload = ""
	l.has = false
	l.invalidations++
	return nil
}

type published struct {
	topic string
	data  interface{}
}

type fakePublisher struct {
	messages []published
}

func (p *fakePublisher) Publish(topic string, data interface{}) error {
	p.messages = append(p.messages, published{topic: topic, data: data})
	return nil
}

var errBoom = errors.New("boom")
