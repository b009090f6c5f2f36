package actions

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkpress/inkpress/internal/pkg/realtime"
)

type fixture struct {
	actions   *Actions
	posts     *fakePostRepo
	comments  *fakeCommentRepo
	reactions *fakeReactionRepo
	blobs     *fakeBlobStore
	listing   *fakeListing
	publisher *fakePublisher
}

func newFixture(t *testing.T, uploadStatus int) *fixture {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(uploadStatus)
	}))
	t.Cleanup(server.Close)

	f := &fixture{
		posts:     newFakePostRepo(),
		comments:  newFakeCommentRepo(),
		reactions: newFakeReactionRepo(),
		blobs:     &fakeBlobStore{uploadURL: server.URL},
		listing:   &fakeListing{},
		publisher: &fakePublisher{},
	}
	f.actions = New(f.posts, f.comments, f.reactions, f.blobs, f.listing, f.publisher)
	return f
}

func validCreateInput() CreatePostInput {
	return CreatePostInput{
		Title:   "Hello World!!",
		Content: strings.Repeat("x", 25),
		Image:   &Upload{Content: []byte("png-bytes"), ContentType: "image/png"},
	}
}

var alice = Identity{UserID: 7, Email: "alice@example.com"}

func TestCreatePostSuccess(t *testing.T) {
	t.Parallel()

	f := newFixture(t, http.StatusOK)

	id, actionErr := f.actions.CreatePost(context.Background(), alice, validCreateInput())
	require.Nil(t, actionErr)
	require.NotEmpty(t, id)

	stored, err := f.posts.GetByUUID(id)
	require.NoError(t, err)
	assert.Equal(t, "Hello World!!", stored.Title)
	assert.Equal(t, strings.Repeat("x", 25), stored.Content)
	// identity comes from the session, never from client input
	assert.Equal(t, alice.UserID, stored.AuthorID)
	assert.Equal(t, alice.Email, stored.AuthorEmail)
	require.Len(t, f.blobs.generatedKeys, 1)
	assert.Equal(t, f.blobs.generatedKeys[0], stored.BlobKey)

	views, actionErr := f.actions.ListPosts(context.Background())
	require.Nil(t, actionErr)
	require.Len(t, views, 1)
	assert.Equal(t, id, views[0].UUID)
	assert.Equal(t, "https://cdn.test/"+stored.BlobKey, views[0].ImageURL)
}

func TestCreatePostOrdersNewestFirst(t *testing.T) {
	t.Parallel()

	f := newFixture(t, http.StatusOK)

	first, actionErr := f.actions.CreatePost(context.Background(), alice, validCreateInput())
	require.Nil(t, actionErr)
	second, actionErr := f.actions.CreatePost(context.Background(), alice, validCreateInput())
	require.Nil(t, actionErr)

	views, actionErr := f.actions.ListPosts(context.Background())
	require.Nil(t, actionErr)
	require.Len(t, views, 2)
	assert.Equal(t, second, views[0].UUID)
	assert.Equal(t, first, views[1].UUID)
}

func TestCreatePostUploadFailureCreatesNoRecord(t *testing.T) {
	t.Parallel()

	f := newFixture(t, http.StatusInternalServerError)

	_, actionErr := f.actions.CreatePost(context.Background(), alice, validCreateInput())
	require.NotNil(t, actionErr)
	assert.Equal(t, KindUploadFailed, actionErr.Kind)

	count, err := f.posts.Count()
	require.NoError(t, err)
	assert.Zero(t, count)
	assert.Empty(t, f.publisher.messages)
}

func TestCreatePostValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*CreatePostInput)
	}{
		{"title too short", func(in *CreatePostInput) { in.Title = "abcd" }},
		{"title too long", func(in *CreatePostInput) { in.Title = strings.Repeat("t", 101) }},
		{"content too short", func(in *CreatePostInput) { in.Content = strings.Repeat("x", 19) }},
		{"missing image", func(in *CreatePostInput) { in.Image = nil }},
		{"empty image", func(in *CreatePostInput) { in.Image = &Upload{ContentType: "image/png"} }},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			f := newFixture(t, http.StatusOK)
			input := validCreateInput()
			tc.mutate(&input)

			_, actionErr := f.actions.CreatePost(context.Background(), alice, input)
			require.NotNil(t, actionErr)
			assert.Equal(t, KindValidationFailed, actionErr.Kind)
			// validation rejects before any storage traffic
			assert.Empty(t, f.blobs.generatedKeys)
		})
	}
}

func TestCreatePostInvalidatesListingAndPublishes(t *testing.T) {
	t.Parallel()

	f := newFixture(t, http.StatusOK)

	_, actionErr := f.actions.CreatePost(context.Background(), alice, validCreateInput())
	require.Nil(t, actionErr)

	assert.Equal(t, 1, f.listing.invalidations)
	// the refreshed snapshot is re-cached and pushed to subscribers
	assert.True(t, f.listing.has)
	require.Len(t, f.publisher.messages, 1)
	assert.Equal(t, realtime.TopicPosts, f.publisher.messages[0].topic)
}

func TestUpdatePostWithNewImageDeletesSupersededBlob(t *testing.T) {
	t.Parallel()

	f := newFixture(t, http.StatusOK)
	id, actionErr := f.actions.CreatePost(context.Background(), alice, validCreateInput())
	require.Nil(t, actionErr)
	oldKey := f.blobs.generatedKeys[0]

	_, actionErr = f.actions.UpdatePost(context.Background(), alice, UpdatePostInput{
		UUID:    id,
		Title:   "Hello Again!!",
		Content: strings.Repeat("y", 30),
		Image:   &Upload{Content: []byte("new-bytes"), ContentType: "image/webp"},
	})
	require.Nil(t, actionErr)

	stored, err := f.posts.GetByUUID(id)
	require.NoError(t, err)
	require.Len(t, f.blobs.generatedKeys, 2)
	newKey := f.blobs.generatedKeys[1]
	assert.Equal(t, newKey, stored.BlobKey)
	assert.Equal(t, []string{oldKey}, f.blobs.deletedKeys)
	assert.Equal(t, "Hello Again!!", stored.Title)
}

func TestUpdatePostFailedUploadKeepsOldState(t *testing.T) {
	t.Parallel()

	f := newFixture(t, http.StatusOK)
	id, actionErr := f.actions.CreatePost(context.Background(), alice, validCreateInput())
	require.Nil(t, actionErr)
	oldKey := f.blobs.generatedKeys[0]

	// later uploads fail
	failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	t.Cleanup(failing.Close)
	f.blobs.uploadURL = failing.URL

	_, actionErr = f.actions.UpdatePost(context.Background(), alice, UpdatePostInput{
		UUID:    id,
		Title:   "Hello Again!!",
		Content: strings.Repeat("y", 30),
		Image:   &Upload{Content: []byte("new-bytes"), ContentType: "image/webp"},
	})
	require.NotNil(t, actionErr)
	assert.Equal(t, KindUploadFailed, actionErr.Kind)

	stored, err := f.posts.GetByUUID(id)
	require.NoError(t, err)
	// the old blob was never deleted and the post is unchanged
	assert.Equal(t, oldKey, stored.BlobKey)
	assert.Equal(t, "Hello World!!", stored.Title)
	assert.Empty(t, f.blobs.deletedKeys)
}

func TestUpdatePostKeepingExistingImage(t *testing.T) {
	t.Parallel()

	f := newFixture(t, http.StatusOK)
	id, actionErr := f.actions.CreatePost(context.Background(), alice, validCreateInput())
	require.Nil(t, actionErr)
	oldKey := f.blobs.generatedKeys[0]

	_, actionErr = f.actions.UpdatePost(context.Background(), alice, UpdatePostInput{
		UUID:    id,
		Title:   "Hello Again!!",
		Content: strings.Repeat("y", 30),
		BlobKey: oldKey,
	})
	require.Nil(t, actionErr)

	stored, err := f.posts.GetByUUID(id)
	require.NoError(t, err)
	assert.Equal(t, oldKey, stored.BlobKey)
	assert.Empty(t, f.blobs.deletedKeys)
}

func TestUpdatePostWithoutResolvableImageFails(t *testing.T) {
	t.Parallel()

	f := newFixture(t, http.StatusOK)
	id, actionErr := f.actions.CreatePost(context.Background(), alice, validCreateInput())
	require.Nil(t, actionErr)

	_, actionErr = f.actions.UpdatePost(context.Background(), alice, UpdatePostInput{
		UUID:    id,
		Title:   "Hello Again!!",
		Content: strings.Repeat("y", 30),
	})
	require.NotNil(t, actionErr)
	assert.Equal(t, KindValidationFailed, actionErr.Kind)

	stored, err := f.posts.GetByUUID(id)
	require.NoError(t, err)
	assert.Equal(t, "Hello World!!", stored.Title)
}

func TestUpdatePostNotFound(t *testing.T) {
	t.Parallel()

	f := newFixture(t, http.StatusOK)

	_, actionErr := f.actions.UpdatePost(context.Background(), alice, UpdatePostInput{
		UUID:    "missing",
		Title:   "Hello Again!!",
		Content: strings.Repeat("y", 30),
		BlobKey: "covers/x.png",
	})
	require.NotNil(t, actionErr)
	assert.Equal(t, KindNotFound, actionErr.Kind)
}

func TestUpdatePostByNonAuthorForbidden(t *testing.T) {
	t.Parallel()

	f := newFixture(t, http.StatusOK)
	id, actionErr := f.actions.CreatePost(context.Background(), alice, validCreateInput())
	require.Nil(t, actionErr)

	mallory := Identity{UserID: 99, Email: "mallory@example.com"}
	_, actionErr = f.actions.UpdatePost(context.Background(), mallory, UpdatePostInput{
		UUID:    id,
		Title:   "Hijacked Title",
		Content: strings.Repeat("z", 30),
		BlobKey: "covers/x.png",
	})
	require.NotNil(t, actionErr)
	assert.Equal(t, KindForbidden, actionErr.Kind)
}

func TestGetPostAbsentIsNotFound(t *testing.T) {
	t.Parallel()

	f := newFixture(t, http.StatusOK)

	_, actionErr := f.actions.GetPost(context.Background(), "missing")
	require.NotNil(t, actionErr)
	assert.Equal(t, KindNotFound, actionErr.Kind)
}
