package repository

import (
	"context"
	"enddit/backend/internal/database"
	"enddit/backend/internal/models"
	"enddit/backend/internal/slug"
	"fmt"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// These tests need a disposable Postgres database.
const testDatabaseEnv = "ENDDIT_TEST_DATABASE_URL"

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := os.Getenv(testDatabaseEnv)
	if dsn == "" {
		t.Skipf("%s not set", testDatabaseEnv)
	}

	log := zap.NewNop().Sugar()
	db, err := database.Connect(dsn, log)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db, log))

	require.NoError(t, db.Exec("TRUNCATE users, profile, posts, comments, likes, friends, friend_request, messages RESTART IDENTITY CASCADE").Error)
	return db
}

func createUser(t *testing.T, db *gorm.DB, username string) models.User {
	t.Helper()
	user := models.User{ID: uuid.New(), Username: username}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func TestPostStoreCreateAssignsNextFreeSlug(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	store := NewPostStore(db)
	author := createUser(t, db, "author")

	for i, want := range []string{"hello-world", "hello-world-1", "hello-world-2"} {
		post := models.Post{UserID: author.ID, Title: "Hello World", Content: fmt.Sprintf("post %d", i)}
		require.NoError(t, store.Create(ctx, &post))
		assert.Equal(t, want, post.Slug)
		assert.NotZero(t, post.ID)
	}
}

func TestPostStoreCreateLongTitle(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	store := NewPostStore(db)
	author := createUser(t, db, "author")

	title := strings.Repeat("a", 300)
	first := models.Post{UserID: author.ID, Title: title, Content: "first"}
	require.NoError(t, store.Create(ctx, &first))
	assert.Len(t, first.Slug, slug.MaxLength)

	second := models.Post{UserID: author.ID, Title: title, Content: "second"}
	require.NoError(t, store.Create(ctx, &second))
	assert.Equal(t, first.Slug+"-1", second.Slug)
}

func TestPostStoreCreateConcurrentSameTitle(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	store := NewPostStore(db)
	author := createUser(t, db, "author")

	const n = 4
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			post := models.Post{UserID: author.ID, Title: "Race", Content: "x"}
			errs[i] = store.Create(ctx, &post)
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		assert.NoError(t, err)
	}
	var slugs []string
	require.NoError(t, db.Model(&models.Post{}).Order("slug").Pluck("slug", &slugs).Error)
	assert.ElementsMatch(t, []string{"race", "race-1", "race-2", "race-3"}, slugs)
}

func TestPostStoreToggleLikeIsSelfInverse(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	store := NewPostStore(db)
	author := createUser(t, db, "author")
	fan := createUser(t, db, "fan")

	post := models.Post{UserID: author.ID, Title: "Likeable", Content: "x"}
	require.NoError(t, store.Create(ctx, &post))
	require.NoError(t, db.Create(&models.Like{PostID: post.ID, UserID: author.ID}).Error)

	first, err := store.ToggleLike(ctx, post.ID, fan.ID)
	require.NoError(t, err)
	assert.True(t, first.Liked)
	assert.EqualValues(t, 2, first.LikesCount)

	second, err := store.ToggleLike(ctx, post.ID, fan.ID)
	require.NoError(t, err)
	assert.False(t, second.Liked)
	assert.EqualValues(t, 1, second.LikesCount)
}

func TestPostStoreToggleLikeConcurrent(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	store := NewPostStore(db)
	author := createUser(t, db, "author")

	post := models.Post{UserID: author.ID, Title: "Busy", Content: "x"}
	require.NoError(t, store.Create(ctx, &post))

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := store.ToggleLike(ctx, post.ID, author.ID)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	// two flips cancel out
	var count int64
	require.NoError(t, db.Model(&models.Like{}).Where("post_id = ?", post.ID).Count(&count).Error)
	assert.Zero(t, count)
}

func TestPostStoreToggleLikeMissingPost(t *testing.T) {
	db := openTestDB(t)
	user := createUser(t, db, "someone")

	_, err := NewPostStore(db).ToggleLike(context.Background(), 999, user.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPostStoreListAggregatesLikes(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	store := NewPostStore(db)
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")

	older := models.Post{UserID: alice.ID, Title: "Older", Content: "x", CreatedAt: time.Now().Add(-time.Hour)}
	newer := models.Post{UserID: bob.ID, Title: "Newer", Content: "y"}
	require.NoError(t, store.Create(ctx, &older))
	require.NoError(t, store.Create(ctx, &newer))
	_, err := store.ToggleLike(ctx, older.ID, alice.ID)
	require.NoError(t, err)
	_, err = store.ToggleLike(ctx, older.ID, bob.ID)
	require.NoError(t, err)

	posts, total, err := store.List(ctx, bob.ID, Page{})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, posts, 2)

	assert.Equal(t, newer.ID, posts[0].ID)
	assert.EqualValues(t, 0, posts[0].LikesCount)
	assert.False(t, posts[0].LikedByCurrentUser)
	require.NotNil(t, posts[0].Username)
	assert.Equal(t, "bob", *posts[0].Username)

	assert.Equal(t, older.ID, posts[1].ID)
	assert.EqualValues(t, 2, posts[1].LikesCount)
	assert.True(t, posts[1].LikedByCurrentUser)

	paged, total, err := store.List(ctx, bob.ID, Page{Number: 2, Limit: 1})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, paged, 1)
	assert.Equal(t, older.ID, paged[0].ID)
}

func TestPostStoreComments(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	store := NewPostStore(db)
	alice := createUser(t, db, "alice")

	post := models.Post{UserID: alice.ID, Title: "Thread", Content: "x"}
	require.NoError(t, store.Create(ctx, &post))

	top := models.Comment{PostID: post.ID, UserID: alice.ID, Content: "first"}
	require.NoError(t, store.AddComment(ctx, &top))
	reply := models.Comment{PostID: post.ID, UserID: alice.ID, Content: "reply", ParentID: &top.ID}
	require.NoError(t, store.AddComment(ctx, &reply))

	comments, err := store.ListComments(ctx, post.ID)
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, "first", comments[0].Content)
	require.NotNil(t, comments[0].Username)
	assert.Equal(t, "alice", *comments[0].Username)

	bogus := uint(12345)
	err = store.AddComment(ctx, &models.Comment{PostID: post.ID, UserID: alice.ID, Content: "x", ParentID: &bogus})
	assert.ErrorIs(t, err, ErrInvalidParent)

	err = store.AddComment(ctx, &models.Comment{PostID: 999, UserID: alice.ID, Content: "x"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFriendStoreRequestsBlockBothDirections(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	store := NewFriendStore(db)
	a := createUser(t, db, "a")
	b := createUser(t, db, "b")

	_, err := store.SendRequest(ctx, a.ID, b.ID)
	require.NoError(t, err)

	_, err = store.SendRequest(ctx, a.ID, b.ID)
	assert.ErrorIs(t, err, ErrConflict)
	_, err = store.SendRequest(ctx, b.ID, a.ID)
	assert.ErrorIs(t, err, ErrConflict)

	_, err = store.SendRequest(ctx, a.ID, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFriendStoreAcceptCreatesCanonicalFriendship(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	store := NewFriendStore(db)
	a := createUser(t, db, "a")
	b := createUser(t, db, "b")

	request, err := store.SendRequest(ctx, a.ID, b.ID)
	require.NoError(t, err)

	incoming, err := store.IncomingRequests(ctx, b.ID)
	require.NoError(t, err)
	require.Len(t, incoming, 1)
	assert.Equal(t, "a", incoming[0].FromUser.Username)

	_, err = store.RespondToRequest(ctx, request.ID, a.ID, true)
	assert.ErrorIs(t, err, ErrForbidden)

	friendship, err := store.RespondToRequest(ctx, request.ID, b.ID, true)
	require.NoError(t, err)
	require.NotNil(t, friendship)
	lo, hi := models.CanonicalPair(a.ID, b.ID)
	assert.Equal(t, lo, friendship.UserID1)
	assert.Equal(t, hi, friendship.UserID2)

	_, err = store.RespondToRequest(ctx, request.ID, b.ID, true)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = store.SendRequest(ctx, b.ID, a.ID)
	assert.ErrorIs(t, err, ErrAlreadyFriends)

	friends, err := store.ListFriends(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, friends, 1)
	assert.Equal(t, "b", friends[0].Friend(a.ID).Username)

	require.NoError(t, store.RemoveFriend(ctx, b.ID, a.ID))
	assert.ErrorIs(t, store.RemoveFriend(ctx, a.ID, b.ID), ErrNotFound)
}

func TestFriendStoreDeclineDeletesRequest(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	store := NewFriendStore(db)
	a := createUser(t, db, "a")
	b := createUser(t, db, "b")

	request, err := store.SendRequest(ctx, a.ID, b.ID)
	require.NoError(t, err)

	friendship, err := store.RespondToRequest(ctx, request.ID, b.ID, false)
	require.NoError(t, err)
	assert.Nil(t, friendship)

	var count int64
	require.NoError(t, db.Model(&models.FriendRequest{}).Count(&count).Error)
	assert.Zero(t, count)

	// declining frees the pair for a new request
	_, err = store.SendRequest(ctx, b.ID, a.ID)
	assert.NoError(t, err)
}

func TestMessageStoreConversationOrder(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	store := NewMessageStore(db)
	a := createUser(t, db, "a")
	b := createUser(t, db, "b")
	c := createUser(t, db, "c")

	base := time.Now().Add(-time.Minute)
	sent := []models.Message{
		{SenderID: a.ID, ReceiverID: b.ID, Content: "one", CreatedAt: base},
		{SenderID: b.ID, ReceiverID: a.ID, Content: "two", CreatedAt: base.Add(time.Second)},
		{SenderID: a.ID, ReceiverID: c.ID, Content: "elsewhere", CreatedAt: base.Add(2 * time.Second)},
		{SenderID: a.ID, ReceiverID: b.ID, Content: "three", CreatedAt: base.Add(3 * time.Second)},
	}
	for i := range sent {
		require.NoError(t, store.Send(ctx, &sent[i]))
	}

	conversation, err := store.Conversation(ctx, b.ID, a.ID)
	require.NoError(t, err)
	var contents []string
	for _, m := range conversation {
		contents = append(contents, m.Content)
	}
	assert.Equal(t, []string{"one", "two", "three"}, contents)

	err = store.Send(ctx, &models.Message{SenderID: a.ID, ReceiverID: uuid.New(), Content: "hi"})
	assert.ErrorIs(t, err, ErrNotFound)
}
