package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/cppla/microforum/config"
	"github.com/cppla/microforum/models"
)

// =============================================================================
// Test Helpers
// =============================================================================

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := config.OpenDatabase(config.AppConfig{
		DBDriver:   "sqlite",
		SQLitePath: filepath.Join(t.TempDir(), "store.db"),
		LogLevel:   "silent",
	})
	require.NoError(t, err)
	return db
}

func createUser(t *testing.T, users CredentialStore, name string) *models.User {
	t.Helper()
	u := &models.User{Username: name, PasswordHash: "hash"}
	require.NoError(t, users.CreateUser(context.Background(), u))
	return u
}

// =============================================================================
// CredentialStore
// =============================================================================

func TestCreateUser_DuplicateUsername(t *testing.T) {
	users := NewCredentialStore(openTestDB(t))
	first := createUser(t, users, "alice")

	err := users.CreateUser(context.Background(), &models.User{Username: "alice", PasswordHash: "other"})
	assert.ErrorIs(t, err, ErrUserExists)

	got, err := users.FindUserByUsername(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, first.ID, got.ID)
	assert.Equal(t, "hash", got.PasswordHash)
}

func TestFindUserByUsername_NotFound(t *testing.T) {
	users := NewCredentialStore(openTestDB(t))

	_, err := users.FindUserByUsername(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFindUserByID(t *testing.T) {
	users := NewCredentialStore(openTestDB(t))
	alice := createUser(t, users, "alice")

	got, err := users.FindUserByID(context.Background(), alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Username)

	_, err = users.FindUserByID(context.Background(), alice.ID+1)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateUsername(t *testing.T) {
	ctx := context.Background()
	users := NewCredentialStore(openTestDB(t))
	alice := createUser(t, users, "alice")
	createUser(t, users, "bob")

	require.NoError(t, users.UpdateUsername(ctx, alice.ID, "alicia"))
	_, err := users.FindUserByUsername(ctx, "alicia")
	assert.NoError(t, err)

	assert.ErrorIs(t, users.UpdateUsername(ctx, alice.ID, "bob"), ErrUserExists)
	assert.NoError(t, users.UpdateUsername(ctx, 9999, "nobody"))
}

func TestDeleteUser_KeepsAuthoredPosts(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	users := NewCredentialStore(db)
	content := NewContentStore(db)
	alice := createUser(t, users, "alice")

	post := &models.Post{Title: "t", Content: "c", AuthorID: alice.ID}
	require.NoError(t, content.CreatePost(ctx, post))
	require.NoError(t, users.DeleteUser(ctx, alice.ID))

	list, err := users.ListUsers(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)

	orphan, err := content.FindPost(ctx, post.ID)
	require.NoError(t, err)
	assert.Nil(t, orphan.Author)
	assert.Equal(t, alice.ID, orphan.AuthorID)
}

// =============================================================================
// ContentStore
// =============================================================================

func TestListPosts_NewestFirstWithAuthor(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	users := NewCredentialStore(db)
	content := NewContentStore(db)
	alice := createUser(t, users, "alice")

	older := &models.Post{Title: "old", Content: "c", AuthorID: alice.ID, CreatedAt: time.Now().Add(-time.Minute)}
	newer := &models.Post{Title: "new", Content: "c", AuthorID: alice.ID}
	require.NoError(t, content.CreatePost(ctx, older))
	require.NoError(t, content.CreatePost(ctx, newer))

	posts, err := content.ListPosts(ctx)
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, "new", posts[0].Title)
	assert.Equal(t, "old", posts[1].Title)
	require.NotNil(t, posts[0].Author)
	assert.Equal(t, "alice", posts[0].Author.Username)
}

func TestUpdatePost_OnlyTitleAndContent(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	users := NewCredentialStore(db)
	content := NewContentStore(db)
	alice := createUser(t, users, "alice")
	bob := createUser(t, users, "bob")

	post := &models.Post{Title: "t", Content: "c", AuthorID: alice.ID}
	require.NoError(t, content.CreatePost(ctx, post))

	post.Title, post.Content, post.AuthorID = "t2", "c2", bob.ID
	require.NoError(t, content.UpdatePost(ctx, post))

	stored, err := content.FindPost(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "t2", stored.Title)
	assert.Equal(t, "c2", stored.Content)
	assert.Equal(t, alice.ID, stored.AuthorID)
}

func TestComments_NoForeignKeyAndNoCascade(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	users := NewCredentialStore(db)
	content := NewContentStore(db)
	bob := createUser(t, users, "bob")

	dangling := &models.Comment{Content: "hello?", AuthorID: bob.ID, PostID: 424242}
	require.NoError(t, content.CreateComment(ctx, dangling))
	require.NotNil(t, dangling.Author)
	assert.Equal(t, "bob", dangling.Author.Username)

	post := &models.Post{Title: "t", Content: "c", AuthorID: bob.ID}
	require.NoError(t, content.CreatePost(ctx, post))
	require.NoError(t, content.CreateComment(ctx, &models.Comment{Content: "nice", AuthorID: bob.ID, PostID: post.ID}))
	require.NoError(t, content.DeletePost(ctx, post.ID))

	comments, err := content.ListComments(ctx, post.ID)
	require.NoError(t, err)
	assert.Len(t, comments, 1)

	_, err = content.FindPost(ctx, post.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFindComment_NotFound(t *testing.T) {
	content := NewContentStore(openTestDB(t))

	_, err := content.FindComment(context.Background(), 1)
	assert.ErrorIs(t, err, ErrNotFound)
}

// =============================================================================
// Store failures (MySQL dialect over sqlmock)
// =============================================================================

func TestListPosts_StoreFailureIsWrapped(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	db, err := gorm.Open(mysql.New(mysql.Config{Conn: sqlDB, SkipInitializeWithVersion: true}), config.GormConfig("silent"))
	require.NoError(t, err)

	mock.ExpectQuery("SELECT (.+) FROM `posts`").WillReturnError(errors.New("connection reset by peer"))

	_, err = NewContentStore(db).ListPosts(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection reset by peer")
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
