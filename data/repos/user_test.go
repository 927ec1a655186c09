package repos

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/propertylabs/rental-radar-alerts-sub000/data"
)

func TestUserRepo_UpsertRefreshesProfile(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepo(db)
	ctx := context.Background()

	require.NoError(t, repo.UpsertUser(ctx, data.User{WhopUserID: "user_1", Name: "Old", Email: "old@example.com"}))
	require.NoError(t, repo.UpsertUser(ctx, data.User{WhopUserID: "user_1", Name: "New", Email: "new@example.com"}))

	user, err := repo.GetUserByID(ctx, "user_1")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "New", user.Name)
	assert.Equal(t, "new@example.com", user.Email)

	var count int
	require.NoError(t, db.Get(&count, "SELECT COUNT(*) FROM users"))
	assert.Equal(t, 1, count)
}

func TestUserRepo_GetUserByID_Missing(t *testing.T) {
	db := setupTestDB(t)
	user, err := NewUserRepo(db).GetUserByID(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, user)
}

func TestUserRepo_GetUsersByIDs(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepo(db)
	ctx := context.Background()

	createTestUser(t, db, "a")
	createTestUser(t, db, "b")
	createTestUser(t, db, "c")

	users, err := repo.GetUsersByIDs(ctx, []string{"a", "c", "zzz"})
	require.NoError(t, err)
	assert.Len(t, users, 2)

	none, err := repo.GetUsersByIDs(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, none)
}
