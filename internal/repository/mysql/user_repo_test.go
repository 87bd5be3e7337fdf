package mysql_test

import (
	"context"
	"errors"
	"testing"

	"yatube/internal/model"
	"yatube/internal/repository/mysql"
	"yatube/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestUserRepository(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := &mysql.UserRepository{DB: db}
	ctx := context.Background()

	alice := testutil.CreateUser(t, db, "alice")

	byName, err := repo.FindByLogin(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, byName.ID)

	byEmail, err := repo.FindByLogin(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, byEmail.ID)

	_, err = repo.FindByUsername(ctx, "nobody")
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))

	exists, err := repo.Exists(ctx, "someone", "alice@example.com")
	require.NoError(t, err)
	assert.True(t, exists)

	err = repo.Create(ctx, &model.User{Username: "alice", Email: "other@example.com", Password: "x"})
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)

	require.NoError(t, repo.UpdatePassword(ctx, alice, "new-hash"))
	reloaded, err := repo.FindByID(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "new-hash", reloaded.Password)
}
