package service_test

import (
	"context"
	"testing"

	"yatube/internal/model"
	"yatube/internal/service"
	"yatube/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroupLifecycle(t *testing.T) {
	db := testutil.NewTestDB(t)
	groups := service.NewGroupService(db)
	posts := service.NewPostService(db, nil)
	ctx := context.Background()

	_, err := groups.CreateGroup(ctx, "Bad", "bad slug", "")
	assert.True(t, model.IsValidation(err))
	_, err = groups.CreateGroup(ctx, " ", "ok", "")
	assert.True(t, model.IsValidation(err))

	g, err := groups.CreateGroup(ctx, "Cats", "cats", "all about cats")
	require.NoError(t, err)
	_, err = groups.CreateGroup(ctx, "Cats again", "cats", "")
	assert.True(t, model.IsValidation(err))

	list, err := groups.ListGroups(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)

	alice := testutil.CreateUser(t, db, "alice")
	post := testutil.CreatePost(t, db, alice, g, "meow")

	require.NoError(t, groups.DeleteGroup(ctx, "cats"))
	assert.True(t, model.IsNotFound(groups.DeleteGroup(ctx, "cats")))

	// 帖子保留，分组置空
	detail, err := posts.Detail(ctx, post.ID)
	require.NoError(t, err)
	assert.Nil(t, detail.Post.GroupID)
}
