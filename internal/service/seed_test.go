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

func TestSeeder(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()

	res, err := service.NewSeeder(db).Run(ctx, service.SeedOptions{
		Users:           4,
		Groups:          2,
		PostsPerUser:    3,
		CommentsPerPost: 1,
		FollowsPerUser:  2,
		Seed:            7,
	})
	require.NoError(t, err)
	assert.Equal(t, 4, res.Users)
	assert.Equal(t, 2, res.Groups)
	assert.Equal(t, 12, res.Posts)
	assert.Equal(t, 12, res.Comments)
	assert.Equal(t, 8, res.Follows)

	var selfFollows int64
	require.NoError(t, db.Model(&model.Follow{}).Where("user_id = author_id").Count(&selfFollows).Error)
	assert.Zero(t, selfFollows)
}
