package mysql_test

import (
	"context"
	"testing"

	"yatube/internal/model"
	"yatube/internal/repository/mysql"
	"yatube/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func postIDs(list []model.Post) []uint64 {
	ids := make([]uint64, 0, len(list))
	for _, p := range list {
		ids = append(ids, p.ID)
	}
	return ids
}

func TestPostRepositoryListFilters(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := &mysql.PostRepository{DB: db}
	ctx := context.Background()

	alice := testutil.CreateUser(t, db, "alice")
	bob := testutil.CreateUser(t, db, "bob")
	carol := testutil.CreateUser(t, db, "carol")
	g1 := testutil.CreateGroup(t, db, "Group one", "g1")

	p1 := testutil.CreatePost(t, db, alice, g1, "alice in g1")
	p2 := testutil.CreatePost(t, db, bob, nil, "bob without group")
	p3 := testutil.CreatePost(t, db, alice, nil, "alice without group")
	p4 := testutil.CreatePost(t, db, bob, g1, "bob in g1")

	require.NoError(t, db.Create(&model.Follow{UserID: carol.ID, AuthorID: bob.ID}).Error)

	t.Run("global feed ordered by id", func(t *testing.T) {
		list, err := repo.List(ctx, mysql.PostFilter{}, 0, 10)
		require.NoError(t, err)
		assert.Equal(t, []uint64{p1.ID, p2.ID, p3.ID, p4.ID}, postIDs(list))
		assert.Equal(t, "alice", list[0].Author.Username)
		require.NotNil(t, list[0].Group)
		assert.Equal(t, "g1", list[0].Group.Slug)
		assert.Nil(t, list[1].Group)
	})

	t.Run("group feed", func(t *testing.T) {
		list, err := repo.List(ctx, mysql.PostFilter{GroupID: g1.ID}, 0, 10)
		require.NoError(t, err)
		assert.Equal(t, []uint64{p1.ID, p4.ID}, postIDs(list))
	})

	t.Run("author feed", func(t *testing.T) {
		n, err := repo.Count(ctx, mysql.PostFilter{AuthorID: alice.ID})
		require.NoError(t, err)
		assert.Equal(t, int64(2), n)
	})

	t.Run("follow feed", func(t *testing.T) {
		list, err := repo.List(ctx, mysql.PostFilter{FollowerID: carol.ID}, 0, 10)
		require.NoError(t, err)
		assert.Equal(t, []uint64{p2.ID, p4.ID}, postIDs(list))

		list, err = repo.List(ctx, mysql.PostFilter{FollowerID: alice.ID}, 0, 10)
		require.NoError(t, err)
		assert.Empty(t, list)
	})

	t.Run("offset and limit", func(t *testing.T) {
		list, err := repo.List(ctx, mysql.PostFilter{}, 2, 10)
		require.NoError(t, err)
		assert.Equal(t, []uint64{p3.ID, p4.ID}, postIDs(list))
	})
}

func TestPostRepositoryUpdateKeepsPubDate(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := &mysql.PostRepository{DB: db}
	ctx := context.Background()

	alice := testutil.CreateUser(t, db, "alice")
	g1 := testutil.CreateGroup(t, db, "Group one", "g1")
	post := testutil.CreatePost(t, db, alice, g1, "before")

	loaded, err := repo.FindByID(ctx, post.ID)
	require.NoError(t, err)
	pubDate := loaded.PubDate

	loaded.Text = "after"
	loaded.GroupID = nil
	require.NoError(t, repo.Update(ctx, loaded))

	again, err := repo.FindByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "after", again.Text)
	assert.Nil(t, again.GroupID)
	assert.True(t, pubDate.Equal(again.PubDate))
}

func TestPostRepositoryDeleteRemovesComments(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := &mysql.PostRepository{DB: db}
	comments := &mysql.CommentRepository{DB: db}
	ctx := context.Background()

	alice := testutil.CreateUser(t, db, "alice")
	keep := testutil.CreatePost(t, db, alice, nil, "keep")
	drop := testutil.CreatePost(t, db, alice, nil, "drop")
	for _, p := range []*model.Post{keep, drop} {
		require.NoError(t, comments.Create(ctx, &model.Comment{PostID: &p.ID, AuthorID: alice.ID, Text: "first"}))
		require.NoError(t, comments.Create(ctx, &model.Comment{PostID: &p.ID, AuthorID: alice.ID, Text: "second"}))
	}

	deleted, err := repo.Delete(ctx, drop.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	gone, err := comments.ListByPost(ctx, drop.ID)
	require.NoError(t, err)
	assert.Empty(t, gone)

	list, err := comments.ListByPost(ctx, keep.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "first", list[0].Text)
	assert.Equal(t, "second", list[1].Text)
	assert.Equal(t, "alice", list[0].Author.Username)

	deleted, err = repo.Delete(ctx, drop.ID)
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestGroupRepositoryDeleteKeepsPosts(t *testing.T) {
	db := testutil.NewTestDB(t)
	groups := &mysql.GroupRepository{DB: db}
	posts := &mysql.PostRepository{DB: db}
	ctx := context.Background()

	alice := testutil.CreateUser(t, db, "alice")
	g1 := testutil.CreateGroup(t, db, "Group one", "g1")
	post := testutil.CreatePost(t, db, alice, g1, "grouped")

	deleted, err := groups.DeleteBySlug(ctx, "g1")
	require.NoError(t, err)
	assert.True(t, deleted)

	got, err := posts.FindByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Nil(t, got.GroupID)
	assert.Nil(t, got.Group)

	deleted, err = groups.DeleteBySlug(ctx, "g1")
	require.NoError(t, err)
	assert.False(t, deleted)
}
