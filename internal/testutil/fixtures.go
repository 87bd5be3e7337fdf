package testutil

import (
	"fmt"
	"testing"

	"yatube/internal/model"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// DefaultPassword is the plain password of users made by CreateUser.
const DefaultPassword = "correct-horse-42"

var passwordHash []byte

// CreateUser inserts a user whose password is DefaultPassword.
func CreateUser(t *testing.T, db *gorm.DB, username string) *model.User {
	t.Helper()
	if passwordHash == nil {
		h, err := bcrypt.GenerateFromPassword([]byte(DefaultPassword), bcrypt.MinCost)
		if err != nil {
			t.Fatalf("hash password: %v", err)
		}
		passwordHash = h
	}
	u := &model.User{
		Username: username,
		Email:    fmt.Sprintf("%s@example.com", username),
		Password: string(passwordHash),
	}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
	return u
}

func CreateGroup(t *testing.T, db *gorm.DB, title, slug string) *model.Group {
	t.Helper()
	g := &model.Group{Title: title, Slug: slug, Description: "test group " + slug}
	if err := db.Create(g).Error; err != nil {
		t.Fatalf("create group %s: %v", slug, err)
	}
	return g
}

// CreatePost inserts a post; group may be nil.
func CreatePost(t *testing.T, db *gorm.DB, author *model.User, group *model.Group, text string) *model.Post {
	t.Helper()
	p := &model.Post{Text: text, AuthorID: author.ID}
	if group != nil {
		p.GroupID = &group.ID
	}
	if err := db.Create(p).Error; err != nil {
		t.Fatalf("create post: %v", err)
	}
	return p
}

// CreatePosts inserts n posts numbered from 1.
func CreatePosts(t *testing.T, db *gorm.DB, author *model.User, group *model.Group, n int) []*model.Post {
	t.Helper()
	out := make([]*model.Post, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, CreatePost(t, db, author, group, fmt.Sprintf("post number %d", i)))
	}
	return out
}
