package service

import (
	"context"
	"fmt"
	"math/rand"
	"strings"

	"yatube/internal/model"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SeedOptions 演示数据规模
type SeedOptions struct {
	Users           int
	Groups          int
	PostsPerUser    int
	CommentsPerPost int
	FollowsPerUser  int
	Password        string
	Seed            int64
}

type SeedResult struct {
	Users, Groups, Posts, Comments, Follows int
}

// Seeder 生成开发环境的演示数据，只用于本地和测试
type Seeder struct {
	db *gorm.DB
}

func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{db: db}
}

func (s *Seeder) Run(ctx context.Context, opts SeedOptions) (*SeedResult, error) {
	if opts.Password == "" {
		opts.Password = "password123"
	}
	faker := gofakeit.New(opts.Seed)
	rng := rand.New(rand.NewSource(opts.Seed))
	res := &SeedResult{}

	hash, err := bcrypt.GenerateFromPassword([]byte(opts.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		groups := make([]model.Group, 0, opts.Groups)
		for i := 0; i < opts.Groups; i++ {
			title := strings.TrimSuffix(faker.HipsterSentence(2), ".")
			g := model.Group{
				Title:       title,
				Slug:        fmt.Sprintf("%s-%d", strings.ToLower(faker.LetterN(6)), i+1),
				Description: faker.Paragraph(1, 2, 8, " "),
			}
			if err := tx.Create(&g).Error; err != nil {
				return err
			}
			groups = append(groups, g)
		}
		res.Groups = len(groups)

		users := make([]model.User, 0, opts.Users)
		for i := 0; i < opts.Users; i++ {
			u := model.User{
				Username:  fmt.Sprintf("%s%d", strings.ToLower(faker.FirstName()), i+1),
				Email:     fmt.Sprintf("user%d.%s", i+1, faker.Email()),
				Password:  string(hash),
				FirstName: faker.FirstName(),
				LastName:  faker.LastName(),
			}
			if err := tx.Create(&u).Error; err != nil {
				return err
			}
			users = append(users, u)
		}
		res.Users = len(users)

		for _, u := range users {
			for j := 0; j < opts.PostsPerUser; j++ {
				p := model.Post{Text: faker.Paragraph(1, 3, 12, "\n"), AuthorID: u.ID}
				if len(groups) > 0 && rng.Intn(3) > 0 {
					p.GroupID = &groups[rng.Intn(len(groups))].ID
				}
				if err := tx.Create(&p).Error; err != nil {
					return err
				}
				res.Posts++
				for k := 0; k < opts.CommentsPerPost && len(users) > 0; k++ {
					c := model.Comment{
						PostID:   &p.ID,
						AuthorID: users[rng.Intn(len(users))].ID,
						Text:     faker.Sentence(8),
					}
					if err := tx.Create(&c).Error; err != nil {
						return err
					}
					res.Comments++
				}
			}
		}

		for _, u := range users {
			n := 0
			for _, idx := range rng.Perm(len(users)) {
				if n >= opts.FollowsPerUser {
					break
				}
				author := users[idx]
				if author.ID == u.ID {
					continue
				}
				if err := tx.Create(&model.Follow{UserID: u.ID, AuthorID: author.ID}).Error; err != nil {
					return err
				}
				n++
			}
			res.Follows += n
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}
