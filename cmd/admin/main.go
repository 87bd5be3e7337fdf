package main

import (
	"fmt"
	"os"

	"yatube/internal/config"
	"yatube/internal/observability"
	"yatube/internal/pkg"
	"yatube/internal/repository/mysql"
	"yatube/internal/repository/redis"
	"yatube/internal/service"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// openDB reads the config and opens the database.
func openDB() (*config.Config, *gorm.DB, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("reading config: %w", err)
	}
	observability.InitLogger(cfg.Env, os.Stderr)
	db, err := mysql.Open(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		return nil, nil, fmt.Errorf("opening database: %w", err)
	}
	return cfg, db, nil
}

var rootCmd = &cobra.Command{
	Use:          "yatube-admin",
	Short:        "Yatube administration",
	SilenceUsage: true,
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update database tables",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, db, err := openDB()
		if err != nil {
			return err
		}
		if err := mysql.AutoMigrate(db); err != nil {
			return fmt.Errorf("migrating: %w", err)
		}
		fmt.Println("Migrations applied.")
		return nil
	},
}

// group command
var groupCmd = &cobra.Command{
	Use:   "group",
	Short: "Manage groups",
}

var groupCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a group",
	RunE: func(cmd *cobra.Command, args []string) error {
		title, _ := cmd.Flags().GetString("title")
		slug, _ := cmd.Flags().GetString("slug")
		desc, _ := cmd.Flags().GetString("description")

		_, db, err := openDB()
		if err != nil {
			return err
		}
		g, err := service.NewGroupService(db).CreateGroup(cmd.Context(), title, slug, desc)
		if err != nil {
			return err
		}
		fmt.Printf("Created group %d: %s (/group/%s/)\n", g.ID, g.Title, g.Slug)
		return nil
	},
}

var groupDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete a group, keeping its posts",
	RunE: func(cmd *cobra.Command, args []string) error {
		slug, _ := cmd.Flags().GetString("slug")

		_, db, err := openDB()
		if err != nil {
			return err
		}
		if err := service.NewGroupService(db).DeleteGroup(cmd.Context(), slug); err != nil {
			return err
		}
		fmt.Printf("Deleted group %s\n", slug)
		return nil
	},
}

var groupListCmd = &cobra.Command{
	Use:   "list",
	Short: "List groups",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, db, err := openDB()
		if err != nil {
			return err
		}
		groups, err := service.NewGroupService(db).ListGroups(cmd.Context())
		if err != nil {
			return err
		}
		if len(groups) == 0 {
			fmt.Println("No groups found.")
			return nil
		}
		for _, g := range groups {
			fmt.Printf("%d\t%s\t%s\n", g.ID, g.Slug, g.Title)
		}
		return nil
	},
}

// post command
var postCmd = &cobra.Command{
	Use:   "post",
	Short: "Manage posts",
}

var postDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete a post and its comments",
	RunE: func(cmd *cobra.Command, args []string) error {
		id, _ := cmd.Flags().GetUint64("id")

		cfg, db, err := openDB()
		if err != nil {
			return err
		}
		media := pkg.NewMediaStore(cfg.MediaRoot, cfg.MediaURL, cfg.MaxUploadBytes())
		if err := service.NewPostService(db, media).DeletePostAdmin(cmd.Context(), id); err != nil {
			return err
		}
		fmt.Printf("Deleted post %d\n", id)
		return nil
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Fill the database with demo data",
	RunE: func(cmd *cobra.Command, args []string) error {
		var opts service.SeedOptions
		opts.Users, _ = cmd.Flags().GetInt("users")
		opts.Groups, _ = cmd.Flags().GetInt("groups")
		opts.PostsPerUser, _ = cmd.Flags().GetInt("posts")
		opts.CommentsPerPost, _ = cmd.Flags().GetInt("comments")
		opts.FollowsPerUser, _ = cmd.Flags().GetInt("follows")
		opts.Password, _ = cmd.Flags().GetString("password")
		opts.Seed, _ = cmd.Flags().GetInt64("seed")

		_, db, err := openDB()
		if err != nil {
			return err
		}
		if err := mysql.AutoMigrate(db); err != nil {
			return fmt.Errorf("migrating: %w", err)
		}
		res, err := service.NewSeeder(db).Run(cmd.Context(), opts)
		if err != nil {
			return fmt.Errorf("seeding: %w", err)
		}
		fmt.Printf("Seeded %d users, %d groups, %d posts, %d comments, %d follows\n",
			res.Users, res.Groups, res.Posts, res.Comments, res.Follows)
		return nil
	},
}

// cache command
var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the page cache",
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Drop every cached page",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("reading config: %w", err)
		}
		rdb, err := redis.NewClient(cfg.RedisURL, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return fmt.Errorf("connecting redis: %w", err)
		}
		defer rdb.Close()
		if err := (&redis.PageCache{RDB: rdb}).Clear(cmd.Context()); err != nil {
			return err
		}
		fmt.Println("Page cache cleared.")
		return nil
	},
}

func init() {
	groupCreateCmd.Flags().String("title", "", "group title")
	groupCreateCmd.Flags().String("slug", "", "unique url slug")
	groupCreateCmd.Flags().String("description", "", "group description")
	_ = groupCreateCmd.MarkFlagRequired("title")
	_ = groupCreateCmd.MarkFlagRequired("slug")

	groupDeleteCmd.Flags().String("slug", "", "group slug")
	_ = groupDeleteCmd.MarkFlagRequired("slug")

	postDeleteCmd.Flags().Uint64("id", 0, "post id")
	_ = postDeleteCmd.MarkFlagRequired("id")

	seedCmd.Flags().Int("users", 5, "number of users")
	seedCmd.Flags().Int("groups", 3, "number of groups")
	seedCmd.Flags().Int("posts", 12, "posts per user")
	seedCmd.Flags().Int("comments", 2, "comments per post")
	seedCmd.Flags().Int("follows", 2, "follows per user")
	seedCmd.Flags().String("password", "password123", "password for every demo user")
	seedCmd.Flags().Int64("seed", 42, "random seed")

	groupCmd.AddCommand(groupCreateCmd, groupDeleteCmd, groupListCmd)
	postCmd.AddCommand(postDeleteCmd)
	cacheCmd.AddCommand(cacheClearCmd)
	rootCmd.AddCommand(migrateCmd, groupCmd, postCmd, seedCmd, cacheCmd)
}

