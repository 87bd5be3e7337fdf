package router

import (
	"html/template"
	"net/http"
	"time"

	"yatube/internal/handler"
	"yatube/internal/middleware"
	"yatube/internal/pkg"
	"yatube/internal/repository/redis"
	"yatube/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	goredis "github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const formOverhead = 64 << 10

// Deps 路由依赖
type Deps struct {
	DB           *gorm.DB
	RDB          *goredis.Client
	Templates    *template.Template
	Media        *pkg.MediaStore
	SMTP         pkg.SMTPConfig
	MailSender   pkg.MailSender
	PostsPerPage int
	PageCacheTTL time.Duration
}

func InitRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.RequestLogger(), gin.CustomRecovery(handler.Recovery))
	r.SetHTMLTemplate(d.Templates)

	emailSvc := service.NewEmailService(d.SMTP, d.RDB, d.MailSender)
	userSvc := service.NewUserService(d.DB, d.RDB, emailSvc)

	feed := handler.NewFeedHandler(service.NewFeedService(d.DB, d.PostsPerPage))
	post := handler.NewPostHandler(service.NewPostService(d.DB, d.Media))
	comment := handler.NewCommentHandler(service.NewCommentService(d.DB))
	follow := handler.NewFollowHandler(service.NewFollowService(d.DB))
	user := handler.NewUserHandler(userSvc)
	email := handler.NewEmailHandler(userSvc)

	pageCache := &redis.PageCache{RDB: d.RDB}

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	// 上传上限之外预留表单字段的空间
	var uploadLimit int64
	if d.Media != nil {
		r.StaticFS(d.Media.URL, http.Dir(d.Media.Root))
		if d.Media.MaxBytes > 0 {
			uploadLimit = d.Media.MaxBytes + formOverhead
			r.MaxMultipartMemory = uploadLimit
		}
	}
	limit := middleware.MaxBodySize(uploadLimit)

	site := r.Group("/")
	site.Use(middleware.OptionalAuth(userSvc))
	{
		// 只有全站 feed 走整页缓存
		site.GET("/", middleware.CachePage(pageCache, d.PageCacheTTL, "index"), feed.Index)
		site.GET("/group/:slug/", feed.GroupPosts)
		site.GET("/profile/:username/", feed.Profile)
		site.GET("/posts/:post_id/", post.Detail)

		site.GET("/about/author/", handler.Static("about_author.html", "About author"))
		site.GET("/about/tech/", handler.Static("about_tech.html", "Technologies"))
	}

	// 用户相关接口
	authGroup := site.Group("/auth")
	{
		authGroup.GET("/signup/", user.SignupForm)
		authGroup.POST("/signup/", user.Signup)
		authGroup.GET("/login/", user.LoginForm)
		authGroup.POST("/login/", user.Login)
		authGroup.GET("/logout/", user.Logout)
		authGroup.POST("/logout/", user.Logout)
		authGroup.POST("/token/refresh/", user.TokenRefresh)
		authGroup.GET("/password_reset/", email.ResetForm)
		authGroup.POST("/password_reset/", email.SendResetCode)
		authGroup.POST("/password_reset/confirm/", email.ConfirmReset)
	}

	// 登录态接口
	private := site.Group("/")
	private.Use(middleware.LoginRequired())
	{
		private.GET("/create/", post.CreateForm)
		private.POST("/create/", limit, post.Create)
		private.GET("/posts/:post_id/edit/", post.EditForm)
		private.POST("/posts/:post_id/edit/", limit, post.Edit)
		private.POST("/posts/:post_id/delete/", post.Delete)
		private.POST("/posts/:post_id/comment/", comment.AddComment)
		private.GET("/follow/", feed.FollowIndex)

		private.GET("/profile/:username/follow/", follow.Follow)
		private.POST("/profile/:username/follow/", follow.Follow)
		private.GET("/profile/:username/unfollow/", follow.Unfollow)
		private.POST("/profile/:username/unfollow/", follow.Unfollow)

		private.GET("/auth/password_change/", user.PasswordChangeForm)
		private.POST("/auth/password_change/", user.PasswordChange)
	}

	r.NoRoute(middleware.OptionalAuth(userSvc), handler.NotFound)
	return r
}
