package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"yatube/internal/config"
	"yatube/internal/observability"
	"yatube/internal/pkg"
	"yatube/internal/repository/mysql"
	"yatube/internal/repository/redis"
	"yatube/internal/router"
	"yatube/internal/service"
	"yatube/web"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}
	observability.InitLogger(cfg.Env, os.Stdout)
	logger := observability.Logger
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := mysql.Open(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		logger.Error("open database", "driver", cfg.DBDriver, "error", err)
		os.Exit(1)
	}
	// 自动建表（开发阶段 OK）
	if !cfg.IsProduction() {
		if err = mysql.AutoMigrate(db); err != nil {
			logger.Error("auto migrate", "error", err)
			os.Exit(1)
		}
	}

	// 连接redis
	rdb, err := redis.NewClient(cfg.RedisURL, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		logger.Error("connect redis", "addr", cfg.RedisURL, "error", err)
		os.Exit(1)
	}
	defer rdb.Close()

	pkg.InitSecrets(cfg.JWTSecret, cfg.JWTRefreshSecret)
	media := pkg.NewMediaStore(cfg.MediaRoot, cfg.MediaURL, cfg.MaxUploadBytes())

	tmpl, err := web.Templates(web.Funcs(media.PublicURL))
	if err != nil {
		logger.Error("parse templates", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 关注事件：配置了 broker 走 kafka，否则只打日志
	var sender service.Sender = service.LogSender
	if brokers := cfg.Brokers(); len(brokers) > 0 {
		producer, err := pkg.NewKafkaProducer(pkg.KafkaConfig{Brokers: brokers, Topic: cfg.KafkaTopic})
		if err != nil {
			logger.Error("kafka producer", "error", err)
			os.Exit(1)
		}
		defer producer.Close()
		sender = service.KafkaSender(producer)
		logger.Info("follow events to kafka", "topic", producer.Topic(), "brokers", brokers)
	}
	relayer := service.NewOutboxRelayer(db, &redis.DistLock{RDB: rdb, TTL: 30 * time.Second}, sender, cfg.OutboxBatch, cfg.OutboxInterval)
	go relayer.Run(ctx)

	r := router.InitRouter(router.Deps{
		DB:        db,
		RDB:       rdb,
		Templates: tmpl,
		Media:     media,
		SMTP: pkg.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
			From:     cfg.SMTPFrom,
		},
		PostsPerPage: cfg.PostsPerPage,
		PageCacheTTL: cfg.PageCacheTTL,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Info("server starting", "port", cfg.Port, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server stopped", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", "error", err)
	}
	logger.Info("server exited")
}
