package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	flag "github.com/spf13/pflag"
	"video-portfolio/cmd/config"
	"video-portfolio/pkg/accounts"
	"video-portfolio/pkg/auth"
	"video-portfolio/pkg/catalog"
	"video-portfolio/pkg/database"
	"video-portfolio/pkg/handlers"
	"video-portfolio/pkg/logger"
	"video-portfolio/pkg/ratelimit"
	"video-portfolio/pkg/repository"
	"video-portfolio/pkg/s3"
	"video-portfolio/pkg/web"
)

func main() {
	configDir := flag.StringP("config", "c", "", "directory holding config.yaml")
	flag.Parse()

	var paths []string
	if *configDir != "" {
		paths = append(paths, *configDir)
	}
	cfg, err := config.Load(paths...)
	if err != nil {
		logrus.WithError(err).Fatal("load config")
	}

	log := logger.New(logger.Options{Level: cfg.LogLevel, Format: cfg.LogFormat, File: cfg.LogFile})
	if cfg.JWTSecret == config.DefaultJWTSecret {
		log.Warn("JWT secret is the development default; set JWT_SECRET in production")
	}
	if log.IsLevelEnabled(logrus.DebugLevel) {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize the database
	if err := database.Init(cfg.DatabaseDriver, cfg.DatabaseDSN); err != nil {
		log.WithError(err).Fatal("open database")
	}
	defer database.DB.Close()

	issuer := auth.NewIssuer(cfg.JWTSecret, cfg.JWTExpiresIn)
	users := accounts.NewService(repository.NewAdmins(log, database.DB), issuer, log)

	var mirror catalog.Publisher
	if cfg.S3Bucket != "" {
		m, err := s3.NewMirror(cfg.AWSRegion, cfg.S3Bucket, cfg.CatalogKey)
		if err != nil {
			log.WithError(err).Fatal("create s3 mirror")
		}
		mirror = m
		log.WithFields(logrus.Fields{"bucket": cfg.S3Bucket, "key": cfg.CatalogKey}).Info("catalog mirror enabled")
	}
	videos := catalog.NewService(repository.NewVideos(log, database.DB), mirror, log)
	videos.SetConcurrency(cfg.ReorderConcurrency)

	limiter, closeLimiter := newLimiter(cfg, log)
	defer closeLimiter()

	h := &handlers.Handler{
		Catalog:  videos,
		Accounts: users,
		Issuer:   issuer,
		Limiter:  limiter,
		Log:      log,

		TrustedProxies: cfg.TrustedProxies,
	}
	r := h.Router(cfg.CORSOrigins)

	site, err := web.New(videos, log)
	if err != nil {
		log.WithError(err).Fatal("load site assets")
	}
	site.Register(r)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.WithField("addr", srv.Addr).Info("server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("listen")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.WithError(err).Error("graceful shutdown failed")
	}
}

// newLimiter uses Redis when configured and reachable, the in-process limiter otherwise.
func newLimiter(cfg *config.Config, log logrus.FieldLogger) (ratelimit.Limiter, func()) {
	memory := ratelimit.NewMemoryLimiter(cfg.LoginMaxAttempts, cfg.LoginWindow)
	if cfg.RedisURL == "" {
		return memory, func() {}
	}

	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		log.WithError(err).Warn("invalid redis url, using in-process login limiter")
		return memory, func() {}
	}
	rdb := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.WithError(err).Warn("redis unreachable, using in-process login limiter")
		_ = rdb.Close()
		return memory, func() {}
	}

	log.WithField("addr", opts.Addr).Info("login limiter backed by redis")
	return ratelimit.NewRedisLimiter(rdb, "portfolio:login:", cfg.LoginMaxAttempts, cfg.LoginWindow), func() { _ = rdb.Close() }
}
