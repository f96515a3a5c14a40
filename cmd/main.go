package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/golang-migrate/migrate/v4"
	pgmigrate "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/oksasatya/hireboard/config"
	"github.com/oksasatya/hireboard/internal/container"
	pginfra "github.com/oksasatya/hireboard/internal/infrastructure/postgres"
	"github.com/oksasatya/hireboard/internal/infrastructure/search"
	"github.com/oksasatya/hireboard/internal/interface/middleware"
	"github.com/oksasatya/hireboard/internal/router"
	"github.com/oksasatya/hireboard/pkg/helpers"
	"github.com/oksasatya/hireboard/pkg/mailer"
	"github.com/oksasatya/hireboard/pkg/validation"
)

func main() {
	_ = godotenv.Load() // load .env if present

	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName, cfg.Env)
	gin.SetMode(cfg.GinMode)
	validation.Init()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	infra := container.Infra{}

	if cfg.StoreDriver == "postgres" {
		pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), cfg.DBMaxConns, cfg.DBMinConns, cfg.DBMaxConnLife)
		if err != nil {
			log.Fatalf("failed to connect to postgres: %v", err)
		}
		defer pool.Close()
		if err := runMigrations(cfg.PostgresDSN(), cfg.MigrationsDir, logger); err != nil {
			log.Fatalf("migration failed: %v", err)
		}
		infra.Pool = pool
	} else {
		logger.Warn("STORE_DRIVER=memory; data is lost on restart")
	}

	// Redis backs rate limiting only; without it limits are disabled.
	if cfg.RedisAddr != "" {
		rdb := helpers.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		defer func() { _ = rdb.Close() }()
		if err := helpers.PingRedis(ctx, rdb); err != nil {
			logger.WithError(err).Warn("redis unreachable; rate limiting fails open")
		}
		infra.Redis = rdb
	}

	if cfg.GCSBucket != "" {
		gcsClient, err := helpers.NewGCSClient(ctx, cfg.GCSCredentialsJSONPath)
		if err != nil {
			log.Fatalf("failed to init GCS client: %v", err)
		}
		defer func() { _ = gcsClient.Close() }()
		infra.GCS = gcsClient
	}

	if addrs := cfg.ESAddrs(); len(addrs) > 0 {
		es, err := helpers.NewESClient(addrs, cfg.ElasticsearchUser, cfg.ElasticsearchPass)
		if err != nil {
			log.Fatalf("failed to init elasticsearch: %v", err)
		}
		if err := search.NewJobIndex(es, cfg.ESJobsIndex).EnsureIndex(ctx); err != nil {
			logger.WithError(err).Warn("elasticsearch index not ready; search falls back to the store")
		}
		infra.ES = es
	}

	if cfg.MailSendEnabled {
		if cfg.MailUseQueue {
			pub, err := helpers.NewRabbitPublisher(cfg.RabbitMQURL, cfg.RabbitMQEmailQueue)
			if err != nil {
				logger.WithError(err).Warn("rabbitmq unavailable; sending email inline")
			} else {
				defer pub.Close()
				infra.Rabbit = pub
			}
		}
		if cfg.MailgunDomain != "" && cfg.MailgunAPIKey != "" {
			infra.Mailgun = mailer.NewMailgun(cfg.MailgunDomain, cfg.MailgunAPIKey, cfg.MailgunSender)
		}
	}

	c := container.New(cfg, logger, infra)

	// Gin engine and global middleware
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID(), middleware.RealIP())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins(),
		AllowAllOrigins:  len(cfg.CORSOrigins()) == 0,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.HeaderRequestID},
		ExposeHeaders:    []string{"Content-Length", middleware.HeaderRequestID},
		AllowCredentials: len(cfg.CORSOrigins()) > 0,
		MaxAge:           12 * time.Hour,
	}))
	if cfg.HTTPLogEnabled {
		r.Use(gin.Logger())
	}

	reg := router.NewRegistry(r, cfg.APIPrefix)
	router.InitModules(reg, c)
	reg.RegisterAll()

	go c.Sweeper.Run(ctx)

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		logger.Infof("server starting on :%s (store=%s)", cfg.Port, cfg.StoreDriver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("listen: %s\n", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down server")

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctxShutdown); err != nil {
		logger.Errorf("server forced to shutdown: %v", err)
		return
	}
	logger.Info("server exited properly")
}

func runMigrations(dsn string, migrationsDir string, logger *logrus.Logger) error {
	// Open sql DB via pgx stdlib
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()
	driver, err := pgmigrate.WithInstance(db, &pgmigrate.Config{})
	if err != nil {
		return err
	}
	m, err := migrate.NewWithDatabaseInstance(fmt.Sprintf("file://%s", migrationsDir), "postgres", driver)
	if err != nil {
		return err
	}
	logger.Info("running migrations...")
	err = m.Up()
	if errors.Is(err, migrate.ErrNoChange) {
		logger.Info("no migrations to run")
		return nil
	}
	return err
}
