package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/suntzu974/papang/internal/app/server"
	"github.com/suntzu974/papang/internal/config"
	"github.com/suntzu974/papang/internal/delivery/http"
	"github.com/suntzu974/papang/internal/mailer"
	"github.com/suntzu974/papang/internal/service"
	"github.com/suntzu974/papang/internal/service/auth"
	"github.com/suntzu974/papang/internal/service/expense"
	"github.com/suntzu974/papang/internal/storage/miniostore"
	"github.com/suntzu974/papang/internal/storage/postgres"
	"github.com/suntzu974/papang/internal/storage/redisstore"
	"github.com/suntzu974/papang/pkg/logger"
)

func Run(cfg *config.Config) {

	log := logger.New(cfg.Env)
	log.Info("Starting with Env: " + cfg.Env)

	pg, err := postgres.NewPostgresPool(cfg.Postgres.User, cfg.Postgres.Password, cfg.Postgres.Host, cfg.Postgres.Port, cfg.Postgres.DBName)
	if err != nil {
		log.FatalErr("error connecting to database", err)
	}
	defer pg.Close()

	if err := pg.RunMigrations(context.Background()); err != nil {
		log.FatalErr("error running migrations", err)
	}

	sessions, err := redisstore.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		log.FatalErr("error connecting to redis", err)
	}
	defer sessions.Close()

	receipts, err := miniostore.NewReceiptStorage(
		cfg.Minio.Endpoint, cfg.Minio.AccessKey, cfg.Minio.SecretKey,
		cfg.Minio.UseSSL, cfg.Minio.Bucket, cfg.Minio.PresignTTL,
	)
	if err != nil {
		log.FatalErr("error connecting to minio", err)
	}

	smtpMailer, err := mailer.NewSMTPMailer(
		cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Username, cfg.SMTP.Password,
		cfg.SMTP.From, cfg.Frontend.BaseURL,
	)
	if err != nil {
		log.FatalErr("error creating mailer", err)
	}

	userRepo := postgres.NewUserPostgres(pg.Pool)
	expenseRepo := postgres.NewExpensePostgres(pg.Pool)

	accessTokens := auth.NewAccessTokenService(cfg.JWT.AccessSecret, cfg.JWT.AccessTTL)
	refreshTokens := auth.NewRefreshTokenService(sessions, cfg.JWT.RefreshSecret, cfg.JWT.RefreshTTL)
	authService := auth.NewAuthService(log, userRepo, accessTokens, refreshTokens, smtpMailer)
	expenseService := expense.NewExpenseService(log, expenseRepo, receipts)
	u := service.Collection{AuthService: authService, ExpenseService: expenseService}

	r := http.InitRoutes(log, u)

	srv := server.New(cfg.HTTPServer.Address, cfg.HTTPServer.Timeout, cfg.HTTPServer.IdleTimeout, r)
	srv.Start()
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)

	select {
	case s := <-interrupt:
		log.Info("app signal: " + s.String())
	case err := <-srv.Notify():
		log.ErrorErr("server error", err)
	}
	if err := srv.Shutdown(); err != nil {
		log.ErrorErr("shutdown error", err)
	}
}
