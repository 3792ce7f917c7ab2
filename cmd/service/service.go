// File: cmd/service/service.go
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"account-service/internal/config"
	"account-service/internal/database"
	"account-service/internal/logging"
	"account-service/internal/repository"
	"account-service/internal/router"
	"account-service/internal/service"
	"account-service/internal/worker"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	_ "account-service/docs" // 引入 swag 產出的 docs

	echoSwagger "github.com/swaggo/echo-swagger"
)

// CustomValidator wraps go-playground/validator for Echo
// swagger:ignore
type CustomValidator struct {
	validator *validator.Validate
}

// Validate calls the underlying validator
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

var (
	loadConfig      = config.Load
	newLogger       = logging.New
	newPgxPool      = database.NewPgxPool
	runMigrationsFn = database.RunMigrations
	newWorkerPool   = worker.NewPool
	startServer     = func(e *echo.Echo, addr string) error { return e.Start(addr) }
	exitFunc        = os.Exit
)

func run() error {
	// .env 不存在時沿用現有環境變數
	_ = godotenv.Load()

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("讀取設定失敗: %v", err)
	}

	logger, err := newLogger(cfg.LogLevel, cfg.LogDev)
	if err != nil {
		return fmt.Errorf("建立 logger 失敗: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if err := runMigrationsFn(cfg.DatabaseURL); err != nil {
		return fmt.Errorf("Migration 執行失敗: %v", err)
	}

	db, err := newPgxPool(context.Background(), cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("DB 連線失敗: %v", err)
	}
	defer db.Close()

	store := repository.New(db, logger,
		service.BcryptHasher{Cost: cfg.BcryptCost},
		service.Policy{
			MinPasswordLength: cfg.MinPasswordLength,
			MaxNameLength:     cfg.MaxNameLength,
			MaxEmailLength:    cfg.MaxEmailLength,
		},
	)

	wp := newWorkerPool(cfg.WorkerCount)
	defer wp.Stop()

	// 開機後在背景確認資料庫可達，不擋服務起動
	wp.Submit(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := db.Ping(ctx); err != nil {
			logger.Warn("database not reachable yet", zap.Error(err))
			return
		}
		logger.Info("database reachable")
	})

	e := echo.New()
	e.Validator = &CustomValidator{validator: validator.New()}
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())

	router.Setup(e, db, store, cfg.TokenTTL)

	// Swagger UI
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	logger.Info("starting server", zap.String("addr", cfg.ListenAddr))
	return startServer(e, cfg.ListenAddr)
}
