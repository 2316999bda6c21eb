package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"syscall"
	"time"

	"github.com/sponza-next/internal/app"
	"github.com/sponza-next/internal/config"
	"github.com/sponza-next/internal/logger"
	"github.com/sponza-next/internal/models"

	"github.com/gin-gonic/gin"
)

func main() {
	mode := flag.String("mode", app.ModeAll, "run mode: all / api / worker")
	flag.Parse()

	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	defer logger.L.Sync()

	if isWeakSecret(cfg.JWT.SecretKey) {
		logger.L.Fatal("jwt.secret is missing or uses a placeholder value, refusing to start")
	}
	if isWeakSecret(cfg.UserJWT.SecretKey) {
		logger.L.Fatal("user_jwt.secret is missing or uses a placeholder value, refusing to start")
	}

	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		logger.S().Fatalf("failed to initialize database: %v", err)
	}
	if err := models.AutoMigrate(); err != nil {
		logger.S().Fatalf("failed to migrate database: %v", err)
	}
	if err := models.InitDefaultAdmin(
		os.Getenv("SPONZA_DEFAULT_ADMIN_USERNAME"),
		os.Getenv("SPONZA_DEFAULT_ADMIN_PASSWORD"),
	); err != nil {
		logger.S().Fatalf("failed to initialize default admin: %v", err)
	}

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	fmt.Printf("sponza starting (mode=%s) on %s:%s\n", *mode, cfg.Server.Host, cfg.Server.Port)

	if err := app.Run(app.Options{
		Config:          cfg,
		Logger:          logger.S(),
		Signals:         []os.Signal{syscall.SIGINT, syscall.SIGTERM},
		ShutdownTimeout: 10 * time.Second,
		Mode:            *mode,
	}); err != nil {
		logger.S().Fatalf("server exited with error: %v", err)
	}
	logger.S().Info("server exited")
}

// isWeakSecret rejects empty, short, or obviously placeholder secrets.
func isWeakSecret(secret string) bool {
	trimmed := strings.TrimSpace(secret)
	if len(trimmed) < 32 {
		return true
	}
	lowered := strings.ToLower(trimmed)
	for _, marker := range []string{"change-me", "changeme", "your-secret-key"} {
		if strings.Contains(lowered, marker) {
			return true
		}
	}
	return false
}
