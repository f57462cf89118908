package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/you/aarogyam/internal/config"
	"github.com/you/aarogyam/internal/infrastructure/database"
)

const sqlitePrefix = "sqlite:"

// OpenDatabase opens Postgres, or SQLite when the DSN is "sqlite:<path>", and migrates it.
func OpenDatabase(dsn string, log *zap.Logger) (*gorm.DB, error) {
	var (
		db  *gorm.DB
		err error
	)
	if path, ok := strings.CutPrefix(dsn, sqlitePrefix); ok {
		db, err = database.OpenSQLite(path, log)
	} else {
		if dsn == "" {
			return nil, errors.New("DATABASE_DSN is not set")
		}
		db, err = database.Open(dsn, log)
	}
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

// Run serves the API until ctx is cancelled, then drains in-flight requests.
func Run(ctx context.Context, cfg *config.Config, log *zap.Logger) error {
	gin.SetMode(cfg.GinMode)
	if cfg.UsesDefaultSecret() {
		log.Warn("JWT secret is the development placeholder; set JWT_SECRET before deploying")
	}

	gdb, err := OpenDatabase(cfg.DSN, log)
	if err != nil {
		return err
	}

	rdb := database.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err := rdb.Ping(ctx); err != nil {
		return err
	}

	c, err := NewContainer(ctx, cfg, log, gdb, rdb.Client)
	if err != nil {
		return err
	}
	defer c.Close()

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           c.Router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", zap.String("addr", srv.Addr), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
