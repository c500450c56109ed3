// Command api serves the books catalogue and user accounts over HTTP.
//
// @title                      Books API
// @version                    1.0
// @description                Book catalogue and user accounts with role based access.
// @BasePath                   /
// @securityDefinitions.basic  BasicAuth
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/bl00dPhant0m/LiquiBase/internal/api"
	"github.com/bl00dPhant0m/LiquiBase/internal/api/handler"
	"github.com/bl00dPhant0m/LiquiBase/internal/api/middleware"
	"github.com/bl00dPhant0m/LiquiBase/internal/core/ports"
	"github.com/bl00dPhant0m/LiquiBase/internal/core/service"
	"github.com/bl00dPhant0m/LiquiBase/internal/infrastructure/db/redis"
	"github.com/bl00dPhant0m/LiquiBase/internal/infrastructure/db/sqlite"
	"github.com/bl00dPhant0m/LiquiBase/internal/infrastructure/security"
	"github.com/bl00dPhant0m/LiquiBase/internal/pkg/config"
	"github.com/bl00dPhant0m/LiquiBase/pkg/logger"
)

func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "books-api",
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error().Err(err).Msg("server stopped with error")
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	db, err := sqlite.Connect(ctx, sqlite.Config{
		Path:    cfg.Database.Path,
		Verbose: cfg.Database.Verbose,
		Logger:  log,
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := sqlite.Close(db); err != nil {
			log.Warn().Err(err).Msg("failed to close database")
		}
	}()
	log.Info().Str("path", cfg.Database.Path).Msg("database ready")

	sqlDB, err := db.DB()
	if err != nil {
		return err
	}

	// --- Optional Redis ---
	var (
		rdb         *goredis.Client
		limiter     ports.LoginLimiter
		idempotency ports.IdempotencyStore
	)
	redisCfg := redis.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB}
	if redisCfg.Enabled() {
		rdb, err = redis.Connect(ctx, redisCfg)
		if err != nil {
			return err
		}
		defer func() { _ = rdb.Close() }()

		limiter = redis.NewLoginLimiter(rdb, cfg.Auth.LoginMaxAttempts, cfg.Auth.LoginWindow)
		idempotency = redis.NewIdempotencyStore(rdb, cfg.Redis.IdempotencyTTL)
		log.Info().Str("addr", redisCfg.Addr).Msg("redis ready")
	} else {
		log.Warn().Msg("REDIS_ADDR not set: login throttling and idempotency keys disabled")
	}

	// --- Dependencies ---
	hasher := security.NewBcryptHasher(cfg.Auth.BcryptCost)
	bookService := service.NewBookService(sqlite.NewBookRepository(db), idempotency, log)
	userService := service.NewUserService(sqlite.NewUserRepository(db), hasher, log)
	authService := service.NewAuthService(userService, hasher, limiter, cfg.Auth.JWTSecret, cfg.Auth.JWTTTL, log)

	if cfg.Auth.AdminUsername != "" && cfg.Auth.AdminPassword != "" {
		if err := userService.EnsureAdmin(ctx, cfg.Auth.AdminUsername, cfg.Auth.AdminPassword); err != nil {
			return err
		}
	}

	e := api.NewRouter(api.Services{
		Books: bookService,
		Users: userService,
		Auth:  authService,
	}, api.Options{
		Logger: log,
		Policy: middleware.DefaultPolicy(),
		Health: handler.NewHealthDependenciesHandler(sqlDB, rdb),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           e,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("starting server")
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

	log.Info().Dur("timeout", cfg.ShutdownTimeout).Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	log.Info().Msg("server exited")
	return nil
}
