// @title         blog API
// @version       1.0
// @description   Blog content backend: posts, categories and admin authentication.
// @BasePath      /api
// @schemes       http
// @host          localhost:3001
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Authorization header in the form "Bearer <JWT>".
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	swagger "github.com/gofiber/swagger"

	_ "github.com/artem13815/blog/docs"

	// internal imports
	httpapi "github.com/artem13815/blog/api/http"
	"github.com/artem13815/blog/api/http/handlers"
	"github.com/artem13815/blog/pkg/auth"
	"github.com/artem13815/blog/pkg/category"
	"github.com/artem13815/blog/pkg/config"
	"github.com/artem13815/blog/pkg/health"
	"github.com/artem13815/blog/pkg/health/checkers"
	"github.com/artem13815/blog/pkg/logger"
	"github.com/artem13815/blog/pkg/post"
	"github.com/artem13815/blog/pkg/repository/memory"
	pgrepo "github.com/artem13815/blog/pkg/repository/postgres"
	"github.com/artem13815/blog/pkg/security/jwt"
	"github.com/artem13815/blog/pkg/storage/postgres"
)

func main() {
	// Load configuration from env/.env and CONFIG_FILE
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(cfg.Env, os.Stdout)
	if err := run(cfg, log); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

// store is the entity store selected by STORE_DRIVER together with its lifecycle.
type store struct {
	users      auth.UserRepository
	posts      post.Repository
	categories category.Repository
	pinger     checkers.Pinger
	close      func()
}

func openStore(ctx context.Context, cfg config.Config, log *slog.Logger) (store, error) {
	if cfg.StoreDriver == config.DriverMemory {
		m := memory.New()
		log.Warn("using in-memory store; data is lost on exit")
		return store{users: m.Users(), posts: m.Posts(), categories: m.Categories(), pinger: m, close: m.Close}, nil
	}

	pool, err := postgres.Connect(ctx, cfg.DatabaseURL, postgres.PoolOptions{})
	if err != nil {
		return store{}, err
	}
	if cfg.AutoMigrate {
		if err := postgres.Migrate(ctx, pool, log); err != nil {
			pool.Close()
			return store{}, err
		}
	}
	return store{
		users:      pgrepo.NewUserRepository(pool),
		posts:      pgrepo.NewPostRepository(pool),
		categories: pgrepo.NewCategoryRepository(pool),
		pinger:     pool,
		close:      pool.Close,
	}, nil
}

func run(cfg config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := openStore(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.close()

	// Wire dependencies (Clean Architecture)
	tokens := jwt.NewGenerator(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTTTL)
	hasher := auth.NewPasswordHasher(cfg.BcryptCost, cfg.AllowLegacyPasswords)
	if cfg.AllowLegacyPasswords {
		log.Warn("legacy plaintext password records are accepted and re-hashed on login")
	}
	authUC := auth.NewAuthService(st.users, tokens, hasher, log)
	postUC := post.NewService(st.posts, post.Limits{Default: cfg.Pagination.DefaultLimit, Max: cfg.Pagination.MaxLimit})
	categoryUC := category.NewService(st.categories)
	healthUC := health.NewService(cfg.Env, checkers.NewStoreChecker(cfg.StoreDriver, st.pinger))

	if b := cfg.Bootstrap; b.AdminEmail != "" {
		created, err := auth.EnsureUser(ctx, authUC, auth.NewUser{
			Email:    b.AdminEmail,
			Password: b.AdminPassword,
			Name:     b.AdminName,
			Role:     auth.RoleAdmin,
		})
		if err != nil {
			return fmt.Errorf("bootstrap admin: %w", err)
		}
		if created {
			log.Info("admin account created", "email", b.AdminEmail)
		}
	}

	app := httpapi.NewApp(httpapi.Options{
		Debug:       cfg.IsDevelopment(),
		BodyLimit:   cfg.BodyLimit,
		CORSOrigins: cfg.CORSOrigins,
		Log:         log,
	})
	httpapi.Register(app, httpapi.Handlers{
		Auth:       handlers.NewAuthHandler(authUC),
		Posts:      handlers.NewPostHandler(postUC),
		Categories: handlers.NewCategoryHandler(categoryUC),
		Health:     handlers.NewHealthHandler(healthUC),
		Docs:       swagger.HandlerDefault,
	}, jwt.NewValidator(cfg.JWTSecret, cfg.JWTIssuer))

	errCh := make(chan error, 1)
	go func() {
		log.Info("HTTP server listening", "port", cfg.Port, "env", cfg.Env, "store", cfg.StoreDriver)
		errCh <- app.Listen(":" + cfg.Port)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	log.Info("shutting down", "timeout", cfg.ShutdownTimeout)
	if err := app.ShutdownWithTimeout(cfg.ShutdownTimeout); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
