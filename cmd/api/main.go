package main

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"

	cacheadapter "github.com/taskhive/taskhive/internal/adapter/cache"
	"github.com/taskhive/taskhive/internal/bootstrap"
	"github.com/taskhive/taskhive/internal/config"
	httptransport "github.com/taskhive/taskhive/internal/http"
	"github.com/taskhive/taskhive/internal/http/handler"
	httpmiddleware "github.com/taskhive/taskhive/internal/http/middleware"
	apimiddleware "github.com/taskhive/taskhive/internal/middleware"
	"github.com/taskhive/taskhive/internal/password"
	"github.com/taskhive/taskhive/internal/repository"
	"github.com/taskhive/taskhive/internal/server"
	"github.com/taskhive/taskhive/internal/service"
	"github.com/taskhive/taskhive/internal/telemetry"
)

func main() {
	app := fx.New(
		fx.Provide(
			newConfig,
			newLogger,
			newTelemetry,
			newSnowflake,
			newPGXPool,
			newUserRepository,
			newCategoryRepository,
			newTodoRepository,
			newRedisClient,
			newTodoCache,
			newHasher,
			newRateLimiter,
			service.NewAuthService,
			newTodoService,
			service.NewCategoryService,
			newAuthHandler,
			handler.NewCategoryHandler,
			handler.NewTodoHandler,
			newSessionMiddleware,
			httptransport.NewRouter,
			server.NewHTTPServer,
		),
		fx.Invoke(useTelemetry, bootstrap.RunMigrations, startHTTPServer),
	)

	app.Run()
}

func newConfig() (config.Config, error) {
	return config.Load()
}

func newLogger(cfg config.Config) (*zap.Logger, error) {
	var (
		logger *zap.Logger
		err    error
	)
	if cfg.Environment == "development" {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		return nil, err
	}
	zap.ReplaceGlobals(logger)
	return logger, nil
}

func newTelemetry(lc fx.Lifecycle, cfg config.Config, logger *zap.Logger) (*telemetry.Provider, error) {
	provider, err := telemetry.New(context.Background(), cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("telemetry init: %w", err)
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			stopCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			defer cancel()
			return provider.Shutdown(stopCtx)
		},
	})

	return provider, nil
}

func newSnowflake() (*snowflake.Node, error) {
	node, err := snowflake.NewNode(1)
	return node, err
}

func newPGXPool(lc fx.Lifecycle, cfg config.Config) (*pgxpool.Pool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			pool.Close()
			return nil
		},
	})

	return pool, nil
}

func newUserRepository(pool *pgxpool.Pool) repository.UserRepository {
	return repository.NewPostgresUserRepo(pool)
}

func newCategoryRepository(pool *pgxpool.Pool) repository.CategoryRepository {
	return repository.NewPostgresCategoryRepo(pool)
}

func newTodoRepository(pool *pgxpool.Pool) repository.TodoRepository {
	return repository.NewPostgresTodoRepo(pool)
}

func newRedisClient(lc fx.Lifecycle, cfg config.Config) (redis.UniversalClient, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return client.Close()
		},
	})
	return client, nil
}

func newTodoCache(client redis.UniversalClient, logger *zap.Logger) repository.TodoCache {
	return cacheadapter.NewRedisTodoCache(client, logger)
}

func newHasher() *password.Hasher {
	return password.NewHasher()
}

func newRateLimiter(cfg config.Config) *apimiddleware.RateLimiter {
	return apimiddleware.NewRateLimiter(cfg.RateLimitRPM)
}

func newTodoService(todos repository.TodoRepository, categories repository.CategoryRepository, cache repository.TodoCache, cfg config.Config, node *snowflake.Node, logger *zap.Logger) *service.TodoService {
	return service.NewTodoService(todos, categories, cache, cfg.TodoCacheTTL, node, logger)
}

func newAuthHandler(auth *service.AuthService, cfg config.Config) *handler.AuthHandler {
	return handler.NewAuthHandler(auth, cfg)
}

func newSessionMiddleware(auth *service.AuthService) *httpmiddleware.Session {
	return &httpmiddleware.Session{Auth: auth}
}

func startHTTPServer(lc fx.Lifecycle, srv *server.HTTPServer, cfg config.Config, logger *zap.Logger) {
	addr := ":" + cfg.HTTPPort
	var (
		cancel context.CancelFunc
		done   chan struct{}
	)

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			runCtx, stop := context.WithCancel(context.Background())
			cancel = stop
			done = make(chan struct{})

			go func() {
				if err := srv.Run(runCtx, addr); err != nil {
					logger.Error("http server stopped", zap.Error(err))
				}
				close(done)
			}()

			return nil
		},
		OnStop: func(ctx context.Context) error {
			if cancel != nil {
				cancel()
			}
			if done == nil {
				return nil
			}
			select {
			case <-done:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		},
	})
}

func useTelemetry(*telemetry.Provider) {}
