// Package server wires the storefront backend together: it opens the store,
// builds the services and runs the HTTP API and the gRPC health probe until
// a shutdown signal arrives.
package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/dmitrijs2005/stylish/internal/logging"
	"github.com/dmitrijs2005/stylish/internal/server/auth"
	"github.com/dmitrijs2005/stylish/internal/server/config"
	"github.com/dmitrijs2005/stylish/internal/server/notify"
	"github.com/dmitrijs2005/stylish/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/stylish/internal/server/rest"
	"github.com/dmitrijs2005/stylish/internal/server/services"
	"github.com/dmitrijs2005/stylish/internal/server/throttle"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	gs "github.com/dmitrijs2005/stylish/internal/server/grpc"
)

const closeTimeout = 5 * time.Second

type App struct {
	config   *config.Config
	logger   logging.Logger
	zap      *zap.Logger
	store    repomanager.RepositoryManager
	redis    *redis.Client
	notifier notify.Notifier
	http     *rest.Server
	grpc     *gs.GRPCServer
}

// NewApp opens the store, applies migrations and builds both servers.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger, zl, err := logging.New(c.Env)
	if err != nil {
		return nil, fmt.Errorf("logger init error: %w", err)
	}

	return newApp(ctx, c, logger, zl, prometheus.NewRegistry())
}

func newApp(ctx context.Context, c *config.Config, logger logging.Logger, zl *zap.Logger, registry *prometheus.Registry) (*App, error) {
	app := &App{config: c, logger: logger, zap: zl}

	store, err := repomanager.New(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}
	app.store = store

	if err := store.RunMigrations(ctx); err != nil {
		app.close(ctx)
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	tokens, err := auth.NewTokenService(c.SecretKey, c.AccessTokenValidityDuration)
	if err != nil {
		app.close(ctx)
		return nil, err
	}

	var limiter services.LoginLimiter
	if c.RedisAddr != "" {
		app.redis = redis.NewClient(&redis.Options{Addr: c.RedisAddr, Password: c.RedisPassword, DB: c.RedisDB})
		limiter = throttle.NewLoginLimiter(throttle.NewRedisStore(app.redis, "login"), c.LoginMaxAttempts, c.LoginWindow)
	}

	app.notifier, err = newNotifier(ctx, c)
	if err != nil {
		app.close(ctx)
		return nil, err
	}

	us := services.NewUserService(store, auth.NewPasswordHasher(c.BcryptCost), tokens, limiter, c, logger)
	ps := services.NewPurchaseService(store, app.notifier, c, logger)

	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	app.http, err = rest.NewServer(rest.Dependencies{
		Env:         c.Env,
		Address:     c.HTTPAddr,
		CORSOrigins: c.CORSOrigins,
		Logger:      logger,
		Users:       us,
		Purchases:   ps,
		Tokens:      tokens,
		Store:       store,
		Registry:    registry,
	})
	if err != nil {
		app.close(ctx)
		return nil, fmt.Errorf("http server init error: %w", err)
	}

	app.grpc = gs.NewGRPCServer(c.GRPCAddr, logger, store, 0)

	logger.Info(ctx, "app initialized",
		"store", storeScheme(c.DatabaseDSN),
		"notify", c.NotifyDriver,
		"login_throttle", app.redis != nil,
		"strict_totals", c.StrictTotals,
	)

	return app, nil
}

// newNotifier builds the order-event sink named by NotifyDriver.
func newNotifier(ctx context.Context, c *config.Config) (notify.Notifier, error) {
	switch strings.ToLower(c.NotifyDriver) {
	case "", "none":
		return notify.Nop{}, nil
	case "s3":
		n, err := notify.NewS3Notifier(ctx, notify.S3Config{
			Bucket:       c.S3Bucket,
			Region:       c.S3Region,
			BaseEndpoint: c.S3BaseEndpoint,
			AccessKey:    c.S3AccessKey,
			SecretKey:    c.S3SecretKey,
		})
		if err != nil {
			return nil, fmt.Errorf("s3 notifier init error: %w", err)
		}
		return n, nil
	case "kafka":
		if len(c.KafkaBrokers) == 0 {
			return nil, fmt.Errorf("kafka notifier needs at least one broker")
		}
		return notify.NewKafkaNotifier(c.KafkaBrokers, c.KafkaTopic), nil
	default:
		return nil, fmt.Errorf("unknown notify driver %q", c.NotifyDriver)
	}
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Run serves both servers until ctx is cancelled, a signal arrives or one of
// them fails, then releases the store and notifier.
func (app *App) Run(ctx context.Context) error {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := app.http.Run(gctx); err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		if err := app.grpc.Run(gctx); err != nil {
			return fmt.Errorf("grpc server: %w", err)
		}
		return nil
	})

	err := g.Wait()
	if err != nil {
		app.logger.Error(ctx, "server stopped with error", "error", err)
	}

	app.close(context.WithoutCancel(ctx))
	app.logger.Info(ctx, "App stopped")
	return err
}

func (app *App) close(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, closeTimeout)
	defer cancel()

	if app.notifier != nil {
		if err := app.notifier.Close(); err != nil {
			app.logger.Warn(ctx, "notifier close failed", "error", err)
		}
	}
	if app.redis != nil {
		if err := app.redis.Close(); err != nil {
			app.logger.Warn(ctx, "redis close failed", "error", err)
		}
	}
	if app.store != nil {
		if err := app.store.Close(ctx); err != nil {
			app.logger.Warn(ctx, "store close failed", "error", err)
		}
	}
	if app.zap != nil {
		_ = app.zap.Sync()
	}
}

func storeScheme(dsn string) string {
	scheme, _, _ := strings.Cut(dsn, "://")
	return scheme
}
