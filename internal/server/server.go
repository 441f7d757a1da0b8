// Package server runs the callback receiver and the NATS gateway: vendor
// callbacks over HTTP, SDK operations over NATS request/reply.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	comms "github.com/nats-io/nats.go"

	"github.com/arcturial/clickatell/internal/config"
	"github.com/arcturial/clickatell/pkg/cache"
	"github.com/arcturial/clickatell/pkg/callback"
	"github.com/arcturial/clickatell/pkg/clickatell"
	"github.com/arcturial/clickatell/pkg/commsutil"
	"github.com/arcturial/clickatell/pkg/db"
	"github.com/arcturial/clickatell/pkg/dispatcher"
	"github.com/arcturial/clickatell/pkg/events"
	"github.com/arcturial/clickatell/pkg/messagelog"
	"github.com/arcturial/clickatell/pkg/metrics"
	"github.com/arcturial/clickatell/pkg/transfer"
	"github.com/arcturial/clickatell/pkg/translate"
)

const logPrefix = "server:server"

// Server owns the long-lived connections.
type Server struct {
	cfg        *config.Config
	nc         *comms.Conn
	pool       *pgxpool.Pool
	redis      *cache.RedisClient
	httpServer *http.Server
}

// SetupLogging installs a text slog handler on stdout at cfg's level.
func SetupLogging(cfg *config.Config) {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()})))
}

// Run starts the server, blocks until shutdown signal, then cleans up.
func Run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("%s - failed to load config: %w", logPrefix, err)
	}
	SetupLogging(cfg)
	if err := cfg.ValidateForServe(); err != nil {
		return err
	}

	slog.Info(fmt.Sprintf("%s - Starting clickatell callback server", logPrefix))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s := &Server{cfg: cfg}
	defer s.close()

	m := metrics.New()
	checks := map[string]Check{}

	// Step 1: Connect to database
	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("%s - failed to connect to database: %w", logPrefix, err)
	}
	s.pool = pool
	checks["database"] = pool.Ping

	// Step 1b: Run migrations if enabled
	if cfg.RunMigrations {
		migrations, err := db.LoadMigrationFiles(cfg.MigrationPath)
		if err != nil {
			return fmt.Errorf("%s - failed to load migrations: %w", logPrefix, err)
		}
		if err := db.RunMigrations(ctx, pool, migrations); err != nil {
			return fmt.Errorf("%s - failed to run migrations: %w", logPrefix, err)
		}
	}

	// Step 2: Message log through GORM on the same database
	gormDB, err := messagelog.Open(cfg.DatabaseURL)
	if err != nil {
		return err
	}
	if sqlDB, err := gormDB.DB(); err == nil {
		defer sqlDB.Close()
	}
	msgLog := messagelog.NewRepository(gormDB)
	if cfg.RunMigrations {
		if err := msgLog.Migrate(ctx); err != nil {
			return err
		}
	}

	// Step 3: Redis status cache (optional)
	var statusCache *cache.StatusCache
	if cfg.RedisAddr != "" {
		rc := cache.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err := rc.Ping(ctx); err != nil {
			slog.Warn(fmt.Sprintf("%s - Redis at %s unreachable, status cache disabled: %v", logPrefix, cfg.RedisAddr, err))
			rc.Close()
		} else {
			s.redis = rc
			statusCache = cache.NewStatusCache(rc, cfg.StatusCacheTTL)
			checks["cache"] = rc.Ping
		}
	}

	// Step 4: Connect to NATS (optional) and publish events
	var publisher events.EventPublisher = &events.NoOpPublisher{}
	if cfg.COMMSURL != "" {
		nc, err := commsutil.Connect(cfg.COMMSURL, cfg.COMMSName)
		if err != nil {
			return fmt.Errorf("%s - failed to connect to NATS: %w", logPrefix, err)
		}
		s.nc = nc
		publisher = events.NewCommsPublisher(nc, nil)
		checks["comms"] = func(context.Context) error {
			if !nc.IsConnected() {
				return errors.New("not connected")
			}
			return nil
		}
		slog.Info(fmt.Sprintf("%s - Connected to NATS at %s", logPrefix, cfg.COMMSURL))
	}

	// Step 5: Gateway
	if s.nc != nil {
		factory, err := NewDispatcherFactory(cfg, publisher, msgLog, m)
		if err != nil {
			return err
		}
		gw := NewGateway(factory, m, cfg.RequestTimeout)
		sub, err := gw.Subscribe(ctx, s.nc, cfg.GatewaySubject)
		if err != nil {
			return err
		}
		defer sub.Unsubscribe()
	}

	// Step 6: HTTP callback receiver
	allowed := cfg.CallbackAllowedIPs
	guard, err := callback.NewGuard(allowed...)
	if err != nil {
		return fmt.Errorf("%s - invalid CALLBACK_ALLOWED_IPS: %w", logPrefix, err)
	}
	if !guard.Enabled() {
		slog.Warn(fmt.Sprintf("%s - CALLBACK_ALLOWED_IPS empty, accepting callbacks from any address", logPrefix))
	}

	deps := RouterDeps{
		Store:         db.NewCallbackRepository(pool),
		Publisher:     publisher,
		Metrics:       m,
		Guard:         guard,
		Checks:        checks,
		HealthTimeout: cfg.HealthCheckTimeout,
	}
	if statusCache != nil {
		deps.Status = statusCache
	}

	gin.SetMode(gin.ReleaseMode)
	httpAddr := cfg.HTTPAddr
	if httpAddr == "" {
		httpAddr = fmt.Sprintf(":%d", cfg.HTTPPort)
	}
	s.httpServer = &http.Server{
		Addr:              httpAddr,
		Handler:           NewRouter(deps),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		slog.Info(fmt.Sprintf("%s - HTTP server listening on %s", logPrefix, httpAddr))
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error(fmt.Sprintf("%s - HTTP server error: %v", logPrefix, err))
		}
	}()

	slog.Info(fmt.Sprintf("%s - Clickatell server is ready", logPrefix))

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	slog.Info(fmt.Sprintf("%s - Received signal %s, shutting down", logPrefix, sig))

	shutdownCtx, shutdownCancel := context.WithTimeout(ctx, 10*time.Second)
	defer shutdownCancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Warn(fmt.Sprintf("%s - HTTP shutdown: %v", logPrefix, err))
	}

	slog.Info(fmt.Sprintf("%s - Shutdown complete", logPrefix))
	return nil
}

// close releases every connection that was opened.
func (s *Server) close() {
	if s.nc != nil {
		s.nc.Drain()
	}
	if s.redis != nil {
		s.redis.Close()
	}
	if s.pool != nil {
		s.pool.Close()
	}
}

// NewDispatcherFactory returns a factory building one gateway dispatcher per
// request. Transport options, the rule set and the HTTP transfer (with its
// rate limiter) are built once and shared. Each dispatcher returns raw
// envelopes and reports to the publisher, the message log and metrics.
func NewDispatcherFactory(cfg *config.Config, publisher events.EventPublisher, store messagelog.Store, m *metrics.Metrics) (DispatcherFactory, error) {
	opts, err := cfg.ClientOptions()
	if err != nil {
		return nil, err
	}
	opts.Translator = translate.Raw{}
	opts.Transfer = transfer.NewHTTP(transfer.HTTPOptions{
		Timeout:   cfg.Timeout,
		RateLimit: cfg.RateLimit,
	})

	return func() (*dispatcher.Dispatcher, error) {
		c, err := clickatell.New(opts)
		if err != nil {
			return nil, err
		}
		d := c.Dispatcher()
		if publisher != nil {
			d.OnResponse(events.Listener(publisher))
		}
		if store != nil {
			d.OnResponse(messagelog.Listener(store))
		}
		if m != nil {
			d.OnResponse(m.Listener())
		}
		return d, nil
	}, nil
}
