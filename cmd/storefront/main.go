package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/riteshrajpandit/shikhar-shoe/internal/catalog"
	"github.com/riteshrajpandit/shikhar-shoe/internal/checkout"
	"github.com/riteshrajpandit/shikhar-shoe/internal/config"
	"github.com/riteshrajpandit/shikhar-shoe/internal/events"
	httpapi "github.com/riteshrajpandit/shikhar-shoe/internal/http"
	"github.com/riteshrajpandit/shikhar-shoe/internal/logger"
	"github.com/riteshrajpandit/shikhar-shoe/internal/metrics"
	"github.com/riteshrajpandit/shikhar-shoe/internal/session"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	log = log.With(zap.String("service", cfg.App.Name), zap.String("env", cfg.App.Env))

	if err := run(cfg, log); err != nil {
		log.Error("storefront stopped", zap.Error(err))
		_ = log.Sync()
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	seq := events.NewMemorySequencer()
	sessions := session.NewRegistry(cfg.Session.TTL, log.Named("session"), session.OnExpire(seq.Forget))

	m := metrics.New()
	m.TrackSessions(sessions.Len)

	publisher, closePublisher, err := newPublisher(cfg.Events, seq, log)
	if err != nil {
		return err
	}
	defer closePublisher()

	svc := checkout.NewService(
		checkout.NewSimulatedSubmitter(cfg.Checkout.SubmissionDelay),
		log.Named("checkout"),
		checkout.WithPublisher(publisher),
		checkout.WithRecorder(m),
	)

	router := httpapi.NewRouter(httpapi.Deps{
		Logger:         log,
		Catalog:        catalog.NewStaticRepository(catalog.Products()),
		Sessions:       sessions,
		Checkout:       svc,
		Metrics:        m,
		MetricsHandler: m.Handler(),
		Cookie: httpapi.CookieOptions{
			Name:   cfg.Session.CookieName,
			Secure: cfg.Session.CookieSecure,
			MaxAge: cfg.Session.TTL,
		},
		CORSAllowOrigins: cfg.HTTP.CORSAllowOrigins,
		MaxBodyBytes:     cfg.HTTP.MaxBodyBytes,
	})

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("storefront listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		return sessions.Run(gctx, cfg.Session.SweepInterval)
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown: %w", err)
		}
		return nil
	})

	return g.Wait()
}

// newPublisher picks the RabbitMQ publisher when events are enabled and the
// log publisher otherwise. The returned func releases broker resources.
func newPublisher(cfg config.EventsConfig, seq events.Sequencer, log *zap.Logger) (checkout.OrderPublisher, func(), error) {
	if !cfg.Enabled {
		log.Info("event publishing disabled, OrderPlaced events are logged only")
		return events.NewLogPublisher(log.Named("events"), seq), func() {}, nil
	}

	conn, err := events.Dial(cfg.RabbitMQURL, cfg.DialTimeout)
	if err != nil {
		return nil, nil, fmt.Errorf("dial rabbitmq: %w", err)
	}

	pub, err := events.NewPublisher(conn, seq, events.PublisherOptions{})
	if err != nil {
		_ = conn.Close()
		return nil, nil, fmt.Errorf("create order publisher: %w", err)
	}

	return pub, func() {
		if err := pub.Close(); err != nil {
			log.Warn("publisher close error", zap.Error(err))
		}
		closeConn(conn, log)
	}, nil
}

func closeConn(conn *amqp.Connection, log *zap.Logger) {
	if err := conn.Close(); err != nil && !errors.Is(err, amqp.ErrClosed) {
		log.Warn("rabbitmq close error", zap.Error(err))
	}
}
