package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/andreasstove999/ecommerce-system/storefront-order-service-go/internal/config"
	"github.com/andreasstove999/ecommerce-system/storefront-order-service-go/internal/db"
	"github.com/andreasstove999/ecommerce-system/storefront-order-service-go/internal/events"
	httpapi "github.com/andreasstove999/ecommerce-system/storefront-order-service-go/internal/http"
	"github.com/andreasstove999/ecommerce-system/storefront-order-service-go/internal/metrics"
	"github.com/andreasstove999/ecommerce-system/storefront-order-service-go/internal/order"
	"github.com/andreasstove999/ecommerce-system/storefront-order-service-go/internal/sequence"
	"github.com/andreasstove999/ecommerce-system/storefront-order-service-go/internal/slot"
	"github.com/andreasstove999/ecommerce-system/storefront-order-service-go/internal/webhook"
)

func main() {
	logger := log.New(os.Stdout, "[storefront-order-service] ", log.LstdFlags|log.Lshortfile)

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Persistence
	orderSlot, closeSlot, err := slot.Open(ctx, cfg, logger)
	if err != nil {
		logger.Fatalf("open order slot: %v", err)
	}
	defer closeSlot()

	opts := order.Options{
		Logger:   logger,
		Observer: metrics.NotificationObserver(logger),
	}
	if cfg.WebhookEnabled {
		opts.Notifier = webhook.NewNotifier(cfg.WebhookURL, cfg.WebhookTimeout)
	}

	// RabbitMQ is optional
	var rabbitConn *amqp.Connection
	if cfg.RabbitMQURL != "" {
		rabbitConn, err = events.Dial(cfg.RabbitMQURL)
		if err != nil {
			logger.Fatalf("%v", err)
		}
		defer rabbitConn.Close()

		seq, closeSeq := sequencer(ctx, cfg, logger)
		defer closeSeq()

		pub, err := events.NewPublisher(rabbitConn, seq)
		if err != nil {
			logger.Fatalf("create publisher: %v", err)
		}
		defer pub.Close()
		opts.Publisher = pub
	}

	store, err := order.NewStore(ctx, orderSlot, opts)
	if err != nil {
		logger.Fatalf("load orders: %v", err)
	}

	if rabbitConn != nil {
		consumer := events.NewConsumer(rabbitConn, logger)
		consumer.Register(events.DriverLocationRoutingKey, events.DriverLocationHandler(store, logger))
		consumer.Register(events.PaymentSucceededRoutingKey, events.PaymentSucceededHandler(store, logger))
		if err := consumer.Start(ctx); err != nil {
			logger.Fatalf("start consumers: %v", err)
		}
	}

	// HTTP
	router := httpapi.NewRouter(httpapi.NewOrderHandler(store), logger, cfg.CORSAllowOrigins)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		logger.Printf("storefront-order-service listening on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("server error: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Println("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)

	// let in-flight webhook and event deliveries finish
	store.Wait()
}

// sequencer prefers the Postgres event_sequence table so numbering survives
// restarts, and falls back to in-process counters.
func sequencer(ctx context.Context, cfg config.Config, logger *log.Logger) (sequence.Sequencer, func()) {
	if cfg.PostgresDSN == "" {
		logger.Println("event sequences: in-memory")
		return sequence.NewMemory(), func() {}
	}

	if cfg.RunMigrations && cfg.StoreBackend != config.BackendPostgres {
		if err := db.RunMigrations(cfg.PostgresDSN, logger); err != nil {
			logger.Fatalf("migrations: %v", err)
		}
	}

	pool, err := db.NewPool(ctx, cfg.PostgresDSN)
	if err != nil {
		logger.Fatalf("create pool: %v", err)
	}
	logger.Println("event sequences: postgres")
	return sequence.NewRepository(pool), pool.Close
}
