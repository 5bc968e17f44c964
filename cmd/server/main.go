package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/cdegbert/pinecrest-robotics-fundraiser/internal/admin"
	"github.com/cdegbert/pinecrest-robotics-fundraiser/internal/cart"
	"github.com/cdegbert/pinecrest-robotics-fundraiser/internal/catalog"
	"github.com/cdegbert/pinecrest-robotics-fundraiser/internal/checkout"
	"github.com/cdegbert/pinecrest-robotics-fundraiser/internal/config"
	"github.com/cdegbert/pinecrest-robotics-fundraiser/internal/events"
	"github.com/cdegbert/pinecrest-robotics-fundraiser/internal/handlers"
	"github.com/cdegbert/pinecrest-robotics-fundraiser/internal/logging"
	"github.com/cdegbert/pinecrest-robotics-fundraiser/internal/orderlog"
	"github.com/cdegbert/pinecrest-robotics-fundraiser/internal/search"
	httpserver "github.com/cdegbert/pinecrest-robotics-fundraiser/internal/transport/http"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger := logging.New(cfg.LogLevel)
	slog.SetDefault(logger)

	ctx := context.Background()

	db, err := config.InitDB(ctx, cfg)
	if err != nil {
		log.Fatalf("database init error: %v", err)
	}
	if err := catalog.Seed(db); err != nil {
		log.Fatalf("catalog seed error: %v", err)
	}

	cat := &catalog.Catalog{DB: db}

	producer := events.NewProducer(cfg.KafkaBrokers, cfg.EventsTopic)

	store := &cart.Store{
		DB:      db,
		Catalog: cat,
		Notify: func(ctx context.Context, event, sessionID string) {
			logging.FromContext(ctx).Debug("cart changed", "event", event, "session_id", sessionID)
		},
	}

	var sink checkout.Sink
	switch cfg.OrderSink {
	case config.SinkHTTP:
		sink = checkout.NewHTTPSink(cfg.OrderEndpointURL)
	default:
		sink = &checkout.MailSink{To: cfg.OrderEmail}
	}

	submitter := &checkout.Submitter{DB: db, Cart: store, Sink: sink}
	orders := &orderlog.Log{DB: db}

	gate := &admin.Gate{
		JWTSecret:    []byte(cfg.JWTSecret),
		Password:     cfg.AdminPassword,
		PasswordHash: cfg.AdminPasswordHash,
	}

	var searchHandler *handlers.SearchHandler
	if cfg.ESURL != "" {
		esClient, err := search.NewClient(cfg)
		if err != nil {
			log.Fatalf("elasticsearch init error: %v", err)
		}
		products, err := cat.List(ctx)
		if err != nil {
			log.Fatalf("catalog read error: %v", err)
		}
		if err := search.IndexCatalog(ctx, esClient, cfg.ESIndex, products); err != nil {
			log.Fatalf("catalog index error: %v", err)
		}
		searchHandler = &handlers.SearchHandler{ES: esClient, Index: cfg.ESIndex}
	}

	e := echo.New()
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID(), logging.RequestLogger(logger))

	deps := httpserver.Deps{
		DB:              db,
		Gate:            gate,
		ProductHandler:  &handlers.ProductHandler{Catalog: cat},
		CartHandler:     &handlers.CartHandler{Store: store, Producer: producer},
		CheckoutHandler: &handlers.CheckoutHandler{Submitter: submitter, Producer: producer},
		AdminHandler:    &handlers.AdminHandler{Gate: gate, Log: orders},
		SearchHandler:   searchHandler,
	}
	httpserver.Register(e, &deps)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			logger.Error("db close error", "error", err)
		}
	} else {
		logger.Error("db() error", "error", err)
	}

	if err := producer.Close(); err != nil {
		logger.Error("kafka close error", "error", err)
	}

	logger.Info("shutdown complete")
}
