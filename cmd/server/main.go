package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/Skotchmaster/shoplist/internal/authclient"
	"github.com/Skotchmaster/shoplist/internal/config"
	"github.com/Skotchmaster/shoplist/internal/es"
	"github.com/Skotchmaster/shoplist/internal/httpserver"
	"github.com/Skotchmaster/shoplist/internal/identity"
	"github.com/Skotchmaster/shoplist/internal/inventory"
	"github.com/Skotchmaster/shoplist/internal/logging"
	"github.com/Skotchmaster/shoplist/internal/middleware/csrf"
	loggingmw "github.com/Skotchmaster/shoplist/internal/middleware/logging"
	"github.com/Skotchmaster/shoplist/internal/middleware/session"
	"github.com/Skotchmaster/shoplist/internal/mykafka"
	"github.com/Skotchmaster/shoplist/internal/payment"
	"github.com/Skotchmaster/shoplist/internal/repo"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger := logging.New(cfg.LogLevel)

	initCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	db, err := config.InitDB(initCtx, cfg.DatabaseURL)
	cancel()
	if err != nil {
		log.Fatalf("Ошибка инициализации БД: %v", err)
	}

	oidcCtx, cancelOIDC := context.WithTimeout(context.Background(), 10*time.Second)
	oidcClient, err := authclient.New(oidcCtx, cfg.OIDCIssuer, cfg.OIDCClientID, cfg.OIDCClientSecret, cfg.OIDCRedirectURL)
	cancelOIDC()
	if err != nil {
		log.Fatalf("oidc init error: %v", err)
	}

	var payments *payment.Client
	if cfg.StripeAPIKey != "" {
		payments = payment.NewClient(
			cfg.StripeAPIKey,
			cfg.BaseURL+"/checkout/success",
			cfg.BaseURL+"/checkout/cancel",
		)
	} else {
		log.Println("STRIPE_API_KEY is empty, checkout is disabled")
	}

	prod := mykafka.NewProducer(cfg.KafkaBrokers)

	var esClient *elasticsearch.Client
	if cfg.ESURL != "" {
		esClient, err = es.NewClient(cfg)
		if err != nil {
			log.Fatalf("elasticsearch init error: %v", err)
		}
	}

	gormRepo := &repo.GormRepo{DB: db}
	invSvc := &inventory.Service{Repo: gormRepo}
	idSvc := identity.NewService(gormRepo, cfg.AdminEmails)
	sessions := &session.Manager{Secret: cfg.SessionSecret}

	e := echo.New()
	e.HideBanner = true

	e.Server.ReadTimeout = 10 * time.Second
	e.Server.WriteTimeout = 15 * time.Second
	e.Server.ReadHeaderTimeout = 3 * time.Second

	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID())
	e.Use(loggingmw.RequestLogger(logger))
	e.Use(csrf.Middleware("/auth/callback", "/checkout/success", "/checkout/cancel"))

	httpserver.Register(e, &httpserver.Deps{
		Auth: &httpserver.AuthHandler{
			OIDC:     oidcClient,
			Identity: idSvc,
			Sessions: sessions,
		},
		Catalog: &httpserver.CatalogHandler{
			Svc:      invSvc,
			Producer: prod,
			ES:       esClient,
			Index:    cfg.ESIndex,
		},
		Cart: &httpserver.CartHandler{Svc: invSvc},
		Checkout: &httpserver.CheckoutHandler{
			Svc:      invSvc,
			Payments: payments,
			Producer: prod,
		},
		History:  &httpserver.HistoryHandler{Svc: invSvc},
		Sessions: sessions,
	})

	go func() {
		addr := fmt.Sprintf(":%d", cfg.ServerPort)
		log.Printf("starting server on %s", addr)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("echo start: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	log.Println("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("echo shutdown: %v", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Printf("db close error: %v", err)
		}
	}

	if err := prod.Close(); err != nil {
		log.Printf("kafka close error: %v", err)
	}

	log.Println("shutdown complete")
}
