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

	"github.com/joho/godotenv"

	"github.com/MIGUELNINOSILVA/makers/internal/broker"
	"github.com/MIGUELNINOSILVA/makers/internal/config"
	"github.com/MIGUELNINOSILVA/makers/internal/db"
	"github.com/MIGUELNINOSILVA/makers/internal/handler"
	catalogmodel "github.com/MIGUELNINOSILVA/makers/internal/model/catalog"
	catalogservice "github.com/MIGUELNINOSILVA/makers/internal/service/catalog"
	chatservice "github.com/MIGUELNINOSILVA/makers/internal/service/chat"
)

const migrationsDir = "migrations"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: failed to load .env file: %v", err)
		log.Println("continuing with system environment variables only")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	catalogStore, closeStore := setupCatalogStore(cfg.Database)
	defer closeStore()

	eventBroker := broker.New()

	if !cfg.Agent.Enabled() {
		log.Println("AGENT_WEBHOOK_URL not set, agent replies will not be dispatched")
	}
	dispatcher := chatservice.NewWebhookDispatcher(cfg.Agent.WebhookURL, cfg.Agent.Timeout, eventBroker)

	chatSvc := chatservice.NewService(eventBroker, dispatcher)
	catalogSvc := catalogservice.NewService(catalogStore)

	router := handler.NewRouter(cfg.CORS.AllowedOrigin, chatSvc, eventBroker, catalogSvc)

	startServer(ctx, cfg.Server, router)
}

// setupCatalogStore connects to Postgres when DATABASE_URL is configured,
// otherwise it falls back to the in-memory seed catalog.
func setupCatalogStore(dbCfg config.DatabaseConfig) (catalogmodel.Store, func()) {
	if dbCfg.URL == "" {
		log.Println("DATABASE_URL not set, using in-memory catalog seed")
		return catalogmodel.NewMemoryStore(catalogmodel.Seed()), func() {}
	}

	database, err := db.New(dbCfg.URL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	if err := database.RunMigrations(migrationsDir); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}

	log.Println("catalog database connected")
	return catalogmodel.NewPostgresStore(database), func() { database.Close() }
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler) {
	addr := serverCfg.Addr
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("Makers chat backend listening on %s", addr)
	if err := runServer(ctx, srv); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
