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

	"github.com/cloudwego/eino/components/model"
	"github.com/joho/godotenv"

	"github.com/pedefacil/backend/internal/config"
	"github.com/pedefacil/backend/internal/handler"
	"github.com/pedefacil/backend/internal/model/catalog"
	"github.com/pedefacil/backend/internal/service/bot"
	"github.com/pedefacil/backend/internal/service/dispatch"
	"github.com/pedefacil/backend/internal/service/intent"
	"github.com/pedefacil/backend/internal/service/session"
)

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

	sessions, closeSessions, err := newSessionStore(cfg.Bot)
	if err != nil {
		log.Fatalf("failed to open session store: %v", err)
	}
	defer closeSessions()

	// Catalog facade: seeded in-memory implementation until the catalog
	// service is wired in.
	queries := catalog.NewMemoryStore(catalog.Seed())

	var chatModel model.ChatModel
	if cfg.AI.Enabled() {
		chatModel, err = cfg.AI.NewChatModel(ctx)
		if err != nil {
			log.Printf("warning: failed to initialize chat model: %v", err)
			log.Println("continuing with keyword rules only - check the ARK_* environment variables")
		} else {
			log.Println("chat model initialized successfully")
		}
	} else {
		log.Println("model credentials not configured, intent classification will use keyword rules only")
	}

	classifier, err := intent.NewClassifier(ctx, chatModel, intent.Config{Timeout: cfg.Bot.ModelTimeout})
	if err != nil {
		log.Fatalf("failed to build intent classifier: %v", err)
	}

	dispatcher := dispatch.NewDispatcher(queries)
	botService := bot.NewService(sessions, classifier, dispatcher)

	router := handler.NewRouter(botService)

	startServer(ctx, cfg.Server, router)
}

func newSessionStore(cfg config.BotConfig) (session.Store, func(), error) {
	if cfg.SessionDBPath == "" {
		log.Println("BOT_SESSION_DB not set, using in-memory session store")
		return session.NewMemoryStore(), func() {}, nil
	}

	store, err := session.OpenSQLite(cfg.SessionDBPath)
	if err != nil {
		return nil, nil, err
	}
	log.Printf("session store opened at %s", cfg.SessionDBPath)
	return store, func() { _ = store.Close() }, nil
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler) {
	addr := serverCfg.Addr
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("PedeFácil bot backend listening on %s", addr)
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
