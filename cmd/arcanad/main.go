package main

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Cayson-Choi/tarot-card-reading/internal/adapters/decks"
	httpadapter "github.com/Cayson-Choi/tarot-card-reading/internal/adapters/http"
	"github.com/Cayson-Choi/tarot-card-reading/internal/adapters/llm/gemini"
	"github.com/Cayson-Choi/tarot-card-reading/internal/adapters/llm/openai"
	"github.com/Cayson-Choi/tarot-card-reading/internal/adapters/llm/openrouter"
	"github.com/Cayson-Choi/tarot-card-reading/internal/adapters/sessions/memory"
	"github.com/Cayson-Choi/tarot-card-reading/internal/adapters/spreads"
	"github.com/Cayson-Choi/tarot-card-reading/internal/app"
	"github.com/Cayson-Choi/tarot-card-reading/internal/config"
	"github.com/Cayson-Choi/tarot-card-reading/internal/ports"
)

const sweepInterval = time.Minute

// stdRNG delegates to math/rand (auto-seeded, safe for concurrent use).
type stdRNG struct{}

func (stdRNG) Intn(n int) int { return rand.Intn(n) }

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	relay, closeRelay, err := buildRelay(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to build interpretation relay", "error", err)
		os.Exit(1)
	}
	if closeRelay != nil {
		defer closeRelay()
	}

	store := memory.NewStore(cfg.SessionTTL)
	go store.Run(ctx, sweepInterval)

	svc := app.NewReadingService(
		decks.NewEmbeddedSource(),
		spreads.NewSource(cfg.SpreadsPath),
		store,
		relay,
		stdRNG{},
		cfg.LLMTimeout,
		logger,
	)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(httpadapter.RequestIDMiddleware())
	e.Use(httpadapter.LoggingMiddleware(logger))

	handler := httpadapter.NewHandler(svc)
	handler.Register(e)

	go func() {
		logger.Info("starting server", "addr", cfg.HTTPAddr, "provider", cfg.LLMProvider, "model", cfg.LLMModel)
		if err := e.Start(cfg.HTTPAddr); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
	}
}

func buildRelay(ctx context.Context, cfg config.Config, logger *slog.Logger) (ports.Interpreter, func() error, error) {
	switch cfg.LLMProvider {
	case config.ProviderOpenAI:
		c, err := openai.NewClient(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.LLMModel, logger)
		if err != nil {
			return nil, nil, err
		}
		return c, nil, nil
	case config.ProviderGemini:
		c, err := gemini.NewClient(ctx, cfg.GeminiAPIKey, cfg.LLMModel, logger)
		if err != nil {
			return nil, nil, err
		}
		return c, c.Close, nil
	case config.ProviderOpenRouter:
		c := openrouter.NewClient(
			&http.Client{Timeout: cfg.LLMTimeout},
			cfg.OpenRouterAPIKey,
			cfg.OpenRouterBaseURL,
			cfg.LLMModel,
			logger,
		)
		return c, nil, nil
	default:
		return nil, nil, fmt.Errorf("unknown provider %q", cfg.LLMProvider)
	}
}
