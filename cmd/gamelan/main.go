package main

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"

	"github.com/layer-3/gamelan/adapters/deepgram"
	"github.com/layer-3/gamelan/adapters/events"
	"github.com/layer-3/gamelan/adapters/metadata"
	"github.com/layer-3/gamelan/adapters/store"
	"github.com/layer-3/gamelan/adapters/tokenizer"
	"github.com/layer-3/gamelan/config"
	"github.com/layer-3/gamelan/core"
	"github.com/layer-3/gamelan/ports"
	"github.com/layer-3/gamelan/service"
	transport "github.com/layer-3/gamelan/transport/http"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))

	wmLogger := watermill.NewSlogLogger(logger)

	// Redis keeps nonces and events coherent across instances; without it
	// everything stays in-process
	var nonceStore ports.NonceStore
	var publisher message.Publisher
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			logger.Error("failed to parse Redis URL", "error", err)
			os.Exit(1)
		}

		redisClient := redis.NewClient(opts)
		nonceStore = store.NewRedisStore(redisClient, core.NonceTTL)

		publisher, err = redisstream.NewPublisher(
			redisstream.PublisherConfig{Client: redisClient},
			wmLogger,
		)
		if err != nil {
			logger.Error("failed to create Redis publisher", "error", err)
			os.Exit(1)
		}
	} else {
		nonceStore = store.NewMemoryStore(core.NonceTTL)
		publisher = gochannel.NewGoChannel(gochannel.Config{}, wmLogger)
	}

	authService := service.NewAuthService(
		nonceStore,
		tokenizer.NewJWTTokenizer([]byte(cfg.SessionSecret)),
		events.NewWatermillPublisher(publisher),
		logger,
		cfg.RequireNonce,
	)

	synthesisService := service.NewSynthesisService(
		deepgram.NewClient(cfg.DeepgramAPIKey),
		logger,
	)

	// No built frontend is fine in dev mode; GET / answers 404 then
	indexHTML, err := os.ReadFile(filepath.Join(cfg.FrontendDir, "index.html"))
	if err != nil {
		indexHTML = nil
	}

	handlers := transport.NewHandlers(
		authService,
		synthesisService,
		metadata.NewFileSource(cfg.MetadataFile),
		logger,
		indexHTML,
	)

	router := transport.SetupRouter(handlers, authService, logger, cfg.Debug)

	logger.Info("starting gamelan",
		"addr", cfg.Addr(),
		"nonce_required", cfg.RequireNonce,
		"frontend_built", indexHTML != nil,
		"redis", cfg.RedisURL != "",
	)
	logger.Info("routes",
		"session", "GET /api/session",
		"synthesize", "POST /api/text-to-speech",
		"metadata", "GET /api/metadata",
	)

	if err := router.Run(cfg.Addr()); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
