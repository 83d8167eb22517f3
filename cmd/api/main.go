package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	_ "github.com/johnquangdev/standup-assistant/docs"
	"github.com/johnquangdev/standup-assistant/internal/adapter/handler"
	"github.com/johnquangdev/standup-assistant/internal/adapter/repository"
	"github.com/johnquangdev/standup-assistant/internal/domain/entities"
	"github.com/johnquangdev/standup-assistant/internal/domain/repositories"
	"github.com/johnquangdev/standup-assistant/internal/infrastructure/cache"
	"github.com/johnquangdev/standup-assistant/internal/infrastructure/database"
	"github.com/johnquangdev/standup-assistant/internal/infrastructure/external/livekit"
	"github.com/johnquangdev/standup-assistant/internal/infrastructure/localstore"
	infranotify "github.com/johnquangdev/standup-assistant/internal/infrastructure/notify"
	"github.com/johnquangdev/standup-assistant/internal/infrastructure/rosterfile"
	"github.com/johnquangdev/standup-assistant/internal/infrastructure/storage"
	"github.com/johnquangdev/standup-assistant/internal/infrastructure/transcribe"
	"github.com/johnquangdev/standup-assistant/internal/usecase/archive"
	"github.com/johnquangdev/standup-assistant/internal/usecase/insight"
	"github.com/johnquangdev/standup-assistant/internal/usecase/notify"
	"github.com/johnquangdev/standup-assistant/internal/usecase/room"
	"github.com/johnquangdev/standup-assistant/internal/usecase/roster"
	"github.com/johnquangdev/standup-assistant/internal/usecase/standup"
	"github.com/johnquangdev/standup-assistant/internal/usecase/summary"
	"github.com/johnquangdev/standup-assistant/internal/usecase/transcript"
	"github.com/johnquangdev/standup-assistant/pkg/config"
	pkglogger "github.com/johnquangdev/standup-assistant/pkg/logger"
	pkgvalidator "github.com/johnquangdev/standup-assistant/pkg/validator"
)

// @title           Standup Assistant API
// @version         1.0
// @description     Round-robin standup facilitator with live speech rooms, summaries and archive.

// @BasePath  /v1

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := pkglogger.New(cfg.Server.Environment)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize Echo instance
	e := echo.New()

	// Register validator for request validation
	e.Validator = pkgvalidator.New()

	// Configure Echo
	e.HideBanner = true
	e.HidePort = false

	// Custom logger format
	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: "${time_rfc3339} | ${status} | ${method} ${uri} | ${latency_human}\n",
	}))

	// Recover from panics
	e.Use(middleware.Recover())

	// CORS middleware
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.Server.AllowedOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	// Initialize dependencies
	log.Println("🔧 Initializing dependencies...")

	// Roster store: Redis when enabled, in-process memory otherwise
	var rosterStore cache.Store
	if cfg.Redis.Enabled {
		log.Println("📦 Connecting to Redis...")
		redisClient, err := cache.NewRedisClient(ctx, cfg)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer redisClient.Close()
		rosterStore = cache.NewRedisStore(redisClient)
	} else {
		log.Println("⚠️  Redis disabled, rosters are kept in memory")
		mem := cache.NewMemoryStore()
		defer mem.Close()
		rosterStore = mem
	}
	rosterRepo := repository.NewRosterRepository(rosterStore)

	// Archive: Postgres when enabled, local history file otherwise
	var standupRepo repositories.StandupRepository
	if cfg.Database.Enabled {
		log.Println("📦 Connecting to database...")
		db, err := database.NewPostgresDB(ctx, cfg)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer database.CloseDB(db)

		if cfg.Database.AutoMigrate {
			if err := database.AutoMigrate(db); err != nil {
				log.Fatalf("Failed to run migrations: %v", err)
			}
		} else {
			log.Println("🔄 Skipping migrations; run `standup migrate` to apply them")
		}
		standupRepo = repository.NewStandupRepository(db)
	} else {
		path := cfg.Standup.HistoryFile
		if path == "" {
			path = localstore.DefaultPath()
		}
		log.Printf("⚠️  Database disabled, archiving to %s", path)
		history, err := localstore.Open(path)
		if err != nil {
			log.Fatalf("Failed to open history file: %v", err)
		}
		defer history.Close()
		standupRepo = history
	}

	// Object storage for exports and audio answers
	var objects *storage.MinIOClient
	if cfg.Storage.Enabled {
		log.Println("🪣 Connecting to object storage...")
		objects, err = storage.NewMinIOClient(ctx, &cfg.Storage)
		if err != nil {
			log.Fatalf("Failed to connect to object storage: %v", err)
		}
	}

	// Initialize LiveKit client
	var livekitClient livekit.Client
	if cfg.Standup.SpeechMode == config.SpeechModeLiveKit {
		log.Println("🎥 Initializing LiveKit client...")
		livekitClient = livekit.NewClient(cfg.LiveKit.URL, cfg.LiveKit.APIKey, cfg.LiveKit.APISecret, cfg.LiveKit.UseMock)
		if cfg.LiveKit.UseMock {
			log.Println("⚠️  LiveKit running in MOCK mode (no real server needed)")
		} else {
			log.Printf("✅ LiveKit connected to: %s", cfg.LiveKit.URL)
		}
	} else {
		log.Println("⌨️  Manual speech mode: answers are typed or posted as fragments")
	}

	roomService := room.NewService(livekitClient, room.Options{
		Mode:         cfg.Standup.SpeechMode,
		LiveKitURL:   cfg.LiveKit.URL,
		RoomPrefix:   cfg.LiveKit.RoomPrefix,
		SpeakTimeout: cfg.Standup.SpeakTimeout,
	}, logger)

	// Standup engine
	log.Println("🎙️  Initializing standup engine...")
	extractor := insight.NewExtractor(nil)
	builder := summary.NewBuilder(extractor)

	var archiveStore archive.ObjectStore
	if objects != nil {
		archiveStore = objects
	}
	archiveService := archive.NewService(standupRepo, archiveStore, builder, logger)

	hub := standup.NewHub(rosterRepo, roomService.Channel, archiveService, standup.HubOptions{
		Settings: standup.Settings{
			SilenceWindow:           cfg.Standup.SilenceWindow,
			GracePeriod:             cfg.Standup.GracePeriod,
			ManualTimerFromFragment: cfg.Standup.ManualTimerFromFragment,
		},
		TickInterval: cfg.Standup.TickInterval,
		Question:     entities.Question{Key: cfg.Standup.QuestionKey, Prompt: cfg.Standup.QuestionPrompt},
		Clock:        clock.New(),
		Extractor:    extractor,
		Logger:       logger,
	})
	defer hub.Close()

	rosterService := roster.NewService(rosterRepo, hub, cfg.Standup.DefaultTimeLimit, logger)

	// Roster seed file
	if cfg.Standup.RosterSeedFile != "" {
		if err := watchRosters(ctx, cfg.Standup.RosterSeedFile, rosterService, logger); err != nil {
			log.Fatalf("Failed to load roster seed file: %v", err)
		}
	}

	// Outbound delivery
	var chatSender, emailSender notify.Sender
	if cfg.Notify.SlackWebhookURL != "" {
		log.Println("💬 Chat webhook delivery enabled")
		chatSender = infranotify.NewSlackWebhook(cfg.Notify.SlackWebhookURL)
	}
	if cfg.Notify.SMTPHost != "" && len(cfg.Notify.EmailTo) > 0 {
		log.Println("📧 Email delivery enabled")
		emailSender = infranotify.NewEmail(infranotify.EmailConfig{
			Host:     cfg.Notify.SMTPHost,
			Port:     cfg.Notify.SMTPPort,
			User:     cfg.Notify.SMTPUser,
			Password: cfg.Notify.SMTPPassword,
			From:     cfg.Notify.EmailFrom,
			To:       cfg.Notify.EmailTo,
		})
	}
	notifyService := notify.NewService(chatSender, emailSender, builder, logger)

	// Audio answers
	var audio handler.AudioSubmitter
	if cfg.Assembly.APIKey != "" {
		log.Println("🤖 AssemblyAI transcription enabled")
		var audioStore transcribe.AudioStore
		if objects != nil {
			audioStore = objects
		}
		audio = transcript.NewService(transcribe.NewAssemblyAI(cfg.Assembly.APIKey, cfg.Assembly.LanguageCode, audioStore, logger), hub)
	}

	// Setup router with handlers
	log.Println("🛣️  Setting up routes...")
	var roomHandler *handler.Room
	var webhookHandler *handler.WebhookHandler
	if cfg.Standup.SpeechMode == config.SpeechModeLiveKit {
		roomHandler = handler.NewRoomHandler(roomService, logger)
		webhookHandler = handler.NewWebhookHandler(roomService, hub, cfg.LiveKit.APIKey, cfg.LiveKit.APISecret, cfg.LiveKit.UseMock, logger)
	}

	router := handler.NewRouter(cfg,
		handler.NewStandupHandler(hub, notifyService, audio, builder, logger),
		handler.NewRosterHandler(rosterService, hub, logger),
		handler.NewArchiveHandler(archiveService, logger),
		roomHandler,
		webhookHandler,
	)
	router.Setup(e)

	// Start server
	go func() {
		addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
		log.Printf("🚀 Starting server on %s", addr)
		log.Printf("📝 Environment: %s", cfg.Server.Environment)
		log.Printf("🔗 Health check: http://%s/health", addr)

		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Graceful shutdown
	<-ctx.Done()
	log.Println("🛑 Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("❌ Server forced to shutdown: %v", err)
	}

	log.Println("✅ Server stopped gracefully")
}

// watchRosters imports the seed file once and keeps it in sync until ctx ends
func watchRosters(ctx context.Context, path string, importer rosterfile.Importer, logger *zap.Logger) error {
	w, err := rosterfile.NewWatcher(path, importer, logger)
	if err != nil {
		return err
	}
	n, err := w.Sync(ctx)
	if err != nil {
		w.Close()
		return err
	}
	log.Printf("📋 Imported %d rosters from %s", n, path)

	go func() {
		defer w.Close()
		if err := w.Run(ctx); err != nil && ctx.Err() == nil {
			logger.Error("roster watcher stopped", zap.Error(err))
		}
	}()
	return nil
}
