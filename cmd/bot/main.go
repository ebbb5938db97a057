package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/golang-migrate/migrate/v4"
	postgresdb "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	tele "gopkg.in/telebot.v3"

	"vocabbot/internal/config"
	"vocabbot/internal/dialogue"
	"vocabbot/internal/handler"
	"vocabbot/internal/middleware"
	"vocabbot/internal/repository/postgres"
	"vocabbot/internal/service"
	"vocabbot/internal/session"
	"vocabbot/internal/telegram"
)

// eliteSweepInterval is how often lapsed elite statuses are cleared
const eliteSweepInterval = time.Hour

func main() {
	// Load configuration before the logger so LOG_LEVEL applies
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting vocabulary bot", zap.Stringer("log_level", cfg.LogLevel))

	// Connect to database with retries
	db, err := connectDatabase(cfg.DSN(), logger)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	logger.Info("Database connection established")

	if err := runMigrations(db, cfg.MigrationsURL(), logger); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	logger.Info("Database migrations completed")

	sessions, closeSessions := newSessionStore(cfg, logger)
	defer closeSessions()

	// Initialize repositories
	userRepo := postgres.NewUserRepo(db)
	topicRepo := postgres.NewTopicRepo(db)
	dictRepo := postgres.NewDictionaryRepo(db)
	refRepo := postgres.NewReferenceRepo(db)

	// Initialize services
	userService := service.NewUserService(userRepo, logger)
	profileService := service.NewProfileService(userRepo, topicRepo, dictRepo, logger)
	svc := handler.Services{
		Users:   userService,
		Profile: profileService,
		Topics:  service.NewTopicService(topicRepo, dictRepo, profileService, logger),
		Words:   service.NewWordService(dictRepo, profileService, logger),
		Quiz:    service.NewQuizService(dictRepo),
		Grammar: service.NewGrammarService(refRepo),
	}

	bot, err := tele.NewBot(tele.Settings{
		Token:  cfg.BotToken,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
		OnError: func(err error, c tele.Context) {
			logger.Error("Telegram handler error", zap.Error(err))
		},
	})
	if err != nil {
		logger.Fatal("Failed to create bot", zap.Error(err))
	}

	botUsername := cfg.BotUsername
	if botUsername == "" && bot.Me != nil {
		botUsername = bot.Me.Username
	}

	logger.Info("Telegram bot initialized", zap.String("username", botUsername))

	messenger := telegram.NewMessenger(bot)
	router := dialogue.NewRouter(sessions, messenger, logger)
	handler.NewHandler(svc, sessions, botUsername, logger).Register(router)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bot.Use(
		middleware.Logging(logger),
		middleware.EnsureUser(ctx, userService, messenger, logger),
	)
	telegram.Register(ctx, bot, router, logger)

	logger.Info("Handlers registered")

	go runEliteSweep(ctx, profileService, logger)

	// Start bot in background
	go func() {
		logger.Info("Bot started successfully")
		bot.Start()
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	<-sigChan

	logger.Info("Shutdown signal received, stopping bot...")

	// Graceful shutdown
	bot.Stop()
	cancel()

	logger.Info("Bot stopped gracefully")
}

func newLogger(level zapcore.Level) (*zap.Logger, error) {
	zcfg := zap.NewProductionConfig()
	zcfg.Level = zap.NewAtomicLevelAt(level)
	return zcfg.Build()
}

// connectDatabase connects to PostgreSQL with retries
func connectDatabase(dsn string, logger *zap.Logger) (*sql.DB, error) {
	var db *sql.DB
	var err error

	maxRetries := 30
	retryDelay := 2 * time.Second

	for i := 0; i < maxRetries; i++ {
		db, err = sql.Open("postgres", dsn)
		if err != nil {
			logger.Warn("Failed to open database connection",
				zap.Int("attempt", i+1),
				zap.Error(err),
			)
			time.Sleep(retryDelay)
			continue
		}

		if err = db.Ping(); err != nil {
			logger.Warn("Failed to ping database",
				zap.Int("attempt", i+1),
				zap.Error(err),
			)
			db.Close()
			time.Sleep(retryDelay)
			continue
		}

		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(5 * time.Minute)

		return db, nil
	}

	return nil, fmt.Errorf("failed to connect to database after %d attempts: %w", maxRetries, err)
}

// runMigrations applies the schema and the grammar reference data
func runMigrations(db *sql.DB, sourceURL string, logger *zap.Logger) error {
	driver, err := postgresdb.WithInstance(db, &postgresdb.Config{})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(sourceURL, "postgres", driver)
	if err != nil {
		return fmt.Errorf("failed to create migration instance: %w", err)
	}

	err = m.Up()
	switch err {
	case nil:
		logger.Info("Migrations applied successfully")
	case migrate.ErrNoChange:
		logger.Info("No new migrations to apply")
	default:
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

// newSessionStore returns the Redis store when REDIS_ADDR is set and
// reachable, otherwise the in-memory one
func newSessionStore(cfg *config.Config, logger *zap.Logger) (session.Store, func()) {
	if !cfg.UseRedis() {
		logger.Info("Keeping sessions in memory")
		return session.NewMemoryStore(), func() {}
	}

	client := redis.NewClient(&redis.Options{
		Addr:        cfg.Redis.Addr,
		Password:    cfg.Redis.Password,
		DB:          cfg.Redis.DB,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("Redis unavailable, keeping sessions in memory",
			zap.String("addr", cfg.Redis.Addr),
			zap.Error(err),
		)
		_ = client.Close()
		return session.NewMemoryStore(), func() {}
	}

	logger.Info("Keeping sessions in redis",
		zap.String("addr", cfg.Redis.Addr),
		zap.Duration("ttl", cfg.SessionTTL),
	)
	return session.NewRedisStore(client, cfg.SessionTTL), func() { _ = client.Close() }
}

// runEliteSweep clears lapsed elite statuses at startup and then hourly
func runEliteSweep(ctx context.Context, profile *service.ProfileService, logger *zap.Logger) {
	if err := profile.ExpireEliteStatuses(ctx); err != nil {
		logger.Error("Failed to run initial elite sweep", zap.Error(err))
	}

	ticker := time.NewTicker(eliteSweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Elite sweep stopped")
			return
		case <-ticker.C:
			if err := profile.ExpireEliteStatuses(ctx); err != nil {
				logger.Error("Failed to run scheduled elite sweep", zap.Error(err))
			}
		}
	}
}
