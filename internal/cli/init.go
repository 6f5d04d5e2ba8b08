// Package cli provides the initialization steps shared by the fintrack
// subcommands.
package cli

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"fintrack/internal/amqp"
	"fintrack/internal/backend"
	"fintrack/internal/cache"
	"fintrack/internal/config"
	"fintrack/internal/core"
	"fintrack/internal/log"
	"fintrack/internal/services"
	"fintrack/internal/storage"
)

const amqpConnectAttempts = 3

// SetupLogger initializes structured logging at the given level and makes it
// the default logger. Logs go to w so that command output on stdout stays
// clean.
func SetupLogger(w io.Writer, level string) *log.Logger {
	logger := log.New(log.Config{
		Level:     log.ParseLevel(level),
		Component: log.ComponentCLI,
		Output:    w,
	})
	log.SetDefault(logger)
	return logger
}

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as the file is optional.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig loads configuration and validates it.
// Returns the config or exits the process on validation failure.
func LoadAndValidateConfig(logger *log.Logger) *config.Config {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed",
			log.FieldErrorType, log.ErrorTypeConfiguration,
			log.FieldError, err)
		os.Exit(1)
	}
	return cfg
}

// InitBackend opens the configured store.
// Returns the store or exits the process on failure.
func InitBackend(ctx context.Context, logger *log.Logger, cfg *config.Config) *backend.BackendResult {
	bcfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", log.FieldError, err)
		os.Exit(1)
	}

	factory := backend.NewFactory(logger.WithComponent(log.ComponentBackend).Logger)
	res, err := factory.CreateBackend(ctx, bcfg)
	if err != nil {
		logger.Error("Failed to initialize backend",
			log.FieldBackend, cfg.DataBackend,
			log.FieldErrorType, log.ErrorTypeDatabase,
			log.FieldError, err)
		os.Exit(1)
	}
	return res
}

// InitCache creates the decode cache of the repository and a manager that
// evicts its expired entries.
func InitCache(logger *log.Logger, cfg *config.Config) (*cache.Manager, *cache.LRUCache[[]core.Transaction]) {
	decoded := cache.NewLRUCache[[]core.Transaction](cfg.CacheSize, cfg.CacheTTL)
	manager := cache.NewManager(logger.WithComponent(log.ComponentCache).Logger)
	manager.Register(decoded)
	return manager, decoded
}

// InitAMQP connects to the broker when one is configured. A nil client means
// notifications are disabled; connection failures are logged and also yield
// nil so that local commands keep working.
func InitAMQP(ctx context.Context, logger *log.Logger, cfg *config.Config) *amqp.Client {
	if cfg.AMQPURL == "" {
		return nil
	}
	client, err := amqp.NewClientWithRetry(ctx, cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, amqpConnectAttempts)
	if err != nil {
		logger.Warn("AMQP unavailable, change notifications disabled",
			log.FieldErrorType, log.ErrorTypeNetwork,
			log.FieldError, err)
		return nil
	}
	return client
}

// InitService wires the repository and the optional notifier into a
// TransactionService and loads the stored list.
func InitService(ctx context.Context, logger *log.Logger, store storage.KV, decoded cache.Cache[[]core.Transaction], notifier *amqp.Client) (*services.TransactionService, error) {
	repo := storage.NewTransactionRepository(store,
		storage.WithCache(decoded),
		storage.WithLogger(logger.WithComponent(log.ComponentStorage).Logger))

	opts := []services.Option{services.WithLogger(logger.WithComponent(log.ComponentService).Logger)}
	if notifier != nil {
		opts = append(opts, services.WithNotifier(notifier))
	}

	svc := services.NewTransactionService(repo, opts...)
	if err := svc.Reload(ctx); err != nil {
		return nil, err
	}
	return svc, nil
}

// GracefulShutdown returns a context that is cancelled on SIGINT or SIGTERM,
// or when the returned cancel function is called.
func GracefulShutdown(logger *log.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		defer signal.Stop(sigChan)
		select {
		case sig := <-sigChan:
			logger.Info("Shutdown signal received",
				log.FieldOperation, log.OpShutdown,
				"signal", sig.String())
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, cancel
}

// Fatal logs err and exits with status 1.
func Fatal(logger *log.Logger, msg string, err error) {
	logger.Error(msg, log.FieldError, err)
	os.Exit(1)
}
