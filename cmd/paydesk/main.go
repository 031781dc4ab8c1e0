package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/urfave/cli/v2"

	"github.com/ei-sanu/someshprofile/internal/cache"
	"github.com/ei-sanu/someshprofile/internal/config"
	"github.com/ei-sanu/someshprofile/internal/http_api"
	"github.com/ei-sanu/someshprofile/internal/models"
	"github.com/ei-sanu/someshprofile/internal/notificator"
	"github.com/ei-sanu/someshprofile/internal/paydesk"
	"github.com/ei-sanu/someshprofile/internal/payu"
	"github.com/ei-sanu/someshprofile/internal/repository"
	"github.com/ei-sanu/someshprofile/pkg/logger"
)

func main() {
	app := &cli.App{
		Name:  "paydesk",
		Usage: "Paydesk runs the payment request workflow and PayU checkout",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "postgres-user", Aliases: []string{"u"}, Usage: "Postgres user"},
			&cli.StringFlag{Name: "postgres-password", Aliases: []string{"p"}, Usage: "Postgres password"},
			&cli.StringFlag{Name: "postgres-host", Aliases: []string{"t"}, Usage: "Postgres host"},
			&cli.IntFlag{Name: "postgres-port", Aliases: []string{"P"}, Usage: "Postgres port"},
			&cli.StringFlag{Name: "postgres-db", Aliases: []string{"d"}, Usage: "Postgres database name"},
			&cli.IntFlag{Name: "api-port", Aliases: []string{"a"}, Usage: "HTTP API port"},
			&cli.StringFlag{Name: "payu-mode", Aliases: []string{"m"}, Usage: "PayU mode, test or production"},
			&cli.StringFlag{Name: "redis-addr", Aliases: []string{"r"}, Usage: "Redis address for gateway callback markers"},
			&cli.BoolFlag{Name: "development", Aliases: []string{"D"}, Usage: "Development mode"},
		},
		Action: func(c *cli.Context) error {
			return run(c)
		},
	}

	err := app.Run(os.Args)
	if err != nil {
		log.Fatal(err)
	}
}

func run(c *cli.Context) error {
	// Load configuration from environment variables
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %v", err)
	}

	// Override with flags if set
	if c.IsSet("postgres-user") {
		cfg.PostgresUser = c.String("postgres-user")
	}
	if c.IsSet("postgres-password") {
		cfg.PostgresPassword = c.String("postgres-password")
	}
	if c.IsSet("postgres-host") {
		cfg.PostgresHost = c.String("postgres-host")
	}
	if c.IsSet("postgres-port") {
		cfg.PostgresPort = c.Int("postgres-port")
	}
	if c.IsSet("postgres-db") {
		cfg.PostgresDB = c.String("postgres-db")
	}
	if c.IsSet("api-port") {
		cfg.APIPort = c.Int("api-port")
	}
	if c.IsSet("payu-mode") {
		cfg.PayU.Mode = c.String("payu-mode")
	}
	if c.IsSet("redis-addr") {
		cfg.RedisAddr = c.String("redis-addr")
	}
	if c.IsSet("development") {
		cfg.Development = c.Bool("development")
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %v", err)
	}

	// Initialize logger
	log, err := logger.NewLogger(cfg.Development)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %v", err)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize database
	db, err := repository.NewPostgresDB(cfg.PostgresUser, cfg.PostgresPassword, cfg.PostgresDB, cfg.PostgresHost, cfg.PostgresPort, log.Named("repository"))
	if err != nil {
		return fmt.Errorf("failed to connect to database: %v", err)
	}
	defer db.Close()

	gateway, err := payu.NewGateway(cfg.PayU)
	if err != nil {
		return fmt.Errorf("failed to configure PayU: %v", err)
	}

	callbacks, err := newCallbackStore(cfg, log)
	if err != nil {
		return err
	}
	defer callbacks.Close()

	// Initialize notification channels
	var channels []notificator.Channel
	if cfg.EmailEnabled() {
		channels = append(channels, notificator.NewEmailNotificator(log.Named("email"), cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.SMTPSender))
	}
	if cfg.TelegramBotToken != "" {
		telegram, err := notificator.NewTelegramNotificator(ctx, log.Named("telegram"), cfg.TelegramBotToken, db)
		if err != nil {
			return fmt.Errorf("failed to start telegram bot: %v", err)
		}
		channels = append(channels, telegram)
	}
	notifications := notificator.NewNotificator(log.Named("notificator"), db, channels...)

	desk := paydesk.NewPaydesk(db, gateway, notifications, callbacks, log.Named("paydesk"), cfg)

	if !cfg.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	apiServer := http_api.NewHTTPServer(desk, cfg, log.Named("http"))
	go apiServer.Start()

	<-ctx.Done()
	log.Info("Shutdown signal received")
	return apiServer.Shutdown()
}

// newCallbackStore keeps gateway callback markers in Redis when configured,
// in process memory otherwise.
func newCallbackStore(cfg *config.Config, log *logger.Logger) (models.CallbackStore, error) {
	if cfg.RedisAddr == "" {
		log.Warn("REDIS_ADDR not set, gateway callback markers are kept in memory")
		return cache.NewMemoryCallbackStore(), nil
	}
	store, err := cache.NewRedisCallbackStore(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %v", err)
	}
	log.Info("Using Redis for gateway callback markers", "address", cfg.RedisAddr)
	return store, nil
}
