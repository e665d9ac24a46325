package cmd

import (
	"context"
	"fmt"
	"time"

	"petbroker/api"
	"petbroker/config"
	"petbroker/database"
	"petbroker/events"
	"petbroker/notifier"
	"petbroker/repository"
	"petbroker/service"

	log "github.com/sirupsen/logrus"
)

// Run initializes and starts the application
func Run(ctx context.Context) error {
	log.Info("Starting pet trade broker...")

	// Load configuration
	cfg := config.Get()

	// Initialize database connection; the process terminates rather than
	// serving with no backing store
	log.Info("Connecting to database...")
	db, err := database.NewConnection(ctx, database.ConstructDatabaseURL(cfg.DatabaseURL, cfg.DatabaseName))
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	log.Info("Database connection established")

	// Initialize event bus
	eventBus := events.NewBus()

	// Initialize unit of work factory
	uowFactory := repository.NewUnitOfWorkFactory(db, eventBus)

	// Initialize services
	userService := service.NewUserService(uowFactory)
	balanceService := service.NewBalanceService(uowFactory)
	tradeService := service.NewTradeService(uowFactory)
	historyService := service.NewHistoryService(uowFactory)
	log.Info("Services initialized")

	// Optional Discord trade announcements
	var discordNotifier *notifier.DiscordNotifier
	if cfg.DiscordToken != "" && cfg.DiscordChannelID != "" {
		discordNotifier, err = notifier.NewDiscordNotifier(cfg.DiscordToken, cfg.DiscordChannelID, eventBus)
		if err != nil {
			return fmt.Errorf("failed to initialize Discord notifier: %w", err)
		}
	}

	// Initialize HTTP server
	handler := api.NewHandler(userService, balanceService, tradeService, historyService, cfg.DefaultBot)
	server := api.NewServer(cfg, handler)

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.Start()
	}()

	log.WithField("environment", cfg.Environment).Info("Broker is running")

	// Wait for context cancellation or a server failure
	select {
	case err := <-serverErr:
		if err != nil {
			return err
		}
	case <-ctx.Done():
	}

	// Cleanup resources
	log.Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("Error shutting down HTTP server")
	}

	if discordNotifier != nil {
		if err := discordNotifier.Close(); err != nil {
			log.WithError(err).Error("Error closing Discord notifier")
		}
	}

	log.Info("Closing database connection...")
	db.Close()

	log.Info("Shutdown completed")
	return nil
}
