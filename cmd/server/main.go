package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/bibnhs/chapter-portal/internal/config"
	"github.com/bibnhs/chapter-portal/internal/server"
	"github.com/bibnhs/chapter-portal/pkg/auth"
	"github.com/bibnhs/chapter-portal/pkg/clients/mailclient"
	"github.com/bibnhs/chapter-portal/pkg/postgres"
	"github.com/bibnhs/chapter-portal/pkg/utils"
	"github.com/bibnhs/chapter-portal/pkg/utils/logging"
)

// shutdownTimeout bounds how long in-flight requests may run after SIGTERM
const shutdownTimeout = 10 * time.Second

// App holds the application dependencies
type App struct {
	cfg      *config.Config
	database *postgres.DB
	tokens   *auth.TokenManager
	hasher   *auth.BcryptHasher
	mailer   *mailclient.Client
	logger   *zap.Logger
	ctx      context.Context
}

var (
	env string
	app *App
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "portal",
		Short: "Chapter portal - membership, events, and service hours",
		Long:  `The honor-society chapter portal server: member accounts, the event calendar, announcements, and service-hour tracking with advisor signature review.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initApp()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if app != nil {
				if app.database != nil {
					app.database.Close()
				}
				if app.logger != nil {
					app.logger.Sync()
				}
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&env, "env", "e", "", "Environment (test, prod, etc.); empty uses portal_config.yaml")

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// initApp sets up logger, config, database, and the auth and mail machinery
func initApp() error {
	var err error
	app = &App{
		ctx: context.Background(),
	}

	// Initialize logger
	app.logger, err = logging.InitLogger(env)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	app.logger.Info("Starting application", zap.String("environment", env))

	// Load configuration
	app.logger.Info("Loading configuration")
	app.cfg, err = config.LoadWithEnv(env)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	app.logger.Debug("Configuration loaded successfully")

	// Connect to the database
	app.logger.Info("Connecting to database")
	app.database, err = postgres.NewDB(app.ctx, app.cfg.Database.URL, app.cfg.Database.MaxConns)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	app.logger.Debug("Database connection established")

	// Auth machinery
	app.tokens = auth.NewTokenManager(app.cfg.Auth.JWTSecret, app.cfg.Auth.TokenTTL.Std())
	app.hasher = auth.NewBcryptHasher(app.cfg.Auth.BcryptCost)

	// Optional approval-notification mailer
	if app.cfg.Mail.Enabled() {
		app.logger.Info("Initializing mail client", zap.String("sender", app.cfg.Mail.Sender))
		app.mailer, err = initMailer()
		if err != nil {
			return fmt.Errorf("failed to create mail client: %w", err)
		}
		app.logger.Debug("Mail client initialized successfully")
	} else {
		app.logger.Info("Mailer not configured, approval notifications disabled")
	}

	return nil
}

// initMailer builds the Gmail sender from the configured OAuth client
// credentials and a token provisioned out of band.
func initMailer() (*mailclient.Client, error) {
	oauthConfig, err := utils.GetOAuthConfig(app.cfg.Mail.CredentialsPath)
	if err != nil {
		return nil, err
	}

	token, err := utils.GetToken(app.ctx, oauthConfig, env)
	if err != nil {
		return nil, err
	}

	return mailclient.NewClient(app.ctx, oauthConfig.TokenSource(app.ctx, token), app.cfg.Mail.GmailUserID, app.cfg.Mail.Sender)
}

// Command definitions

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Apply pending migrations and run the HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.database.RunMigrations(app.ctx); err != nil {
				return fmt.Errorf("failed to run migrations: %w", err)
			}

			ctx, stop := signal.NotifyContext(app.ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()

			feed := postgres.NewChangeFeed(app.database, app.logger)
			go func() {
				if err := feed.Run(ctx); err != nil && ctx.Err() == nil {
					app.logger.Error("Change feed stopped", zap.Error(err))
				}
			}()

			srv := server.New(app.cfg, app.database, feed, app.tokens, app.hasher, app.mailer, app.logger)

			errCh := make(chan error, 1)
			go func() {
				errCh <- srv.Listen(app.cfg.Server.Addr)
			}()
			app.logger.Info("Server listening", zap.String("addr", app.cfg.Server.Addr))

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}

			app.logger.Info("Shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations and exit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.database.RunMigrations(app.ctx); err != nil {
				return fmt.Errorf("failed to run migrations: %w", err)
			}

			fmt.Println("Migrations applied successfully")
			return nil
		},
	}
}
