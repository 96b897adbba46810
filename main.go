package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"rental-backend/config"
	"rental-backend/controllers"
	"rental-backend/llm"
	"rental-backend/llm/anthropic"
	"rental-backend/logging"
	"rental-backend/routes"
	"rental-backend/services"
)

const shutdownTimeout = 15 * time.Second

// envErr is reported once the configured logger is installed.
var envErr error

func main() {
	envErr = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:           "rental-backend",
		Short:         "Room rental management API",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runServe,
	}
	rootCmd.AddCommand(serveCmd(), migrateCmd(), seedCmd(), createOwnerCmd())

	if err := rootCmd.Execute(); err != nil {
		slog.Error("command failed", "error", err)
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// app holds what every command needs: validated config and an open database.
type app struct {
	cfg     *config.Config
	db      *gorm.DB
	cleanup func()
}

func bootstrap(migrate bool) (*app, error) {
	cfg := config.Load()
	_, closeLog, err := logging.New(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	if envErr != nil {
		slog.Info(".env not loaded, using process environment", "error", envErr)
	}
	if err := cfg.Validate(); err != nil {
		closeLog()
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	db, err := config.Open(cfg)
	if err != nil {
		closeLog()
		return nil, err
	}
	cleanup := func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
		closeLog()
	}

	if migrate {
		if err := config.AutoMigrate(db); err != nil {
			cleanup()
			return nil, err
		}
		if err := config.SeedDatabase(db, cfg); err != nil {
			cleanup()
			return nil, err
		}
	}
	return &app{cfg: cfg, db: db, cleanup: cleanup}, nil
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API (default)",
		RunE:  runServe,
	}
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap(false)
			if err != nil {
				return err
			}
			defer a.cleanup()
			if err := config.AutoMigrate(a.db); err != nil {
				return err
			}
			slog.Info("schema migrated", "driver", a.cfg.DBDriver)
			return nil
		},
	}
}

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Migrate, then insert the roles and the bootstrap admin",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap(true)
			if err != nil {
				return err
			}
			defer a.cleanup()
			slog.Info("database seeded", "admin_email", a.cfg.AdminEmail)
			return nil
		},
	}
}

func createOwnerCmd() *cobra.Command {
	var in services.RegisterInput
	cmd := &cobra.Command{
		Use:   "create-owner",
		Short: "Provision an owner account",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap(true)
			if err != nil {
				return err
			}
			defer a.cleanup()

			user, err := services.NewUserService(a.db).CreateOwner(cmd.Context(), in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created owner %d <%s>\n", user.OwnerID, user.Email)
			return nil
		},
	}
	cmd.Flags().StringVar(&in.Email, "email", "", "owner email")
	cmd.Flags().StringVar(&in.Password, "password", "", "owner password (min 6 characters)")
	cmd.Flags().StringVar(&in.Fullname, "fullname", "", "owner full name")
	cmd.Flags().StringVar(&in.Phone, "phone", "", "owner phone")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	_ = cmd.MarkFlagRequired("fullname")
	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	a, err := bootstrap(true)
	if err != nil {
		return err
	}
	defer a.cleanup()
	cfg := a.cfg

	tokens, err := services.NewTokenManager(cfg.SecretKey, cfg.Algorithm, cfg.TokenTTL())
	if err != nil {
		return err
	}

	var gen llm.Generator = llm.Unconfigured{}
	if cfg.AIAPIKey != "" {
		gen = anthropic.New(cfg.AIAPIKey, cfg.AIModel, cfg.AIBaseURL, cfg.AIMaxTokens)
		slog.Info("AI assistant enabled", "model", cfg.AIModel)
	} else {
		slog.Warn("AI_API_KEY not set, assistant replies will use the fallback message")
	}

	// Services
	authSvc := services.NewAuthService(a.db, tokens)
	userSvc := services.NewUserService(a.db)
	houseSvc := services.NewHouseService(a.db)
	roomSvc := services.NewRoomService(a.db)
	assetSvc := services.NewAssetService(a.db)
	rentalSvc := services.NewRentalService(a.db)
	invoiceSvc := services.NewInvoiceService(a.db)
	reportSvc := services.NewReportService(a.db)
	assistantSvc := services.NewAssistantService(reportSvc, roomSvc, gen)

	// Controllers
	ctl := routes.Controllers{
		Auth:       controllers.NewAuthController(authSvc),
		User:       controllers.NewUserController(userSvc, reportSvc),
		House:      controllers.NewHouseController(houseSvc),
		Room:       controllers.NewRoomController(roomSvc),
		Asset:      controllers.NewAssetController(assetSvc),
		RentedRoom: controllers.NewRentedRoomController(rentalSvc),
		Invoice:    controllers.NewInvoiceController(invoiceSvc),
		Report:     controllers.NewReportController(reportSvc, invoiceSvc),
		AI:         controllers.NewAIController(assistantSvc),
		Health:     controllers.NewHealthController(a.db),
	}

	gin.SetMode(cfg.GinMode)
	router := routes.SetupRouter(ctl, authSvc, cfg.CORSOrigins)

	addr := ":" + cfg.Port
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting", "addr", addr, "driver", cfg.DBDriver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return fmt.Errorf("listen: %w", err)
	case sig := <-quit:
		slog.Info("shutdown signal received", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	slog.Info("server stopped gracefully")
	return nil
}
