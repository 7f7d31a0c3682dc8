package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"hireflow/ats-platform/internal/config"
	"hireflow/ats-platform/internal/logger"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "ats-api",
		Short:         "Multi-tenant applicant tracking and interview API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newServeCmd(),
		newMigrateCmd(),
		newCreateSuperAdminCmd(),
		newReindexCmd(),
		newSeedTemplatesCmd(),
	)
	return root
}

// bootstrap loads config, builds the logger and opens the database.
func bootstrap(migrate bool) (*config.Config, *zap.Logger, *gorm.DB, error) {
	cfg := config.Load()

	log, err := logger.New(cfg.Log.JSON, cfg.Log.Debug)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	log.Info("✅ Config loaded successfully", zap.String("env", cfg.Server.Env))

	open := config.OpenDatabase
	if migrate {
		open = config.InitDatabase
	}
	db, err := open(cfg)
	if err != nil {
		return nil, nil, nil, err
	}
	return cfg, log, db, nil
}

func withApplication(migrate bool, fn func(ctx context.Context, app *application) error) error {
	cfg, log, db, err := bootstrap(migrate)
	if err != nil {
		return err
	}
	defer log.Sync()

	ctx := context.Background()
	app, err := newApplication(ctx, cfg, db, log)
	if err != nil {
		return err
	}
	return fn(ctx, app)
}
