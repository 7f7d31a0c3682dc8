package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"hireflow/ats-platform/internal/repositories"
	"hireflow/ats-platform/internal/services"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, log, _, err := bootstrap(true)
			if err != nil {
				return err
			}
			defer log.Sync()
			log.Info("✅ Migrations applied")
			return nil
		},
	}
}

func newCreateSuperAdminCmd() *cobra.Command {
	var email, username, password string

	cmd := &cobra.Command{
		Use:   "create-super-admin",
		Short: "Create a platform super admin account",
		RunE: func(cmd *cobra.Command, args []string) error {
			if email == "" || username == "" || password == "" {
				return errors.New("--email, --username and --password are required")
			}

			cfg, log, db, err := bootstrap(true)
			if err != nil {
				return err
			}
			defer log.Sync()

			users := repositories.NewUserRepository(db)
			mailer, err := services.NewMailer(services.NewMailSender(cfg.Email, log), log)
			if err != nil {
				return err
			}
			notifier := services.NewNotificationService(repositories.NewNotificationRepository(db), users, mailer, cfg.Server.FrontendURL, log)
			auth := services.NewAuthService(users, services.NewPasswordHasher(cfg.Auth.BcryptCost), notifier, cfg.Auth, log)

			if _, err := auth.CreateSuperAdmin(context.Background(), email, username, password); err != nil {
				return fmt.Errorf("failed to create super admin: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&username, "username", "", "account username")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	return cmd
}

func newReindexCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reindex-resumes",
		Short: "Re-embed every analyzed resume into the candidate index",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApplication(false, func(ctx context.Context, a *application) error {
				a.log.Info("🚀 Starting resume reindex...")
				n, err := a.resumes.Reindex(ctx)
				if err != nil {
					return fmt.Errorf("failed to reindex resumes: %w", err)
				}
				a.log.Info("🎉 Reindex completed", zap.Int("indexed", n))
				return nil
			})
		},
	}
}

func newSeedTemplatesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed-templates",
		Short: "Insert the built-in global interview templates",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, log, db, err := bootstrap(true)
			if err != nil {
				return err
			}
			defer log.Sync()

			templates := services.NewTemplateService(repositories.NewInterviewTemplateRepository(db), log)
			n, err := templates.SeedGlobal(context.Background())
			if err != nil {
				return fmt.Errorf("failed to seed templates: %w", err)
			}
			log.Info("✅ Templates seeded", zap.Int("created", n))
			return nil
		},
	}
}
