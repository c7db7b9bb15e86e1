package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/yungbote/lumina-backend/internal/app"
	"github.com/yungbote/lumina-backend/internal/platform/dbctx"
	"github.com/yungbote/lumina-backend/internal/services"
)

var (
	seedFile string

	staffEmail    string
	staffUsername string
	staffPassword string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API, job worker and scheduler",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		a, err := app.New(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.Migrate(); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		return a.Run(ctx)
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := app.NewBase()
		if err != nil {
			return err
		}
		defer a.Close()
		if err := a.Migrate(); err != nil {
			return err
		}
		a.Log.Info("Migrations complete")
		return nil
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load users, categories, posts and products from a YAML catalog",
	Long: `Load a YAML catalog into the database.

Rows that already exist (matched by username, name or slug) are skipped, so
the command can be run repeatedly against the same file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(seedFile)
		if err != nil {
			return fmt.Errorf("open catalog: %w", err)
		}
		defer f.Close()

		ctx := cmd.Context()
		a, err := app.New(ctx)
		if err != nil {
			return err
		}
		defer a.Close()
		if err := a.Migrate(); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}

		report, err := a.Services.Seed.Load(ctx, f)
		if err != nil {
			return err
		}
		a.Log.Info("Seed complete",
			"file", seedFile,
			"users", report.Users,
			"blog_categories", report.BlogCategories,
			"posts", report.Posts,
			"product_categories", report.ProductCategories,
			"products", report.Products,
		)
		return nil
	},
}

var createStaffCmd = &cobra.Command{
	Use:   "createstaff",
	Short: "Create a staff account",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := app.New(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		u, err := a.Services.Auth.CreateStaff(dbctx.Context{Ctx: ctx}, services.RegisterInput{
			Username:        staffUsername,
			Email:           staffEmail,
			Password:        staffPassword,
			PasswordConfirm: staffPassword,
		})
		if err != nil {
			return err
		}
		a.Log.Info("Staff user created", "user_id", u.ID, "username", u.Username)
		return nil
	},
}

func init() {
	seedCmd.Flags().StringVarP(&seedFile, "file", "f", "seed/catalog.yaml", "path to the YAML catalog")

	createStaffCmd.Flags().StringVar(&staffEmail, "email", "", "staff email address")
	createStaffCmd.Flags().StringVar(&staffUsername, "username", "", "staff username")
	createStaffCmd.Flags().StringVar(&staffPassword, "password", "", "staff password")
	_ = createStaffCmd.MarkFlagRequired("email")
	_ = createStaffCmd.MarkFlagRequired("username")
	_ = createStaffCmd.MarkFlagRequired("password")
}
