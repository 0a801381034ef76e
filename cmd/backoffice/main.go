package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/uptrace/bun"

	"github.com/redmonkez12/storefront-api/cmd/backoffice/ui"
	"github.com/redmonkez12/storefront-api/internal/category"
	"github.com/redmonkez12/storefront-api/internal/config"
	"github.com/redmonkez12/storefront-api/internal/database"
	"github.com/redmonkez12/storefront-api/internal/identity"
	"github.com/redmonkez12/storefront-api/internal/logging"
	"github.com/redmonkez12/storefront-api/internal/user"
)

var defaultCategories = []string{"Valvulas", "Llaves termicas", "Cables", "Iluminacion"}

func main() {
	rootCmd := &cobra.Command{
		Use:   "backoffice",
		Short: "Operator tasks for the storefront API",
		Long:  "Run migrations, bootstrap administrator accounts and seed the catalog against the configured database.",
	}

	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE:  runMigrate,
	}

	createAdminCmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an approved administrator account",
		RunE:  runCreateAdmin,
	}

	// Flags for non-interactive mode (CI/scripting)
	createAdminCmd.Flags().String("name", "", "Administrator name")
	createAdminCmd.Flags().String("email", "", "Administrator email")
	createAdminCmd.Flags().String("password", "", "Administrator password")

	seedCmd := &cobra.Command{
		Use:   "seed",
		Short: "Insert the default catalog categories",
		RunE:  runSeed,
	}
	seedCmd.Flags().String("owner", "", "Email of the account that owns the seeded categories")
	seedCmd.Flags().StringSlice("category", defaultCategories, "Category names to create")
	_ = seedCmd.MarkFlagRequired("owner")

	rootCmd.AddCommand(migrateCmd, createAdminCmd, seedCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// openDB loads configuration and connects to the database.
func openDB(ctx context.Context) (*bun.DB, *logging.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	logger := logging.NewLogger(cfg.Server.IsDevelopment())

	db, err := database.Open(ctx, cfg.Database.ConnectionString())
	if err != nil {
		return nil, nil, fmt.Errorf("open database: %w", err)
	}
	return db, logger, nil
}

func runMigrate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	db, _, err := openDB(ctx)
	if err != nil {
		ui.PrintError(err.Error())
		return err
	}
	defer db.Close()

	if err := database.Migrate(ctx, db); err != nil {
		ui.PrintError(err.Error())
		return err
	}

	ui.PrintSuccess("Schema is up to date")
	return nil
}

func runCreateAdmin(cmd *cobra.Command, args []string) error {
	name, _ := cmd.Flags().GetString("name")
	email, _ := cmd.Flags().GetString("email")
	password, _ := cmd.Flags().GetString("password")

	req := user.NewAccountRequest{
		Name:     name,
		Email:    email,
		Password: password,
	}

	// Interactive mode unless every flag was given
	if name == "" || email == "" || password == "" {
		fmt.Println()
		fmt.Println("  Create administrator")
		fmt.Println()

		input, err := ui.RunAdminForm(req)
		if err != nil {
			return fmt.Errorf("form cancelled: %w", err)
		}
		req = input
	}

	req.Roles = []string{identity.RoleAdmin}
	if err := req.Validate(); err != nil {
		ui.PrintError(err.Error())
		return err
	}

	ctx := cmd.Context()
	db, logger, err := openDB(ctx)
	if err != nil {
		ui.PrintError(err.Error())
		return err
	}
	defer db.Close()

	svc := user.NewService(user.NewRepository(db), logger)
	created, err := svc.Create(ctx, req)
	if err != nil {
		ui.PrintError(err.Error())
		return err
	}

	ui.PrintAccount(created)
	ui.PrintSuccess("Administrator created")
	return nil
}

func runSeed(cmd *cobra.Command, args []string) error {
	ownerEmail, _ := cmd.Flags().GetString("owner")
	names, _ := cmd.Flags().GetStringSlice("category")

	ctx := cmd.Context()
	db, logger, err := openDB(ctx)
	if err != nil {
		ui.PrintError(err.Error())
		return err
	}
	defer db.Close()

	owner, err := user.NewRepository(db).GetByEmail(ctx, ownerEmail)
	if err != nil {
		ui.PrintError(err.Error())
		return err
	}

	svc := category.NewService(category.NewRepository(db), logger)
	created := 0
	for _, name := range names {
		req := category.CreateRequest{Name: name, Available: true}
		if err := req.Validate(); err != nil {
			ui.PrintSkipped(name, err.Error())
			continue
		}
		if _, err := svc.Create(ctx, owner.ID, req); err != nil {
			if errors.Is(err, category.ErrDuplicateName) {
				ui.PrintSkipped(req.Name, "already exists")
				continue
			}
			ui.PrintError(err.Error())
			return err
		}
		created++
	}

	ui.PrintSuccess(fmt.Sprintf("Seeded %d of %d categories", created, len(names)))
	return nil
}
