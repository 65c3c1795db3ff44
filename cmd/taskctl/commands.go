package main

import (
	"context"
	"fmt"
	"time"

	"tasktracker/internal/config"
	"tasktracker/internal/repo"
	"tasktracker/internal/service"
	"tasktracker/migrations"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
)

// loadPG reads only DATABASE_URL so the commands work without Redis.
func loadPG() (config.PGConfig, error) {
	var pg config.PGConfig
	if err := cleanenv.ReadEnv(&pg); err != nil {
		return config.PGConfig{}, fmt.Errorf("read env: %w", err)
	}
	return pg, nil
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending migrations to DATABASE_URL",
		RunE: func(cmd *cobra.Command, args []string) error {
			pg, err := loadPG()
			if err != nil {
				return err
			}
			if err := migrations.Up(pg.DSN); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
			return nil
		},
	}
}

func statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			pg, err := loadPG()
			if err != nil {
				return err
			}
			return migrations.Status(pg.DSN)
		},
	}
}

func hashCmd() *cobra.Command {
	var cost int
	cmd := &cobra.Command{
		Use:   "hash [password]",
		Short: "Print a bcrypt hash for a users.password_hash value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := bcrypt.GenerateFromPassword([]byte(args[0]), cost)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), string(h))
			return nil
		},
	}
	cmd.Flags().IntVar(&cost, "cost", bcrypt.DefaultCost, "bcrypt cost")
	return cmd
}

func userCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage users",
	}

	var email, password string
	create := &cobra.Command{
		Use:   "create",
		Short: "Create a user with an email and password",
		RunE: func(cmd *cobra.Command, args []string) error {
			pg, err := loadPG()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
			defer cancel()
			pool, err := pgxpool.New(ctx, pg.DSN)
			if err != nil {
				return fmt.Errorf("pg connect: %w", err)
			}
			defer pool.Close()

			u, err := service.NewUserService(repo.NewPGUserRepo(pool)).Register(ctx, email, password)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created %s (%s)\n", u.Email, u.ID)
			return nil
		},
	}
	create.Flags().StringVar(&email, "email", "", "email address")
	create.Flags().StringVar(&password, "password", "", "password")
	_ = create.MarkFlagRequired("email")
	_ = create.MarkFlagRequired("password")

	cmd.AddCommand(create)
	return cmd
}
