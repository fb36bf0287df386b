package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/helljxnn/astrostar-backend-sub000/internal/config"
	"github.com/helljxnn/astrostar-backend-sub000/internal/infrastructure/datasources/postgres"
)

type migrator interface {
	Up(ctx context.Context) error
	Down(ctx context.Context) error
	Status(ctx context.Context) error
	Version(ctx context.Context) (int64, error)
}

type migrateDeps struct {
	loadEnv func() error
	loadCfg func() *config.Config
	prepare func(cfg *config.Config) (migrator, io.Closer, error)
}

func defaultMigrateDeps() migrateDeps {
	return migrateDeps{
		loadEnv: func() error { return godotenv.Load() },
		loadCfg: config.Load,
		prepare: func(cfg *config.Config) (migrator, io.Closer, error) {
			db, err := postgres.NewConnection(cfg.Database)
			if err != nil {
				return nil, nil, err
			}
			m, err := postgres.NewMigrator(db)
			if err != nil {
				_ = db.Close()
				return nil, nil, fmt.Errorf("failed to init migrator: %w", err)
			}
			return m, db, nil
		},
	}
}

func newRootCommand(deps migrateDeps) *cobra.Command {
	var m migrator
	var closer io.Closer

	root := &cobra.Command{
		Use:           "migrate",
		Short:         "Manage the AstroStar teams database schema",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := deps.loadEnv(); err != nil {
				log.Println("No .env file found, using environment variables")
			}
			var err error
			m, closer, err = deps.prepare(deps.loadCfg())
			return err
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			if closer == nil {
				return nil
			}
			return closer.Close()
		},
	}

	root.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				if err := m.Up(cmd.Context()); err != nil {
					return fmt.Errorf("migrate up: %w", err)
				}
				return printVersion(cmd, m)
			},
		},
		&cobra.Command{
			Use:   "down",
			Short: "Roll back the latest migration",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				if err := m.Down(cmd.Context()); err != nil {
					return fmt.Errorf("migrate down: %w", err)
				}
				return printVersion(cmd, m)
			},
		},
		&cobra.Command{
			Use:   "status",
			Short: "Show the state of every migration",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return m.Status(cmd.Context())
			},
		},
		&cobra.Command{
			Use:   "version",
			Short: "Print the current schema version",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return printVersion(cmd, m)
			},
		},
	)
	return root
}

func printVersion(cmd *cobra.Command, m migrator) error {
	v, err := m.Version(cmd.Context())
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	cmd.Printf("schema version %d\n", v)
	return nil
}

func main() {
	root := newRootCommand(defaultMigrateDeps())
	root.SetOut(os.Stdout)
	if err := root.ExecuteContext(context.Background()); err != nil {
		log.Fatal(err)
	}
}
