package main

import (
	"context"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/urfave/cli/v3"

	_ "github.com/golang-migrate/migrate/v4/database/postgres"

	"github.com/amink7/assets-manager/internal/config"
	"github.com/amink7/assets-manager/pkg/database"
)

//go:embed migrations/*.sql
var migrations embed.FS

const envDSN = "ASSETS_DB_DSN"

var errDirty = errors.New("database is dirty")

func cmd() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "Apply or revert the assets database schema",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "dsn",
				Usage:   "PostgreSQL connection `URL`; built from ASSETS_DB_* when empty",
				Sources: cli.EnvVars(envDSN),
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "up",
				Usage: "Run all up migrations",
				Action: withMigrator(func(m *migrate.Migrate, _ *cli.Command) error {
					if err := ignoreNoChange(m.Up()); err != nil {
						return fmt.Errorf("run up migrations: %w", err)
					}
					fmt.Println("migrations applied successfully")
					return nil
				}),
			},
			{
				Name:  "down",
				Usage: "Run all down migrations",
				Action: withMigrator(func(m *migrate.Migrate, _ *cli.Command) error {
					if err := ignoreNoChange(m.Down()); err != nil {
						return fmt.Errorf("run down migrations: %w", err)
					}
					fmt.Println("migrations reverted successfully")
					return nil
				}),
			},
			{
				Name:  "steps",
				Usage: "Apply N migrations (positive=up, negative=down)",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "n", Usage: "number of steps", Required: true},
				},
				Action: withMigrator(func(m *migrate.Migrate, cmd *cli.Command) error {
					n := int(cmd.Int("n"))
					if n == 0 {
						return errors.New("steps must not be zero")
					}
					if err := ignoreNoChange(m.Steps(n)); err != nil {
						return fmt.Errorf("run migration steps: %w", err)
					}
					fmt.Printf("applied %d migration steps\n", n)
					return nil
				}),
			},
			{
				Name:  "version",
				Usage: "Print the current migration version",
				Action: withMigrator(func(m *migrate.Migrate, _ *cli.Command) error {
					v, dirty, err := m.Version()
					if errors.Is(err, migrate.ErrNilVersion) {
						fmt.Println("no migrations applied")
						return nil
					}
					if err != nil {
						return fmt.Errorf("get version: %w", err)
					}
					fmt.Printf("version: %d, dirty: %v\n", v, dirty)
					if dirty {
						return errDirty
					}
					return nil
				}),
			},
			{
				Name:  "force",
				Usage: "Force set the migration version without running migrations",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "version", Usage: "version to record", Required: true},
				},
				Action: withMigrator(func(m *migrate.Migrate, cmd *cli.Command) error {
					v := int(cmd.Int("version"))
					if err := m.Force(v); err != nil {
						return fmt.Errorf("force version: %w", err)
					}
					fmt.Printf("forced to version %d\n", v)
					return nil
				}),
			},
		},
	}
}

func withMigrator(fn func(*migrate.Migrate, *cli.Command) error) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		dsn, err := resolveDSN(cmd.String("dsn"))
		if err != nil {
			return err
		}

		source, err := iofs.New(migrations, "migrations")
		if err != nil {
			return fmt.Errorf("create migration source: %w", err)
		}

		m, err := migrate.NewWithSourceInstance("iofs", source, dsn)
		if err != nil {
			return fmt.Errorf("create migrator: %w", err)
		}
		defer m.Close()

		go func() {
			<-ctx.Done()
			m.GracefulStop <- true
		}()

		return fn(m, cmd)
	}
}

// resolveDSN prefers an explicit URL and otherwise builds one from the
// same ASSETS_DB_* variables the server reads.
func resolveDSN(dsn string) (string, error) {
	if dsn != "" {
		return dsn, nil
	}

	var cfg database.Config
	if err := cfg.Finalize(config.DatabaseEnv); err != nil {
		return "", fmt.Errorf("database config: %w", err)
	}
	return cfg.URL(), nil
}

func ignoreNoChange(err error) error {
	if errors.Is(err, migrate.ErrNoChange) {
		return nil
	}
	var dirty migrate.ErrDirty
	if errors.As(err, &dirty) {
		return fmt.Errorf("%w at version %d: %w", errDirty, dirty.Version, err)
	}
	return err
}
