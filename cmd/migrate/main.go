package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/rpupo63/blogly/config"
)

var (
	dbURL          string
	migrationsPath string
)

var rootCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply and inspect the Blogly SQL migrations",
	Long: `migrate runs the versioned SQL migrations under ./migrations against a
Postgres database. The database URL defaults to DATABASE_URL and the
migrations directory to MIGRATIONS_PATH.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var upCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withMigrate(func(m *migrate.Migrate) error {
			if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
				return fmt.Errorf("up failed: %w", err)
			}
			log.Info().Msg("Migrations applied")
			return nil
		})
	},
}

var downCmd = &cobra.Command{
	Use:   "down [n]",
	Short: "Roll back the last n migrations (default 1)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		steps := 1
		if len(args) == 1 {
			n, err := strconv.Atoi(args[0])
			if err != nil || n < 1 {
				return fmt.Errorf("invalid steps argument %q", args[0])
			}
			steps = n
		}

		return withMigrate(func(m *migrate.Migrate) error {
			if err := m.Steps(-steps); err != nil && !errors.Is(err, migrate.ErrNoChange) {
				return fmt.Errorf("down failed: %w", err)
			}
			log.Info().Int("steps", steps).Msg("Migrations rolled back")
			return nil
		})
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the current migration version",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withMigrate(func(m *migrate.Migrate) error {
			version, dirty, err := m.Version()
			if errors.Is(err, migrate.ErrNilVersion) {
				fmt.Fprintln(cmd.OutOrStdout(), "version: none")
				return nil
			}
			if err != nil {
				return fmt.Errorf("version failed: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "version: %d  dirty: %v\n", version, dirty)
			return nil
		})
	},
}

var forceCmd = &cobra.Command{
	Use:   "force <version>",
	Short: "Set the migration version without running migrations",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		version, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid version %q", args[0])
		}

		return withMigrate(func(m *migrate.Migrate) error {
			if err := m.Force(version); err != nil {
				return fmt.Errorf("force failed: %w", err)
			}
			log.Info().Int("version", version).Msg("Migration version forced")
			return nil
		})
	},
}

func withMigrate(fn func(m *migrate.Migrate) error) error {
	if dbURL == "" {
		return errors.New("a database URL is required: pass --db or set DATABASE_URL")
	}

	m, err := migrate.New("file://"+migrationsPath, dbURL)
	if err != nil {
		return fmt.Errorf("migration init failed: %w", err)
	}
	defer m.Close()

	m.Log = migrateLogger{logger: log.With().Str("component", "migrate").Logger()}
	return fn(m)
}

// migrateLogger adapts zerolog to golang-migrate's Logger interface.
type migrateLogger struct {
	logger zerolog.Logger
}

func (l migrateLogger) Printf(format string, v ...any) {
	l.logger.Info().Msgf(format, v...)
}

func (l migrateLogger) Verbose() bool {
	return false
}

func main() {
	_ = godotenv.Load()
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	c := config.New()
	rootCmd.PersistentFlags().StringVar(&dbURL, "db", config.GetString(c, "DATABASE_URL", ""), "Database connection URL")
	rootCmd.PersistentFlags().StringVar(&migrationsPath, "path", config.GetString(c, "MIGRATIONS_PATH", "./migrations"), "Directory holding the migration files")
	rootCmd.AddCommand(upCmd, downCmd, versionCmd, forceCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
