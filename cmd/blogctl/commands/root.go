package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/artem13815/blog/pkg/config"
	"github.com/artem13815/blog/pkg/logger"
	"github.com/artem13815/blog/pkg/storage/postgres"
)

var (
	// Global flags
	dbURL   string
	verbose bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "blogctl",
	Short: "Administrative tasks for the blog backend",
	Long: `blogctl manages the blog database outside of the HTTP server:
schema migrations and account bootstrap.

The database URL comes from --db or DATABASE_URL (a .env file is honoured).`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Try to load .env if it exists; ignore error if file not found
		_ = godotenv.Load()
		if dbURL == "" {
			dbURL = os.Getenv("DATABASE_URL")
		}
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbURL, "db", "", "Database connection URL (defaults to DATABASE_URL)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
}

func newLogger(w io.Writer) *slog.Logger {
	env := config.EnvProduction
	if verbose {
		env = config.EnvDevelopment
	}
	return logger.New(env, w)
}

func connect(ctx context.Context) (*pgxpool.Pool, error) {
	if dbURL == "" {
		return nil, fmt.Errorf("--db flag or DATABASE_URL is required")
	}
	pool, err := postgres.Connect(ctx, dbURL, postgres.PoolOptions{MaxConns: 2})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return pool, nil
}
