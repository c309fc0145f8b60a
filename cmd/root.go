package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nbwedev/phil-iri/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "philiri",
	Short: "Phil-IRI classroom reading assessment",
	Long: "Philiri administers the DepEd Phil-IRI 2018 reading inventory: group\n" +
		"screening, individual graded-passage sessions, and class reporting,\n" +
		"all stored in a local SQLite file.",
	SilenceUsage: true,
}

func Execute() error {
	// Optional .env next to the binary; absence is not an error.
	_ = godotenv.Load()
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides PHILIRI_DB env var)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(studentCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(passagesCmd)
}

// resolveDBPath returns the database path using --db flag (highest
// priority), then PHILIRI_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}

// newLogger builds the CLI logger. Quiet by default; PHILIRI_DEBUG=1
// switches to a verbose development logger.
func newLogger() *zap.Logger {
	if os.Getenv("PHILIRI_DEBUG") == "1" {
		log, err := zap.NewDevelopment()
		if err == nil {
			return log
		}
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.ErrorLevel)
	log, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return log
}

// openStore opens the database for a command and stamps the running
// version into it.
func openStore(cmd *cobra.Command) (*store.Store, error) {
	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath, newLogger())
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	if _, err := st.StampAppVersion(cmd.Context(), version); err != nil {
		st.Close()
		return nil, err
	}
	return st, nil
}
