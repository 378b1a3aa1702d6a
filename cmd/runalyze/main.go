// Command runalyze classifies the failures of Azure DevOps test runs.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/kamilpajak/runalyze/internal/azdo"
	"github.com/kamilpajak/runalyze/internal/classify"
	"github.com/kamilpajak/runalyze/internal/database"
	"github.com/kamilpajak/runalyze/internal/logging"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// Set with -ldflags "-X main.version=..." at release time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	taxonomyPath string
	orgFlag      string
	projectFlag  string
	logLevel     string
	logFormat    string
)

var rootCmd = &cobra.Command{
	Use:   "runalyze",
	Short: "Failure classification for Azure DevOps test runs",
	Long: `Runalyze fetches the results of an Azure DevOps test run, sorts every
failure into a fixed taxonomy by keyword and shows the counts in the terminal
or in a local dashboard.

Connection settings come from AZDO_ORG, AZDO_PROJECT and ACCESS_TOKEN.`,
	SilenceUsage: true,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&taxonomyPath, "taxonomy", os.Getenv("RUNALYZE_TAXONOMY"), "YAML taxonomy file (default: built-in)")
	pf.StringVar(&orgFlag, "org", "", "Azure DevOps organization (overrides AZDO_ORG)")
	pf.StringVar(&projectFlag, "project", "", "Azure DevOps project (overrides AZDO_PROJECT)")
	pf.StringVar(&logLevel, "log-level", getEnv("LOG_LEVEL", "warn"), "Log level (debug, info, warn, error)")
	pf.StringVar(&logFormat, "log-format", getEnv("LOG_FORMAT", "console"), "Log format (console, json)")

	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(casesCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(snapshotCmd)
	rootCmd.AddCommand(taxonomyCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	os.Exit(execute())
}

func execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return 1
	}
	return 0
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("runalyze %s\n", version)
		fmt.Printf("  commit: %s\n", commit)
		fmt.Printf("  built:  %s\n", date)
	},
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func newLogger() (*zap.Logger, error) {
	return logging.New(logLevel, logFormat)
}

func loadTaxonomy() (*classify.Config, error) {
	if taxonomyPath == "" {
		return classify.DefaultConfig(), nil
	}
	return classify.LoadConfig(taxonomyPath)
}

func newSource() (*azdo.Client, error) {
	cfg := azdo.ConfigFromEnv()
	if orgFlag != "" {
		cfg.Organization = orgFlag
	}
	if projectFlag != "" {
		cfg.Project = projectFlag
	}
	return azdo.NewClient(cfg)
}

// openHistory connects to DATABASE_URL, or returns nil when it is unset.
func openHistory(cmd *cobra.Command) (*database.DB, error) {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, nil
	}
	db, err := database.Open(cmd.Context(), dbURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}
	return db, nil
}

func parseRunID(arg string) (int, error) {
	id, err := strconv.Atoi(arg)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid run ID %q: must be a positive integer", arg)
	}
	return id, nil
}
