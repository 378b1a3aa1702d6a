package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/kamilpajak/runalyze/internal/dashboard"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	port      int
	casesPath string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the local web dashboard",
	Args:  cobra.NoArgs,
	RunE:  serve,
}

func init() {
	serveCmd.Flags().IntVarP(&port, "port", "p", 8080, "Port to listen on")
	serveCmd.Flags().StringVar(&casesPath, "cases", os.Getenv("RUNALYZE_CASES"), "JSON file of failed test cases for the table view")
}

func serve(cmd *cobra.Command, args []string) error {
	logger, err := newLogger()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	taxonomy, err := loadTaxonomy()
	if err != nil {
		return err
	}

	cfg := dashboard.Config{
		Taxonomy:  taxonomy,
		CasesPath: casesPath,
		Logger:    logger,
	}

	// The dashboard still starts without credentials; /api/analyze answers 503.
	if source, err := newSource(); err != nil {
		logger.Warn("Azure DevOps client disabled", zap.Error(err))
	} else {
		cfg.Source = source
	}

	db, err := openHistory(cmd)
	if err != nil {
		return err
	}
	if db != nil {
		defer db.Close()
		cfg.Store = db
		cfg.History = db
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf("127.0.0.1:%d", port),
		Handler:           dashboard.NewHandler(cfg),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	fmt.Fprintf(os.Stderr, "Dashboard: http://localhost:%d\n", port)
	logger.Info("dashboard started", zap.Int("port", port), zap.Bool("history", db != nil))

	select {
	case err := <-errCh:
		return err
	case <-cmd.Context().Done():
	}

	fmt.Fprintln(os.Stderr, "\nShutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
