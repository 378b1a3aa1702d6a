package main

import (
	"fmt"
	"os"
	"time"

	"github.com/kamilpajak/runalyze/internal/dashboard"
	"github.com/kamilpajak/runalyze/internal/snapshot"
	"github.com/spf13/cobra"
)

var (
	snapshotOut     string
	snapshotTimeout time.Duration
	installBrowser  bool
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot <run-id>",
	Short: "Save a PNG of the dashboard for one run",
	Args:  cobra.ExactArgs(1),
	RunE:  runSnapshot,
}

func init() {
	snapshotCmd.Flags().StringVarP(&snapshotOut, "out", "o", "", "Output PNG path (default: run-<id>.png)")
	snapshotCmd.Flags().DurationVar(&snapshotTimeout, "timeout", snapshot.DefaultTimeout, "How long to wait for the analysis")
	snapshotCmd.Flags().BoolVar(&installBrowser, "install", false, "Install the Chromium driver first")
}

func runSnapshot(cmd *cobra.Command, args []string) error {
	runID, err := parseRunID(args[0])
	if err != nil {
		return err
	}
	if snapshotOut == "" {
		snapshotOut = fmt.Sprintf("run-%d.png", runID)
	}

	if installBrowser {
		if err := snapshot.Install(); err != nil {
			return err
		}
	} else if !snapshot.IsAvailable() {
		return fmt.Errorf("chromium driver not found: rerun with --install")
	}

	logger, err := newLogger()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	taxonomy, err := loadTaxonomy()
	if err != nil {
		return err
	}
	source, err := newSource()
	if err != nil {
		return err
	}

	h := dashboard.NewHandler(dashboard.Config{
		Source:   source,
		Taxonomy: taxonomy,
		Logger:   logger,
	})

	if err := snapshot.Capture(h, runID, snapshotOut, nil, snapshotTimeout); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Saved %s\n", snapshotOut)
	return nil
}
