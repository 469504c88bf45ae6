package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kilianp07/gridtariff/app"
	"github.com/kilianp07/gridtariff/config"
	"github.com/kilianp07/gridtariff/infra/logger"
	"github.com/kilianp07/gridtariff/pkg/export"
)

var prepareCmd = &cobra.Command{
	Use:   "prepare",
	Short: "Solve the capacity preparation problem and export monthly peaks",
	RunE:  runPrepare,
}

func init() {
	rootCmd.AddCommand(prepareCmd)
}

func runPrepare(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	svc, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := svc.Close(); err != nil {
			logger.New("main").Errorf("service close: %v", err)
		}
	}()

	peaks, err := svc.PrepareCapacity(ctx)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(cfg.Scenario.Output.Dir, 0o755); err != nil {
		return err
	}
	path := filepath.Join(cfg.Scenario.Output.Dir, "peaks.csv")
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return export.WritePeaksCSV(f, peaks)
}
