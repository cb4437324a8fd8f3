package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"try-scout/tryplot"
)

var (
	exportArchiveID int64
	exportOut       string
)

// exportCmd writes an archived match as CSV without starting the server.
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export an archived match as CSV",
	Long: `Reads one archive from the database and writes its tries in the same CSV
layout as the web download. Use --out - to write to stdout.

Example:
  tryscout export --archive 3
  tryscout export --archive 3 --out - > tries.csv`,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().Int64Var(&exportArchiveID, "archive", 0, "archive id to export (required)")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "output file (default try-analysis-<match>-<date>.csv)")
	_ = exportCmd.MarkFlagRequired("archive")
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg, err := setup()
	if err != nil {
		return err
	}

	archive, err := OpenArchiveStore(cmd.Context(), cfg.DBPath)
	if err != nil {
		return err
	}
	defer archive.Close()

	ar, tries, err := archive.Load(cmd.Context(), exportArchiveID)
	if err != nil {
		return fmt.Errorf("archive %d: %w", exportArchiveID, err)
	}

	out := exportOut
	if out == "" {
		out = tryplot.ExportFilename(ar.MatchID, time.Now())
	}

	var w io.Writer = cmd.OutOrStdout()
	if out != "-" {
		f, err := os.Create(out)
		if err != nil {
			return fmt.Errorf("create %s: %w", out, err)
		}
		defer f.Close()
		w = f
	}

	if err := tryplot.WriteCSV(w, tries); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	logger.Info("archive exported",
		zap.Int64("archive", ar.ID),
		zap.String("match", ar.MatchID),
		zap.Int("tries", len(tries)),
		zap.String("out", out))
	return nil
}
