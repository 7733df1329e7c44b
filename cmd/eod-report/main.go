// Command eod-report generates the end-of-day report files for a given date:
// an xlsx summary workbook grouped by BDE and a CSV of the day's raw
// responses.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"salespulse/internal/config"
	"salespulse/internal/dataprocessing"
	"salespulse/internal/exporter"
	"salespulse/internal/infrastructure"
	"salespulse/internal/sheet"
	"salespulse/pkg/contracts/domain"
)

func main() {
	dateFlag := flag.String("date", "", "report date as YYYY-MM-DD (default today)")
	outDir := flag.String("out", "", "output directory (default from configuration)")
	flag.Parse()

	if err := run(*dateFlag, *outDir); err != nil {
		slog.Error("eod report failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(dateFlag, outDir string) error {
	godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("initialize logger: %w", err)
	}

	date := time.Now().UTC()
	if dateFlag != "" {
		date, err = time.Parse("2006-01-02", dateFlag)
		if err != nil {
			return fmt.Errorf("parse -date: %w", err)
		}
	}
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)

	if outDir == "" {
		outDir = cfg.Reports.OutputDir
	}
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	ctx := context.Background()
	loader := sheet.NewLoader(cfg.Sheet.URL, nil, logger)
	table := dataprocessing.Normalize(loader.Load(ctx))

	filter := domain.Filter{From: &day, To: &day}
	dash := dataprocessing.BuildDashboard(table, filter, day)
	filtered := dataprocessing.ApplyFilter(table, filter)

	logger.Info("building eod report",
		slog.String("date", day.Format("2006-01-02")),
		slog.Int("responses", dash.Summary.TotalResponses))

	stamp := day.Format("2006-01-02")
	xlsxPath := filepath.Join(outDir, fmt.Sprintf("eod-%s.xlsx", stamp))
	csvPath := filepath.Join(outDir, fmt.Sprintf("responses-%s.csv", stamp))

	// The two artifacts are independent; write them concurrently.
	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		return exporter.NewEODWriter(logger).WriteFile(xlsxPath, dash, day)
	})
	g.Go(func() error {
		f, err := os.Create(csvPath)
		if err != nil {
			return fmt.Errorf("create %s: %w", csvPath, err)
		}
		defer f.Close()
		return exporter.WriteCSV(f, filtered, exporter.CSVOptions{BOMPrefix: true})
	})
	if err := g.Wait(); err != nil {
		return err
	}

	logger.Info("eod report complete",
		slog.String("workbook", xlsxPath),
		slog.String("csv", csvPath))
	return nil
}
