package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"evpulse/internal/config"
	"evpulse/internal/dataprocessing"
	"evpulse/internal/exporter"
	"evpulse/internal/infrastructure"
	"evpulse/pkg/contracts/domain"
)

func main() {
	inPath := flag.String("in", "", "input dataset (.csv or .xlsx)")
	outDir := flag.String("out", "data/reports", "output directory for generated reports")
	topN := flag.Int("top", 5, "number of entries in top-N breakdowns")
	workbook := flag.Bool("xlsx", true, "also write the Excel report workbook")
	logLevel := flag.String("log-level", "info", "log level (debug, info, warn, error)")
	flag.Parse()

	logger := infrastructure.MustInitializeLogger(config.LoggingConfig{
		Level:  *logLevel,
		Format: "text",
		Output: "console",
	})

	if *inPath == "" {
		fmt.Fprintln(os.Stderr, "usage: processor -in <dataset.csv|dataset.xlsx> [-out <dir>] [-top <n>] [-xlsx=false]")
		os.Exit(2)
	}

	if err := run(context.Background(), logger, *inPath, *outDir, *topN, *workbook); err != nil {
		logger.Error("processing failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *slog.Logger, inPath, outDir string, topN int, workbook bool) error {
	loader := dataprocessing.NewLoader(logger)
	table, err := loader.LoadFile(inPath)
	if err != nil {
		return fmt.Errorf("loading %s: %w", inPath, err)
	}

	normalizer := dataprocessing.NewNormalizer(logger)
	dataset, err := normalizer.Normalize(table, inPath)
	if err != nil {
		return fmt.Errorf("normalizing %s: %w", inPath, err)
	}

	summarizer := dataprocessing.NewSummarizer(logger, dataprocessing.SummarizerConfig{TopN: topN})
	summary := summarizer.Summarize(ctx, dataset.Vehicles)

	yearly := dataprocessing.YearlyCounts(dataset.Vehicles)
	insights := dataprocessing.Growth(yearly)
	trend := dataprocessing.RangeByYear(dataset.Vehicles)
	topMakes := dataprocessing.TopCounts(dataset.Vehicles, func(v domain.Vehicle) string { return v.Make }, topN)

	reports := exporter.NewReportExporter(exporter.NewCSVWriter(outDir), logger)
	if err := reports.ExportVehicles(dataset.Vehicles, "cleaned.csv"); err != nil {
		return err
	}
	if err := reports.ExportSummaryJSON(summary, "summary.json"); err != nil {
		return err
	}
	if err := reports.ExportYearlyCounts(yearly, "yearly.csv"); err != nil {
		return err
	}
	if workbook {
		report := exporter.Report{
			Summary:  summary,
			Yearly:   yearly,
			Insights: insights,
			Trend:    trend,
			TopMakes: topMakes,
		}
		if err := reports.ExportWorkbook(report, "report.xlsx"); err != nil {
			return err
		}
	}

	logger.Info("processing complete",
		slog.String("source", inPath),
		slog.String("output", outDir),
		slog.Int("records", dataset.Len()),
		slog.Int("warnings", len(dataset.Warnings)))
	return nil
}
