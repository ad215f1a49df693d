package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"loanlens/internal/config"
	"loanlens/internal/infrastructure"
	"loanlens/internal/loandata"
	"loanlens/internal/validation"
	"loanlens/pkg/contracts/domain"
)

// loancheck inspects a dataset without producing reports: schema verdict,
// shape, and status/grade distributions. Meant as a fast pre-flight before
// a full riskreport run.
func main() {
	input := flag.String("input", "", "input dataset (.csv or .xlsx); defaults to the newest file in the data directory")
	configFile := flag.String("config", "", "path to a YAML config file")
	sample := flag.Float64("sample", -1, "sample fraction in [0,1); overrides config when set")
	flag.Parse()

	cfg, err := loadConfig(*configFile)
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	if *sample >= 0 {
		cfg.Analysis.SampleFraction = *sample
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Error("Failed to initialize logger", "error", err)
		os.Exit(1)
	}
	defer infrastructure.CloseLogFile()

	ctx := infrastructure.EnsureRunID(context.Background())

	inputPath := *input
	if inputPath == "" {
		inputPath, err = loandata.LatestDataset(cfg.GetDataDir())
		if err != nil {
			logger.ErrorContext(ctx, "no dataset found", "error", err)
			os.Exit(1)
		}
	}

	validator := validation.NewFileValidator(logger)
	if err := validator.ValidateDatasetFile(inputPath); err != nil {
		logger.ErrorContext(ctx, "dataset validation failed", "error", err)
		os.Exit(1)
	}

	loader := loandata.NewLoader(logger, loandata.LoadOptions{
		SampleFraction: cfg.Analysis.SampleFraction,
		SampleSeed:     cfg.Analysis.SampleSeed,
	})
	records, summary, err := loader.Load(ctx, inputPath)
	if err != nil {
		logger.ErrorContext(ctx, "failed to load dataset", "error", err)
		os.Exit(1)
	}

	cleaned, cleanSummary := loandata.NewCleaner(logger).Clean(ctx, records)

	printReport(inputPath, records, cleaned, summary, cleanSummary)
}

func loadConfig(configFile string) (*config.Config, error) {
	if configFile != "" {
		return config.LoadFrom(configFile)
	}
	return config.Load()
}

func printReport(path string, records, cleaned []domain.LoanRecord, summary *loandata.LoadSummary, cleanSummary *loandata.CleaningSummary) {
	info := loandata.Inspect(records)

	fmt.Println("=== DATASET CHECK ===")
	fmt.Printf("File:          %s\n", path)
	fmt.Printf("Rows read:     %d\n", summary.RowsRead)
	fmt.Printf("Rows parsed:   %d\n", summary.RowsParsed)
	fmt.Printf("Rows skipped:  %d\n", summary.RowsSkipped)
	fmt.Printf("Est. size:     %d bytes in memory\n", info.EstimatedBytes)

	if len(summary.SkipReasons) > 0 {
		fmt.Println("\nSkip reasons:")
		for reason, count := range summary.SkipReasons {
			fmt.Printf("  %-15s %d\n", reason, count)
		}
	}

	fmt.Println("\n=== LOAN STATUS DISTRIBUTION ===")
	fmt.Println("Status                      | Count | In Metrics")
	fmt.Println("----------------------------|-------|-----------")
	for _, s := range loandata.PreviewStatuses(records) {
		fmt.Printf("%-27s | %5d | %s\n", s.Status, s.Count, yesNo(s.Eligible))
	}

	fmt.Println("\n=== GRADE DISTRIBUTION ===")
	for _, g := range loandata.PreviewGrades(records) {
		fmt.Printf("  %s: %d\n", g.Grade, g.Count)
	}

	fmt.Println("\n=== ELIGIBILITY ===")
	fmt.Printf("Eligible rows:       %d of %d\n", cleanSummary.RowsAfter, cleanSummary.RowsBefore)
	fmt.Printf("  missing grade:     %d\n", cleanSummary.MissingGrade)
	fmt.Printf("  ineligible status: %d\n", cleanSummary.IneligibleStatus)
	fmt.Printf("  bad amount:        %d\n", cleanSummary.NonPositiveAmount)
	fmt.Printf("  bad rate:          %d\n", cleanSummary.NonPositiveRate)

	if cleanSummary.DefaultPct != nil {
		fmt.Printf("\nDefault rate over eligible rows: %.2f%%\n", *cleanSummary.DefaultPct)
	}

	if len(cleaned) == 0 {
		fmt.Println("\nVERDICT: no eligible records, riskreport would produce empty tables")
	} else {
		fmt.Println("\nVERDICT: dataset is usable")
	}
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
