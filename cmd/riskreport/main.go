package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"loanlens/internal/config"
	"loanlens/internal/exporter"
	"loanlens/internal/infrastructure"
	"loanlens/internal/loandata"
	"loanlens/internal/riskmetrics"
	"loanlens/internal/validation"
	"loanlens/pkg/contracts/domain"
)

func main() {
	input := flag.String("input", "", "input dataset (.csv or .xlsx); defaults to the newest file in the data directory")
	outputDir := flag.String("output-dir", "", "output directory for generated reports (defaults to reports/)")
	configFile := flag.String("config", "", "path to a YAML config file")
	sample := flag.Float64("sample", -1, "sample fraction in [0,1); overrides config when set")
	concurrency := flag.Int("concurrency", 0, "parallel group reductions; overrides config when set")
	exportClean := flag.Bool("export-clean", false, "also export the cleaned dataset and distribution tables")
	enableTrace := flag.Bool("trace", false, "emit stdout trace spans for pipeline stages")
	flag.Parse()

	cfg, err := loadConfig(*configFile)
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Command-line flags take precedence over config and environment
	if *sample >= 0 {
		cfg.Analysis.SampleFraction = *sample
	}
	if *concurrency > 0 {
		cfg.Analysis.MaxConcurrency = *concurrency
	}
	if *exportClean {
		cfg.Output.ExportCleaned = true
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Error("Failed to initialize logger", "error", err)
		os.Exit(1)
	}
	defer infrastructure.CloseLogFile()

	ctx := infrastructure.EnsureRunID(context.Background())
	logger.InfoContext(ctx, "starting risk report run",
		slog.String("run_id", infrastructure.RunIDFromContext(ctx)))

	otelCfg := infrastructure.DefaultOTelConfig()
	otelCfg.EnableTracing = *enableTrace
	providers, err := infrastructure.InitializeOTel(ctx, otelCfg, logger)
	if err != nil {
		logger.ErrorContext(ctx, "failed to initialize telemetry", "error", err)
		os.Exit(1)
	}
	defer providers.Shutdown(ctx)

	reportsDir := cfg.GetReportsDir()
	if *outputDir != "" {
		reportsDir = *outputDir
	}
	paths := config.PathsFor(cfg.Paths.ExecutableDir, cfg.GetDataDir(), reportsDir, cfg.GetLogsDir())

	if err := run(ctx, cfg, paths, providers, logger, *input); err != nil {
		logger.ErrorContext(ctx, "risk report run failed", "error", err)
		os.Exit(1)
	}

	if err := providers.CollectRunMetrics(ctx); err != nil {
		logger.WarnContext(ctx, "failed to collect run metrics", "error", err)
	}
}

func loadConfig(configFile string) (*config.Config, error) {
	if configFile != "" {
		return config.LoadFrom(configFile)
	}
	return config.Load()
}

func run(ctx context.Context, cfg *config.Config, paths *config.Paths,
	providers *infrastructure.OTelProviders, logger *slog.Logger, input string) error {

	validator := validation.NewFileValidator(logger)
	if err := validator.ValidateOutputDirectory(paths.ReportsDir); err != nil {
		return err
	}

	// Default to the newest dataset in the data directory
	inputPath := input
	if inputPath == "" {
		latest, err := loandata.LatestDataset(paths.DataDir)
		if err != nil {
			return err
		}
		inputPath = latest
	}
	if err := validator.ValidateDatasetFile(inputPath); err != nil {
		return err
	}
	logger.InfoContext(ctx, "using dataset", slog.String("path", inputPath))

	// Load
	loadCtx, endLoad := providers.StartStage(ctx, "load")
	loader := loandata.NewLoader(logger, loandata.LoadOptions{
		SampleFraction: cfg.Analysis.SampleFraction,
		SampleSeed:     cfg.Analysis.SampleSeed,
	})
	records, loadSummary, err := loader.Load(loadCtx, inputPath)
	endLoad(err)
	if err != nil {
		return err
	}
	providers.Metrics.RecordsLoaded.Add(ctx, int64(len(records)))

	logger.InfoContext(ctx, "dataset loaded",
		slog.Int("rows_read", loadSummary.RowsRead),
		slog.Int("rows_parsed", loadSummary.RowsParsed),
		slog.Int("rows_skipped", loadSummary.RowsSkipped))

	// Clean
	cleanCtx, endClean := providers.StartStage(ctx, "clean")
	cleaned, cleanSummary := loandata.NewCleaner(logger).Clean(cleanCtx, records)
	endClean(nil)
	providers.Metrics.RecordsEligible.Add(ctx, int64(len(cleaned)))

	// Aggregate
	aggCtx, endAgg := providers.StartStage(ctx, "aggregate")
	aggregator := riskmetrics.NewAggregator(logger, analysisOptions(cfg))
	result, err := aggregator.Compute(aggCtx, records)
	endAgg(err)
	if err != nil {
		return err
	}
	providers.Metrics.GroupsComputed.Add(ctx, int64(len(result.BySubGrade)))

	// Insights
	portfolio := riskmetrics.ComputePortfolioMetrics(cleaned, result.ByGrade, cfg.Analysis.HighRiskGrades)
	riskReturn := riskmetrics.ComputeRiskReturn(result.ByGrade)
	assessment := riskmetrics.AssessRisk(result.ByGrade, analysisOptions(cfg))
	impact := riskmetrics.ComputeBusinessImpact(cleaned, cfg.Analysis.HighRiskGrades)

	// Persist
	persistCtx, endPersist := providers.StartStage(ctx, "persist")
	err = persist(persistCtx, cfg, paths, logger, result, portfolio, riskReturn, assessment, impact)
	endPersist(err)
	if err != nil {
		return err
	}

	if cfg.Output.ExportCleaned {
		if err := exportCleaned(cleaned, records, paths); err != nil {
			return err
		}
	}

	logger.InfoContext(ctx, "risk report complete",
		slog.Int("input_records", result.InputRecords),
		slog.Int("eligible_records", result.EligibleRecords),
		slog.Int("removed_records", cleanSummary.Removed),
		slog.Int("sub_grade_groups", len(result.BySubGrade)))

	printSummary(result, portfolio, assessment)
	return nil
}

func analysisOptions(cfg *config.Config) riskmetrics.Options {
	return riskmetrics.Options{
		MaxConcurrency:             cfg.Analysis.MaxConcurrency,
		HighRiskGrades:             cfg.Analysis.HighRiskGrades,
		AcceptableDefaultRatePct:   cfg.Analysis.AcceptableDefaultRatePct,
		ExposureReviewThresholdPct: cfg.Analysis.ExposureReviewThresholdPct,
	}
}

func persist(ctx context.Context, cfg *config.Config, paths *config.Paths, logger *slog.Logger,
	result *riskmetrics.Result, portfolio riskmetrics.PortfolioMetrics,
	riskReturn riskmetrics.RiskReturnAnalysis, assessment riskmetrics.RiskAssessment,
	impact riskmetrics.BusinessImpact) error {

	precision := cfg.Output.CSVPrecision

	if err := riskmetrics.SaveToCSV(result.BySubGrade, paths.GradeMetricsCSV, precision); err != nil {
		return err
	}
	if cfg.Output.IncludeRollup {
		if err := riskmetrics.SaveRollupCSV(result.ByGrade, paths.GradeRollupCSV, precision); err != nil {
			return err
		}
	}
	if err := riskmetrics.SaveToJSON(result, paths.GradeMetricsJSON); err != nil {
		return err
	}
	if err := riskmetrics.SaveSummaryReport(result, portfolio, riskReturn, assessment, impact, paths.SummaryReportFile); err != nil {
		return err
	}

	logger.InfoContext(ctx, "reports written",
		slog.String("sub_grade_csv", paths.GradeMetricsCSV),
		slog.String("rollup_csv", paths.GradeRollupCSV),
		slog.String("json", paths.GradeMetricsJSON),
		slog.String("summary", paths.SummaryReportFile))
	return nil
}

// exportCleaned writes the cleaned dataset next to the inputs so a later run
// can consume it directly, plus distribution tables of the raw data.
func exportCleaned(cleaned, raw []domain.LoanRecord, paths *config.Paths) error {
	records := exporter.NewRecordExporter(exporter.NewCSVWriter(paths))

	if err := records.ExportCleanedRecords(cleaned, "data/loans_cleaned.csv"); err != nil {
		return err
	}
	if err := records.ExportStatusDistribution(loandata.PreviewStatuses(raw), "status_distribution.csv"); err != nil {
		return err
	}
	return records.ExportGradeDistribution(loandata.PreviewGrades(raw), "grade_distribution.csv")
}

func printSummary(result *riskmetrics.Result, portfolio riskmetrics.PortfolioMetrics, assessment riskmetrics.RiskAssessment) {
	fmt.Println("\n=== PORTFOLIO RISK SUMMARY ===")
	fmt.Printf("Eligible loans:       %d of %d\n", result.EligibleRecords, result.InputRecords)
	fmt.Printf("Total volume:         $%.2f\n", portfolio.TotalVolume)
	if portfolio.OverallDefaultRate != nil {
		fmt.Printf("Overall default rate: %.2f%%\n", *portfolio.OverallDefaultRate*100)
	}
	fmt.Printf("Recommendation:       %s\n", assessment.Recommendation)

	fmt.Println("\nGrade | Loans | Default Rate | Avg Rate | Volume Share")
	fmt.Println("------|-------|--------------|----------|-------------")
	for _, m := range result.ByGrade {
		fmt.Printf("%-5s | %5d | %12s | %8s | %12s\n",
			m.Grade, m.TotalLoans,
			pctCell(m.DefaultRate, 100), pctCell(m.AvgInterestRate, 1), pctCell(m.VolumeSharePct, 1))
	}
}

func pctCell(v *float64, factor float64) string {
	if v == nil {
		return "n/a"
	}
	return fmt.Sprintf("%.2f%%", *v*factor)
}
