package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"k8s.io/klog/v2"

	"github.com/samijaber1/burncheck/internal/adapter/prometheus"
	"github.com/samijaber1/burncheck/internal/adapter/synthetic"
	"github.com/samijaber1/burncheck/internal/check"
	"github.com/samijaber1/burncheck/internal/config"
	"github.com/samijaber1/burncheck/internal/report"
	"github.com/samijaber1/burncheck/internal/slo"
	"github.com/samijaber1/burncheck/internal/threshold"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	defer klog.Flush()

	if len(args) < 1 {
		printUsage()
		return 1
	}

	switch args[0] {
	case "thresholds":
		return runThresholds(args[1:])
	case "validate":
		return runValidate(args[1:])
	case "lint":
		return runLint(args[1:])
	case "explain":
		return runExplain(args[1:])
	case "help", "-h", "--help":
		printUsage()
		return 0
	default:
		printUsage()
		return 1
	}
}

func printUsage() {
	fmt.Println("Usage: burncheck <command> [options]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  thresholds [--target 0.9999] [--compare 0.995] [--factor 14]")
	fmt.Println("                           Print dynamic thresholds across tiers and traffic levels")
	fmt.Println("  validate --dir <path>    Cross-check SLO checks against deployed recording rules")
	fmt.Println("  lint --dir <path>        Validate SLO check files without querying")
	fmt.Println("  explain [--window 30d]   Explain the threshold formula and tier windows")
	fmt.Println()
}

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	klog.InitFlags(fs)
	return fs
}

func runThresholds(args []string) int {
	fs := newFlagSet("thresholds")
	target := fs.Float64("target", 0.9999, "SLO target in (0,1)")
	compare := fs.Float64("compare", 0.995, "SLO target to compare against, 0 to skip")
	factor := fs.Int("factor", int(threshold.FactorCriticalFast), "tier for the traffic scenarios (14, 7, 2 or 1)")
	fs.Parse(args)

	err := report.RenderThresholds(os.Stdout, report.ThresholdReport{
		Target:        *target,
		CompareTarget: *compare,
		Factor:        threshold.Factor(*factor),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func runValidate(args []string) int {
	cfg := config.DefaultConfig()

	fs := newFlagSet("validate")
	fs.StringVar(&cfg.CheckDirectory, "dir", cfg.CheckDirectory, "directory containing SLO check YAML files")
	fs.StringVar(&cfg.AdapterType, "adapter", cfg.AdapterType, "metrics adapter type (prometheus|synthetic)")
	fs.StringVar(&cfg.PrometheusURL, "prometheus-url", cfg.PrometheusURL, "Prometheus server URL")
	fs.StringVar(&cfg.FixturesFile, "fixtures", cfg.FixturesFile, "JSON fixtures file for the synthetic adapter")
	fs.DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "per query timeout")
	fs.IntVar(&cfg.RetryCount, "retries", cfg.RetryCount, "retries per failed query")
	fs.Parse(args)

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		fs.Usage()
		return 1
	}

	checks, ok := loadChecks(cfg.CheckDirectory)
	if !ok {
		return 1
	}
	if len(checks) == 0 {
		fmt.Fprintf(os.Stderr, "Error: no SLO check files found in %s\n", cfg.CheckDirectory)
		return 1
	}

	var adapter check.MetricsAdapter
	switch cfg.AdapterType {
	case config.AdapterPrometheus:
		adapter = prometheus.NewAdapter(cfg.PrometheusConfig())
		klog.V(1).Infof("Using Prometheus adapter: %s", cfg.PrometheusURL)
	case config.AdapterSynthetic:
		fixtures := synthetic.NewAdapter()
		if err := fixtures.LoadFixture(cfg.FixturesFile); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		adapter = fixtures
		klog.V(1).Infof("Using synthetic adapter with fixtures from: %s", cfg.FixturesFile)
	}

	summary := check.NewRunner(adapter).RunAll(context.Background(), checks)
	for _, result := range summary.Results {
		report.RenderCheck(os.Stdout, result)
	}
	report.RenderSummary(os.Stdout, summary)

	if !summary.Passed() {
		return 1
	}
	return 0
}

func runLint(args []string) int {
	fs := newFlagSet("lint")
	dir := fs.String("dir", "", "directory containing SLO check YAML files")
	fs.Parse(args)

	if *dir == "" {
		fmt.Fprintln(os.Stderr, "Error: --dir flag is required")
		fs.Usage()
		return 1
	}

	checks, ok := loadChecks(*dir)
	if !ok {
		return 1
	}

	fmt.Printf("✓ All %d SLO check files are valid\n", len(checks))
	return 0
}

func runExplain(args []string) int {
	fs := newFlagSet("explain")
	window := fs.String("window", "30d", "SLO window")
	fs.Parse(args)

	if err := report.RenderExplain(os.Stdout, *window); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// loadChecks loads and validates every check in dir, printing validation
// errors grouped by file
func loadChecks(dir string) ([]slo.CheckWithFile, bool) {
	validator, err := slo.NewValidator()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize validator: %v\n", err)
		return nil, false
	}

	checks, errors := validator.ValidateDirectory(dir)
	if len(errors) == 0 {
		return checks, true
	}

	errorsByFile := make(map[string][]slo.ValidationError)
	for _, err := range errors {
		errorsByFile[err.File] = append(errorsByFile[err.File], err)
	}

	var files []string
	for file := range errorsByFile {
		files = append(files, file)
	}
	sort.Strings(files)

	fmt.Fprintf(os.Stderr, "✗ Validation failed with %d error(s):\n\n", len(errors))
	for _, file := range files {
		for _, err := range errorsByFile[file] {
			if err.Path != "" {
				fmt.Fprintf(os.Stderr, "%s: %s: %s\n", filepath.Base(err.File), err.Path, err.Message)
			} else {
				fmt.Fprintf(os.Stderr, "%s: %s\n", filepath.Base(err.File), err.Message)
			}
		}
	}

	return nil, false
}
