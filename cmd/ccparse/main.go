package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rumor-ml/commons.systems/ccparse/internal/domain"
	"github.com/rumor-ml/commons.systems/ccparse/internal/extractor"
	"github.com/rumor-ml/commons.systems/ccparse/internal/output"
	"github.com/rumor-ml/commons.systems/ccparse/internal/pipeline"
	"github.com/rumor-ml/commons.systems/ccparse/internal/scanner"
	"github.com/rumor-ml/commons.systems/ccparse/internal/template"
	"github.com/rumor-ml/commons.systems/ccparse/internal/ui"
)

const (
	version = "0.1.0"
)

var (
	// Global flags
	versionFlag = flag.Bool("version", false, "Show version")

	// Core CLI flags
	inputPath    = flag.String("input", "", "Statement PDF, or a directory of them (required)")
	outputPath   = flag.String("output", "", "Output CSV file, or directory in batch mode (default: stdout)")
	templateName = flag.String("template", "", "Statement template name (default: auto-detect)")
	templateFile = flag.String("template-file", "", "Load an additional template from a YAML file")
	dryRun       = flag.Bool("dry-run", false, "Parse and validate without writing the export")
	verbose      = flag.Bool("verbose", false, "Show detailed parsing logs")
)

func main() {
	// Custom usage message
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, `ccparse - Credit card statement parser and CSV exporter

Usage:
  ccparse [flags]

Flags:
`)
		flag.PrintDefaults()
		fmt.Fprint(os.Stderr, `
Examples:
  # Parse one statement to stdout
  ccparse -input statement.pdf

  # Parse to a CSV file
  ccparse -input statement.pdf -output statement.csv

  # Convert every statement under a directory
  ccparse -input ~/statements -output ~/exports

  # Validate only, no export
  ccparse -input statement.pdf -dry-run -verbose

`)
	}

	flag.Parse()

	// Handle version flag
	if *versionFlag {
		fmt.Printf("ccparse version %s\n", version)
		os.Exit(0)
	}

	// Validate required flags
	if *inputPath == "" {
		fmt.Fprintf(os.Stderr, "Error: -input flag is required\n\n")
		flag.Usage()
		os.Exit(1)
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	registry, err := template.NewRegistry()
	if err != nil {
		return fmt.Errorf("failed to create template registry: %w", err)
	}
	if *templateFile != "" {
		custom, err := template.LoadFromFile(*templateFile)
		if err != nil {
			return err
		}
		registry.Register(custom)
	}

	pipe := pipeline.New(registry)

	info, err := os.Stat(*inputPath)
	if err != nil {
		return fmt.Errorf("failed to stat input %s: %w", *inputPath, err)
	}
	if info.IsDir() {
		return runBatch(pipe)
	}
	return runSingle(pipe, *inputPath, *outputPath)
}

// runSingle converts one statement document.
func runSingle(pipe *pipeline.Pipeline, input, out string) error {
	if !*verbose {
		ui.Header("Parsing Credit Card Statement")
		ui.Step(1, 4, "Extracting text layer")
	} else {
		fmt.Fprintf(os.Stderr, "Extracting text layer: %s\n", input)
	}

	pages, err := extractor.ExtractPages(input)
	if err != nil {
		return err
	}
	if *verbose {
		fmt.Fprintf(os.Stderr, "Extracted %d pages\n", len(pages))
	} else {
		ui.Success(fmt.Sprintf("Extracted %d pages", len(pages)))
		ui.Step(2, 4, "Parsing and validating")
	}

	statement, err := pipe.ParsePages(pages, *templateName)
	if err != nil {
		return describeFailure(err)
	}

	if *verbose {
		fmt.Fprintf(os.Stderr, "Parsed statement for %s (account ending %s)\n",
			statement.PrimaryCardholder(), statement.AccountSuffix())
		fmt.Fprintf(os.Stderr, "  Period: %s - %s\n",
			statement.BillingPeriodStart().Format("2006-01-02"),
			statement.BillingPeriodEnd().Format("2006-01-02"))
		fmt.Fprintf(os.Stderr, "  Transactions: %d, new balance %s\n",
			statement.TransactionCount(), statement.BalanceSummary().NewBalance())
	} else {
		ui.Success(fmt.Sprintf("Balance equation verified, %d transactions", statement.TransactionCount()))
		ui.Step(3, 4, "Exporting")
	}

	if *dryRun {
		if !*verbose {
			ui.Info("Dry run complete, no export written")
			ui.Step(4, 4, "Done")
		} else {
			fmt.Fprintln(os.Stderr, "Dry run complete, no export written")
		}
		return nil
	}

	if err := output.WriteCSVToFile(statement, out); err != nil {
		return err
	}

	if !*verbose {
		if out == "" {
			ui.Success("Export written to stdout")
		} else {
			ui.Success(fmt.Sprintf("Export written to %s", out))
		}
		ui.Step(4, 4, "Done")
	}
	return nil
}

// runBatch converts every statement PDF under the input directory. Each
// export lands next to its source, or under -output when set.
func runBatch(pipe *pipeline.Pipeline) error {
	paths, err := scanner.New(*inputPath).Scan()
	if err != nil {
		return fmt.Errorf("failed to scan directory %s: %w", *inputPath, err)
	}

	if !*verbose {
		ui.Header("Parsing Credit Card Statements")
		ui.Info(fmt.Sprintf("Found %d statement files", len(paths)))
	} else {
		fmt.Fprintf(os.Stderr, "Found %d statement files under %s\n", len(paths), *inputPath)
	}

	failures := 0
	for _, path := range paths {
		statement, err := pipe.ParseFile(path, *templateName)
		if err != nil {
			failures++
			ui.Warning(fmt.Sprintf("%s: %v", filepath.Base(path), describeFailure(err)))
			continue
		}

		if *dryRun {
			ui.Success(fmt.Sprintf("%s: valid, %d transactions", filepath.Base(path), statement.TransactionCount()))
			continue
		}

		dest := exportPath(path)
		if err := output.WriteCSVToFile(statement, dest); err != nil {
			failures++
			ui.Warning(fmt.Sprintf("%s: %v", filepath.Base(path), err))
			continue
		}
		ui.Success(fmt.Sprintf("%s -> %s", filepath.Base(path), dest))
	}

	if failures > 0 {
		return fmt.Errorf("%d of %d statements failed", failures, len(paths))
	}
	return nil
}

// exportPath picks the CSV destination for one source document in batch
// mode.
func exportPath(source string) string {
	name := strings.TrimSuffix(filepath.Base(source), filepath.Ext(source)) + ".csv"
	if *outputPath != "" {
		return filepath.Join(*outputPath, name)
	}
	return filepath.Join(filepath.Dir(source), name)
}

// describeFailure prefixes the error with its category so callers can tell
// a document that doesn't fit the layout from one whose own figures
// disagree.
func describeFailure(err error) error {
	var mismatch *domain.BalanceMismatchError
	if errors.As(err, &mismatch) {
		return fmt.Errorf("statement figures are inconsistent: %w", err)
	}
	if domain.IsStructural(err) {
		return fmt.Errorf("document does not fit the supported layout: %w", err)
	}
	return err
}
