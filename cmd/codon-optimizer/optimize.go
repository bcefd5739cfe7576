package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/inodb/codon-optimizer/internal/duckdb"
	"github.com/inodb/codon-optimizer/internal/optimize"
	"github.com/inodb/codon-optimizer/internal/output"
	"github.com/inodb/codon-optimizer/internal/pairs"
)

func newOptimizeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "optimize <pairs-file>",
		Short: "Optimize a coding sequence for one or more organisms",
		Long: `Recode the original codons of a pairs file toward each organism's codon usage,
resolve GC window violations, then raise codon usage wherever the GC band
allows. Each result is compared with the reference column.

The pairs file is CSV (or TSV for .tsv/.txt names), optionally gzipped, with
codonOrig and codonVaccine header columns. Use '-' for stdin. FASTA input
(.fa, .fasta, .fna) takes the first record as the original and the second,
if present, as the reference.`,
		Example: `  codon-optimizer optimize side-by-side.csv
  codon-optimizer optimize --organism h_sapiens_9606 --window 60 pairs.tsv
  codon-optimizer optimize --format tab -o report.tsv --fasta optimized.fa --save pairs.csv
  codon-optimizer optimize --plot gc.png side-by-side.csv`,
		Args: usageArgs(cobra.ExactArgs(1)),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return bindFlags(cmd, mergeKeys(constraintFlagKeys, inputFlagKeys, historyFlagKeys))
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			format, _ := cmd.Flags().GetString("format")
			outPath, _ := cmd.Flags().GetString("output")
			fastaPath, _ := cmd.Flags().GetString("fasta")
			plotPath, _ := cmd.Flags().GetString("plot")
			if _, err := newReportWriter(format, io.Discard); err != nil {
				return err
			}
			return runOptimize(cmd.Context(), cmd.OutOrStdout(), args[0], format, outPath, fastaPath, plotPath)
		},
	}

	f := cmd.Flags()
	addConstraintFlags(f)
	addInputFlags(f)
	addHistoryFlags(f)
	f.StringP("format", "f", "table", "Report format: table, tab")
	f.StringP("output", "o", "", "Report file (default: stdout)")
	f.String("fasta", "", "Write optimized strands as FASTA to this file")
	f.String("plot", "", "Plot windowed GC profiles to this image (.png, .svg, .pdf)")

	return cmd
}

func runOptimize(ctx context.Context, stdout io.Writer, inputPath, format, outPath, fastaPath, plotPath string) error {
	s, err := loadSettings()
	if err != nil {
		return usageError{err}
	}
	logger, err := newLogger()
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	defer logger.Sync()

	code, err := s.codeMap()
	if err != nil {
		return err
	}
	p, err := pairs.Open(inputPath, s.cols)
	if err != nil {
		return err
	}
	if err := p.Validate(code); err != nil {
		return err
	}
	logger.Info("loaded codon pairs",
		zap.String("path", inputPath),
		zap.Int("codons", p.Len()),
		zap.Strings("organisms", s.organisms))

	opt := optimize.NewOptimizer(code, s.cons, s.opts)
	opt.SetLogger(logger)
	runner := optimize.NewRunner(opt, s.provider(code))
	runner.SetWorkers(s.workers)
	runner.SetLogger(logger)

	start := time.Now()
	results, err := runner.Run(ctx, p.Original, p.Reference, s.organisms)
	if err != nil {
		return err
	}

	out, closeOut, err := openOutput(outPath, stdout)
	if err != nil {
		return err
	}
	rw, err := newReportWriter(format, out)
	if err != nil {
		closeOut()
		return err
	}
	if err := writeReport(rw, results, s.cons.Window); err != nil {
		closeOut()
		return err
	}
	if err := closeOut(); err != nil {
		return err
	}

	if fastaPath != "" {
		if err := writeFASTA(fastaPath, stdout, results); err != nil {
			return err
		}
	}

	if plotPath != "" {
		if err := output.PlotWindowGC(plotPath, results, s.cons); err != nil {
			return err
		}
	}

	if s.dbEnabled {
		if err := saveHistory(s.dbPath, inputPath, start, s.cons, results); err != nil {
			return err
		}
		logger.Info("saved run history", zap.String("db", s.dbPath))
	}

	failed := 0
	for _, rr := range results {
		if rr.Err != nil {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d organisms failed", failed, len(results))
	}
	return nil
}

func newReportWriter(format string, w io.Writer) (output.ReportWriter, error) {
	switch format {
	case "table":
		return output.NewTableWriter(w), nil
	case "tab", "tsv":
		return output.NewTabWriter(w), nil
	default:
		return nil, usageError{fmt.Errorf("unknown report format %q", format)}
	}
}

func writeReport(rw output.ReportWriter, results []optimize.RunResult, window int) error {
	if err := rw.WriteHeader(); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for _, rr := range results {
		if err := rw.Write(output.NewRow(rr, window)); err != nil {
			return fmt.Errorf("writing report: %w", err)
		}
	}
	return rw.Flush()
}

func writeFASTA(path string, stdout io.Writer, results []optimize.RunResult) error {
	w, closeOut, err := openOutput(path, stdout)
	if err != nil {
		return err
	}
	sw := output.NewSequenceWriter(w, output.DefaultLineWidth)
	for _, rr := range results {
		if rr.Result == nil {
			continue
		}
		desc := "gc_constraint=satisfied"
		if !rr.Result.Satisfied {
			desc = "gc_constraint=unsatisfied"
		}
		if err := sw.Write(rr.Organism, desc, rr.Result.Sequence); err != nil {
			closeOut()
			return fmt.Errorf("writing FASTA: %w", err)
		}
	}
	if err := sw.Flush(); err != nil {
		closeOut()
		return err
	}
	return closeOut()
}

func saveHistory(dbPath, inputPath string, at time.Time, cons optimize.Constraints, results []optimize.RunResult) error {
	fp, err := duckdb.StatFile(inputPath)
	if err != nil {
		return fmt.Errorf("fingerprint input: %w", err)
	}
	store, err := duckdb.Open(dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	runs := duckdb.RunsFromResults(duckdb.NewRunID(), at, fp, cons, results)
	if err := store.WriteRuns(runs); err != nil {
		return fmt.Errorf("saving run history: %w", err)
	}
	return nil
}
