package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/inodb/codon-optimizer/internal/duckdb"
)

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show saved optimization runs",
		Long: `List runs recorded with 'optimize --save', newest first. Filter by organism,
run identifier, or input file.`,
		Example: `  codon-optimizer history
  codon-optimizer history --organism h_sapiens_9606
  codon-optimizer history --input side-by-side.csv
  codon-optimizer history summary
  codon-optimizer history clear`,
		Args: usageArgs(cobra.NoArgs),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return bindFlags(cmd, map[string]string{"db": keyDBPath})
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			f := cmd.Flags()
			organism, _ := f.GetString("organism")
			runID, _ := f.GetString("run")
			inputPath, _ := f.GetString("input")
			limit, _ := f.GetInt("limit")
			return runHistory(cmd.OutOrStdout(), organism, runID, inputPath, limit)
		},
	}
	cmd.Flags().String("db", defaultDBPath(), "Run history database path")
	cmd.Flags().String("organism", "", "Only runs for this organism")
	cmd.Flags().String("run", "", "Only this run identifier")
	cmd.Flags().String("input", "", "Only runs of this unchanged input file")
	cmd.Flags().Int("limit", 20, "Maximum rows (0 = all)")

	cmd.AddCommand(newHistorySummaryCmd())
	cmd.AddCommand(newHistoryClearCmd())

	return cmd
}

func newHistorySummaryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Aggregate saved runs per organism",
		Args:  usageArgs(cobra.NoArgs),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return bindFlags(cmd, map[string]string{"db": keyDBPath})
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func(store *duckdb.Store) error {
				sums, err := store.Summaries()
				if err != nil {
					return err
				}
				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
				fmt.Fprintln(w, "Organism\tRuns\tSatisfied\tAvg codon match %\tAvg GC %")
				for _, s := range sums {
					fmt.Fprintf(w, "%s\t%d\t%d\t%.2f\t%.2f\n", s.Organism, s.Runs, s.Satisfied, s.AvgCodonMatch, s.AvgGC)
				}
				return w.Flush()
			})
		},
	}
	cmd.Flags().String("db", defaultDBPath(), "Run history database path")
	return cmd
}

func newHistoryClearCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete all saved runs",
		Args:  usageArgs(cobra.NoArgs),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return bindFlags(cmd, map[string]string{"db": keyDBPath})
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func(store *duckdb.Store) error {
				if err := store.ClearRuns(); err != nil {
					return fmt.Errorf("clearing history: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Cleared run history in %s\n", store.Path())
				return nil
			})
		},
	}
	cmd.Flags().String("db", defaultDBPath(), "Run history database path")
	return cmd
}

func withStore(fn func(*duckdb.Store) error) error {
	store, err := duckdb.Open(viper.GetString(keyDBPath))
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(store)
}

func runHistory(stdout io.Writer, organism, runID, inputPath string, limit int) error {
	return withStore(func(store *duckdb.Store) error {
		var (
			runs []duckdb.Run
			err  error
		)
		switch {
		case runID != "":
			runs, err = store.LookupRun(runID)
		case inputPath != "":
			fp, statErr := duckdb.StatFile(inputPath)
			if statErr != nil {
				return fmt.Errorf("fingerprint input: %w", statErr)
			}
			runs, err = store.RunsForInput(fp)
		case organism != "":
			runs, err = store.RunsByOrganism(organism)
		default:
			runs, err = store.RecentRuns(limit)
		}
		if err != nil {
			return err
		}
		if organism != "" {
			runs = filterOrganism(runs, organism)
		}
		if limit > 0 && len(runs) > limit {
			runs = runs[:limit]
		}

		w := tabwriter.NewWriter(stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "Run\tCreated\tOrganism\tCodons\tCodon Match %\tNucleotide Match %\tGC ratio %\tSatisfied\tError")
		for _, r := range runs {
			satisfied := "no"
			if r.Satisfied {
				satisfied = "yes"
			}
			errMsg := "-"
			if r.Error != "" {
				errMsg = r.Error
				satisfied = "-"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%.2f\t%.2f\t%.2f\t%s\t%s\n",
				r.ID, r.CreatedAt.Format("2006-01-02 15:04:05"), r.Organism, r.Codons,
				r.CodonMatch, r.NucleotideMatch, r.GC, satisfied, errMsg)
		}
		return w.Flush()
	})
}

func filterOrganism(runs []duckdb.Run, organism string) []duckdb.Run {
	var out []duckdb.Run
	for _, r := range runs {
		if r.Organism == organism {
			out = append(out, r)
		}
	}
	return out
}
