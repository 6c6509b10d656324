package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"tablediff/core/compare"
	"tablediff/core/export"
	"tablediff/core/keymap"
	"tablediff/core/results"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	compareSourceConn  string
	compareSourceTable string
	compareTargetConn  string
	compareTargetTable string
	compareSourceKeys  []string
	compareTargetKeys  []string
	compareFields      []string
	compareProject     string
	compareExport      string
	compareOut         string
)

// compareCmd runs one comparison in the foreground.
var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Compare a source table with a target table",
	Long: `Compare two tables on registered connections and store the differences.

Without key flags the primary keys of both tables are used.

Examples:
  # Compare by primary key
  tablediff compare --source-conn prod --source-table users --target-conn dwh --target-table users

  # Compare by explicit keys and write a CSV export
  tablediff compare --source-conn prod --source-table users --target-conn dwh --target-table users_copy \
    --source-keys id --target-keys user_id --export csv --out users.csv

  # Compare two renamed columns only
  tablediff compare --source-conn prod --source-table users --target-conn dwh --target-table users \
    --fields email:mail,full_name:name`,
	RunE: runCompare,
}

func init() {
	f := compareCmd.Flags()
	f.StringVar(&compareSourceConn, "source-conn", "", "Source connection id")
	f.StringVar(&compareSourceTable, "source-table", "", "Source table")
	f.StringVar(&compareTargetConn, "target-conn", "", "Target connection id")
	f.StringVar(&compareTargetTable, "target-table", "", "Target table")
	f.StringSliceVar(&compareSourceKeys, "source-keys", nil, "Source key columns (comma separated)")
	f.StringSliceVar(&compareTargetKeys, "target-keys", nil, "Target key columns (comma separated)")
	f.StringSliceVar(&compareFields, "fields", nil, "Only compare these fields, as source:target pairs (comma separated)")
	f.StringVar(&compareProject, "project", "", "Project id recorded on the run")
	f.StringVar(&compareExport, "export", "", "Export format written after completion (csv, json, txt)")
	f.StringVar(&compareOut, "out", "", "Export file path (defaults to the export file name)")
	for _, name := range []string{"source-conn", "source-table", "target-conn", "target-table"} {
		_ = compareCmd.MarkFlagRequired(name)
	}

	RootCmd.AddCommand(compareCmd)
}

func runCompare(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	env, err := setup()
	if err != nil {
		return err
	}
	defer env.close(context.Background())

	fields, err := parseFields(compareFields)
	if err != nil {
		return err
	}

	req := compare.Request{
		ProjectID:  compareProject,
		Source:     compare.TableRef{ConnectionID: compareSourceConn, Table: compareSourceTable},
		Target:     compare.TableRef{ConnectionID: compareTargetConn, Table: compareTargetTable},
		SourceKeys: compareSourceKeys,
		TargetKeys: compareTargetKeys,
		Fields:     fields,
	}

	env.logger.Info("Starting comparison",
		zap.String("source", compareSourceConn+"."+compareSourceTable),
		zap.String("target", compareTargetConn+"."+compareTargetTable))

	run, err := env.runner.Run(ctx, req)
	if err != nil {
		return err
	}
	printRun(run)

	if run.Status != results.StatusCompleted {
		return fmt.Errorf("comparison %s failed: %s", run.ID, run.FailureReason)
	}
	if compareExport == "" {
		return nil
	}
	return writeExport(ctx, env, run.ID, export.Format(compareExport), compareOut)
}

// parseFields reads source:target pairs. A bare name compares same-named columns.
func parseFields(specs []string) ([]keymap.Pair, error) {
	var pairs []keymap.Pair
	for _, spec := range specs {
		src, tgt, found := strings.Cut(spec, ":")
		if !found {
			tgt = src
		}
		src, tgt = strings.TrimSpace(src), strings.TrimSpace(tgt)
		if src == "" || tgt == "" {
			return nil, fmt.Errorf("invalid field pair %q, expected source:target", spec)
		}
		pairs = append(pairs, keymap.Pair{Source: src, Target: tgt})
	}
	return pairs, nil
}

// writeExport renders a completed run to a local file.
func writeExport(ctx context.Context, env *environment, id string, format export.Format, out string) error {
	run, err := env.store.Get(ctx, id)
	if err != nil {
		return err
	}
	records, err := env.store.Records(ctx, id)
	if err != nil {
		return err
	}
	if run.Status != results.StatusCompleted {
		return fmt.Errorf("run %s is %s", id, run.Status)
	}

	a, err := export.Export(run, records, format)
	if err != nil {
		return err
	}
	if out == "" {
		out = a.Filename
	}
	if err := os.WriteFile(out, a.Content, 0o644); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	env.logger.Info("Export written", zap.String("path", out), zap.Int("bytes", len(a.Content)))
	return nil
}

func printRun(run *results.Run) {
	fmt.Println("\n--- Comparison ---")
	fmt.Printf("Run:          %s\n", run.ID)
	fmt.Printf("Source:       %s.%s\n", run.SourceConnection, run.SourceTable)
	fmt.Printf("Target:       %s.%s\n", run.TargetConnection, run.TargetTable)

	keys := make([]string, len(run.KeyMapping))
	for i, p := range run.KeyMapping {
		keys[i] = p.Source + "=" + p.Target
	}
	fmt.Printf("Keys:         %s\n", strings.Join(keys, ", "))
	if len(run.DroppedKeyColumns) > 0 {
		fmt.Printf("Dropped keys: %s\n", strings.Join(run.DroppedKeyColumns, ", "))
	}
	fmt.Printf("Status:       %s\n", run.Status)
	if run.Status == results.StatusFailed {
		fmt.Printf("Failure:      %s (%s)\n", run.FailureReason, run.FailureKind)
	} else {
		fmt.Printf("Differences:  %d\n", run.TotalDifferences)
		fmt.Printf("Matched:      %d\n", run.Stats.Matched)
		fmt.Printf("Source only:  %d\n", run.Stats.SourceOnly)
		fmt.Printf("Target only:  %d\n", run.Stats.TargetOnly)
		if run.Warnings > 0 {
			fmt.Printf("Warnings:     %d\n", run.Warnings)
		}
	}
	fmt.Println("------------------")
}
