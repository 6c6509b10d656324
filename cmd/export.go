package cmd

import (
	"context"
	"errors"
	"fmt"

	"tablediff/core/export"
	"tablediff/core/results"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	exportFormat  string
	exportOut     string
	exportPublish bool
)

// exportCmd writes or publishes the export of a completed run.
var exportCmd = &cobra.Command{
	Use:   "export [run-id]",
	Short: "Export the differences of a completed run",
	Long: `Render a completed run as CSV, JSON or a text report.

The export is written to a local file, or uploaded to object storage with --publish.`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

// runsCmd lists stored runs.
var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List comparison runs",
	RunE:  runRuns,
}

var runsProject string

func init() {
	exportCmd.Flags().StringVar(&exportFormat, "format", "csv", "Export format (csv, json, txt)")
	exportCmd.Flags().StringVar(&exportOut, "out", "", "Output file (defaults to the export file name)")
	exportCmd.Flags().BoolVar(&exportPublish, "publish", false, "Upload to the configured object storage instead of writing a file")
	runsCmd.Flags().StringVar(&runsProject, "project", "", "Only list runs of this project")

	RootCmd.AddCommand(exportCmd)
	RootCmd.AddCommand(runsCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	env, err := setup()
	if err != nil {
		return err
	}
	defer env.close(ctx)

	if !exportPublish {
		return writeExport(ctx, env, args[0], export.Format(exportFormat), exportOut)
	}

	publisher, err := env.publisher()
	if err != nil {
		return err
	}
	if publisher == nil {
		return errors.New("storage is disabled, set STORAGE_ENABLED=true to publish exports")
	}

	run, err := env.store.Get(ctx, args[0])
	if err != nil {
		return err
	}
	if run.Status != results.StatusCompleted {
		return fmt.Errorf("run %s is %s", run.ID, run.Status)
	}
	records, err := env.store.Records(ctx, run.ID)
	if err != nil {
		return err
	}
	a, err := export.Export(run, records, export.Format(exportFormat))
	if err != nil {
		return err
	}
	p, err := publisher.Publish(ctx, run.ID, a)
	if err != nil {
		return err
	}
	env.logger.Info("Export published",
		zap.String("bucket", p.Bucket),
		zap.String("key", p.Key),
		zap.Int64("size", p.Size))
	return nil
}

func runRuns(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	env, err := setup()
	if err != nil {
		return err
	}
	defer env.close(ctx)

	runs, err := env.store.List(ctx, results.Selector{ProjectID: runsProject})
	if err != nil {
		return err
	}
	for _, r := range runs {
		fmt.Printf("%s  %-9s  %6d  %s.%s -> %s.%s  %s\n",
			r.ID, r.Status, r.TotalDifferences,
			r.SourceConnection, r.SourceTable, r.TargetConnection, r.TargetTable,
			r.CreatedAt.Format("2006-01-02 15:04:05"))
	}
	return nil
}
