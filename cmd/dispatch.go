package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"tablediff/core/dispatch"
	"tablediff/core/results"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var dispatchYes bool

// dispatchCmd forwards the records of a completed run to the configured sink.
var dispatchCmd = &cobra.Command{
	Use:   "dispatch [run-id]",
	Short: "Forward the differences of a completed run to the configured sink",
	Long: `Send every difference of a completed run to the webhook or MongoDB collection
configured under DISPATCH_*. Each record is sent once; failures are reported, not retried.`,
	Args: cobra.ExactArgs(1),
	RunE: runDispatch,
}

func init() {
	dispatchCmd.Flags().BoolVar(&dispatchYes, "yes", false, "Skip the confirmation prompt")
	RootCmd.AddCommand(dispatchCmd)
}

func runDispatch(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	env, err := setup()
	if err != nil {
		return err
	}
	defer env.close(ctx)
	l := env.logger

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
	if len(records) == 0 {
		l.Info("Run has no differences to dispatch", zap.String("run_id", run.ID))
		return nil
	}

	if !confirmDispatch(len(records), env.cfg.Dispatch.Sink) {
		l.Warn("Dispatch cancelled by user. Nothing was sent.")
		return nil
	}

	sink, err := env.sink(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err := sink.Close(ctx); err != nil {
			l.Warn("Failed to close dispatch sink", zap.Error(err))
		}
	}()

	res, err := dispatch.New(sink, l).Dispatch(ctx, run, records)
	if err != nil {
		return err
	}

	maxShow := min(5, len(res.Failed))
	for _, f := range res.Failed[:maxShow] {
		l.Warn("Failed record",
			zap.String("record_id", f.RecordID),
			zap.String("field", f.FieldName),
			zap.String("error", f.Error))
	}
	if len(res.Failed) > maxShow {
		l.Info("Additional failures not shown", zap.Int("count", len(res.Failed)-maxShow))
	}
	return nil
}

func confirmDispatch(count int, sink string) bool {
	if dispatchYes {
		fmt.Println("\n✓ Auto-confirmed via --yes flag")
		return true
	}

	fmt.Printf("\nSend %d records to the %s sink? Type 'yes' to confirm: ", count, sink)
	reader := bufio.NewReader(os.Stdin)
	response, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	return strings.TrimSpace(response) == "yes"
}
