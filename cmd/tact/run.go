package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/tactcli/tact/pkg/dispatch"
	"github.com/tactcli/tact/pkg/prompt"
	"github.com/tactcli/tact/pkg/resolver"
	"github.com/tactcli/tact/pkg/schema"
)

var (
	runAt      string
	runOut     string
	runVerbose bool
)

var runCmd = &cobra.Command{
	Use:   "run [tasks.(yaml|toml|json)]",
	Short: "Resolve a task file and dispatch the resolved tasks",
	Args:  cobra.ExactArgs(1),
	RunE:  runRun,
}

func init() {
	runCmd.Flags().StringVar(&runAt, "at", "", "pin the time context to an RFC3339 timestamp instead of the wall clock")
	runCmd.Flags().StringVar(&runOut, "out", "", "write dispatched task records to this JSONL file (default stdout)")
	runCmd.Flags().BoolVar(&runVerbose, "verbose", false, "enable debug logging")
}

func runRun(cmd *cobra.Command, args []string) error {
	if runVerbose {
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	list, errs := schema.ValidateFile(args[0])
	printValidationWarnings(errs)
	if schema.HasErrors(errs) {
		return printValidationErrors(errs)
	}

	moment, err := momentFromFlag(runAt)
	if err != nil {
		return err
	}
	slog.Debug("captured time context", "now", moment.Now, "weekday", moment.Weekday.String(), "time_of_day", moment.TimeOfDay.String())

	var out io.Writer = os.Stdout
	if runOut != "" {
		f, err := os.OpenFile(runOut, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return fmt.Errorf("open output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	term, err := prompt.NewTerminal()
	if err != nil {
		return err
	}
	defer term.Close()

	tasks, err := resolver.ResolveAll(list, moment, term)
	if err != nil {
		if errors.Is(err, prompt.ErrClosed) {
			return fmt.Errorf("resolution aborted, no tasks dispatched: %w", err)
		}
		return err
	}

	recorder := dispatch.NewRecorder(out)
	ctx := context.Background()
	for _, task := range tasks {
		if err := recorder.Append(ctx, task); err != nil {
			return fmt.Errorf("dispatch task %q: %w", task.Type, err)
		}
		slog.Debug("dispatched task", "type", task.Type, "params", len(task.Params))
	}

	fmt.Fprintf(os.Stderr, "✓ resolved %d of %d task(s), run %s\n", len(tasks), len(list.Tasks), recorder.RunID())
	return nil
}

// momentFromFlag captures the time context once per run, pinned to --at
// when given so a run is reproducible.
func momentFromFlag(at string) (resolver.Moment, error) {
	if at == "" {
		return resolver.CaptureMoment(), nil
	}
	t, err := time.Parse(time.RFC3339, at)
	if err != nil {
		return resolver.Moment{}, fmt.Errorf("invalid --at %q: %w", at, err)
	}
	return resolver.MomentAt(t), nil
}
