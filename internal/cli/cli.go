package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/specialistvlad/pargrid/internal/app"
	"github.com/specialistvlad/pargrid/internal/fixtures"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// stringList collects the values of a repeatable flag.
type stringList []string

func (s *stringList) String() string { return strings.Join(*s, ",") }

func (s *stringList) Set(v string) error {
	*s = append(*s, v)
	return nil
}

// Parse processes command-line arguments. It returns a populated Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("pargrid", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprintf(output, `
pargrid - Build, plan and execute dependency graphs of components in parallel.

Usage:
  pargrid [options] [MODEL_PATH]
  pargrid [options] --fixture NAME

Arguments:
  MODEL_PATH
    Path to a single .hcl file or a directory containing .hcl files.

Fixtures:
  %s

Options:
`, strings.Join(fixtures.Names(), ", "))
		flagSet.PrintDefaults()
	}

	var sets stringList
	modelFlag := flagSet.String("model", "", "Path to the model file or directory.")
	mFlag := flagSet.String("m", "", "Path to the model file or directory (shorthand).")
	fixtureFlag := flagSet.String("fixture", "", "Run a built-in fixture instead of a model file.")
	flagSet.Var(&sets, "set", "Initial value for an unconnected input, as path=value. Repeatable.")
	workersFlag := flagSet.Int("workers", app.DefaultWorkers, "Number of concurrent workers per batch.")
	outputFlag := flagSet.String("output", "text", "Report format. Options: 'text', 'json' or 'yaml'.")
	planOnlyFlag := flagSet.Bool("plan-only", false, "Print the batch schedule without executing it.")
	snapshotFlag := flagSet.String("snapshot", "", "Write a compressed snapshot of the result to this file.")
	monitorFlag := flagSet.String("monitor-url", "", "Stream node status events to this socket.io server.")
	healthPortFlag := flagSet.Int("healthcheck-port", 0, "Port for the HTTP health check and metrics server. 0 is disabled.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	path := ""
	if *modelFlag != "" {
		path = *modelFlag
	} else if *mFlag != "" {
		path = *mFlag
	} else if flagSet.NArg() > 0 {
		path = flagSet.Arg(0)
	}
	if flagSet.NArg() > 1 {
		return nil, false, &ExitError{Code: 2, Message: fmt.Sprintf("unexpected arguments: %s", strings.Join(flagSet.Args()[1:], " "))}
	}
	slog.Debug("Model path determined.", "path", path, "fixture", *fixtureFlag)

	if path == "" && *fixtureFlag == "" {
		slog.Debug("No model provided, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}

	config, err := app.NewConfig(app.Config{
		ModelPath:       path,
		Fixture:         *fixtureFlag,
		Set:             sets,
		Workers:         *workersFlag,
		Output:          strings.ToLower(*outputFlag),
		PlanOnly:        *planOnlyFlag,
		SnapshotPath:    *snapshotFlag,
		MonitorURL:      *monitorFlag,
		LogFormat:       strings.ToLower(*logFormatFlag),
		LogLevel:        strings.ToLower(*logLevelFlag),
		HealthcheckPort: *healthPortFlag,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}
