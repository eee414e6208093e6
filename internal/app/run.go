package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/specialistvlad/pargrid/internal/ctxlog"
	"github.com/specialistvlad/pargrid/internal/executor"
	"github.com/specialistvlad/pargrid/internal/progress"
	"github.com/specialistvlad/pargrid/internal/report"
	"github.com/specialistvlad/pargrid/internal/session"
	"github.com/specialistvlad/pargrid/internal/snapshot"
)

// ErrIncomplete is returned by Run when at least one node did not finish
// with status Done.
var ErrIncomplete = errors.New("run incomplete")

// Run loads, plans and executes the configured model, then renders the
// report. In plan-only mode it renders the schedule and returns a nil
// Result.
func (app *App) Run(ctx context.Context) (*executor.Result, error) {
	ctx = ctxlog.WithLogger(ctx, app.logger)
	app.ctx = ctx
	logger := app.logger
	logger.Debug("App.Run method started.")

	if err := app.healthCheckServer(); err != nil {
		return nil, err
	}
	defer app.closeHealthCheckServer()

	model, err := app.loadModel(ctx)
	if err != nil {
		return nil, err
	}
	initial, err := parseAssignments(app.config.Set)
	if err != nil {
		return nil, err
	}

	opts := session.Options{Workers: app.config.Workers}
	if app.config.MonitorURL != "" && !app.config.PlanOnly {
		client, err := progress.Dial(ctx, progress.DialOptions{URL: app.config.MonitorURL})
		if err != nil {
			return nil, fmt.Errorf("failed to connect to monitor: %w", err)
		}
		defer client.Close()
		opts.Observers = append(opts.Observers, progress.NewReporter(client))
	}

	sess, err := app.factory.NewSession(ctx, model, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to plan model: %w", err)
	}
	defer sess.Close(ctx)

	sched := sess.Plan()
	logger.Debug("Model planned.", "nodes", sched.NodeCount(), "batches", len(sched.Batches()))

	if app.config.PlanOnly {
		return nil, report.WritePlan(app.outW, sched)
	}

	if sched.NodeCount() == 0 {
		logger.Warn("No nodes found in model, execution not required.")
	}

	res, execErr := sess.Execute(ctx, initial)
	if res == nil {
		return nil, fmt.Errorf("execution failed: %w", execErr)
	}

	if err := report.Write(app.outW, app.config.Output, res); err != nil {
		return res, fmt.Errorf("failed to write report: %w", err)
	}
	if app.config.SnapshotPath != "" {
		if err := snapshot.WriteFile(app.config.SnapshotPath, res); err != nil {
			return res, err
		}
		logger.Info("Snapshot written.", "path", app.config.SnapshotPath)
	}

	if execErr != nil {
		return res, fmt.Errorf("execution failed: %w", execErr)
	}
	if !res.Succeeded() {
		return res, fmt.Errorf("%w: %d failed, %d skipped", ErrIncomplete, len(res.Failed()), len(res.Skipped()))
	}

	logger.Debug("App.Run method finished.")
	return res, nil
}
