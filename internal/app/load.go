package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/specialistvlad/pargrid/internal/config"
	"github.com/specialistvlad/pargrid/internal/ctxlog"
	"github.com/specialistvlad/pargrid/internal/ctyconv"
	"github.com/specialistvlad/pargrid/internal/fixtures"
	"github.com/zclconf/go-cty/cty"
)

// loadModel reads the model from the configured path, or declares the
// configured fixture.
func (app *App) loadModel(ctx context.Context) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)

	if app.config.Fixture != "" {
		model, ok := fixtures.Get(app.config.Fixture)
		if !ok {
			return nil, fmt.Errorf("unknown fixture %q", app.config.Fixture)
		}
		logger.Info("Fixture loaded.", "fixture", app.config.Fixture, "members", len(model.Root.Members))
		return model, nil
	}

	logger.Debug("Loading model...", "model_path", app.config.ModelPath)
	model, err := app.loader.Load(ctx, app.config.ModelPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load model: %w", err)
	}
	logger.Info("Model loaded successfully.", "members", len(model.Root.Members))
	return model, nil
}

// parseAssignments turns "path=value" pairs into initial values. Later
// assignments to the same path win.
func parseAssignments(assignments []string) (map[string]cty.Value, error) {
	if len(assignments) == 0 {
		return nil, nil
	}
	initial := make(map[string]cty.Value, len(assignments))
	for _, a := range assignments {
		path, raw, ok := strings.Cut(a, "=")
		path = strings.TrimSpace(path)
		if !ok || path == "" {
			return nil, fmt.Errorf("invalid assignment %q: expected path=value", a)
		}
		initial[path] = ctyconv.ParseLiteral(raw)
	}
	return initial, nil
}
