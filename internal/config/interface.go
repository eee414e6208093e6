package config

import (
	"context"

	"github.com/zclconf/go-cty/cty"
)

// Loader is the interface for a format-specific model loader.
type Loader interface {
	// Load reads declarations from the given paths and translates them into
	// the format-agnostic model.
	Load(ctx context.Context, paths ...string) (*Model, error)
}

// Evaluator is the evaluation contract of a component: a pure function from
// input port values to output port values.
type Evaluator interface {
	Evaluate(ctx context.Context, inputs map[string]cty.Value) (map[string]cty.Value, error)
}

// EvaluatorFunc adapts an ordinary function to the Evaluator interface.
type EvaluatorFunc func(ctx context.Context, inputs map[string]cty.Value) (map[string]cty.Value, error)

// Evaluate calls f(ctx, inputs).
func (f EvaluatorFunc) Evaluate(ctx context.Context, inputs map[string]cty.Value) (map[string]cty.Value, error) {
	return f(ctx, inputs)
}

// Constant returns an Evaluator that ignores its inputs and always yields a
// copy of values.
func Constant(values map[string]cty.Value) Evaluator {
	return EvaluatorFunc(func(context.Context, map[string]cty.Value) (map[string]cty.Value, error) {
		out := make(map[string]cty.Value, len(values))
		for k, v := range values {
			out[k] = v
		}
		return out, nil
	})
}
