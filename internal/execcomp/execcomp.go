package execcomp

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/specialistvlad/pargrid/internal/config"
	"github.com/zclconf/go-cty/cty"
)

// DefaultInput is the value every equation input takes when it is neither
// connected nor given an initial value.
const DefaultInput = 1.0

// equation is one parsed "lhs = rhs" line.
type equation struct {
	source string
	output string
	expr   hclsyntax.Expression
}

// Option customises a component built by New.
type Option func(*options)

type options struct {
	defaults map[string]cty.Value
}

// WithDefaults overrides the default value of the named inputs.
func WithDefaults(defaults map[string]float64) Option {
	return func(o *options) {
		for name, v := range defaults {
			o.defaults[name] = cty.NumberFloatVal(v)
		}
	}
}

// New parses the equations and returns a component evaluating them. Inputs
// are every variable referenced on a right-hand side, sorted by name;
// outputs follow equation order.
func New(name string, equations []string, opts ...Option) (*config.Component, error) {
	o := &options{defaults: make(map[string]cty.Value)}
	for _, opt := range opts {
		opt(o)
	}
	if len(equations) == 0 {
		return nil, fmt.Errorf("component %q: at least one equation is required", name)
	}

	var eqs []equation
	outputs := make(map[string]struct{})
	inputs := make(map[string]struct{})
	for _, src := range equations {
		eq, err := parseEquation(name, src)
		if err != nil {
			return nil, err
		}
		if _, dup := outputs[eq.output]; dup {
			return nil, fmt.Errorf("component %q: output %q is assigned more than once", name, eq.output)
		}
		outputs[eq.output] = struct{}{}

		for _, traversal := range eq.expr.Variables() {
			if len(traversal) > 1 {
				return nil, fmt.Errorf("component %q: equation %q: only plain variable references are supported", name, src)
			}
			inputs[traversal.RootName()] = struct{}{}
		}
		for _, fn := range functionNames(eq.expr) {
			if _, ok := Functions[fn]; !ok {
				return nil, fmt.Errorf("component %q: equation %q: unknown function %q", name, src, fn)
			}
		}
		eqs = append(eqs, eq)
	}

	inputNames := make([]string, 0, len(inputs))
	for in := range inputs {
		if _, clash := outputs[in]; clash {
			return nil, fmt.Errorf("component %q: %q is used as both an input and an output", name, in)
		}
		inputNames = append(inputNames, in)
	}
	sort.Strings(inputNames)

	for in := range o.defaults {
		if _, ok := inputs[in]; !ok {
			return nil, fmt.Errorf("component %q: default given for unknown input %q", name, in)
		}
	}

	c := &config.Component{Name: name, Evaluator: &evaluator{equations: eqs}}
	for _, in := range inputNames {
		def, ok := o.defaults[in]
		if !ok {
			def = cty.NumberFloatVal(DefaultInput)
		}
		c.Inputs = append(c.Inputs, config.Port{Name: in, Default: &def})
	}
	for _, eq := range eqs {
		c.Outputs = append(c.Outputs, config.Port{Name: eq.output})
	}
	return c, nil
}

// MustNew is like New but panics on error. Intended for fixed declarations.
func MustNew(name string, equations ...string) *config.Component {
	c, err := New(name, equations)
	if err != nil {
		panic(err)
	}
	return c
}

func parseEquation(component, src string) (equation, error) {
	idx := strings.Index(src, "=")
	if idx < 0 || (idx+1 < len(src) && src[idx+1] == '=') {
		return equation{}, fmt.Errorf("component %q: equation %q must have the form \"name = expression\"", component, src)
	}
	lhs := strings.TrimSpace(src[:idx])
	rhs := strings.TrimSpace(src[idx+1:])
	if !hclsyntax.ValidIdentifier(lhs) {
		return equation{}, fmt.Errorf("component %q: equation %q: %q is not a valid output name", component, src, lhs)
	}
	if rhs == "" {
		return equation{}, fmt.Errorf("component %q: equation %q has an empty right-hand side", component, src)
	}

	expr, diags := hclsyntax.ParseExpression([]byte(rhs), component+".equation", hcl.Pos{Line: 1, Column: 1})
	if diags.HasErrors() {
		return equation{}, fmt.Errorf("component %q: failed to parse equation %q: %w", component, src, diags)
	}
	return equation{source: src, output: lhs, expr: expr}, nil
}

type evaluator struct {
	equations []equation
}

// Evaluate implements config.Evaluator.
func (e *evaluator) Evaluate(ctx context.Context, inputs map[string]cty.Value) (map[string]cty.Value, error) {
	evalCtx := &hcl.EvalContext{
		Variables: inputs,
		Functions: Functions,
	}

	out := make(map[string]cty.Value, len(e.equations))
	for _, eq := range e.equations {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		val, diags := eq.expr.Value(evalCtx)
		if diags.HasErrors() {
			return nil, fmt.Errorf("evaluating %q: %w", eq.source, diags)
		}
		if val.IsNull() || !val.IsWhollyKnown() {
			return nil, fmt.Errorf("evaluating %q: result is null or unknown", eq.source)
		}
		out[eq.output] = val
	}
	return out, nil
}
