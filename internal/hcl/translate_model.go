// This file contains the logic for translating HCL blocks into the
// format-agnostic configuration model defined in the config package.

package hcl

import (
	"context"
	"fmt"
	"sort"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/specialistvlad/pargrid/internal/config"
	"github.com/specialistvlad/pargrid/internal/ctxlog"
	"github.com/specialistvlad/pargrid/internal/execcomp"
	"github.com/specialistvlad/pargrid/internal/schema"
)

// translateIndep converts an `indep` block into an output-only component.
// Its attributes become outputs in source order.
func (l *Loader) translateIndep(ctx context.Context, block *hcl.Block) (*config.Component, error) {
	var s schema.Indep
	if diags := gohcl.DecodeBody(block.Body, nil, &s); diags.HasErrors() {
		return nil, diags
	}
	s.Name = block.Labels[0]

	attrs, diags := s.Body.JustAttributes()
	if diags.HasErrors() {
		return nil, diags
	}
	ordered := make([]*hcl.Attribute, 0, len(attrs))
	for _, attr := range attrs {
		ordered = append(ordered, attr)
	}
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].Range.Start.Byte < ordered[j].Range.Start.Byte
	})

	vars := make([]execcomp.Var, 0, len(ordered))
	for _, attr := range ordered {
		val, diags := attr.Expr.Value(nil)
		if diags.HasErrors() {
			return nil, fmt.Errorf("invalid value for output '%s' of indep '%s': %w", attr.Name, s.Name, diags)
		}
		if val.IsNull() || !val.IsWhollyKnown() {
			return nil, fmt.Errorf("output '%s' of indep '%s' must be a known, non-null value", attr.Name, s.Name)
		}
		vars = append(vars, execcomp.Var{Name: attr.Name, Value: val})
	}

	ctxlog.FromContext(ctx).Debug("Translated indep block.", "name", s.Name, "outputs", len(vars))
	return execcomp.Indep(s.Name, vars...), nil
}

// translateComponent converts a `component` block into an expression
// component.
func (l *Loader) translateComponent(ctx context.Context, block *hcl.Block) (*config.Component, error) {
	var s schema.Component
	if diags := gohcl.DecodeBody(block.Body, nil, &s); diags.HasErrors() {
		return nil, diags
	}
	s.Name = block.Labels[0]

	var opts []execcomp.Option
	if len(s.Defaults) > 0 {
		opts = append(opts, execcomp.WithDefaults(s.Defaults))
	}
	c, err := execcomp.New(s.Name, s.Equations, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", block.DefRange, err)
	}

	ctxlog.FromContext(ctx).Debug("Translated component block.", "name", s.Name, "inputs", len(c.Inputs), "outputs", len(c.Outputs))
	return c, nil
}

// translateGroup converts a `group` block and, recursively, its members.
func (l *Loader) translateGroup(ctx context.Context, block *hcl.Block) (*config.Group, error) {
	var s schema.Group
	if diags := gohcl.DecodeBody(block.Body, nil, &s); diags.HasErrors() {
		return nil, diags
	}
	s.Name = block.Labels[0]

	members, conns, err := l.translateBody(ctx, s.Body)
	if err != nil {
		return nil, fmt.Errorf("in group '%s': %w", s.Name, err)
	}

	ctxlog.FromContext(ctx).Debug("Translated group block.", "name", s.Name, "parallel", s.Parallel, "members", len(members))
	return &config.Group{
		Name:        s.Name,
		Parallel:    s.Parallel,
		Exports:     s.Exports,
		Members:     members,
		Connections: conns,
	}, nil
}

// translateConnect converts a `connect` block.
func (l *Loader) translateConnect(block *hcl.Block) (config.Connection, error) {
	var s schema.Connect
	if diags := gohcl.DecodeBody(block.Body, nil, &s); diags.HasErrors() {
		return config.Connection{}, diags
	}
	return config.Connect(s.Source, s.Target), nil
}
