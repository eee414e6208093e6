package execcomp

import (
	"github.com/specialistvlad/pargrid/internal/config"
	"github.com/zclconf/go-cty/cty"
)

// Var is one named constant output of an independent-variable component.
type Var struct {
	Name  string
	Value cty.Value
}

// Number is shorthand for a numeric Var.
func Number(name string, v float64) Var {
	return Var{Name: name, Value: cty.NumberFloatVal(v)}
}

// Indep returns an output-only component producing the given constants.
func Indep(name string, vars ...Var) *config.Component {
	values := make(map[string]cty.Value, len(vars))
	c := &config.Component{Name: name}
	for _, v := range vars {
		val := v.Value
		values[v.Name] = val
		c.Outputs = append(c.Outputs, config.Port{Name: v.Name, Default: &val})
	}
	c.Evaluator = config.Constant(values)
	return c
}
