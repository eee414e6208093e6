// Package execcomp builds components from algebraic equations such as
// "y = 3.0*x1 + 7.0*x2". Right-hand sides are HCL expressions evaluated with
// go-cty numbers; the variables they reference become the component's
// inputs and the left-hand names become its outputs.
//
// Indep builds the output-only components that seed a model with constant
// values.
package execcomp
