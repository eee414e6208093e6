// Package hcl provides the HCL implementation of the config.Loader
// interface. It is responsible for file discovery, parsing, and the
// translation of model blocks into the format-agnostic config model.
//
// A model file is a sequence of member blocks and connections:
//
//	indep "iv" { x = 2.0 }
//
//	component "c1" {
//	  equations = ["y1 = 2.0*pow(x1, 2)", "y2 = 3.0*x1"]
//	}
//
//	group "sub" {
//	  parallel = true
//	  component "c2" { equations = ["y1 = 0.5*x1"] }
//	}
//
//	connect {
//	  source = "c1.y1"
//	  target = "sub.c2.x1"
//	}
//
// Members keep the order in which they appear. Directories are walked
// recursively and their files are read in lexical order.
package hcl
