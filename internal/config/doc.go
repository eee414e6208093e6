// Package config defines the format-agnostic declaration model for the
// application, along with the Loader interface for reading declarations
// from various sources and the Evaluator contract every component fulfils.
//
// The `config.Model` is the single source of truth for the `dag` package.
// Declarations are plain data: a Group owns an ordered list of members and
// the connections made within its own scope. Concrete loaders, such as the
// HCL one, are provided in separate packages.
package config
