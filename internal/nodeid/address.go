// internal/nodeid/address.go
package nodeid

import (
	"slices"
	"strings"
)

// String serializes the Address into its canonical path string representation.
func (a Address) String() string {
	return strings.Join(a.Path, ".")
}

// Equal checks for equality between two addresses.
func (a Address) Equal(other Address) bool {
	return slices.Equal(a.Path, other.Path)
}

// IsRoot reports whether the address is the empty root scope.
func (a Address) IsRoot() bool {
	return len(a.Path) == 0
}

// Len returns the number of segments.
func (a Address) Len() int {
	return len(a.Path)
}

// Last returns the final segment, or "" for the root.
func (a Address) Last() string {
	if len(a.Path) == 0 {
		return ""
	}
	return a.Path[len(a.Path)-1]
}

// Parent returns the address without its final segment. The parent of the
// root is the root.
func (a Address) Parent() Address {
	if len(a.Path) == 0 {
		return a
	}
	return New(a.Path[:len(a.Path)-1]...)
}

// Child returns a new address with name appended.
func (a Address) Child(name string) Address {
	path := make([]string, 0, len(a.Path)+1)
	path = append(path, a.Path...)
	return Address{Path: append(path, name)}
}

// Join appends all segments of other to a.
func (a Address) Join(other Address) Address {
	path := make([]string, 0, len(a.Path)+len(other.Path))
	path = append(path, a.Path...)
	return Address{Path: append(path, other.Path...)}
}

// HasPrefix reports whether prefix is an ancestor of, or equal to, a.
func (a Address) HasPrefix(prefix Address) bool {
	if len(prefix.Path) > len(a.Path) {
		return false
	}
	return slices.Equal(a.Path[:len(prefix.Path)], prefix.Path)
}

// TrimPrefix returns a relative to prefix. If prefix is not an ancestor of a,
// a is returned unchanged.
func (a Address) TrimPrefix(prefix Address) Address {
	if !a.HasPrefix(prefix) {
		return a
	}
	return New(a.Path[len(prefix.Path):]...)
}
