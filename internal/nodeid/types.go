// internal/nodeid/types.go
package nodeid

// Address is the structured representation of a scoped node or port
// identifier. The zero value is the root scope.
type Address struct {
	Path []string
}

// New creates an address from already validated segments.
func New(segments ...string) Address {
	path := make([]string, len(segments))
	copy(path, segments)
	return Address{Path: path}
}

// Root is the empty address of the outermost scope.
var Root = Address{}
