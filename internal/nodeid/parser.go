// internal/nodeid/parser.go
package nodeid

import (
	"fmt"
	"regexp"
	"strings"
)

// segmentRegex matches a single segment of a path.
var segmentRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// ValidateName reports whether name can be used as a single path segment,
// i.e. as a node, group or port name.
func ValidateName(name string) error {
	if name == "" {
		return fmt.Errorf("name cannot be empty")
	}
	if !segmentRegex.MatchString(name) {
		return fmt.Errorf("invalid path segment format: %q", name)
	}
	if name == "-" {
		return fmt.Errorf("invalid segment name: %q", name)
	}
	return nil
}

// Parse creates a new Address by parsing its canonical string representation.
func Parse(rawID string) (Address, error) {
	if rawID == "" {
		return Address{}, fmt.Errorf("identifier cannot be empty")
	}

	var addr Address
	for _, segment := range strings.Split(rawID, ".") {
		if segment == "" {
			return Address{}, fmt.Errorf("identifier path contains empty segment")
		}
		if err := ValidateName(segment); err != nil {
			return Address{}, err
		}
		addr.Path = append(addr.Path, segment)
	}

	return addr, nil
}

// MustParse is like Parse but panics on error. Intended for tests and
// package-level declarations.
func MustParse(rawID string) Address {
	addr, err := Parse(rawID)
	if err != nil {
		panic(err)
	}
	return addr
}
