package node

import "fmt"

// Status represents the execution status of a node within a single run.
type Status int32

const (
	// Pending indicates the node is waiting for upstream values.
	Pending Status = iota
	// Ready indicates every connected input port has been satisfied.
	Ready
	// Running indicates the node is currently being evaluated by a worker.
	Running
	// Done indicates the node completed and its outputs are available.
	Done
	// Failed indicates the node's own evaluation failed.
	Failed
	// Skipped indicates the node never ran because an upstream node did not
	// produce a value it needs.
	Skipped
)

var statusNames = map[Status]string{
	Pending: "Pending",
	Ready:   "Ready",
	Running: "Running",
	Done:    "Done",
	Failed:  "Failed",
	Skipped: "SkippedDueToUpstreamFailure",
}

// String returns the human-readable status name.
func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Status(%d)", int32(s))
}

// IsTerminal reports whether the status can no longer change within a run.
func (s Status) IsTerminal() bool {
	return s == Done || s == Failed || s == Skipped
}

// MarshalText implements encoding.TextMarshaler.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Status) UnmarshalText(text []byte) error {
	for status, name := range statusNames {
		if name == string(text) {
			*s = status
			return nil
		}
	}
	return fmt.Errorf("unknown node status %q", string(text))
}
