// Package snapshot persists execution results in a compact binary form.
//
// A snapshot is a msgpack document compressed with zstd. Values are stored
// as plain Go values, so a snapshot can be decoded without the model that
// produced it.
package snapshot

import (
	"fmt"
	"os"

	"github.com/klauspost/compress/zstd"
	"github.com/specialistvlad/pargrid/internal/ctyconv"
	"github.com/specialistvlad/pargrid/internal/executor"
	"github.com/specialistvlad/pargrid/internal/node"
	"github.com/vmihailenco/msgpack/v5"
	"github.com/zclconf/go-cty/cty"
)

// Version is the snapshot format version written by Encode.
const Version = 1

// Snapshot is the decoded form of a persisted Result.
type Snapshot struct {
	Version int            `msgpack:"version"`
	RunID   string         `msgpack:"run_id"`
	Nodes   []NodeSnapshot `msgpack:"nodes"`
}

// NodeSnapshot holds the outcome of one node.
type NodeSnapshot struct {
	Path   string         `msgpack:"path"`
	Status string         `msgpack:"status"`
	Error  string         `msgpack:"error,omitempty"`
	Values map[string]any `msgpack:"values,omitempty"`
}

// FromResult converts a Result into a Snapshot.
func FromResult(res *executor.Result) (*Snapshot, error) {
	snap := &Snapshot{Version: Version, RunID: res.RunID}
	for _, path := range res.Nodes() {
		ns := NodeSnapshot{Path: path, Status: res.Status[path].String()}
		if err := res.Errors[path]; err != nil {
			ns.Error = err.Error()
		}
		if values := res.Values[path]; len(values) > 0 {
			ns.Values = make(map[string]any, len(values))
			for port, v := range values {
				native, err := ctyconv.ToInterface(v)
				if err != nil {
					return nil, fmt.Errorf("failed to convert value of %s.%s: %w", path, port, err)
				}
				ns.Values[port] = native
			}
		}
		snap.Nodes = append(snap.Nodes, ns)
	}
	return snap, nil
}

// Encode serializes res and compresses it.
func Encode(res *executor.Result) ([]byte, error) {
	if res == nil {
		return nil, fmt.Errorf("cannot encode a nil result")
	}
	snap, err := FromResult(res)
	if err != nil {
		return nil, err
	}

	data, err := msgpack.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("codec encoding failed: %w", err)
	}

	encoder, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, fmt.Errorf("compression failed: %w", err)
	}
	defer encoder.Close()
	return encoder.EncodeAll(data, nil), nil
}

// Decode decompresses and deserializes a snapshot produced by Encode.
func Decode(data []byte) (*Snapshot, error) {
	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("decompression failed: %w", err)
	}
	defer decoder.Close()

	raw, err := decoder.DecodeAll(data, nil)
	if err != nil {
		return nil, fmt.Errorf("decompression failed: %w", err)
	}

	var snap Snapshot
	if err := msgpack.Unmarshal(raw, &snap); err != nil {
		return nil, fmt.Errorf("codec decoding failed: %w", err)
	}
	if snap.Version != Version {
		return nil, fmt.Errorf("unsupported snapshot version %d", snap.Version)
	}
	return &snap, nil
}

// WriteFile encodes res and writes it to path.
func WriteFile(path string, res *executor.Result) error {
	data, err := Encode(res)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write snapshot %s: %w", path, err)
	}
	return nil
}

// ReadFile reads and decodes the snapshot stored at path.
func ReadFile(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot %s: %w", path, err)
	}
	return Decode(data)
}

// Node returns the snapshot of the node at path.
func (s *Snapshot) Node(path string) (NodeSnapshot, bool) {
	for _, n := range s.Nodes {
		if n.Path == path {
			return n, true
		}
	}
	return NodeSnapshot{}, false
}

// StatusValue parses the stored status of the node.
func (n NodeSnapshot) StatusValue() (node.Status, error) {
	var st node.Status
	if err := st.UnmarshalText([]byte(n.Status)); err != nil {
		return node.Pending, err
	}
	return st, nil
}

// Value converts a stored port value back into a cty.Value.
func (n NodeSnapshot) Value(port string) (cty.Value, error) {
	raw, ok := n.Values[port]
	if !ok {
		return cty.NilVal, fmt.Errorf("node %q has no recorded value for %q", n.Path, port)
	}
	return ctyconv.FromInterface(raw)
}
