package inmemorystore

import (
	"context"
	"maps"
	"sync"

	"github.com/specialistvlad/pargrid/internal/node"
	"github.com/specialistvlad/pargrid/internal/nodeid"
	"github.com/specialistvlad/pargrid/internal/nodestore"
	"github.com/zclconf/go-cty/cty"
)

// Store is an in-memory implementation of nodestore.Store.
//
// The store maintains three independent sync.Maps:
//   - states: node ID -> node.Status
//   - values: node ID -> map[string]cty.Value (port values)
//   - errors: node ID -> error
type Store struct {
	states sync.Map
	values sync.Map
	errors sync.Map
}

// New creates a new, empty in-memory node state store.
func New() nodestore.Store {
	return &Store{}
}

// SetStatus updates the execution status of a specific node.
func (s *Store) SetStatus(ctx context.Context, id nodeid.Address, status node.Status) error {
	s.states.Store(id.String(), status)
	return nil
}

// GetStatus retrieves the execution status of a specific node.
// If a status has not been set, it returns node.Pending.
func (s *Store) GetStatus(ctx context.Context, id nodeid.Address) (node.Status, error) {
	status, ok := s.states.Load(id.String())
	if !ok {
		return node.Pending, nil
	}
	return status.(node.Status), nil
}

// SetValues records a copy of the node's port values.
func (s *Store) SetValues(ctx context.Context, id nodeid.Address, values map[string]cty.Value) error {
	s.values.Store(id.String(), maps.Clone(values))
	return nil
}

// GetValues retrieves a copy of the node's recorded port values.
func (s *Store) GetValues(ctx context.Context, id nodeid.Address) (map[string]cty.Value, error) {
	values, ok := s.values.Load(id.String())
	if !ok {
		return nil, nil
	}
	return maps.Clone(values.(map[string]cty.Value)), nil
}

// SetError records the error of a node.
func (s *Store) SetError(ctx context.Context, id nodeid.Address, nodeErr error) error {
	s.errors.Store(id.String(), nodeErr)
	return nil
}

// GetError retrieves the recorded error of a node.
func (s *Store) GetError(ctx context.Context, id nodeid.Address) (error, error) {
	err, ok := s.errors.Load(id.String())
	if !ok {
		return nil, nil
	}
	return err.(error), nil
}
