package scheduler

import (
	"fmt"
	"strings"

	"github.com/specialistvlad/pargrid/internal/dag"
)

// Batch is a set of nodes with no dependency among them, in declaration
// order.
type Batch []*dag.Node

// Names returns the scope-local names of the batch members.
func (b Batch) Names() []string {
	out := make([]string, len(b))
	for i, n := range b {
		out[i] = n.Name()
	}
	return out
}

// Schedule is the ordered batch sequence of one scope, plus the schedules of
// its group members.
type Schedule struct {
	graph   *dag.Graph
	batches []Batch
	index   map[*dag.Node]int
	subs    map[*dag.Node]*Schedule
}

// Graph returns the scope this schedule was planned for.
func (s *Schedule) Graph() *dag.Graph { return s.graph }

// Batches returns the batches in execution order.
func (s *Schedule) Batches() []Batch { return s.batches }

// Sub returns the schedule of a group member, or nil for a component.
func (s *Schedule) Sub(n *dag.Node) *Schedule { return s.subs[n] }

// BatchIndex returns the batch position of the named member.
func (s *Schedule) BatchIndex(name string) (int, bool) {
	n, ok := s.graph.Node(name)
	if !ok {
		return 0, false
	}
	idx, ok := s.index[n]
	return idx, ok
}

// Names returns the scope-local member names of every batch.
func (s *Schedule) Names() [][]string {
	out := make([][]string, len(s.batches))
	for i, b := range s.batches {
		out[i] = b.Names()
	}
	return out
}

// NodeCount returns the number of nodes in this scope and all nested ones.
func (s *Schedule) NodeCount() int {
	count := 0
	for _, b := range s.batches {
		count += len(b)
		for _, n := range b {
			if sub := s.subs[n]; sub != nil {
				count += sub.NodeCount()
			}
		}
	}
	return count
}

// String renders the nested plan as indented text.
func (s *Schedule) String() string {
	var sb strings.Builder
	s.write(&sb, 0)
	return sb.String()
}

func (s *Schedule) write(sb *strings.Builder, depth int) {
	indent := strings.Repeat("  ", depth)
	for i, b := range s.batches {
		fmt.Fprintf(sb, "%sbatch %d: %s\n", indent, i, strings.Join(b.Names(), ", "))
		for _, n := range b {
			sub := s.subs[n]
			if sub == nil {
				continue
			}
			mode := "sequential"
			if n.Parallel() {
				mode = "parallel"
			}
			fmt.Fprintf(sb, "%s  group %s (%s):\n", indent, n.Name(), mode)
			sub.write(sb, depth+2)
		}
	}
}
