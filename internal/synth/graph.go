package synth

import (
	"container/heap"
	"errors"
	"fmt"
	"strings"

	"github.com/devspell/cli/internal/filetree"
)

// ErrCycle is returned by Graph.Order for cyclic plans.
var ErrCycle = errors.New("dependency cycle")

// Graph is the dependency graph of a file plan: one node per path, an edge
// from each dependency to its dependant.
type Graph struct {
	nodes   []string
	index   map[string]int
	specs   map[string]FileSpec
	deps    map[string][]string
	out     map[string][]string
	unknown map[string][]string
}

// normalizePath cleans p for use as a node key. Paths the tree would
// reject are kept as trimmed text.
func normalizePath(p string) string {
	if clean, err := filetree.Normalize(p); err == nil {
		return clean
	}
	return strings.TrimSpace(p)
}

// NewGraph builds the graph for specs. A repeated path keeps its first
// position and takes the later spec. Dependencies on undeclared paths are
// recorded in Unknown and otherwise ignored.
func NewGraph(specs []FileSpec) *Graph {
	g := &Graph{
		index:   make(map[string]int),
		specs:   make(map[string]FileSpec),
		deps:    make(map[string][]string),
		out:     make(map[string][]string),
		unknown: make(map[string][]string),
	}

	for _, spec := range specs {
		key := normalizePath(spec.Path)
		spec.Path = key
		if _, seen := g.index[key]; !seen {
			g.index[key] = len(g.nodes)
			g.nodes = append(g.nodes, key)
		}
		g.specs[key] = spec
	}

	for _, key := range g.nodes {
		seen := make(map[string]bool)
		for _, raw := range g.specs[key].Dependencies {
			dep := normalizePath(raw)
			if dep == "" || seen[dep] {
				continue
			}
			seen[dep] = true
			if _, ok := g.index[dep]; !ok {
				g.unknown[key] = append(g.unknown[key], raw)
				continue
			}
			g.deps[key] = append(g.deps[key], dep)
			g.out[dep] = append(g.out[dep], key)
		}
	}
	return g
}

// Nodes returns every path in declaration order.
func (g *Graph) Nodes() []string {
	return append([]string(nil), g.nodes...)
}

// Spec returns the spec declared for path.
func (g *Graph) Spec(path string) (FileSpec, bool) {
	s, ok := g.specs[path]
	return s, ok
}

// Dependencies returns the in-graph dependencies of path.
func (g *Graph) Dependencies(path string) []string {
	return append([]string(nil), g.deps[path]...)
}

// Unknown maps each path to the dependency references it declared that
// match no node.
func (g *Graph) Unknown() map[string][]string {
	out := make(map[string][]string, len(g.unknown))
	for k, v := range g.unknown {
		out[k] = append([]string(nil), v...)
	}
	return out
}

// DetectCycle returns one dependency cycle as a path list that starts and
// ends with the same node, or nil when the graph is acyclic. Search starts
// from nodes in declaration order, so the result is deterministic.
func (g *Graph) DetectCycle() []string {
	const (
		white = iota
		grey
		black
	)
	color := make(map[string]int, len(g.nodes))
	var stack []string
	var cycle []string

	var visit func(n string) bool
	visit = func(n string) bool {
		color[n] = grey
		stack = append(stack, n)
		for _, dep := range g.deps[n] {
			switch color[dep] {
			case grey:
				for i, s := range stack {
					if s == dep {
						cycle = append(append([]string(nil), stack[i:]...), dep)
						return true
					}
				}
			case white:
				if visit(dep) {
					return true
				}
			}
		}
		stack = stack[:len(stack)-1]
		color[n] = black
		return false
	}

	for _, n := range g.nodes {
		if color[n] == white && visit(n) {
			return cycle
		}
	}
	return nil
}

// Order returns a topological order in which every dependency precedes its
// dependants. Among ready nodes the earliest declared goes first. Cyclic
// graphs yield an error wrapping ErrCycle.
func (g *Graph) Order() ([]string, error) {
	indegree := make(map[string]int, len(g.nodes))
	for _, n := range g.nodes {
		indegree[n] = len(g.deps[n])
	}

	ready := &indexHeap{}
	for _, n := range g.nodes {
		if indegree[n] == 0 {
			heap.Push(ready, g.index[n])
		}
	}

	order := make([]string, 0, len(g.nodes))
	for ready.Len() > 0 {
		n := g.nodes[heap.Pop(ready).(int)]
		order = append(order, n)
		for _, next := range g.out[n] {
			indegree[next]--
			if indegree[next] == 0 {
				heap.Push(ready, g.index[next])
			}
		}
	}

	if len(order) != len(g.nodes) {
		cycle := g.DetectCycle()
		return nil, fmt.Errorf("%w: %s", ErrCycle, strings.Join(cycle, " -> "))
	}
	return order, nil
}

// indexHeap is a min-heap of declaration indexes.
type indexHeap []int

func (h indexHeap) Len() int           { return len(h) }
func (h indexHeap) Less(i, j int) bool { return h[i] < h[j] }
func (h indexHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *indexHeap) Push(x any)        { *h = append(*h, x.(int)) }
func (h *indexHeap) Pop() any {
	old := *h
	x := old[len(old)-1]
	*h = old[:len(old)-1]
	return x
}
