// SPDX-License-Identifier: MPL-2.0

// Package dag orders build steps. Each step names the steps it runs after;
// the graph yields a deterministic execution order and rejects cycles and
// references to steps that were never declared.
package dag

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
)

// ErrUnknownNode is wrapped by UnknownNodeError.
var ErrUnknownNode = errors.New("unknown step")

type (
	// CycleError indicates that the graph contains a cycle.
	CycleError struct {
		// Cycle holds every node left unordered, in declaration order.
		Cycle []string
	}

	// UnknownNodeError reports an edge that names an undeclared node.
	UnknownNodeError struct {
		Node string
		From string
	}

	// Graph is a directed graph of steps. An edge from A to B means A must
	// finish before B starts. Nodes are kept in declaration order so that
	// independent steps run in the order they were added.
	Graph struct {
		after    map[string][]string // node -> nodes it waits for
		before   map[string][]string // node -> nodes waiting for it
		declared map[string]bool
		nodes    []string
	}
)

func (e *CycleError) Error() string {
	return fmt.Sprintf("step cycle detected: %s", strings.Join(e.Cycle, " -> "))
}

func (e *UnknownNodeError) Error() string {
	return fmt.Sprintf("step %q runs after undeclared step %q", e.From, e.Node)
}

func (e *UnknownNodeError) Unwrap() error {
	return ErrUnknownNode
}

// New creates an empty Graph.
func New() *Graph {
	return &Graph{
		after:    make(map[string][]string),
		before:   make(map[string][]string),
		declared: make(map[string]bool),
	}
}

// AddNode declares a node. Declaring it again is a no-op.
func (g *Graph) AddNode(name string) {
	if g.declared[name] {
		return
	}
	g.declared[name] = true
	g.nodes = append(g.nodes, name)
}

// AddEdge records that from must run before to. Duplicate edges are ignored.
// Nodes are not declared implicitly; Sort reports edges to unknown nodes.
func (g *Graph) AddEdge(from, to string) {
	if slices.Contains(g.after[to], from) {
		return
	}
	g.after[to] = append(g.after[to], from)
	g.before[from] = append(g.before[from], to)
}

// Has reports whether name was declared.
func (g *Graph) Has(name string) bool {
	return g.declared[name]
}

// Nodes returns the declared nodes in declaration order.
func (g *Graph) Nodes() []string {
	return slices.Clone(g.nodes)
}

// Sort returns an execution order using Kahn's algorithm. Among nodes that
// become ready together, declaration order wins.
func (g *Graph) Sort() ([]string, error) {
	if err := g.validate(); err != nil {
		return nil, err
	}
	if len(g.nodes) == 0 {
		return nil, nil
	}

	waiting := make(map[string]int, len(g.nodes))
	for _, n := range g.nodes {
		waiting[n] = len(g.after[n])
	}

	order := make([]string, 0, len(g.nodes))
	done := make(map[string]bool, len(g.nodes))
	for len(order) < len(g.nodes) {
		next := ""
		for _, n := range g.nodes {
			if !done[n] && waiting[n] == 0 {
				next = n
				break
			}
		}
		if next == "" {
			var cycle []string
			for _, n := range g.nodes {
				if !done[n] {
					cycle = append(cycle, n)
				}
			}
			return nil, &CycleError{Cycle: cycle}
		}
		done[next] = true
		order = append(order, next)
		for _, m := range g.before[next] {
			waiting[m]--
		}
	}
	return order, nil
}

// Ancestors returns every node name transitively waits for, in declaration
// order, excluding name itself.
func (g *Graph) Ancestors(name string) []string {
	seen := map[string]bool{}
	var visit func(string)
	visit = func(n string) {
		for _, p := range g.after[n] {
			if !seen[p] {
				seen[p] = true
				visit(p)
			}
		}
	}
	visit(name)
	var out []string
	for _, n := range g.nodes {
		if seen[n] && n != name {
			out = append(out, n)
		}
	}
	return out
}

func (g *Graph) validate() error {
	for _, to := range slices.Sorted(maps.Keys(g.after)) {
		for _, from := range g.after[to] {
			switch {
			case !g.declared[to]:
				return &UnknownNodeError{Node: to, From: from}
			case !g.declared[from]:
				return &UnknownNodeError{Node: from, From: to}
			}
		}
	}
	return nil
}
