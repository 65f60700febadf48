// Package graph builds a foreign-key dependency graph over the desired
// table set and orders it topologically so that referenced tables are
// created before the tables that reference them. It is pure data
// processing - cycle handling is weak (warn, don't abort) and warnings
// are returned to the caller rather than logged here.
package graph

import "aquaform/internal/core"

// Graph is an adjacency list keyed by table name. edges[a] contains b
// when a depends on b (a has a foreign key referencing b).
type Graph struct {
	edges map[string][]string
	nodes []string
}

// CycleWarning records a table reached while it was still on the
// current DFS path - a circular dependency involving it exists. It does
// not abort the sort; the involved table is still emitted in the
// result, just not guaranteed to precede everything that depends on it.
type CycleWarning struct {
	Table string
}

// Build constructs the dependency graph for the given desired tables.
// An edge from table to fk.ReferenceTable is added only when the
// referenced table is itself present in tables - a foreign key pointing
// outside the desired set contributes no edge (§4.5).
func Build(tables map[string]*core.Table) *Graph {
	g := &Graph{edges: make(map[string][]string, len(tables))}
	for name := range tables {
		g.edges[name] = nil
		g.nodes = append(g.nodes, name)
	}
	for name, t := range tables {
		for _, fk := range t.ForeignKeys {
			if _, ok := tables[fk.ReferenceTable]; ok {
				g.edges[name] = append(g.edges[name], fk.ReferenceTable)
			}
		}
	}
	return g
}

// TopologicalSort returns table names ordered so that a table's
// dependencies (the tables it references) appear before it. Traversal
// order over nodes follows Go's map iteration and is not itself
// deterministic across calls with the same input built via Build; for a
// stable, reproducible order build the graph from a sorted table name
// list via BuildOrdered.
//
// Cycles do not abort the sort: entering a node that is already on the
// current DFS path records a CycleWarning and returns immediately, without
// being added to the order by that call. The node still gets its normal
// post-order append from the outer call that originally entered it, so
// every node in a cycle still appears in the result exactly once -
// matching the source algorithm's temp_visited/visited bookkeeping.
func (g *Graph) TopologicalSort() ([]string, []CycleWarning) {
	visited := make(map[string]bool, len(g.nodes))
	inProgress := make(map[string]bool, len(g.nodes))
	var order []string
	var warnings []CycleWarning

	var visit func(node string)
	visit = func(node string) {
		if visited[node] {
			return
		}
		if inProgress[node] {
			warnings = append(warnings, CycleWarning{Table: node})
			return
		}
		inProgress[node] = true
		for _, dep := range g.edges[node] {
			visit(dep)
		}
		inProgress[node] = false
		visited[node] = true
		order = append(order, node)
	}

	for _, node := range g.nodes {
		visit(node)
	}
	return order, warnings
}

// BuildOrdered constructs the graph with nodes in the given order,
// making TopologicalSort's traversal (and therefore its output order
// among independent tables) deterministic.
func BuildOrdered(tables map[string]*core.Table, order []string) *Graph {
	g := Build(tables)
	g.nodes = append([]string(nil), order...)
	return g
}

// Reverse returns order reversed, leaving order untouched. Used to walk
// dependents-before-dependencies during delete/destroy (§4.8, §9).
func Reverse(order []string) []string {
	rev := make([]string, len(order))
	for i, name := range order {
		rev[len(order)-1-i] = name
	}
	return rev
}
