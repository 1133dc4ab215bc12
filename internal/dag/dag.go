// Package dag provides directed acyclic graph operations for check prerequisites.
// It supports cycle detection, topological sorting, and transitive closures in
// both directions.
package dag

import (
	"fmt"
	"sort"
)

// Graph represents a directed acyclic graph of check names.
// An edge runs from a prerequisite to each check that requires it.
type Graph struct {
	nodes      map[string]bool
	dependents map[string][]string // prerequisite -> checks requiring it
	prereqs    map[string][]string // check -> its prerequisites
}

// NewGraph creates a new empty graph.
func NewGraph() *Graph {
	return &Graph{
		nodes:      make(map[string]bool),
		dependents: make(map[string][]string),
		prereqs:    make(map[string][]string),
	}
}

// AddNode adds a node to the graph. Adding an existing node is a no-op.
func (g *Graph) AddNode(id string) {
	if !g.nodes[id] {
		g.nodes[id] = true
		g.dependents[id] = []string{}
		g.prereqs[id] = []string{}
	}
}

// AddEdge records that dependent requires prereq.
func (g *Graph) AddEdge(prereq, dependent string) error {
	if !g.nodes[prereq] {
		return fmt.Errorf("prerequisite node %q does not exist", prereq)
	}
	if !g.nodes[dependent] {
		return fmt.Errorf("dependent node %q does not exist", dependent)
	}
	if prereq == dependent {
		return fmt.Errorf("self-loop detected: %s", prereq)
	}

	if !contains(g.dependents[prereq], dependent) {
		g.dependents[prereq] = append(g.dependents[prereq], dependent)
	}
	if !contains(g.prereqs[dependent], prereq) {
		g.prereqs[dependent] = append(g.prereqs[dependent], prereq)
	}

	return nil
}

// Has reports whether the graph contains the given node.
func (g *Graph) Has(id string) bool {
	return g.nodes[id]
}

// GetPrereqs returns the direct prerequisites of a node.
func (g *Graph) GetPrereqs(id string) []string {
	return g.prereqs[id]
}

// GetDependents returns the nodes directly requiring the given node.
func (g *Graph) GetDependents(id string) []string {
	return g.dependents[id]
}

// NodeCount returns the number of nodes in the graph.
func (g *Graph) NodeCount() int {
	return len(g.nodes)
}

// EdgeCount returns the number of edges in the graph.
func (g *Graph) EdgeCount() int {
	count := 0
	for _, deps := range g.dependents {
		count += len(deps)
	}
	return count
}

// HasCycle returns true if the graph contains a cycle, along with the cycle path.
func (g *Graph) HasCycle() (bool, []string) {
	visited := make(map[string]bool)
	recStack := make(map[string]bool)
	path := make(map[string]string)

	var cyclePath []string

	var dfs func(id string) bool
	dfs = func(id string) bool {
		visited[id] = true
		recStack[id] = true

		for _, next := range g.dependents[id] {
			if !visited[next] {
				path[next] = id
				if dfs(next) {
					return true
				}
			} else if recStack[next] {
				// Found cycle, reconstruct path
				cyclePath = []string{next}
				for curr := id; curr != next; curr = path[curr] {
					cyclePath = append([]string{curr}, cyclePath...)
				}
				cyclePath = append([]string{next}, cyclePath...)
				return true
			}
		}

		recStack[id] = false
		return false
	}

	for id := range g.nodes {
		if !visited[id] {
			if dfs(id) {
				return true, cyclePath
			}
		}
	}

	return false, nil
}

// TopologicalSort returns node IDs in topological order, every prerequisite
// strictly before every node that requires it. Returns an error if the graph
// contains a cycle. Output is deterministic.
func (g *Graph) TopologicalSort() ([]string, error) {
	if hasCycle, cyclePath := g.HasCycle(); hasCycle {
		return nil, fmt.Errorf("cycle detected: %v", cyclePath)
	}

	visited := make(map[string]bool)
	var result []string

	var visit func(id string)
	visit = func(id string) {
		if visited[id] {
			return
		}
		visited[id] = true

		// Visit all prerequisites first
		for _, prereq := range g.prereqs[id] {
			visit(prereq)
		}

		result = append(result, id)
	}

	// Sort node IDs first for deterministic order
	ids := make([]string, 0, len(g.nodes))
	for id := range g.nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		visit(id)
	}

	return result, nil
}

// Prerequisites returns the transitive closure of a node's prerequisites.
func (g *Graph) Prerequisites(id string) []string {
	closure := make(map[string]bool)

	var walk func(nodeID string)
	walk = func(nodeID string) {
		for _, prereq := range g.prereqs[nodeID] {
			if !closure[prereq] {
				closure[prereq] = true
				walk(prereq)
			}
		}
	}

	walk(id)

	result := make([]string, 0, len(closure))
	for nodeID := range closure {
		result = append(result, nodeID)
	}
	sort.Strings(result)
	return result
}

// Dependents returns the transitive closure of the nodes requiring the given
// node, directly or through other nodes.
func (g *Graph) Dependents(id string) []string {
	closure := make(map[string]bool)

	var walk func(nodeID string)
	walk = func(nodeID string) {
		for _, dep := range g.dependents[nodeID] {
			if !closure[dep] {
				closure[dep] = true
				walk(dep)
			}
		}
	}

	walk(id)

	result := make([]string, 0, len(closure))
	for nodeID := range closure {
		result = append(result, nodeID)
	}
	sort.Strings(result)
	return result
}

// contains checks if a slice contains a string.
func contains(slice []string, str string) bool {
	for _, s := range slice {
		if s == str {
			return true
		}
	}
	return false
}
