// Package depgraph turns a resolved program into a file dependency graph.
package depgraph

import (
	"errors"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"

	graphlib "github.com/dominikbraun/graph"
	"github.com/dominikbraun/graph/draw"
)

// DependencyGraph maps each file to the project files it imports.
type DependencyGraph map[string][]string

// Nodes returns every file in the graph, including files that only appear as
// dependencies, sorted.
func (g DependencyGraph) Nodes() []string {
	seen := make(map[string]bool, len(g))
	for node, deps := range g {
		seen[node] = true
		for _, dep := range deps {
			seen[dep] = true
		}
	}

	nodes := make([]string, 0, len(seen))
	for node := range seen {
		nodes = append(nodes, node)
	}
	sort.Strings(nodes)
	return nodes
}

// ToGraph builds a directed graph with one vertex per file. Vertices are
// labeled relative to root when root is not empty.
func ToGraph(g DependencyGraph, root string) (graphlib.Graph[string, string], error) {
	out := graphlib.New(graphlib.StringHash, graphlib.Directed())

	for _, node := range g.Nodes() {
		if err := out.AddVertex(node, graphlib.VertexAttribute("label", label(node, root))); err != nil && !errors.Is(err, graphlib.ErrVertexAlreadyExists) {
			return nil, fmt.Errorf("failed to add vertex %s: %w", node, err)
		}
	}

	for _, node := range g.Nodes() {
		for _, dep := range g[node] {
			if err := out.AddEdge(node, dep); err != nil && !errors.Is(err, graphlib.ErrEdgeAlreadyExists) {
				return nil, fmt.Errorf("failed to add edge %s -> %s: %w", node, dep, err)
			}
		}
	}

	return out, nil
}

// AdjacencyList returns each file's dependencies sorted, with every file present as a key.
func AdjacencyList(g DependencyGraph) (map[string][]string, error) {
	out, err := ToGraph(g, "")
	if err != nil {
		return nil, err
	}
	adjacency, err := out.AdjacencyMap()
	if err != nil {
		return nil, fmt.Errorf("failed to read adjacency map: %w", err)
	}

	list := make(map[string][]string, len(adjacency))
	for node, edges := range adjacency {
		deps := make([]string, 0, len(edges))
		for dep := range edges {
			deps = append(deps, dep)
		}
		sort.Strings(deps)
		list[node] = deps
	}
	return list, nil
}

// Cycles returns the import cycles in g, each sorted, ordered by first file.
func Cycles(g DependencyGraph) ([][]string, error) {
	out, err := ToGraph(g, "")
	if err != nil {
		return nil, err
	}
	components, err := graphlib.StronglyConnectedComponents(out)
	if err != nil {
		return nil, fmt.Errorf("failed to find cycles: %w", err)
	}

	var cycles [][]string
	for _, component := range components {
		if len(component) < 2 && !selfImport(g, component) {
			continue
		}
		sort.Strings(component)
		cycles = append(cycles, component)
	}
	sort.Slice(cycles, func(i, j int) bool {
		return cycles[i][0] < cycles[j][0]
	})
	return cycles, nil
}

func selfImport(g DependencyGraph, component []string) bool {
	if len(component) != 1 {
		return false
	}
	for _, dep := range g[component[0]] {
		if dep == component[0] {
			return true
		}
	}
	return false
}

// WriteDOT renders g in Graphviz DOT format.
func WriteDOT(w io.Writer, g DependencyGraph, root string) error {
	out, err := ToGraph(g, root)
	if err != nil {
		return err
	}
	if err := draw.DOT(out, w); err != nil {
		return fmt.Errorf("failed to render DOT: %w", err)
	}
	return nil
}

func label(node, root string) string {
	if root == "" {
		return node
	}
	prefix := strings.TrimSuffix(root, "/") + "/"
	if rel, ok := strings.CutPrefix(node, prefix); ok {
		return rel
	}
	return path.Base(node)
}
