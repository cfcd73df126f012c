package depgraph

import (
	graphlib "github.com/dominikbraun/graph"
)

// FindPathNodes returns the subgraph of nodes lying on any directed path
// between two of targetFiles, in either direction. Targets missing from the
// graph are skipped.
func FindPathNodes(graph DependencyGraph, targetFiles []string) (DependencyGraph, error) {
	var validTargets []string
	for _, f := range targetFiles {
		if _, ok := graph[f]; ok {
			validTargets = append(validTargets, f)
		}
	}

	nodesToKeep := make(map[string]bool)
	for _, f := range validTargets {
		nodesToKeep[f] = true
	}
	if len(validTargets) < 2 {
		return extractSubgraph(graph, nodesToKeep), nil
	}

	forward, err := ToGraph(graph, "")
	if err != nil {
		return nil, err
	}
	reverse, err := ToGraph(reversed(graph), "")
	if err != nil {
		return nil, err
	}

	reachableFrom := make(map[string]map[string]bool, len(validTargets))
	reaching := make(map[string]map[string]bool, len(validTargets))
	for _, target := range validTargets {
		if reachableFrom[target], err = reachable(forward, target); err != nil {
			return nil, err
		}
		if reaching[target], err = reachable(reverse, target); err != nil {
			return nil, err
		}
	}

	for _, source := range validTargets {
		for _, target := range validTargets {
			if source == target {
				continue
			}
			for node := range reachableFrom[source] {
				if reaching[target][node] {
					nodesToKeep[node] = true
				}
			}
		}
	}

	return extractSubgraph(graph, nodesToKeep), nil
}

func reversed(graph DependencyGraph) DependencyGraph {
	out := make(DependencyGraph, len(graph))
	for node, deps := range graph {
		if _, ok := out[node]; !ok {
			out[node] = []string{}
		}
		for _, dep := range deps {
			out[dep] = append(out[dep], node)
		}
	}
	return out
}

func reachable(g graphlib.Graph[string, string], source string) (map[string]bool, error) {
	seen := make(map[string]bool)
	err := graphlib.BFS(g, source, func(node string) bool {
		seen[node] = true
		return false
	})
	return seen, err
}

// extractSubgraph keeps the given nodes and the edges between them.
func extractSubgraph(original DependencyGraph, nodesToKeep map[string]bool) DependencyGraph {
	result := make(DependencyGraph)

	for node := range nodesToKeep {
		filteredDeps := []string{}
		for _, dep := range original[node] {
			if nodesToKeep[dep] {
				filteredDeps = append(filteredDeps, dep)
			}
		}
		result[node] = filteredDeps
	}

	return result
}
