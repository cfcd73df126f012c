package depgraph

import (
	"sort"
	"testing"
)

func TestFindPathNodes_Linear(t *testing.T) {
	// main → cart → api
	graph := DependencyGraph{
		"main.ts": {"cart.ts"},
		"cart.ts": {"api.ts"},
		"api.ts":  {},
	}

	result := mustFindPathNodes(t, graph, []string{"main.ts", "api.ts"})

	assertGraphContainsNodes(t, result, []string{"api.ts", "cart.ts", "main.ts"})
}

func TestFindPathNodes_AllPathsNotJustShortest(t *testing.T) {
	// main → cart → api, main → badge.vue → store → api
	graph := DependencyGraph{
		"main.ts":   {"cart.ts", "badge.vue"},
		"cart.ts":   {"api.ts"},
		"badge.vue": {"store.ts"},
		"store.ts":  {"api.ts"},
		"api.ts":    {},
		"unused.ts": {"api.ts"},
	}

	result := mustFindPathNodes(t, graph, []string{"api.ts", "main.ts"})

	assertGraphContainsNodes(t, result, []string{"api.ts", "badge.vue", "cart.ts", "main.ts", "store.ts"})
	if deps := result["main.ts"]; len(deps) != 2 {
		t.Fatalf("main.ts deps = %v, want both edges kept", deps)
	}
}

func TestFindPathNodes_Disconnected(t *testing.T) {
	graph := DependencyGraph{
		"a.ts": {"b.ts"},
		"b.ts": {},
		"c.ts": {"d.ts"},
		"d.ts": {},
	}

	result := mustFindPathNodes(t, graph, []string{"a.ts", "c.ts"})

	assertGraphContainsNodes(t, result, []string{"a.ts", "c.ts"})
	if len(result["a.ts"]) != 0 {
		t.Fatalf("a.ts deps = %v, want none", result["a.ts"])
	}
}

func TestFindPathNodes_SkipsUnknownTargets(t *testing.T) {
	graph := DependencyGraph{
		"a.ts": {"b.ts"},
		"b.ts": {},
	}

	result := mustFindPathNodes(t, graph, []string{"a.ts", "missing.ts"})

	assertGraphContainsNodes(t, result, []string{"a.ts"})
}

func TestFindPathNodes_Cycle(t *testing.T) {
	graph := DependencyGraph{
		"a.ts": {"b.ts"},
		"b.ts": {"c.ts"},
		"c.ts": {"a.ts"},
	}

	result := mustFindPathNodes(t, graph, []string{"a.ts", "b.ts"})

	assertGraphContainsNodes(t, result, []string{"a.ts", "b.ts", "c.ts"})
}

func mustFindPathNodes(t *testing.T, graph DependencyGraph, targets []string) DependencyGraph {
	t.Helper()
	result, err := FindPathNodes(graph, targets)
	if err != nil {
		t.Fatalf("FindPathNodes() error = %v", err)
	}
	return result
}

func assertGraphContainsNodes(t *testing.T, graph DependencyGraph, expected []string) {
	t.Helper()

	var actual []string
	for node := range graph {
		actual = append(actual, node)
	}
	sort.Strings(actual)
	sort.Strings(expected)

	if len(actual) != len(expected) {
		t.Fatalf("graph has nodes %v, want %v", actual, expected)
	}
	for i := range actual {
		if actual[i] != expected[i] {
			t.Fatalf("graph has nodes %v, want %v", actual, expected)
		}
	}
}
