package depgraph

import (
	"github.com/LegacyCodeHQ/dynpath/langhost"
)

// BuildDependencyGraph collects the project imports of every file the program
// reached. External libraries and unresolved imports are left out.
func BuildDependencyGraph(program *langhost.Program) DependencyGraph {
	graph := make(DependencyGraph)
	if program == nil {
		return graph
	}

	for _, fileName := range program.Order {
		file := program.Files[fileName]

		var projectImports []string
		for _, resolution := range file.Resolutions {
			if resolution.Resolved == nil || resolution.Resolved.IsExternalLibraryImport {
				continue
			}
			projectImports = append(projectImports, resolution.Resolved.ResolvedFileName)
		}

		if len(projectImports) > 0 {
			projectImports = deduplicatePaths(projectImports)
		} else {
			projectImports = []string{}
		}
		graph[fileName] = projectImports
	}

	return graph
}

// deduplicatePaths removes duplicate entries while preserving insertion order
func deduplicatePaths(paths []string) []string {
	seen := make(map[string]bool)
	result := make([]string, 0, len(paths))
	for _, p := range paths {
		if !seen[p] {
			seen[p] = true
			result = append(result, p)
		}
	}
	return result
}
