package graph

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/LegacyCodeHQ/dynpath/depgraph"
	"github.com/LegacyCodeHQ/dynpath/internal/workspace"
)

type graphOptions struct {
	format  string
	between []string
	cycles  bool
}

// NewCommand returns a new graph command instance.
func NewCommand() *cobra.Command {
	opts := &graphOptions{format: "dot"}

	cmd := &cobra.Command{
		Use:   "graph [project-dir]",
		Short: "Print the module graph of a project as seen through the plugin",
		Long: `Walk a project from its root files, resolving every import through the
decorated host, and print the resulting file graph. Alias imports and .vue
documents appear as ordinary edges; unresolved imports are listed on stderr.

Examples:
  dynpath graph                                  # current directory
  dynpath graph -f json ./frontend
  dynpath graph -w ACT/a/b/pages/x.ts,COMMON/ui/api/y.ts
  dynpath graph --cycles`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			return runGraph(cmd, afero.NewOsFs(), opts, dir)
		},
	}

	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "Output format (dot, json, yaml)")
	cmd.Flags().StringSliceVarP(&opts.between, "between", "w", nil, "Only keep files on paths between these files (comma-separated)")
	cmd.Flags().BoolVar(&opts.cycles, "cycles", false, "Print import cycles instead of the graph")

	return cmd
}

func runGraph(cmd *cobra.Command, fs afero.Fs, opts *graphOptions, dir string) error {
	ws, err := workspace.Open(fs, dir, workspace.Options{
		Logger: workspace.StderrLogger(cmd.ErrOrStderr()),
	})
	if err != nil {
		return err
	}

	program := ws.Program(nil)
	graph := depgraph.BuildDependencyGraph(program)

	for _, unresolved := range program.Unresolved() {
		fmt.Fprintf(cmd.ErrOrStderr(), "unresolved: %s imports %q\n", relative(ws.Dir(), unresolved.File), unresolved.Specifier)
	}

	if len(opts.between) > 0 {
		targets := make([]string, 0, len(opts.between))
		for _, target := range opts.between {
			if !filepath.IsAbs(target) {
				target = filepath.Join(ws.Dir(), target)
			}
			targets = append(targets, filepath.ToSlash(target))
		}
		graph, err = depgraph.FindPathNodes(graph, targets)
		if err != nil {
			return fmt.Errorf("failed to find paths: %w", err)
		}
	}

	out := cmd.OutOrStdout()
	if opts.cycles {
		return writeCycles(out, ws.Dir(), graph)
	}

	switch strings.ToLower(opts.format) {
	case "dot":
		return depgraph.WriteDOT(out, graph, ws.Dir())
	case "json", "yaml":
		adjacency, err := depgraph.AdjacencyList(relativeGraph(ws.Dir(), graph))
		if err != nil {
			return err
		}
		if strings.ToLower(opts.format) == "yaml" {
			return yaml.NewEncoder(out).Encode(adjacency)
		}
		data, err := json.MarshalIndent(adjacency, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode JSON: %w", err)
		}
		_, err = fmt.Fprintln(out, string(data))
		return err
	default:
		return fmt.Errorf("unknown format: %s (valid options: dot, json, yaml)", opts.format)
	}
}

func writeCycles(w io.Writer, root string, graph depgraph.DependencyGraph) error {
	cycles, err := depgraph.Cycles(relativeGraph(root, graph))
	if err != nil {
		return err
	}
	if len(cycles) == 0 {
		_, err := fmt.Fprintln(w, "No import cycles found.")
		return err
	}
	for _, cycle := range cycles {
		fmt.Fprintln(w, strings.Join(cycle, " <-> "))
	}
	return nil
}

func relativeGraph(root string, graph depgraph.DependencyGraph) depgraph.DependencyGraph {
	out := make(depgraph.DependencyGraph, len(graph))
	for node, deps := range graph {
		rel := make([]string, 0, len(deps))
		for _, dep := range deps {
			rel = append(rel, relative(root, dep))
		}
		out[relative(root, node)] = rel
	}
	return out
}

func relative(root, name string) string {
	if rel, ok := strings.CutPrefix(name, filepath.ToSlash(root)+"/"); ok {
		return rel
	}
	return name
}
