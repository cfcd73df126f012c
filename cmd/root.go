package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/LegacyCodeHQ/dynpath/cmd/graph"
	"github.com/LegacyCodeHQ/dynpath/cmd/resolve"
	"github.com/LegacyCodeHQ/dynpath/cmd/synth"
	"github.com/LegacyCodeHQ/dynpath/cmd/watch"
	"github.com/LegacyCodeHQ/dynpath/internal/workspace"
)

// version is set via build-time ldflags
var version = "dev"

// buildDate is set via build-time ldflags
var buildDate = "unknown"

// commit is set via build-time ldflags
var commit = "unknown"

// NewRootCommand returns the dynpath command tree.
func NewRootCommand() *cobra.Command {
	var logLevel string

	root := &cobra.Command{
		Use:   "dynpath",
		Short: "Inspect alias resolution and .vue handling in TypeScript projects",
		Long: `dynpath runs the alias resolution plugin against a project on disk so its
decisions can be inspected outside the editor.

Specifiers of the form @/<folder>/... are resolved inside the subtree rooted
at the configured root directories, .vue documents are turned into
declaration-only modules, and selected conflicting declarations are hidden.

Settings are read from the dynpath entry of compilerOptions.plugins in the
nearest tsconfig.json. A .env file in the working directory is loaded first;
set DYNPATH_LOG_LEVEL to see the plugin's own log lines on stderr.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return loadEnvironment(logLevel)
		},
	}

	root.Annotations = map[string]string{
		"buildDate": buildDate,
		"commit":    commit,
	}
	root.SetVersionTemplate(`{{with .Name}}{{printf "%s " .}}{{end}}{{printf "version %s" .Version}}
Build date: {{printf "%s" (index .Annotations "buildDate")}}
Commit: {{printf "%s" (index .Annotations "commit")}}
`)

	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "Plugin log level (debug, info, warn, error); overrides "+workspace.LogLevelEnv)

	root.AddCommand(resolve.NewCommand())
	root.AddCommand(synth.NewCommand())
	root.AddCommand(graph.NewCommand())
	root.AddCommand(watch.NewCommand())

	return root
}

func loadEnvironment(logLevel string) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load .env: %w", err)
	}
	if logLevel != "" {
		if err := os.Setenv(workspace.LogLevelEnv, logLevel); err != nil {
			return fmt.Errorf("failed to set log level: %w", err)
		}
	}
	return nil
}

// Execute runs the root command. This is called by main.main().
func Execute() {
	root := NewRootCommand()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(root.ErrOrStderr(), "Error:", err)
		os.Exit(1)
	}
}
