package resolve

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/LegacyCodeHQ/dynpath/internal/workspace"
)

type resolveOptions struct {
	projectDir string
	format     string
}

// NewCommand returns a new resolve command instance.
func NewCommand() *cobra.Command {
	opts := &resolveOptions{format: OutputFormatText.String()}

	cmd := &cobra.Command{
		Use:   "resolve <containing-file> <specifier>...",
		Short: "Resolve module specifiers the way the decorated host would",
		Long: `Resolve one or more module specifiers as imports of containing-file and
report what the plugin decided for each: pass-through, suppress, alias or
relative-document.

Examples:
  dynpath resolve ACT/shop/cart/pages/main.ts @/api/client
  dynpath resolve -f json src/view.ts ./widget.vue react`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResolve(cmd, opts, args[0], args[1:])
		},
	}

	cmd.Flags().StringVarP(&opts.projectDir, "project", "p", "", "Directory to look for tsconfig.json from (default: the containing file's directory)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, fmt.Sprintf("Output format (%s)", SupportedFormats()))

	return cmd
}

func runResolve(cmd *cobra.Command, opts *resolveOptions, containingFile string, specifiers []string) error {
	format, ok := ParseOutputFormat(opts.format)
	if !ok {
		return fmt.Errorf("unknown format: %s (valid options: %s)", opts.format, SupportedFormats())
	}

	absFile, err := filepath.Abs(containingFile)
	if err != nil {
		return fmt.Errorf("failed to resolve path %s: %w", containingFile, err)
	}
	absFile = filepath.ToSlash(absFile)

	projectDir := opts.projectDir
	if projectDir == "" {
		projectDir = filepath.Dir(absFile)
	}

	ws, err := workspace.Open(afero.NewOsFs(), projectDir, workspace.Options{
		Logger: workspace.StderrLogger(cmd.ErrOrStderr()),
	})
	if err != nil {
		return err
	}

	return writeReport(cmd.OutOrStdout(), format, report{
		ContainingFile: absFile,
		Project:        ws.ConfigFile,
		Resolutions:    ws.Session.Trace(specifiers, absFile),
	})
}
