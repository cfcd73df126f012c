package watch

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/LegacyCodeHQ/dynpath/internal/workspace"
	"github.com/LegacyCodeHQ/dynpath/langhost"
)

// NewCommand returns a new watch command instance.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch [project-dir]",
		Short: "Keep a project resolved and report unresolved imports as files change",
		Long: `Watch a project directory. Every change drops the cached alias resolutions it
could affect, and after a short quiet period the project is walked again and
its unresolved imports are reported.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			return runWatch(cmd, dir)
		},
	}

	return cmd
}

func runWatch(cmd *cobra.Command, dir string) error {
	ws, err := workspace.Open(afero.NewOsFs(), dir, workspace.Options{
		Logger: workspace.StderrLogger(cmd.ErrOrStderr()),
	})
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	out := cmd.OutOrStdout()
	program := ws.Program(nil)
	report(out, program)

	fmt.Fprintf(out, "Watching %s\n", ws.Dir())
	fmt.Fprintf(out, "Press Ctrl+C to stop\n")

	return watchAndRebuild(ctx, ws, program, out)
}

func report(w io.Writer, program *langhost.Program) {
	unresolved := program.Unresolved()
	fmt.Fprintf(w, "%d files, %d unresolved imports\n", len(program.Order), len(unresolved))
	for _, u := range unresolved {
		fmt.Fprintf(w, "  %s: %q\n", u.File, u.Specifier)
	}
}
