package synth

import (
	"fmt"
	"log/slog"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/LegacyCodeHQ/dynpath/langhost"
	"github.com/LegacyCodeHQ/dynpath/sfc"
	"github.com/LegacyCodeHQ/dynpath/tshost"
)

type synthOptions struct {
	sourceMap bool
	imports   bool
	version   string
}

// NewCommand returns a new synth command instance.
func NewCommand() *cobra.Command {
	opts := &synthOptions{version: "0"}

	cmd := &cobra.Command{
		Use:   "synth <file.vue>",
		Short: "Print the declaration source synthesized for a .vue document",
		Long: `Print the text the host type-checks in place of a .vue document: its script
blocks spliced together and parsed as a declaration-only module.

Examples:
  dynpath synth ACT/shop/cart/components/badge.vue
  dynpath synth --map --imports src/App.vue`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSynth(cmd, afero.NewOsFs(), opts, args[0])
		},
	}

	cmd.Flags().BoolVarP(&opts.sourceMap, "map", "m", false, "Also print the mappings back to the document")
	cmd.Flags().BoolVar(&opts.imports, "imports", false, "Also print the imports found in the synthesized source")

	return cmd
}

func runSynth(cmd *cobra.Command, fs afero.Fs, opts *synthOptions, fileName string) error {
	if !sfc.IsDocument(fileName) {
		return fmt.Errorf("%s is not a %s document", fileName, sfc.Extension)
	}

	content, err := afero.ReadFile(fs, fileName)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", fileName, err)
	}

	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: slog.LevelWarn}))
	factory := langhost.NewSourceFileFactory(logger)
	synthesizer := sfc.NewSynthesizer(factory.Parse,
		sfc.WithSourceMaps(opts.sourceMap),
		sfc.WithLogger(logger),
	)

	sourceFile := synthesizer.Synthesize(fileName, tshost.StringSnapshot(content), opts.version)

	out := cmd.OutOrStdout()
	fmt.Fprint(out, sourceFile.Text)

	if opts.imports {
		fmt.Fprintln(out, "\n// imports")
		for _, specifier := range sourceFile.Imports {
			fmt.Fprintf(out, "// %s\n", specifier)
		}
	}

	if opts.sourceMap && sourceFile.SourceMap != nil {
		fmt.Fprintln(out, "\n// mappings (generated original length)")
		for _, mapping := range sourceFile.SourceMap.Mappings {
			fmt.Fprintf(out, "// %d %d %d\n", mapping.Generated, mapping.Original, mapping.Length)
		}
	}

	return nil
}
