package resolve

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"github.com/LegacyCodeHQ/dynpath/plugin"
)

// OutputFormat represents an output format type
type OutputFormat string

const (
	OutputFormatText OutputFormat = "text"
	OutputFormatJSON OutputFormat = "json"
	OutputFormatYAML OutputFormat = "yaml"
)

func (f OutputFormat) String() string {
	return string(f)
}

// ParseOutputFormat accepts a format name case-insensitively.
func ParseOutputFormat(name string) (OutputFormat, bool) {
	switch f := OutputFormat(strings.ToLower(strings.TrimSpace(name))); f {
	case OutputFormatText, OutputFormatJSON, OutputFormatYAML:
		return f, true
	default:
		return "", false
	}
}

// SupportedFormats lists the accepted format names.
func SupportedFormats() string {
	return strings.Join([]string{OutputFormatText.String(), OutputFormatJSON.String(), OutputFormatYAML.String()}, ", ")
}

type report struct {
	ContainingFile string         `json:"containingFile" yaml:"containingFile"`
	Project        string         `json:"project" yaml:"project"`
	Resolutions    []plugin.Trace `json:"resolutions" yaml:"resolutions"`
}

func writeReport(w io.Writer, format OutputFormat, r report) error {
	switch format {
	case OutputFormatJSON:
		data, err := json.MarshalIndent(r, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode JSON: %w", err)
		}
		_, err = fmt.Fprintln(w, string(data))
		return err

	case OutputFormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(r); err != nil {
			return fmt.Errorf("failed to encode YAML: %w", err)
		}
		return enc.Close()

	default:
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		for _, trace := range r.Resolutions {
			resolved := "-"
			if trace.Result != nil {
				resolved = trace.Result.ResolvedFileName
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\n", trace.Specifier, trace.Decision, resolved)
		}
		return tw.Flush()
	}
}
