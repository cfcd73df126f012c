// Package aliaspath compiles the alias configuration into the two matchers the
// resolver relies on: one that finds where the stable subtree starts inside a
// containing file's path, and one that recognizes alias specifiers.
package aliaspath

import (
	"regexp"
	"strings"
)

// AliasMarker prefixes every specifier that points into the alias tree.
const AliasMarker = "@/"

// segment matches exactly one path segment.
const segment = "/[^/]+"

// RootSpec names a top-level directory followed by Depth variable segments
// (tenant, project, ...) that precede the conventional subtree.
type RootSpec struct {
	Name  string `mapstructure:"name" json:"name" yaml:"name"`
	Depth int    `mapstructure:"depth" json:"depth" yaml:"depth"`
}

// Filters is the compiled, immutable form of a roots/folders configuration.
// The zero value is disabled.
type Filters struct {
	file    *regexp.Regexp
	imports *regexp.Regexp
}

// Compile builds Filters for roots and folders. Empty input is not an error:
// it yields Filters whose Enabled reports false.
func Compile(roots []RootSpec, folders []string) Filters {
	var rootPatterns []string
	for _, root := range roots {
		if root.Name == "" {
			continue
		}
		rootPatterns = append(rootPatterns, regexp.QuoteMeta(root.Name)+strings.Repeat(segment, max(root.Depth, 0)))
	}

	var folderPatterns []string
	for _, folder := range folders {
		if folder == "" {
			continue
		}
		folderPatterns = append(folderPatterns, regexp.QuoteMeta(folder))
	}

	if len(rootPatterns) == 0 || len(folderPatterns) == 0 {
		return Filters{}
	}

	return Filters{
		file:    regexp.MustCompile("/(?:" + strings.Join(rootPatterns, "|") + ")/"),
		imports: regexp.MustCompile("^" + regexp.QuoteMeta(AliasMarker) + "(?:" + strings.Join(folderPatterns, "|") + ")(?:/|$)"),
	}
}

// Enabled reports whether alias resolution can run with these filters.
func (f Filters) Enabled() bool {
	return f.file != nil && f.imports != nil
}

// FileBoundary returns the offset in path just past the last root match, that
// is where the stable subtree begins. Matches do not overlap: a segment consumed
// by one root match cannot start another, but the trailing separator can.
func (f Filters) FileBoundary(path string) (int, bool) {
	if f.file == nil {
		return 0, false
	}

	boundary, found := 0, false
	for start := 0; start < len(path); {
		loc := f.file.FindStringIndex(path[start:])
		if loc == nil {
			break
		}
		boundary, found = start+loc[1], true
		start += max(loc[1]-1, loc[0]+1)
	}
	return boundary, found
}

// MatchFile reports whether containingFile lies under one of the roots.
func (f Filters) MatchFile(containingFile string) bool {
	return f.file != nil && f.file.MatchString(containingFile)
}

// MatchImport reports whether specifier is an alias into an allowed folder.
func (f Filters) MatchImport(specifier string) bool {
	return f.imports != nil && f.imports.MatchString(specifier)
}

// FilePattern exposes the compiled containing-file expression for diagnostics.
func (f Filters) FilePattern() string {
	if f.file == nil {
		return ""
	}
	return f.file.String()
}

// ImportPattern exposes the compiled specifier expression for diagnostics.
func (f Filters) ImportPattern() string {
	if f.imports == nil {
		return ""
	}
	return f.imports.String()
}
