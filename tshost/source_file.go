package tshost

// ScriptTarget is the language level a source file is parsed for.
type ScriptTarget int

const (
	ScriptTargetES5 ScriptTarget = iota + 1
	ScriptTargetES2015
	ScriptTargetES2020
	ScriptTargetESNext
)

// ScriptKind tells the host how to parse a file.
type ScriptKind int

const (
	ScriptKindUnknown ScriptKind = iota
	ScriptKindJS
	ScriptKindJSX
	ScriptKindTS
	ScriptKindTSX
	ScriptKindExternal
	ScriptKindJSON
	// ScriptKindDeferred marks mixed-content files whose parsing is handed to a plugin.
	ScriptKindDeferred
)

// SourceFile is the host's parsed representation of one file.
type SourceFile struct {
	FileName        string
	Text            string
	Version         string
	LanguageVersion ScriptTarget
	ScriptKind      ScriptKind
	// IsDeclarationFile files are type-checked but never emitted.
	IsDeclarationFile bool
	// Imports lists the module specifiers found by the parser, in source order.
	Imports   []string
	SourceMap *SourceMap
}

// SourceMap maps ranges of a generated text back to the document it came from.
type SourceMap struct {
	Source   string    `json:"source"`
	Mappings []Mapping `json:"mappings"`
}

// Mapping says that Length bytes at Generated correspond to the same bytes at Original.
type Mapping struct {
	Generated int `json:"generated"`
	Original  int `json:"original"`
	Length    int `json:"length"`
}

// OriginalOffset translates an offset in the generated text, reporting false
// when the offset falls outside every mapped range.
func (m *SourceMap) OriginalOffset(generated int) (int, bool) {
	if m == nil {
		return 0, false
	}
	for _, mapping := range m.Mappings {
		if generated >= mapping.Generated && generated < mapping.Generated+mapping.Length {
			return mapping.Original + generated - mapping.Generated, true
		}
	}
	return 0, false
}

// TextSpan is a half-open byte range.
type TextSpan struct {
	Start  int
	Length int
}

// TextChangeRange describes an edit between two snapshots.
type TextChangeRange struct {
	Span      TextSpan
	NewLength int
}

// ParseSourceFileFunc is the host's ordinary parser.
type ParseSourceFileFunc func(fileName, text string, target ScriptTarget, setParentNodes bool, kind ScriptKind) *SourceFile

// CreateSourceFileFunc constructs a source file from a snapshot.
type CreateSourceFileFunc func(fileName string, snapshot Snapshot, target ScriptTarget, version string, setParentNodes bool, kind ScriptKind) *SourceFile

// UpdateSourceFileFunc produces the next version of an existing source file.
type UpdateSourceFileFunc func(sourceFile *SourceFile, snapshot Snapshot, version string, change *TextChangeRange, aggressiveChecks bool) *SourceFile

// SourceFileFactory groups the host's source file entry points.
type SourceFileFactory struct {
	Parse  ParseSourceFileFunc
	Create CreateSourceFileFunc
	Update UpdateSourceFileFunc
}
