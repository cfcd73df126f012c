package tshost

// Extension is a plain-source extension the host understands natively.
type Extension string

const (
	ExtensionTS  Extension = ".ts"
	ExtensionTSX Extension = ".tsx"
	ExtensionDTS Extension = ".d.ts"
	ExtensionJS  Extension = ".js"
	ExtensionJSX Extension = ".jsx"
)

// ResolvedModule is the record returned to the host for a resolved import.
// A nil *ResolvedModule means the import is unresolved.
type ResolvedModule struct {
	ResolvedFileName        string    `json:"resolvedFileName" yaml:"resolvedFileName"`
	IsExternalLibraryImport bool      `json:"isExternalLibraryImport" yaml:"isExternalLibraryImport"`
	Extension               Extension `json:"extension,omitempty" yaml:"extension,omitempty"`
}

// ResolutionOptions carries the trailing arguments of a batch resolution call.
// The plugin passes them through to the wrapped function untouched.
type ResolutionOptions struct {
	ReusedNames         []string
	RedirectedReference string
	CompilerOptions     map[string]any
}

// ResolveModuleNamesFunc resolves a batch of specifiers found in containingFile.
// The returned slice is positionally aligned with moduleNames.
type ResolveModuleNamesFunc func(moduleNames []string, containingFile string, opts *ResolutionOptions) []*ResolvedModule
