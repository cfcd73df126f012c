package tshost

// Project is one analyzed project as seen by a plugin.
type Project interface {
	// ProjectName is the config file path for configured projects.
	ProjectName() string
	CurrentDirectory() string
	ScriptFileNames() []string
	FileExists(path string) bool
}

// Logger is the host's diagnostic sink.
type Logger interface {
	Info(message string)
}

// LoggerFunc adapts a plain function to Logger.
type LoggerFunc func(message string)

func (f LoggerFunc) Info(message string) {
	f(message)
}

// FileExtensionInfo registers a non-native extension with the host's config parser.
type FileExtensionInfo struct {
	Extension      string
	IsMixedContent bool
	ScriptKind     ScriptKind
}

// ParsedCommandLine is the result of reading a project's config file.
type ParsedCommandLine struct {
	FileNames []string
	// Plugins holds the raw payload of each configured plugin, keyed by name.
	Plugins map[string]map[string]any
}

// CommandLineParser reads a project config, including files with extra extensions.
type CommandLineParser interface {
	ParseCommandLine(configFile string, extra []FileExtensionInfo) (*ParsedCommandLine, error)
}

// LanguageServiceHost is the set of host callbacks a plugin may decorate.
// Decorators return a modified copy; the original value is never mutated.
type LanguageServiceHost struct {
	ResolveModuleNames ResolveModuleNamesFunc
	GetScriptKind      func(fileName string) ScriptKind
	GetScriptFileNames func() []string
	GetScriptSnapshot  func(fileName string) Snapshot
	GetScriptVersion   func(fileName string) string
}

// Clone returns a shallow copy suitable for decoration.
func (h *LanguageServiceHost) Clone() *LanguageServiceHost {
	if h == nil {
		return &LanguageServiceHost{}
	}
	clone := *h
	return &clone
}
