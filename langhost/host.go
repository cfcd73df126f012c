// Package langhost is a small in-process language service host. It resolves
// and parses plain TypeScript on its own and leaves aliases and documents to
// whatever plugin decorates it.
package langhost

import (
	"log/slog"
	"path"
	"strconv"
	"strings"
	"sync"

	"github.com/LegacyCodeHQ/dynpath/tshost"
)

// Project is a configured project rooted at its config file.
type Project struct {
	configFile string
	system     tshost.System
	files      []string
}

// NewProject returns a project whose name is configFile and whose root files are files.
func NewProject(configFile string, system tshost.System, files []string) *Project {
	return &Project{
		configFile: configFile,
		system:     system,
		files:      append([]string(nil), files...),
	}
}

func (p *Project) ProjectName() string {
	return p.configFile
}

func (p *Project) CurrentDirectory() string {
	return path.Dir(p.configFile)
}

func (p *Project) ScriptFileNames() []string {
	return append([]string(nil), p.files...)
}

func (p *Project) FileExists(fileName string) bool {
	return p.system.FileExists(fileName)
}

// Versions hands out script versions. A file's version changes every time it
// is touched, the way an editor bumps it on each edit.
type Versions struct {
	mu       sync.Mutex
	versions map[string]int
}

// NewVersions returns an empty version table.
func NewVersions() *Versions {
	return &Versions{versions: make(map[string]int)}
}

// Get returns the current version of fileName.
func (v *Versions) Get(fileName string) string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return strconv.Itoa(v.versions[fileName])
}

// Touch bumps the version of fileName.
func (v *Versions) Touch(fileName string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.versions[fileName]++
}

// NewHost returns the undecorated host callbacks for project.
func NewHost(system tshost.System, project tshost.Project, versions *Versions) *tshost.LanguageServiceHost {
	resolver := NewResolver(system)
	if versions == nil {
		versions = NewVersions()
	}

	return &tshost.LanguageServiceHost{
		ResolveModuleNames: resolver.ResolveModuleNames,
		GetScriptKind:      ScriptKindOf,
		GetScriptFileNames: project.ScriptFileNames,
		GetScriptSnapshot: func(fileName string) tshost.Snapshot {
			text, ok := system.ReadFile(fileName)
			if !ok {
				return nil
			}
			return tshost.StringSnapshot(text)
		},
		GetScriptVersion: versions.Get,
	}
}

// ScriptKindOf infers a script kind from a file name.
func ScriptKindOf(fileName string) tshost.ScriptKind {
	switch {
	case strings.HasSuffix(fileName, ".tsx"):
		return tshost.ScriptKindTSX
	case strings.HasSuffix(fileName, ".ts"), strings.HasSuffix(fileName, ".mts"), strings.HasSuffix(fileName, ".cts"):
		return tshost.ScriptKindTS
	case strings.HasSuffix(fileName, ".jsx"):
		return tshost.ScriptKindJSX
	case strings.HasSuffix(fileName, ".js"), strings.HasSuffix(fileName, ".mjs"), strings.HasSuffix(fileName, ".cjs"):
		return tshost.ScriptKindJS
	case strings.HasSuffix(fileName, ".json"):
		return tshost.ScriptKindJSON
	default:
		return tshost.ScriptKindUnknown
	}
}

// NewSourceFileFactory returns the host's ordinary parse, create and update
// functions. Parse failures are logged and yield a file with no imports.
func NewSourceFileFactory(logger *slog.Logger) tshost.SourceFileFactory {
	if logger == nil {
		logger = slog.Default()
	}

	parse := func(fileName, text string, target tshost.ScriptTarget, _ bool, kind tshost.ScriptKind) *tshost.SourceFile {
		if kind == tshost.ScriptKindUnknown {
			kind = ScriptKindOf(fileName)
		}
		sourceFile := &tshost.SourceFile{
			FileName:          fileName,
			Text:              text,
			LanguageVersion:   target,
			ScriptKind:        kind,
			IsDeclarationFile: strings.HasSuffix(fileName, string(tshost.ExtensionDTS)),
		}
		if kind == tshost.ScriptKindJSON || text == "" {
			return sourceFile
		}

		imports, err := ParseImports([]byte(text), kind)
		if err != nil {
			logger.Warn("failed to parse imports", "file", fileName, "error", err)
			return sourceFile
		}
		sourceFile.Imports = Specifiers(imports)
		return sourceFile
	}

	create := func(fileName string, snapshot tshost.Snapshot, target tshost.ScriptTarget, version string, setParentNodes bool, kind tshost.ScriptKind) *tshost.SourceFile {
		sourceFile := parse(fileName, tshost.FullText(snapshot), target, setParentNodes, kind)
		sourceFile.Version = version
		return sourceFile
	}

	update := func(sourceFile *tshost.SourceFile, snapshot tshost.Snapshot, version string, _ *tshost.TextChangeRange, _ bool) *tshost.SourceFile {
		return create(sourceFile.FileName, snapshot, sourceFile.LanguageVersion, version, true, sourceFile.ScriptKind)
	}

	return tshost.SourceFileFactory{Parse: parse, Create: create, Update: update}
}
