package langhost

import (
	"sort"

	"github.com/LegacyCodeHQ/dynpath/tshost"
)

// Resolution is the outcome of resolving one import of a file.
type Resolution struct {
	Specifier string                 `json:"specifier" yaml:"specifier"`
	Resolved  *tshost.ResolvedModule `json:"resolved,omitempty" yaml:"resolved,omitempty"`
}

// File is one source file reached by a Program.
type File struct {
	Source      *tshost.SourceFile
	Resolutions []Resolution
}

// Unresolved names an import the host could not resolve.
type Unresolved struct {
	File      string `json:"file" yaml:"file"`
	Specifier string `json:"specifier" yaml:"specifier"`
}

// Program is the closure of a project's root files under import resolution.
// Imports of external libraries are recorded but not followed.
type Program struct {
	Files map[string]*File
	// Order lists file names in the order they were reached.
	Order []string
	// Missing lists files that were referenced but had no snapshot.
	Missing []string
}

// NewProgram walks host from its script file names. When previous is not nil,
// its source files are reused if their version is unchanged and updated
// otherwise.
func NewProgram(host *tshost.LanguageServiceHost, factory tshost.SourceFileFactory, previous *Program) *Program {
	program := &Program{Files: make(map[string]*File)}
	if host == nil || host.GetScriptFileNames == nil {
		return program
	}

	queued := make(map[string]bool)
	var queue []string
	enqueue := func(fileName string) {
		if queued[fileName] {
			return
		}
		queued[fileName] = true
		queue = append(queue, fileName)
	}

	for _, fileName := range host.GetScriptFileNames() {
		enqueue(fileName)
	}

	for len(queue) > 0 {
		fileName := queue[0]
		queue = queue[1:]

		sourceFile := program.sourceFile(host, factory, previous, fileName)
		if sourceFile == nil {
			program.Missing = append(program.Missing, fileName)
			continue
		}

		file := &File{Source: sourceFile}
		if len(sourceFile.Imports) > 0 && host.ResolveModuleNames != nil {
			resolved := host.ResolveModuleNames(sourceFile.Imports, fileName, nil)
			for i, specifier := range sourceFile.Imports {
				var module *tshost.ResolvedModule
				if i < len(resolved) {
					module = resolved[i]
				}
				file.Resolutions = append(file.Resolutions, Resolution{Specifier: specifier, Resolved: module})
				if module != nil && !module.IsExternalLibraryImport {
					enqueue(module.ResolvedFileName)
				}
			}
		}

		program.Files[fileName] = file
		program.Order = append(program.Order, fileName)
	}

	return program
}

func (p *Program) sourceFile(host *tshost.LanguageServiceHost, factory tshost.SourceFileFactory, previous *Program, fileName string) *tshost.SourceFile {
	if host.GetScriptSnapshot == nil {
		return nil
	}
	snapshot := host.GetScriptSnapshot(fileName)
	if snapshot == nil {
		return nil
	}

	version := ""
	if host.GetScriptVersion != nil {
		version = host.GetScriptVersion(fileName)
	}

	if previous != nil {
		if old, ok := previous.Files[fileName]; ok {
			if old.Source.Version == version {
				return old.Source
			}
			if factory.Update != nil {
				return factory.Update(old.Source, snapshot, version, nil, false)
			}
		}
	}

	kind := tshost.ScriptKindUnknown
	if host.GetScriptKind != nil {
		kind = host.GetScriptKind(fileName)
	}
	if factory.Create == nil {
		return nil
	}
	return factory.Create(fileName, snapshot, tshost.ScriptTargetESNext, version, true, kind)
}

// Unresolved lists every import that resolved to nothing, sorted by file.
func (p *Program) Unresolved() []Unresolved {
	var unresolved []Unresolved
	for _, fileName := range p.sortedFiles() {
		for _, resolution := range p.Files[fileName].Resolutions {
			if resolution.Resolved == nil {
				unresolved = append(unresolved, Unresolved{File: fileName, Specifier: resolution.Specifier})
			}
		}
	}
	return unresolved
}

func (p *Program) sortedFiles() []string {
	names := make([]string, 0, len(p.Files))
	for name := range p.Files {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
