// Package workspace assembles a harness host, its project and a plugin
// session for a directory on disk.
package workspace

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/LegacyCodeHQ/dynpath/internal/hostlog"
	"github.com/LegacyCodeHQ/dynpath/langhost"
	"github.com/LegacyCodeHQ/dynpath/langhost/tsconfig"
	"github.com/LegacyCodeHQ/dynpath/plugin"
	"github.com/LegacyCodeHQ/dynpath/tshost"
)

// LogLevelEnv selects the plugin's log level.
const LogLevelEnv = "DYNPATH_LOG_LEVEL"

// Options tunes Open.
type Options struct {
	// Logger receives the plugin's log lines. Nil discards them.
	Logger tshost.Logger
	// Config replaces the plugin payload read from the config file.
	Config map[string]any
}

// Workspace is one opened project.
type Workspace struct {
	ConfigFile string
	FS         afero.Fs
	System     tshost.System
	Project    *langhost.Project
	Plugin     *plugin.Plugin
	Session    *plugin.Session
	Factory    tshost.SourceFileFactory
	Versions   *langhost.Versions
	Logger     *slog.Logger
}

// Open finds the config file for dir and creates the plugin for it.
func Open(fs afero.Fs, dir string, opts Options) (*Workspace, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve path %s: %w", dir, err)
	}

	configFile, ok := tsconfig.Find(fs, absDir)
	if !ok {
		return nil, fmt.Errorf("no %s found in %s or its parents", tsconfig.FileName, absDir)
	}

	parser := tsconfig.NewParser(fs)
	parsed, err := parser.ParseCommandLine(configFile, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load project: %w", err)
	}

	payload := parsed.Plugins[plugin.Name]
	if opts.Config != nil {
		payload = opts.Config
	}

	level := hostlog.ParseLevel(os.Getenv(LogLevelEnv))
	sink := opts.Logger
	if sink == nil {
		sink = tshost.LoggerFunc(func(string) {})
	}

	system := tshost.NewSystem(fs)
	project := langhost.NewProject(configFile, system, parsed.FileNames)
	versions := langhost.NewVersions()

	p := plugin.New()
	session, err := p.Create(plugin.CreateInfo{
		Project:  project,
		Host:     langhost.NewHost(system, project, versions),
		System:   system,
		Parser:   parser,
		Config:   payload,
		Logger:   sink,
		LogLevel: level,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create plugin: %w", err)
	}

	logger := hostlog.New(sink, level)
	return &Workspace{
		ConfigFile: configFile,
		FS:         fs,
		System:     system,
		Project:    project,
		Plugin:     p,
		Session:    session,
		Factory:    session.DecorateSourceFiles(langhost.NewSourceFileFactory(logger)),
		Versions:   versions,
		Logger:     logger,
	}, nil
}

// StderrLogger returns a sink writing to w when LogLevelEnv is set, and nil
// otherwise so that plugin logs stay quiet by default.
func StderrLogger(w io.Writer) tshost.Logger {
	if os.Getenv(LogLevelEnv) == "" {
		return nil
	}
	return tshost.LoggerFunc(func(message string) {
		fmt.Fprintln(w, message)
	})
}

// Dir is the project's root directory.
func (w *Workspace) Dir() string {
	return filepath.Dir(w.ConfigFile)
}

// Program walks the project through the decorated host, reusing unchanged
// files from previous.
func (w *Workspace) Program(previous *langhost.Program) *langhost.Program {
	return langhost.NewProgram(w.Session.Host, w.Factory, previous)
}

// Touch records that fileName changed on disk.
func (w *Workspace) Touch(fileName string) int {
	w.Versions.Touch(fileName)
	return w.Plugin.InvalidatePath(fileName)
}
