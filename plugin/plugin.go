// Package plugin wires the alias resolver, the resolution interceptor, the
// document synthesizer and the external file registry into a language
// service host.
package plugin

import (
	"errors"
	"log/slog"
	"sync"

	"github.com/LegacyCodeHQ/dynpath/aliaspath"
	"github.com/LegacyCodeHQ/dynpath/aliasresolve"
	"github.com/LegacyCodeHQ/dynpath/externalfiles"
	"github.com/LegacyCodeHQ/dynpath/intercept"
	"github.com/LegacyCodeHQ/dynpath/internal/hostlog"
	"github.com/LegacyCodeHQ/dynpath/sfc"
	"github.com/LegacyCodeHQ/dynpath/tshost"
)

var (
	ErrNoProject = errors.New("plugin: create info has no project")
	ErrNoHost    = errors.New("plugin: create info has no language service host")
)

// CreateInfo is what the host hands the plugin for each project.
type CreateInfo struct {
	Project tshost.Project
	Host    *tshost.LanguageServiceHost
	System  tshost.System
	Parser  tshost.CommandLineParser
	// Config is the raw payload from the project's plugin entry.
	Config   map[string]any
	Logger   tshost.Logger
	LogLevel slog.Leveler
	// Compiler replaces the default script block compiler.
	Compiler sfc.Compiler
}

// Plugin holds the state shared by every session of one host process.
type Plugin struct {
	registry *externalfiles.Registry

	mu       sync.Mutex
	sessions map[string]*Session
}

// New returns a Plugin with an empty registry.
func New() *Plugin {
	return &Plugin{
		registry: externalfiles.NewRegistry(),
		sessions: make(map[string]*Session),
	}
}

// Session is the result of creating the plugin for one project.
type Session struct {
	Project tshost.Project
	Config  Config
	Filters aliaspath.Filters
	// Host is the decorated host. For inferred projects it is the host passed in.
	Host *tshost.LanguageServiceHost
	// Inferred reports that the project had no config file and was left alone.
	Inferred  bool
	Documents []string

	base        *tshost.LanguageServiceHost
	resolver    *aliasresolve.Resolver
	interceptor *intercept.Interceptor
	compiler    sfc.Compiler
	logger      *slog.Logger
}

// Create decorates info.Host for one project. Configuration problems are
// logged and degrade to the nearest working setup; an error is returned only
// when info is missing its project or host.
func (p *Plugin) Create(info CreateInfo) (*Session, error) {
	if info.Project == nil {
		return nil, ErrNoProject
	}
	if info.Host == nil {
		return nil, ErrNoHost
	}

	level := info.LogLevel
	if level == nil {
		level = slog.LevelInfo
	}
	logger := hostlog.New(info.Logger, level).With("project", info.Project.ProjectName())
	logger.Info("dynpath plugin started")

	session := &Session{
		Project:  info.Project,
		Host:     info.Host,
		base:     info.Host,
		compiler: info.Compiler,
		logger:   logger,
	}

	name := info.Project.ProjectName()
	if !info.Project.FileExists(name) {
		logger.Info("inferred project left undecorated")
		session.Inferred = true
		return session, nil
	}

	cfg, err := LoadConfig(info.Config)
	if err != nil {
		logger.Warn("using default config", "error", err)
	}
	session.Config = cfg
	session.Filters = aliaspath.Compile(cfg.Roots, cfg.Folders)

	var aliases intercept.AliasResolver
	if session.Filters.Enabled() && info.System != nil {
		resolver, err := aliasresolve.New(info.System, session.Filters,
			aliasresolve.WithExtensions(cfg.ProbeExtensions()...),
			aliasresolve.WithCacheSize(cfg.CacheSize),
			aliasresolve.WithLogger(logger),
		)
		if err != nil {
			logger.Warn("alias resolution disabled", "error", err)
		} else {
			session.resolver = resolver
			aliases = resolver
		}
	} else {
		logger.Info("alias resolution disabled", "filesPattern", session.Filters.FilePattern(), "importsPattern", session.Filters.ImportPattern())
	}

	interceptor, err := intercept.New(session.Filters, aliases,
		intercept.WithConflictingDeclarations(cfg.ConflictingDeclarations...),
		intercept.WithLogger(logger),
	)
	if err != nil {
		logger.Warn("invalid conflicting declaration pattern, using defaults", "error", err)
		interceptor, _ = intercept.New(session.Filters, aliases, intercept.WithLogger(logger))
	}
	session.interceptor = interceptor

	host := info.Host.Clone()
	if host.ResolveModuleNames != nil {
		host.ResolveModuleNames = interceptor.Wrap(host.ResolveModuleNames)
	}

	session.Documents = p.collectDocuments(info, logger)
	p.registry.Register(name, session.Documents)

	if len(session.Documents) > 0 {
		p.decorateScripts(host, name)
	}

	session.Host = host

	p.mu.Lock()
	p.sessions[name] = session
	p.mu.Unlock()

	logger.Info("dynpath plugin ready", "documents", len(session.Documents), "aliases", aliases != nil)
	return session, nil
}

func (p *Plugin) collectDocuments(info CreateInfo, logger *slog.Logger) []string {
	if info.Parser == nil {
		return nil
	}

	parsed, err := info.Parser.ParseCommandLine(info.Project.ProjectName(), []tshost.FileExtensionInfo{
		{Extension: sfc.Extension, IsMixedContent: true, ScriptKind: tshost.ScriptKindDeferred},
	})
	if err != nil {
		logger.Warn("failed to parse project config", "error", err)
		return nil
	}
	if parsed == nil {
		return nil
	}
	return externalfiles.Documents(parsed.FileNames)
}

func (p *Plugin) decorateScripts(host *tshost.LanguageServiceHost, project string) {
	scriptKind := host.GetScriptKind
	host.GetScriptKind = func(fileName string) tshost.ScriptKind {
		if sfc.IsDocument(fileName) {
			return tshost.ScriptKindDeferred
		}
		if scriptKind == nil {
			return tshost.ScriptKindUnknown
		}
		return scriptKind(fileName)
	}

	scriptFileNames := host.GetScriptFileNames
	host.GetScriptFileNames = func() []string {
		var names []string
		if scriptFileNames != nil {
			names = scriptFileNames()
		}

		seen := make(map[string]struct{}, len(names))
		merged := make([]string, 0, len(names))
		for _, name := range names {
			seen[name] = struct{}{}
			merged = append(merged, name)
		}
		for _, doc := range p.registry.List(project) {
			if _, ok := seen[doc]; ok {
				continue
			}
			seen[doc] = struct{}{}
			merged = append(merged, doc)
		}
		return merged
	}
}

// GetExternalFiles lists the documents registered for project.
func (p *Plugin) GetExternalFiles(project tshost.Project) []string {
	if project == nil {
		return []string{}
	}
	return p.registry.List(project.ProjectName())
}

// Session returns the live session for a project name.
func (p *Plugin) Session(project string) (*Session, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	s, ok := p.sessions[project]
	return s, ok
}

// InvalidatePath drops cached alias hits under path in every session and
// returns how many entries were removed.
func (p *Plugin) InvalidatePath(path string) int {
	p.mu.Lock()
	sessions := make([]*Session, 0, len(p.sessions))
	for _, s := range p.sessions {
		sessions = append(sessions, s)
	}
	p.mu.Unlock()

	removed := 0
	for _, s := range sessions {
		removed += s.InvalidatePath(path)
	}
	return removed
}

// Close forgets a project's session and its registered documents.
func (p *Plugin) Close(project string) {
	p.mu.Lock()
	delete(p.sessions, project)
	p.mu.Unlock()
	p.registry.Forget(project)
}

// InvalidatePath drops this session's cached alias hits under path.
func (s *Session) InvalidatePath(path string) int {
	if s.resolver == nil {
		return 0
	}
	removed := s.resolver.Invalidate(path)
	if removed > 0 {
		s.logger.Debug("alias cache invalidated", "path", path, "entries", removed)
	}
	return removed
}

// DecorateSourceFiles returns factory with document handling installed in
// front of its create and update functions.
func (s *Session) DecorateSourceFiles(factory tshost.SourceFileFactory) tshost.SourceFileFactory {
	opts := []sfc.Option{
		sfc.WithSourceMaps(s.Config.SourceMaps),
		sfc.WithLogger(s.logger),
	}
	if s.compiler != nil {
		opts = append(opts, sfc.WithCompiler(s.compiler))
	}
	synth := sfc.NewSynthesizer(factory.Parse, opts...)

	decorated := factory
	if factory.Create != nil {
		decorated.Create = synth.WrapCreate(factory.Create)
	}
	if factory.Update != nil {
		decorated.Update = synth.WrapUpdate(factory.Update)
	}
	return decorated
}

// Trace is one specifier's path through the interceptor.
type Trace struct {
	Specifier string                 `json:"specifier" yaml:"specifier"`
	Decision  string                 `json:"decision" yaml:"decision"`
	Host      *tshost.ResolvedModule `json:"host,omitempty" yaml:"host,omitempty"`
	Result    *tshost.ResolvedModule `json:"result,omitempty" yaml:"result,omitempty"`
}

// Trace resolves moduleNames against the undecorated host and reports what
// the interceptor decided for each of them.
func (s *Session) Trace(moduleNames []string, containingFile string) []Trace {
	var hostResults []*tshost.ResolvedModule
	if s.base != nil && s.base.ResolveModuleNames != nil {
		hostResults = s.base.ResolveModuleNames(moduleNames, containingFile, nil)
	}

	traces := make([]Trace, len(moduleNames))
	for i, name := range moduleNames {
		var hostResult *tshost.ResolvedModule
		if i < len(hostResults) {
			hostResult = hostResults[i]
		}
		traces[i] = Trace{Specifier: name, Host: hostResult, Result: hostResult, Decision: intercept.DecisionPassThrough.String()}
		if s.interceptor == nil {
			continue
		}
		traces[i].Decision = s.interceptor.Decide(name, containingFile, hostResult).String()
		traces[i].Result = s.interceptor.ResolveOne(name, containingFile, hostResult)
	}
	return traces
}
