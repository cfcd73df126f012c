package sfc

import (
	"log/slog"

	"github.com/LegacyCodeHQ/dynpath/tshost"
)

// Option configures a Synthesizer.
type Option func(*Synthesizer)

// WithCompiler replaces the default ScriptCompiler.
func WithCompiler(compiler Compiler) Option {
	return func(s *Synthesizer) {
		if compiler != nil {
			s.compiler = compiler
		}
	}
}

// WithSourceMaps always keeps mappings, not only for blocks that ask for them.
func WithSourceMaps(always bool) Option {
	return func(s *Synthesizer) {
		s.alwaysMap = always
	}
}

// WithLogger sets the logger used for recovered failures.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Synthesizer) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Synthesizer stands in for the host's parser on documents: it compiles their
// script blocks and parses the result as a declaration-only source file.
type Synthesizer struct {
	parse     tshost.ParseSourceFileFunc
	compiler  Compiler
	alwaysMap bool
	logger    *slog.Logger
}

// NewSynthesizer returns a Synthesizer that parses compiled text with parse.
func NewSynthesizer(parse tshost.ParseSourceFileFunc, opts ...Option) *Synthesizer {
	s := &Synthesizer{
		parse:    parse,
		compiler: ScriptCompiler{},
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Synthesize builds the source file for a document snapshot. It is a pure
// function of the snapshot's text and version and never fails: unparsable or
// script-less documents produce an empty declaration file.
func (s *Synthesizer) Synthesize(fileName string, snapshot tshost.Snapshot, version string) *tshost.SourceFile {
	compiled := s.compile(fileName, tshost.FullText(snapshot))

	var sourceFile *tshost.SourceFile
	if s.parse != nil {
		sourceFile = s.parse(fileName, compiled.Content, tshost.ScriptTargetESNext, true, scriptKind(compiled.Lang))
	}
	if sourceFile == nil {
		sourceFile = &tshost.SourceFile{
			FileName:        fileName,
			Text:            compiled.Content,
			LanguageVersion: tshost.ScriptTargetESNext,
			ScriptKind:      scriptKind(compiled.Lang),
		}
	}

	sourceFile.Version = version
	sourceFile.IsDeclarationFile = true
	sourceFile.SourceMap = compiled.Map
	return sourceFile
}

func (s *Synthesizer) compile(fileName, text string) Compiled {
	desc, err := ParseDocument(fileName, []byte(text))
	if err != nil {
		s.logger.Warn("document parse failed, using empty source", "file", fileName, "error", err)
		return Compiled{}
	}
	for _, problem := range desc.Errors {
		s.logger.Debug("document parsed with errors", "file", fileName, "error", problem)
	}

	compiled, err := s.compiler.Compile(desc, CompileOptions{
		ID:        fileName,
		SourceMap: s.alwaysMap || desc.WantsSourceMap(),
	})
	if err != nil {
		s.logger.Warn("script compile failed, using empty source", "file", fileName, "error", err)
		return Compiled{}
	}
	return compiled
}

// WrapCreate returns a construct function that synthesizes documents and hands
// every other file to next.
func (s *Synthesizer) WrapCreate(next tshost.CreateSourceFileFunc) tshost.CreateSourceFileFunc {
	return func(fileName string, snapshot tshost.Snapshot, target tshost.ScriptTarget, version string, setParentNodes bool, kind tshost.ScriptKind) *tshost.SourceFile {
		if IsDocument(fileName) {
			return s.Synthesize(fileName, snapshot, version)
		}
		return next(fileName, snapshot, target, version, setParentNodes, kind)
	}
}

// WrapUpdate returns an update function that rebuilds documents from scratch,
// so the result matches what WrapCreate gives for the same snapshot.
func (s *Synthesizer) WrapUpdate(next tshost.UpdateSourceFileFunc) tshost.UpdateSourceFileFunc {
	return func(sourceFile *tshost.SourceFile, snapshot tshost.Snapshot, version string, change *tshost.TextChangeRange, aggressiveChecks bool) *tshost.SourceFile {
		if sourceFile != nil && IsDocument(sourceFile.FileName) {
			return s.Synthesize(sourceFile.FileName, snapshot, version)
		}
		return next(sourceFile, snapshot, version, change, aggressiveChecks)
	}
}

func scriptKind(lang string) tshost.ScriptKind {
	switch lang {
	case "ts":
		return tshost.ScriptKindTS
	case "tsx":
		return tshost.ScriptKindTSX
	case "jsx":
		return tshost.ScriptKindJSX
	default:
		return tshost.ScriptKindJS
	}
}
