// Package intercept decorates the host's batch module resolution. Host hits
// pass through except for known-conflicting declaration files; host misses
// are routed to alias or document resolution according to a single decision
// table.
package intercept

import (
	"fmt"
	"log/slog"
	"path"
	"regexp"

	"github.com/LegacyCodeHQ/dynpath/aliaspath"
	"github.com/LegacyCodeHQ/dynpath/sfc"
	"github.com/LegacyCodeHQ/dynpath/tshost"
)

// DefaultConflictingDeclarations matches the React type bundle, whose global
// JSX namespace collides with the component runtime's own declarations.
var DefaultConflictingDeclarations = []string{
	`/node_modules/@types/react/index\.d\.ts$`,
}

var (
	relativePattern  = regexp.MustCompile(`^\.\.?($|[\\/])`)
	extensionPattern = regexp.MustCompile(`\.[^\\/.]+$`)
)

// Decision is what the interceptor does with one specifier.
type Decision int

const (
	// DecisionPassThrough keeps the host's answer.
	DecisionPassThrough Decision = iota
	// DecisionSuppress turns a host hit into a miss.
	DecisionSuppress
	// DecisionAlias resolves through the alias tree.
	DecisionAlias
	// DecisionRelativeDocument resolves a relative document specifier.
	DecisionRelativeDocument
)

func (d Decision) String() string {
	switch d {
	case DecisionPassThrough:
		return "pass-through"
	case DecisionSuppress:
		return "suppress"
	case DecisionAlias:
		return "alias"
	case DecisionRelativeDocument:
		return "relative-document"
	default:
		return "unknown"
	}
}

// AliasResolver resolves specifiers the filters accepted.
type AliasResolver interface {
	Resolve(specifier, containingFile string) *tshost.ResolvedModule
}

// Option configures an Interceptor.
type Option func(*Interceptor) error

// WithConflictingDeclarations replaces the suppressed declaration patterns.
// An empty list disables suppression.
func WithConflictingDeclarations(patterns ...string) Option {
	return func(i *Interceptor) error {
		conflicts := make([]*regexp.Regexp, 0, len(patterns))
		for _, pattern := range patterns {
			re, err := regexp.Compile(pattern)
			if err != nil {
				return fmt.Errorf("failed to compile conflicting declaration pattern %q: %w", pattern, err)
			}
			conflicts = append(conflicts, re)
		}
		i.conflicts = conflicts
		return nil
	}
}

// WithLogger sets the logger used for suppression diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(i *Interceptor) error {
		if logger != nil {
			i.logger = logger
		}
		return nil
	}
}

// Interceptor holds the resolution policy applied on top of the host.
type Interceptor struct {
	filters   aliaspath.Filters
	aliases   AliasResolver
	conflicts []*regexp.Regexp
	logger    *slog.Logger
}

// New builds an Interceptor. aliases may be nil when alias resolution is disabled.
func New(filters aliaspath.Filters, aliases AliasResolver, opts ...Option) (*Interceptor, error) {
	i := &Interceptor{
		filters: filters,
		aliases: aliases,
		logger:  slog.Default(),
	}
	defaults := WithConflictingDeclarations(DefaultConflictingDeclarations...)
	if err := defaults(i); err != nil {
		return nil, err
	}
	for _, opt := range opts {
		if err := opt(i); err != nil {
			return nil, err
		}
	}
	return i, nil
}

// Decide classifies one specifier given the host's own answer for it.
func (i *Interceptor) Decide(specifier, containingFile string, hostResult *tshost.ResolvedModule) Decision {
	if hostResult != nil {
		if i.conflicting(hostResult.ResolvedFileName) {
			return DecisionSuppress
		}
		return DecisionPassThrough
	}

	isDocument := sfc.IsDocument(specifier)
	if i.aliases != nil && i.filters.Enabled() &&
		i.filters.MatchImport(specifier) && i.filters.MatchFile(containingFile) &&
		(isDocument || !extensionPattern.MatchString(specifier)) {
		return DecisionAlias
	}
	if isDocument {
		return DecisionRelativeDocument
	}
	return DecisionPassThrough
}

// ResolveOne applies the decision for one specifier.
func (i *Interceptor) ResolveOne(specifier, containingFile string, hostResult *tshost.ResolvedModule) *tshost.ResolvedModule {
	switch i.Decide(specifier, containingFile, hostResult) {
	case DecisionSuppress:
		i.logger.Debug("suppressed conflicting declaration", "specifier", specifier, "resolved", hostResult.ResolvedFileName)
		return nil
	case DecisionAlias:
		return i.aliases.Resolve(specifier, containingFile)
	case DecisionRelativeDocument:
		return ResolveRelativeDocument(specifier, containingFile)
	default:
		return hostResult
	}
}

// Wrap returns a batch resolver with the same contract as next. Each output
// depends only on its own specifier and the containing file.
func (i *Interceptor) Wrap(next tshost.ResolveModuleNamesFunc) tshost.ResolveModuleNamesFunc {
	return func(moduleNames []string, containingFile string, opts *tshost.ResolutionOptions) []*tshost.ResolvedModule {
		hostResults := next(moduleNames, containingFile, opts)

		resolved := make([]*tshost.ResolvedModule, len(moduleNames))
		for index, specifier := range moduleNames {
			var hostResult *tshost.ResolvedModule
			if index < len(hostResults) {
				hostResult = hostResults[index]
			}
			resolved[index] = i.ResolveOne(specifier, containingFile, hostResult)
		}
		return resolved
	}
}

func (i *Interceptor) conflicting(fileName string) bool {
	for _, re := range i.conflicts {
		if re.MatchString(fileName) {
			return true
		}
	}
	return false
}

// ResolveRelativeDocument resolves "./x.vue" or "../x.vue" against the
// containing file's directory. The file is not probed; the host reports a
// missing target itself when it tries to read it.
func ResolveRelativeDocument(specifier, containingFile string) *tshost.ResolvedModule {
	if !sfc.IsDocument(specifier) || !relativePattern.MatchString(specifier) {
		return nil
	}
	return &tshost.ResolvedModule{
		ResolvedFileName: path.Join(path.Dir(containingFile), specifier),
		Extension:        tshost.ExtensionDTS,
	}
}
