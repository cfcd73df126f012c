// Package aliasresolve turns an alias specifier into the file backing it by
// rebuilding an absolute path from the containing file and probing the file
// system through a fixed list of candidate suffixes.
package aliasresolve

import (
	"fmt"
	"log/slog"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/LegacyCodeHQ/dynpath/aliaspath"
	"github.com/LegacyCodeHQ/dynpath/sfc"
	"github.com/LegacyCodeHQ/dynpath/tshost"
)

// DefaultCacheSize bounds the number of remembered hits.
const DefaultCacheSize = 8192

// DefaultExtensions returns the probe order used when none is configured.
func DefaultExtensions() []tshost.Extension {
	return []tshost.Extension{tshost.ExtensionTS, tshost.ExtensionTSX, tshost.ExtensionJS, tshost.ExtensionJSX}
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithExtensions replaces the probe order.
func WithExtensions(extensions ...tshost.Extension) Option {
	return func(r *Resolver) {
		if len(extensions) > 0 {
			r.extensions = append([]tshost.Extension(nil), extensions...)
		}
	}
}

// WithCacheSize bounds the hit cache.
func WithCacheSize(size int) Option {
	return func(r *Resolver) {
		if size > 0 {
			r.cacheSize = size
		}
	}
}

// WithLogger sets the logger used for probe diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Resolver) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// Resolver resolves alias specifiers. Only hits are cached, keyed by the
// reconstructed target path; misses are probed again on every call.
type Resolver struct {
	system     tshost.System
	filters    aliaspath.Filters
	extensions []tshost.Extension
	cacheSize  int
	cache      *lru.Cache[string, tshost.ResolvedModule]
	logger     *slog.Logger
}

// New creates a Resolver probing system with the given filters.
func New(system tshost.System, filters aliaspath.Filters, opts ...Option) (*Resolver, error) {
	r := &Resolver{
		system:     system,
		filters:    filters,
		extensions: DefaultExtensions(),
		cacheSize:  DefaultCacheSize,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}

	cache, err := lru.New[string, tshost.ResolvedModule](r.cacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create resolution cache: %w", err)
	}
	r.cache = cache

	return r, nil
}

// Target rebuilds the absolute path a specifier points to. It reports false
// when containingFile is not under any configured root.
func (r *Resolver) Target(specifier, containingFile string) (string, bool) {
	boundary, ok := r.filters.FileBoundary(containingFile)
	if !ok {
		return "", false
	}
	return containingFile[:boundary] + strings.TrimPrefix(specifier, aliaspath.AliasMarker), true
}

// Resolve returns the module backing specifier, or nil when no candidate exists.
// The returned value is a copy the caller may keep.
func (r *Resolver) Resolve(specifier, containingFile string) *tshost.ResolvedModule {
	target, ok := r.Target(specifier, containingFile)
	if !ok {
		return nil
	}

	if cached, ok := r.cache.Get(target); ok {
		return &cached
	}

	resolved, ok := r.probe(target)
	if !ok {
		r.logger.Debug("alias target not found", "specifier", specifier, "target", target)
		return nil
	}

	r.cache.Add(target, resolved)
	r.logger.Debug("alias resolved", "specifier", specifier, "resolved", resolved.ResolvedFileName)
	return &resolved
}

func (r *Resolver) probe(target string) (tshost.ResolvedModule, bool) {
	switch {
	case sfc.IsDocument(target):
		if !r.system.FileExists(target) {
			return tshost.ResolvedModule{}, false
		}
		return tshost.ResolvedModule{
			ResolvedFileName: target,
			Extension:        tshost.ExtensionDTS,
		}, true

	case strings.HasSuffix(target, "/"):
		return r.firstExisting(target + "index")

	default:
		if resolved, ok := r.firstExisting(target); ok {
			return resolved, true
		}
		return r.firstExisting(target + "/index")
	}
}

func (r *Resolver) firstExisting(base string) (tshost.ResolvedModule, bool) {
	for _, ext := range r.extensions {
		candidate := base + string(ext)
		if r.system.FileExists(candidate) {
			return tshost.ResolvedModule{
				ResolvedFileName: candidate,
				Extension:        typedExtension(ext),
			}, true
		}
	}
	return tshost.ResolvedModule{}, false
}

// typedExtension reports ext to the host only for TypeScript flavors; the host
// infers everything else from the file name.
func typedExtension(ext tshost.Extension) tshost.Extension {
	if strings.Contains(string(ext), ".ts") {
		return ext
	}
	return ""
}

// Invalidate drops every cached hit that a change at path could affect: hits
// resolved to path, targets path could now shadow, and targets under path when
// it is a directory. It returns the number of entries removed.
func (r *Resolver) Invalidate(path string) int {
	removed := 0
	for _, key := range r.cache.Keys() {
		cached, ok := r.cache.Peek(key)
		if !ok {
			continue
		}
		if cached.ResolvedFileName == path ||
			path == key ||
			strings.HasPrefix(path, key+".") ||
			strings.HasPrefix(path, key+"/") ||
			strings.HasPrefix(key, strings.TrimSuffix(path, "/")+"/") {
			r.cache.Remove(key)
			removed++
		}
	}
	return removed
}

// Purge empties the cache.
func (r *Resolver) Purge() {
	r.cache.Purge()
}

// Len returns the number of cached hits.
func (r *Resolver) Len() int {
	return r.cache.Len()
}
