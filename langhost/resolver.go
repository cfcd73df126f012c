package langhost

import (
	"path"
	"regexp"
	"strings"

	"github.com/LegacyCodeHQ/dynpath/aliaspath"
	"github.com/LegacyCodeHQ/dynpath/sfc"
	"github.com/LegacyCodeHQ/dynpath/tshost"
	"github.com/spf13/viper"
)

var relativeSpecifier = regexp.MustCompile(`^\.\.?($|/)`)

// probeExtensions is the order relative and package files are tried in.
var probeExtensions = []tshost.Extension{
	tshost.ExtensionTS,
	tshost.ExtensionTSX,
	tshost.ExtensionDTS,
	tshost.ExtensionJS,
	tshost.ExtensionJSX,
}

var typedExtensions = []tshost.Extension{
	tshost.ExtensionTS,
	tshost.ExtensionTSX,
	tshost.ExtensionDTS,
}

// Resolver is the host's own module resolution. It knows nothing about
// aliases or documents; those are left unresolved for the plugin.
type Resolver struct {
	system tshost.System
}

// NewResolver returns a Resolver reading through system.
func NewResolver(system tshost.System) *Resolver {
	return &Resolver{system: system}
}

// ResolveModuleNames has the host's batch contract: one entry per name,
// nil for names it cannot resolve.
func (r *Resolver) ResolveModuleNames(moduleNames []string, containingFile string, _ *tshost.ResolutionOptions) []*tshost.ResolvedModule {
	resolved := make([]*tshost.ResolvedModule, len(moduleNames))
	for i, name := range moduleNames {
		resolved[i] = r.resolve(name, containingFile)
	}
	return resolved
}

func (r *Resolver) resolve(specifier, containingFile string) *tshost.ResolvedModule {
	if specifier == "" || strings.HasPrefix(specifier, aliaspath.AliasMarker) || sfc.IsDocument(specifier) {
		return nil
	}

	if relativeSpecifier.MatchString(specifier) {
		base := path.Join(path.Dir(containingFile), specifier)
		if resolved := r.probeFile(base, probeExtensions); resolved != nil {
			return resolved
		}
		return r.probeFile(path.Join(base, "index"), probeExtensions)
	}

	if path.IsAbs(specifier) {
		return r.probeFile(path.Clean(specifier), probeExtensions)
	}

	return r.resolvePackage(specifier, path.Dir(containingFile))
}

// probeFile tries base with each extension, then base itself when it already
// carries one of them.
func (r *Resolver) probeFile(base string, extensions []tshost.Extension) *tshost.ResolvedModule {
	for _, ext := range extensions {
		candidate := base + string(ext)
		if r.system.FileExists(candidate) {
			return &tshost.ResolvedModule{ResolvedFileName: candidate, Extension: ext}
		}
	}
	if ext, ok := knownExtension(base, extensions); ok && r.system.FileExists(base) {
		return &tshost.ResolvedModule{ResolvedFileName: base, Extension: ext}
	}
	return nil
}

// resolvePackage walks up from dir through each node_modules directory. Typed
// entry points win over the @types companion, which wins over plain JavaScript.
func (r *Resolver) resolvePackage(specifier, dir string) *tshost.ResolvedModule {
	for {
		modules := path.Join(dir, "node_modules")
		if r.system.DirectoryExists(modules) {
			pkg := path.Join(modules, specifier)
			if resolved := r.packageEntry(pkg, typedExtensions, "types", "typings"); resolved != nil {
				return external(resolved)
			}
			if resolved := r.packageEntry(path.Join(modules, "@types", typesName(specifier)), typedExtensions, "types", "typings"); resolved != nil {
				return external(resolved)
			}
			if resolved := r.packageEntry(pkg, probeExtensions, "main"); resolved != nil {
				return external(resolved)
			}
		}

		parent := path.Dir(dir)
		if parent == dir {
			return nil
		}
		dir = parent
	}
}

// packageEntry resolves a package directory through the named package.json
// fields, falling back to the directory as a file and to its index.
func (r *Resolver) packageEntry(dir string, extensions []tshost.Extension, fields ...string) *tshost.ResolvedModule {
	if resolved := r.probeFile(dir, extensions); resolved != nil {
		return resolved
	}

	if manifest, ok := r.readManifest(dir); ok {
		for _, field := range fields {
			entry := manifest.GetString(field)
			if entry == "" {
				continue
			}
			target := path.Join(dir, entry)
			if resolved := r.probeFile(target, extensions); resolved != nil {
				return resolved
			}
			if resolved := r.probeFile(strings.TrimSuffix(target, path.Ext(target)), extensions); resolved != nil {
				return resolved
			}
		}
	}

	return r.probeFile(path.Join(dir, "index"), extensions)
}

// readManifest loads dir/package.json. Unreadable or malformed manifests are
// treated as absent.
func (r *Resolver) readManifest(dir string) (*viper.Viper, bool) {
	text, ok := r.system.ReadFile(path.Join(dir, "package.json"))
	if !ok {
		return nil, false
	}
	manifest := viper.New()
	manifest.SetConfigType("json")
	if err := manifest.ReadConfig(strings.NewReader(text)); err != nil {
		return nil, false
	}
	return manifest, true
}

func external(resolved *tshost.ResolvedModule) *tshost.ResolvedModule {
	resolved.IsExternalLibraryImport = true
	return resolved
}

// typesName maps "@scope/pkg" to the "scope__pkg" naming used under @types.
func typesName(specifier string) string {
	if strings.HasPrefix(specifier, "@") {
		return strings.Replace(strings.TrimPrefix(specifier, "@"), "/", "__", 1)
	}
	return specifier
}

func knownExtension(fileName string, extensions []tshost.Extension) (tshost.Extension, bool) {
	for _, ext := range extensions {
		if ext == tshost.ExtensionDTS && strings.HasSuffix(fileName, string(ext)) {
			return ext, true
		}
	}
	for _, ext := range extensions {
		if ext != tshost.ExtensionDTS && path.Ext(fileName) == string(ext) {
			return ext, true
		}
	}
	return "", false
}
