package plugin

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/LegacyCodeHQ/dynpath/aliaspath"
	"github.com/LegacyCodeHQ/dynpath/aliasresolve"
	"github.com/LegacyCodeHQ/dynpath/intercept"
	"github.com/LegacyCodeHQ/dynpath/tshost"
)

// Name is the plugin's name in a project's plugin list.
const Name = "dynpath"

// Config is the per-session plugin configuration.
type Config struct {
	Roots                   []aliaspath.RootSpec `mapstructure:"roots" json:"roots" yaml:"roots"`
	Folders                 []string             `mapstructure:"folders" json:"folders" yaml:"folders"`
	ConflictingDeclarations []string             `mapstructure:"conflictingDeclarations" json:"conflictingDeclarations" yaml:"conflictingDeclarations"`
	Extensions              []string             `mapstructure:"extensions" json:"extensions" yaml:"extensions"`
	SourceMaps              bool                 `mapstructure:"sourceMaps" json:"sourceMaps" yaml:"sourceMaps"`
	CacheSize               int                  `mapstructure:"cacheSize" json:"cacheSize" yaml:"cacheSize"`
}

// DefaultConfig is used for every key the payload leaves out.
func DefaultConfig() Config {
	extensions := make([]string, 0, 4)
	for _, ext := range aliasresolve.DefaultExtensions() {
		extensions = append(extensions, string(ext))
	}

	return Config{
		Roots: []aliaspath.RootSpec{
			{Name: "ACT", Depth: 2},
			{Name: "COMMON", Depth: 1},
		},
		Folders:                 []string{"api", "components", "pages", "store", "img", "js", "style", "scripts"},
		ConflictingDeclarations: append([]string(nil), intercept.DefaultConflictingDeclarations...),
		Extensions:              extensions,
		CacheSize:               aliasresolve.DefaultCacheSize,
	}
}

// LoadConfig decodes the host's plugin payload. Keys that are absent keep
// their defaults; keys present with an empty list stay empty, which disables
// the corresponding feature.
func LoadConfig(payload map[string]any) (Config, error) {
	cfg := DefaultConfig()
	if len(payload) == 0 {
		return cfg, nil
	}

	v := viper.New()
	if err := v.MergeConfigMap(payload); err != nil {
		return cfg, fmt.Errorf("failed to read plugin config: %w", err)
	}

	// Present lists replace the defaults wholesale, element fields included.
	lists := []struct {
		key    string
		target any
		reset  func()
	}{
		{key: "roots", target: &cfg.Roots, reset: func() { cfg.Roots = nil }},
		{key: "folders", target: &cfg.Folders, reset: func() { cfg.Folders = nil }},
		{key: "conflictingDeclarations", target: &cfg.ConflictingDeclarations, reset: func() { cfg.ConflictingDeclarations = nil }},
		{key: "extensions", target: &cfg.Extensions, reset: func() { cfg.Extensions = nil }},
	}
	for _, list := range lists {
		if !v.IsSet(list.key) {
			continue
		}
		list.reset()
		if err := v.UnmarshalKey(list.key, list.target); err != nil {
			return DefaultConfig(), fmt.Errorf("failed to decode %s: %w", list.key, err)
		}
	}

	if v.IsSet("sourceMaps") {
		cfg.SourceMaps = v.GetBool("sourceMaps")
	}
	if v.IsSet("cacheSize") {
		cfg.CacheSize = v.GetInt("cacheSize")
	}

	return cfg, nil
}

// ProbeExtensions returns the configured probe order as host extensions.
func (c Config) ProbeExtensions() []tshost.Extension {
	extensions := make([]tshost.Extension, 0, len(c.Extensions))
	for _, ext := range c.Extensions {
		if ext != "" {
			extensions = append(extensions, tshost.Extension(ext))
		}
	}
	return extensions
}
