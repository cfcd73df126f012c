package plugin

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LegacyCodeHQ/dynpath/aliaspath"
	"github.com/LegacyCodeHQ/dynpath/aliasresolve"
	"github.com/LegacyCodeHQ/dynpath/intercept"
	"github.com/LegacyCodeHQ/dynpath/tshost"
)

func TestLoadConfig_EmptyPayloadUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(nil)
	require.NoError(t, err)

	assert.Equal(t, []aliaspath.RootSpec{{Name: "ACT", Depth: 2}, {Name: "COMMON", Depth: 1}}, cfg.Roots)
	assert.Equal(t, []string{"api", "components", "pages", "store", "img", "js", "style", "scripts"}, cfg.Folders)
	assert.Equal(t, intercept.DefaultConflictingDeclarations, cfg.ConflictingDeclarations)
	assert.Equal(t, aliasresolve.DefaultCacheSize, cfg.CacheSize)
	assert.False(t, cfg.SourceMaps)
}

func TestLoadConfig_OverridesPresentKeys(t *testing.T) {
	cfg, err := LoadConfig(map[string]any{
		"roots": []any{
			map[string]any{"name": "APPS", "depth": float64(1)},
		},
		"sourceMaps": true,
		"cacheSize":  float64(16),
	})
	require.NoError(t, err)

	assert.Equal(t, []aliaspath.RootSpec{{Name: "APPS", Depth: 1}}, cfg.Roots)
	assert.Equal(t, DefaultConfig().Folders, cfg.Folders)
	assert.True(t, cfg.SourceMaps)
	assert.Equal(t, 16, cfg.CacheSize)
}

func TestLoadConfig_RootFieldsDoNotInheritDefaults(t *testing.T) {
	cfg, err := LoadConfig(map[string]any{
		"roots": []any{
			map[string]any{"name": "SRC"},
			map[string]any{"depth": float64(3)},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, []aliaspath.RootSpec{{Name: "SRC", Depth: 0}, {Name: "", Depth: 3}}, cfg.Roots)
}

func TestLoadConfig_EmptyListsStayEmpty(t *testing.T) {
	cfg, err := LoadConfig(map[string]any{
		"folders":                 []any{},
		"conflictingDeclarations": []any{},
	})
	require.NoError(t, err)

	assert.Empty(t, cfg.Folders)
	assert.Empty(t, cfg.ConflictingDeclarations)
	assert.False(t, aliaspath.Compile(cfg.Roots, cfg.Folders).Enabled())
}

func TestConfig_ProbeExtensions(t *testing.T) {
	cfg := Config{Extensions: []string{".tsx", "", ".ts"}}

	assert.Equal(t, []tshost.Extension{tshost.ExtensionTSX, tshost.ExtensionTS}, cfg.ProbeExtensions())
	assert.Equal(t, aliasresolve.DefaultExtensions(), DefaultConfig().ProbeExtensions())
}
