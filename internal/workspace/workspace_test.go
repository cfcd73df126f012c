package workspace

import (
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LegacyCodeHQ/dynpath/tshost"
)

func newFS(t *testing.T, files map[string]string) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	for name, content := range files {
		require.NoError(t, afero.WriteFile(fs, name, []byte(content), 0o644))
	}
	return fs
}

func TestOpen(t *testing.T) {
	fs := newFS(t, map[string]string{
		"/w/tsconfig.json": `{"include": ["APPS"], "compilerOptions": {"plugins": [
			{"name": "dynpath", "roots": [{"name": "APPS", "depth": 1}], "folders": ["lib"]}
		]}}`,
		"/w/APPS/shop/main.ts":    "import { a } from '@/lib/a'\n",
		"/w/APPS/shop/lib/a.ts":   "export const a = 1\n",
		"/w/APPS/shop/view.vue":   "<script>export default {}</script>",
		"/w/ACT/x/y/pages/old.ts": "",
	})

	var lines []string
	ws, err := Open(fs, "/w/APPS/shop", Options{Logger: tshost.LoggerFunc(func(m string) { lines = append(lines, m) })})
	require.NoError(t, err)

	assert.Equal(t, "/w/tsconfig.json", ws.ConfigFile)
	assert.Equal(t, "/w", ws.Dir())
	assert.Equal(t, []string{"/w/APPS/shop/view.vue"}, ws.Session.Documents)
	assert.Contains(t, ws.Session.Filters.FilePattern(), "APPS")
	assert.NotEmpty(t, lines)

	program := ws.Program(nil)
	assert.Equal(t, []string{"/w/APPS/shop/lib/a.ts", "/w/APPS/shop/main.ts", "/w/APPS/shop/view.vue"}, program.Order)
	assert.Empty(t, program.Unresolved())
}

func TestOpen_ConfigOverride(t *testing.T) {
	fs := newFS(t, map[string]string{
		"/w/tsconfig.json":               `{}`,
		"/w/ACT/shop/cart/pages/main.ts": "import { a } from '@/api/a'\n",
		"/w/ACT/shop/cart/api/a.ts":      "",
	})

	ws, err := Open(fs, "/w", Options{Config: map[string]any{"roots": []any{}}})
	require.NoError(t, err)

	program := ws.Program(nil)
	require.Len(t, program.Unresolved(), 1)
	assert.Equal(t, "@/api/a", program.Unresolved()[0].Specifier)
}

func TestOpen_NoConfig(t *testing.T) {
	_, err := Open(afero.NewMemMapFs(), "/w", Options{})

	assert.ErrorContains(t, err, "no tsconfig.json found")
}

func TestTouch_InvalidatesAliasCache(t *testing.T) {
	fs := newFS(t, map[string]string{
		"/w/tsconfig.json":               `{}`,
		"/w/ACT/shop/cart/pages/main.ts": "import { a } from '@/api/a'\n",
		"/w/ACT/shop/cart/api/a.ts":      "",
	})
	ws, err := Open(fs, "/w", Options{})
	require.NoError(t, err)

	first := ws.Program(nil)
	require.Empty(t, first.Unresolved())

	require.NoError(t, fs.Remove("/w/ACT/shop/cart/api/a.ts"))
	assert.Equal(t, 1, ws.Touch("/w/ACT/shop/cart/api/a.ts"))
	ws.Touch("/w/ACT/shop/cart/pages/main.ts")

	second := ws.Program(first)
	require.Len(t, second.Unresolved(), 1)
	assert.Equal(t, "@/api/a", second.Unresolved()[0].Specifier)
}

func TestStderrLogger(t *testing.T) {
	t.Setenv(LogLevelEnv, "")
	assert.Nil(t, StderrLogger(nil))

	t.Setenv(LogLevelEnv, "debug")
	var buf strings.Builder
	logger := StderrLogger(&buf)
	require.NotNil(t, logger)

	logger.Info("hello")
	assert.Equal(t, "hello\n", buf.String())
}
