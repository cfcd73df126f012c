package aliaspath

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var defaultRoots = []RootSpec{
	{Name: "ACT", Depth: 2},
	{Name: "COMMON", Depth: 1},
}

var defaultFolders = []string{"api", "components", "pages", "store", "img", "js", "style", "scripts"}

func TestCompile_FilePattern(t *testing.T) {
	filters := Compile(defaultRoots, defaultFolders)

	assert.Equal(t, "/(?:ACT/[^/]+/[^/]+|COMMON/[^/]+)/", filters.FilePattern())
	assert.Equal(t, "^@/(?:api|components|pages|store|img|js|style|scripts)(?:/|$)", filters.ImportPattern())
}

func TestCompile_QuotesLiteralNames(t *testing.T) {
	filters := Compile([]RootSpec{{Name: "a.b", Depth: 0}}, []string{"c+d"})

	assert.True(t, filters.MatchFile("/x/a.b/y.ts"))
	assert.False(t, filters.MatchFile("/x/aXb/y.ts"))
	assert.True(t, filters.MatchImport("@/c+d/e"))
	assert.False(t, filters.MatchImport("@/ccd/e"))
}

func TestCompile_EmptyConfigurationDisables(t *testing.T) {
	tests := []struct {
		name    string
		roots   []RootSpec
		folders []string
	}{
		{name: "no roots", folders: defaultFolders},
		{name: "no folders", roots: defaultRoots},
		{name: "blank names", roots: []RootSpec{{Name: ""}}, folders: []string{""}},
		{name: "nothing"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			filters := Compile(tc.roots, tc.folders)

			assert.False(t, filters.Enabled())
			assert.False(t, filters.MatchFile("/w/ACT/a/b/pages/x.ts"))
			assert.False(t, filters.MatchImport("@/api/user"))
			_, ok := filters.FileBoundary("/w/ACT/a/b/pages/x.ts")
			assert.False(t, ok)
		})
	}
}

func TestFilters_FileBoundaryHonorsDepth(t *testing.T) {
	filters := Compile(defaultRoots, defaultFolders)

	tests := []struct {
		name   string
		path   string
		prefix string
	}{
		{
			name:   "depth two root",
			path:   "/w/ACT/tenant/proj/pages/home.ts",
			prefix: "/w/ACT/tenant/proj/",
		},
		{
			name:   "depth one root",
			path:   "/w/COMMON/shared/components/button.ts",
			prefix: "/w/COMMON/shared/",
		},
		{
			name:   "many leading segments",
			path:   "/Users/dev/src/github/org/monorepo/ACT/t1/p1/store/index.ts",
			prefix: "/Users/dev/src/github/org/monorepo/ACT/t1/p1/",
		},
		{
			name:   "root repeated deeper in the path uses the last match",
			path:   "/w/ACT/t1/p1/pages/ACT/t2/p2/api/user.ts",
			prefix: "/w/ACT/t1/p1/pages/ACT/t2/p2/",
		},
		{
			name:   "tenant named like its root",
			path:   "/w/ACT/ACT/shop/pages/home.ts",
			prefix: "/w/ACT/ACT/shop/",
		},
		{
			name:   "project named like another root",
			path:   "/w/ACT/t/COMMON/api/user.ts",
			prefix: "/w/ACT/t/COMMON/",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			boundary, ok := filters.FileBoundary(tc.path)

			require.True(t, ok)
			assert.Equal(t, len(tc.prefix), boundary)
			assert.Equal(t, tc.prefix, tc.path[:boundary])
		})
	}
}

func TestFilters_FileBoundaryRequiresFullDepth(t *testing.T) {
	filters := Compile(defaultRoots, defaultFolders)

	_, ok := filters.FileBoundary("/w/ACT/tenant")
	assert.False(t, ok)

	_, ok = filters.FileBoundary("/w/ACTION/a/b/c.ts")
	assert.False(t, ok)

	_, ok = filters.FileBoundary("/w/MYACT/a/b/c.ts")
	assert.False(t, ok)
}

func TestFilters_MatchImport(t *testing.T) {
	filters := Compile(defaultRoots, defaultFolders)

	tests := []struct {
		specifier string
		want      bool
	}{
		{specifier: "@/api/user", want: true},
		{specifier: "@/api", want: true},
		{specifier: "@/components/", want: true},
		{specifier: "@/components/widget.vue", want: true},
		{specifier: "@/api-utils/user", want: false},
		{specifier: "@/apis/user", want: false},
		{specifier: "@/unknown/thing", want: false},
		{specifier: "./api/user", want: false},
		{specifier: "api/user", want: false},
		{specifier: "x@/api/user", want: false},
	}

	for _, tc := range tests {
		t.Run(tc.specifier, func(t *testing.T) {
			assert.Equal(t, tc.want, filters.MatchImport(tc.specifier))
		})
	}
}
