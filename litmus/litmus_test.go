package litmus

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LegacyCodeHQ/dynpath/depgraph"
	"github.com/LegacyCodeHQ/dynpath/internal/workspace"
)

func openFixture(t *testing.T, name string) *workspace.Workspace {
	t.Helper()
	root, err := filepath.Abs(filepath.Join("..", "testdata", "integration", "fixtures", name))
	require.NoError(t, err)

	ws, err := workspace.Open(afero.NewBasePathFs(afero.NewOsFs(), root), "/", workspace.Options{})
	require.NoError(t, err)
	return ws
}

func TestShopFixture_ModuleGraph(t *testing.T) {
	ws := openFixture(t, "shop")
	program := ws.Program(nil)

	adjacency, err := depgraph.AdjacencyList(depgraph.BuildDependencyGraph(program))
	require.NoError(t, err)

	nodes := make([]string, 0, len(adjacency))
	for node := range adjacency {
		nodes = append(nodes, node)
	}
	sort.Strings(nodes)

	var out strings.Builder
	out.WriteString("edges:\n")
	for _, node := range nodes {
		for _, dep := range adjacency[node] {
			fmt.Fprintf(&out, "  %s -> %s\n", node, dep)
		}
	}
	out.WriteString("unresolved:\n")
	for _, u := range program.Unresolved() {
		fmt.Fprintf(&out, "  %s: %s\n", u.File, u.Specifier)
	}
	out.WriteString("documents:\n")
	for _, doc := range ws.Plugin.GetExternalFiles(ws.Project) {
		fmt.Fprintf(&out, "  %s\n", doc)
	}

	g := goldie.New(t)
	g.Assert(t, t.Name(), []byte(out.String()))
}

func TestShopFixture_Decisions(t *testing.T) {
	ws := openFixture(t, "shop")

	traces := ws.Session.Trace([]string{
		"@/api/cart",
		"@/components/badge.vue",
		"./badge.vue",
		"react",
		"dayjs",
		"@/api/cart.ts",
		"@/lib/x",
	}, "/ACT/shop/cart/components/cart-badge.vue")

	var decisions []string
	for _, trace := range traces {
		decisions = append(decisions, trace.Decision)
	}
	assert.Equal(t, []string{"alias", "alias", "relative-document", "suppress", "pass-through", "pass-through", "pass-through"}, decisions)

	require.NotNil(t, traces[4].Result)
	assert.Equal(t, "/node_modules/dayjs/index.d.ts", traces[4].Result.ResolvedFileName)
	assert.True(t, traces[4].Result.IsExternalLibraryImport)
}
