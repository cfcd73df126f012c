package sfc

import (
	"errors"
	"os"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LegacyCodeHQ/dynpath/tshost"
)

func recordingParse(calls *int) tshost.ParseSourceFileFunc {
	return func(fileName, text string, target tshost.ScriptTarget, _ bool, kind tshost.ScriptKind) *tshost.SourceFile {
		*calls++
		return &tshost.SourceFile{
			FileName:        fileName,
			Text:            text,
			LanguageVersion: target,
			ScriptKind:      kind,
		}
	}
}

func TestSynthesize_Golden(t *testing.T) {
	source, err := os.ReadFile("testdata/counter.vue")
	require.NoError(t, err)

	var calls int
	synth := NewSynthesizer(recordingParse(&calls))
	sourceFile := synth.Synthesize("/w/counter.vue", tshost.StringSnapshot(source), "3")

	assert.Equal(t, 1, calls)
	assert.True(t, sourceFile.IsDeclarationFile)
	assert.Equal(t, "3", sourceFile.Version)
	assert.Equal(t, tshost.ScriptKindTS, sourceFile.ScriptKind)
	assert.Equal(t, tshost.ScriptTargetESNext, sourceFile.LanguageVersion)
	require.NotNil(t, sourceFile.SourceMap, "script setup asks for a source map")

	g := goldie.New(t)
	g.Assert(t, "counter", []byte(sourceFile.Text))
}

func TestSynthesize_CreateAndUpdateAgree(t *testing.T) {
	source, err := os.ReadFile("testdata/counter.vue")
	require.NoError(t, err)
	snapshot := tshost.StringSnapshot(source)

	var calls int
	synth := NewSynthesizer(recordingParse(&calls))
	failCreate := func(string, tshost.Snapshot, tshost.ScriptTarget, string, bool, tshost.ScriptKind) *tshost.SourceFile {
		t.Fatal("host parser must not see documents")
		return nil
	}
	failUpdate := func(*tshost.SourceFile, tshost.Snapshot, string, *tshost.TextChangeRange, bool) *tshost.SourceFile {
		t.Fatal("host parser must not see documents")
		return nil
	}

	created := synth.WrapCreate(failCreate)("/w/counter.vue", snapshot, tshost.ScriptTargetES5, "7", false, tshost.ScriptKindDeferred)

	stale := &tshost.SourceFile{FileName: "/w/counter.vue", Text: "stale", Version: "6"}
	change := &tshost.TextChangeRange{Span: tshost.TextSpan{Start: 2, Length: 3}, NewLength: 9}
	updated := synth.WrapUpdate(failUpdate)(stale, snapshot, "7", change, true)

	assert.Equal(t, created, updated)
	assert.NotSame(t, created, updated)
	assert.Equal(t, "stale", stale.Text, "the previous version is left alone")
}

func TestSynthesize_PassesOtherFilesThrough(t *testing.T) {
	var calls int
	synth := NewSynthesizer(recordingParse(&calls))
	hostFile := &tshost.SourceFile{FileName: "/w/main.ts"}

	created := synth.WrapCreate(func(fileName string, _ tshost.Snapshot, _ tshost.ScriptTarget, _ string, _ bool, _ tshost.ScriptKind) *tshost.SourceFile {
		assert.Equal(t, "/w/main.ts", fileName)
		return hostFile
	})("/w/main.ts", tshost.StringSnapshot("export {}"), tshost.ScriptTargetESNext, "1", true, tshost.ScriptKindTS)

	updated := synth.WrapUpdate(func(sourceFile *tshost.SourceFile, _ tshost.Snapshot, _ string, _ *tshost.TextChangeRange, _ bool) *tshost.SourceFile {
		return sourceFile
	})(hostFile, tshost.StringSnapshot("export {}"), "2", nil, false)

	assert.Same(t, hostFile, created)
	assert.Same(t, hostFile, updated)
	assert.Zero(t, calls)
}

func TestSynthesize_DegradesToEmptyDeclaration(t *testing.T) {
	tests := []struct {
		name   string
		source string
		opts   []Option
	}{
		{name: "markup only", source: "<template><p>hi</p></template>\n"},
		{name: "empty document", source: ""},
		{name: "mixed script languages", source: "<script lang=\"ts\">\nexport {}\n</script>\n<script setup lang=\"js\">\nconst a = 1\n</script>\n"},
		{
			name:   "compiler failure",
			source: "<script>\nexport {}\n</script>\n",
			opts: []Option{WithCompiler(CompilerFunc(func(*Descriptor, CompileOptions) (Compiled, error) {
				return Compiled{}, errors.New("boom")
			}))},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var calls int
			synth := NewSynthesizer(recordingParse(&calls), tc.opts...)

			sourceFile := synth.Synthesize("/w/broken.vue", tshost.StringSnapshot(tc.source), "1")

			require.NotNil(t, sourceFile)
			assert.Equal(t, "", sourceFile.Text)
			assert.True(t, sourceFile.IsDeclarationFile)
			assert.Nil(t, sourceFile.SourceMap)
		})
	}
}

func TestSynthesize_UnterminatedScriptStillYieldsFile(t *testing.T) {
	var calls int
	synth := NewSynthesizer(recordingParse(&calls))

	sourceFile := synth.Synthesize("/w/editing.vue", tshost.StringSnapshot("<script lang=\"ts\">\nconst a = "), "1")

	require.NotNil(t, sourceFile)
	assert.True(t, sourceFile.IsDeclarationFile)
	assert.Equal(t, 1, calls)
}

func TestSynthesize_WithoutHostParser(t *testing.T) {
	synth := NewSynthesizer(nil, WithSourceMaps(true))

	sourceFile := synth.Synthesize("/w/plain.vue", tshost.StringSnapshot("<script>\nexport default {}\n</script>\n"), "1")

	assert.Equal(t, "\nexport default {}\n", sourceFile.Text)
	assert.Equal(t, tshost.ScriptKindJS, sourceFile.ScriptKind)
	assert.True(t, sourceFile.IsDeclarationFile)
	require.NotNil(t, sourceFile.SourceMap)
	assert.Len(t, sourceFile.SourceMap.Mappings, 1)
}

func TestSynthesize_CustomCompiler(t *testing.T) {
	var calls int
	compiler := CompilerFunc(func(desc *Descriptor, opts CompileOptions) (Compiled, error) {
		return Compiled{Content: "export default {} as const\n", Lang: "tsx"}, nil
	})
	synth := NewSynthesizer(recordingParse(&calls), WithCompiler(compiler))

	sourceFile := synth.Synthesize("/w/custom.vue", tshost.StringSnapshot("<script>\n</script>"), "1")

	assert.Equal(t, "export default {} as const\n", sourceFile.Text)
	assert.Equal(t, tshost.ScriptKindTSX, sourceFile.ScriptKind)
}
