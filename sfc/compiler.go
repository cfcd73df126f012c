package sfc

import (
	"fmt"
	"strings"

	"github.com/LegacyCodeHQ/dynpath/tshost"
)

// CompileOptions controls script compilation for one document.
type CompileOptions struct {
	ID        string
	SourceMap bool
}

// Compiled is the plain source produced for a document.
type Compiled struct {
	Content string
	Lang    string
	Map     *tshost.SourceMap
}

// Compiler turns a document's script blocks into one plain source text.
type Compiler interface {
	Compile(desc *Descriptor, opts CompileOptions) (Compiled, error)
}

// CompilerFunc adapts a function to Compiler.
type CompilerFunc func(desc *Descriptor, opts CompileOptions) (Compiled, error)

func (f CompilerFunc) Compile(desc *Descriptor, opts CompileOptions) (Compiled, error) {
	return f(desc, opts)
}

// ScriptCompiler splices the script blocks verbatim, in document order, into a
// single text. It is the default Compiler; hosts that need framework-specific
// rewriting of <script setup> plug in their own.
type ScriptCompiler struct{}

func (ScriptCompiler) Compile(desc *Descriptor, opts CompileOptions) (Compiled, error) {
	blocks := desc.ScriptBlocks()
	if len(blocks) == 0 {
		return Compiled{}, nil
	}

	lang := blocks[0].Lang
	for _, block := range blocks[1:] {
		if block.Lang != lang {
			return Compiled{}, fmt.Errorf("%s: script blocks use different languages (%q and %q)", opts.ID, lang, block.Lang)
		}
	}

	var content strings.Builder
	var mappings []tshost.Mapping
	for _, block := range blocks {
		if content.Len() > 0 && !strings.HasSuffix(content.String(), "\n") {
			content.WriteString("\n")
		}
		mappings = append(mappings, tshost.Mapping{
			Generated: content.Len(),
			Original:  block.Start,
			Length:    len(block.Content),
		})
		content.WriteString(block.Content)
	}

	compiled := Compiled{Content: content.String(), Lang: lang}
	if opts.SourceMap {
		compiled.Map = &tshost.SourceMap{Source: opts.ID, Mappings: mappings}
	}
	return compiled, nil
}
