package langhost

import (
	"context"
	"fmt"
	"sort"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"

	"github.com/LegacyCodeHQ/dynpath/tshost"
)

// Import is one module specifier found in a file.
type Import struct {
	Specifier  string
	IsTypeOnly bool
	// Offset is the byte offset of the specifier's string literal.
	Offset int
}

const importQuery = `
(import_statement
  source: (string) @source)

(export_statement
  source: (string) @source)

(call_expression
  function: (import)
  arguments: (arguments (string) @source))
`

// ParseImports extracts static and dynamic import specifiers from TypeScript
// or TSX source, in source order.
func ParseImports(sourceCode []byte, kind tshost.ScriptKind) ([]Import, error) {
	lang := typescript.GetLanguage()
	if kind == tshost.ScriptKindTSX || kind == tshost.ScriptKindJSX {
		lang = tsx.GetLanguage()
	}

	parser := sitter.NewParser()
	parser.SetLanguage(lang)

	tree, err := parser.ParseCtx(context.Background(), nil, sourceCode)
	if err != nil {
		return nil, fmt.Errorf("failed to parse TypeScript code: %w", err)
	}
	defer tree.Close()

	imports, err := queryImports(tree.RootNode(), sourceCode, lang)
	if err != nil {
		return walkImports(tree.RootNode(), sourceCode), nil
	}
	return imports, nil
}

func queryImports(root *sitter.Node, sourceCode []byte, lang *sitter.Language) ([]Import, error) {
	query, err := sitter.NewQuery([]byte(importQuery), lang)
	if err != nil {
		return nil, fmt.Errorf("failed to create query: %w", err)
	}
	defer query.Close()

	cursor := sitter.NewQueryCursor()
	defer cursor.Close()
	cursor.Exec(query, root)

	var imports []Import
	for {
		match, ok := cursor.NextMatch()
		if !ok {
			break
		}
		match = cursor.FilterPredicates(match, sourceCode)
		for _, capture := range match.Captures {
			if imp, ok := newImport(capture.Node, sourceCode); ok {
				imports = append(imports, imp)
			}
		}
	}

	sort.SliceStable(imports, func(i, j int) bool {
		return imports[i].Offset < imports[j].Offset
	})
	return imports, nil
}

// walkImports is the fallback when the query does not compile against the grammar.
func walkImports(node *sitter.Node, sourceCode []byte) []Import {
	var imports []Import

	var walk func(*sitter.Node)
	walk = func(n *sitter.Node) {
		if n == nil {
			return
		}
		if n.Type() == "import_statement" || n.Type() == "export_statement" {
			for i := 0; i < int(n.ChildCount()); i++ {
				child := n.Child(i)
				if child != nil && child.Type() == "string" {
					if imp, ok := newImport(child, sourceCode); ok {
						imports = append(imports, imp)
					}
					break
				}
			}
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			walk(n.Child(i))
		}
	}

	walk(node)
	return imports
}

func newImport(node *sitter.Node, sourceCode []byte) (Import, bool) {
	specifier := cleanSpecifier(node.Content(sourceCode))
	if specifier == "" {
		return Import{}, false
	}
	return Import{
		Specifier:  specifier,
		IsTypeOnly: isTypeOnly(node, sourceCode),
		Offset:     int(node.StartByte()),
	}, true
}

func isTypeOnly(node *sitter.Node, sourceCode []byte) bool {
	for parent := node.Parent(); parent != nil; parent = parent.Parent() {
		if parent.Type() != "import_statement" && parent.Type() != "export_statement" {
			continue
		}
		for i := 0; i < int(parent.ChildCount()); i++ {
			child := parent.Child(i)
			if child != nil && child.Content(sourceCode) == "type" {
				return true
			}
		}
		return false
	}
	return false
}

func cleanSpecifier(raw string) string {
	return strings.TrimSpace(strings.Trim(raw, "'\"`"))
}

// Specifiers returns the distinct specifiers of imports, keeping first-seen order.
func Specifiers(imports []Import) []string {
	seen := make(map[string]bool, len(imports))
	specifiers := make([]string, 0, len(imports))
	for _, imp := range imports {
		if seen[imp.Specifier] {
			continue
		}
		seen[imp.Specifier] = true
		specifiers = append(specifiers, imp.Specifier)
	}
	return specifiers
}
