// Package sfc turns single-file component documents (markup plus embedded
// <script> blocks) into plain source the host's analyzer understands.
package sfc

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/html"
)

// Extension is the file extension of single-file component documents.
const Extension = ".vue"

// IsDocument reports whether name carries the document extension.
func IsDocument(name string) bool {
	return strings.HasSuffix(name, Extension)
}

// ErrMalformedDocument is recorded when the markup does not parse cleanly.
var ErrMalformedDocument = errors.New("document contains syntax errors")

// Block is one top-level section of a document.
type Block struct {
	Type    string
	Content string
	// Attrs holds the block's attributes; valueless attributes map to "true".
	Attrs map[string]string
	Lang  string
	Setup bool
	// Start and End delimit Content as byte offsets into the document.
	Start int
	End   int
}

// Descriptor is the structural breakdown of a document.
type Descriptor struct {
	Filename     string
	Source       string
	Template     *Block
	Script       *Block
	ScriptSetup  *Block
	Styles       []Block
	CustomBlocks []Block
	// Errors collects recoverable problems found while parsing.
	Errors []error
}

// ScriptBlocks returns the script sections in document order.
func (d *Descriptor) ScriptBlocks() []*Block {
	var blocks []*Block
	if d.Script != nil {
		blocks = append(blocks, d.Script)
	}
	if d.ScriptSetup != nil {
		blocks = append(blocks, d.ScriptSetup)
	}
	sort.Slice(blocks, func(i, j int) bool {
		return blocks[i].Start < blocks[j].Start
	})
	return blocks
}

// WantsSourceMap reports whether a script block asks for a source map.
func (d *Descriptor) WantsSourceMap() bool {
	for _, block := range d.ScriptBlocks() {
		if _, ok := block.Attrs["sourceMap"]; ok {
			return true
		}
		if _, ok := block.Attrs["sourcemap"]; ok {
			return true
		}
	}
	return false
}

// ParseDocument splits source into its top-level blocks. Only a failure of the
// parser itself is returned as an error; malformed markup and duplicate blocks
// are recorded in Descriptor.Errors and parsing carries on.
func ParseDocument(filename string, source []byte) (*Descriptor, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(html.GetLanguage())

	tree, err := parser.ParseCtx(context.Background(), nil, source)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filename, err)
	}
	defer tree.Close()

	desc := &Descriptor{
		Filename: filename,
		Source:   string(source),
	}

	root := tree.RootNode()
	if root.HasError() {
		desc.Errors = append(desc.Errors, ErrMalformedDocument)
	}

	for i := 0; i < int(root.NamedChildCount()); i++ {
		child := root.NamedChild(i)
		if child == nil {
			continue
		}

		switch child.Type() {
		case "script_element":
			desc.addScript(rawTextBlock(child, source, "script"))
		case "style_element":
			desc.Styles = append(desc.Styles, rawTextBlock(child, source, "style"))
		case "element":
			block, ok := elementBlock(child, source)
			if !ok {
				continue
			}
			if block.Type == "template" {
				if desc.Template != nil {
					desc.Errors = append(desc.Errors, fmt.Errorf("%s: duplicate <template> block", filename))
					continue
				}
				desc.Template = &block
				continue
			}
			desc.CustomBlocks = append(desc.CustomBlocks, block)
		}
	}

	return desc, nil
}

func (d *Descriptor) addScript(block Block) {
	target := &d.Script
	label := "<script>"
	if block.Setup {
		target = &d.ScriptSetup
		label = "<script setup>"
	}
	if *target != nil {
		d.Errors = append(d.Errors, fmt.Errorf("%s: duplicate %s block", d.Filename, label))
		return
	}
	*target = &block
}

// rawTextBlock reads a script or style element whose body is a raw_text node.
func rawTextBlock(node *sitter.Node, source []byte, blockType string) Block {
	block := Block{Type: blockType, Attrs: map[string]string{}}

	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child == nil {
			continue
		}
		switch child.Type() {
		case "start_tag":
			block.Attrs = tagAttributes(child, source)
			block.Start = int(child.EndByte())
			block.End = block.Start
		case "raw_text":
			block.Start = int(child.StartByte())
			block.End = int(child.EndByte())
		}
	}

	block.Content = string(source[block.Start:block.End])
	block.Lang = block.Attrs["lang"]
	_, block.Setup = block.Attrs["setup"]
	return block
}

// elementBlock reads a generic top-level element such as <template>.
func elementBlock(node *sitter.Node, source []byte) (Block, bool) {
	var startTag, endTag *sitter.Node
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child == nil {
			continue
		}
		switch child.Type() {
		case "start_tag":
			startTag = child
		case "end_tag":
			endTag = child
		}
	}
	if startTag == nil {
		return Block{}, false
	}

	block := Block{
		Type:  tagName(startTag, source),
		Attrs: tagAttributes(startTag, source),
		Start: int(startTag.EndByte()),
		End:   int(node.EndByte()),
	}
	if endTag != nil {
		block.End = int(endTag.StartByte())
	}
	block.Content = string(source[block.Start:block.End])
	block.Lang = block.Attrs["lang"]
	return block, true
}

func tagName(tag *sitter.Node, source []byte) string {
	for i := 0; i < int(tag.NamedChildCount()); i++ {
		child := tag.NamedChild(i)
		if child != nil && child.Type() == "tag_name" {
			return strings.ToLower(child.Content(source))
		}
	}
	return ""
}

func tagAttributes(tag *sitter.Node, source []byte) map[string]string {
	attrs := map[string]string{}
	for i := 0; i < int(tag.NamedChildCount()); i++ {
		attr := tag.NamedChild(i)
		if attr == nil || attr.Type() != "attribute" {
			continue
		}

		name, value := "", "true"
		for j := 0; j < int(attr.NamedChildCount()); j++ {
			part := attr.NamedChild(j)
			if part == nil {
				continue
			}
			switch part.Type() {
			case "attribute_name":
				name = part.Content(source)
			case "attribute_value":
				value = part.Content(source)
			case "quoted_attribute_value":
				value = strings.Trim(part.Content(source), `"'`)
			}
		}
		if name != "" {
			attrs[name] = value
		}
	}
	return attrs
}
