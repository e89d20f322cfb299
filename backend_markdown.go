// Copyright 2026 Conductor OSS
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.

package docverter

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

// MarkdownBackend parses Markdown files through goldmark with GFM tables.
type MarkdownBackend struct {
	md goldmark.Markdown
}

// NewMarkdownBackend creates a new MarkdownBackend.
func NewMarkdownBackend() *MarkdownBackend {
	return &MarkdownBackend{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
		),
	}
}

func (b *MarkdownBackend) Parse(reader io.ReadSeeker, info StreamInfo) (*Document, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("read markdown: %w", err)
	}

	source := []byte(decodeText(data, info.Charset))
	root := b.md.Parser().Parse(text.NewReader(source))

	doc := NewDocument(Origin{Filename: info.Filename, MIMEType: info.MIMEType})

	err = ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *ast.Heading:
			doc.AddItem(&Heading{
				Text:  strings.TrimSpace(blockText(node, source)),
				Level: node.Level,
			})
			return ast.WalkSkipChildren, nil
		case *ast.Paragraph:
			if _, inList := node.Parent().(*ast.ListItem); inList {
				return ast.WalkSkipChildren, nil
			}
			addMarkdownImages(doc, node, source, info.LocalPath)
			if t := strings.TrimSpace(blockText(node, source)); t != "" {
				doc.AddItem(&Paragraph{Text: t})
			}
			return ast.WalkSkipChildren, nil
		case *ast.FencedCodeBlock, *ast.CodeBlock:
			if t := strings.TrimRight(blockText(n, source), "\n"); t != "" {
				doc.AddItem(&Paragraph{Text: t})
			}
			return ast.WalkSkipChildren, nil
		case *ast.ListItem:
			ordered := false
			level := 0
			if list, ok := node.Parent().(*ast.List); ok {
				ordered = list.IsOrdered()
			}
			for p := node.Parent(); p != nil; p = p.Parent() {
				if _, ok := p.(*ast.ListItem); ok {
					level++
				}
			}
			if t := strings.TrimSpace(listItemText(node, source)); t != "" {
				doc.AddItem(&ListItem{Text: t, Ordered: ordered, Level: level})
			}
			return ast.WalkContinue, nil
		case *east.Table:
			if tbl := parseMarkdownTable(node, source); tbl != nil {
				doc.AddItem(tbl)
			}
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk markdown AST: %w", err)
	}

	return doc, nil
}

// blockText concatenates a block node's source lines.
func blockText(n ast.Node, source []byte) string {
	var sb strings.Builder
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		sb.Write(seg.Value(source))
	}
	return sb.String()
}

// listItemText returns the text of a list item's own block, excluding
// nested lists.
func listItemText(li ast.Node, source []byte) string {
	var parts []string
	for c := li.FirstChild(); c != nil; c = c.NextSibling() {
		switch c.(type) {
		case *ast.Paragraph, *ast.TextBlock:
			if t := strings.TrimSpace(blockText(c, source)); t != "" {
				parts = append(parts, t)
			}
		}
	}
	return strings.Join(parts, " ")
}

// addMarkdownImages emits a Picture per image reference in a paragraph.
// Relative destinations resolve against the source file's directory so
// local images carry their payload.
func addMarkdownImages(doc *Document, p ast.Node, source []byte, localPath string) {
	_ = ast.Walk(p, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		img, ok := n.(*ast.Image)
		if !ok {
			return ast.WalkContinue, nil
		}
		pic := &Picture{AltText: string(img.Text(source))}
		dest := string(img.Destination)
		if localPath != "" && dest != "" && !strings.Contains(dest, "://") {
			if payload, err := os.ReadFile(filepath.Join(filepath.Dir(localPath), dest)); err == nil {
				pic.Data = payload
			}
		}
		doc.AddItem(pic)
		return ast.WalkSkipChildren, nil
	})
}

// parseMarkdownTable converts a GFM table node into a Table item.
func parseMarkdownTable(tbl ast.Node, source []byte) *Table {
	var cells [][]string
	for row := tbl.FirstChild(); row != nil; row = row.NextSibling() {
		var r []string
		for cell := row.FirstChild(); cell != nil; cell = cell.NextSibling() {
			r = append(r, strings.TrimSpace(string(cell.Text(source))))
		}
		if len(r) > 0 {
			cells = append(cells, r)
		}
	}
	if len(cells) == 0 {
		return nil
	}
	return &Table{Cells: padRows(cells)}
}
