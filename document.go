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
	"strings"
)

const schemaName = "DocverterDocument"
const schemaVersion = "1.0.0"

// Origin describes where a document came from.
type Origin struct {
	Filename string
	MIMEType string
}

// Document is the converted representation of one input file: a flat list
// of items in document order, plus export operations.
type Document struct {
	Name   string
	Title  string
	Origin Origin

	// Paginated is set by pipelines that assemble page-oriented formats.
	Paginated bool

	items []Item
}

// NewDocument creates an empty document.
func NewDocument(origin Origin) *Document {
	return &Document{Origin: origin}
}

// AddItem appends an item to the document.
func (d *Document) AddItem(it Item) {
	d.items = append(d.items, it)
}

// Items returns the document's items in document order.
func (d *Document) Items() []Item {
	return d.items
}

// NumItems returns the number of items in the document.
func (d *Document) NumItems() int { return len(d.items) }

// ExportMarkdown serializes the document as Markdown.
func (d *Document) ExportMarkdown() string {
	var b strings.Builder
	for _, it := range d.items {
		switch el := it.(type) {
		case *Heading:
			level := el.Level
			if level < 1 {
				level = 1
			}
			if level > 6 {
				level = 6
			}
			fmt.Fprintf(&b, "%s %s\n\n", strings.Repeat("#", level), el.Text)
		case *Paragraph:
			b.WriteString(el.Text)
			b.WriteString("\n\n")
		case *ListItem:
			marker := "-"
			if el.Ordered {
				marker = "1."
			}
			fmt.Fprintf(&b, "%s%s %s\n", strings.Repeat("  ", el.Level), marker, el.Text)
		case *Table:
			if el.Caption != "" {
				fmt.Fprintf(&b, "%s\n\n", el.Caption)
			}
			b.WriteString(renderMarkdownTable(el.Cells))
			b.WriteString("\n")
		case *Picture:
			b.WriteString("<!-- image -->\n\n")
		}
	}
	return normalizeOutput(b.String())
}

// ExportText serializes the document as plain text. Tables are rendered as
// tab-separated rows, pictures are omitted.
func (d *Document) ExportText() string {
	var b strings.Builder
	for _, it := range d.items {
		switch el := it.(type) {
		case *Heading:
			b.WriteString(el.Text)
			b.WriteString("\n\n")
		case *Paragraph:
			b.WriteString(el.Text)
			b.WriteString("\n\n")
		case *ListItem:
			b.WriteString(el.Text)
			b.WriteString("\n")
		case *Table:
			if el.Caption != "" {
				b.WriteString(el.Caption)
				b.WriteString("\n")
			}
			for _, row := range el.Cells {
				b.WriteString(strings.Join(row, "\t"))
				b.WriteString("\n")
			}
			b.WriteString("\n")
		}
	}
	return strings.TrimSpace(b.String()) + "\n"
}

// ExportDict returns a stable structured form of the document, shared by
// the JSON and YAML exports.
func (d *Document) ExportDict() map[string]any {
	items := make([]map[string]any, 0, len(d.items))
	for _, it := range d.items {
		items = append(items, itemDict(it))
	}
	return map[string]any{
		"schema_name": schemaName,
		"version":     schemaVersion,
		"name":        d.Name,
		"paginated":   d.Paginated,
		"origin": map[string]any{
			"filename": d.Origin.Filename,
			"mimetype": d.Origin.MIMEType,
		},
		"items": items,
	}
}

func itemDict(it Item) map[string]any {
	m := map[string]any{"kind": it.Kind().String()}
	switch el := it.(type) {
	case *Heading:
		m["text"] = el.Text
		m["level"] = el.Level
	case *Paragraph:
		m["text"] = el.Text
	case *ListItem:
		m["text"] = el.Text
		m["ordered"] = el.Ordered
		m["level"] = el.Level
	case *Table:
		m["caption"] = el.Caption
		m["num_rows"] = el.NumRows()
		m["num_cols"] = el.NumCols()
		m["cells"] = el.Cells
	case *Picture:
		m["caption"] = el.Caption
		m["alt_text"] = el.AltText
		m["has_image"] = el.HasImage()
	}
	return m
}

// renderMarkdownTable renders a 2D string slice as a markdown table.
func renderMarkdownTable(records [][]string) string {
	if len(records) == 0 {
		return ""
	}

	numCols := len(records[0])

	var b strings.Builder

	b.WriteString("| ")
	for i := 0; i < numCols; i++ {
		if i < len(records[0]) {
			b.WriteString(records[0][i])
		}
		b.WriteString(" | ")
	}
	b.WriteString("\n")

	b.WriteString("| ")
	for i := 0; i < numCols; i++ {
		b.WriteString("---")
		b.WriteString(" | ")
	}
	b.WriteString("\n")

	for _, row := range records[1:] {
		b.WriteString("| ")
		for i := 0; i < numCols; i++ {
			if i < len(row) {
				b.WriteString(row[i])
			}
			b.WriteString(" | ")
		}
		b.WriteString("\n")
	}

	return b.String()
}
