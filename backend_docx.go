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
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/nicholasgasior/docverter-go/internal/ooxml"
)

// DocxBackend parses DOCX files: body paragraphs become headings, list
// items or paragraphs depending on their style and numbering, tables
// become table items, and embedded drawings become picture items.
type DocxBackend struct{}

// NewDocxBackend creates a new DocxBackend.
func NewDocxBackend() *DocxBackend {
	return &DocxBackend{}
}

func (b *DocxBackend) Parse(reader io.ReadSeeker, info StreamInfo) (*Document, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("read DOCX: %w", err)
	}

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open DOCX package: %w", err)
	}

	rels, _ := ooxml.ParseRelationships(zr, "word/_rels/document.xml.rels")
	styles := b.parseStyles(zr)

	docData, err := ooxml.ReadPart(zr, "word/document.xml")
	if err != nil {
		return nil, fmt.Errorf("read document.xml: %w", err)
	}

	root, err := ooxml.ParseTree(docData)
	if err != nil {
		return nil, fmt.Errorf("parse document.xml: %w", err)
	}

	body := root.FindDeep("body")
	if body == nil {
		return nil, fmt.Errorf("document.xml has no body")
	}

	doc := NewDocument(Origin{Filename: info.Filename, MIMEType: info.MIMEType})

	for i := range body.Children {
		node := &body.Children[i]
		switch node.XMLName.Local {
		case "p":
			b.addParagraph(doc, zr, node, rels, styles)
		case "tbl":
			if tbl := b.parseTable(node); tbl != nil {
				doc.AddItem(tbl)
			}
		}
	}

	return doc, nil
}

// addParagraph classifies one w:p node and appends the resulting items.
// A paragraph may contribute both its embedded pictures and its text.
func (b *DocxBackend) addParagraph(doc *Document, zr *zip.Reader, p *ooxml.Node, rels map[string]ooxml.Relationship, styles map[string]string) {
	// Embedded drawings first: a:blip r:embed references a media part
	for _, blip := range p.FindAllDeep("blip") {
		rid := blip.Attr("embed")
		if rid == "" {
			continue
		}
		pic := &Picture{AltText: b.drawingAltText(p)}
		if rel, ok := rels[rid]; ok {
			target := ooxml.ResolveTarget("word/document.xml", rel.Target)
			if payload, err := ooxml.ReadPart(zr, target); err == nil {
				pic.Data = payload
			}
		}
		doc.AddItem(pic)
	}

	text := strings.TrimSpace(b.paragraphText(p))
	if text == "" {
		return
	}

	if level := b.headingLevel(p, styles); level > 0 {
		doc.AddItem(&Heading{Text: text, Level: level})
		return
	}

	if numPr := p.FindDeep("numPr"); numPr != nil {
		level := 0
		if ilvl := numPr.Child("ilvl"); ilvl != nil {
			level, _ = strconv.Atoi(ilvl.Attr("val"))
		}
		doc.AddItem(&ListItem{Text: text, Level: level})
		return
	}

	doc.AddItem(&Paragraph{Text: text})
}

// paragraphText joins the w:t runs of a paragraph, honoring w:br and w:tab.
func (b *DocxBackend) paragraphText(p *ooxml.Node) string {
	var sb strings.Builder
	var walk func(n *ooxml.Node)
	walk = func(n *ooxml.Node) {
		switch n.XMLName.Local {
		case "t":
			sb.WriteString(n.AllText())
			return
		case "br":
			sb.WriteString(" ")
			return
		case "tab":
			sb.WriteString("\t")
			return
		case "tbl":
			// Nested tables are handled separately
			return
		}
		for i := range n.Children {
			walk(&n.Children[i])
		}
	}
	walk(p)
	return sb.String()
}

// headingLevel returns the heading level of a paragraph, or 0.
func (b *DocxBackend) headingLevel(p *ooxml.Node, styles map[string]string) int {
	pPr := p.Child("pPr")
	if pPr == nil {
		return 0
	}
	pStyle := pPr.Child("pStyle")
	if pStyle == nil {
		return 0
	}
	styleID := pStyle.Attr("val")

	name := styles[styleID]
	if name == "" {
		name = styleID
	}
	name = strings.ToLower(strings.ReplaceAll(name, " ", ""))

	if name == "title" {
		return 1
	}
	if rest, ok := strings.CutPrefix(name, "heading"); ok {
		if level, err := strconv.Atoi(rest); err == nil && level >= 1 && level <= 9 {
			if level > 6 {
				level = 6
			}
			return level
		}
	}
	return 0
}

// parseTable converts a w:tbl node into a Table item.
func (b *DocxBackend) parseTable(tbl *ooxml.Node) *Table {
	var cells [][]string
	for _, tr := range tbl.ChildrenNamed("tr") {
		var row []string
		for _, tc := range tr.ChildrenNamed("tc") {
			var parts []string
			for _, p := range tc.ChildrenNamed("p") {
				if t := strings.TrimSpace(b.paragraphText(p)); t != "" {
					parts = append(parts, t)
				}
			}
			row = append(row, strings.Join(parts, " "))
		}
		if len(row) > 0 {
			cells = append(cells, row)
		}
	}
	if len(cells) == 0 {
		return nil
	}
	return &Table{Cells: padRows(cells)}
}

// drawingAltText pulls the wp:docPr descr/name for a drawing, if any.
func (b *DocxBackend) drawingAltText(p *ooxml.Node) string {
	docPr := p.FindDeep("docPr")
	if docPr == nil {
		return ""
	}
	if descr := docPr.Attr("descr"); descr != "" {
		return descr
	}
	return docPr.Attr("name")
}

// parseStyles maps style IDs to style names from word/styles.xml.
func (b *DocxBackend) parseStyles(zr *zip.Reader) map[string]string {
	styles := make(map[string]string)
	data, err := ooxml.ReadPart(zr, "word/styles.xml")
	if err != nil {
		return styles
	}
	root, err := ooxml.ParseTree(data)
	if err != nil {
		return styles
	}
	for _, style := range root.ChildrenNamed("style") {
		id := style.Attr("styleId")
		if id == "" {
			continue
		}
		if name := style.Child("name"); name != nil {
			styles[id] = name.Attr("val")
		}
	}
	return styles
}
