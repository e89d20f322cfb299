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
	"sort"
	"strconv"
	"strings"

	"github.com/nicholasgasior/docverter-go/internal/ooxml"
)

// PptxBackend parses PPTX files slide by slide: title placeholders become
// headings, body text frames become paragraphs, graphic frames become
// tables and pictures carry their embedded media payload.
type PptxBackend struct{}

// NewPptxBackend creates a new PptxBackend.
func NewPptxBackend() *PptxBackend {
	return &PptxBackend{}
}

func (b *PptxBackend) Parse(reader io.ReadSeeker, info StreamInfo) (*Document, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("read PPTX: %w", err)
	}

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open PPTX package: %w", err)
	}

	slidePaths, err := b.slideOrder(zr)
	if err != nil {
		return nil, fmt.Errorf("get slide order: %w", err)
	}

	doc := NewDocument(Origin{Filename: info.Filename, MIMEType: info.MIMEType})

	for _, slidePath := range slidePaths {
		slideData, err := ooxml.ReadPart(zr, slidePath)
		if err != nil {
			continue
		}
		root, err := ooxml.ParseTree(slideData)
		if err != nil {
			continue
		}

		rels, _ := ooxml.ParseRelationships(zr, ooxml.RelsPathFor(slidePath))
		b.addSlide(doc, zr, root, rels, slidePath)
	}

	return doc, nil
}

// slideOrder returns slide part paths in presentation order.
func (b *PptxBackend) slideOrder(zr *zip.Reader) ([]string, error) {
	presData, err := ooxml.ReadPart(zr, "ppt/presentation.xml")
	if err != nil {
		return nil, err
	}

	rels, _ := ooxml.ParseRelationships(zr, "ppt/_rels/presentation.xml.rels")

	root, err := ooxml.ParseTree(presData)
	if err != nil {
		return nil, err
	}

	var slidePaths []string
	for _, sldID := range root.FindAllDeep("sldId") {
		// p:sldId carries both a numeric id and r:id; only the latter is a
		// relationship reference.
		rid := ""
		for _, a := range sldID.Attrs {
			if a.Name.Local == "id" && strings.Contains(a.Name.Space, "relationships") {
				rid = a.Value
				break
			}
		}
		if rel, ok := rels[rid]; ok {
			slidePaths = append(slidePaths, ooxml.ResolveTarget("ppt/presentation.xml", rel.Target))
		}
	}

	if len(slidePaths) == 0 {
		for _, f := range zr.File {
			if strings.HasPrefix(f.Name, "ppt/slides/slide") && strings.HasSuffix(f.Name, ".xml") {
				slidePaths = append(slidePaths, f.Name)
			}
		}
		sort.Strings(slidePaths)
	}

	return slidePaths, nil
}

// pptxShape is one positioned shape on a slide.
type pptxShape struct {
	top     int64
	left    int64
	item    Item
	isTitle bool
}

// addSlide extracts shapes from one slide in top-to-bottom, left-to-right
// order and appends the resulting items.
func (b *PptxBackend) addSlide(doc *Document, zr *zip.Reader, root *ooxml.Node, rels map[string]ooxml.Relationship, slidePath string) {
	var shapes []pptxShape
	b.collectShapes(zr, root, rels, slidePath, &shapes)

	sort.SliceStable(shapes, func(i, j int) bool {
		if shapes[i].top != shapes[j].top {
			return shapes[i].top < shapes[j].top
		}
		return shapes[i].left < shapes[j].left
	})

	for _, shape := range shapes {
		doc.AddItem(shape.item)
	}
}

func (b *PptxBackend) collectShapes(zr *zip.Reader, node *ooxml.Node, rels map[string]ooxml.Relationship, slidePath string, shapes *[]pptxShape) {
	switch node.XMLName.Local {
	case "sp":
		if shape := b.textShape(node); shape != nil {
			*shapes = append(*shapes, *shape)
		}
		return
	case "pic":
		if shape := b.pictureShape(zr, node, rels, slidePath); shape != nil {
			*shapes = append(*shapes, *shape)
		}
		return
	case "graphicFrame":
		if shape := b.tableShape(node); shape != nil {
			*shapes = append(*shapes, *shape)
		}
		return
	}
	for i := range node.Children {
		b.collectShapes(zr, &node.Children[i], rels, slidePath, shapes)
	}
}

// textShape extracts a text shape as a heading (title placeholders) or a
// paragraph.
func (b *PptxBackend) textShape(sp *ooxml.Node) *pptxShape {
	var lines []string
	for _, para := range sp.FindAllDeep("p") {
		var sb strings.Builder
		for _, t := range para.FindAllDeep("t") {
			sb.WriteString(t.AllText())
		}
		if text := strings.TrimSpace(sb.String()); text != "" {
			lines = append(lines, text)
		}
	}
	text := strings.TrimSpace(strings.Join(lines, "\n"))
	if text == "" {
		return nil
	}

	isTitle := false
	if ph := sp.FindDeep("ph"); ph != nil {
		switch ph.Attr("type") {
		case "title", "ctrTitle":
			isTitle = true
		}
	}

	top, left := shapeOffset(sp)
	shape := &pptxShape{top: top, left: left, isTitle: isTitle}
	if isTitle {
		shape.item = &Heading{Text: strings.ReplaceAll(text, "\n", " "), Level: 1}
	} else {
		shape.item = &Paragraph{Text: text}
	}
	return shape
}

// pictureShape extracts a p:pic with its embedded media payload.
func (b *PptxBackend) pictureShape(zr *zip.Reader, pic *ooxml.Node, rels map[string]ooxml.Relationship, slidePath string) *pptxShape {
	item := &Picture{}

	if cNvPr := pic.FindDeep("cNvPr"); cNvPr != nil {
		if descr := cNvPr.Attr("descr"); descr != "" {
			item.AltText = descr
		} else {
			item.AltText = cNvPr.Attr("name")
		}
	}

	if blip := pic.FindDeep("blip"); blip != nil {
		rid := blip.Attr("embed")
		if rel, ok := rels[rid]; ok {
			target := ooxml.ResolveTarget(slidePath, rel.Target)
			if payload, err := ooxml.ReadPart(zr, target); err == nil {
				item.Data = payload
			}
		}
	}

	top, left := shapeOffset(pic)
	return &pptxShape{top: top, left: left, item: item}
}

// tableShape extracts an a:tbl inside a graphic frame.
func (b *PptxBackend) tableShape(frame *ooxml.Node) *pptxShape {
	tbl := frame.FindDeep("tbl")
	if tbl == nil {
		return nil
	}

	var cells [][]string
	for _, tr := range tbl.ChildrenNamed("tr") {
		var row []string
		for _, tc := range tr.ChildrenNamed("tc") {
			var sb strings.Builder
			for _, t := range tc.FindAllDeep("t") {
				sb.WriteString(t.AllText())
			}
			row = append(row, strings.TrimSpace(sb.String()))
		}
		if len(row) > 0 {
			cells = append(cells, row)
		}
	}
	if len(cells) == 0 {
		return nil
	}

	top, left := shapeOffset(frame)
	return &pptxShape{top: top, left: left, item: &Table{Cells: padRows(cells)}}
}

// shapeOffset returns the EMU offset of a shape's a:off, if present.
func shapeOffset(n *ooxml.Node) (top, left int64) {
	off := n.FindDeep("off")
	if off == nil {
		return 0, 0
	}
	top, _ = strconv.ParseInt(off.Attr("y"), 10, 64)
	left, _ = strconv.ParseInt(off.Attr("x"), 10, 64)
	return top, left
}
