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
	"bytes"
	"image"
)

// ItemKind identifies the kind of a document item.
type ItemKind int

const (
	KindUnknown ItemKind = iota
	KindHeading
	KindParagraph
	KindListItem
	KindTable
	KindPicture
)

func (k ItemKind) String() string {
	switch k {
	case KindHeading:
		return "heading"
	case KindParagraph:
		return "paragraph"
	case KindListItem:
		return "list_item"
	case KindTable:
		return "table"
	case KindPicture:
		return "picture"
	default:
		return "unknown"
	}
}

// Item is a single element of a converted document. Concrete types are
// Heading, Paragraph, ListItem, Table and Picture.
type Item interface {
	Kind() ItemKind
}

// Heading is a section heading with a level between 1 and 6.
type Heading struct {
	Text  string
	Level int
}

func (h *Heading) Kind() ItemKind { return KindHeading }

// Paragraph is a block of running text.
type Paragraph struct {
	Text string
}

func (p *Paragraph) Kind() ItemKind { return KindParagraph }

// ListItem is a single entry of an ordered or unordered list.
type ListItem struct {
	Text    string
	Ordered bool
	Level   int
}

func (l *ListItem) Kind() ItemKind { return KindListItem }

// Table is a rectangular grid of cells. The first row is treated as the
// header row by the Markdown export.
type Table struct {
	Caption string
	Cells   [][]string

	imageScale float64
}

func (t *Table) Kind() ItemKind { return KindTable }

// NumRows returns the number of rows in the table.
func (t *Table) NumRows() int { return len(t.Cells) }

// NumCols returns the widest row of the table.
func (t *Table) NumCols() int {
	n := 0
	for _, row := range t.Cells {
		if len(row) > n {
			n = len(row)
		}
	}
	return n
}

// SetImageScale sets the scale factor used when the table is rendered to an
// image. Called by pipelines that enable image generation.
func (t *Table) SetImageScale(scale float64) { t.imageScale = scale }

// RenderImage rasterizes the table grid. The second return value is false
// when the table has no cells to draw; that is a valid state, not an error.
func (t *Table) RenderImage() (image.Image, bool) {
	if t.NumRows() == 0 || t.NumCols() == 0 {
		return nil, false
	}
	scale := t.imageScale
	if scale <= 0 {
		scale = 1.0
	}
	return rasterizeGrid(t.Cells, scale), true
}

// Picture is an embedded image. Data holds the raw encoded payload as found
// in the source document; it may be empty when the source referenced an
// image without embedding it.
type Picture struct {
	Caption string
	AltText string
	Data    []byte

	imageScale float64
}

func (p *Picture) Kind() ItemKind { return KindPicture }

// SetImageScale sets the scale factor applied when the picture is rendered.
func (p *Picture) SetImageScale(scale float64) { p.imageScale = scale }

// HasImage reports whether the picture carries a decodable payload.
func (p *Picture) HasImage() bool {
	if len(p.Data) == 0 {
		return false
	}
	_, _, err := image.DecodeConfig(bytes.NewReader(p.Data))
	return err == nil
}

// RenderImage decodes the embedded payload, scaled by the pipeline's image
// scale when one was set. The second return value is false when the payload
// is absent or undecodable; that is a valid state, not an error.
func (p *Picture) RenderImage() (image.Image, bool) {
	if len(p.Data) == 0 {
		return nil, false
	}
	img, _, err := image.Decode(bytes.NewReader(p.Data))
	if err != nil {
		return nil, false
	}
	if p.imageScale > 0 && p.imageScale != 1.0 {
		img = scaleImage(img, p.imageScale)
	}
	return img, true
}
