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
	"encoding/base64"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	htmltable "github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"golang.org/x/net/html"
)

// HTMLBackend parses HTML files into document items. Block structure comes
// from the parsed tree; inline content inside each block keeps its
// formatting by going through the HTML-to-markdown converter.
type HTMLBackend struct {
	inline *converter.Converter
}

// NewHTMLBackend creates a new HTMLBackend.
func NewHTMLBackend() *HTMLBackend {
	return &HTMLBackend{
		inline: converter.NewConverter(
			converter.WithPlugins(
				base.NewBasePlugin(),
				commonmark.NewCommonmarkPlugin(
					commonmark.WithHeadingStyle("atx"),
				),
				htmltable.NewTablePlugin(),
			),
		),
	}
}

func (b *HTMLBackend) Parse(reader io.ReadSeeker, info StreamInfo) (*Document, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("read HTML: %w", err)
	}

	htmlStr := decodeText(data, info.Charset)

	root, err := html.Parse(strings.NewReader(htmlStr))
	if err != nil {
		return nil, fmt.Errorf("parse HTML: %w", err)
	}

	doc := NewDocument(Origin{Filename: info.Filename, MIMEType: info.MIMEType})
	doc.Title = findHTMLTitle(root)

	b.walkBlocks(doc, root, false)
	return doc, nil
}

// walkBlocks descends the tree, emitting one item per block element.
func (b *HTMLBackend) walkBlocks(doc *Document, n *html.Node, ordered bool) {
	if n.Type == html.ElementNode {
		switch n.Data {
		case "script", "style", "head", "nav", "noscript":
			return
		case "h1", "h2", "h3", "h4", "h5", "h6":
			level, _ := strconv.Atoi(n.Data[1:])
			if text := strings.TrimSpace(nodeText(n)); text != "" {
				doc.AddItem(&Heading{Text: text, Level: level})
			}
			return
		case "p", "pre", "blockquote":
			if text := b.inlineMarkdown(n); text != "" {
				doc.AddItem(&Paragraph{Text: text})
			}
			return
		case "li":
			if text := b.inlineMarkdown(n); text != "" {
				doc.AddItem(&ListItem{Text: text, Ordered: ordered})
			}
			return
		case "ol":
			ordered = true
		case "ul":
			ordered = false
		case "table":
			if tbl := parseHTMLTable(n); tbl != nil {
				doc.AddItem(tbl)
			}
			return
		case "img":
			doc.AddItem(imageNodePicture(n))
			return
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		b.walkBlocks(doc, c, ordered)
	}
}

// inlineMarkdownString converts an HTML fragment to markdown text.
func (b *HTMLBackend) inlineMarkdownString(fragment string) string {
	md, err := b.inline.ConvertString(fragment)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(md)
}

// inlineMarkdown converts a block node's inner HTML to markdown text.
func (b *HTMLBackend) inlineMarkdown(n *html.Node) string {
	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		return strings.TrimSpace(nodeText(n))
	}
	md, err := b.inline.ConvertString(buf.String())
	if err != nil {
		return strings.TrimSpace(nodeText(n))
	}
	return strings.TrimSpace(md)
}

// parseHTMLTable converts a <table> into a Table item, one row per <tr>.
func parseHTMLTable(table *html.Node) *Table {
	var cells [][]string
	var caption string

	var walkRows func(n *html.Node)
	walkRows = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "caption":
				caption = strings.TrimSpace(nodeText(n))
				return
			case "tr":
				var row []string
				for c := n.FirstChild; c != nil; c = c.NextSibling {
					if c.Type == html.ElementNode && (c.Data == "td" || c.Data == "th") {
						row = append(row, strings.TrimSpace(nodeText(c)))
					}
				}
				if len(row) > 0 {
					cells = append(cells, row)
				}
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walkRows(c)
		}
	}
	walkRows(table)

	if len(cells) == 0 {
		return nil
	}
	return &Table{Caption: caption, Cells: padRows(cells)}
}

// imageNodePicture builds a Picture from an <img>. Inline data URIs keep
// their payload; remote references yield a picture with no image.
func imageNodePicture(img *html.Node) *Picture {
	pic := &Picture{}
	var src string
	for _, attr := range img.Attr {
		switch attr.Key {
		case "alt":
			pic.AltText = attr.Val
		case "src":
			src = attr.Val
		}
	}
	if rest, ok := strings.CutPrefix(src, "data:"); ok {
		if idx := strings.Index(rest, ";base64,"); idx >= 0 {
			if payload, err := base64.StdEncoding.DecodeString(rest[idx+len(";base64,"):]); err == nil {
				pic.Data = payload
			}
		}
	}
	return pic
}

// nodeText extracts the concatenated text content of a node.
func nodeText(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		sb.WriteString(nodeText(c))
	}
	return sb.String()
}

// findHTMLTitle extracts the <title> of an HTML document.
func findHTMLTitle(root *html.Node) string {
	var title string
	var find func(*html.Node)
	find = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "title" {
			if n.FirstChild != nil {
				title = n.FirstChild.Data
			}
			return
		}
		for c := n.FirstChild; c != nil && title == ""; c = c.NextSibling {
			find(c)
		}
	}
	find(root)
	return strings.TrimSpace(title)
}
