package docverter

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// AsciiDocBackend parses AsciiDoc files with a line-oriented reader:
// section titles, lists, delimited tables, block images and paragraphs.
type AsciiDocBackend struct{}

// NewAsciiDocBackend creates a new AsciiDocBackend.
func NewAsciiDocBackend() *AsciiDocBackend {
	return &AsciiDocBackend{}
}

func (b *AsciiDocBackend) Parse(reader io.ReadSeeker, info StreamInfo) (*Document, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("read asciidoc: %w", err)
	}

	doc := NewDocument(Origin{Filename: info.Filename, MIMEType: info.MIMEType})

	var paragraph []string
	flush := func() {
		if len(paragraph) > 0 {
			doc.AddItem(&Paragraph{Text: strings.Join(paragraph, " ")})
			paragraph = nil
		}
	}

	inTable := false
	var tableRows [][]string

	scanner := bufio.NewScanner(strings.NewReader(decodeText(data, info.Charset)))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := scanner.Text()
		trimmed := strings.TrimSpace(line)

		if trimmed == "|===" {
			flush()
			if inTable {
				if len(tableRows) > 0 {
					doc.AddItem(&Table{Cells: padRows(tableRows)})
				}
				tableRows = nil
			}
			inTable = !inTable
			continue
		}

		if inTable {
			if strings.HasPrefix(trimmed, "|") {
				var row []string
				for _, cell := range strings.Split(trimmed, "|")[1:] {
					row = append(row, strings.TrimSpace(cell))
				}
				tableRows = append(tableRows, row)
			}
			continue
		}

		if trimmed == "" {
			flush()
			continue
		}

		// Comment lines
		if strings.HasPrefix(trimmed, "//") {
			continue
		}

		if level, text, ok := asciidocHeading(trimmed); ok {
			flush()
			doc.AddItem(&Heading{Text: text, Level: level})
			continue
		}

		if marker, text, ok := asciidocListItem(trimmed); ok {
			flush()
			doc.AddItem(&ListItem{
				Text:    text,
				Ordered: marker == '.',
				Level:   0,
			})
			continue
		}

		if target, alt, ok := asciidocBlockImage(trimmed); ok {
			flush()
			pic := &Picture{AltText: alt}
			if info.LocalPath != "" && !strings.Contains(target, "://") {
				if payload, err := os.ReadFile(filepath.Join(filepath.Dir(info.LocalPath), target)); err == nil {
					pic.Data = payload
				}
			}
			doc.AddItem(pic)
			continue
		}

		paragraph = append(paragraph, trimmed)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan asciidoc: %w", err)
	}
	flush()
	if inTable && len(tableRows) > 0 {
		doc.AddItem(&Table{Cells: padRows(tableRows)})
	}

	return doc, nil
}

// asciidocHeading matches "= Title" through "====== Title".
func asciidocHeading(line string) (level int, text string, ok bool) {
	n := 0
	for n < len(line) && line[n] == '=' {
		n++
	}
	if n == 0 || n > 6 || n >= len(line) || line[n] != ' ' {
		return 0, "", false
	}
	return n, strings.TrimSpace(line[n:]), true
}

// asciidocListItem matches "* item" and ". item" markers.
func asciidocListItem(line string) (marker byte, text string, ok bool) {
	for _, m := range []byte{'*', '.'} {
		n := 0
		for n < len(line) && line[n] == m {
			n++
		}
		if n > 0 && n < len(line) && line[n] == ' ' {
			return m, strings.TrimSpace(line[n:]), true
		}
	}
	return 0, "", false
}

// asciidocBlockImage matches "image::target[alt]".
func asciidocBlockImage(line string) (target, alt string, ok bool) {
	rest, found := strings.CutPrefix(line, "image::")
	if !found {
		return "", "", false
	}
	open := strings.Index(rest, "[")
	if open < 0 || !strings.HasSuffix(rest, "]") {
		return "", "", false
	}
	return rest[:open], strings.TrimSuffix(rest[open+1:], "]"), true
}
