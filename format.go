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
	"io"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// InputFormat identifies the format of an input document.
type InputFormat int

const (
	FormatUnknown InputFormat = iota
	FormatPDF
	FormatDOCX
	FormatPPTX
	FormatXLSX
	FormatXLS
	FormatHTML
	FormatMarkdown
	FormatAsciiDoc
	FormatCSV
	FormatFeed
	FormatImage
)

func (f InputFormat) String() string {
	switch f {
	case FormatPDF:
		return "pdf"
	case FormatDOCX:
		return "docx"
	case FormatPPTX:
		return "pptx"
	case FormatXLSX:
		return "xlsx"
	case FormatXLS:
		return "xls"
	case FormatHTML:
		return "html"
	case FormatMarkdown:
		return "md"
	case FormatAsciiDoc:
		return "asciidoc"
	case FormatCSV:
		return "csv"
	case FormatFeed:
		return "feed"
	case FormatImage:
		return "image"
	default:
		return "unknown"
	}
}

// formatByExtension maps file extensions to input formats.
var formatByExtension = map[string]InputFormat{
	".pdf":      FormatPDF,
	".docx":     FormatDOCX,
	".pptx":     FormatPPTX,
	".xlsx":     FormatXLSX,
	".xls":      FormatXLS,
	".html":     FormatHTML,
	".htm":      FormatHTML,
	".xhtml":    FormatHTML,
	".md":       FormatMarkdown,
	".markdown": FormatMarkdown,
	".adoc":     FormatAsciiDoc,
	".asciidoc": FormatAsciiDoc,
	".asc":      FormatAsciiDoc,
	".csv":      FormatCSV,
	".rss":      FormatFeed,
	".atom":     FormatFeed,
	".xml":      FormatFeed,
	".png":      FormatImage,
	".jpg":      FormatImage,
	".jpeg":     FormatImage,
	".gif":      FormatImage,
	".bmp":      FormatImage,
	".tif":      FormatImage,
	".tiff":     FormatImage,
	".webp":     FormatImage,
}

// formatByMIME maps MIME type prefixes to input formats. Checked in order
// so that the more specific prefixes win.
var formatByMIME = []struct {
	prefix string
	format InputFormat
}{
	{"application/pdf", FormatPDF},
	{"application/vnd.openxmlformats-officedocument.wordprocessingml.document", FormatDOCX},
	{"application/vnd.openxmlformats-officedocument.presentationml", FormatPPTX},
	{"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", FormatXLSX},
	{"application/vnd.ms-excel", FormatXLS},
	{"text/html", FormatHTML},
	{"application/xhtml", FormatHTML},
	{"text/markdown", FormatMarkdown},
	{"text/csv", FormatCSV},
	{"application/csv", FormatCSV},
	{"application/rss", FormatFeed},
	{"application/atom", FormatFeed},
	{"image/", FormatImage},
}

// DetectFormat determines the input format from content sniffing with an
// extension fallback. The reader position is restored to the start.
func DetectFormat(r io.ReadSeeker, ext string) (InputFormat, string) {
	ext = strings.ToLower(ext)

	mime := detectMIMEType(r, ext)
	r.Seek(0, io.SeekStart)

	// Extension beats sniffing for text-shaped formats: markdown, asciidoc
	// and csv all sniff as text/plain.
	if f, ok := formatByExtension[ext]; ok {
		switch f {
		case FormatMarkdown, FormatAsciiDoc, FormatCSV, FormatFeed:
			return f, mime
		}
	}

	lower := strings.ToLower(mime)
	for _, entry := range formatByMIME {
		if strings.HasPrefix(lower, entry.prefix) {
			return entry.format, mime
		}
	}

	if f, ok := formatByExtension[ext]; ok {
		return f, mime
	}

	return FormatUnknown, mime
}

// detectMIMEType detects the MIME type from content and extension.
func detectMIMEType(r io.ReadSeeker, ext string) string {
	mtype, err := mimetype.DetectReader(r)
	if err == nil && mtype.String() != "application/octet-stream" {
		return mtype.String()
	}
	return mimeFromExtension(ext)
}

// mimeFromExtension returns a MIME type for common extensions.
func mimeFromExtension(ext string) string {
	extMap := map[string]string{
		".pdf":      "application/pdf",
		".docx":     "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		".pptx":     "application/vnd.openxmlformats-officedocument.presentationml.presentation",
		".xlsx":     "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		".xls":      "application/vnd.ms-excel",
		".html":     "text/html",
		".htm":      "text/html",
		".csv":      "text/csv",
		".md":       "text/markdown",
		".markdown": "text/markdown",
		".adoc":     "text/asciidoc",
		".asciidoc": "text/asciidoc",
		".xml":      "text/xml",
		".rss":      "application/rss+xml",
		".atom":     "application/atom+xml",
		".png":      "image/png",
		".jpg":      "image/jpeg",
		".jpeg":     "image/jpeg",
		".gif":      "image/gif",
		".bmp":      "image/bmp",
		".tiff":     "image/tiff",
		".webp":     "image/webp",
	}
	if m, ok := extMap[ext]; ok {
		return m
	}
	return "application/octet-stream"
}
