package docverter

import (
	"bytes"
	"strings"
	"testing"
)

func TestDetectFormat(t *testing.T) {
	pngPayload := encodeTestPNG(t, 4, 4)

	tests := []struct {
		name    string
		content []byte
		ext     string
		want    InputFormat
	}{
		{"pdf by magic", []byte("%PDF-1.7\n"), ".pdf", FormatPDF},
		{"html by content", []byte("<!DOCTYPE html><html><body>hi</body></html>"), ".html", FormatHTML},
		{"html content with wrong extension", []byte("<!DOCTYPE html><html></html>"), ".txt", FormatHTML},
		{"markdown by extension", []byte("# Title\n\nBody\n"), ".md", FormatMarkdown},
		{"asciidoc by extension", []byte("= Title\n\nBody\n"), ".adoc", FormatAsciiDoc},
		{"csv by extension", []byte("a,b\n1,2\n"), ".csv", FormatCSV},
		{"feed by extension", []byte(`<?xml version="1.0"?><rss version="2.0"><channel></channel></rss>`), ".rss", FormatFeed},
		{"png by magic", pngPayload, ".png", FormatImage},
		{"png magic without extension", pngPayload, "", FormatImage},
		{"unknown", []byte{0x00, 0x01, 0x02, 0x03}, ".xyz", FormatUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := bytes.NewReader(tt.content)
			got, mime := DetectFormat(r, tt.ext)
			if got != tt.want {
				t.Errorf("DetectFormat = %v (mime %q), want %v", got, mime, tt.want)
			}

			// Reader must be rewound for the backend.
			buf := make([]byte, len(tt.content))
			n, _ := r.Read(buf)
			if !bytes.Equal(buf[:n], tt.content) {
				t.Error("reader was not restored to the start")
			}
		})
	}
}

func TestDetectFormatOOXML(t *testing.T) {
	// OOXML containers share the zip magic; the extension disambiguates when
	// sniffing stops at application/zip.
	docx := buildMinimalDocx(t, "hello")
	got, _ := DetectFormat(bytes.NewReader(docx), ".docx")
	if got != FormatDOCX {
		t.Errorf("DetectFormat(docx) = %v", got)
	}
}

func TestFormatString(t *testing.T) {
	if FormatPDF.String() != "pdf" || FormatMarkdown.String() != "md" || FormatUnknown.String() != "unknown" {
		t.Error("unexpected InputFormat string values")
	}
}

func TestInputDocumentStem(t *testing.T) {
	tests := []struct {
		file string
		want string
	}{
		{"/tmp/uploads/report.docx", "report"},
		{"notes.md", "notes"},
		{"archive.tar.gz", "archive.tar"},
		{"noext", "noext"},
	}
	for _, tt := range tests {
		in := InputDocument{File: tt.file}
		if got := in.Stem(); got != tt.want {
			t.Errorf("Stem(%q) = %q, want %q", tt.file, got, tt.want)
		}
	}
}

func TestIsUnsupportedFormat(t *testing.T) {
	err := &UnsupportedFormatError{Extension: ".xyz", MIMEType: "application/octet-stream"}
	if !IsUnsupportedFormat(err) {
		t.Error("expected IsUnsupportedFormat for UnsupportedFormatError")
	}
	if !strings.Contains(err.Error(), ".xyz") {
		t.Errorf("error message should name the extension: %s", err.Error())
	}
	if !IsUnsupportedFormat(&ConversionError{Path: "x", Err: err}) {
		t.Error("expected IsUnsupportedFormat to unwrap ConversionError")
	}
}
