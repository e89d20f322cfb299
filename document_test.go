package docverter

import (
	"bytes"
	"image"
	"image/png"
	"strings"
	"testing"
)

func TestExportMarkdown(t *testing.T) {
	doc := NewDocument(Origin{Filename: "report.docx"})
	doc.AddItem(&Heading{Text: "Quarterly Report", Level: 1})
	doc.AddItem(&Paragraph{Text: "Revenue grew in every region."})
	doc.AddItem(&Heading{Text: "Regions", Level: 2})
	doc.AddItem(&ListItem{Text: "North", Ordered: false})
	doc.AddItem(&ListItem{Text: "South", Ordered: true})
	doc.AddItem(&Table{Caption: "Totals", Cells: [][]string{
		{"Region", "Revenue"},
		{"North", "1200"},
	}})
	doc.AddItem(&Picture{AltText: "chart"})

	got := doc.ExportMarkdown()

	mustInclude := []string{
		"# Quarterly Report",
		"## Regions",
		"Revenue grew in every region.",
		"- North",
		"1. South",
		"Totals",
		"| Region | Revenue |",
		"| --- | --- |",
		"| North | 1200 |",
		"<!-- image -->",
	}
	for _, want := range mustInclude {
		if !strings.Contains(got, want) {
			t.Errorf("markdown export missing %q\ngot:\n%s", want, got)
		}
	}

	if strings.Contains(got, "\n\n\n") {
		t.Errorf("markdown export contains unnormalized blank runs:\n%s", got)
	}
}

func TestExportMarkdownClampsHeadingLevels(t *testing.T) {
	doc := NewDocument(Origin{})
	doc.AddItem(&Heading{Text: "Too deep", Level: 9})
	doc.AddItem(&Heading{Text: "Too shallow", Level: 0})

	got := doc.ExportMarkdown()
	if !strings.Contains(got, "###### Too deep") {
		t.Errorf("expected level clamped to 6, got:\n%s", got)
	}
	if !strings.Contains(got, "# Too shallow") {
		t.Errorf("expected level clamped to 1, got:\n%s", got)
	}
}

func TestExportText(t *testing.T) {
	doc := NewDocument(Origin{})
	doc.AddItem(&Heading{Text: "Title", Level: 1})
	doc.AddItem(&Paragraph{Text: "Body text."})
	doc.AddItem(&Table{Cells: [][]string{{"a", "b"}, {"c", "d"}}})
	doc.AddItem(&Picture{AltText: "ignored"})

	got := doc.ExportText()

	for _, want := range []string{"Title", "Body text.", "a\tb", "c\td"} {
		if !strings.Contains(got, want) {
			t.Errorf("text export missing %q\ngot:\n%s", want, got)
		}
	}
	if strings.Contains(got, "ignored") {
		t.Errorf("text export should omit pictures, got:\n%s", got)
	}
	if !strings.HasSuffix(got, "\n") {
		t.Errorf("text export should end with a newline")
	}
}

func TestExportDict(t *testing.T) {
	doc := NewDocument(Origin{Filename: "in.md", MIMEType: "text/markdown"})
	doc.Name = "in"
	doc.AddItem(&Heading{Text: "H", Level: 2})
	doc.AddItem(&Table{Caption: "T", Cells: [][]string{{"x", "y", "z"}, {"1"}}})

	dict := doc.ExportDict()

	if dict["schema_name"] != "DocverterDocument" {
		t.Errorf("schema_name = %v", dict["schema_name"])
	}
	if dict["version"] != "1.0.0" {
		t.Errorf("version = %v", dict["version"])
	}
	if dict["name"] != "in" {
		t.Errorf("name = %v", dict["name"])
	}
	if dict["paginated"] != false {
		t.Errorf("paginated = %v", dict["paginated"])
	}

	origin, ok := dict["origin"].(map[string]any)
	if !ok {
		t.Fatalf("origin has wrong type: %T", dict["origin"])
	}
	if origin["filename"] != "in.md" || origin["mimetype"] != "text/markdown" {
		t.Errorf("origin = %v", origin)
	}

	items, ok := dict["items"].([]map[string]any)
	if !ok {
		t.Fatalf("items has wrong type: %T", dict["items"])
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if items[0]["kind"] != "heading" || items[0]["level"] != 2 {
		t.Errorf("heading item = %v", items[0])
	}
	if items[1]["kind"] != "table" || items[1]["num_rows"] != 2 || items[1]["num_cols"] != 3 {
		t.Errorf("table item = %v", items[1])
	}
}

func TestTableRenderImage(t *testing.T) {
	table := &Table{Cells: [][]string{{"h1", "h2"}, {"a", "b"}}}

	img, ok := table.RenderImage()
	if !ok {
		t.Fatal("expected a populated table to render")
	}
	bounds := img.Bounds()
	if bounds.Dx() <= 0 || bounds.Dy() <= 0 {
		t.Errorf("rendered table has empty bounds: %v", bounds)
	}

	table.SetImageScale(2.0)
	scaled, ok := table.RenderImage()
	if !ok {
		t.Fatal("expected scaled table to render")
	}
	if scaled.Bounds().Dx() != bounds.Dx()*2 {
		t.Errorf("expected 2x width, got %d (base %d)", scaled.Bounds().Dx(), bounds.Dx())
	}

	empty := &Table{}
	if _, ok := empty.RenderImage(); ok {
		t.Error("expected an empty table not to render")
	}
}

func TestPictureRenderImage(t *testing.T) {
	payload := encodeTestPNG(t, 8, 6)

	pic := &Picture{Data: payload}
	if !pic.HasImage() {
		t.Fatal("expected HasImage for a PNG payload")
	}
	img, ok := pic.RenderImage()
	if !ok {
		t.Fatal("expected a PNG payload to render")
	}
	if img.Bounds().Dx() != 8 || img.Bounds().Dy() != 6 {
		t.Errorf("unexpected bounds %v", img.Bounds())
	}

	pic.SetImageScale(2.0)
	scaled, ok := pic.RenderImage()
	if !ok {
		t.Fatal("expected scaled picture to render")
	}
	if scaled.Bounds().Dx() != 16 || scaled.Bounds().Dy() != 12 {
		t.Errorf("unexpected scaled bounds %v", scaled.Bounds())
	}

	missing := &Picture{AltText: "referenced but not embedded"}
	if missing.HasImage() {
		t.Error("expected HasImage to be false without a payload")
	}
	if _, ok := missing.RenderImage(); ok {
		t.Error("expected a payload-less picture not to render")
	}

	garbage := &Picture{Data: []byte("not an image")}
	if _, ok := garbage.RenderImage(); ok {
		t.Error("expected an undecodable payload not to render")
	}
}

func TestNormalizeOutput(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"crlf", "a\r\nb\r\n", "a\nb"},
		{"trailing whitespace", "a   \nb\t\n", "a\nb"},
		{"blank runs", "a\n\n\n\n\nb", "a\n\nb"},
		{"control chars", "a\x00b\x07c", "abc"},
		{"keeps tabs", "a\tb", "a\tb"},
		{"trims", "\n\n  hello  \n\n", "hello"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := normalizeOutput(tt.in); got != tt.want {
				t.Errorf("normalizeOutput(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

// encodeTestPNG returns a PNG payload of the given size.
func encodeTestPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}
