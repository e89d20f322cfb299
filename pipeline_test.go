package docverter

import "testing"

func TestStandardPipelineAssemble(t *testing.T) {
	doc := NewDocument(Origin{Filename: "scan.pdf"})
	table := &Table{Cells: [][]string{{"a", "b"}}}
	pic := &Picture{Data: encodeTestPNG(t, 4, 4)}
	doc.AddItem(table)
	doc.AddItem(pic)

	p := &StandardPipeline{Options: DefaultPipelineOptions()}
	if err := p.Assemble(doc); err != nil {
		t.Fatalf("assemble: %v", err)
	}

	if !doc.Paginated {
		t.Error("expected the standard pipeline to mark the document paginated")
	}
	if dict := doc.ExportDict(); dict["paginated"] != true {
		t.Errorf("structured export paginated = %v", dict["paginated"])
	}

	base, ok := (&Table{Cells: table.Cells}).RenderImage()
	if !ok {
		t.Fatal("expected base table to render")
	}
	scaled, ok := table.RenderImage()
	if !ok {
		t.Fatal("expected assembled table to render")
	}
	if scaled.Bounds().Dx() != base.Bounds().Dx()*2 {
		t.Errorf("expected %gx scale applied, base width %d, got %d",
			DefaultImagesScale, base.Bounds().Dx(), scaled.Bounds().Dx())
	}

	img, ok := pic.RenderImage()
	if !ok {
		t.Fatal("expected assembled picture to render")
	}
	if img.Bounds().Dx() != 8 {
		t.Errorf("expected picture scaled to width 8, got %d", img.Bounds().Dx())
	}
}

func TestSimplePipelineAssemble(t *testing.T) {
	doc := NewDocument(Origin{Filename: "notes.md"})
	doc.AddItem(&Paragraph{Text: "text"})

	if err := (&SimplePipeline{}).Assemble(doc); err != nil {
		t.Fatalf("assemble: %v", err)
	}
	if doc.Paginated {
		t.Error("expected the simple pipeline to leave the document non-paginated")
	}
}
