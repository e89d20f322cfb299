package docverter

import (
	"bytes"
	"fmt"
	"image"
	"io"

	// Raster decoders registered for Picture payloads
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ImageBackend wraps a raster input as a single-picture document. The
// standard pipeline treats the picture as the page content.
type ImageBackend struct{}

// NewImageBackend creates a new ImageBackend.
func NewImageBackend() *ImageBackend {
	return &ImageBackend{}
}

func (b *ImageBackend) Parse(reader io.ReadSeeker, info StreamInfo) (*Document, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}

	if _, _, err := image.DecodeConfig(bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	doc := NewDocument(Origin{Filename: info.Filename, MIMEType: info.MIMEType})
	doc.AddItem(&Picture{Data: data, AltText: info.Filename})
	return doc, nil
}
