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

package export

import (
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	docverter "github.com/nicholasgasior/docverter-go"
)

// imageDirTimestamp is the layout of the conversion timestamp embedded in
// per-document image subdirectory names.
const imageDirTimestamp = "2006-01-02_150405"

// renderable is satisfied by table and picture items.
type renderable interface {
	RenderImage() (image.Image, bool)
}

// SaveItemImages renders each table and picture item of a result to a PNG
// under <outDir>/<stem>_<timestamp>/. Counters are 1-based and independent
// per item kind, incrementing in document order. An item that yields no
// image is logged at Warn and skipped; it never fails the document.
func SaveItemImages(res *docverter.ConversionResult, outDir string, at time.Time, logger *slog.Logger) error {
	stem := res.Input.Stem()
	imageDir := filepath.Join(outDir, fmt.Sprintf("%s_%s", stem, at.Format(imageDirTimestamp)))

	if err := os.MkdirAll(imageDir, 0o755); err != nil {
		return fmt.Errorf("create image dir: %w", err)
	}

	tableCounter := 0
	pictureCounter := 0

	for _, it := range res.Document.Items() {
		var (
			el      renderable
			kind    string
			counter int
		)
		switch item := it.(type) {
		case *docverter.Table:
			tableCounter++
			el, kind, counter = item, "table", tableCounter
		case *docverter.Picture:
			pictureCounter++
			el, kind, counter = item, "picture", pictureCounter
		default:
			continue
		}

		img, ok := el.RenderImage()
		if !ok {
			logger.Warn("item could not be rendered to an image",
				"document", stem,
				"kind", kind,
				"index", counter,
			)
			continue
		}

		name := filepath.Join(imageDir, fmt.Sprintf("%s-%s-%d.png", stem, kind, counter))
		if err := writePNG(name, img); err != nil {
			return err
		}
	}

	return nil
}

func writePNG(name string, img image.Image) error {
	f, err := os.Create(name)
	if err != nil {
		return fmt.Errorf("create %s: %w", name, err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}
	return nil
}
