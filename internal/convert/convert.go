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

// Package convert orchestrates document conversion: it binds input formats
// to their backends and pipelines, converts each input file, and hands the
// results to the exporters.
package convert

import (
	"log/slog"
	"time"

	docverter "github.com/nicholasgasior/docverter-go"
	"github.com/nicholasgasior/docverter-go/internal/export"
)

// NewConverter builds the engine converter with the fixed format binding
// table: simple non-paginated assembly for office, markup and tabular
// formats; paginated assembly with page and picture image generation at
// 2.0x scale for PDF and raster inputs.
func NewConverter() *docverter.Converter {
	simple := &docverter.SimplePipeline{}
	standard := &docverter.StandardPipeline{
		Options: docverter.PipelineOptions{
			ImagesScale:           docverter.DefaultImagesScale,
			GeneratePageImages:    true,
			GeneratePictureImages: true,
		},
	}

	return docverter.New(
		docverter.WithFormatOption(docverter.FormatXLSX, docverter.FormatOption{Backend: docverter.NewExcelBackend(), Pipeline: simple}),
		docverter.WithFormatOption(docverter.FormatXLS, docverter.FormatOption{Backend: docverter.NewExcelBackend(), Pipeline: simple}),
		docverter.WithFormatOption(docverter.FormatDOCX, docverter.FormatOption{Backend: docverter.NewDocxBackend(), Pipeline: simple}),
		docverter.WithFormatOption(docverter.FormatPPTX, docverter.FormatOption{Backend: docverter.NewPptxBackend(), Pipeline: simple}),
		docverter.WithFormatOption(docverter.FormatMarkdown, docverter.FormatOption{Backend: docverter.NewMarkdownBackend(), Pipeline: simple}),
		docverter.WithFormatOption(docverter.FormatAsciiDoc, docverter.FormatOption{Backend: docverter.NewAsciiDocBackend(), Pipeline: simple}),
		docverter.WithFormatOption(docverter.FormatHTML, docverter.FormatOption{Backend: docverter.NewHTMLBackend(), Pipeline: simple}),
		docverter.WithFormatOption(docverter.FormatCSV, docverter.FormatOption{Backend: docverter.NewCsvBackend(), Pipeline: simple}),
		docverter.WithFormatOption(docverter.FormatFeed, docverter.FormatOption{Backend: docverter.NewFeedBackend(), Pipeline: simple}),
		docverter.WithFormatOption(docverter.FormatPDF, docverter.FormatOption{Backend: docverter.NewPdfBackend(), Pipeline: standard}),
		docverter.WithFormatOption(docverter.FormatImage, docverter.FormatOption{Backend: docverter.NewImageBackend(), Pipeline: standard}),
	)
}

// ConvertDocuments converts each input path in turn and writes the
// requested output formats plus item images for every result. Conversion
// is one invocation per file; the first engine error aborts the remaining
// inputs and propagates to the caller. Outputs already written for earlier
// files stay on disk.
func ConvertDocuments(inputPaths []string, outputPath string, outputFormats []string, logger *slog.Logger) error {
	converter := NewConverter()

	for _, inputPath := range inputPaths {
		res, err := converter.Convert(inputPath)
		if err != nil {
			return err
		}

		if err := export.WriteFormats(res, outputPath, outputFormats); err != nil {
			return err
		}

		if err := export.SaveItemImages(res, outputPath, time.Now(), logger); err != nil {
			return err
		}

		logger.Info("document converted",
			"document", res.Input.Stem(),
			"format", res.Input.Format.String(),
			"items", res.Document.NumItems(),
			"output", outputPath,
		)
	}

	return nil
}
