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
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// StreamInfo holds metadata about the input being converted.
type StreamInfo struct {
	MIMEType  string
	Extension string
	Charset   string
	Filename  string
	LocalPath string
}

// Backend is a format-specific reader that parses an input stream into a
// Document. Pipeline-level concerns (pagination, image generation) are not
// the backend's business.
type Backend interface {
	Parse(reader io.ReadSeeker, info StreamInfo) (*Document, error)
}

// FormatOption binds an input format to the backend that parses it and the
// pipeline that assembles the parsed document.
type FormatOption struct {
	Backend  Backend
	Pipeline Pipeline
}

// InputDocument identifies one converted input.
type InputDocument struct {
	File   string
	Format InputFormat
}

// Stem returns the input file's name without its extension.
func (in InputDocument) Stem() string {
	base := filepath.Base(in.File)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// ConversionResult is the outcome of converting one input file.
type ConversionResult struct {
	Input    InputDocument
	Document *Document
}

// Converter converts input files into Documents using a fixed mapping from
// input format to (pipeline, backend) pair.
type Converter struct {
	formatOptions map[InputFormat]FormatOption
	allowed       map[InputFormat]bool
}

// Option configures a Converter.
type Option func(*Converter)

// WithFormatOption overrides the binding for one input format.
func WithFormatOption(f InputFormat, opt FormatOption) Option {
	return func(c *Converter) {
		c.formatOptions[f] = opt
	}
}

// WithAllowedFormats restricts the converter to the given formats. By
// default every format with a binding is allowed.
func WithAllowedFormats(formats ...InputFormat) Option {
	return func(c *Converter) {
		c.allowed = make(map[InputFormat]bool, len(formats))
		for _, f := range formats {
			c.allowed[f] = true
		}
	}
}

// New creates a Converter with the default format bindings, then applies
// the given options.
func New(opts ...Option) *Converter {
	c := &Converter{
		formatOptions: DefaultFormatOptions(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// DefaultFormatOptions returns the standard format binding table: simple
// non-paginated assembly for office, markup and tabular formats, paginated
// assembly with image generation for PDF and raster inputs.
func DefaultFormatOptions() map[InputFormat]FormatOption {
	simple := &SimplePipeline{}
	standard := &StandardPipeline{Options: DefaultPipelineOptions()}

	return map[InputFormat]FormatOption{
		FormatXLSX:     {Backend: NewExcelBackend(), Pipeline: simple},
		FormatXLS:      {Backend: NewExcelBackend(), Pipeline: simple},
		FormatDOCX:     {Backend: NewDocxBackend(), Pipeline: simple},
		FormatPPTX:     {Backend: NewPptxBackend(), Pipeline: simple},
		FormatMarkdown: {Backend: NewMarkdownBackend(), Pipeline: simple},
		FormatAsciiDoc: {Backend: NewAsciiDocBackend(), Pipeline: simple},
		FormatHTML:     {Backend: NewHTMLBackend(), Pipeline: simple},
		FormatCSV:      {Backend: NewCsvBackend(), Pipeline: simple},
		FormatFeed:     {Backend: NewFeedBackend(), Pipeline: simple},
		FormatPDF:      {Backend: NewPdfBackend(), Pipeline: standard},
		FormatImage:    {Backend: NewImageBackend(), Pipeline: standard},
	}
}

// Convert converts a single local file.
func (c *Converter) Convert(path string) (*ConversionResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	ext := strings.ToLower(filepath.Ext(path))
	format, mime := DetectFormat(f, ext)

	opt, ok := c.formatOptions[format]
	if !ok || (c.allowed != nil && !c.allowed[format]) {
		return nil, &UnsupportedFormatError{Extension: ext, MIMEType: mime}
	}

	info := StreamInfo{
		MIMEType:  mime,
		Extension: ext,
		Filename:  filepath.Base(path),
		LocalPath: path,
	}

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("seek: %w", err)
	}

	doc, err := opt.Backend.Parse(f, info)
	if err != nil {
		return nil, &ConversionError{Path: path, Err: err}
	}

	if err := opt.Pipeline.Assemble(doc); err != nil {
		return nil, &ConversionError{Path: path, Err: err}
	}

	input := InputDocument{File: path, Format: format}
	doc.Name = input.Stem()
	if doc.Origin.Filename == "" {
		doc.Origin = Origin{Filename: info.Filename, MIMEType: mime}
	}

	return &ConversionResult{Input: input, Document: doc}, nil
}

// ConvertAll converts each path in order, one invocation per file. The
// first failure aborts the remaining inputs.
func (c *Converter) ConvertAll(paths []string) ([]*ConversionResult, error) {
	results := make([]*ConversionResult, 0, len(paths))
	for _, p := range paths {
		res, err := c.Convert(p)
		if err != nil {
			return results, err
		}
		results = append(results, res)
	}
	return results, nil
}
