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

// DefaultImagesScale is the resolution multiplier applied to generated
// table and picture images by the standard pipeline.
const DefaultImagesScale = 2.0

// Pipeline assembles a parsed document into its final representation.
type Pipeline interface {
	Assemble(doc *Document) error
}

// SimplePipeline is the non-paginated assembly used for office and markup
// formats. The parsed document passes through unchanged.
type SimplePipeline struct{}

func (p *SimplePipeline) Assemble(doc *Document) error {
	return nil
}

// PipelineOptions controls the standard pipeline's image generation.
type PipelineOptions struct {
	ImagesScale           float64
	GeneratePageImages    bool
	GeneratePictureImages bool
}

// DefaultPipelineOptions enables page and picture image generation at the
// default scale.
func DefaultPipelineOptions() PipelineOptions {
	return PipelineOptions{
		ImagesScale:           DefaultImagesScale,
		GeneratePageImages:    true,
		GeneratePictureImages: true,
	}
}

// StandardPipeline is the paginated assembly used for PDF and raster
// inputs. When image generation is enabled it marks tables and pictures
// for scaled rendering.
type StandardPipeline struct {
	Options PipelineOptions
}

func (p *StandardPipeline) Assemble(doc *Document) error {
	doc.Paginated = true

	scale := p.Options.ImagesScale
	if scale <= 0 {
		scale = DefaultImagesScale
	}

	for _, it := range doc.Items() {
		switch el := it.(type) {
		case *Table:
			if p.Options.GeneratePageImages || p.Options.GeneratePictureImages {
				el.SetImageScale(scale)
			}
		case *Picture:
			if p.Options.GeneratePictureImages {
				el.SetImageScale(scale)
			}
		}
	}
	return nil
}
