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

// Package export writes conversion results to disk: one file per requested
// output format, plus PNG snapshots of table and picture items.
package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/goccy/go-yaml"

	docverter "github.com/nicholasgasior/docverter-go"
)

// Format tags accepted by WriteFormats.
const (
	TagMarkdown = "md"
	TagText     = "txt"
	TagJSON     = "json"
	TagYAML     = "yaml"
)

// WriteFormats writes one output file per recognized format tag, named
// <stem>.<tag> under outDir. Unrecognized tags are silently ignored. The
// output directory is created if absent.
func WriteFormats(res *docverter.ConversionResult, outDir string, formats []string) error {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	stem := res.Input.Stem()

	for _, tag := range formats {
		var (
			payload []byte
			err     error
		)
		switch tag {
		case TagMarkdown:
			payload = []byte(res.Document.ExportMarkdown() + "\n")
		case TagText:
			payload = []byte(res.Document.ExportText())
		case TagJSON:
			payload, err = json.MarshalIndent(res.Document.ExportDict(), "", "    ")
			if err == nil {
				payload = append(payload, '\n')
			}
		case TagYAML:
			payload, err = yaml.Marshal(res.Document.ExportDict())
		default:
			continue
		}
		if err != nil {
			return fmt.Errorf("serialize %s for %s: %w", tag, stem, err)
		}

		name := filepath.Join(outDir, stem+"."+tag)
		if err := os.WriteFile(name, payload, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", name, err)
		}
	}

	return nil
}
