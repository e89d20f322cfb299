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
	"strings"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"
)

// ExcelBackend parses XLSX workbooks (and legacy XLS files) into one table
// item per non-empty sheet, preceded by a heading carrying the sheet name.
type ExcelBackend struct{}

// NewExcelBackend creates a new ExcelBackend.
func NewExcelBackend() *ExcelBackend {
	return &ExcelBackend{}
}

func (b *ExcelBackend) Parse(reader io.ReadSeeker, info StreamInfo) (*Document, error) {
	if info.Extension == ".xls" || strings.HasPrefix(strings.ToLower(info.MIMEType), "application/vnd.ms-excel") {
		return b.parseXLS(reader, info)
	}
	return b.parseXLSX(reader, info)
}

func (b *ExcelBackend) parseXLSX(reader io.ReadSeeker, info StreamInfo) (*Document, error) {
	f, err := excelize.OpenReader(reader)
	if err != nil {
		return nil, fmt.Errorf("open XLSX: %w", err)
	}
	defer f.Close()

	doc := NewDocument(Origin{Filename: info.Filename, MIMEType: info.MIMEType})

	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil || len(rows) == 0 {
			continue
		}
		doc.AddItem(&Heading{Text: sheet, Level: 2})
		doc.AddItem(&Table{Caption: sheet, Cells: padRows(rows)})
	}

	return doc, nil
}

func (b *ExcelBackend) parseXLS(reader io.ReadSeeker, info StreamInfo) (*Document, error) {
	// extrame/xls requires a file path, so spool to a temp file
	tmpFile, err := os.CreateTemp("", "docverter-*.xls")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer os.Remove(tmpPath)

	if _, err := io.Copy(tmpFile, reader); err != nil {
		tmpFile.Close()
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	tmpFile.Close()

	wb, err := xls.Open(tmpPath, "utf-8")
	if err != nil {
		return nil, fmt.Errorf("open XLS: %w", err)
	}

	doc := NewDocument(Origin{Filename: info.Filename, MIMEType: info.MIMEType})

	for i := 0; i < wb.NumSheets(); i++ {
		sheet := wb.GetSheet(i)
		if sheet == nil {
			continue
		}

		sheetName := sheet.Name
		if sheetName == "" {
			sheetName = fmt.Sprintf("Sheet%d", i+1)
		}

		var rows [][]string
		maxRow := int(sheet.MaxRow)
		for rowIdx := 0; rowIdx <= maxRow; rowIdx++ {
			row := sheet.Row(rowIdx)
			if row == nil {
				continue
			}
			var cells []string
			lastCol := row.LastCol()
			for colIdx := 0; colIdx < lastCol; colIdx++ {
				cells = append(cells, row.Col(colIdx))
			}
			rows = append(rows, cells)
		}

		if len(rows) == 0 {
			continue
		}
		doc.AddItem(&Heading{Text: sheetName, Level: 2})
		doc.AddItem(&Table{Caption: sheetName, Cells: padRows(rows)})
	}

	return doc, nil
}

// padRows right-pads ragged rows so every row has the same width.
func padRows(rows [][]string) [][]string {
	width := 0
	for _, row := range rows {
		if len(row) > width {
			width = len(row)
		}
	}
	out := make([][]string, len(rows))
	for i, row := range rows {
		if len(row) == width {
			out[i] = row
			continue
		}
		padded := make([]string, width)
		copy(padded, row)
		out[i] = padded
	}
	return out
}
