package docverter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// CsvBackend parses CSV files into a single table item.
type CsvBackend struct{}

// NewCsvBackend creates a new CsvBackend.
func NewCsvBackend() *CsvBackend {
	return &CsvBackend{}
}

func (b *CsvBackend) Parse(reader io.ReadSeeker, info StreamInfo) (*Document, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("read CSV: %w", err)
	}

	text := decodeText(data, info.Charset)

	r := csv.NewReader(strings.NewReader(text))
	r.FieldsPerRecord = -1 // allow variable fields
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse CSV: %w", err)
	}

	doc := NewDocument(Origin{Filename: info.Filename, MIMEType: info.MIMEType})
	if len(records) > 0 {
		doc.AddItem(&Table{Cells: padRows(records)})
	}
	return doc, nil
}
