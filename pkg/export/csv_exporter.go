package export

import (
	"bytes"
	"fmt"
	"strings"
)

// ByteOrderMark is the UTF-8 BOM spreadsheet tools use to detect the encoding.
const ByteOrderMark = "\ufeff"

// CSVOption tunes a CSVExporter.
type CSVOption func(*CSVExporter)

// WithByteOrderMark prefixes the rendered payload with the UTF-8 BOM.
func WithByteOrderMark() CSVOption {
	return func(e *CSVExporter) { e.bom = true }
}

// CSVExporter renders Dataset records into CSV bytes. Every cell is double-quoted with inner
// quotes doubled, and rows are joined by "\n" without a trailing newline.
type CSVExporter struct {
	bom bool
}

// NewCSVExporter builds a CSV exporter.
func NewCSVExporter(opts ...CSVOption) *CSVExporter {
	e := &CSVExporter{}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Render produces CSV encoded bytes for the dataset.
func (e *CSVExporter) Render(data Dataset) ([]byte, error) {
	if len(data.Headers) == 0 {
		return nil, fmt.Errorf("csv requires at least one header")
	}
	buf := &bytes.Buffer{}
	if e.bom {
		buf.WriteString(ByteOrderMark)
	}
	writeRecord(buf, data.Headers)
	for _, record := range data.Records() {
		buf.WriteByte('\n')
		writeRecord(buf, record)
	}
	return buf.Bytes(), nil
}

func writeRecord(buf *bytes.Buffer, cells []string) {
	for i, cell := range cells {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteByte('"')
		buf.WriteString(strings.ReplaceAll(cell, `"`, `""`))
		buf.WriteByte('"')
	}
}
