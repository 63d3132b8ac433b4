package output

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"

	"github.com/Caia-Tech/truthlens-ingest/pkg/document"
)

// JSONLWriter writes one record per line
type JSONLWriter struct {
	w       *bufio.Writer
	encoder *json.Encoder
	written int
}

// NewJSONLWriter wraps w; call Flush when done
func NewJSONLWriter(w io.Writer) *JSONLWriter {
	buffered := bufio.NewWriter(w)
	encoder := json.NewEncoder(buffered)
	encoder.SetEscapeHTML(false)
	return &JSONLWriter{w: buffered, encoder: encoder}
}

// Write validates and encodes a single record
func (jw *JSONLWriter) Write(record document.EnrichedDocument) error {
	if err := record.Validate(); err != nil {
		return fmt.Errorf("record %s: %w", record.SourceURL, err)
	}
	if err := jw.encoder.Encode(record); err != nil {
		return fmt.Errorf("encode record %s: %w", record.SourceURL, err)
	}
	jw.written++
	return nil
}

// WriteAll writes records in order, stopping at the first error
func (jw *JSONLWriter) WriteAll(records []document.EnrichedDocument) error {
	for _, record := range records {
		if err := jw.Write(record); err != nil {
			return err
		}
	}
	return nil
}

// Written returns the number of records written so far
func (jw *JSONLWriter) Written() int {
	return jw.written
}

// Flush writes any buffered data to the underlying writer
func (jw *JSONLWriter) Flush() error {
	return jw.w.Flush()
}

// ReadJSONL decodes records written by JSONLWriter
func ReadJSONL(r io.Reader) ([]document.EnrichedDocument, error) {
	decoder := json.NewDecoder(r)
	var records []document.EnrichedDocument

	for {
		var record document.EnrichedDocument
		err := decoder.Decode(&record)
		if err == io.EOF {
			return records, nil
		}
		if err != nil {
			return nil, fmt.Errorf("decode record %d: %w", len(records)+1, err)
		}
		records = append(records, record)
	}
}
