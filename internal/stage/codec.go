package stage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"
)

// EncodeRows writes rows as gzip compressed JSON lines.
func EncodeRows(rows []map[string]any) ([]byte, error) {
	buf := &bytes.Buffer{}
	gz := gzip.NewWriter(buf)
	enc := json.NewEncoder(gz)
	for _, row := range rows {
		if err := enc.Encode(row); err != nil {
			gz.Close()
			return nil, fmt.Errorf("encode row: %w", err)
		}
	}
	if err := gz.Close(); err != nil {
		return nil, fmt.Errorf("flush gzip: %w", err)
	}
	return buf.Bytes(), nil
}

// DecodeRows reads rows written by EncodeRows. Numbers are kept as
// json.Number.
func DecodeRows(data []byte) ([]map[string]any, error) {
	gz, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("gzip reader: %w", err)
	}
	defer gz.Close()

	dec := json.NewDecoder(gz)
	dec.UseNumber()
	var rows []map[string]any
	for {
		var row map[string]any
		err := dec.Decode(&row)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("decode row: %w", err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}
