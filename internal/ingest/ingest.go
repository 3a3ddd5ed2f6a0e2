// Package ingest parses uploaded incident datasets into validated,
// normalized historical records.
package ingest

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/roadwatch/risk-cli/internal/model"
)

// Format identifies an accepted upload shape.
type Format string

// Accepted dataset formats.
const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

var (
	// ErrUnsupportedFormat is returned when the upload is neither
	// comma-delimited text nor a structured record sequence.
	ErrUnsupportedFormat = eris.New("ingest: unsupported file format")

	// ErrNoValidRecords is returned when every record in the upload was
	// rejected by validation.
	ErrNoValidRecords = eris.New("ingest: no valid records in dataset")
)

// DetectFormat maps a file name to its dataset format.
func DetectFormat(filename string) (Format, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return FormatCSV, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", eris.Wrapf(ErrUnsupportedFormat, "file %q", filename)
	}
}

// Dataset parses r in the given format and returns the validated records.
// Records failing normalization are dropped without failing the ingest;
// an upload where everything is dropped fails with ErrNoValidRecords.
func Dataset(r io.Reader, format Format) ([]model.HistoricalRecord, error) {
	var raws []map[string]string
	var err error

	switch format {
	case FormatCSV:
		raws, err = parseCSV(r)
	case FormatJSON:
		raws, err = parseJSON(r)
	default:
		return nil, eris.Wrapf(ErrUnsupportedFormat, "format %q", format)
	}
	if err != nil {
		return nil, err
	}

	return FromRecords(raws)
}

// FromRecords normalizes a pre-structured sequence of field mappings,
// applying the same validation and drop policy as file parsing.
func FromRecords(raws []map[string]string) ([]model.HistoricalRecord, error) {
	records := make([]model.HistoricalRecord, 0, len(raws))
	dropped := 0

	for i, raw := range raws {
		rec, err := model.NormalizeRecord(raw)
		if err != nil {
			dropped++
			zap.L().Debug("ingest: dropped record",
				zap.Int("index", i),
				zap.Error(err),
			)
			continue
		}
		records = append(records, rec)
	}

	if len(records) == 0 {
		return nil, ErrNoValidRecords
	}

	zap.L().Info("ingest: dataset processed",
		zap.Int("kept", len(records)),
		zap.Int("dropped", dropped),
	)
	return records, nil
}

// parseCSV reads comma-delimited text with a header row, mapping each
// subsequent row's fields positionally to the header names. Rows shorter
// than the header leave the trailing fields empty.
func parseCSV(r io.Reader) ([]map[string]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // allow variable fields
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, eris.Wrap(ErrUnsupportedFormat, "empty csv")
	}
	if err != nil {
		return nil, eris.Wrap(ErrUnsupportedFormat, "csv header")
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	var raws []map[string]string
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, eris.Wrap(ErrUnsupportedFormat, "csv row")
		}

		raw := make(map[string]string, len(header))
		for i, name := range header {
			if i < len(row) {
				raw[name] = strings.TrimSpace(row[i])
			}
		}
		raws = append(raws, raw)
	}

	return raws, nil
}

// parseJSON reads a structured record sequence: a JSON array of objects.
// Scalar values are flattened to strings so both shapes feed the same
// normalization.
func parseJSON(r io.Reader) ([]map[string]string, error) {
	var items []map[string]any
	if err := json.NewDecoder(r).Decode(&items); err != nil {
		return nil, eris.Wrap(ErrUnsupportedFormat, "json decode")
	}

	raws := make([]map[string]string, 0, len(items))
	for _, item := range items {
		raw := make(map[string]string, len(item))
		for k, v := range item {
			switch val := v.(type) {
			case string:
				raw[k] = val
			case nil:
				// absent
			default:
				raw[k] = fmt.Sprint(val)
			}
		}
		raws = append(raws, raw)
	}

	return raws, nil
}
