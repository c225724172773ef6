package ingest

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/pkg/errors"
)

// readJSON parses a JSON array of objects, a single object, or
// newline-delimited JSON (NDJSON) into raw records. Nested objects are kept
// nested; dot paths in the schema address them. Numbers stay json.Number so
// integers survive undamaged.
func readJSON(path string) ([]Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &SourceError{Path: path, Err: err}
	}

	text := strings.TrimSpace(string(data))
	if text == "" {
		return nil, &SourceError{Path: path, Err: errors.New("json input is empty")}
	}

	// A single JSON document first; NDJSON as the fallback.
	if values, ok := decodeSingleDocument(text); ok {
		return jsonValuesToRecords(values, path)
	}

	var values []any
	for i, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		v, err := decodeJSONValue(line)
		if err != nil {
			return nil, &SourceError{Path: path, Err: errors.Wrapf(err, "invalid ndjson at line %d", i+1)}
		}
		values = append(values, v)
	}
	return jsonValuesToRecords(values, path)
}

func decodeSingleDocument(text string) ([]any, bool) {
	v, err := decodeJSONValue(text)
	if err != nil {
		return nil, false
	}
	switch t := v.(type) {
	case []any:
		return t, true
	case map[string]any:
		return []any{t}, true
	default:
		return nil, false
	}
}

func decodeJSONValue(text string) (any, error) {
	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	if dec.More() {
		return nil, errors.New("trailing content after json value")
	}
	return v, nil
}

func jsonValuesToRecords(values []any, path string) ([]Record, error) {
	records := make([]Record, 0, len(values))
	for i, v := range values {
		obj, ok := v.(map[string]any)
		if !ok {
			return nil, &SourceError{Path: path, Err: errors.Errorf("record %d is not a json object", i+1)}
		}
		records = append(records, Record(obj))
	}
	return records, nil
}
