package ingest

import (
	"encoding/csv"
	"io"
	"os"

	"github.com/pkg/errors"
)

// readCSV parses a headered CSV file into raw records keyed by header name.
// Column order is free; cells stay raw strings, short records are padded
// with blanks.
func readCSV(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &SourceError{Path: path, Err: err}
	}
	defer f.Close()
	return readCSVFrom(f, path)
}

func readCSVFrom(r io.Reader, path string) ([]Record, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return nil, &SourceError{Path: path, Err: errors.New("csv input is empty, header row required")}
	}
	if err != nil {
		return nil, &SourceError{Path: path, Err: errors.Wrap(err, "read csv header")}
	}

	var records []Record
	for {
		line, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &SourceError{Path: path, Err: errors.Wrap(err, "read csv record")}
		}
		rec := make(Record, len(header))
		for i, name := range header {
			if i < len(line) {
				rec[name] = line[i]
			} else {
				rec[name] = ""
			}
		}
		records = append(records, rec)
	}
	return records, nil
}
