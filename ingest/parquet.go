package ingest

import (
	"context"
	"os"

	"github.com/apache/arrow/go/v10/arrow"
	"github.com/apache/arrow/go/v10/arrow/array"
	"github.com/apache/arrow/go/v10/arrow/memory"
	"github.com/apache/arrow/go/v10/parquet/file"
	"github.com/apache/arrow/go/v10/parquet/pqarrow"

	"github.com/pkg/errors"
)

// readParquet materializes a parquet file into raw records via an arrow
// table. Scalar columns map to int64/float64/bool/string raw values; null
// cells and unsupported physical types come through as nil.
func readParquet(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &SourceError{Path: path, Err: err}
	}
	defer f.Close()

	pf, err := file.NewParquetReader(f)
	if err != nil {
		return nil, &SourceError{Path: path, Err: errors.Wrap(err, "open parquet")}
	}
	defer pf.Close()

	reader, err := pqarrow.NewFileReader(pf, pqarrow.ArrowReadProperties{}, memory.NewGoAllocator())
	if err != nil {
		return nil, &SourceError{Path: path, Err: errors.Wrap(err, "read parquet")}
	}
	table, err := reader.ReadTable(context.Background())
	if err != nil {
		return nil, &SourceError{Path: path, Err: errors.Wrap(err, "read parquet table")}
	}
	defer table.Release()

	records := make([]Record, table.NumRows())
	for i := range records {
		records[i] = make(Record, table.NumCols())
	}
	for ci := 0; ci < int(table.NumCols()); ci++ {
		name := table.Schema().Field(ci).Name
		ri := 0
		for _, chunk := range table.Column(ci).Data().Chunks() {
			for j := 0; j < chunk.Len(); j++ {
				records[ri][name] = arrowCell(chunk, j)
				ri++
			}
		}
	}
	return records, nil
}

func arrowCell(arr arrow.Array, i int) any {
	if arr.IsNull(i) {
		return nil
	}
	switch a := arr.(type) {
	case *array.Int8:
		return int64(a.Value(i))
	case *array.Int16:
		return int64(a.Value(i))
	case *array.Int32:
		return int64(a.Value(i))
	case *array.Int64:
		return a.Value(i)
	case *array.Uint8:
		return int64(a.Value(i))
	case *array.Uint16:
		return int64(a.Value(i))
	case *array.Uint32:
		return int64(a.Value(i))
	case *array.Float32:
		return float64(a.Value(i))
	case *array.Float64:
		return a.Value(i)
	case *array.Boolean:
		return a.Value(i)
	case *array.String:
		return a.Value(i)
	case *array.LargeString:
		return a.Value(i)
	default:
		return nil
	}
}
