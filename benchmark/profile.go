package benchmark

import (
	"fmt"
	"os"
	"runtime/pprof"
	"strings"
	"time"

	"github.com/fogfactory/tabular"
	"github.com/fogfactory/tabular/engine"
)

// Profile generates a CPU profile of a parallel map over a synthetic dataset,
// then runs the sequential equivalent for comparison. The profile is written
// as tabular_{date}_r{rows}_w{workers}_c{chunkSize}.prof.
//
// use pprof to read the file (go install github.com/google/pprof@latest).
func Profile(rows, workers, chunkSize int) {
	f, err := os.Create(fmt.Sprintf("tabular_%s_r%d_w%d_c%d.prof",
		strings.ReplaceAll(time.Now().Truncate(time.Second).Format(time.DateTime), " ", "-"),
		rows, workers, chunkSize))
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	ds, err := syntheticDataSet(rows)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	eng, err := engine.New(engine.Options{Workers: workers, ChunkSize: chunkSize})
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	defer eng.Release()

	// A mapper heavy enough that chunking pays off.
	scale := func(row tabular.Row) (tabular.Row, error) {
		out := row.Clone()
		v, _ := out[1].AsFloat64()
		for i := 0; i < 500; i++ {
			v = v*1.0000001 + 0.0000001
		}
		out[1] = tabular.Float64(v)
		return out, nil
	}

	// Start profiling
	func() {
		_ = pprof.StartCPUProfile(f)
		defer pprof.StopCPUProfile()

		start := time.Now()
		if _, err := eng.MapParallel(ds, scale); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		fmt.Printf("(par: %s)\n", time.Since(start))
	}()

	start := time.Now()
	if _, err := tabular.Map(ds, scale); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	fmt.Printf("(seq: %s)\n", time.Since(start))
	fmt.Println(eng.Metrics().Snapshot())
	fmt.Printf("profile:%s\n", f.Name())

	// Call pprof on a file
	// pprof -http=:8080 $file
}

func syntheticDataSet(n int) (*tabular.DataSet, error) {
	schema, err := tabular.NewSchema(
		tabular.NewField("id", tabular.TypeInt64),
		tabular.NewField("value", tabular.TypeFloat64),
	)
	if err != nil {
		return nil, err
	}
	rows := make([]tabular.Row, n)
	for i := range rows {
		rows[i] = tabular.Row{tabular.Int64(int64(i)), tabular.Float64(float64(i % 1000))}
	}
	return tabular.NewDataSet(schema, rows)
}
