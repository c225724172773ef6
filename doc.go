/*
tabular ingests tabular files into a typed in-memory DataSet and transforms it
with filter/map/reduce, either sequentially or on a bounded worker pool.

The data model is deliberately small: a Schema is an ordered list of named,
typed fields, and a DataSet is that schema plus row-major Values. Null is a
valid value for any declared type. Every transformation produces a new DataSet;
nothing mutates in place.

The root package holds the data model and the sequential primitives, which
define the semantics everything else must preserve. Package engine re-expresses
them as chunked parallel operations over a fixed goroutine pool, with bounded
chunk admission (backpressure) and live metrics. Package ingest loads CSV,
JSON/NDJSON, Parquet and workbook files into a DataSet against a caller
supplied schema, reporting outcomes to optional observers.

Pool sizing follows the usual trade-off: chunk size times the in-flight cap
bounds how many intermediate rows exist at once, and the worker count bounds
CPU use. Size the pool to the machine for CPU-bound row functions; raise the
in-flight cap only when chunks are cheap to hold. As for any performance
tuning, you should try and tune.
*/
package tabular
