// Package table holds the in-memory record table produced by loading
// newline-delimited JSON.
//
// A Table is an ordered sequence of rows. Each row maps field names to decoded
// JSON values; rows may be heterogeneous, so the column set is the union of all
// keys in the order they were first seen. A key missing from a row reads as a
// null cell.
//
// Tables convert to Apache Arrow records with one field per column, typed by
// the widest kind observed in that column, and can be exported as Parquet, CSV
// or NDJSON from there.
package table
