package table

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	arrowcsv "github.com/apache/arrow-go/v18/arrow/csv"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/parquet"
	"github.com/apache/arrow-go/v18/parquet/compress"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"
)

// ErrNoColumns is returned when exporting a table without any column to a
// format that requires a schema.
var ErrNoColumns = errors.New("table has no columns")

// WriteParquet writes the table as a snappy-compressed Parquet file with the
// Arrow schema stored in the file metadata.
func (t *Table) WriteParquet(w io.Writer) error {
	if len(t.columns) == 0 {
		return ErrNoColumns
	}

	rec, err := t.ToArrow(memory.NewGoAllocator())
	if err != nil {
		return err
	}
	defer rec.Release()

	props := parquet.NewWriterProperties(parquet.WithCompression(compress.Codecs.Snappy))
	arrowProps := pqarrow.NewArrowWriterProperties(pqarrow.WithStoreSchema())

	writer, err := pqarrow.NewFileWriter(rec.Schema(), w, props, arrowProps)
	if err != nil {
		return fmt.Errorf("failed to create parquet writer: %w", err)
	}

	if err := writer.Write(rec); err != nil {
		writer.Close()
		return fmt.Errorf("failed to write table to parquet: %w", err)
	}

	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}

// WriteCSV writes the table as CSV with a header row. Nulls are empty fields.
func (t *Table) WriteCSV(w io.Writer) error {
	if len(t.columns) == 0 {
		return ErrNoColumns
	}

	rec, err := t.ToArrow(memory.NewGoAllocator())
	if err != nil {
		return err
	}
	defer rec.Release()

	cw := arrowcsv.NewWriter(w, rec.Schema(), arrowcsv.WithHeader(true), arrowcsv.WithNullWriter(""))
	if err := cw.Write(rec); err != nil {
		return fmt.Errorf("failed to write CSV rows: %w", err)
	}
	if err := cw.Flush(); err != nil {
		return fmt.Errorf("failed to flush CSV: %w", err)
	}
	return cw.Error()
}

// WriteNDJSON writes one JSON object per row, in row order. Fields follow the
// table's column order and missing fields are omitted, so nested values and
// sparse rows survive unchanged.
func (t *Table) WriteNDJSON(w io.Writer) error {
	bw := bufio.NewWriter(w)
	var buf bytes.Buffer

	for rowIdx, r := range t.rows {
		buf.Reset()
		buf.WriteByte('{')
		first := true
		for _, name := range t.columns {
			v, ok := r[name]
			if !ok {
				continue
			}
			if !first {
				buf.WriteByte(',')
			}
			first = false

			key, _ := json.Marshal(name)
			val, err := json.Marshal(v)
			if err != nil {
				return fmt.Errorf("row %d, column %q: %w", rowIdx+1, name, err)
			}
			buf.Write(key)
			buf.WriteByte(':')
			buf.Write(val)
		}
		buf.WriteString("}\n")

		if _, err := bw.Write(buf.Bytes()); err != nil {
			return fmt.Errorf("failed to write NDJSON: %w", err)
		}
	}

	return bw.Flush()
}
