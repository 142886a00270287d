package table

import (
	"encoding/json"
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
)

// arrowType maps a column kind to its Arrow data type. Null and JSON columns
// are carried as strings; JSON cells hold their compact encoding.
func arrowType(k Kind) arrow.DataType {
	switch k {
	case KindBool:
		return arrow.FixedWidthTypes.Boolean
	case KindInt:
		return arrow.PrimitiveTypes.Int64
	case KindFloat:
		return arrow.PrimitiveTypes.Float64
	default:
		return arrow.BinaryTypes.String
	}
}

// Schema returns the Arrow schema for the table, one nullable field per column.
func (t *Table) Schema() *arrow.Schema {
	kinds := t.Kinds()
	fields := make([]arrow.Field, len(t.columns))
	for i, name := range t.columns {
		fields[i] = arrow.Field{
			Name:     name,
			Type:     arrowType(kinds[i]),
			Nullable: true,
			Metadata: arrow.NewMetadata([]string{"kind"}, []string{kinds[i].String()}),
		}
	}
	return arrow.NewSchema(fields, nil)
}

// ToArrow builds a single Arrow record holding every row.
// The caller owns the record and must Release it.
func (t *Table) ToArrow(mem memory.Allocator) (arrow.Record, error) {
	if mem == nil {
		mem = memory.NewGoAllocator()
	}

	kinds := t.Kinds()
	schema := t.Schema()

	b := array.NewRecordBuilder(mem, schema)
	defer b.Release()

	for colIdx, name := range t.columns {
		fb := b.Field(colIdx)
		fb.Reserve(len(t.rows))
		for rowIdx, v := range t.Column(name) {
			if err := appendValue(fb, kinds[colIdx], v); err != nil {
				return nil, fmt.Errorf("row %d, column %q: %w", rowIdx+1, name, err)
			}
		}
	}

	return b.NewRecord(), nil
}

// appendValue appends v, with nil covering both null and missing cells.
func appendValue(fb array.Builder, kind Kind, v any) error {
	if v == nil {
		fb.AppendNull()
		return nil
	}

	switch kind {
	case KindBool:
		fb.(*array.BooleanBuilder).Append(v.(bool))
	case KindInt:
		fb.(*array.Int64Builder).Append(v.(int64))
	case KindFloat:
		switch n := v.(type) {
		case int64:
			fb.(*array.Float64Builder).Append(float64(n))
		case float64:
			fb.(*array.Float64Builder).Append(n)
		default:
			return fmt.Errorf("unexpected %T in float column", v)
		}
	case KindString:
		fb.(*array.StringBuilder).Append(v.(string))
	default:
		encoded, err := json.Marshal(v)
		if err != nil {
			return err
		}
		fb.(*array.StringBuilder).Append(string(encoded))
	}
	return nil
}
