package table

import "fmt"

// Kind is the inferred type of a column.
type Kind int

const (
	// KindNull means every value in the column is null or missing.
	KindNull Kind = iota
	// KindBool holds JSON booleans.
	KindBool
	// KindInt holds integral JSON numbers that fit in int64.
	KindInt
	// KindFloat holds other JSON numbers, or a mix of integral and other numbers.
	KindFloat
	// KindString holds JSON strings.
	KindString
	// KindJSON holds nested values, integers beyond int64 (kept as
	// json.Number) or a mix of incompatible kinds.
	KindJSON
)

// String returns the string representation of a Kind.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindJSON:
		return "json"
	default:
		return fmt.Sprintf("unknown(%d)", int(k))
	}
}

// KindOf classifies a single decoded value.
func KindOf(v any) Kind {
	switch v.(type) {
	case nil:
		return KindNull
	case bool:
		return KindBool
	case int64:
		return KindInt
	case float64:
		return KindFloat
	case string:
		return KindString
	default:
		return KindJSON
	}
}

// widen returns the narrowest kind that can represent values of both a and b.
func widen(a, b Kind) Kind {
	switch {
	case a == b:
		return a
	case a == KindNull:
		return b
	case b == KindNull:
		return a
	case (a == KindInt && b == KindFloat) || (a == KindFloat && b == KindInt):
		return KindFloat
	default:
		return KindJSON
	}
}

// Kinds infers one kind per column, in Columns() order.
func (t *Table) Kinds() []Kind {
	kinds := make([]Kind, len(t.columns))
	for _, r := range t.rows {
		for name, v := range r {
			i := t.index[name]
			kinds[i] = widen(kinds[i], KindOf(v))
		}
	}
	return kinds
}
