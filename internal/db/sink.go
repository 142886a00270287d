package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/vvka-141/kagglefetch/internal/table"
)

// ErrEmptyTableName is returned when no target table is named.
var ErrEmptyTableName = errors.New("target table name is required")

// Conn is the subset of *pgxpool.Pool and *pgx.Conn the sink uses.
type Conn interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error)
}

// Sink copies record tables into PostgreSQL tables.
type Sink struct {
	conn Conn
}

// NewSink creates a sink writing through conn.
func NewSink(conn Conn) *Sink {
	return &Sink{conn: conn}
}

// WriteTable creates the table name if it does not exist and appends every row
// of tbl to it. name may be schema-qualified ("schema.table").
// It returns the number of rows copied.
func (s *Sink) WriteTable(ctx context.Context, name string, tbl *table.Table) (int64, error) {
	ident, err := ParseIdentifier(name)
	if err != nil {
		return 0, err
	}

	columns := tbl.Columns()
	if len(columns) == 0 {
		return 0, fmt.Errorf("cannot write %s: %w", ident.Sanitize(), table.ErrNoColumns)
	}

	kinds := tbl.Kinds()
	if _, err := s.conn.Exec(ctx, CreateTableSQL(ident, columns, kinds)); err != nil {
		return 0, fmt.Errorf("failed to create table %s: %w", ident.Sanitize(), err)
	}

	rows := pgx.CopyFromSlice(tbl.Len(), func(i int) ([]any, error) {
		r := tbl.Row(i)
		values := make([]any, len(columns))
		for j, c := range columns {
			v, err := copyValue(r[c], kinds[j])
			if err != nil {
				return nil, fmt.Errorf("row %d column %q: %w", i+1, c, err)
			}
			values[j] = v
		}
		return values, nil
	})

	n, err := s.conn.CopyFrom(ctx, ident, columns, rows)
	if err != nil {
		return 0, fmt.Errorf("failed to copy rows into %s: %w", ident.Sanitize(), err)
	}
	return n, nil
}

// ParseIdentifier splits an optionally schema-qualified table name.
func ParseIdentifier(name string) (pgx.Identifier, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyTableName
	}
	parts := strings.Split(name, ".")
	if len(parts) > 2 {
		return nil, fmt.Errorf("invalid table name %q: expected table or schema.table", name)
	}
	for _, p := range parts {
		if p == "" {
			return nil, fmt.Errorf("invalid table name %q: empty component", name)
		}
	}
	return pgx.Identifier(parts), nil
}

// CreateTableSQL returns the CREATE TABLE IF NOT EXISTS statement for columns.
// kinds is aligned with columns.
func CreateTableSQL(ident pgx.Identifier, columns []string, kinds []table.Kind) string {
	var b strings.Builder
	b.WriteString("CREATE TABLE IF NOT EXISTS ")
	b.WriteString(ident.Sanitize())
	b.WriteString(" (")
	for i, c := range columns {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(pgx.Identifier{c}.Sanitize())
		b.WriteString(" ")
		b.WriteString(ColumnType(kinds[i]))
	}
	b.WriteString(")")
	return b.String()
}

// ColumnType maps a column kind to a PostgreSQL type.
func ColumnType(k table.Kind) string {
	switch k {
	case table.KindBool:
		return "boolean"
	case table.KindInt:
		return "bigint"
	case table.KindFloat:
		return "double precision"
	case table.KindJSON:
		return "jsonb"
	default:
		return "text"
	}
}

// copyValue converts a cell to the Go value pgx encodes for the column kind.
func copyValue(v any, k table.Kind) (any, error) {
	if v == nil {
		return nil, nil
	}
	switch k {
	case table.KindFloat:
		if i, ok := v.(int64); ok {
			return float64(i), nil
		}
		return v, nil
	case table.KindJSON:
		b, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		return json.RawMessage(b), nil
	case table.KindBool, table.KindInt, table.KindString:
		return v, nil
	default:
		return table.FormatValue(v), nil
	}
}
