package loader

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vvka-141/kagglefetch/internal/files/filesystem"
	"github.com/vvka-141/kagglefetch/internal/logging"
	"github.com/vvka-141/kagglefetch/internal/table"
	"github.com/vvka-141/kagglefetch/pkg/kagglefetch"
)

const businessLines = `{"business_id":"b1","stars":4.5,"review_count":10}
{"business_id":"b2","stars":3,"city":"Reno"}
{"business_id":"b3","review_count":7}
`

func newMemoryLoader(t *testing.T, name, content string) (*Loader, *filesystem.MemoryFileSystem) {
	t.Helper()
	mfs := filesystem.NewMemoryFileSystem("/data")
	mfs.AddFile(name, content)
	return NewLoader(mfs, logging.NewNullLogger()), mfs
}

func TestLoad_AllLines(t *testing.T) {
	l, mfs := newMemoryLoader(t, "business.json", businessLines)

	tbl, err := l.Load("/data/business.json", NoLimit)
	require.NoError(t, err)

	assert.Equal(t, 3, tbl.Len())
	assert.Equal(t, []string{"business_id", "stars", "review_count", "city"}, tbl.Columns())
	assert.Equal(t, []any{"b1", "b2", "b3"}, tbl.Column("business_id"))
	assert.Equal(t, []any{4.5, int64(3), nil}, tbl.Column("stars"))
	assert.Equal(t, 0, mfs.OpenReaders("business.json"))
}

func TestLoad_ByteLimit(t *testing.T) {
	lines := strings.SplitAfter(businessLines, "\n")
	first := int64(len(lines[0]))
	firstTwo := first + int64(len(lines[1]))

	tests := []struct {
		name     string
		numBytes int64
		wantRows int
	}{
		{"zero reads nothing", 0, 0},
		{"one byte short of first line", first - 1, 0},
		{"exactly first line", first, 1},
		{"one byte into second line", first + 1, 1},
		{"exactly two lines", firstTwo, 2},
		{"whole file", int64(len(businessLines)), 3},
		{"larger than file", 1 << 20, 3},
		{"no limit", NoLimit, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, _ := newMemoryLoader(t, "business.json", businessLines)
			tbl, err := l.Load("business.json", tt.numBytes)
			require.NoError(t, err)
			assert.Equal(t, tt.wantRows, tbl.Len())
		})
	}
}

func TestLoad_ByteLimitIsPrefixOfFullLoad(t *testing.T) {
	l, _ := newMemoryLoader(t, "business.json", businessLines)
	full, err := l.Load("business.json", NoLimit)
	require.NoError(t, err)

	for n := int64(0); n <= int64(len(businessLines)); n++ {
		part, err := l.Load("business.json", n)
		require.NoError(t, err)
		require.LessOrEqual(t, part.Len(), full.Len())
		for i := 0; i < part.Len(); i++ {
			assert.Equal(t, full.Row(i), part.Row(i), "row %d at budget %d", i, n)
		}
	}
}

func TestLoad_LastLineWithoutTerminator(t *testing.T) {
	content := "{\"a\":1}\n{\"a\":2}"
	l, _ := newMemoryLoader(t, "x.json", content)

	tbl, err := l.Load("x.json", int64(len(content)))
	require.NoError(t, err)
	assert.Equal(t, []any{int64(1), int64(2)}, tbl.Column("a"))
}

func TestLoad_CRLF(t *testing.T) {
	l, _ := newMemoryLoader(t, "x.json", "{\"a\":1}\r\n{\"a\":2}\r\n")

	tbl, err := l.Load("x.json", 9)
	require.NoError(t, err)
	assert.Equal(t, 1, tbl.Len())
}

func TestLoad_EmptyFile(t *testing.T) {
	l, _ := newMemoryLoader(t, "empty.json", "")

	tbl, err := l.Load("empty.json", NoLimit)
	require.NoError(t, err)
	assert.Equal(t, 0, tbl.Len())
	assert.Empty(t, tbl.Columns())
}

func TestLoad_StripsByteOrderMark(t *testing.T) {
	l, _ := newMemoryLoader(t, "bom.json", "\xef\xbb\xbf{\"id\":1}\n{\"id\":2}\n")

	tbl, err := l.Load("bom.json", NoLimit)
	require.NoError(t, err)
	assert.Equal(t, []string{"id"}, tbl.Columns())
	assert.Equal(t, []any{int64(1), int64(2)}, tbl.Column("id"))
}

func TestLoad_Values(t *testing.T) {
	line := `{"big":9007199254740993,"neg":-4,"exp":1e3,"huge":123456789012345678901234,"s":"é","t":true,"n":null,"arr":[1,2.5],"obj":{"k":7}}` + "\n"
	l, _ := newMemoryLoader(t, "v.json", line)

	tbl, err := l.Load("v.json", NoLimit)
	require.NoError(t, err)
	row := tbl.Row(0)

	assert.Equal(t, int64(9007199254740993), row["big"])
	assert.Equal(t, int64(-4), row["neg"])
	assert.Equal(t, float64(1000), row["exp"])
	assert.Equal(t, json.Number("123456789012345678901234"), row["huge"])
	assert.Equal(t, "é", row["s"])
	assert.Equal(t, true, row["t"])
	assert.Nil(t, row["n"])
	assert.Equal(t, []any{int64(1), 2.5}, row["arr"])
	assert.Equal(t, map[string]any{"k": int64(7)}, row["obj"])

	v, ok := tbl.Value(0, "n")
	assert.True(t, ok, "explicit null is a present field")
	assert.Nil(t, v)
}

func TestLoad_IntegerBeyondInt64KeepsDigits(t *testing.T) {
	l, _ := newMemoryLoader(t, "ids.json", "{\"id\":12345678901234567891}\n{\"id\":-99999999999999999999}\n")

	tbl, err := l.Load("ids.json", NoLimit)
	require.NoError(t, err)

	assert.Equal(t, []table.Kind{table.KindJSON}, tbl.Kinds())
	assert.Equal(t, "12345678901234567891", table.FormatValue(tbl.Row(0)["id"]))
	assert.Equal(t, "-99999999999999999999", table.FormatValue(tbl.Row(1)["id"]))

	var buf bytes.Buffer
	require.NoError(t, tbl.WriteNDJSON(&buf))
	assert.Equal(t, "{\"id\":12345678901234567891}\n{\"id\":-99999999999999999999}\n", buf.String())
}

func TestLoad_InvalidUTF8ReportsOffset(t *testing.T) {
	l, _ := newMemoryLoader(t, "bad.json", "{\"name\":\"caf\xff\"}\n")

	_, err := l.Load("bad.json", NoLimit)
	require.ErrorIs(t, err, kagglefetch.ErrParse)
	assert.Contains(t, err.Error(), "invalid UTF-8 at byte 12")
}

func TestLoad_DuplicateKeyKeepsLastValue(t *testing.T) {
	l, _ := newMemoryLoader(t, "d.json", `{"a":1,"b":2,"a":3}`+"\n")

	tbl, err := l.Load("d.json", NoLimit)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, tbl.Columns())
	assert.Equal(t, int64(3), tbl.Row(0)["a"])
}

func TestLoad_ParseErrors(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		wantLine string
	}{
		{"malformed", "{\"a\":1}\n{\"a\":\n", "line 2"},
		{"array", "[1,2]\n", "line 1"},
		{"scalar", "{\"a\":1}\n{\"a\":2}\n42\n", "line 3"},
		{"string", "\"text\"\n", "line 1"},
		{"blank line", "{\"a\":1}\n\n{\"a\":2}\n", "line 2"},
		{"trailing data", "{\"a\":1} {\"b\":2}\n", "line 1"},
		{"trailing comma", "{\"a\":1,}\n", "line 1"},
		{"overflowing number", "{\"a\":1e999}\n", "line 1"},
		{"invalid utf-8", "{\"a\":1}\n{\"name\":\"caf\xff\"}\n", "line 2"},
		{"invalid utf-8 after bom", "\xef\xbb\xbf{\"name\":\"\xc3\"}\n", "line 1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, mfs := newMemoryLoader(t, "bad.json", tt.content)

			tbl, err := l.Load("bad.json", NoLimit)
			require.Error(t, err)
			assert.Nil(t, tbl)
			assert.True(t, errors.Is(err, kagglefetch.ErrParse))
			assert.Contains(t, err.Error(), tt.wantLine)
			assert.Equal(t, 0, mfs.OpenReaders("bad.json"))
		})
	}
}

func TestLoad_MalformedLineBeyondLimitIsNotRead(t *testing.T) {
	content := "{\"a\":1}\nnot json\n"
	l, _ := newMemoryLoader(t, "x.json", content)

	tbl, err := l.Load("x.json", 8)
	require.NoError(t, err)
	assert.Equal(t, 1, tbl.Len())
}

func TestLoad_InvalidByteLimit(t *testing.T) {
	l, _ := newMemoryLoader(t, "x.json", businessLines)

	_, err := l.Load("x.json", -2)
	require.Error(t, err)
	assert.True(t, errors.Is(err, kagglefetch.ErrInvalidByteLimit))
}

func TestLoad_MissingFile(t *testing.T) {
	l, _ := newMemoryLoader(t, "x.json", businessLines)

	_, err := l.Load("missing.json", NoLimit)
	require.Error(t, err)
	assert.True(t, errors.Is(err, kagglefetch.ErrAccess))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestLoad_ProgressNotice(t *testing.T) {
	var buf bytes.Buffer
	mfs := filesystem.NewMemoryFileSystem("/data")
	mfs.AddFile("nested/review.json", "{\"a\":1}\n")

	_, err := NewLoader(mfs, logging.NewConsoleLoggerTo(&buf, false)).Load("/data/nested/review.json", NoLimit)
	require.NoError(t, err)
	assert.Equal(t, "Loading table from: review.json...\n", buf.String())
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "business.json")
	require.NoError(t, os.WriteFile(path, []byte(businessLines), 0644))

	tbl, err := LoadFile(path, NoLimit)
	require.NoError(t, err)
	assert.Equal(t, 3, tbl.Len())

	_, err = LoadFile(filepath.Join(t.TempDir(), "nope.json"), NoLimit)
	assert.True(t, errors.Is(err, kagglefetch.ErrAccess))
}
