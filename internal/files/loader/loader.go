package loader

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/vvka-141/kagglefetch/internal/files/filesystem"
	"github.com/vvka-141/kagglefetch/internal/logging"
	"github.com/vvka-141/kagglefetch/internal/table"
	"github.com/vvka-141/kagglefetch/pkg/kagglefetch"
	"golang.org/x/text/encoding/unicode"
)

// NoLimit reads the whole file.
const NoLimit = kagglefetch.NoLimit

// Loader reads NDJSON files through a filesystem provider.
type Loader struct {
	fs     filesystem.FileSystemProvider
	logger kagglefetch.Logger
}

// NewLoader creates a loader. A nil provider reads the OS filesystem and a nil
// logger discards progress notices.
func NewLoader(fsProvider filesystem.FileSystemProvider, logger kagglefetch.Logger) *Loader {
	if fsProvider == nil {
		fsProvider = filesystem.NewOSFileSystem()
	}
	if logger == nil {
		logger = logging.NewNullLogger()
	}
	return &Loader{fs: fsProvider, logger: logger}
}

// LoadFile loads path from the OS filesystem without progress output.
func LoadFile(path string, numBytes int64) (*table.Table, error) {
	return NewLoader(nil, nil).Load(path, numBytes)
}

// Load reads the lines of path that fit in numBytes, counting each line's
// terminator, and returns one row per line. NoLimit reads every line and 0
// yields an empty table.
func (l *Loader) Load(path string, numBytes int64) (*table.Table, error) {
	if numBytes < NoLimit {
		return nil, fmt.Errorf("%w: %d (use %d for no limit)", kagglefetch.ErrInvalidByteLimit, numBytes, NoLimit)
	}

	l.logger.Info("Loading table from: %s...", filepath.Base(path))

	f, err := l.fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", kagglefetch.ErrAccess, err)
	}
	defer f.Close()

	t := table.New()
	r := bufio.NewReader(f)
	var consumed int64

	for lineNo := 1; ; lineNo++ {
		raw, readErr := r.ReadBytes('\n')
		if readErr != nil && !errors.Is(readErr, io.EOF) {
			return nil, fmt.Errorf("%w: reading %s: %w", kagglefetch.ErrAccess, path, readErr)
		}
		if len(raw) == 0 {
			break
		}

		if numBytes != NoLimit && consumed+int64(len(raw)) > numBytes {
			l.logger.Verbose("Byte limit %d reached after %d lines", numBytes, lineNo-1)
			break
		}
		consumed += int64(len(raw))

		text, err := decodeText(raw, lineNo == 1)
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w: %w", path, lineNo, kagglefetch.ErrParse, err)
		}

		row, keys, err := parseObject(text)
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w: %w", path, lineNo, kagglefetch.ErrParse, err)
		}
		t.Append(row, keys...)

		if readErr != nil {
			break
		}
	}

	l.logger.Verbose("Loaded %d rows (%d columns, %d bytes) from %s", t.Len(), len(t.Columns()), consumed, path)
	return t, nil
}

// decodeText rejects lines that are not valid UTF-8. The byte order mark is
// only honoured on the first line.
func decodeText(raw []byte, first bool) ([]byte, error) {
	if !utf8.Valid(raw) {
		return nil, fmt.Errorf("invalid UTF-8 at byte %d", invalidOffset(raw))
	}
	if first {
		return unicode.UTF8BOM.NewDecoder().Bytes(raw)
	}
	return raw, nil
}

func invalidOffset(b []byte) int {
	for i := 0; i < len(b); {
		r, size := utf8.DecodeRune(b[i:])
		if r == utf8.RuneError && size <= 1 {
			return i
		}
		i += size
	}
	return len(b)
}

// parseObject decodes a line holding exactly one JSON object. keys lists the
// object's fields in the order they first appear.
func parseObject(line []byte) (table.Row, []string, error) {
	if len(bytes.TrimSpace(line)) == 0 {
		return nil, nil, errors.New("blank line")
	}

	dec := json.NewDecoder(bytes.NewReader(line))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, nil, fmt.Errorf("expected a JSON object, got %s", describeToken(tok))
	}

	row := make(table.Row)
	var keys []string
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, nil, err
		}
		key := tok.(string)

		var raw any
		if err := dec.Decode(&raw); err != nil {
			return nil, nil, err
		}
		v, err := normalize(raw)
		if err != nil {
			return nil, nil, fmt.Errorf("field %q: %w", key, err)
		}

		if _, seen := row[key]; !seen {
			keys = append(keys, key)
		}
		row[key] = v
	}

	if _, err := dec.Token(); err != nil {
		return nil, nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, nil, errors.New("unexpected data after JSON object")
	}

	return row, keys, nil
}

// normalize replaces json.Number values with int64 when the literal is an
// integer that fits and float64 when it has a fraction or exponent. Integers
// beyond int64 stay json.Number so their digits are kept exactly.
func normalize(v any) (any, error) {
	switch x := v.(type) {
	case json.Number:
		return convertNumber(x)
	case []any:
		for i := range x {
			n, err := normalize(x[i])
			if err != nil {
				return nil, err
			}
			x[i] = n
		}
		return x, nil
	case map[string]any:
		for k, e := range x {
			n, err := normalize(e)
			if err != nil {
				return nil, err
			}
			x[k] = n
		}
		return x, nil
	}
	return v, nil
}

func convertNumber(n json.Number) (any, error) {
	s := n.String()
	if !strings.ContainsAny(s, ".eE") {
		if i, err := n.Int64(); err == nil {
			return i, nil
		}
		return n, nil
	}
	f, err := n.Float64()
	if err != nil {
		return nil, fmt.Errorf("number %s out of range", s)
	}
	return f, nil
}

func describeToken(tok json.Token) string {
	switch x := tok.(type) {
	case json.Delim:
		if x == '[' {
			return "an array"
		}
		return string(x)
	case string:
		return "a string"
	case json.Number:
		return "a number"
	case bool:
		return "a boolean"
	case nil:
		return "null"
	}
	return fmt.Sprintf("%T", tok)
}
