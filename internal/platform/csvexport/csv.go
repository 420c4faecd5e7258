package csvexport

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

var ErrEmpty = errors.New("nothing to export")

// Record is a flat row whose keys keep their insertion order. The first
// record of an export decides the header.
type Record struct {
	keys   []string
	values map[string]any
}

func NewRecord() *Record {
	return &Record{values: map[string]any{}}
}

func (r *Record) Set(key string, value any) *Record {
	if _, ok := r.values[key]; !ok {
		r.keys = append(r.keys, key)
	}
	r.values[key] = value
	return r
}

func (r *Record) Keys() []string {
	out := make([]string, len(r.keys))
	copy(out, r.keys)
	return out
}

func (r *Record) Value(key string) any {
	if r == nil {
		return nil
	}
	return r.values[key]
}

// Write serializes records with every field wrapped in double quotes. Field
// content is not escaped. Rows are separated by a bare newline and the last
// row has no terminator.
func Write(w io.Writer, records []*Record) error {
	if len(records) == 0 || records[0] == nil {
		return ErrEmpty
	}
	headers := records[0].Keys()
	if len(headers) == 0 {
		return ErrEmpty
	}

	bw := bufio.NewWriter(w)
	writeLine(bw, headers)
	for _, record := range records {
		fields := make([]string, len(headers))
		for i, header := range headers {
			fields[i] = fieldText(record.Value(header))
		}
		_ = bw.WriteByte('\n')
		writeLine(bw, fields)
	}
	return bw.Flush()
}

// Render is Write into a string.
func Render(records []*Record) (string, error) {
	var sb strings.Builder
	if err := Write(&sb, records); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// fieldText blanks zero numbers and false the same way nil is blanked, so
// an exported 0 reads as an empty cell.
func fieldText(value any) string {
	switch v := value.(type) {
	case bool:
		if !v {
			return ""
		}
	case float64:
		if v == 0 || math.IsNaN(v) {
			return ""
		}
	case float32:
		if v == 0 || math.IsNaN(float64(v)) {
			return ""
		}
	case int:
		if v == 0 {
			return ""
		}
	case int64:
		if v == 0 {
			return ""
		}
	}
	return FormatValue(value)
}

func FormatValue(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case bool:
		return strconv.FormatBool(v)
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

func writeLine(w *bufio.Writer, fields []string) {
	for i, field := range fields {
		if i > 0 {
			_ = w.WriteByte(',')
		}
		_ = w.WriteByte('"')
		_, _ = w.WriteString(field)
		_ = w.WriteByte('"')
	}
}
