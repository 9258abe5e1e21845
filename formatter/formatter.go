// FILE: lixenwraith/daylog/formatter/formatter.go
// Package formatter renders log entries as single text lines or JSON objects.
package formatter

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/davecgh/go-spew/spew"

	"github.com/lixenwraith/daylog/sanitizer"
)

// Timestamp layouts of the text formats
const (
	TimeLayoutStandard = "15:04:05.000 -07:00"
	TimeLayoutFullDate = "2006-01-02 15:04:05.000 -07:00"
)

// Entry is one log record handed to a formatter
type Entry struct {
	Time    time.Time
	Level   int64
	Name    string
	Message string
	Err     error
	Fields  []any // alternating key, value
}

// DateFunc renders t with a Go layout, in UTC when zulu is set
type DateFunc func(t time.Time, layout string, zulu bool) string

// dumper renders complex field values on one line
var dumper = &spew.ConfigState{
	MaxDepth:                5,
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	DisableMethods:          false,
	SortKeys:                true,
}

// Formatter turns entries into lines. It reuses an internal buffer and is not safe for
// concurrent use; the logger serializes calls.
type Formatter struct {
	sanitizer     *sanitizer.Sanitizer
	format        string
	showTimestamp bool
	zulu          bool
	date          DateFunc
	buf           []byte
}

// New creates a formatter with the provided sanitizer, defaulting to the txt policy
func New(s ...*sanitizer.Sanitizer) *Formatter {
	var san *sanitizer.Sanitizer
	if len(s) > 0 && s[0] != nil {
		san = s[0]
	} else {
		san = sanitizer.New().Policy(sanitizer.PolicyTxt)
	}
	return &Formatter{
		sanitizer:     san,
		format:        "standard",
		showTimestamp: true,
		zulu:          true,
		date:          defaultDate,
		buf:           make([]byte, 0, 512),
	}
}

// Type sets the output format ("standard", "standard-full-date", or "raw")
func (f *Formatter) Type(format string) *Formatter {
	f.format = format
	return f
}

// ShowTimestamp sets whether text formats start with a timestamp
func (f *Formatter) ShowTimestamp(show bool) *Formatter {
	f.showTimestamp = show
	return f
}

// UseZuluTime renders timestamps in UTC instead of local time
func (f *Formatter) UseZuluTime(zulu bool) *Formatter {
	f.zulu = zulu
	return f
}

// DateFunc sets the timestamp renderer
func (f *Formatter) DateFunc(fn DateFunc) *Formatter {
	if fn != nil {
		f.date = fn
	}
	return f
}

// Format renders e without a trailing newline
func (f *Formatter) Format(e Entry) string {
	f.buf = f.buf[:0]
	switch f.format {
	case "raw":
		f.formatRaw(e)
	case "standard-full-date":
		f.formatText(e, TimeLayoutFullDate)
	default:
		f.formatText(e, TimeLayoutStandard)
	}
	return string(f.buf)
}

// LevelToString converts integer level values to string
func LevelToString(level int64) string {
	switch level {
	case -4:
		return "DEBUG"
	case 0:
		return "INFO"
	case 4:
		return "WARN"
	case 8:
		return "ERROR"
	case 12:
		return "FATAL"
	default:
		return fmt.Sprintf("LEVEL(%d)", level)
	}
}

func defaultDate(t time.Time, layout string, zulu bool) string {
	if zulu {
		return t.UTC().Format(layout)
	}
	return t.Local().Format(layout)
}

// formatText writes "[ts] LEVEL: msg k=v" followed by any error lines
func (f *Formatter) formatText(e Entry, layout string) {
	if f.showTimestamp {
		f.buf = append(f.buf, '[')
		f.buf = append(f.buf, f.date(e.Time, layout, f.zulu)...)
		f.buf = append(f.buf, "] "...)
	}
	f.buf = append(f.buf, LevelToString(e.Level)...)
	f.buf = append(f.buf, ':')

	if e.Name != "" {
		f.buf = append(f.buf, " ("...)
		f.buf = append(f.buf, f.sanitizer.Sanitize(e.Name)...)
		f.buf = append(f.buf, ')')
	}

	msg := e.Message
	var errLines []string
	if e.Err != nil {
		errLines = strings.Split(strings.TrimRight(errorText(e.Err), "\n"), "\n")
		if msg == "" {
			msg = errLines[0]
			errLines = errLines[1:]
		}
	}

	if msg != "" {
		f.buf = append(f.buf, ' ')
		f.buf = append(f.buf, f.sanitizer.Sanitize(msg)...)
	}

	for i := 0; i < len(e.Fields); i += 2 {
		f.buf = append(f.buf, ' ')
		if i+1 >= len(e.Fields) {
			f.buf = append(f.buf, "!BADKEY="...)
			f.appendTextValue(e.Fields[i])
			break
		}
		f.buf = append(f.buf, f.sanitizer.Sanitize(keyString(e.Fields[i]))...)
		f.buf = append(f.buf, '=')
		f.appendTextValue(e.Fields[i+1])
	}

	// Error text keeps its own line structure, each line sanitized
	for _, line := range errLines {
		f.buf = append(f.buf, '\n')
		f.buf = append(f.buf, f.sanitizer.Sanitize(line)...)
	}
}

// appendTextValue writes v as a key=value value, quoting when it contains spaces or quotes
func (f *Formatter) appendTextValue(v any) {
	var s string
	switch val := v.(type) {
	case string:
		s = val
	case []byte:
		s = string(val)
	case int:
		f.buf = strconv.AppendInt(f.buf, int64(val), 10)
		return
	case int64:
		f.buf = strconv.AppendInt(f.buf, val, 10)
		return
	case uint64:
		f.buf = strconv.AppendUint(f.buf, val, 10)
		return
	case float64:
		f.buf = strconv.AppendFloat(f.buf, val, 'f', -1, 64)
		return
	case bool:
		f.buf = strconv.AppendBool(f.buf, val)
		return
	case nil:
		f.buf = append(f.buf, "nil"...)
		return
	case time.Time:
		s = val.Format(time.RFC3339Nano)
	case time.Duration:
		s = val.String()
	case error:
		s = errorText(val)
	case fmt.Stringer:
		s = stringerText(val)
	default:
		s = dumper.Sprintf("%+v", val)
	}

	s = f.sanitizer.Sanitize(s)
	if needsQuotes(s) {
		f.buf = strconv.AppendQuote(f.buf, s)
		return
	}
	f.buf = append(f.buf, s...)
}

// formatRaw writes one JSON object
func (f *Formatter) formatRaw(e Entry) {
	f.buf = append(f.buf, `{"time":`...)
	f.buf = appendJSON(f.buf, f.date(e.Time, time.RFC3339Nano, f.zulu))
	f.buf = append(f.buf, `,"level":`...)
	f.buf = appendJSON(f.buf, strings.ToLower(LevelToString(e.Level)))
	if e.Name != "" {
		f.buf = append(f.buf, `,"name":`...)
		f.buf = appendJSON(f.buf, e.Name)
	}
	f.buf = append(f.buf, `,"msg":`...)
	f.buf = appendJSON(f.buf, e.Message)
	if e.Err != nil {
		f.buf = append(f.buf, `,"err":`...)
		f.buf = appendJSON(f.buf, errorText(e.Err))
	}

	if len(e.Fields) > 0 {
		f.buf = append(f.buf, `,"fields":{`...)
		for i := 0; i < len(e.Fields); i += 2 {
			if i > 0 {
				f.buf = append(f.buf, ',')
			}
			if i+1 >= len(e.Fields) {
				f.buf = append(f.buf, `"!BADKEY":`...)
				f.buf = appendJSON(f.buf, jsonValue(e.Fields[i]))
				break
			}
			f.buf = appendJSON(f.buf, keyString(e.Fields[i]))
			f.buf = append(f.buf, ':')
			f.buf = appendJSON(f.buf, jsonValue(e.Fields[i+1]))
		}
		f.buf = append(f.buf, '}')
	}
	f.buf = append(f.buf, '}')
}

// jsonValue maps values without a useful JSON encoding to strings
func jsonValue(v any) any {
	switch val := v.(type) {
	case time.Time:
		return val
	case error:
		return errorText(val)
	case time.Duration:
		return val.String()
	case fmt.Stringer:
		return stringerText(val)
	default:
		return v
	}
}

// errorText returns err.Error(), rendering a nil receiver as "<nil>" and a panic as "!PANIC: ..."
func errorText(err error) (text string) {
	defer recoverText(err, &text)
	return err.Error()
}

// stringerText is errorText for fmt.Stringer
func stringerText(s fmt.Stringer) (text string) {
	defer recoverText(s, &text)
	return s.String()
}

func recoverText(v any, text *string) {
	r := recover()
	if r == nil {
		return
	}
	if rv := reflect.ValueOf(v); rv.Kind() == reflect.Pointer && rv.IsNil() {
		*text = "<nil>"
		return
	}
	*text = fmt.Sprintf("!PANIC: %v", r)
}

func appendJSON(buf []byte, v any) []byte {
	b, err := json.Marshal(v)
	if err != nil {
		b, _ = json.Marshal(dumper.Sprintf("%+v", v))
	}
	return append(buf, b...)
}

func keyString(k any) string {
	if s, ok := k.(string); ok {
		return s
	}
	return fmt.Sprint(k)
}

func needsQuotes(s string) bool {
	if s == "" {
		return true
	}
	for _, r := range s {
		if unicode.IsSpace(r) || r == '"' || r == '=' {
			return true
		}
	}
	return false
}
