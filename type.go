// FILE: lixenwraith/daylog/type.go
package daylog

import (
	"io"
	"time"

	"github.com/lixenwraith/daylog/formatter"
)

// FormatFunc turns one log entry into the exact text written for it, without a trailing newline.
type FormatFunc func(entry formatter.Entry) string

// DateFunc renders a timestamp with a layout, in UTC when zulu is set and local time otherwise.
// It is the formatter's date type, so one function serves file names, sentinels and records.
type DateFunc = formatter.DateFunc

// ErrorHandler receives errors the logger reports but cannot return to a caller,
// such as failures during scheduled rotation or purging.
// It must not call back into the Logger that reported the error.
type ErrorHandler func(err error)

// sink is a wrapper around an io.Writer, atomic value type change workaround
type sink struct {
	w io.Writer
}

// FormatDate is the default DateFunc, using Go reference layouts
func FormatDate(t time.Time, layout string, zulu bool) string {
	if zulu {
		return t.UTC().Format(layout)
	}
	return t.Local().Format(layout)
}
