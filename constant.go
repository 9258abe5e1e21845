// FILE: lixenwraith/daylog/constant.go
package daylog

import "time"

// Log level constants
const (
	LevelDebug int64 = -4
	LevelInfo  int64 = 0
	LevelWarn  int64 = 4
	LevelError int64 = 8
	LevelFatal int64 = 12
)

// Output formats understood by the built-in formatter
const (
	FormatStandard         = "standard"
	FormatStandardFullDate = "standard-full-date"
	FormatRaw              = "raw"
)

// File naming and rotation defaults
const (
	// DefaultFileNameFormat is the Go layout used for rotated file names
	DefaultFileNameFormat = "2006-01-02T15-04-05"
	// DefaultRotationInterval aligns rotation to day boundaries
	DefaultRotationInterval = 24 * time.Hour
	// sentinelTimeLayout is used for the created/closed marker lines
	sentinelTimeLayout = "2006-01-02 15:04:05.000 -07:00"
	// maxCollisionSuffix bounds the " (N)" search for a free file name
	maxCollisionSuffix = 10000
)

// Sentinel line templates
const (
	createdSentinelFormat = "--- Log file created at %s ---"
	closedSentinelFormat  = "--- Log file closed as of %s ---"
)

// Permissions for created directories and files
const (
	dirPerm  = 0755
	filePerm = 0644
)
