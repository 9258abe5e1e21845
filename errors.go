// FILE: lixenwraith/daylog/errors.go
package daylog

import (
	"errors"
	"fmt"
	"io/fs"
	"syscall"
)

// ErrorKind discriminates the errors produced by the logger
type ErrorKind int

const (
	// KindDirectoryCreation means the output directory could not be ensured
	KindDirectoryCreation ErrorKind = iota + 1
	// KindNotReady means the logger was not open when a record needed a file target
	KindNotReady
	// KindState means a lifecycle call was rejected by the current state
	KindState
	// KindFileHandle means creating, writing or closing a log file failed
	KindFileHandle
	// KindConfig means a configuration could not be loaded or validated
	KindConfig
)

func (k ErrorKind) String() string {
	switch k {
	case KindDirectoryCreation:
		return "directory creation"
	case KindNotReady:
		return "not ready"
	case KindState:
		return "invalid state"
	case KindFileHandle:
		return "file handle"
	case KindConfig:
		return "config"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// DirCause classifies why a directory could not be created
type DirCause int

const (
	DirUnknown DirCause = iota
	DirPermission
	DirQuota
	DirExists
	DirNameTooLong
	DirMissingComponent
)

func (c DirCause) String() string {
	switch c {
	case DirPermission:
		return "permission denied"
	case DirQuota:
		return "quota exceeded"
	case DirExists:
		return "name collision with a non-directory"
	case DirNameTooLong:
		return "path too long"
	case DirMissingComponent:
		return "missing path component"
	default:
		return "unknown"
	}
}

// LogError is the single error type returned and reported by the logger.
// Kind selects the case; the remaining fields are filled as the kind requires.
type LogError struct {
	Kind     ErrorKind
	Reason   string
	Path     string
	DirCause DirCause
	Cause    error
}

func (e *LogError) Error() string {
	msg := "daylog: " + e.Reason
	if e.Path != "" {
		msg += fmt.Sprintf(" '%s'", e.Path)
	}
	if e.Kind == KindDirectoryCreation {
		msg += fmt.Sprintf(" (%s)", e.DirCause)
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *LogError) Unwrap() error {
	return e.Cause
}

// Is matches another *LogError by kind, so errors.Is(err, &LogError{Kind: KindState}) works
func (e *LogError) Is(target error) bool {
	t, ok := target.(*LogError)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// IsKind reports whether err is, or wraps, a daylog error of the given kind
func IsKind(err error, kind ErrorKind) bool {
	var e *LogError
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

func newDirectoryCreationError(path string, cause error) *LogError {
	dc := classifyDirError(cause)
	return &LogError{
		Kind:     KindDirectoryCreation,
		Reason:   "failed to create log directory",
		Path:     path,
		DirCause: dc,
		Cause:    cause,
	}
}

func newNotReadyError(state LoggerState) *LogError {
	return &LogError{
		Kind:   KindNotReady,
		Reason: fmt.Sprintf("logger is %s, record not written to file", state),
	}
}

func newStateError(reason string) *LogError {
	return &LogError{Kind: KindState, Reason: reason}
}

func newFileHandleError(reason, path string, cause error) *LogError {
	return &LogError{Kind: KindFileHandle, Reason: reason, Path: path, Cause: cause}
}

func newConfigError(reason string, cause error) *LogError {
	return &LogError{Kind: KindConfig, Reason: reason, Cause: cause}
}

// classifyDirError maps the underlying errno of a failed mkdir to a DirCause
func classifyDirError(err error) DirCause {
	switch {
	case err == nil:
		return DirUnknown
	case errors.Is(err, fs.ErrPermission):
		return DirPermission
	case errors.Is(err, syscall.EDQUOT):
		return DirQuota
	case errors.Is(err, syscall.ENAMETOOLONG):
		return DirNameTooLong
	case errors.Is(err, fs.ErrExist), errors.Is(err, syscall.ENOTDIR):
		return DirExists
	case errors.Is(err, fs.ErrNotExist):
		return DirMissingComponent
	default:
		return DirUnknown
	}
}
