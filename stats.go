// FILE: lixenwraith/daylog/stats.go
package daylog

import (
	"fmt"
	"time"
)

// Stats is a point-in-time snapshot of logger counters
type Stats struct {
	State           LoggerState
	Uptime          time.Duration
	LogsWritten     uint64
	DroppedLogs     uint64
	Rotations       uint64
	FailedRotations uint64
	Deletions       uint64
	WriteErrors     uint64
	Pending         int
	CurrentFile     string
	LogFileCount    int // -1 when the directory could not be read
}

// Stats returns a snapshot of the logger counters
func (l *Logger) Stats() Stats {
	s := Stats{
		LogsWritten:     l.state.TotalLogsWritten.Load(),
		DroppedLogs:     l.state.DroppedLogs.Load(),
		Rotations:       l.state.TotalRotations.Load(),
		FailedRotations: l.state.FailedRotations.Load(),
		Deletions:       l.state.TotalDeletions.Load(),
		WriteErrors:     l.state.WriteErrors.Load(),
	}

	if startTime, ok := l.state.LoggerStartTime.Load().(time.Time); ok && !startTime.IsZero() {
		s.Uptime = time.Since(startTime)
	}

	l.state.mu.Lock()
	s.State = l.state.lifecycle
	s.Pending = len(l.state.pending)
	if l.state.target != nil {
		s.CurrentFile = l.state.target.path
	}
	l.state.mu.Unlock()

	c := l.getConfig()
	s.LogFileCount = 0
	if c.EnableFile {
		count, err := logFileCount(l.Directory(), c.Extension)
		if err != nil {
			l.internalLog("warning - stats failed to get file count: %v\n", err)
		}
		s.LogFileCount = count
	}

	return s
}

// LogStats writes the current counters as a single record at level
func (l *Logger) LogStats(level int64) {
	s := l.Stats()
	_ = l.log(level, "logger stats", nil, []any{
		"state", s.State.String(),
		"uptime_hours", fmt.Sprintf("%.2f", s.Uptime.Hours()),
		"logs_written", s.LogsWritten,
		"dropped_logs", s.DroppedLogs,
		"rotations", s.Rotations,
		"failed_rotations", s.FailedRotations,
		"deletions", s.Deletions,
		"write_errors", s.WriteErrors,
		"log_file_count", s.LogFileCount,
	})
}
