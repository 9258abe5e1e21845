// FILE: lixenwraith/daylog/state.go
package daylog

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
)

// LoggerState is the lifecycle position of a Logger
type LoggerState int32

const (
	StateClosed LoggerState = iota
	StateOpening
	StateOpen
	StateClosing
)

func (s LoggerState) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpening:
		return "opening"
	case StateOpen:
		return "open"
	case StateClosing:
		return "closing"
	default:
		return "unknown"
	}
}

// State encapsulates the runtime state of the logger.
// Fields above mu are owned by the lifecycle and guarded by mu; the counters are atomic.
type State struct {
	mu        sync.Mutex
	lifecycle LoggerState
	target    *writeTarget // current write target, nil when none is writable
	pending   []string     // formatted lines waiting for a target
	rotating  bool         // a rotation is creating its new target
	scheduler *cron.Cron   // rotation scheduler, nil unless open with file output

	rotations sync.WaitGroup // rotations between detaching the old target and installing the new one
	retired   sync.WaitGroup // old targets still being closed

	// Statistics
	LoggerStartTime  atomic.Value  // stores time.Time
	TotalLogsWritten atomic.Uint64 // lines written to a file target
	DroppedLogs      atomic.Uint64 // records dropped during a transition
	TotalRotations   atomic.Uint64 // successful rotations
	FailedRotations  atomic.Uint64 // rotations aborted by an error
	TotalDeletions   atomic.Uint64 // files removed by retention
	WriteErrors      atomic.Uint64 // failed writes to console or file

	ConsoleWriter atomic.Value // stores *sink
}

// transition moves from one lifecycle state to another, mu must be held
func (s *State) transition(from, to LoggerState) bool {
	if s.lifecycle != from {
		return false
	}
	s.lifecycle = to
	return true
}

// openRejection returns the reason Open cannot proceed from the current state, mu must be held
func (s *State) openRejection() error {
	switch s.lifecycle {
	case StateClosing:
		return newStateError("cannot open while closing")
	case StateOpening:
		return newStateError("cannot open while already opening")
	}
	return nil
}

// closeRejection returns the reason Close cannot proceed from the current state, mu must be held
func (s *State) closeRejection() error {
	switch s.lifecycle {
	case StateOpening:
		return newStateError("cannot close while opening")
	case StateClosing:
		return newStateError("cannot close while already closing")
	case StateClosed:
		return newStateError("cannot close while already closed")
	}
	return nil
}

func (s *State) reset() {
	s.lifecycle = StateClosed
	s.LoggerStartTime.Store(time.Now())
}
