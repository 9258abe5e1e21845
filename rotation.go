// FILE: lixenwraith/daylog/rotation.go
package daylog

import (
	"time"

	"github.com/robfig/cron/v3"
)

// alignedSchedule fires on multiples of interval counted from the epoch, shifted by the
// local zone offset unless zulu is set. A daily interval therefore fires at midnight.
type alignedSchedule struct {
	interval time.Duration
	zulu     bool
}

// Next implements cron.Schedule. It is evaluated from the actual fire time, so a late
// fire does not push later ones.
func (s alignedSchedule) Next(t time.Time) time.Time {
	intervalMs := s.interval.Milliseconds()
	if intervalMs <= 0 {
		return time.Time{}
	}

	var offsetMs int64
	if !s.zulu {
		_, offset := t.Local().Zone()
		offsetMs = int64(offset) * 1000
	}

	since := (t.UnixMilli() + offsetMs) % intervalMs
	if since < 0 {
		since += intervalMs
	}
	delay := time.Duration(intervalMs-since) * time.Millisecond
	return t.Truncate(time.Millisecond).Add(delay)
}

// rotationSchedule returns the schedule configured by cfg
func rotationSchedule(cfg *Config) (cron.Schedule, error) {
	if cfg.RotationCron != "" {
		sched, err := cron.ParseStandard(cfg.RotationCron)
		if err != nil {
			return nil, newConfigError("invalid rotation_cron '"+cfg.RotationCron+"'", err)
		}
		return sched, nil
	}
	return alignedSchedule{
		interval: time.Duration(cfg.RotationIntervalMs) * time.Millisecond,
		zulu:     cfg.UseZuluTime,
	}, nil
}

// startScheduler arms a cron instance that rotates, then purges, on every fire
func (l *Logger) startScheduler(cfg *Config) (*cron.Cron, error) {
	sched, err := rotationSchedule(cfg)
	if err != nil {
		return nil, err
	}

	loc := time.Local
	if cfg.UseZuluTime {
		loc = time.UTC
	}

	c := cron.New(
		cron.WithLocation(loc),
		cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
	)
	c.Schedule(sched, cron.FuncJob(l.scheduledRotation))
	c.Start()
	return c, nil
}

// scheduledRotation is the cron job body
func (l *Logger) scheduledRotation() {
	now := time.Now()
	rotated, err := l.rotate(now)
	if err != nil {
		l.report(err)
		return
	}
	if !rotated {
		return
	}
	if _, err := l.purgeExpired(now); err != nil {
		l.report(err)
	}
}

// rotate replaces the current target with a freshly created one. Records logged while the
// new file is being created are buffered and land in whichever target ends up current.
// It reports false without error when the logger is not in a state to rotate.
func (l *Logger) rotate(now time.Time) (bool, error) {
	l.state.mu.Lock()
	cfg := l.getConfig()
	if l.state.lifecycle != StateOpen || l.state.rotating || !cfg.EnableFile || l.state.target == nil {
		l.state.mu.Unlock()
		return false, nil
	}
	l.state.rotating = true
	l.state.rotations.Add(1)
	old := l.state.target
	l.state.target = nil
	l.state.mu.Unlock()

	target, err := l.createTarget(cfg, now)

	l.state.mu.Lock()
	defer l.state.mu.Unlock()
	defer l.state.rotations.Done()
	l.state.rotating = false

	if err != nil {
		l.state.target = old
		l.drainPending()
		l.state.FailedRotations.Add(1)
		return false, err
	}

	if werr := target.writeLine(l.sentinel(createdSentinelFormat, now)); werr != nil {
		l.state.WriteErrors.Add(1)
		l.report(werr)
	}
	l.state.target = target
	l.drainPending()
	l.state.TotalRotations.Add(1)

	l.retire(old, now)
	return true, nil
}
