// Package ratelimit holds the fixed-window quota rules shared by every counter
// backend. Nothing here knows about HTTP or about where counters are stored.
package ratelimit

import (
	"math"
	"time"
)

const (
	MinuteWindow = time.Minute
	HourWindow   = time.Hour
)

// Window names the quota window that produced a decision.
type Window string

const (
	WindowNone   Window = ""
	WindowMinute Window = "minute"
	WindowHour   Window = "hour"
)

// Limits is the (per-minute, per-hour) quota pair of one limiter.
type Limits struct {
	PerMinute int
	PerHour   int
}

// WindowState is the counter pair kept for one client of one limiter.
// The zero value is a fresh client: both windows are already expired and roll
// over on the first check.
type WindowState struct {
	MinuteCount   int
	MinuteResetAt time.Time
	HourCount     int
	HourResetAt   time.Time
}

// Decision is the outcome of one admission check.
type Decision struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetAt   time.Time
	// RetryAfter is only set on rejection.
	RetryAfter time.Duration
	// Window is the window that rejected the request, WindowNone when allowed.
	Window Window
}

// RetryAfterSeconds rounds RetryAfter up to whole seconds, never below 1 for a
// rejection.
func (d Decision) RetryAfterSeconds() int {
	if d.Allowed {
		return 0
	}
	secs := int(math.Ceil(d.RetryAfter.Seconds()))
	if secs < 1 {
		secs = 1
	}
	return secs
}

// Rollover resets every window whose reset time has passed. Each window is
// handled on its own; both may roll over on the same tick.
func (s *WindowState) Rollover(now time.Time) {
	if !now.Before(s.MinuteResetAt) {
		s.MinuteCount = 0
		s.MinuteResetAt = now.Add(MinuteWindow)
	}
	if !now.Before(s.HourResetAt) {
		s.HourCount = 0
		s.HourResetAt = now.Add(HourWindow)
	}
}

// Admit runs one fixed-window check and commits the result to s.
//
// The minute window is evaluated before the hour window. Rejections do not
// consume quota, but the rollover is kept either way.
func (s *WindowState) Admit(now time.Time, limits Limits) Decision {
	s.Rollover(now)

	if s.MinuteCount >= limits.PerMinute {
		return Decision{
			Allowed:    false,
			Limit:      limits.PerMinute,
			Remaining:  0,
			ResetAt:    s.MinuteResetAt,
			RetryAfter: s.MinuteResetAt.Sub(now),
			Window:     WindowMinute,
		}
	}

	if s.HourCount >= limits.PerHour {
		return Decision{
			Allowed:    false,
			Limit:      limits.PerHour,
			Remaining:  0,
			ResetAt:    s.HourResetAt,
			RetryAfter: s.HourResetAt.Sub(now),
			Window:     WindowHour,
		}
	}

	s.MinuteCount++
	s.HourCount++

	return Decision{
		Allowed:   true,
		Limit:     limits.PerMinute,
		Remaining: limits.PerMinute - s.MinuteCount,
		ResetAt:   s.MinuteResetAt,
	}
}

// Stale reports whether the hour window closed more than grace ago.
func (s *WindowState) Stale(now time.Time, grace time.Duration) bool {
	return now.After(s.HourResetAt.Add(grace))
}
