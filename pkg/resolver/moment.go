// Package resolver decides, for a captured moment in time, which variant
// of each task entry applies, merges its parameters per the entry's
// strategy, and resolves placeholder parameters through the interactive
// surface into a concrete parameter set ready for dispatch.
package resolver

import (
	"time"

	"github.com/tactcli/tact/pkg/schema"
)

// Moment is the time context a resolution run evaluates conditions
// against. It is captured once per run so that every condition agrees on
// the present moment, which keeps a run deterministic and replayable.
type Moment struct {
	Now       time.Time
	Weekday   time.Weekday
	TimeOfDay schema.ClockTime
}

// MomentAt derives the context fields from an absolute timestamp.
func MomentAt(t time.Time) Moment {
	return Moment{
		Now:       t,
		Weekday:   t.Weekday(),
		TimeOfDay: schema.ClockAt(t),
	}
}

// CaptureMoment snapshots the wall clock.
func CaptureMoment() Moment {
	return MomentAt(time.Now())
}
