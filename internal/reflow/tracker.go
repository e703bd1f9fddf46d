// Package reflow turns a reflow profile into a feed-forward target slope for
// the current instant of a run.
package reflow

import (
	"reflow_oven/internal/profile"
	"reflow_oven/internal/thermo"
)

// DwellMargin is how close to the peak the oven must get before dwelling starts.
const DwellMargin thermo.Temperature = 30

// Tracker follows one reflow run. Create a fresh Tracker for every run.
type Tracker struct {
	points        [profile.NumCheckpoints]profile.Checkpoint
	peak          thermo.Temperature
	dwellDuration int

	dwelling   bool
	dwellStart int
}

// NewTracker returns a tracker initialised with p.
func NewTracker(p profile.Profile) *Tracker {
	t := &Tracker{}
	t.Init(p)
	return t
}

// Init expands p into checkpoints and clears the dwell state.
func (t *Tracker) Init(p profile.Profile) {
	t.points = p.Checkpoints()
	t.peak = p.PeakTemp()
	t.dwellDuration = p.DwellDuration
	t.dwelling = false
	t.dwellStart = 0
}

// Dwelling reports whether the peak has been reached.
func (t *Tracker) Dwelling() bool { return t.dwelling }

// DwellStart returns the profile time at which dwelling began.
func (t *Tracker) DwellStart() int { return t.dwellStart }

// Finished reports whether the dwell at peak has lasted its full duration.
func (t *Tracker) Finished(elapsed int) bool {
	return t.dwelling && elapsed-t.dwellStart >= t.dwellDuration
}

// TargetSlope returns the rate of change, in tenths of a degree per second,
// needed to reach the profile's target lookahead seconds from now. Beyond
// the end of the profile the slope is 0. Division truncates toward zero.
func (t *Tracker) TargetSlope(measured thermo.Temperature, elapsed, lookahead int) int {
	if !t.dwelling && measured >= t.peak-DwellMargin {
		t.dwelling = true
		t.dwellStart = elapsed
	}

	if t.dwelling {
		return int(t.peak-measured) / lookahead
	}

	target, ok := t.TargetTemp(elapsed + lookahead)
	if !ok {
		return 0
	}
	return int(target-measured) / lookahead
}

// TargetTemp interpolates the profile temperature at the given profile time.
// It returns false past the last checkpoint.
func (t *Tracker) TargetTemp(at int) (thermo.Temperature, bool) {
	if at <= 0 {
		return profile.StartTemp, true
	}
	for i := 1; i < len(t.points); i++ {
		if t.points[i].Time >= at {
			return interpolate(t.points[i-1], t.points[i], at), true
		}
	}
	return 0, false
}

func interpolate(a, b profile.Checkpoint, at int) thermo.Temperature {
	if b.Time == a.Time {
		return b.Temp
	}
	return a.Temp + thermo.Temperature((at-a.Time)*int(b.Temp-a.Temp)/(b.Time-a.Time))
}
