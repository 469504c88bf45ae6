package model

import (
	"fmt"
	"time"
)

// DefaultStep is the simulation resolution used throughout the study.
const DefaultStep = 15 * time.Minute

// Timeline holds the ordered simulation timesteps. All series (prices,
// tariffs, schedules) are aligned to a Timeline by index.
type Timeline struct {
	steps []time.Time
	step  time.Duration
}

// NewTimeline builds a timeline from start (inclusive) to end (exclusive)
// with the given step duration.
func NewTimeline(start, end time.Time, step time.Duration) (Timeline, error) {
	if step <= 0 {
		return Timeline{}, fmt.Errorf("step must be positive, got %v", step)
	}
	if !start.Before(end) {
		return Timeline{}, fmt.Errorf("start %v must be before end %v", start, end)
	}
	var steps []time.Time
	for t := start; t.Before(end); t = t.Add(step) {
		steps = append(steps, t)
	}
	return Timeline{steps: steps, step: step}, nil
}

// Len returns the number of timesteps.
func (tl Timeline) Len() int { return len(tl.steps) }

// At returns the timestamp of step i.
func (tl Timeline) At(i int) time.Time { return tl.steps[i] }

// Steps returns a copy of all timestamps.
func (tl Timeline) Steps() []time.Time {
	out := make([]time.Time, len(tl.steps))
	copy(out, tl.steps)
	return out
}

// Step returns the step duration.
func (tl Timeline) Step() time.Duration { return tl.step }

// StepHours returns the step duration in hours, the Δt used to convert
// power (kW) into energy (kWh).
func (tl Timeline) StepHours() float64 { return tl.step.Hours() }

// IndexRange returns the half-open index interval [lo, hi) of steps t with
// from <= t < to. It returns lo == hi when no step falls in the window.
func (tl Timeline) IndexRange(from, to time.Time) (lo, hi int) {
	lo = len(tl.steps)
	for i, t := range tl.steps {
		if !t.Before(from) {
			lo = i
			break
		}
	}
	hi = lo
	for hi < len(tl.steps) && tl.steps[hi].Before(to) {
		hi++
	}
	return lo, hi
}

// MonthKey identifies a calendar month within the horizon.
type MonthKey struct {
	Year  int
	Month time.Month
}

func (k MonthKey) String() string {
	return fmt.Sprintf("%04d-%02d", k.Year, int(k.Month))
}

// MonthBuckets groups step indices by the calendar month they fall in,
// evaluated in each step's own location. Billing periods for capacity
// tariffs follow these buckets.
func (tl Timeline) MonthBuckets() map[MonthKey][]int {
	buckets := make(map[MonthKey][]int)
	for i, t := range tl.steps {
		k := MonthKey{Year: t.Year(), Month: t.Month()}
		buckets[k] = append(buckets[k], i)
	}
	return buckets
}
