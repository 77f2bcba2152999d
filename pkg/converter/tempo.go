package converter

import (
	"fmt"
	"sort"
)

// DefaultMicrosPerQuarter is the MIDI default tempo (120 BPM)
const DefaultMicrosPerQuarter = 500000.0

// TempoMap converts MIDI ticks to absolute seconds. It precomputes one
// cumulative-seconds checkpoint per tempo change so arbitrary ticks resolve
// with a binary search instead of a rescan.
type TempoMap struct {
	ticksPerQuarter uint16
	changes         []TempoChange
	checkpoints     []float64 // seconds elapsed at changes[i].Tick
}

// NewTempoMap builds a tempo map from ticks-per-quarter-note and an ordered
// list of tempo changes. An empty list falls back to 120 BPM. If the first
// change does not start at tick 0 the default tempo covers the gap.
func NewTempoMap(ticksPerQuarter uint16, changes []TempoChange) (*TempoMap, error) {
	if ticksPerQuarter == 0 {
		return nil, fmt.Errorf("%w: ticks per quarter must be > 0", ErrMalformedTempoMap)
	}

	if len(changes) == 0 || changes[0].Tick != 0 {
		changes = append([]TempoChange{{Tick: 0, MicrosPerQuarter: DefaultMicrosPerQuarter}}, changes...)
	}

	for i, c := range changes {
		if c.MicrosPerQuarter <= 0 {
			return nil, fmt.Errorf("%w: non-positive tempo at tick %d", ErrMalformedTempoMap, c.Tick)
		}
		if i > 0 && c.Tick < changes[i-1].Tick {
			return nil, fmt.Errorf("%w: tempo at tick %d out of order", ErrMalformedTempoMap, c.Tick)
		}
	}

	tm := &TempoMap{
		ticksPerQuarter: ticksPerQuarter,
		changes:         changes,
		checkpoints:     make([]float64, len(changes)),
	}

	var elapsed float64
	for i := 1; i < len(changes); i++ {
		segTicks := float64(changes[i].Tick - changes[i-1].Tick)
		elapsed += segTicks / float64(ticksPerQuarter) * changes[i-1].MicrosPerQuarter / 1e6
		tm.checkpoints[i] = elapsed
	}

	return tm, nil
}

// TimeAt converts a tick value to absolute seconds
func (tm *TempoMap) TimeAt(tick uint32) float64 {
	// Last change whose tick is <= tick
	i := sort.Search(len(tm.changes), func(i int) bool {
		return tm.changes[i].Tick > tick
	}) - 1

	c := tm.changes[i]
	remaining := float64(tick-c.Tick) / float64(tm.ticksPerQuarter)
	return tm.checkpoints[i] + remaining*c.MicrosPerQuarter/1e6
}

// TicksPerQuarter returns the resolution the map was built with
func (tm *TempoMap) TicksPerQuarter() uint16 {
	return tm.ticksPerQuarter
}
