package converter

import (
	"fmt"
	"math"
)

// activeNoteSet is the multiset of pitches sounding at the current point of
// the sweep. Counted per pitch: the same note can be struck on several
// channels at once.
type activeNoteSet struct {
	counts [128]int
	size   int
}

func (s *activeNoteSet) add(pitch uint8) {
	s.counts[pitch]++
	s.size++
}

// remove drops one instance of pitch. Removing a pitch that is not in the
// set is a no-op; the extractor already filtered unmatched note-offs.
func (s *activeNoteSet) remove(pitch uint8) {
	if s.counts[pitch] > 0 {
		s.counts[pitch]--
		s.size--
	}
}

func (s *activeNoteSet) empty() bool {
	return s.size == 0
}

func (s *activeNoteSet) highest() int {
	for p := 127; p >= 0; p-- {
		if s.counts[p] > 0 {
			return p
		}
	}
	return SilencePitch
}

func (s *activeNoteSet) lowest() int {
	for p := 0; p < 128; p++ {
		if s.counts[p] > 0 {
			return p
		}
	}
	return SilencePitch
}

// average returns the arithmetic mean pitch rounded to the nearest integer,
// with ties rounding toward the higher pitch.
func (s *activeNoteSet) average() int {
	if s.size == 0 {
		return SilencePitch
	}
	var sum int
	for p, n := range s.counts {
		sum += p * n
	}
	return int(math.Floor(float64(sum)/float64(s.size) + 0.5))
}

func (s *activeNoteSet) effective(policy Policy) int {
	if s.empty() {
		return SilencePitch
	}
	switch policy {
	case PolicyHighest:
		return s.highest()
	case PolicyLowest:
		return s.lowest()
	case PolicyAverage:
		return s.average()
	default:
		return SilencePitch
	}
}

// ResolveOverlaps sweeps the time-ordered event stream and produces one
// pitch interval per span between consecutive event times, collapsing
// simultaneous notes to a single pitch under the given policy. Silence spans
// (including the one before the first note) come out as intervals with
// EffectivePitch == SilencePitch; zero-length spans are discarded.
func ResolveOverlaps(events []TimedNoteEvent, policy Policy) ([]PitchInterval, error) {
	switch policy {
	case PolicyHighest, PolicyLowest, PolicyAverage:
	default:
		return nil, fmt.Errorf("%w: %d", ErrInvalidPolicy, policy)
	}

	var set activeNoteSet
	var intervals []PitchInterval
	var prev float64

	for _, ev := range events {
		if ev.Time > prev {
			intervals = append(intervals, PitchInterval{
				Start:          prev,
				End:            ev.Time,
				EffectivePitch: set.effective(policy),
			})
		}
		switch ev.Kind {
		case NoteOn:
			set.add(ev.Pitch)
		case NoteOff:
			set.remove(ev.Pitch)
		}
		prev = ev.Time
	}

	// A well-formed stream closes every note it opens; the extractor
	// guarantees that even for truncated input.
	if !set.empty() {
		return nil, fmt.Errorf("note set not empty after sweep: %d notes left sounding at %fs", set.size, prev)
	}

	return intervals, nil
}
