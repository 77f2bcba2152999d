package converter

import (
	"math"
)

// PitchToFrequency converts a MIDI note number to its equal-tempered
// frequency in Hz (A4 = MIDI 69 = 440 Hz), rounded to the nearest integer.
// SilencePitch maps to 0.
func PitchToFrequency(pitch int) int {
	if pitch == SilencePitch {
		return 0
	}
	return int(math.Round(440.0 * math.Pow(2, float64(pitch-69)/12.0)))
}

// Segment collapses a pitch interval sequence into beeper commands. Runs of
// identical effective pitch merge into one segment; silence is folded into
// the delay of the following sounding segment instead of being emitted as a
// 0 Hz tone; trailing silence is dropped entirely.
func Segment(intervals []PitchInterval) *ConversionResult {
	merged := mergeIntervals(intervals)

	result := &ConversionResult{}
	var pendingDelayMs int

	for _, iv := range merged {
		// Millisecond boundaries are rounded per interval edge so the sum of
		// durations and delays tracks the real performance length.
		durMs := int(math.Round(iv.End*1000)) - int(math.Round(iv.Start*1000))

		if iv.Silent() {
			pendingDelayMs += durMs
			continue
		}

		if durMs < 1 {
			durMs = 1
		}
		result.Segments = append(result.Segments, ToneSegment{
			FrequencyHz: PitchToFrequency(iv.EffectivePitch),
			DurationMs:  durMs,
			DelayMs:     pendingDelayMs,
		})
		pendingDelayMs = 0
	}

	for _, seg := range result.Segments {
		result.TotalMs += seg.DelayMs + seg.DurationMs
	}

	return result
}

// mergeIntervals joins consecutive intervals that share an effective pitch,
// consecutive silences included
func mergeIntervals(intervals []PitchInterval) []PitchInterval {
	var merged []PitchInterval
	for _, iv := range intervals {
		if n := len(merged); n > 0 && merged[n-1].EffectivePitch == iv.EffectivePitch {
			merged[n-1].End = iv.End
			continue
		}
		merged = append(merged, iv)
	}
	return merged
}
