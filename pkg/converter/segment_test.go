package converter

import (
	"testing"
)

func TestPitchToFrequency(t *testing.T) {
	tests := []struct {
		pitch int
		want  int
	}{
		{69, 440}, // A4 reference
		{57, 220},
		{81, 880},
		{60, 262}, // middle C, 261.63 Hz
		{62, 294}, // D4
		{64, 330}, // E4, 329.63 Hz
		{0, 8},
		{127, 12544},
		{SilencePitch, 0},
	}

	for _, tt := range tests {
		if got := PitchToFrequency(tt.pitch); got != tt.want {
			t.Errorf("PitchToFrequency(%d) = %d, want %d", tt.pitch, got, tt.want)
		}
	}
}

func TestSegmentSingleTone(t *testing.T) {
	result := Segment([]PitchInterval{
		{Start: 0, End: 1.0, EffectivePitch: 64},
	})

	if len(result.Segments) != 1 {
		t.Fatalf("got %d segments, want 1", len(result.Segments))
	}
	seg := result.Segments[0]
	if seg.FrequencyHz != 330 || seg.DurationMs != 1000 || seg.DelayMs != 0 {
		t.Errorf("segment = %+v, want {330 1000 0}", seg)
	}
	if result.TotalMs != 1000 {
		t.Errorf("TotalMs = %d, want 1000", result.TotalMs)
	}
}

func TestSegmentMergesIdenticalPitch(t *testing.T) {
	// The resolver closes and reopens intervals at every event; identical
	// consecutive pitches must fuse back into one tone
	result := Segment([]PitchInterval{
		{Start: 0, End: 0.5, EffectivePitch: 60},
		{Start: 0.5, End: 1.0, EffectivePitch: 60},
		{Start: 1.0, End: 1.5, EffectivePitch: 64},
	})

	if len(result.Segments) != 2 {
		t.Fatalf("got %d segments, want 2", len(result.Segments))
	}
	if result.Segments[0].DurationMs != 1000 {
		t.Errorf("merged segment duration = %d, want 1000", result.Segments[0].DurationMs)
	}
}

func TestSegmentLeadingSilenceBecomesDelay(t *testing.T) {
	result := Segment([]PitchInterval{
		{Start: 0, End: 0.5, EffectivePitch: SilencePitch},
		{Start: 0.5, End: 1.0, EffectivePitch: 60},
	})

	if len(result.Segments) != 1 {
		t.Fatalf("got %d segments, want 1 (no zero-frequency segment)", len(result.Segments))
	}
	seg := result.Segments[0]
	if seg.DelayMs != 500 || seg.DurationMs != 500 {
		t.Errorf("segment = %+v, want delay 500 and duration 500", seg)
	}
}

func TestSegmentInternalSilenceBecomesDelay(t *testing.T) {
	result := Segment([]PitchInterval{
		{Start: 0, End: 0.5, EffectivePitch: 60},
		{Start: 0.5, End: 1.0, EffectivePitch: SilencePitch},
		{Start: 1.0, End: 1.5, EffectivePitch: 64},
	})

	if len(result.Segments) != 2 {
		t.Fatalf("got %d segments, want 2", len(result.Segments))
	}
	if result.Segments[1].DelayMs != 500 {
		t.Errorf("second segment delay = %d, want 500", result.Segments[1].DelayMs)
	}
	for _, seg := range result.Segments {
		if seg.FrequencyHz == 0 {
			t.Errorf("silence emitted as zero-frequency segment: %+v", seg)
		}
	}
}

func TestSegmentTrailingSilenceDropped(t *testing.T) {
	result := Segment([]PitchInterval{
		{Start: 0, End: 0.5, EffectivePitch: 60},
		{Start: 0.5, End: 5.0, EffectivePitch: SilencePitch},
	})

	if len(result.Segments) != 1 {
		t.Fatalf("got %d segments, want 1", len(result.Segments))
	}
	if result.TotalMs != 500 {
		t.Errorf("TotalMs = %d, want 500 (trailing silence dropped)", result.TotalMs)
	}
}

func TestSegmentMergesConsecutiveSilence(t *testing.T) {
	result := Segment([]PitchInterval{
		{Start: 0, End: 0.2, EffectivePitch: SilencePitch},
		{Start: 0.2, End: 0.5, EffectivePitch: SilencePitch},
		{Start: 0.5, End: 1.0, EffectivePitch: 72},
	})

	if len(result.Segments) != 1 {
		t.Fatalf("got %d segments, want 1", len(result.Segments))
	}
	if result.Segments[0].DelayMs != 500 {
		t.Errorf("delay = %d, want 500 (two silences merged)", result.Segments[0].DelayMs)
	}
}

func TestSegmentMinimumDuration(t *testing.T) {
	result := Segment([]PitchInterval{
		{Start: 0, End: 0.0002, EffectivePitch: 60},
	})

	if len(result.Segments) != 1 {
		t.Fatalf("got %d segments, want 1", len(result.Segments))
	}
	if result.Segments[0].DurationMs != 1 {
		t.Errorf("duration = %d, want minimum 1", result.Segments[0].DurationMs)
	}
}

func TestSegmentCoverage(t *testing.T) {
	// Sum of durations and delays must track the performance length within
	// rounding tolerance
	intervals := []PitchInterval{
		{Start: 0, End: 0.2503, EffectivePitch: 60},
		{Start: 0.2503, End: 0.5001, EffectivePitch: SilencePitch},
		{Start: 0.5001, End: 0.8999, EffectivePitch: 64},
		{Start: 0.8999, End: 1.25, EffectivePitch: 67},
	}

	result := Segment(intervals)

	var sum int
	for _, seg := range result.Segments {
		sum += seg.DelayMs + seg.DurationMs
	}

	tolerance := len(result.Segments) // +/-1 ms per segment
	if diff := sum - 1250; diff < -tolerance || diff > tolerance {
		t.Errorf("covered %d ms, want 1250 +/- %d", sum, tolerance)
	}
	if sum != result.TotalMs {
		t.Errorf("TotalMs = %d, segments sum to %d", result.TotalMs, sum)
	}
}
