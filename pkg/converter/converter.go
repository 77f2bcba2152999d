package converter

import (
	"errors"
	"fmt"
)

// Converter runs the conversion pipeline with a fixed overlap policy
type Converter struct {
	policy Policy
}

// New creates a Converter. The policy applies to the whole conversion; it
// cannot change mid-stream.
func New(policy Policy) (*Converter, error) {
	switch policy {
	case PolicyHighest, PolicyLowest, PolicyAverage:
		return &Converter{policy: policy}, nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrInvalidPolicy, policy)
	}
}

// Policy returns the overlap policy the converter was built with
func (c *Converter) Policy() Policy {
	return c.policy
}

// Convert runs the full pipeline on standard MIDI file data: tick-to-time
// resolution, event extraction, overlap resolution, and tone segmentation.
//
// When the input holds no note-on events the returned result is valid but
// empty and the error is ErrNoSoundableEvents; callers should surface that
// as a warning, not a failure.
func (c *Converter) Convert(midiData []byte) (*ConversionResult, error) {
	src, err := ReadMIDI(midiData)
	if err != nil {
		return nil, err
	}
	return c.ConvertSource(src)
}

// ConvertSource runs the pipeline on an already-parsed MIDI source
func (c *Converter) ConvertSource(src *MIDISource) (*ConversionResult, error) {
	tm, err := NewTempoMap(src.TicksPerQuarter, src.TempoChanges)
	if err != nil {
		return nil, err
	}

	events := ExtractEvents(src, tm)

	soundable := false
	for _, ev := range events {
		if ev.Kind == NoteOn {
			soundable = true
			break
		}
	}
	if !soundable {
		return &ConversionResult{}, ErrNoSoundableEvents
	}

	intervals, err := ResolveOverlaps(events, c.policy)
	if err != nil {
		return nil, err
	}

	return Segment(intervals), nil
}

// ConvertFile converts a MIDI file into an executable beep script. An input
// with no soundable events writes nothing and returns ErrNoSoundableEvents.
func (c *Converter) ConvertFile(inputPath, outputPath string) error {
	src, err := ReadMIDIFile(inputPath)
	if err != nil {
		return err
	}

	result, err := c.ConvertSource(src)
	if err != nil {
		return err
	}

	if err := WriteScriptFile(result.Segments, outputPath); err != nil {
		if errors.Is(err, ErrEmptySequence) {
			return ErrNoSoundableEvents
		}
		return err
	}
	return nil
}
