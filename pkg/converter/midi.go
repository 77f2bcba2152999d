package converter

import (
	"bytes"
	"fmt"
	"os"
	"sort"

	"gitlab.com/gomidi/midi/v2/smf"
)

// MIDISource is the parsed input handed to the conversion pipeline: raw note
// events per track, the tempo timeline, and the tick resolution. The pipeline
// never reads SMF bytes itself; everything below comes from gomidi.
type MIDISource struct {
	TicksPerQuarter uint16
	Tracks          [][]RawNoteEvent
	TempoChanges    []TempoChange
}

// ReadMIDIFile reads a standard MIDI file from disk
func ReadMIDIFile(filename string) (*MIDISource, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read MIDI file: %w", err)
	}
	return ReadMIDI(data)
}

// ReadMIDI parses standard MIDI file data into a MIDISource
func ReadMIDI(data []byte) (*MIDISource, error) {
	s, err := smf.ReadFrom(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse MIDI: %w", err)
	}

	mt, ok := s.TimeFormat.(smf.MetricTicks)
	if !ok {
		return nil, fmt.Errorf("%w: unsupported time format, expected metric ticks", ErrMalformedTempoMap)
	}

	src := &MIDISource{
		TicksPerQuarter: mt.Resolution(),
		Tracks:          make([][]RawNoteEvent, 0, len(s.Tracks)),
	}

	for _, track := range s.Tracks {
		var events []RawNoteEvent
		var currentTick uint32

		for _, ev := range track {
			currentTick += ev.Delta
			msg := ev.Message

			var bpm float64
			if msg.GetMetaTempo(&bpm) {
				if bpm > 0 {
					src.TempoChanges = append(src.TempoChanges, TempoChange{
						Tick:             currentTick,
						MicrosPerQuarter: 60000000.0 / bpm,
					})
				}
				continue
			}

			var ch, key, vel uint8
			// GetNoteOn also matches note-on with velocity 0; the extractor
			// reclassifies those as note-off per the MIDI convention.
			if msg.GetNoteOn(&ch, &key, &vel) {
				events = append(events, RawNoteEvent{
					Channel:  ch,
					Pitch:    key,
					Velocity: vel,
					Tick:     currentTick,
					Kind:     NoteOn,
				})
			} else if msg.GetNoteOff(&ch, &key, &vel) {
				events = append(events, RawNoteEvent{
					Channel:  ch,
					Pitch:    key,
					Velocity: vel,
					Tick:     currentTick,
					Kind:     NoteOff,
				})
			}
		}

		src.Tracks = append(src.Tracks, events)
	}

	// Tempo events may live on any track; order them globally
	sort.SliceStable(src.TempoChanges, func(i, j int) bool {
		return src.TempoChanges[i].Tick < src.TempoChanges[j].Tick
	})

	return src, nil
}
