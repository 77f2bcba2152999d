package converter

import (
	"sort"
)

type noteKey struct {
	channel uint8
	pitch   uint8
}

// ExtractEvents flattens all tracks into a single time-ordered stream of
// TimedNoteEvent. At equal tick a note-off sorts before a note-on so a note
// ending exactly when another starts never overlaps it; otherwise the
// original event order is preserved.
//
// Standard MIDI quirks are absorbed here: note-on with velocity 0 becomes
// note-off, a note-off with no matching note-on is dropped, and any note
// still sounding when the stream ends is closed at the last event's time.
func ExtractEvents(src *MIDISource, tm *TempoMap) []TimedNoteEvent {
	var raw []RawNoteEvent
	for _, track := range src.Tracks {
		raw = append(raw, track...)
	}

	for i := range raw {
		if raw[i].Kind == NoteOn && raw[i].Velocity == 0 {
			raw[i].Kind = NoteOff
		}
	}

	sort.SliceStable(raw, func(i, j int) bool {
		if raw[i].Tick != raw[j].Tick {
			return raw[i].Tick < raw[j].Tick
		}
		return raw[i].Kind == NoteOff && raw[j].Kind == NoteOn
	})

	active := make(map[noteKey]int)
	events := make([]TimedNoteEvent, 0, len(raw))
	var lastTime float64

	for _, ev := range raw {
		t := tm.TimeAt(ev.Tick)
		lastTime = t
		key := noteKey{channel: ev.Channel, pitch: ev.Pitch}

		switch ev.Kind {
		case NoteOn:
			active[key]++
		case NoteOff:
			if active[key] == 0 {
				// Unmatched note-off, nothing to close
				continue
			}
			active[key]--
		}

		events = append(events, TimedNoteEvent{Time: t, Pitch: ev.Pitch, Kind: ev.Kind})
	}

	// Close anything still sounding so no pitch sticks forever. Pitch order
	// keeps the output deterministic.
	var stuck []noteKey
	for key, n := range active {
		for i := 0; i < n; i++ {
			stuck = append(stuck, key)
		}
	}
	sort.Slice(stuck, func(i, j int) bool {
		if stuck[i].pitch != stuck[j].pitch {
			return stuck[i].pitch < stuck[j].pitch
		}
		return stuck[i].channel < stuck[j].channel
	})
	for _, key := range stuck {
		events = append(events, TimedNoteEvent{Time: lastTime, Pitch: key.pitch, Kind: NoteOff})
	}

	return events
}
