// Package converter implements the MIDI to beep-script conversion pipeline
package converter

import (
	"errors"
	"fmt"
	"strings"
)

// Errors reported by the conversion pipeline
var (
	// ErrMalformedTempoMap indicates an invalid ticks-per-quarter value or a
	// tempo list that is not ordered by tick. Fatal: conversion aborts.
	ErrMalformedTempoMap = errors.New("malformed tempo map")

	// ErrInvalidPolicy indicates an unrecognized overlap policy value.
	// Rejected before the sweep begins.
	ErrInvalidPolicy = errors.New("invalid overlap policy")

	// ErrNoSoundableEvents indicates the input contained zero note-on events.
	// Conversion still succeeds with an empty result; callers should treat
	// this as a warning rather than a failure.
	ErrNoSoundableEvents = errors.New("no soundable events in input")

	// ErrEmptySequence is returned by the script emitter when it is given
	// zero segments. Callers may treat it as "nothing to play".
	ErrEmptySequence = errors.New("empty tone segment sequence")
)

// EventKind distinguishes note-on from note-off events
type EventKind uint8

const (
	NoteOn EventKind = iota
	NoteOff
)

// RawNoteEvent is a note event as read from the MIDI source, tick-based
type RawNoteEvent struct {
	Channel  uint8
	Pitch    uint8 // MIDI note number (0-127)
	Velocity uint8
	Tick     uint32
	Kind     EventKind
}

// TempoChange sets a new tempo starting at a tick
type TempoChange struct {
	Tick             uint32
	MicrosPerQuarter float64
}

// TimedNoteEvent is a note event with its tick resolved to absolute seconds
type TimedNoteEvent struct {
	Time  float64 // seconds from start of performance
	Pitch uint8
	Kind  EventKind
}

// SilencePitch marks a PitchInterval during which no note is sounding
const SilencePitch = -1

// PitchInterval is a span of time with a single effective pitch.
// EffectivePitch is a MIDI note number, or SilencePitch.
type PitchInterval struct {
	Start          float64 // seconds
	End            float64 // seconds, always > Start
	EffectivePitch int
}

// Silent reports whether no note sounds during the interval
func (p PitchInterval) Silent() bool {
	return p.EffectivePitch == SilencePitch
}

// ToneSegment is one beeper command: a frequency held for a duration,
// optionally preceded by a rest
type ToneSegment struct {
	FrequencyHz int // 0 means silence
	DurationMs  int // always > 0
	DelayMs     int // rest before the tone starts
}

// ConversionResult is the final output of a conversion
type ConversionResult struct {
	Segments []ToneSegment
	TotalMs  int // performance length including leading delays
}

// Empty reports whether the conversion produced no audible output
func (r *ConversionResult) Empty() bool {
	return len(r.Segments) == 0
}

// Policy selects how simultaneous notes collapse to one pitch
type Policy int

const (
	PolicyHighest Policy = iota
	PolicyLowest
	PolicyAverage
)

// ParsePolicy resolves a policy name once, before conversion starts
func ParsePolicy(name string) (Policy, error) {
	switch strings.ToLower(name) {
	case "highest":
		return PolicyHighest, nil
	case "lowest":
		return PolicyLowest, nil
	case "average":
		return PolicyAverage, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidPolicy, name)
	}
}

// String returns the policy name as accepted by ParsePolicy
func (p Policy) String() string {
	switch p {
	case PolicyHighest:
		return "highest"
	case PolicyLowest:
		return "lowest"
	case PolicyAverage:
		return "average"
	default:
		return "unknown"
	}
}

// PolicyNames lists the supported overlap policies
func PolicyNames() []string {
	return []string{"highest", "lowest", "average"}
}
