package converter

import (
	"fmt"
	"os"
	"strings"
)

const scriptHeader = "#!/bin/sh"

// RenderScript formats tone segments as a shell script of sequential beep
// invocations, one per segment. Pure formatting: every timing decision was
// made by the segmenter. Returns ErrEmptySequence for zero segments.
func RenderScript(segments []ToneSegment) (string, error) {
	if len(segments) == 0 {
		return "", ErrEmptySequence
	}

	var b strings.Builder
	b.WriteString(scriptHeader)
	b.WriteByte('\n')
	for _, seg := range segments {
		fmt.Fprintf(&b, "beep -f %d -l %d -D %d\n", seg.FrequencyHz, seg.DurationMs, seg.DelayMs)
	}
	return b.String(), nil
}

// WriteScriptFile renders the segments and writes them as an executable
// script
func WriteScriptFile(segments []ToneSegment, filename string) error {
	script, err := RenderScript(segments)
	if err != nil {
		return err
	}
	if err := os.WriteFile(filename, []byte(script), 0755); err != nil {
		return fmt.Errorf("failed to write script: %w", err)
	}
	return nil
}
