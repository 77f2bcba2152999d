package api

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// buildMIDI renders a single-track SMF at 480 ticks per quarter
func buildMIDI(t *testing.T, build func(track *smf.Track)) []byte {
	t.Helper()

	s := smf.New()
	s.TimeFormat = smf.MetricTicks(480)

	var track smf.Track
	build(&track)
	track.Close(0)

	if err := s.Add(track); err != nil {
		t.Fatalf("failed to add track: %v", err)
	}

	var buf bytes.Buffer
	if _, err := s.WriteTo(&buf); err != nil {
		t.Fatalf("failed to write MIDI: %v", err)
	}
	return buf.Bytes()
}

// postConvert uploads data as a multipart MIDI file to /api/v1/convert
func postConvert(t *testing.T, data []byte, query string) *httptest.ResponseRecorder {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", "song.mid")
	if err != nil {
		t.Fatalf("failed to create form file: %v", err)
	}
	if _, err := fw.Write(data); err != nil {
		t.Fatalf("failed to write form file: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("failed to close multipart writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/convert"+query, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	rec := httptest.NewRecorder()
	newRouter().ServeHTTP(rec, req)
	return rec
}

func TestConvertEndpoint(t *testing.T) {
	data := buildMIDI(t, func(track *smf.Track) {
		track.Add(0, midi.NoteOn(0, 69, 100))
		track.Add(960, midi.NoteOff(0, 69))
	})

	rec := postConvert(t, data, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d (body: %s)", rec.Code, http.StatusOK, rec.Body.String())
	}
	if got := rec.Header().Get("Content-Disposition"); !strings.Contains(got, "song.sh") {
		t.Errorf("Content-Disposition = %q, want attachment song.sh", got)
	}
	if body := rec.Body.String(); !strings.Contains(body, "beep -f 440 -l 1000") {
		t.Errorf("script body = %q, want a 440 Hz beep line", body)
	}
}

func TestConvertEndpointInvalidPolicy(t *testing.T) {
	data := buildMIDI(t, func(track *smf.Track) {
		track.Add(0, midi.NoteOn(0, 60, 100))
		track.Add(480, midi.NoteOff(0, 60))
	})

	rec := postConvert(t, data, "?policy=loudest")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestConvertEndpointNoNotes(t *testing.T) {
	data := buildMIDI(t, func(track *smf.Track) {
		track.Add(0, smf.Message([]byte{0xFF, 0x51, 0x03, 0x07, 0xA1, 0x20}))
	})

	rec := postConvert(t, data, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d (body: %s)", rec.Code, http.StatusOK, rec.Body.String())
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if _, ok := resp["warning"]; !ok {
		t.Errorf("body = %v, want a warning field", resp)
	}
}

// Notes released on the same tick they start carry no duration, so the
// conversion succeeds but yields nothing to render.
func TestConvertEndpointZeroLengthNotes(t *testing.T) {
	data := buildMIDI(t, func(track *smf.Track) {
		track.Add(0, midi.NoteOn(0, 60, 100))
		track.Add(0, midi.NoteOff(0, 60))
	})

	rec := postConvert(t, data, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d (body: %s)", rec.Code, http.StatusOK, rec.Body.String())
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if _, ok := resp["warning"]; !ok {
		t.Errorf("body = %v, want a warning field", resp)
	}
	if got, ok := resp["segments"].(float64); !ok || got != 0 {
		t.Errorf("segments = %v, want 0", resp["segments"])
	}
}
