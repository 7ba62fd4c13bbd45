package pose

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"
)

// DefaultFrameInterval spaces frames that carry no timestamp (30 fps).
const DefaultFrameInterval = time.Second / 30

const (
	ControlEmergencyStop = "emergency_stop"
	ControlReset         = "reset"
)

// Record is one line of a recorded pose stream. Most lines are frames; a line may instead carry
// a user control (mode selection, emergency stop, counter reset) captured during recording.
type Record struct {
	Line    int
	Frame   Frame
	Mode    string
	Control string
}

func (r Record) IsFrame() bool {
	return r.Mode == "" && r.Control == ""
}

type recordJSON struct {
	Time      *time.Time `json:"time,omitempty"`
	Offset    *float64   `json:"t,omitempty"` // seconds since the start of the recording
	Landmarks []Landmark `json:"landmarks"`
	Mode      string     `json:"mode,omitempty"`
	Control   string     `json:"control,omitempty"`
}

// Reader decodes a JSON-lines pose recording, one record per line:
//
//	{"time":"2025-03-01T10:00:00.033Z","landmarks":[{"x":0.51,"y":0.22,"visibility":0.99}, ...]}
//	{"t":0.066,"landmarks":null}
//	{"mode":"squat"}
//	{"control":"emergency_stop"}
//
// Landmarks are listed in MediaPipe order; a null or empty list means nothing was detected.
type Reader struct {
	scanner  *bufio.Scanner
	base     time.Time
	interval time.Duration
	line     int
	frames   int
}

func NewReader(r io.Reader, base time.Time) *Reader {
	sc := bufio.NewScanner(r)
	// 33 landmarks with full float precision fit comfortably, but leave room for pretty output.
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	return &Reader{
		scanner:  sc,
		base:     base,
		interval: DefaultFrameInterval,
	}
}

// Next returns the next record or io.EOF once the stream is exhausted.
func (r *Reader) Next() (Record, error) {
	for r.scanner.Scan() {
		r.line++
		text := strings.TrimSpace(r.scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		var raw recordJSON
		if err := json.Unmarshal([]byte(text), &raw); err != nil {
			return Record{}, fmt.Errorf("line %d: %w", r.line, err)
		}

		rec := Record{Line: r.line, Mode: strings.TrimSpace(raw.Mode), Control: strings.TrimSpace(raw.Control)}
		if !rec.IsFrame() {
			return rec, nil
		}

		rec.Frame.Time = r.frameTime(raw)
		r.frames++

		switch len(raw.Landmarks) {
		case 0:
			// No detection for this frame.
		case int(NumLandmarks):
			var snap Snapshot
			copy(snap[:], raw.Landmarks)
			rec.Frame.Landmarks = &snap
		default:
			return Record{}, fmt.Errorf("line %d: expected %d landmarks, got %d", r.line, NumLandmarks, len(raw.Landmarks))
		}
		return rec, nil
	}

	if err := r.scanner.Err(); err != nil {
		return Record{}, fmt.Errorf("read pose stream: %w", err)
	}
	return Record{}, io.EOF
}

func (r *Reader) frameTime(raw recordJSON) time.Time {
	switch {
	case raw.Time != nil:
		return *raw.Time
	case raw.Offset != nil:
		return r.base.Add(time.Duration(*raw.Offset * float64(time.Second)))
	default:
		return r.base.Add(time.Duration(r.frames) * r.interval)
	}
}
