package lamp

import (
	"encoding/json"
	"fmt"
)

// Status represents the lamp state returned by GET /status.
//
// All fields are optional in the wire format. Missing or malformed fields
// keep their zero values, so an empty body decodes to "off, no timer".
type Status struct {
	// On reports whether the lamp is currently lit
	On bool `json:"on"`

	// TimeoutActive reports whether a device-side auto-off countdown is running
	TimeoutActive bool `json:"timeoutActive"`

	// RemainingSeconds is the time left on the countdown, in seconds
	RemainingSeconds int `json:"remainingSeconds"`
}

// ParseStatus decodes a /status response body.
//
// The lamp firmware is not obliged to return a body at all, and some
// versions return plain text. Any body that is not a JSON object yields
// nil ("no status data") rather than an error; the HTTP call's success is
// what counts.
func ParseStatus(data []byte) *Status {
	if len(data) == 0 {
		return nil
	}

	var s Status
	if err := json.Unmarshal(data, &s); err != nil {
		return nil
	}

	// The countdown is reported by the device and should never be negative,
	// but guard against firmware quirks anyway
	if s.RemainingSeconds < 0 {
		s.RemainingSeconds = 0
	}

	return &s
}

// StateText returns "ON" or "OFF" for display
func (s *Status) StateText() string {
	if s.On {
		return "ON"
	}
	return "OFF"
}

// TimerActive reports whether a countdown is running with time remaining
func (s *Status) TimerActive() bool {
	return s.TimeoutActive && s.RemainingSeconds > 0
}

// TimerText returns a human-readable description of the timer state,
// e.g. "Timer active - 2:05 remaining" or "No timer active"
func (s *Status) TimerText() string {
	if !s.TimerActive() {
		return "No timer active"
	}
	return fmt.Sprintf("Timer active - %s remaining", FormatRemaining(s.RemainingSeconds))
}

// String returns a one-line summary of the lamp status
func (s *Status) String() string {
	return fmt.Sprintf("Lamp %s (%s)", s.StateText(), s.TimerText())
}

// FormatRemaining formats a countdown in seconds as m:ss (125 → "2:05")
func FormatRemaining(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}
