package lamp

import "testing"

func TestParseStatus(t *testing.T) {
	tests := []struct {
		name          string
		body          string
		wantNil       bool
		wantOn        bool
		wantTimeout   bool
		wantRemaining int
	}{
		{
			name:          "full status with active timer",
			body:          `{"on": true, "timeoutActive": true, "remainingSeconds": 125}`,
			wantOn:        true,
			wantTimeout:   true,
			wantRemaining: 125,
		},
		{
			name: "missing fields default to off/inactive/zero",
			body: `{"on": false}`,
		},
		{
			name: "empty object",
			body: `{}`,
		},
		{
			name:    "empty body",
			body:    "",
			wantNil: true,
		},
		{
			name:    "plain text body",
			body:    "lamp is on",
			wantNil: true,
		},
		{
			name:    "truncated JSON",
			body:    `{"on": tru`,
			wantNil: true,
		},
		{
			name:        "negative remaining clamps to zero",
			body:        `{"on": true, "timeoutActive": true, "remainingSeconds": -30}`,
			wantOn:      true,
			wantTimeout: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status := ParseStatus([]byte(tt.body))

			if tt.wantNil {
				if status != nil {
					t.Errorf("ParseStatus() = %v, want nil", status)
				}
				return
			}

			if status == nil {
				t.Fatal("ParseStatus() = nil, want status")
			}
			if status.On != tt.wantOn {
				t.Errorf("On = %v, want %v", status.On, tt.wantOn)
			}
			if status.TimeoutActive != tt.wantTimeout {
				t.Errorf("TimeoutActive = %v, want %v", status.TimeoutActive, tt.wantTimeout)
			}
			if status.RemainingSeconds != tt.wantRemaining {
				t.Errorf("RemainingSeconds = %d, want %d", status.RemainingSeconds, tt.wantRemaining)
			}
		})
	}
}

func TestFormatRemaining(t *testing.T) {
	tests := []struct {
		seconds int
		want    string
	}{
		{0, "0:00"},
		{5, "0:05"},
		{59, "0:59"},
		{60, "1:00"},
		{125, "2:05"},
		{600, "10:00"},
		{3599, "59:59"},
		{3600, "60:00"},
		{-10, "0:00"},
	}

	for _, tt := range tests {
		if got := FormatRemaining(tt.seconds); got != tt.want {
			t.Errorf("FormatRemaining(%d) = %q, want %q", tt.seconds, got, tt.want)
		}
	}
}

func TestStatusText(t *testing.T) {
	on := &Status{On: true, TimeoutActive: true, RemainingSeconds: 125}
	if on.StateText() != "ON" {
		t.Errorf("StateText() = %q, want ON", on.StateText())
	}
	if on.TimerText() != "Timer active - 2:05 remaining" {
		t.Errorf("TimerText() = %q, want timer with 2:05", on.TimerText())
	}

	off := &Status{}
	if off.StateText() != "OFF" {
		t.Errorf("StateText() = %q, want OFF", off.StateText())
	}
	if off.TimerText() != "No timer active" {
		t.Errorf("TimerText() = %q, want no timer", off.TimerText())
	}

	// timeoutActive without remaining time counts as no timer
	stale := &Status{On: true, TimeoutActive: true, RemainingSeconds: 0}
	if stale.TimerActive() {
		t.Error("TimerActive() = true, want false when no seconds remain")
	}
}
