// internal/playback/state_test.go
package playback

import "testing"

func TestState_String(t *testing.T) {
	tests := []struct {
		state State
		want  string
	}{
		{StateStopped, "Stopped"},
		{StatePlaying, "Playing"},
		{StatePaused, "Paused"},
		{State(99), "Unknown"},
	}
	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("%d.String() = %q, want %q", tt.state, got, tt.want)
		}
	}
}

func TestState_IsActive(t *testing.T) {
	tests := []struct {
		state State
		want  bool
	}{
		{StateStopped, false},
		{StatePlaying, true},
		{StatePaused, true},
	}
	for _, tt := range tests {
		if got := tt.state.IsActive(); got != tt.want {
			t.Errorf("%v.IsActive() = %v, want %v", tt.state, got, tt.want)
		}
	}
}

func TestState_MarshalText(t *testing.T) {
	tests := []struct {
		state State
		want  string
	}{
		{StateStopped, "stopped"},
		{StatePlaying, "playing"},
		{StatePaused, "paused"},
		{State(99), "stopped"},
	}
	for _, tt := range tests {
		got, err := tt.state.MarshalText()
		if err != nil || string(got) != tt.want {
			t.Errorf("%v.MarshalText() = %q, %v, want %q", tt.state, got, err, tt.want)
		}
	}
}

func TestState_UnmarshalText(t *testing.T) {
	for _, want := range []State{StateStopped, StatePlaying, StatePaused} {
		text, _ := want.MarshalText()
		var got State
		if err := got.UnmarshalText(text); err != nil || got != want {
			t.Errorf("UnmarshalText(%q) = %v, %v, want %v", text, got, err, want)
		}
	}
	var s State
	if err := s.UnmarshalText([]byte("rewinding")); err == nil {
		t.Error("UnmarshalText(rewinding) returned no error")
	}
}
