package game

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestFormatElapsed(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "0.0"},
		{100 * time.Millisecond, "0.1"},
		{1500 * time.Millisecond, "1.5"},
		{12*time.Second + 300*time.Millisecond, "12.3"},
	}
	for _, tt := range tests {
		if got := FormatElapsed(tt.d); got != tt.want {
			t.Errorf("FormatElapsed(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestViewLabels(t *testing.T) {
	h := newHarness(t)
	v := h.ctrl.View()
	if v.Headline() != "LET'S PLAY" || v.ButtonLabel() != "Play" {
		t.Errorf("Unexpected idle labels: %q / %q", v.Headline(), v.ButtonLabel())
	}

	h.start(t, 2)
	h.advance(1200 * time.Millisecond)
	h.ctrl.Click(2)
	v = h.ctrl.View()
	if v.Headline() != "GAME OVER" || v.ButtonLabel() != "Restart" {
		t.Errorf("Unexpected labels after game over: %q / %q", v.Headline(), v.ButtonLabel())
	}
	if v.ElapsedText != "1.2" {
		t.Errorf("Expected elapsed text 1.2, got %q", v.ElapsedText)
	}
	if v.TargetCount != 2 || v.NextID != 1 || len(v.Circles) != 2 {
		t.Errorf("Unexpected view: %+v", v)
	}
}

func TestViewJSON(t *testing.T) {
	h := newHarness(t)
	h.start(t, 1)

	b, err := json.Marshal(h.ctrl.View())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	s := string(b)
	for _, want := range []string{`"outcome":"IN_PROGRESS"`, `"elapsed":"0.0"`, `"started":true`, `"id":1`} {
		if !strings.Contains(s, want) {
			t.Errorf("Expected %s in %s", want, s)
		}
	}

	var back View
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back.Outcome != OutcomeInProgress || len(back.Circles) != 1 {
		t.Errorf("Unexpected decoded view: %+v", back)
	}
}

func TestOutcomeText(t *testing.T) {
	var o Outcome
	if err := o.UnmarshalText([]byte("game_over")); err != nil || o != OutcomeGameOver {
		t.Errorf("Expected GAME_OVER, got %v (err=%v)", o, err)
	}
	if err := o.UnmarshalText([]byte("paused")); err == nil {
		t.Error("Expected error for unknown outcome")
	}
	if !OutcomeAllCleared.Terminal() || OutcomeInProgress.Terminal() {
		t.Error("Unexpected Terminal classification")
	}
}
