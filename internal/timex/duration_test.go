package timex

import (
	"encoding/json"
	"testing"
	"time"
)

func TestDurationUnmarshalString(t *testing.T) {
	var d Duration
	if err := json.Unmarshal([]byte(`"30s"`), &d); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Duration != 30*time.Second {
		t.Fatalf("expected 30s, got %v", d.Duration)
	}
}

func TestDurationUnmarshalNumber(t *testing.T) {
	var d Duration
	if err := json.Unmarshal([]byte(`1000000000`), &d); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Duration != time.Second {
		t.Fatalf("expected 1s, got %v", d.Duration)
	}
}

func TestDurationUnmarshalInvalid(t *testing.T) {
	var d Duration
	if err := json.Unmarshal([]byte(`true`), &d); err == nil {
		t.Fatalf("expected error for boolean input")
	}
	if err := json.Unmarshal([]byte(`"not-a-duration"`), &d); err == nil {
		t.Fatalf("expected error for malformed string")
	}
}

func TestDurationMarshal(t *testing.T) {
	d := Duration{Duration: 2 * time.Minute}
	b, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(b) != `"2m0s"` {
		t.Fatalf("unexpected output: %s", b)
	}
}
