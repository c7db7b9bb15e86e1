package envutil

import (
	"testing"
	"time"
)

func TestInt(t *testing.T) {
	t.Setenv("ENVUTIL_INT", " 7 ")
	if got := Int("ENVUTIL_INT", 3); got != 7 {
		t.Fatalf("Int: want=7 got=%d", got)
	}
	t.Setenv("ENVUTIL_INT", "seven")
	if got := Int("ENVUTIL_INT", 3); got != 3 {
		t.Fatalf("Int fallback: want=3 got=%d", got)
	}
}

func TestDuration(t *testing.T) {
	t.Setenv("ENVUTIL_DUR", "1500ms")
	if got := Duration("ENVUTIL_DUR", time.Second); got != 1500*time.Millisecond {
		t.Fatalf("Duration: got=%s", got)
	}
	t.Setenv("ENVUTIL_DUR", "2")
	if got := Duration("ENVUTIL_DUR", time.Second); got != 2*time.Second {
		t.Fatalf("Duration seconds: got=%s", got)
	}
	t.Setenv("ENVUTIL_DUR", "")
	if got := Duration("ENVUTIL_DUR", time.Second); got != time.Second {
		t.Fatalf("Duration default: got=%s", got)
	}
}

func TestBool(t *testing.T) {
	t.Setenv("ENVUTIL_BOOL", "on")
	if !Bool("ENVUTIL_BOOL", false) {
		t.Fatalf("Bool: expected true")
	}
	t.Setenv("ENVUTIL_BOOL", "maybe")
	if Bool("ENVUTIL_BOOL", false) {
		t.Fatalf("Bool: expected default false")
	}
}
