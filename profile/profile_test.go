package profile

import (
	"slices"
	"testing"
)

func TestNew(t *testing.T) {
	p := New(WithMode("cpu"), WithPath("/tmp/p"), WithQuiet(true))

	want := Profiler{Mode: "cpu", Path: "/tmp/p", Quiet: true}
	if p != want {
		t.Errorf("New = %+v, want %+v", p, want)
	}
}

func TestStart_NoMode(t *testing.T) {
	for _, mode := range []string{"", "bogus"} {
		stop := New(WithMode(mode), WithPath(t.TempDir())).Start()
		if _, ok := stop.(ignore); !ok {
			t.Errorf("mode %q started a profiler: %T", mode, stop)
		}

		stop.Stop()
	}
}

func TestModes(t *testing.T) {
	modes := Modes()
	if !slices.IsSorted(modes) {
		t.Errorf("Modes() = %v is not sorted", modes)
	}

	for _, m := range modes {
		if !Enabled(m) {
			t.Errorf("Enabled(%q) = false", m)
		}
	}

	if Enabled("bogus") {
		t.Error(`Enabled("bogus") = true`)
	}
}
