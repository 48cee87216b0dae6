package profile

import (
	"slices"
	"testing"
)

func TestProfiler_Start_NoMode(t *testing.T) {
	s := Profiler{Path: t.TempDir()}.Start()
	if _, ok := s.(ignore); !ok {
		t.Fatalf("Start() = %T, want no-op", s)
	}

	s.Stop()
}

func TestProfiler_Start_UnknownMode(t *testing.T) {
	s := Profiler{Mode: "bogus", Path: t.TempDir(), Quiet: true}.Start()
	if _, ok := s.(ignore); !ok {
		t.Fatalf("Start() = %T, want no-op", s)
	}
}

func TestModes_Sorted(t *testing.T) {
	m := Modes()
	if !slices.IsSorted(m) {
		t.Errorf("Modes() = %v, not sorted", m)
	}

	if Enabled() != (len(m) > 0) {
		t.Errorf("Enabled() = %v with %d modes", Enabled(), len(m))
	}
}
