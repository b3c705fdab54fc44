package metrics

import "testing"

var sink []bool

func TestMemoryCollector_Snapshot(t *testing.T) {
	t.Parallel()

	snap := NewMemoryCollector().Snapshot()
	if snap.HeapAlloc == 0 {
		t.Error("HeapAlloc should be > 0")
	}
	if snap.Sys == 0 {
		t.Error("Sys should be > 0")
	}
}

func TestMemorySnapshot_AllocatedSince(t *testing.T) {
	mc := NewMemoryCollector()
	before := mc.Snapshot()

	sink = make([]bool, 1<<20)

	after := mc.Snapshot()
	if got := after.AllocatedSince(before); got < 1<<20 {
		t.Errorf("AllocatedSince = %d, want >= %d", got, 1<<20)
	}
	if got := before.AllocatedSince(after); got != 0 {
		t.Errorf("reversed AllocatedSince = %d, want 0", got)
	}
}

func TestCandidateArrayBytes(t *testing.T) {
	t.Parallel()
	tests := []struct {
		upperBound int
		want       uint64
	}{
		{-5, 0},
		{0, 0},
		{30, 30},
		{1_000_000, 1_000_000},
	}
	for _, tt := range tests {
		if got := CandidateArrayBytes(tt.upperBound); got != tt.want {
			t.Errorf("CandidateArrayBytes(%d) = %d, want %d", tt.upperBound, got, tt.want)
		}
	}
}
