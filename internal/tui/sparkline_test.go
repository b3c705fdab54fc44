package tui

import (
	"slices"
	"testing"
)

func TestRingBuffer(t *testing.T) {
	t.Parallel()
	rb := NewRingBuffer(3)
	if rb.Len() != 0 || rb.Last() != 0 || rb.Slice() != nil {
		t.Fatal("new buffer should be empty")
	}

	for _, v := range []float64{1, 2, 3, 4} {
		rb.Push(v)
	}
	if rb.Len() != 3 {
		t.Errorf("Len() = %d, want 3", rb.Len())
	}
	if rb.Last() != 4 {
		t.Errorf("Last() = %v, want 4", rb.Last())
	}
	if got := rb.Slice(); !slices.Equal(got, []float64{2, 3, 4}) {
		t.Errorf("Slice() = %v, want [2 3 4]", got)
	}
}

func TestRingBuffer_NonPositiveCapacity(t *testing.T) {
	t.Parallel()
	rb := NewRingBuffer(0)
	rb.Push(5)
	rb.Push(6)
	if rb.Len() != 1 || rb.Last() != 6 {
		t.Errorf("capacity should default to 1, got len %d last %v", rb.Len(), rb.Last())
	}
}

func TestRenderSparkline(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		values []float64
		want   string
	}{
		{"empty", nil, ""},
		{"bounds", []float64{0, 100}, "▁█"},
		{"clamped", []float64{-10, 150}, "▁█"},
		{"midpoint", []float64{50}, "▄"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := RenderSparkline(tt.values); got != tt.want {
				t.Errorf("RenderSparkline(%v) = %q, want %q", tt.values, got, tt.want)
			}
		})
	}
}
