package dsp

import (
	"math"
	"testing"
)

func TestClear(t *testing.T) {
	buf := []float32{1, -2, 3}
	Clear(buf)
	for i, v := range buf {
		if v != 0 {
			t.Errorf("Sample %d not cleared: %f", i, v)
		}
	}
}

func TestInterleave(t *testing.T) {
	left := []float32{1, 2, 3}
	right := []float32{-1, -2, -3}
	dst := make([]float32, 6)

	if n := Interleave(dst, left, right); n != 3 {
		t.Fatalf("Expected 3 frames, got %d", n)
	}
	want := []float32{1, -1, 2, -2, 3, -3}
	for i := range want {
		if dst[i] != want[i] {
			t.Errorf("dst[%d] = %f, want %f", i, dst[i], want[i])
		}
	}

	short := make([]float32, 3)
	if n := Interleave(short, left, right); n != 1 {
		t.Errorf("Expected 1 frame into short buffer, got %d", n)
	}
}

func TestPeakAndRMS(t *testing.T) {
	buf := []float32{0.5, -1, 0.25, 0}
	if p := Peak(buf); p != 1 {
		t.Errorf("Expected peak 1, got %f", p)
	}

	square := []float32{0.5, -0.5, 0.5, -0.5}
	if r := RMS(square); math.Abs(float64(r)-0.5) > 1e-6 {
		t.Errorf("Expected RMS 0.5, got %f", r)
	}
	if RMS(nil) != 0 {
		t.Error("Expected RMS of empty buffer to be 0")
	}
}

var benchmarkSizes = []int{64, 256, 1024}

func BenchmarkInterleave(b *testing.B) {
	for _, size := range benchmarkSizes {
		left := make([]float32, size)
		right := make([]float32, size)
		dst := make([]float32, 2*size)
		b.Run("Interleave", func(b *testing.B) {
			b.SetBytes(int64(size * 8))
			for i := 0; i < b.N; i++ {
				Interleave(dst, left, right)
			}
		})
	}
}
