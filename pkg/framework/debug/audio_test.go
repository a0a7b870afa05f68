package debug

import (
	"math"
	"strings"
	"testing"
)

func TestAudioAnalyzer(t *testing.T) {
	t.Run("BasicAnalysis", func(t *testing.T) {
		analyzer := NewAudioAnalyzer()

		// Sine wave at 440Hz, 48kHz sample rate
		buffer := make([]float32, 1000)
		for i := range buffer {
			buffer[i] = 0.5 * float32(math.Sin(2*math.Pi*440*float64(i)/48000))
		}

		result := analyzer.Analyze(buffer)

		if result.Peak < 0.49 || result.Peak > 0.51 {
			t.Errorf("Peak incorrect: %f", result.Peak)
		}

		// Sine wave RMS = peak / sqrt(2)
		expectedRMS := 0.5 / math.Sqrt(2)
		if math.Abs(float64(result.RMS)-expectedRMS) > 0.01 {
			t.Errorf("RMS incorrect: %f, expected ~%f", result.RMS, expectedRMS)
		}
		if result.ZeroCrossings == 0 {
			t.Error("No zero crossings detected")
		}
		if result.Silent {
			t.Error("Should not be silent")
		}
		if result.Samples != 1000 {
			t.Errorf("Expected 1000 samples, got %d", result.Samples)
		}
	})

	t.Run("Clipping", func(t *testing.T) {
		analyzer := NewAudioAnalyzer()

		result := analyzer.Analyze([]float32{0.5, 0.99, 1.0, -0.99, -1.0, 0.5})

		if !result.Clipping {
			t.Error("Should detect clipping")
		}
		if result.ClippedSamples != 4 { // ±0.99 and ±1.0
			t.Errorf("Wrong clipped sample count: %d", result.ClippedSamples)
		}
	})

	t.Run("DCOffset", func(t *testing.T) {
		buffer := make([]float32, 100)
		for i := range buffer {
			buffer[i] = 0.3
		}

		result := NewAudioAnalyzer().Analyze(buffer)

		if math.Abs(float64(result.DC)-0.3) > 0.001 {
			t.Errorf("DC offset incorrect: %f", result.DC)
		}
	})

	t.Run("Silence", func(t *testing.T) {
		result := NewAudioAnalyzer().Analyze(make([]float32, 100))

		if !result.Silent {
			t.Error("Should detect silence")
		}
		if result.Peak != 0 {
			t.Error("Peak should be 0")
		}
	})

	t.Run("NonFinite", func(t *testing.T) {
		buffer := []float32{1.0, float32(math.NaN()), 0.5, float32(math.Inf(1))}
		result := NewAudioAnalyzer().Analyze(buffer)

		if result.NonFinite != 2 {
			t.Errorf("Wrong non-finite count: %d", result.NonFinite)
		}
		if result.Peak != 1 {
			t.Errorf("Non-finite values should not affect peak, got %f", result.Peak)
		}
	})

	t.Run("Accumulates", func(t *testing.T) {
		analyzer := NewAudioAnalyzer()
		analyzer.Add([]float32{0.25, -0.25})
		analyzer.Add([]float32{0.75})

		result := analyzer.Result()
		if result.Samples != 3 || result.Peak != 0.75 {
			t.Errorf("Unexpected totals: %+v", result)
		}
		if result.ZeroCrossings != 2 {
			t.Errorf("Expected crossings across buffers, got %d", result.ZeroCrossings)
		}

		analyzer.Reset()
		if r := analyzer.Result(); r.Samples != 0 || r.Peak != 0 {
			t.Errorf("Expected empty result after reset: %+v", r)
		}
	})
}

func TestAnalysisResultString(t *testing.T) {
	s := NewAudioAnalyzer().Analyze([]float32{0.5, -0.5}).String()
	for _, want := range []string{"samples=2", "peak=0.5000", "-6.0 dBFS"} {
		if !strings.Contains(s, want) {
			t.Errorf("Summary %q missing %q", s, want)
		}
	}
}

func TestCheckBuffer(t *testing.T) {
	if issues := CheckBuffer([]float32{0.1, -0.2}, "ok"); len(issues) != 0 {
		t.Errorf("Expected no issues, got %v", issues)
	}

	issues := CheckBuffer([]float32{1.5, float32(math.NaN())}, "bad")
	if len(issues) != 2 {
		t.Fatalf("Expected 2 issues, got %v", issues)
	}
	for _, issue := range issues {
		if !strings.HasPrefix(issue, "bad: ") {
			t.Errorf("Issue not prefixed with buffer name: %s", issue)
		}
	}
}

func BenchmarkAnalyzer(b *testing.B) {
	buffer := make([]float32, 512)
	for i := range buffer {
		buffer[i] = float32(math.Sin(float64(i) * 0.1))
	}
	analyzer := NewAudioAnalyzer()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		analyzer.Add(buffer)
	}
}
