package debug

import (
	"math"
	"strings"
	"sync"
	"testing"
	"time"
)

func TestLoadMeter(t *testing.T) {
	m := NewLoadMeter(48000)

	// 480 frames is 10ms of audio.
	m.Record(1*time.Millisecond, 480)
	m.Record(5*time.Millisecond, 480)

	if m.Blocks() != 2 {
		t.Errorf("Expected 2 blocks, got %d", m.Blocks())
	}
	if m.AudioDuration() != 20*time.Millisecond {
		t.Errorf("Expected 20ms of audio, got %v", m.AudioDuration())
	}
	if math.Abs(m.Load()-0.3) > 1e-9 {
		t.Errorf("Expected load 0.3, got %f", m.Load())
	}
	if math.Abs(m.Worst()-0.5) > 1e-9 {
		t.Errorf("Expected worst 0.5, got %f", m.Worst())
	}

	report := m.Report()
	if !strings.Contains(report, "load=30.00%") || !strings.Contains(report, "worst=50.00%") {
		t.Errorf("Unexpected report: %s", report)
	}
}

func TestLoadMeterIgnoresEmptyBlocks(t *testing.T) {
	m := NewLoadMeter(48000)
	m.Record(time.Second, 0)

	if m.Blocks() != 0 || m.Load() != 0 {
		t.Errorf("Empty block was recorded: blocks=%d load=%f", m.Blocks(), m.Load())
	}
}

func TestLoadMeterConcurrent(t *testing.T) {
	m := NewLoadMeter(1000)
	var wg sync.WaitGroup

	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				m.Record(time.Duration(w+1)*time.Millisecond, 10)
			}
		}(w)
	}
	wg.Wait()

	if m.Blocks() != 400 {
		t.Errorf("Expected 400 blocks, got %d", m.Blocks())
	}
	// 4ms for 10ms of audio is the slowest block.
	if math.Abs(m.Worst()-0.4) > 1e-9 {
		t.Errorf("Expected worst 0.4, got %f", m.Worst())
	}
}

func BenchmarkLoadMeterRecord(b *testing.B) {
	m := NewLoadMeter(48000)
	for i := 0; i < b.N; i++ {
		m.Record(time.Microsecond, 512)
	}
}
