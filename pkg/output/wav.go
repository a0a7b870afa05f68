package output

import (
	"fmt"
	"io"
	"math"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/justyntemme/polysynth/pkg/dsp"
	"github.com/justyntemme/polysynth/pkg/dsp/gain"
)

// wavPCM is the WAVE format tag for integer PCM
const wavPCM = 1

// WavSink encodes stereo blocks as integer PCM WAV. Samples beyond full
// scale are clipped.
type WavSink struct {
	enc    *wav.Encoder
	buf    *audio.IntBuffer
	scale  float64
	frames int64
	file   io.Closer
}

// NewWavSink writes to w at the given sample rate and bit depth (16 or 24).
// The header is completed by Close.
func NewWavSink(w io.WriteSeeker, sampleRate, bitDepth int) (*WavSink, error) {
	if bitDepth != 16 && bitDepth != 24 {
		return nil, fmt.Errorf("unsupported bit depth %d", bitDepth)
	}
	if sampleRate <= 0 {
		return nil, fmt.Errorf("invalid sample rate %d", sampleRate)
	}

	return &WavSink{
		enc: wav.NewEncoder(w, sampleRate, bitDepth, dsp.Stereo, wavPCM),
		buf: &audio.IntBuffer{
			Format:         &audio.Format{NumChannels: dsp.Stereo, SampleRate: sampleRate},
			SourceBitDepth: bitDepth,
		},
		scale: float64(int(1)<<(bitDepth-1) - 1),
	}, nil
}

// CreateWav creates the file at path and returns a sink that closes it.
func CreateWav(path string, sampleRate, bitDepth int) (*WavSink, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create wav: %w", err)
	}
	s, err := NewWavSink(f, sampleRate, bitDepth)
	if err != nil {
		f.Close()
		return nil, err
	}
	s.file = f
	return s, nil
}

// WriteBlock appends min(len(left), len(right)) frames
func (s *WavSink) WriteBlock(left, right []float32) error {
	n := len(left)
	if len(right) < n {
		n = len(right)
	}

	data := s.buf.Data[:0]
	for i := 0; i < n; i++ {
		data = append(data, s.quantize(left[i]), s.quantize(right[i]))
	}
	s.buf.Data = data

	if err := s.enc.Write(s.buf); err != nil {
		return fmt.Errorf("encode wav: %w", err)
	}
	s.frames += int64(n)
	return nil
}

func (s *WavSink) quantize(sample float32) int {
	v := float64(gain.HardClip(sample, 1))
	if math.IsNaN(v) {
		v = 0
	}
	return int(math.Round(v * s.scale))
}

// Frames returns the number of frames written
func (s *WavSink) Frames() int64 {
	return s.frames
}

// Close finalizes the header and closes the file opened by CreateWav.
func (s *WavSink) Close() error {
	err := s.enc.Close()
	if s.file != nil {
		if cerr := s.file.Close(); err == nil {
			err = cerr
		}
	}
	return err
}
