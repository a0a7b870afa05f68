package output

import (
	"encoding/binary"
	"math"

	"github.com/justyntemme/polysynth/pkg/dsp"
)

// bytesPerFrame is one interleaved stereo float32 frame
const bytesPerFrame = dsp.Stereo * 4

// Stream is an io.Reader of interleaved little-endian float32 stereo frames
// rendered on demand. The goroutine calling Read is the audio thread.
type Stream struct {
	r     *Renderer
	left  []float32
	right []float32
	inter []float32
	err   error

	// partial holds the rest of a frame split across two reads
	partial [bytesPerFrame]byte
	pending []byte
}

func NewStream(r *Renderer) *Stream {
	n := r.BlockSize()
	return &Stream{
		r:     r,
		left:  make([]float32, n),
		right: make([]float32, n),
		inter: make([]float32, n*dsp.Stereo),
	}
}

// Read fills p with frames. A frame that does not fit is split and its
// remainder starts the next read. After a render error the stream stays
// silent and returns the error.
func (s *Stream) Read(p []byte) (int, error) {
	written := copy(p, s.pending)
	s.pending = s.pending[written:]
	if len(s.pending) > 0 {
		return written, s.err
	}

	frames := (len(p) - written) / bytesPerFrame
	s.encode(p[written:], frames)
	written += frames * bytesPerFrame

	if rest := len(p) - written; rest > 0 {
		s.encode(s.partial[:], 1)
		copy(p[written:], s.partial[:rest])
		s.pending = s.partial[rest:]
		written += rest
	}
	return written, s.err
}

// encode renders frames into dst, which must hold frames*bytesPerFrame bytes.
func (s *Stream) encode(dst []byte, frames int) {
	off := 0
	for frames > 0 {
		k := frames
		if k > len(s.left) {
			k = len(s.left)
		}
		if s.err == nil {
			s.err = s.r.Fill(s.left[:k], s.right[:k])
		}
		if s.err != nil {
			dsp.Clear(s.left[:k])
			dsp.Clear(s.right[:k])
		}

		dsp.Interleave(s.inter, s.left[:k], s.right[:k])
		for _, v := range s.inter[:k*dsp.Stereo] {
			binary.LittleEndian.PutUint32(dst[off:], math.Float32bits(v))
			off += 4
		}
		frames -= k
	}
}

// Err returns the render error that silenced the stream, if any
func (s *Stream) Err() error {
	return s.err
}
