package output

import (
	"errors"
	"fmt"
	"time"

	"github.com/ebitengine/oto/v3"

	"github.com/justyntemme/polysynth/pkg/dsp"
)

// Output backends
const (
	BackendWav       = "wav"
	BackendOto       = "oto"
	BackendPortAudio = "portaudio"
)

// Backends lists every backend name accepted by OpenPlayer and by the
// configuration.
func Backends() []string {
	return []string{BackendWav, BackendOto, BackendPortAudio}
}

var (
	// ErrNotRealtime is returned by OpenPlayer for file backends
	ErrNotRealtime = errors.New("backend does not play in realtime")
	// ErrBackendUnavailable is returned when a backend was not built in
	ErrBackendUnavailable = errors.New("backend not available in this build")
)

// Player plays a renderer on a sound device. The device callback is the
// audio thread.
type Player interface {
	Start() error
	Close() error
}

// OpenPlayer opens the named realtime backend for r.
func OpenPlayer(backend string, r *Renderer) (Player, error) {
	switch backend {
	case BackendOto:
		return NewOtoPlayer(r, DefaultLatency)
	case BackendPortAudio:
		return NewPortAudioPlayer(r)
	case BackendWav:
		return nil, ErrNotRealtime
	default:
		return nil, fmt.Errorf("unknown backend %q", backend)
	}
}

// DefaultLatency is the device buffer requested from oto
const DefaultLatency = 20 * time.Millisecond

// OtoPlayer pulls audio through oto. Only one may exist per process.
type OtoPlayer struct {
	ctx    *oto.Context
	player *oto.Player
	stream *Stream
}

func NewOtoPlayer(r *Renderer, latency time.Duration) (*OtoPlayer, error) {
	op := &oto.NewContextOptions{
		SampleRate:   int(r.SampleRate()),
		ChannelCount: dsp.Stereo,
		Format:       oto.FormatFloat32LE,
		BufferSize:   latency,
	}

	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, fmt.Errorf("oto context: %w", err)
	}
	<-ready

	stream := NewStream(r)
	return &OtoPlayer{
		ctx:    ctx,
		player: ctx.NewPlayer(stream),
		stream: stream,
	}, nil
}

func (p *OtoPlayer) Start() error {
	p.player.Play()
	return nil
}

func (p *OtoPlayer) Close() error {
	if err := p.player.Close(); err != nil {
		return err
	}
	return p.stream.Err()
}
