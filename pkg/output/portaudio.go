//go:build portaudio

package output

import (
	"fmt"
	"sync/atomic"

	"github.com/gordonklaus/portaudio"

	"github.com/justyntemme/polysynth/pkg/dsp"
)

// PortAudioPlayer renders inside the PortAudio stream callback.
type PortAudioPlayer struct {
	r      *Renderer
	stream *portaudio.Stream
	failed atomic.Pointer[error]
}

func NewPortAudioPlayer(r *Renderer) (Player, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("can't init portaudio: %w", err)
	}

	p := &PortAudioPlayer{r: r}
	stream, err := portaudio.OpenDefaultStream(0, dsp.Stereo, r.SampleRate(), portaudio.FramesPerBufferUnspecified, p.process)
	if err != nil {
		portaudio.Terminate()
		return nil, fmt.Errorf("can't open default stream: %w", err)
	}
	p.stream = stream
	return p, nil
}

func (p *PortAudioPlayer) process(out [][]float32) {
	if p.failed.Load() != nil {
		for _, ch := range out {
			dsp.Clear(ch)
		}
		return
	}
	if err := p.r.Fill(out[0], out[1]); err != nil {
		p.failed.Store(&err)
	}
}

func (p *PortAudioPlayer) Start() error {
	return p.stream.Start()
}

func (p *PortAudioPlayer) Close() error {
	// ignore Stop error, the stream may never have started
	p.stream.Stop()
	err := p.stream.Close()
	if terr := portaudio.Terminate(); err == nil {
		err = terr
	}
	if failed := p.failed.Load(); err == nil && failed != nil {
		err = *failed
	}
	return err
}
