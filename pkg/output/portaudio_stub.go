//go:build !portaudio

package output

// NewPortAudioPlayer needs the portaudio build tag and the PortAudio library.
func NewPortAudioPlayer(r *Renderer) (Player, error) {
	return nil, ErrBackendUnavailable
}
