// Package state saves and restores the synth parameters.
package state

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/justyntemme/polysynth/pkg/dsp/envelope"
	"github.com/justyntemme/polysynth/pkg/framework/param"
)

// Size is the length of a saved state: four little-endian float32 values,
// attack, decay, sustain and release.
const Size = 16

// ErrShortState is returned when fewer than Size bytes could be read
var ErrShortState = errors.New("state too short")

// Manager handles plugin state saving and loading
type Manager struct {
	envelope *param.Envelope
}

// NewManager creates a new state manager
func NewManager(env *param.Envelope) *Manager {
	return &Manager{envelope: env}
}

// Save writes the current envelope settings to w
func (m *Manager) Save(w io.Writer) error {
	settings := m.envelope.Snapshot()
	if err := binary.Write(w, binary.LittleEndian, &settings); err != nil {
		return fmt.Errorf("save state: %w", err)
	}
	return nil
}

// Load reads a full state record from r and applies it. Nothing is changed
// unless all Size bytes were read and every value is finite.
func (m *Manager) Load(r io.Reader) error {
	var buf [Size]byte
	if n, err := io.ReadFull(r, buf[:]); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
			return fmt.Errorf("load state: read %d of %d bytes: %w", n, Size, ErrShortState)
		}
		return fmt.Errorf("load state: %w", err)
	}

	var settings envelope.Settings
	if err := binary.Read(bytes.NewReader(buf[:]), binary.LittleEndian, &settings); err != nil {
		return fmt.Errorf("load state: %w", err)
	}

	if err := m.envelope.Set(settings); err != nil {
		return fmt.Errorf("load state: %w", err)
	}
	return nil
}
