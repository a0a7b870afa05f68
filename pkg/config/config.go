// Package config reads the host configuration and watches envelope parameter
// files for live edits.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/justyntemme/polysynth/pkg/dsp"
	"github.com/justyntemme/polysynth/pkg/dsp/envelope"
	"github.com/justyntemme/polysynth/pkg/framework/debug"
	"github.com/justyntemme/polysynth/pkg/framework/param"
	"github.com/justyntemme/polysynth/pkg/output"
)

// ErrUnknownBackend is returned for a backend name no output supports
var ErrUnknownBackend = errors.New("unknown output backend")

const defaultConfig = `{
	"sampleRate": 48000,
	"blockSize": 512,
	"bitDepth": 16,
	"backend": "oto",
	"logLevel": "info",
	"envelope": {
		"attack": 0.01,
		"decay": 0.1,
		"sustain": 0.8,
		"release": 0.1
	},
	"watchParams": ""
}
`

// Envelope is the JSON form of the envelope settings
type Envelope struct {
	Attack  float32 `json:"attack"`
	Decay   float32 `json:"decay"`
	Sustain float32 `json:"sustain"`
	Release float32 `json:"release"`
}

func EnvelopeFrom(s envelope.Settings) Envelope {
	return Envelope(s)
}

func (e Envelope) Settings() envelope.Settings {
	return envelope.Settings(e)
}

// Change is one parameter value that differs between two envelopes
type Change struct {
	ID    uint32
	Value float64
}

func (e Envelope) values() [param.EnvelopeParamCount]float32 {
	return [param.EnvelopeParamCount]float32{
		param.ParamAttack:  e.Attack,
		param.ParamDecay:   e.Decay,
		param.ParamSustain: e.Sustain,
		param.ParamRelease: e.Release,
	}
}

// Diff returns the parameters whose value differs in next, in id order.
func (e Envelope) Diff(next Envelope) []Change {
	var changes []Change
	old, values := e.values(), next.values()
	for id, v := range values {
		if v != old[id] {
			changes = append(changes, Change{ID: uint32(id), Value: float64(v)})
		}
	}
	return changes
}

// Validate reports the first field outside the parameter range 0..1
func (e Envelope) Validate() error {
	for id, v := range e.values() {
		if !(v >= 0 && v <= 1) {
			return fmt.Errorf("envelope parameter %d out of range: %v", id, v)
		}
	}
	return nil
}

type Config struct {
	SampleRate int    `json:"sampleRate"`
	BlockSize  int    `json:"blockSize"`
	BitDepth   int    `json:"bitDepth"`
	Backend    string `json:"backend"`
	LogLevel   string `json:"logLevel"`
	// Envelope is applied before any note plays
	Envelope Envelope `json:"envelope"`
	// WatchParams names an envelope JSON file reloaded on every change.
	// Empty disables watching.
	WatchParams string `json:"watchParams"`
}

// Default returns the built-in configuration
func Default() *Config {
	var c Config
	if err := json.Unmarshal([]byte(defaultConfig), &c); err != nil {
		panic(fmt.Sprintf("config: bad default: %v", err))
	}
	return &c
}

// Read loads the configuration at p, creating it with the defaults if it
// does not exist. Fields missing from the file keep their defaults.
func Read(p string) (*Config, error) {
	if _, err := os.Stat(p); errors.Is(err, os.ErrNotExist) {
		if err := os.WriteFile(p, []byte(defaultConfig), 0644); err != nil {
			return nil, fmt.Errorf("can't write default config: %w", err)
		}
	}

	data, err := os.ReadFile(p)
	if err != nil {
		return nil, fmt.Errorf("can't read config: %w", err)
	}

	c := Default()
	if err := json.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("unmarshalling %s: %w", filepath.Base(p), err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(p), err)
	}
	return c, nil
}

func (c *Config) Validate() error {
	if c.SampleRate <= 0 {
		return fmt.Errorf("invalid sample rate %d", c.SampleRate)
	}
	if c.BlockSize < dsp.MinBufferSize || c.BlockSize > dsp.MaxBufferSize {
		return fmt.Errorf("block size %d out of range %d..%d", c.BlockSize, dsp.MinBufferSize, dsp.MaxBufferSize)
	}
	if c.BitDepth != 16 && c.BitDepth != 24 {
		return fmt.Errorf("unsupported bit depth %d", c.BitDepth)
	}
	if !knownBackend(c.Backend) {
		return fmt.Errorf("%w: %q", ErrUnknownBackend, c.Backend)
	}
	if _, err := debug.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return c.Envelope.Validate()
}

// Level returns the parsed log level, Info when it cannot be parsed.
func (c *Config) Level() debug.LogLevel {
	level, _ := debug.ParseLevel(c.LogLevel)
	return level
}

func knownBackend(name string) bool {
	for _, b := range output.Backends() {
		if b == name {
			return true
		}
	}
	return false
}
