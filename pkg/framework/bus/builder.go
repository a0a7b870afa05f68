package bus

import (
	"errors"
	"fmt"
)

// maxChannels is the largest channel count accepted for one bus
const maxChannels = 32

// Builder provides a fluent API for building bus configurations
type Builder struct {
	config *Configuration
}

// NewBuilder creates a new bus configuration builder
func NewBuilder() *Builder {
	return &Builder{
		config: &Configuration{
			audioBuses: []Info{},
			eventBuses: []Info{},
		},
	}
}

// WithAudioOutput adds a main audio output bus
func (b *Builder) WithAudioOutput(name string, channels int32) *Builder {
	b.config.audioBuses = append(b.config.audioBuses, Info{
		ID:           uint32(len(b.config.audioBuses)) + 1,
		MediaType:    MediaTypeAudio,
		Direction:    DirectionOutput,
		ChannelCount: channels,
		Name:         name,
		BusType:      TypeMain,
		IsActive:     true,
	})
	return b
}

// WithEventInput adds a note input bus
func (b *Builder) WithEventInput(name string) *Builder {
	b.config.eventBuses = append(b.config.eventBuses, Info{
		ID:           uint32(len(b.config.eventBuses)) + 1,
		MediaType:    MediaTypeEvent,
		Direction:    DirectionInput,
		ChannelCount: 1,
		Name:         name,
		BusType:      TypeMain,
		IsActive:     true,
	})
	return b
}

// Validate checks if the configuration is valid
func (b *Builder) Validate() error {
	if b.config.MainOutputChannels() == 0 {
		return errors.New("configuration must have a main audio output bus")
	}

	// Validate channel counts
	for _, bus := range b.config.audioBuses {
		if bus.ChannelCount <= 0 {
			return fmt.Errorf("invalid channel count %d for bus %s", bus.ChannelCount, bus.Name)
		}
		if bus.ChannelCount > maxChannels {
			return fmt.Errorf("channel count %d exceeds maximum of %d for bus %s", bus.ChannelCount, maxChannels, bus.Name)
		}
	}

	return nil
}

// Build returns the built configuration or an error
func (b *Builder) Build() (*Configuration, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return b.config, nil
}

// MustBuild returns the built configuration or panics on error
func (b *Builder) MustBuild() *Configuration {
	config, err := b.Build()
	if err != nil {
		panic(err)
	}
	return config
}
