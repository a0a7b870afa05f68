// Package bus describes the audio and note ports a plugin exposes to its host.
package bus

// MediaType represents the type of bus
type MediaType int32

const (
	// MediaTypeAudio represents audio bus type
	MediaTypeAudio MediaType = 0
	// MediaTypeEvent represents event/MIDI bus type
	MediaTypeEvent MediaType = 1
)

// Direction represents the bus direction
type Direction int32

const (
	// DirectionInput represents input bus
	DirectionInput Direction = 0
	// DirectionOutput represents output bus
	DirectionOutput Direction = 1
)

// Type represents the bus type
type Type int32

const (
	// TypeMain represents main bus
	TypeMain Type = 0
	// TypeAux represents auxiliary bus
	TypeAux Type = 1
)

// Info contains bus configuration
type Info struct {
	ID           uint32 // Host-visible port id, starting at 1
	MediaType    MediaType
	Direction    Direction
	ChannelCount int32
	Name         string
	BusType      Type
	IsActive     bool
}

// Configuration manages audio and event buses
type Configuration struct {
	audioBuses []Info
	eventBuses []Info
}

// NewInstrument returns the synth layout: one stereo "main" audio output
// and one "main" note input, no audio input.
func NewInstrument() *Configuration {
	return NewBuilder().
		WithAudioOutput("main", 2).
		WithEventInput("main").
		MustBuild()
}

// GetBusCount returns the number of buses for a given type and direction
func (c *Configuration) GetBusCount(mediaType MediaType, direction Direction) int32 {
	count := int32(0)

	for _, bus := range c.buses(mediaType) {
		if bus.Direction == direction {
			count++
		}
	}

	return count
}

// GetBusInfo returns information about a specific bus
func (c *Configuration) GetBusInfo(mediaType MediaType, direction Direction, index int32) *Info {
	buses := c.buses(mediaType)

	busIndex := int32(0)
	for i := range buses {
		if buses[i].Direction == direction {
			if busIndex == index {
				return &buses[i]
			}
			busIndex++
		}
	}

	return nil
}

// MainOutputChannels returns the channel count of the first main audio
// output, or 0 when there is none.
func (c *Configuration) MainOutputChannels() int {
	for _, bus := range c.audioBuses {
		if bus.Direction == DirectionOutput && bus.BusType == TypeMain {
			return int(bus.ChannelCount)
		}
	}
	return 0
}

func (c *Configuration) buses(mediaType MediaType) []Info {
	if mediaType == MediaTypeEvent {
		return c.eventBuses
	}
	return c.audioBuses
}
