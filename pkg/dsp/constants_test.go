package dsp

import (
	"testing"
)

func TestChannelConstants(t *testing.T) {
	if Mono != 1 {
		t.Errorf("Mono should be 1, got %d", Mono)
	}
	if Stereo != 2 {
		t.Errorf("Stereo should be 2, got %d", Stereo)
	}
}

func TestBufferSizes(t *testing.T) {
	if !(MinBufferSize <= DefaultBufferSize && DefaultBufferSize <= MaxBufferSize) {
		t.Errorf("Buffer sizes out of order: %d, %d, %d", MinBufferSize, DefaultBufferSize, MaxBufferSize)
	}
}
