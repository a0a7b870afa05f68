package plugin

import (
	"testing"
)

func TestUIDGeneration(t *testing.T) {
	ids := []string{
		"com.justyntemme.polysynth",
		"com.mycompany.newplugin",
		"com.mycompany.anotherplugin",
	}

	for _, id := range ids {
		t.Run(id, func(t *testing.T) {
			info := &Info{ID: id}

			// Generate UID twice
			if info.UID() != info.UID() {
				t.Errorf("UID generation is not deterministic for %s", id)
			}
			if info.UID() == ([16]byte{}) {
				t.Errorf("UID for %s is all zero", id)
			}
		})
	}
}

func TestUIDUniqueness(t *testing.T) {
	// Test that different plugin IDs generate different UIDs
	plugins := []string{
		"com.company1.plugin1",
		"com.company1.plugin2",
		"com.company2.plugin1",
		"com.different.name",
	}

	uids := make(map[[16]byte]string)

	for _, pluginID := range plugins {
		info := &Info{ID: pluginID}
		uid := info.UID()

		if existingID, exists := uids[uid]; exists {
			t.Errorf("UID collision between %s and %s", pluginID, existingID)
		}

		uids[uid] = pluginID
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		info    Info
		wantErr bool
	}{
		{"valid", Info{ID: "com.example.plugin", Name: "Plugin"}, false},
		{"empty id", Info{Name: "Plugin"}, true},
		{"whitespace in id", Info{ID: "com.example my plugin", Name: "Plugin"}, true},
		{"empty name", Info{ID: "com.example.plugin"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.info.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestBase(t *testing.T) {
	info := Info{
		ID:       "com.example.synth",
		Name:     "Synth",
		Features: []string{FeatureInstrument, FeatureStereo},
	}
	b := NewBase(info)

	if !b.Info.HasFeature(FeatureInstrument) || b.Info.HasFeature(FeatureSynthesizer) {
		t.Errorf("Unexpected features: %v", b.Info.Features)
	}
	if b.Parameters().Count() != 4 {
		t.Errorf("Expected 4 envelope parameters, got %d", b.Parameters().Count())
	}
	if b.Buses().MainOutputChannels() != 2 {
		t.Errorf("Expected stereo output, got %d channels", b.Buses().MainOutputChannels())
	}
	if b.Envelope() == nil || b.State() == nil {
		t.Fatal("Expected envelope store and state manager")
	}
	if b.Envelope().Snapshot().Sustain != 0.8 {
		t.Errorf("Expected default sustain, got %f", b.Envelope().Snapshot().Sustain)
	}
	if b.SampleRate() != 0 {
		t.Errorf("Expected no sample rate before activation, got %f", b.SampleRate())
	}
}
