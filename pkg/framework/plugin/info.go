package plugin

import (
	"errors"
	"hash/fnv"
	"strings"
)

// Feature tags a host uses to categorize a plugin
const (
	FeatureInstrument  = "instrument"
	FeatureSynthesizer = "synthesizer"
	FeatureStereo      = "stereo"
)

// Info contains plugin metadata
type Info struct {
	ID       string   // Unique reverse-domain identifier (e.g., "com.example.myplugin")
	Name     string   // Display name
	Version  string   // Semantic version (e.g., "1.0.0")
	Vendor   string   // Company/developer name
	Features []string // Feature tags, e.g. FeatureInstrument
}

// UID derives a stable 16-byte identifier from the string ID
func (i Info) UID() [16]byte {
	h := fnv.New128a()
	h.Write([]byte(i.ID))

	var uid [16]byte
	copy(uid[:], h.Sum(nil))
	return uid
}

// HasFeature reports whether the plugin declares feature
func (i Info) HasFeature(feature string) bool {
	for _, f := range i.Features {
		if f == feature {
			return true
		}
	}
	return false
}

// Validate checks that the metadata can be registered with a host
func (i Info) Validate() error {
	if i.ID == "" {
		return errors.New("plugin ID is empty")
	}
	if strings.ContainsAny(i.ID, " \t\n") {
		return errors.New("plugin ID contains whitespace")
	}
	if i.Name == "" {
		return errors.New("plugin name is empty")
	}
	return nil
}
