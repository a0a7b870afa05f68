package param

import (
	"fmt"
	"strconv"
)

// Parameter describes one host-visible parameter. The value itself lives in
// the store that owns it (see Envelope); Parameter only carries metadata and
// text conversion.
type Parameter struct {
	ID           uint32
	Name         string
	Module       string
	Min          float64
	Max          float64
	DefaultValue float64
	Flags        uint32

	// Value formatting
	formatFunc func(float64) string
	parseFunc  func(string) (float64, error)
}

// Flags for parameters
const (
	CanAutomate uint32 = 1 << 0
)

// IsAutomatable reports whether the host may automate the parameter
func (p *Parameter) IsAutomatable() bool {
	return p.Flags&CanAutomate != 0
}

// FormatValue returns the display text for a plain value
func (p *Parameter) FormatValue(value float64) string {
	if p.formatFunc != nil {
		return p.formatFunc(value)
	}
	return fmt.Sprintf("%.2f", value)
}

// ParseValue converts display text back to a plain value
func (p *Parameter) ParseValue(str string) (float64, error) {
	if p.parseFunc != nil {
		return p.parseFunc(str)
	}
	return strconv.ParseFloat(str, 64)
}
