package param

import (
	"errors"
	"fmt"
	"sync"
)

// ErrUnknownParameter is returned for an id that is not registered
var ErrUnknownParameter = errors.New("unknown parameter")

// Registry manages plugin parameters
type Registry struct {
	params map[uint32]*Parameter
	order  []uint32 // Maintain order for indexed access
	mu     sync.RWMutex
}

// NewRegistry creates a new parameter registry
func NewRegistry() *Registry {
	return &Registry{
		params: make(map[uint32]*Parameter),
		order:  make([]uint32, 0),
	}
}

// Add registers parameters. Duplicate ids are an error and nothing after the
// duplicate is added.
func (r *Registry) Add(params ...*Parameter) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range params {
		if _, exists := r.params[p.ID]; exists {
			return fmt.Errorf("parameter %d (%s) already registered", p.ID, p.Name)
		}
		r.params[p.ID] = p
		r.order = append(r.order, p.ID)
	}

	return nil
}

// Get retrieves a parameter by ID
func (r *Registry) Get(id uint32) *Parameter {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.params[id]
}

// GetByIndex retrieves a parameter by index
func (r *Registry) GetByIndex(index int32) *Parameter {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if index < 0 || index >= int32(len(r.order)) {
		return nil
	}

	id := r.order[index]
	return r.params[id]
}

// Count returns the number of parameters
func (r *Registry) Count() int32 {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return int32(len(r.order))
}

// FormatValue formats value with the formatter of parameter id
func (r *Registry) FormatValue(id uint32, value float64) (string, error) {
	p := r.Get(id)
	if p == nil {
		return "", fmt.Errorf("format %d: %w", id, ErrUnknownParameter)
	}
	return p.FormatValue(value), nil
}

// ParseValue parses text with the parser of parameter id
func (r *Registry) ParseValue(id uint32, text string) (float64, error) {
	p := r.Get(id)
	if p == nil {
		return 0, fmt.Errorf("parse %d: %w", id, ErrUnknownParameter)
	}
	v, err := p.ParseValue(text)
	if err != nil {
		return 0, fmt.Errorf("parse %s %q: %w", p.Name, text, err)
	}
	return v, nil
}
