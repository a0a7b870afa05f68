package config

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/justyntemme/polysynth/pkg/framework/debug"
	"github.com/justyntemme/polysynth/pkg/framework/param"
)

// ParamSetter receives parameter changes from a control goroutine.
// *plugin.Synth implements it.
type ParamSetter interface {
	QueueParam(id uint32, value float64) bool
	GetValue(id uint32) (float64, bool)
}

// liveEnvelope reads the values setter currently holds. Fields it does not
// report come from fallback.
func liveEnvelope(setter ParamSetter, fallback Envelope) Envelope {
	e := fallback
	fields := [param.EnvelopeParamCount]*float32{
		param.ParamAttack:  &e.Attack,
		param.ParamDecay:   &e.Decay,
		param.ParamSustain: &e.Sustain,
		param.ParamRelease: &e.Release,
	}
	for id, f := range fields {
		if v, ok := setter.GetValue(uint32(id)); ok {
			*f = float32(v)
		}
	}
	return e
}

// ReadEnvelope decodes an envelope file on top of base; fields missing from
// the file keep the value in base.
func ReadEnvelope(p string, base Envelope) (Envelope, error) {
	data, err := os.ReadFile(p)
	if err != nil {
		return base, fmt.Errorf("can't read params: %w", err)
	}
	next := base
	if err := json.Unmarshal(data, &next); err != nil {
		return base, fmt.Errorf("unmarshalling %s: %w", filepath.Base(p), err)
	}
	if err := next.Validate(); err != nil {
		return base, fmt.Errorf("%s: %w", filepath.Base(p), err)
	}
	return next, nil
}

type paramWatcher struct {
	path   string
	setter ParamSetter
	last   Envelope
	log    *debug.Logger
}

// reload reads the file and queues every field that differs from what the
// setter holds now, so values changed elsewhere are put back to the file's.
// Fields missing from the file keep the last value read.
func (w *paramWatcher) reload() error {
	next, err := ReadEnvelope(w.path, w.last)
	if err != nil {
		return err
	}
	for _, c := range liveEnvelope(w.setter, w.last).Diff(next) {
		if !w.setter.QueueParam(c.ID, c.Value) {
			return fmt.Errorf("parameter queue full, dropped %d=%v", c.ID, c.Value)
		}
		w.log.Debug("param %d -> %.4f", c.ID, c.Value)
	}
	w.last = next
	return nil
}

// Watch applies the envelope file at path to setter now and again every
// time it changes, until ctx is done. current fills fields missing from the
// file; only fields that differ from the setter's values are sent. Reload errors are logged and the
// previous values stay in effect.
func Watch(ctx context.Context, path string, current Envelope, setter ParamSetter, log *debug.Logger) error {
	pw := &paramWatcher{path: path, setter: setter, last: current, log: log}
	if err := pw.reload(); err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("can't create watcher: %w", err)
	}
	// editors replace the file, so watch its directory
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		watcher.Close()
		return fmt.Errorf("can't watch %s: %w", path, err)
	}

	name := filepath.Clean(path)
	go func() {
		// ignore close error
		defer watcher.Close()
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != name {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
					continue
				}
				if err := pw.reload(); err != nil {
					log.Warn("params not reloaded: %v", err)
					continue
				}
				log.Info("params reloaded from %s", filepath.Base(path))
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Error("watcher: %v", err)
			case <-ctx.Done():
				return
			}
		}
	}()
	return nil
}
