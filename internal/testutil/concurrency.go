package testutil

import (
	"context"
	"sync"

	"github.com/vk/flightdrop/internal/module"
	"github.com/vk/flightdrop/internal/registry"
)

// Recorder collects lifecycle events from RecordingModules, in the order they
// happen, across goroutines.
type Recorder struct {
	mu     sync.Mutex
	events []string
	builds map[string]int
}

// NewRecorder returns an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{builds: make(map[string]int)}
}

func (r *Recorder) record(event string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

// Events returns a copy of the recorded events.
func (r *Recorder) Events() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.events...)
}

// Builds returns how many times the named module was constructed.
func (r *Recorder) Builds(name string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.builds[name]
}

// RecordingModule is a module that records its construction, start and stop.
type RecordingModule struct {
	module.Static
	rec      *Recorder
	startErr error
}

// Start implements module.Starter.
func (m *RecordingModule) Start(context.Context) error {
	m.rec.record("start:" + m.Name())
	return m.startErr
}

// Stop implements module.Stopper.
func (m *RecordingModule) Stop(context.Context) error {
	m.rec.record("stop:" + m.Name())
	return nil
}

// RecordingEntry returns a registry entry building a RecordingModule. A
// non-nil buildErr makes construction fail; startErr makes Start fail.
func RecordingEntry(rec *Recorder, name string, buildErr, startErr error) registry.Entry {
	return registry.Entry{Name: name, New: func(*module.Context) (module.Module, error) {
		rec.mu.Lock()
		rec.builds[name]++
		rec.mu.Unlock()
		rec.record("build:" + name)
		if buildErr != nil {
			return nil, buildErr
		}
		return &RecordingModule{
			Static:   module.NewStatic(name, module.Service(name)),
			rec:      rec,
			startErr: startErr,
		}, nil
	}}
}
