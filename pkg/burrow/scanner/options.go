// Package scanner implements the burrow scan engine: a fixed pool of
// workers draining a shared path queue, a lifecycle controller with
// cooperative cancellation, and a typed event stream for observers.
package scanner

import (
	"time"

	"github.com/burrowscan/burrow/pkg/burrow/config"
)

// Options configures a Controller.
type Options struct {
	// Workers is the number of concurrent scan workers.
	Workers int

	// Exclude contains glob patterns for paths to skip during scanning.
	// Patterns are matched against the base name and the full path.
	Exclude []string

	// EventBuffer is the capacity of the event channel handed to the
	// observer.
	EventBuffer int

	// ProgressInterval is the minimum spacing between ProgressUpdated
	// events. Progress is additionally emitted after every directory
	// batch and always forced at terminal transitions.
	ProgressInterval time.Duration

	// StopTimeout bounds how long Stop waits for workers to observe the
	// cancellation flag and exit.
	StopTimeout time.Duration

	// EmitEntries controls whether EntryDiscovered events are emitted.
	// Entry events are delivered with a blocking send so they are never
	// dropped; observers that do not drain the channel should disable
	// them and rely on store queries instead.
	EmitEntries bool
}

// DefaultOptions returns options with sensible defaults.
func DefaultOptions() Options {
	return Options{
		Workers:          config.DefaultWorkers,
		Exclude:          config.DefaultExclusions,
		EventBuffer:      config.DefaultEventBuffer,
		ProgressInterval: config.DefaultProgressIntervalMS * time.Millisecond,
		StopTimeout:      config.DefaultStopTimeoutMS * time.Millisecond,
		EmitEntries:      true,
	}
}

// Validate sets defaults for invalid values.
func (o *Options) Validate() error {
	if o.Workers < 1 {
		o.Workers = config.DefaultWorkers
	}
	if o.EventBuffer < 1 {
		o.EventBuffer = config.DefaultEventBuffer
	}
	if o.ProgressInterval < 0 {
		o.ProgressInterval = config.DefaultProgressIntervalMS * time.Millisecond
	}
	if o.StopTimeout < 1 {
		o.StopTimeout = config.DefaultStopTimeoutMS * time.Millisecond
	}
	return nil
}
