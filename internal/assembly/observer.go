// SPDX-License-Identifier: MPL-2.0

package assembly

import "sync"

type (
	// Observer receives resolution events. Calls are synchronous and happen on
	// the goroutine that called Resolve.
	Observer interface {
		// Resolved is called when a reference is located and added to the closure.
		Resolved(m Module)
		// Dropped is called when a reference could not be found in any search root.
		Dropped(name, referrer string)
		// ReadFailed is called when a module's references could not be read.
		// The module is treated as having no references.
		ReadFailed(modulePath string, err error)
	}

	// NopObserver ignores every event.
	NopObserver struct{}

	// DroppedReference is a reference that could not be located.
	DroppedReference struct {
		Name     string `json:"name" toml:"name"`
		Referrer string `json:"referrer" toml:"referrer"`
	}

	// ReadFailure is a module whose references could not be read.
	ReadFailure struct {
		Path string `json:"path" toml:"path"`
		Err  string `json:"error" toml:"error"`
	}

	// Recorder is an Observer that keeps dropped references and read failures
	// for reporting. It is safe for concurrent use.
	Recorder struct {
		mu      sync.Mutex
		dropped []DroppedReference
		failed  []ReadFailure
	}
)

// Resolved implements Observer.
func (NopObserver) Resolved(Module) {}

// Dropped implements Observer.
func (NopObserver) Dropped(string, string) {}

// ReadFailed implements Observer.
func (NopObserver) ReadFailed(string, error) {}

// Resolved implements Observer.
func (r *Recorder) Resolved(Module) {}

// Dropped implements Observer.
func (r *Recorder) Dropped(name, referrer string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.dropped = append(r.dropped, DroppedReference{Name: name, Referrer: referrer})
}

// ReadFailed implements Observer.
func (r *Recorder) ReadFailed(modulePath string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failed = append(r.failed, ReadFailure{Path: modulePath, Err: err.Error()})
}

// DroppedReferences returns the dropped references in the order they were seen.
func (r *Recorder) DroppedReferences() []DroppedReference {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]DroppedReference, len(r.dropped))
	copy(out, r.dropped)
	return out
}

// ReadFailures returns the read failures in the order they were seen.
func (r *Recorder) ReadFailures() []ReadFailure {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]ReadFailure, len(r.failed))
	copy(out, r.failed)
	return out
}

// Reset clears everything recorded so far.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.dropped = nil
	r.failed = nil
}
