package zdbi

import (
	"errors"
	"fmt"
	"sync"

	"zgo.at/zdbi/drivers"
)

// Process-wide backend state: drivers are initialized on first use, and open
// sessions are tracked so Shutdown() can close them.
var backend = struct {
	mu       sync.Mutex
	inited   map[string]drivers.Driver
	sessions map[*Session]struct{}
}{
	inited:   make(map[string]drivers.Driver),
	sessions: make(map[*Session]struct{}),
}

// acquire initializes the driver if needed, and records the session as
// open.
func acquire(s *Session, d drivers.Driver) error {
	backend.mu.Lock()
	defer backend.mu.Unlock()

	if _, ok := backend.inited[d.Name()]; !ok {
		if i, ok := d.(drivers.Initializer); ok {
			err := i.Init()
			if err != nil {
				return fmt.Errorf("initializing driver %q: %w", d.Name(), err)
			}
		}
		backend.inited[d.Name()] = d
	}
	backend.sessions[s] = struct{}{}
	return nil
}

func release(s *Session) {
	backend.mu.Lock()
	defer backend.mu.Unlock()
	delete(backend.sessions, s)
}

// Shutdown closes all open sessions and shuts down all drivers that were
// used.
//
// This is typically deferred in main(). It's safe to call more than once,
// and sessions can connect again after it; the drivers will be initialized
// again.
func Shutdown() error {
	backend.mu.Lock()
	open := make([]*Session, 0, len(backend.sessions))
	for s := range backend.sessions {
		open = append(open, s)
	}
	backend.mu.Unlock()

	var errs []error
	for _, s := range open {
		if err := s.Close(); err != nil {
			errs = append(errs, err)
		}
	}

	backend.mu.Lock()
	defer backend.mu.Unlock()
	for name, d := range backend.inited {
		if sd, ok := d.(drivers.Shutdowner); ok {
			if err := sd.Shutdown(); err != nil {
				errs = append(errs, fmt.Errorf("shutting down driver %q: %w", name, err))
			}
		}
		delete(backend.inited, name)
	}
	if len(errs) > 0 {
		return fmt.Errorf("zdbi.Shutdown: %w", errors.Join(errs...))
	}
	return nil
}
