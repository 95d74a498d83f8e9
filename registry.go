package lilduino

import (
	"sort"
	"sync"
)

// Registry maps command names to handlers. Registering a name twice
// replaces the earlier handler.
type Registry struct {
	mu       sync.RWMutex
	commands map[string]Handler
	logger   *Logger
}

// NewRegistry creates an empty registry
func NewRegistry(logger *Logger) *Registry {
	if logger == nil {
		logger = NewLogger(false)
	}
	return &Registry{
		commands: make(map[string]Handler),
		logger:   logger,
	}
}

// Register binds name to handler
func (r *Registry) Register(name string, handler Handler) {
	r.mu.Lock()
	_, replaced := r.commands[name]
	r.commands[name] = handler
	r.mu.Unlock()

	if replaced {
		r.logger.WarnCat(CatCommand, "Command %s registered twice; the later handler wins", name)
		return
	}
	r.logger.DebugCat(CatCommand, "Registered command: %s", name)
}

// Lookup retrieves a command handler by name
func (r *Registry) Lookup(name string) (Handler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.commands[name]
	return h, ok
}

// Names lists the registered commands in sorted order
func (r *Registry) Names() []string {
	r.mu.RLock()
	names := make([]string, 0, len(r.commands))
	for name := range r.commands {
		names = append(names, name)
	}
	r.mu.RUnlock()
	sort.Strings(names)
	return names
}
