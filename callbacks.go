package lilduino

import "errors"

// ErrNoWriteCallback is returned by New when Callbacks.Write is nil.
var ErrNoWriteCallback = errors.New("lilduino: a Write callback is required")

// Callbacks are the functions the interpreter calls back into. Each slot
// holds at most one implementation. Write is required; the rest may be nil.
type Callbacks struct {
	// Write prints script output.
	Write func(text string)
	// UnhandledError reports an error no script code handled.
	UnhandledError func(pos *SourcePosition, message string)
	// ReadFile loads a file for read and source.
	ReadFile func(name string) ([]byte, error)
	// StoreFile saves a file for store.
	StoreFile func(name string, data []byte) error
	// CheckInterrupt reports whether the operator asked to abort.
	CheckInterrupt func() bool
}

func (c Callbacks) validate() error {
	if c.Write == nil {
		return ErrNoWriteCallback
	}
	return nil
}
