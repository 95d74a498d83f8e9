package lilduino

import (
	"errors"
	"io"
)

// DefaultChunk is the growth step of the line buffer.
const DefaultChunk = 32

var (
	// ErrInterrupted aborts a read when the interrupt check fires.
	ErrInterrupted = errors.New("interrupted")
	// ErrOutOfMemory is returned when the buffer would outgrow its limit.
	ErrOutOfMemory = errors.New("out of memory")
)

// ByteSource is a character-oriented input such as a serial port.
type ByteSource interface {
	Available() int
	ReadByte() (byte, error)
}

// endable is implemented by sources whose input can end for good, such as
// a console whose stdin was closed.
type endable interface {
	Ended() bool
}

// LineReader reads one line at a time from a ByteSource without blocking
// the rest of the system. While no byte is available it yields and polls
// the interrupt check, so a read can always be aborted from outside.
//
// Each ReadLine starts from a fresh buffer; nothing is kept between calls.
type LineReader struct {
	Source ByteSource

	// Yield is called once per wait iteration.
	Yield func()
	// Interrupted is polled once per wait iteration.
	Interrupted func() bool

	// Chunk is the initial capacity and the growth step (DefaultChunk if 0).
	Chunk int
	// Limit caps the buffer capacity in bytes; 0 means no cap.
	Limit int
	// Terminator ends a line and is not returned ('\n' if 0).
	Terminator byte

	// OnGrow observes each capacity increase.
	OnGrow func(from, to int)
}

// ReadLine returns the bytes before the next terminator. When the source
// ends first, it returns what was read with io.EOF.
func (r *LineReader) ReadLine() (string, error) {
	chunk := r.Chunk
	if chunk <= 0 {
		chunk = DefaultChunk
	}
	terminator := r.Terminator
	if terminator == 0 {
		terminator = '\n'
	}
	if r.Limit > 0 && chunk > r.Limit {
		return "", ErrOutOfMemory
	}

	buf := make([]byte, 0, chunk)
	for {
		if r.Yield != nil {
			r.Yield()
		}
		if r.Interrupted != nil && r.Interrupted() {
			return "", ErrInterrupted
		}
		if r.Source.Available() == 0 {
			if e, ok := r.Source.(endable); ok && e.Ended() {
				return string(buf), io.EOF
			}
			continue
		}

		c, err := r.Source.ReadByte()
		if err != nil {
			return "", err
		}
		if c == terminator {
			return string(buf), nil
		}

		if len(buf) == cap(buf) {
			next := cap(buf) + chunk
			if r.Limit > 0 && next > r.Limit {
				return "", ErrOutOfMemory
			}
			grown := make([]byte, len(buf), next)
			copy(grown, buf)
			if r.OnGrow != nil {
				r.OnGrow(cap(buf), next)
			}
			buf = grown
		}
		buf = append(buf, c)
	}
}
