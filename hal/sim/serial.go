package sim

import (
	"bytes"
	"errors"
	"io"
	"sync"

	"github.com/edwingeng/deque"
)

// ErrNoData is returned by ReadByte when nothing has been received.
var ErrNoData = errors.New("serial: no data available")

// Serial is a console port. Bytes handed to Feed come out of ReadByte in
// order; Write goes to the output writer.
type Serial struct {
	mu     sync.Mutex
	rx     deque.Deque
	closed bool
	out    io.Writer
	buf    *bytes.Buffer
}

// NewSerial creates a port writing to out. With a nil out, output is kept
// and can be read back with Output.
func NewSerial(out io.Writer) *Serial {
	s := &Serial{rx: deque.NewDeque()}
	if out == nil {
		s.buf = &bytes.Buffer{}
		out = s.buf
	}
	s.out = out
	return s
}

// Feed queues received bytes.
func (s *Serial) Feed(p []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range p {
		s.rx.PushBack(c)
	}
}

// CloseInput marks the end of received data. Bytes already queued can
// still be read.
func (s *Serial) CloseInput() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
}

// Ended reports whether input was closed and everything queued was read.
func (s *Serial) Ended() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed && s.rx.Len() == 0
}

// FeedString queues received text.
func (s *Serial) FeedString(text string) {
	s.Feed([]byte(text))
}

func (s *Serial) Available() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rx.Len()
}

func (s *Serial) ReadByte() (byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.rx.Len() == 0 {
		return 0, ErrNoData
	}
	return s.rx.PopFront().(byte), nil
}

func (s *Serial) Peek() (byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.rx.Len() == 0 {
		return 0, false
	}
	return s.rx.Front().(byte), true
}

func (s *Serial) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.out.Write(p)
}

// Output returns everything written so far when the port keeps its own
// buffer, and "" otherwise.
func (s *Serial) Output() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.buf == nil {
		return ""
	}
	return s.buf.String()
}
