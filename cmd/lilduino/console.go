package main

import (
	"bytes"
	"io"
	"os"

	"github.com/phroun/lilduino/hal/sim"
	"golang.org/x/term"
)

const (
	keyCtrlC = 0x03
	keyCtrlD = 0x04
	keyBS    = 0x08
	keyDEL   = 0x7f
)

// console connects the host terminal to the simulated serial port. In raw
// mode lines are edited locally and sent on Enter, while '~' and Ctrl-C go
// to the port at once so they can interrupt a running script.
type console struct {
	fd       int
	raw      bool
	oldState *term.State
	out      io.Writer
}

func newConsole() *console {
	return &console{
		fd:  int(os.Stdin.Fd()),
		out: os.Stdout,
	}
}

// start puts the terminal in raw mode when it is one, then copies stdin to
// port until stdin ends. The port's input is closed at that point.
func (c *console) start(port *sim.Serial) error {
	if term.IsTerminal(c.fd) {
		state, err := term.MakeRaw(c.fd)
		if err != nil {
			return err
		}
		c.oldState = state
		c.raw = true
	}
	go c.pump(port)
	return nil
}

func (c *console) restore() {
	if c.raw && c.oldState != nil {
		_ = term.Restore(c.fd, c.oldState)
		c.raw = false
	}
}

func (c *console) pump(port *sim.Serial) {
	defer port.CloseInput()
	buf := make([]byte, 256)
	var line []byte
	for {
		n, err := os.Stdin.Read(buf)
		for _, b := range buf[:n] {
			if !c.raw {
				port.Feed([]byte{b})
				continue
			}
			// raw mode: edit a line locally, hand it over on Enter
			switch b {
			case keyCtrlD:
				if len(line) == 0 {
					return
				}
			case keyCtrlC, '~':
				port.Feed([]byte{'~'})
			case '\r', '\n':
				_, _ = c.out.Write([]byte("\r\n"))
				port.Feed(append(line, '\n'))
				line = nil
			case keyBS, keyDEL:
				if len(line) > 0 {
					line = line[:len(line)-1]
					_, _ = c.out.Write([]byte("\b \b"))
				}
			default:
				if b >= ' ' {
					line = append(line, b)
					_, _ = c.out.Write([]byte{b})
				}
			}
		}
		if err != nil {
			return
		}
	}
}

// crlfWriter turns "\n" into "\r\n" while the terminal is raw.
type crlfWriter struct {
	c *console
}

func (w crlfWriter) Write(p []byte) (int, error) {
	if !w.c.raw {
		return w.c.out.Write(p)
	}
	if _, err := w.c.out.Write(bytes.ReplaceAll(p, []byte("\n"), []byte("\r\n"))); err != nil {
		return 0, err
	}
	return len(p), nil
}
