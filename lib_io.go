package lilduino

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"

	"github.com/phroun/lilduino/hal"
)

// StorageCallbacks binds output to the serial port and files to the store,
// the way the firmware wires them. Unhandled errors print on the console,
// and a '~' waiting on the serial port is taken as a keyboard interrupt.
// store may be nil, leaving read and store unbound.
func StorageCallbacks(store hal.FileStore, serial hal.Serial) Callbacks {
	cb := Callbacks{
		Write: func(text string) {
			_, _ = serial.Write([]byte(text))
		},
		UnhandledError: func(pos *SourcePosition, message string) {
			offset := 0
			if pos != nil {
				offset = pos.Offset
			}
			_, _ = fmt.Fprintf(serial, "\nUnhandled error at pos %d: %s\n", offset, message)
		},
		CheckInterrupt: func() bool {
			if serial.Available() == 0 {
				return false
			}
			if c, ok := serial.Peek(); !ok || c != '~' {
				return false
			}
			_, _ = serial.ReadByte()
			return true
		},
	}
	if store == nil {
		return cb
	}

	cb.ReadFile = func(name string) ([]byte, error) {
		data, err := store.ReadFile(name)
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("File %s not found", name)
		}
		return data, err
	}
	cb.StoreFile = func(name string, data []byte) error {
		written, err := store.WriteFile(name, data)
		if err != nil {
			return fmt.Errorf("Error opening %s for writing: %w", name, err)
		}
		if written != len(data) {
			return fmt.Errorf("Failed to write to %s (%d/%d bytes successfully written)", name, written, len(data))
		}
		return nil
	}
	return cb
}

// RegisterIOLib registers the storage and console commands
// Module: io
func (b *Bridge) RegisterIOLib() {
	if store := b.board.Storage; store != nil {
		b.RegisterCommand("mkdir", WithArity(Exactly(1), func(ctx *Context) Result {
			if err := store.Mkdir(ctx.Str(0)); err != nil {
				return ctx.FailErr(KindIOFailure, err)
			}
			return BoolStatus(true)
		}))

		b.RegisterCommand("rm", WithArity(Exactly(1), func(ctx *Context) Result {
			if err := store.Remove(ctx.Str(0)); err != nil {
				return ctx.FailErr(KindIOFailure, err)
			}
			return BoolStatus(true)
		}))

		// rmdir leaves a non-empty directory in place without failing
		b.RegisterCommand("rmdir", WithArity(Exactly(1), func(ctx *Context) Result {
			name := ctx.Str(0)
			err := store.Rmdir(name)
			if errors.Is(err, hal.ErrNotEmpty) {
				ctx.Logger().CommandWarning(CatStorage, ctx.Name, name+": directory not empty, left in place", ctx.Position)
				return BoolStatus(true)
			}
			if err != nil {
				return ctx.FailErr(KindIOFailure, err)
			}
			return BoolStatus(true)
		}))
	}

	if b.board.Serial != nil {
		// input [prompt...] - prompt words are written joined by spaces
		b.RegisterCommand("input", func(ctx *Context) Result {
			if len(ctx.Args) > 0 {
				ctx.Write(joinArgs(ctx.Args))
			}
			line, err := b.ReadLine()
			if errors.Is(err, io.EOF) && line != "" {
				err = nil
			}
			switch {
			case errors.Is(err, ErrInterrupted):
				return ctx.Fail(KindInterrupted, "Keyboard interrupt")
			case errors.Is(err, io.EOF):
				return ctx.Fail(KindIOFailure, "End of input")
			case errors.Is(err, ErrOutOfMemory):
				return ctx.Fail(KindOutOfMemory, "Out of memory (input longer than %d bytes)", b.config.InputLimit)
			case err != nil:
				return ctx.FailErr(KindIOFailure, err)
			}
			ctx.SetResult(String(strings.TrimSuffix(line, "\r")))
			return BoolStatus(true)
		})
	}
}
