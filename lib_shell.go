package lilduino

import (
	"errors"
	"strings"

	"github.com/dustin/go-humanize"
)

// ErrNoFileCallback is returned by read, store and source when the matching
// callback is not bound.
var ErrNoFileCallback = errors.New("no file callback is bound")

func fileErrorKind(err error) ErrorKind {
	if errors.Is(err, ErrNoFileCallback) {
		return KindResourceUnavailable
	}
	return KindIOFailure
}

func joinArgs(args []Value) string {
	parts := make([]string, len(args))
	for i, arg := range args {
		parts[i] = AsString(arg)
	}
	return strings.Join(parts, " ")
}

// readFile loads a file through the ReadFile callback.
func (b *Bridge) readFile(name string) ([]byte, error) {
	if b.callbacks.ReadFile == nil {
		return nil, ErrNoFileCallback
	}
	data, err := b.callbacks.ReadFile(name)
	if err != nil {
		return nil, err
	}
	b.logger.DebugCat(CatStorage, "Read %s (%s)", name, humanize.Bytes(uint64(len(data))))
	return data, nil
}

// storeFile saves a file through the StoreFile callback.
func (b *Bridge) storeFile(name string, data []byte) error {
	if b.callbacks.StoreFile == nil {
		return ErrNoFileCallback
	}
	if err := b.callbacks.StoreFile(name, data); err != nil {
		return err
	}
	b.logger.DebugCat(CatStorage, "Stored %s (%s)", name, humanize.Bytes(uint64(len(data))))
	return nil
}

// registerShellCommands registers the commands every bridge has
// Module: shell
func (b *Bridge) registerShellCommands() {
	// set name value [name value ...] [name] - assign pairs; a trailing
	// lone name reads that variable
	b.RegisterCommand("set", WithArity(AtLeast(1), func(ctx *Context) Result {
		args := ctx.Args
		var last Value
		for len(args) >= 2 {
			ctx.SetVar(AsString(args[0]), args[1])
			last = args[1]
			args = args[2:]
		}
		if len(args) == 1 {
			last, _ = ctx.Var(AsString(args[0]))
		}
		ctx.SetResult(last)
		return BoolStatus(true)
	}))

	// print - words joined by spaces, with a newline
	b.RegisterCommand("print", func(ctx *Context) Result {
		ctx.Write(joinArgs(ctx.Args) + "\n")
		return BoolStatus(true)
	})

	// write - words joined by spaces, no newline
	b.RegisterCommand("write", func(ctx *Context) Result {
		ctx.Write(joinArgs(ctx.Args))
		return BoolStatus(true)
	})

	b.RegisterCommand("read", WithArity(Exactly(1), func(ctx *Context) Result {
		data, err := b.readFile(ctx.Str(0))
		if err != nil {
			return ctx.FailErr(fileErrorKind(err), err)
		}
		ctx.SetResult(String(data))
		return BoolStatus(true)
	}))

	b.RegisterCommand("store", WithArity(Exactly(2), func(ctx *Context) Result {
		content := ctx.Str(1)
		if err := b.storeFile(ctx.Str(0), []byte(content)); err != nil {
			return ctx.FailErr(fileErrorKind(err), err)
		}
		ctx.SetResult(String(content))
		return BoolStatus(true)
	}))

	b.RegisterCommand("source", WithArity(Exactly(1), func(ctx *Context) Result {
		name := ctx.Str(0)
		if b.sourceDepth >= b.config.SourceDepth {
			return ctx.Fail(KindResourceUnavailable, "Cannot source %s: nested deeper than %d", name, b.config.SourceDepth)
		}
		b.sourceDepth++
		defer func() { b.sourceDepth-- }()

		data, err := b.readFile(name)
		if err != nil {
			return ctx.FailErr(fileErrorKind(err), err)
		}
		v, err := b.Exec(string(data), name)
		if err != nil {
			return ctx.FailErr(KindGeneric, err)
		}
		ctx.SetResult(v)
		return BoolStatus(true)
	}))

	// commands - list what is registered
	b.RegisterCommand("commands", WithArity(NoArgs(), func(ctx *Context) Result {
		names := b.Commands()
		list := make(List, len(names))
		for i, n := range names {
			list[i] = String(n)
		}
		ctx.SetResult(list)
		return BoolStatus(true)
	}))

	b.logger.DebugCat(CatSystem, "Shell commands registered (%d total)", len(b.Commands()))
}
