// Package lilduino is a command bridge that lets a small scripting
// interpreter drive microcontroller peripherals. Commands are registered by
// name; two-level commands such as "gpio digitalwrite" route through a
// SubcommandTable, and every handler checks its ArgumentContract before it
// touches a peripheral.
//
// Basic usage:
//
//	b, err := lilduino.New(nil, board, lilduino.Callbacks{Write: print})
//	if err != nil {
//		return err
//	}
//	b.RegisterBoardLibrary()
//	b.Exec("gpio pinmode 5 output; gpio digitalwrite 5 HIGH", "")
package lilduino

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/phroun/lilduino/hal"
)

// Bridge is one interpreter instance bound to one board.
type Bridge struct {
	config    *Config
	logger    *Logger
	registry  *Registry
	board     *hal.Board
	callbacks Callbacks

	mu   sync.RWMutex
	vars map[string]Value

	irReceivers *PinTable[hal.IRReceiver]

	// sourceDepth counts the "source" calls in progress.
	sourceDepth int
}

// New creates a bridge. A nil config uses DefaultConfig and a nil board has
// no peripherals. The shell commands (set, print, write, read, store,
// source) are always registered; board commands are added by
// RegisterBoardLibrary.
func New(config *Config, board *hal.Board, callbacks Callbacks) (*Bridge, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.validate(); err != nil {
		return nil, err
	}
	if err := callbacks.validate(); err != nil {
		return nil, err
	}
	if board == nil {
		board = &hal.Board{}
	}

	logger := NewLogger(config.Debug)
	if unknown := logger.EnableCategoryNames(config.LogCategories); len(unknown) > 0 {
		logger.WarnCat(CatSystem, "Unknown log categories: %v", unknown)
	}

	b := &Bridge{
		config:      config,
		logger:      logger,
		registry:    NewRegistry(logger),
		board:       board,
		callbacks:   callbacks,
		vars:        make(map[string]Value),
		irReceivers: NewPinTable[hal.IRReceiver](config.PinTableSize),
	}
	for name, value := range config.Vars {
		b.vars[name] = String(value)
	}

	b.registerShellCommands()
	return b, nil
}

// RegisterCommand registers a command handler
func (b *Bridge) RegisterCommand(name string, handler Handler) {
	b.registry.Register(name, handler)
}

// RegisterCommands registers multiple command handlers
func (b *Bridge) RegisterCommands(commands map[string]Handler) {
	for name, handler := range commands {
		b.registry.Register(name, handler)
	}
}

// RegisterSubcommands registers a topcommand routed through table.
func (b *Bridge) RegisterSubcommands(table *SubcommandTable) {
	b.registry.Register(table.Command(), table.Handler())
}

// Commands lists the registered command names
func (b *Bridge) Commands() []string {
	return b.registry.Names()
}

// RegisterBoardLibrary registers the command families for every peripheral
// the board provides. Families whose driver is nil are skipped.
func (b *Bridge) RegisterBoardLibrary() {
	if b.board.Clock != nil {
		b.RegisterBasicLib()
		b.RegisterClockLib()
	}
	if b.board.LED != nil {
		b.RegisterStatusLib()
	}
	if b.board.GPIO != nil {
		b.RegisterGPIOLib()
	}
	if b.board.Serial != nil || b.board.Storage != nil {
		b.RegisterIOLib()
	}
	if b.board.IR != nil {
		b.RegisterIRLib()
	}
	if b.board.Radio != nil {
		b.RegisterWifiLib()
	}
	if b.board.Battery != nil {
		b.RegisterBatteryLib()
	}
	b.RegisterRegexpLib()
}

// Dispatch runs one command. The returned Value is nil when the command
// produced nothing. A failed command returns a *CommandError.
func (b *Bridge) Dispatch(name string, args []Value, position *SourcePosition) (Value, error) {
	handler, ok := b.registry.Lookup(name)
	if !ok {
		return nil, &CommandError{
			Kind:     KindUnknownCommand,
			Command:  name,
			Message:  fmt.Sprintf("unknown command %s", name),
			Position: position,
		}
	}

	state := NewExecutionState()
	ctx := &Context{
		Name:     name,
		Args:     args,
		Position: position,
		state:    state,
		bridge:   b,
	}
	b.logger.TraceCat(CatCommand, "Dispatch %s %v", name, args)

	result := handler(ctx)
	if err := state.Err(); err != nil {
		return nil, err
	}
	if status, ok := result.(BoolStatus); ok && !bool(status) {
		return nil, &CommandError{
			Kind:     KindGeneric,
			Command:  name,
			Message:  fmt.Sprintf("%s failed", name),
			Position: position,
		}
	}
	return state.GetResult(), nil
}

// Var reads an interpreter variable
func (b *Bridge) Var(name string) (Value, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	v, ok := b.vars[name]
	return v, ok
}

// SetVar sets an interpreter variable
func (b *Bridge) SetVar(name string, value Value) {
	b.mu.Lock()
	b.vars[name] = value
	b.mu.Unlock()
}

// Interrupted polls the CheckInterrupt callback.
func (b *Bridge) Interrupted() bool {
	if b.callbacks.CheckInterrupt == nil {
		return false
	}
	return b.callbacks.CheckInterrupt()
}

// ReadLine reads one line of console input through a LineReader sized by
// the configuration.
func (b *Bridge) ReadLine() (string, error) {
	if b.board.Serial == nil {
		return "", fmt.Errorf("no serial port: %w", hal.ErrNotSupported)
	}
	reader := &LineReader{
		Source:      b.board.Serial,
		Yield:       b.yield,
		Interrupted: b.Interrupted,
		Chunk:       b.config.InputChunk,
		Limit:       b.config.InputLimit,
		OnGrow: func(from, to int) {
			b.logger.TraceCat(CatIO, "Input buffer grew from %d to %d bytes", from, to)
		},
	}
	return reader.ReadLine()
}

// Logger returns the bridge logger
func (b *Bridge) Logger() *Logger {
	return b.logger
}

// Config returns the bridge configuration
func (b *Bridge) Config() *Config {
	return b.config
}

// Board returns the peripheral drivers
func (b *Bridge) Board() *hal.Board {
	return b.board
}

func (b *Bridge) write(text string) {
	b.callbacks.Write(text)
}

func (b *Bridge) yield() {
	if b.board.Clock != nil {
		b.board.Clock.Yield()
		return
	}
	runtime.Gosched()
}
