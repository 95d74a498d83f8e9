package lilduino

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/phroun/lilduino/hal"
)

// SourcePosition tracks where a statement came from
type SourcePosition struct {
	Line     int
	Column   int
	Offset   int // byte offset into the script
	Filename string
}

func (p *SourcePosition) String() string {
	if p == nil {
		return "<unknown>"
	}
	filename := p.Filename
	if filename == "" {
		filename = "<input>"
	}
	return fmt.Sprintf("%s:%d:%d", filename, p.Line, p.Column)
}

// Value is an argument to or a result from a command handler.
// A nil Value means the command produced nothing.
type Value interface {
	String() string
	isValue()
}

// Integer is a 64-bit signed script integer
type Integer int64

// String is a script string
type String string

// Boolean is a script boolean
type Boolean bool

// List is an ordered sequence of values
type List []Value

func (Integer) isValue() {}
func (String) isValue()  {}
func (Boolean) isValue() {}
func (List) isValue()    {}

func (i Integer) String() string { return strconv.FormatInt(int64(i), 10) }
func (s String) String() string  { return string(s) }

func (b Boolean) String() string {
	if b {
		return "true"
	}
	return "false"
}

// String renders the list the way the shell reads it back: items joined by
// spaces, items that need grouping wrapped in braces.
func (l List) String() string {
	var sb strings.Builder
	for i, item := range l {
		if i > 0 {
			sb.WriteByte(' ')
		}
		s := ""
		if item != nil {
			s = item.String()
		}
		if s == "" || strings.ContainsAny(s, " \t\n;{}\"") {
			sb.WriteString("{" + s + "}")
		} else {
			sb.WriteString(s)
		}
	}
	return sb.String()
}

// AsInteger converts a value to an integer. Strings accept base prefixes
// (0x, 0o, 0b) and surrounding whitespace.
func AsInteger(v Value) (int64, bool) {
	switch x := v.(type) {
	case Integer:
		return int64(x), true
	case Boolean:
		if x {
			return 1, true
		}
		return 0, true
	case String:
		s := strings.TrimSpace(string(x))
		if n, err := strconv.ParseInt(s, 0, 64); err == nil {
			return n, true
		}
		// values above MaxInt64 (e.g. 64-bit IR codes) keep their bit pattern
		if u, err := strconv.ParseUint(s, 0, 64); err == nil {
			return int64(u), true
		}
		return 0, false
	}
	return 0, false
}

// AsBool converts a value to a truth value. Empty strings, "0" and "false"
// are false; other strings are true.
func AsBool(v Value) bool {
	switch x := v.(type) {
	case nil:
		return false
	case Boolean:
		return bool(x)
	case Integer:
		return x != 0
	case List:
		return len(x) > 0
	case String:
		s := strings.TrimSpace(string(x))
		if s == "" || strings.EqualFold(s, "false") {
			return false
		}
		if n, ok := AsInteger(x); ok {
			return n != 0
		}
		return true
	}
	return false
}

// AsString renders any value, including nil, as a string.
func AsString(v Value) string {
	if v == nil {
		return ""
	}
	return v.String()
}

// Strings converts Go strings to script string values.
func Strings(items ...string) []Value {
	out := make([]Value, len(items))
	for i, s := range items {
		out[i] = String(s)
	}
	return out
}

// Handler is a function that handles a command
type Handler func(*Context) Result

// Result represents the outcome of running a handler
type Result interface {
	isResult()
}

// BoolStatus represents a boolean success/failure status
type BoolStatus bool

func (BoolStatus) isResult() {}

// Context is passed to command handlers
type Context struct {
	// Name is the display name, "gpio digitalwrite" for a subcommand.
	Name     string
	Args     []Value
	Position *SourcePosition
	state    *ExecutionState
	bridge   *Bridge
}

// SetResult sets the value handed back to the interpreter
func (c *Context) SetResult(value Value) {
	c.state.SetResult(value)
}

// GetResult gets the current result value
func (c *Context) GetResult() Value {
	return c.state.GetResult()
}

// HasResult checks if a result value exists
func (c *Context) HasResult() bool {
	return c.state.HasResult()
}

// Fail records an error for this invocation and returns a failed status.
func (c *Context) Fail(kind ErrorKind, format string, args ...interface{}) Result {
	c.state.SetError(&CommandError{
		Kind:     kind,
		Command:  c.Name,
		Message:  fmt.Sprintf(format, args...),
		Position: c.Position,
	})
	return BoolStatus(false)
}

// FailErr records err under kind. A *CommandError passes through unchanged.
func (c *Context) FailErr(kind ErrorKind, err error) Result {
	c.state.SetError(wrapError(kind, c.Name, c.Position, err))
	return BoolStatus(false)
}

// FailCause records err under kind with its own message. errors.Is still
// finds err through the returned *CommandError.
func (c *Context) FailCause(kind ErrorKind, err error, format string, args ...interface{}) Result {
	c.state.SetError(&CommandError{
		Kind:     kind,
		Command:  c.Name,
		Message:  fmt.Sprintf(format, args...),
		Position: c.Position,
		Err:      err,
	})
	return BoolStatus(false)
}

// child builds the context for a subcommand. It shares the result slot.
func (c *Context) child(tag string, args []Value) *Context {
	return &Context{
		Name:     c.Name + " " + tag,
		Args:     args,
		Position: c.Position,
		state:    c.state,
		bridge:   c.bridge,
	}
}

// Int reads argument i as an integer, failing the command if it is not one.
func (c *Context) Int(i int) (int64, bool) {
	if i >= len(c.Args) {
		c.Fail(KindArity, "missing argument %d to %s", i+1, c.Name)
		return 0, false
	}
	n, ok := AsInteger(c.Args[i])
	if !ok {
		c.Fail(KindInvalidArgument, "expected an integer for argument %d to %s, got %q", i+1, c.Name, AsString(c.Args[i]))
		return 0, false
	}
	return n, true
}

// Pin reads argument i as a pin number.
func (c *Context) Pin(i int) (hal.Pin, bool) {
	n, ok := c.Int(i)
	if !ok {
		return 0, false
	}
	if n < 0 {
		c.Fail(KindInvalidArgument, "invalid pin %d for %s", n, c.Name)
		return 0, false
	}
	return hal.Pin(n), true
}

// Str reads argument i as a string; missing arguments read as "".
func (c *Context) Str(i int) string {
	if i >= len(c.Args) {
		return ""
	}
	return AsString(c.Args[i])
}

// Bool reads argument i as a truth value.
func (c *Context) Bool(i int) bool {
	if i >= len(c.Args) {
		return false
	}
	return AsBool(c.Args[i])
}

// Write sends text to the bound output.
func (c *Context) Write(text string) {
	c.bridge.write(text)
}

// Var reads an interpreter variable.
func (c *Context) Var(name string) (Value, bool) {
	return c.bridge.Var(name)
}

// SetVar sets an interpreter variable.
func (c *Context) SetVar(name string, value Value) {
	c.bridge.SetVar(name, value)
}

// PinVar reads a pin setting held in a variable. A missing or empty
// variable is unset; anything else must be a non-negative integer.
func (c *Context) PinVar(name string) (hal.OptionalPin, bool) {
	v, ok := c.bridge.Var(name)
	if !ok || strings.TrimSpace(AsString(v)) == "" {
		return hal.Unset, true
	}
	n, ok := AsInteger(v)
	if !ok || n < 0 {
		c.Fail(KindInvalidArgument, "%s is not a valid pin (it is %q)", name, AsString(v))
		return hal.Unset, false
	}
	return hal.SomePin(hal.Pin(n)), true
}

// Board returns the peripheral drivers.
func (c *Context) Board() *hal.Board {
	return c.bridge.board
}

// Config returns the bridge configuration.
func (c *Context) Config() *Config {
	return c.bridge.config
}

// Logger returns the bridge logger.
func (c *Context) Logger() *Logger {
	return c.bridge.logger
}

// Interrupted polls the interrupt callback.
func (c *Context) Interrupted() bool {
	return c.bridge.Interrupted()
}

// Yield lets background housekeeping run.
func (c *Context) Yield() {
	c.bridge.yield()
}
