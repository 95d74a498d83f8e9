package lilduino

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a command failure
type ErrorKind int

const (
	KindGeneric ErrorKind = iota
	KindArity
	KindUnknownCommand
	KindMissingSubcommand
	KindUnknownSubcommand
	KindInvalidArgument
	KindResourceUnavailable
	KindOutOfMemory
	KindInterrupted
	KindIOFailure
	KindSyntax
)

var kindNames = map[ErrorKind]string{
	KindGeneric:             "Error",
	KindArity:               "ArityError",
	KindUnknownCommand:      "UnknownCommand",
	KindMissingSubcommand:   "MissingSubcommand",
	KindUnknownSubcommand:   "UnknownSubcommand",
	KindInvalidArgument:     "InvalidArgumentValue",
	KindResourceUnavailable: "ResourceUnavailable",
	KindOutOfMemory:         "OutOfMemory",
	KindInterrupted:         "Interrupted",
	KindIOFailure:           "IOFailure",
	KindSyntax:              "SyntaxError",
}

func (k ErrorKind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// CommandError is a failed command invocation
type CommandError struct {
	Kind     ErrorKind
	Command  string
	Message  string
	Position *SourcePosition

	// Expected and Got are filled in for KindArity.
	Expected *ArgumentContract
	Got      int

	// Err is the lower-level cause, if any.
	Err error

	reported bool
}

func (e *CommandError) Error() string {
	return e.Message
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// wrapError turns err into a *CommandError attributed to command.
func wrapError(kind ErrorKind, command string, pos *SourcePosition, err error) *CommandError {
	var ce *CommandError
	if errors.As(err, &ce) {
		return ce
	}
	return &CommandError{
		Kind:     kind,
		Command:  command,
		Message:  fmt.Sprintf("%s: %v", command, err),
		Position: pos,
		Err:      err,
	}
}

// KindOf returns the kind of the first *CommandError in err's chain, or
// KindGeneric when there is none.
func KindOf(err error) ErrorKind {
	var ce *CommandError
	if errors.As(err, &ce) {
		return ce.Kind
	}
	return KindGeneric
}

// IsKind reports whether err carries the given kind
func IsKind(err error, kind ErrorKind) bool {
	var ce *CommandError
	return errors.As(err, &ce) && ce.Kind == kind
}
