package lilduino

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Variadic as a maximum means there is no upper bound.
const Variadic = -1

// ArgumentContract is the set of argument counts a command accepts.
// Most contracts are an inclusive range; OneOf builds an explicit set for
// rules a range cannot express.
type ArgumentContract struct {
	Min, Max int
	allowed  []int
}

// Exactly accepts n arguments and nothing else.
func Exactly(n int) ArgumentContract {
	return Between(n, n)
}

// NoArgs accepts zero arguments.
func NoArgs() ArgumentContract {
	return Exactly(0)
}

// Between accepts min through max arguments inclusive.
func Between(min, max int) ArgumentContract {
	if min < 0 || (max != Variadic && max < min) {
		panic(fmt.Sprintf("lilduino: invalid argument contract %d..%d", min, max))
	}
	return ArgumentContract{Min: min, Max: max}
}

// AtLeast accepts min or more arguments.
func AtLeast(min int) ArgumentContract {
	return Between(min, Variadic)
}

// OneOf accepts exactly the listed counts.
func OneOf(counts ...int) ArgumentContract {
	if len(counts) == 0 {
		panic("lilduino: OneOf needs at least one count")
	}
	allowed := append([]int(nil), counts...)
	sort.Ints(allowed)
	if allowed[0] < 0 {
		panic(fmt.Sprintf("lilduino: invalid argument count %d", allowed[0]))
	}
	return ArgumentContract{Min: allowed[0], Max: allowed[len(allowed)-1], allowed: allowed}
}

// Accepts reports whether n arguments satisfy the contract.
func (c ArgumentContract) Accepts(n int) bool {
	if c.allowed != nil {
		for _, a := range c.allowed {
			if a == n {
				return true
			}
		}
		return false
	}
	return n >= c.Min && (c.Max == Variadic || n <= c.Max)
}

func (c ArgumentContract) String() string {
	switch {
	case c.allowed != nil:
		parts := make([]string, len(c.allowed))
		for i, a := range c.allowed {
			parts[i] = strconv.Itoa(a)
		}
		if len(parts) == 1 {
			return parts[0]
		}
		return strings.Join(parts[:len(parts)-1], ", ") + " or " + parts[len(parts)-1]
	case c.Max == Variadic:
		return fmt.Sprintf("at least %d", c.Min)
	case c.Min == c.Max:
		return strconv.Itoa(c.Min)
	}
	return fmt.Sprintf("%d-%d", c.Min, c.Max)
}

// Check validates argc against the contract, returning an arity error that
// names command when it does not hold.
func (c ArgumentContract) Check(command string, argc int) error {
	if c.Accepts(argc) {
		return nil
	}
	expected := c
	return &CommandError{
		Kind:     KindArity,
		Command:  command,
		Message:  fmt.Sprintf("expected %s args to %s, got %d", c, command, argc),
		Expected: &expected,
		Got:      argc,
	}
}

// WithArity guards h with a contract. h never runs when the count is wrong,
// so no peripheral is touched by a malformed call.
func WithArity(contract ArgumentContract, h Handler) Handler {
	return func(ctx *Context) Result {
		if err := contract.Check(ctx.Name, len(ctx.Args)); err != nil {
			ce := err.(*CommandError)
			ce.Position = ctx.Position
			ctx.state.SetError(ce)
			ctx.Logger().DebugCat(CatArgument, "%s", ce.Message)
			return BoolStatus(false)
		}
		return h(ctx)
	}
}
