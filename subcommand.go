package lilduino

import (
	"fmt"
	"strings"
)

// Subcommand binds a tag to the handler that runs for "topcommand tag ...".
type Subcommand struct {
	Tag     string
	Handler Handler
}

// Sub builds a subcommand whose handler is guarded by contract.
func Sub(tag string, contract ArgumentContract, h Handler) Subcommand {
	return Subcommand{Tag: tag, Handler: WithArity(contract, h)}
}

// SubcommandTable routes a topcommand to one of its subcommands by the first
// argument. Lookup is a linear scan in table order, so cost grows with the
// number of subcommands; tables here hold fewer than ten.
type SubcommandTable struct {
	command string
	entries []Subcommand
}

// NewSubcommandTable builds the table for command. Tags must be unique;
// a duplicate is a programming error and panics.
func NewSubcommandTable(command string, subs ...Subcommand) *SubcommandTable {
	seen := make(map[string]bool, len(subs))
	for _, s := range subs {
		if seen[s.Tag] {
			panic(fmt.Sprintf("lilduino: duplicate subcommand %q for %s", s.Tag, command))
		}
		seen[s.Tag] = true
	}
	return &SubcommandTable{command: command, entries: subs}
}

// Command returns the topcommand name
func (t *SubcommandTable) Command() string {
	return t.command
}

// Tags lists the subcommand tags in table order
func (t *SubcommandTable) Tags() []string {
	tags := make([]string, len(t.entries))
	for i, s := range t.entries {
		tags[i] = s.Tag
	}
	return tags
}

// Lookup finds the handler for tag. Matching is exact and case-sensitive.
func (t *SubcommandTable) Lookup(tag string) (Handler, bool) {
	for _, s := range t.entries {
		if s.Tag == tag {
			return s.Handler, true
		}
	}
	return nil, false
}

// Dispatch runs the subcommand named by the first argument with the
// remaining arguments.
func (t *SubcommandTable) Dispatch(ctx *Context) Result {
	if len(ctx.Args) == 0 {
		return ctx.Fail(KindMissingSubcommand, "%s needs a subcommand (one of %s)", ctx.Name, strings.Join(t.Tags(), ", "))
	}
	tag := AsString(ctx.Args[0])
	h, ok := t.Lookup(tag)
	if !ok {
		return ctx.Fail(KindUnknownSubcommand, "unknown subcommand %q for %s", tag, ctx.Name)
	}
	return h(ctx.child(tag, ctx.Args[1:]))
}

// Handler returns the topcommand handler to register under Command().
func (t *SubcommandTable) Handler() Handler {
	return t.Dispatch
}
