package lilduino

import (
	"regexp"
	"strings"
)

// RegisterRegexpLib registers regmatch and regsub, with the aliases
// re::match and re::replace. Patterns are RE2.
// Module: regexp
func (b *Bridge) RegisterRegexpLib() {
	// regmatch <re> <str> [var ...] - returns the whole match, or nothing;
	// each var receives one capture group in order
	match := WithArity(AtLeast(2), func(ctx *Context) Result {
		re, err := regexp.Compile(ctx.Str(0))
		if err != nil {
			return ctx.Fail(KindInvalidArgument, "Regular expression error: %v", err)
		}
		vars := ctx.Args[2:]
		if len(vars) > re.NumSubexp() {
			return ctx.Fail(KindInvalidArgument, "%d variables given to %s but the expression has %d capture groups",
				len(vars), ctx.Name, re.NumSubexp())
		}

		m := re.FindStringSubmatch(ctx.Str(1))
		if m == nil {
			ctx.SetResult(nil)
			return BoolStatus(true)
		}
		for i, v := range vars {
			ctx.SetVar(AsString(v), String(m[i+1]))
		}
		ctx.SetResult(String(m[0]))
		return BoolStatus(true)
	})
	b.RegisterCommand("regmatch", match)
	b.RegisterCommand("re::match", match)

	// regsub <re> <str> <repl> [maxrepl] - repl is literal; maxrepl > 0 caps
	// the number of replacements
	replace := WithArity(Between(3, 4), func(ctx *Context) Result {
		re, err := regexp.Compile(ctx.Str(0))
		if err != nil {
			return ctx.Fail(KindInvalidArgument, "Regular expression error: %v", err)
		}
		maxrepl := int64(0)
		if len(ctx.Args) == 4 {
			n, ok := ctx.Int(3)
			if !ok {
				return BoolStatus(false)
			}
			maxrepl = n
		}

		src, repl := ctx.Str(1), ctx.Str(2)
		if maxrepl <= 0 {
			ctx.SetResult(String(re.ReplaceAllLiteralString(src, repl)))
			return BoolStatus(true)
		}

		var sb strings.Builder
		last := 0
		for _, loc := range re.FindAllStringIndex(src, int(maxrepl)) {
			sb.WriteString(src[last:loc[0]])
			sb.WriteString(repl)
			last = loc[1]
		}
		sb.WriteString(src[last:])
		ctx.SetResult(String(sb.String()))
		return BoolStatus(true)
	})
	b.RegisterCommand("regsub", replace)
	b.RegisterCommand("re::replace", replace)
}
