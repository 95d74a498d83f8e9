package lilduino

import (
	"errors"
	"fmt"
	"strings"
)

// The shell is a minimal statement runner: it is enough to feed scripts to
// the bridge, not a language. Statements end at a newline or ';'. Words are
// separated by whitespace; "..." groups with backslash escapes and $var
// substitution, {...} groups literally and may nest. A '#' at the start of
// a statement comments out the rest of the line.

type wordKind int

const (
	wordBare wordKind = iota
	wordQuoted
	wordBraced
)

type word struct {
	text string
	kind wordKind
}

type statement struct {
	words    []word
	position SourcePosition
}

type scanner struct {
	src      string
	filename string
	offset   int
	line     int
	column   int
}

func (s *scanner) eof() bool {
	return s.offset >= len(s.src)
}

func (s *scanner) peek() byte {
	return s.src[s.offset]
}

func (s *scanner) next() byte {
	c := s.src[s.offset]
	s.offset++
	if c == '\n' {
		s.line++
		s.column = 1
	} else {
		s.column++
	}
	return c
}

func (s *scanner) position() SourcePosition {
	return SourcePosition{Line: s.line, Column: s.column, Offset: s.offset, Filename: s.filename}
}

func (s *scanner) syntaxError(pos SourcePosition, format string, args ...interface{}) error {
	return &CommandError{
		Kind:     KindSyntax,
		Message:  fmt.Sprintf(format, args...),
		Position: &pos,
	}
}

// parseScript splits a script into statements.
func parseScript(src, filename string) ([]statement, error) {
	s := &scanner{src: src, filename: filename, line: 1, column: 1}
	var stmts []statement

	for !s.eof() {
		// skip blank space and empty statements
		for !s.eof() && strings.IndexByte(" \t\r\n;", s.peek()) >= 0 {
			s.next()
		}
		if s.eof() {
			break
		}
		if s.peek() == '#' {
			for !s.eof() && s.peek() != '\n' {
				s.next()
			}
			continue
		}

		st := statement{position: s.position()}
		for !s.eof() {
			c := s.peek()
			if c == '\n' || c == ';' {
				s.next()
				break
			}
			if c == ' ' || c == '\t' || c == '\r' {
				s.next()
				continue
			}
			w, err := s.word()
			if err != nil {
				return nil, err
			}
			st.words = append(st.words, w)
		}
		if len(st.words) > 0 {
			stmts = append(stmts, st)
		}
	}
	return stmts, nil
}

func (s *scanner) word() (word, error) {
	start := s.position()
	switch s.peek() {
	case '"':
		s.next()
		var sb strings.Builder
		for {
			if s.eof() {
				return word{}, s.syntaxError(start, "unterminated string")
			}
			c := s.next()
			if c == '"' {
				return word{text: sb.String(), kind: wordQuoted}, nil
			}
			if c == '\\' && !s.eof() {
				e := s.next()
				switch e {
				case 'n':
					sb.WriteByte('\n')
				case 't':
					sb.WriteByte('\t')
				case 'r':
					sb.WriteByte('\r')
				case '0':
					sb.WriteByte(0)
				default:
					sb.WriteByte(e)
				}
				continue
			}
			sb.WriteByte(c)
		}
	case '{':
		s.next()
		depth := 1
		begin := s.offset
		for {
			if s.eof() {
				return word{}, s.syntaxError(start, "missing close brace")
			}
			c := s.next()
			switch c {
			case '{':
				depth++
			case '}':
				depth--
				if depth == 0 {
					return word{text: s.src[begin : s.offset-1], kind: wordBraced}, nil
				}
			}
		}
	}

	begin := s.offset
	for !s.eof() && strings.IndexByte(" \t\r\n;", s.peek()) < 0 {
		s.next()
	}
	return word{text: s.src[begin:s.offset], kind: wordBare}, nil
}

func isVarChar(c byte) bool {
	return c == '_' || c == '.' || c == ':' ||
		(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

// substitute replaces $name references with variable values. A missing
// variable expands to the empty string.
func (b *Bridge) substitute(text string) string {
	if strings.IndexByte(text, '$') < 0 {
		return text
	}
	var sb strings.Builder
	for i := 0; i < len(text); i++ {
		if text[i] != '$' {
			sb.WriteByte(text[i])
			continue
		}
		j := i + 1
		for j < len(text) && isVarChar(text[j]) {
			j++
		}
		if j == i+1 {
			sb.WriteByte('$')
			continue
		}
		if v, ok := b.Var(text[i+1 : j]); ok {
			sb.WriteString(AsString(v))
		}
		i = j - 1
	}
	return sb.String()
}

func (b *Bridge) expand(words []word) []Value {
	out := make([]Value, len(words))
	for i, w := range words {
		if w.kind == wordBraced {
			out[i] = String(w.text)
			continue
		}
		out[i] = String(b.substitute(w.text))
	}
	return out
}

// Exec runs a script and returns the value of its last statement. A failed
// statement is reported through the UnhandledError callback; execution
// stops there unless ContinueOnError is set, in which case the first error
// is returned after the script finishes.
func (b *Bridge) Exec(script, filename string) (Value, error) {
	stmts, err := parseScript(script, filename)
	if err != nil {
		b.reportUnhandled(err)
		return nil, err
	}
	b.logger.DebugCat(CatShell, "Executing %d statements from %s", len(stmts), displayName(filename))

	var last Value
	var firstErr error
	for i := range stmts {
		st := &stmts[i]
		if b.Interrupted() {
			err := &CommandError{
				Kind:     KindInterrupted,
				Message:  "Keyboard interrupt",
				Position: &st.position,
			}
			b.reportUnhandled(err)
			return nil, err
		}

		args := b.expand(st.words)
		v, err := b.Dispatch(AsString(args[0]), args[1:], &st.position)
		if err != nil {
			b.reportUnhandled(err)
			if !b.config.ContinueOnError {
				return nil, err
			}
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		last = v
	}
	return last, firstErr
}

// reportUnhandled hands an error to the UnhandledError callback once. An
// error that already passed through a nested Exec is not reported again.
func (b *Bridge) reportUnhandled(err error) {
	var ce *CommandError
	if !errors.As(err, &ce) {
		ce = &CommandError{Kind: KindGeneric, Message: err.Error(), Err: err}
	}
	if ce.reported {
		return
	}
	ce.reported = true

	b.logger.CommandFailure(CatShell, ce.Command, fmt.Sprintf("%s: %s", ce.Kind, ce.Message), ce.Position)
	if b.callbacks.UnhandledError != nil {
		b.callbacks.UnhandledError(ce.Position, ce.Message)
		return
	}
	offset := 0
	if ce.Position != nil {
		offset = ce.Position.Offset
	}
	b.write(fmt.Sprintf("\nUnhandled error at pos %d: %s\n", offset, ce.Message))
}

func displayName(filename string) string {
	if filename == "" {
		return "<input>"
	}
	return filename
}
