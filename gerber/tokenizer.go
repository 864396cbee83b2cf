package gerber

import (
	"fmt"
	"strconv"
	"strings"
)

// CommandHandler receives one completed command record and the line number
// on which it was completed. For a command that spans several lines this is
// its last line, not its first.
type CommandHandler func(line int, command string) error

// Tokenizer splits a Gerber byte stream into discrete command records,
// honoring the two block terminators ('*' for a normal command, '%...%'
// for an advanced block which may itself chain several '*'-terminated
// sub-commands) and \uXXXX unicode escapes. It performs no grammar
// validation, only framing (spec.md §4.1).
type Tokenizer struct {
	handler CommandHandler

	buf        strings.Builder
	line       int
	inAdvanced bool
	advanced   []string // sub-commands accumulated inside the current %...% block.

	pendingEscape string // a partial \uXXXX escape held over a chunk boundary.
}

// NewTokenizer returns a Tokenizer that calls handler for each completed
// command.
func NewTokenizer(handler CommandHandler) *Tokenizer {
	return &Tokenizer{handler: handler, line: 1}
}

// Feed consumes one chunk of input, which may end mid-command or
// mid-escape; state carries over to the next call.
func (t *Tokenizer) Feed(data []byte) error {
	i := 0
	for i < len(data) {
		b := data[i]
		switch {
		case b == '\n':
			t.line++
			i++
		case b == '\r' || b == '\t':
			i++
		case b == '\\' && hasUEscapePrefix(data[i:]) || t.pendingEscape != "":
			consumed, err := t.consumeEscape(data[i:])
			if err != nil {
				return err
			}
			if consumed == 0 {
				// Incomplete escape at the end of this chunk; held over.
				return nil
			}
			i += consumed
		case b == '*':
			if err := t.closeCommand(); err != nil {
				return err
			}
			i++
		case b == '%':
			if err := t.toggleAdvanced(); err != nil {
				return err
			}
			i++
		default:
			t.buf.WriteByte(b)
			i++
		}
	}
	return nil
}

func hasUEscapePrefix(data []byte) bool {
	return len(data) >= 1 && data[0] == '\\' && (len(data) == 1 || data[1] == 'u')
}

// consumeEscape handles a "\uXXXX" escape, possibly split across Feed
// calls. Returns the number of bytes of data consumed (0 if the escape is
// still incomplete and must wait for more input).
func (t *Tokenizer) consumeEscape(data []byte) (int, error) {
	s := t.pendingEscape + string(data)
	if len(s) < 6 {
		t.pendingEscape = s
		return 0, nil
	}
	if s[:2] != `\u` {
		return 0, &ParseError{Line: t.line, Err: fmt.Errorf("malformed escape %q", s[:6])}
	}
	n, err := strconv.ParseUint(s[2:6], 16, 32)
	if err != nil {
		return 0, &ParseError{Line: t.line, Err: fmt.Errorf("malformed \\u escape %q: %w", s[:6], err)}
	}
	t.buf.WriteRune(rune(n))
	consumed := len(data) - (len(s) - 6)
	t.pendingEscape = ""
	return consumed, nil
}

// closeCommand handles a '*' terminator: within an advanced block this
// only marks a sub-command boundary (handled by toggleAdvanced on the
// matching '%'); outside, it closes and emits a normal command.
func (t *Tokenizer) closeCommand() error {
	if t.inAdvanced {
		t.advanced = append(t.advanced, t.buf.String())
		t.buf.Reset()
		return nil
	}
	cmd := t.buf.String()
	t.buf.Reset()
	if strings.TrimSpace(cmd) == "" {
		return nil
	}
	return t.emitSplitCompound(cmd)
}

// toggleAdvanced opens or closes an advanced ("%...%") block.
func (t *Tokenizer) toggleAdvanced() error {
	if !t.inAdvanced {
		t.inAdvanced = true
		t.advanced = nil
		return nil
	}

	// Closing: any trailing (non '*'-terminated) content is itself a
	// final sub-command.
	if t.buf.Len() > 0 {
		t.advanced = append(t.advanced, t.buf.String())
		t.buf.Reset()
	}
	t.inAdvanced = false

	if len(t.advanced) == 0 {
		return nil
	}

	// Macro definitions (AM...) are emitted as a single command even
	// though they are internally '*'-separated (legacy compatibility,
	// spec.md §4.1).
	if strings.HasPrefix(strings.TrimSpace(t.advanced[0]), "AM") {
		joined := strings.Join(t.advanced, "*")
		t.advanced = nil
		return t.emit(joined)
	}

	subs := t.advanced
	t.advanced = nil
	for _, sub := range subs {
		if strings.TrimSpace(sub) == "" {
			continue
		}
		if err := t.emit(sub); err != nil {
			return err
		}
	}
	return nil
}

// emitSplitCompound handles a compound G-code followed by a D-code on the
// same line (e.g. "G01X...D01"), splitting it into two emissions, except
// G04 comments (whose text may itself contain 'D'). It also canonicalizes
// axis order to X,Y,I,J within a D-code subcommand.
func (t *Tokenizer) emitSplitCompound(cmd string) error {
	trimmed := strings.TrimSpace(cmd)
	if strings.HasPrefix(trimmed, "G04") {
		return t.emit(cmd)
	}

	if len(trimmed) >= 3 && trimmed[0] == 'G' && isDigit(trimmed[1]) && isDigit(trimmed[2]) {
		gcode := trimmed[:3]
		rest := trimmed[3:]
		if rest == "" {
			return t.emit(gcode)
		}
		if err := t.emit(gcode); err != nil {
			return err
		}
		return t.emit(canonicalizeAxisOrder(rest))
	}

	return t.emit(canonicalizeAxisOrder(trimmed))
}

// canonicalizeAxisOrder reorders a D-code subcommand's X/Y/I/J tokens
// into canonical X,Y,I,J order (they may appear in any order in the
// source, e.g. "Y...X...D01").
func canonicalizeAxisOrder(cmd string) string {
	fields := splitAxisFields(cmd)
	if fields == nil {
		return cmd
	}
	var out strings.Builder
	for _, axis := range []byte{'X', 'Y', 'I', 'J'} {
		if v, ok := fields[axis]; ok {
			out.WriteByte(axis)
			out.WriteString(v)
		}
	}
	out.WriteString(fields['D'])
	return out.String()
}

// splitAxisFields extracts X/Y/I/J/D fields from a D-code subcommand, or
// returns nil if cmd doesn't look like one (no trailing D-code).
func splitAxisFields(cmd string) map[byte]string {
	dIdx := strings.LastIndexByte(cmd, 'D')
	if dIdx < 0 {
		return nil
	}
	fields := map[byte]string{'D': cmd[dIdx:]}
	rest := cmd[:dIdx]
	var axis byte
	var val strings.Builder
	flush := func() {
		if axis != 0 {
			fields[axis] = val.String()
			val.Reset()
		}
	}
	for i := 0; i < len(rest); i++ {
		c := rest[i]
		switch c {
		case 'X', 'Y', 'I', 'J':
			flush()
			axis = c
		default:
			val.WriteByte(c)
		}
	}
	flush()
	return fields
}

func (t *Tokenizer) emit(cmd string) error {
	if strings.TrimSpace(cmd) == "" {
		return nil
	}
	return t.handler(t.line, cmd)
}
