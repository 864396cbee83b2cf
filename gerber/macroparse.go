package gerber

import (
	"fmt"
	"strconv"
	"strings"
)

// parseMacro parses an "AM<name>*<element>*<element>*..." command body
// (as re-joined by the tokenizer, spec.md §4.1) into a *Macro.
func parseMacro(body string) (*Macro, error) {
	parts := strings.Split(body, "*")
	header := strings.TrimSpace(parts[0])
	if !strings.HasPrefix(header, "AM") {
		return nil, &ParseError{Err: fmt.Errorf("not a macro definition: %q", header)}
	}
	name := strings.TrimSpace(header[2:])
	if name == "" {
		return nil, &ParseError{Err: fmt.Errorf("macro definition missing a name")}
	}

	m := &Macro{Name: name}
	for _, raw := range parts[1:] {
		el := strings.TrimSpace(raw)
		if el == "" {
			continue
		}
		element, err := parseMacroElement(el)
		if err != nil {
			return nil, err
		}
		m.Elements = append(m.Elements, element)
	}
	return m, nil
}

func parseMacroElement(s string) (MacroElement, error) {
	if strings.HasPrefix(s, "$") {
		return parseMacroVarDef(s)
	}

	fields := strings.Split(s, ",")
	code, err := strconv.Atoi(strings.TrimSpace(fields[0]))
	if err != nil {
		return MacroElement{}, &ParseError{Err: fmt.Errorf("invalid macro primitive code %q: %w", fields[0], err)}
	}
	if code == 0 {
		return MacroElement{IsComment: true}, nil
	}

	mods := make([]Expr, 0, len(fields)-1)
	for _, f := range fields[1:] {
		e, err := ParseExpr(strings.TrimSpace(f))
		if err != nil {
			return MacroElement{}, &ParseError{Err: fmt.Errorf("invalid macro modifier %q: %w", f, err)}
		}
		mods = append(mods, e)
	}
	return MacroElement{Primitive: &MacroPrimitiveDef{Code: code, Modifiers: mods}}, nil
}

func parseMacroVarDef(s string) (MacroElement, error) {
	eq := strings.IndexByte(s, '=')
	if eq < 0 {
		return MacroElement{}, &ParseError{Err: fmt.Errorf("invalid variable definition %q: missing '='", s)}
	}
	idStr := strings.TrimSpace(s[1:eq])
	id, err := strconv.Atoi(idStr)
	if err != nil {
		return MacroElement{}, &ParseError{Err: fmt.Errorf("invalid variable id %q: %w", idStr, err)}
	}
	e, err := ParseExpr(strings.TrimSpace(s[eq+1:]))
	if err != nil {
		return MacroElement{}, &ParseError{Err: fmt.Errorf("invalid variable expression %q: %w", s[eq+1:], err)}
	}
	return MacroElement{Var: &MacroVarDef{ID: id, Expr: e}}, nil
}
