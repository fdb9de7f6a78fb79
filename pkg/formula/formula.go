// Package formula implements the arithmetic mini-language behind calculator
// blocks: author-supplied expressions over named numeric inputs, with an
// optional multi-output form ({key: expr, ...}).
//
// The multi-output split runs before anything evaluable is built, so the
// braces and colons of that syntax never reach the expression compiler. The
// compiler itself only ever sees text that passed a character allow-list,
// which together closes off object-literal and call injection.
package formula

import (
	"fmt"
	"regexp"
	"strings"
)

// Output is one (key, expression) pair of a multi-output formula. Order is
// the author's declared order.
type Output struct {
	Key  string
	Expr string
}

// CompileError reports a formula rejected by the strict compiler.
type CompileError struct {
	Expr string
	Msg  string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("formula %q: %s", e.Expr, e.Msg)
}

var identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ParseOutputs detects the multi-output form: an optional wrapping (...)
// around a {...} body, split on top-level commas, each segment split on its
// first top-level colon. Returns (nil, false) when the source is a plain
// single expression.
func ParseOutputs(src string) ([]Output, bool) {
	s := strings.TrimSpace(src)

	// Strip one optional wrapping parenthesis pair.
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		inner := strings.TrimSpace(s[1 : len(s)-1])
		if strings.HasPrefix(inner, "{") {
			s = inner
		}
	}
	if !strings.HasPrefix(s, "{") || !strings.HasSuffix(s, "}") {
		return nil, false
	}
	body := s[1 : len(s)-1]

	var outs []Output
	for _, segment := range splitTopLevel(body, ',') {
		key, rest, found := cutTopLevel(segment, ':')
		if !found {
			continue
		}
		key = strings.TrimSpace(key)
		rest = strings.TrimSpace(rest)
		if !identPattern.MatchString(key) || rest == "" {
			continue
		}
		outs = append(outs, Output{Key: key, Expr: rest})
	}
	return outs, true
}

// splitTopLevel splits on sep outside of any parenthesis nesting, so grouped
// sub-expressions survive the multi-output split intact.
func splitTopLevel(s string, sep byte) []string {
	var parts []string
	depth := 0
	start := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			if depth > 0 {
				depth--
			}
		case sep:
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	parts = append(parts, s[start:])
	return parts
}

// cutTopLevel splits on the FIRST top-level occurrence of sep.
func cutTopLevel(s string, sep byte) (string, string, bool) {
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			if depth > 0 {
				depth--
			}
		case sep:
			if depth == 0 {
				return s[:i], s[i+1:], true
			}
		}
	}
	return s, "", false
}

// Sanitize keeps only the characters of the expression allow-list
// [A-Za-z0-9_ \t\n\r+-*/%().,] and drops everything else. Braces, brackets,
// colons, semicolons and quotes never survive.
func Sanitize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if allowedChar(s[i]) {
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

func allowedChar(c byte) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		return true
	}
	switch c {
	case '_', ' ', '\t', '\n', '\r', '+', '-', '*', '/', '%', '(', ')', '.', ',':
		return true
	}
	return false
}

// Compile is the strict, authoring-time entry point: source containing any
// character outside the allow-list is rejected with a descriptive error
// rather than silently stripped.
func Compile(src string) (*Program, error) {
	for i := 0; i < len(src); i++ {
		if !allowedChar(src[i]) {
			return nil, &CompileError{
				Expr: src,
				Msg:  fmt.Sprintf("disallowed character %q at offset %d", src[i], i),
			}
		}
	}
	return compile(src)
}

// CompileLenient is the render-time entry point: disallowed characters are
// stripped first so live pages degrade instead of erroring. If sanitization
// empties the expression, it returns (nil, nil): no program, no error, no
// displayed output.
func CompileLenient(src string) (*Program, error) {
	clean := Sanitize(src)
	if strings.TrimSpace(clean) == "" {
		return nil, nil
	}
	return compile(clean)
}
