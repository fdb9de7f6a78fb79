// Package expr implements the condition mini-language embedded in block
// content: identifiers, string/number/bool literals, the six comparators,
// logical && and || folded in textual order, and membership via .includes.
//
// The grammar has no assignment, no calls beyond includes and no looping
// construct, which bounds evaluation time by the length of the source. Any
// parse or runtime failure makes the condition evaluate to false; nothing
// escapes the Evaluate boundary.
package expr

import (
	"fmt"
	"strings"
)

// Vars resolves reference tokens. A missing key resolves to the empty string,
// so conditions over unanswered fields are simply false rather than errors.
type Vars map[string]any

func (v Vars) resolve(key string) any {
	if v == nil {
		return ""
	}
	val, ok := v[key]
	if !ok || val == nil {
		return ""
	}
	return val
}

// Evaluate runs a condition against bindings. It is deterministic,
// side-effect free, and fail-closed: malformed or error-producing input
// evaluates to false.
func Evaluate(src string, vars Vars) (result bool) {
	defer func() {
		if r := recover(); r != nil {
			result = false
		}
	}()
	v, err := eval(src, vars)
	if err != nil {
		return false
	}
	return v
}

// Check parses a condition without bindings and reports author errors. It is
// the strict counterpart to Evaluate, used by validation tooling.
func Check(src string) error {
	if strings.TrimSpace(src) == "" {
		return &ParseError{Pos: 0, Msg: "empty condition"}
	}
	_, err := eval(src, nil)
	return err
}

func eval(src string, vars Vars) (bool, error) {
	toks, err := Tokenize(src)
	if err != nil {
		return false, err
	}
	if len(toks) == 0 {
		return false, &ParseError{Pos: 0, Msg: "empty condition"}
	}
	p := &parser{toks: toks, vars: vars}
	v, err := p.expr()
	if err != nil {
		return false, err
	}
	if p.pos != len(p.toks) {
		return false, &ParseError{Pos: p.toks[p.pos].Pos, Msg: "unexpected trailing token " + p.toks[p.pos].String()}
	}
	return v, nil
}

type parser struct {
	toks []Token
	pos  int
	vars Vars
}

func (p *parser) peek() (Token, bool) {
	if p.pos >= len(p.toks) {
		return Token{}, false
	}
	return p.toks[p.pos], true
}

func (p *parser) take() Token {
	t := p.toks[p.pos]
	p.pos++
	return t
}

// expr folds comparison results left-to-right against && and || in textual
// order. There is no cross-operator precedence: "a || b && c" means
// "(a || b) && c". Deliberate, matching how authors read the string.
func (p *parser) expr() (bool, error) {
	acc, err := p.comparison()
	if err != nil {
		return false, err
	}
	for {
		tok, ok := p.peek()
		if !ok || (tok.Kind != KindAnd && tok.Kind != KindOr) {
			return acc, nil
		}
		p.take()
		right, err := p.comparison()
		if err != nil {
			return false, err
		}
		if tok.Kind == KindAnd {
			acc = acc && right
		} else {
			acc = acc || right
		}
	}
}

// comparison resolves a left operand and, if a comparator or includes
// follows, consumes the operator and right operand. A lone operand yields
// its truthiness, which is what makes bare-field conditions work.
func (p *parser) comparison() (bool, error) {
	tok, ok := p.peek()
	if !ok {
		return false, &ParseError{Pos: p.endPos(), Msg: "expected operand"}
	}
	if tok.Kind == KindLParen {
		p.take()
		v, err := p.expr()
		if err != nil {
			return false, err
		}
		if err := p.expect(KindRParen); err != nil {
			return false, err
		}
		return v, nil
	}

	left, err := p.operand()
	if err != nil {
		return false, err
	}

	tok, ok = p.peek()
	if !ok {
		return Truthy(left), nil
	}
	switch tok.Kind {
	case KindComparator:
		op := p.take()
		right, err := p.operand()
		if err != nil {
			return false, err
		}
		return compare(left, op.Text, right), nil
	case KindIncludes:
		p.take()
		// Call-style right operand: includes('x') or a bare literal.
		parens := false
		if next, ok := p.peek(); ok && next.Kind == KindLParen {
			p.take()
			parens = true
		}
		right, err := p.operand()
		if err != nil {
			return false, err
		}
		if parens {
			if err := p.expect(KindRParen); err != nil {
				return false, err
			}
		}
		return includes(left, right), nil
	}
	return Truthy(left), nil
}

func (p *parser) operand() (any, error) {
	tok, ok := p.peek()
	if !ok {
		return nil, &ParseError{Pos: p.endPos(), Msg: "expected operand"}
	}
	switch tok.Kind {
	case KindRef:
		p.take()
		return p.vars.resolve(tok.Text), nil
	case KindNumber:
		p.take()
		return tok.Num, nil
	case KindString:
		p.take()
		return tok.Text, nil
	case KindBool:
		p.take()
		return tok.Bool, nil
	}
	return nil, &ParseError{Pos: tok.Pos, Msg: fmt.Sprintf("unexpected token %s", tok)}
}

func (p *parser) expect(kind Kind) error {
	tok, ok := p.peek()
	if !ok {
		return &ParseError{Pos: p.endPos(), Msg: "expected " + kind.String()}
	}
	if tok.Kind != kind {
		return &ParseError{Pos: tok.Pos, Msg: fmt.Sprintf("expected %s, got %s", kind, tok)}
	}
	p.take()
	return nil
}

func (p *parser) endPos() int {
	if len(p.toks) == 0 {
		return 0
	}
	last := p.toks[len(p.toks)-1]
	return last.Pos + len(last.Text)
}

func compare(left any, op string, right any) bool {
	switch op {
	case "==":
		return looseEqual(left, right)
	case "!=":
		return !looseEqual(left, right)
	}

	// Ordering: numeric when both sides can be numbers (with the string
	// coercion rule), string comparison otherwise.
	ln, lok := AsNumber(left)
	rn, rok := AsNumber(right)
	if lok && rok {
		switch op {
		case ">":
			return ln > rn
		case "<":
			return ln < rn
		case ">=":
			return ln >= rn
		case "<=":
			return ln <= rn
		}
		return false
	}
	ls, rs := Stringify(left), Stringify(right)
	switch op {
	case ">":
		return ls > rs
	case "<":
		return ls < rs
	case ">=":
		return ls >= rs
	case "<=":
		return ls <= rs
	}
	return false
}

// includes is membership on lists and substring on everything else.
func includes(left, right any) bool {
	if items, ok := asList(left); ok {
		for _, item := range items {
			if looseEqual(item, right) {
				return true
			}
		}
		return false
	}
	return strings.Contains(Stringify(left), Stringify(right))
}
