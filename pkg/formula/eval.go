package formula

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Program is a compiled arithmetic expression: a pure function of its named
// inputs. Evaluation is side-effect free and bounded by the expression size.
type Program struct {
	src  string
	root node
	refs []string
}

// Source returns the compiled (post-sanitization) source text.
func (p *Program) Source() string { return p.src }

// Inputs returns the distinct input names the expression references, in
// first-use order.
func (p *Program) Inputs() []string { return append([]string(nil), p.refs...) }

// Eval computes the expression. Missing inputs are zero. Non-finite results
// (NaN, Inf) are evaluation failures, never displayed as numbers.
func (p *Program) Eval(inputs map[string]float64) (float64, error) {
	v := p.root.eval(inputs)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("formula %q: non-finite result", p.src)
	}
	return v, nil
}

type node interface {
	eval(inputs map[string]float64) float64
}

type numNode float64

func (n numNode) eval(map[string]float64) float64 { return float64(n) }

type refNode string

func (n refNode) eval(inputs map[string]float64) float64 { return inputs[string(n)] }

type binNode struct {
	op          byte
	left, right node
}

func (n *binNode) eval(inputs map[string]float64) float64 {
	l, r := n.left.eval(inputs), n.right.eval(inputs)
	switch n.op {
	case '+':
		return l + r
	case '-':
		return l - r
	case '*':
		return l * r
	case '/':
		return l / r // division by zero becomes Inf, caught at Eval
	case '%':
		return math.Mod(l, r)
	}
	return math.NaN()
}

type negNode struct{ inner node }

func (n *negNode) eval(inputs map[string]float64) float64 { return -n.inner.eval(inputs) }

// compile parses sanitized source into an AST. Recursive descent with the
// usual arithmetic precedence ( * / % bind tighter than + - ).
func compile(src string) (*Program, error) {
	c := &compiler{src: src}
	c.skipSpace()
	root, err := c.sum()
	if err != nil {
		return nil, err
	}
	c.skipSpace()
	if c.pos < len(c.src) {
		return nil, &CompileError{Expr: src, Msg: fmt.Sprintf("unexpected %q at offset %d", c.src[c.pos], c.pos)}
	}
	return &Program{src: strings.TrimSpace(src), root: root, refs: c.refs}, nil
}

type compiler struct {
	src  string
	pos  int
	refs []string
	seen map[string]bool
}

func (c *compiler) sum() (node, error) {
	left, err := c.term()
	if err != nil {
		return nil, err
	}
	for {
		c.skipSpace()
		if c.pos >= len(c.src) || (c.src[c.pos] != '+' && c.src[c.pos] != '-') {
			return left, nil
		}
		op := c.src[c.pos]
		c.pos++
		right, err := c.term()
		if err != nil {
			return nil, err
		}
		left = &binNode{op: op, left: left, right: right}
	}
}

func (c *compiler) term() (node, error) {
	left, err := c.unary()
	if err != nil {
		return nil, err
	}
	for {
		c.skipSpace()
		if c.pos >= len(c.src) {
			return left, nil
		}
		op := c.src[c.pos]
		if op != '*' && op != '/' && op != '%' {
			return left, nil
		}
		c.pos++
		right, err := c.unary()
		if err != nil {
			return nil, err
		}
		left = &binNode{op: op, left: left, right: right}
	}
}

func (c *compiler) unary() (node, error) {
	c.skipSpace()
	if c.pos < len(c.src) && c.src[c.pos] == '-' {
		c.pos++
		inner, err := c.unary()
		if err != nil {
			return nil, err
		}
		return &negNode{inner: inner}, nil
	}
	return c.primary()
}

func (c *compiler) primary() (node, error) {
	c.skipSpace()
	if c.pos >= len(c.src) {
		return nil, &CompileError{Expr: c.src, Msg: "unexpected end of expression"}
	}

	ch := c.src[c.pos]
	switch {
	case ch == '(':
		c.pos++
		inner, err := c.sum()
		if err != nil {
			return nil, err
		}
		c.skipSpace()
		if c.pos >= len(c.src) || c.src[c.pos] != ')' {
			return nil, &CompileError{Expr: c.src, Msg: "unbalanced parenthesis"}
		}
		c.pos++
		return inner, nil

	case ch >= '0' && ch <= '9' || ch == '.':
		start := c.pos
		for c.pos < len(c.src) && (c.src[c.pos] >= '0' && c.src[c.pos] <= '9' || c.src[c.pos] == '.') {
			c.pos++
		}
		text := c.src[start:c.pos]
		v, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return nil, &CompileError{Expr: c.src, Msg: "malformed number " + strconv.Quote(text)}
		}
		return numNode(v), nil

	case ch == '_' || ch >= 'a' && ch <= 'z' || ch >= 'A' && ch <= 'Z':
		start := c.pos
		for c.pos < len(c.src) && isWordChar(c.src[c.pos]) {
			c.pos++
		}
		name := c.src[start:c.pos]
		c.recordRef(name)
		return refNode(name), nil
	}

	return nil, &CompileError{Expr: c.src, Msg: fmt.Sprintf("unexpected %q at offset %d", ch, c.pos)}
}

func (c *compiler) recordRef(name string) {
	if c.seen == nil {
		c.seen = make(map[string]bool)
	}
	if !c.seen[name] {
		c.seen[name] = true
		c.refs = append(c.refs, name)
	}
}

func (c *compiler) skipSpace() {
	for c.pos < len(c.src) {
		switch c.src[c.pos] {
		case ' ', '\t', '\n', '\r':
			c.pos++
		default:
			return
		}
	}
}

func isWordChar(ch byte) bool {
	return ch == '_' || ch >= '0' && ch <= '9' || ch >= 'a' && ch <= 'z' || ch >= 'A' && ch <= 'Z'
}
