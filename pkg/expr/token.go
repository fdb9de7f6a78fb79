package expr

import "fmt"

// Kind classifies a lexed token.
type Kind int

const (
	KindRef Kind = iota
	KindNumber
	KindString
	KindBool
	KindComparator // == != >= <= > <
	KindIncludes
	KindAnd
	KindOr
	KindLParen
	KindRParen
)

func (k Kind) String() string {
	switch k {
	case KindRef:
		return "ref"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindBool:
		return "bool"
	case KindComparator:
		return "comparator"
	case KindIncludes:
		return "includes"
	case KindAnd:
		return "and"
	case KindOr:
		return "or"
	case KindLParen:
		return "lparen"
	case KindRParen:
		return "rparen"
	}
	return "unknown"
}

// Token is one lexical unit of a condition expression.
type Token struct {
	Kind Kind
	Text string  // raw text: identifier name, operator, string value
	Num  float64 // parsed value for KindNumber
	Bool bool    // parsed value for KindBool
	Pos  int     // byte offset in the source
}

func (t Token) String() string {
	return fmt.Sprintf("%s(%q)@%d", t.Kind, t.Text, t.Pos)
}

// ParseError reports where a condition stopped making sense. Evaluate never
// returns it (conditions fail closed); Check surfaces it for authoring tools.
type ParseError struct {
	Pos int
	Msg string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("condition parse error at offset %d: %s", e.Pos, e.Msg)
}
