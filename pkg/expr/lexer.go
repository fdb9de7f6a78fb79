package expr

import "strconv"

// lexer is a single-pass tokenizer over a condition string. No backtracking:
// two-character operators are matched greedily before their one-character
// prefixes, and the ".includes" suffix is split off an identifier as its own
// operator token while scanning.
type lexer struct {
	src     string
	pos     int
	pending *Token // emitted before scanning resumes (ident.includes split)
}

const includesSuffix = ".includes"

// Tokenize splits a condition expression into tokens.
func Tokenize(src string) ([]Token, error) {
	l := &lexer{src: src}
	var toks []Token
	for {
		tok, ok, err := l.next()
		if err != nil {
			return nil, err
		}
		if !ok {
			return toks, nil
		}
		toks = append(toks, tok)
	}
}

func (l *lexer) next() (Token, bool, error) {
	if l.pending != nil {
		tok := *l.pending
		l.pending = nil
		return tok, true, nil
	}
	l.skipSpace()
	if l.pos >= len(l.src) {
		return Token{}, false, nil
	}

	start := l.pos
	c := l.src[l.pos]

	switch {
	case c == '\'' || c == '"':
		return l.lexString(c)
	case c >= '0' && c <= '9':
		return l.lexNumber()
	case c == '-' && l.pos+1 < len(l.src) && isDigit(l.src[l.pos+1]):
		return l.lexNumber()
	case c == '(':
		l.pos++
		return Token{Kind: KindLParen, Text: "(", Pos: start}, true, nil
	case c == ')':
		l.pos++
		return Token{Kind: KindRParen, Text: ")", Pos: start}, true, nil
	}

	// Two-character operators before single-character ones.
	if l.pos+1 < len(l.src) {
		two := l.src[l.pos : l.pos+2]
		switch two {
		case "==", "!=", ">=", "<=":
			l.pos += 2
			return Token{Kind: KindComparator, Text: two, Pos: start}, true, nil
		case "&&":
			l.pos += 2
			return Token{Kind: KindAnd, Text: two, Pos: start}, true, nil
		case "||":
			l.pos += 2
			return Token{Kind: KindOr, Text: two, Pos: start}, true, nil
		}
	}
	if c == '>' || c == '<' {
		l.pos++
		return Token{Kind: KindComparator, Text: string(c), Pos: start}, true, nil
	}

	if isIdentStart(c) {
		return l.lexIdent()
	}

	return Token{}, false, &ParseError{Pos: start, Msg: "unexpected character " + strconv.Quote(string(c))}
}

func (l *lexer) skipSpace() {
	for l.pos < len(l.src) {
		switch l.src[l.pos] {
		case ' ', '\t', '\n', '\r':
			l.pos++
		default:
			return
		}
	}
}

func (l *lexer) lexString(quote byte) (Token, bool, error) {
	start := l.pos
	l.pos++ // opening quote
	begin := l.pos
	for l.pos < len(l.src) && l.src[l.pos] != quote {
		l.pos++
	}
	if l.pos >= len(l.src) {
		return Token{}, false, &ParseError{Pos: start, Msg: "unterminated string literal"}
	}
	text := l.src[begin:l.pos]
	l.pos++ // closing quote
	return Token{Kind: KindString, Text: text, Pos: start}, true, nil
}

func (l *lexer) lexNumber() (Token, bool, error) {
	start := l.pos
	if l.src[l.pos] == '-' {
		l.pos++
	}
	for l.pos < len(l.src) && (isDigit(l.src[l.pos]) || l.src[l.pos] == '.') {
		l.pos++
	}
	text := l.src[start:l.pos]
	n, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return Token{}, false, &ParseError{Pos: start, Msg: "malformed number " + strconv.Quote(text)}
	}
	return Token{Kind: KindNumber, Text: text, Num: n, Pos: start}, true, nil
}

func (l *lexer) lexIdent() (Token, bool, error) {
	start := l.pos
	for l.pos < len(l.src) && isIdentPart(l.src[l.pos]) {
		l.pos++
	}
	name := l.src[start:l.pos]

	// An identifier immediately followed by ".includes" splits into a
	// reference token now and an includes operator token on the next call.
	if len(l.src)-l.pos >= len(includesSuffix) && l.src[l.pos:l.pos+len(includesSuffix)] == includesSuffix {
		next := l.pos + len(includesSuffix)
		if next >= len(l.src) || !isIdentPart(l.src[next]) {
			opPos := l.pos + 1
			l.pos = next
			l.pending = &Token{Kind: KindIncludes, Text: "includes", Pos: opPos}
			return Token{Kind: KindRef, Text: name, Pos: start}, true, nil
		}
	}

	switch name {
	case "true":
		return Token{Kind: KindBool, Text: name, Bool: true, Pos: start}, true, nil
	case "false":
		return Token{Kind: KindBool, Text: name, Bool: false, Pos: start}, true, nil
	}
	return Token{Kind: KindRef, Text: name, Pos: start}, true, nil
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || isDigit(c) || c == '-'
}
