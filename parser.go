// parser.go — recursive-descent parser for matrix/vector expressions.
//
// Grammar (precedence low → high):
//
//	expr        := IDENT '=' additive | additive
//	additive    := multiplicative (('+' | '-') multiplicative)*
//	multiplicative := unary (('*' | '/') unary | unary)*   // bare juxtaposition is multiplication
//	unary       := '-' unary | postfix
//	postfix     := primary ('!' | '?')*
//	primary     := NUMBER | IDENT | call | literal | '(' expr ')'
//	call        := IDENT '(' (expr (',' expr)*)? ')'        // '(' must be glued to the name
//	literal     := '[' row (';' row)* ']'
//	row         := element (element)*                       // elements split on whitespace
//
// Inside a literal, elements are full scalar expressions but never use
// juxtaposition (whitespace is the element separator). A '-' that has
// whitespace before it and none after it starts a new element; any other
// '-' is a binary operator within the current element. That rule makes
// `[1 -2]` two elements and `[1 - 2]` one, and it relies on the lexer's
// SpaceBefore flags.
//
// A bracket literal whose rows all have exactly one element is a vector;
// any wider row makes it a matrix, and ragged rows are a parse error.
// Literal dimensions are unconstrained here — the evaluator enforces the
// 2/3 shape contract.
package trinity

import "fmt"

// ParseErrorKind discriminates the closed set of parse failures.
type ParseErrorKind int

const (
	ParseUnexpectedToken ParseErrorKind = iota
	ParseUnbalancedBrackets
	ParseIrregularLiteral
	ParseEmptyLiteral
	ParseMissingOperand
)

// ParseError is a parse failure with a 1-based line and 0-based column.
type ParseError struct {
	Kind ParseErrorKind
	Line int
	Col  int
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("PARSE ERROR at %d:%d: %s", e.Line, e.Col, e.Msg)
}

// maxParseDepth bounds expression nesting so that adversarial input like a
// long run of '(' or '[' cannot exhaust the goroutine stack.
const maxParseDepth = 500

// maxParseNodes bounds the total number of operator nodes in one expression.
// The operator loops build left-deep trees whose depth grows with input
// length without ever nesting through primary(), so the depth guard alone
// does not protect the recursive consumers (eval, FormatNode) from inputs
// like a megabyte of "1+1+…". Far beyond any expression a person types.
const maxParseNodes = 65536

// Parse consumes a token stream (as produced by Tokenize, EOF-terminated)
// and returns the expression tree, or a *ParseError.
func Parse(toks []Token) (Node, error) {
	p := &parser{toks: toks}
	return p.program()
}

// ParseSource tokenizes and parses in one step.
func ParseSource(src string) (Node, error) {
	toks, err := Tokenize(src)
	if err != nil {
		return nil, err
	}
	return Parse(toks)
}

type parser struct {
	toks  []Token
	i     int
	depth int
	nodes int
}

// ─────────────────────────── token basics & helpers ─────────────────────────

func (p *parser) peek() Token {
	if p.i >= len(p.toks) {
		if len(p.toks) == 0 {
			return Token{Type: EOF, Line: 1}
		}
		return p.toks[len(p.toks)-1]
	}
	return p.toks[p.i]
}

func (p *parser) peekNext() Token {
	if p.i+1 >= len(p.toks) {
		return p.peekLast()
	}
	return p.toks[p.i+1]
}

func (p *parser) peekLast() Token {
	if len(p.toks) == 0 {
		return Token{Type: EOF, Line: 1}
	}
	return p.toks[len(p.toks)-1]
}

func (p *parser) atEnd() bool { return p.peek().Type == EOF }

func (p *parser) advance() Token {
	t := p.peek()
	if !p.atEnd() {
		p.i++
	}
	return t
}

func (p *parser) match(tt ...TokenType) bool {
	for _, t := range tt {
		if p.peek().Type == t {
			p.i++
			return true
		}
	}
	return false
}

func errAt(tok Token, kind ParseErrorKind, msg string) error {
	return &ParseError{Kind: kind, Line: tok.Line, Col: tok.Col, Msg: msg}
}

// grow charges one operator node against the expression budget. Every loop
// or recursion that can extend the tree once per input token must call it.
func (p *parser) grow(tok Token) error {
	p.nodes++
	if p.nodes > maxParseNodes {
		return errAt(tok, ParseUnexpectedToken, "expression too large")
	}
	return nil
}

func tokPos(tok Token) pos { return pos{Line: tok.Line, Col: tok.Col} }

// ───────────────────────────────── grammar ──────────────────────────────────

func (p *parser) program() (Node, error) {
	if p.atEnd() {
		return nil, errAt(p.peek(), ParseMissingOperand, "empty expression")
	}
	n, err := p.expr()
	if err != nil {
		return nil, err
	}
	if !p.atEnd() {
		g := p.peek()
		switch g.Type {
		case RROUND:
			return nil, errAt(g, ParseUnbalancedBrackets, "unmatched ')'")
		case RSQUARE:
			return nil, errAt(g, ParseUnbalancedBrackets, "unmatched ']'")
		case ASSIGN:
			return nil, errAt(g, ParseUnexpectedToken, "assignment target must be a plain identifier")
		default:
			return nil, errAt(g, ParseUnexpectedToken, fmt.Sprintf("unexpected %s after expression", g.Type))
		}
	}
	return n, nil
}

func (p *parser) expr() (Node, error) {
	if p.peek().Type == IDENT && p.peekNext().Type == ASSIGN {
		name := p.advance()
		p.advance() // '='
		rhs, err := p.additive()
		if err != nil {
			return nil, err
		}
		return &Assign{pos: tokPos(name), Name: name.Lexeme, Expr: rhs}, nil
	}
	return p.additive()
}

func (p *parser) additive() (Node, error) {
	left, err := p.multiplicative()
	if err != nil {
		return nil, err
	}
	for p.peek().Type == PLUS || p.peek().Type == MINUS {
		op := p.advance()
		if err := p.grow(op); err != nil {
			return nil, err
		}
		right, err := p.multiplicative()
		if err != nil {
			return nil, err
		}
		left = &BinaryOp{pos: tokPos(op), Op: op.Lexeme, Left: left, Right: right}
	}
	return left, nil
}

// startsOperand reports whether tt can begin a unary/postfix/primary chain,
// which is what makes juxtaposition ("A v", "2 rot(90)") a multiplication.
func startsOperand(tt TokenType) bool {
	switch tt {
	case NUMBER, IDENT, LSQUARE, LROUND:
		return true
	default:
		return false
	}
}

func (p *parser) multiplicative() (Node, error) {
	left, err := p.unary()
	if err != nil {
		return nil, err
	}
	for {
		switch {
		case p.peek().Type == STAR || p.peek().Type == SLASH:
			op := p.advance()
			if err := p.grow(op); err != nil {
				return nil, err
			}
			right, err := p.unary()
			if err != nil {
				return nil, err
			}
			left = &BinaryOp{pos: tokPos(op), Op: op.Lexeme, Left: left, Right: right}
		case startsOperand(p.peek().Type):
			at := p.peek()
			if err := p.grow(at); err != nil {
				return nil, err
			}
			right, err := p.unary()
			if err != nil {
				return nil, err
			}
			left = &BinaryOp{pos: tokPos(at), Op: "*", Left: left, Right: right}
		default:
			return left, nil
		}
	}
}

// unary consumes the sign run iteratively; recursing once per '-' would let
// a long run of signs blow the stack before any guard fires.
func (p *parser) unary() (Node, error) {
	var signs []Token
	for p.peek().Type == MINUS {
		op := p.advance()
		if err := p.grow(op); err != nil {
			return nil, err
		}
		signs = append(signs, op)
	}
	n, err := p.postfix()
	if err != nil {
		return nil, err
	}
	for i := len(signs) - 1; i >= 0; i-- {
		n = &UnaryOp{pos: tokPos(signs[i]), Op: "-", Operand: n}
	}
	return n, nil
}

func (p *parser) postfix() (Node, error) {
	n, err := p.primary()
	if err != nil {
		return nil, err
	}
	for {
		switch p.peek().Type {
		case BANG:
			t := p.advance()
			if err := p.grow(t); err != nil {
				return nil, err
			}
			n = &Upgrade{pos: tokPos(t), Operand: n}
		case QUESTION:
			t := p.advance()
			if err := p.grow(t); err != nil {
				return nil, err
			}
			n = &Downgrade{pos: tokPos(t), Operand: n}
		default:
			return n, nil
		}
	}
}

func (p *parser) primary() (Node, error) {
	p.depth++
	defer func() { p.depth-- }()
	if p.depth > maxParseDepth {
		return nil, errAt(p.peek(), ParseUnexpectedToken, "expression nested too deeply")
	}

	tok := p.peek()
	switch tok.Type {
	case NUMBER:
		p.advance()
		return &NumberLit{pos: tokPos(tok), Value: tok.Value}, nil

	case IDENT:
		p.advance()
		// A '(' glued to the name is a call; a detached one is juxtaposition.
		if p.peek().Type == LROUND && !p.peek().SpaceBefore {
			return p.call(tok)
		}
		return &Ident{pos: tokPos(tok), Name: tok.Lexeme}, nil

	case LSQUARE:
		return p.literal()

	case LROUND:
		p.advance()
		inner, err := p.expr()
		if err != nil {
			return nil, err
		}
		if !p.match(RROUND) {
			return nil, errAt(p.peek(), ParseUnbalancedBrackets, "missing closing ')'")
		}
		return inner, nil

	case EOF:
		return nil, errAt(tok, ParseMissingOperand, "expression is missing an operand")

	case PLUS, STAR, SLASH:
		return nil, errAt(tok, ParseMissingOperand, fmt.Sprintf("%s is missing its left operand", tok.Type))

	case BANG, QUESTION:
		return nil, errAt(tok, ParseMissingOperand, fmt.Sprintf("postfix %s is missing its operand", tok.Type))

	case RROUND:
		return nil, errAt(tok, ParseUnbalancedBrackets, "unmatched ')'")

	case RSQUARE:
		return nil, errAt(tok, ParseUnbalancedBrackets, "unmatched ']'")

	default:
		return nil, errAt(tok, ParseUnexpectedToken, fmt.Sprintf("unexpected %s", tok.Type))
	}
}

func (p *parser) call(name Token) (Node, error) {
	p.advance() // '('
	var args []Node
	if p.peek().Type != RROUND {
		for {
			arg, err := p.expr()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			if !p.match(COMMA) {
				break
			}
			if p.peek().Type == RROUND {
				return nil, errAt(p.peek(), ParseUnexpectedToken, "trailing ',' in argument list")
			}
		}
	}
	if !p.match(RROUND) {
		return nil, errAt(p.peek(), ParseUnbalancedBrackets, fmt.Sprintf("missing ')' to close call to %s", name.Lexeme))
	}
	return &Call{pos: tokPos(name), Name: name.Lexeme, Args: args}, nil
}

// ─────────────────────────────── bracket literals ───────────────────────────

func (p *parser) literal() (Node, error) {
	lbrack := p.advance() // '['
	if p.match(RSQUARE) {
		return nil, errAt(lbrack, ParseEmptyLiteral, "empty literal")
	}

	var rows [][]Node
	var rowStarts []Token
	for {
		if p.peek().Type == SEMICOLON {
			return nil, errAt(p.peek(), ParseMissingOperand, "missing element before ';'")
		}
		rowStarts = append(rowStarts, p.peek())
		row, err := p.row()
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)

		if p.match(SEMICOLON) {
			if p.peek().Type == RSQUARE {
				return nil, errAt(p.peek(), ParseMissingOperand, "missing element after ';'")
			}
			continue
		}
		if p.match(RSQUARE) {
			break
		}
		if p.atEnd() {
			return nil, errAt(p.peek(), ParseUnbalancedBrackets, "missing closing ']'")
		}
		return nil, errAt(p.peek(), ParseUnexpectedToken, fmt.Sprintf("unexpected %s in literal", p.peek().Type))
	}

	singleColumn := true
	for _, row := range rows {
		if len(row) != 1 {
			singleColumn = false
			break
		}
	}
	if singleColumn {
		elems := make([]Node, len(rows))
		for i, row := range rows {
			elems[i] = row[0]
		}
		return &VectorLit{pos: tokPos(lbrack), Elems: elems}, nil
	}

	width := len(rows[0])
	for i, row := range rows {
		if len(row) != width {
			return nil, errAt(rowStarts[i], ParseIrregularLiteral,
				fmt.Sprintf("literal rows have unequal lengths (%d then %d)", width, len(row)))
		}
	}
	return &MatrixLit{pos: tokPos(lbrack), Rows: rows}, nil
}

// startsElement reports whether tt can begin a row element.
func startsElement(tt TokenType) bool {
	return startsOperand(tt) || tt == MINUS
}

func (p *parser) row() ([]Node, error) {
	var row []Node
	for startsElement(p.peek().Type) {
		el, err := p.element()
		if err != nil {
			return nil, err
		}
		row = append(row, el)
	}
	return row, nil
}

// minusStartsNewElement implements the whitespace rule for '-' inside a row:
// detached on the left and glued on the right means a fresh (negated)
// element rather than a binary subtraction.
func (p *parser) minusStartsNewElement() bool {
	return p.peek().SpaceBefore && !p.peekNext().SpaceBefore && startsElement(p.peekNext().Type)
}

// element := scalar additive expression, without juxtaposition.
func (p *parser) element() (Node, error) {
	left, err := p.elementMul()
	if err != nil {
		return nil, err
	}
	for {
		t := p.peek()
		if t.Type == PLUS || (t.Type == MINUS && !p.minusStartsNewElement()) {
			op := p.advance()
			if err := p.grow(op); err != nil {
				return nil, err
			}
			right, err := p.elementMul()
			if err != nil {
				return nil, err
			}
			left = &BinaryOp{pos: tokPos(op), Op: op.Lexeme, Left: left, Right: right}
			continue
		}
		return left, nil
	}
}

func (p *parser) elementMul() (Node, error) {
	left, err := p.unary()
	if err != nil {
		return nil, err
	}
	for p.peek().Type == STAR || p.peek().Type == SLASH {
		op := p.advance()
		if err := p.grow(op); err != nil {
			return nil, err
		}
		right, err := p.unary()
		if err != nil {
			return nil, err
		}
		left = &BinaryOp{pos: tokPos(op), Op: op.Lexeme, Left: left, Right: right}
	}
	return left, nil
}
