package trinity

import (
	"fmt"
	"strconv"
)

// TokenType represents the kind of token.
type TokenType int

const (
	// Special
	EOF TokenType = iota

	// Literals & identifiers
	NUMBER
	IDENT

	// Punctuation
	LSQUARE   // "["
	RSQUARE   // "]"
	SEMICOLON // ";"
	COMMA     // ","
	LROUND    // "("
	RROUND    // ")"

	// Operators
	ASSIGN   // "="
	BANG     // "!" postfix upgrade
	QUESTION // "?" postfix downgrade
	PLUS
	MINUS
	STAR
	SLASH
)

func (tt TokenType) String() string {
	switch tt {
	case EOF:
		return "end of input"
	case NUMBER:
		return "number"
	case IDENT:
		return "identifier"
	case LSQUARE:
		return "'['"
	case RSQUARE:
		return "']'"
	case SEMICOLON:
		return "';'"
	case COMMA:
		return "','"
	case LROUND:
		return "'('"
	case RROUND:
		return "')'"
	case ASSIGN:
		return "'='"
	case BANG:
		return "'!'"
	case QUESTION:
		return "'?'"
	case PLUS:
		return "'+'"
	case MINUS:
		return "'-'"
	case STAR:
		return "'*'"
	case SLASH:
		return "'/'"
	default:
		return "unknown token"
	}
}

// Token is a lexical token with an optional numeric literal value.
//
// SpaceBefore records whether whitespace (or the start of input) immediately
// precedes the token. The parser uses it to split elements inside bracket
// literals and to tell a call `rot(90)` from juxtaposition `A (v)`.
type Token struct {
	Type        TokenType
	Lexeme      string  // raw text slice
	Value       float64 // parsed value for NUMBER tokens
	Line        int     // 1-based
	Col         int     // 0-based column within line
	StartByte   int
	EndByte     int
	SpaceBefore bool
}

// LexErrorKind discriminates the closed set of lexical failures.
type LexErrorKind int

const (
	LexInvalidNumber LexErrorKind = iota
	LexUnexpectedChar
)

// LexError is a lexical failure with a 1-based line and 0-based column.
type LexError struct {
	Kind LexErrorKind
	Line int
	Col  int
	Msg  string
}

func (e *LexError) Error() string {
	return fmt.Sprintf("LEXICAL ERROR at %d:%d: %s", e.Line, e.Col, e.Msg)
}

// Lexer scans an expression string into tokens.
type Lexer struct {
	src              string
	start            int // start index of current token
	cur              int // current index
	line             int // 1-based
	col              int // 0-based column within line
	tokens           []Token
	whitespaceBefore bool

	// precise token start position
	tokStartLine int
	tokStartCol  int
}

// NewLexer creates a new lexer for the given source.
func NewLexer(src string) *Lexer {
	return &Lexer{
		src:  src,
		line: 1,
		col:  0,
		// Start of input counts as a boundary.
		whitespaceBefore: true,
	}
}

// Tokenize scans the whole source and returns tokens (EOF included).
func Tokenize(src string) ([]Token, error) {
	return NewLexer(src).Scan()
}

func (l *Lexer) isAtEnd() bool { return l.cur >= len(l.src) }

func (l *Lexer) peek() (byte, bool) {
	if l.isAtEnd() {
		return 0, false
	}
	return l.src[l.cur], true
}

func (l *Lexer) advance() (byte, bool) {
	if l.isAtEnd() {
		return 0, false
	}
	ch := l.src[l.cur]
	l.cur++
	if ch == '\n' {
		l.line++
		l.col = 0
	} else {
		l.col++
	}
	return ch, true
}

func (l *Lexer) addToken(tt TokenType, val float64) Token {
	lex := l.src[l.start:l.cur]
	tok := Token{
		Type:        tt,
		Lexeme:      lex,
		Value:       val,
		Line:        l.tokStartLine,
		Col:         l.tokStartCol,
		StartByte:   l.start,
		EndByte:     l.cur,
		SpaceBefore: l.whitespaceBefore,
	}
	l.tokens = append(l.tokens, tok)
	l.start = l.cur
	l.whitespaceBefore = false
	return tok
}

func (l *Lexer) skipWhitespace() {
	for !l.isAtEnd() {
		ch, _ := l.peek()
		switch ch {
		case ' ', '\r', '\n', '\t':
			l.whitespaceBefore = true
			l.advance()
			l.start = l.cur
		default:
			return
		}
	}
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }
func isAlpha(b byte) bool { return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || b == '_' }
func isAlphaNum(b byte) bool {
	return isAlpha(b) || isDigit(b)
}

// rewindToStart backs up to the start of the current token so a scanner can
// re-read the whole lexeme. Only single-byte lookahead is ever rewound, and
// never across a newline.
func (l *Lexer) rewindToStart() {
	l.cur = l.start
	l.col = l.tokStartCol
}

func (l *Lexer) errKind(kind LexErrorKind, msg string) error {
	return &LexError{Kind: kind, Line: l.tokStartLine, Col: l.tokStartCol, Msg: msg}
}

// scanNumber parses an unsigned decimal with an optional fraction; supports
// forms like 12, 1.5, .5 and "1.". Signs are separate MINUS tokens (the
// parser applies unary minus), matching the surface grammar.
func (l *Lexer) scanNumber() (float64, error) {
	for {
		b, ok := l.peek()
		if !ok || !isDigit(b) {
			break
		}
		l.advance()
	}
	if b, ok := l.peek(); ok && b == '.' {
		l.advance()
		for {
			b, ok := l.peek()
			if !ok || !isDigit(b) {
				break
			}
			l.advance()
		}
	}

	// A second dot makes the whole lexeme a malformed number ("1.2.3"),
	// not two adjacent tokens.
	if b, ok := l.peek(); ok && b == '.' {
		for {
			b, ok := l.peek()
			if !ok || (!isDigit(b) && b != '.') {
				break
			}
			l.advance()
		}
		return 0, l.errKind(LexInvalidNumber, fmt.Sprintf("malformed number %q", l.src[l.start:l.cur]))
	}

	lex := l.src[l.start:l.cur]
	if lex == "." {
		return 0, l.errKind(LexInvalidNumber, `malformed number "."`)
	}
	v, convErr := strconv.ParseFloat(lex, 64)
	if convErr != nil {
		return 0, l.errKind(LexInvalidNumber, fmt.Sprintf("malformed number %q", lex))
	}
	return v, nil
}

// scanIdentifier parses [A-Za-z_][A-Za-z0-9_]*
func (l *Lexer) scanIdentifier() string {
	for {
		b, ok := l.peek()
		if !ok || !isAlphaNum(b) {
			break
		}
		l.advance()
	}
	return l.src[l.start:l.cur]
}

func (l *Lexer) scanToken() (Token, error) {
	l.skipWhitespace()
	l.tokStartLine = l.line
	l.tokStartCol = l.col
	l.start = l.cur

	if l.isAtEnd() {
		return l.addToken(EOF, 0), nil
	}

	ch, _ := l.advance()

	switch ch {
	case '[':
		return l.addToken(LSQUARE, 0), nil
	case ']':
		return l.addToken(RSQUARE, 0), nil
	case ';':
		return l.addToken(SEMICOLON, 0), nil
	case ',':
		return l.addToken(COMMA, 0), nil
	case '(':
		return l.addToken(LROUND, 0), nil
	case ')':
		return l.addToken(RROUND, 0), nil
	case '=':
		return l.addToken(ASSIGN, 0), nil
	case '!':
		return l.addToken(BANG, 0), nil
	case '?':
		return l.addToken(QUESTION, 0), nil
	case '+':
		return l.addToken(PLUS, 0), nil
	case '-':
		return l.addToken(MINUS, 0), nil
	case '*':
		return l.addToken(STAR, 0), nil
	case '/':
		return l.addToken(SLASH, 0), nil
	}

	if isDigit(ch) || ch == '.' {
		l.rewindToStart()
		v, err := l.scanNumber()
		if err != nil {
			return Token{}, err
		}
		return l.addToken(NUMBER, v), nil
	}

	if isAlpha(ch) {
		l.rewindToStart()
		l.scanIdentifier()
		return l.addToken(IDENT, 0), nil
	}

	return Token{}, l.errKind(LexUnexpectedChar, fmt.Sprintf("unexpected character: %q", ch))
}

// Scan tokenizes the entire source and returns tokens (EOF included).
func (l *Lexer) Scan() ([]Token, error) {
	for {
		tok, err := l.scanToken()
		if err != nil {
			return nil, err
		}
		if tok.Type == EOF {
			return l.tokens, nil
		}
	}
}
