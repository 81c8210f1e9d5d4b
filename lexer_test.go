// lexer_test.go
package trinity

import (
	"errors"
	"reflect"
	"testing"
)

func toks(t *testing.T, src string) []Token {
	t.Helper()
	ts, err := Tokenize(src)
	if err != nil {
		t.Fatalf("Tokenize error: %v", err)
	}
	return ts
}

func typesWithoutEOF(tokens []Token) []TokenType {
	if len(tokens) == 0 {
		return nil
	}
	end := len(tokens)
	if tokens[end-1].Type == EOF {
		end--
	}
	out := make([]TokenType, 0, end)
	for i := 0; i < end; i++ {
		out = append(out, tokens[i].Type)
	}
	return out
}

func wantTypes(t *testing.T, src string, want []TokenType) []Token {
	t.Helper()
	got := toks(t, src)
	gotTypes := typesWithoutEOF(got)
	if !reflect.DeepEqual(gotTypes, want) {
		t.Fatalf("\nsource:\n%s\nwant types:\n%v\ngot types:\n%v\n", src, want, gotTypes)
	}
	return got
}

func wantLexErr(t *testing.T, src string, kind LexErrorKind) *LexError {
	t.Helper()
	_, err := Tokenize(src)
	if err == nil {
		t.Fatalf("expected lex error for %q, got none", src)
	}
	var le *LexError
	if !errors.As(err, &le) {
		t.Fatalf("expected *LexError for %q, got %T: %v", src, err, err)
	}
	if le.Kind != kind {
		t.Fatalf("wrong error kind for %q: want %v, got %v (%s)", src, kind, le.Kind, le.Msg)
	}
	return le
}

func Test_Lexer_MatrixLiteral(t *testing.T) {
	wantTypes(t, `[0 -1; 1 0]`, []TokenType{
		LSQUARE, NUMBER, MINUS, NUMBER, SEMICOLON, NUMBER, NUMBER, RSQUARE,
	})
}

func Test_Lexer_AssignmentWithCall(t *testing.T) {
	got := wantTypes(t, `A = rot(90)`, []TokenType{
		IDENT, ASSIGN, IDENT, LROUND, NUMBER, RROUND,
	})
	if got[0].Lexeme != "A" || got[2].Lexeme != "rot" {
		t.Fatalf("identifier lexemes wrong: %q, %q", got[0].Lexeme, got[2].Lexeme)
	}
	if got[4].Value != 90 {
		t.Fatalf("number value: want 90, got %v", got[4].Value)
	}
}

func Test_Lexer_NumberForms(t *testing.T) {
	got := wantTypes(t, `12 1.5 .5 1.`, []TokenType{NUMBER, NUMBER, NUMBER, NUMBER})
	want := []float64{12, 1.5, 0.5, 1}
	for i, w := range want {
		if got[i].Value != w {
			t.Fatalf("token %d: want value %v, got %v (lexeme %q)", i, w, got[i].Value, got[i].Lexeme)
		}
	}
}

func Test_Lexer_MalformedNumber(t *testing.T) {
	le := wantLexErr(t, `1.2.3`, LexInvalidNumber)
	if le.Line != 1 || le.Col != 0 {
		t.Fatalf("error position: want 1:0, got %d:%d", le.Line, le.Col)
	}
}

func Test_Lexer_BareDot(t *testing.T) {
	wantLexErr(t, `.`, LexInvalidNumber)
}

func Test_Lexer_UnexpectedChar(t *testing.T) {
	le := wantLexErr(t, "[1; 2] @ 3", LexUnexpectedChar)
	if le.Line != 1 || le.Col != 7 {
		t.Fatalf("error position: want 1:7, got %d:%d", le.Line, le.Col)
	}
}

func Test_Lexer_SpaceBefore_MinusRule(t *testing.T) {
	// "[1 -2]": the minus is detached on the left and glued on the right.
	got := toks(t, `[1 -2]`)
	minus, num := got[2], got[3]
	if minus.Type != MINUS || num.Type != NUMBER {
		t.Fatalf("unexpected token stream: %v", typesWithoutEOF(got))
	}
	if !minus.SpaceBefore || num.SpaceBefore {
		t.Fatalf("flags for '-2': minus.SpaceBefore=%v num.SpaceBefore=%v", minus.SpaceBefore, num.SpaceBefore)
	}

	// "[1 - 2]": spaced on both sides.
	got = toks(t, `[1 - 2]`)
	minus, num = got[2], got[3]
	if !minus.SpaceBefore || !num.SpaceBefore {
		t.Fatalf("flags for ' - ': minus.SpaceBefore=%v num.SpaceBefore=%v", minus.SpaceBefore, num.SpaceBefore)
	}
}

func Test_Lexer_SpaceBefore_CallParen(t *testing.T) {
	glued := toks(t, `rot(90)`)
	if glued[1].Type != LROUND || glued[1].SpaceBefore {
		t.Fatalf("glued '(' should have SpaceBefore=false, got %v", glued[1].SpaceBefore)
	}
	detached := toks(t, `rot (90)`)
	if detached[1].Type != LROUND || !detached[1].SpaceBefore {
		t.Fatalf("detached '(' should have SpaceBefore=true, got %v", detached[1].SpaceBefore)
	}
}

func Test_Lexer_PostfixOperators(t *testing.T) {
	wantTypes(t, `A!?`, []TokenType{IDENT, BANG, QUESTION})
}

func Test_Lexer_Positions_MultiLine(t *testing.T) {
	got := toks(t, "A = 1\nB = 2")
	b := got[3]
	if b.Type != IDENT || b.Lexeme != "B" {
		t.Fatalf("expected IDENT B at index 3, got %v %q", b.Type, b.Lexeme)
	}
	if b.Line != 2 || b.Col != 0 {
		t.Fatalf("position of B: want 2:0, got %d:%d", b.Line, b.Col)
	}
	two := got[5]
	if two.Line != 2 || two.Col != 4 {
		t.Fatalf("position of 2: want 2:4, got %d:%d", two.Line, two.Col)
	}
}

func Test_Lexer_EOFAlwaysPresent(t *testing.T) {
	got := toks(t, "")
	if len(got) != 1 || got[0].Type != EOF {
		t.Fatalf("empty source: want single EOF token, got %v", got)
	}
	if !got[0].SpaceBefore {
		t.Fatalf("start of input counts as a boundary")
	}
}
