// errors.go — user-facing error wrapping and caret-snippet rendering.
//
// WrapErrorWithSource recognizes the three typed pipeline errors
// (*LexError, *ParseError, *EvalError), formats them into a multi-line
// snippet with a caret pointing at the offending column, and returns a new
// error carrying that snippet:
//
//	PARSE ERROR at 1:8: missing closing ']'
//
//	   1 | [1 2; 3 4
//	     |        ^
//
// Any other error is returned unchanged. All three error structs carry a
// 1-based Line and 0-based Col; the renderer displays columns 1-based and
// clamps out-of-range coordinates so rendering never fails.
package trinity

import (
	"fmt"
	"strings"
)

// WrapErrorWithSource returns an error augmented with a caret-annotated
// snippet of the provided source. It recognizes the pipeline's typed errors
// and leaves other errors untouched.
func WrapErrorWithSource(err error, src string) error {
	switch e := err.(type) {
	case *LexError:
		return fmt.Errorf("%s", prettyErrorString(src, "LEXICAL ERROR", e.Line, e.Col+1, e.Msg))
	case *ParseError:
		return fmt.Errorf("%s", prettyErrorString(src, "PARSE ERROR", e.Line, e.Col+1, e.Msg))
	case *EvalError:
		return fmt.Errorf("%s", prettyErrorString(src, "EVAL ERROR", e.Line, e.Col+1, e.Msg))
	default:
		return err
	}
}

// prettyErrorString builds a snippet with a header and a caret. It shows at
// most one previous and one next line when available. Coordinates are
// treated as 1-based and clamped to the source bounds.
func prettyErrorString(src, header string, line, col int, msg string) string {
	lines := strings.Split(src, "\n")
	if line < 1 {
		line = 1
	}
	if col < 1 {
		col = 1
	}
	if len(lines) == 0 {
		lines = []string{""}
	}
	if line > len(lines) {
		line = len(lines)
	}
	lineTxt := lines[line-1]

	var b strings.Builder
	fmt.Fprintf(&b, "%s at %d:%d: %s\n\n", header, line, col, msg)
	if line > 1 {
		fmt.Fprintf(&b, "%4d | %s\n", line-1, lines[line-2])
	}
	fmt.Fprintf(&b, "%4d | %s\n", line, lineTxt)
	fmt.Fprintf(&b, "     | %s^\n", strings.Repeat(" ", col-1))
	if line < len(lines) {
		fmt.Fprintf(&b, "%4d | %s\n", line+1, lines[line])
	}
	return strings.TrimRight(b.String(), "\n")
}
