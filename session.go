// session.go — the one-stop façade over the pipeline.
//
// A Session owns an Env and runs source through Tokenize, Parse and
// Evaluate, wrapping any failure into a caret-annotated snippet. The REPL,
// the script runner and the viewer all sit on top of this.
package trinity

// Session couples an environment with the full evaluation pipeline.
type Session struct {
	Env *Env
}

// NewSession creates a session with an empty environment.
func NewSession() *Session {
	return &Session{Env: NewEnv()}
}

// EvalSource lexes, parses and evaluates one expression. On failure the
// returned error carries a rendered snippet of src with a caret at the
// offending position.
func (s *Session) EvalSource(src string) (Value, error) {
	toks, err := Tokenize(src)
	if err != nil {
		return Value{}, WrapErrorWithSource(err, src)
	}
	ast, err := Parse(toks)
	if err != nil {
		return Value{}, WrapErrorWithSource(err, src)
	}
	v, err := Evaluate(ast, s.Env)
	if err != nil {
		return Value{}, WrapErrorWithSource(err, src)
	}
	return v, nil
}

// Reset drops every binding in the session's environment.
func (s *Session) Reset() {
	s.Env.Reset()
}
