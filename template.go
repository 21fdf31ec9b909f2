package zdbi

import "strings"

// Template is a query with ? placeholders, which are replaced by SQL literals
// as values are bound.
//
// A ? inside a single-quoted string literal is not a placeholder.
// Everything else, including double-quoted identifiers and comments, is
// copied as-is.
//
// Only '' is recognized as an escaped quote inside a literal; a backslash
// escape such as MySQL's 'it\'s ?' ends the literal at the escaped quote, and
// the ? after it is a placeholder. Write 'it''s ?' instead.
type Template struct {
	in       string
	read     int
	escaped  strings.Builder
	awaiting bool // Waiting for a value for a placeholder.
	complete bool
}

// NewTemplate creates a new template.
func NewTemplate(query string) (*Template, error) {
	t := new(Template)
	return t, t.Reset(query)
}

// Reset the template to a new query.
//
// This scans the query up to the first placeholder.
func (t *Template) Reset(query string) error {
	t.in, t.read = query, 0
	t.awaiting, t.complete = false, false
	t.escaped.Reset()
	t.escaped.Grow(len(query) * 3 / 2)
	return t.scan()
}

// clear the template; it's neither complete nor awaiting a value.
func (t *Template) clear() {
	t.in, t.read = "", 0
	t.awaiting, t.complete = false, false
	t.escaped.Reset()
}

// Awaiting reports if the template is waiting for a value.
func (t *Template) Awaiting() bool { return t.awaiting }

// Complete reports if all placeholders have a value.
func (t *Template) Complete() bool { return t.complete }

// String gets the escaped query so far.
func (t *Template) String() string { return t.escaped.String() }

// Query gets the original query.
func (t *Template) Query() string { return t.in }

// BindLiteral replaces the next placeholder with the literal text.
//
// The text is used as-is; use Bind() to bind a value.
func (t *Template) BindLiteral(lit string) error {
	if !t.awaiting {
		return ErrBindOrder
	}
	t.escaped.WriteString(lit)
	t.awaiting = false
	return t.scan()
}

// Bind the value to the next placeholder, quoting strings with q.
func (t *Template) Bind(q Quoter, v any) error {
	if !t.awaiting {
		return ErrBindOrder
	}
	val, err := NewValue(v)
	if err != nil {
		return err
	}
	lit, err := val.Literal(q)
	if err != nil {
		return err
	}
	return t.BindLiteral(lit)
}

// scan copies text to the escaped query until the next placeholder or the
// end of the query.
func (t *Template) scan() error {
	for t.read < len(t.in) {
		switch c := t.in[t.read]; c {
		case '\'':
			end := strings.IndexByte(t.in[t.read+1:], '\'')
			if end == -1 {
				return &MalformedTemplateError{Template: t.in, Pos: t.read, Msg: "unterminated string literal"}
			}
			end += t.read + 2
			t.escaped.WriteString(t.in[t.read:end])
			t.read = end
		case '?':
			t.read++
			t.awaiting = true
			return nil
		default:
			t.escaped.WriteByte(c)
			t.read++
		}
	}

	if t.read == len(t.in) {
		t.complete = true
		return nil
	}
	return &InternalError{Msg: "template scanner stopped before end of query"}
}
