package fileio

import (
	"errors"
	"fmt"
)

var (
	ErrMissingColumn = errors.New("missing required column")
	ErrEmptyValue    = errors.New("empty value")
	ErrInvalidNumber = errors.New("invalid number")
	ErrInvalidFlag   = errors.New("invalid yes/no flag")
	ErrColumnReused  = errors.New("header already bound to another column")
)

// DataError points at the offending cell of a tabular source. Line is 0 when
// the problem is with the header row as a whole.
type DataError struct {
	Source string
	Line   int
	Column string
	Value  string
	Err    error
}

func (e *DataError) Error() string {
	loc := e.Source
	if e.Line > 0 {
		loc = fmt.Sprintf("%s: line %d", loc, e.Line)
	}
	if e.Column != "" {
		loc = fmt.Sprintf("%s, column %q", loc, e.Column)
	}
	if e.Value != "" {
		return fmt.Sprintf("%s: %v: %q", loc, e.Err, e.Value)
	}
	return fmt.Sprintf("%s: %v", loc, e.Err)
}

func (e *DataError) Unwrap() error { return e.Err }

// Column is a canonical column name plus the header aliases accepted for it.
type Column struct {
	Name    string
	Aliases []string
}

func (c Column) want() string {
	w := c.Name
	for _, a := range c.Aliases {
		w += "|" + a
	}
	return w
}

// Bind resolves every column against the table headers and returns
// canonical name -> real header. The first unresolved column fails the bind,
// and so does a header claimed by two columns.
func (t *Table) Bind(source string, cols []Column) (map[string]string, error) {
	out := make(map[string]string, len(cols))
	owner := make(map[string]string, len(cols))
	for _, c := range cols {
		h, ok := t.Resolve(c.want())
		if !ok {
			return nil, &DataError{Source: source, Column: c.Name, Err: ErrMissingColumn}
		}
		if prev, taken := owner[h]; taken {
			return nil, &DataError{Source: source, Column: c.Name, Value: h, Err: fmt.Errorf("%w %q", ErrColumnReused, prev)}
		}
		owner[h] = c.Name
		out[c.Name] = h
	}
	return out, nil
}
