package zdbi

import (
	"context"
	"fmt"
)

// Binder collects all rows of a result in to a slice of R.
//
// Every call to Field() declares the destination for the next column; after
// the field for the last column is declared all rows are read in to dest:
//
//	type user struct {
//		ID   int
//		Name string
//	}
//
//	var users []user
//	b, err := zdbi.CollectQuery(ctx, s.Query(`select id, name from users`), &users)
//	if err != nil {
//		return err
//	}
//	defer b.Close()
//
//	err = b.
//		Field(func(u *user) any { return &u.ID }).
//		Field(func(u *user) any { return &u.Name }).
//		Err()
//
// Columns that are NULL leave the field at its zero value.
type Binder[R any] struct {
	res    *Result
	owned  bool
	dest   *[]R
	fields []func(*R) any
	err    error
}

// Collect creates a new binder for all rows in res, which must not have been
// read from with Next(); ErrResultAdvanced is set if it was.
//
// The caller remains responsible for closing res.
func Collect[R any](res *Result, dest *[]R) *Binder[R] {
	b := &Binder[R]{res: res, dest: dest}
	if res.read > 0 {
		b.err = fmt.Errorf("zdbi.Collect: %w", ErrResultAdvanced)
	}
	return b
}

// CollectQuery runs the statement on the session and creates a new binder for
// the result.
//
// The result is owned by the binder, and is released with Binder.Close().
func CollectQuery[R any](ctx context.Context, s *Session, dest *[]R) (*Binder[R], error) {
	res := new(Result)
	if err := s.Fetch(ctx, res); err != nil {
		return nil, fmt.Errorf("zdbi.CollectQuery: %w", err)
	}
	return &Binder[R]{res: res, owned: true, dest: dest}, nil
}

// Field declares the destination for the next column. The function must
// return a pointer to one of the Scalar types, a pointer to an any, or a
// sql.Scanner.
//
// Declaring more fields than there are columns sets ErrBindingOverflow.
func (b *Binder[R]) Field(f func(*R) any) *Binder[R] {
	if b.err != nil {
		return b
	}
	if len(b.fields) >= b.res.Cols() {
		b.err = fmt.Errorf("zdbi.Binder.Field: %w: result has %d columns", ErrBindingOverflow, b.res.Cols())
		return b
	}

	b.fields = append(b.fields, f)
	if len(b.fields) == b.res.Cols() {
		b.run()
	}
	return b
}

// Err gets the first error.
func (b *Binder[R]) Err() error { return b.err }

// Close releases the result if it's owned by the binder.
//
// Nothing is read if fewer fields than columns were declared.
func (b *Binder[R]) Close() error {
	if b.owned {
		return b.res.Close()
	}
	return nil
}

func (b *Binder[R]) run() {
	var (
		out  = make([]R, 0, b.res.Rows())
		ptrs = make([]any, len(b.fields))
		row  Row
	)
	for b.res.Next(&row) {
		var r R
		out = append(out, r)
		rec := &out[len(out)-1]
		for i, f := range b.fields {
			ptrs[i] = f(rec)
		}
		if err := row.Scan(ptrs...); err != nil {
			b.err = fmt.Errorf("zdbi.Binder: row %d: %w", len(out), err)
			return
		}
	}
	*b.dest = out
}
