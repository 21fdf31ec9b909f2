package zdbi

import "zgo.at/zdbi/drivers"

// Result is a query result set.
//
// The zero value is an empty result. A Result must be closed with Close().
type Result struct {
	res  drivers.Result
	read uint64 // Rows read with Next().
}

// assign the backend result, freeing any existing one.
func (r *Result) assign(res drivers.Result) {
	if r.res != nil && r.res != res {
		r.res.Free()
	}
	r.res, r.read = res, 0
}

// Rows gets the number of rows.
func (r *Result) Rows() uint64 {
	if r.res == nil {
		return 0
	}
	return r.res.Rows()
}

// Cols gets the number of columns.
func (r *Result) Cols() int {
	if r.res == nil {
		return 0
	}
	return r.res.Cols()
}

// Columns gets the column names.
func (r *Result) Columns() []string {
	if r.res == nil {
		return nil
	}
	return r.res.Columns()
}

// Next fetches the next row in to row, returning false if there are no more
// rows (in which case the row is reset to be empty).
//
// The row is valid until the next call to Next() or Close().
func (r *Result) Next(row *Row) bool {
	if r.res != nil && r.res.Next() {
		r.read++
		row.set(r.res)
		return true
	}
	row.reset()
	return false
}

// Close the result, releasing the backend result set.
func (r *Result) Close() error {
	r.assign(nil)
	return nil
}
