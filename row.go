package zdbi

import "zgo.at/zdbi/drivers"

// Row is a single row from a result set.
//
// Column positions start at 1.
type Row struct {
	res   drivers.Result
	owner bool // Free res when done.
	cur   int  // Last column read by Scan().
}

// set the row to the current row of res, which is owned by a Result.
func (r *Row) set(res drivers.Result) {
	r.release()
	r.res, r.cur = res, 0
}

// assign the first row of res to this row; the row takes ownership of res.
func (r *Row) assign(res drivers.Result) {
	r.release()
	res.Next()
	r.res, r.owner, r.cur = res, true, 0
}

func (r *Row) reset() {
	r.release()
	r.res, r.cur = nil, 0
}

func (r *Row) release() {
	if r.owner && r.res != nil {
		r.res.Free()
	}
	r.owner = false
}

// Close the row, releasing the result set if the row owns one (as is the
// case for rows from Session.Single()).
func (r *Row) Close() error {
	r.reset()
	return nil
}

// IsEmpty reports if the row has any data.
func (r *Row) IsEmpty() bool { return r.res == nil }

// Cols gets the number of columns.
func (r *Row) Cols() int {
	if r.res == nil {
		return 0
	}
	return r.res.Cols()
}

func (r *Row) checkCol(col int) error {
	if col < 1 || col > r.Cols() {
		return &ColumnRangeError{Col: col, Cols: r.Cols()}
	}
	return nil
}

// IsNull reports if the column is NULL.
func (r *Row) IsNull(col int) (bool, error) {
	if err := r.checkCol(col); err != nil {
		return false, err
	}
	return r.res.IsNull(col), nil
}

// IsNullColumn reports if the named column is NULL.
func (r *Row) IsNullColumn(name string) (bool, error) {
	if r.res == nil {
		return false, &ColumnRangeError{Name: name}
	}
	col, ok := r.res.ColumnIndex(name)
	if !ok {
		return false, &ColumnRangeError{Name: name, Cols: r.Cols()}
	}
	return r.res.IsNull(col), nil
}

// Fetch the column value in to dest, which must be a pointer to one of the
// Scalar types, a pointer to an any, or a sql.Scanner.
//
// It returns false if the column is NULL, in which case dest is not
// modified.
func (r *Row) Fetch(col int, dest any) (bool, error) {
	if err := r.checkCol(col); err != nil {
		return false, err
	}
	if r.res.IsNull(col) {
		return false, nil
	}
	return true, convertAssign(col, dest, r.res.Value(col))
}

// Scan the next columns in to dest. Every value reads the next column; the
// first call starts at the first column.
//
// NULL columns leave the destination unmodified.
//
//	var (
//		id   int
//		name string
//	)
//	err := row.Scan(&id, &name)
func (r *Row) Scan(dest ...any) error {
	for _, d := range dest {
		r.cur++
		_, err := r.Fetch(r.cur, d)
		if err != nil {
			return err
		}
	}
	return nil
}

// Rewind resets the column position for Scan() to the first column.
func (r *Row) Rewind() { r.cur = 0 }

// Get the column value, returning ErrNullValue if the column is NULL.
func Get[T Scalar](r *Row, col int) (T, error) {
	var v T
	ok, err := r.Fetch(col, &v)
	if err != nil {
		return v, err
	}
	if !ok {
		return v, ErrNullValue
	}
	return v, nil
}
