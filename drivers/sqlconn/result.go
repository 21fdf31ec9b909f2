package sqlconn

import (
	"strings"

	"zgo.at/zdbi/drivers"
)

var _ drivers.Result = (*Result)(nil)

// Result is a fully buffered result set.
type Result struct {
	cols     []string
	rows     [][]any
	cur      int
	affected uint64
}

// NewResult creates a new result from a list of columns and rows; this is
// mostly useful for testing.
func NewResult(cols []string, rows [][]any, affected uint64) *Result {
	return &Result{cols: cols, rows: rows, affected: affected, cur: -1}
}

func (r *Result) Rows() uint64     { return uint64(len(r.rows)) }
func (r *Result) Affected() uint64 { return r.affected }
func (r *Result) Cols() int        { return len(r.cols) }

func (r *Result) Next() bool {
	if r.cur+1 >= len(r.rows) {
		r.cur = len(r.rows)
		return false
	}
	r.cur++
	return true
}

func (r *Result) ColumnIndex(name string) (int, bool) {
	for i, c := range r.cols {
		if c == name {
			return i + 1, true
		}
	}
	for i, c := range r.cols {
		if strings.EqualFold(c, name) {
			return i + 1, true
		}
	}
	return 0, false
}

func (r *Result) Columns() []string { return append([]string(nil), r.cols...) }

func (r *Result) IsNull(col int) bool { return r.Value(col) == nil }

func (r *Result) Value(col int) any {
	if r.cur < 0 || r.cur >= len(r.rows) || col < 1 || col > len(r.cols) {
		return nil
	}
	return r.rows[r.cur][col-1]
}

func (r *Result) Free() { r.rows, r.cur = nil, -1 }
