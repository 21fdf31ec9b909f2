package zdbi

import (
	"errors"
	"testing"
	"time"

	"zgo.at/zdbi/drivers/sqlconn"
)

func testRow(cols []string, vals ...any) *Row {
	res := sqlconn.NewResult(cols, [][]any{vals}, 0)
	row := new(Row)
	row.assign(res)
	return row
}

func TestRow(t *testing.T) {
	date := time.Date(2020, 6, 18, 1, 2, 3, 0, time.UTC)
	row := testRow([]string{"id", "Name", "n", "created"}, int64(5), "x", nil, date)
	defer row.Close()

	if row.IsEmpty() || row.Cols() != 4 {
		t.Fatalf("empty=%t; cols=%d", row.IsEmpty(), row.Cols())
	}

	null, err := row.IsNull(3)
	if err != nil || !null {
		t.Errorf("null=%t; err=%v", null, err)
	}
	null, err = row.IsNullColumn("name")
	if err != nil || null {
		t.Errorf("null=%t; err=%v", null, err)
	}
	_, err = row.IsNullColumn("nope")
	var cErr *ColumnRangeError
	if !errors.As(err, &cErr) || cErr.Name != "nope" {
		t.Errorf("wrong error: %v", err)
	}

	for _, col := range []int{0, 5, -1} {
		_, err := row.IsNull(col)
		if !errors.As(err, &cErr) || cErr.Col != col || cErr.Cols != 4 {
			t.Errorf("col %d: wrong error: %v", col, err)
		}
		_, err = row.Fetch(col, new(string))
		if !errors.As(err, &cErr) {
			t.Errorf("col %d: wrong error: %v", col, err)
		}
	}

	// NULL leaves the destination alone.
	n := 42
	ok, err := row.Fetch(3, &n)
	if err != nil || ok || n != 42 {
		t.Errorf("ok=%t; err=%v; n=%d", ok, err, n)
	}
	_, err = Get[int](row, 3)
	if !errors.Is(err, ErrNullValue) {
		t.Errorf("wrong error: %v", err)
	}

	created, err := Get[time.Time](row, 4)
	if err != nil || !created.Equal(date) {
		t.Errorf("created=%s; err=%v", created, err)
	}
	_, err = Get[int8](row, 2)
	var convErr *ConversionError
	if !errors.As(err, &convErr) || convErr.Col != 2 {
		t.Errorf("wrong error: %v", err)
	}

	t.Run("scan", func(t *testing.T) {
		var (
			id   uint16
			name string
			nn   = "default"
		)
		err := row.Scan(&id, &name, &nn)
		if err != nil {
			t.Fatal(err)
		}
		if id != 5 || name != "x" || nn != "default" {
			t.Errorf("id=%d; name=%q; nn=%q", id, name, nn)
		}

		var tm time.Time
		if err := row.Scan(&tm); err != nil || !tm.Equal(date) {
			t.Errorf("tm=%s; err=%v", tm, err)
		}
		if err := row.Scan(new(string)); !errors.As(err, &cErr) || cErr.Col != 5 {
			t.Errorf("wrong error: %v", err)
		}

		row.Rewind()
		var id2 int
		if err := row.Scan(&id2); err != nil || id2 != 5 {
			t.Errorf("id2=%d; err=%v", id2, err)
		}
	})
}

func TestRowEmpty(t *testing.T) {
	var row Row
	if !row.IsEmpty() || row.Cols() != 0 {
		t.Fatal("not empty")
	}
	_, err := row.IsNull(1)
	var cErr *ColumnRangeError
	if !errors.As(err, &cErr) {
		t.Errorf("wrong error: %v", err)
	}
	if _, err := row.IsNullColumn("x"); !errors.As(err, &cErr) {
		t.Errorf("wrong error: %v", err)
	}
	if err := row.Close(); err != nil {
		t.Fatal(err)
	}
}
