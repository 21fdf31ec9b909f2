package bulk

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"zgo.at/zdbi"
	"zgo.at/zdbi/drivers/test"
	"zgo.at/zstd/ztest"
)

func TestBuilder(t *testing.T) {
	b := newBuilder("TBL", "col1", "col2", "col3")
	b.values("one", "two", "three")
	b.values("a", "b", "c")

	want := `insert into TBL (col1,col2,col3) values (?,?,?),(?,?,?)`
	wantargs := []any{"one", "two", "three", "a", "b", "c"}

	query, args := b.SQL()
	if query != want {
		t.Errorf("wrong query\nwant: %q\ngot:  %q", want, query)
	}
	if !reflect.DeepEqual(args, wantargs) {
		t.Errorf("wrong args\nwant: %q\ngot:  %q", wantargs, args)
	}
}

func TestInsert(t *testing.T) {
	ctx, backend, s := startTest(t)

	insert := NewInsert(ctx, s, "TBL", []string{"aa", "bb", "cc"})
	insert.Limit(2)
	insert.OnConflict("on conflict do nothing")
	insert.Values("one", "two", "three")
	insert.Values("a", zdbi.Null{}, 3)
	insert.Values("x", "y", "it's")

	err := insert.Finish()
	if err != nil {
		t.Fatal(err)
	}

	want := []string{
		`insert into TBL (aa,bb,cc) values ('one','two','three'),('a',NULL,3) on conflict do nothing`,
		`insert into TBL (aa,bb,cc) values ('x','y','it''s') on conflict do nothing`,
	}
	if have := backend.Statements(); !reflect.DeepEqual(have, want) {
		t.Errorf("\nhave: %q\nwant: %q", have, want)
	}
}

func TestError(t *testing.T) {
	ctx, backend, s := startTest(t)

	backend.Fail(`insert into TBL (aa,bb,cc) values ('one','two','three')`, errors.New("oh noes"))

	insert := NewInsert(ctx, s, "TBL", []string{"aa", "bb", "cc"})
	insert.Values("one", "two", "three")

	err := insert.Finish()
	if !ztest.ErrorContains(err, "1 errors: ") || !ztest.ErrorContains(err, "oh noes") {
		t.Fatalf("wrong error: %v", err)
	}
}

func startTest(t *testing.T) (context.Context, *test.Backend, *zdbi.Session) {
	t.Helper()
	backend := test.Use(t)
	ctx := context.Background()
	s, err := zdbi.Open(ctx, "test:dbname=bulk")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close() })
	return ctx, backend, s
}
