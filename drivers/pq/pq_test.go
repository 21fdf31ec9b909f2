package pq

import (
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"zgo.at/zdbi/drivers"
	"zgo.at/zdbi/drivers/sqlconn"
)

func TestErrUnqiue(t *testing.T) {
	tests := []struct {
		err   error
		check func(error) bool
		want  bool
	}{
		{&pq.Error{}, driver{}.ErrUnique, false},
		{&pq.Error{Code: "123"}, driver{}.ErrUnique, false},
		{&pq.Error{Code: "23505"}, driver{}.ErrUnique, true},
		{fmt.Errorf("X: %w", &pq.Error{Code: "23505"}), driver{}.ErrUnique, true},
	}

	for i, tt := range tests {
		t.Run(fmt.Sprintf("%d", i), func(t *testing.T) {
			out := tt.check(tt.err)
			if out != tt.want {
				t.Errorf("out: %t; want: %t", out, tt.want)
			}
		})
	}
}

func TestConn(t *testing.T) {
	c := driver{}.Conn()
	c.SetOption("dbname", "zdbi test")
	c.SetOption("username", "martin")
	c.SetOptionInt("port", 5432)

	tests := []struct {
		in, want string
	}{
		{`hello`, `'hello'`},
		{`it's`, `'it''s'`},
		{`back\slash`, ` E'back\\slash'`},
	}
	for _, tt := range tests {
		got, err := c.QuoteString(tt.in)
		if err != nil {
			t.Fatal(err)
		}
		if got != tt.want {
			t.Errorf("QuoteString(%q) = %q; want %q", tt.in, got, tt.want)
		}
	}

	if q := lastIDQuery(""); q != `select lastval()` {
		t.Error(q)
	}
	if q := lastIDQuery("test_id_seq"); q != `select currval('test_id_seq')` {
		t.Error(q)
	}
}

func TestOpenError(t *testing.T) {
	err := openError(sqlconn.Options{Strings: map[string]string{"dbname": "x"}}, &pq.Error{Code: "3D000"})
	var neErr *drivers.NotExistError
	if !errors.As(err, &neErr) || neErr.DB != "x" {
		t.Errorf("wrong error: %#v", err)
	}

	orig := errors.New("oh noes")
	if err := openError(sqlconn.Options{}, orig); err != orig {
		t.Errorf("wrong error: %#v", err)
	}
}
