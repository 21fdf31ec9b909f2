package sqlconn

import (
	"fmt"
	"reflect"
	"testing"
)

func TestReturnsRows(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{`select 1`, true},
		{`  SELECT * from t`, true},
		{`with x as (select 1) select * from x`, true},
		{`pragma table_info(t)`, true},
		{`insert into t values (1)`, false},
		{`insert into t values (1) returning id`, true},
		{`insert into t values ('returning')`, false},
		{`insert into t values ('it''s returning')`, false},
		{`update t set "returning"=1`, false},
		{`delete from t`, false},
		{`create table t (c text)`, false},
		{`begin`, false},
		{``, false},
	}

	for i, tt := range tests {
		t.Run(fmt.Sprintf("%d", i), func(t *testing.T) {
			got := ReturnsRows(tt.in)
			if got != tt.want {
				t.Errorf("ReturnsRows(%q) = %t; want %t", tt.in, got, tt.want)
			}
		})
	}
}

func TestOptions(t *testing.T) {
	c := New(Config{})
	c.SetOption("dbname", "x")
	c.SetOptionInt("port", 5432)
	c.SetOption("host", "localhost")
	c.SetOptionInt("dbname", 1) // Replaces the string option.

	if err := c.SetOption("", "x"); err == nil {
		t.Error("no error for empty key")
	}

	if v, ok := c.opts.Get("port"); !ok || v != "5432" {
		t.Errorf("port: %q %t", v, ok)
	}
	if _, ok := c.opts.Strings["dbname"]; ok {
		t.Error("dbname still a string option")
	}

	got := c.opts.Keys("host")
	want := []string{"dbname", "port"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("\ngot:  %q\nwant: %q", got, want)
	}

	c.SetOption("port", "abc")
	if _, _, err := c.opts.Int("port"); err == nil {
		t.Error("no error for non-numeric port")
	}
}

func TestResult(t *testing.T) {
	r := NewResult([]string{"id", "Name"}, [][]any{{int64(1), "a"}, {int64(2), nil}}, 0)

	if r.Rows() != 2 || r.Cols() != 2 {
		t.Fatalf("rows=%d cols=%d", r.Rows(), r.Cols())
	}
	if r.Value(1) != nil {
		t.Error("value before Next")
	}

	if !r.Next() {
		t.Fatal("Next false")
	}
	if r.Value(2) != "a" {
		t.Errorf("%#v", r.Value(2))
	}
	if i, ok := r.ColumnIndex("name"); !ok || i != 2 {
		t.Errorf("ColumnIndex: %d %t", i, ok)
	}

	r.Next()
	if !r.IsNull(2) || r.IsNull(1) {
		t.Error("IsNull wrong")
	}
	if r.Next() || r.Next() {
		t.Error("Next true after end")
	}
}

func TestQuoteStandard(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{``, `''`},
		{`x`, `'x'`},
		{`it's`, `'it''s'`},
		{`''`, `''''''`},
	}
	for _, tt := range tests {
		got := QuoteStandard(tt.in)
		if got != tt.want {
			t.Errorf("QuoteStandard(%q) = %q; want %q", tt.in, got, tt.want)
		}
	}
}

func TestKeywordDSN(t *testing.T) {
	opts := Options{
		Strings: map[string]string{"dbname": "my db", "username": "martin", "password": `it's\`, "sslmode": ""},
		Ints:    map[string]int{"port": 5432},
	}
	got := KeywordDSN(opts, map[string]string{"username": "user"})
	want := `dbname='my db' password='it\'s\\' port=5432 sslmode='' user=martin`
	if got != want {
		t.Errorf("\ngot:  %s\nwant: %s", got, want)
	}
}
