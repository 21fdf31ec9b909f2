package zdbi

import (
	"database/sql"
	"errors"
	"math"
	"strconv"
	"testing"
	"time"

	"zgo.at/zstd/ztest"
)

func TestLiteral(t *testing.T) {
	date := time.Date(2020, 6, 18, 1, 2, 3, 4, time.UTC)

	tests := []struct {
		in      any
		want    string
		wantErr string
	}{
		{nil, "NULL", ""},
		{42, "42", ""},
		{int64(math.MinInt64), "-9223372036854775808", ""},
		{uint8(255), "255", ""},
		{1.5, "1.5", ""},
		{1e100, "1e+100", ""},
		{date, "'2020-06-18 01:02:03'", ""},
		{"x", "'x'", ""},
		{sql.NullString{}, "NULL", ""},
		{sql.NullString{Valid: true, String: "a"}, "'a'", ""},
		{sql.NullInt64{Valid: true, Int64: 7}, "7", ""},
		{math.NaN(), "", "not a finite number"},
		{math.Inf(1), "", "not a finite number"},
		{struct{}{}, "", "unsupported type"},
		{[]int{1}, "", "unsupported type"},
	}

	for _, tt := range tests {
		t.Run("", func(t *testing.T) {
			v, err := NewValue(tt.in)
			var have string
			if err == nil {
				have, err = v.Literal(stdQuoter{})
			}
			if !ztest.ErrorContains(err, tt.wantErr) {
				t.Fatalf("wrong error: %v", err)
			}
			if have != tt.want {
				t.Errorf("\nhave: %s\nwant: %s", have, tt.want)
			}
		})
	}
}

// The literal for a float parses back to exactly the same value.
func TestLiteralFloatRoundTrip(t *testing.T) {
	tests := []float64{
		0, 0.1, 1.0 / 3, math.Pi, -math.E, math.MaxFloat64, math.SmallestNonzeroFloat64,
		1e-300, 123456789.123456789, 5e-324,
	}
	for _, f := range tests {
		v, _ := NewValue(f)
		lit, err := v.Literal(stdQuoter{})
		if err != nil {
			t.Fatal(err)
		}
		back, err := strconv.ParseFloat(lit, 64)
		if err != nil {
			t.Fatal(err)
		}
		if back != f {
			t.Errorf("%v → %s → %v", f, lit, back)
		}
	}

	for _, f := range []float32{0.1, 1.0 / 3, math.MaxFloat32, math.SmallestNonzeroFloat32} {
		v, _ := NewValue(f)
		lit, err := v.Literal(stdQuoter{})
		if err != nil {
			t.Fatal(err)
		}
		back, err := strconv.ParseFloat(lit, 32)
		if err != nil {
			t.Fatal(err)
		}
		if float32(back) != f {
			t.Errorf("%v → %s → %v", f, lit, back)
		}
	}
}

func TestUse(t *testing.T) {
	if v := Use("", true); !v.IsNull() {
		t.Error("not null")
	}
	if v := Use(0, false); v.IsNull() {
		t.Error("null")
	}
	if v := Use([]byte(nil), false); !v.IsNull() {
		t.Error("nil []byte not null")
	}
}

func TestConvertAssign(t *testing.T) {
	t.Run("int", func(t *testing.T) {
		var (
			i8  int8
			u8  uint8
			i64 int64
			u   uint
		)
		tests := []struct {
			dest    any
			src     any
			wantErr string
		}{
			{&i8, int64(127), ""},
			{&i8, int64(128), "value out of range"},
			{&i8, int64(-129), "value out of range"},
			{&u8, int64(255), ""},
			{&u8, int64(256), "value out of range"},
			{&u8, int64(-1), "value out of range"},
			{&u, int64(-1), "value out of range"},
			{&i64, uint64(math.MaxUint64), "value out of range"},
			{&i64, "42", ""},
			{&i64, []byte(" 43 "), ""},
			{&i64, "x", "invalid syntax"},
			{&i64, 2.0, ""},
			{&i64, 1e20, "value out of range"},
		}
		for _, tt := range tests {
			err := convertAssign(1, tt.dest, tt.src)
			if !ztest.ErrorContains(err, tt.wantErr) {
				t.Errorf("%T ← %#v: wrong error: %v", tt.dest, tt.src, err)
			}
			if err != nil {
				var cErr *ConversionError
				if !errors.As(err, &cErr) || cErr.Col != 1 {
					t.Errorf("not a ConversionError: %#v", err)
				}
			}
		}
		if i8 != 127 || u8 != 255 || i64 != 2 {
			t.Errorf("i8=%d u8=%d i64=%d", i8, u8, i64)
		}
	})

	t.Run("other", func(t *testing.T) {
		var (
			s  string
			b  bool
			f  float64
			f3 float32
			tm time.Time
			bs []byte
			a  any
			ns sql.NullString
		)
		must := func(dest, src any) {
			t.Helper()
			if err := convertAssign(1, dest, src); err != nil {
				t.Fatal(err)
			}
		}
		must(&s, int64(5))
		must(&b, "true")
		must(&f, "1.5")
		must(&f3, 0.5)
		must(&tm, "2020-06-18 01:02:03")
		must(&bs, "blob")
		must(&a, int64(9))
		must(&ns, "ns")

		if s != "5" || !b || f != 1.5 || f3 != 0.5 || string(bs) != "blob" || a != int64(9) || ns.String != "ns" {
			t.Errorf("s=%q b=%t f=%f f3=%f bs=%q a=%v ns=%v", s, b, f, f3, bs, a, ns)
		}
		if want := time.Date(2020, 6, 18, 1, 2, 3, 0, time.UTC); !tm.Equal(want) {
			t.Errorf("tm=%s", tm)
		}

		err := convertAssign(1, &f3, 1e300)
		if !ztest.ErrorContains(err, "value out of range") {
			t.Errorf("wrong error: %v", err)
		}
		err = convertAssign(1, &b, "maybe")
		if !ztest.ErrorContains(err, "cannot convert string") {
			t.Errorf("wrong error: %v", err)
		}
		err = convertAssign(1, new(struct{}), "x")
		if !ztest.ErrorContains(err, "unsupported destination type") {
			t.Errorf("wrong error: %v", err)
		}
	})
}
