package zdbi

import (
	"database/sql"
	"database/sql/driver"
	"errors"
	"math"
	"strconv"
	"strings"
	"time"
)

// Date format for SQL.
const Date = "2006-01-02 15:04:05"

// Scalar is the set of types that can be bound and fetched.
type Scalar interface {
	int | int8 | int16 | int32 | int64 |
		uint | uint8 | uint16 | uint32 | uint64 |
		float32 | float64 | string | bool | []byte | time.Time
}

// Null is a NULL value.
type Null struct{}

// Value is a value to bind to a placeholder.
type Value struct {
	v    any // nil, int64, uint64, float64, string, []byte, bool, or time.Time
	bits int // 32 or 64 for floats.
	null bool
}

// Use creates a Value which is NULL if isNull is set, irrespective of v.
//
//	s.Query(`insert into t values (?)`).Bind(zdbi.Use(n, n == 0))
func Use[T Scalar](v T, isNull bool) Value {
	val, _ := NewValue(v)
	val.null = val.null || isNull
	return val
}

// NewValue creates a new value from one of the Scalar types, nil, Null,
// Value, or a driver.Valuer.
func NewValue(v any) (Value, error) {
	switch vv := v.(type) {
	case Value:
		return vv, nil
	case nil, Null:
		return Value{null: true}, nil
	case int:
		return Value{v: int64(vv)}, nil
	case int8:
		return Value{v: int64(vv)}, nil
	case int16:
		return Value{v: int64(vv)}, nil
	case int32:
		return Value{v: int64(vv)}, nil
	case int64:
		return Value{v: vv}, nil
	case uint:
		return Value{v: uint64(vv)}, nil
	case uint8:
		return Value{v: uint64(vv)}, nil
	case uint16:
		return Value{v: uint64(vv)}, nil
	case uint32:
		return Value{v: uint64(vv)}, nil
	case uint64:
		return Value{v: vv}, nil
	case float32:
		return Value{v: float64(vv), bits: 32}, nil
	case float64:
		return Value{v: vv, bits: 64}, nil
	case string:
		return Value{v: vv}, nil
	case []byte:
		if vv == nil {
			return Value{null: true}, nil
		}
		return Value{v: vv}, nil
	case bool:
		return Value{v: vv}, nil
	case time.Time:
		return Value{v: vv}, nil
	case driver.Valuer:
		dv, err := vv.Value()
		if err != nil {
			return Value{}, &ConversionError{Value: v, To: "SQL value", Err: err}
		}
		if _, ok := dv.(driver.Valuer); ok {
			return Value{}, &ConversionError{Value: v, To: "SQL value", Err: errors.New("Value() returned a driver.Valuer")}
		}
		return NewValue(dv)
	}
	return Value{}, &ConversionError{Value: v, To: "SQL value", Err: errors.New("unsupported type")}
}

// IsNull reports if this is a NULL value.
func (v Value) IsNull() bool { return v.null }

// Quoter quotes strings as SQL string literals.
type Quoter interface {
	QuoteString(string) (string, error)
}

// Literal gets the value as a SQL literal. Strings are quoted with q.
func (v Value) Literal(q Quoter) (string, error) {
	if v.null {
		return "NULL", nil
	}

	switch vv := v.v.(type) {
	case int64:
		return strconv.FormatInt(vv, 10), nil
	case uint64:
		return strconv.FormatUint(vv, 10), nil
	case float64:
		if math.IsNaN(vv) || math.IsInf(vv, 0) {
			return "", &ConversionError{Value: vv, To: "SQL literal", Err: errors.New("not a finite number")}
		}
		// Shortest representation that parses back to exactly the same
		// value.
		return strconv.FormatFloat(vv, 'g', -1, v.bits), nil
	case bool:
		if vv {
			return "TRUE", nil
		}
		return "FALSE", nil
	case time.Time:
		return vv.Format("'" + Date + "'"), nil
	case string:
		return quote(q, vv)
	case []byte:
		return quote(q, string(vv))
	}
	return "", &InternalError{Msg: "Value.Literal: unknown type"}
}

func quote(q Quoter, s string) (string, error) {
	if s == "" {
		return "''", nil
	}
	return q.QuoteString(s)
}

// Time formats accepted when converting text columns to time.Time.
var timeFormats = []string{
	Date,
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02T15:04:05.999999999",
	time.RFC3339Nano,
	"2006-01-02",
}

// convertAssign stores the native column value src in dest.
func convertAssign(col int, dest, src any) error {
	var err error
	switch d := dest.(type) {
	case *any:
		*d = src
	case *string:
		*d, err = toString(src)
	case *[]byte:
		var s string
		s, err = toString(src)
		if err == nil {
			*d = []byte(s)
		}
	case *bool:
		*d, err = toBool(src)
	case *time.Time:
		*d, err = toTime(src)

	case *int:
		err = setInt(d, src)
	case *int8:
		err = setInt(d, src)
	case *int16:
		err = setInt(d, src)
	case *int32:
		err = setInt(d, src)
	case *int64:
		err = setInt(d, src)

	case *uint:
		err = setUint(d, src)
	case *uint8:
		err = setUint(d, src)
	case *uint16:
		err = setUint(d, src)
	case *uint32:
		err = setUint(d, src)
	case *uint64:
		err = setUint(d, src)

	case *float32:
		var f float64
		f, err = toFloat(src)
		if err == nil {
			if math.Abs(f) > math.MaxFloat32 && !math.IsInf(f, 0) {
				err = errors.New("value out of range")
			} else {
				*d = float32(f)
			}
		}
	case *float64:
		*d, err = toFloat(src)

	case sql.Scanner:
		err = d.Scan(src)
	default:
		err = errors.New("unsupported destination type")
	}
	if err != nil {
		return &ConversionError{Col: col, Value: src, To: typeName(dest), Err: err}
	}
	return nil
}

func typeName(dest any) string {
	switch dest.(type) {
	case *string:
		return "string"
	case *[]byte:
		return "[]byte"
	case *bool:
		return "bool"
	case *time.Time:
		return "time.Time"
	case *int, *int8, *int16, *int32, *int64:
		return "signed integer"
	case *uint, *uint8, *uint16, *uint32, *uint64:
		return "unsigned integer"
	case *float32, *float64:
		return "float"
	}
	return "destination"
}

func toString(src any) (string, error) {
	switch s := src.(type) {
	case string:
		return s, nil
	case []byte:
		return string(s), nil
	case int64:
		return strconv.FormatInt(s, 10), nil
	case uint64:
		return strconv.FormatUint(s, 10), nil
	case float64:
		return strconv.FormatFloat(s, 'g', -1, 64), nil
	case bool:
		return strconv.FormatBool(s), nil
	case time.Time:
		return s.Format(Date), nil
	}
	return "", errors.New("unsupported source type")
}

func toBool(src any) (bool, error) {
	switch s := src.(type) {
	case bool:
		return s, nil
	case int64:
		return s != 0, nil
	case uint64:
		return s != 0, nil
	case float64:
		return s != 0, nil
	case string:
		return strconv.ParseBool(strings.TrimSpace(s))
	case []byte:
		return strconv.ParseBool(strings.TrimSpace(string(s)))
	}
	return false, errors.New("unsupported source type")
}

func toTime(src any) (time.Time, error) {
	var s string
	switch ss := src.(type) {
	case time.Time:
		return ss, nil
	case int64:
		return time.Unix(ss, 0).UTC(), nil
	case string:
		s = ss
	case []byte:
		s = string(ss)
	default:
		return time.Time{}, errors.New("unsupported source type")
	}

	s = strings.TrimSpace(s)
	for _, f := range timeFormats {
		t, err := time.Parse(f, s)
		if err == nil {
			return t, nil
		}
	}
	return time.Time{}, errors.New("unrecognized time format")
}

func toFloat(src any) (float64, error) {
	switch s := src.(type) {
	case float64:
		return s, nil
	case int64:
		return float64(s), nil
	case uint64:
		return float64(s), nil
	case bool:
		if s {
			return 1, nil
		}
		return 0, nil
	case string:
		return strconv.ParseFloat(strings.TrimSpace(s), 64)
	case []byte:
		return strconv.ParseFloat(strings.TrimSpace(string(s)), 64)
	}
	return 0, errors.New("unsupported source type")
}

func toInt64(src any) (int64, error) {
	switch s := src.(type) {
	case int64:
		return s, nil
	case uint64:
		if s > math.MaxInt64 {
			return 0, errors.New("value out of range")
		}
		return int64(s), nil
	case float64:
		if math.IsNaN(s) || s >= math.MaxInt64 || s < math.MinInt64 {
			return 0, errors.New("value out of range")
		}
		return int64(s), nil
	case bool:
		if s {
			return 1, nil
		}
		return 0, nil
	case string, []byte:
		str, _ := toString(s)
		str = strings.TrimSpace(str)
		n, err := strconv.ParseInt(str, 10, 64)
		if err != nil {
			f, ferr := strconv.ParseFloat(str, 64)
			if ferr != nil {
				return 0, err
			}
			return toInt64(f)
		}
		return n, nil
	}
	return 0, errors.New("unsupported source type")
}

func toUint64(src any) (uint64, error) {
	switch s := src.(type) {
	case uint64:
		return s, nil
	case int64:
		if s < 0 {
			return 0, errors.New("value out of range")
		}
		return uint64(s), nil
	case float64:
		if math.IsNaN(s) || s < 0 || s >= math.MaxUint64 {
			return 0, errors.New("value out of range")
		}
		return uint64(s), nil
	case bool:
		if s {
			return 1, nil
		}
		return 0, nil
	case string, []byte:
		str, _ := toString(s)
		str = strings.TrimSpace(str)
		n, err := strconv.ParseUint(str, 10, 64)
		if err != nil {
			f, ferr := strconv.ParseFloat(str, 64)
			if ferr != nil {
				return 0, err
			}
			return toUint64(f)
		}
		return n, nil
	}
	return 0, errors.New("unsupported source type")
}

func setInt[T int | int8 | int16 | int32 | int64](dest *T, src any) error {
	n, err := toInt64(src)
	if err != nil {
		return err
	}
	if int64(T(n)) != n {
		return errors.New("value out of range")
	}
	*dest = T(n)
	return nil
}

func setUint[T uint | uint8 | uint16 | uint32 | uint64](dest *T, src any) error {
	n, err := toUint64(src)
	if err != nil {
		return err
	}
	if uint64(T(n)) != n {
		return errors.New("value out of range")
	}
	*dest = T(n)
	return nil
}
