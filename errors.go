package zdbi

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotConnected is returned for operations that need a connection on a
	// session without one.
	ErrNotConnected = errors.New("not connected")

	// ErrUnknownDriver is returned when selecting a driver that isn't
	// registered.
	ErrUnknownDriver = errors.New("unknown driver")

	// ErrBindOrder is returned when binding more values than there are
	// placeholders.
	ErrBindOrder = errors.New("more values bound than placeholders")

	// ErrIncompleteBind is returned when executing a query before all
	// placeholders have a value.
	ErrIncompleteBind = errors.New("not all parameters bound")

	// ErrNullValue is returned by Get() for NULL columns.
	ErrNullValue = errors.New("null value fetch")

	// ErrResultNotEmpty is returned by Exec() if the statement returned rows.
	ErrResultNotEmpty = errors.New("exec() query may not return rows")

	// ErrMultipleRows is returned by Single() if the statement returned more
	// than one row.
	ErrMultipleRows = errors.New("single() query returned more than one row")

	// ErrBindingOverflow is returned by the Binder when declaring more fields
	// than there are columns.
	ErrBindingOverflow = errors.New("more fields than columns")

	// ErrResultAdvanced is returned by the Binder for a result that was
	// already read from.
	ErrResultAdvanced = errors.New("result was already advanced")

	// ErrTxClosed is returned when committing or rolling back a transaction
	// that was already committed or rolled back.
	ErrTxClosed = errors.New("transaction already closed")
)

// ConnectionStringError is returned for malformed connection strings.
type ConnectionStringError struct {
	Connect string // Full connection string.
	Pos     int    // Byte offset of the problem.
	Msg     string
}

func (err ConnectionStringError) Error() string {
	return fmt.Sprintf("connection string %q: %s at position %d", err.Connect, err.Msg, err.Pos)
}

// BackendError is an error reported by the database backend.
type BackendError struct {
	Driver string // Driver name.
	Query  string // Escaped statement, if any.
	Err    error
}

func (err BackendError) Error() string {
	var b strings.Builder
	b.WriteString(err.Driver)
	b.WriteString(": ")
	b.WriteString(err.Err.Error())
	if err.Query != "" {
		b.WriteString("\nquery: ")
		b.WriteString(err.Query)
	}
	return b.String()
}

func (err BackendError) Unwrap() error { return err.Err }

// MalformedTemplateError is returned for query templates that can't be
// scanned.
type MalformedTemplateError struct {
	Template string
	Pos      int // Byte offset of the opening quote.
	Msg      string
}

func (err MalformedTemplateError) Error() string {
	return fmt.Sprintf("malformed query: %s at position %d in %q", err.Msg, err.Pos, err.Template)
}

// ColumnRangeError is returned when accessing a column that doesn't exist.
type ColumnRangeError struct {
	Col  int    // Requested column; 1-based.
	Name string // Requested column name, if accessed by name.
	Cols int    // Number of columns.
}

func (err ColumnRangeError) Error() string {
	if err.Name != "" {
		return fmt.Sprintf("no column named %q", err.Name)
	}
	return fmt.Sprintf("column %d out of range; row has %d columns", err.Col, err.Cols)
}

// ConversionError is returned when a value can't be converted to or from the
// requested type.
type ConversionError struct {
	Col   int // Column, or 0 when binding.
	Value any
	To    string
	Err   error
}

func (err ConversionError) Error() string {
	var b strings.Builder
	if err.Col > 0 {
		fmt.Fprintf(&b, "column %d: ", err.Col)
	}
	fmt.Fprintf(&b, "cannot convert %T (%v) to %s", err.Value, err.Value, err.To)
	if err.Err != nil {
		b.WriteString(": ")
		b.WriteString(err.Err.Error())
	}
	return b.String()
}

func (err ConversionError) Unwrap() error { return err.Err }

// InternalError is an invariant violation; this indicates a bug in zdbi.
type InternalError struct {
	Msg string
}

func (err InternalError) Error() string { return "zdbi internal error: " + err.Msg }
