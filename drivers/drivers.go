// Package drivers contains the backend interface for zdbi, and a registry of
// backends.
//
// A backend is registered by importing its package, for example:
//
//	import _ "zgo.at/zdbi/drivers/go-sqlite3"
package drivers

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// NotExistError is returned by a driver when a database doesn't exist.
type NotExistError struct {
	Driver string // Driver name
	DB     string // Database name
}

func (err NotExistError) Error() string {
	return fmt.Sprintf("%s database %q doesn't exist", err.Driver, err.DB)
}

// Driver for a SQL connection.
type Driver interface {
	// Name of this driver, as used in the connection string.
	Name() string

	// SQL dialect for the database engine; "sqlite", "postgresql", "mysql",
	// or "mariadb".
	Dialect() string

	// Conn creates a new unopened connection. Options are applied with
	// SetOption() and SetOptionInt() before calling Open().
	Conn() Conn

	// ErrUnique reports if this error reports a UNIQUE constraint violation.
	ErrUnique(error) bool
}

// Conn is a single connection to a database.
//
// A Conn is not safe for concurrent use.
type Conn interface {
	// SetOption sets a string option; it's an error if the option is not
	// supported.
	SetOption(key, value string) error
	// SetOptionInt sets a numeric option.
	SetOptionInt(key string, value int) error

	// Open the connection with the options set so far.
	Open(ctx context.Context) error
	// Close the connection; it's not an error to close a connection that
	// was never opened.
	Close() error

	// QuoteString returns s as a quoted SQL string literal, including the
	// surrounding quotes.
	QuoteString(s string) (string, error)

	// Execute the query. The Result must be released with Free().
	Execute(ctx context.Context, query string) (Result, error)

	// LastSequenceValue gets the last inserted ID. The sequence name is
	// ignored by engines that don't need it.
	LastSequenceValue(ctx context.Context, seq string) (uint64, error)
}

// Result is a result set returned by Execute.
//
// Column positions are 1-based.
type Result interface {
	Rows() uint64     // Number of rows.
	Affected() uint64 // Number of affected rows.
	Cols() int        // Number of columns.

	// Next advances to the next row, returning false if there are no more
	// rows. The first call moves to the first row.
	Next() bool

	// ColumnIndex gets the position of the named column.
	ColumnIndex(name string) (int, bool)

	// Columns gets the column names.
	Columns() []string

	// IsNull reports if the column in the current row is NULL.
	IsNull(col int) bool

	// Value gets the value of the column in the current row, as one of nil,
	// int64, float64, bool, []byte, string, or time.Time.
	Value(col int) any

	// Free the result.
	Free()
}

// Initializer is implemented by drivers that need process-wide setup before
// the first connection.
type Initializer interface {
	Init() error
}

// Shutdowner is implemented by drivers that need process-wide cleanup after
// the last connection is closed.
type Shutdowner interface {
	Shutdown() error
}

var (
	drivers   = make(map[string]Driver)
	driversMu sync.Mutex
)

// RegisterDriver registers a new Driver.
func RegisterDriver(d Driver) {
	driversMu.Lock()
	defer driversMu.Unlock()

	_, ok := drivers[d.Name()]
	if ok {
		panic(fmt.Sprintf("zdbi.RegisterDriver: driver %q is already registered", d.Name()))
	}
	drivers[d.Name()] = d
}

// Get a driver by name.
func Get(name string) (Driver, bool) {
	driversMu.Lock()
	defer driversMu.Unlock()
	d, ok := drivers[name]
	return d, ok
}

// Drivers returns a list of currently registered drivers, sorted by name.
func Drivers() []Driver {
	driversMu.Lock()
	defer driversMu.Unlock()

	d := make([]Driver, 0, len(drivers))
	for _, v := range drivers {
		d = append(d, v)
	}
	sort.Slice(d, func(i, j int) bool { return d[i].Name() < d[j].Name() })
	return d
}

// Test replaces the registry with an empty one, returning a function to
// restore it.
func Test() func() {
	driversMu.Lock()
	defer driversMu.Unlock()

	save := make(map[string]Driver)
	for k, v := range drivers {
		save[k] = v
	}
	drivers = make(map[string]Driver)
	return func() {
		driversMu.Lock()
		defer driversMu.Unlock()
		drivers = save
	}
}
