package zdbi

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"zgo.at/zdbi/drivers"
)

// Session is a connection to a database.
//
// Queries are built by setting a query with Query() and binding values to
// the ? placeholders with Bind(), after which it can be run with Exec(),
// Fetch(), or Single():
//
//	err := s.Query(`insert into t (a, b) values (?, ?)`).Bind(10, zdbi.Null{}).Exec(ctx)
//
//	var row zdbi.Row
//	ok, err := s.Query(`select name from t where id=?`).Bind(5).Single(ctx, &row)
//
// The first error from Query() or Bind() is kept, and returned from Err() and
// the next Exec(), Fetch(), or Single().
//
// A Session is not safe for concurrent use.
//
// A connected Session must be closed with Close() (or Shutdown()); open
// sessions are tracked for Shutdown() and are never garbage collected.
type Session struct {
	driver drivers.Driver
	conn   drivers.Conn
	strs   map[string]string
	ints   map[string]int

	tpl      Template
	err      error
	affected uint64
	tx       *Tx

	log     *queryLog
	metrics MetricRecorder
}

// New creates a new unconnected session.
func New() *Session {
	return &Session{
		strs: make(map[string]string),
		ints: make(map[string]int),
	}
}

// Open creates a new session.
//
// If driverOrConnect is a connection string it connects to the database (see
// Connect()). Otherwise it's used as the driver name, and you need to call
// Param() and ConnectStaged() to connect.
func Open(ctx context.Context, driverOrConnect string) (*Session, error) {
	s := New()
	if strings.ContainsRune(driverOrConnect, ':') {
		return s, s.Connect(ctx, driverOrConnect)
	}
	return s, s.SetDriver(driverOrConnect)
}

// SetDriver sets the driver, closing any existing connection.
func (s *Session) SetDriver(name string) error {
	if err := s.Close(); err != nil {
		return fmt.Errorf("zdbi.SetDriver: %w", err)
	}
	d, ok := drivers.Get(name)
	if !ok {
		return fmt.Errorf("zdbi.SetDriver: %w: %q", ErrUnknownDriver, name)
	}
	s.driver = d
	return nil
}

// DriverName gets the current driver name, or an empty string if no driver
// is set.
func (s *Session) DriverName() string {
	if s.driver == nil {
		return ""
	}
	return s.driver.Name()
}

// Dialect gets the SQL dialect for the current driver.
func (s *Session) Dialect() string {
	if s.driver == nil {
		return ""
	}
	return s.driver.Dialect()
}

// Param sets a string connection option, to be used on the next connect.
func (s *Session) Param(key, value string) {
	delete(s.ints, key)
	s.strs[key] = value
}

// ParamInt sets a numeric connection option, to be used on the next connect.
func (s *Session) ParamInt(key string, value int) {
	delete(s.strs, key)
	s.ints[key] = value
}

// Connect to a database with a connection string in the form of:
//
//	driver:key=value[;key=value]*
//
// A value is either quoted with single quotes or runs until the next ";". A
// literal quote inside a quoted value is written as two quotes. Bare values
// that look like an integer are set as numeric options.
//
// For example:
//
//	sqlite3:dbname=test.db;sqlite3_dbdir=./
//	mysql:username='root';password='x''s;d';port=3306
//
// The first is the same as:
//
//	s.SetDriver("sqlite3")
//	s.Param("dbname", "test.db")
//	s.Param("sqlite3_dbdir", "./")
//	s.ConnectStaged(ctx)
func (s *Session) Connect(ctx context.Context, connect string) error {
	opts, err := parseConnect(connect)
	if err != nil {
		return fmt.Errorf("zdbi.Connect: %w", err)
	}
	if err := s.SetDriver(opts.Driver); err != nil {
		return fmt.Errorf("zdbi.Connect: %w", err)
	}
	s.strs, s.ints = opts.Strings, opts.Ints
	return s.ConnectStaged(ctx)
}

// ConnectStaged connects to the database using the driver and options set
// with SetDriver(), Param(), and ParamInt().
//
// Any existing connection is closed first.
func (s *Session) ConnectStaged(ctx context.Context) error {
	if s.driver == nil {
		return fmt.Errorf("zdbi.Connect: no driver: %w", ErrNotConnected)
	}
	if err := s.Close(); err != nil {
		return fmt.Errorf("zdbi.Connect: %w", err)
	}

	if err := acquire(s, s.driver); err != nil {
		return fmt.Errorf("zdbi.Connect: %w", err)
	}
	conn := s.driver.Conn()
	fail := func(err error) error {
		conn.Close()
		release(s)
		return fmt.Errorf("zdbi.Connect: %w", &BackendError{Driver: s.driver.Name(), Err: err})
	}

	for _, k := range sortedKeys(s.strs) {
		if err := conn.SetOption(k, s.strs[k]); err != nil {
			return fail(err)
		}
	}
	for _, k := range sortedKeys(s.ints) {
		if err := conn.SetOptionInt(k, s.ints[k]); err != nil {
			return fail(err)
		}
	}
	if err := conn.Open(ctx); err != nil {
		return fail(err)
	}

	s.conn = conn
	return nil
}

// Reconnect closes the connection and connects again with the same driver
// and options.
func (s *Session) Reconnect(ctx context.Context) error {
	return s.ConnectStaged(ctx)
}

// Connected reports if the session has an open connection.
func (s *Session) Connected() bool { return s.conn != nil }

// Close the connection. It's not an error to close a session that's not
// connected.
func (s *Session) Close() error {
	if s.conn == nil {
		return nil
	}
	// The database discards uncommitted transactions.
	if s.tx != nil {
		s.tx.state = txRolledBack
		s.tx = nil
	}

	err := s.conn.Close()
	s.conn = nil
	release(s)
	if err != nil {
		return fmt.Errorf("zdbi.Close: %w", &BackendError{Driver: s.DriverName(), Err: err})
	}
	return nil
}

// QuoteString quotes s as a string literal for the current connection.
func (s *Session) QuoteString(str string) (string, error) {
	if s.conn == nil {
		return "", ErrNotConnected
	}
	return s.conn.QuoteString(str)
}

// Query sets a new query, replacing the previous one.
//
// Placeholders are marked with "?"; strings should not be quoted as this is
// done automatically:
//
//	s.Query(`select * from users where name=?`).Bind(username)
func (s *Session) Query(query string) *Session {
	s.err = nil
	if err := s.tpl.Reset(query); err != nil {
		s.err = fmt.Errorf("zdbi.Query: %w", err)
	}
	return s
}

// Bind values to the next placeholders.
//
// The values can be any of the Scalar types, nil or Null for NULL, a Value
// created with Use(), or a driver.Valuer (such as sql.NullString).
func (s *Session) Bind(values ...any) *Session {
	for _, v := range values {
		if s.err != nil {
			return s
		}
		if err := s.tpl.Bind(s, v); err != nil {
			s.err = fmt.Errorf("zdbi.Bind: %w", err)
		}
	}
	return s
}

// Err gets the first error from Query() or Bind().
func (s *Session) Err() error { return s.err }

// Statement gets the escaped statement built so far.
func (s *Session) Statement() string { return s.tpl.String() }

// Affected gets the number of rows affected by the last Exec().
func (s *Session) Affected() uint64 { return s.affected }

// Rowid gets the last inserted ID. PostgreSQL requires a sequence name
// (usually "[table]_[column]_seq"); it's ignored by other engines.
func (s *Session) Rowid(ctx context.Context, seq string) (uint64, error) {
	if s.conn == nil {
		return 0, fmt.Errorf("zdbi.Rowid: %w", ErrNotConnected)
	}
	id, err := s.conn.LastSequenceValue(ctx, seq)
	if err != nil {
		return 0, fmt.Errorf("zdbi.Rowid: %w", &BackendError{Driver: s.DriverName(), Err: err})
	}
	return id, nil
}

// ErrUnique reports if this error reports a UNIQUE constraint violation.
func (s *Session) ErrUnique(err error) bool {
	return s.driver != nil && s.driver.ErrUnique(err)
}

// Exec executes the statement, which may not return any rows.
func (s *Session) Exec(ctx context.Context) error {
	res, err := s.execute(ctx)
	if err != nil {
		return fmt.Errorf("zdbi.Exec: %w", err)
	}
	defer res.Free()

	if res.Rows() != 0 {
		return fmt.Errorf("zdbi.Exec: %w", ErrResultNotEmpty)
	}
	s.affected = res.Affected()
	return nil
}

// Fetch executes the statement and stores the result in r, replacing
// anything that was previously in r.
func (s *Session) Fetch(ctx context.Context, r *Result) error {
	res, err := s.execute(ctx)
	if err != nil {
		return fmt.Errorf("zdbi.Fetch: %w", err)
	}
	r.assign(res)
	return nil
}

// Single executes the statement, which should return one row at the most.
//
// It returns false and an empty row if there are no rows, and true if there
// is one row. The row must be closed with Row.Close().
func (s *Session) Single(ctx context.Context, row *Row) (bool, error) {
	res, err := s.execute(ctx)
	if err != nil {
		return false, fmt.Errorf("zdbi.Single: %w", err)
	}

	switch res.Rows() {
	case 0:
		res.Free()
		row.reset()
		return false, nil
	case 1:
		row.assign(res)
		return true, nil
	default:
		res.Free()
		row.reset()
		return false, fmt.Errorf("zdbi.Single: %w", ErrMultipleRows)
	}
}

// SingleScan is like Single(), but scans the row in to dest.
//
//	var name string
//	ok, err := s.Query(`select name from t where id=?`).Bind(5).SingleScan(ctx, &name)
func (s *Session) SingleScan(ctx context.Context, dest ...any) (bool, error) {
	var row Row
	defer row.Close()

	ok, err := s.Single(ctx, &row)
	if err != nil || !ok {
		return ok, err
	}
	return true, row.Scan(dest...)
}

// execute the current statement.
func (s *Session) execute(ctx context.Context) (drivers.Result, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.conn == nil {
		return nil, ErrNotConnected
	}
	if !s.tpl.Complete() {
		return nil, ErrIncompleteBind
	}

	query := s.tpl.String()
	s.tpl.clear()
	return s.run(ctx, query)
}

// run a query on the connection, bypassing the template.
func (s *Session) run(ctx context.Context, query string) (drivers.Result, error) {
	start := time.Now()
	res, err := s.conn.Execute(ctx, query)
	took := time.Since(start)

	if s.metrics != nil {
		s.metrics.Record(took, query)
	}
	if s.log != nil {
		s.log.write(query, took, err)
	}
	if err != nil {
		return nil, &BackendError{Driver: s.DriverName(), Query: query, Err: err}
	}
	return res, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
