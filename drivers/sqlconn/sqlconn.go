// Package sqlconn implements drivers.Conn on top of database/sql.
//
// Every Conn uses a single *sql.Conn from a *sql.DB that is limited to one
// open connection, so session state (transactions, last insert ID, temporary
// tables) is kept between statements.
//
// Results are read in full when the statement is executed; this is needed to
// report the number of rows before iterating.
package sqlconn

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"zgo.at/zdbi/drivers"
)

// Config for a database/sql backed connection.
type Config struct {
	// database/sql driver name, as passed to sql.Open().
	DriverName string

	// DSN builds the data source name from the options.
	DSN func(Options) (string, error)

	// Quote a string literal; the default is to double single quotes.
	Quote func(string) string

	// LastIDQuery returns the query to get the last inserted ID. If nil the
	// value from the last INSERT's sql.Result is used.
	LastIDQuery func(seq string) string

	// OpenError can replace errors from Open, for example to return a
	// drivers.NotExistError.
	OpenError func(Options, error) error
}

// Options set on a connection.
type Options struct {
	Strings map[string]string
	Ints    map[string]int
}

// Get an option as a string; numeric options are formatted in base 10.
func (o Options) Get(key string) (string, bool) {
	if v, ok := o.Strings[key]; ok {
		return v, true
	}
	if v, ok := o.Ints[key]; ok {
		return strconv.Itoa(v), true
	}
	return "", false
}

// Int gets a numeric option; string options are parsed.
func (o Options) Int(key string) (int, bool, error) {
	if v, ok := o.Ints[key]; ok {
		return v, true, nil
	}
	if v, ok := o.Strings[key]; ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return 0, true, fmt.Errorf("option %q: not a number: %q", key, v)
		}
		return n, true, nil
	}
	return 0, false, nil
}

// Keys gets all option keys in sorted order, excluding the ones in skip.
func (o Options) Keys(skip ...string) []string {
	keys := make([]string, 0, len(o.Strings)+len(o.Ints))
	add := func(k string) {
		for _, s := range skip {
			if k == s {
				return
			}
		}
		keys = append(keys, k)
	}
	for k := range o.Strings {
		add(k)
	}
	for k := range o.Ints {
		add(k)
	}
	sort.Strings(keys)
	return keys
}

var _ drivers.Conn = (*Conn)(nil)

// Conn is a drivers.Conn backed by database/sql.
type Conn struct {
	cfg  Config
	opts Options
	db   *sql.DB
	conn *sql.Conn

	lastID   int64
	haveLast bool
}

// New creates a new unopened connection.
func New(cfg Config) *Conn {
	return &Conn{cfg: cfg, opts: Options{
		Strings: make(map[string]string),
		Ints:    make(map[string]int),
	}}
}

func (c *Conn) SetOption(key, value string) error {
	if key == "" {
		return errors.New("sqlconn.SetOption: empty key")
	}
	delete(c.opts.Ints, key)
	c.opts.Strings[key] = value
	return nil
}

func (c *Conn) SetOptionInt(key string, value int) error {
	if key == "" {
		return errors.New("sqlconn.SetOptionInt: empty key")
	}
	delete(c.opts.Strings, key)
	c.opts.Ints[key] = value
	return nil
}

func (c *Conn) Open(ctx context.Context) error {
	if c.conn != nil {
		return fmt.Errorf("%s: connection already open", c.cfg.DriverName)
	}

	dsn, err := c.cfg.DSN(c.opts)
	if err != nil {
		return fmt.Errorf("%s: %w", c.cfg.DriverName, err)
	}

	db, err := sql.Open(c.cfg.DriverName, dsn)
	if err != nil {
		return fmt.Errorf("%s: %w", c.cfg.DriverName, err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	conn, err := db.Conn(ctx)
	if err != nil {
		db.Close()
		return fmt.Errorf("%s: %w", c.cfg.DriverName, err)
	}
	err = conn.PingContext(ctx)
	if err != nil {
		conn.Close()
		db.Close()
		if c.cfg.OpenError != nil {
			err = c.cfg.OpenError(c.opts, err)
		}
		return fmt.Errorf("%s: %w", c.cfg.DriverName, err)
	}

	c.db, c.conn = db, conn
	return nil
}

func (c *Conn) Close() error {
	if c.conn == nil {
		return nil
	}
	err := c.conn.Close()
	if err2 := c.db.Close(); err == nil {
		err = err2
	}
	c.conn, c.db, c.haveLast = nil, nil, false
	return err
}

// DB gets the underlying database/sql pool, which has exactly one
// connection. Returns nil if the connection isn't open.
func (c *Conn) DB() *sql.DB { return c.db }

func (c *Conn) QuoteString(s string) (string, error) {
	if c.cfg.Quote != nil {
		return c.cfg.Quote(s), nil
	}
	return QuoteStandard(s), nil
}

// QuoteStandard quotes a string by doubling single quotes, as in standard SQL.
func QuoteStandard(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

func (c *Conn) Execute(ctx context.Context, query string) (drivers.Result, error) {
	if c.conn == nil {
		return nil, errors.New("connection not open")
	}

	if !ReturnsRows(query) {
		r, err := c.conn.ExecContext(ctx, query)
		if err != nil {
			return nil, err
		}
		n, _ := r.RowsAffected()
		if id, err := r.LastInsertId(); err == nil && id != 0 {
			c.lastID, c.haveLast = id, true
		}
		return &Result{affected: uint64(n), cur: -1}, nil
	}

	rows, err := c.conn.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	res := &Result{cols: cols, cur: -1}
	for rows.Next() {
		var (
			vals = make([]any, len(cols))
			ptrs = make([]any, len(cols))
		)
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		err := rows.Scan(ptrs...)
		if err != nil {
			return nil, err
		}
		res.rows = append(res.rows, vals)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return res, nil
}

func (c *Conn) LastSequenceValue(ctx context.Context, seq string) (uint64, error) {
	if c.conn == nil {
		return 0, errors.New("connection not open")
	}
	if c.cfg.LastIDQuery == nil {
		if !c.haveLast {
			return 0, nil
		}
		return uint64(c.lastID), nil
	}

	var id sql.NullInt64
	err := c.conn.QueryRowContext(ctx, c.cfg.LastIDQuery(seq)).Scan(&id)
	if err != nil {
		return 0, err
	}
	return uint64(id.Int64), nil
}
