// Package test provides a scripted in-memory backend for tests.
//
// It doesn't understand any SQL: statements are matched literally against
// the responses set with Respond(), Affect(), and Fail(). Unknown statements
// succeed without returning rows.
package test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"zgo.at/zdbi/drivers"
	"zgo.at/zdbi/drivers/sqlconn"
)

// Backend is a scripted driver, registered as "test".
type Backend struct {
	mu        sync.Mutex
	responses map[string]response
	log       []string
	options   map[string]any
	open      int

	Inits     int // Number of times Init() was called.
	Shutdowns int // Number of times Shutdown() was called.

	// LastID is returned from LastSequenceValue; the sequence name is
	// recorded in Sequence.
	LastID   uint64
	Sequence string
}

type response struct {
	cols     []string
	rows     [][]any
	affected uint64
	err      error
}

// Use registers a new Backend for the duration of the test. Other drivers
// are unavailable until the test finishes.
func Use(t *testing.T) *Backend {
	t.Helper()
	restore := drivers.Test()
	b := &Backend{responses: make(map[string]response)}
	drivers.RegisterDriver(b)
	t.Cleanup(restore)
	return b
}

// Respond sets the result for a statement.
func (b *Backend) Respond(query string, cols []string, rows ...[]any) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.responses[query] = response{cols: cols, rows: rows}
}

// Affect sets the number of affected rows for a statement.
func (b *Backend) Affect(query string, n uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.responses[query] = response{affected: n}
}

// Fail makes a statement return an error.
func (b *Backend) Fail(query string, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.responses[query] = response{err: err}
}

// Statements gets all executed statements.
func (b *Backend) Statements() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.log...)
}

// Reset the list of executed statements.
func (b *Backend) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.log = nil
}

// Options gets the options of the last opened connection.
func (b *Backend) Options() map[string]any {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.options
}

// Open gets the number of currently open connections.
func (b *Backend) Open() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.open
}

func (b *Backend) Name() string         { return "test" }
func (b *Backend) Dialect() string      { return "postgresql" }
func (b *Backend) ErrUnique(error) bool { return false }
func (b *Backend) Conn() drivers.Conn   { return &conn{b: b, opts: make(map[string]any)} }

func (b *Backend) Init() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.Inits++
	return nil
}

func (b *Backend) Shutdown() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.Shutdowns++
	return nil
}

// ErrRefused is returned by Open() if the "refuse" option is set.
var ErrRefused = errors.New("connection refused")

type conn struct {
	b      *Backend
	opts   map[string]any
	isOpen bool
}

// The option "invalid" is always rejected.
func (c *conn) SetOption(key, value string) error {
	if key == "" || key == "invalid" {
		return errors.New("test: invalid option: " + key)
	}
	c.opts[key] = value
	return nil
}

func (c *conn) SetOptionInt(key string, value int) error {
	if key == "" || key == "invalid" {
		return errors.New("test: invalid option: " + key)
	}
	c.opts[key] = value
	return nil
}

func (c *conn) Open(ctx context.Context) error {
	if _, ok := c.opts["refuse"]; ok {
		return ErrRefused
	}
	c.b.mu.Lock()
	defer c.b.mu.Unlock()
	c.b.options = c.opts
	c.b.open++
	c.isOpen = true
	return nil
}

func (c *conn) Close() error {
	if !c.isOpen {
		return nil
	}
	c.b.mu.Lock()
	defer c.b.mu.Unlock()
	c.b.open--
	c.isOpen = false
	return nil
}

func (c *conn) QuoteString(s string) (string, error) { return sqlconn.QuoteStandard(s), nil }

func (c *conn) Execute(ctx context.Context, query string) (drivers.Result, error) {
	if !c.isOpen {
		return nil, errors.New("test: not open")
	}

	c.b.mu.Lock()
	defer c.b.mu.Unlock()
	c.b.log = append(c.b.log, query)
	r, ok := c.b.responses[query]
	if !ok {
		return sqlconn.NewResult(nil, nil, 0), nil
	}
	if r.err != nil {
		return nil, r.err
	}
	rows := make([][]any, len(r.rows))
	copy(rows, r.rows)
	return sqlconn.NewResult(r.cols, rows, r.affected), nil
}

func (c *conn) LastSequenceValue(ctx context.Context, seq string) (uint64, error) {
	c.b.mu.Lock()
	defer c.b.mu.Unlock()
	c.b.Sequence = seq
	return c.b.LastID, nil
}
