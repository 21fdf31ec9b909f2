// Package bulk provides helpers for bulk SQL operations.
package bulk

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"zgo.at/zdbi"
)

type builder struct {
	table string
	post  string
	cols  []string
	vals  [][]any
}

func newBuilder(table string, cols ...string) builder {
	return builder{table: table, cols: cols, vals: make([][]any, 0, 32)}
}

func (b *builder) values(vals ...any) {
	b.vals = append(b.vals, vals)
}

// SQL gets the query with a ? placeholder for every value, and all values in
// order.
func (b *builder) SQL() (string, []any) {
	var s strings.Builder
	s.WriteString("insert into ")
	s.WriteString(b.table)
	s.WriteString(" (")
	s.WriteString(strings.Join(b.cols, ","))
	s.WriteString(") values ")

	var args []any
	for i := range b.vals {
		s.WriteString("(")
		for j := range b.vals[i] {
			s.WriteString("?")
			if j < len(b.vals[i])-1 {
				s.WriteString(",")
			}
			args = append(args, b.vals[i][j])
		}
		s.WriteString(")")
		if i < len(b.vals)-1 {
			s.WriteString(",")
		}
	}

	if b.post != "" {
		s.WriteRune(' ')
		s.WriteString(b.post)
	}
	return s.String(), args
}

// Insert as many rows as possible per query we send to the server.
type Insert struct {
	rows   int
	limit  int
	ctx    context.Context
	s      *zdbi.Session
	insert builder
	errors []error
}

// NewInsert makes a new Insert builder.
func NewInsert(ctx context.Context, s *zdbi.Session, table string, columns []string) Insert {
	return Insert{
		ctx:    ctx,
		s:      s,
		limit:  500,
		insert: newBuilder(table, columns...),
	}
}

// Limit sets the maximum number of rows per statement; the default is 500.
func (m *Insert) Limit(n int) {
	if n > 0 {
		m.limit = n
	}
}

// OnConflict sets the "on conflict [..]" part of the query. This needs to
// include the "on conflict" itself.
func (m *Insert) OnConflict(c string) {
	m.insert.post = c
}

// Values adds a set of values.
func (m *Insert) Values(values ...any) {
	m.insert.values(values...)
	m.rows++

	if m.rows >= m.limit {
		m.doInsert()
	}
}

// Finish the operation, returning any errors.
func (m *Insert) Finish() error {
	if m.rows > 0 {
		m.doInsert()
	}

	if len(m.errors) == 0 {
		return nil
	}
	return fmt.Errorf("bulk.Insert: %d errors: %w", len(m.errors), errors.Join(m.errors...))
}

func (m *Insert) doInsert() {
	query, args := m.insert.SQL()
	err := m.s.Query(query).Bind(args...).Exec(m.ctx)
	if err != nil {
		m.errors = append(m.errors, err)
	}

	m.insert.vals = make([][]any, 0, 32)
	m.rows = 0
}
