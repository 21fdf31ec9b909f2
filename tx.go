package zdbi

import (
	"context"
	"errors"
	"fmt"
)

// ErrTxStarted is returned by Begin() when a transaction is already started
// on the session.
var ErrTxStarted = errors.New("transaction already started")

type txState uint8

const (
	txActive txState = iota
	txCommitted
	txRolledBack
)

// Tx is a transaction guard.
//
// It's rolled back when closed, unless it was committed:
//
//	tx, err := s.Begin(ctx)
//	if err != nil {
//		return err
//	}
//	defer tx.Close()
//
//	// ... queries ...
//
//	return tx.Commit(ctx)
type Tx struct {
	s     *Session
	state txState
}

// Begin a new transaction.
//
// Nested transactions return the original transaction together with
// ErrTxStarted (which is not a fatal error).
func (s *Session) Begin(ctx context.Context) (*Tx, error) {
	if s.tx != nil && s.tx.state == txActive {
		return s.tx, ErrTxStarted
	}
	err := s.execRaw(ctx, "BEGIN")
	if err != nil {
		return nil, fmt.Errorf("zdbi.Begin: %w", err)
	}
	s.tx = &Tx{s: s}
	return s.tx, nil
}

// Commit the transaction.
//
// The transaction remains active if the commit fails.
func (tx *Tx) Commit(ctx context.Context) error {
	if tx.state != txActive {
		return fmt.Errorf("zdbi.Tx.Commit: %w", ErrTxClosed)
	}
	err := tx.s.execRaw(ctx, "COMMIT")
	if err != nil {
		return fmt.Errorf("zdbi.Tx.Commit: %w", err)
	}
	tx.state = txCommitted
	return nil
}

// Rollback the transaction.
func (tx *Tx) Rollback(ctx context.Context) error {
	if tx.state != txActive {
		return fmt.Errorf("zdbi.Tx.Rollback: %w", ErrTxClosed)
	}
	err := tx.s.execRaw(ctx, "ROLLBACK")
	if err != nil {
		return fmt.Errorf("zdbi.Tx.Rollback: %w", err)
	}
	tx.state = txRolledBack
	return nil
}

// Close rolls back the transaction if it wasn't committed or rolled back.
//
// Errors from the rollback are ignored.
func (tx *Tx) Close() {
	if tx.state != txActive {
		return
	}
	_ = tx.s.execRaw(context.Background(), "ROLLBACK")
	tx.state = txRolledBack
}

// TX runs the given function in a transaction.
//
// The transaction is committed if the fn returns nil, or will be rolled back if
// it's not.
//
// Multiple TX() calls can be nested, but they all run the same transaction and
// are committed only if the outermost transaction returns nil.
func (s *Session) TX(ctx context.Context, fn func(context.Context) error) error {
	tx, err := s.Begin(ctx)
	if errors.Is(err, ErrTxStarted) {
		err := fn(ctx)
		if err != nil {
			return fmt.Errorf("zdbi.TX fn: %w", err)
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("zdbi.TX: %w", err)
	}

	defer tx.Close()

	err = fn(ctx)
	if err != nil {
		return fmt.Errorf("zdbi.TX fn: %w", err)
	}

	err = tx.Commit(ctx)
	if err != nil {
		return fmt.Errorf("zdbi.TX commit: %w", err)
	}
	return nil
}

// execRaw runs a statement without touching the current query.
func (s *Session) execRaw(ctx context.Context, stmt string) error {
	if s.conn == nil {
		return ErrNotConnected
	}
	res, err := s.run(ctx, stmt)
	if err != nil {
		return err
	}
	res.Free()
	return nil
}
