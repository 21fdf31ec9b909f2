//go:build !cgo

package sqlite3

const available = false

// Accessing the error requires pulling in cgo.
func (driver) ErrUnique(err error) bool { return false }
