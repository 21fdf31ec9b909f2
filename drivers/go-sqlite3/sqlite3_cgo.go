//go:build cgo

package sqlite3

import (
	"database/sql"
	"errors"

	"github.com/mattn/go-sqlite3"
)

const available = true

func init() {
	sql.Register(sqlDriverName, &sqlite3.SQLiteDriver{
		ConnectHook: func(c *sqlite3.SQLiteConn) error {
			if defHook != nil {
				return defHook(c)
			}
			return nil
		},
	})
}

func (driver) ErrUnique(err error) bool {
	var sqlErr sqlite3.Error
	return errors.As(err, &sqlErr) && sqlErr.ExtendedCode == sqlite3.ErrConstraintUnique
}
