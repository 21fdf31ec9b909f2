// Package sqlite3 provides a zdbi driver for SQLite.
//
// This uses https://github.com/mattn/go-sqlite3/
//
// Options:
//
//	dbname            Database file, or ":memory:".
//	sqlite3_dbdir     Directory for dbname; relative to the working directory.
//
// All other options are added to the DSN as query parameters, for example
// "_journal_mode=wal". Several of these are set to different defaults:
//
//	_foreign_keys=on           Check FK constraints; by default they're not
//	                           enforced, which is probably not what you want.
//
//	_busy_timeout=200          Wait 200ms for locks instead of immediately
//	                           throwing an error.
//
//	_case_sensitive_like=on    LIKE is case-sensitive, like PostgreSQL.
//
// To use a ConnectHook, you can DefaultHook() to automatically set the given
// connection hook on every new connection.
package sqlite3

import (
	"errors"
	"net/url"
	"path/filepath"

	"github.com/mattn/go-sqlite3"
	"zgo.at/zdbi/drivers"
	"zgo.at/zdbi/drivers/sqlconn"
)

func init() {
	drivers.RegisterDriver(driver{})
}

var defHook func(*sqlite3.SQLiteConn) error

// DefaultHook sets the default SQLite connection hook to use on every
// connection.
//
// Note that connections made before this are not modified.
func DefaultHook(f func(*sqlite3.SQLiteConn) error) {
	defHook = f
}

// Name of the database/sql driver we register.
const sqlDriverName = "zdbi-sqlite3"

var defaults = url.Values{
	"_foreign_keys":        {"on"},
	"_busy_timeout":        {"200"},
	"_case_sensitive_like": {"on"},
}

type driver struct{}

func (driver) Name() string    { return "sqlite3" }
func (driver) Dialect() string { return "sqlite" }

func (driver) Conn() drivers.Conn {
	return sqlconn.New(sqlconn.Config{
		DriverName: sqlDriverName,
		DSN:        dsn,
	})
}

func dsn(opts sqlconn.Options) (string, error) {
	if !available {
		return "", errors.New("go-sqlite3: not available: compiled with CGO_ENABLED=0")
	}

	name, ok := opts.Get("dbname")
	if !ok || name == "" {
		return "", errors.New("go-sqlite3: dbname not set")
	}
	if dir, ok := opts.Get("sqlite3_dbdir"); ok && dir != "" && name != ":memory:" {
		name = filepath.Join(dir, name)
	}

	params := url.Values{}
	for k, v := range defaults {
		params[k] = v
	}
	for _, k := range opts.Keys("dbname", "sqlite3_dbdir") {
		v, _ := opts.Get(k)
		params.Set(k, v)
	}
	return "file:" + name + "?" + params.Encode(), nil
}
