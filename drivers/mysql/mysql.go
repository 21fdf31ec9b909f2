// Package mysql provides a zdbi driver for MySQL.
//
// This uses https://github.com/go-sql-driver/mysql
//
// Options:
//
//	host, port     TCP address; default localhost:3306.
//	unix_socket    Connect over a Unix socket instead of TCP.
//	username       User name.
//	password       Password.
//	dbname         Database name.
//
// All other options are passed as DSN parameters. parseTime is always
// enabled.
package mysql

import (
	"errors"
	"net"
	"strconv"
	"strings"

	"github.com/go-sql-driver/mysql"
	"zgo.at/zdbi/drivers"
	"zgo.at/zdbi/drivers/sqlconn"
)

func init() {
	drivers.RegisterDriver(driver{})
}

type driver struct{}

func (driver) Name() string    { return "mysql" }
func (driver) Dialect() string { return "mysql" }
func (driver) ErrUnique(err error) bool {
	var mErr *mysql.MySQLError
	return errors.As(err, &mErr) && mErr.Number == 1062
}

func (driver) Conn() drivers.Conn {
	return sqlconn.New(sqlconn.Config{
		DriverName: "mysql",
		DSN:        func(opts sqlconn.Options) (string, error) { return DSN(opts, nil) },
		Quote:      Quote,
	})
}

// DSN builds a DSN for go-sql-driver/mysql from the options; the params are
// added to the DSN parameters.
func DSN(opts sqlconn.Options, params map[string]string) (string, error) {
	cfg := mysql.NewConfig()
	cfg.ParseTime = true
	cfg.User, _ = opts.Get("username")
	cfg.Passwd, _ = opts.Get("password")
	cfg.DBName, _ = opts.Get("dbname")

	if sock, ok := opts.Get("unix_socket"); ok {
		cfg.Net, cfg.Addr = "unix", sock
	} else {
		host, ok := opts.Get("host")
		if !ok {
			host = "localhost"
		}
		port, ok, err := opts.Int("port")
		if err != nil {
			return "", err
		}
		if !ok {
			port = 3306
		}
		cfg.Net, cfg.Addr = "tcp", net.JoinHostPort(host, strconv.Itoa(port))
	}

	for _, k := range opts.Keys("host", "port", "unix_socket", "username", "password", "dbname") {
		if cfg.Params == nil {
			cfg.Params = make(map[string]string)
		}
		cfg.Params[k], _ = opts.Get(k)
	}
	for k, v := range params {
		if cfg.Params == nil {
			cfg.Params = make(map[string]string)
		}
		cfg.Params[k] = v
	}
	return cfg.FormatDSN(), nil
}

var quoter = strings.NewReplacer(
	"\x00", `\0`,
	"\n", `\n`,
	"\r", `\r`,
	"\x1a", `\Z`,
	`'`, `''`,
	`"`, `\"`,
	`\`, `\\`,
)

// Quote a string literal with backslash escapes, as mysql_real_escape_string()
// does, except that ' is doubled so the literal is also valid standard SQL.
func Quote(s string) string {
	return "'" + quoter.Replace(s) + "'"
}
