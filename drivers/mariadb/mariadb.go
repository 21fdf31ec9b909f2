// Package mariadb provides a zdbi driver for MariaDB.
//
// This uses https://github.com/go-sql-driver/mysql
//
// Only "sql_mode=ansi" is supported. This means that identifiers have to be
// quoted with a " instead of a `. This is set automatically.
//
// The options are identical to the mysql driver.
package mariadb

import (
	"errors"

	"github.com/go-sql-driver/mysql"
	"zgo.at/zdbi/drivers"
	mysqldriver "zgo.at/zdbi/drivers/mysql"
	"zgo.at/zdbi/drivers/sqlconn"
)

func init() {
	drivers.RegisterDriver(driver{})
}

type driver struct{}

func (driver) Name() string    { return "mariadb" }
func (driver) Dialect() string { return "mariadb" }
func (driver) ErrUnique(err error) bool {
	var mErr *mysql.MySQLError
	if errors.As(err, &mErr) {
		return mErr.Number == 1062
	}
	return false
}

func (driver) Conn() drivers.Conn {
	return sqlconn.New(sqlconn.Config{
		DriverName: "mysql",
		DSN: func(opts sqlconn.Options) (string, error) {
			return mysqldriver.DSN(opts, map[string]string{
				"sql_mode": "concat(@@sql_mode, ',ansi')",
			})
		},
		Quote: mysqldriver.Quote,
	})
}
