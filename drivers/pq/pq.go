// Package pq provides a zdbi driver for PostgreSQL.
//
// This uses https://github.com/lib/pq
//
// Options are passed as libpq keywords; "username" is accepted as an alias
// for "user". See:
// https://www.postgresql.org/docs/current/libpq-connect.html#LIBPQ-PARAMKEYWORDS
//
// The standard PG* environment variables are used for options that are not
// set.
package pq

import (
	"errors"
	"fmt"

	"github.com/lib/pq"
	"zgo.at/zdbi/drivers"
	"zgo.at/zdbi/drivers/sqlconn"
)

func init() {
	drivers.RegisterDriver(driver{})
}

type driver struct{}

func (driver) Name() string    { return "pq" }
func (driver) Dialect() string { return "postgresql" }
func (driver) ErrUnique(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

func (driver) Conn() drivers.Conn {
	return sqlconn.New(sqlconn.Config{
		DriverName: "postgres",
		DSN: func(opts sqlconn.Options) (string, error) {
			return sqlconn.KeywordDSN(opts, map[string]string{"username": "user"}), nil
		},
		Quote:       pq.QuoteLiteral,
		LastIDQuery: lastIDQuery,
		OpenError:   openError,
	})
}

func lastIDQuery(seq string) string {
	if seq == "" {
		return `select lastval()`
	}
	return fmt.Sprintf(`select currval(%s)`, pq.QuoteLiteral(seq))
}

func openError(opts sqlconn.Options, err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "3D000" {
		dbname, _ := opts.Get("dbname")
		return &drivers.NotExistError{Driver: "postgres", DB: dbname}
	}
	return err
}
