// Package pgx provides a zdbi driver for PostgreSQL.
//
// This uses https://github.com/jackc/pgx
//
// Options are the same as for the pq driver: libpq keywords, with "username"
// as an alias for "user".
package pgx

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	"zgo.at/zdbi/drivers"
	"zgo.at/zdbi/drivers/sqlconn"
)

func init() {
	drivers.RegisterDriver(driver{})
}

type driver struct{}

func (driver) Name() string    { return "pgx" }
func (driver) Dialect() string { return "postgresql" }
func (driver) ErrUnique(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func (driver) Conn() drivers.Conn {
	return sqlconn.New(sqlconn.Config{
		DriverName: "pgx",
		DSN: func(opts sqlconn.Options) (string, error) {
			dsn := sqlconn.KeywordDSN(opts, map[string]string{"username": "user"})
			// Report syntax errors before connecting.
			if _, err := pgconn.ParseConfig(dsn); err != nil {
				return "", err
			}
			return dsn, nil
		},
		// standard_conforming_strings is on by default since PostgreSQL 9.1.
		Quote: sqlconn.QuoteStandard,
		LastIDQuery: func(seq string) string {
			if seq == "" {
				return `select lastval()`
			}
			return `select currval(` + sqlconn.QuoteStandard(seq) + `)`
		},
		OpenError: func(opts sqlconn.Options, err error) error {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "3D000" {
				dbname, _ := opts.Get("dbname")
				return &drivers.NotExistError{Driver: "postgres", DB: dbname}
			}
			return err
		},
	})
}
