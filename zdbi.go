// Package zdbi is a small convenience layer for talking to SQL databases.
//
// Values are bound to ? placeholders in a query, and are escaped as SQL
// literals for the connected database; the fully escaped statement is sent
// to the database:
//
//	s, err := zdbi.Open(ctx, "sqlite3:dbname=test.db")
//	if err != nil {
//		return err
//	}
//	defer s.Close()
//
//	err = s.Query(`insert into users (name, email) values (?, ?)`).
//		Bind("Crichton", zdbi.Null{}).
//		Exec(ctx)
//
//	var res zdbi.Result
//	err = s.Query(`select id, name from users where name like ?`).Bind("C%").Fetch(ctx, &res)
//	if err != nil {
//		return err
//	}
//	defer res.Close()
//
//	var row zdbi.Row
//	for res.Next(&row) {
//		var (
//			id   int
//			name string
//		)
//		err := row.Scan(&id, &name)
//	}
//
// Drivers are in the drivers/ directory, and must be imported to register
// them:
//
//	import _ "zgo.at/zdbi/drivers/go-sqlite3"
//
// Shutdown() closes all sessions and releases process-wide driver resources;
// it's typically deferred in main().
package zdbi
