package zdbi

import (
	"context"
	"os"
	"testing"

	"zgo.at/zstd/ztest"
)

// Diff two strings, ignoring whitespace at the start of a line.
//
// This is useful in tests in combination with zdbi.Dump():
//
//	var res zdbi.Result
//	err := s.Query(`select * from factions`).Fetch(ctx, &res)
//	got := zdbi.DumpString(&res)
//	want := `
//	    faction_id  name
//	    1           Peacekeepers
//	    2           Moya`
//	if d := zdbi.Diff(got, want); d != "" {
//	   t.Error(d)
//	}
//
// It normalizes the leading whitespace in want, making "does my database match
// with what's expected?" fairly easy to test.
func Diff(out, want string) string {
	return ztest.Diff(out, want, ztest.DiffNormalizeWhitespace)
}

// StartTest connects to a test database, which is closed when the test
// finishes.
//
// The connection string is read from ZDBI_TEST_CONNECT, and defaults to an
// in-memory SQLite database. The driver must be registered, for example with:
//
//	import _ "zgo.at/zdbi/drivers/go-sqlite3"
func StartTest(t *testing.T) *Session {
	t.Helper()

	connect := os.Getenv("ZDBI_TEST_CONNECT")
	if connect == "" {
		connect = "sqlite3:dbname=:memory:"
	}

	s, err := Open(context.Background(), connect)
	if err != nil {
		t.Fatalf("zdbi.StartTest: %s", err)
	}
	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("zdbi.StartTest: close: %s", err)
		}
	})
	return s
}
