package zdbi

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"zgo.at/zstd/zbyte"
)

// DumpArg controls the output of Dump().
type DumpArg int

const (
	_ DumpArg = iota

	// DumpVertical shows every column on its own line, instead of
	// horizontal columns.
	DumpVertical
)

// Dump the remaining rows of a result to a writer in an aligned table. This
// is a convenience function intended mostly for testing/debugging.
//
// This reads all the rows in the result; the result will be empty
// afterwards.
//
// Combined with Diff() it can be an easy way to test the database state.
func Dump(out io.Writer, res *Result, args ...DumpArg) error {
	var vertical bool
	for _, a := range args {
		if a == DumpVertical {
			vertical = true
		}
	}

	cols := res.Columns()
	t := tabwriter.NewWriter(out, 4, 4, 2, ' ', 0)
	if !vertical {
		fmt.Fprintln(t, strings.Join(cols, "\t"))
	}

	var row Row
	for res.Next(&row) {
		for i := range cols {
			var v any
			_, err := row.Fetch(i+1, &v)
			if err != nil {
				return fmt.Errorf("zdbi.Dump: %w", err)
			}

			if vertical {
				fmt.Fprintf(t, "%s\t%s\n", cols[i], formatValue(v))
				continue
			}
			io.WriteString(t, formatValue(v))
			if i < len(cols)-1 {
				io.WriteString(t, "\t")
			}
		}
		io.WriteString(t, "\n")
	}
	return t.Flush()
}

// DumpString is like Dump(), but returns the result as a string.
func DumpString(res *Result, args ...DumpArg) string {
	b := new(strings.Builder)
	if err := Dump(b, res, args...); err != nil {
		return err.Error()
	}
	return b.String()
}

func formatValue(v any) string {
	switch vv := v.(type) {
	case nil:
		return "NULL"
	case time.Time:
		return vv.Format(Date)
	case float64:
		return strconv.FormatFloat(vv, 'g', -1, 64)
	case []byte:
		if zbyte.Binary(vv) {
			return fmt.Sprintf("%x", vv)
		}
		return string(vv)
	default:
		return fmt.Sprintf("%v", vv)
	}
}
