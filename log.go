package zdbi

import (
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"
)

type queryLog struct {
	out    io.Writer
	filter string
}

var reSpace = regexp.MustCompile(`\s+`)

// Log every executed statement to out, with the time it took and the error
// if it failed.
//
// If filter is not an empty string then only statements containing the text
// are logged; whitespace in the statement is collapsed to a single space
// before matching. Use an empty string to log everything.
//
// Logging is disabled if out is nil.
func (s *Session) Log(out io.Writer, filter string) {
	if out == nil {
		s.log = nil
		return
	}
	s.log = &queryLog{out: out, filter: filter}
}

func (l *queryLog) write(query string, took time.Duration, err error) {
	if l.filter != "" && !strings.Contains(reSpace.ReplaceAllString(query, " "), l.filter) {
		return
	}

	query = deIndent(query)
	if !strings.HasSuffix(query, ";") {
		query += ";"
	}
	if err != nil {
		fmt.Fprintf(l.out, "%s\n-- %s; error: %s\n\n", query, took.Round(time.Microsecond), err)
		return
	}
	fmt.Fprintf(l.out, "%s\n-- %s\n\n", query, took.Round(time.Microsecond))
}

// deIndent removes the common leading tab indentation of all lines but the
// first, so that queries written inside Go code read well in the log:
//
//	s.Query(`/* Comment for PostgreSQL logs */
//		select [..]
//		from [..]
//	`)
func deIndent(in string) string {
	lines := strings.Split(strings.TrimSpace(in), "\n")

	indent := -1
	for _, l := range lines[1:] {
		if strings.TrimSpace(l) == "" {
			continue
		}
		if n := len(l) - len(strings.TrimLeft(l, "\t")); indent == -1 || n < indent {
			indent = n
		}
	}

	for i := 1; i < len(lines); i++ {
		for j := 0; j < indent && strings.HasPrefix(lines[i], "\t"); j++ {
			lines[i] = lines[i][1:]
		}
	}
	return strings.Join(lines, "\n")
}
