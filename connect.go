package zdbi

import (
	"strconv"
	"strings"
)

// connectOptions is a parsed connection string.
type connectOptions struct {
	Driver  string
	Strings map[string]string
	Ints    map[string]int
}

// parseConnect parses a connection string in the form of:
//
//	driver:key=value[;key=value]*
//
// Values are either quoted with single quotes (a literal quote is written as
// two quotes) or bare. Bare values that look like an integer (-?[0-9]+) are
// numeric options; everything else is a string option.
//
//	mysql:username=root;password='x''s;d';port=3306
func parseConnect(connect string) (connectOptions, error) {
	opts := connectOptions{
		Strings: make(map[string]string),
		Ints:    make(map[string]int),
	}
	errAt := func(pos int, msg string) error {
		return &ConnectionStringError{Connect: connect, Pos: pos, Msg: msg}
	}

	colon := strings.IndexByte(connect, ':')
	if colon == -1 {
		return opts, errAt(len(connect), "no driver separator ':'")
	}
	opts.Driver = strings.TrimSpace(connect[:colon])
	if opts.Driver == "" {
		return opts, errAt(0, "empty driver name")
	}

	i := colon + 1
	for i < len(connect) {
		keyStart := i
		for i < len(connect) && connect[i] != '=' && connect[i] != ';' {
			i++
		}
		if i == len(connect) || connect[i] != '=' {
			return opts, errAt(i, "missing '=' after key")
		}
		key := strings.TrimSpace(connect[keyStart:i])
		if key == "" {
			return opts, errAt(keyStart, "empty key")
		}
		i++ // Skip =

		if i < len(connect) && connect[i] == '\'' {
			quoteStart := i
			i++
			var b strings.Builder
			for {
				if i == len(connect) {
					return opts, errAt(quoteStart, "unterminated quote")
				}
				if connect[i] == '\'' {
					if i+1 < len(connect) && connect[i+1] == '\'' {
						b.WriteByte('\'')
						i += 2
						continue
					}
					i++
					break
				}
				b.WriteByte(connect[i])
				i++
			}
			if i < len(connect) && connect[i] != ';' {
				return opts, errAt(i, "unexpected character after quoted value")
			}
			opts.Strings[key] = b.String()
			delete(opts.Ints, key)
		} else {
			valStart := i
			for i < len(connect) && connect[i] != ';' {
				i++
			}
			val := connect[valStart:i]
			if n, err := strconv.Atoi(val); err == nil && isInteger(val) {
				opts.Ints[key] = n
				delete(opts.Strings, key)
			} else {
				opts.Strings[key] = val
				delete(opts.Ints, key)
			}
		}

		i++ // Skip ;
	}
	return opts, nil
}

// isInteger reports if s matches -?[0-9]+
func isInteger(s string) bool {
	s = strings.TrimPrefix(s, "-")
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
