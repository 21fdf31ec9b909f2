package sqlconn

import "strings"

// KeywordDSN builds a libpq-style "key=value key='quoted value'" connection
// string.
//
// Keys in rename are renamed; for example {"username": "user"}.
func KeywordDSN(opts Options, rename map[string]string) string {
	var b strings.Builder
	for _, k := range opts.Keys() {
		v, _ := opts.Get(k)
		if r, ok := rename[k]; ok {
			k = r
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(keywordValue(v))
	}
	return b.String()
}

func keywordValue(v string) string {
	if v != "" && !strings.ContainsAny(v, ` '\`) {
		return v
	}
	r := strings.NewReplacer(`\`, `\\`, `'`, `\'`)
	return "'" + r.Replace(v) + "'"
}
