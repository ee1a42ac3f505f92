// Package query holds small helpers for reading URL query parameters and
// building query text safely.
package query

import (
	"net/url"
	"strconv"
	"strings"
)

// Bool reads a boolean query parameter. Accepted spellings are those of
// strconv.ParseBool ("1", "t", "true", "0", "f", "false", ...) plus "yes"/"no"
// and "on"/"off". Absent, blank or unparsable values yield def.
func Bool(vals url.Values, name string, def bool) bool {
	raw := strings.ToLower(strings.TrimSpace(vals.Get(name)))
	switch raw {
	case "":
		return def
	case "yes", "on":
		return true
	case "no", "off":
		return false
	}

	parsed, err := strconv.ParseBool(raw)
	if err != nil {
		return def
	}
	return parsed
}

// likeEscaper escapes the LIKE wildcards and the escape character itself.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// EscapeLike escapes s for use inside a LIKE pattern declared with ESCAPE '\'.
func EscapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// Contains returns a LIKE pattern matching any value that contains s literally.
func Contains(s string) string {
	return "%" + EscapeLike(s) + "%"
}
