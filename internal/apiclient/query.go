package apiclient

import (
	"fmt"
	"net/url"
	"strings"
)

// Param is one query-string entry. A slice keeps insertion order, which a
// Go map would not.
type Param struct {
	Key   string
	Value any
}

// BuildQueryString serializes params to "?k=v&..." keeping insertion
// order. Entries whose value is nil or an empty string are omitted. An
// all-empty set yields "".
func BuildQueryString(params []Param) string {
	var sb strings.Builder
	for _, p := range params {
		if p.Value == nil {
			continue
		}
		v := fmt.Sprint(p.Value)
		if v == "" {
			continue
		}
		if sb.Len() == 0 {
			sb.WriteByte('?')
		} else {
			sb.WriteByte('&')
		}
		sb.WriteString(url.QueryEscape(p.Key))
		sb.WriteByte('=')
		sb.WriteString(url.QueryEscape(v))
	}
	return sb.String()
}
