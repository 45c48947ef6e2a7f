package security

import (
	"net/http"
	"net/url"
	"strings"
)

// Origins is an allow-list of browser origins. An empty list allows every
// origin for plain HTTP, as does the entry "*".
type Origins struct {
	set      map[string]bool
	wildcard bool
	star     bool
}

// NewOrigins builds an allow-list. Entries are compared case-insensitively
// without a trailing slash.
func NewOrigins(list []string) Origins {
	o := Origins{set: make(map[string]bool, len(list))}
	for _, s := range list {
		s = normalizeOrigin(s)
		switch s {
		case "":
		case "*":
			o.star = true
		default:
			o.set[s] = true
		}
	}
	o.wildcard = o.star || len(o.set) == 0
	return o
}

// Allowed reports whether origin may call the API. Requests without an
// Origin header are not browser cross-origin requests and are allowed.
func (o Origins) Allowed(origin string) bool {
	if origin == "" || o.wildcard {
		return true
	}
	return o.set[normalizeOrigin(origin)]
}

// CheckOrigin adapts the allow-list to websocket.Upgrader.CheckOrigin.
// Without a configured list only same-host origins may upgrade.
func (o Origins) CheckOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" || o.star {
		return true
	}
	if len(o.set) > 0 {
		return o.set[normalizeOrigin(origin)]
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	return strings.EqualFold(u.Host, r.Host)
}

func normalizeOrigin(s string) string {
	return strings.TrimSuffix(strings.ToLower(strings.TrimSpace(s)), "/")
}
