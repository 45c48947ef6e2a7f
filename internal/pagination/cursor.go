// Package pagination provides keyset cursors for list endpoints.
//
// A cursor names the last row of a page by (created_at, id). Timestamps are
// carried at microsecond precision, which is what PostgreSQL stores.
package pagination

import (
	"encoding/base64"
	"errors"
	"strconv"
	"strings"
	"time"
)

// Limits applied by ParseLimit.
const (
	DefaultLimit = 50
	MaxLimit     = 200
)

// ErrInvalidCursor is returned by Decode for malformed cursors.
var ErrInvalidCursor = errors.New("invalid cursor")

// Cursor is a position in a result set ordered by (CreatedAt, ID).
type Cursor struct {
	CreatedAt time.Time
	ID        string
}

// String encodes c as an opaque, URL-safe token.
func (c Cursor) String() string {
	raw := strconv.FormatInt(c.CreatedAt.UnixMicro(), 10) + ":" + c.ID
	return base64.RawURLEncoding.EncodeToString([]byte(raw))
}

// Encode is shorthand for Cursor{createdAt, id}.String().
func Encode(createdAt time.Time, id string) string {
	return Cursor{CreatedAt: createdAt, ID: id}.String()
}

// Decode parses a token produced by Cursor.String. The empty token means
// "first page" and yields nil.
func Decode(s string) (*Cursor, error) {
	if s == "" {
		return nil, nil
	}
	raw, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return nil, ErrInvalidCursor
	}
	ts, id, ok := strings.Cut(string(raw), ":")
	if !ok || id == "" {
		return nil, ErrInvalidCursor
	}
	micros, err := strconv.ParseInt(ts, 10, 64)
	if err != nil {
		return nil, ErrInvalidCursor
	}
	return &Cursor{CreatedAt: time.UnixMicro(micros).UTC(), ID: id}, nil
}

// Page is one page of a keyset listing.
type Page[T any] struct {
	Items []T
	Next  string // empty on the last page
}

// HasMore reports whether another page follows.
func (p Page[T]) HasMore() bool { return p.Next != "" }

// Trim turns a fetch of limit+1 rows into a page. The extra row only
// signals that more exist; the cursor points at the last row kept.
func Trim[T any](items []T, limit int, key func(T) Cursor) Page[T] {
	if limit <= 0 || len(items) <= limit {
		return Page[T]{Items: items}
	}
	items = items[:limit]
	return Page[T]{Items: items, Next: key(items[limit-1]).String()}
}

// ParseLimit reads a ?limit= value, applying DefaultLimit to empty or
// malformed input and clamping to [1, MaxLimit].
func ParseLimit(raw string) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return DefaultLimit
	}
	return min(n, MaxLimit)
}
