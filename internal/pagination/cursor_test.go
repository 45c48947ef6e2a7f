package pagination

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCursor_RoundTrip(t *testing.T) {
	ts := time.Date(2026, 3, 4, 10, 30, 0, 123456000, time.UTC)

	token := Encode(ts, "pre_abc123")
	assert.NotContains(t, token, "=", "tokens travel in query strings unpadded")

	c, err := Decode(token)
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.True(t, ts.Equal(c.CreatedAt))
	assert.Equal(t, "pre_abc123", c.ID)
}

func TestCursor_TruncatesToMicroseconds(t *testing.T) {
	ts := time.Date(2026, 3, 4, 10, 30, 0, 123456789, time.UTC)

	c, err := Decode(Encode(ts, "pre_x"))
	require.NoError(t, err)
	assert.Equal(t, ts.Truncate(time.Microsecond), c.CreatedAt)
}

func TestDecode(t *testing.T) {
	c, err := Decode("")
	assert.NoError(t, err)
	assert.Nil(t, c)

	enc := func(s string) string { return base64.RawURLEncoding.EncodeToString([]byte(s)) }
	for name, token := range map[string]string{
		"not base64":   "***",
		"no separator": enc("nocolon"),
		"empty id":     enc("1700000000000000:"),
		"bad time":     enc("yesterday:pre_x"),
	} {
		t.Run(name, func(t *testing.T) {
			_, err := Decode(token)
			assert.ErrorIs(t, err, ErrInvalidCursor)
		})
	}
}

func TestTrim(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	key := func(s string) Cursor { return Cursor{CreatedAt: base, ID: s} }

	t.Run("short fetch is the last page", func(t *testing.T) {
		p := Trim([]string{"a", "b"}, 3, key)
		assert.Equal(t, []string{"a", "b"}, p.Items)
		assert.False(t, p.HasMore())
	})

	t.Run("exact limit is the last page", func(t *testing.T) {
		p := Trim([]string{"a", "b", "c"}, 3, key)
		assert.Len(t, p.Items, 3)
		assert.Empty(t, p.Next)
	})

	t.Run("extra row yields a cursor at the last kept row", func(t *testing.T) {
		p := Trim([]string{"a", "b", "c", "d"}, 3, key)
		assert.Equal(t, []string{"a", "b", "c"}, p.Items)
		require.True(t, p.HasMore())

		c, err := Decode(p.Next)
		require.NoError(t, err)
		assert.Equal(t, "c", c.ID)
	})
}

func TestParseLimit(t *testing.T) {
	assert.Equal(t, DefaultLimit, ParseLimit(""))
	assert.Equal(t, DefaultLimit, ParseLimit("abc"))
	assert.Equal(t, DefaultLimit, ParseLimit("0"))
	assert.Equal(t, 10, ParseLimit("10"))
	assert.Equal(t, MaxLimit, ParseLimit("10000"))
}
