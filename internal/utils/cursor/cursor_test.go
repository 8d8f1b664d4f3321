package cursor

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEncodeDecode(t *testing.T) {
	ts := time.Date(2026, 3, 14, 9, 26, 53, 123456789, time.UTC)

	got, id, err := Decode(Encode(ts, "abc-123"))
	assert.NoError(t, err)
	assert.Equal(t, "abc-123", id)
	assert.True(t, got.Equal(ts))
}

func TestDecode_Empty(t *testing.T) {
	ts, id, err := Decode("")
	assert.NoError(t, err)
	assert.True(t, ts.IsZero())
	assert.Empty(t, id)
}

func TestDecode_Invalid(t *testing.T) {
	tests := []struct {
		name string
		c    string
	}{
		{name: "not base64", c: "%%%"},
		{name: "no separator", c: base64.URLEncoding.EncodeToString([]byte("garbage"))},
		{name: "bad timestamp", c: base64.URLEncoding.EncodeToString([]byte("yesterday|id"))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Decode(tt.c)
			assert.ErrorIs(t, err, ErrInvalid)
		})
	}
}

func TestEncode_IDWithSeparator(t *testing.T) {
	ts := time.Now().UTC().Truncate(time.Millisecond)

	got, id, err := Decode(Encode(ts, "a|b"))
	assert.NoError(t, err)
	assert.Equal(t, "a|b", id)
	assert.True(t, got.Equal(ts))
}
