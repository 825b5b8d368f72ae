package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLuhnValid(t *testing.T) {
	cases := []struct {
		number string
		want   bool
	}{
		{"4532015112830366", true},
		{"4532015112830367", false},
		{"4532 0151 1283 0366", true},
		{"4532-0151-1283-0366", true},
		{"79927398713", true},
		{"79927398710", false},
		{"0", false},
		{"", false},
		{"abcd", false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, LuhnValid(tc.number), "number %q", tc.number)
	}
}

func TestParseCardExpiry(t *testing.T) {
	got, err := ParseCardExpiry("07/29")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2029, time.July, 1, 0, 0, 0, 0, time.UTC), got)

	for _, bad := range []string{"", "7/29", "13/29", "00/29", "07-29", "07/2029", "ab/cd"} {
		_, err := ParseCardExpiry(bad)
		assert.ErrorIs(t, err, ErrInvalidCard, "expiry %q", bad)
	}
}

func TestCardExpired(t *testing.T) {
	now := time.Date(2026, time.May, 20, 15, 30, 0, 0, time.UTC)

	expired, err := CardExpired("04/26", now)
	require.NoError(t, err)
	assert.True(t, expired)

	// The first of the current month is already before today.
	expired, err = CardExpired("05/26", now)
	require.NoError(t, err)
	assert.True(t, expired)

	expired, err = CardExpired("06/26", now)
	require.NoError(t, err)
	assert.False(t, expired)

	firstOfMonth := time.Date(2026, time.May, 1, 23, 59, 0, 0, time.UTC)
	expired, err = CardExpired("05/26", firstOfMonth)
	require.NoError(t, err)
	assert.False(t, expired)
}

func TestMaskCardNumber(t *testing.T) {
	assert.Equal(t, "xxxx-xxxx-xxxx-0366", MaskCardNumber("4532015112830366"))
	assert.Equal(t, "xxxx-xxxx-xxxx-0366", MaskCardNumber("4532 0151 1283 0366"))
	assert.Equal(t, "xxxx-xxxx-xxxx-42", MaskCardNumber("42"))
}
