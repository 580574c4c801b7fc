package utils

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContainsFold(t *testing.T) {
	tests := []struct {
		a, b string
		want bool
	}{
		{"AUTOMATIC", "automatic", true},
		{"2.5L 4", "2.5l", true},
		{"SE", "SE Sedan 4D", true},
		{"", "LE", false},
		{"LE", " ", false},
		{"MANUAL", "AUTOMATIC", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ContainsFold(tt.a, tt.b), "%q vs %q", tt.a, tt.b)
	}
}

func TestFormatUSD(t *testing.T) {
	assert.Equal(t, "$0", FormatUSD(0))
	assert.Equal(t, "$950", FormatUSD(950))
	assert.Equal(t, "$6,400", FormatUSD(6400))
	assert.Equal(t, "$1,234,568", FormatUSD(1234567.8))
	assert.Equal(t, "-$1,000", FormatUSD(-1000))
}

func TestRecover(t *testing.T) {
	err := Recover(func() error { panic("boom") })
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")

	sentinel := errors.New("plain")
	assert.ErrorIs(t, Recover(func() error { return sentinel }), sentinel)
}

func TestParseFlexibleTime(t *testing.T) {
	got := ParseFlexibleTime("2024-03-15")
	require.NotNil(t, got)
	assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), *got)

	got = ParseFlexibleTime("2024-03-15T10:00:00Z")
	require.NotNil(t, got)
	assert.Equal(t, 10, got.Hour())

	assert.Nil(t, ParseFlexibleTime(""))
	assert.Nil(t, ParseFlexibleTime("not a date"))
}
