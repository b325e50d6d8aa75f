package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// withLocalZone подменяет time.Local на время теста
func withLocalZone(t *testing.T, loc *time.Location) {
	t.Helper()
	prev := time.Local
	time.Local = loc
	t.Cleanup(func() { time.Local = prev })
}

func TestParseDay(t *testing.T) {
	madrid := time.FixedZone("CET", 3600)
	withLocalZone(t, madrid)

	tests := []struct {
		name  string
		value string
		want  time.Time
	}{
		{"plain date", "2025-03-11", time.Date(2025, 3, 11, 0, 0, 0, 0, madrid)},
		{"local midnight sent as UTC ISO", "2025-03-10T23:00:00.000Z", time.Date(2025, 3, 11, 0, 0, 0, 0, madrid)},
		{"UTC afternoon stays on the same local day", "2025-03-11T15:00:00Z", time.Date(2025, 3, 11, 0, 0, 0, 0, madrid)},
		{"zoneless timestamp", "2025-03-11T09:30", time.Date(2025, 3, 11, 0, 0, 0, 0, madrid)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDay(tt.value)
			require.NoError(t, err)
			assert.True(t, got.Equal(tt.want), "got %s, want %s", got, tt.want)
			assert.Equal(t, madrid, got.Location())
		})
	}
}

func TestParseDay_Invalid(t *testing.T) {
	_, err := ParseDay("11/03/2025")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestParseLocalTime(t *testing.T) {
	madrid := time.FixedZone("CET", 3600)
	withLocalZone(t, madrid)

	got, err := ParseLocalTime("2025-03-10T10:00")
	require.NoError(t, err)
	assert.True(t, got.Equal(time.Date(2025, 3, 10, 10, 0, 0, 0, madrid)))

	got, err = ParseLocalTime("2025-03-10T09:00:00Z")
	require.NoError(t, err)
	assert.Equal(t, 10, got.Hour())
	assert.Equal(t, madrid, got.Location())

	_, err = ParseLocalTime("mañana")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestDate_JSON(t *testing.T) {
	var d Date
	require.NoError(t, d.UnmarshalJSON([]byte(`"2025-03-05"`)))
	assert.Equal(t, "2025-03-05", d.String())

	data, err := d.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `"2025-03-05"`, string(data))
}
