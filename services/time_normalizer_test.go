package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pavelanni/NightSky/types"
)

func utc(y int, m time.Month, d, h, mi, s int) time.Time {
	return time.Date(y, m, d, h, mi, s, 0, time.UTC)
}

func TestNormalize(t *testing.T) {
	// Saturday
	now := utc(2024, 6, 1, 8, 15, 30)

	tests := []struct {
		name string
		date string
		time string
		tz   string
		want time.Time
	}{
		{"today noon UTC", "today", "noon", "UTC", utc(2024, 6, 1, 12, 0, 0)},
		{"iso date in Paris", "2024-06-01", "12:00", "Europe/Paris", utc(2024, 6, 1, 10, 0, 0)},
		{"empty phrases mean now", "", "", "Europe/Paris", now},
		{"explicit now", "today", "now", "America/New_York", now},
		{"now as date", "now", "", "Asia/Tokyo", now},
		{"tomorrow evening pm", "tomorrow", "9 pm", "America/New_York", utc(2024, 6, 3, 1, 0, 0)},
		{"yesterday with seconds", "yesterday", "23:59:59", "UTC", utc(2024, 5, 31, 23, 59, 59)},
		{"tonight without time", "tonight", "", "Europe/London", utc(2024, 6, 1, 21, 0, 0)},
		{"period code evening", "today", "EV", "UTC", utc(2024, 6, 1, 19, 0, 0)},
		{"period code morning", "today", "MO", "UTC", utc(2024, 6, 1, 9, 0, 0)},
		{"midnight", "tomorrow", "midnight", "UTC", utc(2024, 6, 2, 0, 0, 0)},
		{"am with minutes", "today", "7:45 a.m.", "UTC", utc(2024, 6, 1, 7, 45, 0)},
		{"twelve am", "today", "12 am", "UTC", utc(2024, 6, 1, 0, 0, 0)},
		{"twelve pm", "today", "12pm", "UTC", utc(2024, 6, 1, 12, 0, 0)},
		{"weekday ahead", "monday", "noon", "UTC", utc(2024, 6, 3, 12, 0, 0)},
		{"weekday today", "Saturday", "noon", "UTC", utc(2024, 6, 1, 12, 0, 0)},
		{"next weekday skips today", "next saturday", "noon", "UTC", utc(2024, 6, 8, 12, 0, 0)},
		{"present ref", "PRESENT_REF", "noon", "UTC", utc(2024, 6, 1, 12, 0, 0)},
		{"now on another day keeps wall clock", "tomorrow", "now", "UTC", utc(2024, 6, 2, 8, 15, 30)},
	}

	n := NewTimeNormalizer()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := n.Normalize(tt.date, tt.time, tt.tz, now)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "want %s, got %s", tt.want, got)
			assert.Equal(t, time.UTC, got.Location())
		})
	}
}

func TestNormalizeUsesLocalCalendarDay(t *testing.T) {
	// 08:30 on June 2 in Tokyo
	now := utc(2024, 6, 1, 23, 30, 0)

	got, err := NewTimeNormalizer().Normalize("today", "noon", "Asia/Tokyo", now)
	require.NoError(t, err)
	assert.Equal(t, utc(2024, 6, 2, 3, 0, 0), got)
}

func TestNormalizeDaylightSavingTransitions(t *testing.T) {
	n := NewTimeNormalizer()
	now := utc(2024, 3, 1, 12, 0, 0)

	// 02:30 does not exist on 2024-03-10 in New York; it moves to 03:30 EDT
	got, err := n.Normalize("2024-03-10", "2:30 am", "America/New_York", now)
	require.NoError(t, err)
	assert.Equal(t, utc(2024, 3, 10, 7, 30, 0), got)

	// 01:30 happens twice on 2024-11-03; the earlier (EDT) one wins
	got, err = n.Normalize("2024-11-03", "1:30 am", "America/New_York", now)
	require.NoError(t, err)
	assert.Equal(t, utc(2024, 11, 3, 5, 30, 0), got)

	// Southern hemisphere gap
	got, err = n.Normalize("2024-10-06", "02:30", "Australia/Sydney", now)
	require.NoError(t, err)
	assert.Equal(t, utc(2024, 10, 5, 16, 30, 0), got)
}

func TestNormalizeDeterministic(t *testing.T) {
	n := NewTimeNormalizer()
	now := utc(2024, 6, 1, 8, 0, 0)

	a, err := n.Normalize("friday", "10 pm", "Europe/Berlin", now)
	require.NoError(t, err)
	b, err := n.Normalize("friday", "10 pm", "Europe/Berlin", now)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestNormalizeErrors(t *testing.T) {
	n := NewTimeNormalizer()
	now := utc(2024, 6, 1, 8, 0, 0)

	_, err := n.Normalize("today", "noon", "", now)
	assert.ErrorIs(t, err, types.ErrAmbiguousTime)

	_, err = n.Normalize("today", "noon", "Mars/Olympus_Mons", now)
	assert.ErrorIs(t, err, types.ErrAmbiguousTime)

	for _, tc := range []struct{ date, time string }{
		{"someday", "noon"},
		{"2024-02-30", "noon"},
		{"today", "25:00"},
		{"today", "13 pm"},
		{"today", "7"},
		{"today", "10:75"},
		{"today", "teatime"},
	} {
		_, err := n.Normalize(tc.date, tc.time, "UTC", now)
		assert.ErrorIs(t, err, types.ErrUnparseableTime, "%q %q", tc.date, tc.time)
	}
}
