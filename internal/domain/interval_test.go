package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(s string) time.Time {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func interval(t *testing.T, start, end string) Interval {
	t.Helper()
	i, err := ParseInterval(start, end)
	require.NoError(t, err)
	return i
}

func TestNewInterval(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		i, err := NewInterval(date("2024-05-01"), date("2024-05-02"))
		require.NoError(t, err)
		assert.Equal(t, 1, i.DurationDays())
	})

	t.Run("Same day is rejected", func(t *testing.T) {
		_, err := NewInterval(date("2024-05-01"), date("2024-05-01"))
		assert.ErrorIs(t, err, ErrInvalidInterval)
	})

	t.Run("End before start is rejected", func(t *testing.T) {
		_, err := NewInterval(date("2024-05-10"), date("2024-05-01"))
		assert.ErrorIs(t, err, ErrInvalidInterval)
	})

	t.Run("Time of day is ignored", func(t *testing.T) {
		i, err := NewInterval(date("2024-05-01").Add(20*time.Hour), date("2024-05-03").Add(2*time.Hour))
		require.NoError(t, err)
		assert.Equal(t, 2, i.DurationDays())
		assert.Equal(t, date("2024-05-01"), i.Start())
	})

	t.Run("Malformed date string", func(t *testing.T) {
		_, err := ParseInterval("2024/05/01", "2024-05-02")
		assert.ErrorIs(t, err, ErrValidation)
	})
}

func TestInterval_DurationDays(t *testing.T) {
	tests := []struct {
		start, end string
		expected   int
	}{
		{"2024-05-01", "2024-05-06", 5},
		{"2024-02-28", "2024-03-01", 2}, // leap year
		{"2023-12-25", "2024-01-24", 30},
		{"2024-01-01", "2024-03-31", 90},
	}

	for _, tt := range tests {
		t.Run(tt.start+"_"+tt.end, func(t *testing.T) {
			assert.Equal(t, tt.expected, interval(t, tt.start, tt.end).DurationDays())
		})
	}
}

func TestInterval_Overlaps(t *testing.T) {
	base := interval(t, "2024-05-01", "2024-05-10")

	tests := []struct {
		name       string
		start, end string
		expected   bool
	}{
		{"Shared boundary day", "2024-05-10", "2024-05-15", true},
		{"Shared start day", "2024-04-25", "2024-05-01", true},
		{"Next day", "2024-05-11", "2024-05-20", false},
		{"Before", "2024-04-01", "2024-04-30", false},
		{"Contained", "2024-05-03", "2024-05-04", true},
		{"Containing", "2024-04-01", "2024-06-01", true},
		{"Identical", "2024-05-01", "2024-05-10", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			other := interval(t, tt.start, tt.end)
			assert.Equal(t, tt.expected, base.Overlaps(other))
			assert.Equal(t, base.Overlaps(other), other.Overlaps(base), "overlap must be symmetric")
		})
	}
}

func TestInterval_Covers(t *testing.T) {
	i := interval(t, "2024-05-01", "2024-05-10")
	assert.True(t, i.Covers(date("2024-05-01")))
	assert.True(t, i.Covers(date("2024-05-10").Add(23*time.Hour)))
	assert.False(t, i.Covers(date("2024-05-11")))
	assert.False(t, i.Covers(date("2024-04-30")))
}

func TestInterval_JSON(t *testing.T) {
	i := interval(t, "2024-05-01", "2024-05-10")
	data, err := json.Marshal(i)
	require.NoError(t, err)
	assert.JSONEq(t, `{"start_date":"2024-05-01","end_date":"2024-05-10"}`, string(data))

	var bad Interval
	err = json.Unmarshal([]byte(`{"start_date":"2024-05-10","end_date":"2024-05-01"}`), &bad)
	assert.ErrorIs(t, err, ErrInvalidInterval)
}
