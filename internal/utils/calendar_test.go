package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestRentalDays(t *testing.T) {
	cases := []struct {
		name  string
		start string
		end   string
		want  int32
	}{
		{"SameDay", "2026-03-10", "2026-03-10", 1},
		{"TwoDays", "2026-03-10", "2026-03-11", 2},
		{"FiveDays", "2026-03-01", "2026-03-05", 5},
		{"AcrossMonth", "2026-03-30", "2026-04-02", 4},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			days, err := RentalDays(day(tc.start), day(tc.end))
			assert.NoError(t, err)
			assert.Equal(t, tc.want, days)
		})
	}

	t.Run("EndBeforeStart", func(t *testing.T) {
		_, err := RentalDays(day("2026-03-10"), day("2026-03-09"))
		assert.Error(t, err)
	})
}

func TestDeltaDays(t *testing.T) {
	t.Run("ThreeDayExtension", func(t *testing.T) {
		days, err := DeltaDays(day("2026-03-05"), day("2026-03-08"))
		assert.NoError(t, err)
		assert.Equal(t, int32(3), days)
	})

	t.Run("SingleDay", func(t *testing.T) {
		days, err := DeltaDays(day("2026-03-05"), day("2026-03-06"))
		assert.NoError(t, err)
		assert.Equal(t, int32(1), days)
	})

	t.Run("NotForward", func(t *testing.T) {
		_, err := DeltaDays(day("2026-03-05"), day("2026-03-05"))
		assert.Error(t, err)
		_, err = DeltaDays(day("2026-03-05"), day("2026-03-04"))
		assert.Error(t, err)
	})

	// Extending once by five days or twice summing to five days must charge
	// the same number of days overall.
	t.Run("Additive", func(t *testing.T) {
		whole, err := DeltaDays(day("2026-03-05"), day("2026-03-10"))
		assert.NoError(t, err)

		first, err := DeltaDays(day("2026-03-05"), day("2026-03-07"))
		assert.NoError(t, err)
		second, err := DeltaDays(day("2026-03-07"), day("2026-03-10"))
		assert.NoError(t, err)

		assert.Equal(t, whole, first+second)
	})
}

func TestRentalCost(t *testing.T) {
	assert.Equal(t, int64(25000), RentalCost(5, 5000, 0, false))
	assert.Equal(t, int64(32500), RentalCost(5, 5000, 1500, true))
	// Driver rate is ignored unless the rental is with driver.
	assert.Equal(t, int64(25000), RentalCost(5, 5000, 1500, false))
}

func TestDepositAmount(t *testing.T) {
	assert.Equal(t, int64(5000), DepositAmount(25000, 20))
	assert.Equal(t, int64(0), DepositAmount(25000, 0))
	assert.Equal(t, int64(0), DepositAmount(25000, -5))
	// Truncates to whole cents.
	assert.Equal(t, int64(3333), DepositAmount(33335, 10))
}

func TestSameDay(t *testing.T) {
	morning := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	evening := time.Date(2026, 3, 10, 22, 30, 0, 0, time.UTC)
	nextDay := time.Date(2026, 3, 11, 0, 0, 1, 0, time.UTC)

	assert.True(t, SameDay(morning, evening))
	assert.False(t, SameDay(evening, nextDay))
}
