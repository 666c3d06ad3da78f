package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vaadbayit/vaad_backend/internal/core/domain"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNewDateRange(t *testing.T) {
	r, err := domain.NewDateRange(time.Date(2024, 1, 1, 15, 30, 0, 0, time.UTC), date(2024, 3, 31))
	require.NoError(t, err)
	assert.Equal(t, date(2024, 1, 1), r.Start)

	_, err = domain.NewDateRange(date(2024, 4, 1), date(2024, 3, 31))
	assert.Error(t, err)

	single, err := domain.NewDateRange(date(2024, 2, 1), date(2024, 2, 1))
	require.NoError(t, err)
	assert.True(t, single.Contains(date(2024, 2, 1)))
}

func TestDateRange_ContainsIsInclusive(t *testing.T) {
	r := domain.DateRange{Start: date(2024, 1, 1), End: date(2024, 3, 1)}
	assert.True(t, r.Contains(date(2024, 1, 1)))
	assert.True(t, r.Contains(date(2024, 3, 1)))
	assert.False(t, r.Contains(date(2023, 12, 1)))
	assert.False(t, r.Contains(date(2024, 4, 1)))
}

func TestMonthHelpers(t *testing.T) {
	assert.Equal(t, date(2024, 2, 1), domain.MonthStart(date(2024, 2, 29)))
	assert.Equal(t, date(2024, 2, 29), domain.MonthEnd(date(2024, 2, 10)))
	assert.Equal(t, date(2025, 1, 1), domain.AddMonths(date(2024, 11, 1), 2))
	assert.Equal(t, date(2023, 12, 1), domain.AddMonths(date(2024, 1, 15), -1))
}

func TestDateRange_HalfYearSegments(t *testing.T) {
	t.Run("range spanning three halves is clipped at both ends", func(t *testing.T) {
		r := domain.DateRange{Start: date(2023, 3, 15), End: date(2024, 2, 10)}
		segments := r.HalfYearSegments()
		require.Len(t, segments, 3)

		assert.Equal(t, "H1 2023", segments[0].Label)
		assert.Equal(t, date(2023, 3, 15), segments[0].Range.Start)
		assert.Equal(t, date(2023, 6, 30), segments[0].Range.End)

		assert.Equal(t, "H2 2023", segments[1].Label)
		assert.Equal(t, date(2023, 7, 1), segments[1].Range.Start)
		assert.Equal(t, date(2023, 12, 31), segments[1].Range.End)

		assert.Equal(t, "H1 2024", segments[2].Label)
		assert.Equal(t, date(2024, 1, 1), segments[2].Range.Start)
		assert.Equal(t, date(2024, 2, 10), segments[2].Range.End)
	})

	t.Run("range inside one half", func(t *testing.T) {
		r := domain.DateRange{Start: date(2024, 8, 1), End: date(2024, 9, 30)}
		segments := r.HalfYearSegments()
		require.Len(t, segments, 1)
		assert.Equal(t, 2, segments[0].Half)
		assert.Equal(t, r, segments[0].Range)
	})
}
