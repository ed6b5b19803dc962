package pos_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/backoffice/pos"
)

func TestNewPeriod_ValidatesMonth(t *testing.T) {
	_, err := pos.NewPeriod(2024, 0)
	assert.ErrorIs(t, err, pos.ErrInvalidPeriod)

	_, err = pos.NewPeriod(2024, 13)
	assert.ErrorIs(t, err, pos.ErrInvalidPeriod)

	p, err := pos.NewPeriod(2024, 12)
	require.NoError(t, err)
	assert.Equal(t, time.December, p.Month)
}

func TestParsePeriod(t *testing.T) {
	p, err := pos.ParsePeriod("2024-03")
	require.NoError(t, err)
	assert.Equal(t, 2024, p.Year)
	assert.Equal(t, time.March, p.Month)

	for _, bad := range []string{"", "2024", "2024-3", "03-2024", "2024-00", "2024-13", "not-a-period"} {
		_, err := pos.ParsePeriod(bad)
		assert.ErrorIs(t, err, pos.ErrInvalidPeriod, "input %q", bad)
	}
}

func TestPeriod_BoundsAreHalfOpen(t *testing.T) {
	// GIVEN: March 2024
	// THEN: [Mar 1 00:00:00, Apr 1 00:00:00) in UTC

	p, err := pos.NewPeriod(2024, 3)
	require.NoError(t, err)

	assert.Equal(t, time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC), p.Start())
	assert.Equal(t, time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC), p.End())

	assert.True(t, p.Contains(time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)))
	assert.True(t, p.Contains(time.Date(2024, time.March, 31, 23, 59, 59, 0, time.UTC)))
	assert.False(t, p.Contains(p.End()))
}

func TestPeriod_DecemberRollsIntoNextYear(t *testing.T) {
	p, err := pos.NewPeriod(2024, 12)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC), p.End())
}

func TestPeriodOf(t *testing.T) {
	p := pos.PeriodOf(time.Date(2024, time.March, 10, 14, 23, 1, 0, time.UTC))
	assert.Equal(t, 2024, p.Year)
	assert.Equal(t, time.March, p.Month)
}

func TestPeriod_String(t *testing.T) {
	p, err := pos.NewPeriod(2024, 3)
	require.NoError(t, err)
	assert.Equal(t, "2024-03", p.String())

	p, err = pos.NewPeriod(987, 11)
	require.NoError(t, err)
	assert.Equal(t, "0987-11", p.String())
}
