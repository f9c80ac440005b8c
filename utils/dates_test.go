package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDateKeepsCalendarWeekday(t *testing.T) {
	d, err := ParseDate("2024-03-04")
	require.NoError(t, err)
	assert.Equal(t, time.Monday, d.Weekday())
	assert.Equal(t, time.UTC, d.Location())

	_, err = ParseDate("04/03/2024")
	assert.Error(t, err)
}

func TestFormatDateBR(t *testing.T) {
	d, err := ParseDate("2024-12-25")
	require.NoError(t, err)
	assert.Equal(t, "25/12/2024", FormatDateBR(d))
}

func TestBeginningOfDay(t *testing.T) {
	loc := time.FixedZone("BRT", -3*60*60)
	in := time.Date(2024, 5, 10, 22, 15, 0, 0, loc)
	assert.Equal(t, time.Date(2024, 5, 10, 0, 0, 0, 0, loc), BeginningOfDay(in))
}

func TestValidSlot(t *testing.T) {
	assert.True(t, ValidSlot("08:00"))
	assert.True(t, ValidSlot("18:30"))
	assert.False(t, ValidSlot("8:00"))
	assert.False(t, ValidSlot("08:15"))
	assert.False(t, ValidSlot("25:00"))
	assert.False(t, ValidSlot(""))
}
