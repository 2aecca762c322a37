package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWeekdaySetContains(t *testing.T) {
	days := WeekdaySet{"Monday", "Wednesday", "Friday"}

	assert.True(t, days.Contains(time.Monday))
	assert.True(t, days.Contains(time.Wednesday))
	assert.True(t, days.Contains(time.Friday))
	assert.False(t, days.Contains(time.Tuesday))
	assert.False(t, days.Contains(time.Sunday))

	var empty WeekdaySet
	assert.False(t, empty.Contains(time.Monday))
}

func TestValidWeekday(t *testing.T) {
	for _, name := range []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"} {
		assert.True(t, ValidWeekday(name))
	}

	assert.False(t, ValidWeekday("monday"))
	assert.False(t, ValidWeekday("Mon"))
	assert.False(t, ValidWeekday(""))
}

func TestWeekdaySetScan(t *testing.T) {
	var days WeekdaySet
	require.NoError(t, days.Scan([]byte(`["Tuesday","Thursday"]`)))
	assert.Equal(t, WeekdaySet{"Tuesday", "Thursday"}, days)

	require.NoError(t, days.Scan(nil))
	assert.Nil(t, days)

	assert.Error(t, days.Scan(42))
}
