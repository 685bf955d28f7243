package dates

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestClockTimeAfter(t *testing.T) {
	from := time.Date(2026, time.March, 2, 23, 58, 30, 0, time.UTC)

	assert.Equal(t, "23:58", ClockTimeAfter(from, 0))
	assert.Equal(t, "00:03", ClockTimeAfter(from, 5))
	assert.Equal(t, "01:58", ClockTimeAfter(from, 120))
}
