package pure_utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-02-01")
	assert.NoError(t, err)
	assert.Equal(t, time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC), d)

	d, err = ParseDate(" 2024-02-01 13:30:00 ")
	assert.NoError(t, err)
	assert.Equal(t, 13, d.Hour())

	_, err = ParseDate("not a date")
	assert.Error(t, err)
}

func TestParseFloat(t *testing.T) {
	f, err := ParseFloat(" 12.5 ")
	assert.NoError(t, err)
	assert.Equal(t, 12.5, f)

	f, err = ParseFloat("12,5")
	assert.NoError(t, err)
	assert.Equal(t, 12.5, f)

	_, err = ParseFloat("abc")
	assert.Error(t, err)
}
