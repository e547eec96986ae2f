package timezone

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLocation(t *testing.T) {
	assert.Equal(t, "UTC", Location("").String())
	assert.Equal(t, "UTC", Location("Not/AZone").String())
	assert.True(t, IsValid("UTC"))
	assert.False(t, IsValid(""))
}

func TestFixedClock(t *testing.T) {
	loc := time.FixedZone("clinic", 3600)
	c := &FixedClock{At: time.Date(2099, 1, 1, 8, 0, 0, 0, loc)}

	assert.Equal(t, c.Now(), c.Now())
	assert.Equal(t, loc, c.Location())

	c.Advance(90 * time.Minute)
	assert.Equal(t, time.Date(2099, 1, 1, 9, 30, 0, 0, loc), c.Now())
}

func TestNewClock(t *testing.T) {
	c := NewClock(nil)
	assert.Equal(t, time.UTC, c.Location())
	assert.Equal(t, time.UTC, c.Now().Location())
}
