package storageopt

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOpCounter(t *testing.T) {
	var c OpCounter
	c.Observe(nil)
	c.Observe(errors.New("boom"))
	c.Observe(nil)

	assert.Equal(t, int64(3), c.Ops())
	assert.Equal(t, int64(1), c.Errors())
}

func TestSlowQueryCounter(t *testing.T) {
	var s SlowQueryCounter
	s.Inc()
	assert.Equal(t, int64(1), s.Count())
}
