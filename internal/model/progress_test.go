package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProgressPercent(t *testing.T) {
	assert.Equal(t, 0, ProgressPercent(0, 0), "no lessons yet")
	assert.Equal(t, 0, ProgressPercent(3, 0))
	assert.Equal(t, 0, ProgressPercent(0, 8))
	assert.Equal(t, 50, ProgressPercent(4, 8))
	assert.Equal(t, 33, ProgressPercent(1, 3), "truncates, never rounds up")
	assert.Equal(t, 100, ProgressPercent(8, 8))
	assert.Equal(t, 100, ProgressPercent(9, 8), "capped at 100")
}
