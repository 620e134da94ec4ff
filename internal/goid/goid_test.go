package goid

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIDIsStableWithinGoroutine(t *testing.T) {
	first := ID()
	second := ID()
	assert.NotZero(t, first)
	assert.Equal(t, first, second)
}

func TestIDDiffersAcrossGoroutines(t *testing.T) {
	mine := ID()
	ch := make(chan uint64, 1)
	go func() {
		ch <- ID()
	}()
	other := <-ch
	assert.NotZero(t, other)
	assert.NotEqual(t, mine, other)
}
