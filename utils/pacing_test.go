package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPacerDelayStaysInRange(t *testing.T) {
	p := NewPacer(100*time.Millisecond, 300*time.Millisecond)
	for i := 0; i < 200; i++ {
		d := p.Delay()
		assert.GreaterOrEqual(t, d, 100*time.Millisecond)
		assert.Less(t, d, 300*time.Millisecond)
	}
}

func TestPacerZeroRangeNeverDelays(t *testing.T) {
	p := NewPacer(0, 0)
	for i := 0; i < 10; i++ {
		assert.Zero(t, p.Delay())
	}
}

func TestPacerFixedRange(t *testing.T) {
	p := NewPacer(50*time.Millisecond, 50*time.Millisecond)
	assert.Equal(t, 50*time.Millisecond, p.Delay())
}

func TestPacerSwapsInvertedBounds(t *testing.T) {
	p := NewPacer(300*time.Millisecond, 100*time.Millisecond)
	d := p.Delay()
	assert.GreaterOrEqual(t, d, 100*time.Millisecond)
	assert.Less(t, d, 300*time.Millisecond)
}

func TestURLSet(t *testing.T) {
	s := NewURLSet()

	assert.True(t, s.Add("https://maps/a"))
	assert.False(t, s.Add("https://maps/a"))
	assert.True(t, s.Add("https://maps/b"))

	assert.True(t, s.Contains("https://maps/a"))
	assert.False(t, s.Contains("https://maps/c"))
	assert.Equal(t, 2, s.Size())
}
