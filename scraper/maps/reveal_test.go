package maps

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRevealTrackerTwoStallsSaturate(t *testing.T) {
	tracker := revealTracker{}

	assert.Equal(t, Growing, tracker.Observe(5))
	assert.Equal(t, Growing, tracker.Observe(9))
	// first unchanged count is only a stall, not the end of the list
	assert.Equal(t, Stalled, tracker.Observe(9))
	assert.Equal(t, Saturated, tracker.Observe(9))
}

func TestRevealTrackerGrowthResetsStalls(t *testing.T) {
	tracker := revealTracker{}

	tracker.Observe(3)
	assert.Equal(t, Stalled, tracker.Observe(3))
	assert.Equal(t, Growing, tracker.Observe(7))
	assert.Equal(t, Stalled, tracker.Observe(7))
	assert.Equal(t, Saturated, tracker.Observe(7))
}

func TestRevealStateString(t *testing.T) {
	assert.Equal(t, "growing", Growing.String())
	assert.Equal(t, "stalled", Stalled.String())
	assert.Equal(t, "saturated", Saturated.String())
	assert.Equal(t, "timed_out", TimedOut.String())
}
