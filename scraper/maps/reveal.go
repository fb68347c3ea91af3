package maps

// RevealState describes the progress of the lazy-loaded result list.
type RevealState int

const (
	// Growing means the last scroll step surfaced new entries.
	Growing RevealState = iota
	// Stalled means one scroll step passed without new entries.
	Stalled
	// Saturated means two consecutive steps passed without new entries;
	// the list is considered fully loaded.
	Saturated
	// TimedOut means the hard wall-clock budget ran out before saturation.
	TimedOut
)

func (s RevealState) String() string {
	switch s {
	case Growing:
		return "growing"
	case Stalled:
		return "stalled"
	case Saturated:
		return "saturated"
	case TimedOut:
		return "timed_out"
	default:
		return "unknown"
	}
}

// Lazy-loaded lists give no authoritative end signal; two consecutive
// unchanged counts is the empirical proxy for fully loaded.
const saturationStalls = 2

// revealTracker turns a sequence of post-scroll entry counts into reveal
// states.
type revealTracker struct {
	last   int
	stalls int
}

// Observe records one entry count and returns the resulting state.
func (t *revealTracker) Observe(count int) RevealState {
	if count > t.last {
		t.last = count
		t.stalls = 0
		return Growing
	}

	t.stalls++
	if t.stalls >= saturationStalls {
		return Saturated
	}
	return Stalled
}
