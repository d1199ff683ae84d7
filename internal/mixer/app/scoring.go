package app

// MatchScore is the pure confidence function for one candidate link.
//
// timeDelta is withdrawal minus deposit time in seconds, contending is the
// number of deposits whose window covers the withdrawal (the anonymity set,
// at least 1, counting the linked deposit itself), window is the configured
// max delay and floor the temporal score at exactly window.
//
// The temporal factor decays linearly from 1 at delta 0 to floor at delta ==
// window, then the anonymity set divides it: every extra contending deposit
// dilutes each link's confidence, because links are never exclusive. The
// result is in (0,1]: strictly decreasing in timeDelta for a fixed set size
// and strictly decreasing in set size for a fixed delta.
//
// The shape of the curve is a tuning choice, not a protocol fact; only the
// monotonicity directions are contractual.
func MatchScore(timeDelta int64, contending int, window int64, floor float64) float64 {
	if window <= 0 || timeDelta < 0 || timeDelta > window {
		return 0
	}
	if contending < 1 {
		contending = 1
	}
	temporal := 1 - (1-floor)*float64(timeDelta)/float64(window)
	return temporal / float64(contending)
}
