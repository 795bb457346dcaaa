package api

import (
	"sync"
	"time"
)

// analysisQuota bounds how often one user can call the paid vision model
// within a sliding window.
type analysisQuota struct {
	mu     sync.Mutex
	limit  int
	window time.Duration
	calls  map[string][]time.Time
}

func newAnalysisQuota(limit int, window time.Duration) *analysisQuota {
	return &analysisQuota{
		limit:  limit,
		window: window,
		calls:  make(map[string][]time.Time),
	}
}

// allow records a call for userID and reports whether it fits the quota.
// Rejected calls are not recorded.
func (quota *analysisQuota) allow(userID string, now time.Time) bool {
	quota.mu.Lock()
	defer quota.mu.Unlock()

	recent := quota.recentLocked(userID, now)
	if len(recent) >= quota.limit {
		return false
	}
	quota.calls[userID] = append(recent, now)
	return true
}

// remaining is the number of calls userID can still make at now.
func (quota *analysisQuota) remaining(userID string, now time.Time) int {
	quota.mu.Lock()
	defer quota.mu.Unlock()

	left := quota.limit - len(quota.recentLocked(userID, now))
	if left < 0 {
		return 0
	}
	return left
}

func (quota *analysisQuota) recentLocked(userID string, now time.Time) []time.Time {
	threshold := now.Add(-quota.window)
	calls := quota.calls[userID]
	kept := calls[:0]
	for _, at := range calls {
		if at.After(threshold) {
			kept = append(kept, at)
		}
	}
	if len(kept) == 0 {
		delete(quota.calls, userID)
		return nil
	}
	quota.calls[userID] = kept
	return kept
}
