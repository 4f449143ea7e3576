package helpers

import (
	"time"
)

// PollForSpecificResultValue calls testFn repeatedly at intervals until the expected value is seen
// or the timeout elapses. Returns true if the value was matched, false if timed out.
//
// The first call happens immediately rather than after the first interval.
func PollForSpecificResultValue[V comparable](
	testFn func() V,
	timeout time.Duration,
	interval time.Duration,
	expectedValue V,
) bool {
	if testFn() == expectedValue {
		return true
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	deadline := time.NewTimer(timeout)
	defer deadline.Stop()
	for {
		select {
		case <-deadline.C:
			return false
		case <-ticker.C:
			if testFn() == expectedValue {
				return true
			}
		}
	}
}
