// Package projector maps countdown state to the values a render layer needs.
// It never computes pixel or stroke values; the renderer owns that.
package projector

import (
	"fmt"
	"time"
)

// Fraction returns the share of total already elapsed, 1 - remaining/total,
// clamped to [0,1]. A non-positive total counts as complete.
func Fraction(remaining, total time.Duration) float64 {
	if total <= 0 {
		return 1
	}
	progress := 1 - float64(remaining)/float64(total)
	if progress < 0 {
		return 0
	}
	if progress > 1 {
		return 1
	}
	return progress
}

// Clock formats remaining as MM:SS. Seconds are floored, never rounded.
// Minutes are not wrapped, so a 120 minute countdown shows "120:00".
func Clock(remaining time.Duration) string {
	if remaining < 0 {
		remaining = 0
	}
	seconds := int(remaining / time.Second)
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
