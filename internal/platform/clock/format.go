package clock

import (
	"fmt"
	"math"
)

// FormatCountdown renders seconds as mm:ss, rounding up so a display reaches
// 00:00 only when nothing is left.
func FormatCountdown(seconds float64) string {
	if seconds < 0 || math.IsNaN(seconds) {
		seconds = 0
	}
	total := int(math.Ceil(seconds))
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}
