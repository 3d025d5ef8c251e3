package story

import (
	"fmt"
	"math"
	"strings"
)

// readingWPM is a slow read-aloud pace suited to bedtime.
const readingWPM = 120.0

// EstimateReadingTime renders a rough read-aloud duration for a story,
// never below one minute.
func EstimateReadingTime(text string) string {
	words := len(strings.Fields(text))
	// Round half-to-even, so a 2.5-minute story reads as ~2 min.
	minutes := int(math.RoundToEven(float64(words) / readingWPM))
	if minutes < 1 {
		minutes = 1
	}
	return fmt.Sprintf("~%d min read", minutes)
}
