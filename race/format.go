package race

import (
	"fmt"
	"time"
)

// FormatElapsed renders a finish time for display. Under a minute it reads
// "12.345s"; from a minute up it reads "1:02.345" with unbounded minutes.
func FormatElapsed(d time.Duration) string {
	ms := d.Milliseconds()
	if ms < 60000 {
		return fmt.Sprintf("%d.%03ds", ms/1000, ms%1000)
	}
	return fmt.Sprintf("%d:%02d.%03d", ms/60000, ms%60000/1000, ms%1000)
}
