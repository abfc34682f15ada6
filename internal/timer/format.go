package timer

import (
	"fmt"
	"time"
)

// FormatDuration renders h:mm:ss or m:ss, rounding up to whole seconds so a
// countdown never shows 0:00 while time remains.
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int64((d + time.Second - 1) / time.Second)
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}
