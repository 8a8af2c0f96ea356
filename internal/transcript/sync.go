package transcript

import (
	"fmt"
	"strings"
)

// VisibleAt returns the transcript visible at playback position t: every cue
// whose start is at or before t, in cue order, each line prefixed with the
// cue's own start rendered as [HH:MM:SS]. It is recomputed in full on every
// playback update; cue counts for a single session track are small enough
// that no incremental state is needed.
func VisibleAt(cues []Cue, t float64) string {
	var b strings.Builder
	for _, c := range cues {
		if c.Start > t {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString("[")
		b.WriteString(FormatTimestamp(c.Start))
		b.WriteString("] ")
		b.WriteString(c.Text)
	}
	return b.String()
}

// FormatTimestamp renders seconds as zero-padded HH:MM:SS, truncating
// sub-second precision. It is pure arithmetic, independent of any calendar
// or timezone.
func FormatTimestamp(sec float64) string {
	total := int(sec)
	if total < 0 {
		total = 0
	}
	return fmt.Sprintf("%02d:%02d:%02d", total/3600, (total%3600)/60, total%60)
}
