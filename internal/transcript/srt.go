// Package transcript parses SRT subtitle tracks and derives the portion of a
// transcript visible at a given playback position.
package transcript

import (
	"strconv"
	"strings"
)

// Cue is one timestamped subtitle unit. Start is fractional seconds from the
// beginning of the recording.
type Cue struct {
	Start float64
	Text  string
}

// ParseSRT parses raw SRT text into cues, in file order. Malformed blocks are
// skipped without error; a fully unparseable input simply yields no cues.
// Timecode fields are converted arithmetically with no range validation, so
// out-of-range minutes or seconds are accepted.
func ParseSRT(text string) []Cue {
	normalized := strings.ReplaceAll(text, "\r\n", "\n")

	var cues []Cue
	for _, block := range strings.Split(normalized, "\n\n") {
		lines := trimBlock(strings.Split(block, "\n"))
		// index line, timing line, at least one text line
		if len(lines) < 3 {
			continue
		}
		if _, err := strconv.Atoi(strings.TrimSpace(lines[0])); err != nil {
			continue
		}
		start, ok := parseTimingLine(lines[1])
		if !ok {
			continue
		}
		cues = append(cues, Cue{
			Start: start,
			Text:  strings.Join(lines[2:], " "),
		})
	}
	return cues
}

func trimBlock(lines []string) []string {
	for len(lines) > 0 && strings.TrimSpace(lines[0]) == "" {
		lines = lines[1:]
	}
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

func parseTimingLine(line string) (float64, bool) {
	parts := strings.Split(line, "-->")
	if len(parts) != 2 {
		return 0, false
	}
	return parseTimecode(strings.TrimSpace(parts[0]))
}

// parseTimecode converts "HH:MM:SS,mmm" to fractional seconds.
func parseTimecode(tc string) (float64, bool) {
	fields := strings.Split(tc, ":")
	if len(fields) != 3 {
		return 0, false
	}
	secFields := strings.SplitN(fields[2], ",", 2)
	if len(secFields) != 2 {
		return 0, false
	}
	h, err := strconv.Atoi(fields[0])
	if err != nil {
		return 0, false
	}
	m, err := strconv.Atoi(fields[1])
	if err != nil {
		return 0, false
	}
	s, err := strconv.Atoi(secFields[0])
	if err != nil {
		return 0, false
	}
	ms, err := strconv.Atoi(secFields[1])
	if err != nil {
		return 0, false
	}
	return float64(h)*3600 + float64(m)*60 + float64(s) + float64(ms)/1000, true
}
