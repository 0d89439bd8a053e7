// Package lyrics inspects lyrics text as stored in music files.
// Lyrics are written verbatim; this package only describes them.
package lyrics

import (
	"bufio"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Info summarizes a lyrics text.
type Info struct {
	// Synced is true when at least one line carries an LRC timestamp.
	Synced bool
	// Lines counts non-empty lyric lines, excluding LRC header tags.
	Lines int
	// Last is the latest timestamp found, zero for unsynced lyrics.
	Last time.Duration
}

var (
	// Matches timestamps like [00:12.34] or [00:12:34] or [00:12]
	timestampRe = regexp.MustCompile(`\[(\d+):(\d+)(?:[.:](\d+))?\]`)

	// Matches header tags like [ar:Artist Name]
	headerRe = regexp.MustCompile(`^\[([a-z]+):(.+)\]$`)
)

// Inspect describes text. Plain lyrics count every non-empty line.
func Inspect(text string) Info {
	var info Info
	scanner := bufio.NewScanner(strings.NewReader(text))
	scanner.Buffer(make([]byte, 0, 64*1024), len(text)+1)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || headerRe.MatchString(line) {
			continue
		}
		info.Lines++

		for _, m := range timestampRe.FindAllStringSubmatch(line, -1) {
			ts, ok := parseTimestamp(m)
			if !ok {
				continue
			}
			info.Synced = true
			info.Last = max(info.Last, ts)
		}
	}
	return info
}

// parseTimestamp converts a timestampRe match into a Duration.
func parseTimestamp(m []string) (time.Duration, bool) {
	minutes, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	seconds, err := strconv.Atoi(m[2])
	if err != nil {
		return 0, false
	}

	var millis int
	if m[3] != "" {
		if millis, err = strconv.Atoi(m[3]); err != nil {
			return 0, false
		}
		// .xx is centiseconds, .xxx milliseconds
		if len(m[3]) == 2 {
			millis *= 10
		}
	}

	return time.Duration(minutes)*time.Minute +
		time.Duration(seconds)*time.Second +
		time.Duration(millis)*time.Millisecond, true
}
