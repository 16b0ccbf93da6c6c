package helper

import (
	"fmt"
	"hash/fnv"
	"strings"
	"time"
)

// LapTime formats a lap time as minutes:seconds.milliseconds
func LapTime(d time.Duration) string {
	if d <= 0 {
		return "-"
	}
	seconds := d.Seconds()
	minutes := int(seconds / 60)
	seconds = seconds - float64(minutes*60)
	milliseconds := int((seconds-float64(int(seconds)))*1000 + 0.5)
	if milliseconds == 1000 {
		milliseconds = 0
		seconds++
	}
	return fmt.Sprintf("%d:%02d.%03d", minutes, int(seconds), milliseconds)
}

// Gap formats a time difference right aligned on 9 characters.
func Gap(seconds float64) string {
	diff := fmt.Sprintf("%+.3fs", seconds)
	chars := len(diff)
	if chars < 9 {
		diff = strings.Repeat(" ", 9-chars) + diff
	}
	return diff
}

// ToID hashes a name into a short numeric identifier usable in file names.
func ToID(name string) string {
	h := fnv.New32a()
	h.Write([]byte(name))
	return fmt.Sprint(h.Sum32())
}
