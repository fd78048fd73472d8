package departures

import (
	"fmt"
	"time"
)

// CountdownMode selects how minute differences of an hour or more are shown
type CountdownMode string

const (
	// CountdownWrap shows minutes past the hour, as the dashboard always has
	CountdownWrap CountdownMode = "wrap"
	// CountdownExact shows the full difference
	CountdownExact CountdownMode = "exact"
	// CountdownDrop discards departures an hour or more away in either direction
	CountdownDrop CountdownMode = "drop"
)

// ParseCountdownMode validates a configured countdown mode
func ParseCountdownMode(s string) (CountdownMode, error) {
	switch mode := CountdownMode(s); mode {
	case CountdownWrap, CountdownExact, CountdownDrop:
		return mode, nil
	case "":
		return CountdownWrap, nil
	default:
		return "", fmt.Errorf("unknown countdown mode %q", s)
	}
}

// Countdown returns the minutes left to reach the platform for a departure at
// arrival (unix seconds). ok is false only in CountdownDrop mode for
// departures outside the hour window.
func Countdown(arrival int64, now time.Time, walkingTime int, mode CountdownMode) (int, bool) {
	seconds := arrival - now.Round(time.Second).Unix()
	minutes := seconds / 60
	if seconds%60 != 0 && seconds < 0 {
		minutes--
	}

	switch mode {
	case CountdownExact:
		return int(minutes) - walkingTime, true
	case CountdownDrop:
		if minutes <= -60 || minutes >= 60 {
			return 0, false
		}
		return int(minutes) - walkingTime, true
	default:
		return minuteOfHour(minutes) - walkingTime, true
	}
}

// minuteOfHour keeps the last two display characters of minutes % 60, so
// -1..-9 stay negative while -10..-59 lose their sign.
func minuteOfHour(minutes int64) int {
	m := int(minutes % 60)
	if m <= -10 {
		return -m
	}
	return m
}
