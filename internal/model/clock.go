package model

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Period lengths in seconds.
const (
	RegulationPeriodSeconds = 12 * 60
	OvertimePeriodSeconds   = 5 * 60
	RegulationPeriods       = 4
	// GameSeconds is a standard 48-minute game, the pace normalizer.
	GameSeconds = 2880
)

var isoClockRe = regexp.MustCompile(`^PT(?:(\d+)H)?(?:(\d+)M)?(?:(\d+(?:\.\d+)?)S)?$`)

// ParseClock converts a game clock to seconds. It accepts ISO-8601 durations
// ("PT11M32.00S") and "MM:SS" strings. Malformed input yields 0.
func ParseClock(clock string) float64 {
	clock = strings.TrimSpace(clock)
	if clock == "" {
		return 0
	}
	if strings.HasPrefix(clock, "PT") {
		m := isoClockRe.FindStringSubmatch(clock)
		if m == nil {
			return 0
		}
		var total float64
		if m[1] != "" {
			h, _ := strconv.Atoi(m[1])
			total += float64(h) * 3600
		}
		if m[2] != "" {
			mins, _ := strconv.Atoi(m[2])
			total += float64(mins) * 60
		}
		if m[3] != "" {
			secs, _ := strconv.ParseFloat(m[3], 64)
			total += secs
		}
		return total
	}
	parts := strings.Split(clock, ":")
	if len(parts) != 2 {
		return 0
	}
	mins, err := strconv.Atoi(parts[0])
	if err != nil || mins < 0 {
		return 0
	}
	secs, err := strconv.ParseFloat(parts[1], 64)
	if err != nil || secs < 0 {
		return 0
	}
	return float64(mins)*60 + secs
}

// NormalizeClock renders an ISO clock as "M:SS". Non-ISO input is returned unchanged.
func NormalizeClock(clock string) string {
	if clock == "" || !strings.HasPrefix(clock, "PT") {
		return clock
	}
	if !isoClockRe.MatchString(clock) {
		return clock
	}
	secs := int(math.Floor(ParseClock(clock)))
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}

// FormatMinutes renders a seconds total as "MM:SS", rounding to the nearest second.
func FormatMinutes(seconds float64) string {
	s := int(math.Round(math.Max(0, seconds)))
	return fmt.Sprintf("%02d:%02d", s/60, s%60)
}

// PeriodLength returns the length of period p in seconds.
func PeriodLength(p int) float64 {
	if p <= RegulationPeriods {
		return RegulationPeriodSeconds
	}
	return OvertimePeriodSeconds
}

// PeriodLabel renders a period as "Q1".."Q4", "OT", "OT2"...
func PeriodLabel(p int) string {
	if p <= RegulationPeriods {
		return fmt.Sprintf("Q%d", p)
	}
	return overtimeLabel(p)
}

// LiveClock marks the period in progress and its remaining game clock.
type LiveClock struct {
	Period int    `json:"period"`
	Clock  string `json:"clock"`
}

// Elapsed returns the seconds played in period p. Without a live clock every
// period counts in full; periods after the live one have not started.
func (l *LiveClock) Elapsed(p int) float64 {
	if l == nil || p < l.Period {
		return PeriodLength(p)
	}
	if p > l.Period {
		return 0
	}
	return math.Max(0, PeriodLength(p)-ParseClock(l.Clock))
}

// EndClock is the clock at which period p stops counting: 0 for completed
// periods, the live clock for the period in progress.
func (l *LiveClock) EndClock(p int) float64 {
	if l == nil || p != l.Period {
		return 0
	}
	return ParseClock(l.Clock)
}
