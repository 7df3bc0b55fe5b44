package domain

import (
	"math"
	"time"
)

// Mean synodic month: full moon to full moon.
const synodicMonthDays = 29.530588

// Reference full moon used as the lunar epoch (2024-01-25 17:54 UTC).
var referenceFullMoon = time.Date(2024, time.January, 25, 17, 54, 0, 0, time.UTC)

// Box jellyfish arrive on leeward shores 8 to 10 days after the full moon.
const (
	influxStartDay = 8
	influxEndDay   = 10
)

// JellyfishForecast describes the next (or current) box-jellyfish influx
// window for an island's leeward shores.
type JellyfishForecast struct {
	Island            Island    `json:"island"`
	WindowStart       time.Time `json:"window_start"`
	WindowEnd         time.Time `json:"window_end"`
	Risk              string    `json:"risk"` // "low", "moderate", "high"
	DaysAfterFullMoon int       `json:"days_after_full_moon"`
}

// DaysSinceFullMoon returns the days elapsed since the most recent full moon.
func DaysSinceFullMoon(t time.Time) float64 {
	elapsed := t.Sub(referenceFullMoon).Hours() / 24
	_, frac := math.Modf(elapsed / synodicMonthDays)
	if frac < 0 {
		frac += 1
	}
	return frac * synodicMonthDays
}

// lastFullMoon returns the most recent full moon at or before t.
func lastFullMoon(t time.Time) time.Time {
	days := DaysSinceFullMoon(t)
	return t.Add(-time.Duration(days * 24 * float64(time.Hour)))
}

// JellyfishOutlook computes the influx forecast as of now. When now falls
// inside an influx window the window is the current one; otherwise it is the
// next one. Risk is "high" inside the window, "moderate" within a day of it,
// and "low" otherwise.
func JellyfishOutlook(now time.Time, island Island) JellyfishForecast {
	full := lastFullMoon(now)
	start := full.AddDate(0, 0, influxStartDay)
	end := full.AddDate(0, 0, influxEndDay+1) // window covers days 8-10 inclusive

	// Past this cycle's window: roll forward to the next full moon.
	if now.After(end) {
		full = full.Add(time.Duration(synodicMonthDays * 24 * float64(time.Hour)))
		start = full.AddDate(0, 0, influxStartDay)
		end = full.AddDate(0, 0, influxEndDay+1)
	}

	days := int(DaysSinceFullMoon(now))
	risk := "low"
	switch {
	case !now.Before(start) && now.Before(end):
		risk = "high"
	case now.After(start.AddDate(0, 0, -1)) && now.Before(start):
		risk = "moderate"
	}

	return JellyfishForecast{
		Island:            island,
		WindowStart:       start,
		WindowEnd:         end,
		Risk:              risk,
		DaysAfterFullMoon: days,
	}
}

// JellyfishIdentity keys a forecast by island and window start date.
func JellyfishIdentity(island Island, windowStart time.Time) string {
	return IdentityHash("jellyfish", string(island), windowStart.UTC().Format("2006-01-02"))
}
