/*
# Module: services/time_normalizer.go
Spoken date and time phrases to an absolute UTC instant.

## Linked Modules
- [types/errors](../types/errors.go) - Error taxonomy

## Tags
business-logic, time, parsing

## Exports
TimeNormalizer, NewTimeNormalizer, Normalize

<!-- LinkedDoc RDF -->
@prefix code: <https://schema.codedoc.org/> .
<this> a code:Module ;
    code:name "services/time_normalizer.go" ;
    code:description "Spoken date and time phrases to an absolute UTC instant" ;
    code:linksTo [
        code:name "types/errors" ;
        code:path "../types/errors.go" ;
        code:relationship "Error taxonomy"
    ] ;
    code:exports :TimeNormalizer, :NewTimeNormalizer, :Normalize ;
    code:tags "business-logic", "time", "parsing" .
<!-- End LinkedDoc RDF -->
*/
package services

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/pavelanni/NightSky/types"
)

// Default wall-clock times for the voice platform's period codes and for
// "tonight" without an explicit time.
var periodTimes = map[string]clock{
	"mo":        {9, 0, 0},
	"morning":   {9, 0, 0},
	"af":        {15, 0, 0},
	"afternoon": {15, 0, 0},
	"ev":        {19, 0, 0},
	"evening":   {19, 0, 0},
	"ni":        {22, 0, 0},
	"night":     {22, 0, 0},
	"tonight":   {22, 0, 0},
	"noon":      {12, 0, 0},
	"midday":    {12, 0, 0},
	"midnight":  {0, 0, 0},
}

var weekdays = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

var clockPattern = regexp.MustCompile(`^(\d{1,2})(?::(\d{2}))?(?::(\d{2}))?\s*(am|pm)?$`)

type clock struct {
	hour, minute, second int
}

type civilDate struct {
	year  int
	month time.Month
	day   int
}

// TimeNormalizer is stateless; "now" is always passed in.
type TimeNormalizer struct{}

// NewTimeNormalizer creates a TimeNormalizer
func NewTimeNormalizer() *TimeNormalizer {
	return &TimeNormalizer{}
}

// Normalize interprets datePhrase and timePhrase as wall-clock time in
// timezoneID relative to now and returns the matching UTC instant.
//
// An empty date means today; an empty time means the current wall-clock
// time. A wall time inside a DST gap moves forward by the gap; one inside
// an overlap resolves to the earlier instant.
func (n *TimeNormalizer) Normalize(datePhrase, timePhrase, timezoneID string, now time.Time) (time.Time, error) {
	if strings.TrimSpace(timezoneID) == "" {
		return time.Time{}, types.ErrAmbiguousTime
	}
	loc, err := time.LoadLocation(timezoneID)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", types.ErrAmbiguousTime, err)
	}

	localNow := now.In(loc)
	datePhrase = normalizePhrase(datePhrase)
	timePhrase = normalizePhrase(timePhrase)

	date, err := parseDate(datePhrase, localNow)
	if err != nil {
		return time.Time{}, err
	}

	today := civilDate{localNow.Year(), localNow.Month(), localNow.Day()}
	if (timePhrase == "now" || (timePhrase == "" && datePhrase == "now")) && date == today {
		return now.UTC(), nil
	}

	var c clock
	switch {
	case timePhrase == "" && datePhrase == "tonight":
		c = periodTimes["tonight"]
	case timePhrase == "" || timePhrase == "now":
		c = clock{localNow.Hour(), localNow.Minute(), localNow.Second()}
	default:
		if c, err = parseClock(timePhrase); err != nil {
			return time.Time{}, err
		}
	}

	return resolveWallClock(date, c, loc).UTC(), nil
}

func normalizePhrase(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, ".", "")
	return strings.Join(strings.Fields(s), " ")
}

func parseDate(phrase string, localNow time.Time) (civilDate, error) {
	offset := 0
	switch phrase {
	case "", "today", "now", "tonight", "present_ref":
	case "tomorrow":
		offset = 1
	case "yesterday":
		offset = -1
	default:
		next := false
		name := phrase
		if rest, ok := strings.CutPrefix(phrase, "next "); ok {
			name, next = rest, true
		} else if rest, ok := strings.CutPrefix(phrase, "this "); ok {
			name = rest
		}

		if wd, ok := weekdays[name]; ok {
			offset = (int(wd) - int(localNow.Weekday()) + 7) % 7
			if next && offset == 0 {
				offset = 7
			}
			break
		}

		t, err := time.Parse("2006-01-02", phrase)
		if err != nil {
			return civilDate{}, fmt.Errorf("%w: date %q", types.ErrUnparseableTime, phrase)
		}
		return civilDate{t.Year(), t.Month(), t.Day()}, nil
	}

	// Noon keeps the day arithmetic clear of DST transitions
	d := time.Date(localNow.Year(), localNow.Month(), localNow.Day(), 12, 0, 0, 0, localNow.Location()).
		AddDate(0, 0, offset)
	return civilDate{d.Year(), d.Month(), d.Day()}, nil
}

func parseClock(phrase string) (clock, error) {
	if c, ok := periodTimes[phrase]; ok {
		return c, nil
	}

	m := clockPattern.FindStringSubmatch(phrase)
	if m == nil {
		return clock{}, fmt.Errorf("%w: time %q", types.ErrUnparseableTime, phrase)
	}

	hour, _ := strconv.Atoi(m[1])
	minute, second := 0, 0
	if m[2] != "" {
		minute, _ = strconv.Atoi(m[2])
	}
	if m[3] != "" {
		second, _ = strconv.Atoi(m[3])
	}

	switch m[4] {
	case "am", "pm":
		if hour < 1 || hour > 12 {
			return clock{}, fmt.Errorf("%w: hour %d out of range in %q", types.ErrUnparseableTime, hour, phrase)
		}
		hour %= 12
		if m[4] == "pm" {
			hour += 12
		}
	default:
		// A bare number is only a time with minutes, as in "7:30" or "19:00"
		if m[2] == "" || hour > 23 {
			return clock{}, fmt.Errorf("%w: time %q", types.ErrUnparseableTime, phrase)
		}
	}
	if minute > 59 || second > 59 {
		return clock{}, fmt.Errorf("%w: time %q", types.ErrUnparseableTime, phrase)
	}
	return clock{hour, minute, second}, nil
}

// resolveWallClock picks the instant for a local wall-clock time using the
// UTC offsets in effect a day either side of it.
func resolveWallClock(d civilDate, c clock, loc *time.Location) time.Time {
	naive := time.Date(d.year, d.month, d.day, c.hour, c.minute, c.second, 0, time.UTC)

	_, before := naive.Add(-24 * time.Hour).In(loc).Zone()
	_, after := naive.Add(24 * time.Hour).In(loc).Zone()

	early := naive.Add(-time.Duration(before) * time.Second)
	late := naive.Add(-time.Duration(after) * time.Second)

	earlyOK := matchesWallClock(early, d, c, loc)
	lateOK := matchesWallClock(late, d, c, loc)

	switch {
	case earlyOK && lateOK:
		if late.Before(early) {
			return late
		}
		return early
	case earlyOK:
		return early
	case lateOK:
		return late
	default:
		// Skipped by a forward transition; the pre-transition offset lands
		// the same distance past it.
		return early
	}
}

func matchesWallClock(t time.Time, d civilDate, c clock, loc *time.Location) bool {
	l := t.In(loc)
	return l.Year() == d.year && l.Month() == d.month && l.Day() == d.day &&
		l.Hour() == c.hour && l.Minute() == c.minute && l.Second() == c.second
}
