// Package schedule resolves the per-weekday auto-end configuration into
// concrete wall-clock trigger times. Weekdays are indexed 0=Monday..6=Sunday.
package schedule

import (
	"errors"
	"fmt"
	"sort"
	"time"
)

const (
	DefaultWorkingFrom = "00:00"
	DefaultWorkingTo   = "18:00"
)

// DefaultWorkdays is Monday through Friday.
var DefaultWorkdays = []int{0, 1, 2, 3, 4}

var (
	ErrEqualBounds = errors.New("schedule day start and end must differ")
	ErrInvalidTime = errors.New("invalid schedule time")
	ErrInvalidDay  = errors.New("invalid weekday index")
)

type TimeOfDay struct {
	Hour   int
	Minute int
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

func (t TimeOfDay) Before(o TimeOfDay) bool {
	return t.Hour < o.Hour || (t.Hour == o.Hour && t.Minute < o.Minute)
}

func (t TimeOfDay) After(o TimeOfDay) bool {
	return o.Before(t)
}

// ParseTimeOfDay parses "HH:MM".
func ParseTimeOfDay(s string) (TimeOfDay, bool) {
	var h, m int
	if _, err := fmt.Sscanf(s, "%d:%d", &h, &m); err != nil {
		return TimeOfDay{}, false
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return TimeOfDay{}, false
	}
	return TimeOfDay{Hour: h, Minute: m}, true
}

type Day struct {
	Enabled bool
	From    TimeOfDay
	To      TimeOfDay
}

// Week maps weekday index (0=Monday) to its configuration. Always fully
// populated: disabled days still carry their window bounds.
type Week [7]Day

// DayOption is the stored per-day form.
type DayOption struct {
	Enabled bool   `json:"enabled"`
	From    string `json:"from"`
	To      string `json:"to"`
}

// Options is the stored configuration. Schedule takes precedence; the flat
// workdays/working_from/working_to fields are the legacy representation kept
// for migration.
type Options struct {
	AutoEndEnabled bool              `json:"auto_end_enabled"`
	Schedule       map[int]DayOption `json:"schedule,omitempty"`
	Workdays       []int             `json:"workdays,omitempty"`
	WorkingFrom    string            `json:"working_from,omitempty"`
	WorkingTo      string            `json:"working_to,omitempty"`
}

func IsOvernight(from, to TimeOfDay) bool {
	return from.After(to)
}

// parseTimeOr never fails: value, then def, then midnight.
func parseTimeOr(value, def string) TimeOfDay {
	if t, ok := ParseTimeOfDay(value); ok {
		return t
	}
	if t, ok := ParseTimeOfDay(def); ok {
		return t
	}
	return TimeOfDay{}
}

func parseWorkdays(value []int, def []int) map[int]bool {
	days := make(map[int]bool, 7)
	if value != nil {
		for _, d := range value {
			if d >= 0 && d <= 6 {
				days[d] = true
			}
		}
		return days
	}
	for _, d := range def {
		days[d] = true
	}
	return days
}

// Resolve turns stored options into a full week table. The per-day schedule
// wins; days it does not cover fall back to the legacy flat options, which in
// turn fall back to the caller-supplied defaults (typically the zone active
// window) and finally to 00:00-18:00 on Mon-Fri.
func Resolve(opts Options, fallbackFrom, fallbackTo string) Week {
	fromDefault := fallbackFrom
	if _, ok := ParseTimeOfDay(fromDefault); !ok {
		fromDefault = DefaultWorkingFrom
	}
	toDefault := fallbackTo
	if _, ok := ParseTimeOfDay(toDefault); !ok {
		toDefault = DefaultWorkingTo
	}

	legacyDays := parseWorkdays(opts.Workdays, DefaultWorkdays)
	legacyFrom := parseTimeOr(opts.WorkingFrom, fromDefault)
	legacyTo := parseTimeOr(opts.WorkingTo, toDefault)

	var week Week
	for day := 0; day < 7; day++ {
		cfg, ok := opts.Schedule[day]
		if opts.Schedule == nil || !ok {
			week[day] = Day{Enabled: legacyDays[day], From: legacyFrom, To: legacyTo}
			continue
		}
		week[day] = Day{
			Enabled: cfg.Enabled,
			From:    parseTimeOr(cfg.From, fromDefault),
			To:      parseTimeOr(cfg.To, toDefault),
		}
	}
	return week
}

// EndTimes returns the distinct end times of enabled days, sorted.
func EndTimes(week Week) []TimeOfDay {
	seen := make(map[TimeOfDay]bool)
	var out []TimeOfDay
	for _, day := range week {
		if !day.Enabled || seen[day.To] {
			continue
		}
		seen[day.To] = true
		out = append(out, day.To)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}

func weekdayIndex(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

// IsEndDue reports whether reservations are due to end at the given local
// wall-clock instant, truncated to the minute. An overnight window's end is
// anchored to the previous day's enabled flag, hence the dual check.
func IsEndDue(nowLocal time.Time, week Week) bool {
	now := TimeOfDay{Hour: nowLocal.Hour(), Minute: nowLocal.Minute()}
	today := week[weekdayIndex(nowLocal)]
	prev := week[(weekdayIndex(nowLocal)+6)%7]

	if today.Enabled && !IsOvernight(today.From, today.To) && now == today.To {
		return true
	}
	if prev.Enabled && IsOvernight(prev.From, prev.To) && now == prev.To {
		return true
	}
	return false
}

// ScheduledEndForStart returns the schedule boundary a reservation starting
// at start would be auto-ended at, if any. Both the current day's
// non-overnight end and the previous day's overnight tail are candidates;
// the later one wins. The overnight tail is bounded above by the current
// day's configured start regardless of its enabled flag, matching the legacy
// flat-schedule semantics.
func ScheduledEndForStart(start time.Time, week Week, loc *time.Location) (TimeOfDay, time.Time, bool) {
	startLocal := start.In(loc)
	startClock := TimeOfDay{Hour: startLocal.Hour(), Minute: startLocal.Minute()}
	today := week[weekdayIndex(startLocal)]
	prev := week[(weekdayIndex(startLocal)+6)%7]

	var (
		bestClock TimeOfDay
		bestEnd   time.Time
		found     bool
	)
	consider := func(to TimeOfDay) {
		end := time.Date(
			startLocal.Year(), startLocal.Month(), startLocal.Day(),
			to.Hour, to.Minute, 0, 0, loc,
		).UTC()
		if !found || end.After(bestEnd) {
			bestClock, bestEnd, found = to, end, true
		}
	}

	if today.Enabled && !IsOvernight(today.From, today.To) && !startClock.Before(today.To) {
		consider(today.To)
	}
	if prev.Enabled && IsOvernight(prev.From, prev.To) &&
		!startClock.Before(prev.To) && startClock.Before(today.From) {
		consider(prev.To)
	}
	return bestClock, bestEnd, found
}

// LastScheduledEnd scans the last 8 calendar days and returns the latest
// concrete end instant at or before now, accounting for overnight windows
// rolling into the next day. Used for startup catch-up.
func LastScheduledEnd(now time.Time, week Week, loc *time.Location) (time.Time, bool) {
	nowLocal := now.In(loc)

	var (
		best  time.Time
		found bool
	)
	for i := 0; i < 8; i++ {
		day := nowLocal.AddDate(0, 0, -i)
		cfg := week[weekdayIndex(day)]
		if !cfg.Enabled {
			continue
		}
		end := time.Date(day.Year(), day.Month(), day.Day(), cfg.To.Hour, cfg.To.Minute, 0, 0, loc)
		if IsOvernight(cfg.From, cfg.To) {
			end = end.AddDate(0, 0, 1)
		}
		if end.After(now) {
			continue
		}
		if !found || end.After(best) {
			best, found = end, true
		}
	}
	if !found {
		return time.Time{}, false
	}
	return best.UTC(), true
}

// Validate rejects configurations the resolver would silently repair:
// unparseable times and enabled days whose bounds are equal.
func Validate(opts Options) error {
	for day, cfg := range opts.Schedule {
		if day < 0 || day > 6 {
			return fmt.Errorf("%w: %d", ErrInvalidDay, day)
		}
		from, okFrom := ParseTimeOfDay(cfg.From)
		to, okTo := ParseTimeOfDay(cfg.To)
		if !okFrom || !okTo {
			return fmt.Errorf("%w: day %d", ErrInvalidTime, day)
		}
		if cfg.Enabled && from == to {
			return fmt.Errorf("%w: day %d", ErrEqualBounds, day)
		}
	}
	return nil
}

// Normalize migrates legacy flat options into the canonical per-day form.
func Normalize(opts Options) Options {
	week := Resolve(opts, "", "")
	normalized := Options{
		AutoEndEnabled: opts.AutoEndEnabled,
		Schedule:       make(map[int]DayOption, 7),
	}
	for day := 0; day < 7; day++ {
		normalized.Schedule[day] = DayOption{
			Enabled: week[day].Enabled,
			From:    week[day].From.String(),
			To:      week[day].To.String(),
		}
	}
	return normalized
}
