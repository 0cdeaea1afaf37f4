//go:build unit

package schedule_test

import (
	"testing"
	"time"

	"parkbridge/internal/domain/schedule"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func amsterdam(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Europe/Amsterdam")
	require.NoError(t, err)
	return loc
}

func day(enabled bool, from, to string) schedule.Day {
	f, ok := schedule.ParseTimeOfDay(from)
	if !ok {
		panic("bad from: " + from)
	}
	tt, ok := schedule.ParseTimeOfDay(to)
	if !ok {
		panic("bad to: " + to)
	}
	return schedule.Day{Enabled: enabled, From: f, To: tt}
}

func TestParseTimeOfDay(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  schedule.TimeOfDay
		ok    bool
	}{
		{name: "plain time", input: "09:30", want: schedule.TimeOfDay{Hour: 9, Minute: 30}, ok: true},
		{name: "midnight", input: "00:00", want: schedule.TimeOfDay{}, ok: true},
		{name: "end of day", input: "23:59", want: schedule.TimeOfDay{Hour: 23, Minute: 59}, ok: true},
		{name: "hour out of range", input: "24:00", ok: false},
		{name: "minute out of range", input: "10:60", ok: false},
		{name: "not a time", input: "soon", ok: false},
		{name: "empty", input: "", ok: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := schedule.ParseTimeOfDay(tc.input)
			assert.Equal(t, tc.ok, ok)
			if tc.ok {
				assert.Equal(t, tc.want, got)
			}
		})
	}
}

func TestResolve(t *testing.T) {
	t.Run("per-day schedule wins over legacy fields", func(t *testing.T) {
		opts := schedule.Options{
			Schedule: map[int]schedule.DayOption{
				0: {Enabled: true, From: "08:00", To: "17:00"},
			},
			Workdays:    []int{0, 1},
			WorkingFrom: "09:00",
			WorkingTo:   "16:00",
		}

		week := schedule.Resolve(opts, "", "")

		want := schedule.Week{
			day(true, "08:00", "17:00"),
			day(true, "09:00", "16:00"),
			day(false, "09:00", "16:00"),
			day(false, "09:00", "16:00"),
			day(false, "09:00", "16:00"),
			day(false, "09:00", "16:00"),
			day(false, "09:00", "16:00"),
		}
		if diff := cmp.Diff(want, week); diff != "" {
			t.Errorf("week mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("legacy fields fall back to caller defaults", func(t *testing.T) {
		week := schedule.Resolve(schedule.Options{}, "07:30", "19:00")

		for d := 0; d < 5; d++ {
			assert.True(t, week[d].Enabled, "weekday %d", d)
			assert.Equal(t, "07:30", week[d].From.String())
			assert.Equal(t, "19:00", week[d].To.String())
		}
		assert.False(t, week[5].Enabled)
		assert.False(t, week[6].Enabled)
	})

	t.Run("empty options resolve to built-in defaults", func(t *testing.T) {
		week := schedule.Resolve(schedule.Options{}, "", "")

		assert.True(t, week[0].Enabled)
		assert.Equal(t, "00:00", week[0].From.String())
		assert.Equal(t, "18:00", week[0].To.String())
		assert.False(t, week[6].Enabled)
	})

	t.Run("explicit empty workdays disable every day", func(t *testing.T) {
		week := schedule.Resolve(schedule.Options{Workdays: []int{}}, "", "")

		for d := 0; d < 7; d++ {
			assert.False(t, week[d].Enabled, "weekday %d", d)
		}
	})

	t.Run("unparseable per-day times fall back to defaults", func(t *testing.T) {
		opts := schedule.Options{
			Schedule: map[int]schedule.DayOption{
				2: {Enabled: true, From: "bogus", To: "25:99"},
			},
		}
		week := schedule.Resolve(opts, "", "")

		assert.Equal(t, "00:00", week[2].From.String())
		assert.Equal(t, "18:00", week[2].To.String())
	})
}

func TestEndTimes(t *testing.T) {
	week := schedule.Week{
		day(true, "09:00", "17:00"),
		day(true, "09:00", "17:00"),
		day(true, "08:00", "16:30"),
		day(false, "09:00", "12:00"),
		day(false, "09:00", "17:00"),
		day(false, "00:00", "18:00"),
		day(false, "00:00", "18:00"),
	}

	got := schedule.EndTimes(week)

	want := []schedule.TimeOfDay{
		{Hour: 16, Minute: 30},
		{Hour: 17, Minute: 0},
	}
	assert.Equal(t, want, got, "disabled days excluded, duplicates collapsed, sorted")
}

func TestIsEndDue(t *testing.T) {
	loc := amsterdam(t)

	// 2026-08-31 is a Monday.
	monday := func(hour, minute int) time.Time {
		return time.Date(2026, 8, 31, hour, minute, 0, 0, loc)
	}
	tuesday := func(hour, minute int) time.Time {
		return time.Date(2026, 9, 1, hour, minute, 0, 0, loc)
	}

	t.Run("same-day window ends on the minute", func(t *testing.T) {
		week := schedule.Resolve(schedule.Options{
			Schedule: map[int]schedule.DayOption{0: {Enabled: true, From: "09:00", To: "17:00"}},
			Workdays: []int{},
		}, "", "")

		assert.True(t, schedule.IsEndDue(monday(17, 0), week))
		assert.False(t, schedule.IsEndDue(monday(17, 1), week))
		assert.False(t, schedule.IsEndDue(monday(16, 59), week))
	})

	t.Run("overnight window ends on the next day", func(t *testing.T) {
		week := schedule.Resolve(schedule.Options{
			Schedule: map[int]schedule.DayOption{0: {Enabled: true, From: "20:00", To: "06:00"}},
			Workdays: []int{},
		}, "", "")

		assert.True(t, schedule.IsEndDue(tuesday(6, 0), week), "Monday's overnight window ends Tuesday 06:00")
		assert.False(t, schedule.IsEndDue(monday(6, 0), week), "Sunday is disabled, no overnight tail into Monday")
		assert.False(t, schedule.IsEndDue(monday(20, 0), week))
	})

	t.Run("disabled day never fires", func(t *testing.T) {
		week := schedule.Resolve(schedule.Options{
			Schedule: map[int]schedule.DayOption{0: {Enabled: false, From: "09:00", To: "17:00"}},
			Workdays: []int{},
		}, "", "")

		assert.False(t, schedule.IsEndDue(monday(17, 0), week))
	})
}

func TestScheduledEndForStart(t *testing.T) {
	loc := amsterdam(t)

	t.Run("start after the daily end maps to that end", func(t *testing.T) {
		week := schedule.Resolve(schedule.Options{
			Schedule: map[int]schedule.DayOption{0: {Enabled: true, From: "09:00", To: "17:00"}},
			Workdays: []int{},
		}, "", "")

		start := time.Date(2026, 8, 31, 18, 30, 0, 0, loc) // Monday evening
		clockAt, endAt, ok := schedule.ScheduledEndForStart(start, week, loc)

		require.True(t, ok)
		assert.Equal(t, "17:00", clockAt.String())
		assert.Equal(t, time.Date(2026, 8, 31, 17, 0, 0, 0, loc).UTC(), endAt)
	})

	t.Run("start inside the window has no scheduled end", func(t *testing.T) {
		week := schedule.Resolve(schedule.Options{
			Schedule: map[int]schedule.DayOption{0: {Enabled: true, From: "09:00", To: "17:00"}},
			Workdays: []int{},
		}, "", "")

		start := time.Date(2026, 8, 31, 12, 0, 0, 0, loc)
		_, _, ok := schedule.ScheduledEndForStart(start, week, loc)
		assert.False(t, ok)
	})

	t.Run("overnight tail of the previous day", func(t *testing.T) {
		week := schedule.Resolve(schedule.Options{
			Schedule: map[int]schedule.DayOption{
				0: {Enabled: true, From: "20:00", To: "06:00"},
				1: {Enabled: false, From: "09:00", To: "17:00"},
			},
			Workdays: []int{},
		}, "", "")

		start := time.Date(2026, 9, 1, 6, 30, 0, 0, loc) // Tuesday 06:30
		clockAt, endAt, ok := schedule.ScheduledEndForStart(start, week, loc)

		require.True(t, ok)
		assert.Equal(t, "06:00", clockAt.String())
		assert.Equal(t, time.Date(2026, 9, 1, 6, 0, 0, 0, loc).UTC(), endAt)
	})

	t.Run("overnight tail is capped by the current day's start", func(t *testing.T) {
		week := schedule.Resolve(schedule.Options{
			Schedule: map[int]schedule.DayOption{
				0: {Enabled: true, From: "20:00", To: "06:00"},
				1: {Enabled: false, From: "09:00", To: "17:00"},
			},
			Workdays: []int{},
		}, "", "")

		start := time.Date(2026, 9, 1, 9, 30, 0, 0, loc) // past Tuesday's configured start
		_, _, ok := schedule.ScheduledEndForStart(start, week, loc)
		assert.False(t, ok)
	})
}

func TestLastScheduledEnd(t *testing.T) {
	loc := amsterdam(t)

	t.Run("most recent weekday end", func(t *testing.T) {
		week := schedule.Resolve(schedule.Options{}, "09:00", "17:00") // Mon-Fri

		now := time.Date(2026, 9, 5, 10, 0, 0, 0, loc) // Saturday
		last, ok := schedule.LastScheduledEnd(now, week, loc)

		require.True(t, ok)
		assert.Equal(t, time.Date(2026, 9, 4, 17, 0, 0, 0, loc).UTC(), last, "Friday 17:00")
	})

	t.Run("overnight window rolls into the next day", func(t *testing.T) {
		week := schedule.Resolve(schedule.Options{
			Schedule: map[int]schedule.DayOption{6: {Enabled: true, From: "20:00", To: "06:00"}},
			Workdays: []int{},
		}, "", "")

		now := time.Date(2026, 8, 31, 8, 0, 0, 0, loc) // Monday 08:00
		last, ok := schedule.LastScheduledEnd(now, week, loc)

		require.True(t, ok)
		assert.Equal(t, time.Date(2026, 8, 31, 6, 0, 0, 0, loc).UTC(), last, "Sunday's window ended Monday 06:00")
	})

	t.Run("future ends are skipped", func(t *testing.T) {
		week := schedule.Resolve(schedule.Options{
			Schedule: map[int]schedule.DayOption{6: {Enabled: true, From: "20:00", To: "06:00"}},
			Workdays: []int{},
		}, "", "")

		now := time.Date(2026, 8, 31, 5, 0, 0, 0, loc) // before Monday 06:00
		_, ok := schedule.LastScheduledEnd(now, week, loc)
		assert.False(t, ok, "only ends within the 8-day lookback count")
	})

	t.Run("no enabled days", func(t *testing.T) {
		week := schedule.Resolve(schedule.Options{Workdays: []int{}}, "", "")

		_, ok := schedule.LastScheduledEnd(time.Date(2026, 8, 31, 12, 0, 0, 0, loc), week, loc)
		assert.False(t, ok)
	})

	t.Run("never in the future and non-decreasing as time advances", func(t *testing.T) {
		week := schedule.Resolve(schedule.Options{
			Schedule: map[int]schedule.DayOption{
				0: {Enabled: true, From: "09:00", To: "17:00"},
				2: {Enabled: true, From: "20:00", To: "06:00"},
				4: {Enabled: true, From: "08:00", To: "12:00"},
			},
			Workdays: []int{},
		}, "", "")

		var prev time.Time
		start := time.Date(2026, 8, 31, 0, 0, 0, 0, loc) // Monday
		for i := 0; i < 14*24; i++ {
			now := start.Add(time.Duration(i) * time.Hour)
			last, ok := schedule.LastScheduledEnd(now, week, loc)
			if !ok {
				continue
			}
			assert.False(t, last.After(now.UTC()), "end %v lies after now %v", last, now)
			assert.False(t, last.Before(prev), "end went backwards at now %v: %v < %v", now, last, prev)
			prev = last
		}
		assert.False(t, prev.IsZero(), "sweep produced at least one end")
	})
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name  string
		opts  schedule.Options
		errIs error
	}{
		{
			name: "valid per-day schedule",
			opts: schedule.Options{Schedule: map[int]schedule.DayOption{
				0: {Enabled: true, From: "09:00", To: "17:00"},
			}},
		},
		{
			name: "overnight window is valid",
			opts: schedule.Options{Schedule: map[int]schedule.DayOption{
				4: {Enabled: true, From: "20:00", To: "06:00"},
			}},
		},
		{
			name: "equal bounds on an enabled day",
			opts: schedule.Options{Schedule: map[int]schedule.DayOption{
				0: {Enabled: true, From: "09:00", To: "09:00"},
			}},
			errIs: schedule.ErrEqualBounds,
		},
		{
			name: "equal bounds on a disabled day are tolerated",
			opts: schedule.Options{Schedule: map[int]schedule.DayOption{
				0: {Enabled: false, From: "09:00", To: "09:00"},
			}},
		},
		{
			name: "unparseable time",
			opts: schedule.Options{Schedule: map[int]schedule.DayOption{
				0: {Enabled: true, From: "morning", To: "17:00"},
			}},
			errIs: schedule.ErrInvalidTime,
		},
		{
			name: "weekday out of range",
			opts: schedule.Options{Schedule: map[int]schedule.DayOption{
				7: {Enabled: true, From: "09:00", To: "17:00"},
			}},
			errIs: schedule.ErrInvalidDay,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := schedule.Validate(tc.opts)
			if tc.errIs != nil {
				assert.ErrorIs(t, err, tc.errIs)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestNormalize(t *testing.T) {
	opts := schedule.Options{
		AutoEndEnabled: true,
		Workdays:       []int{0, 4},
		WorkingFrom:    "10:00",
		WorkingTo:      "15:00",
	}

	normalized := schedule.Normalize(opts)

	assert.True(t, normalized.AutoEndEnabled)
	assert.Nil(t, normalized.Workdays, "legacy fields dropped")
	assert.Empty(t, normalized.WorkingFrom)
	require.Len(t, normalized.Schedule, 7)
	assert.Equal(t, schedule.DayOption{Enabled: true, From: "10:00", To: "15:00"}, normalized.Schedule[0])
	assert.Equal(t, schedule.DayOption{Enabled: false, From: "10:00", To: "15:00"}, normalized.Schedule[1])
	assert.Equal(t, schedule.DayOption{Enabled: true, From: "10:00", To: "15:00"}, normalized.Schedule[4])
}
