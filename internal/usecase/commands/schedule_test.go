//go:build unit

package commands_test

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"parkbridge/internal/domain/schedule"
	"parkbridge/internal/pkg/errs"
	"parkbridge/internal/usecase/commands"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubArmer struct {
	rearmed []schedule.Options
}

func (a *stubArmer) Rearm(opts schedule.Options) {
	a.rearmed = append(a.rearmed, opts)
}

func newScheduleUC(t *testing.T) (commands.ScheduleCommands, *stubOptions, *stubArmer) {
	t.Helper()
	loc, err := time.LoadLocation("Europe/Amsterdam")
	require.NoError(t, err)

	options := &stubOptions{}
	armer := &stubArmer{}
	uc := commands.NewScheduleUseCase(
		options, armer, &stubRefresher{}, entryID, loc,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)
	return uc, options, armer
}

func TestScheduleUpdate(t *testing.T) {
	t.Run("normalizes, persists and rearms", func(t *testing.T) {
		uc, options, armer := newScheduleUC(t)

		view, err := uc.Update(t.Context(), schedule.Options{
			AutoEndEnabled: true,
			Workdays:       []int{0, 1},
			WorkingFrom:    "08:00",
			WorkingTo:      "16:00",
		})
		require.NoError(t, err)

		require.Len(t, options.saved, 1)
		saved := options.saved[0]
		assert.Len(t, saved.Schedule, 7, "legacy options stored in per-day form")
		assert.Nil(t, saved.Workdays)

		require.Len(t, armer.rearmed, 1)
		assert.True(t, armer.rearmed[0].AutoEndEnabled)

		assert.True(t, view.AutoEndEnabled)
		assert.True(t, view.Days[0].Enabled)
		assert.Equal(t, "08:00", view.Days[0].From)
		assert.Equal(t, "16:00", view.Days[0].To)
		assert.False(t, view.Days[2].Enabled)
	})

	t.Run("invalid configuration is rejected before persisting", func(t *testing.T) {
		uc, options, armer := newScheduleUC(t)

		_, err := uc.Update(t.Context(), schedule.Options{
			AutoEndEnabled: true,
			Schedule: map[int]schedule.DayOption{
				0: {Enabled: true, From: "09:00", To: "09:00"},
			},
		})
		assert.True(t, errs.Is(err, commands.ErrScheduleInvalid))
		assert.Empty(t, options.saved)
		assert.Empty(t, armer.rearmed)
	})
}

func TestScheduleGet(t *testing.T) {
	uc, options, _ := newScheduleUC(t)
	options.found = true
	options.opts = schedule.Options{
		AutoEndEnabled: true,
		Schedule: map[int]schedule.DayOption{
			4: {Enabled: true, From: "20:00", To: "06:00"},
		},
	}

	view, err := uc.Get(t.Context())
	require.NoError(t, err)

	assert.True(t, view.AutoEndEnabled)
	assert.True(t, view.Days[4].Enabled)
	assert.Equal(t, "20:00", view.Days[4].From)
	assert.Equal(t, "06:00", view.Days[4].To)
	assert.Equal(t, 4, view.Days[4].Weekday)
}
