package commands

import (
	"context"
	"log/slog"
	"time"

	"parkbridge/internal/domain/schedule"
	"parkbridge/internal/pkg/errs"
)

var ErrScheduleInvalid = errs.New("invalid schedule configuration")

type DayView struct {
	Weekday int
	Enabled bool
	From    string
	To      string
}

type ScheduleView struct {
	AutoEndEnabled bool
	Days           [7]DayView
}

type ScheduleCommands interface {
	Get(ctx context.Context) (*ScheduleView, error)
	Update(ctx context.Context, opts schedule.Options) (*ScheduleView, error)
}

type scheduleUseCaseImpl struct {
	options   OptionsRepository
	armer     TriggerArmer
	refresher SnapshotRefresher
	entryID   string
	loc       *time.Location
	log       *slog.Logger
}

func NewScheduleUseCase(
	options OptionsRepository,
	armer TriggerArmer,
	refresher SnapshotRefresher,
	entryID string,
	loc *time.Location,
	log *slog.Logger,
) ScheduleCommands {
	return &scheduleUseCaseImpl{
		options:   options,
		armer:     armer,
		refresher: refresher,
		entryID:   entryID,
		loc:       loc,
		log:       log,
	}
}

func (s *scheduleUseCaseImpl) Get(ctx context.Context) (*ScheduleView, error) {
	opts, _, err := s.options.Load(ctx, s.entryID)
	if err != nil {
		return nil, err
	}
	return s.view(opts), nil
}

func (s *scheduleUseCaseImpl) Update(ctx context.Context, opts schedule.Options) (*ScheduleView, error) {
	if err := schedule.Validate(opts); err != nil {
		return nil, errs.Mark(err, ErrScheduleInvalid)
	}

	normalized := schedule.Normalize(opts)
	if err := s.options.Save(ctx, s.entryID, normalized); err != nil {
		return nil, err
	}

	s.armer.Rearm(normalized)
	s.log.Info("schedule updated", "auto_end_enabled", normalized.AutoEndEnabled)
	return s.view(normalized), nil
}

func (s *scheduleUseCaseImpl) view(opts schedule.Options) *ScheduleView {
	fallbackFrom, fallbackTo := zoneFallback(s.refresher.Snapshot(), s.loc)
	week := schedule.Resolve(opts, fallbackFrom, fallbackTo)

	view := &ScheduleView{AutoEndEnabled: opts.AutoEndEnabled}
	for day := 0; day < 7; day++ {
		view.Days[day] = DayView{
			Weekday: day,
			Enabled: week[day].Enabled,
			From:    week[day].From.String(),
			To:      week[day].To.String(),
		}
	}
	return view
}
