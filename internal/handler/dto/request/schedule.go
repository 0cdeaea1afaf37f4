package request

import "parkbridge/internal/domain/schedule"

type ScheduleDayRequest struct {
	Weekday int    `json:"weekday" binding:"min=0,max=6"`
	Enabled bool   `json:"enabled"`
	From    string `json:"from" binding:"required"`
	To      string `json:"to" binding:"required"`
}

type UpdateScheduleRequest struct {
	AutoEndEnabled bool                 `json:"auto_end_enabled"`
	Days           []ScheduleDayRequest `json:"days" binding:"required,dive"`
}

func (r UpdateScheduleRequest) ToOptions() schedule.Options {
	opts := schedule.Options{
		AutoEndEnabled: r.AutoEndEnabled,
		Schedule:       make(map[int]schedule.DayOption, len(r.Days)),
	}
	for _, day := range r.Days {
		opts.Schedule[day.Weekday] = schedule.DayOption{
			Enabled: day.Enabled,
			From:    day.From,
			To:      day.To,
		}
	}
	return opts
}
