package response

import "parkbridge/internal/usecase/commands"

type ScheduleDayResponse struct {
	Weekday int    `json:"weekday"`
	Enabled bool   `json:"enabled"`
	From    string `json:"from"`
	To      string `json:"to"`
}

type ScheduleResponse struct {
	AutoEndEnabled bool                  `json:"autoEndEnabled"`
	Days           []ScheduleDayResponse `json:"days"`
}

func FromScheduleView(view *commands.ScheduleView) *ScheduleResponse {
	resp := &ScheduleResponse{
		AutoEndEnabled: view.AutoEndEnabled,
		Days:           make([]ScheduleDayResponse, 0, len(view.Days)),
	}
	for _, day := range view.Days {
		resp.Days = append(resp.Days, ScheduleDayResponse{
			Weekday: day.Weekday,
			Enabled: day.Enabled,
			From:    day.From,
			To:      day.To,
		})
	}
	return resp
}
