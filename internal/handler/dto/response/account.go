package response

import (
	"time"

	"parkbridge/internal/portal"
)

type ZoneResponse struct {
	Name      string     `json:"name"`
	StartTime *time.Time `json:"startTime,omitempty"`
	EndTime   *time.Time `json:"endTime,omitempty"`
}

type AccountResponse struct {
	ID           int64         `json:"id"`
	DebitMinutes *int          `json:"debitMinutes,omitempty"`
	Zone         *ZoneResponse `json:"zone,omitempty"`
}

func FromAccount(account *portal.Account) *AccountResponse {
	resp := &AccountResponse{
		ID:           account.ID,
		DebitMinutes: account.DebitMinutes,
	}
	if account.Zone != nil {
		resp.Zone = &ZoneResponse{
			Name:      account.Zone.Name,
			StartTime: account.Zone.StartTime,
			EndTime:   account.Zone.EndTime,
		}
	}
	return resp
}
