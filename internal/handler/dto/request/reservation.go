package request

import (
	"strings"
	"time"
)

type CreateReservationRequest struct {
	LicensePlate string     `json:"license_plate" binding:"required"`
	Name         *string    `json:"name,omitempty"`
	StartTime    time.Time  `json:"start_time" binding:"required"`
	EndTime      *time.Time `json:"end_time,omitempty"`
}

func (r CreateReservationRequest) GetName() *string {
	if r.Name == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*r.Name)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

type AdjustEndTimeRequest struct {
	EndTime time.Time `json:"end_time" binding:"required"`
}
