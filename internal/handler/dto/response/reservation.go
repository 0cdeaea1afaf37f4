package response

import (
	"time"

	"parkbridge/internal/portal"
	"parkbridge/internal/usecase/commands"

	"github.com/jinzhu/copier"
)

type ReservationResponse struct {
	ID           int64     `json:"id"`
	Name         *string   `json:"name,omitempty"`
	LicensePlate string    `json:"licensePlate"`
	StartTime    time.Time `json:"startTime"`
	EndTime      time.Time `json:"endTime"`
}

type CreateReservationResponse struct {
	ReservationResponse
	AutoEndAt    *time.Time `json:"autoEndAt,omitempty"`
	AutoEndClock string     `json:"autoEndClock,omitempty"`
	Replayed     bool       `json:"replayed,omitempty"`
}

func FromReservation(reservation *portal.Reservation) *ReservationResponse {
	var resp ReservationResponse
	_ = copier.Copy(&resp, reservation)
	return &resp
}

func FromCreateResult(result *commands.CreateReservationResult) *CreateReservationResponse {
	return &CreateReservationResponse{
		ReservationResponse: *FromReservation(&result.Reservation),
		AutoEndAt:           result.AutoEndAt,
		AutoEndClock:        result.AutoEndClock,
		Replayed:            result.IsReplayed,
	}
}

func FromReservations(reservations []portal.Reservation) []*ReservationResponse {
	out := make([]*ReservationResponse, len(reservations))
	for i := range reservations {
		out[i] = FromReservation(&reservations[i])
	}
	return out
}
