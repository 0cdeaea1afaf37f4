package portal

import "time"

type Credentials struct {
	Username string
	Password string
}

type Zone struct {
	Name      string     `json:"name"`
	StartTime *time.Time `json:"start_time"`
	EndTime   *time.Time `json:"end_time"`
}

type Account struct {
	ID           int64 `json:"id"`
	DebitMinutes *int  `json:"debit_minutes"`
	Zone         *Zone `json:"zone"`
}

type Reservation struct {
	ID           int64     `json:"id"`
	Name         *string   `json:"name"`
	LicensePlate string    `json:"license_plate"`
	StartTime    time.Time `json:"start_time"`
	EndTime      time.Time `json:"end_time"`
}

type Favorite struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	LicensePlate string `json:"license_plate"`
}

// ZoneWindow is the zone active window around a given instant, as returned
// by the end-time endpoint.
type ZoneWindow struct {
	StartTime *time.Time `json:"start_time"`
	EndTime   *time.Time `json:"end_time"`
}

type ReservationParams struct {
	LicensePlate string
	Name         *string
	StartTime    time.Time
	EndTime      time.Time
}

// reservationPayload is the wire form; times are ISO-8601 UTC with a 'Z'
// suffix and id is present-but-null on create.
type reservationPayload struct {
	ID           *int64  `json:"id"`
	Name         *string `json:"name"`
	LicensePlate string  `json:"license_plate"`
	StartTime    string  `json:"start_time"`
	EndTime      string  `json:"end_time"`
}

type favoritePayload struct {
	ID           *int64 `json:"id,omitempty"`
	Name         string `json:"name"`
	LicensePlate string `json:"license_plate"`
}

func formatUTC(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05Z")
}
