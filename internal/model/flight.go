package model

import "time"

// Cabin classes a flight may be logged under. An empty class is allowed
// and is reported as "Unknown" in statistics.
const (
	CabinEconomy        = "Economy"
	CabinPremiumEconomy = "Premium Economy"
	CabinBusiness       = "Business"
	CabinFirst          = "First"
)

// CabinClasses lists the accepted cabin class values, in service-tier order.
var CabinClasses = []string{CabinEconomy, CabinPremiumEconomy, CabinBusiness, CabinFirst}

// ValidCabinClass reports whether s is one of the enumerated cabin classes.
// The empty string is not valid here — callers treat "unset" separately.
func ValidCabinClass(s string) bool {
	for _, c := range CabinClasses {
		if s == c {
			return true
		}
	}
	return false
}

// Flight is one logged trip, owned by exactly one user. Records are created
// once and never updated; the only mutation is deletion.
//
// Duration is stored as a whole-minute count (DurationMinutes) rather than a
// formatted string; the display form ("2h 30m") is derived at read time.
// Optional timestamps use pointers so that "absent" survives the round trip
// to storage.
type Flight struct {
	ID              string
	UserID          string
	FlightNumber    string
	Aircraft        string
	CabinClass      string // one of CabinClasses, or empty
	DepartureCode   string // 3 uppercase letters, or empty
	DepartureCity   string // free text, optionally "City, Country"
	ArrivalCode     string
	ArrivalCity     string
	FlightDate      *time.Time
	DepartureTime   *time.Time
	ArrivalTime     *time.Time
	DurationMinutes *int
	Notes           string
	IsSeed          bool
	CreatedAt       time.Time
}

// FlightResponse is the wire representation of a Flight: snake_case JSON,
// ISO dates, and a derived duration string.
type FlightResponse struct {
	ID            string  `json:"id"`
	FlightNumber  string  `json:"flight_number"`
	Aircraft      string  `json:"aircraft"`
	CabinClass    string  `json:"cabin_class"`
	DepartureCode string  `json:"departure_code"`
	DepartureCity string  `json:"departure_city"`
	ArrivalCode   string  `json:"arrival_code"`
	ArrivalCity   string  `json:"arrival_city"`
	DepartureTime *string `json:"departure_time"`
	ArrivalTime   *string `json:"arrival_time"`
	FlightDate    *string `json:"flight_date"`
	Duration      *string `json:"duration"`
	Notes         string  `json:"notes"`
	IsSeed        bool    `json:"is_seed"`
	CreatedAt     string  `json:"created_at"`
}

// Response converts the flight to its wire representation.
func (f *Flight) Response() FlightResponse {
	r := FlightResponse{
		ID:            f.ID,
		FlightNumber:  f.FlightNumber,
		Aircraft:      f.Aircraft,
		CabinClass:    f.CabinClass,
		DepartureCode: f.DepartureCode,
		DepartureCity: f.DepartureCity,
		ArrivalCode:   f.ArrivalCode,
		ArrivalCity:   f.ArrivalCity,
		Notes:         f.Notes,
		IsSeed:        f.IsSeed,
		CreatedAt:     f.CreatedAt.Format(time.RFC3339),
	}
	if f.DepartureTime != nil {
		s := f.DepartureTime.Format(time.RFC3339)
		r.DepartureTime = &s
	}
	if f.ArrivalTime != nil {
		s := f.ArrivalTime.Format(time.RFC3339)
		r.ArrivalTime = &s
	}
	if f.FlightDate != nil {
		s := f.FlightDate.Format("2006-01-02")
		r.FlightDate = &s
	}
	if f.DurationMinutes != nil {
		s := FormatDuration(*f.DurationMinutes)
		r.Duration = &s
	}
	return r
}
