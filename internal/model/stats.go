package model

// Stats is the aggregate summary returned by GET /api/stats.
//
// TotalHours and MilesFlown are pre-formatted display strings ("142h",
// "71k") because the frontend renders them verbatim. Percentages are rounded
// independently per group and are not guaranteed to sum to 100.
type Stats struct {
	TotalFlights     int                  `json:"total_flights"`
	TotalHours       string               `json:"total_hours"`
	CountriesVisited int                  `json:"countries_visited"`
	MilesFlown       string               `json:"miles_flown"`
	FlightClasses    map[string]ClassStat `json:"flight_classes"`
	TopDestinations  []Destination        `json:"top_destinations"`
	MonthlyActivity  []MonthActivity      `json:"monthly_activity"`
}

// ClassStat is one cabin-class bucket of the class breakdown.
type ClassStat struct {
	Count      int `json:"count"`
	Percentage int `json:"percentage"`
}

// Destination is one ranked entry of the top-destinations list.
type Destination struct {
	City        string `json:"city"`
	Count       int    `json:"count"`
	Percentage  int    `json:"percentage"`
	AirportCode string `json:"airport_code"`
}

// MonthActivity is the flight count for one calendar month of the current
// year. All twelve months are always present, zero-filled.
type MonthActivity struct {
	Month   string `json:"month"`
	Flights int    `json:"flights"`
}

// EmptyStats is the canonical response for a user with no flights.
func EmptyStats() *Stats {
	return &Stats{
		TotalFlights:     0,
		TotalHours:       "0h",
		CountriesVisited: 0,
		MilesFlown:       "0",
		FlightClasses:    map[string]ClassStat{},
		TopDestinations:  []Destination{},
		MonthlyActivity:  []MonthActivity{},
	}
}
