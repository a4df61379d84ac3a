package service

import (
	"time"

	"github.com/soarr/flightlog/internal/model"
)

// sampleFlights builds the fixed onboarding data set for a user: six
// flights spread across the current year, with "City, Country" labels and a
// mix of cabin classes so that every stats panel has something to show.
// One pair of times crosses midnight on purpose.
//
// Dates are anchored to the year of now so the monthly-activity chart is
// never empty for a fresh account.
func sampleFlights(userID string, now time.Time) []*model.Flight {
	year := now.Year()

	specs := []struct {
		number    string
		aircraft  string
		cabin     string
		depCode   string
		depCity   string
		arrCode   string
		arrCity   string
		month     time.Month
		day       int
		departure string // HH:MM
		arrival   string // HH:MM
		notes     string
	}{
		{
			number: "QF 74", aircraft: "Boeing 787-9", cabin: model.CabinEconomy,
			depCode: "SYD", depCity: "Sydney, Australia",
			arrCode: "SFO", arrCity: "San Francisco, USA",
			month: time.January, day: 18, departure: "21:50", arrival: "16:35",
			notes: "Overnight across the Pacific",
		},
		{
			number: "UA 857", aircraft: "Boeing 777-300ER", cabin: model.CabinEconomy,
			depCode: "SFO", depCity: "San Francisco, USA",
			arrCode: "PVG", arrCity: "Shanghai, China",
			month: time.March, day: 15, departure: "11:30", arrival: "15:10",
			notes: "Window seat over the bay",
		},
		{
			number: "BA 284", aircraft: "Airbus A380", cabin: model.CabinPremiumEconomy,
			depCode: "SFO", depCity: "San Francisco, USA",
			arrCode: "LHR", arrCity: "London, United Kingdom",
			month: time.May, day: 2, departure: "16:25", arrival: "10:50",
			notes: "",
		},
		{
			number: "JL 1", aircraft: "Boeing 787-9", cabin: model.CabinBusiness,
			depCode: "HND", depCity: "Tokyo, Japan",
			arrCode: "SFO", arrCity: "San Francisco, USA",
			month: time.June, day: 21, departure: "19:05", arrival: "12:45",
			notes: "Upgraded at the gate",
		},
		{
			number: "AF 83", aircraft: "Boeing 777-200", cabin: model.CabinFirst,
			depCode: "CDG", depCity: "Paris, France",
			arrCode: "SFO", arrCity: "San Francisco, USA",
			month: time.September, day: 12, departure: "13:40", arrival: "16:05",
			notes: "Anniversary trip home",
		},
		{
			number: "DL 16", aircraft: "Airbus A350-900", cabin: model.CabinEconomy,
			depCode: "ICN", depCity: "Seoul, South Korea",
			arrCode: "ATL", arrCity: "Atlanta, USA",
			month: time.October, day: 3, departure: "10:55", arrival: "11:40",
			notes: "",
		},
	}

	flights := make([]*model.Flight, 0, len(specs))
	for _, sp := range specs {
		date := time.Date(year, sp.month, sp.day, 0, 0, 0, 0, time.UTC)
		departure := combineClock(date, sp.departure)
		arrival := combineClock(date, sp.arrival)
		minutes := model.DurationMinutes(departure, arrival)

		flights = append(flights, &model.Flight{
			UserID:          userID,
			FlightNumber:    sp.number,
			Aircraft:        sp.aircraft,
			CabinClass:      sp.cabin,
			DepartureCode:   sp.depCode,
			DepartureCity:   sp.depCity,
			ArrivalCode:     sp.arrCode,
			ArrivalCity:     sp.arrCity,
			FlightDate:      &date,
			DepartureTime:   &departure,
			ArrivalTime:     &arrival,
			DurationMinutes: &minutes,
			Notes:           sp.notes,
			IsSeed:          true,
		})
	}

	return flights
}

// combineClock attaches an "HH:MM" clock time to a date. Seed specs are
// trusted input, so a malformed clock simply becomes midnight.
func combineClock(date time.Time, clock string) time.Time {
	t, err := time.Parse("15:04", clock)
	if err != nil {
		return date
	}
	return time.Date(date.Year(), date.Month(), date.Day(), t.Hour(), t.Minute(), 0, 0, time.UTC)
}
