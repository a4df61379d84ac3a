package service

import (
	"context"
	"testing"
	"time"

	"github.com/soarr/flightlog/internal/model"
)

func newTestStatsService(t *testing.T) (*StatsService, *mockFlightRepo) {
	t.Helper()
	repo := newMockFlightRepo()
	svc := NewStatsService(repo, testLogger())
	svc.now = fixedClock("2025-07-01")
	return svc, repo
}

func storeFlight(t *testing.T, repo *mockFlightRepo, f model.Flight) {
	t.Helper()
	f.UserID = "user-1"
	if err := repo.Create(context.Background(), &f); err != nil {
		t.Fatalf("storing flight: %v", err)
	}
}

func datePtr(day string) *time.Time {
	parsed, _ := time.Parse("2006-01-02", day)
	return &parsed
}

func minutes(m int) *int {
	return &m
}

func TestStatsCompute_EmptyShape(t *testing.T) {
	svc, _ := newTestStatsService(t)

	stats, err := svc.Compute(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}

	if stats.TotalFlights != 0 {
		t.Errorf("TotalFlights = %d, want 0", stats.TotalFlights)
	}
	if stats.TotalHours != "0h" {
		t.Errorf("TotalHours = %q, want %q", stats.TotalHours, "0h")
	}
	if stats.MilesFlown != "0" {
		t.Errorf("MilesFlown = %q, want %q", stats.MilesFlown, "0")
	}
	if stats.FlightClasses == nil || len(stats.FlightClasses) != 0 {
		t.Errorf("FlightClasses = %v, want empty map", stats.FlightClasses)
	}
	if stats.TopDestinations == nil || len(stats.TopDestinations) != 0 {
		t.Errorf("TopDestinations = %v, want empty slice", stats.TopDestinations)
	}
	if stats.MonthlyActivity == nil || len(stats.MonthlyActivity) != 0 {
		t.Errorf("MonthlyActivity = %v, want empty slice", stats.MonthlyActivity)
	}
}

func TestStatsCompute_TotalsAndMiles(t *testing.T) {
	svc, repo := newTestStatsService(t)

	// 150m + 90m = 240m = 4h → 2000 miles.
	storeFlight(t, repo, model.Flight{DurationMinutes: minutes(150)})
	storeFlight(t, repo, model.Flight{DurationMinutes: minutes(90)})
	storeFlight(t, repo, model.Flight{}) // no duration, counts as a flight only

	stats, err := svc.Compute(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}

	if stats.TotalFlights != 3 {
		t.Errorf("TotalFlights = %d, want 3", stats.TotalFlights)
	}
	if stats.TotalHours != "4h" {
		t.Errorf("TotalHours = %q, want %q", stats.TotalHours, "4h")
	}
	if stats.MilesFlown != "2k" {
		t.Errorf("MilesFlown = %q, want %q", stats.MilesFlown, "2k")
	}
}

func TestStatsCompute_MilesBelowThousandUnabbreviated(t *testing.T) {
	svc, repo := newTestStatsService(t)

	storeFlight(t, repo, model.Flight{DurationMinutes: minutes(60)}) // 1h → 500 miles

	stats, err := svc.Compute(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}
	if stats.MilesFlown != "500" {
		t.Errorf("MilesFlown = %q, want %q", stats.MilesFlown, "500")
	}
}

func TestStatsCompute_CountriesFromCityLabels(t *testing.T) {
	svc, repo := newTestStatsService(t)

	storeFlight(t, repo, model.Flight{
		DepartureCity: "San Francisco, USA",
		ArrivalCity:   "London, UK",
	})
	storeFlight(t, repo, model.Flight{
		DepartureCity: "New York, USA", // USA again, not double counted
		ArrivalCity:   "Tokyo",         // no comma, no country
	})

	stats, err := svc.Compute(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}
	if stats.CountriesVisited != 2 {
		t.Errorf("CountriesVisited = %d, want 2", stats.CountriesVisited)
	}
}

func TestStatsCompute_ClassBreakdown(t *testing.T) {
	svc, repo := newTestStatsService(t)

	for i := 0; i < 4; i++ {
		storeFlight(t, repo, model.Flight{CabinClass: model.CabinEconomy})
	}
	storeFlight(t, repo, model.Flight{CabinClass: model.CabinBusiness})

	stats, err := svc.Compute(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}

	economy := stats.FlightClasses[model.CabinEconomy]
	if economy.Count != 4 || economy.Percentage != 80 {
		t.Errorf("Economy = %+v, want count 4, 80%%", economy)
	}
	business := stats.FlightClasses[model.CabinBusiness]
	if business.Count != 1 || business.Percentage != 20 {
		t.Errorf("Business = %+v, want count 1, 20%%", business)
	}
}

func TestStatsCompute_MissingClassIsUnknown(t *testing.T) {
	svc, repo := newTestStatsService(t)

	storeFlight(t, repo, model.Flight{})

	stats, err := svc.Compute(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}
	if got := stats.FlightClasses["Unknown"]; got.Count != 1 {
		t.Errorf("Unknown bucket = %+v, want count 1", got)
	}
}

func TestStatsCompute_TopDestinationsRankedAndCapped(t *testing.T) {
	svc, repo := newTestStatsService(t)

	// Tokyo ×3, London ×2, then four single-visit cities. Only five may
	// survive; Tokyo and London must lead.
	for i := 0; i < 3; i++ {
		storeFlight(t, repo, model.Flight{ArrivalCity: "Tokyo, Japan", ArrivalCode: "HND"})
	}
	for i := 0; i < 2; i++ {
		storeFlight(t, repo, model.Flight{ArrivalCity: "London, UK", ArrivalCode: "LHR"})
	}
	for _, city := range []string{"Paris, France", "Seoul, South Korea", "Sydney, Australia", "Atlanta, USA"} {
		storeFlight(t, repo, model.Flight{ArrivalCity: city})
	}

	stats, err := svc.Compute(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}

	if len(stats.TopDestinations) != 5 {
		t.Fatalf("len(TopDestinations) = %d, want 5", len(stats.TopDestinations))
	}
	if stats.TopDestinations[0].City != "Tokyo" || stats.TopDestinations[0].Count != 3 {
		t.Errorf("top destination = %+v, want Tokyo ×3", stats.TopDestinations[0])
	}
	if stats.TopDestinations[0].AirportCode != "HND" {
		t.Errorf("Tokyo AirportCode = %q, want HND", stats.TopDestinations[0].AirportCode)
	}
	if stats.TopDestinations[1].City != "London" || stats.TopDestinations[1].Count != 2 {
		t.Errorf("second destination = %+v, want London ×2", stats.TopDestinations[1])
	}
	// Ties among the single-visit cities break alphabetically.
	if stats.TopDestinations[2].City != "Atlanta" {
		t.Errorf("third destination = %q, want Atlanta", stats.TopDestinations[2].City)
	}
}

func TestStatsCompute_MissingAirportCodeIsNA(t *testing.T) {
	svc, repo := newTestStatsService(t)

	storeFlight(t, repo, model.Flight{ArrivalCity: "Tokyo, Japan"})

	stats, err := svc.Compute(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}
	if got := stats.TopDestinations[0].AirportCode; got != "N/A" {
		t.Errorf("AirportCode = %q, want N/A", got)
	}
}

func TestStatsCompute_MonthlyActivityZeroFilled(t *testing.T) {
	svc, repo := newTestStatsService(t)

	storeFlight(t, repo, model.Flight{FlightDate: datePtr("2025-03-10")})
	storeFlight(t, repo, model.Flight{FlightDate: datePtr("2025-03-22")})
	storeFlight(t, repo, model.Flight{FlightDate: datePtr("2024-03-22")}) // prior year, excluded

	stats, err := svc.Compute(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}

	if len(stats.MonthlyActivity) != 12 {
		t.Fatalf("len(MonthlyActivity) = %d, want 12", len(stats.MonthlyActivity))
	}
	if stats.MonthlyActivity[0].Month != "January" {
		t.Errorf("first month = %q, want January", stats.MonthlyActivity[0].Month)
	}
	if got := stats.MonthlyActivity[2]; got.Month != "March" || got.Flights != 2 {
		t.Errorf("March = %+v, want 2 flights", got)
	}
	if got := stats.MonthlyActivity[11]; got.Flights != 0 {
		t.Errorf("December = %+v, want 0 flights", got)
	}
}
