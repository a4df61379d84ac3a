package service

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/soarr/flightlog/internal/model"
	"github.com/soarr/flightlog/internal/repository"
)

// milesPerHour is the rough cruise-speed estimate used for the miles-flown
// figure. It is a display gimmick, not navigation data.
const milesPerHour = 500

// topDestinationLimit caps the ranked destination list.
const topDestinationLimit = 5

// StatsService computes the aggregate summary for a user's flights. All
// aggregation happens in memory over the full (small) record set; nothing
// is cached or stored.
type StatsService struct {
	flights repository.FlightRepository
	logger  *slog.Logger
	now     func() time.Time // injectable clock; the monthly chart covers the current year
}

// NewStatsService creates a StatsService.
func NewStatsService(flights repository.FlightRepository, logger *slog.Logger) *StatsService {
	return &StatsService{
		flights: flights,
		logger:  logger,
		now:     time.Now,
	}
}

// Compute aggregates all of userID's flights into a Stats summary. A user
// with no flights gets the canonical empty response without any iteration.
func (s *StatsService) Compute(ctx context.Context, userID string) (*model.Stats, error) {
	flights, err := s.flights.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error("failed to load flights for stats",
			slog.String("userID", userID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("loading flights for stats: %w", err)
	}

	if len(flights) == 0 {
		return model.EmptyStats(), nil
	}

	totalFlights := len(flights)
	totalHours := sumHours(flights)

	return &model.Stats{
		TotalFlights:     totalFlights,
		TotalHours:       fmt.Sprintf("%dh", totalHours),
		CountriesVisited: countCountries(flights),
		MilesFlown:       formatMiles(totalHours * milesPerHour),
		FlightClasses:    classBreakdown(flights),
		TopDestinations:  topDestinations(flights),
		MonthlyActivity:  monthlyActivity(flights, s.now().Year()),
	}, nil
}

// sumHours totals all recorded durations and floor-divides into whole
// hours. Flights without a duration contribute nothing.
func sumHours(flights []model.Flight) int {
	totalMinutes := 0
	for _, f := range flights {
		if f.DurationMinutes != nil {
			totalMinutes += *f.DurationMinutes
		}
	}
	return totalMinutes / 60
}

// countCountries extracts the country part of every "City, Country" label
// (the last comma-delimited segment, trimmed) and counts the distinct
// values. Labels without a comma contribute no country. No normalization
// beyond trimming: "USA" and "usa" are two countries, as written.
func countCountries(flights []model.Flight) int {
	countries := make(map[string]struct{})
	add := func(label string) {
		parts := strings.Split(label, ",")
		if len(parts) > 1 {
			countries[strings.TrimSpace(parts[len(parts)-1])] = struct{}{}
		}
	}
	for _, f := range flights {
		if f.DepartureCity != "" {
			add(f.DepartureCity)
		}
		if f.ArrivalCity != "" {
			add(f.ArrivalCity)
		}
	}
	return len(countries)
}

func formatMiles(miles int) string {
	if miles >= 1000 {
		return fmt.Sprintf("%dk", miles/1000)
	}
	return strconv.Itoa(miles)
}

// classBreakdown groups flights by cabin class ("Unknown" when unset) with
// counts and independently rounded percentages. The percentages may not sum
// to exactly 100; that is expected.
func classBreakdown(flights []model.Flight) map[string]model.ClassStat {
	counts := make(map[string]int)
	for _, f := range flights {
		class := f.CabinClass
		if class == "" {
			class = "Unknown"
		}
		counts[class]++
	}

	breakdown := make(map[string]model.ClassStat, len(counts))
	for class, count := range counts {
		breakdown[class] = model.ClassStat{
			Count:      count,
			Percentage: percentage(count, len(flights)),
		}
	}
	return breakdown
}

// topDestinations ranks arrival cities (the first comma-delimited segment,
// trimmed) by flight count, descending, capped at five. Equal counts break
// ties alphabetically so the ranking is deterministic. The airport code
// comes from the first flight in list order whose arrival city contains the
// destination — flights arrive sorted most-recent-first, so ties resolve to
// the most recent flight to that city.
func topDestinations(flights []model.Flight) []model.Destination {
	counts := make(map[string]int)
	for _, f := range flights {
		if f.ArrivalCity == "" {
			continue
		}
		city := strings.TrimSpace(strings.Split(f.ArrivalCity, ",")[0])
		if city != "" {
			counts[city]++
		}
	}

	cities := make([]string, 0, len(counts))
	for city := range counts {
		cities = append(cities, city)
	}
	sort.Slice(cities, func(i, j int) bool {
		if counts[cities[i]] != counts[cities[j]] {
			return counts[cities[i]] > counts[cities[j]]
		}
		return cities[i] < cities[j]
	})
	if len(cities) > topDestinationLimit {
		cities = cities[:topDestinationLimit]
	}

	destinations := make([]model.Destination, 0, len(cities))
	for _, city := range cities {
		destinations = append(destinations, model.Destination{
			City:        city,
			Count:       counts[city],
			Percentage:  percentage(counts[city], len(flights)),
			AirportCode: lookupAirportCode(flights, city),
		})
	}
	return destinations
}

func lookupAirportCode(flights []model.Flight, city string) string {
	for _, f := range flights {
		if f.ArrivalCity != "" && strings.Contains(f.ArrivalCity, city) {
			if f.ArrivalCode != "" {
				return f.ArrivalCode
			}
			return "N/A"
		}
	}
	return "N/A"
}

// monthlyActivity counts the year's flights per calendar month and emits
// all twelve months in order, zero-filled.
func monthlyActivity(flights []model.Flight, year int) []model.MonthActivity {
	counts := make(map[time.Month]int)
	for _, f := range flights {
		if f.FlightDate != nil && f.FlightDate.Year() == year {
			counts[f.FlightDate.Month()]++
		}
	}

	activity := make([]model.MonthActivity, 0, 12)
	for m := time.January; m <= time.December; m++ {
		activity = append(activity, model.MonthActivity{
			Month:   m.String(),
			Flights: counts[m],
		})
	}
	return activity
}

func percentage(count, total int) int {
	return int(math.Round(float64(count) / float64(total) * 100))
}
