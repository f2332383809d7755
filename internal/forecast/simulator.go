package forecast

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/lifeline/internal/model"
)

// DefaultHorizonDays is the standard projection window.
const DefaultHorizonDays = 90

// Event is one rule firing on a forecast day. The implicit daily
// average erosion produces no event.
type Event struct {
	RuleID    string
	Name      string
	Amount    decimal.Decimal
	Direction model.Direction
}

// Point is one day's projected balance plus the events that produced it.
// Ephemeral: recomputed from scratch, never persisted.
type Point struct {
	Date    time.Time
	Balance decimal.Decimal // rounded to 2 places
	IsToday bool            // first point, not yet projected forward
	Events  []Event
}

// Generate walks day by day from today through horizonDays, applying
// every firing rule and then the trailing daily expense average, and
// returns horizonDays+1 points. Day 0 carries the starting balance with
// no average erosion. Pure: identical inputs yield identical output.
func Generate(
	balance decimal.Decimal,
	rules []model.RecurringRule,
	dailyAverage decimal.Decimal,
	horizonDays int,
	today time.Time,
) []Point {
	start := DateOnly(today)
	points := make([]Point, 0, horizonDays+1)
	running := balance

	for i := 0; i <= horizonDays; i++ {
		day := start.AddDate(0, 0, i)

		var events []Event
		for _, r := range rules {
			if !OccursOn(r, day) {
				continue
			}
			events = append(events, Event{
				RuleID:    r.ID,
				Name:      r.Name,
				Amount:    r.Amount,
				Direction: r.Direction,
			})
			running = running.Add(r.Direction.Signed(r.Amount))
		}

		// Unplanned-spend smoothing applies to future days only.
		if i > 0 {
			running = running.Sub(dailyAverage)
		}

		points = append(points, Point{
			Date:    day,
			Balance: running.Round(2),
			IsToday: i == 0,
			Events:  events,
		})
	}

	return points
}
