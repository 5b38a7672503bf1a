// Package stats aggregates inspection history into summaries and trends.
package stats

import (
	"fmt"
	"sort"
	"time"

	"github.com/mkabbani/evround/internal/domain/model"
)

// Window is a calendar-aware lookback period ending now.
type Window string

const (
	WindowWeek    Window = "week"
	WindowMonth   Window = "month"
	WindowQuarter Window = "quarter"
	WindowYear    Window = "year"
)

// Windows lists all lookback periods in ascending length.
func Windows() []Window {
	return []Window{WindowWeek, WindowMonth, WindowQuarter, WindowYear}
}

// Valid reports whether w is one of the defined windows.
func (w Window) Valid() bool {
	switch w {
	case WindowWeek, WindowMonth, WindowQuarter, WindowYear:
		return true
	}
	return false
}

// Start returns the inclusive lower bound of the window ending at now.
// Bounds are calendar-aware: a month back from March 31 lands on March 3
// via time's day normalization, not a fixed count of hours.
func (w Window) Start(now time.Time) (time.Time, error) {
	switch w {
	case WindowWeek:
		return now.AddDate(0, 0, -7), nil
	case WindowMonth:
		return now.AddDate(0, -1, 0), nil
	case WindowQuarter:
		return now.AddDate(0, -3, 0), nil
	case WindowYear:
		return now.AddDate(-1, 0, 0), nil
	default:
		return time.Time{}, fmt.Errorf("%w: %q", ErrUnknownWindow, w)
	}
}

// Summary holds the aggregates over a filtered slice of history.
type Summary struct {
	Count             int     `json:"count"`
	UniqueZones       int     `json:"uniqueZones"`
	AveragePercentage float64 `json:"averagePercentage"`
	Best              float64 `json:"best"`
	Worst             float64 `json:"worst"`
}

// TrendPoint is one day's mean percentage.
type TrendPoint struct {
	Day     time.Time `json:"day"`
	Average float64   `json:"average"`
	Count   int       `json:"count"`
}

// Filter selects the records of one inspector inside the window ending at
// now. The inspector is matched by exact display name. Input order (newest
// first) is preserved.
func Filter(records []model.InspectionRecord, inspectorName string, w Window, now time.Time) ([]model.InspectionRecord, error) {
	start, err := w.Start(now)
	if err != nil {
		return nil, err
	}

	var out []model.InspectionRecord
	for _, rec := range records {
		if rec.InspectorName != inspectorName {
			continue
		}
		if rec.Timestamp.Before(start) {
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

// Summarize computes aggregates over the given records. An empty slice
// yields all zeros rather than an error; no inspections is a normal state.
func Summarize(records []model.InspectionRecord) Summary {
	if len(records) == 0 {
		return Summary{}
	}

	var sum float64
	best := records[0].Percentage
	worst := records[0].Percentage
	zones := make(map[string]struct{})
	for _, rec := range records {
		sum += rec.Percentage
		zones[rec.ZoneName] = struct{}{}
		if rec.Percentage > best {
			best = rec.Percentage
		}
		if rec.Percentage < worst {
			worst = rec.Percentage
		}
	}

	return Summary{
		Count:             len(records),
		UniqueZones:       len(zones),
		AveragePercentage: sum / float64(len(records)),
		Best:              best,
		Worst:             worst,
	}
}

// DailyTrend groups records by calendar day and returns each day's mean
// percentage in chronological order. Days without records are absent, not
// zero-filled.
func DailyTrend(records []model.InspectionRecord) []TrendPoint {
	type bucket struct {
		sum   float64
		count int
	}
	buckets := make(map[time.Time]*bucket)
	for _, rec := range records {
		// Bucket on the calendar date in the record's own location, not on
		// absolute 24h spans; Truncate would split one local day in two.
		y, m, d := rec.Timestamp.Date()
		day := time.Date(y, m, d, 0, 0, 0, 0, rec.Timestamp.Location())
		b, ok := buckets[day]
		if !ok {
			b = &bucket{}
			buckets[day] = b
		}
		b.sum += rec.Percentage
		b.count++
	}

	out := make([]TrendPoint, 0, len(buckets))
	for day, b := range buckets {
		out = append(out, TrendPoint{
			Day:     day,
			Average: b.sum / float64(b.count),
			Count:   b.count,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Day.Before(out[j].Day) })
	return out
}
