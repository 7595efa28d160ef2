// ABOUTME: Day-keyed aggregation helpers shared by the dashboard, API and CLI.
// ABOUTME: Streaks, per-day sums and averages over fixed windows.
package stats

import (
	"math"
	"time"
)

// DayLayout is the calendar-day format used throughout storage and the API.
const DayLayout = "2006-01-02"

// DefaultStreakWindow caps how far back a streak scan looks.
const DefaultStreakWindow = 365

// DayKey formats t as YYYY-MM-DD in t's location.
func DayKey(t time.Time) string {
	return t.Format(DayLayout)
}

// ParseDay parses a YYYY-MM-DD string in local time.
func ParseDay(s string) (time.Time, error) {
	return time.ParseInLocation(DayLayout, s, time.Local)
}

// StartOfDay truncates t to local midnight.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// Days returns the day keys of the n days ending at end, oldest first.
func Days(end time.Time, n int) []string {
	if n <= 0 {
		return nil
	}
	out := make([]string, n)
	start := StartOfDay(end).AddDate(0, 0, -(n - 1))
	for i := 0; i < n; i++ {
		out[i] = DayKey(start.AddDate(0, 0, i))
	}
	return out
}

// Streak counts consecutive days, ending today, for which done reports true.
// An unfinished today does not break the streak: counting then starts from
// yesterday. window caps the scan; zero or less means DefaultStreakWindow.
func Streak(done func(day string) bool, today time.Time, window int) int {
	if window <= 0 {
		window = DefaultStreakWindow
	}
	day := StartOfDay(today)
	if !done(DayKey(day)) {
		day = day.AddDate(0, 0, -1)
	}

	streak := 0
	for streak < window && done(DayKey(day)) {
		streak++
		day = day.AddDate(0, 0, -1)
	}
	return streak
}

// DaySet builds a membership set of the day keys of times.
func DaySet(times []time.Time) map[string]bool {
	set := make(map[string]bool, len(times))
	for _, t := range times {
		set[DayKey(t)] = true
	}
	return set
}

// Point is one timestamped value.
type Point struct {
	At    time.Time
	Value float64
}

// DayValue is one entry of a per-day series.
type DayValue struct {
	Day   string  `json:"day"`
	Value float64 `json:"value"`
}

// SumByDay totals points per day over the n days ending at end.
// Days with no points are zero.
func SumByDay(points []Point, end time.Time, n int) []DayValue {
	days := Days(end, n)
	sums := make(map[string]float64, len(days))
	for _, p := range points {
		sums[DayKey(p.At)] += p.Value
	}
	out := make([]DayValue, len(days))
	for i, d := range days {
		out[i] = DayValue{Day: d, Value: sums[d]}
	}
	return out
}

// AverageByDay averages points per day over the n days ending at end.
// Days with no points are zero.
func AverageByDay(points []Point, end time.Time, n int) []DayValue {
	days := Days(end, n)
	sums := make(map[string]float64, len(days))
	counts := make(map[string]int, len(days))
	for _, p := range points {
		k := DayKey(p.At)
		sums[k] += p.Value
		counts[k]++
	}
	out := make([]DayValue, len(days))
	for i, d := range days {
		v := 0.0
		if c := counts[d]; c > 0 {
			v = sums[d] / float64(c)
		}
		out[i] = DayValue{Day: d, Value: v}
	}
	return out
}

// LastByDay keeps the latest point of each day over the n days ending at end.
// Days with no points are zero.
func LastByDay(points []Point, end time.Time, n int) []DayValue {
	days := Days(end, n)
	last := make(map[string]Point, len(days))
	for _, p := range points {
		k := DayKey(p.At)
		if cur, ok := last[k]; !ok || p.At.After(cur.At) {
			last[k] = p
		}
	}
	out := make([]DayValue, len(days))
	for i, d := range days {
		out[i] = DayValue{Day: d, Value: last[d].Value}
	}
	return out
}

// Mean returns the arithmetic mean, or 0 for no values.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// Percent returns value as a percentage of target, rounded to one decimal.
// It is 0 when target is not positive and never negative.
func Percent(value, target float64) float64 {
	if target <= 0 || value <= 0 {
		return 0
	}
	return Round1(value / target * 100)
}

// Round1 rounds to one decimal place.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}
