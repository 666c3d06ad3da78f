package domain

import (
	"fmt"
	"time"
)

// DateRange is a closed interval [Start, End]; both ends are inclusive.
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// NewDateRange normalises both ends to calendar dates and rejects inverted ranges.
func NewDateRange(start, end time.Time) (DateRange, error) {
	r := DateRange{Start: DateOf(start), End: DateOf(end)}
	if r.Start.After(r.End) {
		return DateRange{}, fmt.Errorf("start date %s is after end date %s", r.Start.Format(DateLayout), r.End.Format(DateLayout))
	}
	return r, nil
}

// DateLayout is the wire format of every calendar date.
const DateLayout = "2006-01-02"

// DateOf truncates t to midnight UTC of the same calendar day.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// MonthStart returns the first day of t's month.
func MonthStart(t time.Time) time.Time {
	y, m, _ := t.Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
}

// MonthEnd returns the last day of t's month.
func MonthEnd(t time.Time) time.Time {
	return MonthStart(t).AddDate(0, 1, -1)
}

// AddMonths moves a first-of-month date by n months.
func AddMonths(month time.Time, n int) time.Time {
	return MonthStart(month).AddDate(0, n, 0)
}

// MonthRange is the closed range covering the whole month of t.
func MonthRange(t time.Time) DateRange {
	return DateRange{Start: MonthStart(t), End: MonthEnd(t)}
}

// Contains reports whether t falls inside the range, comparing calendar dates.
func (r DateRange) Contains(t time.Time) bool {
	d := DateOf(t)
	return !d.Before(r.Start) && !d.After(r.End)
}

// HalfYearSegment is one calendar half-year clipped to a requested range.
type HalfYearSegment struct {
	Label string
	Year  int
	Half  int
	Range DateRange
}

// HalfYearSegments splits r into calendar halves (Jan–Jun, Jul–Dec), clipping
// the first and last segment to r. Halves that do not intersect r are skipped.
func (r DateRange) HalfYearSegments() []HalfYearSegment {
	var segments []HalfYearSegment
	for year := r.Start.Year(); year <= r.End.Year(); year++ {
		for half, months := range [2][2]time.Month{{time.January, time.June}, {time.July, time.December}} {
			start := time.Date(year, months[0], 1, 0, 0, 0, 0, time.UTC)
			end := MonthEnd(time.Date(year, months[1], 1, 0, 0, 0, 0, time.UTC))
			if start.Before(r.Start) {
				start = r.Start
			}
			if end.After(r.End) {
				end = r.End
			}
			if start.After(end) {
				continue
			}
			segments = append(segments, HalfYearSegment{
				Label: fmt.Sprintf("H%d %d", half+1, year),
				Year:  year,
				Half:  half + 1,
				Range: DateRange{Start: start, End: end},
			})
		}
	}
	return segments
}
