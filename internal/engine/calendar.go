package engine

import (
	"time"

	"github.com/noah-isme/sma-substitute-api/internal/models"
)

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

const secondsPerDay = 24 * 60 * 60

var weekdayLabels = map[models.Weekday]string{
	models.Monday:    "Lundi",
	models.Tuesday:   "Mardi",
	models.Wednesday: "Mercredi",
	models.Thursday:  "Jeudi",
	models.Friday:    "Vendredi",
}

var slotLabels = map[models.TimeSlot]string{
	models.Morning:   "Matin",
	models.Afternoon: "Après-midi",
	models.FullDay:   "Journée",
}

var weekdayByTime = map[time.Weekday]models.Weekday{
	time.Monday:    models.Monday,
	time.Tuesday:   models.Tuesday,
	time.Wednesday: models.Wednesday,
	time.Thursday:  models.Thursday,
	time.Friday:    models.Friday,
}

// WeekdayLabel returns the display label of a weekday.
func WeekdayLabel(w models.Weekday) string {
	return weekdayLabels[w]
}

// SlotLabel returns the display label of a time slot.
func SlotLabel(s models.TimeSlot) string {
	return slotLabels[s]
}

// SlotMatches is the single comparison rule for time slots: FULL_DAY on either side
// matches anything, otherwise the slots must be equal.
func SlotMatches(a, b models.TimeSlot) bool {
	return a == b || a == models.FullDay || b == models.FullDay
}

// SlotsOf returns the half-day slots that must all hold for a requirement.
func SlotsOf(s models.TimeSlot) []models.TimeSlot {
	if s == models.FullDay {
		return []models.TimeSlot{models.Morning, models.Afternoon}
	}
	return []models.TimeSlot{s}
}

func slotRank(s models.TimeSlot) int {
	switch s {
	case models.Morning:
		return 0
	case models.Afternoon:
		return 1
	default:
		return 2
	}
}

// DateOf truncates t to its calendar date in t's own location, expressed at UTC midnight.
func DateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD date.
func ParseDate(raw string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, raw, time.UTC)
}

// FormatDate renders a date as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// AddDays shifts a date by n calendar days.
func AddDays(t time.Time, n int) time.Time {
	d := DateOf(t)
	return time.Date(d.Year(), d.Month(), d.Day()+n, 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the number of calendar days from a to b.
func DaysBetween(a, b time.Time) int {
	return int((DateOf(b).Unix() - DateOf(a).Unix()) / secondsPerDay)
}

// WeekdayOf returns the business weekday of a date. ok is false on weekends.
func WeekdayOf(t time.Time) (models.Weekday, bool) {
	w, ok := weekdayByTime[t.Weekday()]
	return w, ok
}

// IsBusinessDay reports whether the date falls Monday to Friday.
func IsBusinessDay(t time.Time) bool {
	_, ok := WeekdayOf(t)
	return ok
}

// InRange reports whether date lies in [start, end], compared by calendar date.
func InRange(date, start, end time.Time) bool {
	d := DateOf(date)
	return !d.Before(DateOf(start)) && !d.After(DateOf(end))
}

// EachDay calls fn for every date in [start, end]. It stops early when fn returns false.
// An inverted range yields no iteration.
func EachDay(start, end time.Time, fn func(time.Time) bool) {
	last := DateOf(end)
	for d := DateOf(start); !d.After(last); d = AddDays(d, 1) {
		if !fn(d) {
			return
		}
	}
}

// BusinessDays returns the Monday to Friday dates in [start, end].
func BusinessDays(start, end time.Time) []time.Time {
	var days []time.Time
	EachDay(start, end, func(d time.Time) bool {
		if IsBusinessDay(d) {
			days = append(days, d)
		}
		return true
	})
	return days
}

// GridWeekdays returns the weekdays shown as calendar grid columns. Wednesday is a valid
// data day but some grids leave it out.
func GridWeekdays(hideWednesday bool) []models.Weekday {
	out := make([]models.Weekday, 0, len(models.Weekdays))
	for _, w := range models.Weekdays {
		if hideWednesday && w == models.Wednesday {
			continue
		}
		out = append(out, w)
	}
	return out
}
