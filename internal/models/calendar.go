package models

// Weekday identifies a school day. Weekends never appear in schedules.
type Weekday string

const (
	Monday    Weekday = "MONDAY"
	Tuesday   Weekday = "TUESDAY"
	Wednesday Weekday = "WEDNESDAY"
	Thursday  Weekday = "THURSDAY"
	Friday    Weekday = "FRIDAY"
)

// Weekdays lists business days in calendar order.
var Weekdays = []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday}

// Valid reports whether the weekday is a known business day.
func (w Weekday) Valid() bool {
	switch w {
	case Monday, Tuesday, Wednesday, Thursday, Friday:
		return true
	}
	return false
}

// TimeSlot is a half-day unit or the full day.
type TimeSlot string

const (
	Morning   TimeSlot = "MORNING"
	Afternoon TimeSlot = "AFTERNOON"
	FullDay   TimeSlot = "FULL_DAY"
)

// Valid reports whether the slot is known.
func (s TimeSlot) Valid() bool {
	switch s {
	case Morning, Afternoon, FullDay:
		return true
	}
	return false
}

// WeeklySlot is one recurring (weekday, slot) pair.
type WeeklySlot struct {
	Weekday  Weekday  `json:"weekday"`
	TimeSlot TimeSlot `json:"time_slot"`
}

// WeeklyPattern is the typed form of a persisted weekly schedule blob.
type WeeklyPattern []WeeklySlot
