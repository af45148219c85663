package engine

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"time"
)

// UrgencyLevel classifies how late a replacement search is. Lower values are more severe.
type UrgencyLevel int

const (
	UrgencyUrgent UrgencyLevel = iota
	UrgencyWarning
	UrgencyNormal
	UrgencyNoDeadline
	UrgencyReplaced
)

// noDaysSortValue stands in for a missing daysRemaining in sort keys.
const noDaysSortValue = 999

// maxDeadlineDays bounds deadline policies so date arithmetic stays in range.
const maxDeadlineDays = 400 * 366

var urgencyNames = map[UrgencyLevel]string{
	UrgencyUrgent:     "URGENT",
	UrgencyWarning:    "WARNING",
	UrgencyNormal:     "NORMAL",
	UrgencyNoDeadline: "NO_DEADLINE",
	UrgencyReplaced:   "REPLACED",
}

// String returns the wire name of the level.
func (l UrgencyLevel) String() string {
	if name, ok := urgencyNames[l]; ok {
		return name
	}
	return fmt.Sprintf("UrgencyLevel(%d)", int(l))
}

// MarshalJSON encodes the level by name.
func (l UrgencyLevel) MarshalJSON() ([]byte, error) {
	return json.Marshal(l.String())
}

// UnmarshalJSON decodes a level from its name.
func (l *UrgencyLevel) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	for level, n := range urgencyNames {
		if n == name {
			*l = level
			return nil
		}
	}
	return fmt.Errorf("unknown urgency level %q", name)
}

// Urgency is a level plus the days left before the deadline, when there is one.
type Urgency struct {
	Level         UrgencyLevel `json:"level"`
	DaysRemaining *int         `json:"days_remaining"`
}

// SortKey orders urgencies ascending from most to least urgent.
func (u Urgency) SortKey() int {
	days := noDaysSortValue
	if u.DaysRemaining != nil {
		days = *u.DaysRemaining
	}
	return int(u.Level)*1000 + days
}

// SchoolUrgency computes the urgency of replacing an absence at one school.
// deadlineDays is the school's "replace within N days" policy; nil, NaN or infinite means
// none. Finite values beyond four centuries are clamped.
func SchoolUrgency(absenceStart time.Time, deadlineDays *float64, isReplaced bool, today time.Time) Urgency {
	if isReplaced {
		return Urgency{Level: UrgencyReplaced}
	}
	if deadlineDays == nil || math.IsNaN(*deadlineDays) || math.IsInf(*deadlineDays, 0) {
		return Urgency{Level: UrgencyNoDeadline}
	}
	ceiled := math.Min(math.Max(math.Ceil(*deadlineDays), -maxDeadlineDays), maxDeadlineDays)
	deadline := AddDays(absenceStart, int(ceiled))
	remaining := DaysBetween(today, deadline)

	level := UrgencyNormal
	switch {
	case remaining < 0:
		level = UrgencyUrgent
	case remaining <= 1:
		level = UrgencyWarning
	}
	return Urgency{Level: level, DaysRemaining: &remaining}
}

// OverallUrgency reduces school urgencies to the most severe one. On equal levels the
// smaller known daysRemaining wins. An empty input has no deadline.
func OverallUrgency(items []Urgency) Urgency {
	if len(items) == 0 {
		return Urgency{Level: UrgencyNoDeadline}
	}
	worst := items[0]
	for _, u := range items[1:] {
		if u.Level < worst.Level {
			worst = u
			continue
		}
		if u.Level == worst.Level && fewerDays(u.DaysRemaining, worst.DaysRemaining) {
			worst = u
		}
	}
	return worst
}

func fewerDays(a, b *int) bool {
	if a == nil {
		return false
	}
	if b == nil {
		return true
	}
	return *a < *b
}

// SortByUrgency orders items most urgent first by their urgency sort key. The input is
// left untouched.
func SortByUrgency[T any](items []T, urgencyOf func(T) Urgency) []T {
	out := make([]T, len(items))
	copy(out, items)
	sort.SliceStable(out, func(i, j int) bool {
		return urgencyOf(out[i]).SortKey() < urgencyOf(out[j]).SortKey()
	})
	return out
}
