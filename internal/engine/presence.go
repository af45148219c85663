package engine

import (
	"sort"
	"time"

	"github.com/noah-isme/sma-substitute-api/internal/models"
)

// PreviewMaxDays caps the day iterations of range previews.
const PreviewMaxDays = 31

// CoverageEntry is one concrete (date, slot, school) unit that needs a substitute.
type CoverageEntry struct {
	Date     time.Time       `json:"date"`
	Weekday  models.Weekday  `json:"weekday"`
	TimeSlot models.TimeSlot `json:"time_slot"`
	SchoolID string          `json:"school_id"`
}

// PresenceSlot is one recurring presence of a collaborator at a school.
type PresenceSlot struct {
	TimeSlot  models.TimeSlot
	SchoolID  string
	ValidFrom *time.Time
	ValidTo   *time.Time
}

func (p PresenceSlot) validOn(date time.Time) bool {
	if p.ValidFrom != nil && date.Before(DateOf(*p.ValidFrom)) {
		return false
	}
	if p.ValidTo != nil && date.After(DateOf(*p.ValidTo)) {
		return false
	}
	return true
}

// PresenceIndex groups presence slots by weekday. Slots within a weekday are ordered by
// school then slot.
type PresenceIndex map[models.Weekday][]PresenceSlot

// IndexPresence folds presence schedules into a weekday index. Unknown weekdays and slots
// are dropped.
func IndexPresence(schedules []models.PresenceSchedule) PresenceIndex {
	index := make(PresenceIndex)
	for _, schedule := range schedules {
		for _, s := range schedule.Slots {
			if !s.Weekday.Valid() || !s.TimeSlot.Valid() {
				continue
			}
			index[s.Weekday] = append(index[s.Weekday], PresenceSlot{
				TimeSlot:  s.TimeSlot,
				SchoolID:  schedule.SchoolID,
				ValidFrom: schedule.ValidFrom,
				ValidTo:   schedule.ValidTo,
			})
		}
	}
	for _, slots := range index {
		sort.SliceStable(slots, func(i, j int) bool {
			if slots[i].SchoolID != slots[j].SchoolID {
				return slots[i].SchoolID < slots[j].SchoolID
			}
			return slotRank(slots[i].TimeSlot) < slotRank(slots[j].TimeSlot)
		})
	}
	return index
}

// presenceApplies decides whether a presence slot needs coverage for an absence slot.
func presenceApplies(absenceSlot, presenceSlot models.TimeSlot) bool {
	if absenceSlot == models.FullDay {
		return true
	}
	return presenceSlot == models.FullDay || presenceSlot == absenceSlot
}

// ProjectCoverage expands an absence window into the coverage entries it leaves open.
// Every business day of the window is walked, however long; an inverted window yields
// nothing. Output is ordered by date, then school, then slot.
func ProjectCoverage(start, end time.Time, absenceSlot models.TimeSlot, schedules []models.PresenceSchedule) []CoverageEntry {
	index := IndexPresence(schedules)
	entries := make([]CoverageEntry, 0)
	if len(index) == 0 {
		return entries
	}
	EachDay(start, end, func(d time.Time) bool {
		weekday, ok := WeekdayOf(d)
		if !ok {
			return true
		}
		for _, p := range index[weekday] {
			if !p.validOn(d) || !presenceApplies(absenceSlot, p.TimeSlot) {
				continue
			}
			entries = append(entries, CoverageEntry{
				Date:     d,
				Weekday:  weekday,
				TimeSlot: p.TimeSlot,
				SchoolID: p.SchoolID,
			})
		}
		return true
	})
	return entries
}

// AffectedWeekdays lists the distinct business weekdays a range touches, in calendar
// order. It is meant for previews and stops after PreviewMaxDays iterations.
func AffectedWeekdays(start, end time.Time) []models.Weekday {
	seen := make(map[models.Weekday]bool, len(models.Weekdays))
	iterations := 0
	EachDay(start, end, func(d time.Time) bool {
		if iterations >= PreviewMaxDays {
			return false
		}
		iterations++
		if w, ok := WeekdayOf(d); ok {
			seen[w] = true
		}
		return true
	})
	out := make([]models.Weekday, 0, len(seen))
	for _, w := range models.Weekdays {
		if seen[w] {
			out = append(out, w)
		}
	}
	return out
}
