package engine

import (
	"sort"

	"golang.org/x/text/cases"

	"github.com/noah-isme/sma-substitute-api/internal/models"
)

// Candidate is a substitute considered for coverage, with its availability data.
type Candidate struct {
	ID           string
	FirstName    string
	LastName     string
	Availability AvailabilityData
}

// RankedCandidate is the coverage score of one candidate.
type RankedCandidate struct {
	ID               string `json:"id"`
	FirstName        string `json:"first_name"`
	LastName         string `json:"last_name"`
	AvailableCount   int    `json:"available_count"`
	TotalCount       int    `json:"total_count"`
	IsFullyAvailable bool   `json:"is_fully_available"`
}

// Tier orders candidates: 0 fully available, 1 partially, 2 not at all.
func (r RankedCandidate) Tier() int {
	switch {
	case r.IsFullyAvailable:
		return 0
	case r.AvailableCount > 0:
		return 1
	default:
		return 2
	}
}

// Ratio is the share of entries the candidate can take.
func (r RankedCandidate) Ratio() float64 {
	if r.TotalCount == 0 {
		return 0
	}
	return float64(r.AvailableCount) / float64(r.TotalCount)
}

// IsAvailableFor reports whether a substitute can take a coverage entry. A FULL_DAY entry
// needs both halves of the day.
func IsAvailableFor(entry CoverageEntry, data AvailabilityData) bool {
	for _, slot := range SlotsOf(entry.TimeSlot) {
		if !ResolveStatus(entry.Date, slot, data).Status.IsAvailable() {
			return false
		}
	}
	return true
}

// EvaluateCandidate counts the entries a candidate can take.
func EvaluateCandidate(entries []CoverageEntry, c Candidate) RankedCandidate {
	result := RankedCandidate{
		ID:         c.ID,
		FirstName:  c.FirstName,
		LastName:   c.LastName,
		TotalCount: len(entries),
	}
	for _, entry := range entries {
		if IsAvailableFor(entry, c.Availability) {
			result.AvailableCount++
		}
	}
	result.IsFullyAvailable = result.TotalCount > 0 && result.AvailableCount == result.TotalCount
	return result
}

// RankCandidates scores and orders candidates against coverage entries: fully available
// first, then by available count, then by last and first name ignoring case.
func RankCandidates(entries []CoverageEntry, candidates []Candidate) []RankedCandidate {
	ranked := make([]RankedCandidate, 0, len(candidates))
	for _, c := range candidates {
		ranked = append(ranked, EvaluateCandidate(entries, c))
	}
	fold := cases.Fold()
	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.Tier() != b.Tier() {
			return a.Tier() < b.Tier()
		}
		if a.AvailableCount != b.AvailableCount {
			return a.AvailableCount > b.AvailableCount
		}
		if la, lb := fold.String(a.LastName), fold.String(b.LastName); la != lb {
			return la < lb
		}
		if fa, fb := fold.String(a.FirstName), fold.String(b.FirstName); fa != fb {
			return fa < fb
		}
		return a.ID < b.ID
	})
	return ranked
}

// coveredBy reports whether an existing assignment already covers an entry. Schools are
// compared only when both sides name one.
func coveredBy(entry CoverageEntry, a models.Assignment) bool {
	if !InRange(entry.Date, a.StartDate, a.EndDate) {
		return false
	}
	if a.SchoolID != "" && entry.SchoolID != "" && a.SchoolID != entry.SchoolID {
		return false
	}
	return SlotMatches(a.TimeSlot, entry.TimeSlot)
}

// isCovered splits FULL_DAY entries so two half-day assignments can cover them together.
func isCovered(entry CoverageEntry, assignments []models.Assignment) bool {
	for _, slot := range SlotsOf(entry.TimeSlot) {
		half := entry
		half.TimeSlot = slot
		covered := false
		for _, a := range assignments {
			if coveredBy(half, a) {
				covered = true
				break
			}
		}
		if !covered {
			return false
		}
	}
	return true
}

// UncoveredEntries returns the entries that no existing assignment covers yet.
func UncoveredEntries(entries []CoverageEntry, assignments []models.Assignment) []CoverageEntry {
	out := make([]CoverageEntry, 0, len(entries))
	for _, entry := range entries {
		if !isCovered(entry, assignments) {
			out = append(out, entry)
		}
	}
	return out
}

// ReplacedBySchool reports, per school appearing in entries, whether none of its entries
// is left uncovered.
func ReplacedBySchool(entries, uncovered []CoverageEntry) map[string]bool {
	result := make(map[string]bool)
	for _, e := range entries {
		result[e.SchoolID] = true
	}
	for _, e := range uncovered {
		result[e.SchoolID] = false
	}
	return result
}
