package matching

import (
	"sort"
	"strings"
)

// Tiers order candidates before score: any candidate in a stronger tier
// outranks every candidate in a weaker one, even with a lower score.
const (
	tierSpecialization = 0 // same specialization
	tierInterest       = 1 // at least one shared interest tag
	tierSchedule       = 2 // at least one shared schedule keyword
	tierRest           = 3
)

// Candidate pairs an opaque id with the profile fields ranking needs.
// Score is filled in by Rank.
type Candidate struct {
	UserID  uint
	Profile ProfileView
	Score   int

	tier int
}

// Rank scores every candidate against the viewer and sorts them into the
// tiered order used by buddy discovery: same specialization first, then
// shared interests, then overlapping schedules, then everyone else, each
// tier by score descending. Ties break by UserID for a stable order. The
// slice is sorted in place and returned.
func Rank(viewer ProfileView, candidates []Candidate) []Candidate {
	for i := range candidates {
		candidates[i].Score = Score(viewer, candidates[i].Profile)
		candidates[i].tier = tier(viewer, candidates[i].Profile)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.tier != b.tier {
			return a.tier < b.tier
		}
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		return a.UserID < b.UserID
	})
	return candidates
}

func tier(viewer, candidate ProfileView) int {
	vs := strings.TrimSpace(viewer.Specialization)
	cs := strings.TrimSpace(candidate.Specialization)
	if vs != "" && strings.EqualFold(vs, cs) {
		return tierSpecialization
	}
	if sharesInterest(viewer.Interests, candidate.Interests) {
		return tierInterest
	}
	if sharesScheduleKeyword(viewer.Schedule, candidate.Schedule) {
		return tierSchedule
	}
	return tierRest
}

func sharesInterest(a, b string) bool {
	setA := interestSet(a)
	if len(setA) == 0 {
		return false
	}
	for tag := range interestSet(b) {
		if _, ok := setA[tag]; ok {
			return true
		}
	}
	return false
}

func sharesScheduleKeyword(a, b string) bool {
	a = strings.ToLower(a)
	b = strings.ToLower(b)
	if strings.TrimSpace(a) == "" || strings.TrimSpace(b) == "" {
		return false
	}
	for _, kw := range scheduleKeywords {
		if strings.Contains(a, kw) && strings.Contains(b, kw) {
			return true
		}
	}
	return false
}
