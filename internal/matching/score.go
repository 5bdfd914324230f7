// Package matching computes compatibility scores between student profiles
// and ranks buddy candidates for discovery.
package matching

import (
	"math"
	"strings"
)

const (
	interestWeight       = 40
	specializationWeight = 30
	scheduleWeight       = 30

	interestNeutral       = 20
	specializationNeutral = 15
	scheduleNeutral       = 15
)

// scheduleKeywords are matched as substrings of the free-text schedule
// field, so "Weekday evenings" hits both "weekday" and "evening".
var scheduleKeywords = []string{"weekday", "weekend", "morning", "afternoon", "evening", "night"}

// ProfileView is the slice of a profile the scorer needs.
type ProfileView struct {
	Interests      string
	Specialization string
	Schedule       string
}

// Score rates how compatible two profiles are, 0 to 100. Symmetric:
// Score(a, b) == Score(b, a). A field missing on both sides earns half
// credit for that component instead of zero, so sparse profiles still
// surface with a middling score rather than vanishing.
func Score(a, b ProfileView) int {
	score := interestScore(a.Interests, b.Interests) +
		specializationScore(a.Specialization, b.Specialization) +
		scheduleScore(a.Schedule, b.Schedule)

	rounded := int(math.Round(score))
	if rounded > 100 {
		rounded = 100
	}
	if rounded < 0 {
		rounded = 0
	}
	return rounded
}

// interestScore is the Jaccard-style overlap of the interest tag sets,
// scaled by the larger set so adding unrelated interests dilutes the score.
func interestScore(a, b string) float64 {
	setA := interestSet(a)
	setB := interestSet(b)

	if len(setA) == 0 && len(setB) == 0 {
		return interestNeutral
	}
	if len(setA) == 0 || len(setB) == 0 {
		return 0
	}

	shared := 0
	for tag := range setA {
		if _, ok := setB[tag]; ok {
			shared++
		}
	}
	larger := len(setA)
	if len(setB) > larger {
		larger = len(setB)
	}
	return interestWeight * float64(shared) / float64(larger)
}

func specializationScore(a, b string) float64 {
	a = strings.TrimSpace(a)
	b = strings.TrimSpace(b)
	if a == "" && b == "" {
		return specializationNeutral
	}
	if a == "" || b == "" {
		return 0
	}
	if strings.EqualFold(a, b) {
		return specializationWeight
	}
	return 0
}

// scheduleScore counts the keywords present in both schedules and scales by
// the full keyword vocabulary, so two identical but narrow schedules score
// low on this component.
func scheduleScore(a, b string) float64 {
	a = strings.ToLower(strings.TrimSpace(a))
	b = strings.ToLower(strings.TrimSpace(b))
	if a == "" && b == "" {
		return scheduleNeutral
	}
	if a == "" || b == "" {
		return 0
	}

	matches := 0
	for _, kw := range scheduleKeywords {
		if strings.Contains(a, kw) && strings.Contains(b, kw) {
			matches++
		}
	}
	return scheduleWeight * float64(matches) / float64(len(scheduleKeywords))
}

// interestSet lowercases and trims comma-separated tags into a set.
func interestSet(s string) map[string]struct{} {
	out := make(map[string]struct{})
	for _, part := range strings.Split(s, ",") {
		if tag := strings.ToLower(strings.TrimSpace(part)); tag != "" {
			out[tag] = struct{}{}
		}
	}
	return out
}
