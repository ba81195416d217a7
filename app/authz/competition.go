package authz

import (
	"time"

	"puma-karate/app/models"
)

// CompetitionAgeEligible is the age half of the competition visibility
// filter. A competition with no categories carries no age restriction and
// always passes; otherwise at least one category must admit the given age.
// Nil bounds are open on that side.
func CompetitionAgeEligible(age int, categories []*models.CompetitionCategory) bool {
	if len(categories) == 0 {
		return true
	}
	for _, cat := range categories {
		if cat.AgeMin != nil && age < *cat.AgeMin {
			continue
		}
		if cat.AgeMax != nil && age > *cat.AgeMax {
			continue
		}
		return true
	}
	return false
}

// FilterCompetitionsByAge applies the age test to an already group-scoped
// competition list. The test is skipped entirely when it was not requested,
// when the actor's age is unknown, or for staff.
func FilterCompetitionsByAge(actor Actor, competitions []*models.Competition, filterByAge bool, now time.Time) []*models.Competition {
	if !filterByAge || actor.Role() == RoleStaff {
		return competitions
	}
	age := actor.Age(now)
	if age == nil {
		return competitions
	}
	filtered := make([]*models.Competition, 0, len(competitions))
	for _, comp := range competitions {
		if CompetitionAgeEligible(*age, comp.Categories) {
			filtered = append(filtered, comp)
		}
	}
	return filtered
}
