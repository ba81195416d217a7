package authz

import (
	"testing"
	"time"

	"puma-karate/app/models"

	"github.com/stretchr/testify/assert"
)

func category(ageMin, ageMax *int) *models.CompetitionCategory {
	return &models.CompetitionCategory{Name: "cat", AgeMin: ageMin, AgeMax: ageMax}
}

func TestCompetitionAgeEligible(t *testing.T) {
	tests := []struct {
		name       string
		age        int
		categories []*models.CompetitionCategory
		want       bool
	}{
		{"no categories means no restriction", 7, nil, true},
		{"age inside single bracket", 11, []*models.CompetitionCategory{category(intPtr(10), intPtr(12))}, true},
		{"age at lower bound", 10, []*models.CompetitionCategory{category(intPtr(10), intPtr(12))}, true},
		{"age at upper bound", 12, []*models.CompetitionCategory{category(intPtr(10), intPtr(12))}, true},
		{"age above bracket", 13, []*models.CompetitionCategory{category(intPtr(10), intPtr(12))}, false},
		{"age below bracket", 9, []*models.CompetitionCategory{category(intPtr(10), intPtr(12))}, false},
		{"one of several brackets admits", 15, []*models.CompetitionCategory{
			category(intPtr(10), intPtr(12)),
			category(intPtr(13), intPtr(17)),
		}, true},
		{"open lower bound", 5, []*models.CompetitionCategory{category(nil, intPtr(12))}, true},
		{"open upper bound", 40, []*models.CompetitionCategory{category(intPtr(18), nil)}, true},
		{"fully open category", 99, []*models.CompetitionCategory{category(nil, nil)}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CompetitionAgeEligible(tt.age, tt.categories))
		})
	}
}

func TestFilterCompetitionsByAge(t *testing.T) {
	now := time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC)
	dob := time.Date(2014, time.January, 10, 0, 0, 0, 0, time.UTC) // age 11 at now

	kids := &models.Competition{ID: "kids", Categories: []*models.CompetitionCategory{category(intPtr(10), intPtr(12))}}
	adults := &models.Competition{ID: "adults", Categories: []*models.CompetitionCategory{category(intPtr(18), nil)}}
	open := &models.Competition{ID: "open"}
	all := []*models.Competition{kids, adults, open}

	t.Run("filter disabled returns everything", func(t *testing.T) {
		student := Actor{ID: "st1", IsStudent: true, DateOfBirth: &dob}
		assert.Equal(t, all, FilterCompetitionsByAge(student, all, false, now))
	})

	t.Run("student is filtered by age", func(t *testing.T) {
		student := Actor{ID: "st1", IsStudent: true, DateOfBirth: &dob}
		got := FilterCompetitionsByAge(student, all, true, now)
		assert.Equal(t, []*models.Competition{kids, open}, got)
	})

	t.Run("unknown date of birth is never filtered", func(t *testing.T) {
		student := Actor{ID: "st1", IsStudent: true}
		assert.Equal(t, all, FilterCompetitionsByAge(student, all, true, now))
	})

	t.Run("staff is never filtered", func(t *testing.T) {
		staff := Actor{ID: "a1", IsStaff: true, DateOfBirth: &dob}
		assert.Equal(t, all, FilterCompetitionsByAge(staff, all, true, now))
	})

	t.Run("empty input stays empty", func(t *testing.T) {
		student := Actor{ID: "st1", IsStudent: true, DateOfBirth: &dob}
		assert.Empty(t, FilterCompetitionsByAge(student, nil, true, now))
	})
}
