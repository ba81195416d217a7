package competitions

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"puma-karate/app/authz"
	"puma-karate/app/models"
)

func TestOwnsRegistration(t *testing.T) {
	reg := &models.CompetitionRegistration{ID: "r1", UserID: "st1", CompetitionID: "comp1"}

	tests := []struct {
		name  string
		actor authz.Actor
		want  bool
	}{
		{"owner student", authz.Actor{ID: "st1"}, true},
		{"other student", authz.Actor{ID: "st2"}, false},
		{"non-owner coach", authz.Actor{ID: "c1", IsCoach: true}, false},
		{"owner coach", authz.Actor{ID: "st1", IsCoach: true}, true},
		{"staff", authz.Actor{ID: "adm1", IsStaff: true}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ownsRegistration(tt.actor, reg))
		})
	}
}
