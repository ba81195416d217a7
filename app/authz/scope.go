package authz

import "fmt"

// Entity identifies a table for scoping and mutation decisions.
type Entity int

const (
	EntityUser Entity = iota
	EntityGym
	EntityGroup
	EntityGroupStudent
	EntityTraining
	EntityHomework
	EntityAttendance
	EntityCompetition
	EntityCompetitionCategory
	EntityCompetitionRegistration
	EntityCompetitionResult
	EntityTeamCompetitionResult
	EntityJournal
	EntityProgressNote
	EntityTechniqueRecord
	EntityNews
	EntityAchievement
)

// Scope is a row-level filter for one entity type. Conditions reference the
// canonical table aliases used by the database package (u = users,
// g = groups, gs = group_students, t = trainings, h = homeworks,
// a = attendances, c = competitions, j = journals, pn = progress_notes,
// tr = technique_records, cr = competition_registrations). Placeholders are
// written as $%d verbs and renumbered when the scope is rendered into a
// larger query.
type Scope struct {
	conds []scopeCond
}

type scopeCond struct {
	expr string
	args []interface{}
}

func (s *Scope) where(expr string, args ...interface{}) {
	s.conds = append(s.conds, scopeCond{expr: expr, args: args})
}

// Unrestricted reports whether the scope matches the full table.
func (s Scope) Unrestricted() bool {
	return len(s.conds) == 0
}

// Render numbers the scope's placeholders starting at argIndex and returns
// the SQL fragments, their arguments and the next free placeholder index.
func (s Scope) Render(argIndex int) ([]string, []interface{}, int) {
	var exprs []string
	var args []interface{}
	for _, c := range s.conds {
		nums := make([]interface{}, len(c.args))
		for i := range c.args {
			nums[i] = argIndex
			argIndex++
		}
		exprs = append(exprs, fmt.Sprintf(c.expr, nums...))
		args = append(args, c.args...)
	}
	return exprs, args, argIndex
}

// ScopeFor computes the visibility scope of one entity type for the actor.
// Staff sees every row; a student-coach is scoped as a coach. List reads
// narrow silently through the scope, single-row reads outside the scope
// surface as not found.
func ScopeFor(actor Actor, entity Entity) Scope {
	var s Scope
	if actor.Role() == RoleStaff {
		return s
	}

	coach := actor.Role() == RoleCoach
	switch entity {
	case EntityUser:
		if coach {
			s.where(`u.id IN (
				SELECT gs.student_id FROM group_students gs
				JOIN groups g ON gs.group_id = g.id
				WHERE gs.is_active = true AND g.coach_id = $%d)`, actor.ID)
		} else {
			s.where("u.id = $%d", actor.ID)
		}
	case EntityGroup:
		if coach {
			s.where("g.coach_id = $%d", actor.ID)
		} else {
			s.where(`g.id IN (
				SELECT gs.group_id FROM group_students gs
				WHERE gs.student_id = $%d AND gs.is_active = true)`, actor.ID)
		}
	case EntityGroupStudent:
		if coach {
			s.where("gs.group_id IN (SELECT g.id FROM groups g WHERE g.coach_id = $%d)", actor.ID)
		} else {
			s.where("gs.student_id = $%d", actor.ID)
		}
	case EntityTraining:
		if coach {
			s.where("t.group_id IN (SELECT g.id FROM groups g WHERE g.coach_id = $%d)", actor.ID)
		} else {
			s.where(`t.group_id IN (
				SELECT gs.group_id FROM group_students gs
				WHERE gs.student_id = $%d AND gs.is_active = true)`, actor.ID)
		}
	case EntityHomework:
		if coach {
			s.where(`h.training_id IN (
				SELECT t.id FROM trainings t
				JOIN groups g ON t.group_id = g.id
				WHERE g.coach_id = $%d)`, actor.ID)
		} else {
			s.where("h.student_id = $%d", actor.ID)
		}
	case EntityAttendance:
		if coach {
			s.where(`a.training_id IN (
				SELECT t.id FROM trainings t
				JOIN groups g ON t.group_id = g.id
				WHERE g.coach_id = $%d)`, actor.ID)
		} else {
			s.where("a.student_id = $%d", actor.ID)
		}
	case EntityCompetition:
		// Visible when unrestricted (no visible_groups rows) or when the
		// actor's groups overlap the whitelist. The age test of the
		// competition filter runs after the rows are loaded, see
		// CompetitionAgeEligible.
		if coach {
			s.where(`(NOT EXISTS (
					SELECT 1 FROM competition_visible_groups cvg
					WHERE cvg.competition_id = c.id)
				OR EXISTS (
					SELECT 1 FROM competition_visible_groups cvg
					JOIN groups g ON g.id = cvg.group_id
					WHERE cvg.competition_id = c.id AND g.coach_id = $%d))`, actor.ID)
		} else {
			s.where(`(NOT EXISTS (
					SELECT 1 FROM competition_visible_groups cvg
					WHERE cvg.competition_id = c.id)
				OR EXISTS (
					SELECT 1 FROM competition_visible_groups cvg
					JOIN group_students gs ON gs.group_id = cvg.group_id
					WHERE cvg.competition_id = c.id
					  AND gs.student_id = $%d AND gs.is_active = true))`, actor.ID)
		}
	case EntityJournal:
		if coach {
			s.where("j.coach_id = $%d", actor.ID)
		} else {
			s.where("j.student_id = $%d", actor.ID)
		}
	case EntityProgressNote:
		if coach {
			s.where("pn.coach_id = $%d", actor.ID)
		} else {
			s.where("pn.student_id = $%d", actor.ID)
		}
	case EntityTechniqueRecord:
		// Coaches see every record, students only their own.
		if !coach {
			s.where("tr.student_id = $%d", actor.ID)
		}
	case EntityGym, EntityCompetitionCategory, EntityCompetitionRegistration,
		EntityCompetitionResult, EntityTeamCompetitionResult,
		EntityNews, EntityAchievement:
		// No row-level restriction beyond authentication.
	}
	return s
}
