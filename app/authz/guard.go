package authz

// Operation is a write kind checked by the mutation guard.
type Operation int

const (
	OpCreate Operation = iota
	OpUpdate
	OpDelete
)

// CanMutate decides whether the actor's role may perform the operation on
// the entity type at all. Row-level restrictions are enforced separately by
// intersecting the target row with the actor's visibility scope: an allowed
// operation on an out-of-scope row still fails as not found.
//
// Ownership rules that need the target row (a registration's owner, an
// achievement's owner) are checked by the handlers after the row is loaded;
// here they appear as the permissive branch.
func CanMutate(actor Actor, entity Entity, op Operation) bool {
	switch entity {
	case EntityUser:
		// Full account management is staff-only. Self-service profile
		// updates go through the separate "me" path which never touches
		// role or staff flags.
		return actor.Role() == RoleStaff
	case EntityNews:
		return actor.Role() == RoleStaff
	case EntityGym, EntityGroup, EntityGroupStudent,
		EntityTraining, EntityHomework, EntityAttendance,
		EntityCompetition, EntityCompetitionCategory,
		EntityCompetitionResult, EntityTeamCompetitionResult,
		EntityJournal, EntityProgressNote, EntityTechniqueRecord:
		return actor.EffectiveCoach()
	case EntityCompetitionRegistration:
		// Anyone may self-register; updates and deletes are owner-or-staff,
		// verified against the loaded row.
		return true
	case EntityAchievement:
		// Create by any authenticated user, edits owner-or-staff.
		return true
	}
	return false
}
