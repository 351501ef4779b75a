package domain

// AdministrativeLevel is the minimum rank level allowed to manage the rank
// directory, announcements and the audit log.
const AdministrativeLevel = 90

// CanModify reports whether an actor may act on a target. Equal levels are
// peers: neither may edit, promote or discipline the other.
func CanModify(actorLevel, targetLevel int, selfAction bool) bool {
	return selfAction || actorLevel > targetLevel
}

// CanAssignRank reports whether an actor may grant a rank. A rank at or above
// the actor's own level is never grantable.
func CanAssignRank(actorLevel, proposedLevel int) bool {
	return proposedLevel < actorLevel
}

func CanDelete(actor, target Officer) bool {
	if actor.ID == target.ID {
		return false
	}
	return CanModify(actor.EffectiveLevel(), target.EffectiveLevel(), false)
}

func CanAdminister(actorLevel int) bool {
	return actorLevel >= AdministrativeLevel
}
