package rbac

// Role ranks. Lower is higher authority. The flat tier below Manager is
// intentionally unordered among its members.
const (
	rankSuperAdmin = 0
	rankAdmin      = 1
	rankManager    = 2
	rankFlatTier   = 3
)

var roleRanks = map[RoleName]int{
	RoleSuperAdmin: rankSuperAdmin,
	RoleAdmin:      rankAdmin,
	RoleManager:    rankManager,
	RoleUser:       rankFlatTier,
	RoleSupervisor: rankFlatTier,
	RoleTeacher:    rankFlatTier,
	RoleStudent:    rankFlatTier,
}

// Rank returns the hierarchy rank for a role, ErrUnknownRole for names
// outside the closed set.
func Rank(role RoleName) (int, error) {
	rank, ok := roleRanks[role]
	if !ok {
		return 0, ErrUnknownRole
	}
	return rank, nil
}

// CanManage reports whether an actor holding actorRole may create or manage
// accounts holding targetRole. The rule is strictly-less-than on rank, with
// one exception: SuperAdmin manages anyone, including other SuperAdmins.
func CanManage(actorRole, targetRole RoleName) bool {
	actorRank, err := Rank(actorRole)
	if err != nil {
		return false
	}
	targetRank, err := Rank(targetRole)
	if err != nil {
		return false
	}
	if actorRank == rankSuperAdmin {
		return true
	}
	return actorRank < targetRank
}

// HighestRole returns the highest-ranked role among the actor's roles.
// Unrecognized names are ignored; ok is false when nothing remains.
func HighestRole(roles []RoleName) (RoleName, bool) {
	best := RoleName("")
	bestRank := rankFlatTier + 1
	for _, role := range roles {
		rank, err := Rank(role)
		if err != nil {
			continue
		}
		if rank < bestRank {
			best = role
			bestRank = rank
		}
	}
	return best, best != ""
}
