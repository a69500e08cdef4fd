package game

const (
	// MinPlayers is the smallest table the lobby will start
	MinPlayers = 4

	// MaxPlayers is the largest table the lobby offers
	MaxPlayers = 12
)

// RoleQuota is the number of players that must hold each role.
type RoleQuota struct {
	Civilian   int `json:"civilian"`
	Undercover int `json:"undercover"`
	MrWhite    int `json:"mrwhite"`
}

// RequiredRoles returns the role distribution for a table of playerCount.
//
// There is always exactly one Mr. White. Undercover grows from one to three
// as the table reaches 8 and 12 players; everyone else is a civilian. Counts
// below 3 produce a negative civilian quota, so callers must enforce
// MinPlayers before relying on the result.
func RequiredRoles(playerCount int) RoleQuota {
	undercover := 1
	if playerCount >= 8 {
		undercover = 2
	}
	if playerCount >= 12 {
		undercover = 3
	}
	const mrwhite = 1

	return RoleQuota{
		Civilian:   playerCount - undercover - mrwhite,
		Undercover: undercover,
		MrWhite:    mrwhite,
	}
}

// Total is the player count the quota was derived from.
func (q RoleQuota) Total() int {
	return q.Civilian + q.Undercover + q.MrWhite
}

// Count returns the quota for a single role.
func (q RoleQuota) Count(r Role) int {
	switch r {
	case Civilian:
		return q.Civilian
	case Undercover:
		return q.Undercover
	case MrWhite:
		return q.MrWhite
	default:
		return 0
	}
}

// Valid reports whether every entry is non-negative.
func (q RoleQuota) Valid() bool {
	return q.Civilian >= 0 && q.Undercover >= 0 && q.MrWhite >= 0
}

// CountRoles tallies the roles currently held across a roster.
func CountRoles(roster Roster) RoleQuota {
	var q RoleQuota
	for _, p := range roster {
		switch p.Role {
		case Civilian:
			q.Civilian++
		case Undercover:
			q.Undercover++
		case MrWhite:
			q.MrWhite++
		}
	}
	return q
}

// RolesMatchQuota reports whether the roster already holds exactly the
// distribution the quota asks for.
func RolesMatchQuota(roster Roster, quota RoleQuota) bool {
	return CountRoles(roster) == quota
}
