package game

// Assignment is the role and word dealt to a newly seated player.
type Assignment struct {
	Role Role
	Word *string
}

type weightedRole struct {
	role   Role
	weight int
}

// AssignRoleForNewPlayer deals a role to the next player joining roster.
//
// Each role that still has open slots in quota is a candidate, weighted by
// how many slots remain, so roles that are furthest from being filled are
// the most likely to be drawn. Mr. White is never dealt to the first player
// at the table. ErrQuotaFilled is returned when no role has an open slot.
func AssignRoleForNewPlayer(roster Roster, quota RoleQuota, pair *WordPair, rng Rand) (Assignment, error) {
	if rng == nil {
		panic("rng is required for role assignment")
	}
	if pair == nil {
		return Assignment{}, ErrNoWordPair
	}

	current := CountRoles(roster)
	candidates := make([]weightedRole, 0, len(Roles))

	if remaining := quota.MrWhite - current.MrWhite; remaining > 0 && len(roster) > 0 {
		candidates = append(candidates, weightedRole{MrWhite, remaining})
	}
	if remaining := quota.Undercover - current.Undercover; remaining > 0 {
		candidates = append(candidates, weightedRole{Undercover, remaining})
	}
	if remaining := quota.Civilian - current.Civilian; remaining > 0 {
		candidates = append(candidates, weightedRole{Civilian, remaining})
	}

	if len(candidates) == 0 {
		return Assignment{}, ErrQuotaFilled
	}

	role := drawWeighted(candidates, rng)
	return Assignment{Role: role, Word: pair.WordFor(role)}, nil
}

// drawWeighted picks r uniformly in [0, total) and walks the candidates
// subtracting weights until r drops to zero or below.
func drawWeighted(candidates []weightedRole, rng Rand) Role {
	total := 0
	for _, c := range candidates {
		total += c.weight
	}

	r := rng.Float64() * float64(total)
	for _, c := range candidates {
		r -= float64(c.weight)
		if r <= 0 {
			return c.role
		}
	}

	// Only reachable through floating point drift.
	return candidates[len(candidates)-1].role
}

// ReassignRoles deals a fresh distribution matching quota across the whole
// roster and returns it as a new roster; the input is left untouched.
//
// Everyone is reset to Civilian, then player indices are shuffled. Walking
// the shuffled order, the first quota.Undercover players become Undercover
// and the next quota.MrWhite still-civilian players become Mr. White.
// Previously dealt roles are not preserved.
func ReassignRoles(roster Roster, quota RoleQuota, pair *WordPair, rng Rand) (Roster, error) {
	if rng == nil {
		panic("rng is required for role assignment")
	}
	if pair == nil {
		return nil, ErrNoWordPair
	}

	assigned := roster.Clone()
	for i := range assigned {
		assigned[i].Role = Civilian
		assigned[i].Word = pair.WordFor(Civilian)
	}

	order := make([]int, len(assigned))
	for i := range order {
		order[i] = i
	}
	rng.Shuffle(len(order), func(i, j int) {
		order[i], order[j] = order[j], order[i]
	})

	undercover := 0
	for _, idx := range order {
		if undercover >= quota.Undercover {
			break
		}
		if assigned[idx].Role == Civilian {
			assigned[idx].Role = Undercover
			assigned[idx].Word = pair.WordFor(Undercover)
			undercover++
		}
	}

	mrwhite := 0
	for _, idx := range order {
		if mrwhite >= quota.MrWhite {
			break
		}
		if assigned[idx].Role == Civilian {
			assigned[idx].Role = MrWhite
			assigned[idx].Word = nil
			mrwhite++
		}
	}

	return assigned, nil
}
