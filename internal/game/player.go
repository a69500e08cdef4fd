package game

import "strings"

// WordPair is the pair of related secret words used for one session.
type WordPair struct {
	Civilian   string `json:"civilian"`
	Undercover string `json:"undercover"`
}

// WordFor returns the word a player holding role r is told. Mr. White gets
// no word, represented as nil so that it serializes as JSON null.
func (p *WordPair) WordFor(r Role) *string {
	if p == nil {
		return nil
	}
	switch r {
	case Civilian:
		w := p.Civilian
		return &w
	case Undercover:
		w := p.Undercover
		return &w
	default:
		return nil
	}
}

// Player is a seat at the table
type Player struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Role     Role    `json:"role"`
	Word     *string `json:"word"`
	Revealed bool    `json:"revealed"`
}

// SecretWord returns the player's word and whether they have one.
func (p Player) SecretWord() (string, bool) {
	if p.Word == nil {
		return "", false
	}
	return *p.Word, true
}

// Alive reports whether the player still holds role r and has not been revealed.
func (p Player) Alive(r Role) bool {
	return p.Role == r && !p.Revealed
}

// Roster is the ordered list of players in join order.
type Roster []Player

// Clone returns a copy that can be modified without touching r. Words are
// shared because they are never mutated in place.
func (r Roster) Clone() Roster {
	if r == nil {
		return nil
	}
	out := make(Roster, len(r))
	copy(out, r)
	return out
}

// IndexOf returns the position of the player with the given id, or -1.
func (r Roster) IndexOf(id string) int {
	for i, p := range r {
		if p.ID == id {
			return i
		}
	}
	return -1
}

// RevealedCount returns how many players have been revealed.
func (r Roster) RevealedCount() int {
	n := 0
	for _, p := range r {
		if p.Revealed {
			n++
		}
	}
	return n
}

// AnyAlive reports whether at least one unrevealed player holds role.
func (r Roster) AnyAlive(role Role) bool {
	for _, p := range r {
		if p.Alive(role) {
			return true
		}
	}
	return false
}

// HasName reports whether a player with the given name (case-insensitive)
// is already seated.
func (r Roster) HasName(name string) bool {
	for _, p := range r {
		if strings.EqualFold(p.Name, name) {
			return true
		}
	}
	return false
}
