package game

import "fmt"

// Role is the secret identity dealt to a player.
type Role string

const (
	NoRole     Role = ""
	Civilian   Role = "civilian"
	Undercover Role = "undercover"
	MrWhite    Role = "mrwhite"
)

// Roles lists every assignable role.
var Roles = []Role{Civilian, Undercover, MrWhite}

// String returns the display name of the role
func (r Role) String() string {
	switch r {
	case Civilian:
		return "Civilian"
	case Undercover:
		return "Undercover"
	case MrWhite:
		return "Mr. White"
	case NoRole:
		return "none"
	default:
		return string(r)
	}
}

// Valid reports whether r is one of the assignable roles.
func (r Role) Valid() bool {
	return r == Civilian || r == Undercover || r == MrWhite
}

// HasWord reports whether players holding this role are told a secret word.
func (r Role) HasWord() bool {
	return r == Civilian || r == Undercover
}

// ParseRole converts the wire form of a role back into a Role.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.Valid() {
		return NoRole, fmt.Errorf("unknown role %q", s)
	}
	return r, nil
}

// UnmarshalText rejects unknown roles when decoding snapshots. The empty
// string decodes to NoRole so that an unset winner round-trips.
func (r *Role) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*r = NoRole
		return nil
	}
	parsed, err := ParseRole(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}
