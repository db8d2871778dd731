package model

import (
	"encoding/json"
	"fmt"
)

// Role is the closed set of privilege levels a user can hold. The numeric
// values define a total order: admin > moderator > user. Adding a role is a
// code change on purpose; there are no dynamic roles.
type Role uint8

const (
	RoleUser Role = iota
	RoleModerator
	RoleAdmin
)

// roleNames maps each role to its wire/database representation.
var roleNames = map[Role]string{
	RoleUser:      "user",
	RoleModerator: "moderator",
	RoleAdmin:     "admin",
}

// ParseRole converts a stored role string into a Role. Unknown values are
// rejected so a corrupted row never silently grants or drops privileges.
func ParseRole(s string) (Role, error) {
	for r, name := range roleNames {
		if name == s {
			return r, nil
		}
	}
	return RoleUser, fmt.Errorf("unknown role %q", s)
}

func (r Role) String() string {
	if name, ok := roleNames[r]; ok {
		return name
	}
	return "user"
}

// AtLeast reports whether r meets or exceeds min in the privilege order.
func (r Role) AtLeast(min Role) bool { return r >= min }

// MarshalJSON renders the role as its string name.
func (r Role) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.String())
}

// UnmarshalJSON parses a role from its string name.
func (r *Role) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := ParseRole(s)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}
