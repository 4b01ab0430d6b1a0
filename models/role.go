package models

import (
	"database/sql/driver"
	"fmt"
)

// Role is the closed, ordered permission level of a staff account.
// Ordering matters: viewer < editor < admin.
type Role int

const (
	RoleViewer Role = iota
	RoleEditor
	RoleAdmin
)

var roleNames = map[Role]string{
	RoleViewer: "viewer",
	RoleEditor: "editor",
	RoleAdmin:  "admin",
}

// ParseRole maps a role claim string onto the enumeration.
func ParseRole(s string) (Role, error) {
	for r, name := range roleNames {
		if name == s {
			return r, nil
		}
	}
	return RoleViewer, fmt.Errorf("unknown role %q", s)
}

func (r Role) String() string {
	if name, ok := roleNames[r]; ok {
		return name
	}
	return "viewer"
}

// AtLeast reports whether r grants the permissions of min.
func (r Role) AtLeast(min Role) bool {
	return r >= min
}

// MarshalJSON renders the role by name.
func (r Role) MarshalJSON() ([]byte, error) {
	return []byte(`"` + r.String() + `"`), nil
}

// Value stores the role by name so the users table stays readable.
func (r Role) Value() (driver.Value, error) {
	return r.String(), nil
}

// Scan restores a role from its stored name. Unknown values degrade to viewer.
func (r *Role) Scan(v interface{}) error {
	switch s := v.(type) {
	case string:
		parsed, err := ParseRole(s)
		if err != nil {
			*r = RoleViewer
			return nil
		}
		*r = parsed
	case []byte:
		return r.Scan(string(s))
	case nil:
		*r = RoleViewer
	default:
		return fmt.Errorf("cannot scan %T into Role", v)
	}
	return nil
}
