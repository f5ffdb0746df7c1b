package role

import "fmt"

// Role is the semantic category inferred for a pattern node.
// The zero value is not a valid role.
type Role uint8

const (
	// Subject is an unconstrained node in subject position.
	Subject Role = iota + 1
	// Object is an unconstrained node in object position.
	Object
	// Predicate is an unconstrained node in predicate position.
	Predicate

	// ContainerTable is the container standing for a whole table.
	ContainerTable
	// ContainerRow is the container standing for one row of a table.
	ContainerRow
	// SlotColumn is a predicate linking a row to one of its cells.
	SlotColumn
	// SlotRow is a predicate linking a table to one of its rows (rdf:_N).
	SlotRow
	// SlotValue is a cell value.
	SlotValue
	// TypeTable is a type marker naming a table.
	TypeTable
	// TypeProperty is the predicate carrying a type marker (rdf:type).
	TypeProperty
	// FXRoot is the reserved Facade-X root type marker.
	FXRoot

	numRoles = int(FXRoot)
)

var roleNames = [...]string{
	Subject:        "Subject",
	Object:         "Object",
	Predicate:      "Predicate",
	ContainerTable: "ContainerTable",
	ContainerRow:   "ContainerRow",
	SlotColumn:     "SlotColumn",
	SlotRow:        "SlotRow",
	SlotValue:      "SlotValue",
	TypeTable:      "TypeTable",
	TypeProperty:   "TypeProperty",
	FXRoot:         "FXRoot",
}

// All returns every valid role in declaration order.
func All() []Role {
	roles := make([]Role, 0, numRoles)
	for r := Subject; r <= FXRoot; r++ {
		roles = append(roles, r)
	}
	return roles
}

// Valid reports whether r is one of the declared roles.
func (r Role) Valid() bool {
	return r >= Subject && r <= FXRoot
}

// IsGeneral reports whether r is one of the three unconstrained position roles.
func (r Role) IsGeneral() bool {
	return r == Subject || r == Object || r == Predicate
}

// String returns the role name, e.g. "ContainerRow".
func (r Role) String() string {
	if !r.Valid() {
		return fmt.Sprintf("Role(%d)", uint8(r))
	}
	return roleNames[r]
}

// ParseRole returns the role with the given name.
func ParseRole(name string) (Role, error) {
	for r := Subject; r <= FXRoot; r++ {
		if roleNames[r] == name {
			return r, nil
		}
	}
	return 0, fmt.Errorf("unknown role %q", name)
}

// MarshalText encodes the role as its name.
func (r Role) MarshalText() ([]byte, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("cannot marshal invalid role %d", uint8(r))
	}
	return []byte(roleNames[r]), nil
}

// UnmarshalText decodes a role name.
func (r *Role) UnmarshalText(text []byte) error {
	parsed, err := ParseRole(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}
