package models

// Role represents the privilege level of an actor. The set is closed;
// roles are never created at runtime.
type Role string

const (
	RoleGuest       Role = "guest"
	RoleUser        Role = "user"
	RoleGridManager Role = "grid_manager"
	RoleAdmin       Role = "admin"
	RoleSuperAdmin  Role = "super_admin"
)

// roleLevels orders roles by privilege. Used only for downgrade validation,
// never for permission checks (permissions are matrix lookups, not ordered).
var roleLevels = map[Role]int{
	RoleGuest:       0,
	RoleUser:        1,
	RoleGridManager: 2,
	RoleAdmin:       3,
	RoleSuperAdmin:  4,
}

// IsValid reports whether r is one of the known roles.
func (r Role) IsValid() bool {
	_, ok := roleLevels[r]
	return ok
}

// Level returns the privilege level of the role, or -1 for unknown roles.
func (r Role) Level() int {
	if l, ok := roleLevels[r]; ok {
		return l
	}
	return -1
}

// AtMost reports whether r carries equal or lesser privilege than other.
// Unknown roles compare below everything.
func (r Role) AtMost(other Role) bool {
	return r.Level() <= other.Level() && r.IsValid()
}

// Action represents one of the five capability columns of a permission rule.
type Action string

const (
	ActionView   Action = "view"
	ActionCreate Action = "create"
	ActionEdit   Action = "edit"
	ActionDelete Action = "delete"
	ActionManage Action = "manage"
)

// IsValid reports whether a is one of the five known actions.
func (a Action) IsValid() bool {
	switch a {
	case ActionView, ActionCreate, ActionEdit, ActionDelete, ActionManage:
		return true
	}
	return false
}

// IsMutating reports whether the action changes a specific resource instance.
// Only mutating actions are subject to the ownership override path.
func (a Action) IsMutating() bool {
	return a == ActionEdit || a == ActionDelete
}
