package enums

import "fmt"

// Role is the warehouse staff role carried by every principal.
type Role string

const (
	RoleAdmin            Role = "admin"
	RoleWarehouseManager Role = "warehouse_manager"
	RoleInventoryManager Role = "inventory_manager"
	RoleFloorManager     Role = "floor_manager"
	RoleOperative        Role = "operative"
	RoleSupervisor       Role = "supervisor"
	RoleAnalyst          Role = "analyst"
	RoleLogistics        Role = "logistics"
	RoleSales            Role = "sales"
)

var validRoles = []Role{
	RoleAdmin,
	RoleWarehouseManager,
	RoleInventoryManager,
	RoleFloorManager,
	RoleOperative,
	RoleSupervisor,
	RoleAnalyst,
	RoleLogistics,
	RoleSales,
}

// Roles lists every known role in declaration order.
func Roles() []Role {
	return append([]Role(nil), validRoles...)
}

// String implements fmt.Stringer.
func (r Role) String() string {
	return string(r)
}

// IsValid reports whether the value is a known Role.
func (r Role) IsValid() bool {
	for _, candidate := range validRoles {
		if candidate == r {
			return true
		}
	}
	return false
}

// ParseRole converts raw input into a Role.
func ParseRole(value string) (Role, error) {
	for _, candidate := range validRoles {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid role %q", value)
}
