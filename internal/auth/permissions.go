package auth

import "github.com/averoza/stockroom/internal/user"

const (
	PermMaterialsRead     = "materials:read"
	PermMaterialsWrite    = "materials:write"
	PermMovementsRead     = "movements:read"
	PermMovementsWrite    = "movements:write"
	PermRequisitionsRead  = "requisitions:read"
	PermRequisitionsWrite = "requisitions:write"
	PermRequisitionsSign  = "requisitions:sign"
	PermDashboardRead     = "dashboard:read"
	PermAuditRead         = "audit:read"
	PermUsersManage       = "users:manage"
)

var rolePermissions = map[user.Role][]string{
	user.RoleAdmin: {
		PermMaterialsRead, PermMaterialsWrite,
		PermMovementsRead, PermMovementsWrite,
		PermRequisitionsRead, PermRequisitionsWrite, PermRequisitionsSign,
		PermDashboardRead, PermAuditRead, PermUsersManage,
	},
	user.RoleStock: {
		PermMaterialsRead, PermMaterialsWrite,
		PermMovementsRead, PermMovementsWrite,
		PermRequisitionsRead, PermRequisitionsWrite, PermRequisitionsSign,
		PermDashboardRead,
	},
	user.RoleEmployee: {
		PermRequisitionsRead, PermRequisitionsSign,
	},
}

// RolePermissions returns the permission set for a role. Unknown roles get
// nothing.
func RolePermissions(role user.Role) []string {
	perms, ok := rolePermissions[role]
	if !ok {
		return nil
	}
	out := make([]string, len(perms))
	copy(out, perms)
	return out
}

func HasPermission(role user.Role, perm string) bool {
	for _, p := range rolePermissions[role] {
		if p == perm {
			return true
		}
	}
	return false
}
