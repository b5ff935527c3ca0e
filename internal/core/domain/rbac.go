package domain

// Permission strings gating dashboard actions. Flat namespace, no hierarchy
// or wildcard semantics; a permission is either in a role's set or it is not.
const (
	PermDashboardView   = "dashboard:view"
	PermInvoicesView    = "invoices:view"
	PermInvoicesCreate  = "invoices:create"
	PermInvoicesEdit    = "invoices:edit"
	PermInvoicesDelete  = "invoices:delete"
	PermFinancesView    = "finances:view"
	PermFinancesEdit    = "finances:edit"
	PermUsersView       = "users:view"
	PermUsersCreate     = "users:create"
	PermUsersEdit       = "users:edit"
	PermUsersDelete     = "users:delete"
	PermRolesManage     = "roles:manage"
	PermAuthResetPasswd = "auth:reset-password"
)

// rolePermissions is the static role→permission catalog. Every assignable
// role needs an entry here; roles without one degrade to no permissions.
var rolePermissions = map[string][]string{
	RoleAdmin: {
		PermDashboardView,
		PermInvoicesView, PermInvoicesCreate, PermInvoicesEdit, PermInvoicesDelete,
		PermFinancesView, PermFinancesEdit,
		PermUsersView, PermUsersCreate, PermUsersEdit, PermUsersDelete,
		PermRolesManage,
		PermAuthResetPasswd,
	},
	RoleManager: {
		PermDashboardView,
		PermInvoicesView, PermInvoicesCreate, PermInvoicesEdit,
		PermFinancesView,
		PermUsersView,
	},
}

// PermissionsFor returns the permission set for a role. Unknown roles yield
// an empty set (fail closed). The returned slice is a copy; callers may not
// mutate the catalog.
func PermissionsFor(role string) []string {
	perms, ok := rolePermissions[role]
	if !ok {
		return nil
	}
	return append([]string(nil), perms...)
}

// RoleHasPermission reports whether the catalog grants permission to role.
func RoleHasPermission(role, permission string) bool {
	for _, p := range rolePermissions[role] {
		if p == permission {
			return true
		}
	}
	return false
}
