package user

type Permission string

const (
	// Leave Management
	PermissionLeaveViewOwn Permission = "leave.view_own"
	PermissionLeaveCreate  Permission = "leave.create"
	PermissionLeaveViewAll Permission = "leave.view_all"
	PermissionLeaveApprove Permission = "leave.approve"
	PermissionLeaveCancel  Permission = "leave.cancel"

	// Leave Balances
	PermissionBalanceViewOwn Permission = "balance.view_own"
	PermissionBalanceViewAll Permission = "balance.view_all"

	// Notifications
	PermissionNotificationView Permission = "notification.view"
)

// RolePermissions maps roles to their permissions
var RolePermissions = map[Role][]Permission{
	RoleAdmin: {
		PermissionLeaveViewOwn,
		PermissionLeaveCreate,
		PermissionLeaveViewAll,
		PermissionLeaveApprove,
		PermissionLeaveCancel,
		PermissionBalanceViewOwn,
		PermissionBalanceViewAll,
		PermissionNotificationView,
	},
	RoleManager: {
		PermissionLeaveViewOwn,
		PermissionLeaveCreate,
		PermissionLeaveViewAll,
		PermissionLeaveApprove,
		PermissionLeaveCancel,
		PermissionBalanceViewOwn,
		PermissionBalanceViewAll,
		PermissionNotificationView,
	},
	RoleEmployee: {
		PermissionLeaveViewOwn,
		PermissionLeaveCreate,
		PermissionLeaveCancel,
		PermissionBalanceViewOwn,
		PermissionNotificationView,
	},
}

// HasPermission checks if a role has a specific permission
func HasPermission(role Role, permission Permission) bool {
	permissions, exists := RolePermissions[role]
	if !exists {
		return false
	}

	for _, p := range permissions {
		if p == permission {
			return true
		}
	}

	return false
}
