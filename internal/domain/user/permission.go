package user

import "slices"

type Permission string

const (
	// Meeting rooms
	PermissionRoomView   Permission = "room.view"
	PermissionRoomManage Permission = "room.manage"

	// Meetings
	PermissionMeetingCreate    Permission = "meeting.create"
	PermissionMeetingManageAll Permission = "meeting.manage_all"
	PermissionMeetingAudit     Permission = "meeting.audit"

	// Overtime
	PermissionOvertimeCreate  Permission = "overtime.create"
	PermissionOvertimeViewAll Permission = "overtime.view_all"
	PermissionOvertimeApprove Permission = "overtime.approve"

	// Reports
	PermissionReportsView Permission = "reports.view"
)

// RolePermissions maps roles to their permissions
var RolePermissions = map[Role][]Permission{
	RoleOwner: {
		// Owner has all permissions
		PermissionRoomView,
		PermissionRoomManage,
		PermissionMeetingCreate,
		PermissionMeetingManageAll,
		PermissionMeetingAudit,
		PermissionOvertimeCreate,
		PermissionOvertimeViewAll,
		PermissionOvertimeApprove,
		PermissionReportsView,
	},
	RoleManager: {
		PermissionRoomView,
		PermissionRoomManage,
		PermissionMeetingCreate,
		PermissionMeetingManageAll,
		PermissionMeetingAudit,
		PermissionOvertimeCreate,
		PermissionOvertimeViewAll,
		PermissionOvertimeApprove,
		PermissionReportsView,
	},
	RoleEmployee: {
		PermissionRoomView,
		PermissionMeetingCreate,
		PermissionOvertimeCreate,
	},
	RolePending: {
		// Pending role has no permissions
	},
}

// HasPermission checks if a role has a specific permission
func HasPermission(role Role, permission Permission) bool {
	permissions, exists := RolePermissions[role]
	if !exists {
		return false
	}
	return slices.Contains(permissions, permission)
}
