package user

type Permission string

const (
	// Attendance
	PermissionAttendanceViewAll Permission = "attendance.view_all"
	PermissionAttendanceManage  Permission = "attendance.manage"
	PermissionDailyCodeView     Permission = "attendance.daily_code"

	// Employee Management
	PermissionEmployeeViewAll Permission = "employee.view_all"
	PermissionEmployeeManage  Permission = "employee.manage"
	PermissionScheduleManage  Permission = "schedule.manage"

	// Settings
	PermissionSettingsView   Permission = "settings.view"
	PermissionSettingsManage Permission = "settings.manage"

	// Reports
	PermissionReportsView Permission = "reports.view"

	// User Management
	PermissionUserManage Permission = "user.manage"
)

// RolePermissions maps roles to their permissions
var RolePermissions = map[Role][]Permission{
	RoleAdmin: {
		PermissionAttendanceViewAll,
		PermissionAttendanceManage,
		PermissionDailyCodeView,
		PermissionEmployeeViewAll,
		PermissionEmployeeManage,
		PermissionScheduleManage,
		PermissionSettingsView,
		PermissionSettingsManage,
		PermissionReportsView,
		PermissionUserManage,
	},
	RoleHR: {
		PermissionAttendanceViewAll,
		PermissionAttendanceManage,
		PermissionDailyCodeView,
		PermissionEmployeeViewAll,
		PermissionEmployeeManage,
		PermissionScheduleManage,
		PermissionSettingsView,
		PermissionReportsView,
	},
	RoleManager: {
		PermissionAttendanceViewAll,
		PermissionDailyCodeView,
		PermissionEmployeeViewAll,
		PermissionSettingsView,
		PermissionReportsView,
	},
}

// HasPermission checks if a role has a specific permission
func HasPermission(role Role, permission Permission) bool {
	for _, p := range RolePermissions[role] {
		if p == permission {
			return true
		}
	}
	return false
}
