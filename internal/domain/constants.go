package domain

// Roles seeded for a fresh install. Privileged roles are configurable, see config.LocationConfig.
const (
	RoleAdministrator   = "Administrator"
	RoleSystemManager   = "System Manager"
	RoleHRManager       = "HR Manager"
	RoleLocationManager = "Location Manager"
	RoleEmployee        = "Employee"
)

// GuestUser never shows up in trackable user lists.
const GuestUser = "Guest"

// Casbin object/action pairs.
const (
	ObjectLocationLog = "user_location_log"
	ActionViewAll     = "view_all"
)

const (
	DefaultListLimit    = 50
	DefaultHistoryLimit = 100
)

// Device info field caps (characters).
const (
	MaxBrowserLen   = 50
	MaxPlatformLen  = 30
	MaxLanguageLen  = 10
	MaxTimestampLen = 40
	MaxRawDeviceLen = 200
	MaxAddressLen   = 500
)
