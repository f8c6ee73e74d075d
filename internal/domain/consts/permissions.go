package consts

// Permissions for files and directories ytxtract creates.
const (
	PermsGenericDir = 0o755
	PermsMediaFile  = 0o644
	PermsLogFile    = 0o644

	// Owner only
	PermsAppDataDir = 0o750
	PermsCookieFile = 0o600
	PermsDataFile   = 0o600
)
