package config

// Lua schema field names and globals
const (
	luaGlobalLogViewer   = "log_viewer"
	luaFieldRepo         = "repo"
	luaFieldVersion      = "version"
	luaFieldTimeout      = "timeout"
	luaFieldRetries      = "retries"
	luaFieldKeyring      = "keyring"
	luaFieldSkipDownload = "skip_download"
	luaFieldSkipBuild    = "skip_build"
	luaFieldToolchain    = "toolchain"
)

// knownFields guards against misspelled keys, which would otherwise be
// silently ignored.
var knownFields = map[string]bool{
	luaFieldRepo:         true,
	luaFieldVersion:      true,
	luaFieldTimeout:      true,
	luaFieldRetries:      true,
	luaFieldKeyring:      true,
	luaFieldSkipDownload: true,
	luaFieldSkipBuild:    true,
	luaFieldToolchain:    true,
}

const (
	// FileName is the provisioning config file name.
	FileName = "provision.lua"
	// AppName is the directory searched under the XDG config dirs.
	AppName = "smooai-log-viewer"

	// EnvPackageRoot overrides the package root the wrapper searches.
	EnvPackageRoot = "SMOOAI_LOG_VIEWER_PACKAGE_ROOT"
	// EnvLogLevel sets the wrapper's log level.
	EnvLogLevel = "SMOOAI_LOG_VIEWER_LOG"

	// DefaultLogLevel keeps the wrapper silent unless something is wrong.
	DefaultLogLevel = "warn"

	// maxRetries caps the retries field.
	maxRetries = 10
)
