// Package config loads the provisioning configuration and resolves the
// environment the launcher runs in.
//
// # Provisioning config
//
// bundle-log-viewer reads an optional provision.lua, evaluated with
// gopher-lua in a sandbox:
//
//	log_viewer = {
//	  repo = "SmooAI/logger",
//	  version = "v1.4.0",
//	  timeout = 60,
//	  retries = 2,
//	  keyring = "keys/release.asc",
//	  skip_download = platform.when(platform.is_windows, true),
//	  toolchain = "cargo",
//	}
//
// Every field is optional. A script that defines no log_viewer table, or no
// file at all, yields Defaults(). Unknown fields are rejected.
//
// The read-only "platform" global carries the host identifier (os, arch,
// key, is_linux, is_macos, is_windows, is_x64, is_arm64, when). when(cond,
// value) returns nil for a false condition, and nil fields keep their
// defaults.
//
// # Sandbox
//
// The os, io and debug libraries are removed, along with module loading
// (require, dofile, loadfile, load, loadstring) and the raw/metatable
// accessors that could modify the platform table. string, table and math
// remain.
//
// # Lookup
//
// Find checks an explicit --config path, then
// <project-root>/log-viewer/provision.lua, then
// smooai-log-viewer/provision.lua under the XDG config directories.
//
// # Environment
//
// SMOOAI_LOG_VIEWER_PACKAGE_ROOT overrides the package root the wrapper
// searches, and SMOOAI_LOG_VIEWER_LOG sets its log level. The host platform
// is never taken from the environment.
package config
