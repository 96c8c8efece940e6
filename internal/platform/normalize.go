package platform

import (
	"strings"
)

// Tables holds the lookup data Identify maps raw strings through.
// Keys are lowercase.
type Tables struct {
	OS   map[string]OS
	Arch map[string]Arch
}

// DefaultTables returns fresh copies of the supported mappings.
func DefaultTables() Tables {
	return Tables{
		OS: map[string]OS{
			"darwin":  OSDarwin,
			"linux":   OSLinux,
			"windows": OSWindows,
		},
		Arch: map[string]Arch{
			"x86_64":  ArchX64,
			"amd64":   ArchX64,
			"arm64":   ArchARM64,
			"aarch64": ArchARM64,
		},
	}
}

// Identify maps raw host strings to a canonical Identifier.
// Matching is case-insensitive; anything outside the tables is an
// *UnsupportedError carrying both raw values.
func Identify(rawOS, rawArch string, tables Tables) (Identifier, error) {
	osName, osOK := tables.OS[normalize(rawOS)]
	archName, archOK := tables.Arch[normalize(rawArch)]

	if !osOK || !archOK {
		return Identifier{}, &UnsupportedError{OS: rawOS, Arch: rawArch}
	}

	return Identifier{OS: osName, Arch: archName}, nil
}

// normalize lowercases and trims a raw host string.
func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
