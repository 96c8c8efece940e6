package platform

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdentify_Supported(t *testing.T) {
	tests := []struct {
		rawOS   string
		rawArch string
		want    Identifier
	}{
		{"darwin", "arm64", Identifier{OSDarwin, ArchARM64}},
		{"Darwin", "arm64", Identifier{OSDarwin, ArchARM64}},
		{"darwin", "x86_64", Identifier{OSDarwin, ArchX64}},
		{"linux", "x86_64", Identifier{OSLinux, ArchX64}},
		{"Linux", "amd64", Identifier{OSLinux, ArchX64}},
		{"linux", "aarch64", Identifier{OSLinux, ArchARM64}},
		{"LINUX", "AARCH64", Identifier{OSLinux, ArchARM64}},
		{"windows", "AMD64", Identifier{OSWindows, ArchX64}},
		{"Windows", "arm64", Identifier{OSWindows, ArchARM64}},
		{" linux ", " x86_64\n", Identifier{OSLinux, ArchX64}},
	}

	for _, tt := range tests {
		t.Run(tt.rawOS+"_"+tt.rawArch, func(t *testing.T) {
			got, err := Identify(tt.rawOS, tt.rawArch, DefaultTables())
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIdentify_Unsupported(t *testing.T) {
	tests := []struct {
		name    string
		rawOS   string
		rawArch string
	}{
		{"unknown_os", "freebsd", "amd64"},
		{"unknown_arch", "linux", "mips"},
		{"both_unknown", "plan9", "386"},
		{"empty", "", ""},
		{"win32_is_not_a_raw_value", "win32", "x64"},
		{"armv7", "linux", "armv7l"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Identify(tt.rawOS, tt.rawArch, DefaultTables())
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrUnsupported))

			var uerr *UnsupportedError
			require.True(t, errors.As(err, &uerr))
			assert.Equal(t, tt.rawOS, uerr.OS)
			assert.Equal(t, tt.rawArch, uerr.Arch)
			assert.Contains(t, err.Error(), tt.rawOS+"/"+tt.rawArch)
		})
	}
}

func TestIdentify_CustomTables(t *testing.T) {
	tables := Tables{
		OS:   map[string]OS{"freebsd": OSLinux},
		Arch: map[string]Arch{"riscv64": ArchARM64},
	}

	got, err := Identify("FreeBSD", "riscv64", tables)
	require.NoError(t, err)
	assert.Equal(t, Identifier{OSLinux, ArchARM64}, got)

	_, err = Identify("linux", "riscv64", tables)
	assert.ErrorIs(t, err, ErrUnsupported)
}

func TestDefaultTables_ReturnsCopies(t *testing.T) {
	tables := DefaultTables()
	tables.OS["freebsd"] = OSLinux

	_, err := Identify("freebsd", "amd64", DefaultTables())
	assert.ErrorIs(t, err, ErrUnsupported)
}

func TestIdentifier_Helpers(t *testing.T) {
	win := Identifier{OSWindows, ArchX64}
	assert.Equal(t, "win32-x64", win.Key())
	assert.Equal(t, "win32/x64", win.String())
	assert.Equal(t, ".exe", win.ExecutableSuffix())
	assert.True(t, win.IsWindows())
	assert.True(t, win.IsX64())
	assert.False(t, win.IsARM64())

	mac := Identifier{OSDarwin, ArchARM64}
	assert.Equal(t, "darwin-arm64", mac.Key())
	assert.Equal(t, "", mac.ExecutableSuffix())
	assert.True(t, mac.IsMacOS())
	assert.False(t, mac.IsLinux())
}
