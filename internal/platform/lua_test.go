package platform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	lua "github.com/yuin/gopher-lua"
)

func TestInjectPlatformTable_Fields(t *testing.T) {
	tests := []struct {
		id   Identifier
		code string
		want lua.LValue
	}{
		{Identifier{OSLinux, ArchX64}, `return platform.os`, lua.LString("linux")},
		{Identifier{OSLinux, ArchX64}, `return platform.arch`, lua.LString("x64")},
		{Identifier{OSLinux, ArchX64}, `return platform.key`, lua.LString("linux-x64")},
		{Identifier{OSLinux, ArchX64}, `return platform.is_linux`, lua.LTrue},
		{Identifier{OSLinux, ArchX64}, `return platform.is_windows`, lua.LFalse},
		{Identifier{OSLinux, ArchX64}, `return platform.is_x64`, lua.LTrue},
		{Identifier{OSDarwin, ArchARM64}, `return platform.is_macos`, lua.LTrue},
		{Identifier{OSDarwin, ArchARM64}, `return platform.is_arm64`, lua.LTrue},
		{Identifier{OSWindows, ArchX64}, `return platform.os`, lua.LString("win32")},
		{Identifier{OSWindows, ArchX64}, `return platform.is_windows`, lua.LTrue},
	}

	for _, tt := range tests {
		t.Run(tt.id.Key()+"_"+tt.code, func(t *testing.T) {
			L := lua.NewState()
			defer L.Close()

			require.NoError(t, InjectPlatformTable(L, tt.id))
			require.NoError(t, L.DoString(tt.code))

			got := L.Get(-1)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestInjectPlatformTable_When(t *testing.T) {
	L := lua.NewState()
	defer L.Close()

	require.NoError(t, InjectPlatformTable(L, Identifier{OSWindows, ArchARM64}))

	require.NoError(t, L.DoString(`return platform.when(platform.is_windows, "yes")`))
	assert.Equal(t, lua.LString("yes"), L.Get(-1))
	L.Pop(1)

	require.NoError(t, L.DoString(`return platform.when(platform.is_linux, "yes")`))
	assert.Equal(t, lua.LNil, L.Get(-1))
}

func TestInjectPlatformTable_ReadOnly(t *testing.T) {
	tests := []struct {
		name string
		code string
	}{
		{"modify_existing", `platform.os = "plan9"`},
		{"add_new", `platform.extra = true`},
		{"replace_metatable", `setmetatable(platform, {})`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			L := lua.NewState()
			defer L.Close()

			require.NoError(t, InjectPlatformTable(L, Identifier{OSLinux, ArchARM64}))
			assert.Error(t, L.DoString(tt.code))
		})
	}
}
