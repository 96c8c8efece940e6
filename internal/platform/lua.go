package platform

import (
	lua "github.com/yuin/gopher-lua"
)

// InjectPlatformTable creates a read-only platform table and injects it into the Lua state as a global.
// This should be called before loading any user configuration code.
func InjectPlatformTable(L *lua.LState, id Identifier) error {
	platformTable := L.NewTable()

	L.SetField(platformTable, "os", lua.LString(id.OS))
	L.SetField(platformTable, "arch", lua.LString(id.Arch))
	L.SetField(platformTable, "key", lua.LString(id.Key()))

	L.SetField(platformTable, "is_linux", lua.LBool(id.IsLinux()))
	L.SetField(platformTable, "is_macos", lua.LBool(id.IsMacOS()))
	L.SetField(platformTable, "is_windows", lua.LBool(id.IsWindows()))
	L.SetField(platformTable, "is_x64", lua.LBool(id.IsX64()))
	L.SetField(platformTable, "is_arm64", lua.LBool(id.IsARM64()))

	// when(condition, value) returns value if condition is true, nil otherwise
	whenFunc := L.NewFunction(func(L *lua.LState) int {
		cond := L.CheckBool(1)
		value := L.Get(2)
		if cond {
			L.Push(value)
		} else {
			L.Push(lua.LNil)
		}
		return 1
	})
	L.SetField(platformTable, "when", whenFunc)

	L.SetGlobal("platform", makeReadOnly(L, platformTable))

	return nil
}

// makeReadOnly wraps table in an empty proxy whose metatable redirects reads
// to table and rejects every write.
func makeReadOnly(L *lua.LState, table *lua.LTable) *lua.LTable {
	mt := L.NewTable()

	L.SetField(mt, "__index", table)

	L.SetField(mt, "__newindex", L.NewFunction(func(L *lua.LState) int {
		L.RaiseError("platform table is read-only and cannot be modified")
		return 0
	}))

	// Prevent changing the metatable itself
	L.SetField(mt, "__metatable", lua.LString("protected"))

	proxy := L.NewTable()
	L.SetMetatable(proxy, mt)

	return proxy
}
