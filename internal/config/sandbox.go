package config

import (
	lua "github.com/yuin/gopher-lua"
)

// sandboxLibs are the only libraries opened in a provisioning VM. package,
// io, os, debug, channel and coroutine are never loaded, so neither the
// globals nor package.loaded can reach them.
var sandboxLibs = []struct {
	name string
	open lua.LGFunction
}{
	{lua.BaseLibName, lua.OpenBase},
	{lua.TabLibName, lua.OpenTable},
	{lua.StringLibName, lua.OpenString},
	{lua.MathLibName, lua.OpenMath},
}

// sandboxLuaVM strips the base library of functions that could:
// - Load external code (dofile, loadfile, load, loadstring)
// - Bypass the read-only platform table (rawset, setmetatable)
// - Inspect or tune the runtime (getfenv, collectgarbage)
func sandboxLuaVM(L *lua.LState) {
	for _, name := range []string{
		"os",
		"io",
		"package",
		"require",
		"module",
		"debug",
		"dofile",
		"loadfile",
		"load",
		"loadstring",
		"rawset",
		"rawget",
		"rawequal",
		"setmetatable",
		"getmetatable",
		"setfenv",
		"getfenv",
		"collectgarbage",
	} {
		L.SetGlobal(name, lua.LNil)
	}
}

// newSandboxedVM creates a Lua VM with only the declarative libraries open.
func newSandboxedVM() *lua.LState {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	for _, lib := range sandboxLibs {
		L.Push(L.NewFunction(lib.open))
		L.Push(lua.LString(lib.name))
		L.Call(1, 0)
	}
	sandboxLuaVM(L)
	return L
}
