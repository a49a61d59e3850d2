// Package lua hosts sandboxed Lua scripts that drive edittree trees.
//
// A State opens only the base, table, string and math libraries, removes
// the functions that load code from disk or strings, and installs the
// global module edittree:
//
//	local t = edittree.new("abc")
//	t:insert(1, "x")          -- positions are 0-based
//	print(t, t:size(), t:height(), t:debug())
//	local right = t:split(2)
//	t:concat(right)
//	for i, ch in t:chars() do ... end
//
// Tree errors such as out-of-range positions raise Lua errors.
//
// gopher-lua's LState is not goroutine-safe; State serializes its methods
// with a mutex.
package lua
