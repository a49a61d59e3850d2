package lua

import (
	"unicode/utf8"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/edittree/internal/engine/edittree"
)

const treeTypeName = "edittree.tree"

// registerTreeModule installs the tree metatable and the global edittree
// table.
func registerTreeModule(L *lua.LState, threshold int) {
	mt := L.NewTypeMetatable(treeTypeName)
	L.SetField(mt, "__index", L.SetFuncs(L.NewTable(), treeMethods))
	L.SetField(mt, "__tostring", L.NewFunction(treeToString))
	L.SetField(mt, "__len", L.NewFunction(treeSize))

	mod := L.NewTable()
	L.SetField(mod, "new", L.NewFunction(func(L *lua.LState) int {
		s := L.OptString(1, "")
		L.Push(newTreeValue(L, edittree.FromString(s, edittree.WithParallelBuild(threshold))))
		return 1
	}))
	L.SetGlobal("edittree", mod)
}

var treeMethods = map[string]lua.LGFunction{
	"insert":       treeInsert,
	"append":       treeAppend,
	"delete":       treeDelete,
	"delete_range": treeDeleteRange,
	"get":          treeGet,
	"get_range":    treeGetRange,
	"size":         treeSize,
	"height":       treeHeight,
	"split":        treeSplit,
	"concat":       treeConcat,
	"find":         treeFind,
	"rotations":    treeRotations,
	"debug":        treeDebug,
	"check":        treeCheck,
	"chars":        treeChars,
}

func newTreeValue(L *lua.LState, t *edittree.Tree) *lua.LUserData {
	ud := L.NewUserData()
	ud.Value = t
	L.SetMetatable(ud, L.GetTypeMetatable(treeTypeName))
	return ud
}

func checkTree(L *lua.LState, n int) *edittree.Tree {
	ud := L.CheckUserData(n)
	if t, ok := ud.Value.(*edittree.Tree); ok {
		return t
	}
	L.ArgError(n, "edittree tree expected")
	return nil
}

// checkChar reads a one-character string argument.
func checkChar(L *lua.LState, n int) rune {
	s := L.CheckString(n)
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 || size != len(s) {
		L.ArgError(n, "single character expected")
	}
	return r
}

func raise(L *lua.LState, err error) {
	L.RaiseError("%s", err.Error())
}

func treeInsert(L *lua.LState) int {
	t := checkTree(L, 1)
	if err := t.Insert(L.CheckInt(2), checkChar(L, 3)); err != nil {
		raise(L, err)
	}
	return 0
}

func treeAppend(L *lua.LState) int {
	t := checkTree(L, 1)
	t.Append(checkChar(L, 2))
	return 0
}

func treeDelete(L *lua.LState) int {
	t := checkTree(L, 1)
	r, err := t.Delete(L.CheckInt(2))
	if err != nil {
		raise(L, err)
	}
	L.Push(lua.LString(string(r)))
	return 1
}

func treeDeleteRange(L *lua.LState) int {
	t := checkTree(L, 1)
	removed, err := t.DeleteRange(L.CheckInt(2), L.CheckInt(3))
	if err != nil {
		raise(L, err)
	}
	L.Push(newTreeValue(L, removed))
	return 1
}

func treeGet(L *lua.LState) int {
	t := checkTree(L, 1)
	r, err := t.Get(L.CheckInt(2))
	if err != nil {
		raise(L, err)
	}
	L.Push(lua.LString(string(r)))
	return 1
}

func treeGetRange(L *lua.LState) int {
	t := checkTree(L, 1)
	s, err := t.GetRange(L.CheckInt(2), L.CheckInt(3))
	if err != nil {
		raise(L, err)
	}
	L.Push(lua.LString(s))
	return 1
}

func treeSize(L *lua.LState) int {
	L.Push(lua.LNumber(checkTree(L, 1).Size()))
	return 1
}

func treeHeight(L *lua.LState) int {
	L.Push(lua.LNumber(checkTree(L, 1).Height()))
	return 1
}

func treeSplit(L *lua.LState) int {
	t := checkTree(L, 1)
	right, err := t.Split(L.CheckInt(2))
	if err != nil {
		raise(L, err)
	}
	L.Push(newTreeValue(L, right))
	return 1
}

func treeConcat(L *lua.LState) int {
	t := checkTree(L, 1)
	if err := t.Concatenate(checkTree(L, 2)); err != nil {
		raise(L, err)
	}
	return 0
}

func treeFind(L *lua.LState) int {
	t := checkTree(L, 1)
	L.Push(lua.LNumber(t.FindFrom(L.CheckString(2), L.OptInt(3, 0))))
	return 1
}

func treeRotations(L *lua.LState) int {
	L.Push(lua.LNumber(checkTree(L, 1).Rotations()))
	return 1
}

func treeDebug(L *lua.LState) int {
	L.Push(lua.LString(checkTree(L, 1).DebugString()))
	return 1
}

// treeCheck returns true, or false and the first invariant violation.
func treeCheck(L *lua.LState) int {
	if err := checkTree(L, 1).Check(); err != nil {
		L.Push(lua.LFalse)
		L.Push(lua.LString(err.Error()))
		return 2
	}
	L.Push(lua.LTrue)
	return 1
}

// treeChars returns a generic-for iterator yielding position and character.
// Changing the tree's size during the loop raises an error.
func treeChars(L *lua.LState) int {
	it := checkTree(L, 1).Iterator()
	pos := 0
	L.Push(L.NewFunction(func(L *lua.LState) int {
		if !it.HasNext() {
			L.Push(lua.LNil)
			return 1
		}
		r, err := it.Next()
		if err != nil {
			raise(L, err)
		}
		L.Push(lua.LNumber(pos))
		L.Push(lua.LString(string(r)))
		pos++
		return 2
	}))
	return 1
}

func treeToString(L *lua.LState) int {
	L.Push(lua.LString(checkTree(L, 1).String()))
	return 1
}
