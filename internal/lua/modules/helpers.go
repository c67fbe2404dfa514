package modules

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"
)

// LuaToGo converts a Lua value to a Go value. Tables with only positive
// integer keys become slices, other tables become maps.
func LuaToGo(v lua.LValue) any {
	switch val := v.(type) {
	case lua.LString:
		return string(val)
	case lua.LNumber:
		return float64(val)
	case lua.LBool:
		return bool(val)
	case *lua.LNilType:
		return nil
	case *lua.LTable:
		if n := arrayLen(val); n > 0 {
			arr := make([]any, n)
			val.ForEach(func(k, v lua.LValue) {
				arr[int(k.(lua.LNumber))-1] = LuaToGo(v)
			})
			return arr
		}
		obj := make(map[string]any)
		val.ForEach(func(k, v lua.LValue) {
			obj[lua.LVAsString(k)] = LuaToGo(v)
		})
		return obj
	default:
		return v.String()
	}
}

// arrayLen returns the largest index of a table keyed only by positive
// integers, or 0 when the table is not such an array.
func arrayLen(tbl *lua.LTable) int {
	maxIdx, isArray := 0, true
	tbl.ForEach(func(k, _ lua.LValue) {
		num, ok := k.(lua.LNumber)
		if !ok || num < 1 || float64(num) != float64(int(num)) {
			isArray = false
			return
		}
		maxIdx = max(maxIdx, int(num))
	})
	if !isArray {
		return 0
	}
	return maxIdx
}

// GoToLuaValue converts a Go value to a Lua value
func GoToLuaValue(L *lua.LState, v any) lua.LValue {
	switch val := v.(type) {
	case nil:
		return lua.LNil
	case bool:
		return lua.LBool(val)
	case int:
		return lua.LNumber(val)
	case int64:
		return lua.LNumber(val)
	case float64:
		return lua.LNumber(val)
	case string:
		return lua.LString(val)
	case []string:
		tbl := L.CreateTable(len(val), 0)
		for _, s := range val {
			tbl.Append(lua.LString(s))
		}
		return tbl
	case []any:
		tbl := L.CreateTable(len(val), 0)
		for i, item := range val {
			tbl.RawSetInt(i+1, GoToLuaValue(L, item))
		}
		return tbl
	case map[string]any:
		tbl := L.CreateTable(0, len(val))
		for k, item := range val {
			tbl.RawSetString(k, GoToLuaValue(L, item))
		}
		return tbl
	default:
		return lua.LString(fmt.Sprintf("%v", v))
	}
}
