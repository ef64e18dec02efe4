package loader

import (
	"bytes"
	"fmt"
	"os"
	"sync"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/buftab/internal/group"
	"github.com/dshills/buftab/internal/host"
	"github.com/dshills/buftab/internal/style"
)

// LuaLoader evaluates a Lua configuration file. The file must return a
// table; the table becomes the user configuration map. A "groups"
// field may declare buffer groups whose matcher functions are bridged
// to Go predicates.
//
// gopher-lua's LState is not goroutine-safe, so the loader guards all
// Lua execution (loading and predicate calls) with a mutex. Predicates
// returned by Groups stay valid until Close.
type LuaLoader struct {
	fs   FileSystem
	path string

	mu     sync.Mutex
	state  *lua.LState
	groups []group.Group
}

// NewLuaLoader creates a new Lua loader for the given path.
func NewLuaLoader(path string) *LuaLoader {
	return &LuaLoader{
		fs:   DefaultFS(),
		path: path,
	}
}

// NewLuaLoaderWithFS creates a Lua loader with a custom file system.
func NewLuaLoaderWithFS(fs FileSystem, path string) *LuaLoader {
	return &LuaLoader{
		fs:   fs,
		path: path,
	}
}

// Load evaluates the configuration file and returns the resulting
// configuration map. Declared groups are extracted and available via
// Groups; the "groups" key is stripped from the returned map since
// predicate functions have no tree representation.
func (l *LuaLoader) Load() (map[string]any, error) {
	data, err := l.fs.ReadFile(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil // File doesn't exist, not an error
		}
		return nil, fmt.Errorf("reading config file %s: %w", l.path, err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	// Reloading replaces the state wholesale; old predicates go stale
	// deliberately rather than running against new code.
	if l.state != nil {
		l.state.Close()
		l.state = nil
		l.groups = nil
	}

	L, err := newSandboxedState()
	if err != nil {
		return nil, err
	}

	fn, err := L.Load(bytes.NewReader(data), l.path)
	if err != nil {
		L.Close()
		return nil, &ParseError{Path: l.path, Message: err.Error(), Err: err}
	}

	L.Push(fn)
	if err := L.PCall(0, 1, nil); err != nil {
		L.Close()
		return nil, &ParseError{Path: l.path, Message: err.Error(), Err: err}
	}

	ret := L.Get(-1)
	L.Pop(1)

	tbl, ok := ret.(*lua.LTable)
	if !ok {
		L.Close()
		return nil, &ParseError{Path: l.path, Message: "config file must return a table"}
	}

	l.state = L
	l.groups = l.extractGroups(tbl)

	config, _ := luaToGo(tbl, make(map[*lua.LTable]bool)).(map[string]any)
	delete(config, "groups")

	return config, nil
}

// Groups returns the buffer groups declared by the config file, in
// declaration order.
func (l *LuaLoader) Groups() []group.Group {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.groups
}

// Close releases the Lua state. Predicates from Groups return false
// afterwards.
func (l *LuaLoader) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.state != nil {
		l.state.Close()
		l.state = nil
	}
	l.groups = nil
}

// newSandboxedState creates an LState with only the safe libraries
// loaded. Config files get base, table, string, and math; no io, no
// os.
func newSandboxedState() (*lua.LState, error) {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})

	libs := []struct {
		name string
		open lua.LGFunction
	}{
		{lua.LoadLibName, lua.OpenPackage},
		{lua.BaseLibName, lua.OpenBase},
		{lua.TabLibName, lua.OpenTable},
		{lua.StringLibName, lua.OpenString},
		{lua.MathLibName, lua.OpenMath},
	}
	for _, lib := range libs {
		if err := L.CallByParam(lua.P{
			Fn:      L.NewFunction(lib.open),
			NRet:    0,
			Protect: true,
		}, lua.LString(lib.name)); err != nil {
			L.Close()
			return nil, fmt.Errorf("opening lua library %s: %w", lib.name, err)
		}
	}

	return L, nil
}

// extractGroups reads cfg.groups.items into group declarations. Must
// hold the mutex (called from Load).
func (l *LuaLoader) extractGroups(cfg *lua.LTable) []group.Group {
	groupsTbl, ok := cfg.RawGetString("groups").(*lua.LTable)
	if !ok {
		return nil
	}
	items, ok := groupsTbl.RawGetString("items").(*lua.LTable)
	if !ok {
		return nil
	}

	var out []group.Group
	items.ForEach(func(_, v lua.LValue) {
		item, ok := v.(*lua.LTable)
		if !ok {
			return
		}

		g := group.Group{}
		if name, ok := item.RawGetString("name").(lua.LString); ok {
			g.Name = string(name)
		}
		if g.Name == "" {
			return
		}
		if prio, ok := item.RawGetString("priority").(lua.LNumber); ok {
			g.Priority = int(prio)
		}
		if icon, ok := item.RawGetString("icon").(lua.LString); ok {
			g.Icon = string(icon)
		}
		if hl, ok := item.RawGetString("highlight").(*lua.LTable); ok {
			g.Highlight = highlightFromTable(hl)
		}
		if fn, ok := item.RawGetString("matcher").(*lua.LFunction); ok {
			g.Matches = l.predicate(fn)
		}

		out = append(out, g)
	})

	return out
}

// highlightFromTable parses a {fg=..., bg=..., sp=...} table into a
// style override. Invalid colors are left default.
func highlightFromTable(tbl *lua.LTable) *style.Style {
	s := style.DefaultStyle()

	set := func(key string, dst *style.Color) {
		hex, ok := tbl.RawGetString(key).(lua.LString)
		if !ok {
			return
		}
		if c, err := style.ColorFromHex(string(hex)); err == nil {
			*dst = c
		}
	}
	set("fg", &s.Foreground)
	set("bg", &s.Background)
	set("sp", &s.Underline)

	if b, ok := tbl.RawGetString("bold").(lua.LBool); ok && bool(b) {
		s.Attributes = s.Attributes.With(style.AttrBold)
	}
	if b, ok := tbl.RawGetString("italic").(lua.LBool); ok && bool(b) {
		s.Attributes = s.Attributes.With(style.AttrItalic)
	}

	return &s
}

// predicate bridges a Lua matcher function to a Go predicate. The
// buffer is passed as a table {id, name, path, modified}. Errors and
// non-boolean returns count as "no match".
func (l *LuaLoader) predicate(fn *lua.LFunction) group.Predicate {
	return func(b host.Buffer) bool {
		l.mu.Lock()
		defer l.mu.Unlock()

		if l.state == nil {
			return false
		}

		arg := l.state.NewTable()
		arg.RawSetString("id", lua.LNumber(b.ID))
		arg.RawSetString("name", lua.LString(b.Name))
		arg.RawSetString("path", lua.LString(b.Path))
		arg.RawSetString("modified", lua.LBool(b.Modified))

		if err := l.state.CallByParam(lua.P{
			Fn:      fn,
			NRet:    1,
			Protect: true,
		}, arg); err != nil {
			return false
		}

		ret := l.state.Get(-1)
		l.state.Pop(1)
		return lua.LVAsBool(ret)
	}
}

// luaToGo converts a Lua value to its Go configuration representation,
// tracking visited tables to break circular references. Functions and
// userdata convert to nil.
func luaToGo(lv lua.LValue, visited map[*lua.LTable]bool) any {
	switch v := lv.(type) {
	case lua.LBool:
		return bool(v)
	case lua.LNumber:
		// Preserve integers; Lua numbers are floats.
		f := float64(v)
		if f == float64(int64(f)) {
			return int64(f)
		}
		return f
	case lua.LString:
		return string(v)
	case *lua.LTable:
		if visited[v] {
			return nil // Break circular reference
		}
		visited[v] = true
		return tableToGo(v, visited)
	default:
		return nil
	}
}

// tableToGo converts a Lua table to either a Go map or slice.
func tableToGo(t *lua.LTable, visited map[*lua.LTable]bool) any {
	// A table with contiguous integer keys from 1 is an array.
	maxN := 0
	count := 0
	isArray := true
	t.ForEach(func(k, _ lua.LValue) {
		count++
		kn, ok := k.(lua.LNumber)
		if !ok || float64(kn) != float64(int(kn)) || int(kn) < 1 {
			isArray = false
			return
		}
		if int(kn) > maxN {
			maxN = int(kn)
		}
	})
	if isArray && maxN > 0 && count == maxN {
		arr := make([]any, maxN)
		for i := 1; i <= maxN; i++ {
			arr[i-1] = luaToGo(t.RawGetInt(i), visited)
		}
		return arr
	}

	m := make(map[string]any, count)
	t.ForEach(func(k, v lua.LValue) {
		key, ok := k.(lua.LString)
		if !ok {
			return
		}
		m[string(key)] = luaToGo(v, visited)
	})
	return m
}
