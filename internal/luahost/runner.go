package luahost

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	lua "github.com/yuin/gopher-lua"
)

// NewState returns a Lua state with the standard libraries and the
// w3xparser module preloaded. The caller must Close it.
func NewState(ctx context.Context) *lua.LState {
	L := lua.NewState()
	L.SetContext(ctx)
	Preload(L)
	return L
}

// RunFile executes a script with the w3xparser module available. args are
// exposed to the script as the global table arg, with arg[0] set to the
// script path.
func RunFile(ctx context.Context, script string, args []string) error {
	L := NewState(ctx)
	defer L.Close()

	argv := L.CreateTable(len(args), 1)
	argv.RawSetInt(0, lua.LString(script))
	for i, a := range args {
		argv.RawSetInt(i+1, lua.LString(a))
	}
	L.SetGlobal("arg", argv)

	log.Debug().Str("script", script).Int("args", len(args)).Msg("Running Lua script")
	if err := L.DoFile(script); err != nil {
		return fmt.Errorf("run %s: %w", script, err)
	}
	return nil
}
