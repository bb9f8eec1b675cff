// Package scripting embeds a Lua interpreter and exposes the runtime
// shell to scripts through a `shell` global.
//
// Evaluation is an owner-thread operation: the interpreter state is not
// internally synchronized, so callers on other goroutines post their
// Eval through the main loop.
package scripting

import (
	"fmt"
	"strings"

	"github.com/Shopify/go-lua"
)

// Runtime is the surface the shell exposes to scripts.
type Runtime interface {
	// Arguments returns the pass-through invocation arguments.
	Arguments() []string
	// IsMainThread reports whether evaluation is on the owner thread.
	IsMainThread() bool
	// ConfigString reads a string value from the app config.
	ConfigString(key, def string) string
	// Quit requests an orderly shutdown.
	Quit()
}

// Console wraps a Lua state with the shell bindings registered.
type Console struct {
	state *lua.State
	rt    Runtime
}

// New creates a Console bound to rt with the Lua standard libraries and
// the `shell` table installed.
func New(rt Runtime) *Console {
	state := lua.NewState()
	lua.OpenLibraries(state)

	c := &Console{
		state: state,
		rt:    rt,
	}
	c.registerShellTable()
	return c
}

// registerShellTable installs the `shell` global.
func (c *Console) registerShellTable() {
	shellFunctions := []lua.RegistryFunction{
		{Name: "args", Function: c.luaArgs},
		{Name: "is_main_thread", Function: c.luaIsMainThread},
		{Name: "config", Function: c.luaConfig},
		{Name: "quit", Function: c.luaQuit},
	}

	c.state.NewTable()
	lua.SetFunctions(c.state, shellFunctions, 0)
	c.state.SetGlobal("shell")
}

// luaArgs pushes the pass-through arguments as an array table.
func (c *Console) luaArgs(state *lua.State) int {
	args := c.rt.Arguments()
	state.NewTable()
	for i, arg := range args {
		state.PushString(arg)
		state.RawSetInt(-2, i+1)
	}
	return 1
}

func (c *Console) luaIsMainThread(state *lua.State) int {
	state.PushBoolean(c.rt.IsMainThread())
	return 1
}

// luaConfig reads shell.config(key [, default]) from the app config.
func (c *Console) luaConfig(state *lua.State) int {
	key := lua.CheckString(state, 1)
	def := lua.OptString(state, 2, "")
	state.PushString(c.rt.ConfigString(key, def))
	return 1
}

func (c *Console) luaQuit(state *lua.State) int {
	c.rt.Quit()
	return 0
}

// Eval evaluates a single console line and returns the printable result.
// Lines are first tried as expressions (`return <line>`) so bare
// expressions echo their value, then as statements.
func (c *Console) Eval(line string) (string, error) {
	top := c.state.Top()
	defer c.state.SetTop(top)

	if err := lua.LoadString(c.state, "return "+line); err != nil {
		c.state.SetTop(top)
		if err := lua.LoadString(c.state, line); err != nil {
			return "", fmt.Errorf("parse error: %s", luaErrorText(c.state, top))
		}
	}

	if err := c.state.ProtectedCall(0, lua.MultipleReturns, 0); err != nil {
		return "", fmt.Errorf("runtime error: %s", luaErrorText(c.state, top))
	}

	var results []string
	for i := top + 1; i <= c.state.Top(); i++ {
		results = append(results, stringify(c.state, i))
	}
	return strings.Join(results, "\t"), nil
}

// RunFile loads and runs a script file.
func (c *Console) RunFile(path string) error {
	top := c.state.Top()
	defer c.state.SetTop(top)

	if err := lua.LoadFile(c.state, path, ""); err != nil {
		return fmt.Errorf("failed to load script %s: %s", path, luaErrorText(c.state, top))
	}
	if err := c.state.ProtectedCall(0, 0, 0); err != nil {
		return fmt.Errorf("script %s failed: %s", path, luaErrorText(c.state, top))
	}
	return nil
}

// luaErrorText pops the error message the interpreter left on the stack.
func luaErrorText(state *lua.State, top int) string {
	msg := "unknown error"
	if state.Top() > top {
		if s, ok := state.ToString(-1); ok {
			msg = s
		}
	}
	state.SetTop(top)
	return msg
}

// stringify renders a stack value for console output.
func stringify(state *lua.State, index int) string {
	switch state.TypeOf(index) {
	case lua.TypeNil:
		return "nil"
	case lua.TypeBoolean:
		return fmt.Sprintf("%t", state.ToBoolean(index))
	default:
		if s, ok := state.ToString(index); ok {
			return s
		}
		return lua.TypeNameOf(state, index)
	}
}
