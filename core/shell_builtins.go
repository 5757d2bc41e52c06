package core

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
)

// AllBuiltins holds a list of all registered shell builtins
var AllBuiltins = make(map[string]ShellBuiltin)

// ErrInvalidArgument is reported by builtins called with missing arguments.
var ErrInvalidArgument = errors.New("invalid argument")

// ShellBuiltin is a command that runs inside the shell process rather than as
// a child. Main returns the status of the command.
type ShellBuiltin interface {
	Main(st *State, stderr io.Writer, args []string) int
}

type ShellBuiltinFunc func(st *State, stderr io.Writer, args []string) int

func (f ShellBuiltinFunc) Main(st *State, stderr io.Writer, args []string) int {
	return f(st, stderr, args)
}

var _ ShellBuiltin = (ShellBuiltinFunc)(nil)

// Cd is the cd shell builtin, it changes the working directory of the shell
// and returns -1 if that fails.
func Cd(st *State, stderr io.Writer, args []string) int {
	if len(args) < 2 {
		fmt.Fprintf(stderr, "%s: %v\n", args[0], ErrInvalidArgument)
		return -1
	}

	// Extra arguments are ignored.
	if err := os.Chdir(args[1]); err != nil {
		fmt.Fprintf(stderr, "%s: %v\n", args[0], err)
		return -1
	}
	return 0
}

// Exit quits the shell
func Exit(st *State, stderr io.Writer, args []string) int {
	st.Continue = false
	return 0
}

// BuiltinNames returns the sorted names of the builtins in the registry.
func BuiltinNames(builtins map[string]ShellBuiltin) []string {
	var names []string
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// runBuiltin resets the status and continuation flag, runs the builtin then
// stores its status.
func runBuiltin(st *State, stderr io.Writer, builtin ShellBuiltin, args []string) {
	st.LastStatus = 0
	st.Continue = true

	st.LastStatus = builtin.Main(st, stderr, args)
}

func init() {
	AllBuiltins["cd"] = ShellBuiltinFunc(Cd)
	AllBuiltins["exit"] = ShellBuiltinFunc(Exit)
}
