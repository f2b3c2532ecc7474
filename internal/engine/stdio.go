package engine

import (
	"io"

	"github.com/Shopify/go-lua"
)

// bindStdout replaces print and io.write so script output goes to w instead
// of the process stdout. The io.stdout file handle is left alone.
func bindStdout(l *lua.State, w io.Writer) {
	l.Register("print", func(l *lua.State) int {
		n := l.Top()
		for i := 1; i <= n; i++ {
			s, ok := lua.ToStringMeta(l, i)
			if !ok {
				lua.Errorf(l, "'tostring' must return a string to 'print'")
			}
			l.Pop(1)
			if i > 1 {
				writeOrRaise(l, w, "\t")
			}
			writeOrRaise(l, w, s)
		}
		writeOrRaise(l, w, "\n")
		return 0
	})

	l.Global("io")
	l.PushGoFunction(func(l *lua.State) int {
		n := l.Top()
		for i := 1; i <= n; i++ {
			writeOrRaise(l, w, lua.CheckString(l, i))
		}
		l.Global("io")
		l.Field(-1, "stdout")
		return 1
	})
	l.SetField(-2, "write")
	l.Pop(1)
}

func writeOrRaise(l *lua.State, w io.Writer, s string) {
	if _, err := io.WriteString(w, s); err != nil {
		lua.Errorf(l, "write: %s", err.Error())
	}
}

// publishArgs exposes args as the global arg table, indexed from 0 like the
// standalone interpreter.
func publishArgs(l *lua.State, args []string) {
	l.CreateTable(len(args), 0)
	for i, a := range args {
		l.PushString(a)
		l.RawSetInt(-2, i)
	}
	l.SetGlobal("arg")
}
