package llvm

import (
	"fmt"
	"io"
	"sort"
	"strings"
)

// DumpScopes writes the open scopes outermost first, one symbol per line.
// It is meant for debugging a pass from inside a failing test or tracer hook.
func (e *Emitter) DumpScopes(w io.Writer) error {
	var sb strings.Builder
	for depth, s := range e.scopes {
		indent := strings.Repeat("  ", depth)
		fmt.Fprintf(&sb, "%sscope %d (frame %d) {\n", indent, s.id, s.frame)
		names := make([]string, 0, len(s.symbols))
		for name := range s.symbols {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			sym := s.symbols[name]
			mut := ""
			if sym.Mutable {
				mut = " mut"
			}
			fmt.Fprintf(&sb, "%s  %s%s: %s\n", indent, name, mut, sym.Value.Type().String())
		}
	}
	for depth := len(e.scopes) - 1; depth >= 0; depth-- {
		sb.WriteString(strings.Repeat("  ", depth) + "}\n")
	}
	_, err := io.WriteString(w, sb.String())
	return err
}
