package python

import "fmt"

// UndefinedSymbolError reports a name that cannot be resolved in any
// applicable scope, including failed nonlocal and global declarations.
type UndefinedSymbolError struct {
	Name   string
	Module string
	Line   int
}

func (e *UndefinedSymbolError) Error() string {
	return fmt.Sprintf("symbol %q not defined in module %s (line %d)", e.Name, e.Module, e.Line)
}
