package ast

import "fmt"

// A ContractError describes a violated invariant of a Decl: a parameter
// count that disagrees with the function type or a second definition of a
// function's parameters, an enum, or a record.  These are bugs in the
// calling compiler phase, so ContractErrors are raised with panic and are
// never returned.
type ContractError struct {
	Op   string
	Kind Kind
	Name string
	Msg  string
}

func (e *ContractError) Error() string {
	name := e.Name
	if name == "" {
		name = "<anonymous>"
	}
	return fmt.Sprintf("%s: %s %s: %s", e.Op, e.Kind, name, e.Msg)
}

func violate(op string, d Decl, format string, args ...any) {
	panic(&ContractError{
		Op:   op,
		Kind: d.Kind(),
		Name: d.Name(),
		Msg:  fmt.Sprintf(format, args...),
	})
}
