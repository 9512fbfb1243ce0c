package ds

import (
	"fmt"
)

// ErrUnreachableCode is panicked by exhaustive switches over closed code
// sets (template field codes and the like) when a branch that compilation
// already ruled out is somehow reached.
type ErrUnreachableCode struct {
	Caller string
}

func (r ErrUnreachableCode) Error() string {
	return fmt.Sprintf("%s: unreachable code", r.Caller)
}
