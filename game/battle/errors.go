package battle

import (
	"errors"
	"fmt"
)

// ErrProtocol is the sentinel every protocol violation unwraps to.
var ErrProtocol = errors.New("battle: protocol violation")

// ProtocolError reports a unit emitting something the engine cannot execute:
// an unknown action or command kind, SP driven negative, or a runaway
// reaction, step or mini-turn loop. It aborts the battle.
type ProtocolError struct {
	Op     string
	Detail string
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("battle: protocol violation in %s: %s", e.Op, e.Detail)
}

func (e *ProtocolError) Unwrap() error { return ErrProtocol }

// violate aborts the running battle. BattleInstance.Run recovers the panic
// and returns the error.
func violate(op, format string, args ...any) {
	panic(&ProtocolError{Op: op, Detail: fmt.Sprintf(format, args...)})
}
