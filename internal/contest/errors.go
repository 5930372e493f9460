package contest

import (
	"errors"
	"fmt"
)

var (
	// ErrNotInContest rejects a submission whose problem is not part of the
	// contest's problem list.
	ErrNotInContest = errors.New("no such problem in the current contest")

	// ErrContestNotRunning rejects an operation that requires the contest to
	// be inside its active window.
	ErrContestNotRunning = errors.New("contest is not running")

	// ErrUnknownDiscipline rejects a contest type outside {oi, acm, ioi}.
	ErrUnknownDiscipline = errors.New("unknown contest type")
)

// PersistenceError wraps a failed read or write of the backing store. The
// whole update attempt is aborted and no partial mutation is left visible.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
