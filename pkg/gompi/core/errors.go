package core

import "errors"

// Retcode taxonomy from the library's external interface, rendered as Go
// sentinel errors. A nil error is SUCCESS.
var (
	// ErrNoSuchRank is returned when a Send/Recv/collective names a rank
	// outside [0, Size).
	ErrNoSuchRank = errors.New("gompi: no such rank")

	// ErrAttemptedSelfOp is returned when a Send/Recv targets the local
	// rank.
	ErrAttemptedSelfOp = errors.New("gompi: attempted operation on self")

	// ErrRemoteFinished is returned when the peer's write end has closed
	// with no matching message ever having arrived (or when a write to a
	// peer observes its read end has closed).
	ErrRemoteFinished = errors.New("gompi: remote finished")

	// ErrDeadlockDetected is returned to exactly one or both sides of a
	// two-party mutual Recv-on-each-other wait.
	ErrDeadlockDetected = errors.New("gompi: deadlock detected")
)
