package contract

import "errors"

// Error is a governance failure with a fixed host exit code. Codes are part
// of the external contract and never change meaning.
type Error struct {
	code int32
	msg  string
}

func (e *Error) Error() string { return e.msg }

// Code returns the host exit code for this error.
func (e *Error) Code() int32 { return e.code }

// CodeSuccess is returned by dispatch on a completed action.
const CodeSuccess int32 = 1

var (
	ErrWrongAccount       = &Error{-1, "caller account not authorized"}
	ErrTooEarly           = &Error{-2, "action attempted before its allowed time"}
	ErrNotApproved        = &Error{-3, "approval check failed"}
	ErrDataRead           = &Error{-4, "ledger record unavailable"}
	ErrHostCall           = &Error{-5, "host call failed"}
	ErrBadConfig          = &Error{-6, "configuration limit violated"}
	ErrAlreadyVoted       = &Error{-7, "voter has already cast a ballot"}
	ErrProposalNotActive  = &Error{-8, "proposal is not in the required state"}
	ErrBelowThreshold     = &Error{-9, "voting power below proposal threshold"}
	ErrMaxProposals       = &Error{-10, "proposal capacity reached"}
	ErrNotProposer        = &Error{-11, "caller is not the proposer"}
	ErrNotExecutor        = &Error{-12, "caller lacks the executor role"}
	ErrOpNotReady         = &Error{-13, "timelock operation not ready"}
	ErrOpAlreadyQueued    = &Error{-14, "proposal already has a live operation"}
	ErrProposalNotFound   = &Error{-15, "no proposal with that id"}
	ErrInvalidVote        = &Error{-16, "unrecognized vote support value"}
	ErrQuorumNotMet       = &Error{-17, "participation below quorum"}
	ErrNotAdmin           = &Error{-18, "caller lacks the admin role"}
	ErrOverflow           = &Error{-19, "tally addition would overflow"}
	ErrReentrant          = &Error{-20, "execution lock already held"}
	ErrOpExpired          = &Error{-21, "timelock operation past its grace period"}
	ErrCallerVerification = &Error{-22, "caller identity reads disagree"}
	ErrRecordFull         = &Error{-23, "record would exceed capacity"}
)

// ExitCode maps an action result to the host exit code. Unknown errors fall
// back to the host-call code.
func ExitCode(err error) int32 {
	if err == nil {
		return CodeSuccess
	}
	var ge *Error
	if errors.As(err, &ge) {
		return ge.Code()
	}
	return ErrHostCall.Code()
}
