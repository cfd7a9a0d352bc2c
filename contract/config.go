package contract

// -----------------------------------------------------------------------------
// Capacity Limits
// -----------------------------------------------------------------------------

const (
	// AccountIDSize is the byte length of a ledger account identifier.
	AccountIDSize = 20
	// MaxMembers caps the number of tracked members / token holders.
	MaxMembers = 20
	// MaxProposals caps the number of simultaneously existing proposals.
	MaxProposals = 10
)

// -----------------------------------------------------------------------------
// Governance Settings
// -----------------------------------------------------------------------------

const (
	// VotingDelay is the gap in ledger seconds between proposal creation
	// and the start of voting.
	VotingDelay uint32 = 300
	// VotingPeriod is how long voting stays open, ~3 days.
	VotingPeriod uint32 = 259200
	// ProposalThreshold is the minimum effective voting power required to
	// create a proposal, in drops.
	ProposalThreshold uint64 = 100_000_000
	// QuorumPercentage of total voting power that For+Abstain must reach.
	QuorumPercentage uint64 = 4
	// SelfRegisterInitialPower is granted on permissionless registration.
	// Power is assigned separately by an admin.
	SelfRegisterInitialPower uint64 = 0
)

// -----------------------------------------------------------------------------
// Timelock Settings
// -----------------------------------------------------------------------------

const (
	// TimelockMinDelay is the minimum wait before a queued operation can
	// execute, 2 days.
	TimelockMinDelay uint32 = 172800
	// TimelockGracePeriod is the execution window after an operation
	// becomes ready; past it the operation expires, 14 days.
	TimelockGracePeriod uint32 = 1_209_600
)

// -----------------------------------------------------------------------------
// Proposal States
// -----------------------------------------------------------------------------

// ProposalState captures a proposal's lifecycle. Only Canceled, Queued,
// Expired and Executed are ever stored; the rest are derived from timestamps
// and tallies at read time.
type ProposalState uint8

const (
	ProposalPending   ProposalState = 0
	ProposalActive    ProposalState = 1
	ProposalCanceled  ProposalState = 2
	ProposalDefeated  ProposalState = 3
	ProposalSucceeded ProposalState = 4
	ProposalQueued    ProposalState = 5
	ProposalExpired   ProposalState = 6
	ProposalExecuted  ProposalState = 7
)

// String prints the proposal state as lower-case text for events and logs.
func (ps ProposalState) String() string {
	switch ps {
	case ProposalPending:
		return "pending"
	case ProposalActive:
		return "active"
	case ProposalCanceled:
		return "canceled"
	case ProposalDefeated:
		return "defeated"
	case ProposalSucceeded:
		return "succeeded"
	case ProposalQueued:
		return "queued"
	case ProposalExpired:
		return "expired"
	case ProposalExecuted:
		return "executed"
	default:
		return "unspecified"
	}
}

// -----------------------------------------------------------------------------
// Vote Support
// -----------------------------------------------------------------------------

// VoteSupport selects which tally a cast vote lands in.
type VoteSupport uint8

const (
	VoteAgainst VoteSupport = 0
	VoteFor     VoteSupport = 1
	VoteAbstain VoteSupport = 2
)

// -----------------------------------------------------------------------------
// Roles
// -----------------------------------------------------------------------------

// Role is a bitmask over an account's granted capabilities.
type Role uint8

const (
	RoleProposer Role = 1
	RoleExecutor Role = 2
	RoleAdmin    Role = 4
)

// -----------------------------------------------------------------------------
// Timelock Operation States
// -----------------------------------------------------------------------------

// OpState captures a timelock operation's lifecycle. Ready and Expired are
// derived from a stored Pending plus the clock.
type OpState uint8

const (
	OpUnset   OpState = 0
	OpPending OpState = 1
	OpReady   OpState = 2
	OpDone    OpState = 3
	OpExpired OpState = 4
)

// String prints the operation state as lower-case text for events and logs.
func (os OpState) String() string {
	switch os {
	case OpUnset:
		return "unset"
	case OpPending:
		return "pending"
	case OpReady:
		return "ready"
	case OpDone:
		return "done"
	case OpExpired:
		return "expired"
	default:
		return "unspecified"
	}
}
