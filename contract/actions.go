package contract

import (
	"github.com/ethereum/go-ethereum/common"

	"token_dao/sdk"
)

// Engine binds the governance state machine to a host. Every action loads
// the record, validates against its current contents, rebuilds it through
// the core and writes it back only on success, so a failing action never
// touches stored state.
type Engine struct {
	host sdk.Host
}

func NewEngine(host sdk.Host) *Engine {
	return &Engine{host: host}
}

// loadRecord fetches the current ledger record.
func (e *Engine) loadRecord() ([]byte, error) {
	data, err := e.host.GetData()
	if err != nil {
		return nil, ErrDataRead
	}
	return data, nil
}

// verifiedCaller reads the caller identity twice and insists both reads
// agree before any of it gates an action.
func (e *Engine) verifiedCaller() (common.Address, error) {
	caller, err := e.host.CurrentAccount()
	if err != nil {
		return common.Address{}, ErrHostCall
	}
	verify, err := e.host.CurrentAccount()
	if err != nil {
		return common.Address{}, ErrHostCall
	}
	if caller != verify {
		return common.Address{}, ErrCallerVerification
	}
	return caller, nil
}

func (e *Engine) store(data []byte) error {
	if err := e.host.SetData(data); err != nil {
		return ErrHostCall
	}
	return nil
}

// Propose creates a proposal from the caller's effective voting power and
// snapshots that power for the new proposal. The description hash is
// derived from the ledger time until the host exposes transaction memos.
func (e *Engine) Propose() (uint32, error) {
	data, err := e.loadRecord()
	if err != nil {
		return 0, err
	}
	caller, err := e.verifiedCaller()
	if err != nil {
		return 0, err
	}
	now := e.host.LedgerTime()
	votes := GetEffectiveVotes(data, caller)
	descHash := now * 0x9E3779B9

	data, proposalID, err := Propose(data, caller, descHash, now, votes)
	if err != nil {
		return 0, err
	}
	data, err = SnapshotVotingPower(data, proposalID, caller)
	if err != nil {
		return 0, err
	}
	if err := e.store(data); err != nil {
		return 0, err
	}
	emitProposalCreatedEvent(e.host, proposalID, caller)
	return proposalID, nil
}

// CastVote records the caller's ballot with their current effective power.
func (e *Engine) CastVote(proposalID uint32, support VoteSupport) error {
	data, err := e.loadRecord()
	if err != nil {
		return err
	}
	caller, err := e.verifiedCaller()
	if err != nil {
		return err
	}
	now := e.host.LedgerTime()
	totalPower := TotalVotingPower(data)
	weight := GetEffectiveVotes(data, caller)

	index, err := FindProposalByID(data, proposalID)
	if err != nil {
		return err
	}
	data, err = CastVote(data, index, caller, support, weight, now, totalPower)
	if err != nil {
		return err
	}
	if err := e.store(data); err != nil {
		return err
	}
	emitVoteCastedEvent(e.host, proposalID, caller, support, weight)
	return nil
}

// CastVoteBySig records a ballot signed off-ledger by the voter. The
// recovered signer must match the claimed voter; the relayer submitting it
// can be anyone.
func (e *Engine) CastVoteBySig(proposalID uint32, support VoteSupport, voter common.Address, sig []byte) error {
	data, err := e.loadRecord()
	if err != nil {
		return err
	}
	if _, err := e.verifiedCaller(); err != nil {
		return err
	}
	if !ValidateVoteMessage(proposalID, support, voter) {
		return ErrInvalidVote
	}
	signer, err := RecoverVoteSigner(proposalID, support, voter, sig)
	if err != nil {
		return err
	}
	if signer != voter {
		return ErrNotApproved
	}

	now := e.host.LedgerTime()
	totalPower := TotalVotingPower(data)
	weight := GetEffectiveVotes(data, voter)

	index, err := FindProposalByID(data, proposalID)
	if err != nil {
		return err
	}
	data, err = CastVote(data, index, voter, support, weight, now, totalPower)
	if err != nil {
		return err
	}
	if err := e.store(data); err != nil {
		return err
	}
	emitVoteCastedEvent(e.host, proposalID, voter, support, weight)
	return nil
}

// Queue moves a succeeded proposal into the timelock at the minimum delay
// and returns the scheduled operation id.
func (e *Engine) Queue(proposalID uint32) (uint32, error) {
	data, err := e.loadRecord()
	if err != nil {
		return 0, err
	}
	if _, err := e.verifiedCaller(); err != nil {
		return 0, err
	}
	now := e.host.LedgerTime()
	totalPower := TotalVotingPower(data)

	index, err := FindProposalByID(data, proposalID)
	if err != nil {
		return 0, err
	}
	if GetProposalState(data, index, now, totalPower) != ProposalSucceeded {
		return 0, ErrProposalNotActive
	}

	data, opID, err := Schedule(data, proposalID, now, TimelockMinDelay)
	if err != nil {
		return 0, err
	}
	data, err = updateProposalField(data, index, "state", formatUint(uint64(ProposalQueued)))
	if err != nil {
		return 0, err
	}
	if err := e.store(data); err != nil {
		return 0, err
	}
	emitOperationScheduledEvent(e.host, opID, proposalID, now+TimelockMinDelay)
	emitProposalStateChangedEvent(e.host, proposalID, ProposalQueued)
	return opID, nil
}

// Execute completes a queued proposal once its operation is ready. Only
// executors may call it, and the record-level lock blocks a nested dispatch
// from re-entering. The lock only ever reaches storage as part of the final
// successful write, so error paths leave it released.
func (e *Engine) Execute(proposalID uint32) error {
	data, err := e.loadRecord()
	if err != nil {
		return err
	}
	caller, err := e.verifiedCaller()
	if err != nil {
		return err
	}
	if !HasRole(data, caller, RoleExecutor) {
		return ErrNotExecutor
	}
	if IsLocked(data) {
		return ErrReentrant
	}
	data, err = SetLock(data, true)
	if err != nil {
		return err
	}
	now := e.host.LedgerTime()

	opIndex, err := FindOperationByProposal(data, proposalID)
	if err != nil {
		return err
	}
	data, err = ExecuteWithPredecessorCheck(data, opIndex, now)
	if err != nil {
		return err
	}
	propIndex, err := FindProposalByID(data, proposalID)
	if err != nil {
		return err
	}
	data, err = updateProposalField(data, propIndex, "state", formatUint(uint64(ProposalExecuted)))
	if err != nil {
		return err
	}
	data, err = SetLock(data, false)
	if err != nil {
		return err
	}
	if err := e.store(data); err != nil {
		return err
	}
	emitOperationStateChangedEvent(e.host, opU32(data, opIndex, "id"), OpDone)
	emitProposalStateChangedEvent(e.host, proposalID, ProposalExecuted)
	return nil
}

// Cancel lets the proposer withdraw a proposal before voting opens.
func (e *Engine) Cancel(proposalID uint32) error {
	data, err := e.loadRecord()
	if err != nil {
		return err
	}
	caller, err := e.verifiedCaller()
	if err != nil {
		return err
	}
	now := e.host.LedgerTime()
	totalPower := TotalVotingPower(data)

	index, err := FindProposalByID(data, proposalID)
	if err != nil {
		return err
	}
	data, err = CancelProposal(data, index, caller, now, totalPower)
	if err != nil {
		return err
	}
	if err := e.store(data); err != nil {
		return err
	}
	emitProposalStateChangedEvent(e.host, proposalID, ProposalCanceled)
	return nil
}

// DelegateVotes points the caller's voting power at delegatee. Delegating
// to self restores the default.
func (e *Engine) DelegateVotes(delegatee common.Address) error {
	data, err := e.loadRecord()
	if err != nil {
		return err
	}
	caller, err := e.verifiedCaller()
	if err != nil {
		return err
	}
	data, err = Delegate(data, caller, delegatee)
	if err != nil {
		return err
	}
	if err := e.store(data); err != nil {
		return err
	}
	emitDelegateChangedEvent(e.host, caller, delegatee)
	return nil
}

// SelfRegister adds the caller to the member table with zero power and no
// roles. Registration is permissionless and idempotent; power is allocated
// separately by an admin.
func (e *Engine) SelfRegister() error {
	data, err := e.loadRecord()
	if err != nil {
		return err
	}
	caller, err := e.verifiedCaller()
	if err != nil {
		return err
	}
	if IsMember(data, caller) {
		return nil
	}
	data, err = SetMember(data, caller, SelfRegisterInitialPower, 0)
	if err != nil {
		return err
	}
	if err := e.store(data); err != nil {
		return err
	}
	emitMemberRegisteredEvent(e.host, caller)
	return nil
}

// SetVotingPower lets an admin allocate power to an account, registering it
// when needed and preserving its roles.
func (e *Engine) SetVotingPower(account common.Address, power uint64) error {
	data, err := e.loadRecord()
	if err != nil {
		return err
	}
	caller, err := e.verifiedCaller()
	if err != nil {
		return err
	}
	if !HasRole(data, caller, RoleAdmin) {
		return ErrNotAdmin
	}
	data, err = SetMember(data, account, power, GetRoles(data, account))
	if err != nil {
		return err
	}
	if err := e.store(data); err != nil {
		return err
	}
	emitPowerSetEvent(e.host, account, power)
	return nil
}

// GrantRole lets an admin add role bits to an account.
func (e *Engine) GrantRole(account common.Address, role Role) error {
	return e.changeRole(account, role, true)
}

// RevokeRole lets an admin clear role bits on an account.
func (e *Engine) RevokeRole(account common.Address, role Role) error {
	return e.changeRole(account, role, false)
}

func (e *Engine) changeRole(account common.Address, role Role, grant bool) error {
	data, err := e.loadRecord()
	if err != nil {
		return err
	}
	caller, err := e.verifiedCaller()
	if err != nil {
		return err
	}
	if !HasRole(data, caller, RoleAdmin) {
		return ErrNotAdmin
	}
	if grant {
		data, err = GrantRole(data, account, role)
	} else {
		data, err = RevokeRole(data, account, role)
	}
	if err != nil {
		return err
	}
	if err := e.store(data); err != nil {
		return err
	}
	emitRoleChangedEvent(e.host, account, role, grant)
	return nil
}
