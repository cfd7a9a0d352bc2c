package contract

import (
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"token_dao/sdk"
)

// newTestDAO seeds a mock host with an admin (no power) and Alice holding
// 200M drops plus the executor role.
func newTestDAO(t *testing.T) (*sdk.MockHost, *Engine, common.Address, common.Address) {
	t.Helper()
	admin := testAccount(0x01)
	alice := testAccount(0xAA)

	data, err := SetMember(nil, admin, 0, RoleAdmin)
	require.NoError(t, err)
	data, err = SetMember(data, alice, 200_000_000, RoleExecutor)
	require.NoError(t, err)

	host := sdk.NewMockHost()
	host.Data = data
	return host, NewEngine(host), admin, alice
}

func TestEngineFullLifecycle(t *testing.T) {
	host, eng, _, alice := newTestDAO(t)
	host.Account = alice

	// Propose at t=1000.
	host.Now = 1000
	proposalID, err := eng.Propose()
	require.NoError(t, err)
	require.NotZero(t, proposalID)
	assert.Equal(t, uint8(1), ProposalCount(host.Data))
	// The proposer's power is pinned for this proposal at creation.
	assert.Equal(t, uint64(200_000_000), GetSnapshotVotes(host.Data, proposalID, alice))

	// Vote during the open window.
	host.Now = 5000
	require.NoError(t, eng.CastVote(proposalID, VoteFor))
	forVotes, _, _ := ProposalVotes(host.Data, 0)
	assert.Equal(t, uint64(200_000_000), forVotes)

	// Queueing while still active is refused.
	_, err = eng.Queue(proposalID)
	assert.ErrorIs(t, err, ErrProposalNotActive)

	// After the voting window the proposal succeeded and queues.
	host.Now = 260501
	opID, err := eng.Queue(proposalID)
	require.NoError(t, err)
	require.NotZero(t, opID)
	total := TotalVotingPower(host.Data)
	assert.Equal(t, ProposalQueued, GetProposalState(host.Data, 0, host.Now, total))

	// Execution waits out the timelock.
	err = eng.Execute(proposalID)
	assert.ErrorIs(t, err, ErrOpNotReady)

	host.Now = 260501 + TimelockMinDelay
	require.NoError(t, eng.Execute(proposalID))
	assert.Equal(t, ProposalExecuted, GetProposalState(host.Data, 0, host.Now, total))
	assert.True(t, IsOperationDone(host.Data, 0))
	assert.False(t, IsLocked(host.Data))
}

func TestEngineProposeBelowThreshold(t *testing.T) {
	host, eng, admin, _ := newTestDAO(t)
	host.Account = admin // zero power
	host.Now = 1000

	before := string(host.Data)
	_, err := eng.Propose()
	assert.ErrorIs(t, err, ErrBelowThreshold)
	assert.Equal(t, before, string(host.Data))
}

func TestEngineProposeUsesEffectiveVotes(t *testing.T) {
	host, eng, _, alice := newTestDAO(t)
	bob := testAccount(0xBB)

	var err error
	host.Data, err = SetMember(host.Data, bob, 0, 0)
	require.NoError(t, err)
	host.Data, err = Delegate(host.Data, alice, bob)
	require.NoError(t, err)

	// Bob holds no power of his own but carries Alice's delegation.
	host.Account = bob
	host.Now = 1000
	_, err = eng.Propose()
	assert.NoError(t, err)

	// Alice delegated away, so she can no longer clear the threshold.
	host.Account = alice
	_, err = eng.Propose()
	assert.ErrorIs(t, err, ErrBelowThreshold)
}

func TestEngineCallerVerification(t *testing.T) {
	host, eng, _, alice := newTestDAO(t)
	host.AccountSeq = []common.Address{alice, testAccount(0xEE)}
	host.Now = 1000

	before := string(host.Data)
	_, err := eng.Propose()
	assert.ErrorIs(t, err, ErrCallerVerification)
	assert.Equal(t, before, string(host.Data))
}

func TestEngineHostFailures(t *testing.T) {
	host, eng, _, alice := newTestDAO(t)
	host.Account = alice
	host.Now = 1000

	host.GetDataErr = assert.AnError
	_, err := eng.Propose()
	assert.ErrorIs(t, err, ErrDataRead)
	host.GetDataErr = nil

	host.AccountErr = assert.AnError
	_, err = eng.Propose()
	assert.ErrorIs(t, err, ErrHostCall)
	host.AccountErr = nil

	host.SetDataErr = assert.AnError
	_, err = eng.Propose()
	assert.ErrorIs(t, err, ErrHostCall)
}

func TestEngineExecuteRequiresExecutorRole(t *testing.T) {
	host, eng, admin, _ := newTestDAO(t)
	host.Account = admin

	err := eng.Execute(1)
	assert.ErrorIs(t, err, ErrNotExecutor)
}

func TestEngineExecuteReentrancy(t *testing.T) {
	host, eng, _, alice := newTestDAO(t)
	host.Account = alice

	var err error
	host.Data, err = SetLock(host.Data, true)
	require.NoError(t, err)

	err = eng.Execute(1)
	assert.ErrorIs(t, err, ErrReentrant)
}

func TestEngineExecuteErrorLeavesRecordUntouched(t *testing.T) {
	host, eng, _, alice := newTestDAO(t)
	host.Account = alice

	// No operation queued for this proposal.
	before := string(host.Data)
	err := eng.Execute(12345)
	assert.ErrorIs(t, err, ErrProposalNotFound)
	assert.Equal(t, before, string(host.Data))
	assert.False(t, IsLocked(host.Data))
}

func TestEngineCancel(t *testing.T) {
	host, eng, _, alice := newTestDAO(t)
	host.Account = alice
	host.Now = 1000

	proposalID, err := eng.Propose()
	require.NoError(t, err)

	// Still pending at t=1100, the proposer may withdraw.
	host.Now = 1100
	require.NoError(t, eng.Cancel(proposalID))
	total := TotalVotingPower(host.Data)
	assert.Equal(t, ProposalCanceled, GetProposalState(host.Data, 0, 5000, total))
}

func TestEngineSelfRegister(t *testing.T) {
	host, eng, _, _ := newTestDAO(t)
	carol := testAccount(0xCC)
	host.Account = carol

	require.NoError(t, eng.SelfRegister())
	assert.True(t, IsMember(host.Data, carol))
	assert.Equal(t, uint64(0), GetVotes(host.Data, carol))
	assert.Equal(t, Role(0), GetRoles(host.Data, carol))

	// Registering twice neither errors nor burns a second slot.
	count := MemberCount(host.Data)
	require.NoError(t, eng.SelfRegister())
	assert.Equal(t, count, MemberCount(host.Data))
}

func TestEngineSetVotingPower(t *testing.T) {
	host, eng, admin, alice := newTestDAO(t)
	carol := testAccount(0xCC)

	// Non-admin is refused even with power and roles of their own.
	host.Account = alice
	assert.ErrorIs(t, eng.SetVotingPower(carol, 5), ErrNotAdmin)

	host.Account = admin
	require.NoError(t, eng.SetVotingPower(carol, 5_000_000))
	assert.Equal(t, uint64(5_000_000), GetVotes(host.Data, carol))

	// Adjusting Alice keeps her executor role.
	require.NoError(t, eng.SetVotingPower(alice, 1))
	assert.Equal(t, uint64(1), GetVotes(host.Data, alice))
	assert.True(t, HasRole(host.Data, alice, RoleExecutor))
}

func TestEngineRoleAdministration(t *testing.T) {
	host, eng, admin, alice := newTestDAO(t)
	carol := testAccount(0xCC)

	host.Account = alice
	assert.ErrorIs(t, eng.GrantRole(carol, RoleProposer), ErrNotAdmin)

	host.Account = admin
	require.NoError(t, eng.GrantRole(carol, RoleProposer))
	assert.True(t, HasRole(host.Data, carol, RoleProposer))

	require.NoError(t, eng.RevokeRole(carol, RoleProposer))
	assert.False(t, HasRole(host.Data, carol, RoleProposer))
}

func TestEngineDelegateVotes(t *testing.T) {
	host, eng, _, alice := newTestDAO(t)
	bob := testAccount(0xBB)

	var err error
	host.Data, err = SetMember(host.Data, bob, 0, 0)
	require.NoError(t, err)

	host.Account = alice
	require.NoError(t, eng.DelegateVotes(bob))
	assert.Equal(t, uint64(200_000_000), GetEffectiveVotes(host.Data, bob))

	require.NoError(t, eng.DelegateVotes(alice))
	assert.Equal(t, uint64(0), GetEffectiveVotes(host.Data, bob))
}

func TestEngineCastVoteBySig(t *testing.T) {
	host, eng, admin, alice := newTestDAO(t)

	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	voter := crypto.PubkeyToAddress(key.PublicKey)

	host.Data, err = SetMember(host.Data, voter, 50_000_000, 0)
	require.NoError(t, err)

	host.Account = alice
	host.Now = 1000
	proposalID, err := eng.Propose()
	require.NoError(t, err)

	host.Now = 5000
	digest := crypto.Keccak256(BuildVoteMessage(proposalID, VoteFor, voter))
	sig, err := crypto.Sign(digest, key)
	require.NoError(t, err)

	// Anyone can relay the signed ballot; it lands as the voter's.
	host.Account = admin
	require.NoError(t, eng.CastVoteBySig(proposalID, VoteFor, voter, sig))
	assert.True(t, HasVoted(host.Data, 0, voter))
	support, weight, ok := GetVote(host.Data, 0, voter)
	require.True(t, ok)
	assert.Equal(t, VoteFor, support)
	assert.Equal(t, uint64(50_000_000), weight)

	// Replaying the same ballot trips the double-vote guard.
	assert.ErrorIs(t, eng.CastVoteBySig(proposalID, VoteFor, voter, sig), ErrAlreadyVoted)

	// A signature from the wrong key never matches the claimed voter.
	otherKey, err := crypto.GenerateKey()
	require.NoError(t, err)
	badSig, err := crypto.Sign(digest, otherKey)
	require.NoError(t, err)
	assert.ErrorIs(t, eng.CastVoteBySig(proposalID, VoteAgainst, voter, badSig), ErrNotApproved)
}

func TestEngineEmitsEvents(t *testing.T) {
	host, eng, _, alice := newTestDAO(t)
	host.Account = alice
	host.Now = 1000

	proposalID, err := eng.Propose()
	require.NoError(t, err)

	host.Now = 5000
	require.NoError(t, eng.CastVote(proposalID, VoteFor))

	require.Len(t, host.Logs, 2)
	assert.True(t, strings.HasPrefix(host.Logs[0], "pc|"))
	assert.True(t, strings.HasPrefix(host.Logs[1], "v|"))
}

func TestExitCodes(t *testing.T) {
	assert.Equal(t, CodeSuccess, ExitCode(nil))
	assert.Equal(t, int32(-1), ExitCode(ErrWrongAccount))
	assert.Equal(t, int32(-9), ExitCode(ErrBelowThreshold))
	assert.Equal(t, int32(-20), ExitCode(ErrReentrant))
	assert.Equal(t, int32(-22), ExitCode(ErrCallerVerification))
	assert.Equal(t, int32(-23), ExitCode(ErrRecordFull))
	// Unknown errors collapse to the host-call code.
	assert.Equal(t, int32(-5), ExitCode(assert.AnError))
}
