package contract

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"

	"token_dao/sdk"
)

// emitProposalCreatedEvent keeps observers updated with a short pc line for
// every new proposal.
func emitProposalCreatedEvent(host sdk.Host, proposalID uint32, proposer common.Address) {
	host.Log(fmt.Sprintf(
		"pc|id:%d|by:%s",
		proposalID,
		common.Bytes2Hex(proposer[:]),
	))
}

// emitProposalStateChangedEvent is the swiss army knife log entry for any
// state flip.
func emitProposalStateChangedEvent(host sdk.Host, proposalID uint32, state ProposalState) {
	host.Log(fmt.Sprintf(
		"ps|id:%d|s:%s",
		proposalID,
		state.String(),
	))
}

// emitVoteCastedEvent includes the raw support index plus weight so tally
// math can be replayed from logs only.
func emitVoteCastedEvent(host sdk.Host, proposalID uint32, voter common.Address, support VoteSupport, weight uint64) {
	host.Log(fmt.Sprintf(
		"v|id:%d|by:%s|s:%d|w:%d",
		proposalID,
		common.Bytes2Hex(voter[:]),
		support,
		weight,
	))
}

// emitOperationScheduledEvent logs when a passed proposal becomes queued so
// runners know when to come back.
func emitOperationScheduledEvent(host sdk.Host, opID, proposalID, readyAt uint32) {
	host.Log(fmt.Sprintf(
		"os|id:%d|prop:%d|ready:%d",
		opID,
		proposalID,
		readyAt,
	))
}

// emitOperationStateChangedEvent mirrors the proposal flip log for timelock
// operations.
func emitOperationStateChangedEvent(host sdk.Host, opID uint32, state OpState) {
	host.Log(fmt.Sprintf(
		"ox|id:%d|s:%s",
		opID,
		state.String(),
	))
}

// emitMemberRegisteredEvent writes a tiny "mr" log so watchers know someone
// fresh just joined the member table.
func emitMemberRegisteredEvent(host sdk.Host, account common.Address) {
	host.Log(fmt.Sprintf(
		"mr|by:%s",
		common.Bytes2Hex(account[:]),
	))
}

// emitPowerSetEvent spells out power changes so auditors can track
// sensitive flips.
func emitPowerSetEvent(host sdk.Host, account common.Address, power uint64) {
	host.Log(fmt.Sprintf(
		"mp|acct:%s|p:%d",
		common.Bytes2Hex(account[:]),
		power,
	))
}

// emitRoleChangedEvent covers both grants and revokes via one bool char.
func emitRoleChangedEvent(host sdk.Host, account common.Address, role Role, granted bool) {
	g := "0"
	if granted {
		g = "1"
	}
	host.Log(fmt.Sprintf(
		"rl|acct:%s|r:%d|g:%s",
		common.Bytes2Hex(account[:]),
		role,
		g,
	))
}

// emitDelegateChangedEvent leaves a short hint who votes with whose power now.
func emitDelegateChangedEvent(host sdk.Host, voter, delegatee common.Address) {
	host.Log(fmt.Sprintf(
		"dg|by:%s|to:%s",
		common.Bytes2Hex(voter[:]),
		common.Bytes2Hex(delegatee[:]),
	))
}
