//go:build wasm

package main

import (
	"unsafe"

	"github.com/ethereum/go-ethereum/common"

	"token_dao/contract"
	"token_dao/sdk"
)

// Exported entry points, one per governance action. Each builds an engine
// over the live host and maps the result to the signed exit codes; +1 is
// success.

func engine() *contract.Engine {
	return contract.NewEngine(sdk.WasmHost{})
}

//go:wasmexport propose
func Propose() int32 {
	_, err := engine().Propose()
	return contract.ExitCode(err)
}

//go:wasmexport cast_vote
func CastVote(proposalID uint32, support uint32) int32 {
	err := engine().CastVote(proposalID, contract.VoteSupport(support))
	return contract.ExitCode(err)
}

//go:wasmexport cast_vote_by_sig
func CastVoteBySig(proposalID uint32, support uint32, voterPtr *byte, sigPtr *byte) int32 {
	voter := readAddress(voterPtr)
	sig := readBytes(sigPtr, contract.SignatureSize)
	err := engine().CastVoteBySig(proposalID, contract.VoteSupport(support), voter, sig)
	return contract.ExitCode(err)
}

//go:wasmexport queue
func Queue(proposalID uint32) int32 {
	_, err := engine().Queue(proposalID)
	return contract.ExitCode(err)
}

//go:wasmexport execute
func Execute(proposalID uint32) int32 {
	err := engine().Execute(proposalID)
	return contract.ExitCode(err)
}

//go:wasmexport cancel
func Cancel(proposalID uint32) int32 {
	err := engine().Cancel(proposalID)
	return contract.ExitCode(err)
}

//go:wasmexport delegate_votes
func DelegateVotes(delegateePtr *byte) int32 {
	err := engine().DelegateVotes(readAddress(delegateePtr))
	return contract.ExitCode(err)
}

//go:wasmexport self_register
func SelfRegister() int32 {
	err := engine().SelfRegister()
	return contract.ExitCode(err)
}

//go:wasmexport set_voting_power
func SetVotingPower(accountPtr *byte, power uint64) int32 {
	err := engine().SetVotingPower(readAddress(accountPtr), power)
	return contract.ExitCode(err)
}

//go:wasmexport grant_role
func GrantRole(accountPtr *byte, role uint32) int32 {
	err := engine().GrantRole(readAddress(accountPtr), contract.Role(role))
	return contract.ExitCode(err)
}

//go:wasmexport revoke_role
func RevokeRole(accountPtr *byte, role uint32) int32 {
	err := engine().RevokeRole(readAddress(accountPtr), contract.Role(role))
	return contract.ExitCode(err)
}

func readAddress(ptr *byte) common.Address {
	var out common.Address
	copy(out[:], readBytes(ptr, contract.AccountIDSize))
	return out
}

func readBytes(ptr *byte, n int) []byte {
	if ptr == nil {
		return nil
	}
	return unsafe.Slice(ptr, n)
}
