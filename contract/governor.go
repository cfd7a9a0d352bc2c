package contract

import (
	"bytes"

	"github.com/ethereum/go-ethereum/common"
)

// Proposal entries are fielded under `prop_<i>_<field>` with a running
// `proposal_count`. Stored state is authoritative only for Canceled, Queued,
// Expired and Executed; everything else is derived from the clock and the
// tallies so reads never go stale.

const (
	proposalCountKey = "proposal_count"
	propKeyPrefix    = "prop_"
)

func propKey(index uint8, field string) string {
	return propKeyPrefix + formatIndex(index) + "_" + field
}

// ProposalCount returns the number of populated proposal slots.
func ProposalCount(data []byte) uint8 {
	return readCount(data, proposalCountKey)
}

func propU32(data []byte, index uint8, field string) uint32 {
	n, err := parseUint(FindValue(data, propKey(index, field)), 32)
	if err != nil {
		return 0
	}
	return uint32(n)
}

func propU64(data []byte, index uint8, field string) uint64 {
	n, err := parseUint(FindValue(data, propKey(index, field)), 64)
	if err != nil {
		return 0
	}
	return n
}

// Propose creates a proposal in the next free slot and returns the rebuilt
// record plus the new proposal id. Voting opens VotingDelay after now and
// stays open for VotingPeriod.
func Propose(data []byte, proposer common.Address, descHash, now uint32, proposerVotes uint64) ([]byte, uint32, error) {
	if proposerVotes < ProposalThreshold {
		return nil, 0, ErrBelowThreshold
	}
	count := ProposalCount(data)
	if count >= MaxProposals {
		return nil, 0, ErrMaxProposals
	}

	proposalID := HashProposal(proposer, descHash, now, count)
	start := now + VotingDelay
	end := start + VotingPeriod

	b := newRecordBuilder()
	copyEntriesExcept(b, data, proposalCountKey)
	b.entry(proposalCountKey, formatUint(uint64(count)+1))
	b.entry(propKey(count, "id"), formatUint(uint64(proposalID)))
	b.entry(propKey(count, "proposer"), common.Bytes2Hex(proposer[:]))
	b.entry(propKey(count, "state"), "0")
	b.entry(propKey(count, "start"), formatUint(uint64(start)))
	b.entry(propKey(count, "end"), formatUint(uint64(end)))
	b.entry(propKey(count, "for"), "0")
	b.entry(propKey(count, "against"), "0")
	b.entry(propKey(count, "abstain"), "0")
	b.entry(propKey(count, "desc"), formatUint(uint64(descHash)))

	out, err := b.record()
	if err != nil {
		return nil, 0, err
	}
	return out, proposalID, nil
}

// GetProposalState resolves a proposal's current state. Stored terminal
// states win; otherwise the clock decides Pending/Active and after voting
// ends the tallies decide Defeated/Succeeded.
func GetProposalState(data []byte, index uint8, now uint32, totalPower uint64) ProposalState {
	stored := ProposalState(readCount(data, propKey(index, "state")))
	switch stored {
	case ProposalCanceled, ProposalQueued, ProposalExpired, ProposalExecuted:
		return stored
	}

	start := propU32(data, index, "start")
	end := propU32(data, index, "end")
	if now < start {
		return ProposalPending
	}
	if now <= end {
		return ProposalActive
	}

	forVotes := propU64(data, index, "for")
	againstVotes := propU64(data, index, "against")
	abstainVotes := propU64(data, index, "abstain")

	if satAdd(forVotes, abstainVotes) < Quorum(totalPower) {
		return ProposalDefeated
	}
	if forVotes > againstVotes {
		return ProposalSucceeded
	}
	return ProposalDefeated
}

// CancelProposal marks a proposal Canceled. Only the proposer may cancel,
// and only while the proposal is still Pending.
func CancelProposal(data []byte, index uint8, caller common.Address, now uint32, totalPower uint64) ([]byte, error) {
	storedProposer := FindValue(data, propKey(index, "proposer"))
	if storedProposer == nil {
		return nil, ErrProposalNotFound
	}
	if !bytes.Equal(storedProposer, []byte(common.Bytes2Hex(caller[:]))) {
		return nil, ErrNotProposer
	}
	if GetProposalState(data, index, now, totalPower) != ProposalPending {
		return nil, ErrProposalNotActive
	}
	return updateProposalField(data, index, "state", formatUint(uint64(ProposalCanceled)))
}

// FindProposalByID maps a proposal id back to its slot index.
func FindProposalByID(data []byte, proposalID uint32) (uint8, error) {
	count := ProposalCount(data)
	want := formatUint(uint64(proposalID))
	for i := uint8(0); i < count; i++ {
		if stored := FindValue(data, propKey(i, "id")); stored != nil && string(stored) == want {
			return i, nil
		}
	}
	return 0, ErrProposalNotFound
}

// updateProposalField rewrites one proposal field, insisting it exists.
func updateProposalField(data []byte, index uint8, field, value string) ([]byte, error) {
	return updateEntry(data, propKey(index, field), value, ErrProposalNotFound)
}

// Execute runs behind a `_lock` flag so a nested dispatch cannot re-enter.

const lockKey = "_lock"

// IsLocked reports whether the execution lock is held.
func IsLocked(data []byte) bool {
	return string(FindValue(data, lockKey)) == "1"
}

// SetLock flips the execution lock, creating the entry on first use.
func SetLock(data []byte, locked bool) ([]byte, error) {
	v := "0"
	if locked {
		v = "1"
	}
	return rewriteEntry(data, lockKey, v)
}
