package contract

import (
	"bytes"

	"github.com/ethereum/go-ethereum/common"
)

// Bravo-style counting: Against/For/Abstain, quorum over For+Abstain,
// success when For strictly beats Against. Each ballot is appended as
// `vote_<prop>_<n>=<voter-hex>:<support>:<weight>` next to the running
// tallies on the proposal itself.

const voteKeyPrefix = "vote_"

func voteKey(proposalIndex, voteIndex uint8) string {
	return voteKeyPrefix + formatIndex(proposalIndex) + "_" + formatIndex(voteIndex)
}

func tallyField(support VoteSupport) string {
	switch support {
	case VoteAgainst:
		return "against"
	case VoteFor:
		return "for"
	default:
		return "abstain"
	}
}

// CastVote records a ballot and bumps the matching tally in one rebuild.
// The proposal must be Active, the voter must not have voted yet, and the
// tally addition is checked rather than wrapping.
func CastVote(data []byte, proposalIndex uint8, voter common.Address, support VoteSupport, weight uint64, now uint32, totalPower uint64) ([]byte, error) {
	if support > VoteAbstain {
		return nil, ErrInvalidVote
	}
	if GetProposalState(data, proposalIndex, now, totalPower) != ProposalActive {
		return nil, ErrProposalNotActive
	}
	if HasVoted(data, proposalIndex, voter) {
		return nil, ErrAlreadyVoted
	}

	field := tallyField(support)
	tally, ok := checkedAdd(propU64(data, proposalIndex, field), weight)
	if !ok {
		return nil, ErrOverflow
	}

	target := propKey(proposalIndex, field)
	voteIndex := countProposalVotes(data, proposalIndex)

	b := newRecordBuilder()
	bumped := false
	forEachEntry(data, func(k, _, raw []byte) bool {
		if !bumped && string(k) == target {
			b.entry(target, formatUint(tally))
			bumped = true
		} else {
			b.raw(raw)
		}
		return true
	})
	if !bumped {
		return nil, ErrProposalNotFound
	}
	b.entry(voteKey(proposalIndex, voteIndex), voteValue(voter, support, weight))
	return b.record()
}

func voteValue(voter common.Address, support VoteSupport, weight uint64) string {
	return common.Bytes2Hex(voter[:]) + ":" + formatUint(uint64(support)) + ":" + formatUint(weight)
}

// parseVoteValue splits `<voter-hex>:<support>:<weight>`.
func parseVoteValue(v []byte) (support VoteSupport, weight uint64, ok bool) {
	if len(v) < 43 || v[40] != ':' || v[42] != ':' {
		return 0, 0, false
	}
	s := v[41] - '0'
	if s > uint8(VoteAbstain) {
		return 0, 0, false
	}
	w, err := parseUint(v[43:], 64)
	if err != nil {
		return 0, 0, false
	}
	return VoteSupport(s), w, true
}

// findVote locates a voter's ballot value for a proposal, nil when absent.
func findVote(data []byte, proposalIndex uint8, voter common.Address) []byte {
	hex := []byte(common.Bytes2Hex(voter[:]))
	count := countProposalVotes(data, proposalIndex)
	for i := uint8(0); i < count; i++ {
		v := FindValue(data, voteKey(proposalIndex, i))
		if len(v) >= 40 && bytes.Equal(v[:40], hex) {
			return v
		}
	}
	return nil
}

// HasVoted reports whether the account already holds a ballot on the proposal.
func HasVoted(data []byte, proposalIndex uint8, voter common.Address) bool {
	return findVote(data, proposalIndex, voter) != nil
}

// GetVote returns the voter's recorded support and weight.
func GetVote(data []byte, proposalIndex uint8, voter common.Address) (VoteSupport, uint64, bool) {
	v := findVote(data, proposalIndex, voter)
	if v == nil {
		return 0, 0, false
	}
	return parseVoteValue(v)
}

// ProposalVotes returns the running tallies (for, against, abstain).
func ProposalVotes(data []byte, proposalIndex uint8) (uint64, uint64, uint64) {
	return propU64(data, proposalIndex, "for"),
		propU64(data, proposalIndex, "against"),
		propU64(data, proposalIndex, "abstain")
}

// QuorumReached reports whether For+Abstain meets the participation floor.
func QuorumReached(data []byte, proposalIndex uint8, totalPower uint64) bool {
	forVotes, _, abstainVotes := ProposalVotes(data, proposalIndex)
	return satAdd(forVotes, abstainVotes) >= Quorum(totalPower)
}

// VoteSucceeded reports whether For strictly beats Against.
func VoteSucceeded(data []byte, proposalIndex uint8) bool {
	forVotes, againstVotes, _ := ProposalVotes(data, proposalIndex)
	return forVotes > againstVotes
}

// countProposalVotes probes ballot slots in order until the first gap.
func countProposalVotes(data []byte, proposalIndex uint8) uint8 {
	var count uint8
	for count < MaxMembers {
		if !HasEntry(data, voteKey(proposalIndex, count)) {
			break
		}
		count++
	}
	return count
}
