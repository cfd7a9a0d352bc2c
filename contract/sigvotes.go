package contract

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// Vote-by-signature: a voter signs a ballot message off-ledger and any
// account submits it. The signature commits to the proposal, the support
// value and the voter, so a relayer cannot alter the ballot, and the
// double-vote guard on vote records makes replays harmless.

// SignatureSize is the length of a [R|S|V] secp256k1 signature.
const SignatureSize = 65

const voteMessageDomain = "xrpl-dao:vote:"

// BuildVoteMessage renders the canonical ballot message
// `xrpl-dao:vote:<proposal>:<support>:<voter-hex>`.
func BuildVoteMessage(proposalID uint32, support VoteSupport, voter common.Address) []byte {
	msg := voteMessageDomain +
		formatUint(uint64(proposalID)) + ":" +
		formatUint(uint64(support)) + ":" +
		common.Bytes2Hex(voter[:])
	return []byte(msg)
}

// ValidateVoteMessage checks the ballot fields are well formed before any
// signature work: known support value, non-zero proposal, non-zero voter.
func ValidateVoteMessage(proposalID uint32, support VoteSupport, voter common.Address) bool {
	if support > VoteAbstain {
		return false
	}
	if proposalID == 0 {
		return false
	}
	return voter != (common.Address{})
}

// RecoverVoteSigner recovers the account that signed the ballot message.
// Accepts both 0/1 and 27/28 recovery ids.
func RecoverVoteSigner(proposalID uint32, support VoteSupport, voter common.Address, sig []byte) (common.Address, error) {
	if len(sig) != SignatureSize {
		return common.Address{}, ErrNotApproved
	}
	normalized := make([]byte, SignatureSize)
	copy(normalized, sig)
	if normalized[64] >= 27 {
		normalized[64] -= 27
	}
	digest := crypto.Keccak256(BuildVoteMessage(proposalID, support, voter))
	pub, err := crypto.SigToPub(digest, normalized)
	if err != nil {
		return common.Address{}, ErrNotApproved
	}
	return crypto.PubkeyToAddress(*pub), nil
}

// RecordSigVoteIntent persists a ballot intent as
// `sigvote_<proposal>_<voter-hex>=<support>` for hosts that verify the
// signature out of band. The first intent for a pair wins.
func RecordSigVoteIntent(data []byte, proposalID uint32, support VoteSupport, voter common.Address) ([]byte, error) {
	if !ValidateVoteMessage(proposalID, support, voter) {
		return nil, ErrInvalidVote
	}
	key := sigVoteKey(proposalID, voter)
	if HasEntry(data, key) {
		out := make([]byte, len(data))
		copy(out, data)
		return out, nil
	}
	return rewriteEntry(data, key, formatUint(uint64(support)))
}

// GetSigVoteIntent returns a recorded intent's support value.
func GetSigVoteIntent(data []byte, proposalID uint32, voter common.Address) (VoteSupport, bool) {
	n, err := parseUint(FindValue(data, sigVoteKey(proposalID, voter)), 8)
	if err != nil || n > uint64(VoteAbstain) {
		return 0, false
	}
	return VoteSupport(n), true
}

func sigVoteKey(proposalID uint32, voter common.Address) string {
	return "sigvote_" + formatUint(uint64(proposalID)) + "_" + common.Bytes2Hex(voter[:])
}
