package contract

import "github.com/ethereum/go-ethereum/common"

// Delegation is single level: an account either votes with its own power or
// hands it to exactly one delegatee. Chains do not compound, a delegatee who
// has itself delegated away still carries the power delegated to it.

const (
	delegateKeyPrefix = "delegate_"
	snapshotKeyPrefix = "snap_"
)

func delegateKey(account common.Address) string {
	return delegateKeyPrefix + common.Bytes2Hex(account[:])
}

func snapshotKey(proposalID uint32, account common.Address) string {
	return snapshotKeyPrefix + formatUint(uint64(proposalID)) + "_" + common.Bytes2Hex(account[:])
}

// Delegate points account's voting power at delegatee. Delegating to self
// removes the entry, restoring the default.
func Delegate(data []byte, account, delegatee common.Address) ([]byte, error) {
	key := delegateKey(account)
	if account == delegatee {
		b := newRecordBuilder()
		copyEntriesExcept(b, data, key)
		return b.record()
	}
	return rewriteEntry(data, key, common.Bytes2Hex(delegatee[:]))
}

// GetDelegate returns who votes with account's power, the account itself by
// default or when the stored entry is malformed.
func GetDelegate(data []byte, account common.Address) common.Address {
	v := FindValue(data, delegateKey(account))
	if len(v) != AccountIDSize*2 {
		return account
	}
	raw := common.Hex2Bytes(string(v))
	if len(raw) != AccountIDSize {
		return account
	}
	var out common.Address
	copy(out[:], raw)
	return out
}

// GetEffectiveVotes returns the power account can wield right now: its own
// power when not delegated away, plus power delegated directly to it. Only
// one delegation hop counts.
func GetEffectiveVotes(data []byte, account common.Address) uint64 {
	var total uint64
	if GetDelegate(data, account) == account {
		total = GetVotes(data, account)
	}
	count := MemberCount(data)
	for i := uint8(0); i < count; i++ {
		v := FindValue(data, memberKey(i))
		if v == nil {
			continue
		}
		acct, power, _, ok := parseMemberValue(v)
		if !ok || acct == account {
			continue
		}
		if GetDelegate(data, acct) == account {
			total = satAdd(total, power)
		}
	}
	return total
}

// SnapshotVotingPower pins account's effective power for a proposal at the
// moment of first interaction. An existing snapshot wins; a second write for
// the same pair leaves the record unchanged.
func SnapshotVotingPower(data []byte, proposalID uint32, account common.Address) ([]byte, error) {
	key := snapshotKey(proposalID, account)
	if HasEntry(data, key) {
		out := make([]byte, len(data))
		copy(out, data)
		return out, nil
	}
	return rewriteEntry(data, key, formatUint(GetEffectiveVotes(data, account)))
}

// GetSnapshotVotes returns the pinned power for a proposal, zero when no
// snapshot was taken.
func GetSnapshotVotes(data []byte, proposalID uint32, account common.Address) uint64 {
	power, err := parseUint(FindValue(data, snapshotKey(proposalID, account)), 64)
	if err != nil {
		return 0
	}
	return power
}
