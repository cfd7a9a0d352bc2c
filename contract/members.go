package contract

import (
	"bytes"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// Member entries live at `member_<i>` with value `<account-hex>:<power>:<roles>`.
// `member_count` tracks how many slots are populated; slots are never
// reclaimed, an account stays a member once registered.

const (
	memberKeyPrefix = "member_"
	memberCountKey  = "member_count"
)

func memberKey(index uint8) string {
	return memberKeyPrefix + formatIndex(index)
}

func memberValue(account common.Address, power uint64, roles Role) string {
	var sb strings.Builder
	sb.WriteString(common.Bytes2Hex(account[:]))
	sb.WriteByte(':')
	sb.WriteString(formatUint(power))
	sb.WriteByte(':')
	sb.WriteString(formatUint(uint64(roles)))
	return sb.String()
}

// parseMemberValue splits a stored member value. Malformed entries report
// false and are treated as absent by the callers.
func parseMemberValue(v []byte) (account common.Address, power uint64, roles Role, ok bool) {
	parts := bytes.SplitN(v, []byte{':'}, 3)
	if len(parts) != 3 || len(parts[0]) != AccountIDSize*2 {
		return common.Address{}, 0, 0, false
	}
	acct := common.Hex2Bytes(string(parts[0]))
	if len(acct) != AccountIDSize {
		return common.Address{}, 0, 0, false
	}
	p, err := parseUint(parts[1], 64)
	if err != nil {
		return common.Address{}, 0, 0, false
	}
	r, err := parseUint(parts[2], 8)
	if err != nil {
		return common.Address{}, 0, 0, false
	}
	copy(account[:], acct)
	return account, p, Role(r), true
}

// MemberCount returns the number of populated member slots.
func MemberCount(data []byte) uint8 {
	return readCount(data, memberCountKey)
}

// findMember scans the member slots for account. Returns ok=false when the
// account is not registered.
func findMember(data []byte, account common.Address) (index uint8, power uint64, roles Role, ok bool) {
	count := MemberCount(data)
	for i := uint8(0); i < count; i++ {
		v := FindValue(data, memberKey(i))
		if v == nil {
			continue
		}
		acct, p, r, valid := parseMemberValue(v)
		if valid && acct == account {
			return i, p, r, true
		}
	}
	return 0, 0, 0, false
}

// IsMember reports whether the account occupies a member slot.
func IsMember(data []byte, account common.Address) bool {
	_, _, _, ok := findMember(data, account)
	return ok
}

// GetVotes returns the account's own voting power, zero for non-members.
func GetVotes(data []byte, account common.Address) uint64 {
	_, power, _, ok := findMember(data, account)
	if !ok {
		return 0
	}
	return power
}

// GetRoles returns the account's role bitmask, zero for non-members.
func GetRoles(data []byte, account common.Address) Role {
	_, _, roles, ok := findMember(data, account)
	if !ok {
		return 0
	}
	return roles
}

// HasRole reports whether the account holds any bit of role.
func HasRole(data []byte, account common.Address, role Role) bool {
	return GetRoles(data, account)&role != 0
}

// TotalVotingPower sums all member power, saturating instead of wrapping.
func TotalVotingPower(data []byte) uint64 {
	var total uint64
	count := MemberCount(data)
	for i := uint8(0); i < count; i++ {
		v := FindValue(data, memberKey(i))
		if v == nil {
			continue
		}
		if _, power, _, ok := parseMemberValue(v); ok {
			total = satAdd(total, power)
		}
	}
	return total
}

// SetMember registers an account or overwrites an existing member's power
// and roles. Registration beyond MaxMembers fails with ErrBadConfig.
func SetMember(data []byte, account common.Address, power uint64, roles Role) ([]byte, error) {
	if index, _, _, ok := findMember(data, account); ok {
		return rewriteEntry(data, memberKey(index), memberValue(account, power, roles))
	}
	count := MemberCount(data)
	if count >= MaxMembers {
		return nil, ErrBadConfig
	}
	b := newRecordBuilder()
	copyEntriesExcept(b, data, memberCountKey)
	b.entry(memberKey(count), memberValue(account, power, roles))
	b.entry(memberCountKey, formatUint(uint64(count)+1))
	return b.record()
}

// GrantRole adds role bits, leaving power untouched. An unknown account is
// registered with zero power and the granted role.
func GrantRole(data []byte, account common.Address, role Role) ([]byte, error) {
	return SetMember(data, account, GetVotes(data, account), GetRoles(data, account)|role)
}

// RevokeRole clears role bits, leaving power untouched.
func RevokeRole(data []byte, account common.Address, role Role) ([]byte, error) {
	return SetMember(data, account, GetVotes(data, account), GetRoles(data, account)&^role)
}

// Quorum returns the participation floor: total power divided down to whole
// percent units first, so tiny totals can quorum at zero.
func Quorum(totalPower uint64) uint64 {
	return satMul(totalPower/100, QuorumPercentage)
}

// satAdd adds with saturation at the uint64 ceiling.
func satAdd(a, b uint64) uint64 {
	if s := a + b; s >= a {
		return s
	}
	return ^uint64(0)
}

// satMul multiplies with saturation at the uint64 ceiling.
func satMul(a, b uint64) uint64 {
	if a == 0 || b == 0 {
		return 0
	}
	if p := a * b; p/a == b {
		return p
	}
	return ^uint64(0)
}

// checkedAdd adds and reports overflow instead of wrapping.
func checkedAdd(a, b uint64) (uint64, bool) {
	s := a + b
	return s, s >= a
}
