package contract

import (
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildVoteMessage(t *testing.T) {
	voter := testAccount(0xAA)
	msg := BuildVoteMessage(7, VoteFor, voter)

	assert.Equal(t, "xrpl-dao:vote:7:1:aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa", string(msg))
}

func TestValidateVoteMessage(t *testing.T) {
	voter := testAccount(0xAA)

	assert.True(t, ValidateVoteMessage(1, VoteAgainst, voter))
	assert.True(t, ValidateVoteMessage(1, VoteAbstain, voter))
	assert.False(t, ValidateVoteMessage(1, VoteSupport(3), voter))
	assert.False(t, ValidateVoteMessage(0, VoteFor, voter))
	assert.False(t, ValidateVoteMessage(1, VoteFor, testAccount(0)))
}

func TestRecoverVoteSigner(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	voter := crypto.PubkeyToAddress(key.PublicKey)

	digest := crypto.Keccak256(BuildVoteMessage(7, VoteFor, voter))
	sig, err := crypto.Sign(digest, key)
	require.NoError(t, err)

	signer, err := RecoverVoteSigner(7, VoteFor, voter, sig)
	require.NoError(t, err)
	assert.Equal(t, voter, signer)

	// Legacy 27/28 recovery ids are accepted too.
	legacy := append([]byte(nil), sig...)
	legacy[64] += 27
	signer, err = RecoverVoteSigner(7, VoteFor, voter, legacy)
	require.NoError(t, err)
	assert.Equal(t, voter, signer)
}

func TestRecoverVoteSignerBindsBallotFields(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	voter := crypto.PubkeyToAddress(key.PublicKey)

	digest := crypto.Keccak256(BuildVoteMessage(7, VoteFor, voter))
	sig, err := crypto.Sign(digest, key)
	require.NoError(t, err)

	// Replaying the signature over an altered ballot recovers a different
	// account, so a tampered relay never passes the voter match.
	signer, err := RecoverVoteSigner(7, VoteAgainst, voter, sig)
	if err == nil {
		assert.NotEqual(t, voter, signer)
	}
	signer, err = RecoverVoteSigner(8, VoteFor, voter, sig)
	if err == nil {
		assert.NotEqual(t, voter, signer)
	}
}

func TestRecoverVoteSignerRejectsBadInput(t *testing.T) {
	voter := testAccount(0xAA)

	_, err := RecoverVoteSigner(7, VoteFor, voter, nil)
	assert.ErrorIs(t, err, ErrNotApproved)

	_, err = RecoverVoteSigner(7, VoteFor, voter, make([]byte, 64))
	assert.ErrorIs(t, err, ErrNotApproved)

	_, err = RecoverVoteSigner(7, VoteFor, voter, make([]byte, SignatureSize))
	assert.ErrorIs(t, err, ErrNotApproved)
}

func TestRecordSigVoteIntent(t *testing.T) {
	voter := testAccount(0xAA)

	data, err := RecordSigVoteIntent(nil, 7, VoteFor, voter)
	require.NoError(t, err)

	support, ok := GetSigVoteIntent(data, 7, voter)
	require.True(t, ok)
	assert.Equal(t, VoteFor, support)

	// First intent wins; a conflicting second write is a no-op.
	data, err = RecordSigVoteIntent(data, 7, VoteAgainst, voter)
	require.NoError(t, err)
	support, ok = GetSigVoteIntent(data, 7, voter)
	require.True(t, ok)
	assert.Equal(t, VoteFor, support)

	_, ok = GetSigVoteIntent(data, 8, voter)
	assert.False(t, ok)
}

func TestRecordSigVoteIntentValidates(t *testing.T) {
	_, err := RecordSigVoteIntent(nil, 0, VoteFor, testAccount(0xAA))
	assert.ErrorIs(t, err, ErrInvalidVote)

	_, err = RecordSigVoteIntent(nil, 7, VoteSupport(9), testAccount(0xAA))
	assert.ErrorIs(t, err, ErrInvalidVote)
}
