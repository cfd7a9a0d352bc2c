package sdk

import "github.com/ethereum/go-ethereum/common"

// DataCapacity is the size of the ledger record buffer exchanged with the
// host. The engine never produces a record larger than this.
const DataCapacity = 4096

// Host is the boundary towards the ledger environment. The wasm build binds
// it to the real host imports; tests swap in MockHost.
type Host interface {
	// GetData returns the current ledger record.
	GetData() ([]byte, error)
	// SetData atomically replaces the ledger record.
	SetData(data []byte) error
	// CurrentAccount returns the 20-byte identity of the calling account.
	// Callers that gate privileged actions read it twice and compare.
	CurrentAccount() (common.Address, error)
	// LedgerTime returns the current ledger close time.
	LedgerTime() uint32
	// Log writes a line to the host console.
	Log(msg string)
}
