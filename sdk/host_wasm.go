//go:build wasm

package sdk

import (
	"errors"

	"github.com/ethereum/go-ethereum/common"
)

//go:wasmimport host get_data
func hostGetData(buf *byte, size uint32) int32

//go:wasmimport host set_data
func hostSetData(buf *byte, size uint32) int32

//go:wasmimport host get_current_account
func hostGetCurrentAccount(buf *byte, size uint32) int32

//go:wasmimport host get_current_ledger_time
func hostGetCurrentLedgerTime() int64

//go:wasmimport host log
func hostLog(buf *byte, size uint32)

// WasmHost implements Host on top of the raw ledger imports.
type WasmHost struct{}

func (WasmHost) GetData() ([]byte, error) {
	buf := make([]byte, DataCapacity)
	n := hostGetData(&buf[0], uint32(len(buf)))
	if n < 0 {
		return nil, errors.New("host get_data failed")
	}
	return buf[:n], nil
}

func (WasmHost) SetData(data []byte) error {
	var ptr *byte
	if len(data) > 0 {
		ptr = &data[0]
	}
	if hostSetData(ptr, uint32(len(data))) < 0 {
		return errors.New("host set_data failed")
	}
	return nil
}

func (WasmHost) CurrentAccount() (common.Address, error) {
	var acct common.Address
	if hostGetCurrentAccount(&acct[0], uint32(len(acct))) < 0 {
		return common.Address{}, errors.New("host get_current_account failed")
	}
	return acct, nil
}

func (WasmHost) LedgerTime() uint32 {
	return uint32(hostGetCurrentLedgerTime())
}

func (WasmHost) Log(msg string) {
	b := []byte(msg)
	var ptr *byte
	if len(b) > 0 {
		ptr = &b[0]
	}
	hostLog(ptr, uint32(len(b)))
}
