package sdk

import "github.com/ethereum/go-ethereum/common"

// MockHost is an in-memory Host for tests and local debugging.
type MockHost struct {
	Data    []byte
	Account common.Address
	// AccountSeq, when non-empty, is consumed one entry per CurrentAccount
	// call before falling back to Account. Lets tests exercise the
	// double-read verification path with diverging identities.
	AccountSeq []common.Address
	Now        uint32
	Logs       []string

	GetDataErr error
	SetDataErr error
	AccountErr error
}

func NewMockHost() *MockHost {
	return &MockHost{}
}

func (m *MockHost) GetData() ([]byte, error) {
	if m.GetDataErr != nil {
		return nil, m.GetDataErr
	}
	out := make([]byte, len(m.Data))
	copy(out, m.Data)
	return out, nil
}

func (m *MockHost) SetData(data []byte) error {
	if m.SetDataErr != nil {
		return m.SetDataErr
	}
	m.Data = append([]byte(nil), data...)
	return nil
}

func (m *MockHost) CurrentAccount() (common.Address, error) {
	if m.AccountErr != nil {
		return common.Address{}, m.AccountErr
	}
	if len(m.AccountSeq) > 0 {
		acct := m.AccountSeq[0]
		m.AccountSeq = m.AccountSeq[1:]
		return acct, nil
	}
	return m.Account, nil
}

func (m *MockHost) LedgerTime() uint32 {
	return m.Now
}

func (m *MockHost) Log(msg string) {
	m.Logs = append(m.Logs, msg)
}
