package contract

// Timelock operations are fielded under `op_<i>_<field>` with a running
// `op_count`. Slots are append-only; canceling resets the stored state to
// Unset and a later schedule for the same proposal takes a fresh slot.

const opCountKey = "op_count"

func opKey(index uint8, field string) string {
	return "op_" + formatIndex(index) + "_" + field
}

// OperationCount returns the number of populated operation slots.
func OperationCount(data []byte) uint8 {
	return readCount(data, opCountKey)
}

func opU32(data []byte, index uint8, field string) uint32 {
	n, err := parseUint(FindValue(data, opKey(index, field)), 32)
	if err != nil {
		return 0
	}
	return uint32(n)
}

func storedOpState(data []byte, index uint8) OpState {
	return OpState(readCount(data, opKey(index, "state")))
}

// Schedule queues an operation for a proposal and returns the rebuilt
// record plus the operation id. The delay must meet the minimum, and a
// proposal with a live (stored Pending) operation cannot be queued again;
// canceled or completed slots do not block.
func Schedule(data []byte, proposalID, now, delay uint32) ([]byte, uint32, error) {
	if delay < TimelockMinDelay {
		return nil, 0, ErrTooEarly
	}
	if hasLiveOperation(data, proposalID) {
		return nil, 0, ErrOpAlreadyQueued
	}

	count := OperationCount(data)
	opID := HashOperation(proposalID, now, count)
	readyAt := now + delay

	b := newRecordBuilder()
	copyEntriesExcept(b, data, opCountKey)
	b.entry(opCountKey, formatUint(uint64(count)+1))
	b.entry(opKey(count, "id"), formatUint(uint64(opID)))
	b.entry(opKey(count, "prop"), formatUint(uint64(proposalID)))
	b.entry(opKey(count, "ready"), formatUint(uint64(readyAt)))
	b.entry(opKey(count, "state"), formatUint(uint64(OpPending)))

	out, err := b.record()
	if err != nil {
		return nil, 0, err
	}
	return out, opID, nil
}

// ScheduleWithPredecessor schedules an operation that may only execute once
// another operation has completed. A zero predecessor id means none.
func ScheduleWithPredecessor(data []byte, proposalID, predecessorID, now, delay uint32) ([]byte, uint32, error) {
	out, opID, err := Schedule(data, proposalID, now, delay)
	if err != nil {
		return nil, 0, err
	}
	index := OperationCount(out) - 1
	out, err = rewriteEntry(out, opKey(index, "predecessor"), formatUint(uint64(predecessorID)))
	if err != nil {
		return nil, 0, err
	}
	return out, opID, nil
}

// GetOperationState resolves an operation's current state. Stored Unset and
// Done win; a stored Pending is split by the clock into Pending, Ready
// within the grace window, or Expired past it.
func GetOperationState(data []byte, index uint8, now uint32) OpState {
	stored := storedOpState(data, index)
	if stored != OpPending {
		return stored
	}
	v := FindValue(data, opKey(index, "ready"))
	readyAt := uint32(^uint32(0))
	if n, err := parseUint(v, 32); err == nil {
		readyAt = uint32(n)
	}
	if now < readyAt {
		return OpPending
	}
	expiry := readyAt + TimelockGracePeriod
	if expiry < readyAt {
		expiry = ^uint32(0)
	}
	if now > expiry {
		return OpExpired
	}
	return OpReady
}

// ExecuteOperation marks a Ready operation Done. An operation past its
// grace window reports expiry rather than a generic not-ready failure.
func ExecuteOperation(data []byte, index uint8, now uint32) ([]byte, error) {
	switch GetOperationState(data, index, now) {
	case OpExpired:
		return nil, ErrOpExpired
	case OpReady:
	default:
		return nil, ErrOpNotReady
	}
	return updateOpField(data, index, "state", formatUint(uint64(OpDone)))
}

// ExecuteWithPredecessorCheck refuses to execute while a declared
// predecessor has not completed. The check is single level: the
// predecessor's own dependencies are not followed.
func ExecuteWithPredecessorCheck(data []byte, index uint8, now uint32) ([]byte, error) {
	if predID := Predecessor(data, index); predID != 0 {
		if !predecessorDone(data, predID) {
			return nil, ErrOpNotReady
		}
	}
	return ExecuteOperation(data, index, now)
}

// CancelOperation resets a Pending or Ready operation to Unset. Done and
// Expired operations cannot be canceled.
func CancelOperation(data []byte, index uint8, now uint32) ([]byte, error) {
	switch GetOperationState(data, index, now) {
	case OpPending, OpReady:
	default:
		return nil, ErrOpNotReady
	}
	return updateOpField(data, index, "state", formatUint(uint64(OpUnset)))
}

// FindOperationByProposal maps a proposal id to its operation slot.
func FindOperationByProposal(data []byte, proposalID uint32) (uint8, error) {
	count := OperationCount(data)
	want := formatUint(uint64(proposalID))
	for i := uint8(0); i < count; i++ {
		if stored := FindValue(data, opKey(i, "prop")); stored != nil && string(stored) == want {
			return i, nil
		}
	}
	return 0, ErrProposalNotFound
}

// IsOperationPending reports a stored-Pending operation still waiting.
func IsOperationPending(data []byte, index uint8, now uint32) bool {
	return GetOperationState(data, index, now) == OpPending
}

// IsOperationReady reports an operation inside its execution window.
func IsOperationReady(data []byte, index uint8, now uint32) bool {
	return GetOperationState(data, index, now) == OpReady
}

// IsOperationDone reports a completed operation; stored state only.
func IsOperationDone(data []byte, index uint8) bool {
	return storedOpState(data, index) == OpDone
}

// IsOperationExpired reports an operation past its grace window.
func IsOperationExpired(data []byte, index uint8, now uint32) bool {
	return GetOperationState(data, index, now) == OpExpired
}

// OperationTimestamp returns when the operation becomes executable.
func OperationTimestamp(data []byte, index uint8) uint32 {
	return opU32(data, index, "ready")
}

// Predecessor returns the operation's declared dependency id, zero for none.
func Predecessor(data []byte, index uint8) uint32 {
	return opU32(data, index, "predecessor")
}

// hasLiveOperation reports whether any slot holds a stored-Pending
// operation for the proposal.
func hasLiveOperation(data []byte, proposalID uint32) bool {
	count := OperationCount(data)
	want := formatUint(uint64(proposalID))
	for i := uint8(0); i < count; i++ {
		if stored := FindValue(data, opKey(i, "prop")); stored != nil && string(stored) == want {
			if storedOpState(data, i) == OpPending {
				return true
			}
		}
	}
	return false
}

// predecessorDone resolves a predecessor by id and checks stored Done.
func predecessorDone(data []byte, predecessorID uint32) bool {
	count := OperationCount(data)
	want := formatUint(uint64(predecessorID))
	for i := uint8(0); i < count; i++ {
		if stored := FindValue(data, opKey(i, "id")); stored != nil && string(stored) == want {
			return IsOperationDone(data, i)
		}
	}
	return false
}

func updateOpField(data []byte, index uint8, field, value string) ([]byte, error) {
	return updateEntry(data, opKey(index, field), value, ErrProposalNotFound)
}
