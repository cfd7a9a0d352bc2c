package contract

import (
	"bytes"
	"strconv"

	"token_dao/sdk"
)

// The ledger record is a flat run of `key=value;` entries. Mutations never
// patch bytes in place: they assemble a full replacement through a builder
// and only hand it back once it fits the capacity, so a failed action leaves
// the stored record untouched.

// RecordCapacity is the hard ceiling on a serialized record.
const RecordCapacity = sdk.DataCapacity

const entrySep = ';'

// FindValue returns the value bytes of the first entry with the given key,
// or nil when absent. Entries without '=' and empty segments are skipped.
func FindValue(data []byte, key string) []byte {
	var out []byte
	forEachEntry(data, func(k, v, _ []byte) bool {
		if string(k) == key {
			out = v
			return false
		}
		return true
	})
	return out
}

// HasEntry reports whether the record contains an entry for key, even one
// with an empty value.
func HasEntry(data []byte, key string) bool {
	found := false
	forEachEntry(data, func(k, _, _ []byte) bool {
		if string(k) == key {
			found = true
			return false
		}
		return true
	})
	return found
}

// forEachEntry walks the record entry by entry. raw is the full `key=value`
// segment without the trailing separator. Returning false stops the walk.
func forEachEntry(data []byte, fn func(key, value, raw []byte) bool) {
	for len(data) > 0 {
		seg := data
		if i := bytes.IndexByte(data, entrySep); i >= 0 {
			seg = data[:i]
			data = data[i+1:]
		} else {
			data = nil
		}
		if len(seg) == 0 {
			continue
		}
		eq := bytes.IndexByte(seg, '=')
		if eq < 0 {
			continue
		}
		if !fn(seg[:eq], seg[eq+1:], seg) {
			return
		}
	}
}

// recordBuilder accumulates a replacement record, separators between
// entries only. Overflow is latched and surfaced once at the end so call
// sites stay linear.
type recordBuilder struct {
	out      []byte
	overflow bool
}

func newRecordBuilder() *recordBuilder {
	return &recordBuilder{out: make([]byte, 0, RecordCapacity)}
}

func (b *recordBuilder) sepLen() int {
	if len(b.out) > 0 {
		return 1
	}
	return 0
}

// raw appends an already-formed `key=value` segment.
func (b *recordBuilder) raw(seg []byte) {
	if b.overflow {
		return
	}
	if len(b.out)+b.sepLen()+len(seg) > RecordCapacity {
		b.overflow = true
		return
	}
	if len(b.out) > 0 {
		b.out = append(b.out, entrySep)
	}
	b.out = append(b.out, seg...)
}

// entry appends a fresh key=value pair.
func (b *recordBuilder) entry(key, value string) {
	if b.overflow {
		return
	}
	if len(b.out)+b.sepLen()+len(key)+1+len(value) > RecordCapacity {
		b.overflow = true
		return
	}
	if len(b.out) > 0 {
		b.out = append(b.out, entrySep)
	}
	b.out = append(b.out, key...)
	b.out = append(b.out, '=')
	b.out = append(b.out, value...)
}

// record finalizes the build, failing closed when any append overflowed.
func (b *recordBuilder) record() ([]byte, error) {
	if b.overflow {
		return nil, ErrRecordFull
	}
	return b.out, nil
}

// copyEntriesExcept streams every entry of data into b except those whose
// key is in skip.
func copyEntriesExcept(b *recordBuilder, data []byte, skip ...string) {
	forEachEntry(data, func(k, _, raw []byte) bool {
		for _, s := range skip {
			if string(k) == s {
				return true
			}
		}
		b.raw(raw)
		return true
	})
}

// rewriteEntry returns a record with key set to value, replacing an existing
// entry in place or appending a new one at the end.
func rewriteEntry(data []byte, key, value string) ([]byte, error) {
	b := newRecordBuilder()
	replaced := false
	forEachEntry(data, func(k, _, raw []byte) bool {
		if !replaced && string(k) == key {
			b.entry(key, value)
			replaced = true
		} else {
			b.raw(raw)
		}
		return true
	})
	if !replaced {
		b.entry(key, value)
	}
	return b.record()
}

// updateEntry is rewriteEntry that insists the key already exists.
func updateEntry(data []byte, key, value string, missing *Error) ([]byte, error) {
	if !HasEntry(data, key) {
		return nil, missing
	}
	return rewriteEntry(data, key, value)
}

// readCount parses a small counter entry, defaulting to zero when the entry
// is absent or malformed.
func readCount(data []byte, key string) uint8 {
	n, err := parseUint(FindValue(data, key), 8)
	if err != nil {
		return 0
	}
	return uint8(n)
}

// parseUint decodes an unsigned decimal value field. Nil or non-digit input
// is an error rather than zero so corrupt entries surface instead of
// silently resetting state.
func parseUint(v []byte, bits int) (uint64, error) {
	if v == nil {
		return 0, strconv.ErrSyntax
	}
	return strconv.ParseUint(string(v), 10, bits)
}

func formatUint(n uint64) string {
	return strconv.FormatUint(n, 10)
}

func formatIndex(i uint8) string {
	return strconv.Itoa(int(i))
}
