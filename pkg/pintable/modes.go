package pintable

import (
	"math/bits"
	"strings"
)

// MaxColumns is the width of ModeSet. Tables wider than this are rejected.
const MaxColumns = 128

// ModeSet is a fixed-width bitset keyed by pin-table column index.
type ModeSet [MaxColumns / 64]uint64

// Set enables column i.
func (m *ModeSet) Set(i int) { m[i/64] |= 1 << (uint(i) % 64) }

// Has reports whether column i is enabled.
func (m ModeSet) Has(i int) bool {
	if i < 0 || i >= MaxColumns {
		return false
	}
	return m[i/64]&(1<<(uint(i)%64)) != 0
}

// Any reports whether at least one column is enabled.
func (m ModeSet) Any() bool { return m[0] != 0 || m[1] != 0 }

// Count returns the number of enabled columns.
func (m ModeSet) Count() int { return bits.OnesCount64(m[0]) + bits.OnesCount64(m[1]) }

// And returns the intersection of m and o.
func (m ModeSet) And(o ModeSet) ModeSet { return ModeSet{m[0] & o[0], m[1] & o[1]} }

// Indices returns the enabled column indices in ascending order.
func (m ModeSet) Indices() []int {
	var out []int
	for w := range m {
		word := m[w]
		for word != 0 {
			b := bits.TrailingZeros64(word)
			out = append(out, w*64+b)
			word &= word - 1
		}
	}
	return out
}

// First returns the lowest enabled column index.
func (m ModeSet) First() (int, bool) {
	for w := range m {
		if m[w] != 0 {
			return w*64 + bits.TrailingZeros64(m[w]), true
		}
	}
	return -1, false
}

// ModeKind classifies a mode column by its header suffix.
type ModeKind int

const (
	ModePlain ModeKind = iota
	ModeRX
	ModeTX
	ModeGPIO
)

func (k ModeKind) String() string {
	switch k {
	case ModeRX:
		return "RX"
	case ModeTX:
		return "TX"
	case ModeGPIO:
		return "GPIO"
	default:
		return "PLAIN"
	}
}

// isModeHeader reports whether a header names an electrical mode column.
func isModeHeader(h string) bool {
	return strings.HasPrefix(strings.ToLower(h), "mode_")
}

func classifyMode(h string) ModeKind {
	l := strings.ToLower(h)
	switch {
	case strings.HasSuffix(l, "_rx"):
		return ModeRX
	case strings.HasSuffix(l, "_tx"):
		return ModeTX
	case strings.HasSuffix(l, "_gpio"):
		return ModeGPIO
	default:
		return ModePlain
	}
}

// NormalizeModeName maps mode_foo_rx, Mode_Foo_RX and MODE_FOO_RX to the same
// canonical MODE_FOO_RX spelling.
func NormalizeModeName(name string) string {
	name = strings.TrimSpace(name)
	if len(name) >= 5 && strings.EqualFold(name[:5], "mode_") {
		return "MODE_" + strings.ToUpper(name[5:])
	}
	return strings.ToUpper(name)
}
