package packet

import (
	"crypto/sha1" // #nosec G505 -- SHA-1 is the only hash algorithm NSEC3 defines
	"strings"
)

// HashName computes the NSEC3 owner-name hash for name under the given
// salt and iteration count (RFC 5155 §5). A caller walking a NSEC3
// chain to confirm non-existence hashes the query name with this and
// compares it against the NSEC3 records' owner-name labels; the
// resolver itself never does this automatically (SPEC_FULL.md §1
// non-goals exclude DNSSEC validation).
func HashName(name string, iterations uint16, salt []byte) []byte {
	name = strings.ToLower(name)
	if !strings.HasSuffix(name, ".") {
		name += "."
	}

	labels := strings.Split(strings.TrimSuffix(name, "."), ".")
	wire := make([]byte, 0, 256)
	for _, l := range labels {
		wire = append(wire, byte(len(l)))
		wire = append(wire, []byte(l)...)
	}
	wire = append(wire, 0)

	h := sha1.New() // #nosec G401
	h.Write(wire)
	h.Write(salt)
	res := h.Sum(nil)

	for i := uint16(0); i < iterations; i++ {
		h.Reset()
		h.Write(res)
		h.Write(salt)
		res = h.Sum(nil)
	}

	return res
}

// nsec3Base32Alphabet is RFC 5155 §3.3's extended hex base32 alphabet,
// not the RFC 4648 alphabet package encoding/base32 uses by default.
const nsec3Base32Alphabet = "0123456789abcdefghijklmnopqrstuv"

// Base32Encode encodes data using the NSEC3 owner-name base32 alphabet.
func Base32Encode(data []byte) string {
	var out strings.Builder
	var val uint32
	var bits uint8
	for _, b := range data {
		val = (val << 8) | uint32(b)
		bits += 8
		for bits >= 5 {
			bits -= 5
			out.WriteByte(nsec3Base32Alphabet[(val>>bits)&0x1F])
		}
	}
	if bits > 0 {
		out.WriteByte(nsec3Base32Alphabet[(val<<(5-bits))&0x1F])
	}
	return out.String()
}
