package packet

import (
	"crypto/sha1" // #nosec G505 -- SHA-1 required for DS digest type 1 (RFC 4034)
	"crypto/sha256"
	"strings"
)

// ComputeKeyTag calculates the key tag for a DNSKEY record per RFC 4034
// Appendix B. Callers use this to match an RRSIG's KeyTag against a
// DNSKEY without re-deriving a DS record first. Returns 0 for any
// record that isn't a DNSKEY.
func (r *Record) ComputeKeyTag() uint16 {
	if r.Type != TypeDNSKEY {
		return 0
	}

	buf := NewBuffer()
	_ = buf.Writeu16(r.KeyFlags)
	_ = buf.Write(3) // protocol field, fixed at 3 per RFC 4034 §2.1.2
	_ = buf.Write(r.Algorithm)
	_ = buf.WriteRange(buf.Position(), r.PublicKey)

	data := buf.Bytes()
	var ac uint32
	for i, b := range data {
		if i%2 == 0 {
			ac += uint32(b) << 8
		} else {
			ac += uint32(b)
		}
	}
	ac += (ac >> 16) & 0xFFFF
	return uint16(ac & 0xFFFF)
}

// ComputeDS derives the Delegation Signer record a parent zone would
// publish for this DNSKEY (RFC 4034 §5.2). The resolver itself never
// validates a chain of trust (SPEC_FULL.md §1 non-goals); this exists
// so a caller building its own verification on top of the parsed RRs
// doesn't have to reimplement the digest construction.
//
// digestType 1 is SHA-1, 2 is SHA-256; any other value is rejected.
func (r *Record) ComputeDS(digestType uint8) (Record, error) {
	if r.Type != TypeDNSKEY {
		return Record{}, &FormatError{Operation: "compute DS", Offset: -1, Message: "record is not a DNSKEY"}
	}

	buf := NewBuffer()
	if err := buf.WriteName(strings.ToLower(r.Name)); err != nil {
		return Record{}, err
	}
	_ = buf.Writeu16(r.KeyFlags)
	_ = buf.Write(3)
	_ = buf.Write(r.Algorithm)
	if err := buf.WriteRange(buf.Position(), r.PublicKey); err != nil {
		return Record{}, err
	}

	var digest []byte
	switch digestType {
	case 1:
		sum := sha1.Sum(buf.Bytes())
		digest = sum[:]
	case 2:
		sum := sha256.Sum256(buf.Bytes())
		digest = sum[:]
	default:
		return Record{}, &FormatError{Operation: "compute DS", Offset: -1, Message: "unsupported digest type"}
	}

	return Record{
		Name:       r.Name,
		Type:       TypeDS,
		Class:      ClassIN,
		TTL:        r.TTL,
		KeyTag:     r.ComputeKeyTag(),
		Algorithm:  r.Algorithm,
		DigestType: digestType,
		Digest:     digest,
	}, nil
}
