package packet

import (
	"encoding/base64"
	"fmt"
	"math"
	"net"
	"strings"
)

// Record is a single resource record. Types with a modeled layout (A,
// NS/CNAME/PTR family, SOA, WKS, HINFO/X25/ISDN, MINFO/RP, MX/AFSDB/RT/
// KX/PX, TXT/SPF, AAAA, SRV, NAPTR, LOC, SIG/RRSIG, NSEC, DNSKEY, DS/CDS,
// NSEC3, NSEC3PARAM, TSIG, OPT) are decoded into the typed fields below.
// Everything else — KEY, CERT, SSHFP, IPSECKEY, HIP, TKEY, DHCID, APL,
// A6, ATMA, GPOS, NXT, EID, NIMLOC, SINK, UNSPEC, and any type this
// codec doesn't recognize — keeps RawRDATA as the sole representation.
//
// RawRDATA is always populated, even for modeled types, so a caller can
// fall back to it without re-encoding.
type Record struct {
	Name     string
	Type     RRType
	Class    Class
	TTL      uint32
	RDLength uint16
	RawRDATA []byte

	// A, AAAA
	IP net.IP

	// NS, CNAME, PTR, MB, MD, MF, MG, MR, DNAME
	Host string

	// SOA
	MName   string
	RName   string
	Serial  uint32
	Refresh uint32
	Retry   uint32
	Expire  uint32
	Minimum uint32

	// WKS
	WKSAddress  net.IP
	WKSProtocol uint8
	WKSBitmap   []byte

	// HINFO (Str1=CPU, Str2=OS); X25 (Str1=address); ISDN (Str1=address, Str2=subaddress)
	Str1 string
	Str2 string

	// MINFO (Mbox1=RMAILBX, Mbox2=EMAILBX); RP (Mbox1=mbox-dname, Mbox2=txt-dname)
	Mbox1 string
	Mbox2 string

	// MX, AFSDB, RT, KX (Exchange only); PX (Exchange=MAP822, Exchange2=MAPX400)
	Preference uint16
	Exchange   string
	Exchange2  string

	// TXT, SPF
	Strings []string

	// SRV
	Priority uint16
	Weight   uint16
	Port     uint16

	// NAPTR
	NaptrOrder       uint16
	NaptrPreference  uint16
	NaptrFlags       string
	NaptrServices    string
	NaptrRegexp      string
	NaptrReplacement string

	// LOC
	LOCVersion   uint8
	LOCSize      uint8
	LOCHorizPre  uint8
	LOCVertPre   uint8
	LOCLatitude  uint32
	LOCLongitude uint32
	LOCAltitude  uint32

	// SIG, RRSIG
	TypeCovered RRType
	Algorithm   uint8
	Labels      uint8
	OrigTTL     uint32
	Expiration  uint32
	Inception   uint32
	KeyTag      uint16
	SignerName  string
	Signature   []byte

	// NSEC
	NextName   string
	TypeBitMap []byte

	// DNSKEY
	KeyFlags  uint16
	Protocol  uint8
	PublicKey []byte

	// DS
	DigestType uint8
	Digest     []byte

	// NSEC3, NSEC3PARAM
	HashAlg       uint8
	NSEC3Flags    uint8
	Iterations    uint16
	Salt          []byte
	NextHash      []byte // absent (nil) for NSEC3PARAM

	// TSIG
	AlgorithmName string
	TimeSigned    uint64
	Fudge         uint16
	MAC           []byte
	OriginalID    uint16
	TSIGError     uint16
	Other         []byte

	// OPT: UDPPayloadSize lives in Class, ExtendedRcode/Version/Z are
	// packed into TTL per RFC 6891 §6.1.3; Options is the raw list of
	// (code, data) pairs, not further interpreted (SPEC_FULL.md §1
	// non-goals).
	Options []EDNSOption
}

// EDNSOption is a single OPT pseudo-RR option (RFC 6891 §6.1.2).
type EDNSOption struct {
	Code uint16
	Data []byte
}

func readRecord(buffer *Buffer) (*Record, error) {
	r := &Record{}

	name, err := buffer.ReadName()
	if err != nil {
		return nil, err
	}
	r.Name = name

	t, err := buffer.Readu16()
	if err != nil {
		return nil, err
	}
	r.Type = RRType(t)

	c, err := buffer.Readu16()
	if err != nil {
		return nil, err
	}
	r.Class = Class(c)

	ttl, err := buffer.Readu32()
	if err != nil {
		return nil, err
	}
	r.TTL = ttl

	rdlen, err := buffer.Readu16()
	if err != nil {
		return nil, err
	}
	r.RDLength = rdlen

	rdataStart := buffer.Position()
	raw, err := buffer.ReadRange(rdataStart, int(rdlen))
	if err != nil {
		return nil, err
	}
	r.RawRDATA = raw

	if err := r.readRDATA(buffer, rdataStart, int(rdlen)); err != nil {
		return nil, err
	}

	// After decoding, the cursor must land exactly on rdataStart+rdlen.
	// A mismatch means the rdata was short, long, or otherwise malformed
	// in a way the type-specific decoder didn't already catch (e.g. a
	// truncated SOA), and must be rejected rather than silently resynced.
	if end := buffer.Position(); end != rdataStart+int(rdlen) {
		return nil, &FormatError{Operation: "read rdata", Offset: end, Message: "cursor did not advance by rdlength"}
	}

	return r, nil
}

func (r *Record) readRDATA(buffer *Buffer, start, length int) error {
	switch r.Type {
	case TypeA:
		if length != 4 {
			return &FormatError{Operation: "read A rdata", Offset: start, Message: "expected 4 octets"}
		}
		ip, err := buffer.ReadRange(start, 4)
		if err != nil {
			return err
		}
		r.IP = net.IP(ip)
		if err := buffer.Seek(start + 4); err != nil {
			return err
		}

	case TypeAAAA:
		if length != 16 {
			return &FormatError{Operation: "read AAAA rdata", Offset: start, Message: "expected 16 octets"}
		}
		ip, err := buffer.ReadRange(start, 16)
		if err != nil {
			return err
		}
		r.IP = net.IP(ip)
		if err := buffer.Seek(start + 16); err != nil {
			return err
		}

	case TypeNS, TypeCNAME, TypePTR, TypeMB, TypeMD, TypeMF, TypeMG, TypeMR, TypeDNAME:
		if err := buffer.Seek(start); err != nil {
			return err
		}
		host, err := buffer.ReadName()
		if err != nil {
			return err
		}
		r.Host = host

	case TypeSOA:
		if err := buffer.Seek(start); err != nil {
			return err
		}
		mname, err := buffer.ReadName()
		if err != nil {
			return err
		}
		rname, err := buffer.ReadName()
		if err != nil {
			return err
		}
		r.MName = mname
		r.RName = rname
		if r.Serial, err = buffer.Readu32(); err != nil {
			return err
		}
		if r.Refresh, err = buffer.Readu32(); err != nil {
			return err
		}
		if r.Retry, err = buffer.Readu32(); err != nil {
			return err
		}
		if r.Expire, err = buffer.Readu32(); err != nil {
			return err
		}
		if r.Minimum, err = buffer.Readu32(); err != nil {
			return err
		}

	case TypeWKS:
		if err := buffer.Seek(start); err != nil {
			return err
		}
		addr, err := buffer.ReadRange(start, 4)
		if err != nil {
			return err
		}
		r.WKSAddress = net.IP(addr)
		if err := buffer.Step(4); err != nil {
			return err
		}
		proto, err := buffer.Read()
		if err != nil {
			return err
		}
		r.WKSProtocol = proto
		remaining := length - 5
		if remaining > 0 {
			bitmap, err := buffer.ReadRange(buffer.Position(), remaining)
			if err != nil {
				return err
			}
			r.WKSBitmap = bitmap
			if err := buffer.Step(remaining); err != nil {
				return err
			}
		}

	case TypeHINFO:
		if err := buffer.Seek(start); err != nil {
			return err
		}
		cpu, err := buffer.ReadCharString()
		if err != nil {
			return err
		}
		os, err := buffer.ReadCharString()
		if err != nil {
			return err
		}
		r.Str1, r.Str2 = cpu, os

	case TypeX25:
		if err := buffer.Seek(start); err != nil {
			return err
		}
		addr, err := buffer.ReadCharString()
		if err != nil {
			return err
		}
		r.Str1 = addr

	case TypeISDN:
		if err := buffer.Seek(start); err != nil {
			return err
		}
		addr, err := buffer.ReadCharString()
		if err != nil {
			return err
		}
		r.Str1 = addr
		if buffer.Position() < start+length {
			sub, err := buffer.ReadCharString()
			if err != nil {
				return err
			}
			r.Str2 = sub
		}

	case TypeMINFO:
		if err := buffer.Seek(start); err != nil {
			return err
		}
		rmbx, err := buffer.ReadName()
		if err != nil {
			return err
		}
		embx, err := buffer.ReadName()
		if err != nil {
			return err
		}
		r.Mbox1, r.Mbox2 = rmbx, embx

	case TypeRP:
		if err := buffer.Seek(start); err != nil {
			return err
		}
		mbox, err := buffer.ReadName()
		if err != nil {
			return err
		}
		txt, err := buffer.ReadName()
		if err != nil {
			return err
		}
		r.Mbox1, r.Mbox2 = mbox, txt

	case TypeMX, TypeAFSDB, TypeRT, TypeKX:
		if err := buffer.Seek(start); err != nil {
			return err
		}
		pref, err := buffer.Readu16()
		if err != nil {
			return err
		}
		host, err := buffer.ReadName()
		if err != nil {
			return err
		}
		r.Preference = pref
		r.Exchange = host

	case TypePX:
		if err := buffer.Seek(start); err != nil {
			return err
		}
		pref, err := buffer.Readu16()
		if err != nil {
			return err
		}
		map822, err := buffer.ReadName()
		if err != nil {
			return err
		}
		mapx400, err := buffer.ReadName()
		if err != nil {
			return err
		}
		r.Preference = pref
		r.Exchange = map822
		r.Exchange2 = mapx400

	case TypeTXT, TypeSPF:
		if err := buffer.Seek(start); err != nil {
			return err
		}
		var strs []string
		for buffer.Position() < start+length {
			s, err := buffer.ReadCharString()
			if err != nil {
				return err
			}
			strs = append(strs, s)
		}
		r.Strings = strs

	case TypeSRV:
		if err := buffer.Seek(start); err != nil {
			return err
		}
		prio, err := buffer.Readu16()
		if err != nil {
			return err
		}
		weight, err := buffer.Readu16()
		if err != nil {
			return err
		}
		port, err := buffer.Readu16()
		if err != nil {
			return err
		}
		target, err := buffer.ReadName()
		if err != nil {
			return err
		}
		r.Priority, r.Weight, r.Port, r.Host = prio, weight, port, target

	case TypeNAPTR:
		if err := buffer.Seek(start); err != nil {
			return err
		}
		order, err := buffer.Readu16()
		if err != nil {
			return err
		}
		pref, err := buffer.Readu16()
		if err != nil {
			return err
		}
		flags, err := buffer.ReadCharString()
		if err != nil {
			return err
		}
		services, err := buffer.ReadCharString()
		if err != nil {
			return err
		}
		regexp, err := buffer.ReadCharString()
		if err != nil {
			return err
		}
		replacement, err := buffer.ReadName()
		if err != nil {
			return err
		}
		r.NaptrOrder = order
		r.NaptrPreference = pref
		r.NaptrFlags = flags
		r.NaptrServices = services
		r.NaptrRegexp = regexp
		r.NaptrReplacement = replacement

	case TypeLOC:
		if err := buffer.Seek(start); err != nil {
			return err
		}
		version, err := buffer.Read()
		if err != nil {
			return err
		}
		size, err := buffer.Read()
		if err != nil {
			return err
		}
		horizPre, err := buffer.Read()
		if err != nil {
			return err
		}
		vertPre, err := buffer.Read()
		if err != nil {
			return err
		}
		lat, err := buffer.Readu32()
		if err != nil {
			return err
		}
		lon, err := buffer.Readu32()
		if err != nil {
			return err
		}
		alt, err := buffer.Readu32()
		if err != nil {
			return err
		}
		r.LOCVersion = version
		r.LOCSize = size
		r.LOCHorizPre = horizPre
		r.LOCVertPre = vertPre
		r.LOCLatitude = lat
		r.LOCLongitude = lon
		r.LOCAltitude = alt

	case TypeSIG, TypeRRSIG:
		if err := buffer.Seek(start); err != nil {
			return err
		}
		covered, err := buffer.Readu16()
		if err != nil {
			return err
		}
		algo, err := buffer.Read()
		if err != nil {
			return err
		}
		labels, err := buffer.Read()
		if err != nil {
			return err
		}
		origTTL, err := buffer.Readu32()
		if err != nil {
			return err
		}
		exp, err := buffer.Readu32()
		if err != nil {
			return err
		}
		inc, err := buffer.Readu32()
		if err != nil {
			return err
		}
		keyTag, err := buffer.Readu16()
		if err != nil {
			return err
		}
		signer, err := buffer.ReadName()
		if err != nil {
			return err
		}
		sigLen := start + length - buffer.Position()
		if sigLen < 0 {
			return &FormatError{Operation: "read SIG rdata", Offset: buffer.Position(), Message: "signer name overruns rdlength"}
		}
		sig, err := buffer.ReadRange(buffer.Position(), sigLen)
		if err != nil {
			return err
		}
		if err := buffer.Step(sigLen); err != nil {
			return err
		}
		r.TypeCovered = RRType(covered)
		r.Algorithm = algo
		r.Labels = labels
		r.OrigTTL = origTTL
		r.Expiration = exp
		r.Inception = inc
		r.KeyTag = keyTag
		r.SignerName = signer
		r.Signature = sig

	case TypeNSEC:
		if err := buffer.Seek(start); err != nil {
			return err
		}
		next, err := buffer.ReadName()
		if err != nil {
			return err
		}
		bmLen := start + length - buffer.Position()
		if bmLen < 0 {
			return &FormatError{Operation: "read NSEC rdata", Offset: buffer.Position(), Message: "next-name overruns rdlength"}
		}
		bm, err := buffer.ReadRange(buffer.Position(), bmLen)
		if err != nil {
			return err
		}
		if err := buffer.Step(bmLen); err != nil {
			return err
		}
		r.NextName = next
		r.TypeBitMap = bm

	case TypeDNSKEY:
		if err := buffer.Seek(start); err != nil {
			return err
		}
		flags, err := buffer.Readu16()
		if err != nil {
			return err
		}
		proto, err := buffer.Read()
		if err != nil {
			return err
		}
		algo, err := buffer.Read()
		if err != nil {
			return err
		}
		keyLen := length - 4
		if keyLen < 0 {
			return &FormatError{Operation: "read DNSKEY rdata", Offset: start, Message: "rdlength too short"}
		}
		key, err := buffer.ReadRange(buffer.Position(), keyLen)
		if err != nil {
			return err
		}
		if err := buffer.Step(keyLen); err != nil {
			return err
		}
		r.KeyFlags = flags
		r.Protocol = proto
		r.Algorithm = algo
		r.PublicKey = key

	case TypeDS, TypeCDS:
		if err := buffer.Seek(start); err != nil {
			return err
		}
		keyTag, err := buffer.Readu16()
		if err != nil {
			return err
		}
		algo, err := buffer.Read()
		if err != nil {
			return err
		}
		digestType, err := buffer.Read()
		if err != nil {
			return err
		}
		digestLen := length - 4
		if digestLen < 0 {
			return &FormatError{Operation: "read DS rdata", Offset: start, Message: "rdlength too short"}
		}
		digest, err := buffer.ReadRange(buffer.Position(), digestLen)
		if err != nil {
			return err
		}
		if err := buffer.Step(digestLen); err != nil {
			return err
		}
		r.KeyTag = keyTag
		r.Algorithm = algo
		r.DigestType = digestType
		r.Digest = digest

	case TypeNSEC3:
		if err := buffer.Seek(start); err != nil {
			return err
		}
		hashAlg, err := buffer.Read()
		if err != nil {
			return err
		}
		flags, err := buffer.Read()
		if err != nil {
			return err
		}
		iterations, err := buffer.Readu16()
		if err != nil {
			return err
		}
		saltLen, err := buffer.Read()
		if err != nil {
			return err
		}
		salt, err := buffer.ReadRange(buffer.Position(), int(saltLen))
		if err != nil {
			return err
		}
		if err := buffer.Step(int(saltLen)); err != nil {
			return err
		}
		hashLen, err := buffer.Read()
		if err != nil {
			return err
		}
		hash, err := buffer.ReadRange(buffer.Position(), int(hashLen))
		if err != nil {
			return err
		}
		if err := buffer.Step(int(hashLen)); err != nil {
			return err
		}
		bmLen := start + length - buffer.Position()
		if bmLen < 0 {
			return &FormatError{Operation: "read NSEC3 rdata", Offset: buffer.Position(), Message: "rdlength too short"}
		}
		bm, err := buffer.ReadRange(buffer.Position(), bmLen)
		if err != nil {
			return err
		}
		if err := buffer.Step(bmLen); err != nil {
			return err
		}
		r.HashAlg = hashAlg
		r.NSEC3Flags = flags
		r.Iterations = iterations
		r.Salt = salt
		r.NextHash = hash
		r.TypeBitMap = bm

	case TypeNSEC3PARAM:
		if err := buffer.Seek(start); err != nil {
			return err
		}
		hashAlg, err := buffer.Read()
		if err != nil {
			return err
		}
		flags, err := buffer.Read()
		if err != nil {
			return err
		}
		iterations, err := buffer.Readu16()
		if err != nil {
			return err
		}
		saltLen, err := buffer.Read()
		if err != nil {
			return err
		}
		salt, err := buffer.ReadRange(buffer.Position(), int(saltLen))
		if err != nil {
			return err
		}
		if err := buffer.Step(int(saltLen)); err != nil {
			return err
		}
		r.HashAlg = hashAlg
		r.NSEC3Flags = flags
		r.Iterations = iterations
		r.Salt = salt

	case TypeTSIG:
		if err := buffer.Seek(start); err != nil {
			return err
		}
		algoName, err := buffer.ReadName()
		if err != nil {
			return err
		}
		timeHi, err := buffer.Readu16()
		if err != nil {
			return err
		}
		timeLo, err := buffer.Readu32()
		if err != nil {
			return err
		}
		fudge, err := buffer.Readu16()
		if err != nil {
			return err
		}
		macLen, err := buffer.Readu16()
		if err != nil {
			return err
		}
		mac, err := buffer.ReadRange(buffer.Position(), int(macLen))
		if err != nil {
			return err
		}
		if err := buffer.Step(int(macLen)); err != nil {
			return err
		}
		origID, err := buffer.Readu16()
		if err != nil {
			return err
		}
		tsigErr, err := buffer.Readu16()
		if err != nil {
			return err
		}
		otherLen, err := buffer.Readu16()
		if err != nil {
			return err
		}
		other, err := buffer.ReadRange(buffer.Position(), int(otherLen))
		if err != nil {
			return err
		}
		if err := buffer.Step(int(otherLen)); err != nil {
			return err
		}
		r.AlgorithmName = algoName
		r.TimeSigned = uint64(timeHi)<<32 | uint64(timeLo)
		r.Fudge = fudge
		r.MAC = mac
		r.OriginalID = origID
		r.TSIGError = tsigErr
		r.Other = other

	case TypeOPT:
		if err := buffer.Seek(start); err != nil {
			return err
		}
		var opts []EDNSOption
		for buffer.Position() < start+length {
			code, err := buffer.Readu16()
			if err != nil {
				return err
			}
			dataLen, err := buffer.Readu16()
			if err != nil {
				return err
			}
			data, err := buffer.ReadRange(buffer.Position(), int(dataLen))
			if err != nil {
				return err
			}
			if err := buffer.Step(int(dataLen)); err != nil {
				return err
			}
			opts = append(opts, EDNSOption{Code: code, Data: data})
		}
		r.Options = opts

	default:
		// Opaque group (KEY, CERT, SSHFP, IPSECKEY, HIP, TKEY, DHCID,
		// APL, A6, ATMA, GPOS, NXT, EID, NIMLOC, SINK, UNSPEC, and
		// anything unrecognized): RawRDATA already holds the bytes, so
		// just skip over them.
		if err := buffer.Seek(start + length); err != nil {
			return err
		}
	}
	return nil
}

// Write serializes r into buffer, patching in the rdlength once the
// rdata bytes are known.
func (r *Record) Write(buffer *Buffer) error {
	if err := buffer.WriteName(r.Name); err != nil {
		return err
	}
	if err := buffer.Writeu16(uint16(r.Type)); err != nil {
		return err
	}
	class := r.Class
	if class == 0 {
		class = ClassIN
	}
	if err := buffer.Writeu16(uint16(class)); err != nil {
		return err
	}
	if err := buffer.Writeu32(r.TTL); err != nil {
		return err
	}

	lenPos := buffer.Position()
	if err := buffer.Writeu16(0); err != nil {
		return err
	}
	rdataStart := buffer.Position()

	if err := r.writeRDATA(buffer); err != nil {
		return err
	}

	rdlen := buffer.Position() - rdataStart
	if err := buffer.WriteRange(lenPos, []byte{byte(rdlen >> 8), byte(rdlen)}); err != nil {
		return err
	}
	return nil
}

func (r *Record) writeRDATA(buffer *Buffer) error {
	switch r.Type {
	case TypeA:
		ip := r.IP.To4()
		if ip == nil {
			return &FormatError{Operation: "write A rdata", Offset: buffer.Position(), Message: "not an IPv4 address"}
		}
		return buffer.WriteRange(buffer.Position(), ip)

	case TypeAAAA:
		ip := r.IP.To16()
		if ip == nil {
			return &FormatError{Operation: "write AAAA rdata", Offset: buffer.Position(), Message: "not an IPv6 address"}
		}
		return buffer.WriteRange(buffer.Position(), ip)

	case TypeNS, TypeCNAME, TypePTR, TypeMB, TypeMD, TypeMF, TypeMG, TypeMR, TypeDNAME:
		return buffer.WriteName(r.Host)

	case TypeSOA:
		if err := buffer.WriteName(r.MName); err != nil {
			return err
		}
		if err := buffer.WriteName(r.RName); err != nil {
			return err
		}
		for _, v := range []uint32{r.Serial, r.Refresh, r.Retry, r.Expire, r.Minimum} {
			if err := buffer.Writeu32(v); err != nil {
				return err
			}
		}
		return nil

	case TypeWKS:
		ip := r.WKSAddress.To4()
		if ip == nil {
			return &FormatError{Operation: "write WKS rdata", Offset: buffer.Position(), Message: "not an IPv4 address"}
		}
		if err := buffer.WriteRange(buffer.Position(), ip); err != nil {
			return err
		}
		if err := buffer.Write(r.WKSProtocol); err != nil {
			return err
		}
		return buffer.WriteRange(buffer.Position(), r.WKSBitmap)

	case TypeHINFO:
		if err := buffer.WriteCharString(r.Str1); err != nil {
			return err
		}
		return buffer.WriteCharString(r.Str2)

	case TypeX25:
		return buffer.WriteCharString(r.Str1)

	case TypeISDN:
		if err := buffer.WriteCharString(r.Str1); err != nil {
			return err
		}
		if r.Str2 != "" {
			return buffer.WriteCharString(r.Str2)
		}
		return nil

	case TypeMINFO:
		if err := buffer.WriteName(r.Mbox1); err != nil {
			return err
		}
		return buffer.WriteName(r.Mbox2)

	case TypeRP:
		if err := buffer.WriteName(r.Mbox1); err != nil {
			return err
		}
		return buffer.WriteName(r.Mbox2)

	case TypeMX, TypeAFSDB, TypeRT, TypeKX:
		if err := buffer.Writeu16(r.Preference); err != nil {
			return err
		}
		return buffer.WriteName(r.Exchange)

	case TypePX:
		if err := buffer.Writeu16(r.Preference); err != nil {
			return err
		}
		if err := buffer.WriteName(r.Exchange); err != nil {
			return err
		}
		return buffer.WriteName(r.Exchange2)

	case TypeTXT, TypeSPF:
		for _, s := range r.Strings {
			if err := buffer.WriteCharString(s); err != nil {
				return err
			}
		}
		return nil

	case TypeSRV:
		if err := buffer.Writeu16(r.Priority); err != nil {
			return err
		}
		if err := buffer.Writeu16(r.Weight); err != nil {
			return err
		}
		if err := buffer.Writeu16(r.Port); err != nil {
			return err
		}
		return buffer.WriteName(r.Host)

	case TypeNAPTR:
		if err := buffer.Writeu16(r.NaptrOrder); err != nil {
			return err
		}
		if err := buffer.Writeu16(r.NaptrPreference); err != nil {
			return err
		}
		if err := buffer.WriteCharString(r.NaptrFlags); err != nil {
			return err
		}
		if err := buffer.WriteCharString(r.NaptrServices); err != nil {
			return err
		}
		if err := buffer.WriteCharString(r.NaptrRegexp); err != nil {
			return err
		}
		return buffer.WriteName(r.NaptrReplacement)

	case TypeLOC:
		for _, v := range []uint8{r.LOCVersion, r.LOCSize, r.LOCHorizPre, r.LOCVertPre} {
			if err := buffer.Write(v); err != nil {
				return err
			}
		}
		for _, v := range []uint32{r.LOCLatitude, r.LOCLongitude, r.LOCAltitude} {
			if err := buffer.Writeu32(v); err != nil {
				return err
			}
		}
		return nil

	case TypeSIG, TypeRRSIG:
		if err := buffer.Writeu16(uint16(r.TypeCovered)); err != nil {
			return err
		}
		if err := buffer.Write(r.Algorithm); err != nil {
			return err
		}
		if err := buffer.Write(r.Labels); err != nil {
			return err
		}
		if err := buffer.Writeu32(r.OrigTTL); err != nil {
			return err
		}
		if err := buffer.Writeu32(r.Expiration); err != nil {
			return err
		}
		if err := buffer.Writeu32(r.Inception); err != nil {
			return err
		}
		if err := buffer.Writeu16(r.KeyTag); err != nil {
			return err
		}
		if err := buffer.WriteName(r.SignerName); err != nil {
			return err
		}
		return buffer.WriteRange(buffer.Position(), r.Signature)

	case TypeNSEC:
		if err := buffer.WriteName(r.NextName); err != nil {
			return err
		}
		return buffer.WriteRange(buffer.Position(), r.TypeBitMap)

	case TypeDNSKEY:
		if err := buffer.Writeu16(r.KeyFlags); err != nil {
			return err
		}
		if err := buffer.Write(r.Protocol); err != nil {
			return err
		}
		if err := buffer.Write(r.Algorithm); err != nil {
			return err
		}
		return buffer.WriteRange(buffer.Position(), r.PublicKey)

	case TypeDS, TypeCDS:
		if err := buffer.Writeu16(r.KeyTag); err != nil {
			return err
		}
		if err := buffer.Write(r.Algorithm); err != nil {
			return err
		}
		if err := buffer.Write(r.DigestType); err != nil {
			return err
		}
		return buffer.WriteRange(buffer.Position(), r.Digest)

	case TypeNSEC3:
		if err := buffer.Write(r.HashAlg); err != nil {
			return err
		}
		if err := buffer.Write(r.NSEC3Flags); err != nil {
			return err
		}
		if err := buffer.Writeu16(r.Iterations); err != nil {
			return err
		}
		if err := buffer.Write(byte(len(r.Salt))); err != nil {
			return err
		}
		if err := buffer.WriteRange(buffer.Position(), r.Salt); err != nil {
			return err
		}
		if err := buffer.Write(byte(len(r.NextHash))); err != nil {
			return err
		}
		if err := buffer.WriteRange(buffer.Position(), r.NextHash); err != nil {
			return err
		}
		return buffer.WriteRange(buffer.Position(), r.TypeBitMap)

	case TypeNSEC3PARAM:
		if err := buffer.Write(r.HashAlg); err != nil {
			return err
		}
		if err := buffer.Write(r.NSEC3Flags); err != nil {
			return err
		}
		if err := buffer.Writeu16(r.Iterations); err != nil {
			return err
		}
		if err := buffer.Write(byte(len(r.Salt))); err != nil {
			return err
		}
		return buffer.WriteRange(buffer.Position(), r.Salt)

	case TypeTSIG:
		if err := buffer.WriteName(r.AlgorithmName); err != nil {
			return err
		}
		if err := buffer.Writeu16(uint16(r.TimeSigned >> 32)); err != nil {
			return err
		}
		if err := buffer.Writeu32(uint32(r.TimeSigned)); err != nil {
			return err
		}
		if err := buffer.Writeu16(r.Fudge); err != nil {
			return err
		}
		if err := buffer.Writeu16(uint16(len(r.MAC))); err != nil {
			return err
		}
		if err := buffer.WriteRange(buffer.Position(), r.MAC); err != nil {
			return err
		}
		if err := buffer.Writeu16(r.OriginalID); err != nil {
			return err
		}
		if err := buffer.Writeu16(r.TSIGError); err != nil {
			return err
		}
		if err := buffer.Writeu16(uint16(len(r.Other))); err != nil {
			return err
		}
		return buffer.WriteRange(buffer.Position(), r.Other)

	case TypeOPT:
		for _, opt := range r.Options {
			if err := buffer.Writeu16(opt.Code); err != nil {
				return err
			}
			if err := buffer.Writeu16(uint16(len(opt.Data))); err != nil {
				return err
			}
			if err := buffer.WriteRange(buffer.Position(), opt.Data); err != nil {
				return err
			}
		}
		return nil

	default:
		return buffer.WriteRange(buffer.Position(), r.RawRDATA)
	}
}

// String renders r in a zone-file-like presentation format, used by
// cmd/dnsquery and in test failure messages. Only the modeled types get
// a type-specific rendering; everything else falls back to a hex dump
// of RawRDATA.
func (r *Record) String() string {
	head := fmt.Sprintf("%s\t%d\t%s\t%s", r.Name, r.TTL, "IN", r.Type)

	switch r.Type {
	case TypeA, TypeAAAA:
		return fmt.Sprintf("%s\t%s", head, r.IP)

	case TypeNS, TypeCNAME, TypePTR, TypeMB, TypeMD, TypeMF, TypeMG, TypeMR, TypeDNAME:
		return fmt.Sprintf("%s\t%s", head, r.Host)

	case TypeSOA:
		return fmt.Sprintf("%s\t%s %s %d %d %d %d %d",
			head, r.MName, r.RName, r.Serial, r.Refresh, r.Retry, r.Expire, r.Minimum)

	case TypeMX, TypeAFSDB, TypeRT, TypeKX:
		return fmt.Sprintf("%s\t%d %s", head, r.Preference, r.Exchange)

	case TypeTXT, TypeSPF:
		quoted := make([]string, len(r.Strings))
		for i, s := range r.Strings {
			quoted[i] = fmt.Sprintf("%q", s)
		}
		return fmt.Sprintf("%s\t%s", head, strings.Join(quoted, " "))

	case TypeSRV:
		return fmt.Sprintf("%s\t%d %d %d %s", head, r.Priority, r.Weight, r.Port, r.Host)

	case TypeNAPTR:
		return fmt.Sprintf("%s\t%d %d %q %q %q %s",
			head, r.NaptrOrder, r.NaptrPreference, r.NaptrFlags, r.NaptrServices, r.NaptrRegexp, r.NaptrReplacement)

	case TypeLOC:
		lat := locDegrees(r.LOCLatitude, "N", "S")
		lon := locDegrees(r.LOCLongitude, "E", "W")
		altMeters := (float64(r.LOCAltitude) / 100.0) - 100000.0
		return fmt.Sprintf("%s\t%s %s %.2fm %s %s %s", head, lat, lon, altMeters,
			locPrecision(r.LOCSize), locPrecision(r.LOCHorizPre), locPrecision(r.LOCVertPre))

	case TypeHINFO:
		return fmt.Sprintf("%s\t%q %q", head, r.Str1, r.Str2)

	case TypeDS, TypeCDS:
		return fmt.Sprintf("%s\t%d %d %d %X", head, r.KeyTag, r.Algorithm, r.DigestType, r.Digest)

	case TypeDNSKEY:
		return fmt.Sprintf("%s\t%d %d %d %s", head, r.KeyFlags, r.Protocol, r.Algorithm, base64.StdEncoding.EncodeToString(r.PublicKey))

	case TypeSIG, TypeRRSIG:
		return fmt.Sprintf("%s\t%s %d %d %d %d %d %d %s", head,
			r.TypeCovered, r.Algorithm, r.Labels, r.OrigTTL, r.Expiration, r.Inception, r.KeyTag, r.SignerName)

	case TypeNSEC:
		return fmt.Sprintf("%s\t%s", head, r.NextName)

	default:
		return fmt.Sprintf("%s\t\\# %d %x", head, len(r.RawRDATA), r.RawRDATA)
	}
}

// locDegrees renders a LOC latitude/longitude field (stored as
// 2^31 + (1000 * signed-arcseconds)) as "D M S.sss H", where H is pos
// for the northern/eastern hemisphere and neg for the southern/western one.
func locDegrees(raw uint32, pos, neg string) string {
	const equator = uint32(1) << 31
	hemi := pos
	var milliarcsec int64
	if raw >= equator {
		milliarcsec = int64(raw - equator)
	} else {
		milliarcsec = int64(equator - raw)
		hemi = neg
	}

	remaining := milliarcsec
	degrees := remaining / (3600 * 1000)
	remaining -= degrees * 3600 * 1000
	minutes := remaining / (60 * 1000)
	remaining -= minutes * 60 * 1000
	seconds := float64(remaining) / 1000.0

	return fmt.Sprintf("%d %d %.3f %s", degrees, minutes, seconds, hemi)
}

// locPrecision decodes a LOC SIZE/HORIZ PRE/VERT PRE octet, packed as
// (base<<4)|exponent meaning base*10^exponent centimeters, into the
// meters value used in the record's text rendering.
func locPrecision(raw uint8) string {
	base := float64(raw >> 4)
	exponent := float64(raw & 0x0f)
	centimeters := base * math.Pow(10, exponent)
	meters := centimeters / 100.0
	return fmt.Sprintf("%gm", meters)
}
