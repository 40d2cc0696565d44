package packet

import "fmt"

// RRType is the 16-bit DNS resource-record type code (RFC 1035 §3.2.2
// and subsequent RFCs). Type dispatch for decoding RDATA is a closed
// enumeration keyed by this value (SPEC_FULL.md §4.2, §9).
type RRType uint16

const (
	TypeA          RRType = 1
	TypeNS         RRType = 2
	TypeMD         RRType = 3
	TypeMF         RRType = 4
	TypeCNAME      RRType = 5
	TypeSOA        RRType = 6
	TypeMB         RRType = 7
	TypeMG         RRType = 8
	TypeMR         RRType = 9
	TypeNULL       RRType = 10
	TypeWKS        RRType = 11
	TypePTR        RRType = 12
	TypeHINFO      RRType = 13
	TypeMINFO      RRType = 14
	TypeMX         RRType = 15
	TypeTXT        RRType = 16
	TypeRP         RRType = 17
	TypeAFSDB      RRType = 18
	TypeX25        RRType = 19
	TypeISDN       RRType = 20
	TypeRT         RRType = 21
	TypeNSAP       RRType = 22
	TypeNSAPPTR    RRType = 23
	TypeSIG        RRType = 24
	TypeKEY        RRType = 25
	TypePX         RRType = 26
	TypeGPOS       RRType = 27
	TypeAAAA       RRType = 28
	TypeLOC        RRType = 29
	TypeNXT        RRType = 30
	TypeEID        RRType = 31
	TypeNIMLOC     RRType = 32
	TypeSRV        RRType = 33
	TypeATMA       RRType = 34
	TypeNAPTR      RRType = 35
	TypeKX         RRType = 36
	TypeCERT       RRType = 37
	TypeA6         RRType = 38
	TypeDNAME      RRType = 39
	TypeSINK       RRType = 40
	TypeOPT        RRType = 41
	TypeAPL        RRType = 42
	TypeDS         RRType = 43
	TypeSSHFP      RRType = 44
	TypeIPSECKEY   RRType = 45
	TypeRRSIG      RRType = 46
	TypeNSEC       RRType = 47
	TypeDNSKEY     RRType = 48
	TypeDHCID      RRType = 49
	TypeNSEC3      RRType = 50
	TypeNSEC3PARAM RRType = 51
	TypeTLSA       RRType = 52
	TypeSMIMEA     RRType = 53
	TypeHIP        RRType = 55
	TypeCDS        RRType = 59
	TypeCDNSKEY    RRType = 60
	TypeOPENPGPKEY RRType = 61
	TypeCSYNC      RRType = 62
	TypeUNSPEC     RRType = 103
	TypeSPF        RRType = 99
	TypeTKEY       RRType = 249
	TypeTSIG       RRType = 250
	TypeIXFR       RRType = 251
	TypeAXFR       RRType = 252
	TypeANY        RRType = 255
)

// Class is the 16-bit DNS class field. IN (Internet) is the only class
// in real-world use; the codec preserves whatever value is on the wire.
type Class uint16

const ClassIN Class = 1

// String returns the conventional mnemonic for t, or "TYPE<n>" for
// anything not in the closed enumeration above.
func (t RRType) String() string {
	switch t {
	case TypeA:
		return "A"
	case TypeNS:
		return "NS"
	case TypeMD:
		return "MD"
	case TypeMF:
		return "MF"
	case TypeCNAME:
		return "CNAME"
	case TypeSOA:
		return "SOA"
	case TypeMB:
		return "MB"
	case TypeMG:
		return "MG"
	case TypeMR:
		return "MR"
	case TypeNULL:
		return "NULL"
	case TypeWKS:
		return "WKS"
	case TypePTR:
		return "PTR"
	case TypeHINFO:
		return "HINFO"
	case TypeMINFO:
		return "MINFO"
	case TypeMX:
		return "MX"
	case TypeTXT:
		return "TXT"
	case TypeRP:
		return "RP"
	case TypeAFSDB:
		return "AFSDB"
	case TypeX25:
		return "X25"
	case TypeISDN:
		return "ISDN"
	case TypeRT:
		return "RT"
	case TypeNSAP:
		return "NSAP"
	case TypeNSAPPTR:
		return "NSAP-PTR"
	case TypeSIG:
		return "SIG"
	case TypeKEY:
		return "KEY"
	case TypePX:
		return "PX"
	case TypeGPOS:
		return "GPOS"
	case TypeAAAA:
		return "AAAA"
	case TypeLOC:
		return "LOC"
	case TypeNXT:
		return "NXT"
	case TypeEID:
		return "EID"
	case TypeNIMLOC:
		return "NIMLOC"
	case TypeSRV:
		return "SRV"
	case TypeATMA:
		return "ATMA"
	case TypeNAPTR:
		return "NAPTR"
	case TypeKX:
		return "KX"
	case TypeCERT:
		return "CERT"
	case TypeA6:
		return "A6"
	case TypeDNAME:
		return "DNAME"
	case TypeSINK:
		return "SINK"
	case TypeOPT:
		return "OPT"
	case TypeAPL:
		return "APL"
	case TypeDS:
		return "DS"
	case TypeSSHFP:
		return "SSHFP"
	case TypeIPSECKEY:
		return "IPSECKEY"
	case TypeRRSIG:
		return "RRSIG"
	case TypeNSEC:
		return "NSEC"
	case TypeDNSKEY:
		return "DNSKEY"
	case TypeDHCID:
		return "DHCID"
	case TypeNSEC3:
		return "NSEC3"
	case TypeNSEC3PARAM:
		return "NSEC3PARAM"
	case TypeTLSA:
		return "TLSA"
	case TypeSMIMEA:
		return "SMIMEA"
	case TypeHIP:
		return "HIP"
	case TypeCDS:
		return "CDS"
	case TypeCDNSKEY:
		return "CDNSKEY"
	case TypeOPENPGPKEY:
		return "OPENPGPKEY"
	case TypeCSYNC:
		return "CSYNC"
	case TypeUNSPEC:
		return "UNSPEC"
	case TypeSPF:
		return "SPF"
	case TypeTKEY:
		return "TKEY"
	case TypeTSIG:
		return "TSIG"
	case TypeIXFR:
		return "IXFR"
	case TypeAXFR:
		return "AXFR"
	case TypeANY:
		return "ANY"
	default:
		return fmt.Sprintf("TYPE%d", uint16(t))
	}
}

// Opcode values for the header's OPCODE field.
const (
	OpcodeQuery  uint8 = 0
	OpcodeIQuery uint8 = 1
	OpcodeStatus uint8 = 2
	OpcodeNotify uint8 = 4
	OpcodeUpdate uint8 = 5
)

// Rcode values for the header's RCODE field.
const (
	RcodeNoError  uint8 = 0
	RcodeFormErr  uint8 = 1
	RcodeServFail uint8 = 2
	RcodeNxDomain uint8 = 3
	RcodeNotImp   uint8 = 4
	RcodeRefused  uint8 = 5
	RcodeYxDomain uint8 = 6
	RcodeYxRRSet  uint8 = 7
	RcodeNxRRSet  uint8 = 8
	RcodeNotAuth  uint8 = 9
	RcodeNotZone  uint8 = 10
)
