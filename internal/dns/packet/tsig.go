package packet

import (
	"crypto/hmac"
	"crypto/md5" // #nosec G501 -- HMAC-MD5 is TSIG's mandatory-to-implement algorithm (RFC 2845)
	"errors"
	"time"
)

// VerifyTSIG checks a signed message's trailing TSIG record against
// secret (RFC 2845). rawBuffer is the message as received on the wire
// and tsigStart is the byte offset where the TSIG record begins; both
// are needed because the MAC covers the message bytes that precede the
// TSIG record, with the ARCOUNT field patched to exclude it.
func VerifyTSIG(m *Message, rawBuffer []byte, tsigStart int, secret []byte) error {
	if len(m.Additionals) == 0 {
		return errors.New("dns: no records in additional section")
	}
	tsig := m.Additionals[len(m.Additionals)-1]
	if tsig.Type != TypeTSIG {
		return errors.New("dns: last additional record is not TSIG")
	}

	now := uint64(0)
	if unixNow := time.Now().Unix(); unixNow >= 0 {
		now = uint64(unixNow)
	}
	var drift uint64
	if now > tsig.TimeSigned {
		drift = now - tsig.TimeSigned
	} else {
		drift = tsig.TimeSigned - now
	}
	if drift > uint64(tsig.Fudge) {
		return errors.New("dns: TSIG time drift exceeds fudge")
	}

	h := hmac.New(md5.New, secret)

	prefix := make([]byte, tsigStart)
	copy(prefix, rawBuffer[:tsigStart])
	if len(prefix) >= 12 {
		arCount := uint16(len(m.Additionals) - 1)
		prefix[10] = byte(arCount >> 8)
		prefix[11] = byte(arCount)
	}
	h.Write(prefix)

	if err := writeTSIGVariables(h, &tsig); err != nil {
		return err
	}

	if !hmac.Equal(tsig.MAC, h.Sum(nil)) {
		return errors.New("dns: TSIG MAC mismatch")
	}
	return nil
}

// SignTSIG appends a TSIG record (RFC 2845) authenticating everything
// already written to buffer, and returns the byte offset at which the
// TSIG record starts — a caller verifying a reply needs that offset
// back from VerifyTSIG's rawBuffer/tsigStart pair.
func SignTSIG(m *Message, buffer *Buffer, keyName string, secret []byte) (int, error) {
	signedAt := uint64(0)
	if unixNow := time.Now().Unix(); unixNow >= 0 {
		signedAt = uint64(unixNow)
	}

	tsig := Record{
		Name:          keyName,
		Type:          TypeTSIG,
		Class:         255, // ANY, per RFC 2845 §2.3
		TTL:           0,
		AlgorithmName: "hmac-md5.sig-alg.reg.int.",
		TimeSigned:    signedAt,
		Fudge:         300,
		OriginalID:    m.Header.ID,
	}

	h := hmac.New(md5.New, secret)
	h.Write(buffer.Bytes())
	if err := writeTSIGVariables(h, &tsig); err != nil {
		return 0, err
	}
	tsig.MAC = h.Sum(nil)

	m.Additionals = append(m.Additionals, tsig)
	m.Header.ARCount = uint16(len(m.Additionals))
	if len(buffer.Buf) >= 12 {
		buffer.Buf[10] = byte(m.Header.ARCount >> 8)
		buffer.Buf[11] = byte(m.Header.ARCount)
	}

	tsigStart := buffer.Position()
	if err := tsig.Write(buffer); err != nil {
		return 0, err
	}
	return tsigStart, nil
}

func writeTSIGVariables(h hashWriter, tsig *Record) error {
	vbuf := NewBuffer()
	if err := vbuf.WriteName(tsig.Name); err != nil {
		return err
	}
	if err := vbuf.Writeu16(uint16(tsig.Class)); err != nil {
		return err
	}
	if err := vbuf.Writeu32(tsig.TTL); err != nil {
		return err
	}
	if err := vbuf.WriteName(tsig.AlgorithmName); err != nil {
		return err
	}
	if err := vbuf.Writeu16(uint16(tsig.TimeSigned >> 32)); err != nil {
		return err
	}
	if err := vbuf.Writeu32(uint32(tsig.TimeSigned)); err != nil {
		return err
	}
	if err := vbuf.Writeu16(tsig.Fudge); err != nil {
		return err
	}
	if err := vbuf.Writeu16(tsig.TSIGError); err != nil {
		return err
	}
	if err := vbuf.Writeu16(uint16(len(tsig.Other))); err != nil {
		return err
	}
	if err := vbuf.WriteRange(vbuf.Position(), tsig.Other); err != nil {
		return err
	}
	h.Write(vbuf.Bytes())
	return nil
}

// hashWriter is the subset of hash.Hash that writeTSIGVariables needs;
// declared separately so it doesn't have to import "hash" just for this.
type hashWriter interface {
	Write(p []byte) (int, error)
}
