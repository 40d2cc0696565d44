package transport

import (
	"time"

	"github.com/google/uuid"

	"github.com/poyrazK/stubresolve/internal/dns/packet"
	"github.com/poyrazK/stubresolve/internal/metrics"
)

// UDP implements Exchanger over datagram sockets per RFC 1035 §4.2.1:
// no EDNS0 buffer negotiation, so replies are capped at 512 octets.
// Grounded on the teacher's recursive.go sendQuery, generalized from
// "always ask a root hint for an A record" to "ask the configured
// server list for the configured question", and hardened per
// SPEC_FULL.md §4.5/§9: a reply whose id doesn't match the outstanding
// request is treated as a transport failure instead of being trusted.
type UDP struct {
	cfg Config
}

// NewUDP returns a UDP transport using cfg.
func NewUDP(cfg Config) *UDP {
	return &UDP{cfg: cfg}
}

// Exchange sends req to the configured servers, retrying up to
// cfg.Retries times across the full server list, and returns the first
// valid reply. Exhausting every (attempt, server) pair yields a
// synthesized "Timeout Error" Response.
func (t *UDP) Exchange(req *packet.Message, correlationID uuid.UUID) *Response {
	reqBuf := packet.NewBuffer()
	if err := req.Write(reqBuf); err != nil {
		return &Response{CapturedAt: time.Now(), Error: err.Error()}
	}
	reqBytes := reqBuf.Bytes()

	retries := t.cfg.Retries
	if retries < 1 {
		retries = 1
	}

	for attempt := 0; attempt < retries; attempt++ {
		for _, server := range t.cfg.Servers {
			if attempt > 0 {
				metrics.RetriesTotal.WithLabelValues("udp").Inc()
			}
			resp, err := t.sendOne(server, reqBytes, req.Header.ID)
			if err != nil {
				t.cfg.notify(correlationID, "udp attempt to %s failed: %v", server, err)
				continue
			}
			return resp
		}
	}
	return timeoutResponse()
}

func (t *UDP) sendOne(server string, reqBytes []byte, wantID uint16) (*Response, error) {
	conn, err := dialer(&t.cfg).Dial("udp", server)
	if err != nil {
		return nil, &TransportError{Server: server, Operation: "dial", Err: err}
	}
	defer conn.Close()

	if err := conn.SetDeadline(time.Now().Add(t.cfg.Timeout)); err != nil {
		return nil, &TransportError{Server: server, Operation: "set deadline", Err: err}
	}

	if _, err := conn.Write(reqBytes); err != nil {
		return nil, &TransportError{Server: server, Operation: "write", Err: err}
	}

	raw := make([]byte, 512)
	n, err := conn.Read(raw)
	if err != nil {
		return nil, &TransportError{Server: server, Operation: "read", Err: err}
	}

	buf := packet.GetBuffer()
	defer packet.PutBuffer(buf)
	buf.Strict = true
	buf.Load(raw[:n])

	var msg packet.Message
	if err := msg.FromBuffer(buf); err != nil {
		return nil, &TransportError{Server: server, Operation: "decode", Err: err}
	}

	if msg.Header.ID != wantID {
		return nil, &TransportError{Server: server, Operation: "exchange", Err: errIDMismatch}
	}

	return &Response{
		Message:    msg,
		Server:     server,
		CapturedAt: time.Now(),
		ByteCount:  n,
	}, nil
}

var errIDMismatch = idMismatchError{}

type idMismatchError struct{}

func (idMismatchError) Error() string { return "reply transaction id does not match request" }
