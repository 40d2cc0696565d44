package transport

import (
	"net"
	"time"

	"github.com/google/uuid"

	"github.com/poyrazK/stubresolve/internal/dns/packet"
)

// rcvBufSize is the receive buffer requested on outbound sockets; large
// enough to absorb a TCP AXFR response chunk without extra syscalls.
const rcvBufSize = 1 << 20

// Response is a decoded (or synthesized) reply together with the
// transport-level metadata the query engine and cache need: which
// server produced it, when, how many bytes were on the wire, and — if
// every attempt failed — a human-readable error with empty sections.
type Response struct {
	Message    packet.Message
	Server     string
	CapturedAt time.Time
	ByteCount  int
	Error      string
}

// Config parameterizes both transports. Servers are tried strictly in
// order, Retries times, per Exchange call.
type Config struct {
	Servers   []string
	Timeout   time.Duration
	Retries   int
	OnFailure Listener
}

// Exchanger sends a built request message and returns a Response. It
// never returns a Go error: every failure mode (socket error, timeout,
// id mismatch, protocol error) is reported inside the returned Response
// per SPEC_FULL.md §7's "no exceptions escape the query engine" policy.
type Exchanger interface {
	Exchange(req *packet.Message, correlationID uuid.UUID) *Response
}

func timeoutResponse() *Response {
	return &Response{
		CapturedAt: time.Now(),
		Error:      "Timeout Error",
	}
}

func dialer(cfg *Config) *net.Dialer {
	return &net.Dialer{
		Timeout: cfg.Timeout,
		Control: controlSocket,
	}
}
