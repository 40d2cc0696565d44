package transport

import (
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/poyrazK/stubresolve/internal/dns/packet"
	"github.com/poyrazK/stubresolve/internal/metrics"
)

// TCP implements Exchanger over stream sockets with 2-octet big-endian
// length-prefix framing, grounded on the teacher's performAXFR. Unlike
// UDP there is no 512-octet cap, and a TypeAXFR question streams
// multiple framed messages back, terminated by a second SOA record in
// the accumulated Answers section (the teacher's own termination rule).
type TCP struct {
	cfg Config
}

// NewTCP returns a TCP transport using cfg.
func NewTCP(cfg Config) *TCP {
	return &TCP{cfg: cfg}
}

// Exchange sends req to the configured servers, retrying up to
// cfg.Retries times, and returns the first valid reply (or an
// aggregated AXFR Response, if req's question is TypeAXFR).
func (t *TCP) Exchange(req *packet.Message, correlationID uuid.UUID) *Response {
	reqBuf := packet.NewBuffer()
	if err := req.Write(reqBuf); err != nil {
		return &Response{CapturedAt: time.Now(), Error: err.Error()}
	}
	reqBytes := reqBuf.Bytes()

	isAXFR := len(req.Questions) > 0 && req.Questions[0].Type == packet.TypeAXFR

	retries := t.cfg.Retries
	if retries < 1 {
		retries = 1
	}

	for attempt := 0; attempt < retries; attempt++ {
		for _, server := range t.cfg.Servers {
			if attempt > 0 {
				metrics.RetriesTotal.WithLabelValues("tcp").Inc()
			}
			var resp *Response
			var err error
			if isAXFR {
				resp, err = t.exchangeAXFR(server, reqBytes)
			} else {
				resp, err = t.exchangeOne(server, reqBytes, req.Header.ID)
			}
			if err != nil {
				t.cfg.notify(correlationID, "tcp attempt to %s failed: %v", server, err)
				continue
			}
			return resp
		}
	}
	return timeoutResponse()
}

func (t *TCP) dial(server string) (tcpConn, error) {
	conn, err := dialer(&t.cfg).Dial("tcp", server)
	if err != nil {
		return nil, &TransportError{Server: server, Operation: "dial", Err: err}
	}
	if err := conn.SetDeadline(time.Now().Add(t.cfg.Timeout)); err != nil {
		conn.Close()
		return nil, &TransportError{Server: server, Operation: "set deadline", Err: err}
	}
	return conn, nil
}

// tcpConn is the subset of net.Conn this file needs.
type tcpConn interface {
	io.ReadWriteCloser
}

func writeFramed(conn tcpConn, data []byte) error {
	length := len(data)
	prefix := []byte{byte(length >> 8), byte(length)}
	if _, err := conn.Write(prefix); err != nil {
		return err
	}
	_, err := conn.Write(data)
	return err
}

func readFramed(conn tcpConn) ([]byte, error) {
	lenBuf := make([]byte, 2)
	if _, err := io.ReadFull(conn, lenBuf); err != nil {
		return nil, err
	}
	n := int(lenBuf[0])<<8 | int(lenBuf[1])
	if n <= 0 {
		return nil, errZeroLengthFrame
	}
	data := make([]byte, n)
	if _, err := io.ReadFull(conn, data); err != nil {
		return nil, err
	}
	return data, nil
}

func (t *TCP) exchangeOne(server string, reqBytes []byte, wantID uint16) (*Response, error) {
	conn, err := t.dial(server)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	if err := writeFramed(conn, reqBytes); err != nil {
		return nil, &TransportError{Server: server, Operation: "write", Err: err}
	}

	data, err := readFramed(conn)
	if err != nil {
		return nil, &TransportError{Server: server, Operation: "read", Err: err}
	}

	buf := packet.GetBuffer()
	defer packet.PutBuffer(buf)
	buf.Strict = true
	buf.Load(data)

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
		ByteCount:  len(data),
	}, nil
}

func (t *TCP) exchangeAXFR(server string, reqBytes []byte) (*Response, error) {
	conn, err := t.dial(server)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	if err := writeFramed(conn, reqBytes); err != nil {
		return nil, &TransportError{Server: server, Operation: "write", Err: err}
	}

	agg := &packet.Message{}
	totalBytes := 0
	seenFirstSOA := false

	for {
		data, err := readFramed(conn)
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, &TransportError{Server: server, Operation: "read", Err: err}
		}
		totalBytes += len(data)

		buf := packet.GetBuffer()
		buf.Strict = true
		buf.Load(data)

		var msg packet.Message
		decodeErr := msg.FromBuffer(buf)
		packet.PutBuffer(buf)
		if decodeErr != nil {
			return nil, &TransportError{Server: server, Operation: "decode", Err: decodeErr}
		}

		if msg.Header.Rcode != packet.RcodeNoError {
			return nil, &TransportError{Server: server, Operation: "axfr", Err: rcodeError(msg.Header.Rcode)}
		}

		agg.Authorities = append(agg.Authorities, msg.Authorities...)
		agg.Additionals = append(agg.Additionals, msg.Additionals...)

		for _, rr := range msg.Answers {
			agg.Answers = append(agg.Answers, rr)
			if rr.Type == packet.TypeSOA {
				if seenFirstSOA {
					agg.Header.QDCount = uint16(len(agg.Questions))
					agg.Header.ANCount = uint16(len(agg.Answers))
					agg.Header.NSCount = uint16(len(agg.Authorities))
					agg.Header.ARCount = uint16(len(agg.Additionals))
					return &Response{
						Message:    *agg,
						Server:     server,
						CapturedAt: time.Now(),
						ByteCount:  totalBytes,
					}, nil
				}
				seenFirstSOA = true
			}
		}
	}

	return nil, &TransportError{Server: server, Operation: "axfr", Err: errIncompleteTransfer}
}

var errZeroLengthFrame = framingError("zero-length TCP frame")
var errIncompleteTransfer = framingError("connection closed before second SOA")

type framingError string

func (e framingError) Error() string { return string(e) }

type rcodeError uint8

func (e rcodeError) Error() string { return "axfr response rcode != NOERROR" }
