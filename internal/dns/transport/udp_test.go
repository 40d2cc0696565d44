package transport

import (
	"net"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/poyrazK/stubresolve/internal/dns/packet"
)

func buildQuery(id uint16, qname string) *packet.Message {
	return &packet.Message{
		Header:    packet.Header{ID: id, RecursionDesired: true},
		Questions: []packet.Question{{Name: qname, Type: packet.TypeA, Class: packet.ClassIN}},
	}
}

// udpEchoServer answers every datagram with a NOERROR response carrying
// one A answer, copying the request's transaction id.
func udpEchoServer(t *testing.T, answer net.IP) string {
	t.Helper()
	conn, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.ParseIP("127.0.0.1")})
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	go func() {
		buf := make([]byte, 512)
		for {
			n, addr, err := conn.ReadFromUDP(buf)
			if err != nil {
				return
			}
			rb := packet.GetBuffer()
			rb.Strict = true
			rb.Load(buf[:n])
			var req packet.Message
			if err := req.FromBuffer(rb); err != nil {
				packet.PutBuffer(rb)
				continue
			}
			packet.PutBuffer(rb)

			resp := &packet.Message{
				Header:    packet.Header{ID: req.Header.ID, Response: true, RecursionAvailable: true},
				Questions: req.Questions,
				Answers:   []packet.Record{{Name: req.Questions[0].Name, Type: packet.TypeA, Class: packet.ClassIN, TTL: 60, IP: answer}},
			}
			wb := packet.NewBuffer()
			if err := resp.Write(wb); err != nil {
				continue
			}
			_, _ = conn.WriteToUDP(wb.Bytes(), addr)
		}
	}()
	return conn.LocalAddr().String()
}

func TestUDPExchangeSuccess(t *testing.T) {
	server := udpEchoServer(t, net.ParseIP("203.0.113.7"))
	ex := NewUDP(Config{Servers: []string{server}, Timeout: time.Second, Retries: 2})

	req := buildQuery(42, "example.com.")
	resp := ex.Exchange(req, uuid.New())

	require.Empty(t, resp.Error)
	require.Len(t, resp.Message.Answers, 1)
	require.True(t, resp.Message.Answers[0].IP.Equal(net.ParseIP("203.0.113.7")))
}

func TestUDPExchangeFailsOverToSecondServer(t *testing.T) {
	good := udpEchoServer(t, net.ParseIP("198.51.100.9"))
	dead := "127.0.0.1:1" // nothing listening; dial/write should fail fast or time out

	ex := NewUDP(Config{Servers: []string{dead, good}, Timeout: 200 * time.Millisecond, Retries: 1})
	resp := ex.Exchange(buildQuery(7, "example.com."), uuid.New())

	require.Empty(t, resp.Error)
	require.Equal(t, good, resp.Server)
}

func TestUDPExchangeTimesOutWhenNoServerAnswers(t *testing.T) {
	ex := NewUDP(Config{Servers: []string{"127.0.0.1:1"}, Timeout: 50 * time.Millisecond, Retries: 1})
	resp := ex.Exchange(buildQuery(1, "example.com."), uuid.New())
	require.Equal(t, "Timeout Error", resp.Error)
}

func TestUDPExchangeRejectsMismatchedTransactionID(t *testing.T) {
	conn, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.ParseIP("127.0.0.1")})
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	go func() {
		buf := make([]byte, 512)
		n, addr, err := conn.ReadFromUDP(buf)
		if err != nil {
			return
		}
		rb := packet.GetBuffer()
		rb.Strict = true
		rb.Load(buf[:n])
		var req packet.Message
		_ = req.FromBuffer(rb)
		packet.PutBuffer(rb)

		resp := &packet.Message{
			Header:    packet.Header{ID: req.Header.ID + 1, Response: true}, // wrong id
			Questions: req.Questions,
		}
		wb := packet.NewBuffer()
		_ = resp.Write(wb)
		_, _ = conn.WriteToUDP(wb.Bytes(), addr)
	}()

	ex := NewUDP(Config{Servers: []string{conn.LocalAddr().String()}, Timeout: 200 * time.Millisecond, Retries: 1})
	resp := ex.Exchange(buildQuery(99, "example.com."), uuid.New())
	require.Equal(t, "Timeout Error", resp.Error, "a reply with a mismatched id must be treated as a failed attempt, not trusted")
}
