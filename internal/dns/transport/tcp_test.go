package transport

import (
	"encoding/binary"
	"io"
	"net"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/poyrazK/stubresolve/internal/dns/packet"
)

func writeFrame(t *testing.T, conn net.Conn, msg *packet.Message) {
	t.Helper()
	wb := packet.NewBuffer()
	require.NoError(t, msg.Write(wb))
	data := wb.Bytes()

	prefix := make([]byte, 2)
	binary.BigEndian.PutUint16(prefix, uint16(len(data)))
	_, err := conn.Write(prefix)
	require.NoError(t, err)
	_, err = conn.Write(data)
	require.NoError(t, err)
}

func readFrame(t *testing.T, conn net.Conn) *packet.Message {
	t.Helper()
	lenBuf := make([]byte, 2)
	_, err := io.ReadFull(conn, lenBuf)
	require.NoError(t, err)
	n := int(lenBuf[0])<<8 | int(lenBuf[1])
	data := make([]byte, n)
	_, err = io.ReadFull(conn, data)
	require.NoError(t, err)

	buf := packet.GetBuffer()
	defer packet.PutBuffer(buf)
	buf.Strict = true
	buf.Load(data)
	var msg packet.Message
	require.NoError(t, msg.FromBuffer(buf))
	return &msg
}

func TestTCPExchangeSuccess(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { ln.Close() })

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		req := readFrame(t, conn)
		resp := &packet.Message{
			Header:    packet.Header{ID: req.Header.ID, Response: true},
			Questions: req.Questions,
			Answers:   []packet.Record{{Name: req.Questions[0].Name, Type: packet.TypeA, Class: packet.ClassIN, TTL: 120, IP: mustParseIP(t, "192.0.2.55")}},
		}
		writeFrame(t, conn, resp)
	}()

	ex := NewTCP(Config{Servers: []string{ln.Addr().String()}, Timeout: time.Second, Retries: 1})
	resp := ex.Exchange(buildQuery(5, "example.com."), uuid.New())

	require.Empty(t, resp.Error)
	require.Len(t, resp.Message.Answers, 1)
	require.True(t, resp.Message.Answers[0].IP.Equal(mustParseIP(t, "192.0.2.55")))
}

func TestTCPExchangeAXFRTerminatesOnSecondSOA(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { ln.Close() })

	soa := packet.Record{Name: "example.com.", Type: packet.TypeSOA, Class: packet.ClassIN, TTL: 3600,
		MName: "ns1.example.com.", RName: "hostmaster.example.com.", Serial: 1, Refresh: 1, Retry: 1, Expire: 1, Minimum: 1}
	a := packet.Record{Name: "example.com.", Type: packet.TypeA, Class: packet.ClassIN, TTL: 300, IP: mustParseIP(t, "192.0.2.1")}
	ns := packet.Record{Name: "example.com.", Type: packet.TypeNS, Class: packet.ClassIN, TTL: 3600, Host: "ns1.example.com."}
	glue := packet.Record{Name: "ns1.example.com.", Type: packet.TypeA, Class: packet.ClassIN, TTL: 3600, IP: mustParseIP(t, "192.0.2.53")}

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		_ = readFrame(t, conn) // the AXFR query itself

		writeFrame(t, conn, &packet.Message{
			Header:      packet.Header{Response: true},
			Answers:     []packet.Record{soa, a},
			Authorities: []packet.Record{ns},
			Additionals: []packet.Record{glue},
		})
		writeFrame(t, conn, &packet.Message{Header: packet.Header{Response: true}, Answers: []packet.Record{soa}})
	}()

	ex := NewTCP(Config{Servers: []string{ln.Addr().String()}, Timeout: time.Second, Retries: 1})
	req := &packet.Message{Header: packet.Header{ID: 1}, Questions: []packet.Question{{Name: "example.com.", Type: packet.TypeAXFR, Class: packet.ClassIN}}}
	resp := ex.Exchange(req, uuid.New())

	require.Empty(t, resp.Error)
	require.Len(t, resp.Message.Answers, 3, "both frames' answers should be aggregated, stopping at the second SOA")
	require.Len(t, resp.Message.Authorities, 1, "authorities from every frame should be aggregated, not just answers")
	require.Equal(t, ns.Host, resp.Message.Authorities[0].Host)
	require.Len(t, resp.Message.Additionals, 1, "additionals from every frame should be aggregated, not just answers")
	require.True(t, resp.Message.Additionals[0].IP.Equal(glue.IP))

	require.EqualValues(t, len(resp.Message.Answers), resp.Message.Header.ANCount, "ANCount must be recomputed for the synthesized response")
	require.EqualValues(t, len(resp.Message.Authorities), resp.Message.Header.NSCount, "NSCount must be recomputed for the synthesized response")
	require.EqualValues(t, len(resp.Message.Additionals), resp.Message.Header.ARCount, "ARCount must be recomputed for the synthesized response")
	require.EqualValues(t, len(resp.Message.Questions), resp.Message.Header.QDCount, "QDCount must be recomputed for the synthesized response")
}

func mustParseIP(t *testing.T, s string) net.IP {
	t.Helper()
	ip := net.ParseIP(s)
	require.NotNil(t, ip)
	return ip
}
