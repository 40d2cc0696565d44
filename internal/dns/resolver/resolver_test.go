package resolver

import (
	"net"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/poyrazK/stubresolve/internal/dns/cache"
	"github.com/poyrazK/stubresolve/internal/dns/packet"
)

func TestGetResponseWithNoServersIsConfigError(t *testing.T) {
	r, err := New(Config{DnsServers: nil, UseCache: false})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer r.Close()

	resp := r.GetResponse("example.com", packet.TypeA, packet.ClassIN)
	if !strings.Contains(resp.Error, "no servers configured") {
		t.Fatalf("expected a no-servers ConfigError, got %q", resp.Error)
	}
}

func TestDispatchRejectsUnknownTransportType(t *testing.T) {
	r := &Resolver{cfg: Config{DnsServers: []string{"127.0.0.1:53"}, Timeout: time.Second, Retries: 1, TransportType: TransportType(99)}}
	resp := r.dispatch(&packet.Message{}, uuid.New())
	if !strings.Contains(resp.Error, "unknown transport type") {
		t.Fatalf("expected an unknown-transport ConfigError, got %q", resp.Error)
	}
}

func TestGetResponseAppendsTrailingDotAndDefaultsClass(t *testing.T) {
	server := fakeUDPServer(t, net.ParseIP("203.0.113.50"))
	r, err := New(Config{DnsServers: []string{server}, Timeout: time.Second, Retries: 1, UseCache: false})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer r.Close()

	resp := r.GetResponse("example.com", packet.TypeA, 0)
	if resp.Error != "" {
		t.Fatalf("unexpected error: %s", resp.Error)
	}
	if len(resp.Message.Questions) != 1 || resp.Message.Questions[0].Name != "example.com." {
		t.Fatalf("expected trailing-dot qname, got %+v", resp.Message.Questions)
	}
	if resp.Message.Questions[0].Class != packet.ClassIN {
		t.Fatalf("expected default class IN, got %v", resp.Message.Questions[0].Class)
	}
}

func TestGetResponseCachesSuccessfulAnswers(t *testing.T) {
	server := fakeUDPServer(t, net.ParseIP("198.51.100.20"))
	r, err := New(Config{DnsServers: []string{server}, Timeout: time.Second, Retries: 1, UseCache: true})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer r.Close()

	first := r.GetResponse("cached.example.", packet.TypeA, packet.ClassIN)
	if first.Error != "" {
		t.Fatalf("unexpected error: %s", first.Error)
	}

	key := cache.Key(packet.ClassIN, packet.TypeA, "cached.example.")
	hit, ok := r.cache.Get(key)
	if !ok {
		t.Fatalf("expected a cache hit after a successful resolution")
	}
	if !hit.Message.Answers[0].IP.Equal(first.Message.Answers[0].IP) {
		t.Fatalf("cached answer does not match resolved answer")
	}
}

func fakeUDPServer(t *testing.T, answer net.IP) string {
	t.Helper()
	conn, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.ParseIP("127.0.0.1")})
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
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
				Header:    packet.Header{ID: req.Header.ID, Response: true},
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
