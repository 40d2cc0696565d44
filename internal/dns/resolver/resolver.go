// Package resolver is the stub-resolver query engine: it builds a
// request, dispatches it over the configured transport with
// retry/failover, consults the TTL cache, and records metrics.
package resolver

import (
	"log/slog"
	"net"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/poyrazK/stubresolve/internal/dns/cache"
	"github.com/poyrazK/stubresolve/internal/dns/packet"
	"github.com/poyrazK/stubresolve/internal/dns/transport"
	"github.com/poyrazK/stubresolve/internal/metrics"
)

// Response is the resolver's result type. The struct itself lives in
// package transport (the layer that actually constructs it, on success
// or failure); this alias lets callers of package resolver spell it as
// resolver.Response without resolver and transport importing each other.
type Response = transport.Response

// TransportType selects how a query is sent.
type TransportType int

const (
	UDP TransportType = iota
	TCP
)

// ServerDiscovery returns an ordered list of "ip:port" endpoints, for a
// Resolver constructed without explicit DnsServers. Left for the
// embedding application to implement — OS resolver-config enumeration
// is out of scope (SPEC_FULL.md §1 non-goals).
type ServerDiscovery func() ([]string, error)

// Config is the resolver's full external configuration surface.
type Config struct {
	DnsServers    []string
	Timeout       time.Duration
	Retries       int
	Recursion     bool
	TransportType TransportType
	UseCache      bool
	Logger        *slog.Logger
	OnFailure     transport.Listener
}

func (c *Config) applyDefaults() {
	if c.Timeout <= 0 {
		c.Timeout = 1 * time.Second
	}
	if c.Retries < 1 {
		c.Retries = 3
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	if c.OnFailure == nil {
		logger := c.Logger
		c.OnFailure = func(correlationID uuid.UUID, message string) {
			logger.Warn("transport attempt failed", "correlation_id", correlationID, "message", message)
		}
	}
}

// Resolver is a configured stub resolver. The zero value is not usable;
// construct with New.
type Resolver struct {
	cfg   Config
	cache *cache.Cache
	seq   idSequence
}

// New builds a Resolver from cfg, resolving defaults and, if a
// configured server is not a literal IP address, treating it as a
// hostname to look up via an internal A query against the configured
// servers; the first A answer's address, on port 53, then becomes the
// sole server.
func New(cfg Config) (*Resolver, error) {
	cfg.applyDefaults()

	r := &Resolver{cfg: cfg}
	if cfg.UseCache {
		r.cache = cache.New()
	}

	if err := r.resolveHostnameServers(); err != nil {
		return nil, err
	}
	return r, nil
}

// Close releases the resolver's background cache sweep goroutine.
func (r *Resolver) Close() {
	if r.cache != nil {
		r.cache.Close()
	}
}

func (r *Resolver) resolveHostnameServers() error {
	for _, server := range r.cfg.DnsServers {
		host := server
		if h, _, err := net.SplitHostPort(server); err == nil {
			host = h
		}
		if net.ParseIP(host) != nil {
			continue
		}

		resolved := r.GetResponse(host, packet.TypeA, packet.ClassIN)
		if resolved.Error != "" || len(resolved.Message.Answers) == 0 {
			return &ConfigError{Field: "DnsServers", Message: "could not resolve " + server}
		}
		ip := resolved.Message.Answers[0].IP
		if ip == nil {
			return &ConfigError{Field: "DnsServers", Message: "A answer for " + server + " had no address"}
		}
		r.cfg.DnsServers = []string{net.JoinHostPort(ip.String(), "53")}
		return nil
	}
	return nil
}

// GetResponse resolves a single (qname, qtype, qclass) question. qname
// has a trailing "." appended if missing; a zero qclass defaults to IN.
func (r *Resolver) GetResponse(qname string, qtype packet.RRType, qclass packet.Class) *Response {
	if !strings.HasSuffix(qname, ".") {
		qname += "."
	}
	if qclass == 0 {
		qclass = packet.ClassIN
	}

	correlationID := uuid.New()
	transportName := r.transportName()

	key := cache.Key(qclass, qtype, qname)
	if r.cfg.UseCache {
		if hit, ok := r.cache.Get(key); ok {
			metrics.CacheOperations.WithLabelValues("hit").Inc()
			return hit
		}
		metrics.CacheOperations.WithLabelValues("miss").Inc()
	}

	req := &packet.Message{
		Header: packet.Header{
			ID:               r.seq.nextID(),
			RecursionDesired: r.cfg.Recursion,
			Opcode:           packet.OpcodeQuery,
		},
		Questions: []packet.Question{{Name: qname, Type: qtype, Class: qclass}},
	}

	start := time.Now()
	resp := r.dispatch(req, correlationID)
	metrics.QueryDuration.WithLabelValues(transportName).Observe(time.Since(start).Seconds())
	metrics.QueriesTotal.WithLabelValues(qtype.String(), rcodeLabel(resp), transportName).Inc()

	r.cfg.Logger.Debug("resolved query",
		"qname", qname, "qtype", qtype.String(), "transport", transportName,
		"correlation_id", correlationID, "rcode", rcodeLabel(resp), "elapsed", time.Since(start))

	if r.cfg.UseCache && resp.Error == "" && resp.Message.Header.Rcode == packet.RcodeNoError && len(resp.Message.Questions) > 0 {
		r.cache.Set(key, resp)
	}

	return resp
}

func (r *Resolver) dispatch(req *packet.Message, correlationID uuid.UUID) *Response {
	if len(r.cfg.DnsServers) == 0 {
		return &Response{CapturedAt: time.Now(), Error: (&ConfigError{Field: "DnsServers", Message: "no servers configured"}).Error()}
	}

	tcfg := transport.Config{
		Servers:   r.cfg.DnsServers,
		Timeout:   r.cfg.Timeout,
		Retries:   r.cfg.Retries,
		OnFailure: r.cfg.OnFailure,
	}

	var ex transport.Exchanger
	switch r.cfg.TransportType {
	case UDP:
		ex = transport.NewUDP(tcfg)
	case TCP:
		ex = transport.NewTCP(tcfg)
	default:
		return &Response{CapturedAt: time.Now(), Error: (&ConfigError{Field: "TransportType", Message: "unknown transport type"}).Error()}
	}

	return ex.Exchange(req, correlationID)
}

func (r *Resolver) transportName() string {
	if r.cfg.TransportType == TCP {
		return "tcp"
	}
	return "udp"
}

func rcodeLabel(resp *Response) string {
	if resp.Error != "" {
		return "transport_error"
	}
	switch resp.Message.Header.Rcode {
	case packet.RcodeNoError:
		return "NOERROR"
	case packet.RcodeFormErr:
		return "FORMERR"
	case packet.RcodeServFail:
		return "SERVFAIL"
	case packet.RcodeNxDomain:
		return "NXDOMAIN"
	case packet.RcodeNotImp:
		return "NOTIMP"
	case packet.RcodeRefused:
		return "REFUSED"
	default:
		return "OTHER"
	}
}
