// Command dnsquery is a thin CLI around package resolver: it builds one
// Resolver from flags, issues a single query, and prints the answer.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/poyrazK/stubresolve/internal/dns/packet"
	"github.com/poyrazK/stubresolve/internal/dns/resolver"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		slog.Error("dnsquery failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	var (
		servers     = flag.String("servers", "8.8.8.8:53", "comma-separated list of ip:port DNS servers, tried in order")
		qtypeFlag   = flag.String("type", "A", "record type to query")
		transportFl = flag.String("transport", "udp", "udp or tcp")
		timeout     = flag.Duration("timeout", time.Second, "per-attempt timeout")
		retries     = flag.Int("retries", 3, "retry count across the full server list")
		recursion   = flag.Bool("recursion", true, "set RD in the outgoing query")
		useCache    = flag.Bool("cache", true, "enable the in-process response cache")
		metricsAddr = flag.String("metrics-addr", "", "if set, serve Prometheus metrics on this address (e.g. :9153)")
	)
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	if flag.NArg() != 1 {
		return fmt.Errorf("usage: dnsquery [flags] <name>")
	}
	qname := flag.Arg(0)

	qtype, err := parseQType(*qtypeFlag)
	if err != nil {
		return err
	}

	transportType := resolver.UDP
	if strings.EqualFold(*transportFl, "tcp") {
		transportType = resolver.TCP
	}

	if *metricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		srv := &http.Server{Addr: *metricsAddr, Handler: mux}
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error("metrics server failed", "error", err)
			}
		}()
		go func() {
			<-ctx.Done()
			_ = srv.Close()
		}()
	}

	res, err := resolver.New(resolver.Config{
		DnsServers:    strings.Split(*servers, ","),
		Timeout:       *timeout,
		Retries:       *retries,
		Recursion:     *recursion,
		TransportType: transportType,
		UseCache:      *useCache,
		Logger:        logger,
	})
	if err != nil {
		return err
	}
	defer res.Close()

	resp := res.GetResponse(qname, qtype, packet.ClassIN)
	if resp.Error != "" {
		return fmt.Errorf("query failed: %s", resp.Error)
	}

	fmt.Printf(";; server: %s\n", resp.Server)
	fmt.Printf(";; rcode: %d\n", resp.Message.Header.Rcode)
	for _, rr := range resp.Message.Answers {
		fmt.Println(rr.String())
	}
	return nil
}

func parseQType(s string) (packet.RRType, error) {
	switch strings.ToUpper(s) {
	case "A":
		return packet.TypeA, nil
	case "AAAA":
		return packet.TypeAAAA, nil
	case "NS":
		return packet.TypeNS, nil
	case "CNAME":
		return packet.TypeCNAME, nil
	case "SOA":
		return packet.TypeSOA, nil
	case "PTR":
		return packet.TypePTR, nil
	case "MX":
		return packet.TypeMX, nil
	case "TXT":
		return packet.TypeTXT, nil
	case "SRV":
		return packet.TypeSRV, nil
	case "NAPTR":
		return packet.TypeNAPTR, nil
	case "AXFR":
		return packet.TypeAXFR, nil
	case "ANY":
		return packet.TypeANY, nil
	default:
		return 0, fmt.Errorf("unsupported query type %q", s)
	}
}
