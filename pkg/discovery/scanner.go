// Package discovery locates bulbs on the local subnet and maintains a
// registry of live connections keyed by address.
package discovery

import (
	"context"
	"fmt"
	"net"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/urmzd/intelliglow/pkg/bulb"
)

// PortRange is an inclusive UDP port interval to probe on every host.
type PortRange struct {
	Start int
	End   int
}

// DefaultPortRange covers the ports bulb firmware is known to listen on.
var DefaultPortRange = PortRange{Start: 4000, End: 4010}

// defaultProbeConcurrency bounds how many probes run at once. A /24 times a
// ten-port range is ~2800 candidates; probing them all simultaneously would
// exhaust file descriptors.
const defaultProbeConcurrency = 128

// Bulb describes a responder found during a scan.
type Bulb struct {
	Addr         bulb.Addr     `json:"addr"`
	ResponseTime time.Duration `json:"response_time"`
}

// Scanner probes an address space for bulbs. Every candidate is checked with
// a short-lived throwaway client; a candidate counts as discovered only if
// the client's connectivity probe succeeds.
type Scanner struct {
	// ProbeConcurrency caps concurrent probes. Zero means the default.
	ProbeConcurrency int

	// localIP is swappable for tests.
	localIP func() (net.IP, error)
}

// NewScanner creates a scanner that derives the subnet from the machine's
// outbound route.
func NewScanner() *Scanner {
	return &Scanner{localIP: outboundIP}
}

// Discover scans every (host 1-254, port in range) pair on the local /24.
// The timeout is the budget for the whole sweep: each probe gets one tenth of
// it, and probes still queued when the budget runs out fail fast instead of
// taking their full window. Unreachable candidates are collected silently; a
// single dead address never fails the scan. Results are sorted by response
// time.
func (s *Scanner) Discover(ctx context.Context, timeout time.Duration, ports PortRange) ([]Bulb, error) {
	if timeout <= 0 {
		timeout = bulb.DefaultTimeout
	}
	if ports.Start == 0 && ports.End == 0 {
		ports = DefaultPortRange
	}
	if ports.End < ports.Start {
		return nil, fmt.Errorf("invalid port range %d-%d", ports.Start, ports.End)
	}

	ip, err := s.localIP()
	if err != nil {
		return nil, fmt.Errorf("determine local subnet: %w", err)
	}
	v4 := ip.To4()
	if v4 == nil {
		return nil, fmt.Errorf("local address %s is not IPv4", ip)
	}

	candidates := make([]bulb.Addr, 0, 254*(ports.End-ports.Start+1))
	for host := 1; host < 255; host++ {
		for port := ports.Start; port <= ports.End; port++ {
			candidates = append(candidates, bulb.Addr{
				Host: fmt.Sprintf("%d.%d.%d.%d", v4[0], v4[1], v4[2], host),
				Port: port,
			})
		}
	}

	log.Info().
		Str("subnet", fmt.Sprintf("%d.%d.%d.0/24", v4[0], v4[1], v4[2])).
		Int("candidates", len(candidates)).
		Msg("Scanning for bulbs")

	// With more candidates than pool slots the sweep runs in waves; the
	// deadline keeps the sum of those waves inside the budget.
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	found := s.scan(ctx, candidates, timeout/10)

	log.Info().Int("found", len(found)).Msg("Discovery completed")
	return found, nil
}

// scan probes the given candidates with a bounded worker pool and collects
// the responders. Probe failures are never fatal to the scan.
func (s *Scanner) scan(ctx context.Context, candidates []bulb.Addr, probeTimeout time.Duration) []Bulb {
	width := s.ProbeConcurrency
	if width <= 0 {
		width = defaultProbeConcurrency
	}

	var (
		mu    sync.Mutex
		found []Bulb
	)

	g := &errgroup.Group{}
	g.SetLimit(width)
	for _, addr := range candidates {
		g.Go(func() error {
			if b, ok := probe(ctx, addr, probeTimeout); ok {
				mu.Lock()
				found = append(found, b)
				mu.Unlock()
				log.Info().Str("bulb", b.Addr.String()).Dur("rtt", b.ResponseTime).Msg("Discovered bulb")
			}
			return nil
		})
	}
	_ = g.Wait()

	sort.Slice(found, func(i, j int) bool {
		return found[i].ResponseTime < found[j].ResponseTime
	})
	return found
}

// probe checks one candidate with a throwaway client. Any failure just means
// "not a bulb".
func probe(ctx context.Context, addr bulb.Addr, timeout time.Duration) (Bulb, bool) {
	c := bulb.NewClient(bulb.Config{Addr: addr, Timeout: timeout})

	start := time.Now()
	if err := c.Connect(ctx); err != nil {
		return Bulb{}, false
	}
	rtt := time.Since(start)
	_ = c.Close()

	return Bulb{Addr: addr, ResponseTime: rtt}, true
}

// outboundIP determines the local IP the default route uses. The dial never
// sends a packet; it only resolves the source address.
func outboundIP() (net.IP, error) {
	conn, err := net.Dial("udp", "8.8.8.8:80")
	if err != nil {
		return nil, err
	}
	defer func() { _ = conn.Close() }()
	return conn.LocalAddr().(*net.UDPAddr).IP, nil
}
