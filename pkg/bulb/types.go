package bulb

import (
	"fmt"
	"net"
	"strconv"
	"time"
)

// Addr identifies a bulb by host and UDP port. It is the natural key for
// registry lookups and is immutable once a client is constructed.
type Addr struct {
	Host string `json:"host"`
	Port int    `json:"port"`
}

// String returns the address in host:port form.
func (a Addr) String() string {
	return net.JoinHostPort(a.Host, strconv.Itoa(a.Port))
}

// ParseAddr parses a host:port string into an Addr.
func ParseAddr(s string) (Addr, error) {
	host, portStr, err := net.SplitHostPort(s)
	if err != nil {
		return Addr{}, fmt.Errorf("parse bulb address %q: %w", s, err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil || port < 1 || port > 65535 {
		return Addr{}, fmt.Errorf("parse bulb address %q: invalid port", s)
	}
	return Addr{Host: host, Port: port}, nil
}

// DefaultPort is the UDP port bulb firmware listens on out of the box.
const DefaultPort = 4000

// DefaultTimeout is the per-command response window used when a Config
// does not specify one.
const DefaultTimeout = 5 * time.Second

// Config holds the connection settings for a single bulb. It is owned
// exclusively by the client built from it.
type Config struct {
	Addr    Addr
	Timeout time.Duration
}

func (c Config) timeout() time.Duration {
	if c.Timeout <= 0 {
		return DefaultTimeout
	}
	return c.Timeout
}

// Status is the best-known snapshot of a bulb's state. It is updated by the
// owning client on every successful status fetch or mutating command and can
// be read without a network round trip.
type Status struct {
	Power      bool  `json:"power"`
	Brightness int   `json:"brightness"`
	Color      Color `json:"color"`
	Connected  bool  `json:"connected"`
}

// defaultStatus matches the state a factory-fresh bulb reports: off, dark,
// white, and not yet reached.
func defaultStatus() Status {
	return Status{
		Power:      false,
		Brightness: 0,
		Color:      Color{R: 255, G: 255, B: 255},
		Connected:  false,
	}
}
