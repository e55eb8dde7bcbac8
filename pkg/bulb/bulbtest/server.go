// Package bulbtest provides an in-process fake bulb that speaks the UDP wire
// protocol, for use in tests across packages.
package bulbtest

import (
	"encoding/json"
	"net"
	"sync"
	"sync/atomic"
	"time"
)

// command mirrors the request datagram shape.
type command struct {
	Name   string         `json:"command"`
	ID     string         `json:"id"`
	Params map[string]any `json:"params"`
}

// response mirrors the reply datagram shape.
type response struct {
	Success bool           `json:"success"`
	Data    map[string]any `json:"data,omitempty"`
	Error   string         `json:"error,omitempty"`
	ID      string         `json:"id"`
}

// Server is a fake bulb listening on a loopback UDP port. It keeps the usual
// bulb state and answers set_power, set_brightness, set_color, get_status and
// ping. Behavior can be bent per test through Drop, Delay and Fail.
type Server struct {
	conn *net.UDPConn

	mu         sync.Mutex
	power      bool
	brightness int
	color      map[string]any

	// Drop lists command names the bulb swallows without replying.
	// Delay maps command names to an artificial reply delay.
	// Fail maps command names to an error string returned as a failure reply.
	drop  map[string]bool
	delay map[string]time.Duration
	fail  map[string]string

	received atomic.Int64
	closed   atomic.Bool
}

// Start launches a fake bulb on an ephemeral loopback port.
func Start(t interface{ Fatalf(string, ...any) }) *Server {
	conn, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1)})
	if err != nil {
		t.Fatalf("bulbtest: listen: %v", err)
	}

	s := &Server{
		conn:  conn,
		color: map[string]any{"r": float64(255), "g": float64(255), "b": float64(255)},
		drop:  make(map[string]bool),
		delay: make(map[string]time.Duration),
		fail:  make(map[string]string),
	}
	go s.serve()
	return s
}

// Host returns the loopback host the bulb listens on.
func (s *Server) Host() string {
	return "127.0.0.1"
}

// Port returns the UDP port the bulb listens on.
func (s *Server) Port() int {
	return s.conn.LocalAddr().(*net.UDPAddr).Port
}

// Received returns the number of datagrams the bulb has read.
func (s *Server) Received() int {
	return int(s.received.Load())
}

// Drop makes the bulb swallow the named command without replying.
func (s *Server) Drop(name string) {
	s.mu.Lock()
	s.drop[name] = true
	s.mu.Unlock()
}

// Delay makes the bulb wait before replying to the named command.
func (s *Server) Delay(name string, d time.Duration) {
	s.mu.Lock()
	s.delay[name] = d
	s.mu.Unlock()
}

// Fail makes the bulb answer the named command with a failure reply.
func (s *Server) Fail(name, errMsg string) {
	s.mu.Lock()
	s.fail[name] = errMsg
	s.mu.Unlock()
}

// Close shuts the bulb down.
func (s *Server) Close() {
	if s.closed.CompareAndSwap(false, true) {
		_ = s.conn.Close()
	}
}

func (s *Server) serve() {
	buf := make([]byte, 64*1024)
	for {
		n, raddr, err := s.conn.ReadFromUDP(buf)
		if err != nil {
			return
		}
		s.received.Add(1)

		var cmd command
		if err := json.Unmarshal(buf[:n], &cmd); err != nil {
			continue
		}

		// Each datagram is answered on its own goroutine so delayed replies
		// do not serialize behind one another.
		go s.handle(cmd, raddr)
	}
}

func (s *Server) handle(cmd command, raddr *net.UDPAddr) {
	s.mu.Lock()
	dropped := s.drop[cmd.Name]
	delay := s.delay[cmd.Name]
	failMsg, failing := s.fail[cmd.Name]
	s.mu.Unlock()

	if dropped {
		return
	}
	if delay > 0 {
		time.Sleep(delay)
	}

	resp := response{ID: cmd.ID}
	if failing {
		resp.Error = failMsg
	} else {
		resp = s.apply(cmd)
	}

	payload, err := json.Marshal(resp)
	if err != nil {
		return
	}
	_, _ = s.conn.WriteToUDP(payload, raddr)
}

func (s *Server) apply(cmd command) response {
	s.mu.Lock()
	defer s.mu.Unlock()

	resp := response{Success: true, ID: cmd.ID}
	switch cmd.Name {
	case "ping":
		resp.Data = map[string]any{"pong": true}
	case "set_power":
		if v, ok := cmd.Params["power"].(bool); ok {
			s.power = v
		}
	case "set_brightness":
		if v, ok := cmd.Params["brightness"].(float64); ok {
			s.brightness = int(v)
		}
	case "set_color":
		if m, ok := cmd.Params["color"].(map[string]any); ok {
			s.color = m
		}
	case "get_status":
		resp.Data = map[string]any{
			"power":      s.power,
			"brightness": float64(s.brightness),
			"color":      s.color,
			"connected":  true,
		}
	default:
		resp.Success = false
		resp.Error = "unknown command"
	}
	return resp
}
