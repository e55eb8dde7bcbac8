package bulb

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// State is the lifecycle state of a Client.
type State int

const (
	StateDisconnected State = iota
	StateConnecting
	StateConnected
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// pendingReply is how the receive loop (or Close) hands a result back to the
// goroutine suspended in Send.
type pendingReply struct {
	resp Response
	err  error
}

// Client owns one UDP endpoint bound to a single bulb and turns the
// connectionless, unordered datagram channel into a call/response API.
// Commands carry correlation ids; a background receive loop matches replies
// to the pending table. Replies may arrive out of send order — the
// correlation id is the only identity guarantee.
type Client struct {
	cfg Config

	mu      sync.Mutex
	state   State
	conn    *net.UDPConn
	pending map[string]chan pendingReply
	status  Status
	done    chan struct{}

	// attempt is open while a connect attempt is in flight and closed when
	// it resolves, so a racing Connect can wait for the outcome.
	attempt chan struct{}
}

// NewClient creates a client for the bulb described by cfg. The client is
// Disconnected until Connect is called.
func NewClient(cfg Config) *Client {
	return &Client{
		cfg:     cfg,
		state:   StateDisconnected,
		pending: make(map[string]chan pendingReply),
		status:  defaultStatus(),
	}
}

// Addr returns the bulb address this client is bound to.
func (c *Client) Addr() Addr {
	return c.cfg.Addr
}

// Config returns the client configuration.
func (c *Client) Config() Config {
	return c.cfg
}

// State returns the current lifecycle state.
func (c *Client) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// LastStatus returns the cached snapshot without any network traffic.
func (c *Client) LastStatus() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// Connect opens the UDP endpoint, starts the receive loop and probes the bulb
// with a ping. On success the client is Connected and the snapshot is marked
// reachable. On failure the endpoint is released and the client returns to
// Disconnected so the caller can retry or discard it. A Connect that races an
// in-flight attempt waits for that attempt to resolve instead of reporting
// success early.
func (c *Client) Connect(ctx context.Context) error {
	c.mu.Lock()
	for c.state == StateConnecting {
		wait := c.attempt
		c.mu.Unlock()
		select {
		case <-wait:
		case <-ctx.Done():
			return ctx.Err()
		}
		c.mu.Lock()
	}
	switch c.state {
	case StateClosed:
		c.mu.Unlock()
		return ErrClosed
	case StateConnected:
		c.mu.Unlock()
		return nil
	}

	raddr, err := net.ResolveUDPAddr("udp", c.cfg.Addr.String())
	if err != nil {
		c.mu.Unlock()
		return fmt.Errorf("resolve bulb address %s: %w", c.cfg.Addr, err)
	}
	conn, err := net.DialUDP("udp", nil, raddr)
	if err != nil {
		c.mu.Unlock()
		return fmt.Errorf("open endpoint for %s: %w", c.cfg.Addr, err)
	}

	c.state = StateConnecting
	c.conn = conn
	c.done = make(chan struct{})
	c.pending = make(map[string]chan pendingReply)
	c.attempt = make(chan struct{})
	done := c.done
	c.mu.Unlock()

	go c.readLoop(conn, done)

	// Connectivity probe. The receive loop is already running, so the ping
	// reply resolves through the normal correlation path.
	if err := c.ping(ctx, true); err != nil {
		c.teardown()
		return fmt.Errorf("connect to bulb %s: %w", c.cfg.Addr, err)
	}

	c.mu.Lock()
	c.state = StateConnected
	c.status.Connected = true
	c.resolveAttemptLocked()
	c.mu.Unlock()

	log.Info().Str("bulb", c.cfg.Addr.String()).Msg("Connected to bulb")
	return nil
}

// resolveAttemptLocked wakes any Connect calls waiting on the in-flight
// attempt. Callers must hold c.mu.
func (c *Client) resolveAttemptLocked() {
	if c.attempt != nil {
		close(c.attempt)
		c.attempt = nil
	}
}

// teardown releases the endpoint after a failed connect attempt and returns
// the client to Disconnected.
func (c *Client) teardown() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateConnecting {
		return
	}
	c.state = StateDisconnected
	c.status.Connected = false
	if c.done != nil {
		close(c.done)
		c.done = nil
	}
	if c.conn != nil {
		_ = c.conn.Close()
		c.conn = nil
	}
	c.failPendingLocked()
	c.resolveAttemptLocked()
}

// Close cancels every in-flight command, releases the endpoint and clears the
// pending table. Closed is terminal; Close is safe to call more than once.
func (c *Client) Close() error {
	c.mu.Lock()
	if c.state == StateClosed {
		c.mu.Unlock()
		return nil
	}
	c.state = StateClosed
	c.status.Connected = false
	if c.done != nil {
		close(c.done)
		c.done = nil
	}
	var err error
	if c.conn != nil {
		err = c.conn.Close()
		c.conn = nil
	}
	c.failPendingLocked()
	c.resolveAttemptLocked()
	c.mu.Unlock()

	log.Info().Str("bulb", c.cfg.Addr.String()).Msg("Closed bulb connection")
	return err
}

// failPendingLocked resolves every suspended call with a cancellation failure.
// Callers must hold c.mu.
func (c *Client) failPendingLocked() {
	for id, ch := range c.pending {
		delete(c.pending, id)
		ch <- pendingReply{
			resp: Response{Success: false, Error: "connection closed", ID: id},
			err:  ErrClosed,
		}
	}
}

// newCommandID generates a correlation id unique enough for the per-client
// in-flight window.
func newCommandID() string {
	return uuid.NewString()[:8]
}

// Send transmits one command datagram and suspends until the matching reply
// arrives, the configured timeout elapses, or the client is closed —
// whichever happens first. A timeout or cancellation resolves to a failure
// Response carrying the command's correlation id, alongside ErrTimeout or
// ErrClosed. The pending entry is removed exactly once on every path.
func (c *Client) Send(ctx context.Context, cmd Command) (Response, error) {
	return c.send(ctx, cmd, false)
}

// send is Send plus the probing escape hatch: only the connect probe may use
// the endpoint while the client is still Connecting.
func (c *Client) send(ctx context.Context, cmd Command, probing bool) (Response, error) {
	if cmd.Name == "" {
		return Response{}, fmt.Errorf("%w: empty command name", ErrValidation)
	}
	if cmd.ID == "" {
		cmd.ID = newCommandID()
	}

	c.mu.Lock()
	if c.state != StateConnected && !(probing && c.state == StateConnecting) {
		state := c.state
		c.mu.Unlock()
		if state == StateClosed {
			return Response{}, ErrClosed
		}
		return Response{}, ErrNotConnected
	}
	if _, exists := c.pending[cmd.ID]; exists {
		c.mu.Unlock()
		return Response{}, fmt.Errorf("%w: %s", ErrDuplicateCommandID, cmd.ID)
	}
	ch := make(chan pendingReply, 1)
	c.pending[cmd.ID] = ch
	conn := c.conn
	c.mu.Unlock()

	payload, err := encodeCommand(cmd)
	if err != nil {
		c.removePending(cmd.ID)
		return Response{}, err
	}

	log.Debug().
		Str("bulb", c.cfg.Addr.String()).
		Str("command", cmd.Name).
		Str("id", cmd.ID).
		Msg("TX command")

	if _, err := conn.Write(payload); err != nil {
		c.removePending(cmd.ID)
		return Response{Success: false, Error: err.Error(), ID: cmd.ID},
			fmt.Errorf("send %s to %s: %w", cmd.Name, c.cfg.Addr, err)
	}

	timer := time.NewTimer(c.cfg.timeout())
	defer timer.Stop()

	select {
	case reply := <-ch:
		return reply.resp, reply.err

	case <-timer.C:
		c.removePending(cmd.ID)
		// The reply may have raced the timer; prefer it if so.
		select {
		case reply := <-ch:
			return reply.resp, reply.err
		default:
		}
		log.Error().
			Str("bulb", c.cfg.Addr.String()).
			Str("command", cmd.Name).
			Str("id", cmd.ID).
			Msg("Command timed out")
		return Response{Success: false, Error: "command timeout", ID: cmd.ID},
			fmt.Errorf("%w: %s (id %s)", ErrTimeout, cmd.Name, cmd.ID)

	case <-ctx.Done():
		c.removePending(cmd.ID)
		return Response{Success: false, Error: ctx.Err().Error(), ID: cmd.ID}, ctx.Err()
	}
}

// removePending drops a pending entry if it is still registered. Deleting an
// already-resolved id is a no-op, which keeps cleanup at-most-once across the
// reply, timeout and close paths.
func (c *Client) removePending(id string) {
	c.mu.Lock()
	delete(c.pending, id)
	c.mu.Unlock()
}

// pendingCount reports the number of in-flight commands.
func (c *Client) pendingCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pending)
}

// readLoop continuously reads reply datagrams from the endpoint and resolves
// matching pending entries. Unmatched or malformed datagrams are dropped.
// The loop exits when the endpoint is closed.
func (c *Client) readLoop(conn *net.UDPConn, done chan struct{}) {
	buf := make([]byte, 64*1024)
	for {
		n, err := conn.Read(buf)
		if err != nil {
			select {
			case <-done:
				return
			default:
			}
			if errors.Is(err, net.ErrClosed) {
				return
			}
			// Transient endpoint error, e.g. an ICMP unreachable surfaced
			// on the connected socket. The suspended call times out on its own.
			log.Debug().Err(err).Str("bulb", c.cfg.Addr.String()).Msg("Endpoint read error")
			continue
		}

		resp, err := decodeResponse(buf[:n])
		if err != nil {
			log.Debug().Err(err).Str("bulb", c.cfg.Addr.String()).Msg("Dropping malformed datagram")
			continue
		}

		log.Debug().
			Str("bulb", c.cfg.Addr.String()).
			Str("id", resp.ID).
			Bool("success", resp.Success).
			Msg("RX reply")

		c.mu.Lock()
		ch, ok := c.pending[resp.ID]
		if ok {
			delete(c.pending, resp.ID)
		}
		c.mu.Unlock()

		if ok {
			ch <- pendingReply{resp: resp}
		}
	}
}

// --- Device operations ---

// TurnOn powers the bulb on.
func (c *Client) TurnOn(ctx context.Context) error {
	return c.setPower(ctx, true)
}

// TurnOff powers the bulb off.
func (c *Client) TurnOff(ctx context.Context) error {
	return c.setPower(ctx, false)
}

func (c *Client) setPower(ctx context.Context, on bool) error {
	resp, err := c.Send(ctx, Command{
		Name:   CmdSetPower,
		Params: map[string]any{"power": on},
	})
	if err != nil {
		return err
	}
	if !resp.Success {
		return fmt.Errorf("set_power failed: %s", resp.Error)
	}

	c.mu.Lock()
	c.status.Power = on
	c.mu.Unlock()

	log.Info().Str("bulb", c.cfg.Addr.String()).Bool("power", on).Msg("Set bulb power")
	return nil
}

// SetBrightness sets the brightness level. Values outside [0,100] are
// rejected before any datagram is sent.
func (c *Client) SetBrightness(ctx context.Context, brightness int) error {
	if brightness < 0 || brightness > 100 {
		return fmt.Errorf("%w: brightness %d out of range [0,100]", ErrValidation, brightness)
	}

	resp, err := c.Send(ctx, Command{
		Name:   CmdSetBrightness,
		Params: map[string]any{"brightness": brightness},
	})
	if err != nil {
		return err
	}
	if !resp.Success {
		return fmt.Errorf("set_brightness failed: %s", resp.Error)
	}

	c.mu.Lock()
	c.status.Brightness = brightness
	c.mu.Unlock()

	log.Info().Str("bulb", c.cfg.Addr.String()).Int("brightness", brightness).Msg("Set bulb brightness")
	return nil
}

// SetColor sets the bulb color from an RGB triple.
func (c *Client) SetColor(ctx context.Context, color Color) error {
	resp, err := c.Send(ctx, Command{
		Name: CmdSetColor,
		Params: map[string]any{
			"color": map[string]any{"r": color.R, "g": color.G, "b": color.B},
		},
	})
	if err != nil {
		return err
	}
	if !resp.Success {
		return fmt.Errorf("set_color failed: %s", resp.Error)
	}

	c.mu.Lock()
	c.status.Color = color
	c.mu.Unlock()

	log.Info().Str("bulb", c.cfg.Addr.String()).Str("color", color.Hex()).Msg("Set bulb color")
	return nil
}

// SetColorHex sets the bulb color from a 6-hex-digit string, with or without
// a leading '#'. Invalid strings are rejected before any network traffic.
func (c *Client) SetColorHex(ctx context.Context, hex string) error {
	color, err := ParseHexColor(hex)
	if err != nil {
		return err
	}
	return c.SetColor(ctx, color)
}

// ApplyState fans a composite state payload out to the individual command
// surfaces. Any subset of power, brightness and color is accepted; properties
// are applied in a fixed order and the first failure stops the rest.
func (c *Client) ApplyState(ctx context.Context, state map[string]any) error {
	if v, ok := state["power"].(bool); ok {
		if err := c.setPower(ctx, v); err != nil {
			return err
		}
	}
	if v, ok := state["brightness"].(float64); ok {
		if err := c.SetBrightness(ctx, int(v)); err != nil {
			return err
		}
	}
	if m, ok := state["color"].(map[string]any); ok {
		color := c.LastStatus().Color
		if r, ok := m["r"].(float64); ok {
			color.R = uint8(r)
		}
		if g, ok := m["g"].(float64); ok {
			color.G = uint8(g)
		}
		if b, ok := m["b"].(float64); ok {
			color.B = uint8(b)
		}
		if err := c.SetColor(ctx, color); err != nil {
			return err
		}
	}
	return nil
}

// GetStatus fetches a fresh status from the bulb. On success the returned
// fields are merged into the cached snapshot and the bulb is marked
// reachable; on a timeout or bulb-reported failure the snapshot is marked
// unreachable but otherwise left unchanged, and the (stale) snapshot is
// returned without an error. The error return covers usage faults only —
// a client that is not connected or already closed.
func (c *Client) GetStatus(ctx context.Context) (Status, error) {
	resp, err := c.Send(ctx, Command{Name: CmdGetStatus})
	if errors.Is(err, ErrNotConnected) || errors.Is(err, ErrClosed) {
		return c.LastStatus(), err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if err == nil && resp.Success {
		c.mergeStatusLocked(resp.Data)
		c.status.Connected = true
	} else {
		c.status.Connected = false
	}
	return c.status, nil
}

// mergeStatusLocked folds a get_status data payload into the snapshot.
// Unknown fields are ignored. Callers must hold c.mu.
func (c *Client) mergeStatusLocked(data map[string]any) {
	if v, ok := data["power"].(bool); ok {
		c.status.Power = v
	}
	if v, ok := data["brightness"].(float64); ok {
		c.status.Brightness = int(v)
	}
	if m, ok := data["color"].(map[string]any); ok {
		color := c.status.Color
		if r, ok := m["r"].(float64); ok {
			color.R = uint8(r)
		}
		if g, ok := m["g"].(float64); ok {
			color.G = uint8(g)
		}
		if b, ok := m["b"].(float64); ok {
			color.B = uint8(b)
		}
		c.status.Color = color
	}
}

// Ping checks connectivity with a single round trip.
func (c *Client) Ping(ctx context.Context) error {
	return c.ping(ctx, false)
}

func (c *Client) ping(ctx context.Context, probing bool) error {
	resp, err := c.send(ctx, Command{Name: CmdPing}, probing)
	if err != nil {
		return err
	}
	if !resp.Success {
		return fmt.Errorf("ping failed: %s", resp.Error)
	}
	return nil
}
