package bulb

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/urmzd/intelliglow/pkg/bulb/bulbtest"
)

func newTestClient(t *testing.T, srv *bulbtest.Server, timeout time.Duration) *Client {
	t.Helper()
	return NewClient(Config{
		Addr:    Addr{Host: srv.Host(), Port: srv.Port()},
		Timeout: timeout,
	})
}

func connectTestClient(t *testing.T, srv *bulbtest.Server, timeout time.Duration) *Client {
	t.Helper()
	c := newTestClient(t, srv, timeout)
	if err := c.Connect(context.Background()); err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestConnect(t *testing.T) {
	srv := bulbtest.Start(t)
	defer srv.Close()

	c := connectTestClient(t, srv, time.Second)

	if c.State() != StateConnected {
		t.Errorf("state = %v, want connected", c.State())
	}
	if !c.LastStatus().Connected {
		t.Error("snapshot should be marked reachable after connect")
	}
}

func TestConnect_ProbeFailure(t *testing.T) {
	srv := bulbtest.Start(t)
	defer srv.Close()
	srv.Drop(CmdPing)

	c := newTestClient(t, srv, 150*time.Millisecond)
	err := c.Connect(context.Background())
	if err == nil {
		t.Fatal("expected connect to fail when the probe goes unanswered")
	}
	if c.State() != StateDisconnected {
		t.Errorf("state = %v, want disconnected after failed connect", c.State())
	}
	if c.LastStatus().Connected {
		t.Error("snapshot should be unreachable after failed connect")
	}
}

func awaitState(t *testing.T, c *Client, want State) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for c.State() != want && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if c.State() != want {
		t.Fatalf("state = %v, want %v", c.State(), want)
	}
}

func TestConnect_ConcurrentWaitsForOutcome(t *testing.T) {
	srv := bulbtest.Start(t)
	defer srv.Close()
	srv.Delay(CmdPing, 200*time.Millisecond)

	c := newTestClient(t, srv, time.Second)
	t.Cleanup(func() { _ = c.Close() })

	firstDone := make(chan error, 1)
	go func() { firstDone <- c.Connect(context.Background()) }()
	awaitState(t, c, StateConnecting)

	// The racing Connect must not report success while the first attempt's
	// probe is still unresolved.
	if err := c.Connect(context.Background()); err != nil {
		t.Fatalf("racing connect: %v", err)
	}
	if c.State() != StateConnected {
		t.Errorf("state = %v after racing connect returned, want connected", c.State())
	}
	if err := <-firstDone; err != nil {
		t.Errorf("first connect: %v", err)
	}
}

func TestConnect_ConcurrentSeesProbeFailure(t *testing.T) {
	srv := bulbtest.Start(t)
	defer srv.Close()
	srv.Drop(CmdPing)

	c := newTestClient(t, srv, 150*time.Millisecond)

	firstDone := make(chan error, 1)
	go func() { firstDone <- c.Connect(context.Background()) }()
	awaitState(t, c, StateConnecting)

	// The racing caller waits the attempt out, then makes its own, which
	// fails the same way. Neither may report a connected client.
	if err := c.Connect(context.Background()); err == nil {
		t.Error("racing connect succeeded against an unresponsive bulb")
	}
	if err := <-firstDone; err == nil {
		t.Error("first connect succeeded against an unresponsive bulb")
	}
	if c.State() != StateDisconnected {
		t.Errorf("state = %v, want disconnected", c.State())
	}
}

func TestSend_RejectedWhileConnecting(t *testing.T) {
	srv := bulbtest.Start(t)
	defer srv.Close()
	srv.Delay(CmdPing, 200*time.Millisecond)

	c := newTestClient(t, srv, time.Second)
	t.Cleanup(func() { _ = c.Close() })

	done := make(chan error, 1)
	go func() { done <- c.Connect(context.Background()) }()
	awaitState(t, c, StateConnecting)

	if _, err := c.Send(context.Background(), Command{Name: CmdPing}); !errors.Is(err, ErrNotConnected) {
		t.Errorf("send during handshake: err = %v, want ErrNotConnected", err)
	}
	if err := <-done; err != nil {
		t.Fatalf("connect: %v", err)
	}
}

func TestSend_NotConnected(t *testing.T) {
	c := NewClient(Config{Addr: Addr{Host: "127.0.0.1", Port: 4000}})
	_, err := c.Send(context.Background(), Command{Name: CmdPing})
	if !errors.Is(err, ErrNotConnected) {
		t.Errorf("err = %v, want ErrNotConnected", err)
	}
}

func TestSend_EmptyName(t *testing.T) {
	srv := bulbtest.Start(t)
	defer srv.Close()
	c := connectTestClient(t, srv, time.Second)

	_, err := c.Send(context.Background(), Command{})
	if !errors.Is(err, ErrValidation) {
		t.Errorf("err = %v, want ErrValidation", err)
	}
}

func TestOperationsUpdateSnapshot(t *testing.T) {
	srv := bulbtest.Start(t)
	defer srv.Close()
	c := connectTestClient(t, srv, time.Second)
	ctx := context.Background()

	if err := c.TurnOn(ctx); err != nil {
		t.Fatalf("turn on: %v", err)
	}
	if err := c.SetBrightness(ctx, 75); err != nil {
		t.Fatalf("set brightness: %v", err)
	}
	if err := c.SetColorHex(ctx, "#FF0000"); err != nil {
		t.Fatalf("set color: %v", err)
	}

	st := c.LastStatus()
	if !st.Power {
		t.Error("snapshot power should be on")
	}
	if st.Brightness != 75 {
		t.Errorf("snapshot brightness = %d, want 75", st.Brightness)
	}
	if st.Color != (Color{R: 255, G: 0, B: 0}) {
		t.Errorf("snapshot color = %+v, want red", st.Color)
	}

	if err := c.TurnOff(ctx); err != nil {
		t.Fatalf("turn off: %v", err)
	}
	if c.LastStatus().Power {
		t.Error("snapshot power should be off")
	}
}

func TestSetBrightness_OutOfRange(t *testing.T) {
	srv := bulbtest.Start(t)
	defer srv.Close()
	c := connectTestClient(t, srv, time.Second)

	baseline := srv.Received()
	for _, b := range []int{-1, 101, 1000} {
		err := c.SetBrightness(context.Background(), b)
		if !errors.Is(err, ErrValidation) {
			t.Errorf("SetBrightness(%d): err = %v, want ErrValidation", b, err)
		}
	}

	// Give any stray datagram a moment to land.
	time.Sleep(50 * time.Millisecond)
	if got := srv.Received(); got != baseline {
		t.Errorf("out-of-range brightness sent %d datagrams", got-baseline)
	}
}

func TestSetColorHex_Invalid_NoTraffic(t *testing.T) {
	srv := bulbtest.Start(t)
	defer srv.Close()
	c := connectTestClient(t, srv, time.Second)

	baseline := srv.Received()
	err := c.SetColorHex(context.Background(), "#12345")
	if !errors.Is(err, ErrValidation) {
		t.Errorf("err = %v, want ErrValidation", err)
	}

	time.Sleep(50 * time.Millisecond)
	if got := srv.Received(); got != baseline {
		t.Errorf("invalid hex color sent %d datagrams", got-baseline)
	}
}

func TestSend_Timeout(t *testing.T) {
	srv := bulbtest.Start(t)
	defer srv.Close()

	timeout := 200 * time.Millisecond
	c := connectTestClient(t, srv, timeout)
	srv.Drop(CmdSetPower)

	start := time.Now()
	resp, err := c.Send(context.Background(), Command{
		Name:   CmdSetPower,
		Params: map[string]any{"power": true},
	})
	elapsed := time.Since(start)

	if !errors.Is(err, ErrTimeout) {
		t.Fatalf("err = %v, want ErrTimeout", err)
	}
	if resp.Success {
		t.Error("timeout response should not be successful")
	}
	if resp.ID == "" {
		t.Error("timeout response should carry the correlation id")
	}
	if elapsed < timeout {
		t.Errorf("timed out after %v, before the %v window", elapsed, timeout)
	}
	if elapsed > timeout+500*time.Millisecond {
		t.Errorf("timed out after %v, well past the %v window", elapsed, timeout)
	}
	if n := c.pendingCount(); n != 0 {
		t.Errorf("pending table has %d entries after timeout, want 0", n)
	}
}

func TestSend_OutOfOrderReplies(t *testing.T) {
	srv := bulbtest.Start(t)
	defer srv.Close()
	c := connectTestClient(t, srv, 2*time.Second)

	// The first command's reply is held back so the second command's reply
	// arrives first. Each call must still resolve to its own correlation id.
	srv.Delay(CmdSetPower, 250*time.Millisecond)

	type result struct {
		sent string
		resp Response
		err  error
	}
	results := make(chan result, 2)

	go func() {
		resp, err := c.Send(context.Background(), Command{
			Name:   CmdSetPower,
			ID:     "slow-cmd",
			Params: map[string]any{"power": true},
		})
		results <- result{sent: "slow-cmd", resp: resp, err: err}
	}()
	go func() {
		resp, err := c.Send(context.Background(), Command{Name: CmdPing, ID: "fast-cmd"})
		results <- result{sent: "fast-cmd", resp: resp, err: err}
	}()

	for i := 0; i < 2; i++ {
		r := <-results
		if r.err != nil {
			t.Fatalf("command %s: %v", r.sent, r.err)
		}
		if r.resp.ID != r.sent {
			t.Errorf("command %s resolved with reply id %s", r.sent, r.resp.ID)
		}
	}
	if n := c.pendingCount(); n != 0 {
		t.Errorf("pending table has %d entries, want 0", n)
	}
}

func TestSend_DuplicateID(t *testing.T) {
	srv := bulbtest.Start(t)
	defer srv.Close()
	c := connectTestClient(t, srv, time.Second)
	srv.Drop(CmdGetStatus)

	firstDone := make(chan struct{})
	go func() {
		_, _ = c.Send(context.Background(), Command{Name: CmdGetStatus, ID: "dup"})
		close(firstDone)
	}()

	// Wait for the first command to be registered.
	deadline := time.Now().Add(time.Second)
	for c.pendingCount() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}

	_, err := c.Send(context.Background(), Command{Name: CmdPing, ID: "dup"})
	if !errors.Is(err, ErrDuplicateCommandID) {
		t.Errorf("err = %v, want ErrDuplicateCommandID", err)
	}
	<-firstDone
}

func TestClose_CancelsPending(t *testing.T) {
	srv := bulbtest.Start(t)
	defer srv.Close()
	c := connectTestClient(t, srv, 5*time.Second)
	srv.Drop(CmdGetStatus)

	type result struct {
		resp Response
		err  error
	}
	done := make(chan result, 1)
	go func() {
		resp, err := c.Send(context.Background(), Command{Name: CmdGetStatus, ID: "pending-1"})
		done <- result{resp, err}
	}()

	deadline := time.Now().Add(time.Second)
	for c.pendingCount() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}

	if err := c.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	select {
	case r := <-done:
		if !errors.Is(r.err, ErrClosed) {
			t.Errorf("pending command err = %v, want ErrClosed", r.err)
		}
		if r.resp.Success {
			t.Error("cancelled command should resolve to a failure response")
		}
		if r.resp.ID != "pending-1" {
			t.Errorf("cancelled response id = %s, want pending-1", r.resp.ID)
		}
	case <-time.After(time.Second):
		t.Fatal("pending command was silently dropped on close")
	}

	if n := c.pendingCount(); n != 0 {
		t.Errorf("pending table has %d entries after close, want 0", n)
	}
	if c.State() != StateClosed {
		t.Errorf("state = %v, want closed", c.State())
	}

	// Closed is terminal.
	if err := c.Connect(context.Background()); !errors.Is(err, ErrClosed) {
		t.Errorf("connect after close: err = %v, want ErrClosed", err)
	}
	if _, err := c.Send(context.Background(), Command{Name: CmdPing}); !errors.Is(err, ErrClosed) {
		t.Errorf("send after close: err = %v, want ErrClosed", err)
	}
	if err := c.Close(); err != nil {
		t.Errorf("second close: %v", err)
	}
}

func TestGetStatus(t *testing.T) {
	srv := bulbtest.Start(t)
	defer srv.Close()
	c := connectTestClient(t, srv, 200*time.Millisecond)
	ctx := context.Background()

	if err := c.TurnOn(ctx); err != nil {
		t.Fatal(err)
	}
	if err := c.SetBrightness(ctx, 40); err != nil {
		t.Fatal(err)
	}

	st, err := c.GetStatus(ctx)
	if err != nil {
		t.Fatalf("get status: %v", err)
	}
	if !st.Connected {
		t.Error("status should be reachable")
	}
	if !st.Power || st.Brightness != 40 {
		t.Errorf("status = %+v, want power on at 40%%", st)
	}

	// An unanswered status fetch marks the snapshot unreachable but keeps
	// the last-known fields.
	srv.Drop(CmdGetStatus)
	st, err = c.GetStatus(ctx)
	if err != nil {
		t.Fatalf("get status after drop: %v", err)
	}
	if st.Connected {
		t.Error("status should be unreachable after an unanswered fetch")
	}
	if !st.Power || st.Brightness != 40 {
		t.Errorf("stale fields should be preserved, got %+v", st)
	}
}

func TestPing(t *testing.T) {
	srv := bulbtest.Start(t)
	defer srv.Close()
	c := connectTestClient(t, srv, 150*time.Millisecond)

	if err := c.Ping(context.Background()); err != nil {
		t.Errorf("ping: %v", err)
	}

	srv.Drop(CmdPing)
	if err := c.Ping(context.Background()); !errors.Is(err, ErrTimeout) {
		t.Errorf("ping err = %v, want ErrTimeout", err)
	}
}

func TestBulbReportedFailure(t *testing.T) {
	srv := bulbtest.Start(t)
	defer srv.Close()
	c := connectTestClient(t, srv, time.Second)
	srv.Fail(CmdSetBrightness, "lamp on fire")

	err := c.SetBrightness(context.Background(), 50)
	if err == nil {
		t.Fatal("expected error for bulb-reported failure")
	}
	// The snapshot must not absorb the rejected value.
	if c.LastStatus().Brightness == 50 {
		t.Error("snapshot updated despite failure reply")
	}
}
