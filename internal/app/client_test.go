package app

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MaciejGrzybacz/DistributedSystems/internal/domain"
)

func testClientConfig(addr *net.UDPAddr) ClientConfig {
	return ClientConfig{
		Host:           "127.0.0.1",
		Port:           addr.Port,
		Iterations:     5,
		Delay:          time.Millisecond,
		ReceiveTimeout: time.Second,
		Payload:        "Ping Java",
		BufferSize:     domain.MaxDatagramSize,
	}
}

func TestClient_PrintsEveryReply(t *testing.T) {
	addr := replyPeer(t, "Pong Java", "Pong Java", "Pong Java", "Pong Java", "Pong Java")
	out := &syncBuffer{}
	emitter := &mockEmitter{}

	c := NewClient(testClientConfig(addr), cp1250(), out, mockLogger{}, emitter)
	res, err := c.Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, ClientResult{Sent: 5, Received: 5}, res)
	assert.Equal(t, []string{
		"received msg: Pong Java",
		"received msg: Pong Java",
		"received msg: Pong Java",
		"received msg: Pong Java",
		"received msg: Pong Java",
	}, out.Lines())
	assert.Equal(t, domain.StateTerminated, c.State())
	assert.Len(t, emitter.Events(), 3)
}

func TestClient_ShorterReplyHasNoResidue(t *testing.T) {
	addr := replyPeer(t, "a much longer reply", "short")
	out := &syncBuffer{}

	cfg := testClientConfig(addr)
	cfg.Iterations = 2
	res, err := NewClient(cfg, cp1250(), out, mockLogger{}, nil).Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 2, res.Received)
	assert.Equal(t, []string{
		"received msg: a much longer reply",
		"received msg: short",
	}, out.Lines())
}

func TestClient_SilentPeerTimesOut(t *testing.T) {
	addr := replyPeer(t) // bound, never answers
	cfg := testClientConfig(addr)
	cfg.ReceiveTimeout = 100 * time.Millisecond

	start := time.Now()
	res, err := NewClient(cfg, cp1250(), &syncBuffer{}, mockLogger{}, nil).Run(context.Background())

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrReceiveTimeout), "err = %v", err)
	assert.Less(t, time.Since(start), 5*time.Second)
	assert.Equal(t, ClientResult{Sent: 1, Received: 0}, res)
}

func TestClient_UnreachableServerFails(t *testing.T) {
	// Reserve a port, then release it so nothing listens there.
	probe, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1)})
	require.NoError(t, err)
	addr := probe.LocalAddr().(*net.UDPAddr)
	require.NoError(t, probe.Close())

	cfg := testClientConfig(addr)
	cfg.ReceiveTimeout = 200 * time.Millisecond

	start := time.Now()
	res, err := NewClient(cfg, cp1250(), &syncBuffer{}, mockLogger{}, nil).Run(context.Background())

	// Either the ICMP port-unreachable surfaces as a read error or the timeout fires.
	require.Error(t, err)
	assert.Less(t, time.Since(start), 5*time.Second)
	assert.Zero(t, res.Received)
}

func TestNewClient_Defaults(t *testing.T) {
	c := NewClient(ClientConfig{Host: "127.0.0.1", Port: 9009, Iterations: 1}, cp1250(), &syncBuffer{}, mockLogger{}, nil)

	assert.Equal(t, DefaultReceiveTimeout, c.config.ReceiveTimeout)
	assert.Equal(t, domain.MaxDatagramSize, c.config.BufferSize)
}

func TestClient_PayloadTooLarge(t *testing.T) {
	addr := replyPeer(t)
	cfg := testClientConfig(addr)
	cfg.BufferSize = 4

	c := NewClient(cfg, cp1250(), &syncBuffer{}, mockLogger{}, nil)
	res, err := c.Run(context.Background())

	assert.True(t, errors.Is(err, domain.ErrPayloadTooLarge), "err = %v", err)
	assert.Zero(t, res.Sent)
	assert.Equal(t, domain.StateTerminated, c.State())
}

func TestClient_CancelDuringDelay(t *testing.T) {
	addr := replyPeer(t, "Pong Java")
	cfg := testClientConfig(addr)
	cfg.Delay = time.Hour

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(100*time.Millisecond, cancel)

	res, err := NewClient(cfg, cp1250(), &syncBuffer{}, mockLogger{}, nil).Run(ctx)

	assert.True(t, errors.Is(err, domain.ErrInterrupted), "err = %v", err)
	assert.Equal(t, ClientResult{Sent: 1, Received: 1}, res)
}

func TestClient_CancelDuringReceive(t *testing.T) {
	addr := replyPeer(t)
	cfg := testClientConfig(addr)
	cfg.ReceiveTimeout = time.Hour

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(100*time.Millisecond, cancel)

	start := time.Now()
	_, err := NewClient(cfg, cp1250(), &syncBuffer{}, mockLogger{}, nil).Run(ctx)

	assert.True(t, errors.Is(err, domain.ErrInterrupted), "err = %v", err)
	assert.Less(t, time.Since(start), 5*time.Second)
}
