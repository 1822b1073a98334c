package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"strconv"
	"time"

	"github.com/MaciejGrzybacz/DistributedSystems/internal/domain"
	"github.com/MaciejGrzybacz/DistributedSystems/internal/ports"
)

// DefaultReceiveTimeout bounds each wait for a reply when none is configured.
const DefaultReceiveTimeout = 5 * time.Second

// ClientConfig contains configuration for the ping loop.
type ClientConfig struct {
	Host           string
	Port           int
	Iterations     int
	Delay          time.Duration
	ReceiveTimeout time.Duration
	Payload        string
	BufferSize     int
}

// ClientResult counts the datagrams exchanged by one run.
type ClientResult struct {
	Sent     int
	Received int
}

// Client sends a payload a fixed number of times and waits for one reply after each send.
type Client struct {
	config    ClientConfig
	codec     ports.TextCodec
	out       io.Writer
	logger    ports.Logger
	lifecycle *Lifecycle
}

// NewClient creates a client. Replies are printed to out.
func NewClient(config ClientConfig, codec ports.TextCodec, out io.Writer, logger ports.Logger, emitter EventEmitter) *Client {
	if config.BufferSize <= 0 {
		config.BufferSize = domain.MaxDatagramSize
	}
	if config.ReceiveTimeout <= 0 {
		config.ReceiveTimeout = DefaultReceiveTimeout
	}
	return &Client{
		config:    config,
		codec:     codec,
		out:       out,
		logger:    logger,
		lifecycle: NewLifecycle("client", logger, emitter),
	}
}

// State returns the current lifecycle state.
func (c *Client) State() domain.State {
	return c.lifecycle.State()
}

// Run performs the configured number of send/receive rounds.
// The first error ends the run; the socket is closed on every path.
func (c *Client) Run(ctx context.Context) (res ClientResult, err error) {
	addr := net.JoinHostPort(c.config.Host, strconv.Itoa(c.config.Port))

	var conn *net.UDPConn
	defer func() {
		_ = c.lifecycle.TransitionTo(domain.StateCleanup, cleanupReason(err))
		if conn != nil {
			if cerr := conn.Close(); cerr != nil {
				c.logger.Error("close socket", ports.Err(cerr))
			}
		}
		_ = c.lifecycle.TransitionTo(domain.StateTerminated, "socket closed")
	}()

	payload, err := c.codec.Encode(c.config.Payload)
	if err != nil {
		return res, err
	}
	if len(payload) > c.config.BufferSize {
		return res, fmt.Errorf("%w: %d > %d bytes", domain.ErrPayloadTooLarge, len(payload), c.config.BufferSize)
	}

	raddr, err := net.ResolveUDPAddr("udp", addr)
	if err != nil {
		return res, fmt.Errorf("resolve %s: %w", addr, err)
	}
	conn, err = net.DialUDP("udp", nil, raddr)
	if err != nil {
		return res, fmt.Errorf("dial %s: %w", addr, err)
	}
	stop := unblockOnDone(ctx, conn)
	defer stop()

	if err := c.lifecycle.TransitionTo(domain.StateRunning, "socket open"); err != nil {
		return res, err
	}
	c.logger.Info("client started",
		ports.String("target", raddr.String()),
		ports.String("local", conn.LocalAddr().String()),
		ports.Int("iterations", c.config.Iterations),
		ports.Duration("delay", c.config.Delay),
		ports.Duration("timeout", c.config.ReceiveTimeout),
	)

	buf := make([]byte, c.config.BufferSize)
	for i := 0; i < c.config.Iterations; i++ {
		if _, err := conn.Write(payload); err != nil {
			return res, fmt.Errorf("send: %w", err)
		}
		res.Sent++

		reply, err := c.receive(ctx, conn, buf, raddr)
		if err != nil {
			return res, err
		}
		text, err := c.codec.Decode(reply.Payload)
		if err != nil {
			return res, err
		}
		res.Received++
		fmt.Fprintf(c.out, "received msg: %s\n", text)
		c.logger.Debug("reply received",
			ports.Int("iteration", i+1),
			ports.Int("bytes", reply.Len()),
		)

		if err := sleepCtx(ctx, c.config.Delay); err != nil {
			return res, fmt.Errorf("%w: %v", domain.ErrInterrupted, err)
		}
	}

	return res, nil
}

// receive waits up to ReceiveTimeout for one datagram.
// buf is zeroed first and the reply is bounded by the reported length.
func (c *Client) receive(ctx context.Context, conn *net.UDPConn, buf []byte, peer *net.UDPAddr) (domain.Datagram, error) {
	clear(buf)
	if err := conn.SetReadDeadline(time.Now().Add(c.config.ReceiveTimeout)); err != nil {
		return domain.Datagram{}, fmt.Errorf("receive: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return domain.Datagram{}, fmt.Errorf("%w: %v", domain.ErrInterrupted, err)
	}

	n, err := conn.Read(buf)
	if err != nil {
		switch {
		case ctx.Err() != nil:
			return domain.Datagram{}, fmt.Errorf("%w: %v", domain.ErrInterrupted, ctx.Err())
		case isTimeout(err):
			return domain.Datagram{}, fmt.Errorf("%w after %s", domain.ErrReceiveTimeout, c.config.ReceiveTimeout)
		default:
			return domain.Datagram{}, fmt.Errorf("receive: %w", err)
		}
	}
	return domain.NewDatagram(buf, n, peer), nil
}

func cleanupReason(err error) string {
	switch {
	case err == nil:
		return "finished"
	case errors.Is(err, domain.ErrInterrupted):
		return "interrupted"
	default:
		return err.Error()
	}
}
