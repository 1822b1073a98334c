package app

import (
	"context"
	"fmt"
	"io"
	"net"
	"strconv"
	"sync"

	"github.com/MaciejGrzybacz/DistributedSystems/internal/domain"
	"github.com/MaciejGrzybacz/DistributedSystems/internal/ports"
)

// ServerConfig contains configuration for the pong loop.
type ServerConfig struct {
	// ListenHost is the bind address; empty means all interfaces.
	ListenHost string
	Port       int
	LogPath    string
	BufferSize int
}

// MessageLogOpener opens the message log for one server run.
type MessageLogOpener func(path string) (ports.MessageLog, error)

// ServerStats counts the datagrams handled by one run.
type ServerStats struct {
	Received int
	Replied  int
}

// Server receives datagrams one at a time, records each in the message log
// and answers the sender.
type Server struct {
	config    ServerConfig
	codec     ports.TextCodec
	responder Responder
	openLog   MessageLogOpener
	out       io.Writer
	logger    ports.Logger
	lifecycle *Lifecycle

	mu    sync.Mutex
	addr  net.Addr
	ready chan struct{}
	stats ServerStats
}

// NewServer creates a server. Received messages are printed to out.
func NewServer(
	config ServerConfig,
	codec ports.TextCodec,
	responder Responder,
	openLog MessageLogOpener,
	out io.Writer,
	logger ports.Logger,
	emitter EventEmitter,
) *Server {
	if config.BufferSize <= 0 {
		config.BufferSize = domain.MaxDatagramSize
	}
	return &Server{
		config:    config,
		codec:     codec,
		responder: responder,
		openLog:   openLog,
		out:       out,
		logger:    logger,
		lifecycle: NewLifecycle("server", logger, emitter),
		ready:     make(chan struct{}),
	}
}

// Ready is closed once the socket is bound and the message log is open.
func (s *Server) Ready() <-chan struct{} {
	return s.ready
}

// LocalAddr returns the bound address, or nil before Ready.
func (s *Server) LocalAddr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addr
}

// Stats returns the counters of the current run.
func (s *Server) Stats() ServerStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

// State returns the current lifecycle state.
func (s *Server) State() domain.State {
	return s.lifecycle.State()
}

// Serve binds the socket, opens the message log and handles datagrams until
// ctx is cancelled (nil error) or an operation fails (that error).
// Socket and log are closed on every path; a failure closing the log is
// logged and returned only when nothing failed before it.
func (s *Server) Serve(ctx context.Context) (err error) {
	var (
		conn   *net.UDPConn
		msgLog ports.MessageLog
	)
	defer func() {
		_ = s.lifecycle.TransitionTo(domain.StateCleanup, cleanupReason(err))
		if conn != nil {
			if cerr := conn.Close(); cerr != nil {
				s.logger.Error("close socket", ports.Err(cerr))
			}
		}
		if msgLog != nil {
			if cerr := msgLog.Close(); cerr != nil {
				s.logger.Error("close message log", ports.String("path", msgLog.Path()), ports.Err(cerr))
				if err == nil {
					err = fmt.Errorf("close message log: %w", cerr)
				}
			}
		}
		stats := s.Stats()
		s.logger.Info("server stopped",
			ports.Int("received", stats.Received),
			ports.Int("replied", stats.Replied),
		)
		_ = s.lifecycle.TransitionTo(domain.StateTerminated, "resources released")
	}()

	addr := net.JoinHostPort(s.config.ListenHost, strconv.Itoa(s.config.Port))
	laddr, err := net.ResolveUDPAddr("udp", addr)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", addr, err)
	}
	conn, err = net.ListenUDP("udp", laddr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	stop := unblockOnDone(ctx, conn)
	defer stop()

	opened, err := s.openLog(s.config.LogPath)
	if err != nil {
		return err
	}
	msgLog = opened

	if err := s.lifecycle.TransitionTo(domain.StateRunning, "socket bound"); err != nil {
		return err
	}
	s.mu.Lock()
	s.addr = conn.LocalAddr()
	s.mu.Unlock()
	close(s.ready)

	s.logger.Info("server listening",
		ports.String("addr", conn.LocalAddr().String()),
		ports.String("log", msgLog.Path()),
		ports.String("encoding", s.codec.Name()),
	)

	buf := make([]byte, s.config.BufferSize)
	for {
		clear(buf)
		n, peer, err := conn.ReadFromUDP(buf)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("receive: %w", err)
		}
		if err := s.handle(conn, msgLog, domain.NewDatagram(buf, n, peer)); err != nil {
			return err
		}
	}
}

// handle logs, prints and answers one datagram.
func (s *Server) handle(conn *net.UDPConn, msgLog ports.MessageLog, dg domain.Datagram) error {
	text, err := s.codec.Decode(dg.Payload)
	if err != nil {
		return err
	}

	record, err := s.codec.Encode(text)
	if err != nil {
		return err
	}
	if err := msgLog.Append(record); err != nil {
		return err
	}
	s.mu.Lock()
	s.stats.Received++
	s.mu.Unlock()

	fmt.Fprintf(s.out, "received msg: %s\n", text)

	reply, ok := s.responder.Reply(text)
	if !ok {
		s.logger.Debug("no reply for message", ports.Peer(dg.Peer))
		return nil
	}
	payload, err := s.codec.Encode(reply)
	if err != nil {
		return err
	}
	if _, err := conn.WriteToUDP(payload, dg.Peer); err != nil {
		return fmt.Errorf("send to %s: %w", dg.Peer, err)
	}
	s.mu.Lock()
	s.stats.Replied++
	s.mu.Unlock()

	s.logger.Debug("reply sent",
		ports.Peer(dg.Peer),
		ports.Int("bytes", len(payload)),
	)
	return nil
}
