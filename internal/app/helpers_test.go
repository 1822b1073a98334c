package app

import (
	"bytes"
	"errors"
	"net"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/MaciejGrzybacz/DistributedSystems/internal/adapters/text"
	"github.com/MaciejGrzybacz/DistributedSystems/internal/ports"
)

// syncBuffer is a bytes.Buffer safe for use from the server goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) Lines() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	s := strings.TrimRight(b.buf.String(), "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

// memLog is an in-memory ports.MessageLog.
type memLog struct {
	mu        sync.Mutex
	records   []string
	appendErr error
	closeErr  error
	closed    bool
}

func (l *memLog) Append(record []byte) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.appendErr != nil {
		return l.appendErr
	}
	l.records = append(l.records, string(record))
	return nil
}

func (l *memLog) Path() string { return "mem" }

func (l *memLog) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.closed = true
	return l.closeErr
}

func (l *memLog) Records() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string{}, l.records...)
}

func (l *memLog) Closed() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.closed
}

func (l *memLog) opener() MessageLogOpener {
	return func(string) (ports.MessageLog, error) { return l, nil }
}

var errDisk = errors.New("disk full")

func cp1250() ports.TextCodec {
	return text.MustLookup("windows-1250")
}

// replyPeer is a UDP endpoint that answers the n-th datagram with replies[n]
// and stays silent once replies run out.
func replyPeer(t *testing.T, replies ...string) *net.UDPAddr {
	t.Helper()
	conn, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1)})
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	go func() {
		buf := make([]byte, 2048)
		for i := 0; ; i++ {
			_, peer, err := conn.ReadFromUDP(buf)
			if err != nil {
				return
			}
			if i < len(replies) {
				_, _ = conn.WriteToUDP([]byte(replies[i]), peer)
			}
		}
	}()
	return conn.LocalAddr().(*net.UDPAddr)
}
