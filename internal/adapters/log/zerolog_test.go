package log

import (
	"bytes"
	"encoding/json"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MaciejGrzybacz/DistributedSystems/internal/ports"
)

func TestZerologAdapter_Fields(t *testing.T) {
	var buf bytes.Buffer
	adapter := NewZerologAdapterWithLogger(zerolog.New(&buf))

	adapter.Info("received",
		ports.String("text", "Ping Java"),
		ports.Int("bytes", 9),
		ports.Bool("replied", true),
		ports.Duration("timeout", time.Second),
		ports.Peer(&net.UDPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 9009}),
		ports.Err(errors.New("boom")),
	)

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))

	assert.Equal(t, "info", got["level"])
	assert.Equal(t, "received", got["message"])
	assert.Equal(t, "Ping Java", got["text"])
	assert.Equal(t, float64(9), got["bytes"])
	assert.Equal(t, true, got["replied"])
	assert.Equal(t, "127.0.0.1:9009", got["peer"])
	assert.Equal(t, "boom", got["error"])
	assert.Contains(t, got, "timeout")
}

func TestZerologAdapter_Levels(t *testing.T) {
	var buf bytes.Buffer
	adapter := NewZerologAdapterWithLogger(zerolog.New(&buf).Level(zerolog.WarnLevel))

	adapter.Debug("hidden")
	adapter.Info("hidden")
	assert.Zero(t, buf.Len())

	adapter.Warn("shown")
	adapter.Error("shown")
	assert.Equal(t, 2, bytes.Count(buf.Bytes(), []byte("\n")))
}

func TestZerologAdapter_NilPeer(t *testing.T) {
	var buf bytes.Buffer
	adapter := NewZerologAdapterWithLogger(zerolog.New(&buf))

	var addr *net.UDPAddr
	adapter.Info("no peer", ports.Peer(addr))

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "", got["peer"])
}

func TestNoopLogger(t *testing.T) {
	var l ports.Logger = NewNoopLogger()
	l.Debug("x")
	l.Info("x", ports.Int("n", 1))
	l.Warn("x")
	l.Error("x", ports.Err(errors.New("ignored")))
}
