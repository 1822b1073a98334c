// Package udpping provides a UDP ping client, a pong server that records every
// message it receives, and a follower for the server's message log.
//
// Example usage:
//
//	cfg := udpping.DefaultConfig()
//	cfg.Port = 9009
//	srv, err := udpping.NewServer(cfg, os.Stdout, nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	go srv.Serve(ctx)
//	<-srv.Ready()
//
//	client, err := udpping.NewClient(cfg, os.Stdout, nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	res, err := client.Run(ctx)
package udpping

import (
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"github.com/MaciejGrzybacz/DistributedSystems/internal/adapters/fs"
	logAdapter "github.com/MaciejGrzybacz/DistributedSystems/internal/adapters/log"
	"github.com/MaciejGrzybacz/DistributedSystems/internal/adapters/text"
	"github.com/MaciejGrzybacz/DistributedSystems/internal/app"
	"github.com/MaciejGrzybacz/DistributedSystems/internal/cliconfig"
	"github.com/MaciejGrzybacz/DistributedSystems/internal/ports"
)

// Config holds the settings shared by the client, the server and the follower.
// Use DefaultConfig() to get a Config with sensible defaults.
type Config = cliconfig.Config

type (
	// Client sends the configured payload and prints each reply.
	Client = app.Client

	// Server answers datagrams and appends each message to its log.
	Server = app.Server

	// ClientResult counts the datagrams exchanged by one client run.
	ClientResult = app.ClientResult

	// ServerStats counts the datagrams handled by one server run.
	ServerStats = app.ServerStats

	// Logger is the interface for structured logging.
	Logger = ports.Logger

	// LogField represents a structured log field.
	LogField = ports.Field
)

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return cliconfig.DefaultConfig()
}

// NewZerologLogger adapts a zerolog.Logger to Logger.
func NewZerologLogger(l zerolog.Logger) Logger {
	return logAdapter.NewZerologAdapterWithLogger(l)
}

// NewClient validates cfg and creates a client that prints replies to out.
// A nil logger discards log output.
func NewClient(cfg Config, out io.Writer, logger Logger) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	codec, err := text.Lookup(cfg.Encoding)
	if err != nil {
		return nil, err
	}
	return app.NewClient(cfg.ClientConfig(), codec, out, orNoop(logger), nil), nil
}

// NewServer validates cfg and creates a server that prints messages to out.
// The message log at cfg.LogPath is opened when Serve starts.
func NewServer(cfg Config, out io.Writer, logger Logger) (*Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	codec, err := text.Lookup(cfg.Encoding)
	if err != nil {
		return nil, err
	}
	responder, err := app.NewResponder(app.ReplyMode(cfg.ReplyMode), cfg.Reply)
	if err != nil {
		return nil, err
	}
	return app.NewServer(cfg.ServerConfig(), codec, responder, openMessageLog, out, orNoop(logger), nil), nil
}

// Tail prints every complete line of the message log at cfg.LogPath to out,
// decoded with cfg.Encoding, until ctx is cancelled.
func Tail(ctx context.Context, cfg Config, out io.Writer, logger Logger) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	codec, err := text.Lookup(cfg.Encoding)
	if err != nil {
		return err
	}
	follower := fs.NewFollower(cfg.LogPath, cfg.FromEnd, orNoop(logger))
	return follower.Follow(ctx, func(line []byte) error {
		s, err := codec.Decode(line)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(out, s)
		return err
	})
}

func openMessageLog(path string) (ports.MessageLog, error) {
	l, err := fs.OpenMessageLog(path)
	if err != nil {
		return nil, err
	}
	return l, nil
}

func orNoop(l Logger) Logger {
	if l == nil {
		return logAdapter.NewNoopLogger()
	}
	return l
}
