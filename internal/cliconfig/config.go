package cliconfig

import (
	"fmt"
	"strconv"
	"time"

	"github.com/MaciejGrzybacz/DistributedSystems/internal/adapters/fs"
	"github.com/MaciejGrzybacz/DistributedSystems/internal/adapters/text"
	"github.com/MaciejGrzybacz/DistributedSystems/internal/app"
	"github.com/MaciejGrzybacz/DistributedSystems/internal/domain"
)

// Defaults shared by the client and the server. Both sides read the same
// port setting so they always agree on where to meet.
const (
	DefaultHost    = "localhost"
	DefaultPort    = 9009
	DefaultPayload = "Ping Java"
	DefaultLogPath = fs.DefaultMessageLogName

	// maxUDPPayload is the largest payload an IPv4 UDP datagram can carry.
	maxUDPPayload = 65507
)

// Config holds CLI configuration for udpping.
type Config struct {
	Host       string
	Port       int
	ListenHost string

	Iterations     int
	Delay          time.Duration
	ReceiveTimeout time.Duration
	Payload        string

	Reply     string
	ReplyMode string
	LogPath   string

	Encoding   string
	BufferSize int

	FromEnd  bool
	LogLevel string
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		Host:           DefaultHost,
		Port:           DefaultPort,
		Iterations:     5,
		Delay:          time.Second,
		ReceiveTimeout: app.DefaultReceiveTimeout,
		Payload:        DefaultPayload,
		Reply:          app.DefaultReply,
		ReplyMode:      string(app.ReplyFixed),
		LogPath:        DefaultLogPath,
		Encoding:       text.DefaultEncoding,
		BufferSize:     domain.MaxDatagramSize,
		LogLevel:       "info",
	}
}

// Validate checks the configuration for errors and sets derived defaults.
func (c *Config) Validate() error {
	if c.Host == "" {
		c.Host = DefaultHost
	}
	if c.LogPath == "" {
		c.LogPath = DefaultLogPath
	}
	if c.ReplyMode == "" {
		c.ReplyMode = string(app.ReplyFixed)
	}
	if c.Encoding == "" {
		c.Encoding = text.DefaultEncoding
	}

	if c.Port <= 0 || c.Port > 65535 {
		return invalid("port must be between 1 and 65535, got %d", c.Port)
	}
	if c.Iterations <= 0 {
		return invalid("iterations must be positive")
	}
	if c.Delay < 0 {
		return invalid("delay must not be negative")
	}
	if c.ReceiveTimeout <= 0 {
		return invalid("receive timeout must be positive")
	}
	if c.BufferSize <= 0 || c.BufferSize > maxUDPPayload {
		return invalid("buffer size must be between 1 and %d, got %d", maxUDPPayload, c.BufferSize)
	}
	if _, err := app.NewResponder(app.ReplyMode(c.ReplyMode), c.Reply); err != nil {
		return err
	}

	codec, err := text.Lookup(c.Encoding)
	if err != nil {
		return err
	}
	for _, p := range []string{c.Payload, c.Reply} {
		b, err := codec.Encode(p)
		if err != nil {
			return err
		}
		if len(b) > c.BufferSize {
			return fmt.Errorf("%w: %q is %d bytes, buffer is %d", domain.ErrPayloadTooLarge, p, len(b), c.BufferSize)
		}
	}

	return nil
}

// ClientConfig converts to the client loop configuration.
func (c *Config) ClientConfig() app.ClientConfig {
	return app.ClientConfig{
		Host:           c.Host,
		Port:           c.Port,
		Iterations:     c.Iterations,
		Delay:          c.Delay,
		ReceiveTimeout: c.ReceiveTimeout,
		Payload:        c.Payload,
		BufferSize:     c.BufferSize,
	}
}

// ServerConfig converts to the server loop configuration.
func (c *Config) ServerConfig() app.ServerConfig {
	return app.ServerConfig{
		ListenHost: c.ListenHost,
		Port:       c.Port,
		LogPath:    c.LogPath,
		BufferSize: c.BufferSize,
	}
}

func invalid(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", domain.ErrInvalidConfig, fmt.Sprintf(format, args...))
}

// configSetter helps apply configuration values while respecting flag precedence.
// It only applies values if the corresponding flag hasn't been explicitly set.
type configSetter struct {
	changed map[string]bool
}

// newConfigSetter creates a new setter with the given changed flags map.
func newConfigSetter(changed map[string]bool) *configSetter {
	return &configSetter{changed: changed}
}

// setString sets a string value if not empty and flag not changed.
func (s *configSetter) setString(flag, value string, dst *string) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value
}

// setInt sets an int value if positive and flag not changed.
func (s *configSetter) setInt(flag string, value int, dst *int) {
	if value <= 0 || s.changed[flag] {
		return
	}
	*dst = value
}

// setDuration parses and sets a duration from string if valid and flag not changed.
func (s *configSetter) setDuration(flag, value string, dst *time.Duration) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = d
	return nil
}

// setBool sets a bool value from a pointer if not nil and flag not changed.
func (s *configSetter) setBool(flag string, value *bool, dst *bool) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = *value
}

// setIntFromString parses a string to int and sets the destination if valid.
// Used for environment variables that come as strings.
func (s *configSetter) setIntFromString(flag, value string, dst *int) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	if i <= 0 {
		return nil
	}
	*dst = i
	return nil
}

// setBoolFromString parses a string to bool and sets the destination.
// Accepts "true", "1" as true, anything else as false.
func (s *configSetter) setBoolFromString(flag, value string, dst *bool) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value == "true" || value == "1"
}
