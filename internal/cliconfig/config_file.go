package cliconfig

import (
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

// FileConfig mirrors Config but uses strings for durations to make TOML friendly.
type FileConfig struct {
	Host           string `toml:"host"`
	Port           int    `toml:"port"`
	ListenHost     string `toml:"listen_host"`
	Iterations     int    `toml:"iterations"`
	Delay          string `toml:"delay"`
	ReceiveTimeout string `toml:"receive_timeout"`
	Payload        string `toml:"payload"`
	Reply          string `toml:"reply"`
	ReplyMode      string `toml:"reply_mode"`
	LogPath        string `toml:"log_path"`
	Encoding       string `toml:"encoding"`
	BufferSize     int    `toml:"buffer_size"`
	FromEnd        *bool  `toml:"from_end"`
	LogLevel       string `toml:"log_level"`
}

// LoadFileConfig reads and parses a TOML config file from the given path.
func LoadFileConfig(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	if err := toml.Unmarshal(b, &fc); err != nil {
		return fc, err
	}
	return fc, nil
}

// DefaultConfigPath returns the default configuration file path.
// Returns ~/.udpping/config.toml if user home directory is accessible.
func DefaultConfigPath() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".udpping", "config.toml")
	}
	return ""
}

// ApplyFileConfig applies configuration from a file to the Config struct.
// It respects flags that have been explicitly set (changed map).
func ApplyFileConfig(cfg *Config, fc FileConfig, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("host", fc.Host, &cfg.Host)
	s.setString("listen-host", fc.ListenHost, &cfg.ListenHost)
	s.setString("payload", fc.Payload, &cfg.Payload)
	s.setString("reply", fc.Reply, &cfg.Reply)
	s.setString("reply-mode", fc.ReplyMode, &cfg.ReplyMode)
	s.setString("log-path", fc.LogPath, &cfg.LogPath)
	s.setString("encoding", fc.Encoding, &cfg.Encoding)
	s.setString("log-level", fc.LogLevel, &cfg.LogLevel)

	if err := s.setDuration("delay", fc.Delay, &cfg.Delay); err != nil {
		return err
	}
	if err := s.setDuration("timeout", fc.ReceiveTimeout, &cfg.ReceiveTimeout); err != nil {
		return err
	}

	s.setInt("port", fc.Port, &cfg.Port)
	s.setInt("iterations", fc.Iterations, &cfg.Iterations)
	s.setInt("buffer-size", fc.BufferSize, &cfg.BufferSize)

	s.setBool("from-end", fc.FromEnd, &cfg.FromEnd)

	return nil
}

// FileExists checks if a file exists at the given path.
func FileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
