package cliconfig

import "os"

// ApplyEnvConfig applies configuration from environment variables (UDPPING_*).
// It respects flags that have been explicitly set (changed map).
// Returns error if any environment variable has an invalid format.
func ApplyEnvConfig(cfg *Config, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("host", os.Getenv("UDPPING_HOST"), &cfg.Host)
	s.setString("listen-host", os.Getenv("UDPPING_LISTEN_HOST"), &cfg.ListenHost)
	s.setString("payload", os.Getenv("UDPPING_PAYLOAD"), &cfg.Payload)
	s.setString("reply", os.Getenv("UDPPING_REPLY"), &cfg.Reply)
	s.setString("reply-mode", os.Getenv("UDPPING_REPLY_MODE"), &cfg.ReplyMode)
	s.setString("log-path", os.Getenv("UDPPING_LOG_PATH"), &cfg.LogPath)
	s.setString("encoding", os.Getenv("UDPPING_ENCODING"), &cfg.Encoding)
	s.setString("log-level", os.Getenv("UDPPING_LOG_LEVEL"), &cfg.LogLevel)

	if err := s.setDuration("delay", os.Getenv("UDPPING_DELAY"), &cfg.Delay); err != nil {
		return err
	}
	if err := s.setDuration("timeout", os.Getenv("UDPPING_RECEIVE_TIMEOUT"), &cfg.ReceiveTimeout); err != nil {
		return err
	}

	if err := s.setIntFromString("port", os.Getenv("UDPPING_PORT"), &cfg.Port); err != nil {
		return err
	}
	if err := s.setIntFromString("iterations", os.Getenv("UDPPING_ITERATIONS"), &cfg.Iterations); err != nil {
		return err
	}
	if err := s.setIntFromString("buffer-size", os.Getenv("UDPPING_BUFFER_SIZE"), &cfg.BufferSize); err != nil {
		return err
	}

	s.setBoolFromString("from-end", os.Getenv("UDPPING_FROM_END"), &cfg.FromEnd)

	return nil
}
