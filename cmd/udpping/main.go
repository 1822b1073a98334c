package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"runtime/debug"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"

	udpping "github.com/MaciejGrzybacz/DistributedSystems"
	"github.com/MaciejGrzybacz/DistributedSystems/internal/cliconfig"
)

const longHelp = `Exchange UDP datagrams between a ping client and a pong server.

The server appends every message it receives to a log file and answers the
sender; the client sends a payload a fixed number of times and prints each
reply. Both sides read the same host/port settings from flags, UDPPING_*
environment variables or a TOML config file (flags win over env, env over file).`

var exampleUsage = strings.TrimSpace(`
  udpping server --port 9009 --log-path messages.txt
  udpping client --port 9009 --iterations 5 --delay 1s
  udpping tail --log-path messages.txt --from-end
`)

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

func main() {
	cfg := cliconfig.DefaultConfig()
	var cfgPath string

	root := &cobra.Command{
		Use:           "udpping",
		Short:         "UDP ping client and pong server",
		Long:          longHelp,
		Example:       exampleUsage,
		Version:       fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Shared by every subcommand.
	pf := root.PersistentFlags()
	pf.StringVar(&cfgPath, "config", "", "path to config file (default: $HOME/.udpping/config.toml)")
	pf.StringVar(&cfg.Host, "host", cfg.Host, "server host the client sends to")
	pf.IntVar(&cfg.Port, "port", cfg.Port, "UDP port shared by client and server")
	pf.StringVar(&cfg.Encoding, "encoding", cfg.Encoding, "text encoding for payloads and the message log")
	pf.IntVar(&cfg.BufferSize, "buffer-size", cfg.BufferSize, "receive buffer size in bytes")
	pf.StringVar(&cfg.LogPath, "log-path", cfg.LogPath, "message log file")
	pf.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level (debug, info, warn, error)")

	load := func(cmd *cobra.Command) error {
		return loadConfig(cmd, &cfg, cfgPath)
	}

	client := &cobra.Command{
		Use:   "client",
		Short: "Send the payload and print each reply",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := load(cmd); err != nil {
				return err
			}
			log := cliconfig.Logger()
			c, err := udpping.NewClient(cfg, os.Stdout, udpping.NewZerologLogger(log))
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			res, err := c.Run(ctx)
			log.Info().Int("sent", res.Sent).Int("received", res.Received).Msg("client finished")
			return err
		},
	}
	client.Flags().IntVar(&cfg.Iterations, "iterations", cfg.Iterations, "number of pings to send")
	client.Flags().DurationVar(&cfg.Delay, "delay", cfg.Delay, "pause after each reply")
	client.Flags().DurationVar(&cfg.ReceiveTimeout, "timeout", cfg.ReceiveTimeout, "maximum wait for each reply")
	client.Flags().StringVar(&cfg.Payload, "payload", cfg.Payload, "message sent to the server")

	server := &cobra.Command{
		Use:   "server",
		Short: "Answer pings and append every message to the log",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := load(cmd); err != nil {
				return err
			}
			log := cliconfig.Logger()
			s, err := udpping.NewServer(cfg, os.Stdout, udpping.NewZerologLogger(log))
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return s.Serve(ctx)
		},
	}
	server.Flags().StringVar(&cfg.ListenHost, "listen-host", cfg.ListenHost, "bind address (default: all interfaces)")
	server.Flags().StringVar(&cfg.Reply, "reply", cfg.Reply, "reply payload in fixed mode")
	server.Flags().StringVar(&cfg.ReplyMode, "reply-mode", cfg.ReplyMode, "fixed or keyword")

	tail := &cobra.Command{
		Use:   "tail",
		Short: "Print messages as the server appends them to the log",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := load(cmd); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return udpping.Tail(ctx, cfg, os.Stdout, udpping.NewZerologLogger(cliconfig.Logger()))
		},
	}
	tail.Flags().BoolVar(&cfg.FromEnd, "from-end", cfg.FromEnd, "skip lines already in the log")

	root.AddCommand(client, server, tail)

	if err := root.Execute(); err != nil {
		log := cliconfig.Logger()
		log.Error().Err(err).Msg("udpping")
		os.Exit(1)
	}
}

// loadConfig layers the config file, then UDPPING_* variables, under the
// flags the user set explicitly, and validates the result.
func loadConfig(cmd *cobra.Command, cfg *cliconfig.Config, cfgPath string) error {
	cfgFile := cfgPath
	if cfgFile == "" {
		cfgFile = cliconfig.DefaultConfigPath()
	}

	changed := map[string]bool{}
	cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })

	if cfgFile != "" && cliconfig.FileExists(cfgFile) {
		fc, err := cliconfig.LoadFileConfig(cfgFile)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if err := cliconfig.ApplyFileConfig(cfg, fc, changed); err != nil {
			return err
		}
	} else if cfgPath != "" {
		return fmt.Errorf("config file %s not found", cfgPath)
	}

	if err := cliconfig.ApplyEnvConfig(cfg, changed); err != nil {
		return err
	}

	if err := cliconfig.SetLogLevel(cfg.LogLevel); err != nil {
		return fmt.Errorf("log level: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	log := cliconfig.Logger()
	log.Info().Interface("config", cfg).Msg("configuration")
	return nil
}
