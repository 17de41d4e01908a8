// =============================================================================
// main.go - denon CLI Entry Point
// =============================================================================
//
// The CLI connects to a receiver's control port and either executes the
// commands given on the command line or starts an interactive REPL.
//
// Usage:
//
//	denon                               REPL against 127.0.0.1:23
//	denon --host 192.168.1.20           REPL against a specific receiver
//	denon --host avr.local PW? "MV 45"  Run two commands and exit
//	denon --config ~/avr.yaml --stats   Use a config file, print stats on exit
//
// Settings come from ~/.denon.yaml (or --config); flags override the file.
//
// =============================================================================

package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/theves/denon4go/denonprotocol"
	"github.com/theves/denon4go/internal/config"
	"github.com/theves/denon4go/internal/logger"
)

const (
	// version is the current version of the CLI.
	version = "0.1.0"

	// appName is the application name.
	appName = "denon"
)

// welcomeBanner returns the banner displayed when the REPL starts.
func welcomeBanner(addr string) string {
	return fmt.Sprintf(`%s v%s - AV receiver control
Connected to %s

Type '.help' for available commands.
Type '.quit' to exit.
`, appName, version, addr)
}

// flagValues holds the raw command-line flags. Only flags the user set
// override the configuration file.
type flagValues struct {
	configPath     string
	host           string
	port           int
	timeout        time.Duration
	requestTimeout time.Duration
	logLevel       string
	logFormat      string
	logFile        string
	events         bool
	stats          bool
}

func newRootCommand() *cobra.Command {
	var flags flagValues

	cmd := &cobra.Command{
		Use:   appName + " [flags] [command ...]",
		Short: "Control a Denon AV receiver over its telnet control port",
		Long: `Control a Denon AV receiver over its telnet control port.

With commands as arguments, each is executed in order and the program
exits. Without arguments an interactive REPL is started.

Commands are protocol lines (PW?, PWON, "MV 45", "MV [45]") or aliases
("power on", "volume up", "mute ?", "input tuner").`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd, flags)
			if err != nil {
				return err
			}
			return run(cmd, cfg, flags.stats, args)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&flags.configPath, "config", "c", "", "config file (default ~/"+config.DefaultFileName+")")
	f.StringVarP(&flags.host, "host", "H", denonprotocol.DefaultHost, "receiver host name or IP address")
	f.IntVarP(&flags.port, "port", "p", denonprotocol.DefaultPort, "receiver control port")
	f.DurationVarP(&flags.timeout, "timeout", "t", denonprotocol.DefaultConnectTimeout, "connect timeout")
	f.DurationVar(&flags.requestTimeout, "request-timeout", 2*time.Second, "how long to wait for a query reply")
	f.StringVar(&flags.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	f.StringVar(&flags.logFormat, "log-format", "console", "log format (console, json)")
	f.StringVar(&flags.logFile, "log-file", "", "log file path (default stderr)")
	f.BoolVarP(&flags.events, "events", "e", false, "print status lines as they arrive")
	f.BoolVar(&flags.stats, "stats", false, "print session statistics on exit")

	return cmd
}

// resolveConfig loads the configuration file and applies the flags the
// user set explicitly.
func resolveConfig(cmd *cobra.Command, flags flagValues) (*config.Config, error) {
	cfg, err := config.LoadOrDefault(flags.configPath)
	if err != nil {
		return nil, err
	}

	set := cmd.Flags().Changed
	if set("host") {
		cfg.Host = flags.host
	}
	if set("port") {
		cfg.Port = flags.port
	}
	if set("timeout") {
		cfg.ConnectTimeout = flags.timeout
	}
	if set("request-timeout") {
		cfg.RequestTimeout = flags.requestTimeout
	}
	if set("log-level") {
		cfg.LogLevel = flags.logLevel
	}
	if set("log-format") {
		cfg.LogFormat = flags.logFormat
	}
	if set("log-file") {
		cfg.LogFile = flags.logFile
	}
	if set("events") {
		cfg.PrintEvents = flags.events
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// run connects to the receiver and executes args, or starts the REPL when
// there are none.
func run(cmd *cobra.Command, cfg *config.Config, printStats bool, args []string) error {
	log, err := logger.Setup(cfg)
	if err != nil {
		return err
	}
	defer log.Sync()

	out := &syncWriter{w: cmd.OutOrStdout()}
	errOut := cmd.ErrOrStderr()

	stats := denonprotocol.NewStats()
	printer := &eventPrinter{out: out}
	printer.enabled.Store(cfg.PrintEvents)

	dispatcher := denonprotocol.NewEventDispatcher(log)
	dispatcher.AddListener(stats)
	dispatcher.AddListener(printer)

	client := denonprotocol.NewClient(cfg.Host, cfg.Port, denonprotocol.WithLogger(log))
	client.SetDispatcher(dispatcher)
	client.SetDisconnectHandler(func(err error) {
		fmt.Fprintf(errOut, "\nDisconnected from %s: %v\n", client.Addr(), err)
	})

	log.Debug("connecting", zap.Stringer("config", cfg))
	if err := client.Connect(cfg.ConnectTimeout); err != nil {
		return fmt.Errorf("failed to connect to receiver: %w", err)
	}

	s := &session{
		client:         client,
		stats:          stats,
		events:         printer,
		requestTimeout: cfg.RequestTimeout,
		out:            out,
		errOut:         errOut,
	}

	finish := func() {
		client.Disconnect()
		if printStats {
			stats.Print(out)
		}
	}

	if len(args) > 0 {
		err := s.runBatch(args)
		finish()
		return err
	}

	setupSignalHandler(func() {
		finish()
		os.Exit(0)
	})

	editor := NewLineEditor(cmd.InOrStdin(), out, cfg.HistoryFile)
	defer editor.Close()

	fmt.Fprint(out, welcomeBanner(client.Addr()))
	fmt.Fprintln(out)

	s.runREPL(editor)
	finish()
	return nil
}

// setupSignalHandler runs cleanup when SIGINT or SIGTERM arrives.
func setupSignalHandler(cleanup func()) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigCh
		fmt.Println()
		cleanup()
	}()
}

func printErrorTo(w io.Writer, message string) {
	fmt.Fprintf(w, "Error: %s\n", message)
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		printErrorTo(os.Stderr, err.Error())
		os.Exit(1)
	}
}
