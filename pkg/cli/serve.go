package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/stubapi/stubd/pkg/config"
	"github.com/stubapi/stubd/pkg/engine"
	"github.com/stubapi/stubd/pkg/logging"
)

// shutdownTimeout is the maximum time to wait for graceful shutdown.
const shutdownTimeout = 30 * time.Second

// serveFlags holds the values bound to the serve command's flags.
type serveFlags struct {
	port         int
	configFile   string
	readTimeout  int
	writeTimeout int
	timeoutDelay string
	timeoutUnit  string
	logLevel     string
	logFormat    string
}

var serveFlagVals serveFlags

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the stub API server (foreground)",
	Long: `Start the stub API server in the foreground. Collections are created
lazily on first use and everything is held in memory.

Settings come from flags, optionally layered over a JSON or YAML
configuration file given with --config. Flags that are set explicitly
win over file values.`,
	Example: `  # Start with defaults on port 8080
  stubd serve

  # Custom port and debug logging
  stubd serve --port 3000 --log-level debug

  # Load settings from a config file
  stubd serve --config stubd.yaml

  # Shorter simulated timeouts, handy for local testing
  stubd serve --timeout-delay 500ms --timeout-unit 100ms`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd, &serveFlagVals)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	registerServeFlags(serveCmd, &serveFlagVals)
}

func registerServeFlags(cmd *cobra.Command, f *serveFlags) {
	cmd.Flags().IntVarP(&f.port, "port", "p", config.DefaultHTTPPort, "HTTP server port")
	cmd.Flags().StringVarP(&f.configFile, "config", "c", "", "Path to a JSON or YAML configuration file")
	cmd.Flags().IntVar(&f.readTimeout, "read-timeout", config.DefaultReadTimeout, "Read timeout in seconds")
	cmd.Flags().IntVar(&f.writeTimeout, "write-timeout", config.DefaultWriteTimeout, "Write timeout in seconds")
	cmd.Flags().StringVar(&f.timeoutDelay, "timeout-delay", config.DefaultTimeoutDelay, "Sleep before answering error=timeout requests")
	cmd.Flags().StringVar(&f.timeoutUnit, "timeout-unit", config.DefaultTimeoutUnit, "Unit multiplied by the control.timeout directive value")
	cmd.Flags().StringVar(&f.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	cmd.Flags().StringVar(&f.logFormat, "log-format", "text", "Log format (text, json)")
}

// buildConfig layers explicitly set flags over the config file (or the
// defaults when no file is given).
func buildConfig(cmd *cobra.Command, f *serveFlags) (*config.ServerConfig, error) {
	cfg := config.Default()
	if f.configFile != "" {
		loaded, err := config.LoadFromFile(f.configFile)
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
	}

	if cmd.Flags().Changed("port") {
		cfg.HTTPPort = f.port
	}
	if cmd.Flags().Changed("read-timeout") {
		cfg.ReadTimeout = f.readTimeout
	}
	if cmd.Flags().Changed("write-timeout") {
		cfg.WriteTimeout = f.writeTimeout
	}
	if cmd.Flags().Changed("timeout-delay") {
		cfg.TimeoutDelay = f.timeoutDelay
	}
	if cmd.Flags().Changed("timeout-unit") {
		cfg.TimeoutUnit = f.timeoutUnit
	}
	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel = f.logLevel
	}
	if cmd.Flags().Changed("log-format") {
		cfg.LogFormat = f.logFormat
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runServe(cmd *cobra.Command, f *serveFlags) error {
	cfg, err := buildConfig(cmd, f)
	if err != nil {
		return err
	}

	log := logging.New(logging.ParseLevel(cfg.LogLevel), logging.ParseFormat(cfg.LogFormat), os.Stderr)

	srv, err := engine.NewServer(cfg, engine.WithLogger(log))
	if err != nil {
		return err
	}
	if err := srv.Start(); err != nil {
		return err
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// Wait for shutdown signal
	sig := <-sigChan
	log.Info("shutting down", "signal", sig.String())

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Stop(ctx)
}
