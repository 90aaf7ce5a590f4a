// Package app provides the entry point for the logship command-line application.
package app

import (
	"context"
	"fmt"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/logship/logship/pkg/config"
	"github.com/logship/logship/pkg/forwarder"
	"github.com/logship/logship/pkg/logger"
	"github.com/logship/logship/pkg/metrics"
	"github.com/logship/logship/pkg/otlp"
	"github.com/logship/logship/pkg/sender"
)

const (
	defaultFile      = "tmp/logs.txt"
	defaultBatchSize = 100

	metricsShutdownTimeout = 5 * time.Second
)

var (
	flagEndpoint    string
	flagServiceName string
	flagHostName    string
	flagEnvironment string
	flagSeverity    string
	flagTimeout     time.Duration
	flagGzip        bool
	flagRate        float64
	flagDryRun      bool
	flagProfile     string
	flagMetricsAddr string
)

// NewRootCmd creates a new root command for the logship CLI.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:               "logship [file] [batch-size]",
		DisableAutoGenTag: true,
		Short:             "Forward log lines from a file to an OTLP collector",
		Long: `logship reads a plain-text log file and forwards every non-empty line to an
OTLP/HTTP logs endpoint as its own JSON log record, one POST per line.

Lines are sent sequentially. Delivery failures are counted and reported
without stopping the run; a progress line is printed every 500 processed
lines and a summary at the end.

The file defaults to tmp/logs.txt and the progress batch size to 100.`,
		Args: cobra.MaximumNArgs(2),
		RunE: forwardCmdFunc,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			logger.Initialize()
		},
	}

	// Add persistent flags
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	if err := viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug")); err != nil {
		logger.Errorf("Error binding debug flag: %v", err)
	}
	if err := viper.BindEnv("endpoint", "LOGSHIP_ENDPOINT"); err != nil {
		logger.Errorf("Error binding endpoint environment variable: %v", err)
	}

	defaults := config.Default()
	flags := rootCmd.Flags()
	flags.StringVar(&flagEndpoint, "endpoint", defaults.Endpoint,
		"OTLP/HTTP logs endpoint URL")
	flags.StringVar(&flagServiceName, "service-name", defaults.Resource["service.name"],
		"Value of the service.name resource attribute")
	flags.StringVar(&flagHostName, "host-name", defaults.Resource["host.name"],
		"Value of the host.name resource attribute")
	flags.StringVar(&flagEnvironment, "environment", defaults.Resource["deployment.environment"],
		"Value of the deployment.environment resource attribute")
	flags.StringVar(&flagSeverity, "severity", defaults.Severity,
		"Severity stamped on every record (TRACE, DEBUG, INFO, WARN, ERROR, FATAL)")
	flags.DurationVar(&flagTimeout, "timeout", time.Duration(defaults.Timeout),
		"Timeout for each HTTP request")
	flags.BoolVar(&flagGzip, "gzip", defaults.Gzip,
		"Compress request bodies with gzip")
	flags.Float64Var(&flagRate, "rate", defaults.Rate,
		"Maximum lines sent per second (0 = unlimited)")
	flags.BoolVar(&flagDryRun, "dry-run", false,
		"Print payloads to stdout instead of sending them")
	flags.StringVar(&flagProfile, "profile", "",
		"Path to a YAML forwarding profile")
	flags.StringVar(&flagMetricsAddr, "metrics-addr", "",
		"If set, serve Prometheus metrics and health on this address during the run")

	// Add subcommands
	rootCmd.AddCommand(newVersionCmd())

	// Silence printing the usage on error
	rootCmd.SilenceUsage = true

	return rootCmd
}

func forwardCmdFunc(cmd *cobra.Command, args []string) error {
	path := defaultFile
	if len(args) > 0 {
		path = args[0]
	}

	batchSize := defaultBatchSize
	if len(args) > 1 {
		parsed, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid batch size %q: %w", args[1], err)
		}
		if parsed <= 0 {
			return fmt.Errorf("batch size must be positive, got %d", parsed)
		}
		batchSize = parsed
	}

	cfg, err := config.Load(flagProfile)
	if err != nil {
		return err
	}
	applyOverrides(cmd, cfg)

	if err := cfg.Validate(); err != nil {
		return err
	}

	if flagMetricsAddr != "" {
		srv := metrics.NewServer(flagMetricsAddr)
		if err := srv.Start(); err != nil {
			return err
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), metricsShutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Warnf("failed to stop metrics server: %v", err)
			}
		}()
	}

	ctx, stopSignal := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stopSignal()

	var snd sender.Sender
	if flagDryRun {
		snd = sender.NewConsoleSender(cmd.OutOrStdout())
	} else {
		snd = sender.NewHTTPSender(cfg)
	}
	defer func() {
		if err := snd.Close(); err != nil {
			logger.Warnf("failed to close sender: %v", err)
		}
	}()

	fwd := forwarder.New(otlp.NewBuilder(cfg), snd, forwarder.Options{
		BatchSize: batchSize,
		Rate:      cfg.Rate,
		Endpoint:  cfg.Endpoint,
		Out:       cmd.OutOrStdout(),
	})

	stats, err := fwd.Run(ctx, path)
	if err != nil {
		return err
	}

	logger.Debugf("run finished: sent=%d failed=%d elapsed=%s", stats.Sent, stats.Failed, stats.Elapsed)
	return nil
}

// applyOverrides layers the resolved command line onto the profile. A flag
// only wins when it was changed on the command line; the endpoint
// environment variable sits between flags and the profile.
func applyOverrides(cmd *cobra.Command, cfg *config.Config) {
	if env := viper.GetString("endpoint"); env != "" {
		cfg.Endpoint = env
	}

	flags := cmd.Flags()
	if flags.Changed("endpoint") {
		cfg.Endpoint = flagEndpoint
	}
	if flags.Changed("service-name") {
		cfg.Resource["service.name"] = flagServiceName
	}
	if flags.Changed("host-name") {
		cfg.Resource["host.name"] = flagHostName
	}
	if flags.Changed("environment") {
		cfg.Resource["deployment.environment"] = flagEnvironment
	}
	if flags.Changed("severity") {
		cfg.Severity = flagSeverity
	}
	if flags.Changed("timeout") {
		cfg.Timeout = config.Duration(flagTimeout)
	}
	if flags.Changed("gzip") {
		cfg.Gzip = flagGzip
	}
	if flags.Changed("rate") {
		cfg.Rate = flagRate
	}
}
