package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"runtime"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/opsreport/pdreport/pkg/client"
	"github.com/opsreport/pdreport/pkg/config"
	"github.com/opsreport/pdreport/pkg/export"
	"github.com/opsreport/pdreport/pkg/logging"
	"github.com/opsreport/pdreport/pkg/pagerduty"
	"github.com/opsreport/pdreport/pkg/sink"
)

var version = "0.1.0"

func main() {
	// Load .env file if it exists.
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// rootFlags are the persistent flags shared by every export command.
// Non-empty values override the loaded config.
type rootFlags struct {
	configPath  string
	outputDir   string
	logLevel    string
	pretty      bool
	metricsAddr string
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	root := &cobra.Command{
		Use:   "pdreport",
		Short: "Export PagerDuty on-call configuration to CSV",
		Long: `pdreport queries the PagerDuty REST API and writes the account's
on-call configuration (users, teams, schedules, escalation policies,
services) as flat CSV files, one per entity kind.`,
		SilenceUsage: true,
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&flags.configPath, "config", "c", "pdreport.yaml", "path to the YAML config file")
	pf.StringVarP(&flags.outputDir, "output-dir", "o", "", "directory for CSV files (overrides config)")
	pf.StringVar(&flags.logLevel, "log-level", "", "log level: debug, info, warn, error (overrides config)")
	pf.BoolVar(&flags.pretty, "pretty", false, "human-readable log output instead of JSON")
	pf.StringVar(&flags.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address during the export")

	root.AddCommand(newVersionCmd())
	root.AddCommand(newInitCmd(flags))

	exports := []struct {
		use   string
		short string
		run   func(*export.Exporter, context.Context) error
	}{
		{"users", "Export users with one row per contact method", (*export.Exporter).Users},
		{"teams", "Export teams with their members, schedules, policies, and services", (*export.Exporter).Teams},
		{"schedules", "Export schedules with current on-call assignments", (*export.Exporter).Schedules},
		{"escalation-policies", "Export escalation policies with one row per rule target", (*export.Exporter).EscalationPolicies},
		{"services", "Export services", (*export.Exporter).Services},
		{"all", "Run every export", (*export.Exporter).All},
	}
	for _, e := range exports {
		run := e.run
		root.AddCommand(&cobra.Command{
			Use:   e.use,
			Short: e.short,
			RunE: func(cmd *cobra.Command, args []string) error {
				exporter, cleanup, err := buildExporter(flags)
				if err != nil {
					return err
				}
				defer cleanup()
				return run(exporter, cmd.Context())
			},
		})
	}

	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "pdreport v%s\n", version)
			fmt.Fprintf(cmd.OutOrStdout(), "Go version: %s\n", runtime.Version())
			fmt.Fprintf(cmd.OutOrStdout(), "OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	}
}

func newInitCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Write a starter config file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(flags.configPath); err == nil {
				return fmt.Errorf("%s already exists", flags.configPath)
			}
			if err := config.Default().Save(flags.configPath); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s; set your API token there or via PDREPORT_TOKEN\n", flags.configPath)
			return nil
		},
	}
}

// buildExporter loads config, applies flag overrides, and wires the
// client, API, and sink. The returned cleanup stops the metrics server.
func buildExporter(flags *rootFlags) (*export.Exporter, func(), error) {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return nil, nil, err
	}
	applyFlags(cfg, flags)
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	logging.Setup(logging.Config{
		Level:  logging.LogLevel(cfg.LogLevel),
		Pretty: cfg.Pretty,
		Output: os.Stderr,
	})

	clientCfg := client.DefaultConfig(cfg.Token)
	clientCfg.UserAgent = "pdreport/" + version
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	if cfg.Timeout > 0 {
		clientCfg.Timeout = cfg.Timeout
	}
	c, err := client.New(clientCfg)
	if err != nil {
		return nil, nil, err
	}

	csvSink, err := sink.NewCSV(cfg.OutputDir)
	if err != nil {
		return nil, nil, err
	}

	cleanup := startMetrics(cfg.MetricsAddr)
	return export.New(pagerduty.New(c), csvSink), cleanup, nil
}

// applyFlags overlays explicitly set flags on the loaded config.
func applyFlags(cfg *config.Config, flags *rootFlags) {
	if flags.outputDir != "" {
		cfg.OutputDir = flags.outputDir
	}
	if flags.logLevel != "" {
		cfg.LogLevel = flags.logLevel
	}
	if flags.pretty {
		cfg.Pretty = true
	}
	if flags.metricsAddr != "" {
		cfg.MetricsAddr = flags.metricsAddr
	}
}

// startMetrics serves /metrics on addr until the returned stop func is
// called. A no-op when addr is empty.
func startMetrics(addr string) func() {
	if addr == "" {
		return func() {}
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Str("addr", addr).Msg("Metrics server failed")
		}
	}()

	return func() {
		_ = srv.Close()
	}
}
