package main

import (
	"flag"
	"fmt"
	"os"
)

// CLIConfig holds the parsed command-line flags for the demo federate.
type CLIConfig struct {
	LogLevel    string
	LogFormat   string
	MetricsPort int
	MetricsPath string
	ScanPeriod  string
	ShowVersion bool
	ShowHelp    bool
}

func parseFlags() *CLIConfig {
	cfg := &CLIConfig{}

	flag.StringVar(&cfg.LogLevel, "log-level", "info", "log level: debug, info, warn, error")
	flag.StringVar(&cfg.LogFormat, "log-format", "text", "log format: text, json")
	flag.IntVar(&cfg.MetricsPort, "metrics-port", 9090, "port for the Prometheus metrics endpoint")
	flag.StringVar(&cfg.MetricsPath, "metrics-path", "/metrics", "path for the Prometheus metrics endpoint")
	flag.StringVar(&cfg.ScanPeriod, "scan-period", "100ms", "interval between registry scans")
	flag.BoolVar(&cfg.ShowVersion, "version", false, "print version and exit")
	flag.BoolVar(&cfg.ShowHelp, "help", false, "print usage and exit")

	flag.Parse()
	return cfg
}

func printHelp() {
	fmt.Fprintf(os.Stderr, "%s: an in-process demo federate exercising the input registry\n\n", appName)
	flag.PrintDefaults()
}
