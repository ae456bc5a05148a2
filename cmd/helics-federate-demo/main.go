// Package main implements a demo federate that exercises the value-federate
// interface layer: it registers a couple of typed inputs against an
// in-process Core, drives a synthetic publisher, and scans the registry on a
// fixed period while exposing Prometheus metrics and structured logs.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/beroset/HELICS/codec"
	"github.com/beroset/HELICS/federate"
	"github.com/beroset/HELICS/health"
	"github.com/beroset/HELICS/input"
	"github.com/beroset/HELICS/metric"
	"github.com/beroset/HELICS/telemetry"
	"github.com/beroset/HELICS/value"
)

const (
	Version   = "0.1.0"
	BuildTime = "dev"
	appName   = "helics-federate-demo"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	if err := run(); err != nil {
		slog.Error("federate exited with error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := parseFlags()
	if cfg.ShowVersion {
		fmt.Printf("%s version %s (%s)\n", appName, Version, BuildTime)
		return nil
	}
	if cfg.ShowHelp {
		printHelp()
		return nil
	}

	logger := setupLogger(cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(logger)

	scanPeriod, err := time.ParseDuration(cfg.ScanPeriod)
	if err != nil {
		return fmt.Errorf("invalid -scan-period: %w", err)
	}

	core := federate.NewLocalCore()
	metricsRegistry := metric.NewMetricsRegistry()
	tel := telemetry.New(appName, nil, logger)

	reg := input.NewRegistry(core, input.WithMetrics(metricsRegistry.InputMetrics()))
	voltage, frequency, err := registerDemoInputs(reg, tel)
	if err != nil {
		return fmt.Errorf("registering demo inputs: %w", err)
	}
	voltage.FreezeShape()
	frequency.FreezeShape()
	voltage.MarkExecuting()
	frequency.MarkExecuting()

	metricsServer := metric.NewServer(cfg.MetricsPort, cfg.MetricsPath, metricsRegistry)
	if err := metricsServer.Start(); err != nil {
		return fmt.Errorf("starting metrics server: %w", err)
	}
	defer func() { _ = metricsServer.Stop() }()
	metricsServer.Monitor().UpdateHealthy("metrics-server", "listening on "+metricsServer.Address())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pubDone := runSyntheticPublisher(ctx, core)
	runScanLoop(ctx, reg, tel, metricsServer.Monitor(), scanPeriod, voltage, frequency)
	<-pubDone

	logger.Info("shutdown complete")
	return nil
}

// registerDemoInputs sets up two inputs mirroring a small power-system
// federate: a voltage magnitude with a unit bridge and change-detection
// threshold, and a frequency with a typed callback.
func registerDemoInputs(reg *input.Registry, tel *telemetry.Logger) (voltage, frequency *input.Input, err error) {
	voltage = reg.NewInput("bus1.voltage")
	if err = voltage.AddTarget("gen1.voltage"); err != nil {
		return nil, nil, err
	}
	if err = voltage.SetOutputUnits("kV"); err != nil {
		return nil, nil, err
	}
	voltage.SetMinimumChange(0.01)
	voltage.SetNotificationCallback(func(t value.SimTime) {
		tel.Debug("bus1.voltage", fmt.Sprintf("updated at t=%.3fs to %.4f kV", t.Seconds(), voltage.Value().AsDouble()))
	})

	frequency = reg.NewInput("bus1.frequency")
	if err = frequency.AddTarget("gen1.frequency"); err != nil {
		return nil, nil, err
	}
	if err = frequency.SetCallback(input.OnDouble(func(v float64, t value.SimTime) {
		if math.Abs(v-60.0) > 0.5 {
			tel.Warn("bus1.frequency", fmt.Sprintf("frequency excursion: %.3f Hz at t=%.3fs", v, t.Seconds()))
		}
	})); err != nil {
		return nil, nil, err
	}

	return voltage, frequency, nil
}

// runSyntheticPublisher stands in for a real simulator: it publishes
// slowly-drifting voltage and frequency samples until ctx is cancelled.
func runSyntheticPublisher(ctx context.Context, core *federate.LocalCore) <-chan struct{} {
	done := make(chan struct{})
	voltageHandle := core.Register("gen1.voltage")
	frequencyHandle := core.Register("gen1.frequency")

	go func() {
		defer close(done)
		ticker := time.NewTicker(50 * time.Millisecond)
		defer ticker.Stop()

		var elapsed time.Duration
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				elapsed += 50 * time.Millisecond
				t := value.SimTimeFromSeconds(elapsed.Seconds())

				v := 13800.0 + rand.NormFloat64()*5
				core.Publish(voltageHandle, codec.Encode(value.NewDouble(v)), "double", "V", t)

				f := 60.0 + rand.NormFloat64()*0.05
				core.Publish(frequencyHandle, codec.Encode(value.NewDouble(f)), "double", "", t)
			}
		}
	}()
	return done
}

func runScanLoop(ctx context.Context, reg *input.Registry, tel *telemetry.Logger, monitor *health.Monitor, period time.Duration, watched ...*input.Input) {
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			start := time.Now()
			reg.Scan()
			tel.ScanCompleted(len(watched), time.Since(start))
			monitor.Update("input-registry", reg.Health())
		}
	}
}
