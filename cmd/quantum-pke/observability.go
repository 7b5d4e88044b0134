package main

import (
	"flag"
	"fmt"
	"strings"

	"github.com/sara-star-quant/quantum-pke/pkg/metrics"
	"github.com/sara-star-quant/quantum-pke/pkg/pke"
)

// schemeFlags are the flags shared by every command that builds a scheme.
type schemeFlags struct {
	kem       string
	suite     string
	logLevel  string
	logFormat string
	tracing   string
}

func (f *schemeFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&f.kem, "kem", "ML-KEM-1024", "KEM: "+strings.Join(pke.KEMNames(), ", "))
	fs.StringVar(&f.suite, "suite", "auto", "DEM cipher suite: auto (AES-256-GCM), AES-256-GCM or ChaCha20-Poly1305")
	fs.StringVar(&f.logLevel, "log-level", "warn", "Log level: debug, info, warn, error, silent")
	fs.StringVar(&f.logFormat, "log-format", "text", "Log format: text or json")
	fs.StringVar(&f.tracing, "tracing", "none", "Tracing mode: none, simple, otel (requires -tags otel)")
}

// observability bundles what setupObservability installs.
type observability struct {
	logger    *metrics.Logger
	collector *metrics.Collector
	tracer    metrics.Tracer
}

func (f *schemeFlags) setupObservability(env *cliEnv) (*observability, error) {
	level, err := parseLogLevel(f.logLevel)
	if err != nil {
		return nil, err
	}
	format, ok := metrics.ParseFormat(f.logFormat)
	if !ok {
		return nil, fmt.Errorf("invalid log format: %s (use text or json)", f.logFormat)
	}

	logger := metrics.NewLogger(
		metrics.WithOutput(env.stderr),
		metrics.WithLevel(level),
		metrics.WithFormat(format),
		metrics.WithFields(metrics.Fields{"app": "quantum-pke"}),
	)
	metrics.SetLogger(logger)

	var tracer metrics.Tracer
	switch strings.ToLower(f.tracing) {
	case "none":
		tracer = metrics.NoOpTracer{}
	case "simple":
		tracer = metrics.NewSimpleTracer()
	case "otel":
		if !metrics.OTelEnabled() {
			return nil, fmt.Errorf("otel tracing not enabled (build with -tags otel)")
		}
		tracer = metrics.NewOTelTracer("quantum-pke")
	default:
		return nil, fmt.Errorf("invalid tracing mode: %s (use none, simple, or otel)", f.tracing)
	}
	metrics.SetTracer(tracer)

	collector := metrics.NewCollector(metrics.Labels{"service": "quantum-pke"})
	metrics.SetGlobal(collector)

	return &observability{logger: logger, collector: collector, tracer: tracer}, nil
}

// newScheme builds the scheme selected by the flags.
func (f *schemeFlags) newScheme(env *cliEnv) (*pke.Scheme, *observability, error) {
	obs, err := f.setupObservability(env)
	if err != nil {
		return nil, nil, err
	}

	cfg := pke.Config{KEM: f.kem, Suite: f.suite}
	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid configuration: %w", err)
	}
	scheme, err := pke.NewFromConfig(cfg,
		pke.WithLogger(obs.logger),
		pke.WithCollector(obs.collector),
		pke.WithTracer(obs.tracer),
	)
	if err != nil {
		return nil, nil, err
	}
	obs.logger.Debug("scheme ready", metrics.Fields{"scheme": scheme.String()})
	return scheme, obs, nil
}

func parseLogLevel(level string) (metrics.Level, error) {
	switch strings.ToLower(level) {
	case "debug", "info", "warn", "warning", "error", "silent", "off", "none":
		return metrics.ParseLevel(level), nil
	default:
		return metrics.LevelInfo, fmt.Errorf("invalid log level: %s (use debug, info, warn, error, silent)", level)
	}
}
