package pke

import (
	"strings"

	"github.com/sara-star-quant/quantum-pke/internal/constants"
	qerrors "github.com/sara-star-quant/quantum-pke/internal/errors"
	"github.com/sara-star-quant/quantum-pke/pkg/crypto"
	"github.com/sara-star-quant/quantum-pke/pkg/metrics"
)

// Option configures a Scheme.
type Option func(*options)

type options struct {
	kem       crypto.KEM
	dem       crypto.DEM
	logger    *metrics.Logger
	collector *metrics.Collector
	tracer    metrics.Tracer
	observer  Observer
}

// WithKEM sets the key encapsulation mechanism.
// Default: ML-KEM-1024
func WithKEM(k crypto.KEM) Option {
	return func(o *options) { o.kem = k }
}

// WithDEM sets the data encapsulation mechanism.
// Default: AEAD DEM over crypto.DefaultCipherSuite()
func WithDEM(d crypto.DEM) Option {
	return func(o *options) { o.dem = d }
}

// WithLogger sets the logger. Default: metrics.GetLogger()
func WithLogger(l *metrics.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithCollector sets the metrics collector. Default: metrics.Global()
func WithCollector(c *metrics.Collector) Option {
	return func(o *options) { o.collector = c }
}

// WithTracer sets the tracer. Default: metrics.GetTracer()
func WithTracer(t metrics.Tracer) Option {
	return func(o *options) { o.tracer = t }
}

// WithObserver replaces the metrics-backed observer entirely. Logger,
// collector and tracer options are ignored when it is set.
func WithObserver(obs Observer) Option {
	return func(o *options) { o.observer = obs }
}

// Config selects a scheme by name. It is the form used by the CLI.
type Config struct {
	// KEM is a registered KEM name (see KEMNames).
	// Default: ML-KEM-1024
	KEM string

	// Suite names the DEM's AEAD: "AES-256-GCM", "ChaCha20-Poly1305", or
	// "auto" for the CPU-dependent default.
	// Default: auto
	Suite string
}

// DefaultConfig returns the configuration New uses without options.
func DefaultConfig() Config {
	return Config{
		KEM:   constants.DefaultKEMName,
		Suite: "auto",
	}
}

// applyDefaults fills in zero values with defaults.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()

	if c.KEM == "" {
		c.KEM = defaults.KEM
	}
	if c.Suite == "" {
		c.Suite = defaults.Suite
	}
}

// CipherSuite resolves the Suite name.
func (c Config) CipherSuite() (constants.CipherSuite, error) {
	if c.Suite == "" || strings.EqualFold(c.Suite, "auto") {
		return crypto.DefaultCipherSuite(), nil
	}
	suite, ok := constants.ParseCipherSuite(c.Suite)
	if !ok {
		return 0, qerrors.NewCryptoError("pke.Config", qerrors.ErrUnsupportedCipherSuite)
	}
	return suite, nil
}

// Validate checks that both names resolve.
func (c Config) Validate() error {
	c.applyDefaults()
	if _, err := KEMByName(c.KEM); err != nil {
		return err
	}
	_, err := c.CipherSuite()
	return err
}

// NewFromConfig builds a Scheme from cfg. Options given after cfg take
// precedence over it.
func NewFromConfig(cfg Config, opts ...Option) (*Scheme, error) {
	cfg.applyDefaults()

	k, err := KEMByName(cfg.KEM)
	if err != nil {
		return nil, err
	}
	suite, err := cfg.CipherSuite()
	if err != nil {
		return nil, err
	}
	d, err := crypto.NewAEADDEM(suite)
	if err != nil {
		return nil, err
	}

	return New(append([]Option{WithKEM(k), WithDEM(d)}, opts...)...)
}
