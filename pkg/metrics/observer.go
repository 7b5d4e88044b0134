package metrics

import (
	"context"
	"time"
)

// PKEObserver records metrics, traces and logs for public-key encryption
// operations.
//
// Log entries and span errors never include key material, shared secrets or
// plaintext. Decryption failures are logged with one fixed message whatever
// their cause.
type PKEObserver struct {
	collector *Collector
	tracer    Tracer
	logger    *Logger
	attrs     SpanAttributes
}

// PKEObserverConfig configures a PKEObserver. Nil fields fall back to the
// global collector, tracer and logger.
type PKEObserverConfig struct {
	Collector   *Collector
	Tracer      Tracer
	Logger      *Logger
	KEM         string
	CipherSuite string
}

// NewPKEObserver creates an observer for one scheme configuration.
func NewPKEObserver(cfg PKEObserverConfig) *PKEObserver {
	if cfg.Collector == nil {
		cfg.Collector = Global()
	}
	if cfg.Tracer == nil {
		cfg.Tracer = GetTracer()
	}
	if cfg.Logger == nil {
		cfg.Logger = GetLogger()
	}

	return &PKEObserver{
		collector: cfg.Collector,
		tracer:    cfg.Tracer,
		logger: cfg.Logger.Named("pke").With(Fields{
			"kem":   cfg.KEM,
			"suite": cfg.CipherSuite,
		}),
		attrs: SpanAttributes{KEM: cfg.KEM, CipherSuite: cfg.CipherSuite},
	}
}

func (o *PKEObserver) spanOptions(inputLen int) SpanOption {
	a := o.attrs
	a.InputBytes = inputLen
	return WithAttributes(a.ToMap())
}

// OnKeygen starts a key generation span. The returned function must be
// called with the operation's result.
func (o *PKEObserver) OnKeygen(ctx context.Context) (context.Context, func(error)) {
	start := time.Now()
	ctx, endSpan := o.tracer.StartSpan(ctx, SpanKeygen, o.spanOptions(0))

	return ctx, func(err error) {
		o.collector.RecordKeygenLatency(time.Since(start))
		if err != nil {
			o.collector.RecordKeygenError()
			o.logger.Warn("key generation failed", Fields{"error": err.Error()})
		} else {
			o.collector.RecordKeyPairGenerated()
			o.logger.Debug("key pair generated")
		}
		endSpan(err)
	}
}

// OnEncrypt starts an encryption span for a plaintext of plaintextLen bytes.
func (o *PKEObserver) OnEncrypt(ctx context.Context, plaintextLen int) (context.Context, func(error)) {
	start := time.Now()
	ctx, endSpan := o.tracer.StartSpan(ctx, SpanEncrypt, o.spanOptions(plaintextLen))

	return ctx, func(err error) {
		d := time.Since(start)
		o.collector.RecordEncryptLatency(d)
		if err != nil {
			o.collector.RecordEncryptError()
			o.logger.Debug("encrypt failed", Fields{"error": err.Error()})
		} else {
			o.collector.RecordEncryption(plaintextLen)
			o.logger.Debug("encrypted", Fields{"bytes": plaintextLen, "duration": d.String()})
		}
		endSpan(err)
	}
}

// OnDecrypt starts a decryption span for a ciphertext of ciphertextLen
// bytes. The returned function takes the recovered plaintext length and the
// operation's error.
func (o *PKEObserver) OnDecrypt(ctx context.Context, ciphertextLen int) (context.Context, func(plaintextLen int, err error)) {
	start := time.Now()
	ctx, endSpan := o.tracer.StartSpan(ctx, SpanDecrypt, o.spanOptions(ciphertextLen))

	return ctx, func(plaintextLen int, err error) {
		d := time.Since(start)
		o.collector.RecordDecryptLatency(d)
		if err != nil {
			o.collector.RecordDecryptError()
			o.logger.Debug("decrypt failed")
		} else {
			o.collector.RecordDecryption(plaintextLen)
			o.logger.Debug("decrypted", Fields{"bytes": plaintextLen, "duration": d.String()})
		}
		endSpan(err)
	}
}

// OnMalformed records a ciphertext rejected for its length. No span is
// opened since nothing secret was touched.
func (o *PKEObserver) OnMalformed(ciphertextLen, minLen int) {
	o.collector.RecordMalformedCiphertext()
	o.logger.Debug("malformed ciphertext", Fields{"length": ciphertextLen, "min": minLen})
}

// Collector returns the observer's collector.
func (o *PKEObserver) Collector() *Collector { return o.collector }

// Logger returns the observer's logger for custom logging.
func (o *PKEObserver) Logger() *Logger { return o.logger }
