package main

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/sara-star-quant/quantum-pke/pkg/crypto"
	"github.com/sara-star-quant/quantum-pke/pkg/keccak"
	"github.com/sara-star-quant/quantum-pke/pkg/metrics"
	"github.com/sara-star-quant/quantum-pke/pkg/pke"
)

func benchCommand(args []string, env *cliEnv) error {
	fs := newFlagSet("bench", env, "Run performance benchmarks for the permutation and for keygen, encrypt and decrypt.")
	var sf schemeFlags
	sf.register(fs)
	kemFlag := fs.Lookup("kem")
	kemFlag.Usage = "KEM to benchmark, or all"
	kemFlag.DefValue = "all"
	_ = kemFlag.Value.Set("all")
	iterations := fs.Int("iterations", 100, "Iterations per measurement")
	sizeStr := fs.String("size", "1KB", "Message size (e.g., 64, 4KB, 1MB)")
	showMetrics := fs.Bool("metrics", false, "Print the collected metrics in Prometheus format")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if *iterations <= 0 {
		return fmt.Errorf("invalid -iterations: %d", *iterations)
	}
	size, err := parseSize(*sizeStr)
	if err != nil {
		return err
	}

	w := env.stdout
	fmt.Fprintln(w, "╔═══════════════════════════════════════════════════════════╗")
	fmt.Fprintln(w, "║      Post-Quantum Public-Key Encryption Benchmark         ║")
	fmt.Fprintln(w, "╚═══════════════════════════════════════════════════════════╝")
	fmt.Fprintln(w)

	fmt.Fprintf(w, "AES-GCM hardware: %v\n\n", crypto.HasAESGCMHardware())

	benchPermutation(w, *iterations*100)

	kems := pke.KEMNames()
	if !strings.EqualFold(sf.kem, "all") {
		kems = []string{sf.kem}
	}

	var collector *metrics.Collector
	for _, name := range kems {
		sf.kem = name
		scheme, obs, err := sf.newScheme(env)
		if err != nil {
			return err
		}
		collector = obs.collector
		if err := benchScheme(w, scheme, *iterations, size); err != nil {
			return err
		}
		if *showMetrics {
			fmt.Fprintln(w, "Metrics:")
			metrics.NewPrometheusExporter(collector, "quantum_pke").WriteMetrics(w)
			fmt.Fprintln(w)
		}
	}
	return nil
}

func benchPermutation(w io.Writer, count int) {
	fmt.Fprintf(w, "Keccak-f[1600] (%d permutations)\n", count)
	fmt.Fprintln(w, strings.Repeat("─", 60))

	var s keccak.State
	start := time.Now()
	for range count {
		keccak.Permute(&s)
	}
	scalar := time.Since(start)

	s4 := keccak.Pack4x(&s, &s, &s, &s)
	start = time.Now()
	for range count / 4 {
		keccak.Permute4x(s4)
	}
	batched := time.Since(start)

	fmt.Fprintf(w, "  Scalar:  %v per permutation\n", scalar/time.Duration(count))
	if n := count / 4 * 4; n > 0 {
		fmt.Fprintf(w, "  4-way:   %v per permutation\n", batched/time.Duration(n))
	}
	fmt.Fprintln(w)
}

func benchScheme(w io.Writer, scheme *pke.Scheme, count, size int) error {
	fmt.Fprintf(w, "%s (%d iterations, %s messages)\n", scheme, count, formatSize(int64(size)))
	fmt.Fprintln(w, strings.Repeat("─", 60))
	fmt.Fprintf(w, "  Ciphertext: %s (overhead %d B)\n\n", formatSize(int64(scheme.CiphertextSize(size))), scheme.Overhead())

	keygen := make([]time.Duration, count)
	for i := range count {
		start := time.Now()
		if _, _, err := scheme.GenerateKeyPair(); err != nil {
			return err
		}
		keygen[i] = time.Since(start)
	}

	pk, sk, err := scheme.GenerateKeyPair()
	if err != nil {
		return err
	}
	msg := make([]byte, size)
	for i := range msg {
		msg[i] = byte(i % 256)
	}

	encrypt := make([]time.Duration, count)
	decrypt := make([]time.Duration, count)
	for i := range count {
		start := time.Now()
		ct, err := scheme.Encrypt(msg, pk)
		if err != nil {
			return err
		}
		encrypt[i] = time.Since(start)

		start = time.Now()
		if _, err := scheme.Decrypt(ct, sk); err != nil {
			return err
		}
		decrypt[i] = time.Since(start)
	}

	printTimings(w, "Keygen", keygen, 0)
	printTimings(w, "Encrypt", encrypt, size)
	printTimings(w, "Decrypt", decrypt, size)
	printRating(w, median(encrypt))
	fmt.Fprintln(w)
	return nil
}

func printTimings(w io.Writer, name string, durations []time.Duration, bytesPerOp int) {
	var sum time.Duration
	for _, d := range durations {
		sum += d
	}
	avg := sum / time.Duration(len(durations))

	fmt.Fprintf(w, "  %-8s avg %-10v median %-10v min %-10v max %-10v %.0f ops/sec",
		name, avg, median(durations), slices.Min(durations), slices.Max(durations), float64(len(durations))/sum.Seconds())
	if bytesPerOp > 0 {
		fmt.Fprintf(w, "  %.2f MB/s", float64(bytesPerOp)*float64(len(durations))/sum.Seconds()/1024/1024)
	}
	fmt.Fprintln(w)
}

func median(durations []time.Duration) time.Duration {
	sorted := slices.Clone(durations)
	slices.Sort(sorted)
	return sorted[len(sorted)/2]
}

func printRating(w io.Writer, encrypt time.Duration) {
	switch {
	case encrypt < 200*time.Microsecond:
		fmt.Fprintln(w, "✓ Performance: Excellent (< 200µs median encrypt)")
	case encrypt < time.Millisecond:
		fmt.Fprintln(w, "✓ Performance: Good (< 1ms median encrypt)")
	case encrypt < 5*time.Millisecond:
		fmt.Fprintln(w, "⚠ Performance: Acceptable (< 5ms median encrypt)")
	default:
		fmt.Fprintln(w, "⚠ Performance: Slow (> 5ms median encrypt)")
	}
}

func parseSize(s string) (int, error) {
	// Simple parser for sizes like "64", "4KB", "1MB"
	var value int
	var unit string
	n, _ := fmt.Sscanf(s, "%d%s", &value, &unit)
	if n == 0 || value < 0 {
		return 0, fmt.Errorf("invalid size: %s", s)
	}

	switch unit {
	case "", "B", "b":
		return value, nil
	case "KB", "kb", "K", "k":
		return value * 1024, nil
	case "MB", "mb", "M", "m":
		return value * 1024 * 1024, nil
	default:
		return 0, fmt.Errorf("invalid size unit: %s", s)
	}
}

func formatSize(bytes int64) string {
	if bytes < 0 {
		return fmt.Sprintf("%d B", bytes)
	}
	return humanize.IBytes(uint64(bytes))
}
