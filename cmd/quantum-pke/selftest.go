package main

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/sara-star-quant/quantum-pke/pkg/crypto"
	"github.com/sara-star-quant/quantum-pke/pkg/pke"
	"golang.org/x/sync/errgroup"
)

func selftestCommand(args []string, env *cliEnv) error {
	fs := newFlagSet("selftest", env, "Run the power-on self-tests, a pairwise consistency test and an encrypt/decrypt round trip for every KEM, and an RNG health check.")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	w := env.stdout
	failed := 0
	report := func(name string, err error) {
		if err != nil {
			failed++
			fmt.Fprintf(w, "  ✗ %-28s %v\n", name, err)
			return
		}
		fmt.Fprintf(w, "  ✓ %s\n", name)
	}

	fmt.Fprintf(w, "FIPS mode: %v\n", crypto.FIPSMode())
	fmt.Fprintf(w, "AES-GCM hardware: %v\n\n", crypto.HasAESGCMHardware())

	fmt.Fprintln(w, "Power-on self-tests:")
	post := crypto.RunPOST()
	for _, kat := range []struct {
		name   string
		passed bool
	}{
		{"Keccak-f[1600]", post.KeccakPassed},
		{"SHAKE-256", post.SHAKEPassed},
		{"KDF", post.KDFPassed},
		{"DEM key schedule", post.DEMPassed},
		{"AES-256-GCM", post.AESPassed},
		{"ML-KEM-1024", post.MLKEMPassed},
	} {
		var err error
		if !kat.passed {
			err = errors.New("failed")
		}
		report(kat.name, err)
	}
	for _, e := range post.Errors {
		fmt.Fprintf(w, "    %s\n", e)
	}

	fmt.Fprintln(w, "\nConditional self-tests:")
	report("RNG health check", crypto.RNGHealthCheck().Error)
	names := pke.KEMNames()
	results := make([]error, len(names))
	var g errgroup.Group
	for i, name := range names {
		g.Go(func() error {
			results[i] = kemSelfTest(name)
			return nil
		})
	}
	_ = g.Wait()
	for i, name := range names {
		report(name+" pairwise + round trip", results[i])
	}

	if failed > 0 {
		return fmt.Errorf("%d self-test(s) failed", failed)
	}
	fmt.Fprintln(w, "\nAll self-tests passed")
	return nil
}

func kemSelfTest(name string) error {
	k, err := pke.KEMByName(name)
	if err != nil {
		return err
	}
	pk, sk, err := k.GenerateKeyPair()
	if err != nil {
		return err
	}
	defer crypto.Zeroize(sk)
	if r := crypto.PairwiseConsistencyTest(k, pk, sk); !r.Passed {
		return r.Error
	}

	suites := []string{"AES-256-GCM", "ChaCha20-Poly1305"}
	if crypto.FIPSMode() {
		suites = suites[:1]
	}
	for _, suite := range suites {
		scheme, err := pke.NewFromConfig(pke.Config{KEM: name, Suite: suite})
		if err != nil {
			return err
		}
		msg := []byte("quantum-pke self-test " + suite)
		ct, err := scheme.Encrypt(msg, pk)
		if err != nil {
			return err
		}
		got, err := scheme.Decrypt(ct, sk)
		if err != nil {
			return fmt.Errorf("%s: %w", suite, err)
		}
		if !bytes.Equal(got, msg) {
			return fmt.Errorf("%s: round trip mismatch", suite)
		}
	}
	return nil
}
