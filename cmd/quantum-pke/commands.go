package main

import (
	"errors"
	"fmt"

	"github.com/sara-star-quant/quantum-pke/pkg/crypto"
	"github.com/sara-star-quant/quantum-pke/pkg/metrics"
	"github.com/sara-star-quant/quantum-pke/pkg/pke"
)

func keygenCommand(args []string, env *cliEnv) error {
	fs := newFlagSet("keygen", env, "Generate a key pair. The secret key is written with mode 0600.")
	var sf schemeFlags
	sf.register(fs)
	pubPath := fs.String("pub", "", "Public key output file (required)")
	secPath := fs.String("sec", "", "Secret key output file (required)")
	force := fs.Bool("force", false, "Overwrite existing key files")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if *pubPath == "" || *secPath == "" {
		fmt.Fprintln(env.stderr, "-pub and -sec are required")
		fs.Usage()
		return errUsage
	}
	if *pubPath == stdio && *secPath == stdio {
		return errors.New("-pub and -sec cannot both be stdout")
	}

	scheme, obs, err := sf.newScheme(env)
	if err != nil {
		return err
	}

	pk, sk, err := scheme.GenerateKeyPair()
	if err != nil {
		return err
	}
	defer crypto.Zeroize(sk)

	if err := writeOutput(*secPath, sk, 0o600, *force, env); err != nil {
		return fmt.Errorf("writing secret key: %w", err)
	}
	if err := writeOutput(*pubPath, pk, 0o644, *force, env); err != nil {
		return fmt.Errorf("writing public key: %w", err)
	}

	obs.logger.Info("key pair written", metrics.Fields{
		"kem":        scheme.KEM().Name(),
		"public_key": *pubPath,
		"secret_key": *secPath,
	})
	return nil
}

func encryptCommand(args []string, env *cliEnv) error {
	fs := newFlagSet("encrypt", env, "Encrypt a message to a public key.")
	var sf schemeFlags
	sf.register(fs)
	pubPath := fs.String("pub", "", "Recipient public key file (required)")
	in := fs.String("in", stdio, "Plaintext input file, - for stdin")
	out := fs.String("out", stdio, "Ciphertext output file, - for stdout")
	force := fs.Bool("force", false, "Overwrite an existing output file")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if *pubPath == "" {
		fmt.Fprintln(env.stderr, "-pub is required")
		fs.Usage()
		return errUsage
	}

	scheme, _, err := sf.newScheme(env)
	if err != nil {
		return err
	}
	pk, err := readInput(*pubPath, env)
	if err != nil {
		return fmt.Errorf("reading public key: %w", err)
	}
	msg, err := readInput(*in, env)
	if err != nil {
		return fmt.Errorf("reading plaintext: %w", err)
	}

	ct, err := scheme.Encrypt(msg, pk)
	if err != nil {
		return err
	}
	return writeOutput(*out, ct, 0o644, *force, env)
}

func decryptCommand(args []string, env *cliEnv) error {
	fs := newFlagSet("decrypt", env, "Decrypt a ciphertext with a secret key. The plaintext is written with mode 0600.")
	var sf schemeFlags
	sf.register(fs)
	secPath := fs.String("sec", "", "Secret key file (required)")
	in := fs.String("in", stdio, "Ciphertext input file, - for stdin")
	out := fs.String("out", stdio, "Plaintext output file, - for stdout")
	force := fs.Bool("force", false, "Overwrite an existing output file")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if *secPath == "" {
		fmt.Fprintln(env.stderr, "-sec is required")
		fs.Usage()
		return errUsage
	}

	scheme, _, err := sf.newScheme(env)
	if err != nil {
		return err
	}
	sk, err := readInput(*secPath, env)
	if err != nil {
		return fmt.Errorf("reading secret key: %w", err)
	}
	defer crypto.Zeroize(sk)
	ct, err := readInput(*in, env)
	if err != nil {
		return fmt.Errorf("reading ciphertext: %w", err)
	}

	msg, err := scheme.Decrypt(ct, sk)
	if err != nil {
		if errors.Is(err, pke.ErrMalformedCiphertext) {
			return fmt.Errorf("%w: %d bytes, need at least %d", err, len(ct), scheme.MinCiphertextSize())
		}
		return err
	}
	defer crypto.Zeroize(msg)
	return writeOutput(*out, msg, 0o600, *force, env)
}
