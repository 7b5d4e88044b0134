package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	pkgversion "github.com/sara-star-quant/quantum-pke/pkg/version"
)

// Build-time variables (set via -ldflags)
var (
	version   = ""        // Set via -ldflags "-X main.version=x.y.z"
	buildTime = "unknown" // Set via -ldflags "-X main.buildTime=..."
	gitCommit = "unknown" // Set via -ldflags "-X main.gitCommit=..."
)

func getVersion() string {
	if version != "" {
		return version
	}
	return pkgversion.String()
}

// errUsage marks errors for which usage has already been printed.
var errUsage = errors.New("usage")

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

type command struct {
	name  string
	short string
	run   func(args []string, env *cliEnv) error
}

var commands = []command{
	{"keygen", "Generate a key pair", keygenCommand},
	{"encrypt", "Encrypt a file to a public key", encryptCommand},
	{"decrypt", "Decrypt a file with a secret key", decryptCommand},
	{"selftest", "Run power-on and conditional self-tests", selftestCommand},
	{"bench", "Run performance benchmarks", benchCommand},
	{"version", "Print version information", versionCommand},
}

// cliEnv carries the process streams so commands can be tested.
type cliEnv struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	env := &cliEnv{stdin: stdin, stdout: stdout, stderr: stderr}
	if len(args) < 1 {
		printUsage(stderr)
		return 1
	}

	name := args[0]
	switch name {
	case "help", "--help", "-h":
		printUsage(stdout)
		return 0
	}

	for _, c := range commands {
		if c.name != name {
			continue
		}
		err := c.run(args[1:], env)
		switch {
		case err == nil:
			return 0
		case errors.Is(err, flag.ErrHelp):
			return 0
		case errors.Is(err, errUsage):
			return 2
		default:
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
	}

	fmt.Fprintf(stderr, "Unknown command: %s\n\n", name)
	printUsage(stderr)
	return 1
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, `quantum-pke - Post-Quantum Public-Key Encryption Tool

USAGE:
    quantum-pke <command> [options]

COMMANDS:`)
	for _, c := range commands {
		fmt.Fprintf(w, "    %-9s %s\n", c.name, c.short)
	}
	fmt.Fprintln(w, `    help      Show this help message

Run 'quantum-pke <command> -h' for more information on a command.

EXAMPLES:
    # Generate an ML-KEM-768 key pair
    quantum-pke keygen -kem ML-KEM-768 -pub alice.pub -sec alice.sec

    # Encrypt and decrypt
    quantum-pke encrypt -kem ML-KEM-768 -pub alice.pub -in msg.txt -out msg.pke
    quantum-pke decrypt -kem ML-KEM-768 -sec alice.sec -in msg.pke -out msg.txt

    # Benchmark every KEM with 4 KiB messages
    quantum-pke bench -iterations 200 -size 4KB

KEMS:
    ML-KEM-512, ML-KEM-768, ML-KEM-1024 (default), CH-KEM (X25519 + ML-KEM-1024)`)
}

func versionCommand(args []string, env *cliEnv) error {
	fs := newFlagSet("version", env, "Print version information.")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	fmt.Fprintf(env.stdout, "quantum-pke version %s\n", getVersion())
	fmt.Fprintln(env.stdout, pkgversion.Full())
	if buildTime != "unknown" {
		fmt.Fprintf(env.stdout, "Built: %s\n", buildTime)
	}
	if gitCommit != "unknown" {
		fmt.Fprintf(env.stdout, "Commit: %s\n", gitCommit)
	}
	return nil
}

func newFlagSet(name string, env *cliEnv, description string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(env.stderr)
	fs.Usage = func() {
		fmt.Fprintf(env.stderr, "USAGE: quantum-pke %s [options]\n\n%s\n\nOPTIONS:\n", name, description)
		fs.PrintDefaults()
	}
	return fs
}

func parseFlags(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return err
		}
		return errUsage
	}
	if fs.NArg() > 0 {
		fmt.Fprintf(fs.Output(), "unexpected arguments: %v\n", fs.Args())
		fs.Usage()
		return errUsage
	}
	return nil
}
