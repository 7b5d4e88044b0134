package main

import (
	"errors"
	"fmt"
	"io"
	"os"
)

// stdio is the path that selects stdin or stdout.
const stdio = "-"

func readInput(path string, env *cliEnv) ([]byte, error) {
	if path == stdio {
		return io.ReadAll(env.stdin)
	}
	return os.ReadFile(path)
}

// writeOutput writes data to path with perm, or to stdout for "-". Existing
// files are only replaced when overwrite is set.
func writeOutput(path string, data []byte, perm os.FileMode, overwrite bool, env *cliEnv) (err error) {
	if path == stdio {
		_, err = env.stdout.Write(data)
		return err
	}

	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if !overwrite {
		flags |= os.O_EXCL
	}
	f, err := os.OpenFile(path, flags, perm)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return fmt.Errorf("%s already exists (use -force to overwrite)", path)
		}
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	// O_CREATE only applies perm to new files.
	if err := f.Chmod(perm); err != nil {
		return err
	}
	_, err = f.Write(data)
	return err
}
