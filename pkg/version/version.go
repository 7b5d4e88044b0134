// Package version holds the library version and the ciphertext format
// version it produces.
package version

import (
	"fmt"

	"github.com/sara-star-quant/quantum-pke/internal/constants"
)

const (
	// Major is the major version (breaking changes).
	Major = 0
	// Minor is the minor version (new features).
	Minor = 1
	// Patch is the patch version (bug fixes).
	Patch = 0
	// Label is the optional pre-release label.
	Label = ""
)

// String returns the semantic version, e.g. "v0.1.0".
func String() string {
	v := fmt.Sprintf("v%d.%d.%d", Major, Minor, Patch)
	if Label != "" {
		v += "-" + Label
	}
	return v
}

// Full returns the product name, version and ciphertext format.
func Full() string {
	return fmt.Sprintf("Quantum-PKE %s (format %d)", String(), constants.FormatVersion)
}
