//go:build fips

package crypto

// FIPSMode reports whether the binary was built with the fips tag.
// In FIPS mode the DEM only accepts AES-256-GCM and self-test failures panic.
func FIPSMode() bool { return true }
