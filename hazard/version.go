package hazard

import (
	"fmt"

	"golang.org/x/mod/semver"
)

// Version is the current demonstrator version, in semver form.
const Version = "v0.2.0"

// Info provides runtime information about the demonstrator.
type Info struct {
	// Version is the semver version string.
	Version string

	// Mechanism names the primitive backing the guarded variants.
	Mechanism string
}

// GetInfo returns information about the demonstrator runtime.
//
// Example:
//
//	info := hazard.GetInfo()
//	fmt.Printf("memhazard %s (%s)\n", info.Version, info.Mechanism)
func GetInfo() Info {
	return Info{
		Version:   Version,
		Mechanism: "sync/atomic (hardware CAS + publication barrier)",
	}
}

// AtLeast reports whether the runtime version satisfies min, which must
// be a valid semver string such as "v0.2.0".
//
// Scripts that depend on report fields introduced in a given release can
// guard themselves with the CLI's --require flag, which calls this.
func AtLeast(min string) (bool, error) {
	if !semver.IsValid(min) {
		return false, fmt.Errorf("invalid version %q: want semver like v0.2.0", min)
	}
	return semver.Compare(Version, min) >= 0, nil
}
