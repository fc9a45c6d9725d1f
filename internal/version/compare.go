package version

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// CheckCompatibility checks that something produced at version produced can be
// consumed by code at version current.
//
// Compatibility Rules:
//   - Major versions must match exactly
//   - Minor and patch versions can differ (e.g., 1.0.0 reads 1.3.2)
//
// Examples:
//   - Current 1.0.0, Produced 1.0.0 -> OK (exact match)
//   - Current 1.2.0, Produced 1.0.4 -> OK (minor differs)
//   - Current 2.0.0, Produced 1.2.0 -> ERROR (major differs)
func CheckCompatibility(current, produced string) error {
	// Strip 'v' prefix if present for consistency
	current = strings.TrimPrefix(current, "v")
	produced = strings.TrimPrefix(produced, "v")

	currentSemver, err := semver.NewVersion(current)
	if err != nil {
		return fmt.Errorf("invalid current version '%s': %w", current, err)
	}

	producedSemver, err := semver.NewVersion(produced)
	if err != nil {
		return fmt.Errorf("invalid produced version '%s': %w", produced, err)
	}

	if currentSemver.Major() != producedSemver.Major() {
		return fmt.Errorf("major version mismatch: current is %d.x.x but input was produced with %d.x.x",
			currentSemver.Major(), producedSemver.Major())
	}

	return nil
}
