package version

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// CheckCompatibility checks whether a configuration written for configVersion can be
// loaded by binaryVersion. Returns nil if compatible, error with details if not.
//
// Compatibility Rules:
//   - If either version is "main" (development build), the check is skipped
//   - Major versions must match exactly
//   - Minor versions must match exactly
//   - Patch versions can differ (e.g., 1.2.0 is compatible with 1.2.5)
func CheckCompatibility(binaryVersion, configVersion string) error {
	binaryVersion = strings.TrimPrefix(binaryVersion, "v")
	configVersion = strings.TrimPrefix(configVersion, "v")

	if binaryVersion == "main" || configVersion == "main" {
		return nil
	}

	binarySemver, err := semver.NewVersion(binaryVersion)
	if err != nil {
		return fmt.Errorf("invalid binary version '%s': %w", binaryVersion, err)
	}

	configSemver, err := semver.NewVersion(configVersion)
	if err != nil {
		return fmt.Errorf("invalid config version '%s': %w", configVersion, err)
	}

	if binarySemver.Major() != configSemver.Major() {
		return fmt.Errorf("major version mismatch: binary is %d.x.x but config requires %d.x.x",
			binarySemver.Major(), configSemver.Major())
	}

	if binarySemver.Minor() != configSemver.Minor() {
		return fmt.Errorf("minor version mismatch: binary is %d.%d.x but config requires %d.%d.x",
			binarySemver.Major(), binarySemver.Minor(),
			configSemver.Major(), configSemver.Minor())
	}

	return nil
}
