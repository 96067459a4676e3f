package cli

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// validateVersion checks a user-supplied version flag. Returns an error with
// a helpful message when the value is not a full major.minor.patch version.
func validateVersion(value string) error {
	if value == "" {
		return nil // Optional flags pass through; required flags are checked by cobra.
	}

	trimmed := strings.TrimPrefix(value, "v")
	if _, err := semver.StrictNewVersion(trimmed); err != nil {
		if parts := strings.Split(trimmed, "."); len(parts) < 3 {
			return fmt.Errorf("invalid version '%s'. Use the full major.minor.patch form, e.g. %s.0", value, trimmed)
		}
		return fmt.Errorf("invalid version '%s': %v", value, err)
	}
	return nil
}

// validateLine checks a --line flag value, which selects a major.minor line.
func validateLine(value string) error {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ".")
	if len(parts) != 2 {
		return fmt.Errorf("invalid line '%s'. Use major.minor, e.g. 1.4", value)
	}
	if _, err := semver.StrictNewVersion(value + ".0"); err != nil {
		return fmt.Errorf("invalid line '%s': %v", value, err)
	}
	return nil
}
