package installer

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// LatestTag is the npm dist-tag requested when no release version is known.
const LatestTag = "latest"

// PinVersion returns the version the Gestalt packages are pinned to. A
// release build pins to its own version. Development builds use override
// when set and the latest dist-tag otherwise. A leading "v" is tolerated on
// both inputs.
func PinVersion(buildVersion, override string) (string, error) {
	if v, err := parseSemver(buildVersion); err == nil {
		return v.String(), nil
	}

	if override == "" {
		return LatestTag, nil
	}
	v, err := parseSemver(override)
	if err != nil {
		return "", fmt.Errorf("parsing gestalt version override %q: %w", override, err)
	}
	return v.String(), nil
}

// parseSemver strips a leading "v" and parses the version string strictly.
func parseSemver(version string) (*semver.Version, error) {
	version = strings.TrimPrefix(version, "v")
	return semver.StrictNewVersion(version)
}
