// Package version contains the pure versioning policy for the release flow.
// It decides what number a new release or hotfix branch gets, given the tags
// that already exist. No I/O happens here.
package version

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// ErrVersionConflict is returned when an explicitly requested version is not
// strictly greater than the highest tag already published.
var ErrVersionConflict = errors.New("version conflict")

// ParseTag parses a tag name into a semantic version. Historical tag naming
// varies across repositories, so bare (1.4.0), v-prefixed (v1.4.0) and
// release-prefixed (release/1.4.0, release-1.4.0) forms are all accepted.
// Returns false for tags that do not carry a version at all.
func ParseTag(name string) (*semver.Version, bool) {
	trimmed := name
	for _, prefix := range []string{"release/", "release-", "v"} {
		if strings.HasPrefix(trimmed, prefix) {
			trimmed = strings.TrimPrefix(trimmed, prefix)
			break
		}
	}

	v, err := semver.NewVersion(trimmed)
	if err != nil {
		return nil, false
	}
	return v, true
}

// Highest returns the highest semantic version among the given tag names,
// or nil when no tag parses to a version.
func Highest(tags []string) *semver.Version {
	var highest *semver.Version
	for _, tag := range tags {
		v, ok := ParseTag(tag)
		if !ok {
			continue
		}
		if highest == nil || v.GreaterThan(highest) {
			highest = v
		}
	}
	return highest
}

// HighestOnLine returns the highest version among the given tags that sits on
// the major.minor line, or nil when the line has no tags.
func HighestOnLine(tags []string, major, minor uint64) *semver.Version {
	var highest *semver.Version
	for _, tag := range tags {
		v, ok := ParseTag(tag)
		if !ok || v.Major() != major || v.Minor() != minor {
			continue
		}
		if highest == nil || v.GreaterThan(highest) {
			highest = v
		}
	}
	return highest
}

// NextRelease computes the version for a new release branch: the highest
// existing tag with the minor bumped and the patch reset. When override is
// non-empty it is used instead, but must be strictly greater than the highest
// existing tag.
func NextRelease(tags []string, override string) (*semver.Version, error) {
	highest := Highest(tags)

	if override != "" {
		v, err := semver.NewVersion(override)
		if err != nil {
			return nil, fmt.Errorf("invalid version %q: %w", override, err)
		}
		if highest != nil && !v.GreaterThan(highest) {
			return nil, fmt.Errorf("%w: requested %s is not greater than latest tag %s",
				ErrVersionConflict, v, highest)
		}
		return v, nil
	}

	if highest == nil {
		v := semver.New(0, 1, 0, "", "")
		return v, nil
	}

	next := highest.IncMinor()
	return &next, nil
}

// NextHotfix computes the version for a new hotfix branch: the highest tag on
// the target major.minor line with the patch bumped. When line is empty the
// line of the overall highest tag is used.
func NextHotfix(tags []string, line string) (*semver.Version, error) {
	major, minor, err := resolveLine(tags, line)
	if err != nil {
		return nil, err
	}

	highest := HighestOnLine(tags, major, minor)
	if highest == nil {
		return nil, fmt.Errorf("no release tag found on line %d.%d", major, minor)
	}

	next := highest.IncPatch()
	return &next, nil
}

// ParseLine parses a major.minor line selector such as "1.4".
func ParseLine(line string) (major, minor uint64, err error) {
	v, perr := semver.NewVersion(line + ".0")
	if perr != nil {
		return 0, 0, fmt.Errorf("invalid line %q: expected major.minor", line)
	}
	return v.Major(), v.Minor(), nil
}

func resolveLine(tags []string, line string) (major, minor uint64, err error) {
	if line != "" {
		return ParseLine(line)
	}
	highest := Highest(tags)
	if highest == nil {
		return 0, 0, errors.New("no release tags exist; cannot determine hotfix line")
	}
	return highest.Major(), highest.Minor(), nil
}
