package resolvers

import (
	"fmt"
	"sort"

	"github.com/Masterminds/semver/v3"
)

// SemverResolver implements bundle.VersionResolver using Masterminds/semver.
type SemverResolver struct{}

// NewSemverResolver creates a new SemverResolver.
func NewSemverResolver() *SemverResolver {
	return &SemverResolver{}
}

// Resolve converts a version constraint to an exact version from the available options.
// It returns the highest version that satisfies the constraint.
func (r *SemverResolver) Resolve(constraint string, available []string) (string, error) {
	// "latest" is not a semver constraint; treat it as any version.
	var c *semver.Constraints
	var err error

	if constraint == "latest" {
		c, err = semver.NewConstraint(">= 0")
	} else {
		c, err = semver.NewConstraint(constraint)
	}

	if err != nil {
		return "", fmt.Errorf("invalid version constraint %q: %w", constraint, err)
	}

	var valid []*semver.Version
	for _, vStr := range available {
		v, err := semver.NewVersion(vStr)
		if err != nil {
			continue // Skip invalid versions in availability list
		}

		if c.Check(v) {
			valid = append(valid, v)
		}
	}

	if len(valid) == 0 {
		return "", fmt.Errorf("no version satisfies constraint %q from available options", constraint)
	}

	sort.Sort(semver.Collection(valid))

	// Collection sorts ascending, so the last element is the highest.
	highest := valid[len(valid)-1]

	return highest.Original(), nil
}
