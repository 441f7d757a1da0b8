package semver

import (
	"fmt"
	"sort"

	masterminds "github.com/Masterminds/semver/v3"
)

const resolverLogPrefix = "semver:resolver"

// Version statuses.
const (
	StatusActive     = "active"
	StatusDeprecated = "deprecated"
	StatusDisabled   = "disabled"
)

// Candidate is one registered version of a transport.
type Candidate struct {
	Version *masterminds.Version
	Status  string
	// Index points back into the caller's slice.
	Index int
}

// NewCandidate parses version and builds a Candidate.
func NewCandidate(version, status string, index int) (Candidate, error) {
	v, err := masterminds.StrictNewVersion(version)
	if err != nil {
		return Candidate{}, fmt.Errorf("%s - invalid version %q: %w", resolverLogPrefix, version, err)
	}
	if status == "" {
		status = StatusActive
	}
	return Candidate{Version: v, Status: status, Index: index}, nil
}

// ResolveParams holds parameters for Resolve.
type ResolveParams struct {
	Candidates []Candidate
	// Range is a semver range, a major-only range, an exact version or "".
	Range string
	// DefaultMajor is used when Range is empty; -1 picks the highest major.
	DefaultMajor      int
	IncludeDeprecated bool
}

// Resolve returns the best candidate for params, or nil.
//
// Disabled candidates never match. Prerelease versions only match an exact or
// prerelease range. Among matching versions the highest active one wins;
// a deprecated one is used when nothing active matches, or first when
// IncludeDeprecated is set.
func Resolve(params ResolveParams) *Candidate {
	var pool []Candidate
	for _, c := range params.Candidates {
		if c.Status != StatusDisabled {
			pool = append(pool, c)
		}
	}
	if len(pool) == 0 {
		return nil
	}

	var matching []Candidate
	switch {
	case params.Range == "":
		major := params.DefaultMajor
		if major < 0 {
			major = highestMajor(pool)
		}
		matching = inMajor(pool, major)
	case IsMajorOnly(params.Range):
		matching = inMajor(pool, ExtractMajorFromRange(params.Range))
	default:
		constraint, err := masterminds.NewConstraint(params.Range)
		if err != nil {
			return exact(pool, params.Range)
		}
		for _, c := range pool {
			if constraint.Check(c.Version) {
				matching = append(matching, c)
			}
		}
	}

	if len(matching) == 0 {
		return nil
	}

	sort.SliceStable(matching, func(i, j int) bool {
		return matching[i].Version.GreaterThan(matching[j].Version)
	})

	if !params.IncludeDeprecated {
		for i := range matching {
			if matching[i].Status == StatusActive {
				return &matching[i]
			}
		}
	}
	return &matching[0]
}

// SatisfiesRange checks if a version string satisfies a range.
func SatisfiesRange(version, rangeStr string) bool {
	sv, err := masterminds.NewVersion(version)
	if err != nil {
		return false
	}
	if IsMajorOnly(rangeStr) {
		return int(sv.Major()) == ExtractMajorFromRange(rangeStr)
	}
	constraint, err := masterminds.NewConstraint(rangeStr)
	if err != nil {
		return false
	}
	return constraint.Check(sv)
}

// UniqueMajors returns every major version in descending order.
func UniqueMajors(candidates []Candidate) []int {
	seen := make(map[int]bool)
	var majors []int
	for _, c := range candidates {
		m := int(c.Version.Major())
		if !seen[m] {
			seen[m] = true
			majors = append(majors, m)
		}
	}
	sort.Sort(sort.Reverse(sort.IntSlice(majors)))
	return majors
}

func highestMajor(candidates []Candidate) int {
	highest := -1
	for _, c := range candidates {
		if m := int(c.Version.Major()); m > highest {
			highest = m
		}
	}
	return highest
}

// inMajor keeps the candidates of major, preferring stable releases when any exist.
func inMajor(candidates []Candidate, major int) []Candidate {
	var all, stable []Candidate
	for _, c := range candidates {
		if int(c.Version.Major()) != major {
			continue
		}
		all = append(all, c)
		if c.Version.Prerelease() == "" {
			stable = append(stable, c)
		}
	}
	if len(stable) > 0 {
		return stable
	}
	return all
}

func exact(candidates []Candidate, version string) *Candidate {
	for i := range candidates {
		if candidates[i].Version.Original() == version || candidates[i].Version.String() == version {
			return &candidates[i]
		}
	}
	return nil
}
