// Package semver parses transport references and resolves them against the
// registered transport versions.
package semver

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

const logPrefix = "semver:parser"

// TransportRef is a parsed "name[@range]" reference, e.g. "rest@^1".
type TransportRef struct {
	// Name is the lower-cased transport name (e.g., "rest").
	Name string
	// Range is the version range; "" means the default version.
	Range string
	// Raw is the trimmed input.
	Raw string
}

var (
	transportNameRegex = regexp.MustCompile(`^[a-z][a-z0-9_-]*$`)
	majorOnlyRegex     = regexp.MustCompile(`^\d+$`)
	exactVersionRegex  = regexp.MustCompile(`^\d+\.\d+\.\d+(-[\w.]+)?(\+[\w.]+)?$`)
)

// ParseTransportRef parses a transport reference.
//
// Supported formats:
//   - http         (default version)
//   - http@2       (major only)
//   - http@2.1.0   (exact version)
//   - rest@^1.0.0  (caret range)
//   - rest@>=1     (comparison range)
func ParseTransportRef(input string) (*TransportRef, error) {
	raw := strings.TrimSpace(input)

	name, rangeStr, _ := strings.Cut(raw, "@")
	name = strings.ToLower(strings.TrimSpace(name))
	rangeStr = strings.TrimSpace(rangeStr)

	if !ValidateTransportName(name) {
		return nil, fmt.Errorf("%s - invalid transport reference: %q", logPrefix, raw)
	}
	if strings.Contains(raw, "@") && rangeStr == "" {
		return nil, fmt.Errorf("%s - empty version range in %q", logPrefix, raw)
	}

	return &TransportRef{Name: name, Range: rangeStr, Raw: raw}, nil
}

// String renders the reference back to "name[@range]".
func (r TransportRef) String() string {
	if r.Range == "" {
		return r.Name
	}
	return r.Name + "@" + r.Range
}

// IsMajorOnly checks if a range is a major-only specifier (e.g., "2").
func IsMajorOnly(rangeStr string) bool {
	return majorOnlyRegex.MatchString(rangeStr)
}

// IsExactVersion checks if a range is an exact version (e.g., "2.1.0").
func IsExactVersion(rangeStr string) bool {
	return exactVersionRegex.MatchString(rangeStr)
}

// ExtractMajorFromRange returns the major of a major-only range, or -1.
func ExtractMajorFromRange(rangeStr string) int {
	if !IsMajorOnly(rangeStr) {
		return -1
	}
	major, err := strconv.Atoi(rangeStr)
	if err != nil {
		return -1
	}
	return major
}

// ValidateTransportName validates a transport name (lowercase, alphanumeric, hyphens, underscores).
func ValidateTransportName(name string) bool {
	return transportNameRegex.MatchString(name)
}
