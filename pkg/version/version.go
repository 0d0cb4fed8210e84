// Package version derives canonical MAJOR.MINOR.PATCH keys from release names
// and orders them.
package version

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/Masterminds/semver/v3"
)

var numberRe = regexp.MustCompile(`\d+(\.\d+)?(\.\d+)?`)

// Normalize finds the first version number in name and pads it to exactly
// three components, so "macOS Sonoma 14" yields "14.0.0" and
// "macOS Ventura 13.6.1" yields "13.6.1". ok is false when name has no digits.
func Normalize(name string) (key string, ok bool) {
	key = numberRe.FindString(name)
	if key == "" {
		return "", false
	}
	switch strings.Count(key, ".") {
	case 0:
		key += ".0.0"
	case 1:
		key += ".0"
	}
	return key, true
}

// Major returns the leading component of key.
func Major(key string) string {
	major, _, _ := strings.Cut(key, ".")
	return major
}

// Ordering selects how keys and major components are compared.
type Ordering string

const (
	// Semver compares each dotted component numerically.
	Semver Ordering = "semver"

	// Lexical compares keys as plain strings, so "14.10.0" sorts below "14.9.0".
	Lexical Ordering = "lexical"
)

// ParseOrdering validates s as an Ordering. An empty string selects Semver.
func ParseOrdering(s string) (Ordering, error) {
	switch o := Ordering(strings.ToLower(strings.TrimSpace(s))); o {
	case "":
		return Semver, nil
	case Semver, Lexical:
		return o, nil
	default:
		return "", fmt.Errorf("unknown version ordering %q (want %q or %q)", s, Semver, Lexical)
	}
}

// Compare returns -1, 0 or +1 as a sorts before, equal to or after b.
// Major tokens ("14") are accepted as well as full keys.
func (o Ordering) Compare(a, b string) int {
	if o != Lexical {
		va, errA := semver.NewVersion(a)
		vb, errB := semver.NewVersion(b)
		if errA == nil && errB == nil {
			if c := va.Compare(vb); c != 0 {
				return c
			}
		}
	}
	return strings.Compare(a, b)
}

// Descending returns a comparison func for slices.SortFunc that puts the
// highest version first.
func (o Ordering) Descending() func(a, b string) int {
	return func(a, b string) int {
		return o.Compare(b, a)
	}
}
