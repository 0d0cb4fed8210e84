// Package classify groups releases under canonical version keys and marks
// which major lineages are current.
package classify

import (
	"slices"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/iancoleman/orderedmap"

	"github.com/paulstuart/macver/pkg/model"
	"github.com/paulstuart/macver/pkg/version"
)

const (
	// DefaultPlatform is the name prefix of releases that are classified.
	DefaultPlatform = "macOS"

	// DefaultSupported is how many of the newest major versions count as supported.
	DefaultSupported = 3
)

// FilterPlatform keeps the releases of platform, dropping server releases, and
// returns them oldest first. The input is in page order, newest first.
func FilterPlatform(releases []model.RawRelease, platform string) []model.RawRelease {
	var out []model.RawRelease
	for _, r := range releases {
		if !strings.HasPrefix(r.Name, platform) {
			continue
		}
		if strings.Contains(strings.ToLower(r.Name), "server") {
			continue
		}
		out = append(out, r)
	}
	slices.Reverse(out)
	return out
}

// Catalog holds one entry per canonical key, in the order the keys were first seen.
type Catalog struct {
	keys    []string
	entries map[string]*model.VersionEntry
}

// Keys returns the canonical keys in first-seen order.
func (c *Catalog) Keys() []string {
	return slices.Clone(c.keys)
}

// Get returns the entry for key.
func (c *Catalog) Get(key string) (*model.VersionEntry, bool) {
	e, ok := c.entries[key]
	return e, ok
}

// Len is the number of canonical keys.
func (c *Catalog) Len() int {
	return len(c.keys)
}

// Entries returns the entries in first-seen order.
func (c *Catalog) Entries() []*model.VersionEntry {
	out := make([]*model.VersionEntry, 0, len(c.keys))
	for _, k := range c.keys {
		out = append(out, c.entries[k])
	}
	return out
}

// Classifier builds a Catalog from releases sorted oldest first.
type Classifier struct {
	Ordering version.Ordering
	Logger   *log.Logger

	// Supported is the number of newest major versions that are still supported.
	Supported int
}

func (cl *Classifier) ordering() version.Ordering {
	if cl.Ordering == "" {
		return version.Semver
	}
	return cl.Ordering
}

func (cl *Classifier) logger() *log.Logger {
	if cl.Logger == nil {
		return log.Default()
	}
	return cl.Logger
}

// Classify groups releases by canonical key and sets the latest and
// unsupported flags. The first release seen for a key supplies the entry's
// name, date and link; later ones become supplemental updates. Releases
// without a version number are logged and skipped.
func (cl *Classifier) Classify(releases []model.RawRelease) *Catalog {
	c := &Catalog{entries: make(map[string]*model.VersionEntry)}
	for _, r := range releases {
		key, ok := version.Normalize(r.Name)
		if !ok {
			cl.logger().Warn("No version number found", "name", r.Name)
			continue
		}
		if e, seen := c.entries[key]; seen {
			e.SupplementalUpdates = append(e.SupplementalUpdates, model.SupplementalUpdate{
				Name:               r.Name,
				ReleaseDate:        r.ReleaseDate,
				SecurityUpdatesURL: r.URL(),
			})
			continue
		}
		c.keys = append(c.keys, key)
		c.entries[key] = &model.VersionEntry{
			Key:                 key,
			Name:                r.Name,
			ReleaseDate:         r.ReleaseDate,
			SecurityUpdatesURL:  r.URL(),
			SupplementalUpdates: []model.SupplementalUpdate{},
		}
	}
	cl.markLineages(c)
	return c
}

// SupportedMajors returns the newest major versions present in c, newest first.
func (cl *Classifier) SupportedMajors(c *Catalog) []string {
	var majors []string
	for _, k := range c.keys {
		if m := version.Major(k); !slices.Contains(majors, m) {
			majors = append(majors, m)
		}
	}
	slices.SortFunc(majors, cl.ordering().Descending())

	n := cl.Supported
	if n <= 0 {
		n = DefaultSupported
	}
	if len(majors) > n {
		majors = majors[:n]
	}
	return majors
}

func (cl *Classifier) markLineages(c *Catalog) {
	keys := c.Keys()
	slices.SortFunc(keys, cl.ordering().Descending())

	supported := cl.SupportedMajors(c)
	for _, major := range supported {
		for _, k := range keys {
			if version.Major(k) == major {
				c.entries[k].Latest = true
				break
			}
		}
	}
	for _, k := range keys {
		if !slices.Contains(supported, version.Major(k)) {
			c.entries[k].Unsupported = true
		}
	}
}

// ByReleaseDate returns the entries keyed by canonical key, newest release
// first. Entries released on the same day keep their first-seen order.
func ByReleaseDate(c *Catalog) *orderedmap.OrderedMap {
	entries := c.Entries()
	slices.SortStableFunc(entries, func(a, b *model.VersionEntry) int {
		return b.ReleaseDate.Compare(a.ReleaseDate.Time)
	})
	return toMap(entries)
}

// ByVersion returns the entries keyed by canonical key, highest key first
// under ordering.
func ByVersion(c *Catalog, ordering version.Ordering) *orderedmap.OrderedMap {
	entries := c.Entries()
	desc := ordering.Descending()
	slices.SortStableFunc(entries, func(a, b *model.VersionEntry) int {
		return desc(a.Key, b.Key)
	})
	return toMap(entries)
}

func toMap(entries []*model.VersionEntry) *orderedmap.OrderedMap {
	m := orderedmap.New()
	m.SetEscapeHTML(false)
	for _, e := range entries {
		m.Set(e.Key, e)
	}
	return m
}
