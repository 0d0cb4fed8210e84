package model

import (
	"encoding/json"
	"time"
)

// DateLayout is the textual form release dates take in the JSON output.
const DateLayout = "2006-01-02 15:04:05"

// Date is a release date. It serializes as "YYYY-MM-DD HH:MM:SS".
type Date struct {
	time.Time
}

// NewDate returns the Date for the given calendar day.
func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

func (d Date) String() string {
	return d.Format(DateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

// RawRelease is one data row of the security releases table.
type RawRelease struct {
	Name               string `json:"name"`
	AvailableFor       string `json:"available_for"`
	ReleaseDate        Date   `json:"release_date"`
	SecurityUpdatesURL string `json:"security_updates_url,omitempty"` // empty if the row has no link
}

// SupplementalUpdate is a later release that shares the canonical key of an earlier one.
type SupplementalUpdate struct {
	Name               string  `json:"name"`
	ReleaseDate        Date    `json:"release_date"`
	SecurityUpdatesURL *string `json:"security_updates_url"`
}

// VersionEntry is the output record for one canonical MAJOR.MINOR.PATCH key.
type VersionEntry struct {
	Key                 string               `json:"-"`
	Name                string               `json:"name"`
	ReleaseDate         Date                 `json:"release_date"`
	SecurityUpdatesURL  *string              `json:"security_updates_url"`
	SupplementalUpdates []SupplementalUpdate `json:"supplemental_updates"`
	Latest              bool                 `json:"latest,omitempty"`
	Unsupported         bool                 `json:"unsupported,omitempty"`
}

// URL returns the release's security content link, or nil when it has none.
func (r RawRelease) URL() *string {
	if r.SecurityUpdatesURL == "" {
		return nil
	}
	u := r.SecurityUpdatesURL
	return &u
}
