package models

import "time"

// Site is a registry entry keyed by the (client, site) name pair.
// RequiredClearance is opt-in: an empty value means the site imposes no
// security requirement.
type Site struct {
	ID                string    `db:"id" json:"id"`
	ClientName        string    `db:"client_name" json:"client_name"`
	SiteName          string    `db:"site_name" json:"site_name"`
	RequiredClearance Clearance `db:"required_clearance" json:"required_clearance,omitempty"`
	CreatedAt         time.Time `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time `db:"updated_at" json:"updated_at"`
}

// SiteKey identifies a site in the registry.
type SiteKey struct {
	ClientName string
	SiteName   string
}

// Key returns the registry lookup key for the site.
func (s Site) Key() SiteKey {
	return SiteKey{ClientName: s.ClientName, SiteName: s.SiteName}
}
