package domain

import (
	"time"
)

// PasteRecord is the unit of storage: the text plus its metadata, keyed
// by slug. The slug is the store key and is not part of the stored value.
type PasteRecord struct {
	Slug     string   `json:"-"`
	Text     string   `json:"text"`
	Metadata Metadata `json:"metadata"`
}

// Metadata carries everything about a paste except its text. ExpiresAt
// and Password are pointers so that "absent" survives a round trip
// distinct from a zero value.
type Metadata struct {
	CreatedAt time.Time  `json:"createdAt"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
	Password  *string    `json:"password,omitempty"`
}

// Expired reports whether the record is past its expiry at the given
// instant. Records without an expiry never expire.
func (m Metadata) Expired(now time.Time) bool {
	if m.ExpiresAt == nil {
		return false
	}
	return !now.Before(*m.ExpiresAt)
}

// Protected reports whether reads require a paste password.
func (m Metadata) Protected() bool {
	return m.Password != nil && *m.Password != ""
}

type CreateParams struct {
	Slug       string
	Text       string
	Expiration string
	Password   string
	Timezone   string
}

// CreateResult is what the create endpoint reports back: the resolved
// slug plus the computed TTL and a display rendering of the expiry,
// both nil when the paste never expires.
type CreateResult struct {
	Slug                string
	ExpirationInSeconds *int64
	FormattedExpiration *string
}

// ReadResult is a paste as handed to a reader, with the remaining TTL
// computed at read time.
type ReadResult struct {
	Text             string
	Metadata         Metadata
	SecondsRemaining *int64
}

// ListEntry is one row of an enumeration: slug and metadata only, never
// the text.
type ListEntry struct {
	Slug     string   `json:"slug"`
	Metadata Metadata `json:"metadata"`
}
