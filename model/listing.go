package model

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"slices"
	"strings"
	"time"
)

// Listing is a stored command with its description and tags. Its identity is
// the SHA-256 of the trimmed command, fixed at construction.
type Listing struct {
	hashID       string
	command      string
	description  string
	tags         []string
	creationDate time.Time
	lastUpdated  time.Time
}

// Record is the persisted form of a Listing. The hash id is the key it is
// stored under, not part of the record.
type Record struct {
	Command      string    `json:"command"`
	Description  string    `json:"description"`
	Tags         []string  `json:"tags"`
	CreationDate time.Time `json:"creation_date"`
	LastUpdated  time.Time `json:"last_updated"`
}

type listingOptions struct {
	creationDate *time.Time
	lastUpdated  *time.Time
	now          func() time.Time
}

type ListingOption func(*listingOptions)

func WithCreationDate(t time.Time) ListingOption {
	return func(o *listingOptions) { t = t.UTC(); o.creationDate = &t }
}

func WithLastUpdated(t time.Time) ListingOption {
	return func(o *listingOptions) { t = t.UTC(); o.lastUpdated = &t }
}

// WithClock overrides the source of "now" for unset timestamps.
func WithClock(now func() time.Time) ListingOption {
	return func(o *listingOptions) { o.now = now }
}

// HashCommand returns the identity of a command: the hex SHA-256 of its
// trimmed UTF-8 bytes.
func HashCommand(command string) string {
	sum := sha256.Sum256([]byte(strings.TrimSpace(command)))
	return hex.EncodeToString(sum[:])
}

// NewListing validates its input and derives the hash id.
func NewListing(command, description string, tags []string, opts ...ListingOption) (*Listing, error) {
	o := listingOptions{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}

	if strings.TrimSpace(command) == "" {
		return nil, &ValidationError{Field: "command", Reason: "must be a non-empty string"}
	}
	if err := validateDescription(description); err != nil {
		return nil, err
	}

	var created time.Time
	if o.creationDate != nil {
		created = *o.creationDate
	} else {
		created = o.now().UTC()
	}
	updated := created
	if o.lastUpdated != nil {
		updated = *o.lastUpdated
	}

	return &Listing{
		hashID:       HashCommand(command),
		command:      command,
		description:  description,
		tags:         cloneTags(tags),
		creationDate: created,
		lastUpdated:  updated,
	}, nil
}

func (l *Listing) HashID() string          { return l.hashID }
func (l *Listing) Command() string         { return l.command }
func (l *Listing) Description() string     { return l.description }
func (l *Listing) Tags() []string          { return cloneTags(l.tags) }
func (l *Listing) CreationDate() time.Time { return l.creationDate }
func (l *Listing) LastUpdated() time.Time  { return l.lastUpdated }

func (l *Listing) SetDescription(description string) error {
	if err := validateDescription(description); err != nil {
		return err
	}
	l.description = description
	return nil
}

func (l *Listing) SetTags(tags []string) {
	l.tags = cloneTags(tags)
}

// Touch moves LastUpdated to now. The new value is always strictly later than
// the old one, even when the clock has not moved.
func (l *Listing) Touch(now time.Time) {
	now = now.UTC()
	if !now.After(l.lastUpdated) {
		now = l.lastUpdated.Add(time.Nanosecond)
	}
	l.lastUpdated = now
}

// Equal reports whether both listings have the same identity.
func (l *Listing) Equal(other *Listing) bool {
	if l == nil || other == nil {
		return l == other
	}
	return l.hashID == other.hashID
}

// Clone returns a deep copy.
func (l *Listing) Clone() *Listing {
	c := *l
	c.tags = cloneTags(l.tags)
	return &c
}

func (l *Listing) ToRecord() Record {
	return Record{
		Command:      l.command,
		Description:  l.description,
		Tags:         cloneTags(l.tags),
		CreationDate: l.creationDate,
		LastUpdated:  l.lastUpdated,
	}
}

// rawRecord is decoded loosely so that type problems surface as
// ValidationErrors naming the field.
type rawRecord struct {
	Command      string  `json:"command"`
	Description  string  `json:"description"`
	Tags         []any   `json:"tags"`
	CreationDate *string `json:"creation_date"`
	LastUpdated  *string `json:"last_updated"`
}

// FromRecord rebuilds a Listing stored under hashID. The key must match the
// digest recomputed from the stored command.
func FromRecord(hashID string, raw json.RawMessage) (*Listing, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, &ValidationError{Field: "record", Reason: "must be a JSON object"}
	}

	var rr rawRecord
	if err := json.Unmarshal(trimmed, &rr); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return nil, &ValidationError{Field: typeErr.Field, Reason: "unexpected " + typeErr.Value}
		}
		return nil, &ValidationError{Field: "record", Reason: err.Error()}
	}

	if rr.Tags == nil {
		return nil, &ValidationError{Field: "tags", Reason: "must be a list"}
	}
	tags := make([]string, 0, len(rr.Tags))
	for _, v := range rr.Tags {
		s, ok := v.(string)
		if !ok {
			return nil, &ValidationError{Field: "tags", Reason: "must contain only strings"}
		}
		tags = append(tags, s)
	}

	var opts []ListingOption
	if rr.CreationDate != nil {
		t, err := parseTimestamp("creation_date", *rr.CreationDate)
		if err != nil {
			return nil, err
		}
		opts = append(opts, WithCreationDate(t))
	}
	if rr.LastUpdated != nil {
		t, err := parseTimestamp("last_updated", *rr.LastUpdated)
		if err != nil {
			return nil, err
		}
		opts = append(opts, WithLastUpdated(t))
	}

	l, err := NewListing(rr.Command, rr.Description, tags, opts...)
	if err != nil {
		return nil, err
	}
	if l.hashID != hashID {
		return nil, &SchemaError{Key: hashID, Reason: "key does not match command digest " + l.hashID}
	}
	return l, nil
}

// timestampLayouts are the ISO 8601 forms accepted on load, tried in order.
// Fractional seconds are optional in each; forms without an offset are UTC.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05",
}

func parseTimestamp(field, s string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, &ValidationError{Field: field, Reason: "not an ISO 8601 timestamp"}
}

func validateDescription(description string) error {
	if strings.TrimSpace(description) == "" {
		return &ValidationError{Field: "description", Reason: "must be a non-empty string"}
	}
	return nil
}

func cloneTags(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return slices.Clone(tags)
}
