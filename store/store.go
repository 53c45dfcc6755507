// Package store keeps listings in memory and mirrors every change to a Backend.
//
// A Store assumes it is the only writer of its backend for the life of the
// process. Two processes saving the same file race, and the last full
// overwrite wins.
package store

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"time"

	"cmdref/logger"
	"cmdref/model"
)

// MinPrefixLen is the shortest id prefix Resolve accepts.
const MinPrefixLen = 4

type Store struct {
	backend  Backend
	log      logger.Logger
	now      func() time.Time
	listings map[string]*model.Listing
	order    []string
	skipped  []Skipped
}

// Skipped records a stored entry that was dropped while loading.
type Skipped struct {
	Key string
	Err error
}

type Option func(*Store)

func WithLogger(l logger.Logger) Option {
	return func(s *Store) { s.log = l }
}

func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// Open loads every valid listing from backend. Entries that fail validation
// are logged and skipped; content that cannot be parsed at all is fatal.
func Open(backend Backend, opts ...Option) (*Store, error) {
	s := &Store{
		backend:  backend,
		log:      logger.Nop(),
		now:      time.Now,
		listings: make(map[string]*model.Listing),
	}
	for _, opt := range opts {
		opt(s)
	}

	entries, err := backend.Load()
	if err != nil {
		return nil, err
	}
	s.load(entries)
	return s, nil
}

func (s *Store) load(entries []Entry) {
	// A repeated key keeps its first position and its last value.
	values := make(map[string]json.RawMessage, len(entries))
	var keys []string
	for _, e := range entries {
		if _, seen := values[e.Key]; !seen {
			keys = append(keys, e.Key)
		}
		values[e.Key] = e.Value
	}

	for _, key := range keys {
		l, err := model.FromRecord(key, values[key])
		if err != nil {
			s.log.Warn("skipping invalid record", logger.String("key", key), logger.Error(err))
			s.skipped = append(s.skipped, Skipped{Key: key, Err: err})
			continue
		}
		s.listings[key] = l
		s.order = append(s.order, key)
	}
	s.log.Debug("store loaded", logger.Int("listings", len(s.order)), logger.Int("skipped", len(s.skipped)))
}

// Skipped returns the entries dropped during load.
func (s *Store) Skipped() []Skipped { return slices.Clone(s.skipped) }

func (s *Store) Len() int { return len(s.order) }

func (s *Store) save() error {
	entries := make([]Entry, 0, len(s.order))
	for _, key := range s.order {
		data, err := json.Marshal(s.listings[key].ToRecord())
		if err != nil {
			return fmt.Errorf("encoding listing %s: %w", key, err)
		}
		entries = append(entries, Entry{Key: key, Value: data})
	}
	if err := s.backend.Save(entries); err != nil {
		return fmt.Errorf("saving store: %w", err)
	}
	return nil
}

// Add inserts a listing whose command is not stored yet.
func (s *Store) Add(l *model.Listing) error {
	id := l.HashID()
	if _, ok := s.listings[id]; ok {
		return fmt.Errorf("%w: a listing with the command %q already exists", ErrConflict, strings.TrimSpace(l.Command()))
	}

	s.listings[id] = l.Clone()
	s.order = append(s.order, id)
	if err := s.save(); err != nil {
		delete(s.listings, id)
		s.order = s.order[:len(s.order)-1]
		return err
	}
	s.log.Info("listing added", logger.String("key", id))
	return nil
}

// Get returns a copy of the listing stored under hashID.
func (s *Store) Get(hashID string) (*model.Listing, error) {
	l, ok := s.listings[hashID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, hashID)
	}
	return l.Clone(), nil
}

// Resolve accepts a full hash id or a unique prefix of one.
func (s *Store) Resolve(idOrPrefix string) (*model.Listing, error) {
	id := strings.ToLower(strings.TrimSpace(idOrPrefix))
	if l, ok := s.listings[id]; ok {
		return l.Clone(), nil
	}
	if len(id) < MinPrefixLen {
		return nil, fmt.Errorf("%w: %q (prefixes need at least %d characters)", ErrNotFound, idOrPrefix, MinPrefixLen)
	}

	var matches []string
	for _, key := range s.order {
		if strings.HasPrefix(key, id) {
			matches = append(matches, key)
		}
	}
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("%w: %s", ErrNotFound, idOrPrefix)
	case 1:
		return s.listings[matches[0]].Clone(), nil
	default:
		return nil, fmt.Errorf("%w: %q matches %d listings", ErrAmbiguous, idOrPrefix, len(matches))
	}
}

// List returns every listing in load and insertion order.
func (s *Store) List() []*model.Listing {
	out := make([]*model.Listing, 0, len(s.order))
	for _, key := range s.order {
		out = append(out, s.listings[key].Clone())
	}
	return out
}

// Update replaces the stored listing with the same identity, stamping
// last_updated. l is touched only once the save has succeeded.
// The command is the identity, so only description and tags can change.
func (s *Store) Update(l *model.Listing) error {
	id := l.HashID()
	prev, ok := s.listings[id]
	if !ok {
		return fmt.Errorf("%w: listing %s cannot be updated", ErrNotFound, id)
	}

	next := l.Clone()
	next.Touch(s.now())
	s.listings[id] = next
	if err := s.save(); err != nil {
		s.listings[id] = prev
		return err
	}
	l.Touch(next.LastUpdated())
	s.log.Info("listing updated", logger.String("key", id))
	return nil
}

func (s *Store) Delete(hashID string) error {
	prev, ok := s.listings[hashID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, hashID)
	}

	idx := slices.Index(s.order, hashID)
	delete(s.listings, hashID)
	s.order = slices.Delete(s.order, idx, idx+1)
	if err := s.save(); err != nil {
		s.listings[hashID] = prev
		s.order = slices.Insert(s.order, idx, hashID)
		return err
	}
	s.log.Info("listing deleted", logger.String("key", hashID))
	return nil
}
