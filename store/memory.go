package store

import "slices"

// Memory is a Backend that never touches disk.
type Memory struct {
	Entries []Entry
	LoadErr error
	SaveErr error // returned by Save, leaving Entries untouched
	Saves   int
}

func (m *Memory) Load() ([]Entry, error) {
	if m.LoadErr != nil {
		return nil, m.LoadErr
	}
	return slices.Clone(m.Entries), nil
}

func (m *Memory) Save(entries []Entry) error {
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.Entries = slices.Clone(entries)
	m.Saves++
	return nil
}
