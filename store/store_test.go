package store

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"slices"
	"strconv"
	"strings"
	"testing"
	"time"

	"cmdref/logger"
	"cmdref/model"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func mustListing(t *testing.T, command, description string, tags ...string) *model.Listing {
	t.Helper()
	l, err := model.NewListing(command, description, tags)
	if err != nil {
		t.Fatalf("NewListing(%q) error = %v", command, err)
	}
	return l
}

func mustOpen(t *testing.T, b Backend, opts ...Option) *Store {
	t.Helper()
	s, err := Open(b, opts...)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	return s
}

func rawEntry(t *testing.T, l *model.Listing) Entry {
	t.Helper()
	data, err := json.Marshal(l.ToRecord())
	if err != nil {
		t.Fatalf("json.Marshal() error = %v", err)
	}
	return Entry{Key: l.HashID(), Value: data}
}

func TestOpen_EmptyBackend(t *testing.T) {
	s := mustOpen(t, &Memory{})
	if s.Len() != 0 {
		t.Errorf("Len() = %d, want 0", s.Len())
	}
	if got := s.List(); len(got) != 0 {
		t.Errorf("List() = %v, want empty", got)
	}
}

func TestOpen_LoadError(t *testing.T) {
	loadErr := &model.SchemaError{Reason: "could not decode JSON data"}
	s, err := Open(&Memory{LoadErr: loadErr})
	if s != nil {
		t.Errorf("Open() returned a store on load failure")
	}
	var sErr *model.SchemaError
	if !errors.As(err, &sErr) {
		t.Errorf("Open() error = %v, want SchemaError", err)
	}
}

func TestAddGetList(t *testing.T) {
	mem := &Memory{}
	s := mustOpen(t, mem)

	l := mustListing(t, "ls -la", "lists files in long format", "dir", "list")
	if err := s.Add(l); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	sum := sha256.Sum256([]byte("ls -la"))
	wantID := hex.EncodeToString(sum[:])
	if l.HashID() != wantID {
		t.Errorf("HashID() = %s, want %s", l.HashID(), wantID)
	}

	got, err := s.Get(wantID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.HashID() != wantID || got.Description() != "lists files in long format" {
		t.Errorf("Get() = %s %q", got.HashID(), got.Description())
	}
	if !slices.Equal(got.Tags(), []string{"dir", "list"}) {
		t.Errorf("Get().Tags() = %v, want [dir list]", got.Tags())
	}

	all := s.List()
	if len(all) != 1 {
		t.Fatalf("List() returned %d listings, want 1", len(all))
	}
	if all[0].HashID() != wantID || !slices.Equal(all[0].Tags(), []string{"dir", "list"}) {
		t.Errorf("List()[0] = %s %v", all[0].HashID(), all[0].Tags())
	}

	if mem.Saves != 1 || len(mem.Entries) != 1 || mem.Entries[0].Key != wantID {
		t.Errorf("backend after Add: saves=%d entries=%v", mem.Saves, mem.Entries)
	}
}

func TestAdd_Conflict(t *testing.T) {
	mem := &Memory{}
	s := mustOpen(t, mem)

	if err := s.Add(mustListing(t, "ls -la", "long listing", "dir")); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	err := s.Add(mustListing(t, "  ls -la\n", "something else", "other"))
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("Add(duplicate) error = %v, want ErrConflict", err)
	}
	if s.Len() != 1 {
		t.Errorf("Len() = %d, want 1", s.Len())
	}
	if mem.Saves != 1 {
		t.Errorf("Saves = %d, want 1 (conflict must not save)", mem.Saves)
	}
	got, _ := s.Get(model.HashCommand("ls -la"))
	if got.Description() != "long listing" {
		t.Errorf("Description() = %q, conflicting add replaced the listing", got.Description())
	}
}

func TestList_PreservesInsertionOrder(t *testing.T) {
	s := mustOpen(t, &Memory{})
	commands := []string{"zz top", "aa first", "mm middle"}
	for _, c := range commands {
		if err := s.Add(mustListing(t, c, "desc")); err != nil {
			t.Fatalf("Add(%q) error = %v", c, err)
		}
	}

	var got []string
	for _, l := range s.List() {
		got = append(got, l.Command())
	}
	if !slices.Equal(got, commands) {
		t.Errorf("List() order = %v, want %v", got, commands)
	}
}

func TestGet_NotFound(t *testing.T) {
	s := mustOpen(t, &Memory{})
	if _, err := s.Get(model.HashCommand("nope")); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() error = %v, want ErrNotFound", err)
	}
}

func TestGet_ReturnsCopy(t *testing.T) {
	s := mustOpen(t, &Memory{})
	l := mustListing(t, "ls", "list", "a")
	if err := s.Add(l); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	got, _ := s.Get(l.HashID())
	if err := got.SetDescription("changed"); err != nil {
		t.Fatalf("SetDescription() error = %v", err)
	}
	l.SetTags([]string{"changed"})

	again, _ := s.Get(l.HashID())
	if again.Description() != "list" || !slices.Equal(again.Tags(), []string{"a"}) {
		t.Errorf("stored listing changed without Update: %q %v", again.Description(), again.Tags())
	}
}

func TestUpdate(t *testing.T) {
	base := time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)
	mem := &Memory{}
	s := mustOpen(t, mem, WithClock(func() time.Time { return base }))

	l, err := model.NewListing("kubectl get pods", "pods", []string{"k8s"}, model.WithCreationDate(base))
	if err != nil {
		t.Fatalf("NewListing() error = %v", err)
	}
	if err := s.Add(l); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	got, _ := s.Get(l.HashID())
	prior := got.LastUpdated()
	if err := got.SetDescription("list pods in namespace"); err != nil {
		t.Fatalf("SetDescription() error = %v", err)
	}
	got.SetTags([]string{"k8s", "pods"})
	if err := s.Update(got); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	after, _ := s.Get(l.HashID())
	if after.HashID() != l.HashID() {
		t.Errorf("HashID() = %s, want unchanged %s", after.HashID(), l.HashID())
	}
	if after.Description() != "list pods in namespace" {
		t.Errorf("Description() = %q", after.Description())
	}
	if !slices.Equal(after.Tags(), []string{"k8s", "pods"}) {
		t.Errorf("Tags() = %v", after.Tags())
	}
	if !after.LastUpdated().After(prior) {
		t.Errorf("LastUpdated() = %v, want after %v", after.LastUpdated(), prior)
	}
	if !got.LastUpdated().Equal(after.LastUpdated()) {
		t.Errorf("caller's LastUpdated() = %v, want stored %v", got.LastUpdated(), after.LastUpdated())
	}
	if !after.CreationDate().Equal(base) {
		t.Errorf("CreationDate() = %v, want %v", after.CreationDate(), base)
	}
	if mem.Saves != 2 {
		t.Errorf("Saves = %d, want 2", mem.Saves)
	}
}

func TestUpdate_NotFound(t *testing.T) {
	mem := &Memory{}
	s := mustOpen(t, mem)
	err := s.Update(mustListing(t, "missing", "desc"))
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Update() error = %v, want ErrNotFound", err)
	}
	if mem.Saves != 0 {
		t.Errorf("Saves = %d, want 0", mem.Saves)
	}
}

func TestUpdate_KeepsPosition(t *testing.T) {
	s := mustOpen(t, &Memory{})
	for _, c := range []string{"one", "two", "three"} {
		if err := s.Add(mustListing(t, c, "desc")); err != nil {
			t.Fatalf("Add() error = %v", err)
		}
	}
	l, _ := s.Get(model.HashCommand("one"))
	if err := s.Update(l); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if first := s.List()[0].Command(); first != "one" {
		t.Errorf("List()[0] = %q after update, want one", first)
	}
}

func TestDelete(t *testing.T) {
	mem := &Memory{}
	s := mustOpen(t, mem)
	l := mustListing(t, "rm -rf build", "clean")
	if err := s.Add(l); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	if err := s.Delete(l.HashID()); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := s.Get(l.HashID()); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() after Delete error = %v, want ErrNotFound", err)
	}
	if len(mem.Entries) != 0 {
		t.Errorf("backend entries = %v, want none", mem.Entries)
	}
	if err := s.Delete(l.HashID()); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Delete() error = %v, want ErrNotFound", err)
	}
}

func TestSaveFailure_RollsBack(t *testing.T) {
	mem := &Memory{}
	s := mustOpen(t, mem)
	keep := mustListing(t, "echo keep", "kept", "a")
	other := mustListing(t, "echo other", "other")
	for _, l := range []*model.Listing{keep, other} {
		if err := s.Add(l); err != nil {
			t.Fatalf("Add() error = %v", err)
		}
	}

	mem.SaveErr = errors.New("disk full")

	if err := s.Add(mustListing(t, "echo new", "new")); err == nil {
		t.Errorf("Add() error = nil, want save failure")
	}
	if s.Len() != 2 {
		t.Errorf("Len() = %d after failed Add, want 2", s.Len())
	}

	edit, _ := s.Get(keep.HashID())
	_ = edit.SetDescription("edited")
	if err := s.Update(edit); err == nil {
		t.Errorf("Update() error = nil, want save failure")
	}
	if got, _ := s.Get(keep.HashID()); got.Description() != "kept" {
		t.Errorf("Description() = %q after failed Update, want kept", got.Description())
	}
	if got, _ := s.Get(keep.HashID()); !edit.LastUpdated().Equal(got.LastUpdated()) {
		t.Errorf("caller's LastUpdated() = %v after failed Update, want unchanged %v", edit.LastUpdated(), got.LastUpdated())
	}

	if err := s.Delete(keep.HashID()); err == nil {
		t.Errorf("Delete() error = nil, want save failure")
	}
	var order []string
	for _, l := range s.List() {
		order = append(order, l.Command())
	}
	if !slices.Equal(order, []string{"echo keep", "echo other"}) {
		t.Errorf("List() after failed Delete = %v", order)
	}
}

func TestOpen_SkipsInvalidRecords(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)

	good := mustListing(t, "ls -la", "lists files", "dir")
	mismatched := mustListing(t, "pwd", "print dir")
	mismatchedEntry := rawEntry(t, mismatched)
	mismatchedEntry.Key = model.HashCommand("something else")

	mem := &Memory{Entries: []Entry{
		{Key: model.HashCommand("not an object"), Value: json.RawMessage(`"just a string"`)},
		rawEntry(t, good),
		mismatchedEntry,
		{Key: model.HashCommand("bad tags"), Value: json.RawMessage(`{"command": "bad tags", "description": "d", "tags": [1]}`)},
	}}

	s := mustOpen(t, mem, WithLogger(logger.FromZap(zap.New(core))))

	all := s.List()
	if len(all) != 1 || !all[0].Equal(good) {
		t.Fatalf("List() = %v, want only the valid listing", all)
	}

	skipped := s.Skipped()
	if len(skipped) != 3 {
		t.Fatalf("Skipped() returned %d entries, want 3", len(skipped))
	}
	var schemaErr *model.SchemaError
	if !errors.As(skipped[1].Err, &schemaErr) {
		t.Errorf("key mismatch skipped with %v, want SchemaError", skipped[1].Err)
	}

	warnings := logs.FilterMessage("skipping invalid record").All()
	if len(warnings) != 3 {
		t.Fatalf("got %d warnings, want 3", len(warnings))
	}
	if got := warnings[0].ContextMap()["key"]; got != model.HashCommand("not an object") {
		t.Errorf("warning key = %v, want offending key", got)
	}
}

func TestOpen_DuplicateKeyLastValueWins(t *testing.T) {
	first := mustListing(t, "ls", "first")
	second := mustListing(t, "ls", "second")
	other := mustListing(t, "pwd", "where")

	s := mustOpen(t, &Memory{Entries: []Entry{rawEntry(t, first), rawEntry(t, other), rawEntry(t, second)}})

	all := s.List()
	if len(all) != 2 {
		t.Fatalf("List() returned %d listings, want 2", len(all))
	}
	if all[0].Command() != "ls" || all[0].Description() != "second" {
		t.Errorf("List()[0] = %q %q, want ls second", all[0].Command(), all[0].Description())
	}
}

func TestResolve(t *testing.T) {
	s := mustOpen(t, &Memory{})
	l := mustListing(t, "ls -la", "list")
	if err := s.Add(l); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	id := l.HashID()

	tests := []struct {
		name    string
		in      string
		wantErr error
	}{
		{"full id", id, nil},
		{"prefix", id[:8], nil},
		{"uppercase prefix", "  " + strings.ToUpper(id[:6]), nil},
		{"too short", id[:3], ErrNotFound},
		{"no match", "ffffffffffff", ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.Resolve(tt.in)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Resolve(%q) error = %v, want %v", tt.in, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Resolve(%q) error = %v", tt.in, err)
			}
			if got.HashID() != id {
				t.Errorf("Resolve(%q) = %s, want %s", tt.in, got.HashID(), id)
			}
		})
	}
}

func TestResolve_Ambiguous(t *testing.T) {
	s := mustOpen(t, &Memory{})
	// Find two commands whose ids share a four character prefix.
	seen := make(map[string]string)
	var a, b string
	for i := 0; a == ""; i++ {
		cmd := "echo " + strconv.Itoa(i)
		p := model.HashCommand(cmd)[:MinPrefixLen]
		if prev, ok := seen[p]; ok {
			a, b = prev, cmd
			break
		}
		seen[p] = cmd
	}
	for _, c := range []string{a, b} {
		if err := s.Add(mustListing(t, c, "desc")); err != nil {
			t.Fatalf("Add() error = %v", err)
		}
	}

	prefix := model.HashCommand(a)[:MinPrefixLen]
	if _, err := s.Resolve(prefix); !errors.Is(err, ErrAmbiguous) {
		t.Errorf("Resolve(%q) error = %v, want ErrAmbiguous", prefix, err)
	}
}
