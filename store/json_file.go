package store

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"cmdref/model"
)

const jsonIndent = "    "

// JSONFile stores entries as a single JSON object, one member per listing.
type JSONFile struct {
	Path string
}

func (j *JSONFile) Load() ([]Entry, error) {
	f, err := os.Open(j.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening store file: %w", err)
	}
	defer f.Close()

	entries, err := decodeObject(bufio.NewReader(f))
	if err != nil {
		var sErr *model.SchemaError
		if errors.As(err, &sErr) {
			sErr.Reason = fmt.Sprintf("%s: %s", j.Path, sErr.Reason)
		}
		return nil, err
	}
	return entries, nil
}

// decodeObject reads a top-level JSON object, keeping its members in order.
func decodeObject(r io.Reader) ([]Entry, error) {
	dec := json.NewDecoder(r)

	tok, err := dec.Token()
	if err != nil {
		return nil, &model.SchemaError{Reason: "could not decode JSON data", Err: err}
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, &model.SchemaError{Reason: "top level is not a JSON object"}
	}

	var entries []Entry
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, &model.SchemaError{Reason: "could not decode JSON data", Err: err}
		}
		key, ok := tok.(string)
		if !ok {
			return nil, &model.SchemaError{Reason: "could not decode JSON data"}
		}
		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return nil, &model.SchemaError{Reason: "could not decode JSON data", Err: err}
		}
		entries = append(entries, Entry{Key: key, Value: value})
	}

	if _, err := dec.Token(); err != nil {
		return nil, &model.SchemaError{Reason: "could not decode JSON data", Err: err}
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, &model.SchemaError{Reason: "trailing data after JSON object"}
	}
	return entries, nil
}

// Save overwrites the whole file.
func (j *JSONFile) Save(entries []Entry) error {
	data, err := encodeObject(entries)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(j.Path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating store directory: %w", err)
		}
	}

	f, err := os.Create(j.Path)
	if err != nil {
		return fmt.Errorf("creating store file: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return fmt.Errorf("writing store file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing store file: %w", err)
	}
	return nil
}

func encodeObject(entries []Entry) ([]byte, error) {
	if len(entries) == 0 {
		return []byte("{}\n"), nil
	}

	var buf bytes.Buffer
	buf.WriteString("{\n")
	for i, e := range entries {
		key, err := json.Marshal(e.Key)
		if err != nil {
			return nil, fmt.Errorf("encoding key %q: %w", e.Key, err)
		}
		var value bytes.Buffer
		if err := json.Indent(&value, e.Value, jsonIndent, jsonIndent); err != nil {
			return nil, fmt.Errorf("encoding record %s: %w", e.Key, err)
		}

		buf.WriteString(jsonIndent)
		buf.Write(key)
		buf.WriteString(": ")
		buf.Write(value.Bytes())
		if i < len(entries)-1 {
			buf.WriteByte(',')
		}
		buf.WriteByte('\n')
	}
	buf.WriteString("}\n")
	return buf.Bytes(), nil
}
