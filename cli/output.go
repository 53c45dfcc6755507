package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"cmdref/model"
)

// ListingJSON is a listing as the CLI prints it with --json.
type ListingJSON struct {
	HashID       string    `json:"hash_id"`
	Command      string    `json:"command"`
	Description  string    `json:"description"`
	Tags         []string  `json:"tags"`
	CreationDate time.Time `json:"creation_date"`
	LastUpdated  time.Time `json:"last_updated"`
}

// StatusResponse is printed by commands that only report what they did.
type StatusResponse struct {
	Status string `json:"status"`
	HashID string `json:"hash_id,omitempty"`
}

// ErrorResponse is a JSON error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  int    `json:"code"`
}

func toJSON(l *model.Listing) ListingJSON {
	r := l.ToRecord()
	return ListingJSON{
		HashID:       l.HashID(),
		Command:      r.Command,
		Description:  r.Description,
		Tags:         r.Tags,
		CreationDate: r.CreationDate,
		LastUpdated:  r.LastUpdated,
	}
}

func toJSONList(ls []*model.Listing) []ListingJSON {
	out := make([]ListingJSON, len(ls))
	for i, l := range ls {
		out[i] = toJSON(l)
	}
	return out
}

// outputJSON writes a value as formatted JSON.
func outputJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func outputHuman(w io.Writer, s string) error {
	_, err := fmt.Fprint(w, s)
	return err
}
