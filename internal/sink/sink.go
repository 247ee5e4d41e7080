// Package sink stores the normalized records produced by a sync run.
package sink

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/starford/guru-sync/internal/checksum"
)

// Record kinds.
const (
	KindCard       = "GuruCard"
	KindBoard      = "GuruBoard"
	KindCollection = "GuruCollection"
)

var idPrefixes = map[string]string{
	KindCard:       "guru-card-",
	KindBoard:      "guru-board-",
	KindCollection: "guru-collection-",
}

// namespace scopes node ids to this tool.
var namespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://api.getguru.com/guru-sync"))

// Record is one emitted output node.
type Record struct {
	ID       string          `json:"id"`
	Kind     string          `json:"kind"`
	SourceID string          `json:"sourceId"`
	Slug     string          `json:"slug,omitempty"`
	Title    string          `json:"title"`
	Text     string          `json:"-"`
	Digest   string          `json:"digest"`
	Payload  json.RawMessage `json:"payload"`
}

// Sink receives records.
type Sink interface {
	Emit(ctx context.Context, rec Record) error
}

// NodeID returns the deterministic node id for a source key such as
// "guru-card-123".
func NodeID(key string) string {
	return uuid.NewSHA1(namespace, []byte(key)).String()
}

// NewRecord encodes payload and derives the node id and digest. text is the
// searchable body of the record.
func NewRecord(kind, sourceID, slug, title, text string, payload any) (Record, error) {
	prefix, ok := idPrefixes[kind]
	if !ok {
		return Record{}, fmt.Errorf("sink: unknown record kind %q", kind)
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return Record{}, fmt.Errorf("sink: encode %s %s: %w", kind, sourceID, err)
	}
	return Record{
		ID:       NodeID(prefix + sourceID),
		Kind:     kind,
		SourceID: sourceID,
		Slug:     slug,
		Title:    title,
		Text:     text,
		Digest:   checksum.Sum(data),
		Payload:  data,
	}, nil
}

// Multi emits every record to each sink in order.
type Multi []Sink

// Emit implements Sink. All sinks are tried; their errors are joined.
func (m Multi) Emit(ctx context.Context, rec Record) error {
	var errs []error
	for _, s := range m {
		if err := s.Emit(ctx, rec); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
