package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
)

var ErrNotFound = errors.New("document is not found")

// Filter matches documents whose top-level fields equal every listed value.
type Filter map[string]interface{}

// Patch sets top-level fields on every matched document.
type Patch map[string]interface{}

// Store is the document-store contract the services are written against.
// Documents are JSON-serializable values keyed by a string id field.
type Store interface {
	Insert(ctx context.Context, collection, id string, doc interface{}) error
	FindOne(ctx context.Context, collection string, filter Filter, out interface{}) error
	Find(ctx context.Context, collection string, filter Filter, out interface{}) error
	Update(ctx context.Context, collection string, filter Filter, patch Patch) (int, error)
	Replace(ctx context.Context, collection, id string, doc interface{}) error
	Delete(ctx context.Context, collection string, filter Filter) (int, error)
	Count(ctx context.Context, collection string, filter Filter) (int, error)
}

func matches(raw []byte, filter Filter) bool {
	if len(filter) == 0 {
		return true
	}
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(raw, &doc); err != nil {
		return false
	}
	for field, want := range filter {
		got, ok := doc[field]
		if !ok {
			return false
		}
		wantJSON, err := json.Marshal(want)
		if err != nil {
			return false
		}
		if !bytes.Equal(bytes.TrimSpace(got), wantJSON) {
			return false
		}
	}
	return true
}

func applyPatch(raw []byte, patch Patch) ([]byte, error) {
	var doc map[string]interface{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	for field, value := range patch {
		doc[field] = value
	}
	return json.Marshal(doc)
}

func decodeList(raws []json.RawMessage, out interface{}) error {
	b, err := json.Marshal(raws)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, out)
}
