package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/tarantool/go-tarantool"
	"go.uber.org/zap"
)

const selectLimit = 4096

// TarantoolStore keeps every collection in its own space with tuples of
// (id string, doc string). Documents are stored as JSON; filters are
// applied over the decoded documents after select.
type TarantoolStore struct {
	db *tarantool.Connection
	l  *zap.Logger
}

func NewTarantoolStore(db *tarantool.Connection, l *zap.Logger) *TarantoolStore {
	return &TarantoolStore{
		db: db,
		l:  l,
	}
}

func (s *TarantoolStore) Insert(_ context.Context, collection, id string, doc interface{}) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("storage: json marshal error: %w", err)
	}
	resp, err := s.db.Insert(collection, []interface{}{id, string(raw)})
	if err != nil {
		s.l.Debug("failed to insert document", zap.String("collection", collection), zap.Error(err))
		return fmt.Errorf("storage: database insert error: %w", err)
	}
	s.l.Debug("tarantool response",
		zap.Uint32("status_code", resp.Code),
		zap.String("collection", collection),
		zap.String("id", id))
	return nil
}

func (s *TarantoolStore) FindOne(ctx context.Context, collection string, filter Filter, out interface{}) error {
	raws, err := s.scan(ctx, collection, filter, 1)
	if err != nil {
		return err
	}
	if len(raws) == 0 {
		return ErrNotFound
	}
	return json.Unmarshal(raws[0], out)
}

func (s *TarantoolStore) Find(ctx context.Context, collection string, filter Filter, out interface{}) error {
	raws, err := s.scan(ctx, collection, filter, 0)
	if err != nil {
		return err
	}
	return decodeList(raws, out)
}

func (s *TarantoolStore) Update(ctx context.Context, collection string, filter Filter, patch Patch) (int, error) {
	raws, err := s.scan(ctx, collection, filter, 0)
	if err != nil {
		return 0, err
	}
	updated := 0
	for _, raw := range raws {
		patched, err := applyPatch(raw, patch)
		if err != nil {
			return updated, fmt.Errorf("storage: failed to patch document: %w", err)
		}
		id, err := documentID(patched)
		if err != nil {
			return updated, err
		}
		if _, err := s.db.Replace(collection, []interface{}{id, string(patched)}); err != nil {
			s.l.Debug("failed to replace document", zap.String("collection", collection), zap.Error(err))
			return updated, fmt.Errorf("storage: database replace error: %w", err)
		}
		updated++
	}
	return updated, nil
}

func (s *TarantoolStore) Replace(_ context.Context, collection, id string, doc interface{}) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("storage: json marshal error: %w", err)
	}
	existing, err := s.db.Select(collection, "primary", 0, 1, tarantool.IterEq, []interface{}{id})
	if err != nil {
		return fmt.Errorf("storage: database select error: %w", err)
	}
	if len(existing.Data) == 0 {
		return ErrNotFound
	}
	if _, err := s.db.Replace(collection, []interface{}{id, string(raw)}); err != nil {
		s.l.Debug("failed to replace document", zap.String("collection", collection), zap.Error(err))
		return fmt.Errorf("storage: database replace error: %w", err)
	}
	return nil
}

func (s *TarantoolStore) Delete(ctx context.Context, collection string, filter Filter) (int, error) {
	raws, err := s.scan(ctx, collection, filter, 0)
	if err != nil {
		return 0, err
	}
	deleted := 0
	for _, raw := range raws {
		id, err := documentID(raw)
		if err != nil {
			return deleted, err
		}
		if _, err := s.db.Delete(collection, "primary", []interface{}{id}); err != nil {
			s.l.Debug("failed to delete document", zap.String("collection", collection), zap.Error(err))
			return deleted, fmt.Errorf("storage: database delete error: %w", err)
		}
		deleted++
	}
	return deleted, nil
}

func (s *TarantoolStore) Count(ctx context.Context, collection string, filter Filter) (int, error) {
	raws, err := s.scan(ctx, collection, filter, 0)
	if err != nil {
		return 0, err
	}
	return len(raws), nil
}

// scan pages through the whole space; one Select returns at most
// selectLimit tuples.
func (s *TarantoolStore) scan(_ context.Context, collection string, filter Filter, limit int) ([]json.RawMessage, error) {
	raws := make([]json.RawMessage, 0)
	for offset := uint32(0); ; offset += selectLimit {
		resp, err := s.db.Select(collection, "primary", offset, selectLimit, tarantool.IterAll, []interface{}{})
		if err != nil {
			s.l.Debug("failed to select documents", zap.String("collection", collection), zap.Error(err))
			return nil, fmt.Errorf("storage: database select error: %w", err)
		}
		for _, tuple := range resp.Data {
			fields, ok := tuple.([]interface{})
			if !ok || len(fields) < 2 {
				continue
			}
			doc, ok := fields[1].(string)
			if !ok {
				continue
			}
			raw := []byte(doc)
			if !matches(raw, filter) {
				continue
			}
			raws = append(raws, json.RawMessage(raw))
			if limit > 0 && len(raws) == limit {
				return raws, nil
			}
		}
		if len(resp.Data) < selectLimit {
			return raws, nil
		}
	}
}

func documentID(raw []byte) (string, error) {
	var doc struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return "", fmt.Errorf("storage: failed to read document id: %w", err)
	}
	if doc.ID == "" {
		return "", fmt.Errorf("storage: document has no id field")
	}
	return doc.ID, nil
}
