package memory

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dementia-mcp/dementia/internal/engine"
)

func newLockID() string  { return uuid.New().String() }
func newEntryID() string { return uuid.New().String() }

// encodeMetadata marshals an arbitrary metadata map to the jsonb-compatible
// bytes every write path stores.
func encodeMetadata(m map[string]any) ([]byte, error) {
	if m == nil {
		m = map[string]any{}
	}
	raw, err := json.Marshal(m)
	if err != nil {
		return nil, engine.Wrap(engine.KindInternal, "marshal metadata", err)
	}
	return raw, nil
}

func encodeStringSlice(s []string) ([]byte, error) {
	if s == nil {
		s = []string{}
	}
	raw, err := json.Marshal(s)
	if err != nil {
		return nil, engine.Wrap(engine.KindInternal, "marshal string array", err)
	}
	return raw, nil
}

func encodeFloatSlice(f []float32) ([]byte, error) {
	raw, err := json.Marshal(f)
	if err != nil {
		return nil, engine.Wrap(engine.KindInternal, "marshal embedding", err)
	}
	return raw, nil
}

// asJSONBytes normalizes a jsonb column's driver value: pgx may hand back
// []byte or string for a column scanned into `any`, depending on the wire
// format negotiated for the connection.
func asJSONBytes(v any) ([]byte, error) {
	switch t := v.(type) {
	case nil:
		return nil, nil
	case []byte:
		return t, nil
	case string:
		return []byte(t), nil
	default:
		return nil, engine.New(engine.KindInternal, fmt.Sprintf("unexpected jsonb value type %T", v))
	}
}

func decodeMetadata(v any) (map[string]any, error) {
	raw, err := asJSONBytes(v)
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return map[string]any{}, nil
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, engine.Wrap(engine.KindInternal, "unmarshal metadata", err)
	}
	return m, nil
}

func decodeStringSlice(v any) ([]string, error) {
	raw, err := asJSONBytes(v)
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, nil
	}
	var s []string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, engine.Wrap(engine.KindInternal, "unmarshal string array", err)
	}
	return s, nil
}

func decodeFloatSlice(v any) ([]float32, error) {
	raw, err := asJSONBytes(v)
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, nil
	}
	var f []float32
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, engine.Wrap(engine.KindInternal, "unmarshal embedding", err)
	}
	return f, nil
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func asTime(v any) time.Time {
	t, _ := v.(time.Time)
	return t
}

func asInt64(v any) int64 {
	switch t := v.(type) {
	case int64:
		return t
	case int32:
		return int64(t)
	case int:
		return int64(t)
	default:
		return 0
	}
}

// rowToLock maps a Conn.Query row (from a SELECT that casts id/original
// columns to text) into a ContextLock.
func rowToLock(row map[string]any) (ContextLock, error) {
	keyConcepts, err := decodeStringSlice(row["key_concepts"])
	if err != nil {
		return ContextLock{}, err
	}
	metadata, err := decodeMetadata(row["metadata"])
	if err != nil {
		return ContextLock{}, err
	}
	embedding, err := decodeFloatSlice(row["embedding"])
	if err != nil {
		return ContextLock{}, err
	}

	return ContextLock{
		ID:           asString(row["id"]),
		SessionID:    asString(row["session_id"]),
		Label:        asString(row["label"]),
		Version:      asString(row["version"]),
		Content:      asString(row["content"]),
		ContentHash:  asString(row["content_hash"]),
		Preview:      asString(row["preview"]),
		KeyConcepts:  keyConcepts,
		Priority:     asString(row["priority"]),
		Metadata:     metadata,
		Embedding:    embedding,
		LockedAt:     asTime(row["locked_at"]),
		LastAccessed: asTime(row["last_accessed"]),
		AccessCount:  asInt64(row["access_count"]),
	}, nil
}

func rowToArchive(row map[string]any) (ContextArchive, error) {
	keyConcepts, err := decodeStringSlice(row["key_concepts"])
	if err != nil {
		return ContextArchive{}, err
	}
	metadata, err := decodeMetadata(row["metadata"])
	if err != nil {
		return ContextArchive{}, err
	}

	return ContextArchive{
		ID:           asString(row["id"]),
		OriginalID:   asString(row["original_id"]),
		SessionID:    asString(row["session_id"]),
		Label:        asString(row["label"]),
		Version:      asString(row["version"]),
		Content:      asString(row["content"]),
		ContentHash:  asString(row["content_hash"]),
		Preview:      asString(row["preview"]),
		KeyConcepts:  keyConcepts,
		Priority:     asString(row["priority"]),
		Metadata:     metadata,
		LockedAt:     asTime(row["locked_at"]),
		LastAccessed: asTime(row["last_accessed"]),
		AccessCount:  asInt64(row["access_count"]),
		DeletedAt:    asTime(row["deleted_at"]),
		DeleteReason: asString(row["delete_reason"]),
	}, nil
}

func rowToEntry(row map[string]any) (MemoryEntry, error) {
	metadata, err := decodeMetadata(row["metadata"])
	if err != nil {
		return MemoryEntry{}, err
	}
	return MemoryEntry{
		ID:        asString(row["id"]),
		Category:  asString(row["category"]),
		Content:   asString(row["content"]),
		Metadata:  metadata,
		CreatedAt: asTime(row["created_at"]),
	}, nil
}
