package session

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/dementia-mcp/dementia/internal/catalog"
	"github.com/dementia-mcp/dementia/internal/engine"
)

// PendingProject re-exports the sentinel so callers of this package never
// need to import internal/catalog directly.
const PendingProject = catalog.PendingProject

// Store implements spec.md §4.2's Session Store operations against the
// global sessions table (internal/catalog.SessionRecord).
type Store struct {
	db *gorm.DB
}

// NewStore wraps the gorm handle the catalog registry already opened —
// sessions and the project registry share one public-schema connection
// (SPEC_FULL.md §2).
func NewStore(registry *catalog.Registry) *Store {
	return &Store{db: registry.DB()}
}

// Create is idempotent on id (spec.md §4.2 invariant): creating an id that
// already exists returns the existing row unchanged.
func (s *Store) Create(ctx context.Context, id, projectName string) (*Session, error) {
	if projectName == "" {
		projectName = PendingProject
	}

	existing, err := s.Get(ctx, id)
	if err == nil {
		return existing, nil
	}
	if engine.KindOf(err) != engine.KindNotFound {
		return nil, err
	}

	now := time.Now()
	rec := catalog.SessionRecord{
		ID:          id,
		ProjectName: projectName,
		CreatedAt:   now,
		LastActive:  now,
	}
	if err := s.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return nil, engine.Wrap(engine.KindInternal, "create session", err)
	}
	return toDomain(rec), nil
}

// Get returns the session row for id, or a not_found error if absent.
func (s *Store) Get(ctx context.Context, id string) (*Session, error) {
	var rec catalog.SessionRecord
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, engine.New(engine.KindNotFound, "session not found")
	}
	if err != nil {
		return nil, engine.Wrap(engine.KindInternal, "get session", err)
	}
	return toDomain(rec), nil
}

// UpdateProject is the single source of truth for project switching
// (spec.md §4.2). Fails with session_not_found if id is absent.
func (s *Store) UpdateProject(ctx context.Context, id, projectName string) (bool, error) {
	res := s.db.WithContext(ctx).
		Model(&catalog.SessionRecord{}).
		Where("id = ?", id).
		Updates(map[string]any{"project_name": projectName, "last_active": time.Now()})
	if res.Error != nil {
		return false, engine.Wrap(engine.KindInternal, "update session project", res.Error)
	}
	if res.RowsAffected == 0 {
		return false, engine.New(engine.KindNotFound, "session not found")
	}
	return true, nil
}

// Touch updates last_active to now. Monotonic: last_active never decreases
// because every caller passes time.Now() and writes unconditionally go
// forward in wall-clock time.
func (s *Store) Touch(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).
		Model(&catalog.SessionRecord{}).
		Where("id = ?", id).
		Update("last_active", time.Now())
	if res.Error != nil {
		return engine.Wrap(engine.KindInternal, "touch session", res.Error)
	}
	if res.RowsAffected == 0 {
		return engine.New(engine.KindNotFound, "session not found")
	}
	return nil
}

// UpdateSummary overwrites the session's structured handover summary.
func (s *Store) UpdateSummary(ctx context.Context, id string, summary Summary) error {
	raw, err := json.Marshal(summary)
	if err != nil {
		return engine.Wrap(engine.KindInternal, "marshal session summary", err)
	}
	res := s.db.WithContext(ctx).
		Model(&catalog.SessionRecord{}).
		Where("id = ?", id).
		Updates(map[string]any{"session_summary": datatypes.JSON(raw), "last_active": time.Now()})
	if res.Error != nil {
		return engine.Wrap(engine.KindInternal, "update session summary", res.Error)
	}
	if res.RowsAffected == 0 {
		return engine.New(engine.KindNotFound, "session not found")
	}
	return nil
}

// CleanupExpired hard-deletes every session whose last_active is older than
// idleCutoff. It does not check whether a handover was ever packaged for
// the session. Returns the number of rows deleted.
func (s *Store) CleanupExpired(ctx context.Context, idleCutoff time.Duration) (int64, error) {
	threshold := time.Now().Add(-idleCutoff)
	res := s.db.WithContext(ctx).
		Where("last_active < ?", threshold).
		Delete(&catalog.SessionRecord{})
	if res.Error != nil {
		return 0, engine.Wrap(engine.KindInternal, "cleanup expired sessions", res.Error)
	}
	return res.RowsAffected, nil
}

func toDomain(rec catalog.SessionRecord) *Session {
	s := &Session{
		ID:          rec.ID,
		ProjectName: rec.ProjectName,
		CreatedAt:   rec.CreatedAt,
		LastActive:  rec.LastActive,
	}
	if len(rec.SessionSummary) > 0 {
		_ = json.Unmarshal(rec.SessionSummary, &s.SessionSummary)
	}
	return s
}
