package editor

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/job-assistant/internal/types"
)

// MemoryStore is an in-process Store. The server falls back to it when
// neither a profile API nor a database is configured.
type MemoryStore struct {
	mu       sync.Mutex
	profiles map[string]*types.ResumeProfile
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{profiles: make(map[string]*types.ResumeProfile)}
}

// GetProfile implements Store.
func (m *MemoryStore) GetProfile(_ context.Context, userID string) (*types.ResumeProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.profiles[userID]
	if !ok {
		return nil, ErrProfileNotFound
	}
	return p.Clone(), nil
}

// CreateProfile implements Store. An existing profile is returned as is.
func (m *MemoryStore) CreateProfile(_ context.Context, p *types.ResumeProfile) (*types.ResumeProfile, error) {
	if p == nil || p.UserID == "" {
		return nil, fmt.Errorf("profile requires a user id")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.profiles[p.UserID]; ok {
		return existing.Clone(), nil
	}
	c := p.Clone()
	c.ID = uuid.NewString()
	c.UpdatedAt = time.Now().UTC()
	m.profiles[p.UserID] = c
	return c.Clone(), nil
}

// UpdateSection implements Store.
func (m *MemoryStore) UpdateSection(_ context.Context, userID string, section types.Section, value any) (*types.ResumeProfile, error) {
	raw, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s: %w", section, err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.profiles[userID]
	if !ok {
		return nil, ErrProfileNotFound
	}
	next := p.Clone()
	if err := next.SetSection(section, raw); err != nil {
		return nil, err
	}
	next.UpdatedAt = time.Now().UTC()
	m.profiles[userID] = next
	return next.Clone(), nil
}

// ReplaceResume implements Store.
func (m *MemoryStore) ReplaceResume(_ context.Context, userID string, p *types.ResumeProfile) (*types.ResumeProfile, error) {
	if p == nil {
		return nil, fmt.Errorf("profile is required")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.profiles[userID]
	if !ok {
		return nil, ErrProfileNotFound
	}
	c := p.Clone()
	c.ID = existing.ID
	c.UserID = userID
	c.UpdatedAt = time.Now().UTC()
	m.profiles[userID] = c
	return c.Clone(), nil
}
