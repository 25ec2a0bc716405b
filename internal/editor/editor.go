// Package editor mutates a resume profile section by section and persists
// every committed change to a profile store.
package editor

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/jonathan/job-assistant/internal/dates"
	"github.com/jonathan/job-assistant/internal/types"
)

// Store persists profiles. Every method returns the store's canonical
// profile after the write; the session adopts it as the new state.
// GetProfile returns ErrProfileNotFound when the user has no profile.
type Store interface {
	GetProfile(ctx context.Context, userID string) (*types.ResumeProfile, error)
	CreateProfile(ctx context.Context, p *types.ResumeProfile) (*types.ResumeProfile, error)
	UpdateSection(ctx context.Context, userID string, section types.Section, value any) (*types.ResumeProfile, error)
	ReplaceResume(ctx context.Context, userID string, p *types.ResumeProfile) (*types.ResumeProfile, error)
}

// Outcome is the result of a committed mutation.
type Outcome struct {
	Profile *types.ResumeProfile `json:"profile"`
	Section types.Section        `json:"section,omitempty"`
	// Notify is false for skills edits, which complete silently.
	Notify bool `json:"notify"`
}

// Session holds one user's profile in memory while it is being edited.
// Mutations are serialized; each one performs exactly one store round trip.
type Session struct {
	store  Store
	userID string
	now    func() time.Time

	mu      sync.Mutex
	profile *types.ResumeProfile

	lifetime context.Context
	close    context.CancelFunc
}

// Option configures a Session.
type Option func(*Session)

// WithClock overrides the clock used for date validation.
func WithClock(now func() time.Time) Option {
	return func(s *Session) {
		s.now = now
	}
}

// Open loads the user's profile, creating an empty one if none exists.
func Open(ctx context.Context, store Store, userID string, opts ...Option) (*Session, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, &ValidationError{Field: "userId", Message: "userId is required"}
	}

	p, err := store.GetProfile(ctx, userID)
	if errors.Is(err, ErrProfileNotFound) {
		log.Printf("[profile] no profile for %s, creating", userID)
		p, err = store.CreateProfile(ctx, types.NewProfile(userID))
	}
	if err != nil {
		log.Printf("[profile] failed to load profile for %s: %v", userID, err)
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	if p == nil {
		return nil, ErrProfileNotFound
	}

	s := &Session{
		store:   store,
		userID:  userID,
		now:     time.Now,
		profile: p.Clone(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.lifetime, s.close = context.WithCancel(context.Background())
	return s, nil
}

// Close ends the session. Results of requests still in flight are discarded.
func (s *Session) Close() {
	s.close()
}

// UserID returns the owner of the profile.
func (s *Session) UserID() string {
	return s.userID
}

// Profile returns a copy of the current profile.
func (s *Session) Profile() *types.ResumeProfile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.profile.Clone()
}

// Reload refetches the profile from the store.
func (s *Session) Reload(ctx context.Context) (*types.ResumeProfile, error) {
	ctx, cancel := s.bind(ctx)
	defer cancel()

	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.store.GetProfile(ctx, s.userID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload profile: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.profile = p.Clone()
	return s.profile.Clone(), nil
}

// InvalidFields lists every date input that fails validation.
func (s *Session) InvalidFields() []dates.InvalidField {
	s.mu.Lock()
	defer s.mu.Unlock()
	return dates.InvalidFields(s.profile, s.now())
}

// HasInvalidDates reports whether any entry has an invalid date range.
func (s *Session) HasInvalidDates() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return dates.HasInvalidDates(s.profile, s.now())
}

// bind ties ctx to the session lifetime.
func (s *Session) bind(ctx context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(ctx)
	stop := context.AfterFunc(s.lifetime, cancel)
	return ctx, func() {
		stop()
		cancel()
	}
}

// mutate applies fn to a copy of the profile and persists the whole
// section. The caller must hold s.mu. On any failure the current profile
// is left as it was.
func (s *Session) mutate(ctx context.Context, section types.Section, fn func(p *types.ResumeProfile) error) (*Outcome, error) {
	ctx, cancel := s.bind(ctx)
	defer cancel()

	candidate := s.profile.Clone()
	if err := fn(candidate); err != nil {
		return nil, err
	}

	value, err := candidate.SectionValue(section)
	if err != nil {
		return nil, err
	}

	updated, err := s.store.UpdateSection(ctx, s.userID, section, value)
	if cerr := ctx.Err(); cerr != nil {
		log.Printf("[profile] discarding %s update for %s: %v", section, s.userID, cerr)
		return nil, cerr
	}
	if err != nil {
		log.Printf("[profile] failed to save %s for %s: %v", section, s.userID, err)
		return nil, &PersistError{Section: section, Cause: err}
	}
	if updated == nil {
		updated = candidate
	}

	s.profile = updated.Clone()
	return &Outcome{
		Profile: s.profile.Clone(),
		Section: section,
		Notify:  section != types.SectionSkills,
	}, nil
}

// SetPersonalInfo commits one contact field.
func (s *Session) SetPersonalInfo(ctx context.Context, field, value string) (*Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.mutate(ctx, types.SectionPersonalInfo, func(p *types.ResumeProfile) error {
		value = strings.TrimSpace(value)
		switch field {
		case "name":
			p.PersonalInfo.Name = value
		case "email":
			p.PersonalInfo.Email = value
		case "phone":
			p.PersonalInfo.Phone = value
		case "location":
			p.PersonalInfo.Location = value
		case "linkedin":
			p.PersonalInfo.LinkedIn = value
		case "github":
			p.PersonalInfo.GitHub = value
		default:
			return &ValidationError{Field: field, Message: "unknown personal info field"}
		}
		return nil
	})
}

// UpdatePersonalInfo commits the whole contact block.
func (s *Session) UpdatePersonalInfo(ctx context.Context, info types.PersonalInfo) (*Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.mutate(ctx, types.SectionPersonalInfo, func(p *types.ResumeProfile) error {
		p.PersonalInfo = info
		return nil
	})
}

// SetSummary commits the summary text.
func (s *Session) SetSummary(ctx context.Context, summary string) (*Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.mutate(ctx, types.SectionSummary, func(p *types.ResumeProfile) error {
		p.Summary = strings.TrimSpace(summary)
		return nil
	})
}

// ReplaceFromUpload replaces the whole resume with a parsed upload.
func (s *Session) ReplaceFromUpload(ctx context.Context, parsed *types.ResumeProfile) (*Outcome, error) {
	if parsed == nil {
		return nil, &ValidationError{Field: "resume", Message: "parsed resume is empty"}
	}

	ctx, cancel := s.bind(ctx)
	defer cancel()

	s.mu.Lock()
	defer s.mu.Unlock()

	next := parsed.Clone()
	next.UserID = s.userID
	next.ID = s.profile.ID

	updated, err := s.store.ReplaceResume(ctx, s.userID, next)
	if cerr := ctx.Err(); cerr != nil {
		return nil, cerr
	}
	if err != nil {
		log.Printf("[profile] failed to replace resume for %s: %v", s.userID, err)
		return nil, &PersistError{Cause: err}
	}
	if updated == nil {
		updated = next
	}

	s.profile = updated.Clone()
	return &Outcome{Profile: s.profile.Clone(), Notify: true}, nil
}
