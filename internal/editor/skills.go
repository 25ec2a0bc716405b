package editor

import (
	"context"
	"strings"

	"github.com/jonathan/job-assistant/internal/types"
)

// AddSkill appends a skill to a category, creating the category if needed.
// Duplicates are kept. Skills edits complete without a notification.
func (s *Session) AddSkill(ctx context.Context, category, skill string) (*Outcome, error) {
	category = strings.TrimSpace(category)
	skill = strings.TrimSpace(skill)
	if category == "" {
		return nil, &ValidationError{Field: "category", Message: "category is required"}
	}
	if skill == "" {
		return nil, &ValidationError{Field: "skill", Message: "skill is required"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.mutate(ctx, types.SectionSkills, func(p *types.ResumeProfile) error {
		p.Skills[category] = append(p.Skills[category], skill)
		return nil
	})
}

// RemoveSkill deletes the skill at index within a category.
func (s *Session) RemoveSkill(ctx context.Context, category string, index int) (*Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.mutate(ctx, types.SectionSkills, func(p *types.ResumeProfile) error {
		list, ok := p.Skills[category]
		if !ok {
			return &ValidationError{Field: "category", Message: "unknown category " + category}
		}
		if index < 0 || index >= len(list) {
			return &IndexError{Section: types.SectionSkills, Index: index, Len: len(list)}
		}
		p.Skills[category] = append(list[:index], list[index+1:]...)
		return nil
	})
}

// RemoveSkillCategory deletes a category and all of its skills.
func (s *Session) RemoveSkillCategory(ctx context.Context, category string) (*Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.mutate(ctx, types.SectionSkills, func(p *types.ResumeProfile) error {
		if _, ok := p.Skills[category]; !ok {
			return &ValidationError{Field: "category", Message: "unknown category " + category}
		}
		delete(p.Skills, category)
		return nil
	})
}
