package editor

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jonathan/job-assistant/internal/types"
)

func educationList(p *types.ResumeProfile) *[]types.Education { return &p.Education }
func workList(p *types.ResumeProfile) *[]types.WorkExperience { return &p.WorkExperience }
func projectList(p *types.ResumeProfile) *[]types.Project { return &p.Projects }
func certificationList(p *types.ResumeProfile) *[]types.Certification { return &p.Certifications }
func achievementList(p *types.ResumeProfile) *[]types.Achievement { return &p.Achievements }
func languageList(p *types.ResumeProfile) *[]types.Language { return &p.Languages }
func publicationList(p *types.ResumeProfile) *[]types.Publication { return &p.Publications }

// commitEntry validates the draft, appends it and persists the section.
// The draft is cleared only once the store accepts the write.
func commitEntry[T any](ctx context.Context, s *Session, section types.Section, d *Draft[T], list func(*types.ResumeProfile) *[]T) (*Outcome, error) {
	if d == nil {
		return nil, &ValidationError{Field: string(section), Message: "nothing to add"}
	}
	if err := validateEntry(d.Value); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	out, err := s.mutate(ctx, section, func(p *types.ResumeProfile) error {
		l := list(p)
		*l = append(*l, d.Value)
		return nil
	})
	if err != nil {
		return nil, err
	}
	d.Clear()
	return out, nil
}

func updateEntry[T any](ctx context.Context, s *Session, section types.Section, index int, entry T, list func(*types.ResumeProfile) *[]T) (*Outcome, error) {
	if err := validateEntry(entry); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.mutate(ctx, section, func(p *types.ResumeProfile) error {
		l := list(p)
		if index < 0 || index >= len(*l) {
			return &IndexError{Section: section, Index: index, Len: len(*l)}
		}
		(*l)[index] = entry
		return nil
	})
}

func removeEntry[T any](ctx context.Context, s *Session, section types.Section, index int, list func(*types.ResumeProfile) *[]T) (*Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.mutate(ctx, section, func(p *types.ResumeProfile) error {
		l := list(p)
		if index < 0 || index >= len(*l) {
			return &IndexError{Section: section, Index: index, Len: len(*l)}
		}
		*l = append((*l)[:index], (*l)[index+1:]...)
		return nil
	})
}

// CommitEducation appends the drafted school entry.
func (s *Session) CommitEducation(ctx context.Context, d *Draft[types.Education]) (*Outcome, error) {
	return commitEntry(ctx, s, types.SectionEducation, d, educationList)
}

// UpdateEducation replaces the school entry at index.
func (s *Session) UpdateEducation(ctx context.Context, index int, e types.Education) (*Outcome, error) {
	return updateEntry(ctx, s, types.SectionEducation, index, e, educationList)
}

// RemoveEducation deletes the school entry at index.
func (s *Session) RemoveEducation(ctx context.Context, index int) (*Outcome, error) {
	return removeEntry(ctx, s, types.SectionEducation, index, educationList)
}

// CommitWorkExperience appends the drafted job entry.
func (s *Session) CommitWorkExperience(ctx context.Context, d *Draft[types.WorkExperience]) (*Outcome, error) {
	return commitEntry(ctx, s, types.SectionWorkExperience, d, workList)
}

// UpdateWorkExperience replaces the job entry at index.
func (s *Session) UpdateWorkExperience(ctx context.Context, index int, w types.WorkExperience) (*Outcome, error) {
	return updateEntry(ctx, s, types.SectionWorkExperience, index, w, workList)
}

// RemoveWorkExperience deletes the job entry at index.
func (s *Session) RemoveWorkExperience(ctx context.Context, index int) (*Outcome, error) {
	return removeEntry(ctx, s, types.SectionWorkExperience, index, workList)
}

func (s *Session) CommitProject(ctx context.Context, d *Draft[types.Project]) (*Outcome, error) {
	return commitEntry(ctx, s, types.SectionProjects, d, projectList)
}

func (s *Session) UpdateProject(ctx context.Context, index int, pr types.Project) (*Outcome, error) {
	return updateEntry(ctx, s, types.SectionProjects, index, pr, projectList)
}

func (s *Session) RemoveProject(ctx context.Context, index int) (*Outcome, error) {
	return removeEntry(ctx, s, types.SectionProjects, index, projectList)
}

func (s *Session) CommitCertification(ctx context.Context, d *Draft[types.Certification]) (*Outcome, error) {
	return commitEntry(ctx, s, types.SectionCertifications, d, certificationList)
}

func (s *Session) UpdateCertification(ctx context.Context, index int, c types.Certification) (*Outcome, error) {
	return updateEntry(ctx, s, types.SectionCertifications, index, c, certificationList)
}

func (s *Session) RemoveCertification(ctx context.Context, index int) (*Outcome, error) {
	return removeEntry(ctx, s, types.SectionCertifications, index, certificationList)
}

func (s *Session) CommitAchievement(ctx context.Context, d *Draft[types.Achievement]) (*Outcome, error) {
	return commitEntry(ctx, s, types.SectionAchievements, d, achievementList)
}

func (s *Session) UpdateAchievement(ctx context.Context, index int, a types.Achievement) (*Outcome, error) {
	return updateEntry(ctx, s, types.SectionAchievements, index, a, achievementList)
}

func (s *Session) RemoveAchievement(ctx context.Context, index int) (*Outcome, error) {
	return removeEntry(ctx, s, types.SectionAchievements, index, achievementList)
}

// CommitLanguage appends the drafted language. Proficiency must be one of
// the closed set.
func (s *Session) CommitLanguage(ctx context.Context, d *Draft[types.Language]) (*Outcome, error) {
	return commitEntry(ctx, s, types.SectionLanguages, d, languageList)
}

func (s *Session) UpdateLanguage(ctx context.Context, index int, l types.Language) (*Outcome, error) {
	return updateEntry(ctx, s, types.SectionLanguages, index, l, languageList)
}

func (s *Session) RemoveLanguage(ctx context.Context, index int) (*Outcome, error) {
	return removeEntry(ctx, s, types.SectionLanguages, index, languageList)
}

func (s *Session) CommitPublication(ctx context.Context, d *Draft[types.Publication]) (*Outcome, error) {
	return commitEntry(ctx, s, types.SectionPublications, d, publicationList)
}

func (s *Session) UpdatePublication(ctx context.Context, index int, pub types.Publication) (*Outcome, error) {
	return updateEntry(ctx, s, types.SectionPublications, index, pub, publicationList)
}

func (s *Session) RemovePublication(ctx context.Context, index int) (*Outcome, error) {
	return removeEntry(ctx, s, types.SectionPublications, index, publicationList)
}

// AddEntryJSON decodes a JSON entry for the named list section and commits it.
func (s *Session) AddEntryJSON(ctx context.Context, section types.Section, raw json.RawMessage) (*Outcome, error) {
	switch section {
	case types.SectionEducation:
		return addJSON(ctx, s, section, raw, educationList)
	case types.SectionWorkExperience:
		return addJSON(ctx, s, section, raw, workList)
	case types.SectionProjects:
		return addJSON(ctx, s, section, raw, projectList)
	case types.SectionCertifications:
		return addJSON(ctx, s, section, raw, certificationList)
	case types.SectionAchievements:
		return addJSON(ctx, s, section, raw, achievementList)
	case types.SectionLanguages:
		return addJSON(ctx, s, section, raw, languageList)
	case types.SectionPublications:
		return addJSON(ctx, s, section, raw, publicationList)
	default:
		return nil, &ValidationError{Field: "section", Message: fmt.Sprintf("%s is not a list section", section)}
	}
}

// UpdateEntryJSON decodes a JSON entry and replaces the entry at index.
func (s *Session) UpdateEntryJSON(ctx context.Context, section types.Section, index int, raw json.RawMessage) (*Outcome, error) {
	switch section {
	case types.SectionEducation:
		return updateJSON(ctx, s, section, index, raw, educationList)
	case types.SectionWorkExperience:
		return updateJSON(ctx, s, section, index, raw, workList)
	case types.SectionProjects:
		return updateJSON(ctx, s, section, index, raw, projectList)
	case types.SectionCertifications:
		return updateJSON(ctx, s, section, index, raw, certificationList)
	case types.SectionAchievements:
		return updateJSON(ctx, s, section, index, raw, achievementList)
	case types.SectionLanguages:
		return updateJSON(ctx, s, section, index, raw, languageList)
	case types.SectionPublications:
		return updateJSON(ctx, s, section, index, raw, publicationList)
	default:
		return nil, &ValidationError{Field: "section", Message: fmt.Sprintf("%s is not a list section", section)}
	}
}

// RemoveEntry deletes the entry at index from the named list section.
func (s *Session) RemoveEntry(ctx context.Context, section types.Section, index int) (*Outcome, error) {
	switch section {
	case types.SectionEducation:
		return s.RemoveEducation(ctx, index)
	case types.SectionWorkExperience:
		return s.RemoveWorkExperience(ctx, index)
	case types.SectionProjects:
		return s.RemoveProject(ctx, index)
	case types.SectionCertifications:
		return s.RemoveCertification(ctx, index)
	case types.SectionAchievements:
		return s.RemoveAchievement(ctx, index)
	case types.SectionLanguages:
		return s.RemoveLanguage(ctx, index)
	case types.SectionPublications:
		return s.RemovePublication(ctx, index)
	default:
		return nil, &ValidationError{Field: "section", Message: fmt.Sprintf("%s is not a list section", section)}
	}
}

func addJSON[T any](ctx context.Context, s *Session, section types.Section, raw json.RawMessage, list func(*types.ResumeProfile) *[]T) (*Outcome, error) {
	d := NewDraft[T]()
	if err := json.Unmarshal(raw, &d.Value); err != nil {
		return nil, &ValidationError{Field: string(section), Message: "invalid entry: " + err.Error()}
	}
	return commitEntry(ctx, s, section, d, list)
}

func updateJSON[T any](ctx context.Context, s *Session, section types.Section, index int, raw json.RawMessage, list func(*types.ResumeProfile) *[]T) (*Outcome, error) {
	var entry T
	if err := json.Unmarshal(raw, &entry); err != nil {
		return nil, &ValidationError{Field: string(section), Message: "invalid entry: " + err.Error()}
	}
	return updateEntry(ctx, s, section, index, entry, list)
}

// ReplaceSection replaces a whole section from its JSON encoding. Date
// ranges are not checked here; InvalidFields reports them afterwards.
func (s *Session) ReplaceSection(ctx context.Context, section types.Section, raw json.RawMessage) (*Outcome, error) {
	if _, err := types.ParseSection(string(section)); err != nil {
		return nil, &ValidationError{Field: "section", Message: err.Error()}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.mutate(ctx, section, func(p *types.ResumeProfile) error {
		if err := p.SetSection(section, raw); err != nil {
			return &ValidationError{Field: string(section), Message: err.Error()}
		}
		return nil
	})
}
