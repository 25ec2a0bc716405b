// Package types provides the resume profile model and the job-related records shared across the job-assistant service.
package types

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"
)

// SchemaVersion is the version of the canonical (camelCase) profile shape.
const SchemaVersion = 2

// Dates is the date range carried by education, work and project entries.
// Dates are ISO calendar dates (YYYY-MM-DD); YYYY-MM is also accepted.
type Dates struct {
	StartDate      string `json:"startDate,omitempty"`
	CompletionDate string `json:"completionDate,omitempty"`
	IsCurrent      bool   `json:"isCurrent"`
}

// PersonalInfo holds the contact block at the top of a resume.
type PersonalInfo struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone,omitempty"`
	Location string `json:"location,omitempty"`
	LinkedIn string `json:"linkedin,omitempty"`
	GitHub   string `json:"github,omitempty"`
}

// Education is a single school entry.
type Education struct {
	SchoolName   string `json:"schoolName" validate:"required"`
	Degree       string `json:"degree,omitempty"`
	FieldOfStudy string `json:"fieldOfStudy,omitempty"`
	Location     string `json:"location,omitempty"`
	GPA          string `json:"gpa,omitempty"`
	Description  string `json:"description,omitempty"`
	Dates        Dates  `json:"dates"`
}

// WorkExperience is a single employment entry.
type WorkExperience struct {
	Company      string   `json:"company" validate:"required"`
	JobTitle     string   `json:"jobTitle,omitempty"`
	Location     string   `json:"location,omitempty"`
	Description  string   `json:"description,omitempty"`
	Achievements []string `json:"achievements,omitempty"`
	Dates        Dates    `json:"dates"`
}

// Project is a single project entry.
type Project struct {
	Name         string   `json:"name" validate:"required"`
	Description  string   `json:"description,omitempty"`
	Technologies []string `json:"technologies,omitempty"`
	Link         string   `json:"link,omitempty"`
	Dates        Dates    `json:"dates"`
}

// Certification is a named certification with an optional description.
type Certification struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description,omitempty"`
}

// Achievement is a named achievement with an optional description.
type Achievement struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description,omitempty"`
}

// Proficiency is the closed set of language proficiency levels.
type Proficiency string

const (
	ProficiencyNative       Proficiency = "Native"
	ProficiencyProfessional Proficiency = "Professional"
	ProficiencyIntermediate Proficiency = "Intermediate"
	ProficiencyBasic        Proficiency = "Basic"
)

// Proficiencies lists the allowed proficiency levels in display order.
func Proficiencies() []Proficiency {
	return []Proficiency{ProficiencyNative, ProficiencyProfessional, ProficiencyIntermediate, ProficiencyBasic}
}

// ParseProficiency matches a level case-insensitively.
func ParseProficiency(s string) (Proficiency, error) {
	for _, p := range Proficiencies() {
		if strings.EqualFold(strings.TrimSpace(s), string(p)) {
			return p, nil
		}
	}
	return "", fmt.Errorf("unknown proficiency level: %q", s)
}

// Language is a spoken language and its proficiency.
type Language struct {
	Name             string      `json:"name" validate:"required"`
	ProficiencyLevel Proficiency `json:"proficiencyLevel" validate:"required,oneof=Native Professional Intermediate Basic"`
}

// Publication is a paper, article or book.
type Publication struct {
	Title       string   `json:"title" validate:"required"`
	Description string   `json:"description,omitempty"`
	Authors     []string `json:"authors,omitempty"`
}

// Skills maps a category name to its ordered list of skills.
// Values are kept as entered; duplicates are allowed.
type Skills map[string][]string

// Categories returns the category names in sorted order.
func (s Skills) Categories() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// IsEmpty reports whether no category holds any skill.
func (s Skills) IsEmpty() bool {
	for _, v := range s {
		if len(v) > 0 {
			return false
		}
	}
	return true
}

// ResumeProfile is the canonical profile/resume record.
type ResumeProfile struct {
	ID             string           `json:"id,omitempty"`
	UserID         string           `json:"userId,omitempty"`
	PersonalInfo   PersonalInfo     `json:"personalInfo"`
	Summary        string           `json:"summary,omitempty"`
	Education      []Education      `json:"education"`
	WorkExperience []WorkExperience `json:"workExperience"`
	Skills         Skills           `json:"skills"`
	Projects       []Project        `json:"projects"`
	Certifications []Certification  `json:"certifications"`
	Achievements   []Achievement    `json:"achievements"`
	Languages      []Language       `json:"languages"`
	Publications   []Publication    `json:"publications"`
	UpdatedAt      time.Time        `json:"updatedAt,omitempty"`
}

// NewProfile returns an empty profile for the given user with all
// collections initialised.
func NewProfile(userID string) *ResumeProfile {
	p := &ResumeProfile{UserID: userID}
	p.normalize()
	return p
}

// IsComplete reports whether the minimum contact fields are present.
func (p *ResumeProfile) IsComplete() bool {
	return strings.TrimSpace(p.PersonalInfo.Name) != "" && strings.TrimSpace(p.PersonalInfo.Email) != ""
}

// normalize replaces nil collections with empty ones so JSON output is stable.
func (p *ResumeProfile) normalize() {
	if p.Education == nil {
		p.Education = []Education{}
	}
	if p.WorkExperience == nil {
		p.WorkExperience = []WorkExperience{}
	}
	if p.Skills == nil {
		p.Skills = Skills{}
	}
	if p.Projects == nil {
		p.Projects = []Project{}
	}
	if p.Certifications == nil {
		p.Certifications = []Certification{}
	}
	if p.Achievements == nil {
		p.Achievements = []Achievement{}
	}
	if p.Languages == nil {
		p.Languages = []Language{}
	}
	if p.Publications == nil {
		p.Publications = []Publication{}
	}
}

// Clone returns a deep copy of the profile.
func (p *ResumeProfile) Clone() *ResumeProfile {
	if p == nil {
		return nil
	}
	c := *p
	c.Education = cloneSlice(p.Education, func(e Education) Education { return e })
	c.WorkExperience = cloneSlice(p.WorkExperience, func(w WorkExperience) WorkExperience {
		w.Achievements = append([]string(nil), w.Achievements...)
		return w
	})
	c.Projects = cloneSlice(p.Projects, func(pr Project) Project {
		pr.Technologies = append([]string(nil), pr.Technologies...)
		return pr
	})
	c.Certifications = cloneSlice(p.Certifications, func(x Certification) Certification { return x })
	c.Achievements = cloneSlice(p.Achievements, func(x Achievement) Achievement { return x })
	c.Languages = cloneSlice(p.Languages, func(x Language) Language { return x })
	c.Publications = cloneSlice(p.Publications, func(x Publication) Publication {
		x.Authors = append([]string(nil), x.Authors...)
		return x
	})
	c.Skills = make(Skills, len(p.Skills))
	for k, v := range p.Skills {
		c.Skills[k] = append([]string{}, v...)
	}
	c.normalize()
	return &c
}

func cloneSlice[T any](in []T, copyFn func(T) T) []T {
	out := make([]T, len(in))
	for i, v := range in {
		out[i] = copyFn(v)
	}
	return out
}

// SectionValue returns the payload persisted for a whole-section update.
func (p *ResumeProfile) SectionValue(section Section) (any, error) {
	switch section {
	case SectionPersonalInfo:
		return p.PersonalInfo, nil
	case SectionSummary:
		return p.Summary, nil
	case SectionEducation:
		return p.Education, nil
	case SectionWorkExperience:
		return p.WorkExperience, nil
	case SectionSkills:
		return p.Skills, nil
	case SectionProjects:
		return p.Projects, nil
	case SectionCertifications:
		return p.Certifications, nil
	case SectionAchievements:
		return p.Achievements, nil
	case SectionLanguages:
		return p.Languages, nil
	case SectionPublications:
		return p.Publications, nil
	default:
		return nil, fmt.Errorf("unknown section: %q", section)
	}
}

// SetSection replaces one section from its JSON encoding. The section is
// decoded into a fresh value, so keys absent from raw do not survive.
func (p *ResumeProfile) SetSection(section Section, raw json.RawMessage) error {
	var err error
	switch section {
	case SectionPersonalInfo:
		err = replaceFrom(raw, &p.PersonalInfo)
	case SectionSummary:
		err = replaceFrom(raw, &p.Summary)
	case SectionEducation:
		err = replaceFrom(raw, &p.Education)
	case SectionWorkExperience:
		err = replaceFrom(raw, &p.WorkExperience)
	case SectionSkills:
		err = replaceFrom(raw, &p.Skills)
	case SectionProjects:
		err = replaceFrom(raw, &p.Projects)
	case SectionCertifications:
		err = replaceFrom(raw, &p.Certifications)
	case SectionAchievements:
		err = replaceFrom(raw, &p.Achievements)
	case SectionLanguages:
		err = replaceFrom(raw, &p.Languages)
	case SectionPublications:
		err = replaceFrom(raw, &p.Publications)
	default:
		return fmt.Errorf("unknown section: %q", section)
	}
	if err != nil {
		return fmt.Errorf("failed to decode section %s: %w", section, err)
	}
	p.normalize()
	return nil
}

// replaceFrom decodes raw into a zero T and assigns it to dst only on
// success.
func replaceFrom[T any](raw json.RawMessage, dst *T) error {
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return err
	}
	*dst = v
	return nil
}
