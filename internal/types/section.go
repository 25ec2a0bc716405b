package types

import "fmt"

// Section names one independently editable part of a profile.
// The values double as the JSON keys of the canonical shape.
type Section string

const (
	SectionPersonalInfo   Section = "personalInfo"
	SectionSummary        Section = "summary"
	SectionEducation      Section = "education"
	SectionWorkExperience Section = "workExperience"
	SectionSkills         Section = "skills"
	SectionProjects       Section = "projects"
	SectionCertifications Section = "certifications"
	SectionAchievements   Section = "achievements"
	SectionLanguages      Section = "languages"
	SectionPublications   Section = "publications"
)

// AllSections lists every section.
func AllSections() []Section {
	return []Section{
		SectionPersonalInfo,
		SectionSummary,
		SectionEducation,
		SectionWorkExperience,
		SectionSkills,
		SectionProjects,
		SectionCertifications,
		SectionAchievements,
		SectionLanguages,
		SectionPublications,
	}
}

// ParseSection accepts a canonical section name or its URL-friendly
// kebab-case form (e.g. "work-experience").
func ParseSection(s string) (Section, error) {
	for _, sec := range AllSections() {
		if s == string(sec) || s == sec.Slug() {
			return sec, nil
		}
	}
	return "", fmt.Errorf("unknown section: %q", s)
}

// Slug returns the kebab-case form used in URLs.
func (s Section) Slug() string {
	switch s {
	case SectionPersonalInfo:
		return "personal-info"
	case SectionWorkExperience:
		return "work-experience"
	default:
		return string(s)
	}
}

// HasDates reports whether entries of the section carry a Dates range.
func (s Section) HasDates() bool {
	return s == SectionEducation || s == SectionWorkExperience || s == SectionProjects
}
