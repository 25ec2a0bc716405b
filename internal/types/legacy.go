package types

import (
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"
)

// The v1 profile shape used snake_case keys, "school_name" for schools and
// "organization" for employers. It is still produced by older parser
// deployments and accepted by some persistence endpoints, so it is
// translated here and nowhere else.

type legacyDates struct {
	StartDate      string `json:"start_date,omitempty"`
	CompletionDate string `json:"completion_date,omitempty"`
	IsCurrent      bool   `json:"is_current"`
}

type legacyPersonalInfo struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone,omitempty"`
	Location string `json:"location,omitempty"`
	LinkedIn string `json:"linkedin_url,omitempty"`
	GitHub   string `json:"github_url,omitempty"`
}

type legacyEducation struct {
	SchoolName   string      `json:"school_name"`
	Degree       string      `json:"degree,omitempty"`
	FieldOfStudy string      `json:"field_of_study,omitempty"`
	Location     string      `json:"location,omitempty"`
	GPA          string      `json:"gpa,omitempty"`
	Description  string      `json:"description,omitempty"`
	Dates        legacyDates `json:"dates"`
}

type legacyWork struct {
	Organization string      `json:"organization"`
	JobTitle     string      `json:"job_title,omitempty"`
	Location     string      `json:"location,omitempty"`
	Description  string      `json:"description,omitempty"`
	Achievements []string    `json:"achievements,omitempty"`
	Dates        legacyDates `json:"dates"`
}

type legacyProject struct {
	Name         string      `json:"name"`
	Description  string      `json:"description,omitempty"`
	Technologies []string    `json:"technologies,omitempty"`
	Link         string      `json:"link,omitempty"`
	Dates        legacyDates `json:"dates"`
}

type legacyLanguage struct {
	Name             string `json:"name"`
	ProficiencyLevel string `json:"proficiency_level"`
}

type legacyProfile struct {
	SchemaVersion  int                 `json:"schema_version"`
	UserID         string              `json:"clerk_id,omitempty"`
	PersonalInfo   legacyPersonalInfo  `json:"personal_info"`
	Summary        string              `json:"summary,omitempty"`
	Education      []legacyEducation   `json:"education"`
	WorkExperience []legacyWork        `json:"work_experience"`
	Skills         map[string][]string `json:"skills"`
	Projects       []legacyProject     `json:"projects"`
	Certifications []Certification     `json:"certifications"`
	Achievements   []Achievement       `json:"achievements"`
	Languages      []legacyLanguage    `json:"languages"`
	Publications   []Publication       `json:"publications"`
}

// IsLegacyProfileJSON reports whether the document uses the v1 shape.
func IsLegacyProfileJSON(data []byte) bool {
	if v := gjson.GetBytes(data, "schema_version"); v.Exists() {
		return v.Int() < SchemaVersion
	}
	return gjson.GetBytes(data, "personal_info").Exists() ||
		gjson.GetBytes(data, "work_experience").Exists()
}

// DecodeProfile decodes either profile shape into the canonical model.
func DecodeProfile(data []byte) (*ResumeProfile, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("profile is not valid JSON")
	}
	if IsLegacyProfileJSON(data) {
		var lp legacyProfile
		if err := json.Unmarshal(data, &lp); err != nil {
			return nil, fmt.Errorf("failed to decode v1 profile: %w", err)
		}
		return lp.toCanonical(), nil
	}
	var p ResumeProfile
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to decode profile: %w", err)
	}
	p.normalize()
	return &p, nil
}

// EncodeLegacy writes the profile in the v1 shape.
func EncodeLegacy(p *ResumeProfile) ([]byte, error) {
	lp := legacyProfile{
		SchemaVersion: 1,
		UserID:        p.UserID,
		PersonalInfo: legacyPersonalInfo{
			Name:     p.PersonalInfo.Name,
			Email:    p.PersonalInfo.Email,
			Phone:    p.PersonalInfo.Phone,
			Location: p.PersonalInfo.Location,
			LinkedIn: p.PersonalInfo.LinkedIn,
			GitHub:   p.PersonalInfo.GitHub,
		},
		Summary:        p.Summary,
		Skills:         p.Skills,
		Certifications: p.Certifications,
		Achievements:   p.Achievements,
		Publications:   p.Publications,
	}
	for _, e := range p.Education {
		lp.Education = append(lp.Education, legacyEducation{
			SchoolName:   e.SchoolName,
			Degree:       e.Degree,
			FieldOfStudy: e.FieldOfStudy,
			Location:     e.Location,
			GPA:          e.GPA,
			Description:  e.Description,
			Dates:        toLegacyDates(e.Dates),
		})
	}
	for _, w := range p.WorkExperience {
		lp.WorkExperience = append(lp.WorkExperience, legacyWork{
			Organization: w.Company,
			JobTitle:     w.JobTitle,
			Location:     w.Location,
			Description:  w.Description,
			Achievements: w.Achievements,
			Dates:        toLegacyDates(w.Dates),
		})
	}
	for _, pr := range p.Projects {
		lp.Projects = append(lp.Projects, legacyProject{
			Name:         pr.Name,
			Description:  pr.Description,
			Technologies: pr.Technologies,
			Link:         pr.Link,
			Dates:        toLegacyDates(pr.Dates),
		})
	}
	for _, l := range p.Languages {
		lp.Languages = append(lp.Languages, legacyLanguage{Name: l.Name, ProficiencyLevel: string(l.ProficiencyLevel)})
	}
	return json.Marshal(lp)
}

func (lp *legacyProfile) toCanonical() *ResumeProfile {
	p := &ResumeProfile{
		UserID: lp.UserID,
		PersonalInfo: PersonalInfo{
			Name:     lp.PersonalInfo.Name,
			Email:    lp.PersonalInfo.Email,
			Phone:    lp.PersonalInfo.Phone,
			Location: lp.PersonalInfo.Location,
			LinkedIn: lp.PersonalInfo.LinkedIn,
			GitHub:   lp.PersonalInfo.GitHub,
		},
		Summary:        lp.Summary,
		Skills:         lp.Skills,
		Certifications: lp.Certifications,
		Achievements:   lp.Achievements,
		Publications:   lp.Publications,
	}
	for _, e := range lp.Education {
		p.Education = append(p.Education, Education{
			SchoolName:   e.SchoolName,
			Degree:       e.Degree,
			FieldOfStudy: e.FieldOfStudy,
			Location:     e.Location,
			GPA:          e.GPA,
			Description:  e.Description,
			Dates:        e.Dates.canonical(),
		})
	}
	for _, w := range lp.WorkExperience {
		p.WorkExperience = append(p.WorkExperience, WorkExperience{
			Company:      w.Organization,
			JobTitle:     w.JobTitle,
			Location:     w.Location,
			Description:  w.Description,
			Achievements: w.Achievements,
			Dates:        w.Dates.canonical(),
		})
	}
	for _, pr := range lp.Projects {
		p.Projects = append(p.Projects, Project{
			Name:         pr.Name,
			Description:  pr.Description,
			Technologies: pr.Technologies,
			Link:         pr.Link,
			Dates:        pr.Dates.canonical(),
		})
	}
	for _, l := range lp.Languages {
		level, err := ParseProficiency(l.ProficiencyLevel)
		if err != nil {
			level = Proficiency(l.ProficiencyLevel)
		}
		p.Languages = append(p.Languages, Language{Name: l.Name, ProficiencyLevel: level})
	}
	p.normalize()
	return p
}

func (d legacyDates) canonical() Dates {
	return Dates{StartDate: d.StartDate, CompletionDate: d.CompletionDate, IsCurrent: d.IsCurrent}
}

func toLegacyDates(d Dates) legacyDates {
	return legacyDates{StartDate: d.StartDate, CompletionDate: d.CompletionDate, IsCurrent: d.IsCurrent}
}

// LegacySectionKey returns the v1 document key of a section.
func LegacySectionKey(section Section) string {
	switch section {
	case SectionPersonalInfo:
		return "personal_info"
	case SectionWorkExperience:
		return "work_experience"
	default:
		return string(section)
	}
}

// EncodeLegacySection converts a canonical section payload into its v1 key
// and shape. Emptied list sections encode as [].
func EncodeLegacySection(section Section, value any) (string, json.RawMessage, error) {
	raw, err := json.Marshal(value)
	if err != nil {
		return "", nil, fmt.Errorf("failed to marshal %s: %w", section, err)
	}
	p := NewProfile("")
	if err := p.SetSection(section, raw); err != nil {
		return "", nil, err
	}
	doc, err := EncodeLegacy(p)
	if err != nil {
		return "", nil, err
	}

	key := LegacySectionKey(section)
	v := gjson.GetBytes(doc, key)
	if !v.Exists() || v.Type == gjson.Null {
		if section == SectionSummary {
			return key, json.RawMessage(`""`), nil
		}
		if section == SectionSkills {
			return key, json.RawMessage(`{}`), nil
		}
		return key, json.RawMessage(`[]`), nil
	}
	return key, json.RawMessage(v.Raw), nil
}

// UpgradeWithSection decodes a stored document of either shape, replaces
// one section and returns the canonical encoding.
func UpgradeWithSection(data []byte, section Section, raw json.RawMessage) ([]byte, error) {
	p, err := DecodeProfile(data)
	if err != nil {
		return nil, err
	}
	if err := p.SetSection(section, raw); err != nil {
		return nil, err
	}
	return json.Marshal(p)
}
