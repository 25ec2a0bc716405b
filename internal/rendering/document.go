// Package rendering turns a resume profile into an ordered document
// description and serializes it as PDF or DOCX.
package rendering

import (
	"strings"

	"github.com/jonathan/job-assistant/internal/types"
)

// Document is the format-independent layout of a resume.
type Document struct {
	Header   Header
	Sections []Section
}

// Header is the name and contact block.
type Header struct {
	Name    string
	Contact []string // email, phone, location
	Links   []string // LinkedIn, GitHub
}

// Section is one titled block of entries.
type Section struct {
	Kind    types.Section
	Title   string
	Entries []Entry
}

// Entry is one item in a section. Empty fields are not rendered.
type Entry struct {
	Title    string
	Subtitle string
	Meta     string
	Dates    string
	Body     string
	Bullets  []string
}

// sectionOrder is the fixed output order.
var sectionOrder = []struct {
	kind  types.Section
	title string
	build func(*types.ResumeProfile) []Entry
}{
	{types.SectionSummary, "Summary", summaryEntries},
	{types.SectionEducation, "Education", educationEntries},
	{types.SectionWorkExperience, "Work Experience", workEntries},
	{types.SectionSkills, "Skills", skillEntries},
	{types.SectionProjects, "Projects", projectEntries},
	{types.SectionCertifications, "Certifications", certificationEntries},
	{types.SectionPublications, "Publications", publicationEntries},
	{types.SectionAchievements, "Achievements", achievementEntries},
	{types.SectionLanguages, "Languages", languageEntries},
}

// BuildDocument maps a profile to its document layout. Sections with no
// content are omitted. The profile is not modified.
func BuildDocument(p *types.ResumeProfile) *Document {
	if p == nil {
		return &Document{}
	}

	doc := &Document{Header: buildHeader(p.PersonalInfo)}
	for _, s := range sectionOrder {
		entries := s.build(p)
		if len(entries) == 0 {
			continue
		}
		doc.Sections = append(doc.Sections, Section{Kind: s.kind, Title: s.title, Entries: entries})
	}
	return doc
}

// SectionTitles lists the rendered section titles in order.
func (d *Document) SectionTitles() []string {
	titles := make([]string, len(d.Sections))
	for i, s := range d.Sections {
		titles[i] = s.Title
	}
	return titles
}

func buildHeader(pi types.PersonalInfo) Header {
	return Header{
		Name:    strings.TrimSpace(pi.Name),
		Contact: nonEmpty(pi.Email, pi.Phone, pi.Location),
		Links:   nonEmpty(pi.LinkedIn, pi.GitHub),
	}
}

func summaryEntries(p *types.ResumeProfile) []Entry {
	if strings.TrimSpace(p.Summary) == "" {
		return nil
	}
	return []Entry{{Body: strings.TrimSpace(p.Summary)}}
}

func educationEntries(p *types.ResumeProfile) []Entry {
	var out []Entry
	for _, e := range p.Education {
		degree := e.Degree
		if e.FieldOfStudy != "" {
			if degree != "" {
				degree += " in " + e.FieldOfStudy
			} else {
				degree = e.FieldOfStudy
			}
		}
		var body []string
		if e.GPA != "" {
			body = append(body, "GPA: "+e.GPA)
		}
		if e.Description != "" {
			body = append(body, e.Description)
		}
		out = append(out, Entry{
			Title:    e.SchoolName,
			Subtitle: degree,
			Meta:     e.Location,
			Dates:    FormatRange(e.Dates),
			Body:     strings.Join(body, "\n"),
		})
	}
	return out
}

func workEntries(p *types.ResumeProfile) []Entry {
	var out []Entry
	for _, w := range p.WorkExperience {
		out = append(out, Entry{
			Title:    w.Company,
			Subtitle: w.JobTitle,
			Meta:     w.Location,
			Dates:    FormatRange(w.Dates),
			Body:     w.Description,
			Bullets:  nonEmpty(w.Achievements...),
		})
	}
	return out
}

func skillEntries(p *types.ResumeProfile) []Entry {
	var out []Entry
	for _, category := range p.Skills.Categories() {
		skills := nonEmpty(p.Skills[category]...)
		if len(skills) == 0 {
			continue
		}
		out = append(out, Entry{Title: category, Body: strings.Join(skills, ", ")})
	}
	return out
}

func projectEntries(p *types.ResumeProfile) []Entry {
	var out []Entry
	for _, pr := range p.Projects {
		out = append(out, Entry{
			Title:    pr.Name,
			Subtitle: strings.Join(nonEmpty(pr.Technologies...), ", "),
			Meta:     pr.Link,
			Dates:    FormatRange(pr.Dates),
			Body:     pr.Description,
		})
	}
	return out
}

func certificationEntries(p *types.ResumeProfile) []Entry {
	var out []Entry
	for _, c := range p.Certifications {
		out = append(out, Entry{Title: c.Name, Body: c.Description})
	}
	return out
}

func publicationEntries(p *types.ResumeProfile) []Entry {
	var out []Entry
	for _, pub := range p.Publications {
		out = append(out, Entry{
			Title:    pub.Title,
			Subtitle: strings.Join(nonEmpty(pub.Authors...), ", "),
			Body:     pub.Description,
		})
	}
	return out
}

func achievementEntries(p *types.ResumeProfile) []Entry {
	var out []Entry
	for _, a := range p.Achievements {
		out = append(out, Entry{Title: a.Name, Body: a.Description})
	}
	return out
}

func languageEntries(p *types.ResumeProfile) []Entry {
	var out []Entry
	for _, l := range p.Languages {
		out = append(out, Entry{Title: l.Name, Subtitle: string(l.ProficiencyLevel)})
	}
	return out
}

func nonEmpty(values ...string) []string {
	var out []string
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
