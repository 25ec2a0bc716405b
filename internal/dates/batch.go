package dates

import (
	"time"

	"github.com/jonathan/job-assistant/internal/types"
)

// InvalidField describes one failing date input, for a "fix all" listing.
type InvalidField struct {
	Section    types.Section `json:"section"`
	Index      int           `json:"index"`
	EntryName  string        `json:"entryName"`
	Field      Field         `json:"field"`
	FieldLabel string        `json:"fieldLabel"`
	Error      string        `json:"error"`
}

type datedEntry struct {
	section types.Section
	index   int
	name    string
	dates   types.Dates
}

func datedEntries(p *types.ResumeProfile) []datedEntry {
	var out []datedEntry
	for i, e := range p.Education {
		out = append(out, datedEntry{types.SectionEducation, i, e.SchoolName, e.Dates})
	}
	for i, w := range p.WorkExperience {
		out = append(out, datedEntry{types.SectionWorkExperience, i, w.Company, w.Dates})
	}
	for i, pr := range p.Projects {
		out = append(out, datedEntry{types.SectionProjects, i, pr.Name, pr.Dates})
	}
	return out
}

// InvalidFields walks every dated entry of the profile and returns each
// failing field, in section order (education, work experience, projects).
func InvalidFields(p *types.ResumeProfile, today time.Time) []InvalidField {
	if p == nil {
		return nil
	}
	var out []InvalidField
	for _, e := range datedEntries(p) {
		for _, f := range []Field{FieldStart, FieldEnd} {
			r := Check(e.dates, f, today)
			if r.Status != StatusInvalid {
				continue
			}
			out = append(out, InvalidField{
				Section:    e.section,
				Index:      e.index,
				EntryName:  e.name,
				Field:      f,
				FieldLabel: f.Label(),
				Error:      r.Message,
			})
		}
	}
	return out
}

// HasInvalidDates reports whether any dated entry fails validation.
func HasInvalidDates(p *types.ResumeProfile, today time.Time) bool {
	if p == nil {
		return false
	}
	for _, e := range datedEntries(p) {
		if !IsValid(e.dates, today) {
			return true
		}
	}
	return false
}
