package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleProfile() *ResumeProfile {
	p := NewProfile("user_1")
	p.PersonalInfo = PersonalInfo{Name: "Ada Lovelace", Email: "ada@example.com"}
	p.WorkExperience = []WorkExperience{{
		Company:      "Analytical Engines",
		Achievements: []string{"Wrote the first program"},
		Dates:        Dates{StartDate: "1842-01-01", IsCurrent: true},
	}}
	p.Projects = []Project{{Name: "Notes", Technologies: []string{"Bernoulli numbers"}}}
	p.Publications = []Publication{{Title: "Sketch of the Analytical Engine", Authors: []string{"Menabrea", "Lovelace"}}}
	p.Skills = Skills{"Math": {"Calculus", "Algebra"}}
	return p
}

func TestNewProfile_InitialisesCollections(t *testing.T) {
	p := NewProfile("user_1")

	data, err := json.Marshal(p)
	require.NoError(t, err)
	for _, key := range []string{`"education":[]`, `"workExperience":[]`, `"skills":{}`, `"languages":[]`} {
		assert.Contains(t, string(data), key)
	}
	assert.False(t, p.IsComplete())
}

func TestClone_IsDeep(t *testing.T) {
	p := sampleProfile()
	c := p.Clone()

	c.WorkExperience[0].Achievements[0] = "changed"
	c.Projects[0].Technologies[0] = "changed"
	c.Publications[0].Authors[0] = "changed"
	c.Skills["Math"][0] = "changed"
	c.Skills["New"] = []string{"x"}

	assert.Equal(t, "Wrote the first program", p.WorkExperience[0].Achievements[0])
	assert.Equal(t, "Bernoulli numbers", p.Projects[0].Technologies[0])
	assert.Equal(t, "Menabrea", p.Publications[0].Authors[0])
	assert.Equal(t, "Calculus", p.Skills["Math"][0])
	assert.NotContains(t, p.Skills, "New")

	var nilProfile *ResumeProfile
	assert.Nil(t, nilProfile.Clone())
}

func TestIsComplete(t *testing.T) {
	p := sampleProfile()
	assert.True(t, p.IsComplete())

	p.PersonalInfo.Email = "  "
	assert.False(t, p.IsComplete())
}

func TestSkills(t *testing.T) {
	s := Skills{"Tools": {"git"}, "Languages": {"Go", "Go"}, "Empty": {}}
	assert.Equal(t, []string{"Empty", "Languages", "Tools"}, s.Categories())
	assert.False(t, s.IsEmpty())
	assert.True(t, Skills{"Empty": nil}.IsEmpty())
}

func TestParseProficiency(t *testing.T) {
	level, err := ParseProficiency(" professional ")
	require.NoError(t, err)
	assert.Equal(t, ProficiencyProfessional, level)

	_, err = ParseProficiency("fluent")
	assert.Error(t, err)
}

func TestSectionValue_SetSection(t *testing.T) {
	src := sampleProfile()
	dst := NewProfile("user_1")

	for _, section := range AllSections() {
		value, err := src.SectionValue(section)
		require.NoError(t, err, section)
		raw, err := json.Marshal(value)
		require.NoError(t, err)
		require.NoError(t, dst.SetSection(section, raw), section)
	}
	assert.Equal(t, src.PersonalInfo, dst.PersonalInfo)
	assert.Equal(t, src.WorkExperience, dst.WorkExperience)
	assert.Equal(t, src.Skills, dst.Skills)

	_, err := src.SectionValue("hobbies")
	assert.Error(t, err)
	assert.Error(t, dst.SetSection("hobbies", []byte(`[]`)))
	assert.Error(t, dst.SetSection(SectionEducation, []byte(`{"schoolName":"x"}`)))
}

func TestSetSection_NullKeepsCollectionsNonNil(t *testing.T) {
	p := sampleProfile()
	require.NoError(t, p.SetSection(SectionProjects, []byte(`null`)))
	assert.NotNil(t, p.Projects)
	assert.Empty(t, p.Projects)
}

func TestParseSection(t *testing.T) {
	tests := []struct {
		input    string
		expected Section
	}{
		{"workExperience", SectionWorkExperience},
		{"work-experience", SectionWorkExperience},
		{"personal-info", SectionPersonalInfo},
		{"skills", SectionSkills},
	}
	for _, tt := range tests {
		got, err := ParseSection(tt.input)
		require.NoError(t, err, tt.input)
		assert.Equal(t, tt.expected, got)
	}

	_, err := ParseSection("work_experience")
	assert.Error(t, err)
}

func TestSection_HasDates(t *testing.T) {
	assert.True(t, SectionEducation.HasDates())
	assert.True(t, SectionWorkExperience.HasDates())
	assert.True(t, SectionProjects.HasDates())
	assert.False(t, SectionCertifications.HasDates())
}

func TestSetSection_ReplacesInsteadOfMerging(t *testing.T) {
	p := sampleProfile()
	p.Skills = Skills{"Languages": {"Go"}, "Tools": {"Docker"}}
	p.PersonalInfo.Phone = "555-0100"

	require.NoError(t, p.SetSection(SectionSkills, []byte(`{"Cloud":["AWS"]}`)))
	assert.Equal(t, Skills{"Cloud": {"AWS"}}, p.Skills)

	require.NoError(t, p.SetSection(SectionSkills, []byte(`{}`)))
	assert.Empty(t, p.Skills)
	assert.NotNil(t, p.Skills)

	require.NoError(t, p.SetSection(SectionPersonalInfo, []byte(`{"name":"Ada Lovelace","email":"ada@example.com"}`)))
	assert.Empty(t, p.PersonalInfo.Phone)
	assert.Equal(t, "Ada Lovelace", p.PersonalInfo.Name)
}

func TestSetSection_FailureLeavesSectionUntouched(t *testing.T) {
	p := sampleProfile()
	before := p.Clone()

	assert.Error(t, p.SetSection(SectionSkills, []byte(`{"Math":"Calculus"}`)))
	assert.Equal(t, before.Skills, p.Skills)
}
