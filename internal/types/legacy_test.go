package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

const legacyDoc = `{
	"schema_version": 1,
	"clerk_id": "user_1",
	"personal_info": {"name": "Ada", "email": "ada@example.com", "linkedin_url": "https://linkedin.com/in/ada"},
	"education": [{"school_name": "State U", "field_of_study": "Math", "dates": {"start_date": "2015-09-01", "completion_date": "2019-06-01"}}],
	"work_experience": [{"organization": "Acme", "job_title": "Engineer", "dates": {"start_date": "2020-01-01", "is_current": true}}],
	"languages": [{"name": "French", "proficiency_level": "basic"}],
	"skills": {"Languages": ["Go"]}
}`

func TestIsLegacyProfileJSON(t *testing.T) {
	assert.True(t, IsLegacyProfileJSON([]byte(legacyDoc)))
	assert.True(t, IsLegacyProfileJSON([]byte(`{"personal_info":{}}`)))
	assert.False(t, IsLegacyProfileJSON([]byte(`{"personalInfo":{}}`)))
	assert.False(t, IsLegacyProfileJSON([]byte(`{"schema_version":2,"personal_info":{}}`)))
}

func TestDecodeProfile_Legacy(t *testing.T) {
	p, err := DecodeProfile([]byte(legacyDoc))
	require.NoError(t, err)

	assert.Equal(t, "user_1", p.UserID)
	assert.Equal(t, "https://linkedin.com/in/ada", p.PersonalInfo.LinkedIn)
	require.Len(t, p.Education, 1)
	assert.Equal(t, "State U", p.Education[0].SchoolName)
	assert.Equal(t, "2019-06-01", p.Education[0].Dates.CompletionDate)
	require.Len(t, p.WorkExperience, 1)
	assert.Equal(t, "Acme", p.WorkExperience[0].Company)
	assert.True(t, p.WorkExperience[0].Dates.IsCurrent)
	assert.Equal(t, ProficiencyBasic, p.Languages[0].ProficiencyLevel)
	assert.NotNil(t, p.Projects)
}

func TestDecodeProfile_Canonical(t *testing.T) {
	p, err := DecodeProfile([]byte(`{"personalInfo":{"name":"Ada"},"workExperience":[{"company":"Acme"}]}`))
	require.NoError(t, err)
	assert.Equal(t, "Acme", p.WorkExperience[0].Company)
	assert.NotNil(t, p.Skills)

	_, err = DecodeProfile([]byte(`{not json`))
	assert.Error(t, err)
}

func TestEncodeLegacy_RoundTrip(t *testing.T) {
	p, err := DecodeProfile([]byte(legacyDoc))
	require.NoError(t, err)

	data, err := EncodeLegacy(p)
	require.NoError(t, err)
	assert.Equal(t, "Acme", gjson.GetBytes(data, "work_experience.0.organization").String())
	assert.Equal(t, "State U", gjson.GetBytes(data, "education.0.school_name").String())
	assert.Equal(t, int64(1), gjson.GetBytes(data, "schema_version").Int())

	back, err := DecodeProfile(data)
	require.NoError(t, err)
	assert.Equal(t, p.WorkExperience, back.WorkExperience)
	assert.Equal(t, p.Education, back.Education)
}

func TestUpgradeWithSection_LegacyDocument(t *testing.T) {
	v1 := []byte(`{"schema_version":1,"personal_info":{"name":"Ada"},` +
		`"education":[{"school_name":"State U","dates":{"start_date":"2015-09-01"}}],` +
		`"work_experience":[{"organization":"Old Co"}]}`)

	data, err := UpgradeWithSection(v1, SectionWorkExperience, []byte(`[{"company":"New Co"}]`))
	require.NoError(t, err)
	assert.False(t, IsLegacyProfileJSON(data))

	data, err = UpgradeWithSection(data, SectionEducation,
		[]byte(`[{"schoolName":"Stanford","dates":{"startDate":"2019-09-01"}}]`))
	require.NoError(t, err)

	p, err := DecodeProfile(data)
	require.NoError(t, err)
	assert.Equal(t, "Ada", p.PersonalInfo.Name)
	require.Len(t, p.WorkExperience, 1)
	assert.Equal(t, "New Co", p.WorkExperience[0].Company)
	require.Len(t, p.Education, 1)
	assert.Equal(t, "Stanford", p.Education[0].SchoolName)
	assert.Equal(t, "2019-09-01", p.Education[0].Dates.StartDate)
}

func TestEncodeLegacySection(t *testing.T) {
	key, raw, err := EncodeLegacySection(SectionWorkExperience, []WorkExperience{{
		Company: "Acme", JobTitle: "Engineer", Dates: Dates{StartDate: "2020-01-01", IsCurrent: true},
	}})
	require.NoError(t, err)
	assert.Equal(t, "work_experience", key)
	assert.Equal(t, "Acme", gjson.GetBytes(raw, "0.organization").String())
	assert.Equal(t, "Engineer", gjson.GetBytes(raw, "0.job_title").String())
	assert.True(t, gjson.GetBytes(raw, "0.dates.is_current").Bool())

	key, raw, err = EncodeLegacySection(SectionPersonalInfo, PersonalInfo{Name: "Ada", LinkedIn: "https://linkedin.com/in/ada"})
	require.NoError(t, err)
	assert.Equal(t, "personal_info", key)
	assert.Equal(t, "https://linkedin.com/in/ada", gjson.GetBytes(raw, "linkedin_url").String())

	key, raw, err = EncodeLegacySection(SectionEducation, []Education{})
	require.NoError(t, err)
	assert.Equal(t, "education", key)
	assert.JSONEq(t, `[]`, string(raw))

	_, raw, err = EncodeLegacySection(SectionSummary, "")
	require.NoError(t, err)
	assert.JSONEq(t, `""`, string(raw))
}
