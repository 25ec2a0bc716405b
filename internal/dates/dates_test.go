package dates

import (
	"testing"
	"time"

	"github.com/jonathan/job-assistant/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var today = time.Date(2025, time.May, 10, 15, 30, 0, 0, time.UTC)

func TestCheck_CurrentEntryDisablesEnd(t *testing.T) {
	for _, completion := range []string{"", "2020-01-01", "2099-01-01", "garbage"} {
		d := types.Dates{StartDate: "2021-01-01", CompletionDate: completion, IsCurrent: true}
		r := Check(d, FieldEnd, today)
		assert.Equal(t, StatusDisabled, r.Status, completion)
		assert.Empty(t, ErrorMessage(d, FieldEnd, today), completion)
	}
}

func TestCheck_FutureStart(t *testing.T) {
	d := types.Dates{StartDate: "2030-01-01"}
	r := Check(d, FieldStart, today)
	assert.Equal(t, StatusInvalid, r.Status)
	assert.Contains(t, r.Message, "future")
}

func TestCheck_FutureCompletion(t *testing.T) {
	d := types.Dates{StartDate: "2020-01-01", CompletionDate: "2030-01-01"}
	assert.Equal(t, MsgEndFuture, ErrorMessage(d, FieldEnd, today))
	assert.Equal(t, StatusValid, StatusOf(d, FieldStart, today))
}

func TestCheck_RangeOrderReportedOnBothFields(t *testing.T) {
	d := types.Dates{StartDate: "2023-06-01", CompletionDate: "2023-01-01"}
	assert.Equal(t, MsgStartOrder, ErrorMessage(d, FieldStart, today))
	assert.Equal(t, MsgEndOrder, ErrorMessage(d, FieldEnd, today))
}

func TestCheck_Required(t *testing.T) {
	assert.Equal(t, MsgStartRequired, ErrorMessage(types.Dates{}, FieldStart, today))
	assert.Equal(t, MsgEndRequired, ErrorMessage(types.Dates{}, FieldEnd, today))

	// start stays required for current entries
	assert.Equal(t, MsgStartRequired, ErrorMessage(types.Dates{IsCurrent: true}, FieldStart, today))
}

func TestCheck_Unparseable(t *testing.T) {
	d := types.Dates{StartDate: "last year", CompletionDate: "2023-13-45"}
	assert.Equal(t, MsgStartInvalid, ErrorMessage(d, FieldStart, today))
	assert.Equal(t, MsgEndInvalid, ErrorMessage(d, FieldEnd, today))
}

func TestCheck_Valid(t *testing.T) {
	d := types.Dates{StartDate: "2021-01-01", CompletionDate: "2021-06-01"}
	assert.Equal(t, Result{Status: StatusValid}, Check(d, FieldStart, today))
	assert.Equal(t, Result{Status: StatusValid}, Check(d, FieldEnd, today))
	assert.True(t, IsValid(d, today))
}

func TestCheck_TodayIsNotFuture(t *testing.T) {
	d := types.Dates{StartDate: "2025-05-10", CompletionDate: "2025-05-10"}
	assert.True(t, IsValid(d, today))
}

func TestCheck_MarkingCurrentClearsCompletionRequirement(t *testing.T) {
	d := types.Dates{StartDate: "2021-01-01", CompletionDate: "2021-06-01"}
	require.Equal(t, StatusValid, StatusOf(d, FieldEnd, today))

	d.IsCurrent = true
	d.CompletionDate = ""
	assert.Equal(t, StatusDisabled, StatusOf(d, FieldEnd, today))
	assert.Empty(t, ErrorMessage(d, FieldEnd, today))
	assert.True(t, IsValid(d, today))
}

func TestCheck_CurrentEntrySkipsOrderOnStart(t *testing.T) {
	d := types.Dates{StartDate: "2023-06-01", CompletionDate: "2023-01-01", IsCurrent: true}
	assert.Equal(t, StatusValid, StatusOf(d, FieldStart, today))
}

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
		ok   bool
	}{
		{"2022-03-15", time.Date(2022, 3, 15, 0, 0, 0, 0, time.UTC), true},
		{"2022-03", time.Date(2022, 3, 1, 0, 0, 0, 0, time.UTC), true},
		{"2022-03-15T10:00:00Z", time.Date(2022, 3, 15, 0, 0, 0, 0, time.UTC), true},
		{" 2022-03-15 ", time.Date(2022, 3, 15, 0, 0, 0, 0, time.UTC), true},
		{"03/15/2022", time.Time{}, false},
		{"", time.Time{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := Parse(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.True(t, tt.want.Equal(got))
		})
	}
}

func TestToday_UsesCalendarDayOfLocation(t *testing.T) {
	loc := time.FixedZone("UTC-8", -8*3600)
	now := time.Date(2025, 1, 1, 23, 0, 0, 0, loc)
	assert.Equal(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), Today(now))
}

func TestInvalidFields(t *testing.T) {
	p := types.NewProfile("user_1")
	p.Education = []types.Education{
		{SchoolName: "State U", Dates: types.Dates{StartDate: "2015-09-01", CompletionDate: "2019-06-01"}},
	}
	p.WorkExperience = []types.WorkExperience{
		{Company: "Acme", Dates: types.Dates{StartDate: "2023-06-01", CompletionDate: "2023-01-01"}},
		{Company: "Globex", Dates: types.Dates{StartDate: "2024-01-01", IsCurrent: true}},
	}
	p.Projects = []types.Project{
		{Name: "Side", Dates: types.Dates{StartDate: "2030-01-01", IsCurrent: true}},
	}

	got := InvalidFields(p, today)
	require.Len(t, got, 3)

	assert.Equal(t, types.SectionWorkExperience, got[0].Section)
	assert.Equal(t, 0, got[0].Index)
	assert.Equal(t, "Acme", got[0].EntryName)
	assert.Equal(t, FieldStart, got[0].Field)
	assert.Equal(t, "Start Date", got[0].FieldLabel)
	assert.Equal(t, MsgStartOrder, got[0].Error)

	assert.Equal(t, FieldEnd, got[1].Field)
	assert.Equal(t, MsgEndOrder, got[1].Error)

	assert.Equal(t, types.SectionProjects, got[2].Section)
	assert.Equal(t, MsgStartFuture, got[2].Error)

	assert.True(t, HasInvalidDates(p, today))
}

func TestHasInvalidDates_CleanProfile(t *testing.T) {
	p := types.NewProfile("user_1")
	p.WorkExperience = []types.WorkExperience{
		{Company: "Acme", Dates: types.Dates{StartDate: "2021-01-01", IsCurrent: true}},
	}
	assert.False(t, HasInvalidDates(p, today))
	assert.Empty(t, InvalidFields(p, today))
	assert.False(t, HasInvalidDates(nil, today))
}
