package attendance

import (
	"testing"
	"time"

	"github.com/Nikul55640/HRM-System-sub001/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustTime(t *testing.T, value string) time.Time {
	t.Helper()
	ts, err := time.Parse("2006-01-02 15:04", value)
	require.NoError(t, err)
	return ts
}

func timePtr(t time.Time) *time.Time {
	return &t
}

func TestStartSessionRequestValidate(t *testing.T) {
	t.Run("normalizes casing and whitespace", func(t *testing.T) {
		req := StartSessionRequest{WorkLocation: " Office "}
		require.NoError(t, req.Validate())
		assert.Equal(t, "office", req.WorkLocation)
	})

	t.Run("rejects unknown location", func(t *testing.T) {
		req := StartSessionRequest{WorkLocation: "moon"}
		err := req.Validate()
		require.Error(t, err)

		var errs validator.ValidationErrors
		require.ErrorAs(t, err, &errs)
		assert.Contains(t, errs.ToMap(), "work_location")
	})

	t.Run("client_site requires details", func(t *testing.T) {
		req := StartSessionRequest{WorkLocation: "client_site"}
		err := req.Validate()
		require.Error(t, err)

		var errs validator.ValidationErrors
		require.ErrorAs(t, err, &errs)
		assert.Contains(t, errs.ToMap(), "location_details")

		details := "Acme HQ"
		req = StartSessionRequest{WorkLocation: "client_site", LocationDetails: &details}
		assert.NoError(t, req.Validate())
	})
}

func TestRecordFilterValidate(t *testing.T) {
	t.Run("applies defaults", func(t *testing.T) {
		var f RecordFilter
		require.NoError(t, f.Validate())
		assert.Equal(t, 1, f.Page)
		assert.Equal(t, 20, f.Limit)
	})

	t.Run("caps limit", func(t *testing.T) {
		f := RecordFilter{Limit: 500}
		assert.Error(t, f.Validate())
	})

	t.Run("rejects bad status and dates", func(t *testing.T) {
		status := "sleeping"
		start := "01/01/2026"
		f := RecordFilter{Status: &status, StartDate: &start}
		err := f.Validate()
		require.Error(t, err)

		var errs validator.ValidationErrors
		require.ErrorAs(t, err, &errs)
		assert.Contains(t, errs.ToMap(), "status")
		assert.Contains(t, errs.ToMap(), "start_date")
	})
}

func TestSummaryRequestValidate(t *testing.T) {
	req := SummaryRequest{EmployeeID: "e1", Month: "2026-01"}
	assert.NoError(t, req.Validate())

	req = SummaryRequest{EmployeeID: "", Month: "2026/01"}
	err := req.Validate()
	require.Error(t, err)

	var errs validator.ValidationErrors
	require.ErrorAs(t, err, &errs)
	assert.Len(t, errs.ToMap(), 2)
}

func TestRecordHelpers(t *testing.T) {
	rec := Record{
		Sessions: []Session{
			{CheckIn: mustTime(t, "2026-01-12 13:00"), Status: SessionCompleted, CheckOut: timePtr(mustTime(t, "2026-01-12 18:00"))},
			{CheckIn: mustTime(t, "2026-01-12 09:00"), Status: SessionCompleted, CheckOut: timePtr(mustTime(t, "2026-01-12 12:00"))},
		},
	}

	first := rec.EarliestCheckIn()
	require.NotNil(t, first)
	assert.Equal(t, 9, first.Hour())

	last := rec.LatestCheckOut()
	require.NotNil(t, last)
	assert.Equal(t, 18, last.Hour())

	assert.False(t, rec.HasOpenSession())
	rec.Sessions[0].Status = SessionOnBreak
	assert.True(t, rec.HasOpenSession())
}
