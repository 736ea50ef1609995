package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsEmpty(t *testing.T) {
	assert.True(t, IsEmpty(""))
	assert.True(t, IsEmpty("   "))
	assert.False(t, IsEmpty("x"))
}

func TestIsValidUUID(t *testing.T) {
	assert.True(t, IsValidUUID("0194fdc2-fa2f-7fcc-8f62-1d7e839cdc8f"))
	// Version 4, not 7.
	assert.False(t, IsValidUUID("7c9e6679-7425-40de-944b-e07fc1f90ae7"))
	assert.False(t, IsValidUUID("not-a-uuid"))
	assert.False(t, IsValidUUID(""))
}

func TestIsValidDate(t *testing.T) {
	date, ok := IsValidDate("2026-01-26")
	assert.True(t, ok)
	assert.Equal(t, 2026, date.Year())

	_, ok = IsValidDate("26-01-2026")
	assert.False(t, ok)
	_, ok = IsValidDate("2026-13-01")
	assert.False(t, ok)
}

func TestIsInSlice(t *testing.T) {
	values := []string{"office", "remote", "client_site"}
	assert.True(t, IsInSlice("remote", values))
	assert.False(t, IsInSlice("moon", values))
}

func TestIsValidEmployeeCode(t *testing.T) {
	assert.True(t, IsValidEmployeeCode("2024-0042"))
	assert.False(t, IsValidEmployeeCode("20240042"))
	assert.False(t, IsValidEmployeeCode("2024-042"))
	assert.False(t, IsValidEmployeeCode("abcd-efgh"))
}

func TestIsValidPIN(t *testing.T) {
	assert.True(t, IsValidPIN("1234"))
	assert.True(t, IsValidPIN("123456"))
	assert.False(t, IsValidPIN("123"))
	assert.False(t, IsValidPIN("1234567"))
	assert.False(t, IsValidPIN("12ab"))
}

func TestIsValidMonth(t *testing.T) {
	month, ok := IsValidMonth("2026-01")
	assert.True(t, ok)
	assert.Equal(t, 1, int(month.Month()))

	_, ok = IsValidMonth("2026-1")
	assert.False(t, ok)
	_, ok = IsValidMonth("January 2026")
	assert.False(t, ok)
}

func TestValidationErrorsToMap(t *testing.T) {
	errs := ValidationErrors{
		{Field: "pin", Message: "pin must be 4-6 digits"},
		{Field: "employee_code", Message: "employee_code must be in NNNN-NNNN format"},
	}

	m := errs.ToMap()
	assert.Len(t, m, 2)
	assert.Equal(t, "pin must be 4-6 digits", m["pin"])
	assert.Contains(t, errs.Error(), "pin:")
}
