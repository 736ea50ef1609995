package finalization

import (
	"context"
	"testing"
	"time"

	"github.com/Nikul55640/HRM-System-sub001/internal/domain/attendance"
	"github.com/Nikul55640/HRM-System-sub001/internal/domain/audit"
	"github.com/Nikul55640/HRM-System-sub001/internal/domain/calendar"
	"github.com/Nikul55640/HRM-System-sub001/internal/domain/correction"
	"github.com/Nikul55640/HRM-System-sub001/internal/domain/employee"
	"github.com/Nikul55640/HRM-System-sub001/internal/domain/shift"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---- in-memory fakes ----

type fakeAttendanceRepo struct {
	// keyed by employeeID + "|" + date
	records map[string]attendance.Record
}

func newFakeAttendanceRepo() *fakeAttendanceRepo {
	return &fakeAttendanceRepo{records: make(map[string]attendance.Record)}
}

func recKey(employeeID string, date time.Time) string {
	return employeeID + "|" + date.Format("2006-01-02")
}

func (f *fakeAttendanceRepo) UpsertRecord(ctx context.Context, rec attendance.Record) (attendance.Record, error) {
	f.records[recKey(rec.EmployeeID, rec.WorkDate)] = rec
	return rec, nil
}

func (f *fakeAttendanceRepo) GetRecord(ctx context.Context, employeeID string, date time.Time) (*attendance.Record, error) {
	if rec, ok := f.records[recKey(employeeID, date)]; ok {
		return &rec, nil
	}
	return nil, nil
}

func (f *fakeAttendanceRepo) UpdateRecord(ctx context.Context, rec attendance.Record) error {
	key := recKey(rec.EmployeeID, rec.WorkDate)
	existing, ok := f.records[key]
	if !ok {
		return attendance.ErrRecordNotFound
	}
	if existing.Status.Terminal() && existing.Status != rec.Status {
		return attendance.ErrRecordNotFound
	}
	f.records[key] = rec
	return nil
}

func (f *fakeAttendanceRepo) CreateRecords(ctx context.Context, recs []attendance.Record) (int, error) {
	created := 0
	for _, rec := range recs {
		key := recKey(rec.EmployeeID, rec.WorkDate)
		if _, ok := f.records[key]; ok {
			continue
		}
		f.records[key] = rec
		created++
	}
	return created, nil
}

func (f *fakeAttendanceRepo) ListRecordsForDate(ctx context.Context, date time.Time) (map[string]attendance.Record, error) {
	result := make(map[string]attendance.Record)
	for _, rec := range f.records {
		if rec.WorkDate.Equal(date) {
			result[rec.EmployeeID] = rec
		}
	}
	return result, nil
}

func (f *fakeAttendanceRepo) CreateSession(ctx context.Context, s attendance.Session) (attendance.Session, error) {
	panic("not used")
}
func (f *fakeAttendanceRepo) GetOpenSession(ctx context.Context, employeeID string) (*attendance.Session, error) {
	panic("not used")
}
func (f *fakeAttendanceRepo) UpdateSession(ctx context.Context, s attendance.Session) error {
	panic("not used")
}
func (f *fakeAttendanceRepo) OpenBreak(ctx context.Context, b attendance.Break) (attendance.Break, error) {
	panic("not used")
}
func (f *fakeAttendanceRepo) CloseBreak(ctx context.Context, sessionID string, end time.Time) (attendance.Break, error) {
	panic("not used")
}
func (f *fakeAttendanceRepo) ListOpenSessions(ctx context.Context) ([]attendance.Session, error) {
	panic("not used")
}
func (f *fakeAttendanceRepo) List(ctx context.Context, filter attendance.RecordFilter) ([]attendance.Record, int64, error) {
	panic("not used")
}
func (f *fakeAttendanceRepo) MonthlySummary(ctx context.Context, employeeID string, from, to time.Time) (attendance.MonthlySummaryResponse, error) {
	panic("not used")
}

type fakeEmployeeListRepo struct {
	ids []string
}

func (f *fakeEmployeeListRepo) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	panic("not used")
}

func (f *fakeEmployeeListRepo) GetByCode(ctx context.Context, code string) (employee.Employee, error) {
	panic("not used")
}

func (f *fakeEmployeeListRepo) ListActiveIDs(ctx context.Context) ([]string, error) {
	return f.ids, nil
}

type fakeShiftRepo struct {
	configs map[string]*shift.Config
}

func (f *fakeShiftRepo) GetActiveForEmployee(ctx context.Context, employeeID string, date time.Time) (*shift.Config, error) {
	return f.configs[employeeID], nil
}

type fakeCalendarRepo struct {
	holidays map[string]*calendar.Holiday
}

func (f *fakeCalendarRepo) GetHoliday(ctx context.Context, date time.Time) (*calendar.Holiday, error) {
	return f.holidays[date.Format("2006-01-02")], nil
}

func (f *fakeCalendarRepo) IsWorkingDay(ctx context.Context, date time.Time) (bool, error) {
	wd := date.Weekday()
	return wd != time.Saturday && wd != time.Sunday, nil
}

type fakeLeaveRepo struct {
	onLeave map[string]bool // employeeID|date
}

func (f *fakeLeaveRepo) IsOnApprovedLeave(ctx context.Context, employeeID string, date time.Time) (bool, error) {
	return f.onLeave[recKey(employeeID, date)], nil
}

type fakeCorrectionRepo struct {
	open  map[string]bool // employeeID|date
	opens int
}

func newFakeCorrectionRepo() *fakeCorrectionRepo {
	return &fakeCorrectionRepo{open: make(map[string]bool)}
}

func (f *fakeCorrectionRepo) Open(ctx context.Context, employeeID string, date time.Time, reason string) (bool, error) {
	key := recKey(employeeID, date)
	if f.open[key] {
		return false, nil
	}
	f.open[key] = true
	f.opens++
	return true, nil
}

func (f *fakeCorrectionRepo) ListOpen(ctx context.Context) ([]correction.Case, error) {
	return nil, nil
}

type fakeAuditor struct {
	entries []audit.Entry
}

func (f *fakeAuditor) Record(ctx context.Context, entry audit.Entry) error {
	f.entries = append(f.entries, entry)
	return nil
}

// ---- fixtures ----

type jobFixture struct {
	job         *Job
	attendance  *fakeAttendanceRepo
	shifts      *fakeShiftRepo
	calendar    *fakeCalendarRepo
	leave       *fakeLeaveRepo
	corrections *fakeCorrectionRepo
	auditor     *fakeAuditor
}

func newJobFixture(t *testing.T, employeeIDs []string, now time.Time) *jobFixture {
	t.Helper()

	f := &jobFixture{
		attendance:  newFakeAttendanceRepo(),
		shifts:      &fakeShiftRepo{configs: make(map[string]*shift.Config)},
		calendar:    &fakeCalendarRepo{holidays: make(map[string]*calendar.Holiday)},
		leave:       &fakeLeaveRepo{onLeave: make(map[string]bool)},
		corrections: newFakeCorrectionRepo(),
		auditor:     &fakeAuditor{},
	}
	f.job = NewJob(
		f.attendance,
		&fakeEmployeeListRepo{ids: employeeIDs},
		f.shifts,
		f.calendar,
		f.leave,
		f.corrections,
		f.auditor,
		time.UTC,
		30*time.Minute,
		0,
	)
	f.job.now = func() time.Time { return now }
	return f
}

func dayShift(t *testing.T) *shift.Config {
	t.Helper()
	start, err := time.Parse("15:04", "09:00")
	require.NoError(t, err)
	end, err := time.Parse("15:04", "18:00")
	require.NoError(t, err)
	return &shift.Config{
		StartTime:          start,
		EndTime:            end,
		GracePeriodMinutes: 10,
		FullDayHours:       8,
		HalfDayHours:       4,
	}
}

func testDate(t *testing.T, value string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", value)
	require.NoError(t, err)
	return d
}

func testTime(t *testing.T, value string) time.Time {
	t.Helper()
	ts, err := time.Parse("2006-01-02 15:04", value)
	require.NoError(t, err)
	return ts
}

// ---- tests ----

func TestRunForDate_HolidayCreatesRecordsForAll(t *testing.T) {
	// Republic Day falls on a working Monday; five employees, one of whom
	// already carries a record for the date.
	date := testDate(t, "2026-01-26")
	employees := []string{"e1", "e2", "e3", "e4", "e5"}
	f := newJobFixture(t, employees, testTime(t, "2026-01-27 02:00"))
	f.calendar.holidays["2026-01-26"] = &calendar.Holiday{ID: "h1", Date: date, Name: "Republic Day"}

	_, err := f.attendance.CreateRecords(context.Background(), []attendance.Record{{
		ID: "r-existing", EmployeeID: "e3", WorkDate: date, Status: attendance.StatusPresent,
	}})
	require.NoError(t, err)

	summary, err := f.job.RunForDate(context.Background(), date)
	require.NoError(t, err)

	assert.Equal(t, "holiday", summary.DayType)
	assert.Equal(t, 4, summary.Created)
	assert.Equal(t, 1, summary.Skipped)
	assert.Equal(t, 0, summary.Errors)

	rec, err := f.attendance.GetRecord(context.Background(), "e1", date)
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, attendance.StatusHoliday, rec.Status)
	require.NotNil(t, rec.StatusReason)
	assert.Equal(t, "holiday: Republic Day", *rec.StatusReason)
	assert.Equal(t, attendance.SourceSystem, rec.Source)

	// The employee who already had a record keeps it.
	rec, err = f.attendance.GetRecord(context.Background(), "e3", date)
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusPresent, rec.Status)
}

func TestRunForDate_HolidayWinsOverWeekend(t *testing.T) {
	// A holiday landing on a Saturday is classified holiday, not weekend.
	date := testDate(t, "2026-01-31")
	require.Equal(t, time.Saturday, date.Weekday())

	f := newJobFixture(t, []string{"e1"}, testTime(t, "2026-02-01 02:00"))
	f.calendar.holidays["2026-01-31"] = &calendar.Holiday{ID: "h2", Date: date, Name: "Founders Day"}

	summary, err := f.job.RunForDate(context.Background(), date)
	require.NoError(t, err)

	assert.Equal(t, "holiday", summary.DayType)
	rec, err := f.attendance.GetRecord(context.Background(), "e1", date)
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusHoliday, rec.Status)
}

func TestRunForDate_WeekendSynthesis(t *testing.T) {
	date := testDate(t, "2026-01-25")
	require.Equal(t, time.Sunday, date.Weekday())

	f := newJobFixture(t, []string{"e1", "e2"}, testTime(t, "2026-01-26 02:00"))

	summary, err := f.job.RunForDate(context.Background(), date)
	require.NoError(t, err)

	assert.Equal(t, "weekend", summary.DayType)
	assert.Equal(t, 2, summary.Created)

	rec, err := f.attendance.GetRecord(context.Background(), "e2", date)
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusWeekend, rec.Status)
}

func TestRunForDate_Idempotent(t *testing.T) {
	date := testDate(t, "2026-01-25")
	f := newJobFixture(t, []string{"e1", "e2"}, testTime(t, "2026-01-26 02:00"))

	first, err := f.job.RunForDate(context.Background(), date)
	require.NoError(t, err)
	second, err := f.job.RunForDate(context.Background(), date)
	require.NoError(t, err)

	assert.Equal(t, 2, first.Created)
	assert.Equal(t, 0, second.Created)
	assert.Equal(t, 2, second.Skipped)
}

func TestRunForDate_WorkingDayFinalizesOpenRecord(t *testing.T) {
	date := testDate(t, "2026-01-12") // Monday
	f := newJobFixture(t, []string{"e1"}, testTime(t, "2026-01-12 19:00"))
	f.shifts.configs["e1"] = dayShift(t)

	checkOut := testTime(t, "2026-01-12 18:00")
	worked := 480
	f.attendance.records[recKey("e1", date)] = attendance.Record{
		ID: "r1", EmployeeID: "e1", WorkDate: date, Status: attendance.StatusInProgress,
		Sessions: []attendance.Session{{
			CheckIn: testTime(t, "2026-01-12 09:00"), CheckOut: &checkOut,
			WorkedMinutes: &worked, Status: attendance.SessionCompleted,
		}},
	}

	summary, err := f.job.RunForDate(context.Background(), date)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Processed)
	rec, err := f.attendance.GetRecord(context.Background(), "e1", date)
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusPresent, rec.Status)
	assert.Equal(t, 480, rec.WorkedMinutes)
}

func TestRunForDate_OpenSessionOpensCorrectionCaseOnce(t *testing.T) {
	date := testDate(t, "2026-01-12")
	f := newJobFixture(t, []string{"e1"}, testTime(t, "2026-01-12 19:00"))
	f.shifts.configs["e1"] = dayShift(t)

	f.attendance.records[recKey("e1", date)] = attendance.Record{
		ID: "r1", EmployeeID: "e1", WorkDate: date, Status: attendance.StatusInProgress,
		Sessions: []attendance.Session{{
			CheckIn: testTime(t, "2026-01-12 09:00"), Status: attendance.SessionActive,
		}},
	}

	_, err := f.job.RunForDate(context.Background(), date)
	require.NoError(t, err)

	rec, err := f.attendance.GetRecord(context.Background(), "e1", date)
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusPendingCorrection, rec.Status)
	assert.True(t, rec.CorrectionRequested)
	assert.Equal(t, 1, f.corrections.opens)

	// Second run: record is terminal, no second case.
	_, err = f.job.RunForDate(context.Background(), date)
	require.NoError(t, err)
	assert.Equal(t, 1, f.corrections.opens)
}

func TestRunForDate_NoShowMarkedAbsentAfterBuffer(t *testing.T) {
	date := testDate(t, "2026-01-12")
	// Shift ends 18:00, buffer 30m; 18:45 is past the cutoff.
	f := newJobFixture(t, []string{"e1"}, testTime(t, "2026-01-12 18:45"))
	f.shifts.configs["e1"] = dayShift(t)

	summary, err := f.job.RunForDate(context.Background(), date)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Created)
	rec, err := f.attendance.GetRecord(context.Background(), "e1", date)
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusAbsent, rec.Status)
	require.NotNil(t, rec.StatusReason)
	assert.Equal(t, "no clock-in recorded", *rec.StatusReason)
}

func TestRunForDate_NoShowSkippedWithinBuffer(t *testing.T) {
	date := testDate(t, "2026-01-12")
	// 18:15 is inside the 30 minute buffer after an 18:00 shift end.
	f := newJobFixture(t, []string{"e1"}, testTime(t, "2026-01-12 18:15"))
	f.shifts.configs["e1"] = dayShift(t)

	summary, err := f.job.RunForDate(context.Background(), date)
	require.NoError(t, err)

	assert.Equal(t, 0, summary.Created)
	assert.Equal(t, 1, summary.Skipped)
	rec, err := f.attendance.GetRecord(context.Background(), "e1", date)
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestRunForDate_ApprovedLeaveSuppressesAbsence(t *testing.T) {
	date := testDate(t, "2026-01-12")
	f := newJobFixture(t, []string{"e1"}, testTime(t, "2026-01-12 19:00"))
	f.shifts.configs["e1"] = dayShift(t)
	f.leave.onLeave[recKey("e1", date)] = true

	summary, err := f.job.RunForDate(context.Background(), date)
	require.NoError(t, err)

	assert.Equal(t, 0, summary.Created)
	assert.Equal(t, 1, summary.Skipped)
}

func TestRunForDate_ApprovedLeaveSkipsOpenRecord(t *testing.T) {
	// A record left in progress on a day later covered by approved leave is
	// skipped, not finalized; the leave module owns the day.
	date := testDate(t, "2026-01-12")
	f := newJobFixture(t, []string{"e1"}, testTime(t, "2026-01-12 19:00"))
	f.shifts.configs["e1"] = dayShift(t)
	f.leave.onLeave[recKey("e1", date)] = true

	f.attendance.records[recKey("e1", date)] = attendance.Record{
		ID: "r1", EmployeeID: "e1", WorkDate: date, Status: attendance.StatusInProgress,
		Sessions: []attendance.Session{{
			CheckIn: testTime(t, "2026-01-12 09:00"), Status: attendance.SessionActive,
		}},
	}

	summary, err := f.job.RunForDate(context.Background(), date)
	require.NoError(t, err)

	assert.Equal(t, 0, summary.Processed)
	assert.Equal(t, 1, summary.Skipped)
	rec, err := f.attendance.GetRecord(context.Background(), "e1", date)
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusInProgress, rec.Status)
	assert.Equal(t, 0, f.corrections.opens)
}

func TestRunForDate_MissingShiftPastDateAbsent(t *testing.T) {
	date := testDate(t, "2026-01-12")
	f := newJobFixture(t, []string{"e1"}, testTime(t, "2026-01-13 02:00"))
	// No shift configured for e1.

	summary, err := f.job.RunForDate(context.Background(), date)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Created)
	rec, err := f.attendance.GetRecord(context.Background(), "e1", date)
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusAbsent, rec.Status)
	require.NotNil(t, rec.StatusReason)
	assert.Equal(t, "no shift assignment for this date", *rec.StatusReason)
}

func TestRunForDate_MissingShiftTodaySkipped(t *testing.T) {
	date := testDate(t, "2026-01-12")
	f := newJobFixture(t, []string{"e1"}, testTime(t, "2026-01-12 12:00"))

	summary, err := f.job.RunForDate(context.Background(), date)
	require.NoError(t, err)

	assert.Equal(t, 0, summary.Created)
	assert.Equal(t, 1, summary.Skipped)
}

func TestRunRange_CoversEveryDate(t *testing.T) {
	f := newJobFixture(t, []string{"e1"}, testTime(t, "2026-02-01 02:00"))

	summaries, err := f.job.RunRange(context.Background(),
		testDate(t, "2026-01-24"), testDate(t, "2026-01-26"))
	require.NoError(t, err)

	require.Len(t, summaries, 3)
	assert.Equal(t, "2026-01-24", summaries[0].Date) // Saturday
	assert.Equal(t, "weekend", summaries[0].DayType)
	assert.Equal(t, "2026-01-25", summaries[1].Date) // Sunday
	assert.Equal(t, "2026-01-26", summaries[2].Date) // Monday, no shift: absent
	assert.Equal(t, "working_day", summaries[2].DayType)
}

func TestRunRange_RejectsInvertedRange(t *testing.T) {
	f := newJobFixture(t, []string{"e1"}, testTime(t, "2026-02-01 02:00"))

	_, err := f.job.RunRange(context.Background(),
		testDate(t, "2026-01-26"), testDate(t, "2026-01-24"))
	assert.Error(t, err)
}

func TestRunForDate_WritesAuditSummary(t *testing.T) {
	date := testDate(t, "2026-01-25")
	f := newJobFixture(t, []string{"e1"}, testTime(t, "2026-01-26 02:00"))

	_, err := f.job.RunForDate(context.Background(), date)
	require.NoError(t, err)

	require.NotEmpty(t, f.auditor.entries)
	entry := f.auditor.entries[len(f.auditor.entries)-1]
	assert.Equal(t, "attendance.finalize_date", entry.Action)
	assert.Equal(t, "system", entry.Actor)
	assert.Equal(t, "2026-01-25", entry.Meta["date"])
}
