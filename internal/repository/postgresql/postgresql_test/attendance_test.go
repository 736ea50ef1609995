package postgresql_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/Nikul55640/HRM-System-sub001/internal/domain/attendance"
	"github.com/Nikul55640/HRM-System-sub001/internal/pkg/database"
	"github.com/Nikul55640/HRM-System-sub001/internal/repository/postgresql"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testDB *database.DB

// openTestDB connects lazily so the suite is skipped, not failed, when no
// test database is configured.
func openTestDB(t *testing.T) *database.DB {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping database tests")
	}
	if testDB == nil {
		var err error
		testDB, err = database.NewPostgreSQLDB(dsn)
		require.NoError(t, err, "failed to connect to test database")
	}
	return testDB
}

func truncateTables(t *testing.T, db *database.DB) {
	t.Helper()
	ctx := context.Background()
	tables := []string{
		"session_breaks", "attendance_sessions", "attendance_records",
		"correction_cases", "employees",
	}
	for _, table := range tables {
		_, err := db.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table))
		require.NoError(t, err)
	}
}

func createTestEmployee(t *testing.T, db *database.DB) string {
	t.Helper()
	id := uuid.Must(uuid.NewV7()).String()
	code := fmt.Sprintf("%04d-%04d", time.Now().Unix()%10000, time.Now().Nanosecond()%10000)
	_, err := db.Exec(context.Background(), `
		INSERT INTO employees (id, employee_code, full_name, role, active)
		VALUES ($1, $2, 'Test Employee', 'employee', TRUE)
	`, id, code)
	require.NoError(t, err)
	return id
}

func createTestRecord(t *testing.T, repo attendance.Repository, employeeID string, date time.Time) attendance.Record {
	t.Helper()
	rec, err := repo.UpsertRecord(context.Background(), attendance.Record{
		ID:         uuid.Must(uuid.NewV7()).String(),
		EmployeeID: employeeID,
		WorkDate:   date,
		Status:     attendance.StatusInProgress,
		Source:     attendance.SourceSelf,
	})
	require.NoError(t, err)
	return rec
}

func TestCreateSession_OpenSessionIndexRejectsSecond(t *testing.T) {
	db := openTestDB(t)
	truncateTables(t, db)
	ctx := context.Background()

	repo := postgresql.NewAttendanceRepository(db)
	employeeID := createTestEmployee(t, db)
	date := time.Date(2026, 1, 12, 0, 0, 0, 0, time.UTC)
	rec := createTestRecord(t, repo, employeeID, date)

	session := attendance.Session{
		ID:           uuid.Must(uuid.NewV7()).String(),
		RecordID:     rec.ID,
		EmployeeID:   employeeID,
		WorkDate:     date,
		CheckIn:      time.Now().UTC(),
		WorkLocation: attendance.LocationOffice,
		Status:       attendance.SessionActive,
	}
	_, err := repo.CreateSession(ctx, session)
	require.NoError(t, err)

	// The partial unique index turns the second insert into
	// ErrAlreadyClockedIn even without the service-level pre-check.
	session.ID = uuid.Must(uuid.NewV7()).String()
	_, err = repo.CreateSession(ctx, session)
	assert.ErrorIs(t, err, attendance.ErrAlreadyClockedIn)
}

func TestOpenBreak_OpenBreakIndexRejectsSecond(t *testing.T) {
	db := openTestDB(t)
	truncateTables(t, db)
	ctx := context.Background()

	repo := postgresql.NewAttendanceRepository(db)
	employeeID := createTestEmployee(t, db)
	date := time.Date(2026, 1, 12, 0, 0, 0, 0, time.UTC)
	rec := createTestRecord(t, repo, employeeID, date)

	session, err := repo.CreateSession(ctx, attendance.Session{
		ID:           uuid.Must(uuid.NewV7()).String(),
		RecordID:     rec.ID,
		EmployeeID:   employeeID,
		WorkDate:     date,
		CheckIn:      time.Now().UTC(),
		WorkLocation: attendance.LocationOffice,
		Status:       attendance.SessionActive,
	})
	require.NoError(t, err)

	_, err = repo.OpenBreak(ctx, attendance.Break{
		ID:        uuid.Must(uuid.NewV7()).String(),
		SessionID: session.ID,
		StartTime: time.Now().UTC(),
	})
	require.NoError(t, err)

	_, err = repo.OpenBreak(ctx, attendance.Break{
		ID:        uuid.Must(uuid.NewV7()).String(),
		SessionID: session.ID,
		StartTime: time.Now().UTC(),
	})
	assert.ErrorIs(t, err, attendance.ErrAlreadyOnBreak)

	// After closing, a new break may open.
	_, err = repo.CloseBreak(ctx, session.ID, time.Now().UTC())
	require.NoError(t, err)
	_, err = repo.OpenBreak(ctx, attendance.Break{
		ID:        uuid.Must(uuid.NewV7()).String(),
		SessionID: session.ID,
		StartTime: time.Now().UTC(),
	})
	assert.NoError(t, err)
}

func TestUpsertRecord_ReopensAbsentOnly(t *testing.T) {
	db := openTestDB(t)
	truncateTables(t, db)
	ctx := context.Background()

	repo := postgresql.NewAttendanceRepository(db)
	employeeID := createTestEmployee(t, db)
	date := time.Date(2026, 1, 12, 0, 0, 0, 0, time.UTC)
	rec := createTestRecord(t, repo, employeeID, date)

	// Finalize as absent, then punch: the record reopens.
	rec.Status = attendance.StatusAbsent
	require.NoError(t, repo.UpdateRecord(ctx, rec))

	reopened, err := repo.UpsertRecord(ctx, attendance.Record{
		ID:         uuid.Must(uuid.NewV7()).String(),
		EmployeeID: employeeID,
		WorkDate:   date,
		Status:     attendance.StatusInProgress,
		Source:     attendance.SourceSelf,
	})
	require.NoError(t, err)
	assert.Equal(t, rec.ID, reopened.ID)
	assert.Equal(t, attendance.StatusInProgress, reopened.Status)

	// A holiday record does not reopen.
	rec = reopened
	rec.Status = attendance.StatusHoliday
	require.NoError(t, repo.UpdateRecord(ctx, rec))

	kept, err := repo.UpsertRecord(ctx, attendance.Record{
		ID:         uuid.Must(uuid.NewV7()).String(),
		EmployeeID: employeeID,
		WorkDate:   date,
		Status:     attendance.StatusInProgress,
		Source:     attendance.SourceSelf,
	})
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusHoliday, kept.Status)
}

func TestWithTransaction_RollsBackOnError(t *testing.T) {
	db := openTestDB(t)
	truncateTables(t, db)
	ctx := context.Background()

	repo := postgresql.NewAttendanceRepository(db)
	employeeID := createTestEmployee(t, db)
	date := time.Date(2026, 1, 12, 0, 0, 0, 0, time.UTC)

	// Repository calls made through the callback's context join the
	// transaction, so the record insert is undone with it.
	abort := errors.New("mid-flight failure")
	err := postgresql.WithTransaction(ctx, db, func(ctx context.Context) error {
		if _, err := repo.UpsertRecord(ctx, attendance.Record{
			ID:         uuid.Must(uuid.NewV7()).String(),
			EmployeeID: employeeID,
			WorkDate:   date,
			Status:     attendance.StatusInProgress,
			Source:     attendance.SourceSelf,
		}); err != nil {
			return err
		}
		return abort
	})
	require.ErrorIs(t, err, abort)

	rec, err := repo.GetRecord(ctx, employeeID, date)
	require.NoError(t, err)
	assert.Nil(t, rec)

	// A clean callback commits.
	err = postgresql.WithTransaction(ctx, db, func(ctx context.Context) error {
		_, err := repo.UpsertRecord(ctx, attendance.Record{
			ID:         uuid.Must(uuid.NewV7()).String(),
			EmployeeID: employeeID,
			WorkDate:   date,
			Status:     attendance.StatusInProgress,
			Source:     attendance.SourceSelf,
		})
		return err
	})
	require.NoError(t, err)

	rec, err = repo.GetRecord(ctx, employeeID, date)
	require.NoError(t, err)
	assert.NotNil(t, rec)
}

func TestCorrectionOpen_Idempotent(t *testing.T) {
	db := openTestDB(t)
	truncateTables(t, db)
	ctx := context.Background()

	repo := postgresql.NewCorrectionRepository(db)
	employeeID := createTestEmployee(t, db)
	date := time.Date(2026, 1, 12, 0, 0, 0, 0, time.UTC)

	created, err := repo.Open(ctx, employeeID, date, "missed clock-out")
	require.NoError(t, err)
	assert.True(t, created)

	created, err = repo.Open(ctx, employeeID, date, "missed clock-out")
	require.NoError(t, err)
	assert.False(t, created)

	cases, err := repo.ListOpen(ctx)
	require.NoError(t, err)
	assert.Len(t, cases, 1)
}
