package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Nikul55640/HRM-System-sub001/internal/domain/attendance"
	"github.com/Nikul55640/HRM-System-sub001/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type attendanceRepository struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.Repository {
	return &attendanceRepository{db: db}
}

const recordColumns = `id, employee_id, work_date, worked_minutes, break_minutes,
	   late_minutes, early_exit_minutes, overtime_minutes, status, status_reason,
	   correction_requested, source, created_by, updated_by, created_at, updated_at`

func scanRecord(row pgx.Row, rec *attendance.Record) error {
	return row.Scan(
		&rec.ID, &rec.EmployeeID, &rec.WorkDate, &rec.WorkedMinutes, &rec.BreakMinutes,
		&rec.LateMinutes, &rec.EarlyExitMinutes, &rec.OvertimeMinutes, &rec.Status, &rec.StatusReason,
		&rec.CorrectionRequested, &rec.Source, &rec.CreatedBy, &rec.UpdatedBy, &rec.CreatedAt, &rec.UpdatedAt,
	)
}

// UpsertRecord implements attendance.Repository.
func (a *attendanceRepository) UpsertRecord(ctx context.Context, rec attendance.Record) (attendance.Record, error) {
	q := GetQuerier(ctx, a.db)

	// A later clock-in on a day already finalized as absent reopens it; any
	// other terminal status is returned untouched.
	query := `
		INSERT INTO attendance_records (id, employee_id, work_date, status, source, created_by, updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $6)
		ON CONFLICT (employee_id, work_date) DO UPDATE SET
			status = CASE
				WHEN attendance_records.status IN ('in_progress', 'absent') THEN 'in_progress'
				ELSE attendance_records.status
			END,
			status_reason = CASE
				WHEN attendance_records.status IN ('in_progress', 'absent') THEN NULL
				ELSE attendance_records.status_reason
			END,
			updated_by = EXCLUDED.updated_by,
			updated_at = now()
		RETURNING ` + recordColumns

	var out attendance.Record
	err := scanRecord(q.QueryRow(ctx, query,
		rec.ID, rec.EmployeeID, rec.WorkDate, rec.Status, rec.Source, rec.CreatedBy,
	), &out)
	if err != nil {
		return attendance.Record{}, fmt.Errorf("failed to upsert attendance record: %w", err)
	}

	return out, nil
}

// GetRecord implements attendance.Repository.
func (a *attendanceRepository) GetRecord(ctx context.Context, employeeID string, date time.Time) (*attendance.Record, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT ` + recordColumns + `
		FROM attendance_records
		WHERE employee_id = $1 AND work_date = $2
	`

	var rec attendance.Record
	err := scanRecord(q.QueryRow(ctx, query, employeeID, date), &rec)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get attendance record: %w", err)
	}

	if err := a.loadSessions(ctx, q, map[string]*attendance.Record{rec.ID: &rec}); err != nil {
		return nil, err
	}

	return &rec, nil
}

// UpdateRecord implements attendance.Repository.
func (a *attendanceRepository) UpdateRecord(ctx context.Context, rec attendance.Record) error {
	q := GetQuerier(ctx, a.db)

	// The status guard keeps a concurrent finalization from being overwritten:
	// only in_progress rows, or rows already carrying the same status, accept
	// the write.
	query := `
		UPDATE attendance_records
		SET worked_minutes = $1,
			break_minutes = $2,
			late_minutes = $3,
			early_exit_minutes = $4,
			overtime_minutes = $5,
			status = $6,
			status_reason = $7,
			correction_requested = $8,
			updated_by = $9,
			updated_at = now()
		WHERE id = $10
		  AND (status = 'in_progress' OR status = $6)
	`

	tag, err := q.Exec(ctx, query,
		rec.WorkedMinutes, rec.BreakMinutes, rec.LateMinutes, rec.EarlyExitMinutes,
		rec.OvertimeMinutes, rec.Status, rec.StatusReason, rec.CorrectionRequested,
		rec.UpdatedBy, rec.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update attendance record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrRecordNotFound
	}

	return nil
}

// CreateRecords implements attendance.Repository.
func (a *attendanceRepository) CreateRecords(ctx context.Context, recs []attendance.Record) (int, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		INSERT INTO attendance_records (id, employee_id, work_date, status, status_reason, source)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (employee_id, work_date) DO NOTHING
	`

	created := 0
	for i := range recs {
		rec := recs[i]
		tag, err := q.Exec(ctx, query,
			rec.ID, rec.EmployeeID, rec.WorkDate, rec.Status, rec.StatusReason, rec.Source,
		)
		if err != nil {
			return created, fmt.Errorf("failed to create attendance record for employee %s: %w", rec.EmployeeID, err)
		}
		created += int(tag.RowsAffected())
	}

	return created, nil
}

// ListRecordsForDate implements attendance.Repository.
func (a *attendanceRepository) ListRecordsForDate(ctx context.Context, date time.Time) (map[string]attendance.Record, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT ` + recordColumns + `
		FROM attendance_records
		WHERE work_date = $1
	`

	rows, err := q.Query(ctx, query, date)
	if err != nil {
		return nil, fmt.Errorf("failed to list records for date: %w", err)
	}
	defer rows.Close()

	byID := make(map[string]*attendance.Record)
	for rows.Next() {
		var rec attendance.Record
		if err := scanRecord(rows, &rec); err != nil {
			return nil, fmt.Errorf("failed to scan attendance record: %w", err)
		}
		byID[rec.ID] = &rec
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate attendance records: %w", err)
	}

	if err := a.loadSessions(ctx, q, byID); err != nil {
		return nil, err
	}

	result := make(map[string]attendance.Record, len(byID))
	for _, rec := range byID {
		result[rec.EmployeeID] = *rec
	}
	return result, nil
}

const sessionColumns = `id, record_id, employee_id, work_date, check_in, check_out,
	   work_location, location_details, total_break_minutes, worked_minutes, status,
	   created_at, updated_at`

// loadSessions attaches sessions (breaks included) to the given records.
func (a *attendanceRepository) loadSessions(ctx context.Context, q database.Querier, records map[string]*attendance.Record) error {
	if len(records) == 0 {
		return nil
	}

	recordIDs := make([]string, 0, len(records))
	for id := range records {
		recordIDs = append(recordIDs, id)
	}

	query := `
		SELECT ` + sessionColumns + `
		FROM attendance_sessions
		WHERE record_id = ANY($1)
		ORDER BY check_in
	`

	rows, err := q.Query(ctx, query, recordIDs)
	if err != nil {
		return fmt.Errorf("failed to load sessions: %w", err)
	}
	defer rows.Close()

	sessionsByID := make(map[string]*attendance.Session)
	var order []string
	for rows.Next() {
		var s attendance.Session
		err := rows.Scan(
			&s.ID, &s.RecordID, &s.EmployeeID, &s.WorkDate, &s.CheckIn, &s.CheckOut,
			&s.WorkLocation, &s.LocationDetails, &s.TotalBreakMinutes, &s.WorkedMinutes, &s.Status,
			&s.CreatedAt, &s.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to scan session: %w", err)
		}
		sessionsByID[s.ID] = &s
		order = append(order, s.ID)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate sessions: %w", err)
	}

	if err := a.loadBreaks(ctx, q, sessionsByID); err != nil {
		return err
	}

	for _, id := range order {
		s := sessionsByID[id]
		rec := records[s.RecordID]
		rec.Sessions = append(rec.Sessions, *s)
	}
	return nil
}

// loadBreaks attaches breaks to the given sessions, oldest first.
func (a *attendanceRepository) loadBreaks(ctx context.Context, q database.Querier, sessions map[string]*attendance.Session) error {
	if len(sessions) == 0 {
		return nil
	}

	sessionIDs := make([]string, 0, len(sessions))
	for id := range sessions {
		sessionIDs = append(sessionIDs, id)
	}

	query := `
		SELECT id, session_id, start_time, end_time
		FROM session_breaks
		WHERE session_id = ANY($1)
		ORDER BY start_time
	`

	rows, err := q.Query(ctx, query, sessionIDs)
	if err != nil {
		return fmt.Errorf("failed to load breaks: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var b attendance.Break
		if err := rows.Scan(&b.ID, &b.SessionID, &b.StartTime, &b.EndTime); err != nil {
			return fmt.Errorf("failed to scan break: %w", err)
		}
		s := sessions[b.SessionID]
		s.Breaks = append(s.Breaks, b)
	}
	return rows.Err()
}

// CreateSession implements attendance.Repository.
func (a *attendanceRepository) CreateSession(ctx context.Context, s attendance.Session) (attendance.Session, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		INSERT INTO attendance_sessions (
			id, record_id, employee_id, work_date, check_in,
			work_location, location_details, status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		s.ID, s.RecordID, s.EmployeeID, s.WorkDate, s.CheckIn,
		s.WorkLocation, s.LocationDetails, s.Status,
	).Scan(&s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return attendance.Session{}, attendance.ErrAlreadyClockedIn
		}
		return attendance.Session{}, fmt.Errorf("failed to create session: %w", err)
	}

	return s, nil
}

// GetOpenSession implements attendance.Repository.
func (a *attendanceRepository) GetOpenSession(ctx context.Context, employeeID string) (*attendance.Session, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT ` + sessionColumns + `
		FROM attendance_sessions
		WHERE employee_id = $1
		  AND status <> 'completed'
		ORDER BY check_in DESC
		LIMIT 1
	`

	var s attendance.Session
	err := q.QueryRow(ctx, query, employeeID).Scan(
		&s.ID, &s.RecordID, &s.EmployeeID, &s.WorkDate, &s.CheckIn, &s.CheckOut,
		&s.WorkLocation, &s.LocationDetails, &s.TotalBreakMinutes, &s.WorkedMinutes, &s.Status,
		&s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get open session: %w", err)
	}

	if err := a.loadBreaks(ctx, q, map[string]*attendance.Session{s.ID: &s}); err != nil {
		return nil, err
	}

	return &s, nil
}

// UpdateSession implements attendance.Repository.
func (a *attendanceRepository) UpdateSession(ctx context.Context, s attendance.Session) error {
	q := GetQuerier(ctx, a.db)

	query := `
		UPDATE attendance_sessions
		SET check_out = $1,
			status = $2,
			total_break_minutes = $3,
			worked_minutes = $4,
			updated_at = now()
		WHERE id = $5
	`

	tag, err := q.Exec(ctx, query, s.CheckOut, s.Status, s.TotalBreakMinutes, s.WorkedMinutes, s.ID)
	if err != nil {
		return fmt.Errorf("failed to update session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("session %s not found", s.ID)
	}

	return nil
}

// OpenBreak implements attendance.Repository.
func (a *attendanceRepository) OpenBreak(ctx context.Context, b attendance.Break) (attendance.Break, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		INSERT INTO session_breaks (id, session_id, start_time)
		VALUES ($1, $2, $3)
	`

	if _, err := q.Exec(ctx, query, b.ID, b.SessionID, b.StartTime); err != nil {
		if database.IsUniqueViolation(err) {
			return attendance.Break{}, attendance.ErrAlreadyOnBreak
		}
		return attendance.Break{}, fmt.Errorf("failed to open break: %w", err)
	}

	return b, nil
}

// CloseBreak implements attendance.Repository.
func (a *attendanceRepository) CloseBreak(ctx context.Context, sessionID string, end time.Time) (attendance.Break, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		UPDATE session_breaks
		SET end_time = $2
		WHERE session_id = $1
		  AND end_time IS NULL
		RETURNING id, session_id, start_time, end_time
	`

	var b attendance.Break
	err := q.QueryRow(ctx, query, sessionID, end).Scan(&b.ID, &b.SessionID, &b.StartTime, &b.EndTime)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Break{}, attendance.ErrNotOnBreak
		}
		return attendance.Break{}, fmt.Errorf("failed to close break: %w", err)
	}

	return b, nil
}

// ListOpenSessions implements attendance.Repository.
func (a *attendanceRepository) ListOpenSessions(ctx context.Context) ([]attendance.Session, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT s.id, s.record_id, s.employee_id, s.work_date, s.check_in, s.check_out,
			   s.work_location, s.location_details, s.total_break_minutes, s.worked_minutes, s.status,
			   s.created_at, s.updated_at, e.full_name
		FROM attendance_sessions s
		JOIN employees e ON e.id = s.employee_id
		WHERE s.status <> 'completed'
		ORDER BY s.check_in
	`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list open sessions: %w", err)
	}
	defer rows.Close()

	byID := make(map[string]*attendance.Session)
	var order []string
	for rows.Next() {
		var s attendance.Session
		err := rows.Scan(
			&s.ID, &s.RecordID, &s.EmployeeID, &s.WorkDate, &s.CheckIn, &s.CheckOut,
			&s.WorkLocation, &s.LocationDetails, &s.TotalBreakMinutes, &s.WorkedMinutes, &s.Status,
			&s.CreatedAt, &s.UpdatedAt, &s.EmployeeName,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan open session: %w", err)
		}
		byID[s.ID] = &s
		order = append(order, s.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate open sessions: %w", err)
	}

	if err := a.loadBreaks(ctx, q, byID); err != nil {
		return nil, err
	}

	sessions := make([]attendance.Session, 0, len(order))
	for _, id := range order {
		sessions = append(sessions, *byID[id])
	}
	return sessions, nil
}

// List implements attendance.Repository.
func (a *attendanceRepository) List(ctx context.Context, filter attendance.RecordFilter) ([]attendance.Record, int64, error) {
	q := GetQuerier(ctx, a.db)

	conditions := []string{"1=1"}
	args := []interface{}{}
	argPos := 1

	if filter.EmployeeID != nil && *filter.EmployeeID != "" {
		conditions = append(conditions, fmt.Sprintf("r.employee_id = $%d", argPos))
		args = append(args, *filter.EmployeeID)
		argPos++
	}
	if filter.Status != nil && *filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("r.status = $%d", argPos))
		args = append(args, *filter.Status)
		argPos++
	}
	if filter.StartDate != nil && *filter.StartDate != "" {
		conditions = append(conditions, fmt.Sprintf("r.work_date >= $%d", argPos))
		args = append(args, *filter.StartDate)
		argPos++
	}
	if filter.EndDate != nil && *filter.EndDate != "" {
		conditions = append(conditions, fmt.Sprintf("r.work_date <= $%d", argPos))
		args = append(args, *filter.EndDate)
		argPos++
	}

	where := strings.Join(conditions, " AND ")

	countQuery := `SELECT COUNT(*) FROM attendance_records r WHERE ` + where
	var total int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count attendance records: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT r.id, r.employee_id, r.work_date, r.worked_minutes, r.break_minutes,
			   r.late_minutes, r.early_exit_minutes, r.overtime_minutes, r.status, r.status_reason,
			   r.correction_requested, r.source, r.created_by, r.updated_by, r.created_at, r.updated_at,
			   e.full_name
		FROM attendance_records r
		JOIN employees e ON e.id = r.employee_id
		WHERE %s
		ORDER BY r.work_date DESC, e.full_name
		LIMIT $%d OFFSET $%d
	`, where, argPos, argPos+1)
	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list attendance records: %w", err)
	}
	defer rows.Close()

	var records []attendance.Record
	for rows.Next() {
		var rec attendance.Record
		err := rows.Scan(
			&rec.ID, &rec.EmployeeID, &rec.WorkDate, &rec.WorkedMinutes, &rec.BreakMinutes,
			&rec.LateMinutes, &rec.EarlyExitMinutes, &rec.OvertimeMinutes, &rec.Status, &rec.StatusReason,
			&rec.CorrectionRequested, &rec.Source, &rec.CreatedBy, &rec.UpdatedBy, &rec.CreatedAt, &rec.UpdatedAt,
			&rec.EmployeeName,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan attendance record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate attendance records: %w", err)
	}

	return records, total, nil
}

// MonthlySummary implements attendance.Repository.
func (a *attendanceRepository) MonthlySummary(ctx context.Context, employeeID string, from, to time.Time) (attendance.MonthlySummaryResponse, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT
			COUNT(*) FILTER (WHERE status = 'present'),
			COUNT(*) FILTER (WHERE status = 'half_day'),
			COUNT(*) FILTER (WHERE status = 'absent'),
			COUNT(*) FILTER (WHERE status = 'holiday'),
			COUNT(*) FILTER (WHERE status = 'weekend'),
			COUNT(*) FILTER (WHERE status = 'pending_correction'),
			COUNT(*) FILTER (WHERE late_minutes > 0),
			COALESCE(SUM(worked_minutes), 0),
			COALESCE(SUM(overtime_minutes), 0)
		FROM attendance_records
		WHERE employee_id = $1
		  AND work_date >= $2
		  AND work_date < $3
	`

	var summary attendance.MonthlySummaryResponse
	err := q.QueryRow(ctx, query, employeeID, from, to).Scan(
		&summary.PresentDays, &summary.HalfDays, &summary.AbsentDays,
		&summary.HolidayDays, &summary.WeekendDays, &summary.PendingCorrection,
		&summary.LateDays, &summary.WorkedMinutes, &summary.OvertimeMinutes,
	)
	if err != nil {
		return attendance.MonthlySummaryResponse{}, fmt.Errorf("failed to aggregate monthly summary: %w", err)
	}

	return summary, nil
}
