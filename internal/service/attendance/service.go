package attendance

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Nikul55640/HRM-System-sub001/internal/domain/attendance"
	"github.com/Nikul55640/HRM-System-sub001/internal/domain/audit"
	"github.com/Nikul55640/HRM-System-sub001/internal/domain/notification"
	"github.com/Nikul55640/HRM-System-sub001/internal/domain/shift"
	"github.com/Nikul55640/HRM-System-sub001/internal/pkg/database"
	"github.com/Nikul55640/HRM-System-sub001/internal/repository/postgresql"
	"github.com/go-chi/jwtauth/v5"
	"github.com/google/uuid"
)

type ServiceImpl struct {
	db *database.DB
	attendance.Repository
	shiftRepo shift.Repository
	notifier  notification.Notifier
	auditor   audit.Recorder
	loc       *time.Location
	now       func() time.Time
}

func NewService(
	db *database.DB,
	attendanceRepo attendance.Repository,
	shiftRepo shift.Repository,
	notifier notification.Notifier,
	auditor audit.Recorder,
	loc *time.Location,
) attendance.Service {
	return &ServiceImpl{
		db:         db,
		Repository: attendanceRepo,
		shiftRepo:  shiftRepo,
		notifier:   notifier,
		auditor:    auditor,
		loc:        loc,
		now:        time.Now,
	}
}

// inTransaction runs fn with its repository calls joined into one database
// transaction via the querier on fn's context. A nil pool runs fn as-is.
func (a *ServiceImpl) inTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if a.db == nil {
		return fn(ctx)
	}
	return postgresql.WithTransaction(ctx, a.db, fn)
}

// employeeIDFromClaims extracts the acting employee from the request token.
func employeeIDFromClaims(ctx context.Context) (string, error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to extract claims from context: %w", err)
	}

	employeeID, ok := claims["employee_id"].(string)
	if !ok || employeeID == "" {
		return "", fmt.Errorf("employee_id claim is missing or invalid")
	}
	return employeeID, nil
}

// timePtrToString safely converts a *time.Time to an RFC 3339 string in loc.
func timePtrToString(t *time.Time, loc *time.Location) *string {
	if t == nil {
		return nil
	}
	formatted := t.In(loc).Format(time.RFC3339)
	return &formatted
}

// workDate truncates a local time to its calendar day. Dates are stored at
// midnight UTC so they compare bit-for-bit regardless of company timezone.
func workDate(local time.Time) time.Time {
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
}

// StartSession implements attendance.Service.
func (a *ServiceImpl) StartSession(ctx context.Context, req attendance.StartSessionRequest) (attendance.SessionResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.SessionResponse{}, attendance.ErrInvalidLocation
	}

	employeeID, err := employeeIDFromClaims(ctx)
	if err != nil {
		return attendance.SessionResponse{}, err
	}

	nowUTC := a.now().UTC()
	nowLocal := nowUTC.In(a.loc)
	date := workDate(nowLocal)

	// Friendly pre-check so the common double-punch gets an actionable
	// message; the unique index below remains the real guard.
	if open, err := a.Repository.GetOpenSession(ctx, employeeID); err != nil {
		return attendance.SessionResponse{}, fmt.Errorf("failed to check for open session: %w", err)
	} else if open != nil {
		return attendance.SessionResponse{}, fmt.Errorf("%w (clocked in at %s)",
			attendance.ErrAlreadyClockedIn, open.CheckIn.In(a.loc).Format("15:04"))
	}

	// The day record and its first session land together: an error between
	// the two writes must not leave a reopened record with no session.
	var session attendance.Session
	err = a.inTransaction(ctx, func(ctx context.Context) error {
		rec, err := a.Repository.UpsertRecord(ctx, attendance.Record{
			ID:         uuid.Must(uuid.NewV7()).String(),
			EmployeeID: employeeID,
			WorkDate:   date,
			Status:     attendance.StatusInProgress,
			Source:     attendance.SourceSelf,
			CreatedBy:  &employeeID,
		})
		if err != nil {
			return fmt.Errorf("failed to upsert day record: %w", err)
		}

		session = attendance.Session{
			ID:              uuid.Must(uuid.NewV7()).String(),
			RecordID:        rec.ID,
			EmployeeID:      employeeID,
			WorkDate:        date,
			CheckIn:         nowUTC,
			WorkLocation:    attendance.WorkLocation(req.WorkLocation),
			LocationDetails: req.LocationDetails,
			Status:          attendance.SessionActive,
		}

		session, err = a.Repository.CreateSession(ctx, session)
		if err != nil {
			if database.IsUniqueViolation(err) {
				return attendance.ErrAlreadyClockedIn
			}
			return fmt.Errorf("failed to create session: %w", err)
		}
		return nil
	})
	if err != nil {
		return attendance.SessionResponse{}, err
	}

	a.emitClockEvent(ctx, employeeID, session, notification.EventClockIn, nowUTC)
	a.writeAudit(ctx, employeeID, "attendance.clock_in", map[string]interface{}{
		"session_id":    session.ID,
		"work_date":     date.Format("2006-01-02"),
		"work_location": req.WorkLocation,
	})

	return a.toSessionResponse(session), nil
}

// EndSession implements attendance.Service.
func (a *ServiceImpl) EndSession(ctx context.Context) (attendance.SessionResponse, error) {
	employeeID, err := employeeIDFromClaims(ctx)
	if err != nil {
		return attendance.SessionResponse{}, err
	}

	open, err := a.Repository.GetOpenSession(ctx, employeeID)
	if err != nil {
		return attendance.SessionResponse{}, fmt.Errorf("failed to get open session: %w", err)
	}
	if open == nil {
		return attendance.SessionResponse{}, attendance.ErrNoActiveSession
	}
	if open.Status == attendance.SessionOnBreak {
		return attendance.SessionResponse{}, attendance.ErrCannotClockOutOnBreak
	}

	nowUTC := a.now().UTC()
	worked := int(nowUTC.Sub(open.CheckIn).Minutes()) - open.TotalBreakMinutes
	if worked < 0 {
		worked = 0
	}

	open.CheckOut = &nowUTC
	open.WorkedMinutes = &worked
	open.Status = attendance.SessionCompleted

	// The session close and the day record's running totals commit together;
	// the terminal status is still the finalizer's call.
	err = a.inTransaction(ctx, func(ctx context.Context) error {
		if err := a.Repository.UpdateSession(ctx, *open); err != nil {
			return fmt.Errorf("failed to close session: %w", err)
		}
		if err := a.refreshRecordAggregates(ctx, employeeID, open.WorkDate); err != nil {
			return fmt.Errorf("failed to refresh day record: %w", err)
		}
		return nil
	})
	if err != nil {
		return attendance.SessionResponse{}, err
	}

	a.emitClockEvent(ctx, employeeID, *open, notification.EventClockOut, nowUTC)
	a.writeAudit(ctx, employeeID, "attendance.clock_out", map[string]interface{}{
		"session_id":     open.ID,
		"work_date":      open.WorkDate.Format("2006-01-02"),
		"worked_minutes": worked,
	})

	return a.toSessionResponse(*open), nil
}

// StartBreak implements attendance.Service.
func (a *ServiceImpl) StartBreak(ctx context.Context) (attendance.SessionResponse, error) {
	employeeID, err := employeeIDFromClaims(ctx)
	if err != nil {
		return attendance.SessionResponse{}, err
	}

	open, err := a.Repository.GetOpenSession(ctx, employeeID)
	if err != nil {
		return attendance.SessionResponse{}, fmt.Errorf("failed to get open session: %w", err)
	}
	if open == nil {
		return attendance.SessionResponse{}, attendance.ErrNoActiveSession
	}
	if open.Status == attendance.SessionOnBreak {
		return attendance.SessionResponse{}, attendance.ErrAlreadyOnBreak
	}

	// The shift's break allowance covers the whole day, not just this
	// session.
	cfg, err := a.shiftRepo.GetActiveForEmployee(ctx, employeeID, open.WorkDate)
	if err != nil {
		return attendance.SessionResponse{}, fmt.Errorf("failed to resolve shift: %w", err)
	}
	if cfg != nil && cfg.MaxBreakMinutes > 0 {
		taken := open.TotalBreakMinutes
		if rec, err := a.Repository.GetRecord(ctx, employeeID, open.WorkDate); err != nil {
			return attendance.SessionResponse{}, fmt.Errorf("failed to load day record: %w", err)
		} else if rec != nil {
			taken = 0
			for i := range rec.Sessions {
				taken += rec.Sessions[i].TotalBreakMinutes
			}
		}
		if taken >= cfg.MaxBreakMinutes {
			return attendance.SessionResponse{}, fmt.Errorf("%w (%d of %d minutes used)",
				attendance.ErrBreakLimitExceeded, taken, cfg.MaxBreakMinutes)
		}
	}

	nowUTC := a.now().UTC()
	b, err := a.Repository.OpenBreak(ctx, attendance.Break{
		ID:        uuid.Must(uuid.NewV7()).String(),
		SessionID: open.ID,
		StartTime: nowUTC,
	})
	if err != nil {
		if database.IsUniqueViolation(err) {
			return attendance.SessionResponse{}, attendance.ErrAlreadyOnBreak
		}
		return attendance.SessionResponse{}, fmt.Errorf("failed to open break: %w", err)
	}

	open.Status = attendance.SessionOnBreak
	open.Breaks = append(open.Breaks, b)
	if err := a.Repository.UpdateSession(ctx, *open); err != nil {
		return attendance.SessionResponse{}, fmt.Errorf("failed to mark session on break: %w", err)
	}

	a.emitClockEvent(ctx, employeeID, *open, notification.EventBreakStart, nowUTC)

	return a.toSessionResponse(*open), nil
}

// EndBreak implements attendance.Service.
func (a *ServiceImpl) EndBreak(ctx context.Context) (attendance.SessionResponse, error) {
	employeeID, err := employeeIDFromClaims(ctx)
	if err != nil {
		return attendance.SessionResponse{}, err
	}

	open, err := a.Repository.GetOpenSession(ctx, employeeID)
	if err != nil {
		return attendance.SessionResponse{}, fmt.Errorf("failed to get open session: %w", err)
	}
	if open == nil {
		return attendance.SessionResponse{}, attendance.ErrNoActiveSession
	}
	if open.Status != attendance.SessionOnBreak {
		return attendance.SessionResponse{}, attendance.ErrNotOnBreak
	}

	nowUTC := a.now().UTC()
	closed, err := a.Repository.CloseBreak(ctx, open.ID, nowUTC)
	if err != nil {
		return attendance.SessionResponse{}, fmt.Errorf("failed to close break: %w", err)
	}

	open.TotalBreakMinutes += closed.Minutes()
	open.Status = attendance.SessionActive
	for i := range open.Breaks {
		if open.Breaks[i].ID == closed.ID {
			open.Breaks[i] = closed
		}
	}
	if err := a.Repository.UpdateSession(ctx, *open); err != nil {
		return attendance.SessionResponse{}, fmt.Errorf("failed to resume session: %w", err)
	}

	a.emitClockEvent(ctx, employeeID, *open, notification.EventBreakEnd, nowUTC)

	return a.toSessionResponse(*open), nil
}

// GetActiveSession implements attendance.Service.
func (a *ServiceImpl) GetActiveSession(ctx context.Context) (*attendance.SessionResponse, error) {
	employeeID, err := employeeIDFromClaims(ctx)
	if err != nil {
		return nil, err
	}

	open, err := a.Repository.GetOpenSession(ctx, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to get open session: %w", err)
	}
	if open == nil {
		return nil, nil
	}

	resp := a.toSessionResponse(*open)
	return &resp, nil
}

// GetMyRecords implements attendance.Service.
func (a *ServiceImpl) GetMyRecords(ctx context.Context, filter attendance.RecordFilter) (attendance.ListRecordsResponse, error) {
	employeeID, err := employeeIDFromClaims(ctx)
	if err != nil {
		return attendance.ListRecordsResponse{}, err
	}

	filter.EmployeeID = &employeeID
	return a.ListRecords(ctx, filter)
}

// ListRecords implements attendance.Service.
func (a *ServiceImpl) ListRecords(ctx context.Context, filter attendance.RecordFilter) (attendance.ListRecordsResponse, error) {
	if err := filter.Validate(); err != nil {
		return attendance.ListRecordsResponse{}, err
	}

	records, total, err := a.Repository.List(ctx, filter)
	if err != nil {
		return attendance.ListRecordsResponse{}, fmt.Errorf("failed to list records: %w", err)
	}

	resp := attendance.ListRecordsResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: int((total + int64(filter.Limit) - 1) / int64(filter.Limit)),
		Records:    make([]attendance.RecordResponse, 0, len(records)),
	}
	for i := range records {
		resp.Records = append(resp.Records, a.toRecordResponse(records[i]))
	}
	return resp, nil
}

// ListLiveSessions implements attendance.Service.
func (a *ServiceImpl) ListLiveSessions(ctx context.Context) ([]attendance.LiveSessionResponse, error) {
	sessions, err := a.Repository.ListOpenSessions(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list open sessions: %w", err)
	}

	resp := make([]attendance.LiveSessionResponse, 0, len(sessions))
	for i := range sessions {
		name := ""
		if sessions[i].EmployeeName != nil {
			name = *sessions[i].EmployeeName
		}
		resp = append(resp, attendance.LiveSessionResponse{
			SessionResponse: a.toSessionResponse(sessions[i]),
			EmployeeName:    name,
		})
	}
	return resp, nil
}

// MonthlySummary implements attendance.Service.
func (a *ServiceImpl) MonthlySummary(ctx context.Context, req attendance.SummaryRequest) (attendance.MonthlySummaryResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.MonthlySummaryResponse{}, err
	}

	from, _ := time.Parse("2006-01", req.Month)
	to := from.AddDate(0, 1, 0)

	summary, err := a.Repository.MonthlySummary(ctx, req.EmployeeID, from, to)
	if err != nil {
		return attendance.MonthlySummaryResponse{}, fmt.Errorf("failed to build monthly summary: %w", err)
	}

	summary.EmployeeID = req.EmployeeID
	summary.Month = req.Month
	return summary, nil
}

// refreshRecordAggregates recomputes worked/break totals from the record's
// sessions after a clock-out.
func (a *ServiceImpl) refreshRecordAggregates(ctx context.Context, employeeID string, date time.Time) error {
	rec, err := a.Repository.GetRecord(ctx, employeeID, date)
	if err != nil {
		return err
	}
	if rec == nil {
		return attendance.ErrRecordNotFound
	}
	if rec.Status.Terminal() {
		return nil
	}

	worked, breaks := 0, 0
	for i := range rec.Sessions {
		if rec.Sessions[i].WorkedMinutes != nil {
			worked += *rec.Sessions[i].WorkedMinutes
		}
		breaks += rec.Sessions[i].TotalBreakMinutes
	}
	rec.WorkedMinutes = worked
	rec.BreakMinutes = breaks
	rec.UpdatedBy = &employeeID

	return a.Repository.UpdateRecord(ctx, *rec)
}

// emitClockEvent delivers the punch to the notifier; failures are logged and
// never surface to the caller.
func (a *ServiceImpl) emitClockEvent(ctx context.Context, employeeID string, s attendance.Session, kind notification.EventKind, at time.Time) {
	event := notification.ClockEvent{
		EmployeeID:   employeeID,
		SessionID:    s.ID,
		Kind:         kind,
		At:           at,
		WorkLocation: string(s.WorkLocation),
	}
	if err := a.notifier.NotifyClockEvent(ctx, event); err != nil {
		slog.Warn("Clock event notification failed",
			"employee_id", employeeID, "kind", kind, "error", err)
	}
}

func (a *ServiceImpl) writeAudit(ctx context.Context, actor, action string, meta map[string]interface{}) {
	err := a.auditor.Record(ctx, audit.Entry{
		Action: action,
		Actor:  actor,
		Entity: "attendance",
		Meta:   meta,
	})
	if err != nil {
		slog.Warn("Audit write failed", "action", action, "actor", actor, "error", err)
	}
}

func (a *ServiceImpl) toSessionResponse(s attendance.Session) attendance.SessionResponse {
	resp := attendance.SessionResponse{
		ID:                s.ID,
		EmployeeID:        s.EmployeeID,
		Date:              s.WorkDate.Format("2006-01-02"),
		CheckIn:           s.CheckIn.In(a.loc).Format(time.RFC3339),
		CheckOut:          timePtrToString(s.CheckOut, a.loc),
		WorkLocation:      string(s.WorkLocation),
		LocationDetails:   s.LocationDetails,
		Status:            string(s.Status),
		TotalBreakMinutes: s.TotalBreakMinutes,
		WorkedMinutes:     s.WorkedMinutes,
	}
	if s.Status == attendance.SessionOnBreak {
		for i := range s.Breaks {
			if s.Breaks[i].EndTime == nil {
				resp.OnBreakSince = timePtrToString(&s.Breaks[i].StartTime, a.loc)
			}
		}
	}
	return resp
}

func (a *ServiceImpl) toRecordResponse(rec attendance.Record) attendance.RecordResponse {
	resp := attendance.RecordResponse{
		ID:                  rec.ID,
		EmployeeID:          rec.EmployeeID,
		EmployeeName:        rec.EmployeeName,
		Date:                rec.WorkDate.Format("2006-01-02"),
		WorkedMinutes:       rec.WorkedMinutes,
		BreakMinutes:        rec.BreakMinutes,
		LateMinutes:         rec.LateMinutes,
		EarlyExitMinutes:    rec.EarlyExitMinutes,
		OvertimeMinutes:     rec.OvertimeMinutes,
		IsLate:              rec.LateMinutes > 0,
		IsEarlyDeparture:    rec.EarlyExitMinutes > 0,
		Status:              string(rec.Status),
		StatusReason:        rec.StatusReason,
		CorrectionRequested: rec.CorrectionRequested,
		Source:              string(rec.Source),
	}
	for i := range rec.Sessions {
		resp.Sessions = append(resp.Sessions, a.toSessionResponse(rec.Sessions[i]))
	}
	return resp
}
