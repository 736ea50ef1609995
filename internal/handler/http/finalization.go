package http

import (
	"encoding/json"
	"net/http"

	"github.com/Nikul55640/HRM-System-sub001/internal/domain/correction"
	"github.com/Nikul55640/HRM-System-sub001/internal/handler/http/response"
	"github.com/Nikul55640/HRM-System-sub001/internal/pkg/validator"
	"github.com/Nikul55640/HRM-System-sub001/internal/service/finalization"
)

type FinalizationHandler interface {
	Run(w http.ResponseWriter, r *http.Request)
	RunRange(w http.ResponseWriter, r *http.Request)
	ListCorrections(w http.ResponseWriter, r *http.Request)
}

type finalizationHandlerImpl struct {
	job            *finalization.Job
	correctionRepo correction.Repository
}

func NewFinalizationHandler(job *finalization.Job, correctionRepo correction.Repository) FinalizationHandler {
	return &finalizationHandlerImpl{
		job:            job,
		correctionRepo: correctionRepo,
	}
}

type runRequest struct {
	Date string `json:"date"` // YYYY-MM-DD
}

type runRangeRequest struct {
	StartDate string `json:"start_date"` // YYYY-MM-DD
	EndDate   string `json:"end_date"`   // YYYY-MM-DD
}

// Run implements FinalizationHandler. Admin trigger for one date.
func (h *finalizationHandlerImpl) Run(w http.ResponseWriter, r *http.Request) {
	var req runRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	date, ok := validator.IsValidDate(req.Date)
	if !ok {
		response.ValidationError(w, map[string]string{"date": "date must be in YYYY-MM-DD format"})
		return
	}

	summary, err := h.job.RunForDate(r.Context(), date)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Finalization completed", summary)
}

// RunRange implements FinalizationHandler. Admin backfill over a date range.
func (h *finalizationHandlerImpl) RunRange(w http.ResponseWriter, r *http.Request) {
	var req runRangeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	details := map[string]string{}
	start, ok := validator.IsValidDate(req.StartDate)
	if !ok {
		details["start_date"] = "start_date must be in YYYY-MM-DD format"
	}
	end, ok := validator.IsValidDate(req.EndDate)
	if !ok {
		details["end_date"] = "end_date must be in YYYY-MM-DD format"
	}
	if len(details) > 0 {
		response.ValidationError(w, details)
		return
	}
	if end.Before(start) {
		response.BadRequest(w, "end_date must not be before start_date", nil)
		return
	}

	summaries, err := h.job.RunRange(r.Context(), start, end)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Range finalization completed", summaries)
}

// ListCorrections implements FinalizationHandler.
func (h *finalizationHandlerImpl) ListCorrections(w http.ResponseWriter, r *http.Request) {
	cases, err := h.correctionRepo.ListOpen(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, cases)
}
