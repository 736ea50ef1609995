package http

import (
	"encoding/json"
	"net/http"

	"github.com/Nikul55640/HRM-System-sub001/internal/domain/employee"
	"github.com/Nikul55640/HRM-System-sub001/internal/handler/http/response"
	"github.com/Nikul55640/HRM-System-sub001/internal/service/auth"
)

type AuthHandler interface {
	KioskLogin(w http.ResponseWriter, r *http.Request)
}

type authHandlerImpl struct {
	authService auth.Service
}

func NewAuthHandler(authService auth.Service) AuthHandler {
	return &authHandlerImpl{
		authService: authService,
	}
}

// KioskLogin implements AuthHandler.
func (h *authHandlerImpl) KioskLogin(w http.ResponseWriter, r *http.Request) {
	var req employee.KioskLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.authService.KioskLogin(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Login successful", result)
}
