package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/Nikul55640/HRM-System-sub001/internal/domain/employee"
	"github.com/Nikul55640/HRM-System-sub001/internal/pkg/jwt"
	"golang.org/x/crypto/bcrypt"
)

// Service authenticates kiosk punches: employee code plus PIN, exchanged
// for a short-lived access token.
type Service interface {
	KioskLogin(ctx context.Context, req employee.KioskLoginRequest) (employee.KioskLoginResponse, error)
}

type ServiceImpl struct {
	employeeRepo employee.Repository
	jwtService   jwt.Service
}

func NewService(employeeRepo employee.Repository, jwtService jwt.Service) Service {
	return &ServiceImpl{
		employeeRepo: employeeRepo,
		jwtService:   jwtService,
	}
}

// KioskLogin implements Service. Lookup failures and PIN mismatches both
// collapse to ErrInvalidCredentials so the kiosk cannot probe for valid
// employee codes.
func (s *ServiceImpl) KioskLogin(ctx context.Context, req employee.KioskLoginRequest) (employee.KioskLoginResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.KioskLoginResponse{}, err
	}

	emp, err := s.employeeRepo.GetByCode(ctx, req.EmployeeCode)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return employee.KioskLoginResponse{}, employee.ErrInvalidCredentials
		}
		return employee.KioskLoginResponse{}, fmt.Errorf("failed to look up employee: %w", err)
	}

	if !emp.Active {
		return employee.KioskLoginResponse{}, employee.ErrEmployeeInactive
	}
	if emp.KioskPINHash == nil {
		return employee.KioskLoginResponse{}, employee.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(*emp.KioskPINHash), []byte(req.PIN)); err != nil {
		return employee.KioskLoginResponse{}, employee.ErrInvalidCredentials
	}

	token, expiresAt, err := s.jwtService.GenerateAccessToken(emp.ID, emp.EmployeeCode, emp.Role)
	if err != nil {
		return employee.KioskLoginResponse{}, fmt.Errorf("failed to generate access token: %w", err)
	}

	return employee.KioskLoginResponse{
		AccessToken: token,
		ExpiresAt:   expiresAt,
		EmployeeID:  emp.ID,
		FullName:    emp.FullName,
		Role:        string(emp.Role),
	}, nil
}
