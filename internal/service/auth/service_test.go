package auth

import (
	"context"
	"testing"

	"github.com/Nikul55640/HRM-System-sub001/internal/domain/employee"
	"github.com/Nikul55640/HRM-System-sub001/internal/pkg/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type fakeEmployeeRepo struct {
	byCode map[string]employee.Employee
}

func (f *fakeEmployeeRepo) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	panic("not used")
}

func (f *fakeEmployeeRepo) GetByCode(ctx context.Context, code string) (employee.Employee, error) {
	emp, ok := f.byCode[code]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return emp, nil
}

func (f *fakeEmployeeRepo) ListActiveIDs(ctx context.Context) ([]string, error) {
	panic("not used")
}

func kioskFixture(t *testing.T) (Service, *fakeEmployeeRepo) {
	t.Helper()
	repo := &fakeEmployeeRepo{byCode: make(map[string]employee.Employee)}
	jwtService := jwt.NewJWTService("test-secret-key-for-jwt", "1h")
	return NewService(repo, jwtService), repo
}

func seedEmployee(t *testing.T, repo *fakeEmployeeRepo, code, pin string, active bool) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
	require.NoError(t, err)
	hashStr := string(hash)
	repo.byCode[code] = employee.Employee{
		ID:           "emp-" + code,
		EmployeeCode: code,
		FullName:     "Test Employee",
		Role:         employee.RoleEmployee,
		Active:       active,
		KioskPINHash: &hashStr,
	}
}

func TestKioskLogin_Success(t *testing.T) {
	svc, repo := kioskFixture(t)
	seedEmployee(t, repo, "2024-0042", "4321", true)

	resp, err := svc.KioskLogin(context.Background(), employee.KioskLoginRequest{
		EmployeeCode: "2024-0042",
		PIN:          "4321",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, "emp-2024-0042", resp.EmployeeID)
	assert.Equal(t, string(employee.RoleEmployee), resp.Role)
	assert.Greater(t, resp.ExpiresAt, int64(0))
}

func TestKioskLogin_WrongPIN(t *testing.T) {
	svc, repo := kioskFixture(t)
	seedEmployee(t, repo, "2024-0042", "4321", true)

	_, err := svc.KioskLogin(context.Background(), employee.KioskLoginRequest{
		EmployeeCode: "2024-0042",
		PIN:          "9999",
	})
	assert.ErrorIs(t, err, employee.ErrInvalidCredentials)
}

func TestKioskLogin_UnknownCodeLooksLikeBadCredentials(t *testing.T) {
	svc, _ := kioskFixture(t)

	_, err := svc.KioskLogin(context.Background(), employee.KioskLoginRequest{
		EmployeeCode: "2024-9999",
		PIN:          "4321",
	})
	assert.ErrorIs(t, err, employee.ErrInvalidCredentials)
}

func TestKioskLogin_InactiveEmployee(t *testing.T) {
	svc, repo := kioskFixture(t)
	seedEmployee(t, repo, "2024-0042", "4321", false)

	_, err := svc.KioskLogin(context.Background(), employee.KioskLoginRequest{
		EmployeeCode: "2024-0042",
		PIN:          "4321",
	})
	assert.ErrorIs(t, err, employee.ErrEmployeeInactive)
}

func TestKioskLogin_MalformedInput(t *testing.T) {
	svc, _ := kioskFixture(t)

	_, err := svc.KioskLogin(context.Background(), employee.KioskLoginRequest{
		EmployeeCode: "bad",
		PIN:          "12",
	})
	assert.Error(t, err)
}
