package service

import (
	"context"
	"errors"

	"geolog/internal/domain"
	"geolog/internal/models"

	"gorm.io/gorm"
)

type userLookup interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
}

type employeeLookup interface {
	GetByUserID(ctx context.Context, userID string) (*models.Employee, error)
}

// UserInfo is what the client needs to render the current user.
type UserInfo struct {
	Name       string           `json:"name"`
	FirstName  string           `json:"first_name"`
	FullName   string           `json:"full_name"`
	UserImage  string           `json:"user_image"`
	Roles      []string         `json:"roles"`
	CanViewAll bool             `json:"can_view_all"`
	Employee   *EmployeeSummary `json:"employee,omitempty"`
}

type EmployeeSummary struct {
	Name         string `json:"name"`
	EmployeeName string `json:"employee_name"`
	Designation  string `json:"designation"`
	Department   string `json:"department"`
	Company      string `json:"company"`
}

type ProfileService struct {
	users     userLookup
	employees employeeLookup
	errs      *ErrorChannel
}

func NewProfileService(users userLookup, employees employeeLookup, errs *ErrorChannel) *ProfileService {
	return &ProfileService{users: users, employees: employees, errs: errs}
}

func (s *ProfileService) CurrentUser(ctx context.Context, rc domain.RequestContext) (*UserInfo, error) {
	if !rc.Authenticated() {
		return nil, domain.Unauthenticated()
	}
	u, err := s.users.GetByID(ctx, rc.Principal.UserID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.NotFound("User not found")
	}
	if err != nil {
		s.errs.Report(ctx, rc, "Get User Info Error", err)
		return nil, domain.Internal("Failed to load user", err)
	}
	info := &UserInfo{
		Name:       u.ID,
		FirstName:  u.FirstName,
		FullName:   u.FullName,
		UserImage:  u.UserImage,
		Roles:      u.RoleNames(),
		CanViewAll: CanViewAll(rc.Principal),
	}
	if u.Employee != nil {
		info.Employee = summarize(u.Employee)
	}
	return info, nil
}

func (s *ProfileService) Employee(ctx context.Context, rc domain.RequestContext) (*EmployeeSummary, error) {
	if !rc.Authenticated() {
		return nil, domain.Unauthenticated()
	}
	e, err := s.employees.GetByUserID(ctx, rc.Principal.UserID)
	if err != nil {
		s.errs.Report(ctx, rc, "Get Employee Details Error", err)
		return nil, domain.Internal("Failed to load employee", err)
	}
	if e == nil {
		return nil, domain.NotFound("Employee record not found for the logged-in user")
	}
	return summarize(e), nil
}

func summarize(e *models.Employee) *EmployeeSummary {
	return &EmployeeSummary{
		Name:         e.ID,
		EmployeeName: e.EmployeeName,
		Designation:  e.Designation,
		Department:   e.Department,
		Company:      e.Company,
	}
}
