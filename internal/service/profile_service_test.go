package service_test

import (
	"testing"

	"geolog/internal/domain"
	"geolog/internal/repository"
	"geolog/internal/service"
	"geolog/internal/testutil"
)

func TestProfileService(t *testing.T) {
	db := testutil.NewDB(t)
	testutil.SeedUser(t, db, "jane@example.com", "Jane Doe", "Sales", domain.RoleEmployee)
	testutil.SeedUser(t, db, "raj@example.com", "Raj", "", domain.RoleEmployee)
	svc := service.NewProfileService(repository.NewUserRepository(db), repository.NewEmployeeRepository(db), nil)
	jane := domain.RequestContext{Principal: &domain.Principal{UserID: "jane@example.com", Roles: []string{domain.RoleEmployee}}}
	raj := domain.RequestContext{Principal: &domain.Principal{UserID: "raj@example.com"}}

	info, err := svc.CurrentUser(testutil.Ctx(t), jane)
	if err != nil {
		t.Fatalf("current user: %v", err)
	}
	if info.Name != "jane@example.com" || info.FullName != "Jane Doe" || info.CanViewAll {
		t.Errorf("info = %+v", info)
	}
	if info.Employee == nil || info.Employee.Department != "Sales" {
		t.Errorf("employee = %+v", info.Employee)
	}
	if len(info.Roles) != 1 || info.Roles[0] != domain.RoleEmployee {
		t.Errorf("roles = %v", info.Roles)
	}

	emp, err := svc.Employee(testutil.Ctx(t), jane)
	if err != nil || emp.Name != "EMP-jane@example.com" || emp.Company != "Acme" {
		t.Errorf("employee = %+v, %v", emp, err)
	}
	if _, err := svc.Employee(testutil.Ctx(t), raj); domain.KindOf(err) != domain.KindNotFound {
		t.Errorf("missing employee err = %v", err)
	}
	if _, err := svc.CurrentUser(testutil.Ctx(t), domain.RequestContext{}); domain.KindOf(err) != domain.KindUnauthenticated {
		t.Errorf("anonymous err = %v", err)
	}
}
