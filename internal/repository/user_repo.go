package repository

import (
	"context"
	"errors"

	"geolog/internal/domain"
	"geolog/internal/models"

	"gorm.io/gorm"
)

// UserRepository reads the identity directory: users, their roles and the
// linked employee record.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, u *models.User) error {
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	var u models.User
	err := r.db.WithContext(ctx).Preload("Roles").Preload("Employee").First(&u, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	err := r.db.WithContext(ctx).Preload("Roles").Where("email = ?", email).First(&u).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) Roles(ctx context.Context, userID string) ([]string, error) {
	var roles []string
	err := r.db.WithContext(ctx).Model(&models.UserRole{}).Where("user_id = ?", userID).Order("role").Pluck("role", &roles).Error
	return roles, err
}

func (r *UserRepository) AddRoles(ctx context.Context, userID string, roles ...string) error {
	for _, role := range roles {
		ur := models.UserRole{UserID: userID, Role: role}
		if err := r.db.WithContext(ctx).Where(ur).FirstOrCreate(&ur).Error; err != nil {
			return err
		}
	}
	return nil
}

func (r *UserRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.User{}).Count(&n).Error
	return n, err
}

// Profile is the denormalised view used to enrich location rows.
type Profile struct {
	UserID       string `json:"user_id"`
	FullName     string `json:"full_name"`
	Avatar       string `json:"avatar"`
	EmployeeName string `json:"employee_name"`
	Designation  string `json:"designation"`
	Department   string `json:"department"`
}

const profileSelect = `u.id AS user_id, u.full_name, u.user_image AS avatar,
	e.employee_name, e.designation, e.department`

// GetProfile returns gorm.ErrRecordNotFound when the user does not exist.
func (r *UserRepository) GetProfile(ctx context.Context, userID string) (*Profile, error) {
	var rows []Profile
	err := r.db.WithContext(ctx).
		Table("users AS u").
		Select(profileSelect).
		Joins("LEFT JOIN employees e ON e.user_id = u.id").
		Where("u.id = ?", userID).
		Limit(1).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &rows[0], nil
}

// TrackableUsers lists enabled users other than Guest, ordered by name.
func (r *UserRepository) TrackableUsers(ctx context.Context) ([]Profile, error) {
	var rows []Profile
	err := r.db.WithContext(ctx).
		Table("users AS u").
		Select(profileSelect).
		Joins("LEFT JOIN employees e ON e.user_id = u.id").
		Where("u.enabled = ? AND u.id <> ?", true, domain.GuestUser).
		Order("u.full_name ASC, u.id ASC").
		Scan(&rows).Error
	return rows, err
}

type EmployeeRepository struct {
	db *gorm.DB
}

func NewEmployeeRepository(db *gorm.DB) *EmployeeRepository {
	return &EmployeeRepository{db: db}
}

// GetByUserID returns nil, nil when the user has no employee record.
func (r *EmployeeRepository) GetByUserID(ctx context.Context, userID string) (*models.Employee, error) {
	var e models.Employee
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&e).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}
