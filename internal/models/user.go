package models

import (
	"time"
)

// User is keyed by login e-mail, e.g. "jane@example.com".
type User struct {
	ID           string    `gorm:"primaryKey;size:140" json:"name"`
	Email        string    `gorm:"uniqueIndex;size:255;not null" json:"email"`
	FirstName    string    `gorm:"size:140" json:"first_name"`
	FullName     string    `gorm:"size:255" json:"full_name"`
	UserImage    string    `gorm:"size:512" json:"user_image"`
	PasswordHash string    `gorm:"size:255" json:"-"`
	Enabled      bool      `gorm:"not null;index" json:"enabled"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	Roles    []UserRole `gorm:"foreignKey:UserID" json:"-"`
	Employee *Employee  `gorm:"foreignKey:UserID" json:"employee,omitempty"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) RoleNames() []string {
	names := make([]string, 0, len(u.Roles))
	for _, r := range u.Roles {
		names = append(names, r.Role)
	}
	return names
}

type UserRole struct {
	ID     uint   `gorm:"primaryKey" json:"-"`
	UserID string `gorm:"size:140;not null;index:idx_user_role,unique" json:"-"`
	Role   string `gorm:"size:140;not null;index:idx_user_role,unique;index" json:"role"`
}

func (UserRole) TableName() string {
	return "user_roles"
}
