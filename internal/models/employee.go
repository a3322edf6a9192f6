package models

import "time"

type Employee struct {
	ID           string    `gorm:"primaryKey;size:140" json:"name"` // e.g. HR-EMP-00001
	UserID       string    `gorm:"size:140;uniqueIndex" json:"user_id"`
	EmployeeName string    `gorm:"size:255" json:"employee_name"`
	Designation  string    `gorm:"size:140" json:"designation"`
	Department   string    `gorm:"size:140" json:"department"`
	Company      string    `gorm:"size:140" json:"company"`
	Status       string    `gorm:"size:20;default:'Active'" json:"status"`
	CreatedAt    time.Time `json:"-"`
	UpdatedAt    time.Time `json:"-"`
}

func (Employee) TableName() string {
	return "employees"
}
