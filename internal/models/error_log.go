package models

import "time"

// ErrorLog is the operational error channel: failures that were handled
// (degraded or reported as Internal) but that an operator should see.
type ErrorLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Title     string    `gorm:"size:140;not null;index" json:"title"`
	Message   string    `gorm:"type:text" json:"message"`
	UserID    string    `gorm:"size:140;index" json:"user_id"`
	RequestID string    `gorm:"size:64" json:"request_id"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

func (ErrorLog) TableName() string {
	return "error_logs"
}
